package election

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mirkobrombin/go-elect/v1/store"
)

func TestNewTokenUniquePerAttempt(t *testing.T) {
	a := NewToken("report_job")
	b := NewToken("report_job")
	if a == b {
		t.Fatal("tokens must be unique per attempt")
	}
	if !strings.HasPrefix(a, "report_job_") {
		t.Fatalf("token missing job prefix: %q", a)
	}
}

func TestSingleLeaderAmongRacingInstances(t *testing.T) {
	s := store.NewInMemory()
	ctx := context.Background()

	const instances = 3
	var leaders atomic.Int32
	var g errgroup.Group
	for i := 0; i < instances; i++ {
		e := NewElector(s, "report_job")
		g.Go(func() error {
			ok, err := e.TryAcquireLeadership(ctx)
			if err != nil {
				return err
			}
			if ok {
				leaders.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("election: %v", err)
	}
	if got := leaders.Load(); got != 1 {
		t.Fatalf("expected exactly one leader, got %d", got)
	}
}

func TestReleaseAfterTTLReassignmentIsNoOp(t *testing.T) {
	s := store.NewInMemory()
	ctx := context.Background()

	old := NewElector(s, "job", WithLeaderTTL(10*time.Millisecond))
	if ok, _ := old.TryAcquireLeadership(ctx); !ok {
		t.Fatal("first election failed")
	}
	time.Sleep(20 * time.Millisecond)

	successor := NewElector(s, "job")
	if ok, err := successor.TryAcquireLeadership(ctx); err != nil || !ok {
		t.Fatalf("takeover after expiry: ok %v err %v", ok, err)
	}

	released, err := old.ReleaseLeadership(ctx)
	if err != nil {
		t.Fatalf("stale release must not error: %v", err)
	}
	if released {
		t.Fatal("stale token released the successor's record")
	}
	leader, held, _ := successor.Leader(ctx)
	if !held || leader != successor.Token() {
		t.Fatalf("successor lost leadership: %q held %v", leader, held)
	}
}

func TestWorkLockIndependentFromLeadership(t *testing.T) {
	s := store.NewInMemory()
	ctx := context.Background()

	e := NewElector(s, "job")
	w := NewWorkLock(s, "job", WithLockTTL(time.Minute))
	if ok, _ := e.TryAcquireLeadership(ctx); !ok {
		t.Fatal("election failed")
	}
	if ok, err := w.Acquire(ctx, e.Token()); err != nil || !ok {
		t.Fatalf("work lock acquire: ok %v err %v", ok, err)
	}
	if e.Key() == w.Key() {
		t.Fatal("leadership and work lock must use distinct keys")
	}

	// Releasing leadership must not disturb the execution window.
	if _, err := e.ReleaseLeadership(ctx); err != nil {
		t.Fatalf("release leadership: %v", err)
	}
	holder, held, _ := w.Holder(ctx)
	if !held || holder != e.Token() {
		t.Fatalf("work lock lost: %q held %v", holder, held)
	}
}
