package election

import (
	"context"
	"testing"
	"time"

	electerrors "github.com/mirkobrombin/go-elect/v1/errors"
	"github.com/mirkobrombin/go-elect/v1/notify"
	"github.com/mirkobrombin/go-elect/v1/store"
)

func TestHeartbeatEmitOnce(t *testing.T) {
	s := store.NewInMemory()
	n := notify.NewInMemory()
	ctx := context.Background()

	hb := NewHeartbeat(s, "job_leader",
		WithNotifier(n),
		WithInstance("host-a"),
		WithHeartbeatTTL(5*time.Second),
	)
	hb.EmitOnce(ctx)

	v, found, err := s.Get(ctx, "heartbeat:job_leader")
	if err != nil || !found || v != "alive" {
		t.Fatalf("liveness record: %q found %v err %v", v, found, err)
	}
	events := n.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Subject != "heartbeat" || events[0].Instance != "host-a" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

type downStore struct{}

func (downStore) SetIfAbsent(context.Context, string, string, time.Duration) (bool, error) {
	return false, electerrors.ErrStoreUnavailable
}
func (downStore) CompareAndDelete(context.Context, string, string) (bool, error) {
	return false, electerrors.ErrStoreUnavailable
}
func (downStore) Put(context.Context, string, string, time.Duration) error {
	return electerrors.ErrStoreUnavailable
}
func (downStore) Get(context.Context, string) (string, bool, error) {
	return "", false, electerrors.ErrStoreUnavailable
}

func TestHeartbeatFailureIsNonFatal(t *testing.T) {
	hb := NewHeartbeat(downStore{}, "job_leader")
	// Must not panic or block; failures are logged and swallowed.
	hb.EmitOnce(context.Background())
}
