// Package election implements single-attempt leader election and work locking
// over a coordination store. Leadership answers who may attempt the work; the
// work lock bounds how long the work may run before the holder is presumed
// dead. The two records are distinct keys with independent TTLs so a slow
// election never constrains the execution window, and vice versa.
package election

import (
	"context"
	"time"

	"github.com/mirkobrombin/go-elect/v1/lock"
	"github.com/mirkobrombin/go-elect/v1/store"
)

const (
	// DefaultLeaderTTL bounds how long a crashed leader can block future
	// elections before the store reclaims the record. It must be at least the
	// work lock TTL so leadership outlives the execution window it grants.
	DefaultLeaderTTL = 120 * time.Second
	// DefaultLockTTL bounds the critical-section execution window.
	DefaultLockTTL = 30 * time.Second
)

// Role is the outcome of an election from one instance's point of view.
type Role string

const (
	RoleLeader   Role = "leader"
	RoleFollower Role = "follower"
)

// Elector performs a single leadership attempt for one job. Each Elector
// carries its own fresh token; re-attempting an election means building a new
// Elector, never retrying with this one.
type Elector struct {
	lock  *lock.TokenLock
	token string
	ttl   time.Duration
}

// Option configures an Elector.
type Option func(*electorOptions)

type electorOptions struct {
	ttl   time.Duration
	token string
}

// WithLeaderTTL overrides the leadership record TTL.
func WithLeaderTTL(d time.Duration) Option {
	return func(o *electorOptions) {
		o.ttl = d
	}
}

// WithToken overrides the generated token. Intended for tests.
func WithToken(token string) Option {
	return func(o *electorOptions) {
		o.token = token
	}
}

// NewElector returns an Elector for jobID backed by s. The leadership record
// lives at "<jobID>_leader".
func NewElector(s store.Store, jobID string, opts ...Option) *Elector {
	o := electorOptions{ttl: DefaultLeaderTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.token == "" {
		o.token = NewToken(jobID)
	}
	return &Elector{
		lock:  lock.New(s, jobID+"_leader"),
		token: o.token,
		ttl:   o.ttl,
	}
}

// Token returns the per-attempt ownership token.
func (e *Elector) Token() string {
	return e.token
}

// Key returns the leadership record key.
func (e *Elector) Key() string {
	return e.lock.Key()
}

// TryAcquireLeadership makes one atomic create-if-absent attempt on the
// leadership record. True means this instance is the leader for the run.
// A store failure is fail-closed: never leader, error surfaced to the caller.
func (e *Elector) TryAcquireLeadership(ctx context.Context) (bool, error) {
	return e.lock.TryAcquire(ctx, e.token, e.ttl)
}

// ReleaseLeadership deletes the leadership record if this instance still owns
// it. A token mismatch means the TTL already reassigned ownership; that is
// expected and reported as (false, nil).
func (e *Elector) ReleaseLeadership(ctx context.Context) (bool, error) {
	return e.lock.Release(ctx, e.token)
}

// Leader returns the token currently holding leadership, if any.
// Diagnostics only.
func (e *Elector) Leader(ctx context.Context) (string, bool, error) {
	return e.lock.Holder(ctx)
}
