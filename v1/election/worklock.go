package election

import (
	"context"
	"time"

	"github.com/mirkobrombin/go-elect/v1/lock"
	"github.com/mirkobrombin/go-elect/v1/store"
)

// WorkLock guards the critical-section execution window for one job. It has
// the same single-attempt contract as leadership but lives at its own key
// with its own, typically much shorter, TTL.
type WorkLock struct {
	lock *lock.TokenLock
	ttl  time.Duration
}

// WorkLockOption configures a WorkLock.
type WorkLockOption func(*workLockOptions)

type workLockOptions struct {
	ttl time.Duration
}

// WithLockTTL overrides the execution-window TTL.
func WithLockTTL(d time.Duration) WorkLockOption {
	return func(o *workLockOptions) {
		o.ttl = d
	}
}

// NewWorkLock returns a WorkLock for jobID backed by s. The lock record lives
// at "<jobID>_lock".
func NewWorkLock(s store.Store, jobID string, opts ...WorkLockOption) *WorkLock {
	o := workLockOptions{ttl: DefaultLockTTL}
	for _, opt := range opts {
		opt(&o)
	}
	return &WorkLock{lock: lock.New(s, jobID+"_lock"), ttl: o.ttl}
}

// Key returns the work lock record key.
func (w *WorkLock) Key() string {
	return w.lock.Key()
}

// Acquire makes one atomic attempt to open the execution window under token.
func (w *WorkLock) Acquire(ctx context.Context, token string) (bool, error) {
	return w.lock.TryAcquire(ctx, token, w.ttl)
}

// Release closes the execution window if token still owns it.
func (w *WorkLock) Release(ctx context.Context, token string) (bool, error) {
	return w.lock.Release(ctx, token)
}

// Holder returns the token currently holding the work lock, if any.
// Diagnostics only.
func (w *WorkLock) Holder(ctx context.Context) (string, bool, error) {
	return w.lock.Holder(ctx)
}
