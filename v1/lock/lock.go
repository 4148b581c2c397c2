package lock

import (
	"context"
	"time"

	"github.com/mirkobrombin/go-elect/v1/store"
)

// TokenLock is a single-attempt lock on one store key. The token presented at
// acquisition proves ownership; only a matching token can release the record.
// A TokenLock never blocks on another holder: acquisition either succeeds or
// reports the lock as taken, in one round trip.
type TokenLock struct {
	store store.Store
	key   string
}

// New returns a TokenLock on key backed by s.
func New(s store.Store, key string) *TokenLock {
	return &TokenLock{store: s, key: key}
}

// Key returns the store key guarded by this lock.
func (l *TokenLock) Key() string {
	return l.key
}

// TryAcquire attempts to create the lock record with the given token and TTL.
// It returns true iff this call created the record. Store failures are
// fail-closed: the lock is reported as not acquired alongside the error.
func (l *TokenLock) TryAcquire(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	ok, err := l.store.SetIfAbsent(ctx, l.key, token, ttl)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Release deletes the lock record iff it still stores token. A mismatch means
// the TTL already expired and ownership moved on; that is expected and
// reported as (false, nil), never as an error.
func (l *TokenLock) Release(ctx context.Context, token string) (bool, error) {
	return l.store.CompareAndDelete(ctx, l.key, token)
}

// Holder returns the token currently stored for the lock key, if any.
// Diagnostics only.
func (l *TokenLock) Holder(ctx context.Context) (string, bool, error) {
	return l.store.Get(ctx, l.key)
}
