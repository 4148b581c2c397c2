// Package store defines the coordination store contract that leader election
// and work locking are built on: atomic create-if-absent with expiry, atomic
// compare-and-delete, and server-enforced TTL. Redis and in-memory
// implementations are provided; any backend offering these primitives works.
package store

import (
	"context"
	"time"
)

// Store is the coordination store boundary. Every call is single-shot and
// timeout-bounded by the implementation; callers never poll through it.
type Store interface {
	// SetIfAbsent atomically creates key with the given value and TTL.
	// It returns true iff this call created the record.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// CompareAndDelete deletes key only if its stored value equals expected,
	// as a single server-side operation. It returns true iff a record was
	// deleted. A mismatch is not an error.
	CompareAndDelete(ctx context.Context, key, expected string) (bool, error)

	// Put unconditionally sets key with the given value and TTL.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the current value of key, if present. Diagnostics only;
	// ownership decisions always go through the conditional operations.
	Get(ctx context.Context, key string) (string, bool, error)
}
