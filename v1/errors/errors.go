package errors

import "errors"

var (
	// ErrTimeout is returned when a store round trip exceeds its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrConnectionClosed is returned when the store client has been closed.
	ErrConnectionClosed = errors.New("connection closed")
	// ErrStoreUnavailable wraps store communication failures that are neither
	// timeouts nor closed connections.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsStoreUnavailable reports whether err represents a failed store round trip.
// Callers treat such failures as fail-closed: not leader, lock not acquired.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConnectionClosed) ||
		errors.Is(err, ErrStoreUnavailable)
}
