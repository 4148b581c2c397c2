// Package notify delivers fire-and-forget visibility events: heartbeats,
// leader results, follower exits. Delivery is best-effort and never required
// for correctness; callers log publish failures and move on.
package notify

import (
	"context"
	"sync"
	"time"
)

// Event is a single notification.
type Event struct {
	ID       string    `json:"id"`
	Subject  string    `json:"subject"`
	Message  string    `json:"message"`
	Instance string    `json:"instance,omitempty"`
	Time     time.Time `json:"time"`
}

// Notifier publishes events to an external sink.
type Notifier interface {
	Publish(ctx context.Context, e Event) error
}

// InMemory is a local implementation of Notifier mainly for testing.
type InMemory struct {
	mu     sync.Mutex
	events []Event
}

// NewInMemory returns a new InMemory notifier.
func NewInMemory() *InMemory {
	return &InMemory{}
}

// Publish implements Notifier.Publish.
func (n *InMemory) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	n.events = append(n.events, e)
	n.mu.Unlock()
	return nil
}

// Events returns a copy of everything published so far.
func (n *InMemory) Events() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events...)
}
