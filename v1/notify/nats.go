package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	nats "github.com/nats-io/nats.go"
)

// NATSNotifier implements Notifier over a NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
}

// NewNATSNotifier returns a notifier publishing to subject on conn.
func NewNATSNotifier(conn *nats.Conn, subject string) *NATSNotifier {
	return &NATSNotifier{conn: conn, subject: subject}
}

// Publish implements Notifier.Publish.
func (n *NATSNotifier) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		timeout := time.Until(deadline)
		if timeout <= 0 {
			return ctx.Err()
		}
		return n.conn.FlushTimeout(timeout)
	}
	return nil
}
