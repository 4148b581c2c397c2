package notify

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	electerrors "github.com/mirkobrombin/go-elect/v1/errors"
)

const defaultRedisPublishTimeout = 5 * time.Second

// RedisNotifier implements Notifier over a Redis pub/sub channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	timeout time.Duration
}

// NewRedisNotifier returns a notifier publishing to channel on client.
func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel, timeout: defaultRedisPublishTimeout}
}

// Publish implements Notifier.Publish.
func (n *RedisNotifier) Publish(ctx context.Context, e Event) error {
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
	cctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.client.Publish(cctx, n.channel, data).Err(); err != nil {
		if stdErrors.Is(err, context.DeadlineExceeded) {
			return electerrors.ErrTimeout
		}
		if stdErrors.Is(err, redis.ErrClosed) {
			return electerrors.ErrConnectionClosed
		}
		return err
	}
	return nil
}
