package store

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	electerrors "github.com/mirkobrombin/go-elect/v1/errors"
)

const defaultRedisOpTimeout = 5 * time.Second

var tracer = otel.Tracer("github.com/mirkobrombin/go-elect/v1/store")

// Deletion must compare and delete in one server-side step; a GET followed by
// a DEL from the client would race with TTL expiry and reacquisition.
var cadScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
else
    return 0
end
`)

// Redis implements Store using a Redis backend.
type Redis struct {
	client  *redis.Client
	timeout time.Duration
}

// RedisOption configures a Redis store.
type RedisOption func(*redisOptions)

type redisOptions struct {
	timeout time.Duration
}

// WithTimeout sets the per-operation timeout for Redis calls.
func WithTimeout(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.timeout = d
	}
}

// NewRedis returns a new Redis store using the provided client.
func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	o := redisOptions{timeout: defaultRedisOpTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return &Redis{client: client, timeout: o.timeout}
}

// SetIfAbsent implements Store.SetIfAbsent via SET NX EX.
func (s *Redis) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ctx, span := tracer.Start(ctx, "store.SetIfAbsent",
		trace.WithAttributes(attribute.String("elect.key", key)))
	defer span.End()
	if err := mapErr(ctx.Err()); err != nil {
		return false, err
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ok, err := s.client.SetNX(cctx, key, value, ttl).Result()
	if err != nil {
		return false, mapErr(err)
	}
	return ok, nil
}

// CompareAndDelete implements Store.CompareAndDelete via a Lua script.
func (s *Redis) CompareAndDelete(ctx context.Context, key, expected string) (bool, error) {
	ctx, span := tracer.Start(ctx, "store.CompareAndDelete",
		trace.WithAttributes(attribute.String("elect.key", key)))
	defer span.End()
	if err := mapErr(ctx.Err()); err != nil {
		return false, err
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := cadScript.Run(cctx, s.client, []string{key}, expected).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, mapErr(err)
	}
	n, ok := res.(int64)
	return ok && n == 1, nil
}

// Put implements Store.Put.
func (s *Redis) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, span := tracer.Start(ctx, "store.Put",
		trace.WithAttributes(attribute.String("elect.key", key)))
	defer span.End()
	if err := mapErr(ctx.Err()); err != nil {
		return err
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.client.Set(cctx, key, value, ttl).Err(); err != nil {
		return mapErr(err)
	}
	return nil
}

// Get implements Store.Get.
func (s *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "store.Get",
		trace.WithAttributes(attribute.String("elect.key", key)))
	defer span.End()
	if err := mapErr(ctx.Err()); err != nil {
		return "", false, err
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	v, err := s.client.Get(cctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, mapErr(err)
	}
	return v, true, nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case stdErrors.Is(err, context.DeadlineExceeded):
		return electerrors.ErrTimeout
	case stdErrors.Is(err, context.Canceled):
		return err
	case stdErrors.Is(err, redis.ErrClosed):
		return electerrors.ErrConnectionClosed
	default:
		return fmt.Errorf("%w: %v", electerrors.ErrStoreUnavailable, err)
	}
}
