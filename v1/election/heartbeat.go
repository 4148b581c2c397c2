package election

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mirkobrombin/go-elect/v1/notify"
	"github.com/mirkobrombin/go-elect/v1/store"
)

// DefaultHeartbeatTTL is how long the liveness record stays visible.
const DefaultHeartbeatTTL = 5 * time.Second

// Heartbeat emits a single liveness signal once leadership and the work lock
// are both held. It is deliberately not a loop: crash detection relies solely
// on the work lock TTL, never on missed heartbeat counts. Emission failure is
// logged and non-fatal.
type Heartbeat struct {
	store    store.Store
	notifier notify.Notifier
	key      string
	ttl      time.Duration
	instance string
	logger   *zap.Logger
}

// HeartbeatOption configures a Heartbeat.
type HeartbeatOption func(*heartbeatOptions)

type heartbeatOptions struct {
	notifier notify.Notifier
	ttl      time.Duration
	instance string
	logger   *zap.Logger
}

// WithHeartbeatTTL overrides the liveness record TTL.
func WithHeartbeatTTL(d time.Duration) HeartbeatOption {
	return func(o *heartbeatOptions) {
		o.ttl = d
	}
}

// WithNotifier also publishes each emission as an event.
func WithNotifier(n notify.Notifier) HeartbeatOption {
	return func(o *heartbeatOptions) {
		o.notifier = n
	}
}

// WithInstance overrides the instance name attached to events.
func WithInstance(name string) HeartbeatOption {
	return func(o *heartbeatOptions) {
		o.instance = name
	}
}

// WithHeartbeatLogger sets the logger for emission failures.
func WithHeartbeatLogger(l *zap.Logger) HeartbeatOption {
	return func(o *heartbeatOptions) {
		o.logger = l
	}
}

// NewHeartbeat returns a Heartbeat writing to "heartbeat:<leaderKey>".
func NewHeartbeat(s store.Store, leaderKey string, opts ...HeartbeatOption) *Heartbeat {
	o := heartbeatOptions{ttl: DefaultHeartbeatTTL, instance: Instance(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Heartbeat{
		store:    s,
		notifier: o.notifier,
		key:      "heartbeat:" + leaderKey,
		ttl:      o.ttl,
		instance: o.instance,
		logger:   o.logger,
	}
}

// Key returns the liveness record key.
func (h *Heartbeat) Key() string {
	return h.key
}

// EmitOnce writes the liveness record and, when a notifier is configured,
// publishes one heartbeat event. It never blocks or aborts the run: all
// failures are logged and swallowed.
func (h *Heartbeat) EmitOnce(ctx context.Context) {
	if err := h.store.Put(ctx, h.key, "alive", h.ttl); err != nil {
		h.logger.Warn("heartbeat record write failed", zap.String("key", h.key), zap.Error(err))
	}
	if h.notifier == nil {
		return
	}
	e := notify.Event{
		Subject:  "heartbeat",
		Message:  "alive",
		Instance: h.instance,
		Time:     time.Now(),
	}
	if err := h.notifier.Publish(ctx, e); err != nil {
		h.logger.Warn("heartbeat event publish failed", zap.Error(err))
	}
}
