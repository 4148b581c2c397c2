package run

import (
	"context"

	"go.uber.org/zap"

	"github.com/mirkobrombin/go-elect/v1/election"
)

// cleanupCoordinator releases held markers on every exit path of a leader run:
// normal completion, section failure, store error after election, or a panic
// unwinding through Execute. The work lock goes first so the execution window
// closes before leadership is surrendered. Release failures are logged only;
// TTL expiry is the safety net when the store is unreachable.
type cleanupCoordinator struct {
	elector  *election.Elector
	workLock *election.WorkLock
	token    string
	logger   *zap.Logger
	lockHeld bool
}

func (c *cleanupCoordinator) run(ctx context.Context, rep *Report) {
	if c.lockHeld {
		rep.advance(StateReleasing)
		released, err := c.workLock.Release(ctx, c.token)
		switch {
		case err != nil:
			c.logger.Warn("work lock release failed, relying on TTL expiry",
				zap.String("key", c.workLock.Key()), zap.Error(err))
		case !released:
			// TTL already reassigned the lock; the invariant is intact.
			c.logger.Info("work lock no longer ours", zap.String("key", c.workLock.Key()))
		}
	} else {
		rep.advance(StateReleasingLeadership)
	}

	released, err := c.elector.ReleaseLeadership(ctx)
	switch {
	case err != nil:
		c.logger.Warn("leadership release failed, relying on TTL expiry",
			zap.String("key", c.elector.Key()), zap.Error(err))
	case !released:
		c.logger.Info("leadership no longer ours", zap.String("key", c.elector.Key()))
	}

	rep.advance(StateDone)
}
