// elect-cron composes repeated election attempts from the outside: each tick
// builds a brand-new run with a fresh token. Retry never lives inside a run.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mirkobrombin/go-elect/v1/election"
	"github.com/mirkobrombin/go-elect/v1/notify"
	"github.com/mirkobrombin/go-elect/v1/run"
	"github.com/mirkobrombin/go-elect/v1/runner"
	"github.com/mirkobrombin/go-elect/v1/store"
)

var (
	redisAddr  = flag.String("redis", "localhost:6379", "Redis address")
	jobID      = flag.String("job", "program", "Job ID scoping the leader and lock keys")
	schedule   = flag.String("schedule", "*/5 * * * *", "Cron schedule for run attempts")
	lockTTL    = flag.Duration("lock-ttl", election.DefaultLockTTL, "Work lock TTL")
	notifyChan = flag.String("notify-channel", "", "Redis pub/sub channel for result events (empty disables)")
)

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer func() { _ = client.Close() }()
	backend := store.NewRedis(client)

	c := cron.New()
	_, err = c.AddFunc(*schedule, func() {
		opts := []run.OrchestratorOption{
			run.WithLogger(logger),
			run.WithWorkLockOptions(election.WithLockTTL(*lockTTL)),
		}
		if *notifyChan != "" {
			opts = append(opts, run.WithNotifier(notify.NewRedisNotifier(client, *notifyChan)))
		}
		o := run.New(backend, *jobID, sections(logger), opts...)
		rep := o.Execute(ctx)
		logger.Info("scheduled run finished",
			zap.String("outcome", string(rep.Outcome)),
			zap.String("token", rep.Token),
		)
	})
	if err != nil {
		logger.Fatal("invalid schedule", zap.Error(err))
	}

	c.Start()
	logger.Info("scheduler started", zap.String("schedule", *schedule), zap.String("job", *jobID))
	<-ctx.Done()
	<-c.Stop().Done()
}

func sections(logger *zap.Logger) []runner.Section {
	names := []string{"CS1", "CS2", "CS3", "CS4"}
	out := make([]runner.Section, 0, len(names))
	for _, name := range names {
		out = append(out, runner.Section{
			Name: name,
			Invoke: func(ctx context.Context) error {
				logger.Info("executing section", zap.String("section", name))
				select {
				case <-time.After(time.Second):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
		})
	}
	return out
}
