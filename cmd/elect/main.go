package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/mirkobrombin/go-elect/v1/election"
	"github.com/mirkobrombin/go-elect/v1/metrics"
	"github.com/mirkobrombin/go-elect/v1/notify"
	"github.com/mirkobrombin/go-elect/v1/run"
	"github.com/mirkobrombin/go-elect/v1/runner"
	"github.com/mirkobrombin/go-elect/v1/store"
)

var (
	redisAddr    = flag.String("redis", "localhost:6379", "Redis address")
	jobID        = flag.String("job", "program", "Job ID scoping the leader and lock keys")
	leaderTTL    = flag.Duration("leader-ttl", election.DefaultLeaderTTL, "Leadership record TTL")
	lockTTL      = flag.Duration("lock-ttl", election.DefaultLockTTL, "Work lock TTL")
	sectionCount = flag.Int("sections", 4, "Number of simulated critical sections")
	sectionWork  = flag.Duration("section-work", time.Second, "Simulated duration of each section")
	notifyChan   = flag.String("notify-channel", "", "Redis pub/sub channel for result events (empty disables)")
	metricsAddr  = flag.String("metrics-addr", "", "Address for the Prometheus endpoint (empty disables)")
	traceStdout  = flag.Bool("trace", false, "Print OpenTelemetry spans to stdout")
)

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	if *traceStdout {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			logger.Fatal("trace exporter", zap.Error(err))
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
		defer func() { _ = tp.Shutdown(ctx) }()
		otel.SetTracerProvider(tp)
	}

	reg := metrics.NewRegistry()
	metrics.RegisterCoreMetrics(reg)
	if *metricsAddr != "" {
		srv := &http.Server{Addr: *metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics server", zap.Error(err))
			}
		}()
		defer func() { _ = srv.Shutdown(ctx) }()
	}

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer func() { _ = client.Close() }()

	opts := []run.OrchestratorOption{
		run.WithLogger(logger),
		run.WithElectorOptions(election.WithLeaderTTL(*leaderTTL)),
		run.WithWorkLockOptions(election.WithLockTTL(*lockTTL)),
	}
	if *notifyChan != "" {
		opts = append(opts, run.WithNotifier(notify.NewRedisNotifier(client, *notifyChan)))
	}

	o := run.New(store.NewRedis(client), *jobID, simulatedSections(*sectionCount, *sectionWork, logger), opts...)
	rep := o.Execute(ctx)

	logger.Info("run finished",
		zap.String("outcome", string(rep.Outcome)),
		zap.String("role", string(rep.Role)),
		zap.String("states", joinStates(rep.States)),
	)
	for _, res := range rep.Results {
		logger.Info("section result",
			zap.String("section", res.Name),
			zap.String("status", string(res.Status)),
			zap.Duration("elapsed", res.Elapsed),
			zap.Error(res.Err),
		)
	}
	if rep.Err != nil {
		logger.Error("run error", zap.Error(rep.Err))
	}
	os.Exit(rep.Outcome.ExitCode())
}

func simulatedSections(n int, work time.Duration, logger *zap.Logger) []runner.Section {
	sections := make([]runner.Section, 0, n)
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("CS%d", i)
		sections = append(sections, runner.Section{
			Name: name,
			Invoke: func(ctx context.Context) error {
				logger.Info("executing section", zap.String("section", name))
				select {
				case <-time.After(work):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
		})
	}
	return sections
}

func joinStates(states []run.State) string {
	parts := make([]string, 0, len(states))
	for _, s := range states {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ">")
}
