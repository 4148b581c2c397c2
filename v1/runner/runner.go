// Package runner sequences critical sections and records their outcomes.
// Sections are opaque units of application work; the runner only orders them,
// captures results, and applies the failure policy. It never assumes a
// section is idempotent — re-running after a partial failure requires a
// brand-new election once the work lock is released or expires.
package runner

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mirkobrombin/go-elect/v1/metrics"
)

var tracer = otel.Tracer("github.com/mirkobrombin/go-elect/v1/runner")

// Status is the recorded outcome of one section.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
	StatusSkipped Status = "SKIPPED"
)

// Section is one named unit of critical work.
type Section struct {
	Name   string
	Invoke func(ctx context.Context) error
}

// Result records how one section ended.
type Result struct {
	Name    string
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Runner executes sections strictly in declared order. Each section completes
// (success or recorded failure) before the next starts; sections never run
// concurrently. Under the default policy the first failure aborts all
// remaining sections.
type Runner struct {
	continueOnError bool
	logger          *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithContinueOnError records failures and keeps going instead of aborting.
// Abort is the safe default: later sections may depend on earlier side effects.
func WithContinueOnError() RunnerOption {
	return func(r *Runner) {
		r.continueOnError = true
	}
}

// WithLogger sets the logger for per-section progress.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// New returns a Runner with the abort-on-failure policy.
func New(opts ...RunnerOption) *Runner {
	r := &Runner{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunAll executes sections sequentially and returns one Result per section,
// in order. Each section is invoked at most once. A panicking section is
// recovered and recorded as a failure so held locks can still be released.
func (r *Runner) RunAll(ctx context.Context, sections []Section) []Result {
	results := make([]Result, 0, len(sections))
	aborted := false
	for _, s := range sections {
		if aborted {
			metrics.SectionSkippedCounter.Inc()
			results = append(results, Result{Name: s.Name, Status: StatusSkipped})
			continue
		}
		res := r.runOne(ctx, s)
		if res.Status == StatusFailed {
			metrics.SectionFailureCounter.Inc()
			r.logger.Error("critical section failed",
				zap.String("section", s.Name), zap.Error(res.Err))
			if !r.continueOnError {
				aborted = true
			}
		} else {
			metrics.SectionSuccessCounter.Inc()
			r.logger.Info("critical section completed",
				zap.String("section", s.Name), zap.Duration("elapsed", res.Elapsed))
		}
		results = append(results, res)
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, s Section) (res Result) {
	ctx, span := tracer.Start(ctx, "runner.Section",
		trace.WithAttributes(attribute.String("elect.section", s.Name)))
	defer span.End()

	start := time.Now()
	res = Result{Name: s.Name, Status: StatusSuccess}
	defer func() {
		res.Elapsed = time.Since(start)
		if p := recover(); p != nil {
			res.Status = StatusFailed
			res.Err = fmt.Errorf("section %s panicked: %v", s.Name, p)
		}
	}()
	if err := s.Invoke(ctx); err != nil {
		res.Status = StatusFailed
		res.Err = err
	}
	return res
}
