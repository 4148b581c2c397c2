// Package run composes election, work locking, heartbeat, and section
// execution into the per-instance state machine. One Orchestrator performs
// exactly one attempt: it never loops back to electing, never polls, and
// never blocks on another instance. External retry means invoking a fresh run
// with a fresh token from an outer scheduler.
package run

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mirkobrombin/go-elect/v1/election"
	"github.com/mirkobrombin/go-elect/v1/metrics"
	"github.com/mirkobrombin/go-elect/v1/notify"
	"github.com/mirkobrombin/go-elect/v1/runner"
	"github.com/mirkobrombin/go-elect/v1/store"
)

// State names one node of the per-run state machine. Done and Follower are
// terminal; no transition leads back to Electing within a run.
type State string

const (
	StateInit                State = "INIT"
	StateElecting            State = "ELECTING"
	StateLeader              State = "LEADER"
	StateFollower            State = "FOLLOWER"
	StateLocking             State = "LOCKING"
	StateLocked              State = "LOCKED"
	StateLockDenied          State = "LOCK_DENIED"
	StateRunning             State = "RUNNING"
	StateCompleted           State = "COMPLETED"
	StatePartialFailure      State = "PARTIAL_FAILURE"
	StateReleasing           State = "RELEASING"
	StateReleasingLeadership State = "RELEASING_LEADERSHIP_ONLY"
	StateDone                State = "DONE"
)

// Outcome is what the surrounding entry point surfaces when a run ends.
type Outcome string

const (
	LeaderSuccess        Outcome = "LEADER_SUCCESS"
	LeaderPartialFailure Outcome = "LEADER_PARTIAL_FAILURE"
	NotLeader            Outcome = "NOT_LEADER"
	ElectionError        Outcome = "ELECTION_ERROR"
)

// ExitCode maps an outcome to a process exit status. The worst observed
// outcome wins; only a fully successful leader run exits zero.
func (o Outcome) ExitCode() int {
	switch o {
	case LeaderSuccess, NotLeader:
		return 0
	case LeaderPartialFailure:
		return 2
	case ElectionError:
		return 4
	default:
		return 1
	}
}

// Report is the structured result of one run.
type Report struct {
	Outcome Outcome
	Role    election.Role
	Token   string
	States  []State
	Results []runner.Result
	Err     error
}

func (r *Report) advance(s State) {
	r.States = append(r.States, s)
}

// Orchestrator drives a single election-and-execute attempt.
type Orchestrator struct {
	elector   *election.Elector
	workLock  *election.WorkLock
	heartbeat *election.Heartbeat
	runner    *runner.Runner
	notifier  notify.Notifier
	sections  []runner.Section
	logger    *zap.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*orchestratorOptions)

type orchestratorOptions struct {
	notifier        notify.Notifier
	logger          *zap.Logger
	electorOpts     []election.Option
	workLockOpts    []election.WorkLockOption
	heartbeatOpts   []election.HeartbeatOption
	runnerOpts      []runner.RunnerOption
	continueOnError bool
}

// WithNotifier publishes run and heartbeat events to n.
func WithNotifier(n notify.Notifier) OrchestratorOption {
	return func(o *orchestratorOptions) {
		o.notifier = n
	}
}

// WithLogger sets the run logger.
func WithLogger(l *zap.Logger) OrchestratorOption {
	return func(o *orchestratorOptions) {
		o.logger = l
	}
}

// WithElectorOptions forwards options to the underlying Elector.
func WithElectorOptions(opts ...election.Option) OrchestratorOption {
	return func(o *orchestratorOptions) {
		o.electorOpts = append(o.electorOpts, opts...)
	}
}

// WithWorkLockOptions forwards options to the underlying WorkLock.
func WithWorkLockOptions(opts ...election.WorkLockOption) OrchestratorOption {
	return func(o *orchestratorOptions) {
		o.workLockOpts = append(o.workLockOpts, opts...)
	}
}

// WithHeartbeatOptions forwards options to the underlying Heartbeat.
func WithHeartbeatOptions(opts ...election.HeartbeatOption) OrchestratorOption {
	return func(o *orchestratorOptions) {
		o.heartbeatOpts = append(o.heartbeatOpts, opts...)
	}
}

// WithContinueOnError switches the section failure policy.
func WithContinueOnError() OrchestratorOption {
	return func(o *orchestratorOptions) {
		o.continueOnError = true
	}
}

// New returns an Orchestrator for jobID over s, executing sections when
// elected. Each Orchestrator is good for exactly one Execute call: its token
// is minted at construction and never reused.
func New(s store.Store, jobID string, sections []runner.Section, opts ...OrchestratorOption) *Orchestrator {
	o := orchestratorOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	elector := election.NewElector(s, jobID, o.electorOpts...)

	hbOpts := append([]election.HeartbeatOption{
		election.WithHeartbeatLogger(o.logger),
	}, o.heartbeatOpts...)
	if o.notifier != nil {
		hbOpts = append(hbOpts, election.WithNotifier(o.notifier))
	}
	runnerOpts := append([]runner.RunnerOption{runner.WithLogger(o.logger)}, o.runnerOpts...)
	if o.continueOnError {
		runnerOpts = append(runnerOpts, runner.WithContinueOnError())
	}

	return &Orchestrator{
		elector:   elector,
		workLock:  election.NewWorkLock(s, jobID, o.workLockOpts...),
		heartbeat: election.NewHeartbeat(s, elector.Key(), hbOpts...),
		runner:    runner.New(runnerOpts...),
		notifier:  o.notifier,
		sections:  sections,
		logger:    o.logger,
	}
}

// Token returns the per-run ownership token.
func (o *Orchestrator) Token() string {
	return o.elector.Token()
}

// Execute performs the single attempt and returns its Report. All store calls
// are bounded by the store's own timeouts; a timed-out call is always a
// failure to acquire, never a success.
func (o *Orchestrator) Execute(ctx context.Context) (rep Report) {
	rep = Report{Role: election.RoleFollower, Token: o.elector.Token()}
	rep.advance(StateInit)
	rep.advance(StateElecting)
	defer func() {
		metrics.RunOutcomeCounter.WithLabelValues(string(rep.Outcome)).Inc()
	}()

	elected, err := o.elector.TryAcquireLeadership(ctx)
	if err != nil {
		// Fail-closed: a store failure never makes us leader.
		metrics.StoreErrorCounter.Inc()
		o.logger.Error("election attempt failed", zap.Error(err))
		rep.advance(StateFollower)
		rep.Outcome = ElectionError
		rep.Err = err
		return rep
	}
	if !elected {
		metrics.ElectionLostCounter.Inc()
		o.logger.Info("not elected, exiting", zap.String("token", rep.Token))
		rep.advance(StateFollower)
		rep.Outcome = NotLeader
		o.publish(ctx, "follower", "another instance leads; exiting without work")
		return rep
	}

	metrics.ElectionWonCounter.Inc()
	o.logger.Info("elected as leader", zap.String("token", rep.Token))
	rep.advance(StateLeader)
	rep.Role = election.RoleLeader

	cc := &cleanupCoordinator{
		elector:  o.elector,
		workLock: o.workLock,
		token:    rep.Token,
		logger:   o.logger,
	}
	defer cc.run(context.WithoutCancel(ctx), &rep)

	rep.advance(StateLocking)
	locked, err := o.workLock.Acquire(ctx, rep.Token)
	if err != nil {
		metrics.StoreErrorCounter.Inc()
		o.logger.Error("work lock attempt failed", zap.Error(err))
		rep.Outcome = ElectionError
		rep.Err = err
		return rep
	}
	if !locked {
		// Leadership without the execution window: a previous leader's lock
		// has not yet expired. Give leadership back and exit.
		metrics.LockDeniedCounter.Inc()
		o.logger.Info("work lock held elsewhere, exiting", zap.String("key", o.workLock.Key()))
		rep.advance(StateLockDenied)
		rep.Outcome = NotLeader
		return rep
	}
	rep.advance(StateLocked)
	cc.lockHeld = true

	o.heartbeat.EmitOnce(ctx)

	rep.advance(StateRunning)
	rep.Results = o.runner.RunAll(ctx, o.sections)

	failed := 0
	for _, res := range rep.Results {
		if res.Status == runner.StatusFailed {
			failed++
		}
	}
	if failed > 0 {
		rep.advance(StatePartialFailure)
		rep.Outcome = LeaderPartialFailure
		o.publish(ctx, "leader_partial_failure",
			fmt.Sprintf("leader aborted after %d failed section(s)", failed))
	} else {
		rep.advance(StateCompleted)
		rep.Outcome = LeaderSuccess
		o.publish(ctx, "leader_success", "leader completed all critical sections")
	}
	return rep
}

// publish is fire-and-forget; sink failures are logged, never escalated.
func (o *Orchestrator) publish(ctx context.Context, subject, message string) {
	if o.notifier == nil {
		return
	}
	e := notify.Event{Subject: subject, Message: message, Instance: election.Instance()}
	if err := o.notifier.Publish(ctx, e); err != nil {
		o.logger.Warn("notification publish failed",
			zap.String("subject", subject), zap.Error(err))
	}
}
