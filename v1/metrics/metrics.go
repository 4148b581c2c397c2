package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ElectionWonCounter tracks elections this instance won.
	ElectionWonCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elect_elections_won_total",
		Help: "Total number of elections won",
	})
	// ElectionLostCounter tracks elections where another instance held the leader record.
	ElectionLostCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elect_elections_lost_total",
		Help: "Total number of elections lost to another instance",
	})
	// LockDeniedCounter tracks work-lock attempts denied after winning leadership.
	LockDeniedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elect_work_lock_denied_total",
		Help: "Total number of denied work lock acquisitions",
	})
	// StoreErrorCounter tracks failed coordination store round trips.
	StoreErrorCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elect_store_errors_total",
		Help: "Total number of coordination store failures",
	})
	// SectionSuccessCounter tracks completed critical sections.
	SectionSuccessCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elect_sections_success_total",
		Help: "Total number of critical sections that completed",
	})
	// SectionFailureCounter tracks failed critical sections.
	SectionFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elect_sections_failed_total",
		Help: "Total number of critical sections that failed",
	})
	// SectionSkippedCounter tracks sections skipped after an earlier failure.
	SectionSkippedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "elect_sections_skipped_total",
		Help: "Total number of critical sections skipped by the abort policy",
	})
	// RunOutcomeCounter tracks finished runs by outcome.
	RunOutcomeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "elect_runs_total",
		Help: "Total number of finished runs by outcome",
	}, []string{"outcome"})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterCoreMetrics registers go-elect core metrics on the provided registry.
func RegisterCoreMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		ElectionWonCounter,
		ElectionLostCounter,
		LockDeniedCounter,
		StoreErrorCounter,
		SectionSuccessCounter,
		SectionFailureCounter,
		SectionSkippedCounter,
		RunOutcomeCounter,
	)
}
