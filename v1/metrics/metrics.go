package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// AcquireCounter tracks the number of exclusive lock acquisitions.
	AcquireCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guard_acquisitions_total",
		Help: "Total number of exclusive lock acquisitions",
	})
	// ContentionCounter tracks how often an acquirer had to wait for
	// another goroutine to release a lock.
	ContentionCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guard_contention_waits_total",
		Help: "Total number of blocking waits caused by lock contention",
	})
	// ReentrantCounter tracks accesses that piggybacked on a lock the
	// calling goroutine already held.
	ReentrantCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guard_reentrant_accesses_total",
		Help: "Total number of accesses satisfied by an already-held lock",
	})
	// ScopeCounter tracks the number of multi-lock scope entries.
	ScopeCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guard_scopes_total",
		Help: "Total number of multi-lock scope entries",
	})
	// ScopeRetryCounter tracks claim cycles that had to be rolled back
	// and retried because a participant was busy.
	ScopeRetryCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guard_scope_retries_total",
		Help: "Total number of rolled-back multi-lock claim cycles",
	})
	// HeldGauge reports the number of currently held locks.
	HeldGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "guard_held_locks",
		Help: "Current number of held locks",
	})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterCoreMetrics registers guard core metrics on the provided registry.
func RegisterCoreMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AcquireCounter, ContentionCounter, ReentrantCounter,
		ScopeCounter, ScopeRetryCounter, HeldGauge)
}
