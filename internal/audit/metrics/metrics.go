package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the audit module.
type Metrics struct {
	// Cache hit/miss counts by audit type
	CacheLookups *prometheus.CounterVec

	// Engine run latency, cache misses only
	RunLatency prometheus.Histogram

	// Final scores, to watch the compliance distribution drift
	Scores prometheus.Histogram
}

// New creates a Metrics instance with all audit module metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "compliancecore_audit_cache_lookups_total",
			Help: "Audit cache lookups by audit type and outcome",
		}, []string{"type", "outcome"}), // outcome: "hit", "miss"

		RunLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "compliancecore_audit_run_duration_seconds",
			Help:    "Duration of rule engine runs, excluding cache hits",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		Scores: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "compliancecore_audit_scores",
			Help:    "Distribution of audit scores",
			Buckets: []float64{0, 10, 25, 50, 70, 85, 95, 100},
		}),
	}
}

// IncrementCacheLookup records one cache lookup outcome.
func (m *Metrics) IncrementCacheLookup(auditType, outcome string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(auditType, outcome).Inc()
	}
}

// ObserveRunLatency records the duration of one engine run.
func (m *Metrics) ObserveRunLatency(d time.Duration) {
	if m != nil {
		m.RunLatency.Observe(d.Seconds())
	}
}

// ObserveScore records one final score.
func (m *Metrics) ObserveScore(score int) {
	if m != nil {
		m.Scores.Observe(float64(score))
	}
}
