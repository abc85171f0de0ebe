package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the export module.
type Metrics struct {
	// Finished exports by standard, format and outcome
	Exports *prometheus.CounterVec

	// End-to-end render pipeline duration, per format
	Duration *prometheus.HistogramVec
}

// New creates a Metrics instance with all export module metrics registered.
func New() *Metrics {
	return &Metrics{
		Exports: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "compliancecore_export_total",
			Help: "Exports by standard, format and outcome",
		}, []string{"standard", "format", "outcome"}), // outcome: "success", "error"

		Duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "compliancecore_export_duration_seconds",
			Help:    "Duration of the map-render-store pipeline",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"format"}),
	}
}

// IncrementExport records one finished export.
func (m *Metrics) IncrementExport(standard, format, outcome string) {
	if m != nil {
		m.Exports.WithLabelValues(standard, format, outcome).Inc()
	}
}

// ObserveDuration records the duration of one export pipeline run.
func (m *Metrics) ObserveDuration(format string, d time.Duration) {
	if m != nil {
		m.Duration.WithLabelValues(format).Observe(d.Seconds())
	}
}
