package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ReportsCreatedTotal counts persisted reports by coarse type.
	ReportsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crime_report",
		Subsystem: "reports",
		Name:      "created_total",
		Help:      "Total number of reports created, labeled by type.",
	}, []string{"type"})

	// StatusTransitionsTotal counts accepted status changes.
	StatusTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crime_report",
		Subsystem: "reports",
		Name:      "status_transitions_total",
		Help:      "Total number of accepted report status transitions.",
	}, []string{"from", "to"})

	// AnalysisTotal counts image analyses by outcome.
	AnalysisTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crime_report",
		Subsystem: "analysis",
		Name:      "total",
		Help:      "Total number of image analyses, labeled by result.",
	}, []string{"result"})

	AnalysisDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crime_report",
		Subsystem: "analysis",
		Name:      "duration_seconds",
		Help:      "Time spent analyzing an image, labeled by result.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"result"})

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crime_report",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route template.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	EventPublishErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crime_report",
		Subsystem: "events",
		Name:      "publish_errors_total",
		Help:      "Total number of domain events that failed to publish.",
	}, []string{"type"})
)

// Register registers service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ReportsCreatedTotal,
			StatusTransitionsTotal,
			AnalysisTotal,
			AnalysisDurationSeconds,
			HTTPRequestDurationSeconds,
			EventPublishErrorsTotal,
		)
	})
}
