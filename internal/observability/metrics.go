package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	apiRequestsTotal  *prometheus.CounterVec
	apiLatencySeconds *prometheus.HistogramVec
	apiErrorsTotal    *prometheus.CounterVec
	predictionsTotal  *prometheus.CounterVec
	fallbacksTotal    prometheus.Counter
	importRowsTotal   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omnivion_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "omnivion_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omnivion_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		predictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omnivion_predictions_total",
			Help: "Predictions served, labeled by the path that produced them.",
		}, []string{"source"})

		fallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "omnivion_prediction_fallbacks_total",
			Help: "Times the local heuristic substituted for the scoring service.",
		})

		importRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omnivion_import_rows_total",
			Help: "CSV roster rows processed, labeled by outcome.",
		}, []string{"result"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			predictionsTotal,
			fallbacksTotal,
			importRowsTotal,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// Predictions exposes the per-source prediction counter.
func Predictions() *prometheus.CounterVec {
	RegisterMetrics()
	return predictionsTotal
}

// Fallbacks exposes the fallback substitution counter.
func Fallbacks() prometheus.Counter {
	RegisterMetrics()
	return fallbacksTotal
}

// ImportRows exposes the per-outcome import row counter.
func ImportRows() *prometheus.CounterVec {
	RegisterMetrics()
	return importRowsTotal
}
