package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	ingestionRowsTotal    *prometheus.CounterVec
	ingestionLatencySecs  prometheus.Histogram
	gpaRecalcFailuresTotl prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		ingestionRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingestion_rows_total",
			Help: "CSV ingestion rows by outcome (inserted, skipped).",
		}, []string{"outcome"})

		ingestionLatencySecs = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ingestion_latency_seconds",
			Help:    "End-to-end latency of CSV ingestion attempts.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		})

		gpaRecalcFailuresTotl = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gpa_recalculation_failures_total",
			Help: "GPA recalculations that failed after an ingestion committed.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			ingestionRowsTotal,
			ingestionLatencySecs,
			gpaRecalcFailuresTotl,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// IngestionRows exposes the counter for ingestion row outcomes.
func IngestionRows() *prometheus.CounterVec {
	RegisterMetrics()
	return ingestionRowsTotal
}

// IngestionLatency exposes the ingestion latency histogram.
func IngestionLatency() prometheus.Histogram {
	RegisterMetrics()
	return ingestionLatencySecs
}

// GPARecalcFailures exposes the counter for failed GPA recalculations.
func GPARecalcFailures() prometheus.Counter {
	RegisterMetrics()
	return gpaRecalcFailuresTotl
}
