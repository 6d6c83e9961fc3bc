package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the dispatch backend
type MetricsRegistry struct {
	Registry *prometheus.Registry

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Import Metrics
	ImportFilesTotal   *prometheus.CounterVec
	ImportRowsTotal    *prometheus.CounterVec
	ImportCommitsTotal *prometheus.CounterVec
	ImportParseSeconds *prometheus.HistogramVec

	// Business Metrics
	JobStatusTransitions *prometheus.CounterVec
	JobsCreatedTotal     *prometheus.CounterVec
}

// NewMetricsRegistry registers every metric on a fresh registry, together
// with the Go runtime and process collectors.
func NewMetricsRegistry() *MetricsRegistry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsRegistry{
		Registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dispatch_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dispatch_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		ImportFilesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_import_files_total",
				Help: "Uploaded import files by profile and whether they could be read",
			},
			[]string{"profile", "readable"},
		),
		ImportRowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_import_rows_total",
				Help: "Import data rows by profile and outcome (imported, dropped)",
			},
			[]string{"profile", "outcome"},
		),
		ImportCommitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_import_commits_total",
				Help: "Import preview commits by profile and result",
			},
			[]string{"profile", "result"},
		),
		ImportParseSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dispatch_import_parse_duration_seconds",
				Help:    "Time spent parsing one import file",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"profile", "format"},
		),

		JobStatusTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_job_status_transitions_total",
				Help: "Job status changes by source and target status",
			},
			[]string{"from", "to"},
		),
		JobsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_jobs_created_total",
				Help: "Jobs created by origin (api, bulk, import)",
			},
			[]string{"origin"},
		),
	}
}
