package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatasetLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solar_dashboard_dataset_loads_total",
			Help: "Total dataset load attempts by outcome (processed, raw, synthetic, failed)",
		},
		[]string{"dataset", "outcome"},
	)

	CacheEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solar_dashboard_cache_events_total",
			Help: "Dataset cache hits, misses and invalidations",
		},
		[]string{"dataset", "event"},
	)

	ReportGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solar_dashboard_report_generations_total",
			Help: "Total report bundle generations by status",
		},
		[]string{"status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solar_dashboard_request_duration_seconds",
			Help:    "Dashboard HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)
