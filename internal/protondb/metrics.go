package protondb

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// SummaryFetchDuration tracks ProtonDB summary request latency.
	SummaryFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "protondb_tags_protondb_fetch_duration_seconds",
		Help:    "Duration of summary requests to ProtonDB",
		Buckets: prometheus.DefBuckets,
	})

	// SummaryFetchErrorsTotal tracks failed tier lookups, missing reports included.
	SummaryFetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "protondb_tags_protondb_fetch_errors_total",
		Help: "Total number of failed ProtonDB tier lookups",
	})
)
