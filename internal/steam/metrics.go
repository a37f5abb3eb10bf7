package steam

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	StoreLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protondb_tags_steam_store_lookups_total",
		Help: "Total number of Steam Store app details lookups by outcome",
	}, []string{"outcome"})

	StoreLookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "protondb_tags_steam_store_lookup_duration_seconds",
		Help:    "Duration of Steam Store app details requests",
		Buckets: prometheus.DefBuckets,
	})
)
