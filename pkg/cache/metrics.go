package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protondb_tags_cache_hits_total",
		Help: "Total number of cache hits",
	}, []string{"cache"})

	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protondb_tags_cache_misses_total",
		Help: "Total number of cache misses, expired entries included",
	}, []string{"cache"})

	CacheSetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protondb_tags_cache_sets_total",
		Help: "Total number of cache sets",
	}, []string{"cache"})

	CacheEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "protondb_tags_cache_entries",
		Help: "Number of entries held by the cache, stale ones included",
	}, []string{"cache"})

	CacheSavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protondb_tags_cache_saves_total",
		Help: "Total number of successful cache saves",
	}, []string{"cache"})

	CacheSaveErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protondb_tags_cache_save_errors_total",
		Help: "Total number of failed cache saves",
	}, []string{"cache"})

	CacheLoadErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protondb_tags_cache_load_errors_total",
		Help: "Total number of unreadable or corrupt cache documents",
	}, []string{"cache"})
)
