package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protondb_tags_remote_lookups_total",
		Help: "Total number of remote lookups by source and outcome",
	}, []string{"source", "outcome"})

	AppsTaggedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protondb_tags_apps_tagged_total",
		Help: "Total number of apps whose ranking tag was written, by tier",
	}, []string{"tier"})
)
