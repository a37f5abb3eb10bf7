package httpclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var RetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "protondb_tags_http_retries_total",
	Help: "Total number of HTTP requests retried after 429 or 503",
}, []string{"host"})
