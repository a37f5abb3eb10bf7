package circuitbreaker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// BreakerEnabled indicates whether calls to a service are allowed.
	BreakerEnabled = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "protondb_tags_circuit_breaker_enabled",
		Help: "Whether the circuit breaker allows calls (1=enabled, 0=disabled)",
	}, []string{"breaker"})

	// BreakerStateChanges tracks the number of times a breaker changed state.
	BreakerStateChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protondb_tags_circuit_breaker_state_changes_total",
		Help: "Total number of times the circuit breaker changed state (enabled/disabled)",
	}, []string{"breaker"})
)
