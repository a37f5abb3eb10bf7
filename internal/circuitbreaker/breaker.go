// Package circuitbreaker stops calling a remote service after repeated
// failures and lets one trial call through once a cooldown has passed.
package circuitbreaker

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// FailureBreaker trips after Threshold consecutive failures.
// While open, Allow reports false until Cooldown has elapsed; the next call is
// then let through and its outcome decides whether the breaker closes again.
type FailureBreaker struct {
	enabled atomic.Bool // Atomic for lock-free reads

	// Configuration
	name      string
	threshold int
	cooldown  time.Duration
	now       func() time.Time
	logger    *zap.Logger

	// Protected by mutex
	mu          sync.Mutex
	consecutive int
	openedAt    time.Time
	trips       int
}

// Config holds circuit breaker configuration.
type Config struct {
	Name      string
	Threshold int
	Cooldown  time.Duration
	Now       func() time.Time // Defaults to time.Now
	Logger    *zap.Logger
}

// Status holds current circuit breaker status for debugging.
type Status struct {
	Enabled             bool
	ConsecutiveFailures int
	OpenedAt            time.Time
	Trips               int
}

// New creates a new circuit breaker with the given configuration.
func New(cfg *Config) (breaker *FailureBreaker, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.Threshold <= 0 {
		return nil, fmt.Errorf("threshold must be positive")
	}
	if cfg.Cooldown < 0 {
		return nil, fmt.Errorf("cooldown cannot be negative")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	breaker = &FailureBreaker{
		name:      cfg.Name,
		threshold: cfg.Threshold,
		cooldown:  cfg.Cooldown,
		now:       now,
		logger:    cfg.Logger,
	}

	// Start enabled by default
	breaker.enabled.Store(true)
	BreakerEnabled.WithLabelValues(cfg.Name).Set(1)

	return breaker, nil
}

// IsEnabled reports whether the breaker is closed.
func (b *FailureBreaker) IsEnabled() (enabled bool) {
	return b.enabled.Load()
}

// Allow reports whether a call may be made now.
func (b *FailureBreaker) Allow() bool {
	if b.enabled.Load() {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cooldown > 0 && b.now().Sub(b.openedAt) >= b.cooldown {
		b.logger.Info("circuit-breaker-trial",
			zap.String("breaker", b.name),
			zap.Duration("cooldown", b.cooldown))
		return true
	}
	return false
}

// RecordSuccess closes the breaker and resets the failure count.
func (b *FailureBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutive = 0
	if b.enabled.Load() {
		return
	}

	b.enabled.Store(true)
	BreakerEnabled.WithLabelValues(b.name).Set(1)
	BreakerStateChanges.WithLabelValues(b.name).Inc()

	b.logger.Info("circuit-breaker-enabled", zap.String("breaker", b.name))
}

// RecordFailure counts a failure and opens the breaker at the threshold.
// A failed trial call reopens it for another cooldown.
func (b *FailureBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutive++
	if !b.enabled.Load() {
		b.openedAt = b.now()
		return
	}
	if b.consecutive < b.threshold {
		return
	}

	b.enabled.Store(false)
	b.openedAt = b.now()
	b.trips++
	BreakerEnabled.WithLabelValues(b.name).Set(0)
	BreakerStateChanges.WithLabelValues(b.name).Inc()

	b.logger.Warn("circuit-breaker-disabled",
		zap.String("breaker", b.name),
		zap.Int("consecutive-failures", b.consecutive),
		zap.Duration("cooldown", b.cooldown))
}

// GetStatus returns current circuit breaker status.
func (b *FailureBreaker) GetStatus() (status Status) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Status{
		Enabled:             b.enabled.Load(),
		ConsecutiveFailures: b.consecutive,
		OpenedAt:            b.openedAt,
		Trips:               b.trips,
	}
}
