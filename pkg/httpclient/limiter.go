package httpclient

import (
	"time"

	"golang.org/x/time/rate"
)

// NewLimiter allows one request per interval. A zero interval disables pacing.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
