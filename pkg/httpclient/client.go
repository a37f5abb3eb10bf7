// Package httpclient builds the HTTP client shared by the remote API clients.
package httpclient

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// UserAgent identifies this tool to ProtonDB and Steam.
const UserAgent = "protondb-tags/1.0"

// Config holds HTTP client settings.
type Config struct {
	Timeout      time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
	Logger       *zap.Logger
}

// New returns an http.Client that retries rate-limited requests.
func New(cfg *Config) *http.Client {
	transport := NewRetryTransport(http.DefaultTransport, cfg.MaxAttempts, cfg.RetryBackoff)
	transport.UserAgent = UserAgent
	transport.Logger = cfg.Logger

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}
