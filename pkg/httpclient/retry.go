package httpclient

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RetryTransport retries requests rejected with 429 or 503, sleeping
// (attempt+1)*MinSleep between attempts unless the server sends Retry-After.
type RetryTransport struct {
	once        sync.Once
	Parent      http.RoundTripper
	MaxAttempts int
	MinSleep    time.Duration
	MaxSleep    time.Duration
	UserAgent   string
	Logger      *zap.Logger
}

// NewRetryTransport wraps parent. A nil parent means http.DefaultTransport.
func NewRetryTransport(parent http.RoundTripper, maxAttempts int, minSleep time.Duration) *RetryTransport {
	return &RetryTransport{
		Parent:      parent,
		MaxAttempts: maxAttempts,
		MinSleep:    minSleep,
	}
}

func (r *RetryTransport) init() {
	if r.Parent == nil {
		r.Parent = http.DefaultTransport
	}
	if r.MaxAttempts < 1 {
		r.MaxAttempts = 1
	}
	if r.MaxSleep == 0 {
		r.MaxSleep = time.Minute
	}
	if r.Logger == nil {
		r.Logger = zap.NewNop()
	}
}

// RoundTrip implements http.RoundTripper.
func (r *RetryTransport) RoundTrip(req *http.Request) (res *http.Response, err error) {
	r.once.Do(r.init)

	if r.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", r.UserAgent)
	}

	// requests with a body can only be replayed through GetBody
	replayable := req.Body == nil || req.Body == http.NoBody || req.GetBody != nil

	for attempt := range r.MaxAttempts {
		if attempt > 0 && req.GetBody != nil {
			req.Body, err = req.GetBody()
			if err != nil {
				return nil, err
			}
		}

		res, err = r.Parent.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if !retryable(res.StatusCode) || !replayable || attempt == r.MaxAttempts-1 {
			return res, nil
		}

		wait := r.backoff(attempt, res.Header.Get("Retry-After"))
		_, _ = io.Copy(io.Discard, res.Body)
		res.Body.Close()

		RetriesTotal.WithLabelValues(req.URL.Host).Inc()
		r.Logger.Debug("http-retry",
			zap.String("host", req.URL.Host),
			zap.Int("status", res.StatusCode),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait))

		err = sleep(req.Context(), wait)
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

func (r *RetryTransport) backoff(attempt int, retryAfter string) time.Duration {
	wait := time.Duration(attempt+1) * r.MinSleep

	seconds, err := strconv.Atoi(retryAfter)
	if err == nil && seconds >= 0 {
		wait = time.Duration(seconds) * time.Second
	}

	return min(wait, r.MaxSleep)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ http.RoundTripper = (*RetryTransport)(nil)
