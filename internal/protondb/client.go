// Package protondb fetches compatibility summaries from ProtonDB.
package protondb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrNoReports is returned when ProtonDB has no summary for an app.
var ErrNoReports = errors.New("no protondb reports")

// StatusError is returned for unexpected HTTP responses.
type StatusError struct {
	AppID      string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("protondb summary for %s: unexpected status code %d: %s", e.AppID, e.StatusCode, e.Body)
}

// Summary is the aggregated report for one app.
type Summary struct {
	Tier             string  `json:"tier"`
	TrendingTier     string  `json:"trendingTier"`
	BestReportedTier string  `json:"bestReportedTier"`
	Confidence       string  `json:"confidence"`
	Score            float64 `json:"score"`
	Total            int     `json:"total"`
}

// Client is an HTTP client for the ProtonDB summaries API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a new ProtonDB client. limiter may be nil.
func NewClient(baseURL string, httpClient *http.Client, limiter *rate.Limiter, logger *zap.Logger) *Client {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// FetchSummary fetches the report summary for appID.
func (c *Client) FetchSummary(ctx context.Context, appID string) (*Summary, error) {
	err := c.limiter.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v1/reports/summaries/%s.json", c.baseURL, appID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching-protondb-summary",
		zap.String("url", endpoint),
		zap.String("app-id", appID))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	SummaryFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", appID, ErrNoReports)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{AppID: appID, StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var summary Summary
	err = json.Unmarshal(body, &summary)
	if err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &summary, nil
}

// FetchTier returns the trending tier for appID, which tracks recent reports
// better than the all-time tier. The all-time tier is used when no trend exists.
func (c *Client) FetchTier(ctx context.Context, appID string) (string, error) {
	summary, err := c.FetchSummary(ctx, appID)
	if err != nil {
		SummaryFetchErrorsTotal.Inc()
		return "", err
	}

	tier := summary.TrendingTier
	if tier == "" {
		tier = summary.Tier
	}
	if tier == "" {
		SummaryFetchErrorsTotal.Inc()
		return "", fmt.Errorf("%s: summary without tier: %w", appID, ErrNoReports)
	}

	c.logger.Debug("fetched-protondb-tier",
		zap.String("app-id", appID),
		zap.String("tier", tier))

	return tier, nil
}
