package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrAppNotListed is returned when the store reports no page for an app.
var ErrAppNotListed = errors.New("app not listed on steam store")

// StatusError is returned for unexpected HTTP responses from a Steam API.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code %d: %s", e.Service, e.StatusCode, e.Body)
}

// flexBool decodes both JSON booleans and the "true"/"True" strings some
// store responses carry.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}

	switch t := v.(type) {
	case bool:
		*b = flexBool(t)
	case string:
		*b = flexBool(strings.EqualFold(t, "true"))
	default:
		*b = false
	}
	return nil
}

type appDetails struct {
	Success flexBool        `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type platformData struct {
	Platforms struct {
		Windows flexBool `json:"windows"`
		Mac     flexBool `json:"mac"`
		Linux   flexBool `json:"linux"`
	} `json:"platforms"`
}

// StoreClient queries the Steam Store app details API.
type StoreClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewStoreClient creates a Steam Store client. The store rate limits
// aggressively, so callers should pass a limiter; nil means no pacing.
func NewStoreClient(baseURL string, httpClient *http.Client, limiter *rate.Limiter, logger *zap.Logger) *StoreClient {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &StoreClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// IsNative reports whether the store lists Linux among appID's platforms.
func (c *StoreClient) IsNative(ctx context.Context, appID string) (bool, error) {
	native, err := c.isNative(ctx, appID)
	if err != nil {
		StoreLookupsTotal.WithLabelValues("error").Inc()
		return false, err
	}

	StoreLookupsTotal.WithLabelValues("success").Inc()
	return native, nil
}

func (c *StoreClient) isNative(ctx context.Context, appID string) (bool, error) {
	err := c.limiter.Wait(ctx)
	if err != nil {
		return false, fmt.Errorf("wait for rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("appids", appID)
	params.Set("filters", "platforms")
	endpoint := c.baseURL + "/api/appdetails?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching-app-details", zap.String("app-id", appID))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	StoreLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return false, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, &StatusError{Service: "steam store", StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response body: %w", err)
	}

	var details map[string]appDetails
	err = json.Unmarshal(body, &details)
	if err != nil {
		return false, fmt.Errorf("unmarshal response: %w", err)
	}

	app, ok := details[appID]
	if !ok || !bool(app.Success) {
		return false, fmt.Errorf("%s: %w", appID, ErrAppNotListed)
	}

	var data platformData
	err = json.Unmarshal(app.Data, &data)
	if err != nil {
		return false, fmt.Errorf("unmarshal platforms: %w", err)
	}

	c.logger.Debug("fetched-app-details",
		zap.String("app-id", appID),
		zap.Bool("linux", bool(data.Platforms.Linux)))

	return bool(data.Platforms.Linux), nil
}
