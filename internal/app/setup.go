package app

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mselser95/protondb-tags/internal/circuitbreaker"
	"github.com/mselser95/protondb-tags/internal/protondb"
	"github.com/mselser95/protondb-tags/internal/steam"
	"github.com/mselser95/protondb-tags/pkg/cache"
	"github.com/mselser95/protondb-tags/pkg/config"
	"github.com/mselser95/protondb-tags/pkg/httpclient"
)

// New creates a new application instance and loads both caches.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if opts == nil {
		opts = &Options{UserIndex: -1}
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run-id", runID))

	httpClient := setupHTTPClient(cfg, logger)
	nativeCache, ratingCache := setupCaches(cfg, logger)

	storeGate, err := setupStoreBreaker(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup steam store breaker: %w", err)
	}

	return &App{
		cfg:         cfg,
		logger:      logger,
		opts:        opts,
		runID:       runID,
		httpClient:  httpClient,
		nativeCache: nativeCache,
		ratingCache: ratingCache,
		ratings:     setupProtonDBClient(cfg, logger, httpClient),
		store:       setupStoreClient(cfg, logger, httpClient),
		storeGate:   storeGate,
		launcher:    steam.NewLauncher(logger),
		in:          bufio.NewReader(opts.In),
		out:         opts.Out,
	}, nil
}

func setupHTTPClient(cfg *config.Config, logger *zap.Logger) *http.Client {
	return httpclient.New(&httpclient.Config{
		Timeout:      cfg.HTTPTimeout,
		MaxAttempts:  cfg.HTTPMaxRetries,
		RetryBackoff: cfg.HTTPRetryBackoff,
		Logger:       logger,
	})
}

func setupCaches(cfg *config.Config, logger *zap.Logger) (*cache.Store[bool], *cache.Store[string]) {
	dir := config.ResolveCacheDir(cfg.CacheDir, logger)
	nativePath, ratingPath := config.CachePaths(dir)

	nativeCache := cache.Open[bool](&cache.Config{
		Name:   "steam-native",
		Path:   nativePath,
		Logger: logger,
	})
	ratingCache := cache.Open[string](&cache.Config{
		Name:   "protondb",
		Path:   ratingPath,
		Logger: logger,
	})

	return nativeCache, ratingCache
}

func setupProtonDBClient(cfg *config.Config, logger *zap.Logger, httpClient *http.Client) *protondb.Client {
	limiter := httpclient.NewLimiter(cfg.ProtonDBRequestInterval)
	return protondb.NewClient(cfg.ProtonDBURL, httpClient, limiter, logger)
}

func setupStoreClient(cfg *config.Config, logger *zap.Logger, httpClient *http.Client) *steam.StoreClient {
	limiter := httpclient.NewLimiter(cfg.SteamRequestInterval)
	return steam.NewStoreClient(cfg.SteamStoreURL, httpClient, limiter, logger)
}

func setupStoreBreaker(cfg *config.Config, logger *zap.Logger) (*circuitbreaker.FailureBreaker, error) {
	if cfg.SteamStoreMaxFailures == 0 {
		return nil, nil
	}
	return circuitbreaker.New(&circuitbreaker.Config{
		Name:      "steam-store",
		Threshold: cfg.SteamStoreMaxFailures,
		Cooldown:  cfg.SteamStoreCooldown,
		Logger:    logger,
	})
}

func (a *App) webAPIClient() *steam.WebAPIClient {
	return steam.NewWebAPIClient(a.cfg.SteamWebAPIURL, a.cfg.SteamAPIKey, a.httpClient, a.logger)
}
