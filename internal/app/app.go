package app

import (
	"bufio"
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/mselser95/protondb-tags/internal/circuitbreaker"
	"github.com/mselser95/protondb-tags/internal/steam"
	"github.com/mselser95/protondb-tags/pkg/cache"
	"github.com/mselser95/protondb-tags/pkg/config"
)

type ratingSource interface {
	FetchTier(ctx context.Context, appID string) (string, error)
}

type nativeSource interface {
	IsNative(ctx context.Context, appID string) (bool, error)
}

type collectionResetter interface {
	ResetCollections(ctx context.Context, sharedconfigPath string) error
}

// App tags a Steam library with ProtonDB ratings.
type App struct {
	cfg         *config.Config
	logger      *zap.Logger
	opts        *Options
	runID       string
	httpClient  *http.Client
	nativeCache *cache.Store[bool]
	ratingCache *cache.Store[string]
	ratings     ratingSource
	store       nativeSource
	storeGate   *circuitbreaker.FailureBreaker // nil when native checks never stop
	launcher    collectionResetter
	in          *bufio.Reader
	out         io.Writer

	user            *steam.User // set when the sharedconfig was discovered
	sinceCheckpoint int
}

// Options holds per-run options, mostly from command line flags.
type Options struct {
	SharedconfigPath string // Explicit sharedconfig.vdf, skips discovery
	CheckNative      bool   // Ask the Steam Store for Linux support first
	NoSave           bool   // Never write the sharedconfig
	AssumeYes        bool   // Answer yes to every prompt
	NoLaunch         bool   // Do not ask Steam to reset collections after saving
	IncludeOwned     bool   // Add owned games missing from the sharedconfig
	UserIndex        int    // Steam user to pick when several exist, -1 to ask
	Home             string // Home directory used for discovery, default $HOME
	In               io.Reader
	Out              io.Writer
}

// RunID identifies this run in logs.
func (a *App) RunID() string {
	return a.runID
}

// NativeCache returns the Steam native flag store.
func (a *App) NativeCache() *cache.Store[bool] {
	return a.nativeCache
}

// RatingCache returns the ProtonDB rating store.
func (a *App) RatingCache() *cache.Store[string] {
	return a.ratingCache
}
