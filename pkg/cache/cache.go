package cache

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

const day = 24 * time.Hour

// Delay controls how far in the future a stored entry expires.
// The expiry is Base plus a uniformly random amount in [0, Jitter].
type Delay struct {
	Base   time.Duration
	Jitter time.Duration
}

//nolint:gochecknoglobals // Expiry presets
var (
	// DefaultDelay is used for successful lookups: 7 days plus up to 7 days of jitter.
	DefaultDelay = Delay{Base: 7 * day, Jitter: 7 * day}

	// FailureDelay is used when a remote lookup failed, so the key is retried
	// the next day instead of on every run.
	FailureDelay = Delay{Base: 1 * day}
)

// Entry is a single cached value and the epoch second after which it is stale.
type Entry[V any] struct {
	TimeToCheck int64 `json:"time_to_check"`
	Value       V     `json:"value"`
}

// Store is a locally persisted key -> (value, expiry) map.
// Stale entries are kept until overwritten; they are only hidden from Get.
// A Store is owned by one goroutine and is not safe for concurrent use.
type Store[V any] struct {
	name    string
	path    string
	entries map[string]Entry[V]
	now     func() time.Time
	rng     *rand.Rand
	logger  *zap.Logger
}

// Config holds configuration for a Store.
type Config struct {
	Name   string // Namespace used in logs and metrics (e.g. "protondb")
	Path   string // JSON document backing the store
	Logger *zap.Logger

	// Optional, for tests.
	Now  func() time.Time
	Rand *rand.Rand
}

// Open creates a store and loads its backing document.
// Load failures are logged and leave the store empty; Open never fails.
func Open[V any](cfg *Config) *Store[V] {
	s := &Store[V]{
		name:    cfg.Name,
		path:    cfg.Path,
		entries: make(map[string]Entry[V]),
		now:     cfg.Now,
		rng:     cfg.Rand,
		logger:  cfg.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	s.load()
	CacheEntries.WithLabelValues(s.name).Set(float64(len(s.entries)))

	return s
}

// Get returns the cached value for key.
// An expired entry is reported exactly like a missing one.
func (s *Store[V]) Get(key string) (value V, found bool) {
	entry, ok := s.entries[key]
	if !ok || entry.TimeToCheck <= s.now().Unix() {
		CacheMissesTotal.WithLabelValues(s.name).Inc()
		s.logger.Debug("cache-miss",
			zap.String("cache", s.name),
			zap.String("key", key),
			zap.Bool("stale", ok))
		return value, false
	}

	CacheHitsTotal.WithLabelValues(s.name).Inc()
	s.logger.Debug("cache-hit",
		zap.String("cache", s.name),
		zap.String("key", key))

	return entry.Value, true
}

// Put stores value under key using DefaultDelay.
func (s *Store[V]) Put(key string, value V) {
	s.PutWithDelay(key, value, DefaultDelay)
}

// PutWithDelay stores value under key, replacing any existing entry.
func (s *Store[V]) PutWithDelay(key string, value V, delay Delay) {
	expiresAt := s.now().Unix() + int64(delay.Base/time.Second)

	jitter := int64(delay.Jitter / time.Second)
	if jitter > 0 {
		expiresAt += s.rng.Int64N(jitter + 1)
	}

	s.entries[key] = Entry[V]{TimeToCheck: expiresAt, Value: value}

	CacheSetsTotal.WithLabelValues(s.name).Inc()
	CacheEntries.WithLabelValues(s.name).Set(float64(len(s.entries)))
	s.logger.Debug("cache-set",
		zap.String("cache", s.name),
		zap.String("key", key),
		zap.Int64("time-to-check", expiresAt))
}

// Len returns the number of stored entries, stale ones included.
func (s *Store[V]) Len() int {
	return len(s.entries)
}

// Stats counts fresh and stale entries at the current time.
func (s *Store[V]) Stats() (fresh int, stale int) {
	now := s.now().Unix()
	for _, entry := range s.entries {
		if entry.TimeToCheck > now {
			fresh++
		} else {
			stale++
		}
	}
	return fresh, stale
}

// Name returns the store namespace.
func (s *Store[V]) Name() string {
	return s.name
}

// Path returns the backing document path.
func (s *Store[V]) Path() string {
	return s.path
}
