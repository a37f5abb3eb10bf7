package cache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

// rawEntry mirrors Entry with optional fields so incomplete entries can be detected.
type rawEntry struct {
	TimeToCheck *int64          `json:"time_to_check"`
	Value       json.RawMessage `json:"value"`
}

// load reads the backing document into memory.
// A missing or unparseable document leaves the store empty.
func (s *Store[V]) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("cache-not-found",
				zap.String("cache", s.name),
				zap.String("path", s.path),
				zap.String("note", "will be created on save"))
			return
		}
		CacheLoadErrorsTotal.WithLabelValues(s.name).Inc()
		s.logger.Warn("cache-read-failed",
			zap.String("cache", s.name),
			zap.String("path", s.path),
			zap.Error(err))
		return
	}

	var raw map[string]json.RawMessage
	err = json.Unmarshal(data, &raw)
	if err != nil {
		CacheLoadErrorsTotal.WithLabelValues(s.name).Inc()
		s.logger.Warn("cache-parse-failed",
			zap.String("cache", s.name),
			zap.String("path", s.path),
			zap.String("note", "starting with an empty cache"),
			zap.Error(err))
		return
	}

	skipped := 0
	for key, msg := range raw {
		entry, decodeErr := decodeEntry[V](msg)
		if decodeErr != nil {
			skipped++
			s.logger.Debug("cache-entry-skipped",
				zap.String("cache", s.name),
				zap.String("key", key),
				zap.Error(decodeErr))
			continue
		}
		s.entries[key] = entry
	}

	s.logger.Info("cache-loaded",
		zap.String("cache", s.name),
		zap.String("path", s.path),
		zap.Int("entries", len(s.entries)),
		zap.Int("skipped", skipped))
}

func decodeEntry[V any](msg json.RawMessage) (entry Entry[V], err error) {
	var raw rawEntry
	err = json.Unmarshal(msg, &raw)
	if err != nil {
		return entry, fmt.Errorf("unmarshal entry: %w", err)
	}

	if raw.TimeToCheck == nil {
		return entry, errors.New("missing time_to_check")
	}
	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		return entry, errors.New("missing value")
	}

	err = json.Unmarshal(raw.Value, &entry.Value)
	if err != nil {
		return entry, fmt.Errorf("unmarshal value: %w", err)
	}
	entry.TimeToCheck = *raw.TimeToCheck

	return entry, nil
}

// Save writes every entry, stale ones included, to the backing document.
// The document is replaced atomically so a crash mid-write keeps the previous
// version. A failed save leaves the in-memory entries untouched.
func (s *Store[V]) Save() error {
	err := os.MkdirAll(filepath.Dir(s.path), 0o755)
	if err != nil {
		CacheSaveErrorsTotal.WithLabelValues(s.name).Inc()
		return fmt.Errorf("create cache directory: %w", err)
	}

	data, err := json.Marshal(s.entries)
	if err != nil {
		CacheSaveErrorsTotal.WithLabelValues(s.name).Inc()
		return fmt.Errorf("marshal %s cache: %w", s.name, err)
	}

	err = atomic.WriteFile(s.path, bytes.NewReader(data))
	if err != nil {
		CacheSaveErrorsTotal.WithLabelValues(s.name).Inc()
		return fmt.Errorf("write %s cache: %w", s.name, err)
	}

	CacheSavesTotal.WithLabelValues(s.name).Inc()
	s.logger.Debug("cache-saved",
		zap.String("cache", s.name),
		zap.String("path", s.path),
		zap.Int("entries", len(s.entries)))

	return nil
}

// Clear drops every entry from memory. The document changes on the next Save.
func (s *Store[V]) Clear() {
	s.entries = make(map[string]Entry[V])
	CacheEntries.WithLabelValues(s.name).Set(0)
	s.logger.Info("cache-cleared", zap.String("cache", s.name))
}
