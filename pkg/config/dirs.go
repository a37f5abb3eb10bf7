package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
)

// AppDirName is the directory created under the XDG cache and config homes.
const AppDirName = "ProtonDB-Tags"

// Cache document names.
const (
	SteamNativeCacheFile = "steamNativeCache.json"
	ProtonDBCacheFile    = "protonDBCache.json"
	SettingsFile         = "config.yaml"
)

// ResolveCacheDir returns the cache directory, creating it if absent.
// An explicit override wins over $XDG_CACHE_HOME. A directory that cannot be
// created is logged and returned anyway; saving will report the failure.
func ResolveCacheDir(override string, logger *zap.Logger) string {
	dir := override
	if dir == "" {
		migrateLegacyCacheDir(xdg.CacheHome, logger)
		dir = filepath.Join(xdg.CacheHome, AppDirName)
	}

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		logger.Warn("cache-dir-create-failed",
			zap.String("path", dir),
			zap.Error(err))
	}

	return dir
}

// ResolveConfigDir returns the settings directory. It is created on first save.
func ResolveConfigDir(override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// migrateLegacyCacheDir moves <home>/.cache/ProtonDB-Tags, written by releases
// that joined $XDG_CACHE_HOME with ".cache", to <home>/ProtonDB-Tags.
func migrateLegacyCacheDir(cacheHome string, logger *zap.Logger) {
	legacyParent := filepath.Join(cacheHome, ".cache")
	legacy := filepath.Join(legacyParent, AppDirName)
	target := filepath.Join(cacheHome, AppDirName)

	info, err := os.Stat(legacy)
	if err != nil || !info.IsDir() {
		return
	}

	_, err = os.Stat(target)
	if err == nil {
		logger.Warn("legacy-cache-dir-ignored",
			zap.String("legacy", legacy),
			zap.String("path", target),
			zap.String("reason", "target already exists"))
		return
	}
	if !errors.Is(err, os.ErrNotExist) {
		return
	}

	err = os.Rename(legacy, target)
	if err != nil {
		logger.Warn("legacy-cache-dir-migration-failed",
			zap.String("legacy", legacy),
			zap.Error(err))
		return
	}
	logger.Info("legacy-cache-dir-migrated",
		zap.String("from", legacy),
		zap.String("to", target))

	entries, err := os.ReadDir(legacyParent)
	if err == nil && len(entries) == 0 {
		_ = os.Remove(legacyParent)
	}
}

// CachePaths returns the two cache documents inside dir.
func CachePaths(dir string) (nativePath string, protonDBPath string) {
	return filepath.Join(dir, SteamNativeCacheFile), filepath.Join(dir, ProtonDBCacheFile)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !hasHomePrefix(path) {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

func hasHomePrefix(path string) bool {
	return len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator)
}
