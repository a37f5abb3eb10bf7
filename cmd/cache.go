package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mselser95/protondb-tags/pkg/cache"
	"github.com/mselser95/protondb-tags/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the lookup caches",
	}

	cacheInfoCmd = &cobra.Command{
		Use:   "info",
		Short: "Show where the caches live and how many entries are fresh",
		Args:  cobra.NoArgs,
		RunE:  runCacheInfo,
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Forget cached lookups so the next sync asks again",
		Long: `Empties the caches. Without flags both are cleared.

Examples:
  # Re-check native Linux support for every game on the next sync
  protondb-tags cache clear --native`,
		Args: cobra.NoArgs,
		RunE: runCacheClear,
	}
)

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd, cacheClearCmd)
	cacheClearCmd.Flags().Bool("native", false, "Clear only the Steam native cache")
	cacheClearCmd.Flags().Bool("protondb", false, "Clear only the ProtonDB rating cache")
}

type cacheStores struct {
	native *cache.Store[bool]
	rating *cache.Store[string]
}

func openStores(dir string, logger *zap.Logger) *cacheStores {
	nativePath, ratingPath := config.CachePaths(dir)
	return &cacheStores{
		native: cache.Open[bool](&cache.Config{Name: "steam-native", Path: nativePath, Logger: logger}),
		rating: cache.Open[string](&cache.Config{Name: "protondb", Path: ratingPath, Logger: logger}),
	}
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	dir := config.ResolveCacheDir(cfg.CacheDir, logger)
	printCacheInfo(cmd.OutOrStdout(), dir, openStores(dir, logger))
	return nil
}

func printCacheInfo(w io.Writer, dir string, stores *cacheStores) {
	fmt.Fprintf(w, "Cache directory: %s\n", dir)

	fresh, stale := stores.native.Stats()
	fmt.Fprintf(w, "%-14s %6d entries (%d fresh, %d expired)  %s\n",
		stores.native.Name(), stores.native.Len(), fresh, stale, stores.native.Path())

	fresh, stale = stores.rating.Stats()
	fmt.Fprintf(w, "%-14s %6d entries (%d fresh, %d expired)  %s\n",
		stores.rating.Name(), stores.rating.Len(), fresh, stale, stores.rating.Path())
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	onlyNative, _ := cmd.Flags().GetBool("native")
	onlyRating, _ := cmd.Flags().GetBool("protondb")

	dir := config.ResolveCacheDir(cfg.CacheDir, logger)
	return clearCaches(cmd.OutOrStdout(), openStores(dir, logger), onlyNative, onlyRating)
}

func clearCaches(w io.Writer, stores *cacheStores, onlyNative bool, onlyRating bool) error {
	both := !onlyNative && !onlyRating

	if both || onlyNative {
		n := stores.native.Len()
		stores.native.Clear()
		err := stores.native.Save()
		if err != nil {
			return fmt.Errorf("clear %s cache: %w", stores.native.Name(), err)
		}
		fmt.Fprintf(w, "Cleared %d entries from %s\n", n, stores.native.Path())
	}

	if both || onlyRating {
		n := stores.rating.Len()
		stores.rating.Clear()
		err := stores.rating.Save()
		if err != nil {
			return fmt.Errorf("clear %s cache: %w", stores.rating.Name(), err)
		}
		fmt.Fprintf(w, "Cleared %d entries from %s\n", n, stores.rating.Path())
	}

	return nil
}
