package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/mselser95/protondb-tags/internal/protondb"
	"github.com/mselser95/protondb-tags/internal/steam"
	"github.com/mselser95/protondb-tags/internal/tags"
	"github.com/mselser95/protondb-tags/pkg/cache"
	"github.com/mselser95/protondb-tags/pkg/config"
	"github.com/mselser95/protondb-tags/pkg/vdf"
)

// Summary counts what a run did.
type Summary struct {
	SharedconfigPath   string
	Total              int // Entries in the apps section
	Added              int // Owned games merged into the apps section
	Skipped            int // Non-numeric app ids
	Tagged             int
	Unchanged          int
	Unrated            int // No rating known
	UnknownTier        int
	RemoteLookups      int
	NativeSkipped      int // Native checks skipped while the Steam Store kept failing
	CacheHits          int
	CheckpointFailures int
	Saved              bool
}

// Run tags every app in the selected sharedconfig. Both caches are saved
// before Run returns, including when ctx is cancelled; the sharedconfig is
// only written after a complete pass.
func (a *App) Run(ctx context.Context) (*Summary, error) {
	a.logger.Info("sync-starting",
		zap.Bool("check-native", a.opts.CheckNative),
		zap.Bool("include-owned", a.opts.IncludeOwned),
		zap.Int("native-cache-entries", a.nativeCache.Len()),
		zap.Int("protondb-cache-entries", a.ratingCache.Len()))

	path, err := a.resolveSharedconfig()
	if err != nil {
		return nil, fmt.Errorf("find sharedconfig: %w", err)
	}

	sharedconfig, err := steam.Load(path)
	if err != nil {
		return nil, err
	}

	summary := &Summary{SharedconfigPath: path}

	apps, err := a.selectApps(ctx, sharedconfig, summary)
	if err != nil {
		return summary, err
	}

	summary.Total = apps.Len()
	fmt.Fprintf(a.out, "Found %d Steam games\n", summary.Total)

	a.tagApps(ctx, apps, summary)

	err = a.saveCaches()
	if err != nil {
		summary.CheckpointFailures++
	}

	a.logger.Info("sync-finished",
		zap.Int("tagged", summary.Tagged),
		zap.Int("unchanged", summary.Unchanged),
		zap.Int("unrated", summary.Unrated),
		zap.Int("remote-lookups", summary.RemoteLookups),
		zap.Int("cache-hits", summary.CacheHits))

	if ctx.Err() != nil {
		return summary, fmt.Errorf("sync interrupted: %w", ctx.Err())
	}

	err = a.saveSharedconfig(ctx, sharedconfig, summary)
	if err != nil {
		return summary, err
	}

	return summary, nil
}

func (a *App) selectApps(ctx context.Context, sharedconfig *steam.Sharedconfig, summary *Summary) (*vdf.Map, error) {
	if !a.opts.IncludeOwned {
		apps, err := sharedconfig.Apps()
		if err != nil {
			return nil, fmt.Errorf("read apps: %w", err)
		}
		return apps, nil
	}

	ids, err := a.ownedGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch owned games: %w", err)
	}

	apps, err := sharedconfig.EnsureApps()
	if err != nil {
		return nil, fmt.Errorf("read apps: %w", err)
	}

	summary.Added = steam.MergeApps(apps, ids)
	a.logger.Info("owned-games-merged",
		zap.Int("owned", len(ids)),
		zap.Int("added", summary.Added))

	return apps, nil
}

func (a *App) tagApps(ctx context.Context, apps *vdf.Map, summary *Summary) {
	entries := apps.Entries()

	for i, entry := range entries {
		if ctx.Err() != nil {
			a.logger.Warn("sync-cancelled", zap.Int("processed", i), zap.Int("total", len(entries)))
			return
		}

		app, ok := entry.Value.(*vdf.Map)
		if !ok || !isAppID(entry.Key) {
			summary.Skipped++
			continue
		}

		tier, known := a.resolveTier(ctx, entry.Key, summary)
		if ctx.Err() != nil {
			continue
		}
		a.maybeCheckpoint(summary)

		if !known {
			summary.Unrated++
			continue
		}

		change := tags.Apply(app, tier)
		switch {
		case !change.Known:
			summary.UnknownTier++
			a.logger.Warn("unknown-protondb-tier",
				zap.String("app-id", entry.Key),
				zap.String("tier", tier))
			fmt.Fprintf(a.out, "Unknown ProtonDB rating: %s\n Please report this on GitHub!\n", tier)
		case !change.Changed:
			summary.Unchanged++
		default:
			summary.Tagged++
			AppsTaggedTotal.WithLabelValues(tier).Inc()
			if change.OldTier == "" {
				fmt.Fprintf(a.out, "%s %s\n", entry.Key, tier)
			} else {
				fmt.Fprintf(a.out, "%s %s => %s (%d of %d)\n", entry.Key, change.OldTier, tier, i+1, len(entries))
			}
		}
	}
}

// isAppID reports whether key is a numeric Steam app id. Shortcuts to
// non-Steam games use other keys and have no ProtonDB entry.
func isAppID(key string) bool {
	_, err := strconv.ParseUint(key, 10, 64)
	return err == nil
}

func (a *App) resolveTier(ctx context.Context, appID string, summary *Summary) (string, bool) {
	if a.opts.CheckNative && a.lookupNative(ctx, appID, summary) {
		return tags.TierNative, true
	}
	return a.lookupRating(ctx, appID, summary)
}

// lookupNative consults the native cache, then the Steam Store. A failed
// lookup is cached as not native for a day. While the store breaker is open
// nothing is asked or cached.
func (a *App) lookupNative(ctx context.Context, appID string, summary *Summary) bool {
	native, found := a.nativeCache.Get(appID)
	if found {
		summary.CacheHits++
		return native
	}

	if a.storeGate != nil && !a.storeGate.Allow() {
		summary.NativeSkipped++
		return false
	}

	native, err := a.store.IsNative(ctx, appID)
	if ctx.Err() != nil {
		return false
	}
	summary.RemoteLookups++
	a.sinceCheckpoint++
	a.recordStoreOutcome(err)

	if err != nil {
		LookupsTotal.WithLabelValues("steam-store", "failure").Inc()
		a.logger.Warn("steam-native-lookup-failed",
			zap.String("app-id", appID),
			zap.Error(err))
		a.nativeCache.PutWithDelay(appID, false, cache.FailureDelay)
		return false
	}

	LookupsTotal.WithLabelValues("steam-store", "success").Inc()
	a.nativeCache.Put(appID, native)
	return native
}

// recordStoreOutcome feeds the store breaker. An unlisted app is a valid
// answer, not a store failure.
func (a *App) recordStoreOutcome(err error) {
	if a.storeGate == nil {
		return
	}
	if err == nil || errors.Is(err, steam.ErrAppNotListed) {
		a.storeGate.RecordSuccess()
		return
	}
	a.storeGate.RecordFailure()
}

// lookupRating consults the rating cache, then ProtonDB. A cached empty tier
// records that ProtonDB had no rating the last time it was asked.
func (a *App) lookupRating(ctx context.Context, appID string, summary *Summary) (string, bool) {
	tier, found := a.ratingCache.Get(appID)
	if found {
		summary.CacheHits++
		return tier, tier != ""
	}

	tier, err := a.ratings.FetchTier(ctx, appID)
	if ctx.Err() != nil {
		return "", false
	}
	summary.RemoteLookups++
	a.sinceCheckpoint++

	if err != nil {
		LookupsTotal.WithLabelValues("protondb", "failure").Inc()
		if errors.Is(err, protondb.ErrNoReports) {
			a.logger.Debug("protondb-no-reports", zap.String("app-id", appID))
		} else {
			a.logger.Warn("protondb-lookup-failed",
				zap.String("app-id", appID),
				zap.Error(err))
		}
		a.ratingCache.PutWithDelay(appID, "", cache.FailureDelay)
		return "", false
	}

	LookupsTotal.WithLabelValues("protondb", "success").Inc()
	a.ratingCache.Put(appID, tier)
	return tier, true
}

func (a *App) maybeCheckpoint(summary *Summary) {
	interval := a.cfg.CheckpointInterval
	if interval <= 0 || a.sinceCheckpoint < interval {
		return
	}
	a.sinceCheckpoint = 0

	err := a.saveCaches()
	if err != nil {
		summary.CheckpointFailures++
	}
}

func (a *App) saveSharedconfig(ctx context.Context, sharedconfig *steam.Sharedconfig, summary *Summary) error {
	if a.opts.NoSave {
		a.logger.Info("sharedconfig-save-skipped", zap.String("reason", "no-save"))
		return nil
	}

	if summary.Tagged == 0 && summary.Added == 0 {
		fmt.Fprintln(a.out, "No changes to save.")
		return nil
	}

	fmt.Fprintln(a.out, "\nWARNING: This may clear your current tags on Steam!")
	if !a.confirm("Would you like to save sharedconfig.vdf? (y/N) ") {
		return nil
	}

	err := sharedconfig.Save(summary.SharedconfigPath)
	if err != nil {
		return err
	}
	summary.Saved = true
	a.logger.Info("sharedconfig-saved", zap.String("path", summary.SharedconfigPath))

	if a.opts.NoLaunch {
		return nil
	}
	return a.resetCollections(ctx, summary.SharedconfigPath)
}

func (a *App) resetCollections(ctx context.Context, path string) error {
	if steam.IsFlatpak(path) {
		a.pause("\nPlease close Steam, then press Enter to continue...")
	} else {
		a.pause("\nMake sure Steam is open, then press Enter to continue...")
	}

	err := a.launcher.ResetCollections(ctx, path)
	if err != nil {
		a.logger.Warn("steam-launch-failed", zap.Error(err))
		fmt.Fprintf(a.out, "Please open this URL in your browser: %s\n", steam.ResetCollectionsURL)
		return nil
	}

	fmt.Fprintln(a.out, "Please click 'Confirm' in Steam, this will import the tags into your library.")
	return nil
}

// resolveSharedconfig returns the explicit path when it exists and otherwise
// discovers the userdata directory and picks a user.
func (a *App) resolveSharedconfig() (string, error) {
	if a.opts.SharedconfigPath != "" {
		path, err := config.ExpandHome(a.opts.SharedconfigPath)
		if err != nil {
			return "", err
		}

		_, err = os.Stat(path)
		if err == nil {
			fmt.Fprintf(a.out, "Selected: %s\n", path)
			return path, nil
		}
		fmt.Fprintf(a.out, "Shared config path '%s' does not exist. Using default path.\n", a.opts.SharedconfigPath)
	}

	home := a.opts.Home
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("find home directory: %w", err)
		}
	}

	root, err := steam.FindUserdata(home)
	if err != nil {
		return "", fmt.Errorf("%w: pass the path to sharedconfig.vdf with --sharedconfig", err)
	}
	fmt.Fprintf(a.out, "Steam found at: %s\n", root)

	users, err := steam.FindUsers(root)
	if err != nil {
		return "", err
	}

	user, err := a.pickUser(users)
	if err != nil {
		return "", err
	}
	a.user = &user

	path := user.SharedconfigPath()
	fmt.Fprintf(a.out, "Selected: %s\n", path)
	return path, nil
}

func (a *App) pickUser(users []steam.User) (steam.User, error) {
	for i, user := range users {
		name := user.PersonaName
		if name == "" {
			name = "(Unknown)"
		}
		fmt.Fprintf(a.out, "Found user %d: %s   %s\n", i, user.AccountID, name)
	}

	if len(users) == 1 {
		fmt.Fprintln(a.out, "Only one user found.")
		return users[0], nil
	}

	index := a.opts.UserIndex
	if index < 0 {
		answer, err := a.prompt("Which user number would you like to open? ")
		if err != nil {
			return steam.User{}, err
		}
		index, err = strconv.Atoi(answer)
		if err != nil {
			return steam.User{}, fmt.Errorf("invalid user number %q", answer)
		}
	}

	if index < 0 || index >= len(users) {
		return steam.User{}, fmt.Errorf("user number %d out of range 0-%d", index, len(users)-1)
	}
	return users[index], nil
}
