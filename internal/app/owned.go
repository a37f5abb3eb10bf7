package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mselser95/protondb-tags/pkg/config"
)

// ownedGames lists the user's library through the Steam Web API. Missing
// credentials are read from the settings file or asked for and saved there.
func (a *App) ownedGames(ctx context.Context) ([]string, error) {
	err := a.resolveCredentials()
	if err != nil {
		return nil, err
	}
	return a.webAPIClient().OwnedGames(ctx, a.cfg.SteamID)
}

func (a *App) resolveCredentials() error {
	dir := config.ResolveConfigDir(a.cfg.ConfigDir)

	settings, err := config.LoadSettings(dir)
	if err != nil {
		a.logger.Warn("settings-load-failed", zap.Error(err))
		settings = &config.Settings{}
	}
	settings.Apply(a.cfg)

	if a.cfg.SteamID == "" && a.user != nil {
		id, idErr := a.user.SteamID64()
		if idErr == nil {
			a.cfg.SteamID = id
		}
	}

	changed := false

	if a.cfg.SteamAPIKey == "" {
		fmt.Fprintln(a.out, "Listing every game in your library needs a Steam Web API key.")
		fmt.Fprintln(a.out, "Please go here to generate an API key: https://steamcommunity.com/dev/apikey")
		fmt.Fprintf(a.out, "The key will be saved in %s.\n", dir)

		key, promptErr := a.prompt("API key: ")
		if promptErr != nil {
			return promptErr
		}
		if key == "" {
			return errors.New("a Steam Web API key is required to list owned games")
		}
		a.cfg.SteamAPIKey = key
		settings.SteamAPIKey = key
		changed = true
	}

	if a.cfg.SteamID == "" {
		fmt.Fprintln(a.out, "Please go here to find your steamID64: https://steamid.io")

		id, promptErr := a.prompt("steamID64: ")
		if promptErr != nil {
			return promptErr
		}
		if id == "" {
			return errors.New("a steamID64 is required to list owned games")
		}
		a.cfg.SteamID = id
		settings.SteamID = id
		changed = true
	}

	if changed {
		err = settings.Save(dir)
		if err != nil {
			a.logger.Warn("settings-save-failed", zap.Error(err))
		}
	}

	return nil
}
