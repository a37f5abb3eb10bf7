package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Directories (empty means the XDG default)
	CacheDir  string `env:"PROTONDB_TAGS_CACHE_DIR"`
	ConfigDir string `env:"PROTONDB_TAGS_CONFIG_DIR"`

	// Remote APIs
	ProtonDBURL      string        `env:"PROTONDB_API_URL" envDefault:"https://www.protondb.com"`
	SteamStoreURL    string        `env:"STEAM_STORE_API_URL" envDefault:"https://store.steampowered.com"`
	SteamWebAPIURL   string        `env:"STEAM_WEB_API_URL" envDefault:"https://api.steampowered.com"`
	SteamAPIKey      string        `env:"STEAM_API_KEY"`
	SteamID          string        `env:"STEAM_ID"`
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	HTTPMaxRetries   int           `env:"HTTP_MAX_RETRIES" envDefault:"3"`
	HTTPRetryBackoff time.Duration `env:"HTTP_RETRY_BACKOFF" envDefault:"2s"`

	// Pacing. The Steam Store allows roughly 10 requests per 10 seconds.
	SteamRequestInterval    time.Duration `env:"STEAM_REQUEST_INTERVAL" envDefault:"1300ms"`
	ProtonDBRequestInterval time.Duration `env:"PROTONDB_REQUEST_INTERVAL" envDefault:"0s"`

	// Native checks stop after this many consecutive Steam Store failures and
	// resume after the cooldown. Zero never stops them.
	SteamStoreMaxFailures int           `env:"STEAM_STORE_MAX_FAILURES" envDefault:"5"`
	SteamStoreCooldown    time.Duration `env:"STEAM_STORE_COOLDOWN" envDefault:"5m"`

	// Caches are saved after this many remote lookups.
	CheckpointInterval int `env:"CHECKPOINT_INTERVAL" envDefault:"25"`
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}

	err := env.Parse(cfg)
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.ProtonDBURL == "" {
		return fmt.Errorf("PROTONDB_API_URL cannot be empty")
	}

	if c.SteamStoreURL == "" {
		return fmt.Errorf("STEAM_STORE_API_URL cannot be empty")
	}

	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be 'console' or 'json', got %q", c.LogFormat)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.HTTPTimeout)
	}

	if c.HTTPMaxRetries < 1 {
		return fmt.Errorf("HTTP_MAX_RETRIES must be at least 1, got %d", c.HTTPMaxRetries)
	}

	if c.SteamRequestInterval < 0 || c.ProtonDBRequestInterval < 0 {
		return fmt.Errorf("request intervals cannot be negative")
	}

	if c.SteamStoreMaxFailures < 0 {
		return fmt.Errorf("STEAM_STORE_MAX_FAILURES cannot be negative, got %d", c.SteamStoreMaxFailures)
	}

	if c.SteamStoreCooldown < 0 {
		return fmt.Errorf("STEAM_STORE_COOLDOWN cannot be negative, got %v", c.SteamStoreCooldown)
	}

	if c.CheckpointInterval < 0 {
		return fmt.Errorf("CHECKPOINT_INTERVAL cannot be negative, got %d", c.CheckpointInterval)
	}

	return nil
}
