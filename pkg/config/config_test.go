package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "console",
		ProtonDBURL:           "https://www.protondb.com",
		SteamStoreURL:         "https://store.steampowered.com",
		SteamWebAPIURL:        "https://api.steampowered.com",
		HTTPTimeout:           30 * time.Second,
		HTTPMaxRetries:        3,
		HTTPRetryBackoff:      2 * time.Second,
		SteamRequestInterval:  1300 * time.Millisecond,
		SteamStoreMaxFailures: 5,
		SteamStoreCooldown:    5 * time.Minute,
		CheckpointInterval:    25,
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ProtonDBURL != "https://www.protondb.com" {
		t.Errorf("unexpected ProtonDBURL %q", cfg.ProtonDBURL)
	}

	if cfg.SteamRequestInterval != 1300*time.Millisecond {
		t.Errorf("expected SteamRequestInterval to be 1.3s, got %v", cfg.SteamRequestInterval)
	}

	if cfg.CheckpointInterval != 25 {
		t.Errorf("expected CheckpointInterval to be 25, got %d", cfg.CheckpointInterval)
	}

	if cfg.SteamStoreMaxFailures != 5 || cfg.SteamStoreCooldown != 5*time.Minute {
		t.Errorf("unexpected store breaker defaults %d/%v", cfg.SteamStoreMaxFailures, cfg.SteamStoreCooldown)
	}

	if cfg.LogFormat != "console" {
		t.Errorf("expected LogFormat to be console, got %q", cfg.LogFormat)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PROTONDB_TAGS_CACHE_DIR", "/tmp/protondb-cache")
	t.Setenv("CHECKPOINT_INTERVAL", "5")
	t.Setenv("STEAM_REQUEST_INTERVAL", "2s")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("STEAM_API_KEY", "ABCDEF")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.CacheDir != "/tmp/protondb-cache" {
		t.Errorf("expected CacheDir override, got %q", cfg.CacheDir)
	}

	if cfg.CheckpointInterval != 5 {
		t.Errorf("expected CheckpointInterval to be 5, got %d", cfg.CheckpointInterval)
	}

	if cfg.SteamRequestInterval != 2*time.Second {
		t.Errorf("expected SteamRequestInterval to be 2s, got %v", cfg.SteamRequestInterval)
	}

	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("expected HTTPTimeout to be 5s, got %v", cfg.HTTPTimeout)
	}

	if cfg.LogFormat != "json" {
		t.Errorf("expected LogFormat to be json, got %q", cfg.LogFormat)
	}

	if cfg.SteamAPIKey != "ABCDEF" {
		t.Errorf("expected SteamAPIKey from env, got %q", cfg.SteamAPIKey)
	}
}

func TestConfig_MalformedEnvRejected(t *testing.T) {
	t.Setenv("CHECKPOINT_INTERVAL", "often")

	_, err := LoadFromEnv()
	if err == nil {
		t.Fatal("expected error for non-numeric CHECKPOINT_INTERVAL, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "empty-protondb-url",
			mutate:  func(cfg *Config) { cfg.ProtonDBURL = "" },
			wantErr: "PROTONDB_API_URL cannot be empty",
		},
		{
			name:    "empty-store-url",
			mutate:  func(cfg *Config) { cfg.SteamStoreURL = "" },
			wantErr: "STEAM_STORE_API_URL cannot be empty",
		},
		{
			name:    "bad-log-format",
			mutate:  func(cfg *Config) { cfg.LogFormat = "xml" },
			wantErr: `LOG_FORMAT must be 'console' or 'json', got "xml"`,
		},
		{
			name:    "zero-timeout",
			mutate:  func(cfg *Config) { cfg.HTTPTimeout = 0 },
			wantErr: "HTTP_TIMEOUT must be positive, got 0s",
		},
		{
			name:    "zero-retries",
			mutate:  func(cfg *Config) { cfg.HTTPMaxRetries = 0 },
			wantErr: "HTTP_MAX_RETRIES must be at least 1, got 0",
		},
		{
			name:    "negative-interval",
			mutate:  func(cfg *Config) { cfg.SteamRequestInterval = -time.Second },
			wantErr: "request intervals cannot be negative",
		},
		{
			name:    "negative-checkpoint",
			mutate:  func(cfg *Config) { cfg.CheckpointInterval = -1 },
			wantErr: "CHECKPOINT_INTERVAL cannot be negative, got -1",
		},
		{
			name:    "negative-store-failures",
			mutate:  func(cfg *Config) { cfg.SteamStoreMaxFailures = -1 },
			wantErr: "STEAM_STORE_MAX_FAILURES cannot be negative, got -1",
		},
		{
			name:    "negative-store-cooldown",
			mutate:  func(cfg *Config) { cfg.SteamStoreCooldown = -time.Minute },
			wantErr: "STEAM_STORE_COOLDOWN cannot be negative, got -1m0s",
		},
		{
			name:   "checkpoint-disabled",
			mutate: func(cfg *Config) { cfg.CheckpointInterval = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("expected error %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		logger, err := NewLogger("debug", format)
		if err != nil {
			t.Fatalf("format %s: expected no error, got %v", format, err)
		}
		logger.Debug("logger-test")
	}

	_, err := NewLogger("loud", "console")
	if err == nil {
		t.Error("expected error for invalid level, got nil")
	}
}
