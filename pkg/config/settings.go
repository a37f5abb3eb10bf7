package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Settings are per-user values remembered between runs in config.yaml.
type Settings struct {
	SteamAPIKey string `yaml:"steam-api-key,omitempty"`
	SteamID     string `yaml:"steam-id,omitempty"`
}

// LoadSettings reads config.yaml from dir. A missing file yields empty settings.
func LoadSettings(dir string) (*Settings, error) {
	path := filepath.Join(dir, SettingsFile)

	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var settings Settings
	err = yaml.Unmarshal(contents, &settings)
	if err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}

	return &settings, nil
}

// Save writes the settings to config.yaml in dir, creating dir if needed.
func (s *Settings) Save(dir string) error {
	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	contents, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	err = atomic.WriteFile(filepath.Join(dir, SettingsFile), bytes.NewReader(contents))
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Apply fills empty config fields from the settings. Environment values win.
func (s *Settings) Apply(cfg *Config) {
	if cfg.SteamAPIKey == "" {
		cfg.SteamAPIKey = s.SteamAPIKey
	}
	if cfg.SteamID == "" {
		cfg.SteamID = s.SteamID
	}
}
