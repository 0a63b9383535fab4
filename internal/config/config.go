// Package config loads the two configuration sources of the server: the
// optional per-user settings file (YAML, XDG config dir) and the optional
// per-project link file (JSON, next to the project) that seeds the registry.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"workspacebridge/internal/logging"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "workspace-bridge" // application name used for config directory

// DefaultMaxCount is the commit limit used when a tool call omits maxCount.
const DefaultMaxCount = 50

// Settings holds user configuration for the server.
type Settings struct {
	// DefaultMaxCount replaces an omitted maxCount on commit-listing tools.
	DefaultMaxCount int `yaml:"default_max_count"`
	// MaxReadBytes caps readFile. Zero means unlimited.
	MaxReadBytes int64  `yaml:"max_read_bytes"`
	LogLevel     string `yaml:"log_level"`
}

// DefaultSettings returns Settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		DefaultMaxCount: DefaultMaxCount,
		MaxReadBytes:    0,
		LogLevel:        "warn",
	}
}

// SettingsPath returns the standard settings file path for the current platform
func SettingsPath() string {
	return filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")
}

// LoadSettings reads settings from path, or from SettingsPath when path is
// empty. A missing file yields DefaultSettings; a file that exists but cannot
// be parsed is an error. Fields absent from the file keep their defaults.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		path = SettingsPath()
	}

	settings := DefaultSettings()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debug("No settings file, using defaults", "path", path)
			return settings, nil
		}
		return settings, fmt.Errorf("failed to open settings file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil {
		if errors.Is(err, io.EOF) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return DefaultSettings(), fmt.Errorf("invalid settings file %s: %w", path, err)
	}

	logging.Debug("Loaded settings", "path", path, "default_max_count", settings.DefaultMaxCount, "max_read_bytes", settings.MaxReadBytes)
	return settings, nil
}

// Validate checks field ranges.
func (s Settings) Validate() error {
	if s.DefaultMaxCount <= 0 {
		return fmt.Errorf("default_max_count must be positive, got %d", s.DefaultMaxCount)
	}
	if s.MaxReadBytes < 0 {
		return fmt.Errorf("max_read_bytes cannot be negative, got %d", s.MaxReadBytes)
	}
	return nil
}
