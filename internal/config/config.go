// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for vahan-tui.
//
// Configuration sources, in order of precedence:
//   - Environment variables (VAHANBOT_BACKEND_URL, VAHANBOT_DEBUG, ...)
//   - ~/.vahanbot/config.toml
//   - Built-in defaults
//
// The backend base URL is the only value the core client needs; everything
// else tunes the TUI around it.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultBackendURL is the local development backend.
	DefaultBackendURL = "http://127.0.0.1:8000"

	// DefaultRequestTimeout is the hard ceiling for a non-streaming chat
	// request. Long tool-using answers can take minutes on the backend.
	DefaultRequestTimeout = 180 * time.Second

	// configDirName under the user's home directory.
	configDirName = ".vahanbot"

	// configFileName inside the config directory.
	configFileName = "config.toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete vahan-tui configuration.
type Config struct {
	// Backend holds connection settings for the assistant backend.
	Backend BackendConfig `toml:"backend"`

	// UI holds terminal interface settings.
	UI UIConfig `toml:"ui"`

	// Debug enables verbose logging to the debug log file.
	Debug bool `toml:"debug"`
}

// BackendConfig holds connection settings for the assistant backend.
type BackendConfig struct {
	// URL is the backend base URL (default: http://127.0.0.1:8000).
	URL string `toml:"url"`

	// TimeoutSeconds is the non-streaming request ceiling in seconds.
	// The streaming endpoint has no explicit timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// Stream selects the streaming chat endpoint instead of the
	// single-response endpoint.
	Stream bool `toml:"stream"`

	// RequireLogin gates the TUI behind the backend's password check.
	RequireLogin bool `toml:"require_login"`
}

// UIConfig holds terminal interface settings.
type UIConfig struct {
	// ShowToolDetails renders tool execution records inside assistant
	// turns. On by default; turn off for a text-only transcript.
	ShowToolDetails bool `toml:"show_tool_details"`

	// ShowIntentBadges renders the classified intent above assistant turns.
	ShowIntentBadges bool `toml:"show_intent_badges"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:            DefaultBackendURL,
			TimeoutSeconds: int(DefaultRequestTimeout / time.Second),
		},
		UI: UIConfig{
			ShowToolDetails:  true,
			ShowIntentBadges: true,
		},
	}
}

// Load reads the configuration from the default file location, applying
// environment overrides on top. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(defaultPath())
}

// LoadFrom reads the configuration from an explicit path, applying
// environment overrides on top. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration.
func (c *Config) applyEnv() {
	if v := os.Getenv("VAHANBOT_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("VAHANBOT_DEBUG"); v != "" {
		c.Debug = isTruthy(v)
	}
	if v := os.Getenv("VAHANBOT_STREAM"); v != "" {
		c.Backend.Stream = isTruthy(v)
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("invalid backend URL %q: %w", c.Backend.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend URL %q must use http or https", c.Backend.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend URL %q has no host", c.Backend.URL)
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = int(DefaultRequestTimeout / time.Second)
	}
	return nil
}

// RequestTimeout returns the non-streaming request ceiling as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// LogPath returns the debug log file location.
func (c *Config) LogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "vahan-tui.log")
	}
	return filepath.Join(home, configDirName, "debug.log")
}

// =============================================================================
// HELPERS
// =============================================================================

// defaultPath returns ~/.vahanbot/config.toml, or "" when the home
// directory cannot be resolved.
func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDirName, configFileName)
}

// isTruthy reports whether an environment value means "on".
func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
