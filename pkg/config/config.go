// Package config handles loading and saving stv configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/stv/config.yaml
//   - State:   ~/.local/state/stv/ (debug logs, cpu profiles)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "stv"

// ViewConfig holds windowing and rendering settings.
type ViewConfig struct {
	OverscanRowCount int  `yaml:"overscan_row_count"`
	RenderRoot       bool `yaml:"render_root"`
	ShowBodies       bool `yaml:"show_bodies"`
	BodyWordWrap     int  `yaml:"body_word_wrap,omitempty"`
	ScrollStep       int  `yaml:"scroll_step,omitempty"` // rows per wheel notch
}

// WatchConfig controls live reload.
type WatchConfig struct {
	Enabled        bool `yaml:"enabled"`
	DebounceMs     int  `yaml:"debounce_ms,omitempty"`
	PollIntervalMs int  `yaml:"poll_interval_ms,omitempty"`
	ForcePoll      bool `yaml:"force_poll,omitempty"`
}

// LoaderConfig controls directory sources.
type LoaderConfig struct {
	MaxDepth   int  `yaml:"max_depth,omitempty"`
	ShowHidden bool `yaml:"show_hidden,omitempty"`
}

// ExportConfig controls layout snapshots.
type ExportConfig struct {
	Preset string `yaml:"preset,omitempty"` // compact, roomy
}

// Config is the top-level configuration for stv.
type Config struct {
	View   ViewConfig   `yaml:"view"`
	Watch  WatchConfig  `yaml:"watch"`
	Loader LoaderConfig `yaml:"loader,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		View: ViewConfig{
			OverscanRowCount: 2,
			RenderRoot:       true,
			BodyWordWrap:     72,
			ScrollStep:       3,
		},
		Watch: WatchConfig{
			DebounceMs:     200,
			PollIntervalMs: 2000,
		},
		Export: ExportConfig{
			Preset: "compact",
		},
	}
}

// Normalize replaces out-of-range values with defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.View.OverscanRowCount < 0 {
		c.View.OverscanRowCount = 0
	}
	if c.View.BodyWordWrap <= 0 {
		c.View.BodyWordWrap = def.View.BodyWordWrap
	}
	if c.View.ScrollStep <= 0 {
		c.View.ScrollStep = def.View.ScrollStep
	}
	if c.Watch.DebounceMs <= 0 {
		c.Watch.DebounceMs = def.Watch.DebounceMs
	}
	if c.Watch.PollIntervalMs <= 0 {
		c.Watch.PollIntervalMs = def.Watch.PollIntervalMs
	}
	if c.Loader.MaxDepth < 0 {
		c.Loader.MaxDepth = 0
	}
	switch strings.ToLower(c.Export.Preset) {
	case "compact", "roomy":
		c.Export.Preset = strings.ToLower(c.Export.Preset)
	default:
		c.Export.Preset = def.Export.Preset
	}
}

// Debounce returns the watch debounce as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// PollInterval returns the watch poll interval as a duration.
func (w WatchConfig) PollInterval() time.Duration {
	return time.Duration(w.PollIntervalMs) * time.Millisecond
}

// ConfigDir returns the XDG config directory for stv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for stv.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
