// Package config handles loading and saving bu configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/bu/config.yaml
//   - State:  ~/.local/state/bu/ (debug log)
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const appName = "bu"

// Split bounds, in percent of the body width given to the list pane.
const (
	MinSplitPercent     = 20
	MaxSplitPercent     = 80
	DefaultSplitPercent = 40
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	Theme        string `yaml:"theme,omitempty"`
	SplitPercent int    `yaml:"split_percent,omitempty"`
	HideClosed   *bool  `yaml:"hide_closed,omitempty"`
	ShowLabels   *bool  `yaml:"show_labels,omitempty"`
}

// Config is the top-level configuration for bu.
type Config struct {
	RefreshSeconds *int     `yaml:"refresh_seconds,omitempty"` // 0 disables periodic refresh
	Watch          *bool    `yaml:"watch,omitempty"`
	BrPath         string   `yaml:"br_path,omitempty"`
	UI             UIConfig `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RefreshSeconds: intPtr(3),
		Watch:          boolPtr(true),
		BrPath:         "br",
		UI: UIConfig{
			Theme:        "Lazygit",
			SplitPercent: DefaultSplitPercent,
			HideClosed:   boolPtr(true),
			ShowLabels:   boolPtr(true),
		},
	}
}

// Refresh returns the configured refresh interval in seconds.
func (c Config) Refresh() int {
	if c.RefreshSeconds == nil {
		return 3
	}
	return *c.RefreshSeconds
}

// WatchEnabled reports whether the database watcher should run.
func (c Config) WatchEnabled() bool {
	return c.Watch == nil || *c.Watch
}

// HideClosedOrDefault reports the initial hide-closed setting.
func (u UIConfig) HideClosedOrDefault() bool {
	return u.HideClosed == nil || *u.HideClosed
}

// ShowLabelsOrDefault reports the initial label visibility.
func (u UIConfig) ShowLabelsOrDefault() bool {
	return u.ShowLabels == nil || *u.ShowLabels
}

// Validate checks values that would otherwise misbehave at runtime and
// clamps the split into range.
func (c *Config) Validate() error {
	if c.RefreshSeconds != nil && *c.RefreshSeconds < 0 {
		return fmt.Errorf("refresh_seconds must be >= 0, got %d", *c.RefreshSeconds)
	}
	switch {
	case c.UI.SplitPercent == 0:
		c.UI.SplitPercent = DefaultSplitPercent
	case c.UI.SplitPercent < MinSplitPercent:
		c.UI.SplitPercent = MinSplitPercent
	case c.UI.SplitPercent > MaxSplitPercent:
		c.UI.SplitPercent = MaxSplitPercent
	}
	if c.BrPath == "" {
		c.BrPath = "br"
	}
	return nil
}

// ConfigDir returns the XDG config directory for bu.
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

// StateDir returns the XDG state directory for bu.
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

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}

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
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
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

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// Bool returns a pointer to v, for building configs in code.
func Bool(v bool) *bool { return boolPtr(v) }
