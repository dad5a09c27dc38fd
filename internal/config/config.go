package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	Dir        = "padre"
	ConfigFile = "config.yaml"

	// BrowserEnv overrides the browser command when no flag is given.
	BrowserEnv = "PADRE_BROWSER"

	DefaultBrowser = "xdg-open"
	DefaultAuto    = "default-padre-view.ipynb"

	// AutoNone disables auto-opening notebooks.
	AutoNone = "none"

	// PortBaseOffset is added to the local uid when PortBase is unset.
	PortBaseOffset  = 10000
	DefaultMaxTries = 1000
)

type Config struct {
	Browser      string `yaml:"browser,omitempty"`
	RemotePath   string `yaml:"remote_path,omitempty"`
	Auto         string `yaml:"auto,omitempty"`
	NoBrowser    bool   `yaml:"no_browser,omitempty"`
	PortBase     int    `yaml:"port_base,omitempty"`
	MaxPortTries int    `yaml:"max_port_tries,omitempty"`
	Log          Log    `yaml:"log"`
}

type Log struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// Default returns the built-in settings, before any file or environment is applied.
func Default() *Config {
	return &Config{
		Browser:      DefaultBrowser,
		Auto:         DefaultAuto,
		MaxPortTries: DefaultMaxTries,
		Log:          Log{Level: "info"},
	}
}

// DefaultDir returns $XDG_CONFIG_HOME/padre, falling back to ~/.config/padre.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, Dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", Dir), nil
}

// Load reads config.yaml from dir, layering it over Default.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return Default(), nil
	}
	return Load(dir)
}

// Save writes cfg to config.yaml in dir.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, ConfigFile), data, 0o644)
}

// Exists returns true if config.yaml exists in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFile))
	return err == nil
}

// ApplyEnv lets PADRE_BROWSER override the configured browser.
func (c *Config) ApplyEnv() {
	if b := os.Getenv(BrowserEnv); b != "" {
		c.Browser = b
	}
}

// ResolvedPortBase returns PortBase, or PortBaseOffset plus uid when unset.
func (c *Config) ResolvedPortBase(uid int) int {
	if c.PortBase > 0 {
		return c.PortBase
	}
	if uid < 0 {
		uid = 0
	}
	return PortBaseOffset + uid
}

// AutoPattern returns the glob used to pick auto-opened notebooks, or "" when disabled.
func (c *Config) AutoPattern() string {
	if c.Auto == AutoNone {
		return ""
	}
	return c.Auto
}
