// Package config handles TOML configuration loading with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration for crashlens.
type Config struct {
	Store    StoreConfig    `toml:"store"`
	Log      LogConfig      `toml:"log"`
	Memory   MemoryConfig   `toml:"memory"`
	Signals  SignalsConfig  `toml:"signals"`
	Analysis AnalysisConfig `toml:"analysis"`
}

// StoreConfig controls the SQLite history database.
type StoreConfig struct {
	Path      string   `toml:"path"`
	Retention Duration `toml:"retention"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// MemoryConfig controls the environmental memory-pressure bias.
type MemoryConfig struct {
	Bias         bool    `toml:"bias"`
	ThresholdPct float64 `toml:"threshold_pct"`
}

// SignalsConfig points at an optional YAML signal-table overrides file.
type SignalsConfig struct {
	Overrides string `toml:"overrides"`
}

// AnalysisConfig tunes extraction. Year 0 means "current year" for
// year-less syslog timestamps.
type AnalysisConfig struct {
	Year int `toml:"year"`
}

// Duration wraps time.Duration for TOML string parsing (e.g. "5m", "720h").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Retention: Duration{90 * 24 * time.Hour},
		},
		Log: LogConfig{
			Level: "info",
		},
		Memory: MemoryConfig{
			Bias:         true,
			ThresholdPct: 70,
		},
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "crashlens", "config.toml")
}

// Load reads configuration from the given path, falling back to defaults
// for any unset fields. If the file does not exist, returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// DBPath resolves the history database path, defaulting under XDG data.
func (c *Config) DBPath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "crashlens", "history.db")
}
