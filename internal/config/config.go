package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"stocktui/internal/model"
)

// DefaultWatchlist is used when no config file exists or it cannot be
// parsed.
var DefaultWatchlist = []string{"sh600519", "sz000858", "sh601318"}

// Config holds all application configuration. The watchlist section is
// also the persisted state: it is written back after every watchlist
// mutation.
type Config struct {
	Watchlist        []string `yaml:"watchlist"`
	DefaultTimeFrame string   `yaml:"default_timeframe"`
	TickInterval     string   `yaml:"tick_interval"` // e.g. "5s", "30s"
	RefreshCron      string   `yaml:"refresh_cron,omitempty"`
	CandleCount      int      `yaml:"candle_count"`
	Proxy            string   `yaml:"proxy,omitempty"`
	Log              struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`

	path string
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "stocktui", "config.yaml"), nil
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing or malformed file is not fatal: the
// returned config is always usable (built-in default watchlist); the
// error reports a malformed file so the caller can log it.
func Load(path string) (*Config, error) {
	cfg := &Config{path: path}

	var parseErr error
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		parseErr = fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			*cfg = Config{path: path}
			parseErr = fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("STOCKTUI_TICK"); v != "" {
		cfg.TickInterval = v
	}
	if v := os.Getenv("STOCKTUI_LOG"); v != "" {
		cfg.Log.File = v
	}

	// Defaults
	if len(cfg.Watchlist) == 0 {
		cfg.Watchlist = append([]string(nil), DefaultWatchlist...)
	}
	if cfg.DefaultTimeFrame == "" {
		cfg.DefaultTimeFrame = model.Daily.Label()
	}
	if cfg.TickInterval == "" {
		cfg.TickInterval = "5s"
	}
	if cfg.CandleCount == 0 {
		cfg.CandleCount = 120
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(filepath.Dir(path), "stocktui.log")
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, parseErr
}

// Validate checks that all fields parse to sane values.
func (c *Config) Validate() error {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return fmt.Errorf("tick_interval: %w", err)
	}
	if d < time.Second {
		return fmt.Errorf("tick_interval must be at least 1s, got %s", d)
	}
	if _, err := model.ParseTimeFrame(c.DefaultTimeFrame); err != nil {
		return fmt.Errorf("default_timeframe: %w", err)
	}
	if c.CandleCount <= 0 {
		return fmt.Errorf("candle_count must be positive, got %d", c.CandleCount)
	}
	return nil
}

// Tick returns the parsed tick interval. Validate must have accepted the
// config first.
func (c *Config) Tick() time.Duration {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// TimeFrame returns the parsed default timeframe.
func (c *Config) TimeFrame() model.TimeFrame {
	tf, err := model.ParseTimeFrame(c.DefaultTimeFrame)
	if err != nil {
		return model.Daily
	}
	return tf
}

// Save writes the config (watchlist and preferences) back to its file.
func (c *Config) Save() error {
	if c.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
