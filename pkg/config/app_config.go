package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// AppConfig is the top-level application configuration read from a TOML file
// (config/scenery.toml by default).
type AppConfig struct {
	Window  WindowConfig  `toml:"window"`
	Logging LoggingConfig `toml:"logging"`
	Loading LoadingConfig `toml:"loading"`
	Catalog CatalogConfig `toml:"catalog"`
	Session SessionConfig `toml:"session"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type LoadingConfig struct {
	AssetWorkers int           `toml:"asset_workers"` // parallel asset loads per scene
	AssetLatency time.Duration `toml:"asset_latency"` // artificial per-asset delay, 0 = off
}

type CatalogConfig struct {
	Path      string `toml:"path"`       // scene catalog YAML, empty = embedded default
	AssetRoot string `toml:"asset_root"` // directory assets and scripts are read from, empty = embedded
}

type SessionConfig struct {
	AppName string `toml:"app_name"` // gdata application name
	Restore bool   `toml:"restore"`  // reload last session's scenes at startup
}

// Load reads the TOML file at path on top of the built-in defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	return &AppConfig{
		Window: WindowConfig{
			Width:  960,
			Height: 540,
			Title:  "Scenery",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Loading: LoadingConfig{
			AssetWorkers: 4,
		},
		Session: SessionConfig{
			AppName: "scenery",
			Restore: true,
		},
	}
}

func (c *AppConfig) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Loading.AssetWorkers < 1 {
		return fmt.Errorf("loading.asset_workers must be at least 1, got %d", c.Loading.AssetWorkers)
	}
	if c.Loading.AssetLatency < 0 {
		return fmt.Errorf("loading.asset_latency must not be negative, got %s", c.Loading.AssetLatency)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be \"json\" or \"console\", got %q", c.Logging.Format)
	}
	return nil
}
