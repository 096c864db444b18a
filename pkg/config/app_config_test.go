package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

// TestLoadAppConfigOverridesDefaults 测试 TOML 配置覆盖默认值
func TestLoadAppConfigOverridesDefaults(t *testing.T) {
	path := writeFile(t, "scenery.toml", `
[window]
title = "Test"

[logging]
level = "debug"
format = "json"

[loading]
asset_workers = 8
asset_latency = "150ms"

[catalog]
path = "catalog.yaml"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Window.Title != "Test" {
		t.Errorf("Window.Title = %q, want %q", cfg.Window.Title, "Test")
	}
	// 未配置的字段保持默认值
	if cfg.Window.Width != 960 || cfg.Window.Height != 540 {
		t.Errorf("Window size = %dx%d, want 960x540", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want debug/json", cfg.Logging)
	}
	if cfg.Loading.AssetWorkers != 8 {
		t.Errorf("AssetWorkers = %d, want 8", cfg.Loading.AssetWorkers)
	}
	if cfg.Loading.AssetLatency != 150*time.Millisecond {
		t.Errorf("AssetLatency = %s, want 150ms", cfg.Loading.AssetLatency)
	}
	if cfg.Catalog.Path != "catalog.yaml" {
		t.Errorf("Catalog.Path = %q, want catalog.yaml", cfg.Catalog.Path)
	}
	if !cfg.Session.Restore || cfg.Session.AppName != "scenery" {
		t.Errorf("Session = %+v, want default restore=true app_name=scenery", cfg.Session)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadAppConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero workers", "[loading]\nasset_workers = 0\n"},
		{"bad format", "[logging]\nformat = \"xml\"\n"},
		{"negative width", "[window]\nwidth = -1\n"},
		{"malformed", "[window\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.toml", tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}
