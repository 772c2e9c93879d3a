package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model.Temperature != 0.2 {
		t.Errorf("expected default temperature 0.2, got %f", cfg.Model.Temperature)
	}
	if cfg.Services.TransitMode != "transit" {
		t.Errorf("expected default transit mode transit, got %s", cfg.Services.TransitMode)
	}
	if cfg.Dialog.MaxSteps != 12 {
		t.Errorf("expected default max steps 12, got %d", cfg.Dialog.MaxSteps)
	}
	if cfg.Dialog.MatchThreshold != 0.5 {
		t.Errorf("expected default match threshold 0.5, got %f", cfg.Dialog.MatchThreshold)
	}
	if cfg.NATS.URL != "" {
		t.Errorf("expected NATS disabled by default, got %s", cfg.NATS.URL)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "temperature too low",
			modify:  func(c *Config) { c.Model.Temperature = -0.1 },
			wantErr: true,
		},
		{
			name:    "temperature too high",
			modify:  func(c *Config) { c.Model.Temperature = 1.1 },
			wantErr: true,
		},
		{
			name:    "unknown transit mode",
			modify:  func(c *Config) { c.Services.TransitMode = "teleport" },
			wantErr: true,
		},
		{
			name:    "walking mode is valid",
			modify:  func(c *Config) { c.Services.TransitMode = "walking" },
			wantErr: false,
		},
		{
			name:    "max steps must be positive",
			modify:  func(c *Config) { c.Dialog.MaxSteps = 0 },
			wantErr: true,
		},
		{
			name:    "match threshold out of range",
			modify:  func(c *Config) { c.Dialog.MatchThreshold = 1.5 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
model:
  temperature: 0.5
  timeout: 10m
services:
  search_url: "http://search.test:8090"
  transit_mode: "driving"
nats:
  url: "nats://test:4222"
dialog:
  max_steps: 6
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Model.Temperature != 0.5 {
		t.Errorf("expected temperature 0.5, got %f", cfg.Model.Temperature)
	}
	if cfg.Model.Timeout != 10*time.Minute {
		t.Errorf("expected timeout 10m, got %v", cfg.Model.Timeout)
	}
	if cfg.Services.SearchURL != "http://search.test:8090" {
		t.Errorf("expected search URL http://search.test:8090, got %s", cfg.Services.SearchURL)
	}
	if cfg.Services.TransitMode != "driving" {
		t.Errorf("expected transit mode driving, got %s", cfg.Services.TransitMode)
	}
	if cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", cfg.NATS.URL)
	}
	if cfg.Dialog.MaxSteps != 6 {
		t.Errorf("expected max steps 6, got %d", cfg.Dialog.MaxSteps)
	}
	// Unset fields keep their defaults
	if cfg.Services.GeocodeURL != "http://localhost:8091" {
		t.Errorf("expected geocode URL to remain default, got %s", cfg.Services.GeocodeURL)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Services: ServicesConfig{
			SearchURL: "http://override:9000",
		},
		Dialog: DialogConfig{
			MaxSteps: 4,
		},
	}

	base.Merge(override)

	if base.Services.SearchURL != "http://override:9000" {
		t.Errorf("expected search URL http://override:9000, got %s", base.Services.SearchURL)
	}
	// Geocode URL should remain from base since override didn't set it
	if base.Services.GeocodeURL != "http://localhost:8091" {
		t.Errorf("expected geocode URL to remain default, got %s", base.Services.GeocodeURL)
	}
	if base.Dialog.MaxSteps != 4 {
		t.Errorf("expected max steps 4, got %d", base.Dialog.MaxSteps)
	}
	if base.Dialog.MatchThreshold != 0.5 {
		t.Errorf("expected match threshold to remain default, got %f", base.Dialog.MatchThreshold)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Services.SearchURL = "http://saved:8090"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Services.SearchURL != "http://saved:8090" {
		t.Errorf("expected search URL http://saved:8090, got %s", loaded.Services.SearchURL)
	}
}

func TestLoaderApplyEnv(t *testing.T) {
	t.Setenv("TRIPKIT_SEARCH_URL", "http://env-search:8090")
	t.Setenv("TRIPKIT_NATS_URL", "nats://env:4222")

	l := NewLoader(nil)
	cfg := DefaultConfig()
	l.applyEnv(cfg)

	if cfg.Services.SearchURL != "http://env-search:8090" {
		t.Errorf("expected env search URL, got %s", cfg.Services.SearchURL)
	}
	if cfg.NATS.URL != "nats://env:4222" {
		t.Errorf("expected env NATS URL, got %s", cfg.NATS.URL)
	}
}
