// Package config provides configuration loading and management for Tripkit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete Tripkit configuration
type Config struct {
	Model    ModelConfig    `yaml:"model"`
	Services ServicesConfig `yaml:"services"`
	NATS     NATSConfig     `yaml:"nats"`
	Dialog   DialogConfig   `yaml:"dialog"`
	Export   ExportConfig   `yaml:"export"`
}

// ModelConfig configures the LLM model settings
type ModelConfig struct {
	// RegistryFile is an optional JSON file describing the model registry.
	// Empty means the built-in defaults.
	RegistryFile string `yaml:"registry_file"`
	// Temperature controls randomness (0.0-1.0, default: 0.2)
	Temperature float64 `yaml:"temperature"`
	// Timeout is the maximum time to wait for model responses
	Timeout time.Duration `yaml:"timeout"`
}

// ServicesConfig configures the external place and routing services
type ServicesConfig struct {
	// SearchURL is the place search service base URL
	SearchURL string `yaml:"search_url"`
	// GeocodeURL is the geocoding service base URL
	GeocodeURL string `yaml:"geocode_url"`
	// DirectionsURL is the directions service base URL
	DirectionsURL string `yaml:"directions_url"`
	// WeatherURL is the forecast service base URL (empty = weather tool disabled)
	WeatherURL string `yaml:"weather_url"`
	// TransitMode is the default travel mode (transit, walking, driving)
	TransitMode string `yaml:"transit_mode"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = event publishing disabled)
	URL string `yaml:"url"`
	// Subject is the subject prefix for published events
	Subject string `yaml:"subject"`
}

// DialogConfig configures the conversation engine
type DialogConfig struct {
	// MaxSteps bounds tool-call rounds within a single turn
	MaxSteps int `yaml:"max_steps"`
	// MatchThreshold is the fuzzy-match cutoff for itinerary lookups
	MatchThreshold float64 `yaml:"match_threshold"`
}

// ExportConfig configures itinerary export output
type ExportConfig struct {
	// OutputDir is where PDF and calendar files are written
	OutputDir string `yaml:"output_dir"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			RegistryFile: "",
			Temperature:  0.2,
			Timeout:      3 * time.Minute,
		},
		Services: ServicesConfig{
			SearchURL:     "http://localhost:8090",
			GeocodeURL:    "http://localhost:8091",
			DirectionsURL: "http://localhost:8092",
			WeatherURL:    "",
			TransitMode:   "transit",
		},
		NATS: NATSConfig{
			URL:     "",
			Subject: "trip",
		},
		Dialog: DialogConfig{
			MaxSteps:       12,
			MatchThreshold: 0.5,
		},
		Export: ExportConfig{
			OutputDir: ".",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return fmt.Errorf("model.temperature must be between 0 and 1")
	}
	switch c.Services.TransitMode {
	case "transit", "walking", "driving":
	default:
		return fmt.Errorf("services.transit_mode must be transit, walking, or driving")
	}
	if c.Dialog.MaxSteps < 1 {
		return fmt.Errorf("dialog.max_steps must be at least 1")
	}
	if c.Dialog.MatchThreshold <= 0 || c.Dialog.MatchThreshold > 1 {
		return fmt.Errorf("dialog.match_threshold must be in (0, 1]")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Model
	if other.Model.RegistryFile != "" {
		c.Model.RegistryFile = other.Model.RegistryFile
	}
	if other.Model.Temperature != 0 {
		c.Model.Temperature = other.Model.Temperature
	}
	if other.Model.Timeout != 0 {
		c.Model.Timeout = other.Model.Timeout
	}

	// Services
	if other.Services.SearchURL != "" {
		c.Services.SearchURL = other.Services.SearchURL
	}
	if other.Services.GeocodeURL != "" {
		c.Services.GeocodeURL = other.Services.GeocodeURL
	}
	if other.Services.DirectionsURL != "" {
		c.Services.DirectionsURL = other.Services.DirectionsURL
	}
	if other.Services.WeatherURL != "" {
		c.Services.WeatherURL = other.Services.WeatherURL
	}
	if other.Services.TransitMode != "" {
		c.Services.TransitMode = other.Services.TransitMode
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}

	// Dialog
	if other.Dialog.MaxSteps != 0 {
		c.Dialog.MaxSteps = other.Dialog.MaxSteps
	}
	if other.Dialog.MatchThreshold != 0 {
		c.Dialog.MatchThreshold = other.Dialog.MatchThreshold
	}

	// Export
	if other.Export.OutputDir != "" {
		c.Export.OutputDir = other.Export.OutputDir
	}
}
