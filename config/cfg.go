// Package config carries the caller-owned session configuration: the
// default viewport, resource limits and logging setup. The core
// pipeline itself keeps no global state.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// ViewportConfig is the default viewport for parses that do not set one.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LimitsConfig carries document size limits loaded from configuration.
// The pipeline has no internal limits, and nothing in this module checks
// these values: neither the engine, the session nor the CLI reads them.
type LimitsConfig struct {
	MaxHTMLBytes int `yaml:"max_html_bytes"`
	MaxCSSBytes  int `yaml:"max_css_bytes"`
}

// LoggingConfig selects console logging verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"` // none, normal or debug
}

// Config is the full session configuration.
type Config struct {
	Viewport  ViewportConfig `yaml:"viewport"`
	UserAgent string         `yaml:"user_agent,omitempty"`
	Limits    LimitsConfig   `yaml:"limits"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Viewport: ViewportConfig{Width: 1280, Height: 720},
		Limits: LimitsConfig{
			MaxHTMLBytes: 8 << 20,
			MaxCSSBytes:  2 << 20,
		},
		Logging: LoggingConfig{Level: "normal"},
	}
}

// Load reads a YAML configuration file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	switch c.Logging.Level {
	case "none", "normal", "debug":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	return nil
}

// Dump serializes the effective configuration back to YAML.
func Dump(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}
