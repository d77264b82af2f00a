// Package config supplies engine defaults from the environment and from
// optional YAML or TOML profiles.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the engine configuration.
type Config struct {
	Normalize NormalizeConfig `yaml:"normalize" toml:"normalize"`
	Trace     TraceConfig     `yaml:"trace" toml:"trace"`
}

// NormalizeConfig controls how raw path strings are canonicalized.
type NormalizeConfig struct {
	// CaseSensitive keeps paths that differ only by case distinct.
	CaseSensitive bool `envconfig:"FLUENTPATH_CASE_SENSITIVE" default:"false" yaml:"case_sensitive" toml:"case_sensitive"`
	// Separator overrides the host separator. Empty means use the host's.
	Separator string `envconfig:"FLUENTPATH_SEPARATOR" default:"" yaml:"separator" toml:"separator"`
}

// TraceConfig controls the structured evaluation trace.
type TraceConfig struct {
	Enabled     bool   `envconfig:"FLUENTPATH_TRACE" default:"false" yaml:"enabled" toml:"enabled"`
	Level       string `envconfig:"FLUENTPATH_TRACE_LEVEL" default:"info" yaml:"level" toml:"level"`
	Development bool   `envconfig:"FLUENTPATH_TRACE_DEV" default:"false" yaml:"development" toml:"development"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault reads configuration from the environment, falling back to
// defaults on any error.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Normalize: NormalizeConfig{
			CaseSensitive: false,
			Separator:     "",
		},
		Trace: TraceConfig{
			Enabled:     false,
			Level:       "info",
			Development: false,
		},
	}
}

// LoadFile reads a YAML or TOML profile over the defaults, so keys absent
// from the file keep their default values. The format is chosen by file
// extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse toml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Trace.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid trace level: %s", c.Trace.Level)
	}
	if len([]rune(c.Normalize.Separator)) > 1 {
		return fmt.Errorf("separator must be a single character, got %q", c.Normalize.Separator)
	}
	return nil
}
