// Package config provides configuration loading with layered overrides.
// Load order: defaults -> YAML file -> environment variables; CLI flags are
// applied on top by the cli layer.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix      = "KELORA_"
	defaultCfgFile = "./kelora.yaml"
	delim          = "."
)

// Config is the root configuration structure.
type Config struct {
	LogLevel string       `koanf:"loglevel" yaml:"log_level"`
	Input    InputConfig  `koanf:"input"`
	Output   OutputConfig `koanf:"output"`
	Filter   FilterConfig `koanf:"filter"`
	Stats    StatsConfig  `koanf:"stats"`
}

// InputConfig selects the input format and sources. The selection is fixed
// for the whole run.
type InputConfig struct {
	Format string   `koanf:"format"` // "logfmt", "jsonl" or "syslog"
	Paths  []string `koanf:"paths"`  // glob patterns; empty means stdin
	Follow bool     `koanf:"follow"`
}

// OutputConfig selects the output format and destination.
type OutputConfig struct {
	Format string           `koanf:"format"` // "default" or "jsonl"
	File   FileOutputConfig `koanf:"file"`
}

// FileOutputConfig configures the rotated file sink.
type FileOutputConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"`
	MaxSizeMB  int    `koanf:"maxsizemb" yaml:"max_size_mb"`
	MaxBackups int    `koanf:"maxbackups" yaml:"max_backups"`
	MaxAgeDays int    `koanf:"maxagedays" yaml:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// FilterConfig configures the event filters.
type FilterConfig struct {
	Levels      []string `koanf:"levels"`
	Keys        []string `koanf:"keys"`
	IncludeOnly bool     `koanf:"includeonly" yaml:"include_only"`
	CommonOnly  bool     `koanf:"commononly" yaml:"common_only"`
}

// StatsConfig controls the end-of-run statistics report.
type StatsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// defaults returns the default configuration values.
func defaults() Config {
	return Config{
		LogLevel: "info",
		Input: InputConfig{
			Format: "logfmt",
		},
		Output: OutputConfig{
			Format: "default",
			File: FileOutputConfig{
				MaxSizeMB:  100,
				MaxBackups: 3,
				MaxAgeDays: 7,
				Compress:   true,
			},
		},
	}
}

// Load builds the configuration. An empty path falls back to ./kelora.yaml
// when that file exists; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(delim)

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		if _, err := os.Stat(defaultCfgFile); err == nil {
			path = defaultCfgFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, delim, func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", delim)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot start a run. Validation errors
// are fatal and surface before any line is processed.
func (c *Config) Validate() error {
	switch c.Input.Format {
	case "logfmt", "jsonl", "syslog":
	default:
		return fmt.Errorf("unknown input format: %q", c.Input.Format)
	}

	switch c.Output.Format {
	case "default", "jsonl":
	default:
		return fmt.Errorf("unknown output format: %q", c.Output.Format)
	}

	if len(c.Filter.Keys) > 0 && c.Filter.CommonOnly {
		return fmt.Errorf("key filter and common-fields filter are mutually exclusive")
	}

	if c.Input.Follow && len(c.Input.Paths) != 1 {
		return fmt.Errorf("follow mode requires exactly one input file")
	}

	if c.Output.File.Enabled && c.Output.File.Path == "" {
		return fmt.Errorf("output file enabled but no path configured")
	}

	return nil
}
