// Package config loads the nftcompat YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/plexsphere/nftcompat/internal/audit"
	"github.com/plexsphere/nftcompat/internal/system"
)

const (
	// DefaultPath is the config file read when --config is not given.
	DefaultPath = "/etc/nftcompat/config.yaml"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config is the top-level configuration. It aggregates the subsystem
// configurations and is populated from a YAML file via ParseConfig.
type Config struct {
	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	System system.Config `yaml:"system"`
	Audit  audit.Config  `yaml:"audit"`
	Report ReportConfig  `yaml:"report"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	// Path, if set, receives a YAML copy of every check or audit report.
	Path string `yaml:"path"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.System.ApplyDefaults()
}

// Validate checks that required fields are set and values are acceptable.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log level %q (must be debug, info, warn or error)", c.LogLevel)
	}
	return c.System.Validate()
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

// ParseConfig reads a YAML configuration file and returns a Config. It applies
// defaults and validates the configuration. When optional is true a missing
// file yields the defaults instead of an error.
func ParseConfig(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
