package system

import (
	"errors"
	"time"
)

// DefaultNftBinary is the nft executable probed for the engine version.
const DefaultNftBinary = "nft"

// DefaultProbeTimeout bounds a single version probe.
const DefaultProbeTimeout = 5 * time.Second

// Config holds the configuration for version detection.
type Config struct {
	// NftBinary is the name or path of the nft executable.
	// Default: nft
	NftBinary string `yaml:"nft_binary"`

	// ProbeTimeout bounds each probe.
	// Default: 5s
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// KernelVersion pins the kernel version instead of probing it. Useful to
	// check a ruleset against a different target host.
	KernelVersion *Version `yaml:"kernel_version,omitempty"`

	// EngineVersion pins the nft version instead of probing it.
	EngineVersion *Version `yaml:"engine_version,omitempty"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.NftBinary == "" {
		c.NftBinary = DefaultNftBinary
	}
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = DefaultProbeTimeout
	}
}

// Validate checks that configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.NftBinary == "" && c.EngineVersion == nil {
		return errors.New("system: config: NftBinary must not be empty unless EngineVersion is pinned")
	}
	if c.ProbeTimeout < 0 {
		return errors.New("system: config: ProbeTimeout must not be negative")
	}
	return nil
}
