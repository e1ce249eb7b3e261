package config

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/muurk/plexgdm/internal/protocol"
)

// CurrentVersion is the config schema version written by this build
const CurrentVersion = 1

// Default client values for a freshly generated config
const (
	DefaultClientName    = "plexgdm"
	DefaultClientPort    = 3005
	DefaultClientProduct = "plexgdm"

	DefaultDiscoveryInterval    = 120
	DefaultRegistrationInterval = 5
)

// Config is the on-disk configuration file.
type Config struct {
	Version int `yaml:"version"`

	// Client is the identity announced to media servers
	Client protocol.ClientIdentity `yaml:"client"`

	// DiscoveryInterval is seconds between discovery cycles
	DiscoveryInterval int `yaml:"discovery_interval"`

	// RegistrationInterval is seconds between HELLO announcements
	RegistrationInterval int `yaml:"registration_interval"`

	// LogLevel is used when neither --log-level nor PLEXGDM_LOG_LEVEL is set
	LogLevel string `yaml:"log_level,omitempty"`
}

// NewConfig creates a Config with defaults and a random client ID.
func NewConfig(version string) *Config {
	return &Config{
		Version: CurrentVersion,
		Client: protocol.ClientIdentity{
			ID:      uuid.NewString(),
			Name:    DefaultClientName,
			Port:    DefaultClientPort,
			Product: DefaultClientProduct,
			Version: version,
		},
		DiscoveryInterval:    DefaultDiscoveryInterval,
		RegistrationInterval: DefaultRegistrationInterval,
	}
}

// applyDefaults fills zero intervals left out of a hand-written file.
func (c *Config) applyDefaults() {
	if c.DiscoveryInterval <= 0 {
		c.DiscoveryInterval = DefaultDiscoveryInterval
	}
	if c.RegistrationInterval <= 0 {
		c.RegistrationInterval = DefaultRegistrationInterval
	}
}

// Validate checks the config can drive the engine.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}
	if err := c.Client.Validate(); err != nil {
		return err
	}
	return nil
}
