// Package config loads the YAML configuration for cmd/plctl.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete plctl configuration.
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Session SessionConfig `yaml:"session"`
}

// DeviceConfig selects how plctl reaches a device: either a fixed
// host/port, or mDNS discovery when Host is empty.
type DeviceConfig struct {
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	DiscoveryTimeoutS int    `yaml:"discovery_timeout_s"`
}

// SessionConfig controls the matched-stream run once connected.
type SessionConfig struct {
	DurationS int  `yaml:"duration_s"`
	Record    bool `yaml:"record"`
}

const defaultPort = 8080

// Load reads and parses path, filling in defaults for anything unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if cfg.Device.Port == 0 {
		cfg.Device.Port = defaultPort
	}
	if cfg.Device.DiscoveryTimeoutS == 0 {
		cfg.Device.DiscoveryTimeoutS = 10
	}
	if cfg.Session.DurationS == 0 {
		cfg.Session.DurationS = 30
	}
	return &cfg, nil
}

// DiscoveryTimeout is Device.DiscoveryTimeoutS as a time.Duration.
func (c *Config) DiscoveryTimeout() time.Duration {
	return time.Duration(c.Device.DiscoveryTimeoutS) * time.Second
}

// SessionDuration is Session.DurationS as a time.Duration.
func (c *Config) SessionDuration() time.Duration {
	return time.Duration(c.Session.DurationS) * time.Second
}
