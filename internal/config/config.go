// Package config loads and validates fleet configuration: the YAML fleet
// file, the Seeweb credential file, and environment-overridable timeouts.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GPU describes an optional accelerator attached to each node.
type GPU struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// NodeSpec holds the provider-facing parameters for creating a node.
// All values are passed through to the API unvalidated; the provider is
// the authority on plans, images, and locations.
type NodeSpec struct {
	Plan     string `yaml:"plan"`
	Image    string `yaml:"image"`
	Location string `yaml:"location"`
	SSHKey   string `yaml:"ssh_key"`
	GPU      *GPU   `yaml:"gpu,omitempty"`
}

// Config is the fleet configuration file.
type Config struct {
	// FleetName identifies the fleet. It is stored verbatim in each
	// server's notes field and is the only membership mechanism, so it
	// must be unique per fleet within the account.
	FleetName string `yaml:"fleet_name"`

	// Count is the desired number of running nodes.
	Count int `yaml:"count"`

	// Node is the spec applied to every node the fleet creates.
	Node NodeSpec `yaml:"node"`

	// SSHUser is the login user for readiness probes.
	SSHUser string `yaml:"ssh_user"`

	// SSHPrivateKeyPath points at the PEM key matching Node.SSHKey.
	SSHPrivateKeyPath string `yaml:"ssh_private_key_path"`
}

// Load reads, parses, and validates the fleet configuration file.
func Load(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if cfg.SSHUser == "" {
		cfg.SSHUser = "ecuser"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the configuration for errors that would otherwise only
// surface mid-provisioning.
func (c *Config) Validate() error {
	if c.FleetName == "" {
		return fmt.Errorf("fleet_name is required")
	}
	if c.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", c.Count)
	}
	if c.Node.Plan == "" {
		return fmt.Errorf("node.plan is required")
	}
	if c.Node.Image == "" {
		return fmt.Errorf("node.image is required")
	}
	if c.Node.Location == "" {
		return fmt.Errorf("node.location is required")
	}
	if c.Node.GPU != nil && c.Node.GPU.Count <= 0 {
		return fmt.Errorf("node.gpu.count must be positive when gpu is set")
	}
	return nil
}
