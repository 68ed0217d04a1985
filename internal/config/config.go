// Package config provides configuration management for netpulse.
//
// Config file locations (priority order):
//  1. $NETPULSE_CONFIG
//  2. ./netpulse.yaml
//  3. $XDG_CONFIG_HOME/netpulse/config.yaml
//  4. ~/.config/netpulse/config.yaml
//  5. /etc/netpulse/config.yaml
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig holds the durable history store settings. An empty path
// disables persistence entirely.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SeedConfig controls topology construction
type SeedConfig struct {
	// Dir contains seed NetworkData files named <network-id>.yaml|.json
	Dir string `yaml:"dir"`
	// Generate enables the synthetic fallback for ids without a seed.
	// With it disabled, unknown ids are NotFound.
	Generate bool `yaml:"generate"`
	// Watch reloads a network's state when its seed file changes
	Watch bool `yaml:"watch"`
}

// AlertConfig holds the classification thresholds
type AlertConfig struct {
	WarnThreshold float64 `yaml:"warn_threshold" validate:"gte=0,lte=100"`
	CritThreshold float64 `yaml:"crit_threshold" validate:"gte=0,lte=100,gtefield=WarnThreshold"`
}

// SimulationConfig carries the advisory refresh and retention hints
// stamped onto network metadata
type SimulationConfig struct {
	UpdateIntervalMS int `yaml:"update_interval_ms" validate:"gte=0"`
	RetentionPeriodS int `yaml:"retention_period_s" validate:"gte=0"`
}

// Config is the full server configuration
type Config struct {
	Version    int              `yaml:"version"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Seeds      SeedConfig       `yaml:"seeds"`
	Alerts     AlertConfig      `yaml:"alerts"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Server:   ServerConfig{Addr: ":3000"},
		Database: DatabaseConfig{Path: "./netpulse.db"},
		Seeds:    SeedConfig{Generate: true},
		Alerts: AlertConfig{
			WarnThreshold: 75,
			CritThreshold: 90,
		},
		Simulation: SimulationConfig{
			UpdateIntervalMS: 5000,
			RetentionPeriodS: 3600,
		},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Alerts.WarnThreshold == 0 {
		c.Alerts.WarnThreshold = 75
	}
	if c.Alerts.CritThreshold == 0 {
		c.Alerts.CritThreshold = 90
	}
	if c.Simulation.UpdateIntervalMS == 0 {
		c.Simulation.UpdateIntervalMS = 5000
	}
	if c.Simulation.RetentionPeriodS == 0 {
		c.Simulation.RetentionPeriodS = 3600
	}
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Seeds.Watch && c.Seeds.Dir == "" {
		return fmt.Errorf("invalid config: seeds.watch requires seeds.dir")
	}
	return nil
}
