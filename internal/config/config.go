// Package config provides configuration for the walled daemon. Defaults
// work out of the box; a YAML rig file and environment variables override.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-walle/pkg/servo"
)

// Config is the daemon configuration.
type Config struct {
	Addr     string              `yaml:"addr"`
	LogLevel string              `yaml:"log_level"`
	Channels []servo.ChannelSpec `yaml:"channels"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{Addr: ":8000", LogLevel: "info"}
}

// Load reads a YAML file over the defaults. An empty path keeps the
// defaults. WALLE_ADDR and WALLE_LOG_LEVEL environment variables override
// both.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if v := os.Getenv("WALLE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("WALLE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// Registry builds the channel registry from the config. A config without a
// channels section gets the built-in rig table; a config with one must pass
// the range invariants.
func (c Config) Registry() (*servo.Registry, error) {
	if len(c.Channels) == 0 {
		return servo.DefaultRegistry(), nil
	}
	return servo.NewRegistry(c.Channels)
}
