// Package config loads demo settings from an optional TOML file.
package config

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

type Config struct {
	// Order is the maximum number of children per internal tree node.
	Order int `toml:"order"`
	// SeedRecords is how many fake records -seed inserts on startup.
	SeedRecords int `toml:"seed_records"`
	// Debug enables split/merge diagnostics on stderr.
	Debug bool `toml:"debug"`
}

func Default() Config {
	return Config{
		Order:       32,
		SeedRecords: 1000,
	}
}

// Load reads path over the defaults. Fields absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "config: read file")
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "config: parse toml")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Order < 4 {
		return errors.Errorf("config: order must be at least 4, got %d", c.Order)
	}
	if c.SeedRecords < 0 {
		return errors.Errorf("config: seed_records must not be negative, got %d", c.SeedRecords)
	}
	return nil
}
