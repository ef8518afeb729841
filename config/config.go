// SPDX-License-Identifier: GPL-2.0-or-later

// Package config holds the compiler settings read from a YAML file.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultFile = "goqbsp.yaml"

type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Compile CompileConfig `yaml:"compile"`
	Logging LoggingConfig `yaml:"logging"`
}

type OutputConfig struct {
	// Dir receives the .bsp when no output file is given. Empty means
	// next to the input map.
	Dir string `yaml:"dir"`
	// Pak is a PACK archive the map is stored in as maps/<name>.bsp.
	Pak string `yaml:"pak"`
	// Report is the compile history file.
	Report string `yaml:"report"`
}

type CompileConfig struct {
	// Strict fails on overlapping brushes instead of dropping them.
	Strict bool `yaml:"strict"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load returns the defaults overridden by the file at path. With an empty
// path DefaultFile is used if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return cfg, nil
		}
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "loading config from %s", path)
	}
	return cfg, nil
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
