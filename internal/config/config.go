// Package config loads the optional esterpost YAML configuration file.
// Values in the file are defaults; command-line flags override them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/esterpost/internal/catalog"
)

// Config holds defaults for the esterpost commands.
type Config struct {
	// Verbose is the log verbosity from 0 (critical only) to 4 (debug).
	// Use a pointer so an omitted value keeps the flag default.
	Verbose *int `yaml:"verbose,omitempty" json:"verbose,omitempty"`

	// Cache is the snapshot database path.
	Cache string `yaml:"cache,omitempty" json:"cache,omitempty"`

	// OutputDir receives plots whose output path is relative.
	OutputDir string `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`

	Scatter ScatterConfig `yaml:"scatter,omitempty" json:"scatter,omitempty"`
	Radius  RadiusConfig  `yaml:"radius,omitempty" json:"radius,omitempty"`
}

// ScatterConfig holds defaults for the scatter command.
type ScatterConfig struct {
	Folders   []string `yaml:"folders,omitempty" json:"folders,omitempty"`
	Ester     int      `yaml:"ester,omitempty" json:"ester,omitempty"`
	Plot      []string `yaml:"plot,omitempty" json:"plot,omitempty"`
	Recursive bool     `yaml:"recursive,omitempty" json:"recursive,omitempty"`
}

// RadiusConfig holds defaults for the radius command.
type RadiusConfig struct {
	Folder string `yaml:"folder,omitempty" json:"folder,omitempty"`
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	if c.Verbose != nil && (*c.Verbose < 0 || *c.Verbose > 4) {
		return fmt.Errorf("verbose must be between 0 and 4, got %d", *c.Verbose)
	}
	if err := c.Scatter.Validate(); err != nil {
		return fmt.Errorf("scatter: %w", err)
	}
	return nil
}

// Validate checks for invalid scatter defaults.
func (c *ScatterConfig) Validate() error {
	if c.Ester != 0 && c.Ester != 1 && c.Ester != 2 {
		return fmt.Errorf("ester must be 1 or 2, got %d", c.Ester)
	}
	if len(c.Plot) == 0 {
		return nil
	}
	if len(c.Plot) != 3 {
		return fmt.Errorf("plot needs exactly 3 attributes, got %d: %v", len(c.Plot), c.Plot)
	}
	for _, name := range c.Plot {
		if _, err := catalog.ParseAttribute(name); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
	}
	return nil
}

// Load reads and validates the configuration at path. An empty path yields
// the zero Config.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML configuration. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
