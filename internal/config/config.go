// Package config loads YAML scenario files shared by modinfo and modserver.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-modulation/dsp/core"
	"github.com/cwbudde/algo-modulation/dsp/modulation"
	"github.com/cwbudde/algo-modulation/internal/logging"
)

const (
	DefaultAddr            = ":8080"
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxSamples      = 1_000_000
)

// Config is one scenario: a generation request plus the settings of the
// process running it.
type Config struct {
	Scheme  modulation.Scheme `yaml:"scheme"`
	Grid    core.TimeGrid     `yaml:"grid"`
	Params  modulation.Params `yaml:"params"`
	Message string            `yaml:"message"`

	Server ServerConfig   `yaml:"server"`
	Log    logging.Config `yaml:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxSamples caps the grid size a client may request.
	MaxSamples int `yaml:"max_samples"`
}

// Default returns the scenario used when no file is given: scheme s with
// its default parameters on the default grid.
func Default(s modulation.Scheme) *Config {
	req := modulation.NewRequest(s)
	return &Config{
		Scheme:  s,
		Grid:    req.Grid,
		Params:  req.Params,
		Message: req.Message,
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxSamples:      DefaultMaxSamples,
		},
		Log: logging.Config{Level: "info", Format: "text"},
	}
}

// Load reads and parses a scenario file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// Parse decodes a scenario. Fields missing from data keep the defaults of
// the scheme it names (AM when it names none).
func Parse(data []byte) (*Config, error) {
	var head struct {
		Scheme modulation.Scheme `yaml:"scheme"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	if head.Scheme == modulation.SchemeUnknown {
		head.Scheme = modulation.SchemeAM
	}

	cfg := Default(head.Scheme)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the scenario without generating anything.
func (c *Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if err := c.Params.Validate(c.Scheme); err != nil {
		return err
	}
	if c.Server.MaxSamples > 0 && c.Grid.Samples > c.Server.MaxSamples {
		return fmt.Errorf("grid samples %d exceed server limit %d: %w",
			c.Grid.Samples, c.Server.MaxSamples, core.ErrInvalidParameter)
	}
	return nil
}

// Request returns the generation request described by the scenario.
func (c *Config) Request() modulation.Request {
	return modulation.Request{
		Scheme:  c.Scheme,
		Grid:    c.Grid,
		Params:  c.Params,
		Message: c.Message,
	}
}
