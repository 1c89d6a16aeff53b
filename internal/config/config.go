// Package config loads rcbeam settings from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/rcbeam/internal/checks"
	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/cutting"
	"github.com/alexiusacademia/rcbeam/internal/detailing"
	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/optimize"
	"github.com/alexiusacademia/rcbeam/internal/sensitivity"
	"github.com/alexiusacademia/rcbeam/internal/shear"
)

// Environment variables
const (
	EnvConfig   = "RCBEAM_CONFIG"
	EnvLogLevel = "RCBEAM_LOG_LEVEL"
	EnvAddr     = "RCBEAM_ADDR"
)

// Config is the full application configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Shear     shear.Options     `yaml:"shear"`
	Detailing detailing.Options `yaml:"detailing"`
	Checks    checks.Options    `yaml:"checks"`
	Optimizer optimize.Options  `yaml:"optimizer"`
	Cutting   cutting.Options   `yaml:"cutting"`

	Sensitivity struct {
		Delta float64 `yaml:"delta"`
	} `yaml:"sensitivity"`

	Batch struct {
		Workers int `yaml:"workers"`
	} `yaml:"batch"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	// Tables replaces built-in code tables when set
	Tables struct {
		ShearStrength *is456.Table `yaml:"shear_strength"`
	} `yaml:"tables"`
}

// Default returns the built-in configuration.
func Default() Config {
	c := Config{
		LogLevel:  "info",
		Shear:     shear.DefaultOptions(),
		Detailing: detailing.DefaultOptions(),
		Checks:    checks.DefaultOptions(),
		Optimizer: optimize.DefaultOptions(),
		Cutting:   cutting.DefaultOptions(),
	}
	c.Sensitivity.Delta = sensitivity.DefaultDelta
	c.Batch.Workers = 4
	c.Server.Addr = ":8080"
	return c
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// FromEnv loads a .env file if present, then the YAML file named by
// RCBEAM_CONFIG (or explicitPath when non-empty), then applies the
// RCBEAM_LOG_LEVEL and RCBEAM_ADDR overrides.
func FromEnv(explicitPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	path := explicitPath
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	c := Default()
	if path != "" {
		var err error
		if c, err = Load(path); err != nil {
			return c, err
		}
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.LogLevel = lvl
	}
	if addr := os.Getenv(EnvAddr); addr != "" {
		c.Server.Addr = addr
	}
	return c, c.Validate()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Compliance().Validate(); err != nil {
		return err
	}
	if err := c.Optimizer.Validate(); err != nil {
		return err
	}
	if err := c.Cutting.Validate(); err != nil {
		return err
	}
	if c.Sensitivity.Delta <= 0 || c.Sensitivity.Delta >= 1 {
		return fmt.Errorf("sensitivity delta must be in (0, 1), got %g", c.Sensitivity.Delta)
	}
	if _, err := c.CodeTables(); err != nil {
		return err
	}
	return nil
}

// Compliance returns the engine options.
func (c Config) Compliance() compliance.Options {
	return compliance.Options{
		Shear:     c.Shear,
		Detailing: c.Detailing,
		Checks:    c.Checks,
	}
}

// CodeTables returns the built-in tables with any configured override.
func (c Config) CodeTables() (is456.Tables, error) {
	t := is456.DefaultTables()
	if c.Tables.ShearStrength != nil {
		t.ShearStrength = *c.Tables.ShearStrength
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("code tables: %w", err)
	}
	return t, nil
}
