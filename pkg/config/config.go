// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/elvisoliveira/gifsplit/pkg/orchestrator"
)

// Config represents the full configuration for gifsplit.
type Config struct {
	// Export
	Scale   float64 `yaml:"scale"`
	Workers int     `yaml:"workers"`

	// Contact sheet
	Sheet SheetConfig `yaml:"sheet"`

	// Summary report
	Summary SummaryConfig `yaml:"summary"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// SheetConfig represents contact sheet settings.
type SheetConfig struct {
	Columns   int `yaml:"columns"`
	CellWidth int `yaml:"cell_width"`
}

// SummaryConfig represents run summary settings.
type SummaryConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // "text" or "markdown"
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Scale:   1,
		Workers: 1,

		Sheet: SheetConfig{
			Columns:   4,
			CellWidth: 160,
		},

		Summary: SummaryConfig{
			Format: "text",
		},

		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file, applied on top of
// the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// ToOrchestratorConfig converts the configuration to an orchestrator
// run configuration for the given output base.
func (c Config) ToOrchestratorConfig(outputBase string) orchestrator.Config {
	return orchestrator.Config{
		OutputBase: outputBase,
		Scale:      c.Scale,
		Workers:    c.Workers,
	}
}
