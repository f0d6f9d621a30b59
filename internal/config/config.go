// Package config loads the skinsight settings file. Missing files yield the
// defaults; command-line flags override whatever is loaded.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"skin-sight/internal/calibration"
	"skin-sight/internal/pasi"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	Assessment struct {
		// BodyRegion is used when no region is given on the command line
		BodyRegion string `yaml:"bodyRegion"`
	} `yaml:"assessment"`

	// Calibration marker appearance
	Calibration struct {
		DiameterMM float64 `yaml:"diameterMM"`
		HueMin     float64 `yaml:"hueMin"`
		HueMax     float64 `yaml:"hueMax"`
		SatMin     float64 `yaml:"satMin"`
		ValMin     float64 `yaml:"valMin"`
	} `yaml:"calibration"`

	Output struct {
		// AnnotatePath, if set, receives a PNG of the image with the outline
		// and marker drawn on it
		AnnotatePath string `yaml:"annotatePath"`

		// ChartPath, if set, receives a PNG bar chart of the color buckets
		ChartPath string `yaml:"chartPath"`

		Pretty  bool `yaml:"pretty"`
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`

	// History database; assessments are recorded only when both are set
	History struct {
		Path   string `yaml:"path"`
		Lesion string `yaml:"lesion"`
	} `yaml:"history"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	params := calibration.DefaultParams()

	cfg.Assessment.BodyRegion = string(pasi.DefaultRegion)

	cfg.Calibration.DiameterMM = params.DiameterMM
	cfg.Calibration.HueMin = params.Color.Lower.H
	cfg.Calibration.HueMax = params.Color.Upper.H
	cfg.Calibration.SatMin = params.Color.Lower.S
	cfg.Calibration.ValMin = params.Color.Lower.V

	cfg.Output.Pretty = true

	cfg.History.Path = "skinsight.db"
	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// Validate checks value ranges. Hue is on the 0-180 scale, saturation and
// value on 0-255.
func (c *Config) Validate() error {
	cal := c.Calibration
	switch {
	case cal.DiameterMM <= 0:
		return fmt.Errorf("calibration.diameterMM must be positive, got %g", cal.DiameterMM)
	case cal.HueMin < 0 || cal.HueMax > 180 || cal.HueMin > cal.HueMax:
		return fmt.Errorf("calibration hue range %g-%g outside 0-180", cal.HueMin, cal.HueMax)
	case cal.SatMin < 0 || cal.SatMin > 255:
		return fmt.Errorf("calibration.satMin %g outside 0-255", cal.SatMin)
	case cal.ValMin < 0 || cal.ValMin > 255:
		return fmt.Errorf("calibration.valMin %g outside 0-255", cal.ValMin)
	}
	return nil
}

// CalibrationParams builds the marker detection parameters.
func (c *Config) CalibrationParams() calibration.Params {
	cal := c.Calibration
	return calibration.DefaultParams().
		WithDiameterMM(cal.DiameterMM).
		WithHSV(cal.HueMin, cal.HueMax, cal.SatMin, 255, cal.ValMin, 255)
}

// Region returns the configured body region, trunk if unset or unknown.
func (c *Config) Region() pasi.BodyRegion {
	return pasi.ParseBodyRegion(c.Assessment.BodyRegion)
}
