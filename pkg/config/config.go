package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the run configuration for the transformer binary. Command
// line flags take precedence over values loaded from the file.
type Config struct {
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// CSVPaths are candidate directories for the output files; the first
	// existing one is used
	CSVPaths []string `yaml:"csv_paths"`

	// Sensor the transformer is associated with
	Sensor string `yaml:"sensor"`

	// Germplasm is the cultivar name associated with the plot
	Germplasm string `yaml:"germplasm"`

	// Per-channel overrides: unset leaves the algorithm's setting in
	// effect, true forces the file on, false forces it off
	GeostreamsCSV *bool `yaml:"geostreams_csv"`
	BetydbCSV     *bool `yaml:"betydb_csv"`

	// Workers bounds the per-file processing concurrency; 0 means one
	// worker per CPU
	Workers int `yaml:"workers"`
}

var validLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Load reads and parses a YAML config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that cannot work
func Validate(cfg *Config) error {
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	for idx, path := range cfg.CSVPaths {
		if path == "" {
			return fmt.Errorf("csv_paths entry %d is empty", idx)
		}
	}
	return nil
}
