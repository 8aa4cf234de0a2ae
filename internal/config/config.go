package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "GRADEREPORT"

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Chart   ChartConfig   `yaml:"chart" envconfig:"CHART"`
	Metrics MetricsConfig `yaml:"metrics" envconfig:"METRICS"`
	Tracing TracingConfig `yaml:"tracing" envconfig:"TRACING"`
}

// PathsConfig contains the dataset and output locations
type PathsConfig struct {
	Dataset   string `yaml:"dataset" envconfig:"DATASET" validate:"required"`
	Output    string `yaml:"output" envconfig:"OUTPUT" validate:"required"`
	Histogram string `yaml:"histogram" envconfig:"HISTOGRAM" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// ChartConfig sizes the course histogram image in pixels
type ChartConfig struct {
	Width  int `yaml:"width" envconfig:"WIDTH" validate:"min=100"`
	Height int `yaml:"height" envconfig:"HEIGHT" validate:"min=100"`
}

// MetricsConfig controls the Prometheus textfile written at exit
type MetricsConfig struct {
	Textfile string `yaml:"textfile" envconfig:"TEXTFILE"`
}

// TracingConfig controls span export
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled" envconfig:"ENABLED"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_if=Enabled true"`
}

// Load builds the configuration. Sources in increasing precedence: built-in
// defaults, the YAML file (explicit path or the first default location found),
// then GRADEREPORT_* environment variables. A .env file in the working
// directory is loaded into the environment first.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if configPath == "" {
		configPath = getConfigFilePath()
	}
	if configPath != "" {
		if err := loadFromFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching variable keep their current value
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads a .env file if present. Variables already set win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// getConfigFilePath returns the first config file found in the default locations
func getConfigFilePath() string {
	locations := []string{
		"gradereport.yaml",
		"configs/gradereport.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Dataset:   "data.csv",
			Output:    "output.html",
			Histogram: "bar-chart.png",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "file",
			FilePath: "logs/gradereport.log",
		},
		Chart: ChartConfig{
			Width:  1000,
			Height: 600,
		},
		Tracing: TracingConfig{
			FilePath: "logs/traces.json",
		},
	}
}
