package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load (SALES_INPUT_FILE, ...).
const EnvPrefix = "SALES"

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Columns   ColumnsConfig   `yaml:"columns" envconfig:"COLUMNS"`
	Charts    ChartsConfig    `yaml:"charts" envconfig:"CHARTS"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes the source sales file
type InputConfig struct {
	File      string   `yaml:"file" envconfig:"FILE" validate:"required"`
	Encodings []string `yaml:"encodings" envconfig:"ENCODINGS" validate:"min=1,dive,required"`
}

// ColumnsConfig names the columns the analysis reads
type ColumnsConfig struct {
	Date     string `yaml:"date" envconfig:"DATE" validate:"required"`
	Sales    string `yaml:"sales" envconfig:"SALES" validate:"required"`
	Category string `yaml:"category" envconfig:"CATEGORY" validate:"required"`
}

// ChartsConfig controls chart rendering and display
type ChartsConfig struct {
	Enabled   bool   `yaml:"enabled" envconfig:"ENABLED"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	Format    string `yaml:"format" envconfig:"FORMAT" validate:"oneof=png svg pdf"`
	Viewer    string `yaml:"viewer" envconfig:"VIEWER"`
	TopN      int    `yaml:"top_n" envconfig:"TOP_N" validate:"min=1"`
}

// ExportConfig controls the optional data exports written next to the charts
type ExportConfig struct {
	CSV      bool   `yaml:"csv" envconfig:"CSV"`
	Workbook bool   `yaml:"workbook" envconfig:"WORKBOOK"`
	Dir      string `yaml:"dir" envconfig:"DIR" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig enables tracing and the metrics textfile
type TelemetryConfig struct {
	Tracing     bool   `yaml:"tracing" envconfig:"TRACING"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty configFile falls
// back to the well-known locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks field constraints declared in the struct tags
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(c)
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// loadDotEnv exports the variables of a .env file when one exists. Variables
// already present in the environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

// normalize trims list entries and lowercases enumerations
func (c *Config) normalize() {
	encodings := make([]string, 0, len(c.Input.Encodings))
	for _, enc := range c.Input.Encodings {
		if enc = strings.TrimSpace(enc); enc != "" {
			encodings = append(encodings, enc)
		}
	}
	c.Input.Encodings = encodings

	c.Charts.Format = strings.ToLower(strings.TrimSpace(c.Charts.Format))
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Logging.Output = strings.ToLower(c.Logging.Output)

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/salescli.log"
	}
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"salescli.yaml",
		"configs/salescli.yaml",
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
		Input: InputConfig{
			File:      "sales_data_sample.csv",
			Encodings: []string{"latin-1", "windows-1252", "cp1252"},
		},
		Columns: ColumnsConfig{
			Date:     "ORDERDATE",
			Sales:    "SALES",
			Category: "PRODUCTLINE",
		},
		Charts: ChartsConfig{
			Enabled:   true,
			OutputDir: "charts",
			Format:    "png",
			TopN:      10,
		},
		Export: ExportConfig{
			Dir: "reports",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/salescli.log",
		},
	}
}
