package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Model     ModelConfig     `mapstructure:"model"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DatasetConfig describes the input CSV and its churn label literals
type DatasetConfig struct {
	Path          string `mapstructure:"path" validate:"required"`
	PositiveLabel string `mapstructure:"positive_label" validate:"required"`
	NegativeLabel string `mapstructure:"negative_label" validate:"required"`
}

// ModelConfig holds the train/test split and random forest parameters
type ModelConfig struct {
	Trees          int     `mapstructure:"trees" validate:"gte=1"`
	Seed           int64   `mapstructure:"seed"`
	TestFraction   float64 `mapstructure:"test_fraction" validate:"gt=0,lt=1"`
	MaxDepth       int     `mapstructure:"max_depth" validate:"gte=0"`
	MinSamplesLeaf int     `mapstructure:"min_samples_leaf" validate:"gte=1"`
	BalanceClasses bool    `mapstructure:"balance_classes"`
	Workers        int     `mapstructure:"workers" validate:"gte=0"`
}

// DashboardConfig holds rendering options for the dashboard image.
// Colors are opaque hex strings ("#1a56db" or "#fff"), sizes are in inches.
type DashboardConfig struct {
	OutputPath    string  `mapstructure:"output_path" validate:"required"`
	Title         string  `mapstructure:"title"`
	Width         float64 `mapstructure:"width" validate:"gt=0"`
	Height        float64 `mapstructure:"height" validate:"gt=0"`
	DPI           int     `mapstructure:"dpi" validate:"gte=36,lte=600"`
	Background    string  `mapstructure:"background" validate:"hexcolor,len=7|len=4"`
	Primary       string  `mapstructure:"primary" validate:"hexcolor,len=7|len=4"`
	Accent        string  `mapstructure:"accent" validate:"hexcolor,len=7|len=4"`
	Muted         string  `mapstructure:"muted" validate:"hexcolor,len=7|len=4"`
	Threshold     float64 `mapstructure:"threshold" validate:"gte=0,lte=100"`
	TopFeatures   int     `mapstructure:"top_features" validate:"gte=1"`
	HistogramBins int     `mapstructure:"histogram_bins" validate:"gte=1"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// Load reads configuration from file and environment variables.
// A missing file is not an error: defaults reproduce the stock pipeline.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CHURNLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Dataset defaults
	v.SetDefault("dataset.path", "WA_Fn-UseC_-Telco-Customer-Churn.csv")
	v.SetDefault("dataset.positive_label", "Yes")
	v.SetDefault("dataset.negative_label", "No")

	// Model defaults
	v.SetDefault("model.trees", 100)
	v.SetDefault("model.seed", 42)
	v.SetDefault("model.test_fraction", 0.2)
	v.SetDefault("model.max_depth", 0)
	v.SetDefault("model.min_samples_leaf", 1)
	v.SetDefault("model.balance_classes", true)
	v.SetDefault("model.workers", 0)

	// Dashboard defaults
	v.SetDefault("dashboard.output_path", "churn_dashboard.png")
	v.SetDefault("dashboard.title", "Telecom Customer Churn Analysis Dashboard")
	v.SetDefault("dashboard.width", 20.0)
	v.SetDefault("dashboard.height", 15.0)
	v.SetDefault("dashboard.dpi", 150)
	v.SetDefault("dashboard.background", "#f9fafb")
	v.SetDefault("dashboard.primary", "#1a56db")
	v.SetDefault("dashboard.accent", "#e02424")
	v.SetDefault("dashboard.muted", "#6b7280")
	v.SetDefault("dashboard.threshold", 30.0)
	v.SetDefault("dashboard.top_features", 10)
	v.SetDefault("dashboard.histogram_bins", 30)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Dataset.PositiveLabel == c.Dataset.NegativeLabel {
		return fmt.Errorf("dataset.positive_label and dataset.negative_label must differ")
	}
	if c.Dashboard.Width < 4 || c.Dashboard.Height < 3 {
		return fmt.Errorf("dashboard must be at least 4x3 inches to fit the 3x3 grid")
	}

	return nil
}
