package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndValidate(t *testing.T) {
	// Create temp config file
	content := `
dataset:
  path: "data/telco.csv"
  positive_label: "Yes"
  negative_label: "No"

model:
  trees: 50
  seed: 7
  test_fraction: 0.25
  min_samples_leaf: 2
  balance_classes: true
  workers: 4

dashboard:
  output_path: "out/dashboard.png"
  width: 16
  height: 12
  dpi: 100
  background: "#ffffff"
  primary: "#1a56db"
  accent: "#e02424"
  muted: "#6b7280"
  threshold: 25
  top_features: 8
  histogram_bins: 20

logging:
  level: "debug"
  format: "json"
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Test Load
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify values
	if cfg.Dataset.Path != "data/telco.csv" {
		t.Errorf("Unexpected dataset path: %s", cfg.Dataset.Path)
	}
	if cfg.Model.Trees != 50 {
		t.Errorf("Unexpected tree count: %d", cfg.Model.Trees)
	}
	if cfg.Model.Seed != 7 {
		t.Errorf("Unexpected seed: %d", cfg.Model.Seed)
	}
	if cfg.Model.TestFraction != 0.25 {
		t.Errorf("Unexpected test fraction: %f", cfg.Model.TestFraction)
	}
	if cfg.Dashboard.TopFeatures != 8 {
		t.Errorf("Unexpected top features: %d", cfg.Dashboard.TopFeatures)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging format: %s", cfg.Logging.Format)
	}

	// Unset keys keep their defaults
	if cfg.Model.MaxDepth != 0 {
		t.Errorf("Expected default max depth 0, got %d", cfg.Model.MaxDepth)
	}
	if cfg.Dashboard.Title == "" {
		t.Error("Expected default dashboard title")
	}

	// Test Validate
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Dataset.Path != "WA_Fn-UseC_-Telco-Customer-Churn.csv" {
		t.Errorf("Unexpected default dataset path: %s", cfg.Dataset.Path)
	}
	if cfg.Dashboard.OutputPath != "churn_dashboard.png" {
		t.Errorf("Unexpected default output path: %s", cfg.Dashboard.OutputPath)
	}
	if cfg.Model.Trees != 100 || cfg.Model.Seed != 42 {
		t.Errorf("Unexpected model defaults: trees=%d seed=%d", cfg.Model.Trees, cfg.Model.Seed)
	}
	if !cfg.Model.BalanceClasses {
		t.Error("Expected balanced classes by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults should validate: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CHURNLENS_MODEL_TREES", "25")
	t.Setenv("CHURNLENS_DASHBOARD_OUTPUT_PATH", "/tmp/override.png")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Model.Trees != 25 {
		t.Errorf("Expected env override of trees to 25, got %d", cfg.Model.Trees)
	}
	if cfg.Dashboard.OutputPath != "/tmp/override.png" {
		t.Errorf("Expected env override of output path, got %s", cfg.Dashboard.OutputPath)
	}
}

func TestValidateErrors(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty dataset path", func(c *Config) { c.Dataset.Path = "" }},
		{"same labels", func(c *Config) { c.Dataset.NegativeLabel = c.Dataset.PositiveLabel }},
		{"zero trees", func(c *Config) { c.Model.Trees = 0 }},
		{"test fraction zero", func(c *Config) { c.Model.TestFraction = 0 }},
		{"test fraction one", func(c *Config) { c.Model.TestFraction = 1 }},
		{"negative depth", func(c *Config) { c.Model.MaxDepth = -1 }},
		{"zero min samples leaf", func(c *Config) { c.Model.MinSamplesLeaf = 0 }},
		{"empty output path", func(c *Config) { c.Dashboard.OutputPath = "" }},
		{"bad color", func(c *Config) { c.Dashboard.Accent = "red" }},
		{"color with alpha", func(c *Config) { c.Dashboard.Primary = "#1a56db80" }},
		{"short color with alpha", func(c *Config) { c.Dashboard.Muted = "#fff8" }},
		{"threshold above 100", func(c *Config) { c.Dashboard.Threshold = 120 }},
		{"tiny canvas", func(c *Config) { c.Dashboard.Width = 2 }},
		{"low dpi", func(c *Config) { c.Dashboard.DPI = 10 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}
}
