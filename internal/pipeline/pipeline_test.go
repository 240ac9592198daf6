package pipeline

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/churnlens/internal/config"
	"github.com/rewired-gh/churnlens/internal/dataset"
	"github.com/rewired-gh/churnlens/internal/dataset/datasettest"
)

func testConfig(t *testing.T, rows int) *config.Config {
	t.Helper()
	dir := t.TempDir()

	data := filepath.Join(dir, "churn.csv")
	require.NoError(t, os.WriteFile(data, datasettest.CSV(datasettest.Synthetic(rows, 42)), 0o600))

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Dataset.Path = data
	cfg.Dashboard.OutputPath = filepath.Join(dir, "dashboard.png")
	cfg.Dashboard.Width = 8
	cfg.Dashboard.Height = 6
	cfg.Dashboard.DPI = 40
	cfg.Model.Trees = 15
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRun(t *testing.T) {
	rq := require.New(t)
	cfg := testConfig(t, 300)

	var out bytes.Buffer
	report, err := Run(context.Background(), cfg, &out)
	rq.NoError(err)

	text := out.String()
	rq.Contains(text, "TELECOM CUSTOMER CHURN ANALYSIS")
	rq.Contains(text, "Total Customers: 300")
	rq.Contains(text, "CHURN RATE BY CONTRACT TYPE")
	rq.Contains(text, "ROC-AUC Score")
	rq.Contains(text, "TOP CHURN PREDICTORS")
	rq.Contains(text, "Dashboard saved to "+cfg.Dashboard.OutputPath)

	rq.Len(report.Customers, 300)
	for _, c := range report.Customers {
		rq.True(c.HasTotalCharges)
		rq.Equal(c.Churn == "Yes", c.Churned)
	}
	rq.Len(report.Model.Split.Test, 60)

	f, err := os.Open(report.Dashboard)
	rq.NoError(err)
	defer f.Close()
	img, err := png.DecodeConfig(f)
	rq.NoError(err)
	rq.Equal(320, img.Width)
	rq.Equal(240, img.Height)
}

func TestRunIsReproducible(t *testing.T) {
	rq := require.New(t)
	cfg := testConfig(t, 200)

	var first, second bytes.Buffer
	a, err := Run(context.Background(), cfg, &first)
	rq.NoError(err)

	cfg.Model.Workers = 1
	b, err := Run(context.Background(), cfg, &second)
	rq.NoError(err)

	rq.Equal(first.String(), second.String())
	rq.Equal(a.Model.Metrics, b.Model.Metrics)
}

func TestRunMissingDataset(t *testing.T) {
	cfg := testConfig(t, 50)
	cfg.Dataset.Path = filepath.Join(t.TempDir(), "missing.csv")

	_, err := Run(context.Background(), cfg, &bytes.Buffer{})
	require.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(cfg.Dashboard.OutputPath)
	require.ErrorIs(t, statErr, os.ErrNotExist, "no dashboard on failure")
}

func TestRunInvalidLabel(t *testing.T) {
	cfg := testConfig(t, 50)
	cfg.Dataset.PositiveLabel = "Churned"
	cfg.Dataset.NegativeLabel = "Stayed"

	_, err := Run(context.Background(), cfg, &bytes.Buffer{})
	require.ErrorIs(t, err, dataset.ErrInvalidLabel)
}

func TestOptions(t *testing.T) {
	opts := Options(config.ModelConfig{Trees: 7, Seed: 3, TestFraction: 0.25, MinSamplesLeaf: 2, BalanceClasses: true})
	require.Equal(t, 0.25, opts.TestFraction)
	require.Equal(t, int64(3), opts.Seed)
	require.Equal(t, 7, opts.Forest.Trees)
	require.Equal(t, int64(3), opts.Forest.Seed)
	require.True(t, opts.Forest.BalanceClasses)
}
