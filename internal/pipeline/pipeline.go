// Package pipeline runs the churn analysis end to end: load and prepare the
// dataset, print the summary, train and score the model, and render the dashboard.
// Steps run strictly in order and the first error aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/rewired-gh/churnlens/internal/analysis"
	"github.com/rewired-gh/churnlens/internal/classifier"
	"github.com/rewired-gh/churnlens/internal/config"
	"github.com/rewired-gh/churnlens/internal/dashboard"
	"github.com/rewired-gh/churnlens/internal/dataset"
	"github.com/rewired-gh/churnlens/internal/forest"
	"github.com/rewired-gh/churnlens/internal/logger"
	"github.com/rewired-gh/churnlens/internal/models"
)

// Report is what a run produced
type Report struct {
	Customers []models.Customer
	Summary   analysis.Summary
	Model     *classifier.Result
	Dashboard string // path of the written image
}

// Options maps the model configuration onto classifier options
func Options(cfg config.ModelConfig) classifier.Options {
	return classifier.Options{
		TestFraction: cfg.TestFraction,
		Seed:         cfg.Seed,
		Forest: forest.Config{
			Trees:          cfg.Trees,
			Seed:           cfg.Seed,
			MaxDepth:       cfg.MaxDepth,
			MinSamplesLeaf: cfg.MinSamplesLeaf,
			BalanceClasses: cfg.BalanceClasses,
			Workers:        cfg.Workers,
		},
	}
}

// Run executes the pipeline and writes the text report to out
func Run(ctx context.Context, cfg *config.Config, out io.Writer) (*Report, error) {
	style, err := dashboard.NewStyle(cfg.Dashboard)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard style: %w", err)
	}

	// 1. Data preparation
	customers, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	logger.Info("Loaded %s customers from %s", humanize.Comma(int64(len(customers))), cfg.Dataset.Path)

	prep, err := dataset.Prepare(customers, dataset.Labels{
		Positive: cfg.Dataset.PositiveLabel,
		Negative: cfg.Dataset.NegativeLabel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dataset: %w", err)
	}
	if prep.Imputed > 0 {
		logger.Info("Imputed %d missing total charges with median %.2f", prep.Imputed, prep.Median)
	}

	// 2. Aggregation and reporting
	summary, err := analysis.Summarize(customers)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize dataset: %w", err)
	}
	if err := analysis.WriteSummary(out, summary); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}

	// 3. Churn classifier
	logger.Info("Training random forest (%d trees, seed %d)", cfg.Model.Trees, cfg.Model.Seed)
	result, err := classifier.Run(ctx, customers, Options(cfg.Model))
	if err != nil {
		return nil, fmt.Errorf("failed to train classifier: %w", err)
	}
	logger.Info("Model scored: AUC %.3f, F1 %.3f", result.Metrics.AUC, result.Metrics.F1)
	if err := analysis.WriteModel(out, result.Metrics, result.Importances, cfg.Dashboard.TopFeatures); err != nil {
		return nil, fmt.Errorf("failed to write model report: %w", err)
	}

	// 4. Dashboard
	in, err := dashboardInput(customers, summary, result)
	if err != nil {
		return nil, fmt.Errorf("failed to collect dashboard data: %w", err)
	}
	if err := dashboard.Save(cfg.Dashboard.OutputPath, in, style); err != nil {
		return nil, fmt.Errorf("failed to render dashboard: %w", err)
	}
	if _, err := fmt.Fprintf(out, "\nDashboard saved to %s\n", cfg.Dashboard.OutputPath); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	return &Report{
		Customers: customers,
		Summary:   summary,
		Model:     result,
		Dashboard: cfg.Dashboard.OutputPath,
	}, nil
}

func dashboardInput(customers []models.Customer, s analysis.Summary, r *classifier.Result) (dashboard.Input, error) {
	in := dashboard.Input{
		Customers:   s.Overview.Total,
		Overview:    dashboard.Overview{Churned: s.Overview.Churned, Retained: s.Overview.Retained},
		ByContract:  s.ByContract,
		ByInternet:  s.ByInternet,
		Importances: r.Importances,
		Confusion:   r.Confusion,
		AUC:         r.Metrics.AUC,
	}

	for _, g := range []struct {
		label   string
		churned bool
	}{{"Retained", false}, {"Churned", true}} {
		tenure, err := analysis.Values(customers, models.ColumnTenure, g.churned)
		if err != nil {
			return in, err
		}
		charges, err := analysis.Values(customers, models.ColumnMonthlyCharges, g.churned)
		if err != nil {
			return in, err
		}
		in.Tenure = append(in.Tenure, dashboard.Group{Label: g.label, Values: tenure})
		in.Charges = append(in.Charges, dashboard.Group{Label: g.label, Values: charges})
	}
	return in, nil
}
