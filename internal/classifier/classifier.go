// Package classifier runs one fit/evaluate cycle of the churn model: it encodes the
// prepared customers, splits them into stratified train and test partitions, fits a
// class-weighted random forest, and scores it on the held-out rows.
package classifier

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/rewired-gh/churnlens/internal/features"
	"github.com/rewired-gh/churnlens/internal/forest"
	"github.com/rewired-gh/churnlens/internal/logger"
	"github.com/rewired-gh/churnlens/internal/models"
)

// Options configures a run
type Options struct {
	TestFraction float64
	Seed         int64 // seeds the split; Forest.Seed seeds the trees
	Forest       forest.Config
}

// DefaultOptions returns an 80/20 split and a 100-tree balanced forest, both seeded with 42
func DefaultOptions() Options {
	return Options{
		TestFraction: 0.2,
		Seed:         42,
		Forest:       forest.DefaultConfig(),
	}
}

// Result is everything downstream reporting needs from the model
type Result struct {
	Encoders      features.Encoders
	Features      []string
	Split         Split
	Actual        []bool    // test labels
	Probabilities []float64 // positive-class probability per test row
	Predictions   []bool
	Confusion     models.ConfusionMatrix
	Metrics       models.Metrics
	Importances   []models.FeatureImportance // descending
	Model         *forest.Forest
}

// Run trains and evaluates the churn model on prepared customers
func Run(ctx context.Context, customers []models.Customer, opts Options) (*Result, error) {
	encoders, err := features.FitEncoders(customers, features.CategoricalColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to fit encoders: %w", err)
	}

	matrix, err := features.Build(customers, encoders, features.Columns)
	if err != nil {
		return nil, fmt.Errorf("failed to build feature matrix: %w", err)
	}

	split, err := StratifiedSplit(matrix.Labels, opts.TestFraction, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to split dataset: %w", err)
	}
	train, test := matrix.Subset(split.Train), matrix.Subset(split.Test)
	logger.Debug("Split %d rows into %d train / %d test", matrix.Len(), train.Len(), test.Len())

	model, err := forest.Fit(ctx, train.Rows, train.Labels, opts.Forest)
	if err != nil {
		return nil, fmt.Errorf("failed to train model: %w", err)
	}
	logger.Debug("Fitted %d trees on %d features", model.Size(), model.Features())

	r := &Result{
		Encoders:      encoders,
		Features:      matrix.Columns,
		Split:         split,
		Actual:        test.Labels,
		Probabilities: make([]float64, test.Len()),
		Predictions:   make([]bool, test.Len()),
		Model:         model,
	}
	for i, row := range test.Rows {
		r.Probabilities[i] = model.PredictProba(row)
		r.Predictions[i] = model.Predict(row)
	}

	auc, err := ROCAUC(r.Actual, r.Probabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to score model: %w", err)
	}
	r.Confusion = models.NewConfusionMatrix(r.Actual, r.Predictions)
	r.Metrics = models.NewMetrics(r.Confusion, auc)
	if err := r.Metrics.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metrics: %w", err)
	}

	r.Importances = RankImportances(matrix.Columns, model.Importances())
	return r, nil
}

// ROCAUC returns the area under the ROC curve of scores against labels. Tied scores
// are handled as a single cutoff, so ties contribute half credit.
func ROCAUC(labels []bool, scores []float64) (float64, error) {
	if len(labels) != len(scores) {
		return 0, fmt.Errorf("got %d labels but %d scores", len(labels), len(scores))
	}
	positives := lo.Count(labels, true)
	if positives == 0 || positives == len(labels) {
		return 0, fmt.Errorf("%w: cannot compute AUC", ErrSingleClass)
	}

	y := append([]float64(nil), scores...)
	classes := append([]bool(nil), labels...)
	stat.SortWeightedLabeled(y, classes, nil)

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}

// RankImportances pairs scores with feature names, highest first (ties by name)
func RankImportances(names []string, scores []float64) []models.FeatureImportance {
	ranked := lo.Map(names, func(name string, i int) models.FeatureImportance {
		return models.FeatureImportance{Feature: name, Score: scores[i]}
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Feature < ranked[j].Feature
	})
	return ranked
}
