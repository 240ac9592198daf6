// Package forest implements a class-weighted random forest of CART trees for binary
// classification.
//
// Each tree is grown on a bootstrap sample with Gini impurity and a random subset of
// sqrt(features) candidates per split. Trees are fitted concurrently; every tree's seed
// is drawn from the master seed before fitting starts, so the result does not depend
// on the number of workers.
package forest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrEmptyTrainingSet is returned when Fit is called without samples or features
var ErrEmptyTrainingSet = errors.New("empty training set")

// Config controls forest growth
type Config struct {
	Trees          int
	Seed           int64
	MaxDepth       int // 0 grows trees until leaves are pure
	MinSamplesLeaf int
	MaxFeatures    int // 0 means sqrt(features)
	BalanceClasses bool
	Workers        int // 0 means one per CPU
}

// DefaultConfig mirrors the settings the churn model is trained with
func DefaultConfig() Config {
	return Config{
		Trees:          100,
		Seed:           42,
		MinSamplesLeaf: 1,
		BalanceClasses: true,
	}
}

// Forest is a fitted ensemble
type Forest struct {
	trees       []*tree
	nFeatures   int
	importances []float64
}

// ClassWeights returns the balanced weights n/(2*n_c) for the negative and positive
// class. A class with no samples gets weight 0.
func ClassWeights(y []bool) (negative, positive float64) {
	n := float64(len(y))
	var nPos float64
	for _, v := range y {
		if v {
			nPos++
		}
	}
	nNeg := n - nPos
	if nNeg > 0 {
		negative = n / (2 * nNeg)
	}
	if nPos > 0 {
		positive = n / (2 * nPos)
	}
	return negative, positive
}

// Fit grows the forest on rows x with labels y
func Fit(ctx context.Context, x [][]float64, y []bool, cfg Config) (*Forest, error) {
	if len(x) == 0 || len(x[0]) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("got %d rows but %d labels", len(x), len(y))
	}
	nFeatures := len(x[0])
	for i, row := range x {
		if len(row) != nFeatures {
			return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(row), nFeatures)
		}
	}
	if cfg.Trees <= 0 {
		return nil, fmt.Errorf("tree count must be positive, got %d", cfg.Trees)
	}

	params := treeParams{
		maxDepth:       cfg.MaxDepth,
		minSamplesLeaf: max(cfg.MinSamplesLeaf, 1),
		maxFeatures:    cfg.MaxFeatures,
	}
	if params.maxFeatures <= 0 {
		params.maxFeatures = max(int(math.Sqrt(float64(nFeatures))), 1)
	}
	params.maxFeatures = min(params.maxFeatures, nFeatures)

	classWeight := [2]float64{1, 1}
	if cfg.BalanceClasses {
		classWeight[0], classWeight[1] = ClassWeights(y)
	}

	master := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible model, not security
	seeds := make([]int64, cfg.Trees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	f := &Forest{trees: make([]*tree, cfg.Trees), nFeatures: nFeatures}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range f.trees {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seeds[i])) //nolint:gosec // per-tree stream
			weights, samples := bootstrap(y, classWeight, rng)
			f.trees[i] = growTree(x, y, weights, samples, params, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fit forest: %w", err)
	}

	f.importances = averageImportances(f.trees, nFeatures)
	return f, nil
}

// bootstrap draws len(y) samples with replacement. The returned weights are the class
// weight times the draw count; samples lists the distinct drawn indices.
func bootstrap(y []bool, classWeight [2]float64, rng *rand.Rand) ([]float64, []int) {
	n := len(y)
	counts := make([]int, n)
	for range n {
		counts[rng.Intn(n)]++
	}

	weights := make([]float64, n)
	samples := make([]int, 0, n)
	for i, c := range counts {
		if c == 0 {
			continue
		}
		cw := classWeight[0]
		if y[i] {
			cw = classWeight[1]
		}
		weights[i] = cw * float64(c)
		samples = append(samples, i)
	}
	return weights, samples
}

// averageImportances normalizes each tree's impurity decreases, averages them over
// trees that split at least once, and renormalizes to sum 1.
func averageImportances(trees []*tree, nFeatures int) []float64 {
	out := make([]float64, nFeatures)
	used := 0
	for _, t := range trees {
		if len(t.nodes) <= 1 {
			continue
		}
		var sum float64
		for _, v := range t.importances {
			sum += v
		}
		if sum <= 0 {
			continue
		}
		for j, v := range t.importances {
			out[j] += v / sum
		}
		used++
	}
	if used == 0 {
		return out
	}

	var sum float64
	for j := range out {
		out[j] /= float64(used)
		sum += out[j]
	}
	if sum > 0 {
		for j := range out {
			out[j] /= sum
		}
	}
	return out
}

// PredictProba returns the mean positive share over all trees
func (f *Forest) PredictProba(row []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(row)
	}
	return sum / float64(len(f.trees))
}

// Predict reports whether the row is classified positive (probability above 0.5)
func (f *Forest) Predict(row []float64) bool {
	return f.PredictProba(row) > 0.5
}

// Importances returns the normalized mean decrease in impurity per feature, in
// column order. The slice is a copy.
func (f *Forest) Importances() []float64 {
	return append([]float64(nil), f.importances...)
}

// Features returns the number of columns the forest was fitted on
func (f *Forest) Features() int {
	return f.nFeatures
}

// Size returns the number of trees
func (f *Forest) Size() int {
	return len(f.trees)
}
