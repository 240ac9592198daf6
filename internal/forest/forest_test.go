package forest

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// separable returns rows whose label is x0 > 0.5, with a noise column
func separable(n int, seed int64) ([][]float64, []bool) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]bool, n)
	for i := range x {
		v := rng.Float64()
		x[i] = []float64{v, rng.Float64(), 3}
		y[i] = v > 0.5
	}
	return x, y
}

func TestFitSeparable(t *testing.T) {
	rq := require.New(t)

	x, y := separable(200, 1)
	cfg := DefaultConfig()
	cfg.Trees = 25

	f, err := Fit(context.Background(), x, y, cfg)
	rq.NoError(err)
	rq.Equal(25, f.Size())
	rq.Equal(3, f.Features())

	rq.True(f.Predict([]float64{0.95, 0.5, 3}))
	rq.False(f.Predict([]float64{0.05, 0.5, 3}))
	rq.Greater(f.PredictProba([]float64{0.9, 0.1, 3}), 0.7)
	rq.Less(f.PredictProba([]float64{0.1, 0.9, 3}), 0.3)

	imp := f.Importances()
	rq.Greater(imp[0], imp[1], "the informative column must dominate")
	rq.Zero(imp[2], "a constant column never splits")
}

func TestImportancesSumToOne(t *testing.T) {
	rq := require.New(t)

	x, y := separable(150, 2)
	cfg := DefaultConfig()
	cfg.Trees = 10

	f, err := Fit(context.Background(), x, y, cfg)
	rq.NoError(err)

	var sum float64
	for _, v := range f.Importances() {
		rq.GreaterOrEqual(v, 0.0)
		sum += v
	}
	rq.InDelta(1.0, sum, 1e-9)
}

func TestFitIsIndependentOfWorkers(t *testing.T) {
	rq := require.New(t)

	x, y := separable(120, 3)
	cfg := DefaultConfig()
	cfg.Trees = 16

	cfg.Workers = 1
	serial, err := Fit(context.Background(), x, y, cfg)
	rq.NoError(err)

	cfg.Workers = 8
	parallel, err := Fit(context.Background(), x, y, cfg)
	rq.NoError(err)

	rq.Equal(serial.Importances(), parallel.Importances())
	for _, row := range x {
		rq.Equal(serial.PredictProba(row), parallel.PredictProba(row))
	}
}

func TestFitSeedChangesForest(t *testing.T) {
	x, y := separable(120, 4)
	cfg := DefaultConfig()
	cfg.Trees = 5

	a, err := Fit(context.Background(), x, y, cfg)
	require.NoError(t, err)

	cfg.Seed = 7
	b, err := Fit(context.Background(), x, y, cfg)
	require.NoError(t, err)

	require.NotEqual(t, a.Importances(), b.Importances())
}

func TestFitErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Fit(ctx, nil, nil, DefaultConfig())
	require.ErrorIs(t, err, ErrEmptyTrainingSet)

	_, err = Fit(ctx, [][]float64{{1}, {2}}, []bool{true}, DefaultConfig())
	require.Error(t, err)

	_, err = Fit(ctx, [][]float64{{1, 2}, {2}}, []bool{true, false}, DefaultConfig())
	require.Error(t, err)

	cfg := DefaultConfig()
	cfg.Trees = 0
	_, err = Fit(ctx, [][]float64{{1}, {2}}, []bool{true, false}, cfg)
	require.Error(t, err)
}

func TestFitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	x, y := separable(50, 5)
	cfg := DefaultConfig()
	cfg.Workers = 1
	_, err := Fit(ctx, x, y, cfg)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClassWeights(t *testing.T) {
	neg, pos := ClassWeights([]bool{true, false, false, false})
	require.InDelta(t, 4.0/6.0, neg, 1e-12)
	require.InDelta(t, 2.0, pos, 1e-12)

	// weighted class totals are equal
	require.InDelta(t, 3*neg, 1*pos, 1e-12)

	neg, pos = ClassWeights([]bool{false, false})
	require.Equal(t, 0.5, neg)
	require.Zero(t, pos)
}

func TestSingleClassIsOneLeaf(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}}
	y := []bool{false, false, false}

	f, err := Fit(context.Background(), x, y, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 0.0, f.PredictProba([]float64{2}))
	require.Equal(t, []float64{0}, f.Importances())
}

func TestTreeThresholdsAreMidpoints(t *testing.T) {
	x := [][]float64{{1}, {2}, {4}, {8}}
	y := []bool{false, false, true, true}
	w := []float64{1, 1, 1, 1}

	tr := growTree(x, y, w, []int{0, 1, 2, 3}, treeParams{minSamplesLeaf: 1, maxFeatures: 1}, rand.New(rand.NewSource(1)))
	require.Len(t, tr.nodes, 3)
	require.Equal(t, 3.0, tr.nodes[0].threshold)
	require.Equal(t, 0.0, tr.predict([]float64{3}))
	require.Equal(t, 1.0, tr.predict([]float64{3.5}))
}

func TestTreeMaxDepth(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}}
	y := []bool{false, true, false, true}
	w := []float64{1, 1, 1, 1}

	tr := growTree(x, y, w, []int{0, 1, 2, 3}, treeParams{maxDepth: 1, minSamplesLeaf: 1, maxFeatures: 1}, rand.New(rand.NewSource(1)))
	require.Len(t, tr.nodes, 3)
}
