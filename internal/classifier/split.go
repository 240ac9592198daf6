package classifier

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

var (
	// ErrSingleClass is returned when the labels contain only one class
	ErrSingleClass = errors.New("labels contain a single class")
	// ErrDegenerateSplit is returned when a class would be missing from the train or test partition
	ErrDegenerateSplit = errors.New("degenerate stratified split")
)

// Split holds row indices of the train and test partitions, each ascending
type Split struct {
	Train []int
	Test  []int
}

// StratifiedSplit partitions rows so that each class appears in the test partition in
// proportion to its share of the whole. The test partition has ceil(fraction*n) rows.
// Rows within each class are shuffled with seed before allocation.
func StratifiedSplit(labels []bool, fraction float64, seed int64) (Split, error) {
	if fraction <= 0 || fraction >= 1 {
		return Split{}, fmt.Errorf("test fraction must be in (0, 1), got %v", fraction)
	}

	var pos, neg []int
	for i, churned := range labels {
		if churned {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	if len(pos) == 0 || len(neg) == 0 {
		return Split{}, fmt.Errorf("%w: %d positive, %d negative", ErrSingleClass, len(pos), len(neg))
	}

	n := len(labels)
	nTest := int(math.Ceil(fraction*float64(n) - 1e-9))
	nTestPos := int(math.Round(float64(nTest) * float64(len(pos)) / float64(n)))
	nTestNeg := nTest - nTestPos

	if nTestPos <= 0 || nTestPos >= len(pos) || nTestNeg <= 0 || nTestNeg >= len(neg) {
		return Split{}, fmt.Errorf("%w: %d of %d positive and %d of %d negative rows in test",
			ErrDegenerateSplit, nTestPos, len(pos), nTestNeg, len(neg))
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible split
	rng.Shuffle(len(pos), func(i, j int) { pos[i], pos[j] = pos[j], pos[i] })
	rng.Shuffle(len(neg), func(i, j int) { neg[i], neg[j] = neg[j], neg[i] })

	s := Split{
		Test:  append(append(make([]int, 0, nTest), pos[:nTestPos]...), neg[:nTestNeg]...),
		Train: append(append(make([]int, 0, n-nTest), pos[nTestPos:]...), neg[nTestNeg:]...),
	}
	sort.Ints(s.Test)
	sort.Ints(s.Train)
	return s, nil
}
