package forest

import (
	"math/rand"
	"sort"
)

// node is one entry of a flattened decision tree. Leaves have feature == -1.
type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64 // weighted share of the positive class
}

type tree struct {
	nodes       []node
	importances []float64 // weighted impurity decrease per feature
}

// treeParams are the per-tree growth limits
type treeParams struct {
	maxDepth       int // 0 means unlimited
	minSamplesLeaf int
	maxFeatures    int
}

type grower struct {
	x       [][]float64
	y       []bool
	weights []float64
	params  treeParams
	rng     *rand.Rand
	t       *tree
}

// gini returns the weighted Gini impurity of a node with pos positive weight out of total
func gini(pos, total float64) float64 {
	if total <= 0 {
		return 0
	}
	p := pos / total
	return 2 * p * (1 - p)
}

func growTree(x [][]float64, y []bool, weights []float64, samples []int, params treeParams, rng *rand.Rand) *tree {
	g := &grower{
		x:       x,
		y:       y,
		weights: weights,
		params:  params,
		rng:     rng,
		t:       &tree{importances: make([]float64, len(x[0]))},
	}
	g.build(samples, 0)
	return g.t
}

func (g *grower) sums(samples []int) (pos, total float64) {
	for _, i := range samples {
		total += g.weights[i]
		if g.y[i] {
			pos += g.weights[i]
		}
	}
	return pos, total
}

// build appends the subtree for samples and returns its node index
func (g *grower) build(samples []int, depth int) int {
	pos, total := g.sums(samples)
	idx := len(g.t.nodes)
	leaf := node{feature: -1, left: -1, right: -1}
	if total > 0 {
		leaf.value = pos / total
	}
	g.t.nodes = append(g.t.nodes, leaf)

	if pos == 0 || pos == total {
		return idx
	}
	if g.params.maxDepth > 0 && depth >= g.params.maxDepth {
		return idx
	}
	if len(samples) < 2*g.params.minSamplesLeaf {
		return idx
	}

	s, ok := g.bestSplit(samples, pos, total)
	if !ok {
		return idx
	}

	var left, right []int
	for _, i := range samples {
		if g.x[i][s.feature] <= s.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	g.t.importances[s.feature] += max(s.decrease, 0)
	l := g.build(left, depth+1)
	r := g.build(right, depth+1)

	n := &g.t.nodes[idx]
	n.feature = s.feature
	n.threshold = s.threshold
	n.left = l
	n.right = r
	return idx
}

type split struct {
	feature   int
	threshold float64
	decrease  float64
}

// bestSplit scans candidate features in random order. Constant features do not count
// towards maxFeatures, so an informative feature is always tried if one exists.
func (g *grower) bestSplit(samples []int, pos, total float64) (split, bool) {
	nFeatures := len(g.x[0])
	order := g.rng.Perm(nFeatures)
	parent := total * gini(pos, total)

	best := split{feature: -1}
	found := false
	visited := 0

	sorted := make([]int, len(samples))
	for _, f := range order {
		if visited >= g.params.maxFeatures {
			break
		}

		copy(sorted, samples)
		sort.Slice(sorted, func(a, b int) bool { return g.x[sorted[a]][f] < g.x[sorted[b]][f] })
		if g.x[sorted[0]][f] == g.x[sorted[len(sorted)-1]][f] {
			continue
		}
		visited++

		var lPos, lTotal float64
		for k := 0; k < len(sorted)-1; k++ {
			i := sorted[k]
			lTotal += g.weights[i]
			if g.y[i] {
				lPos += g.weights[i]
			}

			cur, next := g.x[i][f], g.x[sorted[k+1]][f]
			if cur == next {
				continue
			}
			nLeft := k + 1
			if nLeft < g.params.minSamplesLeaf || len(sorted)-nLeft < g.params.minSamplesLeaf {
				continue
			}

			rPos, rTotal := pos-lPos, total-lTotal
			decrease := parent - lTotal*gini(lPos, lTotal) - rTotal*gini(rPos, rTotal)
			if !found || decrease > best.decrease {
				threshold := cur + (next-cur)/2
				if threshold >= next {
					threshold = cur
				}
				best = split{feature: f, threshold: threshold, decrease: decrease}
				found = true
			}
		}
	}
	return best, found
}

// predict walks the tree and returns the leaf's positive share
func (t *tree) predict(row []float64) float64 {
	i := 0
	for {
		n := &t.nodes[i]
		if n.feature < 0 {
			return n.value
		}
		if row[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}
