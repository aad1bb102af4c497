package anomaly

import (
	"math"
	"math/rand"
)

const eulerGamma = 0.5772156649015329

// point is one observation in feature space.
type point []float64

// avgPathLength is c(n): the expected path length of an unsuccessful
// search in a binary search tree of n points. It normalizes isolation
// depths so scores are comparable across subsample sizes, and stands
// in for the depth of leaves that still hold several points.
func avgPathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	h := math.Log(float64(n-1)) + eulerGamma
	return 2*h - 2*float64(n-1)/float64(n)
}

// node is one split in an isolation tree. Leaves keep the sample
// count that ended there.
type node struct {
	splitDim   int
	splitValue float64
	left       *node
	right      *node
	size       int
}

func (n *node) leaf() bool {
	return n.left == nil
}

// buildTree splits points on random dimensions at random values until
// isolation or the depth limit.
func buildTree(points []point, depth, limit int, rng *rand.Rand) *node {
	if len(points) <= 1 || depth >= limit {
		return &node{size: len(points)}
	}

	// Constant dimensions cannot split.
	dims := splittableDims(points)
	if len(dims) == 0 {
		return &node{size: len(points)}
	}
	dim := dims[rng.Intn(len(dims))]

	lo, hi := dimRange(points, dim)
	split := lo + rng.Float64()*(hi-lo)

	var left, right []point
	for _, p := range points {
		if p[dim] < split {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &node{size: len(points)}
	}

	return &node{
		splitDim:   dim,
		splitValue: split,
		left:       buildTree(left, depth+1, limit, rng),
		right:      buildTree(right, depth+1, limit, rng),
	}
}

// splittableDims returns the dimensions with any spread across points.
func splittableDims(points []point) []int {
	var dims []int
	for d := range points[0] {
		lo, hi := dimRange(points, d)
		if hi > lo {
			dims = append(dims, d)
		}
	}
	return dims
}

// dimRange returns the min and max of dimension d across points.
func dimRange(points []point, d int) (float64, float64) {
	lo, hi := points[0][d], points[0][d]
	for _, p := range points[1:] {
		if p[d] < lo {
			lo = p[d]
		}
		if p[d] > hi {
			hi = p[d]
		}
	}
	return lo, hi
}

// pathLength returns the isolation depth of p in one tree, with the
// average-path adjustment at unsplit leaves.
func pathLength(n *node, p point) float64 {
	depth := 0.0
	for !n.leaf() {
		if p[n.splitDim] < n.splitValue {
			n = n.left
		} else {
			n = n.right
		}
		depth++
	}
	return depth + avgPathLength(n.size)
}

// forest is a trained isolation forest.
type forest struct {
	trees []*node
	norm  float64 // c(subsample)
}

// fitForest trains treeCount isolation trees, each over a subsample
// drawn without replacement.
func fitForest(points []point, treeCount, subsample int, rng *rand.Rand) *forest {
	if subsample > len(points) {
		subsample = len(points)
	}
	limit := int(math.Ceil(math.Log2(float64(subsample))))
	if limit < 1 {
		limit = 1
	}

	f := &forest{norm: avgPathLength(subsample)}
	for i := 0; i < treeCount; i++ {
		f.trees = append(f.trees, buildTree(samplePoints(points, subsample, rng), 0, limit, rng))
	}
	return f
}

// samplePoints draws n points without replacement.
func samplePoints(points []point, n int, rng *rand.Rand) []point {
	if n >= len(points) {
		return points
	}
	out := make([]point, n)
	for i, j := range rng.Perm(len(points))[:n] {
		out[i] = points[j]
	}
	return out
}

// score maps the mean isolation depth of p to (0, 1]. Higher means
// easier to isolate, which is what anomalous looks like here.
func (f *forest) score(p point) float64 {
	if len(f.trees) == 0 || f.norm == 0 {
		return 0
	}
	var sum float64
	for _, t := range f.trees {
		sum += pathLength(t, p)
	}
	mean := sum / float64(len(f.trees))
	return math.Pow(2, -mean/f.norm)
}
