package tree

import (
	"math"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"
)

// nodes smaller than this are searched on the calling goroutine
const parallelThreshold = 256

type builder struct {
	X         [][]float64
	y         []int
	nClasses  int
	nFeatures int
	total     float64
	minSplit  int
	minLeaf   int
	maxDepth  int
	impurity  func(counts []int, n int) float64
	rnd       *rand.Rand
	workers   int

	importances []float64
}

type split struct {
	valid     bool
	feature   int
	threshold float64
	nanLeft   bool
	gain      float64
	impLeft   float64
	impRight  float64
}

type pair struct {
	v     float64
	label int
}

func (b *builder) build(idx []int, depth int) *node {
	counts := classCounts(b.y, idx, b.nClasses)
	nd := &node{samples: len(idx), counts: counts}

	imp := b.impurity(counts, len(idx))
	if imp <= 1e-12 ||
		len(idx) < b.minSplit ||
		len(idx) < 2*b.minLeaf ||
		(b.maxDepth > 0 && depth >= b.maxDepth) {
		nd.leaf = true
		return nd
	}

	best := b.bestSplit(idx, imp)
	if !best.valid {
		nd.leaf = true
		return nd
	}

	left, right := b.partition(idx, best)
	n := float64(len(idx))
	b.importances[best.feature] += (n*imp - float64(len(left))*best.impLeft - float64(len(right))*best.impRight) / b.total

	nd.feature = best.feature
	nd.threshold = best.threshold
	nd.nanLeft = best.nanLeft
	nd.left = b.build(left, depth+1)
	nd.right = b.build(right, depth+1)
	return nd
}

// bestSplit scans every feature in a seeded random order. Results are reduced
// in that order and only a strictly better gain replaces the incumbent, so the
// outcome does not depend on goroutine scheduling.
func (b *builder) bestSplit(idx []int, parentImp float64) split {
	order := b.rnd.Perm(b.nFeatures)
	results := make([]split, len(order))

	if len(idx) >= parallelThreshold && b.workers > 1 {
		var g errgroup.Group
		g.SetLimit(b.workers)
		for k, f := range order {
			k, f := k, f
			g.Go(func() error {
				results[k] = b.scanFeature(idx, f, parentImp)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for k, f := range order {
			results[k] = b.scanFeature(idx, f, parentImp)
		}
	}

	best := split{}
	for _, r := range results {
		if r.valid && r.gain > best.gain {
			best = r
		}
	}
	return best
}

func (b *builder) scanFeature(idx []int, f int, parentImp float64) split {
	result := split{feature: f}

	pairs := make([]pair, 0, len(idx))
	nanCounts := make([]int, b.nClasses)
	nNaN := 0
	for _, i := range idx {
		v := b.X[i][f]
		if math.IsNaN(v) {
			nanCounts[b.y[i]]++
			nNaN++
			continue
		}
		pairs = append(pairs, pair{v: v, label: b.y[i]})
	}
	if len(pairs) < 2 {
		return result
	}
	sort.Slice(pairs, func(a, c int) bool { return pairs[a].v < pairs[c].v })

	left := make([]int, b.nClasses)
	right := make([]int, b.nClasses)
	for _, p := range pairs {
		right[p.label]++
	}
	lbuf := make([]int, b.nClasses)
	rbuf := make([]int, b.nClasses)
	total := float64(len(idx))

	for s := 1; s < len(pairs); s++ {
		prev := pairs[s-1]
		left[prev.label]++
		right[prev.label]--
		if pairs[s].v == prev.v {
			continue
		}

		threshold := (prev.v + pairs[s].v) / 2
		if threshold == pairs[s].v {
			threshold = prev.v
		}

		nl, nr := s, len(pairs)-s
		options := []bool{true, false}
		if nNaN == 0 {
			options = []bool{nl >= nr}
		}

		for _, nanLeft := range options {
			nLeft, nRight := nl, nr
			copy(lbuf, left)
			copy(rbuf, right)
			if nanLeft {
				addCounts(lbuf, nanCounts)
				nLeft += nNaN
			} else {
				addCounts(rbuf, nanCounts)
				nRight += nNaN
			}
			if nLeft < b.minLeaf || nRight < b.minLeaf {
				continue
			}

			impL := b.impurity(lbuf, nLeft)
			impR := b.impurity(rbuf, nRight)
			gain := parentImp - (float64(nLeft)/total)*impL - (float64(nRight)/total)*impR
			if gain > result.gain {
				result = split{
					valid:     true,
					feature:   f,
					threshold: threshold,
					nanLeft:   nanLeft,
					gain:      gain,
					impLeft:   impL,
					impRight:  impR,
				}
			}
		}
	}
	return result
}

func (b *builder) partition(idx []int, s split) (left, right []int) {
	left = make([]int, 0, len(idx))
	right = make([]int, 0, len(idx))
	for _, i := range idx {
		v := b.X[i][s.feature]
		goLeft := v <= s.threshold
		if math.IsNaN(v) {
			goLeft = s.nanLeft
		}
		if goLeft {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}

func classCounts(y []int, idx []int, nClasses int) []int {
	counts := make([]int, nClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

func addCounts(dst, src []int) {
	for i := range dst {
		dst[i] += src[i]
	}
}

func impurityFunc(c Criterion) func([]int, int) float64 {
	if c == Entropy {
		return entropy
	}
	return gini
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	res := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		res -= p * p
	}
	return res
}

func entropy(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		res -= p * math.Log2(p)
	}
	return res
}

// argmax returns the first index of the largest count
func argmax(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}
