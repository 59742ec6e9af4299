package tree

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"careerpath/domain/core"

	"gonum.org/v1/gonum/floats"
)

// Criterion selects the impurity measure
type Criterion string

const (
	Gini    Criterion = "gini"
	Entropy Criterion = "entropy"
)

// Classifier is a CART decision tree over dense float features and integer
// class ordinals in [0, nClasses). Missing values are NaN. Fitting is
// deterministic for a given Seed.
type Classifier struct {
	MaxDepth        int // 0 => unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	Criterion       Criterion
	Seed            int64
	Workers         int // parallel split search fan-out, 0 => GOMAXPROCS

	root        *node
	nFeatures   int
	nClasses    int
	importances []float64
}

type node struct {
	leaf      bool
	feature   int
	threshold float64 // x <= threshold goes left
	nanLeft   bool
	left      *node
	right     *node

	samples int
	counts  []int
}

// Option configures a Classifier
type Option func(*Classifier)

func WithMaxDepth(d int) Option         { return func(c *Classifier) { c.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option  { return func(c *Classifier) { c.MinSamplesSplit = n } }
func WithMinSamplesLeaf(n int) Option   { return func(c *Classifier) { c.MinSamplesLeaf = n } }
func WithCriterion(cr Criterion) Option { return func(c *Classifier) { c.Criterion = cr } }
func WithSeed(seed int64) Option        { return func(c *Classifier) { c.Seed = seed } }
func WithWorkers(n int) Option          { return func(c *Classifier) { c.Workers = n } }

// NewClassifier returns a classifier with sklearn-like defaults
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       Gini,
		Seed:            42,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fit trains on X (n x p) and y. nClasses is the size of the label space;
// labels must lie in [0, nClasses).
func (c *Classifier) Fit(X [][]float64, y []int, nClasses int) error {
	n := len(X)
	if n == 0 {
		return fmt.Errorf("%w: empty training matrix", core.ErrInsufficientData)
	}
	if len(y) != n {
		return fmt.Errorf("tree: X has %d rows but y has %d labels", n, len(y))
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return fmt.Errorf("tree: row %d has %d features, expected %d", i, len(X[i]), p)
		}
	}
	if nClasses < 1 {
		return fmt.Errorf("tree: nClasses must be positive")
	}
	for i, label := range y {
		if label < 0 || label >= nClasses {
			return fmt.Errorf("tree: label %d at row %d outside [0, %d)", label, i, nClasses)
		}
	}

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	b := &builder{
		X:           X,
		y:           y,
		nClasses:    nClasses,
		nFeatures:   p,
		total:       float64(n),
		minSplit:    max(c.MinSamplesSplit, 2),
		minLeaf:     max(c.MinSamplesLeaf, 1),
		maxDepth:    c.MaxDepth,
		impurity:    impurityFunc(c.Criterion),
		rnd:         rand.New(rand.NewSource(c.Seed)),
		workers:     workers,
		importances: make([]float64, p),
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	c.root = b.build(idx, 0)
	c.nFeatures = p
	c.nClasses = nClasses
	c.importances = normalize(b.importances)
	return nil
}

// normalize scales importances to sum to one; an all-zero vector (a single leaf) stays zero
func normalize(raw []float64) []float64 {
	out := make([]float64, len(raw))
	copy(out, raw)
	if sum := floats.Sum(out); sum > 0 {
		floats.Scale(1/sum, out)
	}
	return out
}

// Predict returns the majority class ordinal of the leaf x falls into
func (c *Classifier) Predict(x []float64) (int, error) {
	leaf, err := c.leaf(x)
	if err != nil {
		return 0, err
	}
	return argmax(leaf.counts), nil
}

// PredictProba returns the class distribution of the leaf x falls into
func (c *Classifier) PredictProba(x []float64) ([]float64, error) {
	leaf, err := c.leaf(x)
	if err != nil {
		return nil, err
	}
	probs := make([]float64, len(leaf.counts))
	for i, cnt := range leaf.counts {
		probs[i] = float64(cnt) / float64(leaf.samples)
	}
	return probs, nil
}

func (c *Classifier) leaf(x []float64) (*node, error) {
	if c.root == nil {
		return nil, core.ErrNotTrained
	}
	if len(x) != c.nFeatures {
		return nil, fmt.Errorf("tree: row has %d features, model expects %d", len(x), c.nFeatures)
	}
	nd := c.root
	for !nd.leaf {
		v := x[nd.feature]
		switch {
		case math.IsNaN(v):
			if nd.nanLeft {
				nd = nd.left
			} else {
				nd = nd.right
			}
		case v <= nd.threshold:
			nd = nd.left
		default:
			nd = nd.right
		}
	}
	return nd, nil
}

// FeatureImportances returns the normalized total impurity decrease per feature
func (c *Classifier) FeatureImportances() []float64 {
	out := make([]float64, len(c.importances))
	copy(out, c.importances)
	return out
}

func (c *Classifier) NumFeatures() int { return c.nFeatures }

func (c *Classifier) NumClasses() int { return c.nClasses }

func (c *Classifier) Trained() bool { return c.root != nil }

// Depth is the length of the longest root-to-leaf path
func (c *Classifier) Depth() int { return depth(c.root) }

// Leaves counts terminal nodes
func (c *Classifier) Leaves() int { return leaves(c.root) }

func depth(n *node) int {
	if n == nil || n.leaf {
		return 0
	}
	return 1 + max(depth(n.left), depth(n.right))
}

func leaves(n *node) int {
	if n == nil {
		return 0
	}
	if n.leaf {
		return 1
	}
	return leaves(n.left) + leaves(n.right)
}
