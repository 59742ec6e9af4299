package selection

import (
	"fmt"

	"careerpath/internal"
	"careerpath/internal/encoding"
	"careerpath/internal/tree"
)

const (
	DefaultFeatureCount = 30
	DefaultTestRatio    = 0.2
	DefaultSeed         = 42
)

// Config holds the fixed training hyperparameters
type Config struct {
	FeatureCount    int
	TestRatio       float64
	Seed            int64
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Criterion       tree.Criterion
}

// DefaultConfig returns N=30, a 0.2 test ratio and seed 42
func DefaultConfig() Config {
	return Config{
		FeatureCount:    DefaultFeatureCount,
		TestRatio:       DefaultTestRatio,
		Seed:            DefaultSeed,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       tree.Gini,
	}
}

// Model is the trained artifact: the final tree over the selected features
type Model struct {
	Features    []string  // FeatureSet, importance descending
	Importances []float64 // final tree importances aligned with Features
	Baseline    []Ranked  // baseline ranking of every candidate column
	Tree        *tree.Classifier
	Accuracy    float64 // on the held-out partition
	TrainRows   int
	TestRows    int
	Clamped     bool
}

// Trainer selects the FeatureSet and fits the final model
type Trainer struct {
	config Config
	logger *internal.Logger
}

func NewTrainer(config Config, logger *internal.Logger) *Trainer {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Trainer{config: config, logger: logger}
}

func (t *Trainer) Config() Config { return t.config }

func (t *Trainer) classifier() *tree.Classifier {
	return tree.NewClassifier(
		tree.WithSeed(t.config.Seed),
		tree.WithMaxDepth(t.config.MaxDepth),
		tree.WithMinSamplesSplit(t.config.MinSamplesSplit),
		tree.WithMinSamplesLeaf(t.config.MinSamplesLeaf),
		tree.WithCriterion(t.config.Criterion),
	)
}

// Train runs baseline ranking, pad-to-width selection, the seeded split and
// the final fit. nClasses is the size of the target encoder.
func (t *Trainer) Train(m *encoding.Matrix, nClasses int) (*Model, error) {
	t.logger.Info("[Trainer] Fitting baseline tree on %d rows x %d columns", len(m.X), len(m.Columns))

	baseline := t.classifier()
	if err := baseline.Fit(m.X, m.Y, nClasses); err != nil {
		return nil, fmt.Errorf("baseline fit: %w", err)
	}

	ranked, err := Rank(m.Columns, baseline.FeatureImportances())
	if err != nil {
		return nil, err
	}

	width, clamped := ClampWidth(t.config.FeatureCount, len(ranked))
	if clamped {
		t.logger.Warn("[Trainer] Requested %d features but only %d columns are available, clamping",
			t.config.FeatureCount, len(ranked))
	}
	selected := PadToWidth(ranked, width)

	features := make([]string, len(selected))
	positions := make([]int, len(selected))
	for i, r := range selected {
		features[i] = r.Column
		positions[i] = r.Position
		if r.Importance == 0 {
			t.logger.Debug("[Trainer] Padding with zero-importance column %s", r.Column)
		}
	}

	reduced := project(m.X, positions)
	trainIdx, testIdx, err := Split(len(reduced), t.config.TestRatio, t.config.Seed)
	if err != nil {
		return nil, err
	}

	final := t.classifier()
	if err := final.Fit(rows(reduced, trainIdx), labels(m.Y, trainIdx), nClasses); err != nil {
		return nil, fmt.Errorf("final fit: %w", err)
	}

	accuracy, err := Accuracy(final, rows(reduced, testIdx), labels(m.Y, testIdx))
	if err != nil {
		return nil, err
	}

	t.logger.Info("[Trainer] Selected %d features, test accuracy %.3f (%d train / %d test rows)",
		len(features), accuracy, len(trainIdx), len(testIdx))

	return &Model{
		Features:    features,
		Importances: final.FeatureImportances(),
		Baseline:    ranked,
		Tree:        final,
		Accuracy:    accuracy,
		TrainRows:   len(trainIdx),
		TestRows:    len(testIdx),
		Clamped:     clamped,
	}, nil
}

// Accuracy is the share of rows whose prediction matches y
func Accuracy(clf *tree.Classifier, X [][]float64, y []int) (float64, error) {
	if len(X) == 0 {
		return 0, nil
	}
	hits := 0
	for i, row := range X {
		got, err := clf.Predict(row)
		if err != nil {
			return 0, err
		}
		if got == y[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(X)), nil
}
