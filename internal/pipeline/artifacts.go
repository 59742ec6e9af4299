package pipeline

import (
	"fmt"
	"strconv"
	"time"

	"careerpath/domain/core"
	"careerpath/domain/dataset"
	"careerpath/internal"
	"careerpath/internal/encoding"
	"careerpath/internal/normalize"
	"careerpath/internal/predict"
	"careerpath/internal/selection"
)

// Artifacts is everything one dataset load produces. It is never mutated
// after Build returns.
type Artifacts struct {
	Dataset    *dataset.Dataset
	Vocabulary *encoding.Vocabulary
	Registry   *encoding.Registry
	Model      *selection.Model
	Normalizer *normalize.Normalizer
	Predictor  *predict.Predictor
	Version    core.ModelVersion
	BuiltAt    time.Time
}

// Build runs vocabulary, encoders, selection and training in that order
func Build(ds *dataset.Dataset, cfg selection.Config, logger *internal.Logger) (*Artifacts, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	start := time.Now()

	vocab := encoding.BuildVocabulary(ds)
	logger.Debug("[Pipeline] Vocabulary covers %d categorical columns", len(vocab.Columns()))

	registry, err := encoding.NewRegistry(ds, vocab)
	if err != nil {
		return nil, fmt.Errorf("build encoders: %w", err)
	}

	matrix, err := registry.Matrix(ds)
	if err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}

	model, err := selection.NewTrainer(cfg, logger).Train(matrix, len(registry.TargetClasses()))
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	predictor, err := predict.New(model.Tree, model.Features, model.Importances, registry)
	if err != nil {
		return nil, err
	}

	a := &Artifacts{
		Dataset:    ds,
		Vocabulary: vocab,
		Registry:   registry,
		Model:      model,
		Normalizer: normalize.New(model.Features, registry),
		Predictor:  predictor,
		Version:    core.ComputeModelVersion(model.Features, strconv.FormatInt(cfg.Seed, 10)),
		BuiltAt:    time.Now(),
	}
	logger.Info("[Pipeline] Model %s ready in %v: %d features, %d classes, accuracy %.3f",
		a.Version.Short(), time.Since(start).Round(time.Millisecond),
		len(model.Features), len(registry.TargetClasses()), model.Accuracy)
	return a, nil
}

// Features returns the FeatureSet in model input order
func (a *Artifacts) Features() []string {
	return a.Normalizer.Features()
}
