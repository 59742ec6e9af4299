package predict

import (
	"fmt"
	"sort"

	"careerpath/domain/core"
	"careerpath/internal/encoding"
	"careerpath/internal/normalize"
	"careerpath/internal/tree"
)

// FeatureImportance pairs a FeatureSet column with its model importance
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// ModelInvocationError carries the row that failed to score
type ModelInvocationError struct {
	Row   normalize.EncodedRow
	Cause error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("%s for row %v: %v", core.ErrModelInvocation, []float64(e.Row), e.Cause)
}

func (e *ModelInvocationError) Unwrap() []error {
	return []error{core.ErrModelInvocation, e.Cause}
}

// Predictor scores EncodedRows and decodes the career label. It only reads
// its inputs and is safe for concurrent use.
type Predictor struct {
	model       *tree.Classifier
	features    []string
	importances []float64
	registry    *encoding.Registry
}

func New(model *tree.Classifier, features []string, importances []float64, registry *encoding.Registry) (*Predictor, error) {
	if len(features) != len(importances) {
		return nil, fmt.Errorf("predict: %d features but %d importances", len(features), len(importances))
	}
	if model == nil || !model.Trained() {
		return nil, core.ErrNotTrained
	}
	if model.NumFeatures() != len(features) {
		return nil, fmt.Errorf("predict: model expects %d features, feature set has %d", model.NumFeatures(), len(features))
	}
	return &Predictor{
		model:       model,
		features:    append([]string(nil), features...),
		importances: append([]float64(nil), importances...),
		registry:    registry,
	}, nil
}

// Predict returns the career label for row
func (p *Predictor) Predict(row normalize.EncodedRow) (label string, err error) {
	defer func() {
		if r := recover(); r != nil {
			label, err = "", &ModelInvocationError{Row: row, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	if len(row) != len(p.features) {
		return "", &ModelInvocationError{
			Row:   row,
			Cause: fmt.Errorf("row has %d values, feature set has %d", len(row), len(p.features)),
		}
	}

	class, err := p.model.Predict(row)
	if err != nil {
		return "", &ModelInvocationError{Row: row, Cause: err}
	}
	label, err = p.registry.DecodeTarget(class)
	if err != nil {
		return "", &ModelInvocationError{Row: row, Cause: err}
	}
	return label, nil
}

// Probabilities returns the leaf class distribution keyed by career label
func (p *Predictor) Probabilities(row normalize.EncodedRow) (map[string]float64, error) {
	probs, err := p.model.PredictProba(row)
	if err != nil {
		return nil, &ModelInvocationError{Row: row, Cause: err}
	}
	out := make(map[string]float64, len(probs))
	for class, pr := range probs {
		if pr == 0 {
			continue
		}
		label, err := p.registry.DecodeTarget(class)
		if err != nil {
			return nil, &ModelInvocationError{Row: row, Cause: err}
		}
		out[label] = pr
	}
	return out, nil
}

// Importances returns the FeatureSet importances sorted descending.
// Ties keep FeatureSet order.
func (p *Predictor) Importances() []FeatureImportance {
	out := make([]FeatureImportance, len(p.features))
	for i, f := range p.features {
		out[i] = FeatureImportance{Feature: f, Importance: p.importances[i]}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Importance > out[b].Importance })
	return out
}

func (p *Predictor) Features() []string {
	return append([]string(nil), p.features...)
}
