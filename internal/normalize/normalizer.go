package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"careerpath/domain/core"
	"careerpath/internal/encoding"
)

// DefaultOrdinal substitutes any categorical value the model cannot encode
const DefaultOrdinal = 0

// UserResponse maps feature name to the subject's answer
type UserResponse map[string]Answer

// EncodedRow is aligned with the FeatureSet order of the Normalizer that built it
type EncodedRow []float64

// Notice reports an answer that was replaced by DefaultOrdinal
type Notice struct {
	Feature string `json:"feature"`
	Value   string `json:"value"`
}

func (n Notice) String() string {
	return fmt.Sprintf("unseen value %q for %s was mapped to default", n.Value, n.Feature)
}

// IncompleteInputError lists the FeatureSet columns without an answer
type IncompleteInputError struct {
	Missing []string
}

func (e *IncompleteInputError) Error() string {
	return fmt.Sprintf("%s: please answer all questions before predicting (missing: %s)",
		core.ErrIncompleteInput, strings.Join(e.Missing, ", "))
}

func (e *IncompleteInputError) Unwrap() error { return core.ErrIncompleteInput }

// Normalizer turns a UserResponse into the EncodedRow the model expects
type Normalizer struct {
	features []string
	registry *encoding.Registry
}

func New(features []string, registry *encoding.Registry) *Normalizer {
	fs := make([]string, len(features))
	copy(fs, features)
	return &Normalizer{features: fs, registry: registry}
}

func (n *Normalizer) Features() []string {
	out := make([]string, len(n.features))
	copy(out, n.features)
	return out
}

// Missing returns the FeatureSet columns resp has no answer for, in FeatureSet order
func (n *Normalizer) Missing(resp UserResponse) []string {
	var missing []string
	for _, f := range n.features {
		if a, ok := resp[f]; !ok || a == nil {
			missing = append(missing, f)
		}
	}
	return missing
}

// Normalize encodes resp in FeatureSet order. Answers for columns outside the
// FeatureSet are ignored. Unseen categorical values become DefaultOrdinal with
// one Notice each; they never fail the call.
func (n *Normalizer) Normalize(resp UserResponse) (EncodedRow, []Notice, error) {
	if missing := n.Missing(resp); len(missing) > 0 {
		return nil, nil, &IncompleteInputError{Missing: missing}
	}

	row := make(EncodedRow, len(n.features))
	var notices []Notice
	for i, f := range n.features {
		v, notice, err := n.encode(f, resp[f])
		if err != nil {
			return nil, nil, err
		}
		if notice != nil {
			notices = append(notices, *notice)
		}
		row[i] = v
	}
	return row, notices, nil
}

func (n *Normalizer) encode(feature string, a Answer) (float64, *Notice, error) {
	switch v := a.(type) {
	case NumericAnswer:
		if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
			return 0, nil, core.NewInvalidAnswerError(feature, "number must be finite")
		}
		return v.Value, nil, nil

	case LevelAnswer:
		value, ok := LevelValue(v.Token)
		if !ok {
			return 0, nil, core.NewInvalidAnswerError(feature, fmt.Sprintf("unknown level %q", v.Token))
		}
		return value, nil, nil

	case CategoricalAnswer:
		if !n.registry.HasEncoder(feature) {
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
			if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return f, nil, nil
			}
			return DefaultOrdinal, &Notice{Feature: feature, Value: v.Value}, nil
		}
		ordinal, err := n.registry.Encode(feature, v.Value)
		if errors.Is(err, core.ErrUnseenValue) {
			return DefaultOrdinal, &Notice{Feature: feature, Value: v.Value}, nil
		}
		if err != nil {
			return 0, nil, err
		}
		return float64(ordinal), nil, nil

	default:
		return 0, nil, core.NewInvalidAnswerError(feature, fmt.Sprintf("unsupported answer type %T", a))
	}
}
