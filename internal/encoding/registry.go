package encoding

import (
	"fmt"

	"careerpath/domain/core"
	"careerpath/domain/dataset"
)

// Registry owns one LabelEncoder per categorical feature column plus the
// target encoder. It is fitted once per dataset load and is read-only after
// NewRegistry returns, so it may be shared across goroutines.
type Registry struct {
	target   string
	encoders map[string]*LabelEncoder
	targetLE *LabelEncoder
}

// NewRegistry fits the column encoders from vocab only, and the target
// encoder from the distinct target labels of ds.
func NewRegistry(ds *dataset.Dataset, vocab *Vocabulary) (*Registry, error) {
	if ds.NumRows() == 0 {
		return nil, fmt.Errorf("%w: dataset has no rows", core.ErrInsufficientData)
	}

	encoders := make(map[string]*LabelEncoder)
	for _, col := range ds.FeatureColumns() {
		if col.Kind != dataset.KindCategorical {
			continue
		}
		if !vocab.Has(col.Name) {
			return nil, fmt.Errorf("vocabulary has no entry for categorical column %s", col.Name)
		}
		encoders[col.Name] = FitLabelEncoder(vocab.Values(col.Name))
	}

	return &Registry{
		target:   ds.Target(),
		encoders: encoders,
		targetLE: FitLabelEncoder(ds.TargetValues()),
	}, nil
}

// Encode maps a categorical value of column to its ordinal. Values outside
// the column's vocabulary yield an error wrapping core.ErrUnseenValue; the
// caller decides the fallback.
func (r *Registry) Encode(column, value string) (int, error) {
	le, err := r.encoder(column)
	if err != nil {
		return 0, err
	}
	ordinal, ok := le.Encode(value)
	if !ok {
		return 0, core.NewUnseenValueError(column, value)
	}
	return ordinal, nil
}

// Decode maps an ordinal back to the column's value
func (r *Registry) Decode(column string, ordinal int) (string, error) {
	le, err := r.encoder(column)
	if err != nil {
		return "", err
	}
	value, ok := le.Decode(ordinal)
	if !ok {
		return "", fmt.Errorf("%w: %d for column %s (size %d)", core.ErrOrdinalRange, ordinal, column, le.Len())
	}
	return value, nil
}

// EncodeTarget encodes a career label
func (r *Registry) EncodeTarget(label string) (int, error) {
	return r.Encode(r.target, label)
}

// DecodeTarget turns a predicted class ordinal back into the career label
func (r *Registry) DecodeTarget(ordinal int) (string, error) {
	return r.Decode(r.target, ordinal)
}

// HasEncoder reports whether column is a categorical feature or the target
func (r *Registry) HasEncoder(column string) bool {
	_, err := r.encoder(column)
	return err == nil
}

// Size is the number of ordinals of column's encoder, 0 when it has none
func (r *Registry) Size(column string) int {
	le, err := r.encoder(column)
	if err != nil {
		return 0
	}
	return le.Len()
}

func (r *Registry) Target() string { return r.target }

func (r *Registry) TargetClasses() []string { return r.targetLE.Classes() }


func (r *Registry) encoder(column string) (*LabelEncoder, error) {
	if column == r.target {
		return r.targetLE, nil
	}
	le, ok := r.encoders[column]
	if !ok {
		return nil, core.NewUnknownColumnError(column)
	}
	return le, nil
}

// Matrix is the fully encoded training table
type Matrix struct {
	X       [][]float64
	Y       []int
	Columns []string
}

// Matrix encodes every non-target column of ds, in file order, and the target vector
func (r *Registry) Matrix(ds *dataset.Dataset) (*Matrix, error) {
	features := ds.FeatureColumns()
	columns := make([]string, len(features))
	for j, c := range features {
		columns[j] = c.Name
	}

	n := ds.NumRows()
	X := make([][]float64, n)
	for i := range X {
		X[i] = make([]float64, len(features))
	}

	for j, col := range features {
		cells, err := ds.ColumnValues(col.Name)
		if err != nil {
			return nil, err
		}
		for i, cell := range cells {
			if col.Kind == dataset.KindNumeric {
				X[i][j] = cell.Float()
				continue
			}
			ordinal, err := r.Encode(col.Name, cell.String())
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			X[i][j] = float64(ordinal)
		}
	}

	labels := ds.TargetValues()
	Y := make([]int, n)
	for i, label := range labels {
		ordinal, err := r.EncodeTarget(label)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		Y[i] = ordinal
	}

	return &Matrix{X: X, Y: Y, Columns: columns}, nil
}
