package encoding

import (
	"careerpath/domain/dataset"
)

// Vocabulary is the CategoryMapping of a dataset: for every categorical
// non-target column, the distinct values in first-seen order.
// It is built once from the whole dataset and never mutated afterwards.
type Vocabulary struct {
	columns []string
	values  map[string][]string
	members map[string]map[string]struct{}
}

// BuildVocabulary scans every row of ds once
func BuildVocabulary(ds *dataset.Dataset) *Vocabulary {
	v := &Vocabulary{
		values:  make(map[string][]string),
		members: make(map[string]map[string]struct{}),
	}

	for _, col := range ds.FeatureColumns() {
		if col.Kind != dataset.KindCategorical {
			continue
		}
		cells, err := ds.ColumnValues(col.Name)
		if err != nil {
			continue
		}

		seen := make(map[string]struct{})
		ordered := make([]string, 0)
		for _, cell := range cells {
			s := cell.String()
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			ordered = append(ordered, s)
		}

		v.columns = append(v.columns, col.Name)
		v.values[col.Name] = ordered
		v.members[col.Name] = seen
	}
	return v
}

// Columns lists the categorical columns in dataset order
func (v *Vocabulary) Columns() []string {
	out := make([]string, len(v.columns))
	copy(out, v.columns)
	return out
}

// Values returns a copy of the column's values in first-seen order, nil for unknown columns
func (v *Vocabulary) Values(column string) []string {
	vals, ok := v.values[column]
	if !ok {
		return nil
	}
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Has reports whether the column is categorical in this vocabulary
func (v *Vocabulary) Has(column string) bool {
	_, ok := v.members[column]
	return ok
}

// Contains reports whether value was observed in column at build time
func (v *Vocabulary) Contains(column, value string) bool {
	m, ok := v.members[column]
	if !ok {
		return false
	}
	_, ok = m[value]
	return ok
}

// Len is the number of distinct values of column
func (v *Vocabulary) Len(column string) int {
	return len(v.values[column])
}
