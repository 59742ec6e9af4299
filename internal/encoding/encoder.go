package encoding

import "sort"

// LabelEncoder is a value<->ordinal bijection. Ordinals follow the sorted
// order of the distinct fitted values, so the assignment does not depend on
// row order or duplicates.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// FitLabelEncoder builds an encoder over the distinct values
func FitLabelEncoder(values []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(values))
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		classes = append(classes, v)
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &LabelEncoder{classes: classes, index: index}
}

// Encode returns the ordinal of value; ok is false for values outside the fitted domain
func (e *LabelEncoder) Encode(value string) (int, bool) {
	i, ok := e.index[value]
	return i, ok
}

// Decode is total on [0, Len())
func (e *LabelEncoder) Decode(ordinal int) (string, bool) {
	if ordinal < 0 || ordinal >= len(e.classes) {
		return "", false
	}
	return e.classes[ordinal], true
}

func (e *LabelEncoder) Len() int { return len(e.classes) }

// Classes returns the fitted values in ordinal order
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}
