package selection

import (
	"fmt"
	"sort"
)

// Ranked is one candidate column with its baseline importance
type Ranked struct {
	Column     string
	Position   int // index in the encoded matrix
	Importance float64
}

// Rank orders columns by importance descending. Equal importances keep
// their matrix position order.
func Rank(columns []string, importances []float64) ([]Ranked, error) {
	if len(columns) != len(importances) {
		return nil, fmt.Errorf("selection: %d columns but %d importances", len(columns), len(importances))
	}
	ranked := make([]Ranked, len(columns))
	for i, c := range columns {
		ranked[i] = Ranked{Column: c, Position: i, Importance: importances[i]}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Importance > ranked[b].Importance
	})
	return ranked, nil
}

// PadToWidth keeps the first n ranked columns. No importance threshold is
// applied: zero-importance columns fill the width when fewer than n columns
// carry signal.
func PadToWidth(ranked []Ranked, n int) []Ranked {
	width, _ := ClampWidth(n, len(ranked))
	out := make([]Ranked, width)
	copy(out, ranked[:width])
	return out
}

// ClampWidth bounds a requested feature count by the available columns.
// clamped reports whether the request had to be reduced.
func ClampWidth(n, available int) (width int, clamped bool) {
	switch {
	case available <= 0:
		return 0, n > 0
	case n <= 0:
		return available, false
	case n > available:
		return available, true
	default:
		return n, false
	}
}
