package profiling

import (
	"math"
	"sort"

	"careerpath/domain/dataset"

	"gonum.org/v1/gonum/floats"
)

// ValueCount is one categorical value and how often it occurs
type ValueCount struct {
	Value string  `json:"value"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// ColumnProfile summarizes one dataset column
type ColumnProfile struct {
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Target   bool            `json:"target,omitempty"`
	Count    int             `json:"count"`
	Missing  int             `json:"missing"`
	Distinct int             `json:"distinct"`
	Numeric  *NumericSummary `json:"numeric,omitempty"`
	Top      []ValueCount    `json:"top,omitempty"`
}

// DataProfiler builds column profiles for a dataset
type DataProfiler struct {
	topN int
}

// NewDataProfiler keeps the topN most frequent values of categorical columns
func NewDataProfiler(topN int) *DataProfiler {
	if topN <= 0 {
		topN = 5
	}
	return &DataProfiler{topN: topN}
}

// ProfileDataset profiles every column in file order
func (dp *DataProfiler) ProfileDataset(ds *dataset.Dataset) []ColumnProfile {
	cols := ds.Columns()
	out := make([]ColumnProfile, 0, len(cols))
	for _, c := range cols {
		values, err := ds.ColumnValues(c.Name)
		if err != nil {
			continue
		}
		p := dp.ProfileColumn(c, values)
		p.Target = c.Name == ds.Target()
		out = append(out, p)
	}
	return out
}

// ProfileColumn summarizes one column's cells
func (dp *DataProfiler) ProfileColumn(col dataset.Column, values []dataset.Value) ColumnProfile {
	p := ColumnProfile{Name: col.Name, Kind: col.Kind.String(), Count: len(values)}

	counts := make(map[string]int)
	var nums []float64
	for _, v := range values {
		if v.IsMissing() {
			p.Missing++
			continue
		}
		counts[v.String()]++
		if v.IsNumeric() {
			nums = append(nums, v.Float())
		}
	}
	p.Distinct = len(counts)

	if col.Kind == dataset.KindNumeric && len(nums) > 0 {
		if s, err := Summarize(nums); err == nil {
			p.Numeric = &s
		}
		return p
	}

	p.Top = topValues(counts, len(values)-p.Missing, dp.topN)
	return p
}

func topValues(counts map[string]int, total, n int) []ValueCount {
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})

	shares := make([]float64, len(out))
	for i, vc := range out {
		shares[i] = float64(vc.Count)
	}
	if total > 0 {
		floats.Scale(1/float64(total), shares)
	}
	for i := range out {
		out[i].Share = shares[i]
	}

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// ClassBalance is the entropy of the target distribution divided by its
// maximum, 1 for perfectly balanced classes
func ClassBalance(ds *dataset.Dataset) float64 {
	counts := make(map[string]float64)
	for _, label := range ds.TargetValues() {
		counts[label]++
	}
	if len(counts) < 2 {
		return 1
	}
	probs := make([]float64, 0, len(counts))
	for _, c := range counts {
		probs = append(probs, c)
	}
	floats.Scale(1/floats.Sum(probs), probs)

	h := 0.0
	for _, p := range probs {
		h -= p * math.Log(p)
	}
	return h / math.Log(float64(len(probs)))
}
