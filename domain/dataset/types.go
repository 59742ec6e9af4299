package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tells whether a column holds numbers or categorical strings
type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
)

func (k Kind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "categorical"
}

// Value is a single cell: a float (NaN when the cell was empty) or a string
type Value struct {
	kind Kind
	num  float64
	str  string
}

func Numeric(f float64) Value      { return Value{kind: KindNumeric, num: f} }
func Categorical(s string) Value   { return Value{kind: KindCategorical, str: s} }
func (v Value) Kind() Kind         { return v.kind }
func (v Value) IsNumeric() bool    { return v.kind == KindNumeric }
func (v Value) Float() float64     { return v.num }
func (v Value) IsMissing() bool    { return v.kind == KindNumeric && math.IsNaN(v.num) }
func (v Value) Equal(o Value) bool { return v.String() == o.String() && v.kind == o.kind }

// String renders categorical values verbatim and numbers in their shortest form
func (v Value) String() string {
	if v.kind == KindCategorical {
		return v.str
	}
	if math.IsNaN(v.num) {
		return ""
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// Column describes one dataset column
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Dataset is an immutable table with one designated target column
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    [][]Value
	target  string
}

// New validates shape and target presence and takes ownership of rows
func New(columns []Column, rows [][]Value, target string) (*Dataset, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		index[c.Name] = i
	}
	if _, ok := index[target]; !ok {
		return nil, fmt.Errorf("target column %q not found", target)
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
	}
	return &Dataset{columns: columns, index: index, rows: rows, target: target}, nil
}

// FromRecords infers column kinds from raw string cells and builds a Dataset.
// A column is numeric when every non-empty cell parses as a float.
func FromRecords(headers []string, records [][]string, target string) (*Dataset, error) {
	columns := make([]Column, len(headers))
	for j, h := range headers {
		columns[j] = Column{Name: strings.TrimSpace(h), Kind: KindNumeric}
		if columns[j].Name == target {
			columns[j].Kind = KindCategorical
			continue
		}
		for _, rec := range records {
			cell := cellAt(rec, j)
			if cell == "" {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				columns[j].Kind = KindCategorical
				break
			}
		}
	}

	rows := make([][]Value, len(records))
	for i, rec := range records {
		row := make([]Value, len(headers))
		for j := range headers {
			cell := cellAt(rec, j)
			if columns[j].Kind == KindCategorical {
				row[j] = Categorical(cell)
				continue
			}
			if cell == "" {
				row[j] = Numeric(math.NaN())
				continue
			}
			f, _ := strconv.ParseFloat(cell, 64)
			row[j] = Numeric(f)
		}
		rows[i] = row
	}
	return New(columns, rows, target)
}

func cellAt(rec []string, j int) string {
	if j >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[j])
}

// Columns returns all columns in file order
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// FeatureColumns returns every non-target column in file order
func (d *Dataset) FeatureColumns() []Column {
	out := make([]Column, 0, len(d.columns)-1)
	for _, c := range d.columns {
		if c.Name != d.target {
			out = append(out, c)
		}
	}
	return out
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

func (d *Dataset) Target() string { return d.target }
func (d *Dataset) NumRows() int   { return len(d.rows) }

// Value returns the cell at row i of the named column
func (d *Dataset) Value(i int, column string) (Value, error) {
	j, ok := d.index[column]
	if !ok {
		return Value{}, fmt.Errorf("unknown column %q", column)
	}
	if i < 0 || i >= len(d.rows) {
		return Value{}, fmt.Errorf("row %d out of range", i)
	}
	return d.rows[i][j], nil
}

// ColumnValues returns the cells of one column in row order
func (d *Dataset) ColumnValues(column string) ([]Value, error) {
	j, ok := d.index[column]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", column)
	}
	out := make([]Value, len(d.rows))
	for i, row := range d.rows {
		out[i] = row[j]
	}
	return out, nil
}

// TargetValues returns the target labels in row order
func (d *Dataset) TargetValues() []string {
	j := d.index[d.target]
	out := make([]string, len(d.rows))
	for i, row := range d.rows {
		out[i] = row[j].String()
	}
	return out
}

// Head renders the first n rows as column -> text for previews
func (d *Dataset) Head(n int) []map[string]string {
	n = min(max(n, 0), len(d.rows))
	out := make([]map[string]string, n)
	for i := 0; i < n; i++ {
		m := make(map[string]string, len(d.columns))
		for j, c := range d.columns {
			m[c.Name] = d.rows[i][j].String()
		}
		out[i] = m
	}
	return out
}
