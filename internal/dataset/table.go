package dataset

import (
	"github.com/cockroachdb/errors"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Cell is a single parsed field. Null cells carry no text.
type Cell struct {
	Text    string
	Num     float64
	Null    bool
	Numeric bool // Text parsed as a finite number
}

// Column is a named, typed sequence of cells. It is immutable once built.
type Column struct {
	Name  string
	Kind  Kind
	cells []Cell
}

// NewColumn builds a column and classifies it. It takes ownership of cells.
func NewColumn(name string, cells []Cell) *Column {
	return &Column{Name: name, Kind: classify(cells), cells: cells}
}

// classify reports numeric only when at least one value is present and every
// present value parsed as a number.
func classify(cells []Cell) Kind {
	present := 0
	for _, c := range cells {
		if c.Null {
			continue
		}
		if !c.Numeric {
			return KindCategorical
		}
		present++
	}
	if present == 0 {
		return KindCategorical
	}
	return KindNumeric
}

func (c *Column) Len() int { return len(c.cells) }

func (c *Column) Cell(i int) Cell { return c.cells[i] }

// AppendCells appends the column's cells to dst and returns the extended slice.
func (c *Column) AppendCells(dst []Cell) []Cell {
	return append(dst, c.cells...)
}

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, cell := range c.cells {
		if cell.Null {
			n++
		}
	}
	return n
}

// Floats returns the non-null numeric values in row order.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.cells))
	for _, cell := range c.cells {
		if !cell.Null && cell.Numeric {
			out = append(out, cell.Num)
		}
	}
	return out
}

// Table is an ordered set of equally sized, uniquely named columns. Tables
// are read-only once built; use WithName to relabel one.
type Table struct {
	Name    string
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable validates that names are unique and lengths agree.
func NewTable(name string, cols []*Column) (*Table, error) {
	t := &Table{Name: name, columns: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := t.index[c.Name]; dup {
			return nil, errors.Newf("table %q: duplicate column %q", name, c.Name)
		}
		t.index[c.Name] = i
		if i == 0 {
			t.rows = c.Len()
			continue
		}
		if c.Len() != t.rows {
			return nil, errors.Newf("table %q: column %q has %d rows, want %d", name, c.Name, c.Len(), t.rows)
		}
	}
	return t, nil
}

// WithName returns a copy of t called name. The copy shares t's columns.
func (t *Table) WithName(name string) *Table {
	c := *t
	c.Name = name
	return &c
}

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) { return t.rows, len(t.columns) }

func (t *Table) NumRows() int { return t.rows }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in table order. The slice is a copy.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}
