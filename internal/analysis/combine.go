package analysis

import (
	"strings"

	"github.com/KaramelBytes/tabload/internal/dataset"
	"github.com/cockroachdb/errors"
)

// Combine projects every table onto columns and concatenates the rows in
// table order. Every table must contain every requested column. The result
// keeps the requested column order and reclassifies each column from the
// merged values.
func Combine(tables []*dataset.Table, columns []string) (*dataset.Table, error) {
	if len(tables) == 0 {
		return nil, errors.WithStack(&EmptySelectionError{What: "files"})
	}
	cols := dedupe(columns)
	if len(cols) == 0 {
		return nil, errors.WithStack(&EmptySelectionError{What: "columns"})
	}

	total := 0
	names := make([]string, len(tables))
	for i, t := range tables {
		if t == nil {
			return nil, errors.Newf("combine: table #%d is nil", i+1)
		}
		for _, name := range cols {
			if _, ok := t.Column(name); !ok {
				return nil, errors.WithStack(&ColumnNotFoundError{
					Table:      t.Name,
					TableIndex: i,
					Column:     name,
					Available:  t.ColumnNames(),
				})
			}
		}
		total += t.NumRows()
		names[i] = t.Name
	}

	out := make([]*dataset.Column, len(cols))
	for j, name := range cols {
		cells := make([]dataset.Cell, 0, total)
		for _, t := range tables {
			c, _ := t.Column(name)
			cells = c.AppendCells(cells)
		}
		out[j] = dataset.NewColumn(name, cells)
	}
	return dataset.NewTable(strings.Join(names, "+"), out)
}

// dedupe keeps the first occurrence of each name.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
