package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabload/internal/utils"
	"gopkg.in/yaml.v3"
)

// NullMarker is the value previews show for a missing cell.
const NullMarker = "NaN"

// Field is one name/value pair of a preview row.
type Field struct {
	Name  string
	Value any // float64 for numeric columns, string otherwise, NullMarker for nulls
}

// Row is an ordered name→value mapping. It serialises as an object whose
// keys keep column order.
type Row []Field

// Get returns the value for a column name.
func (r Row) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r Row) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r {
		var v yaml.Node
		if err := v.Encode(f.Value); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: f.Name}, &v)
	}
	return n, nil
}

// Preview returns up to n leading rows, each carrying every column.
func Preview(t *Table, n int) []Row {
	if n > t.rows {
		n = t.rows
	}
	if n <= 0 {
		return []Row{}
	}
	out := make([]Row, n)
	for i := 0; i < n; i++ {
		row := make(Row, len(t.columns))
		for j, c := range t.columns {
			row[j] = Field{Name: c.Name, Value: cellValue(c, c.cells[i])}
		}
		out[i] = row
	}
	return out
}

func cellValue(c *Column, cell Cell) any {
	switch {
	case cell.Null:
		return NullMarker
	case c.Kind == KindNumeric:
		return cell.Num
	default:
		return cell.Text
	}
}

// NullCounts maps each column name to its number of null cells.
func NullCounts(t *Table) map[string]int {
	out := make(map[string]int, len(t.columns))
	for _, c := range t.columns {
		out[c.Name] = c.NullCount()
	}
	return out
}

// Summary describes a loaded dataset: the structure shown after upload.
type Summary struct {
	Filename      string          `json:"filename" yaml:"filename"`
	Columns       []string        `json:"columns" yaml:"columns"`
	Kinds         map[string]Kind `json:"kinds" yaml:"kinds"`
	Preview       []Row           `json:"preview" yaml:"preview"`
	Shape         [2]int          `json:"shape" yaml:"shape"`
	MissingValues map[string]int  `json:"missing_values" yaml:"missing_values"`
}

// Describe builds a Summary with up to previewRows preview rows.
func Describe(t *Table, previewRows int) Summary {
	kinds := make(map[string]Kind, len(t.columns))
	for _, c := range t.columns {
		kinds[c.Name] = c.Kind
	}
	rows, cols := t.Shape()
	return Summary{
		Filename:      t.Name,
		Columns:       t.ColumnNames(),
		Kinds:         kinds,
		Preview:       Preview(t, previewRows),
		Shape:         [2]int{rows, cols},
		MissingValues: NullCounts(t),
	}
}

// Markdown renders a compact schema and head table.
func (s Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Filename != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Filename))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.Shape[0]))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", s.Shape[1]))

	b.WriteString("[SCHEMA]\n")
	for _, name := range s.Columns {
		miss := s.MissingValues[name]
		missPct := 0.0
		if s.Shape[0] > 0 {
			missPct = float64(miss) * 100.0 / float64(s.Shape[0])
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)\n",
			utils.SafeName(name), s.Kinds[name], s.Shape[0]-miss, missPct))
	}

	if len(s.Preview) > 0 {
		b.WriteString("\n[HEAD]\n| ")
		for i, name := range s.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(utils.SafeName(name))
		}
		b.WriteString(" |\n| ")
		for i := range s.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range s.Preview {
			b.WriteString("| ")
			for i, f := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(utils.SafeCell(utils.Truncate(fmt.Sprint(f.Value), 80)))
			}
			b.WriteString(" |\n")
		}
	}
	return b.String()
}
