package analysis

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/KaramelBytes/tabload/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric
// columns. It serialises as {column: {column: r}} in column order.
type CorrMatrix struct {
	Columns []string
	Values  [][]Metric // row-major, Values[i][j]
}

// At returns the correlation between two named columns.
func (m CorrMatrix) At(a, b string) (Metric, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return Metric{}, false
	}
	return m.Values[i][j], true
}

func (m CorrMatrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (m CorrMatrix) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range m.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteString(":{")
		for j, b := range m.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(b)
			if err != nil {
				return nil, err
			}
			v, err := m.Values[i][j].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m CorrMatrix) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for i, a := range m.Columns {
		row := &yaml.Node{Kind: yaml.MappingNode}
		for j, b := range m.Columns {
			v := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
			if r := m.Values[i][j]; r.Defined {
				if err := v.Encode(r.Value); err != nil {
					return nil, err
				}
			}
			row.Content = append(row.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: b}, v)
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: a}, row)
	}
	return root, nil
}

// correlate computes each unordered pair once so the matrix is exactly
// symmetric.
func correlate(cols []*dataset.Column, digits int) CorrMatrix {
	n := len(cols)
	m := CorrMatrix{Columns: make([]string, n), Values: make([][]Metric, n)}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]Metric, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := round(pearson(cols[i], cols[j]), digits)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// pearson correlates two columns over the rows where both are non-null.
func pearson(a, b *dataset.Column) Metric {
	xs, ys := pairwiseComplete(a, b)
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return Metric{}
	}
	if a == b {
		return defined(1)
	}
	r := stat.Correlation(xs, ys, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return defined(r)
}

func pairwiseComplete(a, b *dataset.Column) (xs, ys []float64) {
	for i := 0; i < a.Len(); i++ {
		ca, cb := a.Cell(i), b.Cell(i)
		if ca.Null || cb.Null {
			continue
		}
		xs = append(xs, ca.Num)
		ys = append(ys, cb.Num)
	}
	return xs, ys
}

func constant(vals []float64) bool {
	return floats.Min(vals) == floats.Max(vals)
}

func round(m Metric, digits int) Metric {
	if !m.Defined {
		return m
	}
	p := math.Pow(10, float64(digits))
	v := math.Round(m.Value*p) / p
	if v == 0 {
		v = 0 // drop negative zero
	}
	return defined(v)
}
