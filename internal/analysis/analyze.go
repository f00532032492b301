package analysis

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/tabload/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Options controls analysis behavior.
type Options struct {
	// Bins is the number of equal-width histogram bins. Values <= 0 mean 10.
	Bins int
	// CorrDigits is the number of decimal digits kept in correlations. Values <= 0 mean 2.
	CorrDigits int
}

// DefaultOptions returns 10 histogram bins and 2-digit correlations.
func DefaultOptions() Options {
	return Options{Bins: 10, CorrDigits: 2}
}

// Result bundles every summary computed for one table. JSON field names are
// part of the wire contract.
type Result struct {
	Source        string                     `json:"source,omitempty" yaml:"source,omitempty"`
	Rows          int                        `json:"rows" yaml:"rows"`
	NumericCols   []string                   `json:"numeric_cols" yaml:"numeric_cols"`
	CatCols       []string                   `json:"cat_cols" yaml:"cat_cols"`
	Stats         map[string]NumSummary      `json:"stats" yaml:"stats"`
	Correlation   CorrMatrix                 `json:"correlation" yaml:"correlation"`
	Distributions map[string]Histogram       `json:"distributions" yaml:"distributions"`
	Categorical   map[string]CategorySummary `json:"categorical" yaml:"categorical"`
	Warnings      []string                   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NumSummary holds descriptive statistics over a column's non-null values.
// Std is the sample standard deviation (n-1 denominator).
type NumSummary struct {
	Count  int    `json:"count" yaml:"count"`
	Mean   Metric `json:"mean" yaml:"mean"`
	Median Metric `json:"median" yaml:"median"`
	Std    Metric `json:"std" yaml:"std"`
	Min    Metric `json:"min" yaml:"min"`
	Max    Metric `json:"max" yaml:"max"`
}

// Analyze classifies the table's columns and computes statistics,
// correlations, histograms and categorical frequencies. It never fails:
// quantities that cannot be computed are reported as undefined metrics and
// affect only their own column.
func Analyze(t *dataset.Table, opt Options) *Result {
	if opt.Bins <= 0 {
		opt.Bins = 10
	}
	if opt.CorrDigits <= 0 {
		opt.CorrDigits = 2
	}
	res := &Result{
		Source:        t.Name,
		Rows:          t.NumRows(),
		NumericCols:   []string{},
		CatCols:       []string{},
		Stats:         map[string]NumSummary{},
		Distributions: map[string]Histogram{},
		Categorical:   map[string]CategorySummary{},
	}

	var numeric []*dataset.Column
	for _, c := range t.Columns() {
		if c.Kind == dataset.KindNumeric {
			numeric = append(numeric, c)
			res.NumericCols = append(res.NumericCols, c.Name)
			continue
		}
		res.CatCols = append(res.CatCols, c.Name)
		res.Categorical[c.Name] = categorize(c, res.Rows)
	}

	for _, c := range numeric {
		vals := c.Floats()
		s := summarize(vals)
		res.Stats[c.Name] = s
		if s.Count > 0 && !s.Mean.Defined {
			res.Warnings = append(res.Warnings, fmt.Sprintf("column %s: mean undefined (overflow)", c.Name))
		}
		if !s.Std.Defined {
			res.Warnings = append(res.Warnings, fmt.Sprintf("column %s: standard deviation undefined (n=%d)", c.Name, s.Count))
		}
		h, ok := histogram(vals, opt.Bins)
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("column %s: histogram range not representable", c.Name))
		}
		res.Distributions[c.Name] = h
	}
	res.Correlation = correlate(numeric, opt.CorrDigits)
	if res.Rows == 0 {
		res.Warnings = append(res.Warnings, "table has no rows; all statistics are undefined")
	}
	return res
}

func summarize(vals []float64) NumSummary {
	n := len(vals)
	s := NumSummary{Count: n}
	if n == 0 {
		return s
	}
	sorted := make([]float64, n)
	copy(sorted, vals)
	sort.Float64s(sorted)

	s.Mean = defined(stat.Mean(vals, nil))
	s.Median = defined(median(sorted))
	s.Min = defined(sorted[0])
	s.Max = defined(sorted[n-1])
	if n > 1 {
		s.Std = defined(stat.StdDev(vals, nil))
	}
	return s
}

// median of sorted values; even counts average the two middle values.
func median(sorted []float64) float64 {
	m := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[m]
	}
	return midpoint(sorted[m-1], sorted[m])
}

// midpoint of a <= b without overflowing near the float64 limits.
func midpoint(a, b float64) float64 {
	if (a < 0) != (b < 0) {
		return (a + b) / 2
	}
	return a + (b-a)/2
}
