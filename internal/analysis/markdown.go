package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/tabload/internal/utils"
)

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[ANALYSIS SUMMARY]\n")
	if r.Source != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", r.Source))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Numeric columns: %s\n", joinOrNone(r.NumericCols)))
	b.WriteString(fmt.Sprintf("Categorical columns: %s\n", joinOrNone(r.CatCols)))

	if len(r.NumericCols) > 0 {
		b.WriteString("\n[NUMERIC STATISTICS]\n")
		for _, name := range r.NumericCols {
			s := r.Stats[name]
			b.WriteString(fmt.Sprintf("- %s (n=%d): mean %s, median %s, std %s, min %s, max %s\n",
				utils.SafeName(name), s.Count, s.Mean, s.Median, s.Std, s.Min, s.Max))
		}
	}

	if len(r.Correlation.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		type pr struct {
			A, B string
			R    Metric
		}
		var pairs []pr
		cols := r.Correlation.Columns
		for i := 0; i < len(cols); i++ {
			for j := i + 1; j < len(cols); j++ {
				pairs = append(pairs, pr{A: cols[i], B: cols[j], R: r.Correlation.Values[i][j]})
			}
		}
		// defined pairs first by |r|, undefined last
		sort.SliceStable(pairs, func(i, j int) bool {
			if pairs[i].R.Defined != pairs[j].R.Defined {
				return pairs[i].R.Defined
			}
			return math.Abs(pairs[i].R.Value) > math.Abs(pairs[j].R.Value)
		})
		maxp := 10
		if len(pairs) < maxp {
			maxp = len(pairs)
		}
		for _, p := range pairs[:maxp] {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%s\n", p.A, p.B, p.R))
		}
	}

	if len(r.Distributions) > 0 {
		b.WriteString("\n[DISTRIBUTIONS]\n")
		for _, name := range r.NumericCols {
			h, ok := r.Distributions[name]
			if !ok || len(h.Hist) == 0 {
				continue
			}
			parts := make([]string, len(h.Hist))
			for i, c := range h.Hist {
				parts[i] = fmt.Sprintf("%.4g..%.4g:%d", h.Bins[i], h.Bins[i+1], c)
			}
			b.WriteString(fmt.Sprintf("- %s: %s\n", utils.SafeName(name), strings.Join(parts, ", ")))
		}
	}

	if len(r.CatCols) > 0 {
		b.WriteString("\n[CATEGORICAL]\n")
		for _, name := range r.CatCols {
			s := r.Categorical[name]
			b.WriteString(fmt.Sprintf("- %s", utils.SafeName(name)))
			tops := s.Top(8)
			if len(tops) == 0 {
				b.WriteString(": (no values)\n")
				continue
			}
			b.WriteString(": ")
			for i, kv := range tops {
				if i > 0 {
					b.WriteString(", ")
				}
				share := "n/a"
				if kv.Proportion.Defined {
					share = fmt.Sprintf("%.1f%%", kv.Proportion.Value*100)
				}
				b.WriteString(fmt.Sprintf("%s(%d, %s)", utils.SafeCell(kv.Value), kv.Count, share))
			}
			if len(s.Counts) > len(tops) {
				b.WriteString(fmt.Sprintf("; unique=%d", len(s.Counts)))
			}
			b.WriteString("\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
