package analysis

import (
	"sort"

	"github.com/KaramelBytes/tabload/internal/dataset"
)

// CategorySummary holds value frequencies for a categorical column.
// Proportions divide by the table's total row count, nulls included, so they
// sum to the column's non-null share rather than to 1.
type CategorySummary struct {
	Counts      map[string]int    `json:"counts" yaml:"counts"`
	Proportions map[string]Metric `json:"proportions" yaml:"proportions"`
}

type CategoryCount struct {
	Value      string
	Count      int
	Proportion Metric
}

// Top returns up to n values ordered by count, then value. n <= 0 returns all.
func (s CategorySummary) Top(n int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(s.Counts))
	for k, v := range s.Counts {
		tops = append(tops, CategoryCount{Value: k, Count: v, Proportion: s.Proportions[k]})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if n > 0 && len(tops) > n {
		tops = tops[:n]
	}
	return tops
}

func categorize(c *dataset.Column, rows int) CategorySummary {
	counts := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		cell := c.Cell(i)
		if cell.Null {
			continue
		}
		counts[cell.Text]++
	}
	props := make(map[string]Metric, len(counts))
	for k, v := range counts {
		if rows > 0 {
			props[k] = defined(float64(v) / float64(rows))
		} else {
			props[k] = Metric{}
		}
	}
	return CategorySummary{Counts: counts, Proportions: props}
}
