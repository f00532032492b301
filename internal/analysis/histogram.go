package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram is an equal-width histogram: len(Bins) == len(Hist)+1 edges.
// The last bin includes its right edge.
type Histogram struct {
	Hist []int     `json:"hist" yaml:"hist"`
	Bins []float64 `json:"bins" yaml:"bins"`
}

// Total returns the number of values counted.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Hist {
		n += c
	}
	return n
}

func emptyHistogram() Histogram {
	return Histogram{Hist: []int{}, Bins: []float64{}}
}

// histogram bins vals over [min, max]. A constant column, or one whose range
// is too narrow to split into distinct edges, is widened by 0.5 on each side.
// ok is false when no usable edges exist for non-empty vals; the histogram is
// then empty. No values yield an empty histogram with ok true.
func histogram(vals []float64, bins int) (Histogram, bool) {
	if len(vals) == 0 {
		return emptyHistogram(), true
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	edges, ok := binEdges(lo, hi, bins)
	if !ok {
		lo, hi = lo-0.5, hi+0.5
		if edges, ok = binEdges(lo, hi, bins); !ok {
			return emptyHistogram(), false
		}
	}

	// stat.Histogram uses half-open bins; nudge the last divider so max lands
	// in the final bin.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	counts := stat.Histogram(nil, dividers, sorted, nil)

	hist := make([]int, bins)
	for i, c := range counts {
		hist[i] = int(c)
	}
	return Histogram{Hist: hist, Bins: edges}, true
}

// binEdges splits [lo, hi] into bins equal steps. The step is taken as
// hi/bins - lo/bins so ranges wider than the largest float64 stay finite.
// ok reports whether every edge is finite and strictly increasing.
func binEdges(lo, hi float64, bins int) ([]float64, bool) {
	n := float64(bins)
	step := hi/n - lo/n
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	edges[0], edges[bins] = lo, hi
	for i, e := range edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return nil, false
		}
		if i > 0 && e <= edges[i-1] {
			return nil, false
		}
	}
	return edges, true
}
