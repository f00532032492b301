// Package chart renders analysis results as PNG charts with gonum/plot.
package chart

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/KaramelBytes/tabload/internal/analysis"
	"github.com/KaramelBytes/tabload/internal/utils"
	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// MaxCategories caps the bars drawn per categorical chart.
const MaxCategories = 20

// Size is a chart size in inches.
type Size struct {
	Width  float64
	Height float64
}

var fill = color.RGBA{R: 70, G: 110, B: 170, A: 255}

// Histogram draws precomputed bins to path. The format follows the extension.
func Histogram(path, title string, h analysis.Histogram, size Size) error {
	if len(h.Hist) == 0 {
		return errors.Newf("histogram %q has no bins", title)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "value"
	p.Y.Label.Text = "count"

	bins := make([]plotter.HistogramBin, len(h.Hist))
	for i, c := range h.Hist {
		bins[i] = plotter.HistogramBin{Min: h.Bins[i], Max: h.Bins[i+1], Weight: float64(c)}
	}
	p.Add(&plotter.Histogram{
		Bins:      bins,
		Width:     h.Bins[1] - h.Bins[0],
		FillColor: fill,
		LineStyle: plotter.DefaultLineStyle,
	})
	return save(p, path, size)
}

// Categories draws a bar chart of the given counts, truncated to MaxCategories.
func Categories(path, title string, counts []analysis.CategoryCount, size Size) error {
	if len(counts) == 0 {
		return errors.Newf("category chart %q has no values", title)
	}
	if len(counts) > MaxCategories {
		counts = counts[:MaxCategories]
	}
	vals := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, c := range counts {
		vals[i] = float64(c.Count)
		names[i] = utils.Truncate(c.Value, 16)
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "count"

	bars, err := plotter.NewBarChart(vals, vg.Points(18))
	if err != nil {
		return errors.Wrap(err, "bar chart")
	}
	bars.Color = fill
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	return save(p, path, size)
}

func save(p *plot.Plot, path string, size Size) error {
	w := vg.Length(size.Width) * vg.Inch
	h := vg.Length(size.Height) * vg.Inch
	if err := p.Save(w, h, path); err != nil {
		return errors.Wrapf(err, "save chart %s", path)
	}
	return nil
}

// WriteAll renders one histogram per numeric column and one bar chart per
// categorical column into dir and returns the written paths. Columns with no
// values are skipped.
func WriteAll(dir string, res *analysis.Result, size Size) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, errors.Wrap(err, "ensure plots dir")
	}
	used := map[string]int{}
	var written []string
	for _, name := range res.NumericCols {
		h := res.Distributions[name]
		if len(h.Hist) == 0 {
			continue
		}
		path := filepath.Join(dir, fileName("hist", name, used))
		if err := Histogram(path, name, h, size); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	for _, name := range res.CatCols {
		tops := res.Categorical[name].Top(MaxCategories)
		if len(tops) == 0 {
			continue
		}
		path := filepath.Join(dir, fileName("cat", name, used))
		if err := Categories(path, name, tops, size); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// fileName builds a unique PNG name for a column.
func fileName(prefix, column string, used map[string]int) string {
	base := utils.SanitizeFilename(column)
	if base == "" {
		base = "column"
	}
	base = prefix + "_" + base
	n := used[base]
	used[base] = n + 1
	if n > 0 {
		base = fmt.Sprintf("%s_%d", base, n+1)
	}
	return base + ".png"
}
