package report

import (
	"errors"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/quadlab/internal/convergence"
)

var ErrNothingToPlot = errors.New("report: no finite values to plot")

var plotColors = []asciigraph.AnsiColor{
	asciigraph.Green, asciigraph.Cyan, asciigraph.Yellow, asciigraph.Magenta, asciigraph.Red, asciigraph.White,
}

func series(passes []*convergence.Pass, value func(convergence.Row) float64) ([][]float64, bool) {
	data := make([][]float64, 0, len(passes))
	found := false
	for _, p := range passes {
		s := make([]float64, len(p.Rows))
		for i, r := range p.Rows {
			v := value(r)
			if math.IsInf(v, 0) {
				v = math.NaN()
			}
			if !math.IsNaN(v) {
				found = true
			}
			s[i] = v
		}
		data = append(data, s)
	}
	return data, found
}

func plot(passes []*convergence.Pass, caption string, value func(convergence.Row) float64) (string, error) {
	data, ok := series(passes, value)
	if !ok {
		return "", ErrNothingToPlot
	}
	colors := make([]asciigraph.AnsiColor, len(data))
	for i := range colors {
		colors[i] = plotColors[i%len(plotColors)]
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(12),
		asciigraph.Width(60),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	), nil
}

// PlotOrders charts log2(K) per row for each pass.
func PlotOrders(passes []*convergence.Pass) (string, error) {
	return plot(passes, "empirical order log2(K) vs halving", func(r convergence.Row) float64 { return r.Order })
}

// PlotErrors charts log10|diff1| per row for each pass.
func PlotErrors(passes []*convergence.Pass) (string, error) {
	return plot(passes, "log10 |exact - I_n| vs halving", func(r convergence.Row) float64 {
		return math.Log10(math.Abs(r.Diff1))
	})
}
