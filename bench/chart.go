package bench

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// WriteChart renders a grouped bar chart of latency per operation, one bar
// group per operation and one color per structure. The image format follows
// the extension of path (.png, .svg, .pdf, ...).
func WriteChart(path string, results []BenchResult) error {
	if len(results) == 0 {
		return errors.New("bench: no results to chart")
	}

	var structures, ops []string
	latency := make(map[string]map[string]float64)
	for _, r := range results {
		s := r.Name + " " + r.Config
		if _, ok := latency[s]; !ok {
			latency[s] = make(map[string]float64)
			structures = append(structures, s)
		}
		if !slices.Contains(ops, r.Operation) {
			ops = append(ops, r.Operation)
		}
		latency[s][r.Operation] = float64(r.LatencyNs)
	}

	p := plot.New()
	p.Title.Text = "Latency per operation"
	p.Y.Label.Text = "ns/op"

	w := vg.Points(10)
	for i, s := range structures {
		vals := make(plotter.Values, len(ops))
		for j, op := range ops {
			vals[j] = latency[s][op]
		}
		bars, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return fmt.Errorf("bench: chart: %w", err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = w * vg.Length(float64(i)-float64(len(structures)-1)/2)

		p.Add(bars)
		p.Legend.Add(s, bars)
	}
	p.Legend.Top = true
	p.NominalX(ops...)

	if err := p.Save(12*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("bench: save chart: %w", err)
	}
	return nil
}

