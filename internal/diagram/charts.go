package diagram

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/sensitivity"
)

// ChartCeiling clips utilizations of infeasible cases on charts.
const ChartCeiling = 2.0

// UtilizationChart plots the utilization of every load case of a verdict,
// in case order, with the unit line as the upper bound of the axis.
// It returns an empty string when the verdict has no evaluated cases.
func UtilizationChart(v compliance.Verdict) string {
	if len(v.Cases) == 0 {
		return ""
	}

	series := make([]float64, len(v.Cases))
	ids := make([]string, len(v.Cases))
	for i, c := range v.Cases {
		series[i] = min(c.Utilization, ChartCeiling)
		ids[i] = c.Case.ID
	}
	// asciigraph needs two points to draw a line
	if len(series) == 1 {
		series = append(series, series[0])
	}

	graph := asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(max(len(series)*6, 30)),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.Caption("utilization by case: "+strings.Join(ids, ", ")),
	)
	return graph + "\n"
}

// SensitivityBars renders a text tornado of normalised impacts.
func SensitivityBars(r sensitivity.Result, width int) string {
	var sb strings.Builder
	for _, e := range r.Entries {
		if e.Skipped != "" {
			sb.WriteString(fmt.Sprintf("  %-15s (skipped: %s)\n", e.Parameter, e.Skipped))
			continue
		}
		bar := strings.Repeat("█", int(e.Normalized*float64(width)+0.5))
		sb.WriteString(fmt.Sprintf("  %-15s %-*s %+.4f / %+.4f\n", e.Parameter, width, bar, e.Up.Change, e.Down.Change))
	}
	return sb.String()
}

// ExportTornado exports a tornado chart of utilization changes: one bar
// pair per parameter, largest impact at the top.
func ExportTornado(r sensitivity.Result, filename string) error {
	if len(r.Entries) == 0 {
		return fmt.Errorf("sensitivity result has no entries")
	}

	n := len(r.Entries)
	up := make(plotter.Values, n)
	down := make(plotter.Values, n)
	names := make([]string, n)
	// Plot bottom-up so the ranking reads top-down
	for i, e := range r.Entries {
		k := n - 1 - i
		up[k] = e.Up.Change
		down[k] = e.Down.Change
		names[k] = string(e.Parameter)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Sensitivity (base utilization %.3f)", r.Base)
	p.X.Label.Text = "Change in utilization"

	barWidth := vg.Points(12)
	upBars, err := plotter.NewBarChart(up, barWidth)
	if err != nil {
		return err
	}
	upBars.Horizontal = true
	upBars.Color = color.RGBA{R: 205, G: 92, B: 92, A: 255}
	upBars.Offset = -barWidth / 2

	downBars, err := plotter.NewBarChart(down, barWidth)
	if err != nil {
		return err
	}
	downBars.Horizontal = true
	downBars.Color = compressionFill
	downBars.Offset = barWidth / 2

	p.Add(upBars, downBars, plotter.NewGrid())
	p.Legend.Add("increase", upBars)
	p.Legend.Add("decrease", downBars)
	p.Legend.Top = true
	p.NominalY(names...)

	return save(p, 7*vg.Inch, vg.Length(n+2)*0.6*vg.Inch, filename)
}
