package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/rcbeam/internal/section"
)

var (
	compressionFill = color.RGBA{R: 100, G: 149, B: 237, A: 150}
	compressionEdge = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	steelColor      = color.RGBA{R: 139, G: 69, B: 19, A: 255}
	axisColor       = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	yieldColor      = color.RGBA{R: 255, G: 165, B: 0, A: 255}
)

// ExportSectionDiagram exports a beam section diagram to an image file.
// The format follows the extension (.png, .svg or .pdf); anything else
// gets .png appended.
func ExportSectionDiagram(data SectionData, filename string) error {
	if len(data.Vertices) < 3 {
		return fmt.Errorf("section outline needs at least 3 vertices")
	}

	p := plot.New()
	p.Title.Text = "Beam Section at Ultimate Limit State"
	p.X.Label.Text = "Width (mm)"
	p.Y.Label.Text = "Height (mm)"

	outline := make(plotter.XYs, len(data.Vertices)+1)
	minX, maxX := data.Vertices[0].X, data.Vertices[0].X
	for i, v := range data.Vertices {
		outline[i] = plotter.XY{X: v.X, Y: v.Y}
		minX = min(minX, v.X)
		maxX = max(maxX, v.X)
	}
	outline[len(data.Vertices)] = outline[0]

	beamLine, err := plotter.NewLine(outline)
	if err != nil {
		return err
	}
	beamLine.LineStyle.Width = vg.Points(2)
	beamLine.LineStyle.Color = color.Black
	p.Add(beamLine)

	// Whole compression zone; the parabolic-rectangular block acts over xu
	if zone := clipSectionAtDepth(data.Vertices, data.Height, data.NeutralAxisDepth); len(zone) >= 3 {
		poly, err := plotter.NewPolygon(zone)
		if err != nil {
			return err
		}
		poly.Color = compressionFill
		poly.LineStyle.Color = compressionEdge
		p.Add(poly)
	}

	naY := data.Height - data.NeutralAxisDepth
	naLine, err := plotter.NewLine(plotter.XYs{{X: minX - 20, Y: naY}, {X: maxX + 20, Y: naY}})
	if err != nil {
		return err
	}
	naLine.LineStyle.Width = vg.Points(1.5)
	naLine.LineStyle.Color = axisColor
	naLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(naLine)

	tensionY := data.Height - data.TensionSteelDepth
	webMinX, webMaxX := findWidthAtY(data.Vertices, tensionY, minX, maxX)
	if err := addBars(p, webMinX, webMaxX, tensionY, max(data.TensionBarCount, 2), vg.Points(6)); err != nil {
		return err
	}

	labels := plotter.XYLabels{
		XYs: []plotter.XY{
			{X: maxX + 30, Y: naY},
			{X: maxX + 30, Y: data.Height - data.NeutralAxisDepth/2},
			{X: (webMinX + webMaxX) / 2, Y: tensionY - 25},
		},
		Labels: []string{
			"N.A.",
			fmt.Sprintf("xu=%.1fmm", data.NeutralAxisDepth),
			fmt.Sprintf("Ast=%.0fmm²", data.TensionSteelArea),
		},
	}

	if data.IsDoubly && data.CompSteelArea > 0 {
		compY := data.Height - data.CompSteelDepth
		lo, hi := findWidthAtY(data.Vertices, compY, minX, maxX)
		if err := addBars(p, lo, hi, compY, 2, vg.Points(5)); err != nil {
			return err
		}
		labels.XYs = append(labels.XYs, plotter.XY{X: (lo + hi) / 2, Y: compY - 25})
		labels.Labels = append(labels.Labels, fmt.Sprintf("Asc=%.0fmm²", data.CompSteelArea))
	}

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return err
	}
	p.Add(l)

	return save(p, 8*vg.Inch, 6*vg.Inch, filename)
}

// addBars spreads count bars across the middle of the web at height y.
func addBars(p *plot.Plot, lo, hi, y float64, count int, radius vg.Length) error {
	inset := (hi - lo) * 0.15
	step := (hi - lo - 2*inset) / float64(count-1)
	pts := make(plotter.XYs, count)
	for i := range pts {
		pts[i] = plotter.XY{X: lo + inset + float64(i)*step, Y: y}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = steelColor
	s.GlyphStyle.Radius = radius
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(s)
	return nil
}

// save writes the plot, creating the directory if needed.
func save(p *plot.Plot, width, height vg.Length, filename string) error {
	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}

// clipSectionAtDepth clips the section polygon at a given depth from top
// Returns the vertices of the clipped (compression zone) polygon
func clipSectionAtDepth(vertices []section.Point, height, depth float64) plotter.XYs {
	if len(vertices) < 3 || depth <= 0 {
		return nil
	}

	clipY := height - depth
	var result plotter.XYs

	n := len(vertices)
	for i := 0; i < n; i++ {
		curr := vertices[i]
		next := vertices[(i+1)%n]

		currAbove := curr.Y >= clipY
		nextAbove := next.Y >= clipY

		if currAbove {
			result = append(result, plotter.XY{X: curr.X, Y: curr.Y})
		}
		if currAbove != nextAbove {
			t := (clipY - curr.Y) / (next.Y - curr.Y)
			result = append(result, plotter.XY{X: curr.X + t*(next.X-curr.X), Y: clipY})
		}
	}

	return result
}

// findWidthAtY returns the outer extent of the section at height y, or
// the defaults when the line misses it.
func findWidthAtY(vertices []section.Point, y, defaultMin, defaultMax float64) (float64, float64) {
	xs := section.Crossings(vertices, y)
	if len(xs) < 2 {
		return defaultMin, defaultMax
	}
	return xs[0], xs[len(xs)-1]
}

// ExportStrainDiagram exports a strain distribution diagram
func ExportStrainDiagram(data SectionData, filename string) error {
	p := plot.New()
	p.Title.Text = "Strain Distribution"
	p.X.Label.Text = "Strain (compression +)"
	p.Y.Label.Text = "Height (mm)"

	naY := data.Height - data.NeutralAxisDepth
	steelY := data.Height - data.TensionSteelDepth
	key := plotter.XYs{
		{X: data.EpsilonCU, Y: data.Height},
		{X: 0, Y: naY},
		{X: -data.EpsilonT, Y: steelY},
	}

	strainLine, err := plotter.NewLine(key)
	if err != nil {
		return err
	}
	strainLine.LineStyle.Width = vg.Points(2)
	strainLine.LineStyle.Color = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	p.Add(strainLine)

	zeroLine, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 0, Y: data.Height}})
	if err != nil {
		return err
	}
	zeroLine.LineStyle.Width = vg.Points(1)
	zeroLine.LineStyle.Color = color.Gray{Y: 128}
	zeroLine.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(zeroLine)

	// Design yield strain, tension side
	yieldLine, err := plotter.NewLine(plotter.XYs{{X: -data.EpsilonY, Y: 0}, {X: -data.EpsilonY, Y: data.Height}})
	if err != nil {
		return err
	}
	yieldLine.LineStyle.Color = yieldColor
	yieldLine.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(yieldLine)

	points, err := plotter.NewScatter(key)
	if err != nil {
		return err
	}
	points.GlyphStyle.Color = axisColor
	points.GlyphStyle.Radius = vg.Points(4)
	p.Add(points)

	return save(p, 6*vg.Inch, 8*vg.Inch, filename)
}
