package checks

import (
	"math"

	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// SpanDepth checks clear span / overall depth >= 4 (IS 13920 6.1.4)
func SpanDepth(g section.Geometry, span float64) Result {
	ratio := span / g.Depth
	return atLeast(NameSpanDepth, ratio, is456.MinSpanDepth,
		"clear span / D = %.2f", ratio)
}

// MinWidth checks b >= 200 mm (IS 13920 6.1.3)
func MinWidth(g section.Geometry) Result {
	return atLeast(NameMinWidth, g.Width, is456.MinWidth,
		"web width %.0f mm", g.Width)
}

// WidthDepth checks b / D >= 0.3 (IS 13920 6.1.2)
func WidthDepth(g section.Geometry) Result {
	ratio := g.Width / g.Depth
	return atLeast(NameWidthDepth, ratio, is456.MinWidthDepth,
		"b / D = %.3f", ratio)
}

// LateralStability limits the distance between lateral restraints
// Section 23.3
func LateralStability(g section.Geometry, span float64, support Support) Result {
	b, d := g.Width, g.EffectiveDepth
	limit := math.Min(60*b, 250*b*b/d)
	if support == Cantilever {
		limit = math.Min(25*b, 100*b*b/d)
	}
	return atMost(NameLateralStability, span, limit,
		"unrestrained length %.0f mm (%s)", span, support)
}

// Cover checks the clear cover against the exposure minimum (Table 16)
func Cover(g section.Geometry, exposure Exposure) Result {
	return atLeast(NameCover, g.Cover, exposure.NominalCover(),
		"clear cover %.0f mm for %s exposure", g.Cover, exposure)
}

// SteelBounds checks minimum and maximum tension steel and maximum
// compression steel. Section 26.5.1.1, 26.5.1.2; IS 13920 6.2.1 when
// ductile.
func SteelBounds(g section.Geometry, grades is456.Grades, ast, asc float64, ductile bool) []Result {
	b, d := g.Width, g.EffectiveDepth

	minAst := is456.MinTensionSteel(grades.Steel, b, d)
	maxAst := is456.MaxSteelRatio * g.GrossArea()
	if ductile {
		minAst = is456.MinTensionSteelDuctile(grades, b, d)
		maxAst = is456.MaxSteelRatioDuctile * b * d
	}
	maxAsc := is456.MaxSteelRatio * g.GrossArea()

	return []Result{
		atLeast(NameMinTension, ast, minAst, "Ast provided %.1f mm²", ast),
		atMost(NameMaxTension, ast, maxAst, "Ast provided %.1f mm²", ast),
		atMost(NameMaxCompression, asc, maxAsc, "Asc provided %.1f mm²", asc),
	}
}

// ConfinementSpacing returns the hoop spacing over the confinement zone
// near each support, rounded down to the spacing increment, and the zone
// length 2d. IS 13920 6.3.5
func ConfinementSpacing(g section.Geometry, minBarDia float64, increment float64) (spacing, zone float64) {
	d := g.EffectiveDepth
	s := math.Min(d/4, 100)
	if minBarDia > 0 {
		s = math.Min(s, 8*minBarDia)
	}
	return math.Floor(s/increment) * increment, 2 * d
}

// Confinement passes when the confinement spacing is still buildable.
func Confinement(g section.Geometry, minBarDia float64, opts Options) Result {
	s, zone := ConfinementSpacing(g, minBarDia, opts.SpacingIncrement)
	return atLeast(NameConfinement, s, opts.MinPracticalSpacing,
		"hoops at %.0f mm over %.0f mm from each support", s, zone)
}
