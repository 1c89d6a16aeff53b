package checks

import (
	"math"

	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// SimpsonIntervals is the number of integration intervals along the span
// for the curvature method (even).
const SimpsonIntervals = 64

// DeflectionLimit is the final deflection limit as a fraction of span
// Section 23.2 (a)
const DeflectionLimit = 1.0 / 250

// basicSpanDepth returns the basic span/effective depth ratio
// Section 23.2.1 (a)
func basicSpanDepth(support Support) float64 {
	switch support {
	case Cantilever:
		return 7
	case Continuous:
		return 26
	}
	return 20
}

// TensionModifier returns kt from the steel service stress fs (MPa) and
// tension steel percentage pt. Curve fit of Fig. 4, capped at 2.0.
func TensionModifier(fs, pt float64) float64 {
	if pt <= 0 {
		return 2
	}
	denom := 0.225 + 0.00322*fs - 0.625*math.Log10(1/pt)
	if denom <= 0.5 {
		return 2
	}
	return 1 / denom
}

// CompressionModifier returns kc for compression steel percentage pc
// (Fig. 5), capped at 1.5.
func CompressionModifier(pc float64) float64 {
	if pc <= 0 {
		return 1
	}
	return math.Min(1+pc/(3+pc), 1.5)
}

// FlangeModifier returns kf for flanged sections (Fig. 6).
func FlangeModifier(g section.Geometry) float64 {
	if !g.IsFlanged() {
		return 1
	}
	r := g.Width / g.FlangeWidth
	if r <= 0.3 {
		return 0.8
	}
	return 0.8 + 0.2*(r-0.3)/0.7
}

// SimplifiedDeflection checks span/d against the modified basic ratio
// Section 23.2.1
func SimplifiedDeflection(in Input) Result {
	g := in.Geometry
	d := g.EffectiveDepth
	ratio := in.Span / d

	if in.Ast <= 0 {
		return missing(NameDeflection, ratio, "no tension steel provided")
	}

	basic := basicSpanDepth(in.Support)
	if in.Support != Cantilever && in.Span > 10000 {
		basic *= 10000 / in.Span
	}

	width := g.Width
	if g.IsFlanged() {
		width = g.FlangeWidth
	}
	fs := 0.58 * in.Grades.Fy() * math.Min(in.AstRequired, in.Ast) / in.Ast
	pt := 100 * in.Ast / (width * d)
	pc := 100 * in.Asc / (width * d)

	kt := TensionModifier(fs, pt)
	kc := CompressionModifier(pc)
	kf := FlangeModifier(g)
	limit := basic * kt * kc * kf

	return atMost(NameDeflection, ratio, limit,
		"span/d = %.2f, allowed %.0f x kt %.2f x kc %.2f x kf %.2f", ratio, basic, kt, kc, kf)
}

// crackedSection is the transformed cracked section about its elastic
// neutral axis.
type crackedSection struct {
	x  float64 // neutral axis depth (mm)
	ir float64 // cracked moment of inertia (mm⁴)
}

// cracked solves the elastic neutral axis of a cracked section with
// compression face width bf over depth df and web width bw below it.
// A rectangular section passes bf == bw.
func cracked(bw, bf, df, d, dp, ast, asc, m float64) crackedSection {
	steelA := m*ast + (m-1)*asc
	steelM := m*ast*d + (m-1)*asc*dp

	// Neutral axis within the flange (or rectangular)
	x := quadraticRoot(bf/2, steelA, steelM)
	if bf <= bw || x <= df {
		ir := bf*x*x*x/3 + (m-1)*asc*(x-dp)*(x-dp) + m*ast*(d-x)*(d-x)
		return crackedSection{x: x, ir: ir}
	}

	flange := (bf - bw) * df
	x = quadraticRoot(bw/2, flange+steelA, flange*df/2+steelM)
	ir := bw*x*x*x/3 +
		(bf-bw)*(df*df*df/12+df*(x-df/2)*(x-df/2)) +
		(m-1)*asc*(x-dp)*(x-dp) + m*ast*(d-x)*(d-x)
	return crackedSection{x: x, ir: ir}
}

// quadraticRoot returns the positive root of a x² + b x - c = 0.
func quadraticRoot(a, b, c float64) float64 {
	return (-b + math.Sqrt(b*b+4*a*c)) / (2 * a)
}

// crackedFor returns the cracked section for the tension face of the case.
// Flanges only count on the compression side.
func crackedFor(in Input, m float64) (crackedSection, float64) {
	g := in.Geometry
	bf, df := g.Width, 0.0
	if g.IsFlanged() && in.Moment >= 0 {
		bf, df = g.FlangeWidth, g.FlangeThickness
	}
	cs := cracked(g.Width, bf, df, g.EffectiveDepth, g.CompressionSteelDepth(), in.Ast, in.Asc, m)
	return cs, bf
}

// shape returns the normalised service moment m(ξ), max |m| = 1, and the
// virtual moment from a unit load at the point of maximum deflection.
func shape(support Support, span, xi float64) (m, virtual float64) {
	switch support {
	case Cantilever:
		// Fixed at ξ = 0, unit load at the tip
		return -(1 - xi) * (1 - xi), -span * (1 - xi)
	case Continuous:
		// Fixed-ended under uniform load; supports govern
		m = 6*xi*(1-xi) - 1
	default:
		m = 4 * xi * (1 - xi)
	}
	return m, span * math.Min(xi, 1-xi) / 2
}

// CurvatureDeflection integrates curvature along the span by Simpson's
// rule using the effective moment of inertia at each station.
// Annex C-2, C-4 (creep via effective modulus Ec / (1 + θ))
func (c *Checker) CurvatureDeflection(in Input) Result {
	g := in.Geometry
	span := in.Span
	limit := span * DeflectionLimit
	if in.Ast <= 0 {
		return missing(NameDeflection, limit, "no tension steel provided")
	}

	m, err := c.Tables.ModularRatio(in.Grades.Concrete)
	if err != nil {
		return missing(NameDeflection, limit, err.Error())
	}

	ms := math.Abs(in.Moment) / c.Options.ServiceFactor * 1e6
	ece := is456.Ec(in.Grades.Concrete) / (1 + c.Options.CreepCoefficient)

	props := g.Properties()
	yt := props.CentroidY
	if in.Moment < 0 {
		yt = g.Depth - props.CentroidY
	}
	mr := is456.Fcr(in.Grades.Concrete) * props.Inertia / yt

	cs, bc := crackedFor(in, m)
	d := g.EffectiveDepth
	z := d - cs.x/3
	ieff := func(moment float64) float64 {
		if moment <= mr {
			return props.Inertia
		}
		i := cs.ir / (1.2 - (mr/moment)*(z/d)*(1-cs.x/d)*(g.Width/bc))
		return math.Max(cs.ir, math.Min(i, props.Inertia))
	}

	h := span / SimpsonIntervals
	var sum float64
	for i := 0; i <= SimpsonIntervals; i++ {
		xi := float64(i) / SimpsonIntervals
		mShape, virtual := shape(in.Support, span, xi)
		moment := ms * mShape
		kappa := moment / (ece * ieff(math.Abs(moment)))

		w := 2.0
		switch {
		case i == 0 || i == SimpsonIntervals:
			w = 1
		case i%2 == 1:
			w = 4
		}
		sum += w * kappa * virtual
	}
	delta := math.Abs(sum * h / 3)

	return atMost(NameDeflection, delta, limit,
		"long-term deflection %.2f mm, allowed span/250 = %.2f mm", delta, limit)
}

// CrackWidth computes the design surface crack width at the soffit midway
// between tension bars. Annex F
func (c *Checker) CrackWidth(in Input) Result {
	limit := in.Exposure.CrackWidthLimit()
	if in.Ast <= 0 || in.BarDiameter <= 0 {
		return missing(NameCrackWidth, limit, "no tension steel provided")
	}

	m, err := c.Tables.ModularRatio(in.Grades.Concrete)
	if err != nil {
		return missing(NameCrackWidth, limit, err.Error())
	}

	g := in.Geometry
	h, d := g.Depth, g.EffectiveDepth
	cs, _ := crackedFor(in, m)
	x := cs.x

	ms := math.Abs(in.Moment) / c.Options.ServiceFactor * 1e6
	fs := ms / (in.Ast * (d - x/3))

	eps1 := fs / is456.Es * (h - x) / (d - x)
	epsm := eps1 - g.Width*(h-x)*(h-x)/(3*is456.Es*in.Ast*(d-x))
	if epsm < 0 {
		epsm = 0
	}

	edge := h - d // tension face to bar centre
	cmin := edge - in.BarDiameter/2
	half := in.BarSpacing / 2
	acr := math.Sqrt(half*half+edge*edge) - in.BarDiameter/2

	width := 3 * acr * epsm / (1 + 2*(acr-cmin)/(h-x))
	return atMost(NameCrackWidth, width, limit,
		"crack width %.3f mm (fs = %.1f MPa, acr = %.1f mm)", width, fs, acr)
}
