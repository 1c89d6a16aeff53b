package beam

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/rcerr"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// Outcome tags a flexure design result.
type Outcome string

const (
	Feasible              Outcome = "feasible"
	NeedsCompressionSteel Outcome = "needs-compression-steel"
	Infeasible            Outcome = "infeasible"
)

// Classification of the section at the design point
type Classification string

const (
	UnderReinforced       Classification = "under-reinforced"
	OverReinforced        Classification = "over-reinforced"
	CompressionSteelReqd  Classification = "needs-compression-steel"
	ClassificationUnknown Classification = ""
)

// Face identifies the tension face of the section.
type Face string

const (
	Bottom Face = "bottom"
	Top    Face = "top"
)

// Infeasibility reasons
const (
	ReasonNoRealRoot       = "no-real-root"
	ReasonExceedsMaxSteel  = "exceeds-max-steel"
	ReasonCompressionSteel = "compression-steel-ineffective"
	ReasonNoConvergence    = "no-convergence"
)

// Flexure designs a rectangular or flanged section for bending.
type Flexure struct {
	Geometry section.Geometry
	Grades   is456.Grades
}

// NewFlexure creates a flexure solver for a validated section.
func NewFlexure(g section.Geometry, grades is456.Grades) *Flexure {
	return &Flexure{Geometry: g, Grades: grades}
}

// FlexureResult holds the results of flexural design for one moment
type FlexureResult struct {
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`

	// Input
	Moment      float64 `json:"moment"` // Mu, signed (kN-m)
	TensionFace Face    `json:"tension_face"`
	Flanged     bool    `json:"flanged"` // flange effective in compression

	// Reinforcement (mm²)
	AstRequired   float64 `json:"ast_required"`   // tension steel after minimum steel
	AstCalculated float64 `json:"ast_calculated"` // before minimum steel
	AstMin        float64 `json:"ast_min"`
	AscRequired   float64 `json:"asc_required"` // zero unless doubly reinforced

	// Section at the design point
	Xu             float64        `json:"xu"`     // neutral axis depth (mm)
	XuMax          float64        `json:"xu_max"` // limiting neutral axis depth (mm)
	Classification Classification `json:"classification"`
	Fsc            float64        `json:"fsc,omitempty"` // compression steel stress (MPa)
	Iterations     int            `json:"iterations"`

	// Capacity (kN-m)
	MuLim float64 `json:"mu_lim"` // singly reinforced limiting moment
	MuMax float64 `json:"mu_max"` // with maximum permitted steel

	Warnings []rcerr.Warning `json:"warnings,omitempty"`
}

// Utilization returns |Mu| / MuMax, used when no steel could be provided.
func (r FlexureResult) Utilization() float64 {
	if r.MuMax <= 0 {
		return math.Inf(1)
	}
	return math.Abs(r.Moment) / r.MuMax
}

// block returns the stress block for the given moment sign. Flanges only
// act when they are on the compression side (sagging).
func (f *Flexure) block(hogging bool) stressBlock {
	g := f.Geometry
	bf, df := g.Width, 0.0
	if g.IsFlanged() && !hogging {
		bf, df = g.FlangeWidth, g.FlangeThickness
	}
	return newStressBlock(f.Grades.Fck(), g.Width, bf, df, g.EffectiveDepth)
}

// XuMax returns the limiting neutral axis depth (mm)
func (f *Flexure) XuMax() float64 {
	return is456.XuMaxRatio(f.Grades.Steel) * f.Geometry.EffectiveDepth
}

// LimitingMoment returns Mu,lim for a singly reinforced section (kN-m)
// IS 456 Annex G-1.1 (c) / G-2.2
func (f *Flexure) LimitingMoment(hogging bool) float64 {
	return f.block(hogging).moment(f.XuMax()) / 1e6
}

// compressionSteelStress returns fsc - 0.446 fck at the limiting neutral
// axis and fsc itself. ok is false when compression steel cannot work.
func (f *Flexure) compressionSteelStress() (net, fsc float64, ok bool) {
	xum := f.XuMax()
	dp := f.Geometry.CompressionSteelDepth()
	if dp >= xum {
		return 0, 0, false
	}
	eps := is456.EpsilonCU * (xum - dp) / xum
	fsc = is456.SteelStress(f.Grades.Steel, eps)
	net = fsc - is456.ConcreteDisplaced*f.Grades.Fck()
	return net, fsc, net > 0
}

// MaxMoment returns the largest design moment reachable with the maximum
// permitted tension and compression steel (kN-m).
func (f *Flexure) MaxMoment(hogging bool) float64 {
	g := f.Geometry
	fy := f.Grades.Fy()
	blk := f.block(hogging)
	xum := f.XuMax()
	lever := g.EffectiveDepth - g.CompressionSteelDepth()

	astMax := is456.MaxSteelRatio * g.GrossArea()
	ascMax := is456.MaxSteelRatio * g.GrossArea()
	astLim := blk.force(xum) / (is456.SteelDesignFactor * fy)

	if astMax <= astLim {
		return f.Capacity(astMax, 0, hogging).MuR
	}
	muLim := blk.moment(xum)
	net, _, ok := f.compressionSteelStress()
	if !ok {
		return muLim / 1e6
	}
	mu2Tension := (astMax - astLim) * is456.SteelDesignFactor * fy * lever
	mu2Comp := ascMax * net * lever
	return (muLim + math.Min(mu2Tension, mu2Comp)) / 1e6
}

// Design calculates required reinforcement for the signed factored moment
func (f *Flexure) Design(mu float64) FlexureResult {
	g := f.Geometry
	fck, fy := f.Grades.Fck(), f.Grades.Fy()
	hogging := mu < 0
	d := g.EffectiveDepth

	result := FlexureResult{
		Moment:      mu,
		TensionFace: Bottom,
	}
	if hogging {
		result.TensionFace = Top
	}

	blk := f.block(hogging)
	result.Flanged = blk.flanged
	result.XuMax = f.XuMax()
	result.MuLim = blk.moment(result.XuMax) / 1e6
	result.MuMax = f.MaxMoment(hogging)
	result.AstMin = is456.MinTensionSteel(f.Grades.Steel, g.Width, d)

	muNmm := math.Abs(mu) * 1e6
	muLimNmm := result.MuLim * 1e6

	if muNmm <= muLimNmm {
		xu, iters, reason := f.singlyNeutralAxis(blk, muNmm)
		result.Iterations = iters
		if reason != "" {
			result.Outcome = Infeasible
			result.Reason = reason
			return result
		}
		result.Outcome = Feasible
		result.Classification = UnderReinforced
		result.Xu = xu
		result.AstCalculated = blk.force(xu) / (is456.SteelDesignFactor * fy)
	} else {
		// Doubly reinforced: Mu,lim from concrete + steel couple for the rest
		result.Outcome = NeedsCompressionSteel
		result.Classification = CompressionSteelReqd
		result.Xu = result.XuMax

		net, fsc, ok := f.compressionSteelStress()
		if !ok {
			result.Outcome = Infeasible
			result.Reason = ReasonCompressionSteel
			return result
		}
		lever := d - g.CompressionSteelDepth()
		mu2 := muNmm - muLimNmm
		astLim := blk.force(result.XuMax) / (is456.SteelDesignFactor * fy)
		ast2 := mu2 / (is456.SteelDesignFactor * fy * lever)

		result.Fsc = fsc
		result.AstCalculated = astLim + ast2
		result.AscRequired = mu2 / (net * lever)
	}

	result.AstRequired = result.AstCalculated
	if result.AstRequired < result.AstMin {
		result.AstRequired = result.AstMin
		result.Warnings = append(result.Warnings, rcerr.Warn(rcerr.WarnMinSteelGoverns,
			"minimum steel %.1f mm² governs over calculated %.1f mm² (fck=%g)", result.AstMin, result.AstCalculated, fck))
	}

	if math.Abs(mu) > result.MuMax {
		result.Outcome = Infeasible
		result.Reason = ReasonExceedsMaxSteel
	}

	return result
}

// singlyNeutralAxis finds xu for a singly reinforced section. The
// closed-form root is tried first; flanged sections whose neutral axis
// falls below the flange are re-solved by bisection on the web + flange
// model.
func (f *Flexure) singlyNeutralAxis(blk stressBlock, muNmm float64) (xu float64, iterations int, reason string) {
	if muNmm == 0 {
		return 0, 0, ""
	}
	xu, ok := rectangularRoot(blk.fck, blk.bf, blk.d, muNmm)
	if !blk.flanged {
		if !ok {
			return 0, 0, ReasonNoRealRoot
		}
		return xu, 0, ""
	}
	if ok && xu <= blk.df {
		return xu, 0, ""
	}

	lo, hi := blk.df, f.XuMax()
	if lo >= hi {
		// Flange deeper than xu,max: the rectangular bf model holds throughout
		if !ok {
			return 0, 0, ReasonNoRealRoot
		}
		return xu, 0, ""
	}
	// Neutral axis held at the flange soffit when the flanged moment there
	// already exceeds the demand.
	if blk.moment(lo) >= muNmm {
		return lo, 0, ""
	}
	xu, iters, converged := bisect(lo, hi, func(x float64) float64 {
		return blk.moment(x) - muNmm
	})
	if !converged {
		return 0, iters, ReasonNoConvergence
	}
	return xu, iters, ""
}

// String summarises the result in one line.
func (r FlexureResult) String() string {
	switch r.Outcome {
	case Infeasible:
		return fmt.Sprintf("infeasible (%s): Mu=%.2f kN-m, Mu,max=%.2f kN-m", r.Reason, r.Moment, r.MuMax)
	case NeedsCompressionSteel:
		return fmt.Sprintf("doubly reinforced: Ast=%.1f mm², Asc=%.1f mm²", r.AstRequired, r.AscRequired)
	}
	return fmt.Sprintf("singly reinforced: Ast=%.1f mm², xu=%.1f mm", r.AstRequired, r.Xu)
}
