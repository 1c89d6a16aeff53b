// Package shear sizes vertical stirrups for a beam section under a
// factored shear force (IS 456:2000 Section 40).
package shear

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/rcerr"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// Infeasibility reasons
const (
	ReasonSectionTooSmall = "section-too-small-for-shear"
	ReasonNoStirrupFits   = "no-stirrup-fits"
)

// Spacing limit that governed the chosen spacing
const (
	LimitStrength       = "strength"
	LimitMinReinforcing = "minimum-shear-reinforcement"
	LimitDepthMultiple  = "depth-multiple"
	LimitAbsoluteCap    = "absolute-cap"
)

// Options controls stirrup selection.
type Options struct {
	StirrupDiameters []float64 `yaml:"stirrup_diameters"` // ascending (mm)
	Legs             int       `yaml:"legs"`
	SpacingIncrement float64   `yaml:"spacing_increment"`  // rounding step (mm)
	MinSpacing       float64   `yaml:"min_spacing"`        // minimum practical spacing (mm)
	MaxSpacing       float64   `yaml:"max_spacing"`        // absolute cap (mm)
	MaxSpacingFactor float64   `yaml:"max_spacing_factor"` // cap as a multiple of d
}

// DefaultOptions returns the IS 456 40.4 / 26.5.1.5 defaults.
func DefaultOptions() Options {
	return Options{
		StirrupDiameters: []float64{8, 10, 12},
		Legs:             2,
		SpacingIncrement: 25,
		MinSpacing:       75,
		MaxSpacing:       300,
		MaxSpacingFactor: 0.75,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if len(o.StirrupDiameters) == 0 {
		return fmt.Errorf("shear: no stirrup diameters")
	}
	for i := 1; i < len(o.StirrupDiameters); i++ {
		if o.StirrupDiameters[i] <= o.StirrupDiameters[i-1] {
			return fmt.Errorf("shear: stirrup diameters must be strictly ascending")
		}
	}
	if o.Legs < 2 {
		return fmt.Errorf("shear: at least two legs required, got %d", o.Legs)
	}
	if o.SpacingIncrement <= 0 || o.MinSpacing <= 0 || o.MaxSpacing < o.MinSpacing || o.MaxSpacingFactor <= 0 {
		return fmt.Errorf("shear: invalid spacing limits")
	}
	return nil
}

// Result holds the results of shear design
type Result struct {
	Shear float64 `json:"shear"` // Vu (kN)

	// Stresses (MPa)
	Tv    float64 `json:"tv"`     // nominal shear stress
	Tc    float64 `json:"tc"`     // design shear strength of concrete
	TcMax float64 `json:"tc_max"` // maximum shear stress

	// Table lookup
	Pt          float64 `json:"pt"`           // pt used (%)
	PtRequested float64 `json:"pt_requested"` // pt before clamping (%)

	// Forces (kN)
	Vc  float64 `json:"vc"`  // concrete contribution
	Vus float64 `json:"vus"` // required from stirrups

	// Stirrups
	Diameter         float64 `json:"diameter"` // mm
	Legs             int     `json:"legs"`
	Asv              float64 `json:"asv"`               // mm²
	Spacing          float64 `json:"spacing"`           // after rounding down (mm)
	SpacingUnrounded float64 `json:"spacing_unrounded"` // mm
	GoverningLimit   string  `json:"governing_limit"`

	Capacity float64 `json:"capacity"` // Vc + Vs with provided stirrups (kN)

	Safe     bool            `json:"safe"`
	Reason   string          `json:"reason,omitempty"`
	Warnings []rcerr.Warning `json:"warnings,omitempty"`
}

// Density returns the stirrup area per unit length Asv/sv (mm²/mm).
func (r Result) Density() float64 {
	if r.Spacing <= 0 {
		return 0
	}
	return r.Asv / r.Spacing
}

// Utilization returns Vu / capacity, or τv / τc,max when the section is
// too small for shear.
func (r Result) Utilization() float64 {
	if r.Reason == ReasonSectionTooSmall {
		return r.Tv / r.TcMax
	}
	if r.Capacity <= 0 {
		return math.Inf(1)
	}
	return math.Abs(r.Shear) / r.Capacity
}

// Solver designs stirrups using the injected code tables.
type Solver struct {
	Tables  is456.Tables
	Options Options
}

// NewSolver creates a shear solver.
func NewSolver(tables is456.Tables, opts Options) *Solver {
	return &Solver{Tables: tables, Options: opts}
}

// Design sizes stirrups for shear vu (kN) with tension steel pt (%).
func (s *Solver) Design(g section.Geometry, grades is456.Grades, vu, pt float64) (Result, error) {
	b, d := g.Width, g.EffectiveDepth
	fy := grades.Fy()
	opts := s.Options

	result := Result{
		Shear: vu,
		Legs:  opts.Legs,
	}

	vuN := math.Abs(vu) * 1e3
	result.Tv = vuN / (b * d)

	lookup, err := s.Tables.CapacityRatio(grades, pt)
	if err != nil {
		return result, fmt.Errorf("shear strength lookup: %w", err)
	}
	if w, ok := lookup.Warning(); ok {
		result.Warnings = append(result.Warnings, w)
	}
	result.Tc = lookup.Value
	result.Pt = lookup.Pt
	result.PtRequested = lookup.RequestedPt

	result.TcMax, err = s.Tables.MaxShearStress.At(grades.Concrete)
	if err != nil {
		return result, fmt.Errorf("maximum shear stress lookup: %w", err)
	}

	vcN := result.Tc * b * d
	result.Vc = vcN / 1e3

	if result.Tv > result.TcMax {
		result.Reason = ReasonSectionTooSmall
		result.Capacity = result.TcMax * b * d / 1e3
		return result, nil
	}

	vusN := math.Max(vuN-vcN, 0)
	result.Vus = vusN / 1e3

	for _, dia := range opts.StirrupDiameters {
		asv := float64(opts.Legs) * is456.BarArea(dia)
		spacing, limit := s.spacingLimit(asv, b, d, fy, vusN)
		rounded := math.Floor(spacing/opts.SpacingIncrement) * opts.SpacingIncrement

		result.Diameter = dia
		result.Asv = asv
		result.SpacingUnrounded = spacing
		result.GoverningLimit = limit

		if rounded < opts.MinSpacing {
			continue
		}

		result.Spacing = rounded
		if rounded != spacing {
			result.Warnings = append(result.Warnings, rcerr.Warn(rcerr.WarnSpacingRounded,
				"stirrup spacing %.2f mm rounded down to %.0f mm", spacing, rounded))
		}
		result.Capacity = (vcN + is456.SteelDesignFactor*fy*asv*d/rounded) / 1e3
		result.Safe = true
		return result, nil
	}

	// Nothing fits: report the strongest option at the minimum spacing
	result.Reason = ReasonNoStirrupFits
	result.Spacing = 0
	result.Capacity = (vcN + is456.SteelDesignFactor*fy*result.Asv*d/opts.MinSpacing) / 1e3
	return result, nil
}

// spacingLimit returns the smallest of the strength, minimum shear
// reinforcement, depth multiple and absolute cap spacings.
// IS 456 40.4 (a), 26.5.1.5, 26.5.1.6
func (s *Solver) spacingLimit(asv, b, d, fy, vusN float64) (float64, string) {
	opts := s.Options
	spacing, limit := math.Inf(1), LimitStrength
	if vusN > 0 {
		spacing = is456.SteelDesignFactor * fy * asv * d / vusN
	}

	candidates := []struct {
		value float64
		name  string
	}{
		{is456.SteelDesignFactor * fy * asv / (0.4 * b), LimitMinReinforcing},
		{opts.MaxSpacingFactor * d, LimitDepthMultiple},
		{opts.MaxSpacing, LimitAbsoluteCap},
	}
	for _, c := range candidates {
		if c.value < spacing {
			spacing, limit = c.value, c.name
		}
	}
	return spacing, limit
}
