// Package checks implements the ductility and serviceability checks
// applied to a designed beam section. Every check is a pure function
// returning a Result; RunAll evaluates all of them even after a failure.
package checks

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// Check names, in evaluation order
const (
	NameSpanDepth        = "span-depth-ratio"
	NameMinWidth         = "min-width"
	NameWidthDepth       = "width-depth-ratio"
	NameLateralStability = "lateral-stability"
	NameCover            = "cover"
	NameMinTension       = "min-tension-steel"
	NameMaxTension       = "max-tension-steel"
	NameMaxCompression   = "max-compression-steel"
	NameConfinement      = "confinement-spacing"
	NameDeflection       = "deflection"
	NameCrackWidth       = "crack-width"
)

// Support condition of the span
type Support string

const (
	SimplySupported Support = "simply-supported"
	Continuous      Support = "continuous"
	Cantilever      Support = "cantilever"
)

// Valid reports whether s is a known support condition.
func (s Support) Valid() bool {
	switch s {
	case SimplySupported, Continuous, Cantilever:
		return true
	}
	return false
}

// Exposure condition (IS 456 Table 3)
type Exposure string

const (
	Mild       Exposure = "mild"
	Moderate   Exposure = "moderate"
	Severe     Exposure = "severe"
	VerySevere Exposure = "very-severe"
	Extreme    Exposure = "extreme"
)

// Valid reports whether e is a known exposure class.
func (e Exposure) Valid() bool {
	_, ok := nominalCover[e]
	return ok
}

// Nominal cover to meet durability requirements (Table 16)
var nominalCover = map[Exposure]float64{
	Mild:       20,
	Moderate:   30,
	Severe:     45,
	VerySevere: 50,
	Extreme:    75,
}

// NominalCover returns the minimum nominal cover for the exposure (mm).
func (e Exposure) NominalCover() float64 { return nominalCover[e] }

// CrackWidthLimit returns the permissible surface crack width (mm).
// Section 35.3.2
func (e Exposure) CrackWidthLimit() float64 {
	switch e {
	case Mild, Moderate:
		return 0.3
	case Severe:
		return 0.2
	}
	return 0.1
}

// Fidelity selects the deflection check method.
type Fidelity string

const (
	Simplified Fidelity = "simplified" // span/depth ratio, Section 23.2.1
	Curvature  Fidelity = "curvature"  // integrated curvature, Annex C
)

// Options controls the checks.
type Options struct {
	Ductile             bool     `yaml:"ductile"` // IS 13920 limits
	Deflection          Fidelity `yaml:"deflection"`
	CreepCoefficient    float64  `yaml:"creep_coefficient"` // θ
	ServiceFactor       float64  `yaml:"service_factor"`    // Mu / Ms
	MinPracticalSpacing float64  `yaml:"min_practical_spacing"`
	SpacingIncrement    float64  `yaml:"spacing_increment"`
}

// DefaultOptions returns the default check options.
func DefaultOptions() Options {
	return Options{
		Deflection:          Simplified,
		CreepCoefficient:    1.6,
		ServiceFactor:       1.5,
		MinPracticalSpacing: 75,
		SpacingIncrement:    25,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	switch o.Deflection {
	case Simplified, Curvature:
	default:
		return fmt.Errorf("checks: unknown deflection fidelity %q", o.Deflection)
	}
	if o.CreepCoefficient < 0 {
		return fmt.Errorf("checks: creep coefficient must not be negative")
	}
	if o.ServiceFactor < 1 {
		return fmt.Errorf("checks: service factor must be at least 1, got %g", o.ServiceFactor)
	}
	if o.MinPracticalSpacing <= 0 || o.SpacingIncrement <= 0 {
		return fmt.Errorf("checks: invalid spacing limits")
	}
	return nil
}

// Result of one check
type Result struct {
	Name    string  `json:"name"`
	Pass    bool    `json:"pass"`
	Value   float64 `json:"value"`
	Limit   float64 `json:"limit"`
	Margin  float64 `json:"margin"` // relative, positive when passing
	Message string  `json:"message,omitempty"`
}

// atLeast passes when value >= limit.
func atLeast(name string, value, limit float64, format string, args ...any) Result {
	return Result{
		Name:    name,
		Pass:    value >= limit,
		Value:   value,
		Limit:   limit,
		Margin:  margin(value-limit, limit),
		Message: fmt.Sprintf(format, args...),
	}
}

// atMost passes when value <= limit.
func atMost(name string, value, limit float64, format string, args ...any) Result {
	return Result{
		Name:    name,
		Pass:    value <= limit,
		Value:   value,
		Limit:   limit,
		Margin:  margin(limit-value, limit),
		Message: fmt.Sprintf(format, args...),
	}
}

// missing fails a check that could not be evaluated.
func missing(name string, limit float64, msg string) Result {
	return Result{Name: name, Limit: limit, Margin: -1, Message: msg}
}

func margin(diff, limit float64) float64 {
	if limit == 0 {
		return diff
	}
	return diff / math.Abs(limit)
}

// Input is everything the checks need about one designed section under
// one load case.
type Input struct {
	Geometry section.Geometry
	Grades   is456.Grades
	Span     float64 // clear span (mm)
	Support  Support
	Exposure Exposure

	Moment      float64 // factored moment Mu (kN-m)
	AstRequired float64 // mm²
	Ast         float64 // provided tension steel (mm²)
	Asc         float64 // provided compression steel (mm²)

	BarDiameter     float64 // largest tension bar (mm)
	MinBarDiameter  float64 // smallest longitudinal bar (mm)
	BarSpacing      float64 // centre-to-centre spacing of tension bars (mm)
	StirrupDiameter float64 // mm
}

// Checker runs the checks with injected tables and options.
type Checker struct {
	Tables  is456.Tables
	Options Options
}

// New creates a Checker.
func New(tables is456.Tables, opts Options) *Checker {
	return &Checker{Tables: tables, Options: opts}
}

// Beam runs the checks that depend only on geometry and span.
func (c *Checker) Beam(in Input) []Result {
	return []Result{
		SpanDepth(in.Geometry, in.Span),
		MinWidth(in.Geometry),
		WidthDepth(in.Geometry),
		LateralStability(in.Geometry, in.Span, in.Support),
		Cover(in.Geometry, in.Exposure),
	}
}

// Section runs the checks that depend on the load case and the provided
// reinforcement.
func (c *Checker) Section(in Input) []Result {
	results := SteelBounds(in.Geometry, in.Grades, in.Ast, in.Asc, c.Options.Ductile)
	results = append(results, Confinement(in.Geometry, in.MinBarDiameter, c.Options))
	if c.Options.Deflection == Curvature {
		results = append(results, c.CurvatureDeflection(in))
	} else {
		results = append(results, SimplifiedDeflection(in))
	}
	results = append(results, c.CrackWidth(in))
	return results
}

// RunAll evaluates every check. Failures never stop evaluation.
func (c *Checker) RunAll(in Input) []Result {
	return append(c.Beam(in), c.Section(in)...)
}

// Failed returns the failing checks in order.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Pass {
			out = append(out, r)
		}
	}
	return out
}
