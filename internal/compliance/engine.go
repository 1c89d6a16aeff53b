// Package compliance evaluates a beam over all of its load cases: flexure,
// detailing, shear and the serviceability checks per case, then selects
// the governing case and aggregates a single verdict.
package compliance

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/alexiusacademia/rcbeam/internal/beam"
	"github.com/alexiusacademia/rcbeam/internal/checks"
	"github.com/alexiusacademia/rcbeam/internal/detailing"
	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/logging"
	"github.com/alexiusacademia/rcbeam/internal/rcerr"
	"github.com/alexiusacademia/rcbeam/internal/shear"
)

// UtilizationTolerance absorbs the neutral axis tolerance when comparing
// a utilization against 1.
const UtilizationTolerance = 1e-6

// AxialLimitFactor flags members whose axial load exceeds 0.1 fck Ag
// (IS 13920 6.1.1); the flexure model ignores axial load.
const AxialLimitFactor = 0.1

// Options bundles the solver options.
type Options struct {
	Shear     shear.Options     `yaml:"shear"`
	Detailing detailing.Options `yaml:"detailing"`
	Checks    checks.Options    `yaml:"checks"`
}

// DefaultOptions returns the default options for every stage.
func DefaultOptions() Options {
	return Options{
		Shear:     shear.DefaultOptions(),
		Detailing: detailing.DefaultOptions(),
		Checks:    checks.DefaultOptions(),
	}
}

// Validate checks every stage's options.
func (o Options) Validate() error {
	if err := o.Shear.Validate(); err != nil {
		return err
	}
	if err := o.Detailing.Validate(); err != nil {
		return err
	}
	return o.Checks.Validate()
}

// Engine evaluates beams. It holds no per-run state and is safe for
// concurrent use.
type Engine struct {
	tables is456.Tables
	opts   Options
	log    *logging.Logger
}

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(tables is456.Tables, opts Options, log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Nop()
	}
	return &Engine{tables: tables, opts: opts, log: log}
}

// Tables returns the injected code tables.
func (e *Engine) Tables() is456.Tables { return e.tables }

// Options returns the engine options.
func (e *Engine) Options() Options { return e.opts }

// Evaluate runs every load case of the request and aggregates a verdict.
// Malformed requests are rejected with an *rcerr.InputError before any
// solver runs; the returned verdict is then in the REJECTED state.
func (e *Engine) Evaluate(req Request) (Verdict, error) {
	v := Verdict{
		SchemaVersion: SchemaVersion,
		Name:          req.Name,
		Cases:         []CaseResult{},
		Checks:        []checks.Result{},
		Reasons:       []Reason{},
		Warnings:      []CaseWarning{},
	}
	v.transition(Pending, "")

	req = req.withDefaults()
	if err := req.Validate(); err != nil {
		v.transition(Rejected, "")
		if ie, ok := rcerr.AsInput(err); ok {
			v.Error = ie
		}
		e.log.Warn("request rejected", "beam", req.Name, "error", err)
		return v, err
	}

	cases := append([]is456.LoadCase(nil), req.Cases...)
	sort.Slice(cases, func(i, j int) bool { return cases[i].ID < cases[j].ID })

	checker := checks.New(e.tables, e.opts.Checks)
	v.Checks = checker.Beam(e.checkInput(req))
	for _, r := range checks.Failed(v.Checks) {
		v.Reasons = append(v.Reasons, Reason{Check: r.Name, Code: CodeCheckFailed, Message: r.Message})
	}

	for _, lc := range cases {
		v.transition(Evaluating, lc.ID)
		cr := e.evaluateCase(req, lc, checker)
		e.log.Debug("case evaluated",
			"beam", req.Name, "case", lc.ID, "status", cr.Status, "utilization", cr.Utilization)

		v.Cases = append(v.Cases, cr)
		v.Reasons = append(v.Reasons, cr.Reasons...)
		for _, w := range cr.Warnings {
			v.Warnings = append(v.Warnings, CaseWarning{Case: lc.ID, Warning: w})
		}
	}

	gov := 0
	for i, c := range v.Cases {
		if c.Utilization > v.Cases[gov].Utilization {
			gov = i
		}
	}
	v.GoverningCase = v.Cases[gov].Case.ID
	v.Utilization = v.Cases[gov].Utilization
	v.Tension = v.Cases[gov].Tension
	v.Compression = v.Cases[gov].Compression

	v.Status = Pass
	if len(checks.Failed(v.Checks)) > 0 {
		v.Status = Fail
	}
	for _, c := range v.Cases {
		switch c.Status {
		case Infeasible:
			v.Status = Infeasible
		case Fail:
			if v.Status == Pass {
				v.Status = Fail
			}
		}
	}

	v.transition(Governed, "")
	e.log.Info("beam evaluated",
		"beam", req.Name, "status", v.Status, "governing_case", v.GoverningCase, "utilization", v.Utilization)
	return v, nil
}

func (e *Engine) checkInput(req Request) checks.Input {
	return checks.Input{
		Geometry: req.Geometry,
		Grades:   req.Grades,
		Span:     req.Span,
		Support:  req.Support,
		Exposure: req.Exposure,
	}
}

// evaluateCase runs flexure, detailing, shear and the section checks for
// one load case.
func (e *Engine) evaluateCase(req Request, lc is456.LoadCase, checker *checks.Checker) CaseResult {
	g, grades := req.Geometry, req.Grades
	cr := CaseResult{Case: lc}
	infeasible := false
	reject := func(stage, code, msg string) {
		infeasible = true
		cr.Reasons = append(cr.Reasons, Reason{Case: lc.ID, Check: stage, Code: code, Message: msg})
	}

	if math.Abs(lc.Axial)*1e3 > AxialLimitFactor*grades.Fck()*g.GrossArea() {
		cr.Warnings = append(cr.Warnings, rcerr.Warn(rcerr.WarnAxialIgnored,
			"axial load %.1f kN exceeds 0.1 fck Ag and is not considered in flexure", lc.Axial))
	}

	// Flexure
	flex := beam.NewFlexure(g, grades)
	fr := flex.Design(lc.Moment)
	cr.Flexure = fr
	cr.Warnings = append(cr.Warnings, fr.Warnings...)
	cr.FlexureUtilization = fr.Utilization()

	// Detailing
	var tension, compression detailing.Arrangement
	if fr.Outcome == beam.Infeasible {
		reject(StageFlexure, fr.Reason, fr.String())
	} else {
		det := detailing.New(g, grades, e.tables, e.opts.Detailing)
		required := fr.AstRequired
		if e.opts.Checks.Ductile {
			required = math.Max(required, is456.MinTensionSteelDuctile(grades, g.Width, g.EffectiveDepth))
		}

		provided := true
		if t, err := det.Select(required); err != nil {
			reject(StageDetailing, arrangementCode(err), "tension: "+err.Error())
			provided = false
		} else {
			tension = t
			cr.Tension = &tension
		}
		if fr.AscRequired > 0 {
			if c, err := det.Select(fr.AscRequired); err != nil {
				reject(StageDetailing, arrangementCode(err), "compression: "+err.Error())
				provided = false
			} else {
				compression = c
				cr.Compression = &compression
			}
		}
		for i, a := range []*detailing.Arrangement{cr.Tension, cr.Compression} {
			if a == nil {
				continue
			}
			if a.HasFlag(detailing.FlagCongested) {
				cr.Warnings = append(cr.Warnings, rcerr.Warn(rcerr.WarnCongested,
					"%s: clear spacing %.1f mm is below %.2f x minimum %.1f mm",
					a.Key(), a.ClearSpacing, detailing.CongestionFactor, a.MinClearSpacing))
			}
			if a.HasFlag(detailing.FlagOverProvided) {
				need := required
				if i == 1 {
					need = fr.AscRequired
				}
				cr.Warnings = append(cr.Warnings, rcerr.Warn(rcerr.WarnOverProvided,
					"%s: %.1f mm² provided for %.1f mm² required, smaller bars exceed the %.0f mm maximum clear spacing",
					a.Key(), a.Area, need, a.MaxClearSpacing))
			}
		}

		if provided {
			cr.Capacity = flex.Capacity(tension.Area, compression.Area, lc.Hogging())
			cr.FlexureUtilization = demandRatio(lc.Moment, cr.Capacity.MuR)
		}
	}

	// Shear, with pt from the provided steel when there is any
	ast := tension.Area
	if ast <= 0 {
		ast = math.Max(fr.AstRequired, fr.AstMin)
	}
	pt := 100 * ast / (g.Width * g.EffectiveDepth)
	sr, err := shear.NewSolver(e.tables, e.opts.Shear).Design(g, grades, lc.Shear, pt)
	cr.Shear = sr
	cr.Warnings = append(cr.Warnings, sr.Warnings...)
	switch {
	case err != nil:
		reject(StageShear, "table-lookup", err.Error())
		cr.ShearUtilization = 0
	case !sr.Safe:
		reject(StageShear, sr.Reason, fmt.Sprintf("τv = %.3f MPa, τc,max = %.2f MPa", sr.Tv, sr.TcMax))
		cr.ShearUtilization = finite(sr.Utilization())
	default:
		cr.ShearUtilization = finite(sr.Utilization())
	}

	cr.FlexureUtilization = finite(cr.FlexureUtilization)
	cr.Utilization = math.Max(cr.FlexureUtilization, cr.ShearUtilization)

	// Section checks run regardless of earlier failures
	in := e.checkInput(req)
	in.Moment = lc.Moment
	in.AstRequired = fr.AstRequired
	in.Ast = tension.Area
	in.Asc = compression.Area
	in.BarDiameter = tension.MaxDiameter()
	in.MinBarDiameter = tension.MinDiameter()
	if compression.Count() > 0 && compression.MinDiameter() < in.MinBarDiameter {
		in.MinBarDiameter = compression.MinDiameter()
	}
	if tension.Count() > 1 {
		in.BarSpacing = tension.CentreSpacing()
	}
	in.StirrupDiameter = sr.Diameter
	cr.Checks = checker.Section(in)
	for _, r := range checks.Failed(cr.Checks) {
		cr.Reasons = append(cr.Reasons, Reason{Case: lc.ID, Check: r.Name, Code: CodeCheckFailed, Message: r.Message})
	}

	if !infeasible && cr.Utilization > 1+UtilizationTolerance {
		cr.Reasons = append(cr.Reasons, Reason{Case: lc.ID, Check: StageStrength, Code: CodeUtilizationExceeded,
			Message: fmt.Sprintf("utilization %.3f exceeds 1", cr.Utilization)})
	}

	switch {
	case infeasible:
		cr.Status = Infeasible
	case len(cr.Reasons) > 0:
		cr.Status = Fail
	default:
		cr.Status = Pass
	}
	return cr
}

// demandRatio returns |demand| / capacity.
func demandRatio(demand, capacity float64) float64 {
	if demand == 0 {
		return 0
	}
	if capacity <= 0 {
		return math.MaxFloat64
	}
	return math.Abs(demand) / capacity
}

// finite keeps utilizations JSON-encodable.
func finite(x float64) float64 {
	if math.IsInf(x, 1) || math.IsNaN(x) {
		return math.MaxFloat64
	}
	return x
}

func arrangementCode(err error) string {
	if errors.Is(err, detailing.ErrNoArrangement) {
		return CodeNoArrangement
	}
	return "detailing-error"
}
