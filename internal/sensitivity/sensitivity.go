// Package sensitivity ranks the inputs of a beam design by how much a
// small change in each moves the governing utilization.
package sensitivity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/is456"
)

// DefaultDelta is the relative perturbation for continuous parameters.
const DefaultDelta = 0.10

// Parameter names a perturbed input.
type Parameter string

const (
	Width    Parameter = "width"
	Depth    Parameter = "depth" // D and d together
	Span     Parameter = "span"
	Moment   Parameter = "moment"
	Shear    Parameter = "shear"
	Concrete Parameter = "concrete-grade"
	Steel    Parameter = "steel-grade"
)

// Parameters lists every parameter in evaluation order.
var Parameters = []Parameter{Width, Depth, Span, Moment, Shear, Concrete, Steel}

// Side is one direction of a perturbation.
type Side struct {
	Delta       float64 `json:"delta"`  // applied relative change
	Change      float64 `json:"change"` // utilization change from the base
	Utilization float64 `json:"utilization"`
	Status      string  `json:"status,omitempty"`
	Skipped     string  `json:"skipped,omitempty"`
}

// Entry is the sensitivity of the design to one parameter.
type Entry struct {
	Parameter  Parameter `json:"parameter"`
	Up         Side      `json:"up"`
	Down       Side      `json:"down"`
	Impact     float64   `json:"impact"`     // max |change|
	Normalized float64   `json:"normalized"` // impact / max impact
	Skipped    string    `json:"skipped,omitempty"`
}

// Result is a ranked sensitivity study.
type Result struct {
	Base          float64 `json:"base"` // governing utilization
	Status        string  `json:"status"`
	GoverningCase string  `json:"governing_case"`
	Entries       []Entry `json:"entries"`
}

// Analyzer re-runs the compliance engine for each perturbation.
type Analyzer struct {
	Engine  *compliance.Engine
	Delta   float64
	Workers int
}

// New creates an Analyzer. delta <= 0 selects DefaultDelta.
func New(engine *compliance.Engine, delta float64, workers int) *Analyzer {
	if delta <= 0 {
		delta = DefaultDelta
	}
	return &Analyzer{Engine: engine, Delta: delta, Workers: workers}
}

// Analyze evaluates the base request and both perturbations of every
// parameter in parallel. The base request must be valid.
func (a *Analyzer) Analyze(ctx context.Context, req compliance.Request) (Result, error) {
	base, err := a.Engine.Evaluate(req)
	if err != nil {
		return Result{}, fmt.Errorf("base evaluation: %w", err)
	}
	res := Result{
		Base:          base.Utilization,
		Status:        string(base.Status),
		GoverningCase: base.GoverningCase,
		Entries:       make([]Entry, len(Parameters)),
	}

	g, ctx := errgroup.WithContext(ctx)
	if a.Workers > 0 {
		g.SetLimit(a.Workers)
	}
	sides := make([][2]Side, len(Parameters))
	for i, p := range Parameters {
		for s, step := range []int{1, -1} {
			i, p, s, step := i, p, s, step
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				sides[i][s] = a.run(req, p, step, base.Utilization)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var maxImpact float64
	for i, p := range Parameters {
		e := Entry{Parameter: p, Up: sides[i][0], Down: sides[i][1]}
		var skipped []string
		for _, s := range []Side{e.Up, e.Down} {
			if s.Skipped != "" {
				skipped = append(skipped, s.Skipped)
				continue
			}
			e.Impact = math.Max(e.Impact, math.Abs(s.Change))
		}
		if len(skipped) == 2 {
			e.Skipped = strings.Join(skipped, "; ")
		}
		maxImpact = math.Max(maxImpact, e.Impact)
		res.Entries[i] = e
	}
	if maxImpact > 0 {
		for i := range res.Entries {
			res.Entries[i].Normalized = res.Entries[i].Impact / maxImpact
		}
	}

	sort.SliceStable(res.Entries, func(i, j int) bool {
		if res.Entries[i].Impact != res.Entries[j].Impact {
			return res.Entries[i].Impact > res.Entries[j].Impact
		}
		return res.Entries[i].Parameter < res.Entries[j].Parameter
	})
	return res, nil
}

// run evaluates one side of a perturbation.
func (a *Analyzer) run(req compliance.Request, p Parameter, step int, base float64) Side {
	perturbed, delta, reason := Perturb(req, p, step, a.Delta)
	side := Side{Delta: delta}
	if reason != "" {
		side.Skipped = reason
		return side
	}
	v, err := a.Engine.Evaluate(perturbed)
	if err != nil {
		side.Skipped = err.Error()
		return side
	}
	side.Utilization = v.Utilization
	side.Status = string(v.Status)
	side.Change = v.Utilization - base
	return side
}

// Perturb returns a copy of req with parameter p moved one step (+1 up,
// -1 down). Continuous parameters move by the relative delta; grades move
// one enumerated grade. It returns the actual relative change, or a reason
// when the step is impossible.
func Perturb(req compliance.Request, p Parameter, step int, delta float64) (compliance.Request, float64, string) {
	out := req
	rel := float64(step) * delta
	factor := 1 + rel

	switch p {
	case Width:
		out.Geometry = req.Geometry.Scaled(factor, 1)
	case Depth:
		out.Geometry = req.Geometry.Scaled(1, factor)
	case Span:
		out.Span = req.Span * factor
	case Moment, Shear:
		out.Cases = make([]is456.LoadCase, len(req.Cases))
		copy(out.Cases, req.Cases)
		for i := range out.Cases {
			if p == Moment {
				out.Cases[i].Moment *= factor
			} else {
				out.Cases[i].Shear *= factor
			}
		}
	case Concrete:
		next, ok := is456.StepConcrete(req.Grades.Concrete, step)
		if !ok {
			return req, 0, fmt.Sprintf("no concrete grade beyond %s", req.Grades.Concrete.Name())
		}
		out.Grades.Concrete = next
		rel = float64(next)/float64(req.Grades.Concrete) - 1
	case Steel:
		next, ok := is456.StepSteel(req.Grades.Steel, step)
		if !ok {
			return req, 0, fmt.Sprintf("no steel grade beyond %s", req.Grades.Steel.Name())
		}
		out.Grades.Steel = next
		rel = float64(next)/float64(req.Grades.Steel) - 1
	default:
		return req, 0, fmt.Sprintf("unknown parameter %q", p)
	}
	return out, rel, ""
}
