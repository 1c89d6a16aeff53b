// Package optimize searches discrete bar arrangements for the cheapest,
// least congested layout that carries a required steel area.
package optimize

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/alexiusacademia/rcbeam/internal/beam"
	"github.com/alexiusacademia/rcbeam/internal/detailing"
	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/rcerr"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// Options controls the search.
type Options struct {
	DefaultRate       float64             `yaml:"default_rate"` // cost per kg
	Rates             map[float64]float64 `yaml:"rates"`        // cost per kg by diameter
	CostWeight        float64             `yaml:"cost_weight"`
	CongestionWeight  float64             `yaml:"congestion_weight"`
	AllowMixes        bool                `yaml:"allow_mixes"`
	IncludeInfeasible bool                `yaml:"include_infeasible"`
	Workers           int                 `yaml:"workers"`
}

// DefaultOptions returns cost-first weights with two-diameter mixes.
func DefaultOptions() Options {
	return Options{
		DefaultRate:      1,
		CostWeight:       1,
		CongestionWeight: 1,
		AllowMixes:       true,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.DefaultRate <= 0 {
		return fmt.Errorf("optimize: default rate must be positive")
	}
	for dia, r := range o.Rates {
		if r <= 0 {
			return fmt.Errorf("optimize: rate for φ%g must be positive", dia)
		}
	}
	if o.CostWeight < 0 || o.CongestionWeight < 0 {
		return fmt.Errorf("optimize: weights must not be negative")
	}
	return nil
}

// Rate returns the cost per kg for a bar diameter.
func (o Options) Rate(dia float64) float64 {
	if r, ok := o.Rates[dia]; ok {
		return r
	}
	return o.DefaultRate
}

// Request describes the search. When Required is zero the tension steel
// is designed for Moment.
type Request struct {
	Required float64          `json:"required,omitempty" yaml:"required"` // tension steel to provide (mm²)
	Moment   float64          `json:"moment,omitempty" yaml:"moment"`     // Mu (kN-m), used when Required is zero
	Geometry section.Geometry `json:"geometry" yaml:"geometry"`
	Grades   is456.Grades     `json:"grades" yaml:"grades"`
	Span     float64          `json:"span" yaml:"span"` // clear span (mm)
}

// Validate rejects malformed requests with an *rcerr.InputError.
func (r Request) Validate() error {
	if err := r.Geometry.Validate(); err != nil {
		return err
	}
	if err := r.Grades.Validate(); err != nil {
		return err
	}
	if !(r.Span > 0) {
		return rcerr.Input(rcerr.CodeInvalidField, "span", "must be positive, got %g", r.Span)
	}
	if r.Required < 0 || math.IsNaN(r.Required) || math.IsInf(r.Required, 0) {
		return rcerr.Input(rcerr.CodeInvalidField, "required", "must be a finite non-negative area, got %g", r.Required)
	}
	if r.Required == 0 && (r.Moment == 0 || math.IsNaN(r.Moment) || math.IsInf(r.Moment, 0)) {
		return rcerr.Input(rcerr.CodeInvalidField, "moment", "required area or a finite non-zero moment must be given")
	}
	return nil
}

// RequiredArea returns Required, or the tension steel designed for Moment.
func (r Request) RequiredArea() (float64, error) {
	if r.Required > 0 {
		return r.Required, nil
	}
	res := beam.NewFlexure(r.Geometry, r.Grades).Design(r.Moment)
	if res.Outcome == beam.Infeasible {
		return 0, fmt.Errorf("%w: flexure design failed: %s", detailing.ErrNoArrangement, res.Reason)
	}
	return res.AstRequired, nil
}

// Candidate is one evaluated arrangement.
type Candidate struct {
	Arrangement    detailing.Arrangement `json:"arrangement"`
	Length         float64               `json:"length"` // cut length per bar (mm)
	Mass           float64               `json:"mass"`   // kg
	Cost           float64               `json:"cost"`
	Congestion     float64               `json:"congestion"`      // min clear / clear
	CapacityMargin float64               `json:"capacity_margin"` // (provided - required) / required
	Score          float64               `json:"score"`
	Feasible       bool                  `json:"feasible"`
	Reasons        []string              `json:"reasons,omitempty"`
}

// Optimizer ranks bar arrangements.
type Optimizer struct {
	Tables    is456.Tables
	Detailing detailing.Options
	Options   Options
}

// New creates an Optimizer.
func New(tables is456.Tables, det detailing.Options, opts Options) *Optimizer {
	return &Optimizer{Tables: tables, Detailing: det, Options: opts}
}

// Enumerate lists the groups searched: every catalog diameter at every
// count, then (when mixes are allowed) every split between two adjacent
// diameters with at least one bar of each.
func (o *Optimizer) Enumerate() [][]detailing.Group {
	dias := o.Detailing.Diameters
	var out [][]detailing.Group
	for _, dia := range dias {
		for n := o.Detailing.MinCount; n <= o.Detailing.MaxCount; n++ {
			out = append(out, []detailing.Group{{Diameter: dia, Count: n}})
		}
	}
	if !o.Options.AllowMixes {
		return out
	}
	for i := 0; i+1 < len(dias); i++ {
		small, large := dias[i], dias[i+1]
		for n := o.Detailing.MinCount; n <= o.Detailing.MaxCount; n++ {
			for nl := 1; nl < n; nl++ {
				out = append(out, []detailing.Group{
					{Diameter: large, Count: nl},
					{Diameter: small, Count: n - nl},
				})
			}
		}
	}
	return out
}

// Optimize evaluates every enumerated arrangement in parallel and returns
// the feasible ones ranked best first, followed by the infeasible ones
// when requested. It wraps detailing.ErrNoArrangement when nothing is
// feasible.
func (o *Optimizer) Optimize(ctx context.Context, req Request) ([]Candidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	required, err := req.RequiredArea()
	if err != nil {
		return nil, err
	}
	req.Required = required
	det := detailing.New(req.Geometry, req.Grades, o.Tables, o.Detailing)

	groups := o.Enumerate()
	candidates := make([]Candidate, len(groups))

	g, ctx := errgroup.WithContext(ctx)
	if o.Options.Workers > 0 {
		g.SetLimit(o.Options.Workers)
	}
	for i, gs := range groups {
		i, gs := i, gs
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := o.evaluate(det, req, gs)
			if err != nil {
				return err
			}
			candidates[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var feasible, infeasible []Candidate
	for _, c := range candidates {
		if c.Feasible {
			feasible = append(feasible, c)
		} else {
			infeasible = append(infeasible, c)
		}
	}
	Rank(feasible)
	Rank(infeasible)

	out := feasible
	if o.Options.IncludeInfeasible {
		out = append(out, infeasible...)
	}
	if len(feasible) == 0 {
		return out, fmt.Errorf("%w: %.1f mm² in a %.0f mm web", detailing.ErrNoArrangement, req.Required, req.Geometry.Width)
	}
	return out, nil
}

// Best returns the top ranked feasible candidate.
func (o *Optimizer) Best(ctx context.Context, req Request) (Candidate, error) {
	cands, err := o.Optimize(ctx, req)
	if err != nil {
		return Candidate{}, err
	}
	return cands[0], nil
}

func (o *Optimizer) evaluate(det *detailing.Detailer, req Request, groups []detailing.Group) (Candidate, error) {
	a := det.Arrange(groups...)
	c := Candidate{Arrangement: a}

	if err := det.Validate(a, req.Required); err != nil {
		c.Reasons = []string{err.Error()}
	} else {
		c.Feasible = true
	}

	for _, g := range a.Groups {
		ld, err := det.DevelopmentLength(g.Diameter, false)
		if err != nil {
			return c, err
		}
		length := req.Span + 2*ld
		if length > c.Length {
			c.Length = length
		}
		mass := float64(g.Count) * length / 1000 * is456.BarMassPerMetre(g.Diameter)
		c.Mass += mass
		c.Cost += mass * o.Options.Rate(g.Diameter)
	}

	c.Congestion = math.MaxFloat64
	if a.ClearSpacing > 0 {
		c.Congestion = a.MinClearSpacing / a.ClearSpacing
	}
	c.CapacityMargin = (a.Area - req.Required) / req.Required
	c.Score = o.Options.CostWeight*c.Cost + o.Options.CongestionWeight*c.Congestion
	if math.IsInf(c.Score, 0) {
		c.Score = math.MaxFloat64
	}
	return c, nil
}

// Rank orders candidates by score, then fewer distinct diameters, fewer
// bars, smaller provided area and finally the arrangement key.
func Rank(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		if a.Arrangement.Diameters() != b.Arrangement.Diameters() {
			return a.Arrangement.Diameters() < b.Arrangement.Diameters()
		}
		if a.Arrangement.Count() != b.Arrangement.Count() {
			return a.Arrangement.Count() < b.Arrangement.Count()
		}
		if a.Arrangement.Area != b.Arrangement.Area {
			return a.Arrangement.Area < b.Arrangement.Area
		}
		return a.Arrangement.Key() < b.Arrangement.Key()
	})
}
