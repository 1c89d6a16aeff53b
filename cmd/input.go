package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/checks"
	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/schedule"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// DefaultEffectiveCover is used for d = D - 50 when no effective depth is
// given.
const DefaultEffectiveCover = 50.0

// beamFlags collects a single beam from flags or from a schedule file.
type beamFlags struct {
	file string
	name string

	width, depth, effectiveDepth, cover float64
	flangeWidth, flangeThickness        float64
	fck, fy                             float64
	span                                float64
	support, exposure                   string

	cases  []string
	mu, vu float64
}

func (f *beamFlags) register(c *cobra.Command) {
	fl := c.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "Beam schedule file (json, yaml, xlsx); flags below are ignored")
	fl.StringVar(&f.name, "name", "", "Beam name (selects a beam from --file)")

	// Geometry flags
	fl.Float64VarP(&f.width, "width", "b", 0, "Web width b (mm)")
	fl.Float64Var(&f.depth, "depth", 0, "Overall depth D (mm)")
	fl.Float64Var(&f.effectiveDepth, "effective-depth", 0, "Effective depth d (mm), default D - 50")
	fl.Float64VarP(&f.cover, "cover", "c", 30, "Clear cover (mm)")
	fl.Float64Var(&f.flangeWidth, "flange-width", 0, "Flange width bf (mm), T-beams only")
	fl.Float64Var(&f.flangeThickness, "flange-thickness", 0, "Flange thickness Df (mm), T-beams only")

	// Material flags
	fl.Float64Var(&f.fck, "fck", 25, "Concrete grade fck (MPa)")
	fl.Float64Var(&f.fy, "fy", 415, "Steel grade fy (MPa)")

	// Member flags
	fl.Float64Var(&f.span, "span", 0, "Clear span (mm)")
	fl.StringVar(&f.support, "support", string(compliance.DefaultSupport), "Support condition (simply-supported, continuous, cantilever)")
	fl.StringVar(&f.exposure, "exposure", string(compliance.DefaultExposure), "Exposure (mild, moderate, severe, very-severe, extreme)")

	// Loading flags
	fl.StringArrayVar(&f.cases, "case", nil, "Load case id:Mu:Vu[:Pu] (kN-m, kN), repeatable")
	fl.Float64VarP(&f.mu, "mu", "m", 0, "Factored moment Mu (kN-m), single case")
	fl.Float64VarP(&f.vu, "vu", "v", 0, "Factored shear Vu (kN), single case")
}

// request builds the evaluation request.
func (f *beamFlags) request() (compliance.Request, error) {
	if f.file != "" {
		return f.fromFile()
	}

	d := f.effectiveDepth
	if d == 0 {
		d = f.depth - DefaultEffectiveCover
	}
	req := compliance.Request{
		Name: f.name,
		Geometry: section.Geometry{
			Width:           f.width,
			Depth:           f.depth,
			EffectiveDepth:  d,
			Cover:           f.cover,
			FlangeWidth:     f.flangeWidth,
			FlangeThickness: f.flangeThickness,
		},
		Grades: is456.Grades{
			Concrete: is456.ConcreteGrade(f.fck),
			Steel:    is456.SteelGrade(f.fy),
		},
		Span:     f.span,
		Support:  checks.Support(f.support),
		Exposure: checks.Exposure(f.exposure),
	}

	for _, s := range f.cases {
		lc, err := parseCase(s)
		if err != nil {
			return req, err
		}
		req.Cases = append(req.Cases, lc)
	}
	if len(req.Cases) == 0 && (f.mu != 0 || f.vu != 0) {
		req.Cases = []is456.LoadCase{{ID: "LC1", Moment: f.mu, Shear: f.vu}}
	}
	return req, nil
}

func (f *beamFlags) fromFile() (compliance.Request, error) {
	reqs, err := schedule.LoadFromFile(f.file)
	if err != nil {
		return compliance.Request{}, err
	}
	if f.name == "" {
		return reqs[0], nil
	}
	for _, r := range reqs {
		if r.Name == f.name {
			return r, nil
		}
	}
	return compliance.Request{}, fmt.Errorf("beam %q not found in %s", f.name, f.file)
}

// parseCase parses "id:Mu:Vu" or "id:Mu:Vu:Pu".
func parseCase(s string) (is456.LoadCase, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return is456.LoadCase{}, fmt.Errorf("load case %q: want id:Mu:Vu[:Pu]", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return is456.LoadCase{}, fmt.Errorf("load case %q: %w", s, err)
		}
		vals[i] = v
	}
	return is456.LoadCase{ID: strings.TrimSpace(parts[0]), Moment: vals[0], Shear: vals[1], Axial: vals[2]}, nil
}
