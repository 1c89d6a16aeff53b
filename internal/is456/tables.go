package is456

import (
	"fmt"
	"sort"

	"github.com/alexiusacademia/rcbeam/internal/rcerr"
)

// GradePolicy controls how a table resolves a concrete grade to a column.
type GradePolicy string

const (
	// GradeSnapDown uses the exact column or the next lower defined one.
	GradeSnapDown GradePolicy = "snap-down"
	// GradeInterpolate interpolates linearly between grade columns. A table
	// must opt in explicitly; none of the built-in tables do.
	GradeInterpolate GradePolicy = "interpolate"
)

// Table is a two-way code table: rows are concrete grade columns, the
// running axis is the tension reinforcement percentage pt.
type Table struct {
	Name        string      `yaml:"name"`
	Ratios      []float64   `yaml:"ratios"` // pt (%), ascending
	Grades      []float64   `yaml:"grades"` // fck (MPa), ascending
	Values      [][]float64 `yaml:"values"` // Values[grade][ratio]
	GradePolicy GradePolicy `yaml:"grade_policy"`
}

// Lookup is the result of a table lookup, with enough detail to audit it.
type Lookup struct {
	Value       float64 `json:"value"`
	RequestedPt float64 `json:"requested_pt"`
	Pt          float64 `json:"pt"`     // pt actually used, after clamping
	Column      float64 `json:"column"` // grade column used (fck)
	Clamped     bool    `json:"clamped"`
}

// Warning returns the policy warning for a clamped lookup, if any.
func (l Lookup) Warning() (rcerr.Warning, bool) {
	if !l.Clamped {
		return rcerr.Warning{}, false
	}
	return rcerr.Warn(rcerr.WarnRatioClamped, "pt %.4f%% clamped to %.2f%% for table lookup", l.RequestedPt, l.Pt), true
}

// Validate checks the table shape.
func (t Table) Validate() error {
	if len(t.Ratios) < 2 {
		return fmt.Errorf("table %s: need at least two ratio points", t.Name)
	}
	if len(t.Grades) == 0 || len(t.Values) != len(t.Grades) {
		return fmt.Errorf("table %s: %d grade columns but %d value rows", t.Name, len(t.Grades), len(t.Values))
	}
	if !sort.Float64sAreSorted(t.Ratios) || !sort.Float64sAreSorted(t.Grades) {
		return fmt.Errorf("table %s: axes must be ascending", t.Name)
	}
	for i, row := range t.Values {
		if len(row) != len(t.Ratios) {
			return fmt.Errorf("table %s: row %d has %d values, want %d", t.Name, i, len(row), len(t.Ratios))
		}
	}
	switch t.GradePolicy {
	case GradeSnapDown, GradeInterpolate, "":
	default:
		return fmt.Errorf("table %s: unknown grade policy %q", t.Name, t.GradePolicy)
	}
	return nil
}

// Lookup returns the table value for fck and pt. pt is clamped to the
// table's ratio range; interpolation is linear along pt only, inside one
// grade column chosen by the table's GradePolicy.
func (t Table) Lookup(fck ConcreteGrade, pt float64) (Lookup, error) {
	res := Lookup{RequestedPt: pt, Pt: pt}

	lo, hi := t.Ratios[0], t.Ratios[len(t.Ratios)-1]
	if pt < lo {
		res.Pt, res.Clamped = lo, true
	} else if pt > hi {
		res.Pt, res.Clamped = hi, true
	}

	if t.GradePolicy == GradeInterpolate {
		v, err := t.interpolateGrades(float64(fck), res.Pt)
		if err != nil {
			return res, err
		}
		res.Value = v
		res.Column = float64(fck)
		return res, nil
	}

	col, err := snapDown(t.Name, t.Grades, float64(fck))
	if err != nil {
		return res, err
	}
	res.Column = t.Grades[col]
	res.Value = interpolate(t.Ratios, t.Values[col], res.Pt)
	return res, nil
}

func (t Table) interpolateGrades(fck, pt float64) (float64, error) {
	if fck < t.Grades[0] {
		return 0, rcerr.Input(rcerr.CodeGradeUndefined, "grades.fck", "M%g is below the lowest column of %s", fck, t.Name)
	}
	last := len(t.Grades) - 1
	if fck >= t.Grades[last] {
		return interpolate(t.Ratios, t.Values[last], pt), nil
	}
	for i := 0; i < last; i++ {
		g0, g1 := t.Grades[i], t.Grades[i+1]
		if fck == g0 {
			return interpolate(t.Ratios, t.Values[i], pt), nil
		}
		if fck > g0 && fck < g1 {
			v0 := interpolate(t.Ratios, t.Values[i], pt)
			v1 := interpolate(t.Ratios, t.Values[i+1], pt)
			return v0 + (fck-g0)*(v1-v0)/(g1-g0), nil
		}
	}
	return interpolate(t.Ratios, t.Values[last], pt), nil
}

// interpolate evaluates a piecewise linear curve. x must already be inside
// the axis range. Knot values are returned exactly.
func interpolate(xs, ys []float64, x float64) float64 {
	for i := 0; i < len(xs)-1; i++ {
		if x == xs[i] {
			return ys[i]
		}
		if x > xs[i] && x < xs[i+1] {
			return ys[i] + (x-xs[i])*(ys[i+1]-ys[i])/(xs[i+1]-xs[i])
		}
	}
	return ys[len(ys)-1]
}

// snapDown returns the index of the exact or next-lower grade column.
func snapDown(name string, grades []float64, fck float64) (int, error) {
	idx := -1
	for i, g := range grades {
		if g <= fck {
			idx = i
		}
	}
	if idx < 0 {
		return 0, rcerr.Input(rcerr.CodeGradeUndefined, "grades.fck", "M%g is below the lowest column of %s", fck, name)
	}
	return idx, nil
}

// GradeTable is a one-way table keyed by concrete grade only. Lookups snap
// down to the exact or next lower grade.
type GradeTable struct {
	Name   string    `yaml:"name"`
	Grades []float64 `yaml:"grades"`
	Values []float64 `yaml:"values"`
}

// At returns the value for fck.
func (t GradeTable) At(fck ConcreteGrade) (float64, error) {
	idx, err := snapDown(t.Name, t.Grades, float64(fck))
	if err != nil {
		return 0, err
	}
	return t.Values[idx], nil
}

// Tables is the immutable set of code tables injected into every solver.
// Build it with DefaultTables; never share a mutated copy.
type Tables struct {
	ShearStrength   Table      // τc, Table 19
	MaxShearStress  GradeTable // τc,max, Table 20
	BondStress      GradeTable // τbd for plain bars in tension, 26.2.1.1
	PermissibleComp GradeTable // σcbc, Table 21 (modular ratio)
}

// DefaultTables returns fresh copies of the IS 456:2000 tables.
func DefaultTables() Tables {
	return Tables{
		ShearStrength: Table{
			Name:        "IS456 Table 19 design shear strength",
			Ratios:      []float64{0.15, 0.25, 0.50, 0.75, 1.00, 1.25, 1.50, 1.75, 2.00, 2.25, 2.50, 2.75, 3.00},
			Grades:      []float64{15, 20, 25, 30, 35, 40},
			GradePolicy: GradeSnapDown,
			Values: [][]float64{
				{0.28, 0.35, 0.46, 0.54, 0.60, 0.64, 0.68, 0.71, 0.71, 0.71, 0.71, 0.71, 0.71},
				{0.28, 0.36, 0.48, 0.56, 0.62, 0.67, 0.72, 0.75, 0.79, 0.81, 0.82, 0.82, 0.82},
				{0.29, 0.36, 0.49, 0.57, 0.64, 0.70, 0.74, 0.78, 0.82, 0.85, 0.88, 0.90, 0.92},
				{0.29, 0.37, 0.50, 0.59, 0.66, 0.71, 0.76, 0.80, 0.84, 0.88, 0.91, 0.94, 0.96},
				{0.29, 0.37, 0.50, 0.59, 0.67, 0.73, 0.78, 0.82, 0.86, 0.90, 0.93, 0.96, 0.99},
				{0.30, 0.38, 0.51, 0.60, 0.68, 0.74, 0.79, 0.84, 0.88, 0.92, 0.95, 0.98, 1.01},
			},
		},
		MaxShearStress: GradeTable{
			Name:   "IS456 Table 20 maximum shear stress",
			Grades: []float64{15, 20, 25, 30, 35, 40},
			Values: []float64{2.5, 2.8, 3.1, 3.5, 3.7, 4.0},
		},
		BondStress: GradeTable{
			Name:   "IS456 26.2.1.1 design bond stress",
			Grades: []float64{15, 20, 25, 30, 35, 40},
			Values: []float64{1.0, 1.2, 1.4, 1.5, 1.7, 1.9},
		},
		PermissibleComp: GradeTable{
			Name:   "IS456 Table 21 permissible bending compression",
			Grades: []float64{15, 20, 25, 30, 35, 40, 45, 50},
			Values: []float64{5.0, 7.0, 8.5, 10.0, 11.5, 13.0, 14.5, 16.0},
		},
	}
}

// Validate checks every table.
func (t Tables) Validate() error {
	if err := t.ShearStrength.Validate(); err != nil {
		return err
	}
	for _, gt := range []GradeTable{t.MaxShearStress, t.BondStress, t.PermissibleComp} {
		if len(gt.Grades) == 0 || len(gt.Grades) != len(gt.Values) {
			return fmt.Errorf("table %s: %d grades but %d values", gt.Name, len(gt.Grades), len(gt.Values))
		}
	}
	return nil
}

// CapacityRatio returns the design concrete shear strength τc for the
// grade pair at reinforcement percentage pt.
func (t Tables) CapacityRatio(g Grades, pt float64) (Lookup, error) {
	return t.ShearStrength.Lookup(g.Concrete, pt)
}

// ModularRatio returns m = 280 / (3 σcbc)
// Annex B-1.3 (d)
func (t Tables) ModularRatio(fck ConcreteGrade) (float64, error) {
	sigma, err := t.PermissibleComp.At(fck)
	if err != nil {
		return 0, err
	}
	return 280 / (3 * sigma), nil
}
