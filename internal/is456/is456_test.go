package is456

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/rcerr"
)

func TestGrades_Validate(t *testing.T) {
	require.NoError(t, Grades{Concrete: 25, Steel: 415}.Validate())

	err := Grades{Concrete: 22, Steel: 415}.Validate()
	ie, ok := rcerr.AsInput(err)
	require.True(t, ok)
	assert.Equal(t, rcerr.CodeGradeUndefined, ie.Code)
	assert.Equal(t, "grades.fck", ie.Field)

	err = Grades{Concrete: 25, Steel: 550}.Validate()
	ie, ok = rcerr.AsInput(err)
	require.True(t, ok)
	assert.Equal(t, "grades.fy", ie.Field)
}

func TestGrades_Names(t *testing.T) {
	g := Grades{Concrete: 25, Steel: 415}
	assert.Equal(t, "M25/Fe415", g.String())
	assert.Equal(t, 25.0, g.Fck())
	assert.Equal(t, 415.0, g.Fy())
}

func TestStepGrades(t *testing.T) {
	up, ok := StepConcrete(25, 1)
	require.True(t, ok)
	assert.Equal(t, ConcreteGrade(30), up)

	down, ok := StepConcrete(25, -1)
	require.True(t, ok)
	assert.Equal(t, ConcreteGrade(20), down)

	_, ok = StepConcrete(50, 1)
	assert.False(t, ok)
	_, ok = StepConcrete(22, 1)
	assert.False(t, ok)

	s, ok := StepSteel(415, 1)
	require.True(t, ok)
	assert.Equal(t, SteelGrade(500), s)
	_, ok = StepSteel(250, -1)
	assert.False(t, ok)
}

func TestXuMaxRatio(t *testing.T) {
	assert.Equal(t, 0.53, XuMaxRatio(250))
	assert.Equal(t, 0.48, XuMaxRatio(415))
	assert.Equal(t, 0.46, XuMaxRatio(500))
	// Formula for other grades
	assert.InDelta(t, 0.0035/(0.0055+0.87*450/200000.0), XuMaxRatio(450), 1e-12)
}

func TestMaterialFormulas(t *testing.T) {
	assert.InDelta(t, 25000, Ec(25), 1e-9)
	assert.InDelta(t, 3.5, Fcr(25), 1e-9)
	assert.InDelta(t, 276.506, MinTensionSteel(415, 300, 450), 1e-3)
	assert.InDelta(t, 314.159, BarArea(20), 1e-3)
	assert.InDelta(t, 2.466, BarMassPerMetre(20), 1e-3)
}

func TestShearStrength_Interpolates(t *testing.T) {
	tables := DefaultTables()
	l, err := tables.CapacityRatio(Grades{Concrete: 25, Steel: 415}, 0.9122)
	require.NoError(t, err)
	assert.InDelta(t, 0.6154, l.Value, 1e-4)
	assert.False(t, l.Clamped)
	assert.Equal(t, 25.0, l.Column)

	// Knots are exact
	l, err = tables.ShearStrength.Lookup(20, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 0.62, l.Value)
}

func TestShearStrength_ClampsRatio(t *testing.T) {
	tables := DefaultTables()

	low, err := tables.ShearStrength.Lookup(25, 0.05)
	require.NoError(t, err)
	floor, err := tables.ShearStrength.Lookup(25, 0.15)
	require.NoError(t, err)
	assert.Equal(t, floor.Value, low.Value)
	assert.True(t, low.Clamped)
	assert.Equal(t, 0.15, low.Pt)
	assert.Equal(t, 0.05, low.RequestedPt)

	w, ok := low.Warning()
	require.True(t, ok)
	assert.Equal(t, rcerr.WarnRatioClamped, w.Code)

	_, ok = floor.Warning()
	assert.False(t, ok)

	high, err := tables.ShearStrength.Lookup(25, 4.2)
	require.NoError(t, err)
	assert.True(t, high.Clamped)
	assert.Equal(t, 0.92, high.Value)
}

func TestShearStrength_SnapsGradeDown(t *testing.T) {
	tables := DefaultTables()
	l, err := tables.ShearStrength.Lookup(45, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 40.0, l.Column)
	assert.Equal(t, 0.68, l.Value)

	_, err = tables.ShearStrength.Lookup(10, 1.0)
	ie, ok := rcerr.AsInput(err)
	require.True(t, ok)
	assert.Equal(t, rcerr.CodeGradeUndefined, ie.Code)
}

func TestTable_InterpolatePolicy(t *testing.T) {
	tbl := Table{
		Name:        "custom",
		Ratios:      []float64{0, 1},
		Grades:      []float64{20, 30},
		Values:      [][]float64{{0.2, 0.4}, {0.4, 0.6}},
		GradePolicy: GradeInterpolate,
	}
	require.NoError(t, tbl.Validate())

	l, err := tbl.Lookup(25, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, l.Value, 1e-12)

	l, err = tbl.Lookup(35, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, l.Value, 1e-12)
}

func TestTable_Validate(t *testing.T) {
	assert.NoError(t, DefaultTables().Validate())

	bad := Table{Name: "short", Ratios: []float64{1}}
	assert.Error(t, bad.Validate())

	unsorted := Table{Name: "unsorted", Ratios: []float64{1, 0}, Grades: []float64{20}, Values: [][]float64{{1, 2}}}
	assert.Error(t, unsorted.Validate())

	ragged := Table{Name: "ragged", Ratios: []float64{0, 1}, Grades: []float64{20}, Values: [][]float64{{1}}}
	assert.Error(t, ragged.Validate())

	policy := Table{Name: "policy", Ratios: []float64{0, 1}, Grades: []float64{20}, Values: [][]float64{{1, 2}}, GradePolicy: "nearest"}
	assert.Error(t, policy.Validate())
}

func TestGradeTables(t *testing.T) {
	tables := DefaultTables()

	tmax, err := tables.MaxShearStress.At(25)
	require.NoError(t, err)
	assert.Equal(t, 3.1, tmax)

	// M50 snaps to M40
	tmax, err = tables.MaxShearStress.At(50)
	require.NoError(t, err)
	assert.Equal(t, 4.0, tmax)

	m, err := tables.ModularRatio(25)
	require.NoError(t, err)
	assert.InDelta(t, 10.98, m, 0.01)
}

func TestSteelStress(t *testing.T) {
	// Elastic region
	assert.InDelta(t, 200, SteelStress(415, 0.001), 1e-9)
	// Plateau
	assert.Equal(t, 360.9, SteelStress(415, 0.005))
	// Between SP 16 points
	assert.InDelta(t, 288.7+(0.0015-0.00144)*(306.7-288.7)/(0.00163-0.00144), SteelStress(415, 0.0015), 1e-9)
	// Sign kept
	assert.Equal(t, -360.9, SteelStress(415, -0.005))
	// Mild steel is elastic-perfectly plastic
	assert.InDelta(t, 0.87*250, SteelStress(250, 0.01), 1e-9)
}

func TestBuildCases(t *testing.T) {
	cases := BuildCases(LoadEffects{
		Dead: Effect{Moment: 50, Shear: 40},
		Live: Effect{Moment: 30, Shear: 20},
	})
	require.Len(t, cases, 1)
	assert.Equal(t, "LC1", cases[0].ID)
	assert.InDelta(t, 120, cases[0].Moment, 1e-9)
	assert.InDelta(t, 90, cases[0].Shear, 1e-9)

	cases = BuildCases(LoadEffects{
		Dead: Effect{Moment: 50},
		Live: Effect{Moment: 30},
		Wind: Effect{Moment: 20},
	})
	require.Len(t, cases, 7)
	byID := map[string]LoadCase{}
	for _, c := range cases {
		byID[c.ID] = c
	}
	assert.InDelta(t, 120, byID["LC2a-WL"].Moment, 1e-9)
	assert.InDelta(t, 72, byID["LC2b-WL"].Moment, 1e-9)
	assert.InDelta(t, 15, byID["LC4b-WL"].Moment, 1e-9)
	_, ok := byID["LC2a-EL"]
	assert.False(t, ok)
}

func TestGoverningMoment(t *testing.T) {
	gov, ok := GoverningMoment([]LoadCase{
		{ID: "a", Moment: 100},
		{ID: "b", Moment: -140},
		{ID: "c", Moment: 120},
	})
	require.True(t, ok)
	assert.Equal(t, "b", gov.ID)
	assert.True(t, gov.Hogging())

	_, ok = GoverningMoment(nil)
	assert.False(t, ok)
}
