package shear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/rcerr"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

var m25fe415 = is456.Grades{Concrete: 25, Steel: 415}

func rect() section.Geometry {
	return section.Geometry{Width: 300, Depth: 500, EffectiveDepth: 450, Cover: 30}
}

func solver() *Solver {
	return NewSolver(is456.DefaultTables(), DefaultOptions())
}

func TestDesign_NominalStirrups(t *testing.T) {
	r, err := solver().Design(rect(), m25fe415, 100, 0.9122)
	require.NoError(t, err)

	assert.True(t, r.Safe)
	assert.Empty(t, r.Reason)
	assert.InDelta(t, 0.7407, r.Tv, 1e-4)
	assert.InDelta(t, 0.6154, r.Tc, 1e-4)
	assert.InDelta(t, 3.1, r.TcMax, 1e-9)
	assert.InDelta(t, 83.08, r.Vc, 0.01)
	assert.InDelta(t, 16.92, r.Vus, 0.01)

	assert.Equal(t, 8.0, r.Diameter)
	assert.Equal(t, 2, r.Legs)
	assert.InDelta(t, 100.53, r.Asv, 0.01)
	assert.Equal(t, 300.0, r.Spacing)
	assert.Equal(t, LimitAbsoluteCap, r.GoverningLimit)
	assert.InDelta(t, 137.5, r.Capacity, 0.1)
	assert.Empty(t, r.Warnings)
	assert.InDelta(t, 100/r.Capacity, r.Utilization(), 1e-12)
}

func TestDesign_StrengthGovernsAndRoundsDown(t *testing.T) {
	r, err := solver().Design(rect(), m25fe415, 400, 0.9122)
	require.NoError(t, err)

	// 8 mm needs about 51 mm, below the practical minimum
	assert.True(t, r.Safe)
	assert.Equal(t, 10.0, r.Diameter)
	assert.Equal(t, 75.0, r.Spacing)
	assert.Equal(t, LimitStrength, r.GoverningLimit)
	assert.Greater(t, r.SpacingUnrounded, r.Spacing)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, rcerr.WarnSpacingRounded, r.Warnings[0].Code)
	assert.GreaterOrEqual(t, r.Capacity, 400.0)
}

func TestDesign_SpacingInvariants(t *testing.T) {
	s := solver()
	for _, vu := range []float64{20, 60, 100, 150, 200, 250, 300, 350, 400} {
		r, err := s.Design(rect(), m25fe415, vu, 1.2)
		require.NoError(t, err)
		require.True(t, r.Safe, "Vu=%g", vu)

		assert.LessOrEqual(t, r.Spacing, r.SpacingUnrounded, "Vu=%g", vu)
		assert.Zero(t, math.Mod(r.Spacing, 25), "Vu=%g", vu)
		assert.GreaterOrEqual(t, r.Spacing, 75.0, "Vu=%g", vu)
		assert.LessOrEqual(t, r.Spacing, 300.0, "Vu=%g", vu)
		assert.GreaterOrEqual(t, r.Capacity, vu, "Vu=%g", vu)
	}
}

func TestDesign_DensityIncreasesWithShear(t *testing.T) {
	s := solver()
	prev := 0.0
	for _, vu := range []float64{150, 200, 250, 300} {
		r, err := s.Design(rect(), m25fe415, vu, 0.9122)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.Density(), prev, "Vu=%g", vu)
		prev = r.Density()
	}
}

func TestDesign_NegativeShearUsesMagnitude(t *testing.T) {
	s := solver()
	pos, err := s.Design(rect(), m25fe415, 150, 0.9122)
	require.NoError(t, err)
	neg, err := s.Design(rect(), m25fe415, -150, 0.9122)
	require.NoError(t, err)

	assert.Equal(t, pos.Spacing, neg.Spacing)
	assert.Equal(t, pos.Diameter, neg.Diameter)
	assert.InDelta(t, pos.Utilization(), neg.Utilization(), 1e-12)
}

func TestDesign_SectionTooSmall(t *testing.T) {
	r, err := solver().Design(rect(), m25fe415, 500, 0.9122)
	require.NoError(t, err)

	assert.False(t, r.Safe)
	assert.Equal(t, ReasonSectionTooSmall, r.Reason)
	assert.Zero(t, r.Spacing)
	assert.InDelta(t, r.Tv/3.1, r.Utilization(), 1e-12)
	assert.Greater(t, r.Utilization(), 1.0)
}

func TestDesign_NoStirrupFits(t *testing.T) {
	opts := DefaultOptions()
	opts.StirrupDiameters = []float64{6}
	r, err := NewSolver(is456.DefaultTables(), opts).Design(rect(), m25fe415, 400, 0.9122)
	require.NoError(t, err)

	assert.False(t, r.Safe)
	assert.Equal(t, ReasonNoStirrupFits, r.Reason)
	assert.Zero(t, r.Spacing)
	assert.Greater(t, r.Utilization(), 1.0)
}

func TestDesign_RatioClampWarning(t *testing.T) {
	r, err := solver().Design(rect(), m25fe415, 50, 0.1)
	require.NoError(t, err)

	assert.InDelta(t, 0.15, r.Pt, 1e-12)
	assert.InDelta(t, 0.1, r.PtRequested, 1e-12)
	assert.InDelta(t, 0.29, r.Tc, 1e-12)
	require.NotEmpty(t, r.Warnings)
	assert.Equal(t, rcerr.WarnRatioClamped, r.Warnings[0].Code)
}

func TestDesign_GradeSnapsDown(t *testing.T) {
	// M27 reads the M25 column
	r, err := solver().Design(rect(), is456.Grades{Concrete: 27, Steel: 415}, 100, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.64, r.Tc, 1e-12)
	assert.InDelta(t, 3.1, r.TcMax, 1e-12)
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"no diameters", func(o *Options) { o.StirrupDiameters = nil }},
		{"unsorted diameters", func(o *Options) { o.StirrupDiameters = []float64{10, 8} }},
		{"one leg", func(o *Options) { o.Legs = 1 }},
		{"zero increment", func(o *Options) { o.SpacingIncrement = 0 }},
		{"cap below minimum", func(o *Options) { o.MaxSpacing = 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.modify(&o)
			assert.Error(t, o.Validate())
		})
	}
}
