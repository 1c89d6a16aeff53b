package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

var m25fe415 = is456.Grades{Concrete: 25, Steel: 415}

func rect() section.Geometry {
	return section.Geometry{Width: 300, Depth: 500, EffectiveDepth: 450, Cover: 30}
}

// 300 x 500 beam, 5 m simply supported, Mu 150 kN-m with 2-28 bars
func baseInput() Input {
	return Input{
		Geometry:        rect(),
		Grades:          m25fe415,
		Span:            5000,
		Support:         SimplySupported,
		Exposure:        Moderate,
		Moment:          150,
		AstRequired:     1064.72,
		Ast:             1231.5,
		BarDiameter:     28,
		MinBarDiameter:  28,
		BarSpacing:      196,
		StirrupDiameter: 8,
	}
}

func checker(opts Options) *Checker {
	return New(is456.DefaultTables(), opts)
}

func byName(results []Result, name string) (Result, bool) {
	for _, r := range results {
		if r.Name == name {
			return r, true
		}
	}
	return Result{}, false
}

func TestRunAll_Order(t *testing.T) {
	results := checker(DefaultOptions()).RunAll(baseInput())

	var names []string
	for _, r := range results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		NameSpanDepth, NameMinWidth, NameWidthDepth, NameLateralStability, NameCover,
		NameMinTension, NameMaxTension, NameMaxCompression, NameConfinement,
		NameDeflection, NameCrackWidth,
	}, names)
	assert.Empty(t, Failed(results))
}

func TestRunAll_ContinuesAfterFailure(t *testing.T) {
	in := baseInput()
	in.Geometry.Width = 150
	in.Geometry.Cover = 20

	results := checker(DefaultOptions()).RunAll(in)
	assert.Len(t, results, 11)

	failed := Failed(results)
	var names []string
	for _, r := range failed {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, NameMinWidth)
	assert.Contains(t, names, NameWidthDepth)
	assert.Contains(t, names, NameCover)
}

func TestDuctilityChecks(t *testing.T) {
	g := rect()

	r := SpanDepth(g, 5000)
	assert.True(t, r.Pass)
	assert.InDelta(t, 10, r.Value, 1e-12)
	assert.InDelta(t, 1.5, r.Margin, 1e-12)

	r = SpanDepth(g, 1500)
	assert.False(t, r.Pass)
	assert.Negative(t, r.Margin)

	r = MinWidth(g)
	assert.True(t, r.Pass)
	assert.InDelta(t, 0.5, r.Margin, 1e-12)

	r = WidthDepth(g)
	assert.True(t, r.Pass)
	assert.InDelta(t, 0.6, r.Value, 1e-12)

	g.Width = 140
	assert.False(t, WidthDepth(g).Pass)
	assert.False(t, MinWidth(g).Pass)
}

func TestLateralStability(t *testing.T) {
	g := rect()

	r := LateralStability(g, 5000, SimplySupported)
	assert.True(t, r.Pass)
	assert.InDelta(t, 18000, r.Limit, 1e-9)

	r = LateralStability(g, 8000, Cantilever)
	assert.False(t, r.Pass)
	assert.InDelta(t, 7500, r.Limit, 1e-9)
}

func TestCover(t *testing.T) {
	g := rect()
	assert.True(t, Cover(g, Moderate).Pass)
	assert.False(t, Cover(g, Severe).Pass)
	assert.InDelta(t, 45, Cover(g, Severe).Limit, 1e-12)
	assert.InDelta(t, 75, Extreme.NominalCover(), 1e-12)
}

func TestSteelBounds(t *testing.T) {
	g := rect()

	results := SteelBounds(g, m25fe415, 1231.5, 0, false)
	require.Len(t, results, 3)
	assert.Equal(t, NameMinTension, results[0].Name)
	assert.InDelta(t, 276.51, results[0].Limit, 0.01)
	assert.InDelta(t, 6000, results[1].Limit, 1e-9)
	for _, r := range results {
		assert.True(t, r.Pass, r.Name)
	}

	results = SteelBounds(g, m25fe415, 200, 0, false)
	assert.False(t, results[0].Pass)

	results = SteelBounds(g, m25fe415, 6500, 6500, false)
	assert.False(t, results[1].Pass)
	assert.False(t, results[2].Pass)
}

func TestSteelBounds_Ductile(t *testing.T) {
	results := SteelBounds(rect(), m25fe415, 3500, 0, true)

	assert.InDelta(t, 390.36, results[0].Limit, 0.01)
	assert.InDelta(t, 3375, results[1].Limit, 1e-9)
	assert.False(t, results[1].Pass)
}

func TestConfinement(t *testing.T) {
	opts := DefaultOptions()

	s, zone := ConfinementSpacing(rect(), 16, opts.SpacingIncrement)
	assert.InDelta(t, 100, s, 1e-12)
	assert.InDelta(t, 900, zone, 1e-12)
	assert.True(t, Confinement(rect(), 16, opts).Pass)

	// 8 x 8 mm = 64 mm, rounded down to 50 mm
	s, _ = ConfinementSpacing(rect(), 8, opts.SpacingIncrement)
	assert.InDelta(t, 50, s, 1e-12)
	assert.False(t, Confinement(rect(), 8, opts).Pass)
}

func TestModifiers(t *testing.T) {
	assert.InDelta(t, 2, TensionModifier(100, 0), 1e-12)
	assert.InDelta(t, 2, TensionModifier(50, 0.3), 1e-12)
	assert.InDelta(t, 1.1493, TensionModifier(208.08, 0.9122), 1e-3)

	assert.InDelta(t, 1, CompressionModifier(0), 1e-12)
	assert.InDelta(t, 1.25, CompressionModifier(1), 1e-12)
	assert.InDelta(t, 1.5, CompressionModifier(10), 1e-12)

	assert.InDelta(t, 1, FlangeModifier(rect()), 1e-12)
	tee := rect()
	tee.FlangeWidth, tee.FlangeThickness = 1200, 120
	assert.InDelta(t, 0.8, FlangeModifier(tee), 1e-12)
}

func TestSimplifiedDeflection(t *testing.T) {
	r := SimplifiedDeflection(baseInput())

	assert.True(t, r.Pass)
	assert.InDelta(t, 11.11, r.Value, 0.01)
	assert.InDelta(t, 22.98, r.Limit, 0.05)

	in := baseInput()
	in.Span = 12000
	r = SimplifiedDeflection(in)
	// 20 x 10 / 12 = 16.67 before modifiers
	assert.False(t, r.Pass)

	in = baseInput()
	in.Ast = 0
	r = SimplifiedDeflection(in)
	assert.False(t, r.Pass)
	assert.Equal(t, "no tension steel provided", r.Message)
}

func TestCurvatureDeflection(t *testing.T) {
	opts := DefaultOptions()
	opts.Deflection = Curvature
	c := checker(opts)

	r := c.CurvatureDeflection(baseInput())
	assert.True(t, r.Pass)
	assert.InDelta(t, 20, r.Limit, 1e-9)
	assert.InDelta(t, 15.86, r.Value, 0.1)

	in := baseInput()
	in.Support = Continuous
	cont := c.CurvatureDeflection(in)
	assert.Less(t, cont.Value, r.Value)

	in = baseInput()
	in.Span = 9000
	assert.False(t, c.CurvatureDeflection(in).Pass)

	res, ok := byName(c.RunAll(baseInput()), NameDeflection)
	require.True(t, ok)
	assert.InDelta(t, r.Value, res.Value, 1e-12)
}

func TestCrackWidth(t *testing.T) {
	c := checker(DefaultOptions())

	r := c.CrackWidth(baseInput())
	assert.True(t, r.Pass)
	assert.InDelta(t, 0.221, r.Value, 0.002)
	assert.InDelta(t, 0.3, r.Limit, 1e-12)

	in := baseInput()
	in.Exposure = Severe
	assert.False(t, c.CrackWidth(in).Pass)

	in = baseInput()
	in.BarDiameter = 0
	assert.False(t, c.CrackWidth(in).Pass)
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	o := DefaultOptions()
	o.Deflection = "exact"
	assert.Error(t, o.Validate())

	o = DefaultOptions()
	o.ServiceFactor = 0.5
	assert.Error(t, o.Validate())
}

func TestExposure(t *testing.T) {
	assert.True(t, Severe.Valid())
	assert.False(t, Exposure("coastal").Valid())
	assert.InDelta(t, 0.2, Severe.CrackWidthLimit(), 1e-12)
	assert.InDelta(t, 0.1, Extreme.CrackWidthLimit(), 1e-12)
	assert.True(t, Continuous.Valid())
	assert.False(t, Support("fixed").Valid())
}
