package sensitivity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

func request() compliance.Request {
	return compliance.Request{
		Name:     "B1",
		Geometry: section.Geometry{Width: 300, Depth: 500, EffectiveDepth: 450, Cover: 30},
		Grades:   is456.Grades{Concrete: 25, Steel: 415},
		Span:     5000,
		Cases:    []is456.LoadCase{{ID: "LC1", Moment: 150, Shear: 100}},
	}
}

func analyzer() *Analyzer {
	return New(compliance.NewEngine(is456.DefaultTables(), compliance.DefaultOptions(), nil), 0, 2)
}

func TestPerturb_Continuous(t *testing.T) {
	req := request()

	out, rel, reason := Perturb(req, Width, 1, 0.1)
	assert.Empty(t, reason)
	assert.InDelta(t, 0.1, rel, 1e-12)
	assert.InDelta(t, 330, out.Geometry.Width, 1e-9)
	assert.InDelta(t, 300, req.Geometry.Width, 1e-9)

	out, rel, _ = Perturb(req, Depth, -1, 0.1)
	assert.InDelta(t, -0.1, rel, 1e-12)
	assert.InDelta(t, 450, out.Geometry.Depth, 1e-9)
	assert.InDelta(t, 400, out.Geometry.EffectiveDepth, 1e-9)

	out, _, _ = Perturb(req, Span, 1, 0.1)
	assert.InDelta(t, 5500, out.Span, 1e-9)

	out, _, _ = Perturb(req, Moment, -1, 0.1)
	assert.InDelta(t, 135, out.Cases[0].Moment, 1e-9)
	assert.InDelta(t, 150, req.Cases[0].Moment, 1e-9)

	out, _, _ = Perturb(req, Shear, 1, 0.1)
	assert.InDelta(t, 110, out.Cases[0].Shear, 1e-9)
	assert.InDelta(t, 100, req.Cases[0].Shear, 1e-9)
}

func TestPerturb_Grades(t *testing.T) {
	req := request()

	out, rel, reason := Perturb(req, Concrete, 1, 0.1)
	assert.Empty(t, reason)
	assert.Equal(t, is456.ConcreteGrade(30), out.Grades.Concrete)
	assert.InDelta(t, 0.2, rel, 1e-12)

	out, rel, _ = Perturb(req, Steel, -1, 0.1)
	assert.Equal(t, is456.SteelGrade(250), out.Grades.Steel)
	assert.InDelta(t, 250.0/415-1, rel, 1e-12)

	req.Grades.Steel = 500
	_, _, reason = Perturb(req, Steel, 1, 0.1)
	assert.Equal(t, "no steel grade beyond Fe500", reason)

	req.Grades.Concrete = 15
	_, _, reason = Perturb(req, Concrete, -1, 0.1)
	assert.Equal(t, "no concrete grade beyond M15", reason)

	_, _, reason = Perturb(req, "cover", 1, 0.1)
	assert.NotEmpty(t, reason)
}

func TestAnalyze(t *testing.T) {
	res, err := analyzer().Analyze(context.Background(), request())
	require.NoError(t, err)

	assert.InDelta(t, 0.8858, res.Base, 0.001)
	assert.Equal(t, "PASS", res.Status)
	assert.Equal(t, "LC1", res.GoverningCase)
	require.Len(t, res.Entries, len(Parameters))

	seen := map[Parameter]bool{}
	for i, e := range res.Entries {
		seen[e.Parameter] = true
		if i > 0 {
			assert.GreaterOrEqual(t, res.Entries[i-1].Impact, e.Impact)
		}
		assert.GreaterOrEqual(t, e.Normalized, 0.0)
		assert.LessOrEqual(t, e.Normalized, 1.0)
	}
	assert.Len(t, seen, len(Parameters))
	assert.InDelta(t, 1, res.Entries[0].Normalized, 1e-12)

	for _, e := range res.Entries {
		if e.Parameter == Moment {
			// 165 kN-m still fits 2-28
			assert.InDelta(t, 165/169.33-res.Base, e.Up.Change, 0.002)
			assert.Positive(t, e.Up.Change)
		}
	}
}

func TestAnalyze_SkipsImpossibleSteps(t *testing.T) {
	req := request()
	req.Grades.Steel = 500

	res, err := analyzer().Analyze(context.Background(), req)
	require.NoError(t, err)

	for _, e := range res.Entries {
		if e.Parameter != Steel {
			continue
		}
		assert.Equal(t, "no steel grade beyond Fe500", e.Up.Skipped)
		assert.Empty(t, e.Down.Skipped)
		assert.Empty(t, e.Skipped)
		assert.Equal(t, e.Impact, abs(e.Down.Change))
	}
}

func TestAnalyze_InvalidBase(t *testing.T) {
	req := request()
	req.Cases = nil

	_, err := analyzer().Analyze(context.Background(), req)
	assert.Error(t, err)
}

func TestNew_DefaultDelta(t *testing.T) {
	assert.Equal(t, DefaultDelta, analyzer().Delta)
	assert.Equal(t, 0.05, New(nil, 0.05, 1).Delta)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
