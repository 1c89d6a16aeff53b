package compliance

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/rcbeam/internal/checks"
	"github.com/alexiusacademia/rcbeam/internal/detailing"
	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/rcerr"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

func engine() *Engine {
	return NewEngine(is456.DefaultTables(), DefaultOptions(), nil)
}

func request(cases ...is456.LoadCase) Request {
	return Request{
		Name:     "B1",
		Geometry: section.Geometry{Width: 300, Depth: 500, EffectiveDepth: 450, Cover: 30},
		Grades:   is456.Grades{Concrete: 25, Steel: 415},
		Span:     5000,
		Cases:    cases,
	}
}

type goldenFile struct {
	Beams []struct {
		Request Request `yaml:"request"`
		Expect  struct {
			Status        Status   `yaml:"status"`
			GoverningCase string   `yaml:"governing_case"`
			Utilization   float64  `yaml:"utilization"`
			Tension       string   `yaml:"tension"`
			FailedCases   []string `yaml:"failed_cases"`
		} `yaml:"expect"`
	} `yaml:"beams"`
}

func TestEvaluate_Golden(t *testing.T) {
	data, err := os.ReadFile("../../testdata/golden_v1.yaml")
	require.NoError(t, err)

	var golden goldenFile
	require.NoError(t, yaml.Unmarshal(data, &golden))
	require.NotEmpty(t, golden.Beams)

	e := engine()
	for _, b := range golden.Beams {
		t.Run(b.Request.Name, func(t *testing.T) {
			v, err := e.Evaluate(b.Request)
			require.NoError(t, err)

			want := b.Expect
			assert.Equal(t, want.Status, v.Status)
			assert.Equal(t, Governed, v.State)
			if want.GoverningCase != "" {
				assert.Equal(t, want.GoverningCase, v.GoverningCase)
			}
			if want.Utilization > 0 {
				assert.InDelta(t, want.Utilization, v.Utilization, 0.005)
			}
			if want.Tension != "" {
				require.NotNil(t, v.Tension)
				assert.Equal(t, want.Tension, v.Tension.Key())
			}

			var failed []string
			for _, c := range v.Cases {
				if c.Status != Pass {
					failed = append(failed, c.Case.ID)
				}
			}
			assert.Equal(t, want.FailedCases, failed)
		})
	}
}

func TestEvaluate_NonGoverningFailureFailsBeam(t *testing.T) {
	req := request(
		is456.LoadCase{ID: "LC1", Moment: 150, Shear: 80},
		is456.LoadCase{ID: "LC2", Moment: 60, Shear: 50},
	)
	req.Geometry.Cover = 45
	req.Exposure = checks.Severe

	v, err := engine().Evaluate(req)
	require.NoError(t, err)

	assert.Equal(t, Fail, v.Status)
	assert.Equal(t, "LC2", v.GoverningCase)

	gov, ok := v.Case("LC2")
	require.True(t, ok)
	assert.Equal(t, Pass, gov.Status)

	lc1, ok := v.Case("LC1")
	require.True(t, ok)
	assert.Equal(t, Fail, lc1.Status)
	require.Len(t, lc1.Reasons, 1)
	assert.Equal(t, checks.NameCrackWidth, lc1.Reasons[0].Check)
	assert.Equal(t, CodeCheckFailed, lc1.Reasons[0].Code)

	require.Len(t, v.Reasons, 1)
	assert.Equal(t, "LC1", v.Reasons[0].Case)
}

func TestEvaluate_Utilization(t *testing.T) {
	v, err := engine().Evaluate(request(is456.LoadCase{ID: "LC1", Moment: 150, Shear: 100}))
	require.NoError(t, err)

	c, ok := v.Case("LC1")
	require.True(t, ok)
	assert.InDelta(t, 169.33, c.Capacity.MuR, 0.05)
	assert.InDelta(t, 0.8858, c.FlexureUtilization, 0.001)
	assert.InDelta(t, 100/137.5, c.ShearUtilization, 0.001)
	assert.Equal(t, math.Max(c.FlexureUtilization, c.ShearUtilization), c.Utilization)
	assert.Equal(t, 8.0, c.Shear.Diameter)
	assert.Equal(t, 300.0, c.Shear.Spacing)
	assert.Len(t, c.Checks, 6)
	assert.Len(t, v.Checks, 5)
}

func TestEvaluate_StateTrace(t *testing.T) {
	v, err := engine().Evaluate(request(
		is456.LoadCase{ID: "LC2", Moment: -80, Shear: 60},
		is456.LoadCase{ID: "LC1", Moment: 150, Shear: 100},
	))
	require.NoError(t, err)

	assert.Equal(t, []Transition{
		{State: Pending},
		{State: Evaluating, Case: "LC1"},
		{State: Evaluating, Case: "LC2"},
		{State: Governed},
	}, v.Trace)
	assert.Equal(t, "LC1", v.Cases[0].Case.ID)
	assert.Equal(t, "LC2", v.Cases[1].Case.ID)
}

func TestEvaluate_CaseOrderDoesNotMatter(t *testing.T) {
	e := engine()
	a, err := e.Evaluate(request(
		is456.LoadCase{ID: "LC1", Moment: 150, Shear: 100},
		is456.LoadCase{ID: "LC2", Moment: -80, Shear: 60},
		is456.LoadCase{ID: "LC3", Moment: 120, Shear: 140},
	))
	require.NoError(t, err)
	b, err := e.Evaluate(request(
		is456.LoadCase{ID: "LC3", Moment: 120, Shear: 140},
		is456.LoadCase{ID: "LC1", Moment: 150, Shear: 100},
		is456.LoadCase{ID: "LC2", Moment: -80, Shear: 60},
	))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEvaluate_Hogging(t *testing.T) {
	v, err := engine().Evaluate(request(is456.LoadCase{ID: "LC1", Moment: -80, Shear: 60}))
	require.NoError(t, err)

	c := v.Cases[0]
	assert.Equal(t, Pass, c.Status)
	require.NotNil(t, c.Tension)
	assert.Equal(t, "2-25", c.Tension.Key())
	assert.InDelta(t, 80/139.96, c.FlexureUtilization, 0.001)
}

func TestEvaluate_AxialWarning(t *testing.T) {
	v, err := engine().Evaluate(request(is456.LoadCase{ID: "LC1", Moment: 150, Shear: 100, Axial: 500}))
	require.NoError(t, err)

	require.NotEmpty(t, v.Warnings)
	assert.Equal(t, "LC1", v.Warnings[0].Case)
	assert.Equal(t, rcerr.WarnAxialIgnored, v.Warnings[0].Code)
	assert.Equal(t, Pass, v.Status)
}

func TestEvaluate_OverProvidedWarning(t *testing.T) {
	v, err := engine().Evaluate(request(is456.LoadCase{ID: "LC1", Moment: 30, Shear: 40}))
	require.NoError(t, err)

	require.NotNil(t, v.Tension)
	assert.Equal(t, "2-25", v.Tension.Key())
	assert.True(t, v.Tension.HasFlag(detailing.FlagOverProvided))

	var codes []string
	for _, w := range v.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, rcerr.WarnOverProvided)

	v, err = engine().Evaluate(request(is456.LoadCase{ID: "LC1", Moment: 150, Shear: 100}))
	require.NoError(t, err)
	for _, w := range v.Warnings {
		assert.NotEqual(t, rcerr.WarnOverProvided, w.Code)
	}
}

func TestEvaluate_DoublyReinforced(t *testing.T) {
	req := request(is456.LoadCase{ID: "LC1", Moment: 300, Shear: 100})
	req.Geometry = section.Geometry{Width: 300, Depth: 550, EffectiveDepth: 500, Cover: 30}

	v, err := engine().Evaluate(req)
	require.NoError(t, err)

	c := v.Cases[0]
	require.NotNil(t, c.Tension)
	require.NotNil(t, c.Compression)
	assert.Positive(t, c.Flexure.AscRequired)
	assert.GreaterOrEqual(t, c.Compression.Area, c.Flexure.AscRequired)
	assert.Positive(t, c.Capacity.Cs)
	assert.NotNil(t, v.Compression)
}

func TestEvaluate_BeamLevelFailure(t *testing.T) {
	req := request(is456.LoadCase{ID: "LC1", Moment: 150, Shear: 100})
	req.Exposure = checks.VerySevere

	v, err := engine().Evaluate(req)
	require.NoError(t, err)

	assert.Equal(t, Fail, v.Status)
	require.NotEmpty(t, v.Reasons)
	assert.Empty(t, v.Reasons[0].Case)
	assert.Equal(t, checks.NameCover, v.Reasons[0].Check)
}

func TestEvaluate_Rejections(t *testing.T) {
	lc := is456.LoadCase{ID: "LC1", Moment: 150, Shear: 100}

	tests := []struct {
		name  string
		req   Request
		code  string
		field string
	}{
		{"no cases", request(), rcerr.CodeNoLoadCase, "cases"},
		{"duplicate case", request(lc, lc), rcerr.CodeDuplicateCase, "cases[1].id"},
		{"missing case id", request(is456.LoadCase{Moment: 10}), rcerr.CodeInvalidField, "cases[0].id"},
		{"non-finite moment", request(is456.LoadCase{ID: "LC1", Moment: math.NaN()}), rcerr.CodeInvalidField, "cases[0].moment"},
		{"undefined grade", func() Request {
			r := request(lc)
			r.Grades.Concrete = 27
			return r
		}(), rcerr.CodeGradeUndefined, "grades.fck"},
		{"bad geometry", func() Request {
			r := request(lc)
			r.Geometry.EffectiveDepth = 520
			return r
		}(), rcerr.CodeGeometry, "geometry.effective_depth"},
		{"zero span", func() Request {
			r := request(lc)
			r.Span = 0
			return r
		}(), rcerr.CodeInvalidField, "span"},
		{"NaN width", func() Request {
			r := request(lc)
			r.Geometry.Width = math.NaN()
			return r
		}(), rcerr.CodeGeometry, "geometry.width"},
		{"infinite cover", func() Request {
			r := request(lc)
			r.Geometry.Cover = math.Inf(1)
			return r
		}(), rcerr.CodeGeometry, "geometry.cover"},
		{"infinite span", func() Request {
			r := request(lc)
			r.Span = math.Inf(1)
			return r
		}(), rcerr.CodeInvalidField, "span"},
		{"unknown support", func() Request {
			r := request(lc)
			r.Support = "fixed"
			return r
		}(), rcerr.CodeInvalidField, "support"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := engine().Evaluate(tt.req)
			require.Error(t, err)

			ie, ok := rcerr.AsInput(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, ie.Code)
			assert.Equal(t, tt.field, ie.Field)

			assert.Equal(t, Rejected, v.State)
			assert.Equal(t, []Transition{{State: Pending}, {State: Rejected}}, v.Trace)
			assert.Empty(t, v.Cases)
			require.NotNil(t, v.Error)
			assert.Equal(t, tt.code, v.Error.Code)
		})
	}
}

func TestEvaluateBatch_Isolation(t *testing.T) {
	good := request(is456.LoadCase{ID: "LC1", Moment: 150, Shear: 100})
	bad := request()
	bad.Name = "B2"
	other := request(is456.LoadCase{ID: "LC1", Moment: 900, Shear: 100})
	other.Name = "B3"

	results, err := engine().EvaluateBatch(context.Background(), []Request{good, bad, other}, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		assert.Equal(t, i, r.Index)
	}
	require.NotNil(t, results[0].Verdict)
	assert.Equal(t, Pass, results[0].Verdict.Status)

	assert.Nil(t, results[1].Verdict)
	assert.Equal(t, "B2", results[1].Name)
	assert.Equal(t, rcerr.CodeNoLoadCase, results[1].Code)
	assert.NotEmpty(t, results[1].Error)

	require.NotNil(t, results[2].Verdict)
	assert.Equal(t, Infeasible, results[2].Verdict.Status)
}

func TestEvaluateBatch_NonFiniteGeometry(t *testing.T) {
	good := request(is456.LoadCase{ID: "LC1", Moment: 150, Shear: 100})
	bad := good
	bad.Name = "B2"
	bad.Geometry.Cover = math.NaN()

	results, err := engine().EvaluateBatch(context.Background(), []Request{good, bad}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NotNil(t, results[0].Verdict)
	assert.Nil(t, results[1].Verdict)
	assert.Equal(t, rcerr.CodeGeometry, results[1].Code)

	_, err = json.Marshal(results)
	assert.NoError(t, err)
}

func TestEvaluate_ByteIdentical(t *testing.T) {
	req := request(
		is456.LoadCase{ID: "LC2", Moment: -80, Shear: 60},
		is456.LoadCase{ID: "LC1", Moment: 150, Shear: 100},
	)
	req.Support = checks.Continuous

	first, err := engine().Evaluate(req)
	require.NoError(t, err)
	a, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := engine().Evaluate(req)
		require.NoError(t, err)
		b, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b))
	}
}

func TestEvaluateBatch_MatchesSequential(t *testing.T) {
	e := engine()
	var reqs []Request
	for i, mu := range []float64{60, 90, 120, 150, 180, 210, 240} {
		r := request(is456.LoadCase{ID: "LC1", Moment: mu, Shear: 80})
		r.Name = string(rune('A' + i))
		reqs = append(reqs, r)
	}

	results, err := e.EvaluateBatch(context.Background(), reqs, 0)
	require.NoError(t, err)
	for i, r := range results {
		want, err := e.Evaluate(reqs[i])
		require.NoError(t, err)
		require.NotNil(t, r.Verdict)
		assert.Equal(t, want, *r.Verdict)
	}
}

func TestEvaluateBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine().EvaluateBatch(ctx, []Request{request(is456.LoadCase{ID: "LC1", Moment: 100})}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
