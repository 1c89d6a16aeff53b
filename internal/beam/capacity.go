package beam

import (
	"math"

	"github.com/alexiusacademia/rcbeam/internal/is456"
)

// CapacityResult holds the results of moment capacity analysis for a
// section with known reinforcement
type CapacityResult struct {
	Ast float64 `json:"ast"` // provided tension steel (mm²)
	Asc float64 `json:"asc"` // provided compression steel (mm²)

	Xu             float64        `json:"xu"`     // neutral axis depth (mm)
	XuMax          float64        `json:"xu_max"` // limiting neutral axis depth (mm)
	Classification Classification `json:"classification"`
	Iterations     int            `json:"iterations"`

	// Forces (kN)
	Cc float64 `json:"cc"` // concrete compression
	Cs float64 `json:"cs"` // net compression steel force
	T  float64 `json:"t"`  // tension steel force

	MuR float64 `json:"mu_r"` // design moment of resistance (kN-m)
}

// Capacity calculates the moment of resistance for provided steel areas.
// The neutral axis is found from force equilibrium by bisection; when it
// would fall below xu,max the section is over-reinforced and the capacity
// is taken at xu,max (IS 456 G-1.1 (d)).
func (f *Flexure) Capacity(ast, asc float64, hogging bool) CapacityResult {
	g := f.Geometry
	fck, fy := f.Grades.Fck(), f.Grades.Fy()
	blk := f.block(hogging)
	d := g.EffectiveDepth
	dp := g.CompressionSteelDepth()

	result := CapacityResult{
		Ast:   ast,
		Asc:   asc,
		XuMax: f.XuMax(),
	}
	if ast <= 0 {
		return result
	}

	tension := ast * is456.SteelDesignFactor * fy

	// Net force in the compression steel at neutral axis depth xu. Steel
	// above the neutral axis only; below it is ignored.
	steelForce := func(xu float64) float64 {
		if asc <= 0 || xu <= dp {
			return 0
		}
		eps := is456.EpsilonCU * (xu - dp) / xu
		fsc := is456.SteelStress(f.Grades.Steel, eps)
		return asc * math.Max(fsc-is456.ConcreteDisplaced*fck, 0)
	}
	imbalance := func(xu float64) float64 {
		return blk.force(xu) + steelForce(xu) - tension
	}

	xu := result.XuMax
	if imbalance(result.XuMax) < 0 {
		result.Classification = OverReinforced
	} else {
		var iters int
		xu, iters, _ = bisect(0, result.XuMax, imbalance)
		result.Iterations = iters
		result.Classification = UnderReinforced
	}

	result.Xu = xu
	cs := steelForce(xu)
	mu := blk.moment(xu) + cs*(d-dp)

	result.Cc = blk.force(xu) / 1000
	result.Cs = cs / 1000
	result.T = math.Min(tension, blk.force(xu)+cs) / 1000
	result.MuR = mu / 1e6
	return result
}
