package beam

import (
	"math"

	"github.com/alexiusacademia/rcbeam/internal/is456"
)

// NeutralAxisTolerance is the absolute tolerance on xu for every
// iterative branch (mm).
const NeutralAxisTolerance = 0.01

// MaxIterations bounds every bisection loop.
const MaxIterations = 200

// stressBlock models the concrete compression zone of a rectangular or
// flanged section. Forces are in N, moments in N-mm about the tension
// steel centroid.
type stressBlock struct {
	fck     float64
	bw      float64 // web width
	bf      float64 // flange width (== bw when no flange)
	df      float64 // flange thickness (0 when no flange)
	d       float64
	flanged bool
}

func newStressBlock(fck, bw, bf, df, d float64) stressBlock {
	return stressBlock{
		fck:     fck,
		bw:      bw,
		bf:      bf,
		df:      df,
		d:       d,
		flanged: bf > bw && df > 0,
	}
}

// yf is the equivalent flange depth (IS 456 G-2.2.2)
func (s stressBlock) yf(xu float64) float64 {
	if s.df/s.d <= 0.2 {
		return s.df
	}
	return math.Min(0.15*xu+0.65*s.df, s.df)
}

// inFlange reports whether the rectangular-with-bf model applies.
func (s stressBlock) inFlange(xu float64) bool {
	return !s.flanged || xu <= s.df
}

// force returns the concrete compression force C(xu)
func (s stressBlock) force(xu float64) float64 {
	if s.inFlange(xu) {
		return is456.StressBlockFactor * s.fck * s.bf * xu
	}
	return is456.StressBlockFactor*s.fck*s.bw*xu +
		is456.FlangeStressFactor*s.fck*(s.bf-s.bw)*s.yf(xu)
}

// moment returns the concrete moment about the tension steel M(xu)
func (s stressBlock) moment(xu float64) float64 {
	if s.inFlange(xu) {
		return is456.StressBlockFactor * s.fck * s.bf * xu * (s.d - is456.StressBlockCentroid*xu)
	}
	y := s.yf(xu)
	return is456.StressBlockFactor*s.fck*s.bw*xu*(s.d-is456.StressBlockCentroid*xu) +
		is456.FlangeStressFactor*s.fck*(s.bf-s.bw)*y*(s.d-y/2)
}

// rectangularRoot solves 0.1512 fck b xu² - 0.36 fck b d xu + Mu = 0 for
// the smaller root. ok is false when the discriminant is negative or the
// root is negative.
func rectangularRoot(fck, b, d, mu float64) (xu float64, ok bool) {
	a := is456.StressBlockFactor * is456.StressBlockCentroid * fck * b
	bq := is456.StressBlockFactor * fck * b * d
	disc := bq*bq - 4*a*mu
	if disc < 0 {
		return 0, false
	}
	xu = (bq - math.Sqrt(disc)) / (2 * a)
	if xu < 0 {
		return 0, false
	}
	return xu, true
}

// bisect finds x in [lo, hi] with f(x) = 0 for an increasing f, to
// NeutralAxisTolerance. It returns the midpoint of the final bracket and
// the number of halvings used.
func bisect(lo, hi float64, f func(float64) float64) (x float64, iterations int, converged bool) {
	for iterations = 0; iterations < MaxIterations; iterations++ {
		if hi-lo <= NeutralAxisTolerance {
			return (lo + hi) / 2, iterations, true
		}
		mid := (lo + hi) / 2
		if f(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, iterations, hi-lo <= NeutralAxisTolerance
}
