package is456

import "math"

// curvePoint is a (strain, stress) point on a design stress-strain curve.
type curvePoint struct {
	strain float64
	stress float64 // MPa
}

// Design stress-strain points for cold worked bars
// SP 16 Table A
var steelCurves = map[SteelGrade][]curvePoint{
	415: {
		{0.00144, 288.7},
		{0.00163, 306.7},
		{0.00192, 324.8},
		{0.00241, 342.8},
		{0.00276, 351.8},
		{0.00380, 360.9},
	},
	500: {
		{0.00174, 347.8},
		{0.00195, 369.6},
		{0.00226, 391.3},
		{0.00277, 413.0},
		{0.00312, 423.9},
		{0.00417, 434.8},
	},
}

// SteelStress returns the design stress for a given strain (sign kept).
// Mild steel is elastic-perfectly plastic; cold worked bars follow the
// multilinear SP 16 curve, linear between points.
func SteelStress(fy SteelGrade, strain float64) float64 {
	sign := 1.0
	if strain < 0 {
		sign = -1
	}
	e := math.Abs(strain)
	fyd := SteelDesignFactor * float64(fy)

	pts, ok := steelCurves[fy]
	if !ok {
		return sign * math.Min(e*Es, fyd)
	}
	if e <= pts[0].strain {
		return sign * math.Min(e*Es, pts[0].stress)
	}
	last := pts[len(pts)-1]
	if e >= last.strain {
		return sign * last.stress
	}
	for i := 0; i < len(pts)-1; i++ {
		p0, p1 := pts[i], pts[i+1]
		if e >= p0.strain && e < p1.strain {
			return sign * (p0.stress + (e-p0.strain)*(p1.stress-p0.stress)/(p1.strain-p0.strain))
		}
	}
	return sign * last.stress
}
