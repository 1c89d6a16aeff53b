package detailing

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/rcbeam/internal/is456"
)

// Bond stress multipliers (Section 26.2.1.1)
const (
	DeformedBondFactor    = 1.6
	CompressionBondFactor = 1.25
)

// Minimum lap lengths as multiples of bar diameter (Section 26.2.5.1)
const (
	TensionLapFactor     = 30.0
	CompressionLapFactor = 24.0
)

// BondStress returns the design bond stress τbd for the bar surface and
// stress sense.
func (d *Detailer) BondStress(compression bool) (float64, error) {
	tbd, err := d.Tables.BondStress.At(d.Grades.Concrete)
	if err != nil {
		return 0, fmt.Errorf("bond stress: %w", err)
	}
	if d.Options.Surface == Deformed {
		tbd *= DeformedBondFactor
	}
	if compression {
		tbd *= CompressionBondFactor
	}
	return tbd, nil
}

// DevelopmentLength returns Ld = φ σs / (4 τbd) with σs = 0.87 fy
// Section 26.2.1
func (d *Detailer) DevelopmentLength(dia float64, compression bool) (float64, error) {
	tbd, err := d.BondStress(compression)
	if err != nil {
		return 0, err
	}
	return dia * is456.SteelDesignFactor * d.Grades.Fy() / (4 * tbd), nil
}

// LapLength returns the lap splice length: max(Ld, 30φ) in tension,
// max(Ld, 24φ) in compression. Section 26.2.5.1
func (d *Detailer) LapLength(dia float64, compression bool) (float64, error) {
	ld, err := d.DevelopmentLength(dia, compression)
	if err != nil {
		return 0, err
	}
	factor := TensionLapFactor
	if compression {
		factor = CompressionLapFactor
	}
	return math.Max(ld, factor*dia), nil
}
