package is456

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/rcbeam/internal/rcerr"
)

// IS 456:2000 limit state constants

const (
	// Ultimate concrete strain in flexure (Section 38.1 (b))
	EpsilonCU = 0.0035

	// Modulus of elasticity for steel (Section 5.6.3)
	Es = 200000.0 // MPa

	// Stress block parameters (Section 38.1, Annex G)
	StressBlockFactor   = 0.36 // 0.36 fck b xu
	StressBlockCentroid = 0.42 // lever arm offset 0.42 xu
	FlangeStressFactor  = 0.45 // 0.45 fck (bf - bw) yf
	SteelDesignFactor   = 0.87 // fy / 1.15
	ConcreteDisplaced   = 0.446

	// Ductile detailing limits (IS 13920)
	MinWidth      = 200.0 // mm
	MinWidthDepth = 0.3
	MinSpanDepth  = 4.0

	// Reinforcement limits (Section 26.5.1)
	MaxSteelRatio        = 0.04
	MaxSteelRatioDuctile = 0.025
)

// ConcreteGrade is the characteristic cube strength fck in MPa.
type ConcreteGrade float64

// SteelGrade is the characteristic yield strength fy in MPa.
type SteelGrade float64

// Enumerated grades. Values outside these sets are rejected.
var (
	ConcreteGrades = []ConcreteGrade{15, 20, 25, 30, 35, 40, 45, 50}
	SteelGrades    = []SteelGrade{250, 415, 500}
)

// Name returns the grade designation, e.g. "M25".
func (g ConcreteGrade) Name() string { return fmt.Sprintf("M%g", float64(g)) }

// Name returns the grade designation, e.g. "Fe415".
func (g SteelGrade) Name() string { return fmt.Sprintf("Fe%g", float64(g)) }

// Defined reports whether fck is one of the enumerated grades.
func (g ConcreteGrade) Defined() bool {
	for _, c := range ConcreteGrades {
		if c == g {
			return true
		}
	}
	return false
}

// Defined reports whether fy is one of the enumerated grades.
func (g SteelGrade) Defined() bool {
	for _, s := range SteelGrades {
		if s == g {
			return true
		}
	}
	return false
}

// Grades pairs a concrete grade with a steel grade.
type Grades struct {
	Concrete ConcreteGrade `json:"fck" yaml:"fck"`
	Steel    SteelGrade    `json:"fy" yaml:"fy"`
}

// Fck returns the concrete strength in MPa.
func (g Grades) Fck() float64 { return float64(g.Concrete) }

// Fy returns the steel strength in MPa.
func (g Grades) Fy() float64 { return float64(g.Steel) }

// String returns e.g. "M25/Fe415".
func (g Grades) String() string { return g.Concrete.Name() + "/" + g.Steel.Name() }

// Validate rejects grades that do not resolve to an enumerated entry.
func (g Grades) Validate() error {
	if !g.Concrete.Defined() {
		return rcerr.Input(rcerr.CodeGradeUndefined, "grades.fck", "concrete grade %g MPa is not a standard grade", float64(g.Concrete))
	}
	if !g.Steel.Defined() {
		return rcerr.Input(rcerr.CodeGradeUndefined, "grades.fy", "steel grade %g MPa is not a standard grade", float64(g.Steel))
	}
	return nil
}

// StepConcrete returns the enumerated concrete grade `step` positions away
// (negative steps go down). ok is false past either end.
func StepConcrete(g ConcreteGrade, step int) (ConcreteGrade, bool) {
	for i, c := range ConcreteGrades {
		if c == g {
			j := i + step
			if j < 0 || j >= len(ConcreteGrades) {
				return 0, false
			}
			return ConcreteGrades[j], true
		}
	}
	return 0, false
}

// StepSteel is StepConcrete for steel grades.
func StepSteel(g SteelGrade, step int) (SteelGrade, bool) {
	for i, s := range SteelGrades {
		if s == g {
			j := i + step
			if j < 0 || j >= len(SteelGrades) {
				return 0, false
			}
			return SteelGrades[j], true
		}
	}
	return 0, false
}

// XuMaxRatio returns the limiting neutral axis depth ratio xu,max/d
// Section 38.1, Note below (d)
func XuMaxRatio(fy SteelGrade) float64 {
	switch fy {
	case 250:
		return 0.53
	case 415:
		return 0.48
	case 500:
		return 0.46
	}
	// xu,max/d = 0.0035 / (0.0055 + 0.87 fy / Es)
	return EpsilonCU / (0.0055 + SteelDesignFactor*float64(fy)/Es)
}

// Ec returns the short term modulus of elasticity of concrete
// Section 6.2.3.1
func Ec(fck ConcreteGrade) float64 {
	return 5000 * math.Sqrt(float64(fck))
}

// Fcr returns the flexural strength (modulus of rupture)
// Section 6.2.2
func Fcr(fck ConcreteGrade) float64 {
	return 0.7 * math.Sqrt(float64(fck))
}

// MinTensionSteel returns the minimum tension steel area
// Section 26.5.1.1 (a): As/bd = 0.85/fy
func MinTensionSteel(fy SteelGrade, b, d float64) float64 {
	return 0.85 * b * d / float64(fy)
}

// MinTensionSteelDuctile returns the IS 13920 minimum: 0.24 √fck / fy
func MinTensionSteelDuctile(g Grades, b, d float64) float64 {
	return 0.24 * math.Sqrt(g.Fck()) / g.Fy() * b * d
}

// BarArea returns the area of one bar of the given diameter in mm².
func BarArea(dia float64) float64 {
	return math.Pi / 4 * dia * dia
}

// BarMassPerMetre returns the unit mass of a bar in kg/m (steel 7850 kg/m³).
func BarMassPerMetre(dia float64) float64 {
	return 7850 * BarArea(dia) * 1e-6
}
