package is456

import (
	"fmt"
	"math"
)

// LoadCase is one set of factored design actions on a beam.
// Sign convention: positive moment is sagging, negative is hogging.
type LoadCase struct {
	ID     string  `json:"id" yaml:"id" validate:"required"`
	Moment float64 `json:"moment" yaml:"moment"`         // Mu (kN-m)
	Shear  float64 `json:"shear" yaml:"shear"`           // Vu (kN)
	Axial  float64 `json:"axial,omitempty" yaml:"axial"` // Pu (kN), compression positive
}

// Hogging reports whether the case puts the top face in tension.
func (lc LoadCase) Hogging() bool { return lc.Moment < 0 }

// LoadCombination represents a limit state of collapse load combination
// Based on IS 456:2000 Table 18
type LoadCombination struct {
	ID          string
	Description string
	// Partial safety factors for each load type
	Dead    float64 // DL
	Live    float64 // LL (imposed)
	Lateral float64 // WL or EL, signed
}

// Effect holds unfactored actions from one load type.
type Effect struct {
	Moment float64 `json:"moment" yaml:"moment"` // kN-m
	Shear  float64 `json:"shear" yaml:"shear"`   // kN
}

// LoadEffects holds unfactored actions from different load types
type LoadEffects struct {
	Dead       Effect `json:"dead" yaml:"dead"`
	Live       Effect `json:"live" yaml:"live"`
	Wind       Effect `json:"wind" yaml:"wind"`
	Earthquake Effect `json:"earthquake" yaml:"earthquake"`
}

// IS 456 Table 18 - gravity combinations
var GravityCombinations = []LoadCombination{
	{ID: "1", Description: "1.5(DL + LL)", Dead: 1.5, Live: 1.5},
}

// IS 456 Table 18 - combinations with lateral load (applied for WL and EL
// separately, each direction)
var LateralCombinations = []LoadCombination{
	{ID: "2a", Description: "1.2(DL + LL + L)", Dead: 1.2, Live: 1.2, Lateral: 1.2},
	{ID: "2b", Description: "1.2(DL + LL - L)", Dead: 1.2, Live: 1.2, Lateral: -1.2},
	{ID: "3a", Description: "1.5(DL + L)", Dead: 1.5, Lateral: 1.5},
	{ID: "3b", Description: "1.5(DL - L)", Dead: 1.5, Lateral: -1.5},
	{ID: "4a", Description: "0.9DL + 1.5L", Dead: 0.9, Lateral: 1.5},
	{ID: "4b", Description: "0.9DL - 1.5L", Dead: 0.9, Lateral: -1.5},
}

// Factor applies the combination to the unfactored effects using the
// given lateral effect.
func (lc LoadCombination) Factor(e LoadEffects, lateral Effect) LoadCase {
	return LoadCase{
		Moment: lc.Dead*e.Dead.Moment + lc.Live*e.Live.Moment + lc.Lateral*lateral.Moment,
		Shear:  lc.Dead*e.Dead.Shear + lc.Live*e.Live.Shear + lc.Lateral*lateral.Shear,
	}
}

// BuildCases expands the effects into factored load cases. Gravity
// combinations are always produced; lateral combinations only for lateral
// load types with a non-zero effect. Case IDs are "LC<id>" with a "-WL"
// or "-EL" suffix for lateral combinations.
func BuildCases(e LoadEffects) []LoadCase {
	var cases []LoadCase
	for _, combo := range GravityCombinations {
		c := combo.Factor(e, Effect{})
		c.ID = "LC" + combo.ID
		cases = append(cases, c)
	}

	laterals := []struct {
		suffix string
		effect Effect
	}{
		{"WL", e.Wind},
		{"EL", e.Earthquake},
	}
	for _, l := range laterals {
		if l.effect.Moment == 0 && l.effect.Shear == 0 {
			continue
		}
		for _, combo := range LateralCombinations {
			c := combo.Factor(e, l.effect)
			c.ID = fmt.Sprintf("LC%s-%s", combo.ID, l.suffix)
			cases = append(cases, c)
		}
	}
	return cases
}

// GoverningMoment finds the case with the largest absolute factored moment
func GoverningMoment(cases []LoadCase) (LoadCase, bool) {
	var gov LoadCase
	found := false
	for _, c := range cases {
		if !found || math.Abs(c.Moment) > math.Abs(gov.Moment) {
			gov = c
			found = true
		}
	}
	return gov, found
}
