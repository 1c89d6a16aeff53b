package compliance

import (
	"github.com/alexiusacademia/rcbeam/internal/beam"
	"github.com/alexiusacademia/rcbeam/internal/checks"
	"github.com/alexiusacademia/rcbeam/internal/detailing"
	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/rcerr"
	"github.com/alexiusacademia/rcbeam/internal/shear"
)

// SchemaVersion of the Verdict JSON. Changes are additive only.
const SchemaVersion = "1.0"

// Status of a beam or a single case
type Status string

const (
	Pass       Status = "PASS"
	Fail       Status = "FAIL"
	Infeasible Status = "INFEASIBLE"
)

// State of an evaluation run
type State string

const (
	Pending    State = "PENDING"
	Evaluating State = "EVALUATING"
	Governed   State = "GOVERNED"
	Rejected   State = "REJECTED"
)

// Stages reported in reasons besides check names
const (
	StageFlexure   = "flexure"
	StageDetailing = "detailing"
	StageShear     = "shear"
	StageStrength  = "strength"
)

// Reason codes
const (
	CodeCheckFailed         = "check-failed"
	CodeNoArrangement       = "no-arrangement"
	CodeUtilizationExceeded = "utilization-exceeded"
)

// Transition is one step of the run state machine.
type Transition struct {
	State State  `json:"state"`
	Case  string `json:"case,omitempty"`
}

// Reason explains a FAIL or INFEASIBLE outcome. Case is empty for
// beam-level checks.
type Reason struct {
	Case    string `json:"case,omitempty"`
	Check   string `json:"check"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CaseWarning is a policy warning tagged with its load case.
type CaseWarning struct {
	Case string `json:"case"`
	rcerr.Warning
}

// CaseResult is the evaluation of one load case.
type CaseResult struct {
	Case   is456.LoadCase `json:"case"`
	Status Status         `json:"status"`

	Utilization        float64 `json:"utilization"`
	FlexureUtilization float64 `json:"flexure_utilization"`
	ShearUtilization   float64 `json:"shear_utilization"`

	Flexure     beam.FlexureResult     `json:"flexure"`
	Capacity    beam.CapacityResult    `json:"capacity"`
	Tension     *detailing.Arrangement `json:"tension,omitempty"`
	Compression *detailing.Arrangement `json:"compression,omitempty"`
	Shear       shear.Result           `json:"shear"`
	Checks      []checks.Result        `json:"checks"`

	Reasons  []Reason        `json:"reasons,omitempty"`
	Warnings []rcerr.Warning `json:"warnings,omitempty"`
}

// Verdict is the aggregated result for one beam.
type Verdict struct {
	SchemaVersion string `json:"schema_version"`
	Name          string `json:"name,omitempty"`

	Status Status       `json:"status"`
	State  State        `json:"state"`
	Trace  []Transition `json:"trace"`

	GoverningCase string  `json:"governing_case"`
	Utilization   float64 `json:"utilization"`

	Cases   []CaseResult    `json:"cases"`
	Checks  []checks.Result `json:"checks"` // beam-level
	Reasons []Reason        `json:"reasons"`

	Warnings []CaseWarning `json:"warnings"`

	// Arrangements of the governing case
	Tension     *detailing.Arrangement `json:"tension,omitempty"`
	Compression *detailing.Arrangement `json:"compression,omitempty"`

	Error *rcerr.InputError `json:"error,omitempty"`
}

// Case returns the result for a case id.
func (v Verdict) Case(id string) (CaseResult, bool) {
	for _, c := range v.Cases {
		if c.Case.ID == id {
			return c, true
		}
	}
	return CaseResult{}, false
}

func (v *Verdict) transition(s State, caseID string) {
	v.State = s
	v.Trace = append(v.Trace, Transition{State: s, Case: caseID})
}
