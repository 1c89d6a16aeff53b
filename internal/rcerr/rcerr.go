// Package rcerr holds the error and warning types shared by the design
// engine: input errors with stable codes, and policy-boundary warnings
// that must travel with a result.
package rcerr

import (
	"errors"
	"fmt"
)

// Stable input error codes. These are part of the output contract.
const (
	CodeGeometry       = "E_GEOMETRY"
	CodeGradeUndefined = "E_GRADE_UNDEFINED"
	CodeNoLoadCase     = "E_NO_LOAD_CASE"
	CodeDuplicateCase  = "E_DUPLICATE_CASE"
	CodeInvalidField   = "E_INVALID_FIELD"
)

// InputError is returned before any solver runs when a request is malformed.
type InputError struct {
	Code  string `json:"code"`
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Msg)
}

// Input builds an InputError.
func Input(code, field, format string, args ...any) *InputError {
	return &InputError{Code: code, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// AsInput unwraps err into an InputError if it is one.
func AsInput(err error) (*InputError, bool) {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// Policy warning codes.
const (
	WarnRatioClamped    = "pt-clamped"
	WarnSpacingRounded  = "spacing-rounded-down"
	WarnMinSteelGoverns = "min-steel-governs"
	WarnAxialIgnored    = "axial-ignored"
	WarnCongested       = "congested"
	WarnOverProvided    = "over-provided"
)

// Warning is a policy-boundary notice. Warnings never change a verdict
// but are always reported.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warn builds a Warning.
func Warn(code, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}
