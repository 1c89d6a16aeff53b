package compliance

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alexiusacademia/rcbeam/internal/checks"
	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/rcerr"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// Request is one beam to evaluate. Units: mm, kN, kN-m.
type Request struct {
	Name     string           `json:"name" yaml:"name"`
	Geometry section.Geometry `json:"geometry" yaml:"geometry"`
	Grades   is456.Grades     `json:"grades" yaml:"grades"`
	Span     float64          `json:"span" yaml:"span" validate:"gt=0"` // clear span (mm)
	Support  checks.Support   `json:"support,omitempty" yaml:"support" validate:"omitempty,oneof=simply-supported continuous cantilever"`
	Exposure checks.Exposure  `json:"exposure,omitempty" yaml:"exposure" validate:"omitempty,oneof=mild moderate severe very-severe extreme"`
	Cases    []is456.LoadCase `json:"cases" yaml:"cases" validate:"dive"`
}

// Defaults for optional request fields
const (
	DefaultSupport  = checks.SimplySupported
	DefaultExposure = checks.Moderate
)

// withDefaults fills optional fields.
func (r Request) withDefaults() Request {
	if r.Support == "" {
		r.Support = DefaultSupport
	}
	if r.Exposure == "" {
		r.Exposure = DefaultExposure
	}
	return r
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their JSON names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate rejects malformed requests with a stable code and field name.
// Checks run in a fixed order so the first error is deterministic.
func (r Request) Validate() error {
	if err := r.Geometry.Validate(); err != nil {
		return err
	}
	if err := r.Grades.Validate(); err != nil {
		return err
	}
	if math.IsNaN(r.Span) || math.IsInf(r.Span, 0) {
		return rcerr.Input(rcerr.CodeInvalidField, "span", "must be a finite number")
	}
	if len(r.Cases) == 0 {
		return rcerr.Input(rcerr.CodeNoLoadCase, "cases", "at least one load case is required")
	}

	seen := make(map[string]bool, len(r.Cases))
	for i, c := range r.Cases {
		if c.ID != "" && seen[c.ID] {
			return rcerr.Input(rcerr.CodeDuplicateCase, fmt.Sprintf("cases[%d].id", i), "duplicate load case id %q", c.ID)
		}
		seen[c.ID] = true
		for _, v := range []struct {
			field string
			value float64
		}{{"moment", c.Moment}, {"shear", c.Shear}, {"axial", c.Axial}} {
			if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
				return rcerr.Input(rcerr.CodeInvalidField, fmt.Sprintf("cases[%d].%s", i, v.field), "must be a finite number")
			}
		}
	}

	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return rcerr.Input(rcerr.CodeInvalidField, fieldPath(fe.Namespace()), "failed %q validation", fe.Tag())
		}
		return rcerr.Input(rcerr.CodeInvalidField, "", "%v", err)
	}
	return nil
}

// fieldPath strips the struct name from a validator namespace,
// "Request.cases[0].id" -> "cases[0].id".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
