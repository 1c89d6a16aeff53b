// Package detailing turns required steel areas into buildable bar
// arrangements and bar schedules: catalog selection, clear spacing rules
// (IS 456 26.3), development and lap lengths (26.2).
package detailing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// ErrNoArrangement is returned when no catalog arrangement fits.
var ErrNoArrangement = errors.New("detailing: no bar arrangement fits")

// ErrInvalidArrangement is returned by Validate.
var ErrInvalidArrangement = errors.New("detailing: invalid arrangement")

// CongestionFactor flags arrangements whose clear spacing is below this
// multiple of the minimum clear spacing.
const CongestionFactor = 1.25

// OverProvisionFactor flags selections whose area exceeds this multiple of
// the required area, which happens when the maximum spacing rules out the
// small bars.
const OverProvisionFactor = 1.5

// MinClearSpacing is the absolute minimum clear spacing (mm)
const MinClearSpacing = 25.0

// Surface of the reinforcing bars
type Surface string

const (
	Plain    Surface = "plain"
	Deformed Surface = "deformed"
)

// Options controls the bar catalog and detailing rules.
type Options struct {
	Diameters       []float64 `yaml:"diameters"` // catalog (mm), ascending
	MinCount        int       `yaml:"min_count"`
	MaxCount        int       `yaml:"max_count"`
	AggregateSize   float64   `yaml:"aggregate_size"`   // nominal maximum (mm)
	StirrupDiameter float64   `yaml:"stirrup_diameter"` // mm
	Surface         Surface   `yaml:"surface"`
}

// DefaultOptions returns the standard catalog.
func DefaultOptions() Options {
	return Options{
		Diameters:       []float64{10, 12, 16, 20, 25, 28, 32},
		MinCount:        2,
		MaxCount:        8,
		AggregateSize:   20,
		StirrupDiameter: 8,
		Surface:         Deformed,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if len(o.Diameters) == 0 {
		return fmt.Errorf("detailing: empty bar catalog")
	}
	for i := 1; i < len(o.Diameters); i++ {
		if o.Diameters[i] <= o.Diameters[i-1] {
			return fmt.Errorf("detailing: catalog diameters must be strictly ascending")
		}
	}
	if o.MinCount < 2 || o.MaxCount < o.MinCount {
		return fmt.Errorf("detailing: invalid bar count range [%d, %d]", o.MinCount, o.MaxCount)
	}
	if o.AggregateSize <= 0 || o.StirrupDiameter <= 0 {
		return fmt.Errorf("detailing: aggregate size and stirrup diameter must be positive")
	}
	switch o.Surface {
	case Plain, Deformed:
	default:
		return fmt.Errorf("detailing: unknown bar surface %q", o.Surface)
	}
	return nil
}

// MaxClearSpacing returns the maximum clear distance between tension bars
// for the steel grade (Section 26.3.3, Table 15, no redistribution).
func MaxClearSpacing(fy is456.SteelGrade) float64 {
	switch {
	case fy <= 250:
		return 300
	case fy <= 415:
		return 180
	}
	return 150
}

// Detailer arranges bars for one section.
type Detailer struct {
	Geometry section.Geometry
	Grades   is456.Grades
	Tables   is456.Tables
	Options  Options
}

// New creates a Detailer.
func New(g section.Geometry, grades is456.Grades, tables is456.Tables, opts Options) *Detailer {
	return &Detailer{Geometry: g, Grades: grades, Tables: tables, Options: opts}
}

// Arrange lays out the groups in one layer and computes spacing and flags.
// It does not check the arrangement against a required area; see Validate.
func (d *Detailer) Arrange(groups ...Group) Arrangement {
	a := Arrangement{
		Groups: normalise(groups),
		Layers: 1,
	}
	a.Area = area(a.Groups)

	n := a.Count()
	maxDia := a.MaxDiameter()
	a.MinClearSpacing = math.Max(math.Max(maxDia, d.Options.AggregateSize+5), MinClearSpacing)
	a.MaxClearSpacing = MaxClearSpacing(d.Grades.Steel)

	if n < 2 {
		return a
	}
	var sumDia float64
	for _, g := range a.Groups {
		sumDia += float64(g.Count) * g.Diameter
	}
	g := d.Geometry
	available := g.Width - 2*g.Cover - 2*d.Options.StirrupDiameter - sumDia
	a.ClearSpacing = available / float64(n-1)

	if a.ClearSpacing < CongestionFactor*a.MinClearSpacing {
		a.Flags = append(a.Flags, FlagCongested)
	}
	if a.ClearSpacing > a.MaxClearSpacing {
		a.Flags = append(a.Flags, FlagExceedsMaxSpacing)
	}
	return a
}

// Validate re-checks an arrangement against the required area and the
// spacing rules.
func (d *Detailer) Validate(a Arrangement, required float64) error {
	var reasons []string
	if len(a.Groups) == 0 {
		reasons = append(reasons, "no bars")
	}
	if len(a.Groups) > 2 {
		reasons = append(reasons, fmt.Sprintf("%d distinct diameters, at most 2 allowed", len(a.Groups)))
	}
	if n := a.Count(); n < d.Options.MinCount || n > d.Options.MaxCount {
		reasons = append(reasons, fmt.Sprintf("%d bars outside [%d, %d]", n, d.Options.MinCount, d.Options.MaxCount))
	}
	if got := area(a.Groups); got < required {
		reasons = append(reasons, fmt.Sprintf("area %.1f mm² below required %.1f mm²", got, required))
	}
	if a.ClearSpacing < a.MinClearSpacing {
		reasons = append(reasons, fmt.Sprintf("clear spacing %.1f mm below minimum %.1f mm", a.ClearSpacing, a.MinClearSpacing))
	}
	if a.ClearSpacing > a.MaxClearSpacing {
		reasons = append(reasons, fmt.Sprintf("clear spacing %.1f mm above maximum %.1f mm", a.ClearSpacing, a.MaxClearSpacing))
	}
	if len(reasons) > 0 {
		return fmt.Errorf("%w %s: %s", ErrInvalidArrangement, a.Key(), strings.Join(reasons, "; "))
	}
	return nil
}

// Candidates returns every valid single-diameter arrangement for the
// required area, ordered by bar count then diameter.
func (d *Detailer) Candidates(required float64) []Arrangement {
	var out []Arrangement
	for n := d.Options.MinCount; n <= d.Options.MaxCount; n++ {
		for _, dia := range d.Options.Diameters {
			a := d.Arrange(Group{Diameter: dia, Count: n})
			if d.Validate(a, required) == nil {
				out = append(out, a)
			}
		}
	}
	return out
}

// Select returns the first valid arrangement ordered by (count asc,
// diameter asc). A selection far above required carries FlagOverProvided.
func (d *Detailer) Select(required float64) (Arrangement, error) {
	for n := d.Options.MinCount; n <= d.Options.MaxCount; n++ {
		for _, dia := range d.Options.Diameters {
			a := d.Arrange(Group{Diameter: dia, Count: n})
			if d.Validate(a, required) == nil {
				if required > 0 && a.Area > OverProvisionFactor*required {
					a.Flags = append(a.Flags, FlagOverProvided)
				}
				return a, nil
			}
		}
	}
	return Arrangement{}, fmt.Errorf("%w: %.1f mm² in a %.0f mm web", ErrNoArrangement, required, d.Geometry.Width)
}
