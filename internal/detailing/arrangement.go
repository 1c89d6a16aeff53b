package detailing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alexiusacademia/rcbeam/internal/is456"
)

// Arrangement flags
const (
	FlagCongested         = "congested"
	FlagExceedsMaxSpacing = "exceeds-max-spacing"
	FlagOverProvided      = "over-provided"
)

// Group is a set of bars of one diameter.
type Group struct {
	Diameter float64 `json:"diameter"` // mm
	Count    int     `json:"count"`
}

// Arrangement is a single-layer set of longitudinal bars across the web.
type Arrangement struct {
	Groups []Group `json:"groups"` // largest diameter first

	Area            float64 `json:"area"`              // provided (mm²)
	ClearSpacing    float64 `json:"clear_spacing"`     // mm
	MinClearSpacing float64 `json:"min_clear_spacing"` // mm
	MaxClearSpacing float64 `json:"max_clear_spacing"` // mm
	Layers          int     `json:"layers"`

	Flags []string `json:"flags,omitempty"`
}

// Count returns the total number of bars.
func (a Arrangement) Count() int {
	n := 0
	for _, g := range a.Groups {
		n += g.Count
	}
	return n
}

// MaxDiameter returns the largest bar diameter.
func (a Arrangement) MaxDiameter() float64 {
	var m float64
	for _, g := range a.Groups {
		if g.Diameter > m {
			m = g.Diameter
		}
	}
	return m
}

// MinDiameter returns the smallest bar diameter.
func (a Arrangement) MinDiameter() float64 {
	m := 0.0
	for i, g := range a.Groups {
		if i == 0 || g.Diameter < m {
			m = g.Diameter
		}
	}
	return m
}

// Diameters returns the number of distinct diameters.
func (a Arrangement) Diameters() int {
	return len(a.Groups)
}

// CentreSpacing returns the centre-to-centre spacing of adjacent bars,
// taken with the largest diameter.
func (a Arrangement) CentreSpacing() float64 {
	return a.ClearSpacing + a.MaxDiameter()
}

// HasFlag reports whether the arrangement carries flag.
func (a Arrangement) HasFlag(flag string) bool {
	for _, f := range a.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Key is a stable text form, e.g. "3-20+2-16".
func (a Arrangement) Key() string {
	parts := make([]string, len(a.Groups))
	for i, g := range a.Groups {
		parts[i] = fmt.Sprintf("%d-%g", g.Count, g.Diameter)
	}
	return strings.Join(parts, "+")
}

// ParseGroups parses the Key form, e.g. "4-20" or "3-20+2-16". A "φ" before
// the diameter is accepted.
func ParseGroups(key string) ([]Group, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("bars: empty arrangement")
	}
	var groups []Group
	for _, part := range strings.Split(key, "+") {
		count, dia, ok := strings.Cut(strings.TrimSpace(part), "-")
		if !ok {
			return nil, fmt.Errorf("bars %q: want count-diameter, e.g. 4-20", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("bars %q: count must be a positive integer", part)
		}
		d, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(dia), "φ"), 64)
		if err != nil || !(d > 0) || d > 100 {
			return nil, fmt.Errorf("bars %q: diameter must be a positive number of mm", part)
		}
		groups = append(groups, Group{Diameter: d, Count: n})
	}
	return groups, nil
}

// String describes the arrangement, e.g. "3-φ20 + 2-φ16 (1571 mm²)".
func (a Arrangement) String() string {
	parts := make([]string, len(a.Groups))
	for i, g := range a.Groups {
		parts[i] = fmt.Sprintf("%d-φ%g", g.Count, g.Diameter)
	}
	return fmt.Sprintf("%s (%.0f mm²)", strings.Join(parts, " + "), a.Area)
}

// normalise merges groups of equal diameter, drops empty groups and orders
// the groups largest diameter first.
func normalise(groups []Group) []Group {
	byDia := map[float64]int{}
	for _, g := range groups {
		if g.Count > 0 {
			byDia[g.Diameter] += g.Count
		}
	}
	out := make([]Group, 0, len(byDia))
	for dia, n := range byDia {
		out = append(out, Group{Diameter: dia, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Diameter > out[j].Diameter })
	return out
}

// area returns the total bar area of the groups.
func area(groups []Group) float64 {
	var a float64
	for _, g := range groups {
		a += float64(g.Count) * is456.BarArea(g.Diameter)
	}
	return a
}
