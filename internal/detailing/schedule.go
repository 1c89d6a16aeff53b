package detailing

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/rcbeam/internal/is456"
)

// BarMark is one line of a bar bending schedule.
type BarMark struct {
	Mark     string  `json:"mark"`
	Diameter float64 `json:"diameter"` // mm
	Count    int     `json:"count"`

	Length int     `json:"length"` // required continuous length per bar (mm)
	Pieces []int   `json:"pieces"` // cut pieces per bar, laps included (mm)
	Lap    float64 `json:"lap,omitempty"`

	Mass float64 `json:"mass"` // kg, all bars
}

// Cuts returns every cut length for the mark, one entry per piece.
func (b BarMark) Cuts() []int {
	cuts := make([]int, 0, b.Count*len(b.Pieces))
	for i := 0; i < b.Count; i++ {
		cuts = append(cuts, b.Pieces...)
	}
	return cuts
}

// Schedule builds bar marks for an arrangement over a clear span. Each bar
// runs the span plus a development length at both ends; bars longer than
// maxStock are split into equal pieces joined with laps.
func (d *Detailer) Schedule(prefix string, a Arrangement, span float64, maxStock int, compression bool) ([]BarMark, error) {
	marks := make([]BarMark, 0, len(a.Groups))
	for i, g := range a.Groups {
		ld, err := d.DevelopmentLength(g.Diameter, compression)
		if err != nil {
			return nil, err
		}
		lap, err := d.LapLength(g.Diameter, compression)
		if err != nil {
			return nil, err
		}

		length := int(math.Ceil(span + 2*ld))
		pieces, err := splitBar(length, maxStock, int(math.Ceil(lap)))
		if err != nil {
			return nil, fmt.Errorf("mark %s%d: %w", prefix, i+1, err)
		}

		var total int
		for _, p := range pieces {
			total += p
		}
		m := BarMark{
			Mark:     fmt.Sprintf("%s%d", prefix, i+1),
			Diameter: g.Diameter,
			Count:    g.Count,
			Length:   length,
			Pieces:   pieces,
			Mass:     float64(g.Count) * float64(total) / 1000 * is456.BarMassPerMetre(g.Diameter),
		}
		if len(pieces) > 1 {
			m.Lap = lap
		}
		marks = append(marks, m)
	}
	return marks, nil
}

// splitBar splits a bar of the given length into the fewest pieces no
// longer than maxStock, each joint adding one lap.
func splitBar(length, maxStock, lap int) ([]int, error) {
	if maxStock <= 0 || length <= maxStock {
		return []int{length}, nil
	}
	if lap >= maxStock {
		return nil, fmt.Errorf("lap %d mm does not fit in %d mm stock", lap, maxStock)
	}
	// n pieces cover length + (n-1) laps
	n := (length - lap + (maxStock - lap) - 1) / (maxStock - lap)
	total := length + (n-1)*lap
	piece := (total + n - 1) / n

	pieces := make([]int, n)
	for i := 0; i < n-1; i++ {
		pieces[i] = piece
	}
	pieces[n-1] = total - (n-1)*piece
	return pieces, nil
}
