// Package cutting plans how required bar lengths are cut from commercial
// stock lengths with first-fit-decreasing. All lengths are integer
// millimetres so that stock = cut + kerf + waste holds exactly.
package cutting

import (
	"errors"
	"fmt"
	"sort"

	"github.com/alexiusacademia/rcbeam/internal/detailing"
)

// ErrNoStock is returned when no usable stock length is configured.
var ErrNoStock = errors.New("cutting: no stock lengths")

// ErrInvalidCut is returned for a cut length that is not positive.
var ErrInvalidCut = errors.New("cutting: cut length must be positive")

// Options controls the stock and the saw.
type Options struct {
	StockLengths []int `json:"stock_lengths" yaml:"stock_lengths"` // mm
	Kerf         int   `json:"kerf" yaml:"kerf"`                   // mm lost per cut
}

// DefaultOptions returns common mill lengths with no kerf.
func DefaultOptions() Options {
	return Options{StockLengths: []int{6000, 9000, 12000}}
}

// Validate checks the options.
func (o Options) Validate() error {
	if len(o.StockLengths) == 0 {
		return ErrNoStock
	}
	for _, s := range o.StockLengths {
		if s <= 0 {
			return fmt.Errorf("cutting: stock length must be positive, got %d", s)
		}
	}
	if o.Kerf < 0 {
		return fmt.Errorf("cutting: kerf must not be negative, got %d", o.Kerf)
	}
	return nil
}

// Longest returns the longest stock length.
func (o Options) Longest() int {
	var m int
	for _, s := range o.StockLengths {
		if s > m {
			m = s
		}
	}
	return m
}

// Bar is one stock bar and the pieces cut from it.
type Bar struct {
	Stock int   `json:"stock"`
	Cuts  []int `json:"cuts"`
	Used  int   `json:"used"` // sum of cuts
	Kerf  int   `json:"kerf"`
	Waste int   `json:"waste"`
}

func (b Bar) free(kerf int) int {
	return b.Stock - b.Used - b.Kerf - kerf
}

// Plan is the result of one cutting run.
type Plan struct {
	Diameter float64 `json:"diameter,omitempty"`
	Bars     []Bar   `json:"bars"`
	Unplaced []int   `json:"unplaced,omitempty"` // longer than any stock

	Pieces       int     `json:"pieces"`
	TotalStock   int     `json:"total_stock"`
	TotalCut     int     `json:"total_cut"`
	TotalKerf    int     `json:"total_kerf"`
	Waste        int     `json:"waste"`
	WastePercent float64 `json:"waste_percent"`
}

// Optimize packs the cuts into stock bars by first-fit-decreasing. New
// bars are opened at the longest stock length; once packed, each bar is
// cut down to the shortest stock length that still holds its pieces.
// Cuts longer than any stock are listed in Unplaced.
func Optimize(cuts []int, opts Options) (Plan, error) {
	if err := opts.Validate(); err != nil {
		return Plan{}, err
	}
	for i, c := range cuts {
		if c <= 0 {
			return Plan{}, fmt.Errorf("%w: cut %d is %d mm", ErrInvalidCut, i, c)
		}
	}
	stocks := append([]int(nil), opts.StockLengths...)
	sort.Ints(stocks)
	longest := stocks[len(stocks)-1]

	sorted := append([]int(nil), cuts...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	var plan Plan
	for _, c := range sorted {
		if c+opts.Kerf > longest {
			plan.Unplaced = append(plan.Unplaced, c)
			continue
		}
		placed := false
		for i := range plan.Bars {
			if plan.Bars[i].free(opts.Kerf) >= c {
				plan.Bars[i].Cuts = append(plan.Bars[i].Cuts, c)
				plan.Bars[i].Used += c
				plan.Bars[i].Kerf += opts.Kerf
				placed = true
				break
			}
		}
		if !placed {
			plan.Bars = append(plan.Bars, Bar{Stock: longest, Cuts: []int{c}, Used: c, Kerf: opts.Kerf})
		}
	}

	for i := range plan.Bars {
		b := &plan.Bars[i]
		for _, s := range stocks {
			if s >= b.Used+b.Kerf {
				b.Stock = s
				break
			}
		}
		b.Waste = b.Stock - b.Used - b.Kerf

		plan.Pieces += len(b.Cuts)
		plan.TotalStock += b.Stock
		plan.TotalCut += b.Used
		plan.TotalKerf += b.Kerf
		plan.Waste += b.Waste
	}
	if plan.TotalStock > 0 {
		plan.WastePercent = 100 * float64(plan.Waste) / float64(plan.TotalStock)
	}
	return plan, nil
}

// OptimizeSchedule plans each bar diameter of a schedule separately,
// smallest diameter first.
func OptimizeSchedule(marks []detailing.BarMark, opts Options) ([]Plan, error) {
	byDia := map[float64][]int{}
	var dias []float64
	for _, m := range marks {
		if _, ok := byDia[m.Diameter]; !ok {
			dias = append(dias, m.Diameter)
		}
		byDia[m.Diameter] = append(byDia[m.Diameter], m.Cuts()...)
	}
	sort.Float64s(dias)

	plans := make([]Plan, 0, len(dias))
	for _, dia := range dias {
		p, err := Optimize(byDia[dia], opts)
		if err != nil {
			return nil, fmt.Errorf("φ%g: %w", dia, err)
		}
		p.Diameter = dia
		plans = append(plans, p)
	}
	return plans, nil
}

// CutList is a bar bending schedule with its cutting plans.
type CutList struct {
	Marks []detailing.BarMark `json:"marks"`
	Plans []Plan              `json:"plans"`
}

// ForBeam schedules the tension bars (marks T1, T2...) and, when given,
// the compression bars (C1, C2...) over the clear span, then plans the
// cutting of every diameter from the configured stock.
func ForBeam(d *detailing.Detailer, tension detailing.Arrangement, compression *detailing.Arrangement, span float64, opts Options) (CutList, error) {
	if err := opts.Validate(); err != nil {
		return CutList{}, err
	}
	// Each piece must fit the longest stock with its kerf
	maxPiece := opts.Longest() - opts.Kerf
	marks, err := d.Schedule("T", tension, span, maxPiece, false)
	if err != nil {
		return CutList{}, err
	}
	if compression != nil {
		cm, err := d.Schedule("C", *compression, span, maxPiece, true)
		if err != nil {
			return CutList{}, err
		}
		marks = append(marks, cm...)
	}
	plans, err := OptimizeSchedule(marks, opts)
	if err != nil {
		return CutList{}, err
	}
	return CutList{Marks: marks, Plans: plans}, nil
}
