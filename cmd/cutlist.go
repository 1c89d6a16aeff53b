package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/cutting"
	"github.com/alexiusacademia/rcbeam/internal/detailing"
)

var (
	cutBeam     beamFlags
	cutRequired float64
	cutStock    []int
	cutKerf     int
	cutJSON     bool
)

var cutlistCmd = &cobra.Command{
	Use:   "cutlist",
	Short: "Bar bending schedule and cutting plan for the best arrangement",
	Long: `Select the best ranked tension bar arrangement, schedule the bars over
the span with development length at both ends (laps where a bar is longer
than the longest stock length), and plan the cutting of each diameter
from stock lengths with first-fit-decreasing.

Examples:
  rcbeam cutlist -b 300 --depth 500 --effective-depth 450 --span 5000 -m 150
  rcbeam cutlist -b 300 --depth 600 --span 11000 --required 1800 --stock 6000,12000 --kerf 5`,
	RunE: runCutlist,
}

func init() {
	rootCmd.AddCommand(cutlistCmd)

	cutBeam.register(cutlistCmd)
	cutlistCmd.Flags().Float64Var(&cutRequired, "required", 0, "Required tension steel (mm²), overrides --mu")
	cutlistCmd.Flags().IntSliceVar(&cutStock, "stock", nil, "Stock lengths (mm), default from config")
	cutlistCmd.Flags().IntVar(&cutKerf, "kerf", -1, "Saw kerf (mm), default from config")
	cutlistCmd.Flags().BoolVar(&cutJSON, "json", false, "Print the cut list as JSON")
}

func runCutlist(cmd *cobra.Command, args []string) error {
	req, err := optimizeRequest(&cutBeam, cutRequired)
	if err != nil {
		return err
	}
	opts := cfg.Cutting
	if len(cutStock) > 0 {
		opts.StockLengths = cutStock
	}
	if cutKerf >= 0 {
		opts.Kerf = cutKerf
	}

	opt := newOptimizer()
	best, err := opt.Best(cmd.Context(), req)
	if err != nil {
		return err
	}
	det := detailing.New(req.Geometry, req.Grades, tables, cfg.Detailing)
	list, err := cutting.ForBeam(det, best.Arrangement, nil, req.Span, opts)
	if err != nil {
		return err
	}
	if cutJSON {
		return writeJSON(os.Stdout, list)
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     CUTTING LIST - %s\n", best.Arrangement)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("BAR BENDING SCHEDULE:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Mark\tφ (mm)\tNo.\tLength (mm)\tPieces (mm)\tLap (mm)\tMass (kg)\n")
	for _, m := range list.Marks {
		fmt.Fprintf(w, "  %s\t%g\t%d\t%d\t%v\t%.0f\t%.2f\n", m.Mark, m.Diameter, m.Count, m.Length, m.Pieces, m.Lap, m.Mass)
	}
	w.Flush()
	fmt.Println()

	for _, p := range list.Plans {
		fmt.Printf("CUTTING PLAN φ%g:\n", p.Diameter)
		fmt.Println("───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Stock\tCuts (mm)\tWaste (mm)\n")
		for _, b := range p.Bars {
			fmt.Fprintf(w, "  %d\t%v\t%d\n", b.Stock, b.Cuts, b.Waste)
		}
		w.Flush()
		fmt.Printf("  Stock %d mm, cut %d mm, kerf %d mm, waste %d mm (%.1f%%)\n\n",
			p.TotalStock, p.TotalCut, p.TotalKerf, p.Waste, p.WastePercent)
	}
	return nil
}
