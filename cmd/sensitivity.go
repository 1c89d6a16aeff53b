package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/diagram"
	"github.com/alexiusacademia/rcbeam/internal/sensitivity"
)

var (
	sensBeam   beamFlags
	sensDelta  float64
	sensJSON   bool
	sensExport string
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Rank design inputs by their effect on utilization",
	Long: `Perturb each input of a beam up and down and rank the inputs by the
largest change in governing utilization.

Width, depth, span, moments and shears move by the relative delta;
concrete and steel grades move one standard grade.

Examples:
  rcbeam sensitivity -b 300 --depth 500 --effective-depth 450 --span 5000 -m 150 -v 100
  rcbeam sensitivity -f beams.yaml --name B1 --delta 0.05 -o tornado.png`,
	RunE: runSensitivity,
}

func init() {
	rootCmd.AddCommand(sensitivityCmd)

	sensBeam.register(sensitivityCmd)
	sensitivityCmd.Flags().Float64Var(&sensDelta, "delta", 0, "Relative perturbation, 0 uses the configured value")
	sensitivityCmd.Flags().BoolVar(&sensJSON, "json", false, "Print the result as JSON")
	sensitivityCmd.Flags().StringVarP(&sensExport, "output", "o", "", "Export tornado chart to file (png, svg, pdf)")
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	req, err := sensBeam.request()
	if err != nil {
		return err
	}

	delta := sensDelta
	if delta <= 0 {
		delta = cfg.Sensitivity.Delta
	}
	res, err := sensitivity.New(newEngine(), delta, cfg.Batch.Workers).Analyze(cmd.Context(), req)
	if err != nil {
		return err
	}
	if sensJSON {
		return writeJSON(os.Stdout, res)
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     SENSITIVITY ANALYSIS - IS 456:2000")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Base utilization: %.3f (%s, case %s)\n\n", res.Base, res.Status, res.GoverningCase)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Parameter\tUp Δ\tUp util.\tDown Δ\tDown util.\tImpact\n")
	fmt.Fprintf(w, "  ─────────\t────\t────────\t──────\t──────────\t──────\n")
	for _, e := range res.Entries {
		fmt.Fprintf(w, "  %s\t%+.1f%%\t%s\t%+.1f%%\t%s\t%.4f\n",
			e.Parameter, e.Up.Delta*100, sideText(e.Up), e.Down.Delta*100, sideText(e.Down), e.Impact)
	}
	w.Flush()
	fmt.Println()
	fmt.Print(diagram.SensitivityBars(res, 30))
	fmt.Println()

	if sensExport != "" {
		if err := diagram.ExportTornado(res, sensExport); err != nil {
			return fmt.Errorf("export chart: %w", err)
		}
		fmt.Printf("  Chart exported to: %s\n", sensExport)
	}
	return nil
}

func sideText(s sensitivity.Side) string {
	if s.Skipped != "" {
		return "skipped"
	}
	return fmt.Sprintf("%.3f", s.Utilization)
}
