package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/checks"
	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/diagram"
)

var (
	evalBeam        beamFlags
	evalJSON        bool
	evalShowDiagram bool
	evalShowChart   bool
	evalExportFile  string
	evalStrainFile  string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a beam against IS 456 for every load case",
	Long: `Design and check a rectangular or flanged beam for one or more
factored load cases and report a PASS / FAIL / INFEASIBLE verdict.

For each case the flexure solver finds the required steel, the detailer
selects a bar arrangement, the shear solver selects stirrups, and the
section checks run against the arrangement provided. The beam verdict is
governed by the case with the highest utilization.

The checks follow IS 456:2000:
  - Section 26.5.1: Minimum and maximum tension reinforcement
  - Section 40: Shear, Table 19 and Table 20
  - Section 23.2 / Annex C: Deflection
  - Annex F: Crack width
  - Annex G: Moment of resistance

Examples:
  # Rectangular beam, one load case
  rcbeam evaluate -b 300 --depth 500 --effective-depth 450 --span 5000 -m 150 -v 100

  # Several cases, T-beam, JSON verdict
  rcbeam evaluate -b 300 --depth 600 --flange-width 1200 --flange-thickness 120 \
    --span 6000 --case LC1:220:140 --case LC2:-90:80 --json

  # From a schedule file
  rcbeam evaluate -f beams.yaml --name B1 --diagram`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evalBeam.register(evaluateCmd)

	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "Print the verdict as JSON")
	evaluateCmd.Flags().BoolVar(&evalShowDiagram, "diagram", false, "Show ASCII section diagram of the governing case")
	evaluateCmd.Flags().BoolVar(&evalShowChart, "chart", false, "Show ASCII utilization chart by load case")
	evaluateCmd.Flags().StringVarP(&evalExportFile, "output", "o", "", "Export governing section diagram to file (png, svg, pdf)")
	evaluateCmd.Flags().StringVar(&evalStrainFile, "strain-output", "", "Export governing strain diagram to file (png, svg, pdf)")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	req, err := evalBeam.request()
	if err != nil {
		return err
	}

	v, err := newEngine().Evaluate(req)
	if evalJSON {
		// Rejected verdicts are printed too; the error sets the exit code
		if encErr := writeJSON(os.Stdout, v); encErr != nil {
			return encErr
		}
		return err
	}
	if err != nil {
		return err
	}

	printVerdict(os.Stdout, v)

	gc, ok := v.Case(v.GoverningCase)
	if !ok || v.Tension == nil {
		return nil
	}
	data := diagram.NewSectionData(req.Geometry, req.Grades, gc.Flexure, v.Tension.Area, gc.Capacity.Asc)
	data.NeutralAxisDepth = gc.Capacity.Xu
	data.TensionBarCount = v.Tension.Count()

	if evalShowDiagram {
		fmt.Println(diagram.DrawASCIISectionDiagram(data))
		fmt.Println(diagram.DrawStrainDiagram(data))
	}
	if evalShowChart {
		fmt.Println(diagram.UtilizationChart(v))
	}
	if evalExportFile != "" {
		if err := diagram.ExportSectionDiagram(data, evalExportFile); err != nil {
			return fmt.Errorf("export diagram: %w", err)
		}
		fmt.Printf("  Diagram exported to: %s\n", evalExportFile)
	}
	if evalStrainFile != "" {
		if err := diagram.ExportStrainDiagram(data, evalStrainFile); err != nil {
			return fmt.Errorf("export strain diagram: %w", err)
		}
		fmt.Printf("  Strain diagram exported to: %s\n", evalStrainFile)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printVerdict writes the human readable report.
func printVerdict(out io.Writer, v compliance.Verdict) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "     BEAM EVALUATION - IS 456:2000  %s\n", v.Name)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "LOAD CASES:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Case\tMu (kN-m)\tVu (kN)\tAst req (mm²)\tBars\tStirrups\tUtil.\tStatus\n")
	for _, c := range v.Cases {
		bars, stirrups := "-", "-"
		if c.Tension != nil {
			bars = c.Tension.Key()
		}
		if c.Shear.Safe {
			stirrups = fmt.Sprintf("%d-φ%g@%g", c.Shear.Legs, c.Shear.Diameter, c.Shear.Spacing)
		}
		fmt.Fprintf(w, "  %s\t%.2f\t%.2f\t%.2f\t%s\t%s\t%.3f\t%s\n",
			c.Case.ID, c.Case.Moment, c.Case.Shear, c.Flexure.AstRequired, bars, stirrups, c.Utilization, c.Status)
	}
	w.Flush()
	fmt.Fprintln(out)

	if gc, ok := v.Case(v.GoverningCase); ok {
		fmt.Fprintf(out, "CHECKS (governing case %s):\n", gc.Case.ID)
		fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		printChecks(w, v.Checks)
		printChecks(w, gc.Checks)
		w.Flush()
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "VERDICT:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	var lines []string
	if v.Tension != nil {
		lines = append(lines, fmt.Sprintf("Tension steel:     %s, clear spacing %.0f mm", v.Tension, v.Tension.ClearSpacing))
	}
	if v.Compression != nil {
		lines = append(lines, fmt.Sprintf("Compression steel: %s", v.Compression))
	}
	title := fmt.Sprintf("%s  utilization %.3f (%s)", v.Status, v.Utilization, v.GoverningCase)
	fmt.Fprint(out, diagram.DrawSummaryBox(title, lines))
	for _, r := range v.Reasons {
		fmt.Fprintf(out, "  ✗ %s %s: %s\n", r.Case, r.Check, r.Message)
	}
	for _, wn := range v.Warnings {
		fmt.Fprintf(out, "  ! %s %s: %s\n", wn.Case, wn.Code, wn.Message)
	}
	fmt.Fprintln(out)
}

func printChecks(w io.Writer, results []checks.Result) {
	for _, r := range results {
		mark := "✓"
		if !r.Pass {
			mark = "✗"
		}
		fmt.Fprintf(w, "  %s\t%.3f\t%.3f\t%s\n", r.Name, r.Value, r.Limit, mark)
	}
}
