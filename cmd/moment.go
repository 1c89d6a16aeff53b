package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/is456"
)

var (
	// Unfactored actions
	effects is456.LoadEffects

	showAll    bool
	momentJSON bool
)

var momentCmd = &cobra.Command{
	Use:   "moment",
	Short: "Calculate factored load cases using IS 456 load combinations",
	Long: `Calculate factored moments and shears based on IS 456:2000 Table 18
(limit state of collapse) load combinations.

Provide unfactored actions from different load types and this command will
compute every applicable combination. Lateral combinations are produced
only for wind or earthquake actions that are non-zero, in both directions.

Load Types:
  DL - Dead load
  LL - Imposed (live) load
  WL - Wind load
  EL - Earthquake load

Examples:
  # Gravity loads (dead + live)
  rcbeam moment --dead 50 --live 30

  # With wind load, all combinations, shears included
  rcbeam moment --dead 50 --live 30 --wind 20 --dead-shear 40 --live-shear 25 --all

  # Emit cases as JSON for an evaluate request
  rcbeam moment --dead 50 --live 30 --json`,
	Run: runMoment,
}

func init() {
	rootCmd.AddCommand(momentCmd)

	// Moment flags
	momentCmd.Flags().Float64VarP(&effects.Dead.Moment, "dead", "d", 0, "Moment due to dead load (kN-m)")
	momentCmd.Flags().Float64VarP(&effects.Live.Moment, "live", "l", 0, "Moment due to imposed load (kN-m)")
	momentCmd.Flags().Float64VarP(&effects.Wind.Moment, "wind", "w", 0, "Moment due to wind load (kN-m)")
	momentCmd.Flags().Float64VarP(&effects.Earthquake.Moment, "earthquake", "e", 0, "Moment due to earthquake load (kN-m)")

	// Shear flags
	momentCmd.Flags().Float64Var(&effects.Dead.Shear, "dead-shear", 0, "Shear due to dead load (kN)")
	momentCmd.Flags().Float64Var(&effects.Live.Shear, "live-shear", 0, "Shear due to imposed load (kN)")
	momentCmd.Flags().Float64Var(&effects.Wind.Shear, "wind-shear", 0, "Shear due to wind load (kN)")
	momentCmd.Flags().Float64Var(&effects.Earthquake.Shear, "earthquake-shear", 0, "Shear due to earthquake load (kN)")

	// Options
	momentCmd.Flags().BoolVarP(&showAll, "all", "a", false, "Show all load combination results")
	momentCmd.Flags().BoolVar(&momentJSON, "json", false, "Print the load cases as JSON")
}

func runMoment(cmd *cobra.Command, args []string) {
	if effects == (is456.LoadEffects{}) {
		fmt.Println("Error: Please provide at least one unfactored action.")
		fmt.Println("Use 'rcbeam moment --help' for usage information.")
		return
	}

	cases := is456.BuildCases(effects)
	gov, _ := is456.GoverningMoment(cases)

	if momentJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cases); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("          IS 456:2000 FACTORED LOAD CASES")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("UNFACTORED ACTIONS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Load\tM (kN-m)\tV (kN)\n")
	for _, row := range []struct {
		name string
		e    is456.Effect
	}{
		{"Dead (DL)", effects.Dead},
		{"Imposed (LL)", effects.Live},
		{"Wind (WL)", effects.Wind},
		{"Earthquake (EL)", effects.Earthquake},
	} {
		if row.e != (is456.Effect{}) {
			fmt.Fprintf(w, "  %s\t%.2f\t%.2f\n", row.name, row.e.Moment, row.e.Shear)
		}
	}
	w.Flush()
	fmt.Println()

	if showAll {
		fmt.Println("LOAD COMBINATIONS (IS 456:2000 Table 18):")
		fmt.Println("───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Case\tMu (kN-m)\tVu (kN)\n")
		fmt.Fprintf(w, "  ────\t─────────\t───────\n")
		for _, c := range cases {
			marker := ""
			if c.ID == gov.ID {
				marker = " ← GOVERNS"
			}
			fmt.Fprintf(w, "  %s\t%.2f\t%.2f%s\n", c.ID, c.Moment, c.Shear, marker)
		}
		w.Flush()
		fmt.Println()
	}

	var maxShear float64
	for _, c := range cases {
		maxShear = math.Max(maxShear, math.Abs(c.Shear))
	}

	fmt.Println("RESULT:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	fmt.Printf("  Governing Case: %s\n", gov.ID)
	fmt.Println()
	fmt.Printf("  ╔═══════════════════════════════════╗\n")
	fmt.Printf("  ║  FACTORED MOMENT (Mu) = %.2f kN-m  \n", gov.Moment)
	fmt.Printf("  ║  MAX FACTORED SHEAR (Vu) = %.2f kN  \n", maxShear)
	fmt.Printf("  ╚═══════════════════════════════════╝\n")
	fmt.Println()
}
