package cmd

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/beam"
	"github.com/alexiusacademia/rcbeam/internal/checks"
	"github.com/alexiusacademia/rcbeam/internal/detailing"
	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

var (
	analyzeBeam beamFlags
	analyzeJSON bool

	// Reinforcement inputs
	analyzeSteel steelInput
)

// steelInput is the provided reinforcement, by area or by bars.
type steelInput struct {
	Ast, Asc       float64 // mm²
	Bars, CompBars string  // e.g. "4-20" or "3-20+2-16"
	Hogging        bool
}

// analysis is the capacity of a section with known reinforcement.
type analysis struct {
	Geometry    section.Geometry       `json:"geometry"`
	Grades      is456.Grades           `json:"grades"`
	Hogging     bool                   `json:"hogging"`
	Tension     *detailing.Arrangement `json:"tension,omitempty"`
	Compression *detailing.Arrangement `json:"compression,omitempty"`
	Capacity    beam.CapacityResult    `json:"capacity"`
	Checks      []checks.Result        `json:"checks"`
	Notes       []string               `json:"notes,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the moment of resistance of a beam with known steel",
	Long: `Calculate the moment of resistance (MuR) of a rectangular or flanged
beam given the provided reinforcement, as areas or as bars.

The neutral axis depth xu is found from force equilibrium and compared
with xu,max to classify the section as under- or over-reinforced.

The analysis follows IS 456:2000:
  - Section 38.1: Assumptions for limit state of collapse in flexure
  - Annex G: Moment of resistance of rectangular and flanged sections
  - Section 26.5.1: Minimum and maximum reinforcement

Examples:
  # 300x500 beam with 4-20 bars
  rcbeam analyze -b 300 --depth 500 --effective-depth 450 --bars 4-20

  # By area, with compression steel
  rcbeam analyze -b 300 --depth 550 -a 2400 --asc 600

  # T-beam over a support (flange in tension)
  rcbeam analyze -b 300 --depth 600 --flange-width 1200 --flange-thickness 120 \
    --bars 3-20+2-16 --hogging`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeBeam.register(analyzeCmd)

	// Reinforcement flags
	analyzeCmd.Flags().Float64VarP(&analyzeSteel.Ast, "ast", "a", 0, "Tension reinforcement area Ast (mm²)")
	analyzeCmd.Flags().Float64Var(&analyzeSteel.Asc, "asc", 0, "Compression reinforcement area Asc (mm²)")
	analyzeCmd.Flags().StringVar(&analyzeSteel.Bars, "bars", "", "Tension bars count-diameter, e.g. 4-20 or 3-20+2-16")
	analyzeCmd.Flags().StringVar(&analyzeSteel.CompBars, "comp-bars", "", "Compression bars count-diameter, e.g. 2-16")
	analyzeCmd.Flags().BoolVar(&analyzeSteel.Hogging, "hogging", false, "Tension at the top face")

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")

	analyzeCmd.MarkFlagsMutuallyExclusive("ast", "bars")
	analyzeCmd.MarkFlagsMutuallyExclusive("asc", "comp-bars")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	req, err := analyzeBeam.request()
	if err != nil {
		return err
	}

	res, err := analyze(req.Geometry, req.Grades, analyzeSteel, tables, cfg.Detailing, cfg.Checks.Ductile)
	if err != nil {
		return err
	}

	if analyzeJSON {
		return writeJSON(os.Stdout, res)
	}
	printAnalysis(os.Stdout, res)
	return nil
}

// analyze resolves the provided steel and computes the capacity.
func analyze(g section.Geometry, grades is456.Grades, in steelInput, tables is456.Tables, opts detailing.Options, ductile bool) (analysis, error) {
	if err := g.Validate(); err != nil {
		return analysis{}, err
	}
	if err := grades.Validate(); err != nil {
		return analysis{}, err
	}

	res := analysis{Geometry: g, Grades: grades, Hogging: in.Hogging}
	det := detailing.New(g, grades, tables, opts)

	ast, tension, err := resolveSteel(det, in.Ast, in.Bars)
	if err != nil {
		return res, fmt.Errorf("tension steel: %w", err)
	}
	if ast <= 0 {
		return res, errors.New("tension steel: give --ast or --bars")
	}
	asc, compression, err := resolveSteel(det, in.Asc, in.CompBars)
	if err != nil {
		return res, fmt.Errorf("compression steel: %w", err)
	}
	res.Tension, res.Compression = tension, compression

	for _, a := range []*detailing.Arrangement{tension, compression} {
		if a == nil {
			continue
		}
		if err := det.Validate(*a, 0); err != nil {
			res.Notes = append(res.Notes, err.Error())
		}
		if a.HasFlag(detailing.FlagCongested) {
			res.Notes = append(res.Notes, fmt.Sprintf("%s: clear spacing %.1f mm is congested", a.Key(), a.ClearSpacing))
		}
	}

	res.Capacity = beam.NewFlexure(g, grades).Capacity(ast, asc, in.Hogging)
	res.Checks = checks.SteelBounds(g, grades, ast, asc, ductile)
	return res, nil
}

// resolveSteel returns the area given directly or by a bar key.
func resolveSteel(det *detailing.Detailer, area float64, bars string) (float64, *detailing.Arrangement, error) {
	if bars == "" {
		if math.IsNaN(area) || math.IsInf(area, 0) || area < 0 {
			return 0, nil, fmt.Errorf("area %v must be a non-negative number", area)
		}
		return area, nil, nil
	}
	if area > 0 {
		return 0, nil, errors.New("give an area or bars, not both")
	}
	groups, err := detailing.ParseGroups(bars)
	if err != nil {
		return 0, nil, err
	}
	a := det.Arrange(groups...)
	return a.Area, &a, nil
}

// printAnalysis writes the human readable report.
func printAnalysis(out io.Writer, res analysis) {
	g, c := res.Geometry, res.Capacity

	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "     BEAM CAPACITY ANALYSIS - IS 456:2000")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	// Input summary
	fmt.Fprintln(out, "INPUT DATA:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Web Width (b):\t%.0f mm\n", g.Width)
	fmt.Fprintf(w, "  Overall Depth (D):\t%.0f mm\n", g.Depth)
	fmt.Fprintf(w, "  Effective Depth (d):\t%.0f mm\n", g.EffectiveDepth)
	if g.IsFlanged() {
		fmt.Fprintf(w, "  Flange (bf x Df):\t%.0f x %.0f mm\n", g.FlangeWidth, g.FlangeThickness)
	}
	fmt.Fprintf(w, "  Grades:\t%s\n", res.Grades)
	face := "bottom (sagging)"
	if res.Hogging {
		face = "top (hogging)"
	}
	fmt.Fprintf(w, "  Tension Face:\t%s\n", face)
	fmt.Fprintf(w, "  Tension Steel (Ast):\t%s\n", steelLabel(c.Ast, res.Tension))
	if c.Asc > 0 {
		fmt.Fprintf(w, "  Compression Steel (Asc):\t%s\n", steelLabel(c.Asc, res.Compression))
	}
	w.Flush()
	fmt.Fprintln(out)

	// Section analysis
	fmt.Fprintln(out, "NEUTRAL AXIS:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Neutral axis depth (xu):\t%.2f mm\n", c.Xu)
	fmt.Fprintf(w, "  Limiting depth (xu,max):\t%.2f mm\n", c.XuMax)
	if c.XuMax > 0 {
		fmt.Fprintf(w, "  xu/xu,max:\t%.4f\n", c.Xu/c.XuMax)
	}
	fmt.Fprintf(w, "  Bisection iterations:\t%d\n", c.Iterations)
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "FORCES:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Concrete compression (Cc):\t%.2f kN\n", c.Cc)
	if c.Asc > 0 {
		fmt.Fprintf(w, "  Steel compression (Cs):\t%.2f kN\n", c.Cs)
	}
	fmt.Fprintf(w, "  Tension (T):\t%.2f kN\n", c.T)
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "STEEL LIMITS:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	printChecks(w, res.Checks)
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintf(out, "  ╔═════════════════════════════════════════╗\n")
	fmt.Fprintf(out, "  ║  MOMENT OF RESISTANCE MuR = %.2f kN-m  \n", c.MuR)
	fmt.Fprintf(out, "  ╚═════════════════════════════════════════╝\n")
	fmt.Fprintln(out)

	// Status
	fmt.Fprintln(out, "STATUS:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	switch c.Classification {
	case beam.OverReinforced:
		fmt.Fprintf(out, "  Section: over-reinforced (xu > xu,max), MuR taken at xu,max\n")
	default:
		fmt.Fprintf(out, "  Section: %s\n", c.Classification)
	}
	for _, n := range res.Notes {
		fmt.Fprintf(out, "  ! %s\n", n)
	}
	fmt.Fprintln(out)
}

func steelLabel(area float64, a *detailing.Arrangement) string {
	if a == nil {
		return fmt.Sprintf("%.2f mm²", area)
	}
	return a.String()
}
