package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/schedule"
)

var (
	batchFile    string
	batchOutput  string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate every beam of a schedule",
	Long: `Evaluate a beam schedule in parallel. Each beam is independent: a
malformed beam is reported with its error code and the others still run.
Results keep the schedule order.

Schedules are JSON or YAML documents ({beams: [...]} or a bare list) or
XLSX workbooks with one row per load case (see the schedule columns in
the documentation).

Examples:
  rcbeam batch -f beams.yaml
  rcbeam batch -f beams.xlsx -o results.xlsx
  rcbeam batch -f beams.json -o results.json --workers 8`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "Beam schedule file (json, yaml, xlsx) [required]")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Write results to file (.json or .xlsx)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Parallel evaluations, 0 uses the configured value")
	batchCmd.MarkFlagRequired("file")
}

func runBatch(cmd *cobra.Command, args []string) error {
	reqs, err := schedule.LoadFromFile(batchFile)
	if err != nil {
		return err
	}

	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.Batch.Workers
	}
	results, err := newEngine().EvaluateBatch(cmd.Context(), reqs, workers)
	if err != nil {
		return err
	}

	if batchOutput != "" {
		if err := writeBatch(batchOutput, results); err != nil {
			return err
		}
		fmt.Printf("  Results written to: %s\n", batchOutput)
	}
	printBatch(results)
	return nil
}

func writeBatch(path string, results []compliance.BatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		err = schedule.WriteSummary(f, results)
	case ".json":
		err = writeJSON(f, results)
	default:
		return fmt.Errorf("unsupported output format: %s", path)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func printBatch(results []compliance.BatchResult) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     BATCH EVALUATION - IS 456:2000")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	counts := map[string]int{}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tBeam\tStatus\tGoverning\tUtil.\tTension bars\n")
	fmt.Fprintf(w, "  ─\t────\t──────\t─────────\t─────\t────────────\n")
	for _, r := range results {
		if r.Verdict == nil {
			counts[string(compliance.Rejected)]++
			fmt.Fprintf(w, "  %d\t%s\tREJECTED\t%s\t\t%s\n", r.Index+1, r.Name, r.Code, r.Error)
			continue
		}
		v := r.Verdict
		counts[string(v.Status)]++
		bars := "-"
		if v.Tension != nil {
			bars = v.Tension.Key()
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%.3f\t%s\n", r.Index+1, v.Name, v.Status, v.GoverningCase, v.Utilization, bars)
	}
	w.Flush()
	fmt.Println()
	fmt.Printf("  PASS %d   FAIL %d   INFEASIBLE %d   REJECTED %d\n",
		counts[string(compliance.Pass)], counts[string(compliance.Fail)],
		counts[string(compliance.Infeasible)], counts[string(compliance.Rejected)])
	fmt.Println()
}
