package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/config"
	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/logging"
	"github.com/alexiusacademia/rcbeam/internal/version"
)

var (
	configFile string
	logLevel   string
	logFormat  string

	// Loaded before any subcommand runs
	cfg    config.Config
	tables is456.Tables
	logger = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "rcbeam",
	Short: "Reinforced Concrete Beam Design and Optimisation",
	Long: `rcbeam - Reinforced Concrete Beam Designer

A CLI tool for the limit state design of reinforced concrete beams
based on IS 456:2000 (Plain and Reinforced Concrete - Code of Practice).

This tool helps structural engineers perform:
  - Flexural design (singly, doubly reinforced and flanged beams)
  - Shear design and stirrup spacing
  - Ductility and serviceability checks (deflection, crack width)
  - Bar arrangement, anchorage and cutting lists
  - Design-space optimisation and sensitivity studies

Settings are read from --config or RCBEAM_CONFIG (YAML).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.FromEnv(configFile); err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if tables, err = cfg.CodeTables(); err != nil {
			return err
		}
		if logger, err = logging.New(cfg.LogLevel, logging.Format(logFormat)); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   rcbeam v%-48s║\n", version.Version)
		fmt.Println("  ║   Reinforced Concrete Beam Designer (IS 456:2000)         ║")
		fmt.Println("  ║   Alexius S. Academia ©  2025                             ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for the limit state design of reinforced concrete")
		fmt.Println("  beams based on IS 456:2000.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Factored load cases from IS 456 Table 18 combinations")
		fmt.Println("    • Flexure, shear, ductility and serviceability verdicts")
		fmt.Println("    • Batch evaluation of beam schedules (JSON, YAML, XLSX)")
		fmt.Println("    • Bar arrangement optimisation and cutting lists")
		fmt.Println("    • Sensitivity studies and an HTTP service")
		fmt.Println()
		fmt.Println("  Use 'rcbeam --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (YAML), overrides RCBEAM_CONFIG")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", string(logging.Console), "Log format (console, json)")
}

// newEngine builds the compliance engine from the loaded configuration.
func newEngine() *compliance.Engine {
	return compliance.NewEngine(tables, cfg.Compliance(), logger)
}
