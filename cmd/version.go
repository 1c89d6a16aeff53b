package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of rcbeam",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rcbeam %s\n", version.String())
		fmt.Println("Reinforced Concrete Beam Design Tool")
		fmt.Printf("Based on %s (Plain and Reinforced Concrete - Code of Practice)\n", version.Code)
		fmt.Printf("Verdict schema: %s\n", compliance.SchemaVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
