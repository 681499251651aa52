// Command sikoc drives the compile pipeline (spec §5) over an HIR
// program handed to it by an out-of-scope frontend (spec §6).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sikoc",
	Short: "sikoc compiles a monomorphized MIR program from HIR input",
}

func main() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(dumpMIRCmd)

	rootCmd.PersistentFlags().String("ui", "auto", "progress UI mode (auto|on|off)")
	rootCmd.PersistentFlags().String("color", "auto", "diagnostic coloring (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
