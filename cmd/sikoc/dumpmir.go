package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/siko-lang/sikoc/internal/hirio"
	"github.com/siko-lang/sikoc/internal/mir"
	"github.com/siko-lang/sikoc/internal/project"
)

var dumpMIRCmd = &cobra.Command{
	Use:   "dump-mir <entry-module>",
	Short: "print the deterministic textual MIR dump of an HIR program",
	Long:  "Runs the full pipeline (spec §5) and prints mir.Dump to stdout, for diffing determinism across runs.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDumpMIR,
}

func runDumpMIR(cmd *cobra.Command, args []string) error {
	manifest, err := project.LoadManifest("sikoc.toml")
	if err != nil {
		return err
	}
	hirProg, err := hirio.Load(args[0])
	if err != nil {
		return err
	}

	result, err := runPipeline(cmd, hirProg, manifest)
	if printErr := printDiagnostics(cmd, result); printErr != nil {
		return printErr
	}
	if err != nil {
		return err
	}

	mir.Dump(os.Stdout, result.MIR)
	return nil
}
