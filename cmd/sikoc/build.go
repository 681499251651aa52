package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/siko-lang/sikoc/internal/cache"
	"github.com/siko-lang/sikoc/internal/hirio"
	"github.com/siko-lang/sikoc/internal/project"
)

var buildCmd = &cobra.Command{
	Use:   "build <entry-module>",
	Short: "compile an HIR program to a cached MIR program",
	Long:  "Runs the full pipeline (spec §5) and writes the serialized MIR program to .sikoc-cache/<hash>.mir.",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
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

	store, err := cache.Open(".sikoc-cache")
	if err != nil {
		return err
	}
	hash, err := store.Put(cache.NewSnapshot(result.MIR))
	if err != nil {
		return fmt.Errorf("sikoc build: %w", err)
	}
	fmt.Fprintf(os.Stdout, "wrote .sikoc-cache/%s.mir\n", hash)
	return nil
}
