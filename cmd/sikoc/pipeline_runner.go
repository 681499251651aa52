package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/siko-lang/sikoc/internal/diag"
	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/pipeline"
	"github.com/siko-lang/sikoc/internal/progresstui"
	"github.com/siko-lang/sikoc/internal/project"
)

// runPipeline compiles hirProg per manifest's declared entry point,
// rendering progress either as a bubbletea TUI or plain log lines on
// stderr depending on the resolved --ui mode.
func runPipeline(cmd *cobra.Command, hirProg *hir.Program, manifest *project.Manifest) (*pipeline.Result, error) {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return nil, err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{EntryModule: manifest.Project.Name, EntryName: manifest.Project.Entry}
	if !shouldUseTUI(mode) {
		opts.Progress = logSink{}
		return pipeline.Run(hirProg, opts)
	}
	return runWithUI(hirProg, opts)
}

// logSink is the plain, non-interactive rendering of a pipeline.Event
// stream, used whenever the resolved UI mode is off (--ui off, or auto
// on a non-terminal stdout).
type logSink struct{}

func (logSink) OnEvent(e pipeline.Event) {
	if e.Item != "" {
		fmt.Fprintf(os.Stderr, "sikoc: %s %s: %s\n", e.Stage, e.Status, e.Item)
		return
	}
	fmt.Fprintf(os.Stderr, "sikoc: %s %s\n", e.Stage, e.Status)
}

type pipelineOutcome struct {
	result *pipeline.Result
	err    error
}

func runWithUI(hirProg *hir.Program, opts pipeline.Options) (*pipeline.Result, error) {
	events := make(chan pipeline.Event, 256)
	opts.Progress = pipeline.ChannelSink{Ch: events}
	outcomeCh := make(chan pipelineOutcome, 1)

	go func() {
		res, err := pipeline.Run(hirProg, opts)
		outcomeCh <- pipelineOutcome{result: res, err: err}
		close(events)
	}()

	model := progresstui.NewModel("sikoc", events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

// printDiagnostics renders result's diagnostics (if any) to stderr per
// the resolved --color mode. A nil result (the pipeline never produced
// one) is a no-op.
func printDiagnostics(cmd *cobra.Command, result *pipeline.Result) error {
	if result == nil || result.Diags == nil {
		return nil
	}
	colorValue, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	mode, err := readColorMode(colorValue)
	if err != nil {
		return err
	}
	diag.Pretty(os.Stderr, result.Diags, diag.PrettyOpts{Color: shouldColor(mode)})
	return nil
}
