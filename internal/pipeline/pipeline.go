// Package pipeline implements spec §5's fixed-order compile driver:
// monomorphize, legalize, box-propagate, then run the per-body static-
// call/clone/closure passes, in that order and no other. It is the one
// place that wires internal/mono, internal/legalize, internal/boxprop
// and internal/mirpass together.
//
// Ported in shape from buildpipeline.Compile: a single synchronous
// function that drives every stage inline, reporting an Event to an
// injected ProgressSink at each stage boundary rather than returning
// progress some other way.
package pipeline

import (
	"fmt"

	"github.com/siko-lang/sikoc/internal/boxprop"
	"github.com/siko-lang/sikoc/internal/diag"
	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/legalize"
	"github.com/siko-lang/sikoc/internal/mir"
	"github.com/siko-lang/sikoc/internal/mirpass"
	"github.com/siko-lang/sikoc/internal/mono"
	"github.com/siko-lang/sikoc/internal/typestore"
)

// Options configures one compile.
type Options struct {
	// EntryModule and EntryName name the function spec §4.3 step 1
	// monomorphizes from. EntryName defaults to "main" if empty.
	EntryModule string
	EntryName   string

	// Progress, if non-nil, receives one Event per stage boundary plus
	// one per work-queue item drained during StageMonomorphize.
	Progress ProgressSink
}

// Result is the finished MIR program and the diagnostics (always
// internal-error-only, per spec §7) accumulated while producing it.
type Result struct {
	MIR   *mir.Program
	Diags *diag.Bag
}

// Run compiles hirProg into a fully legalized, box-propagated, static-
// call-normalized, clone-inserted, closure-converted MIR program (spec
// §4 end to end), stopping at the first pass that returns an error
// (spec §7: an internal invariant violation aborts the whole compile).
func Run(hirProg *hir.Program, opts Options) (*Result, error) {
	entryName := opts.EntryName
	if entryName == "" {
		entryName = "main"
	}
	mainID, ok := hirProg.FindFunction(opts.EntryModule, entryName)
	if !ok {
		return nil, fmt.Errorf("pipeline: entry function %q not found in module %q", entryName, opts.EntryModule)
	}

	diags := diag.NewBag()
	mirProg := mir.NewProgram()
	store := typestore.New(hirProg, mirProg, diags)

	emit(opts.Progress, StageMonomorphize, StatusWorking, "", nil)
	m := mono.New(hirProg, mirProg, store, diags)
	m.Progress = func(item string) { emit(opts.Progress, StageMonomorphize, StatusWorking, item, nil) }
	if _, err := m.Run(mainID); err != nil {
		err = fmt.Errorf("pipeline: monomorphize: %w", err)
		emit(opts.Progress, StageMonomorphize, StatusError, "", err)
		return nil, err
	}
	emit(opts.Progress, StageMonomorphize, StatusDone, "", nil)

	emit(opts.Progress, StageLegalize, StatusWorking, "", nil)
	legalize.Run(mirProg)
	emit(opts.Progress, StageLegalize, StatusDone, "", nil)

	emit(opts.Progress, StageBoxProp, StatusWorking, "", nil)
	boxprop.Run(mirProg)
	emit(opts.Progress, StageBoxProp, StatusDone, "", nil)

	emit(opts.Progress, StageMirPass, StatusWorking, "", nil)
	if err := mirpass.Run(mirProg, diags); err != nil {
		err = fmt.Errorf("pipeline: mirpass: %w", err)
		emit(opts.Progress, StageMirPass, StatusError, "", err)
		return nil, err
	}
	emit(opts.Progress, StageMirPass, StatusDone, "", nil)

	return &Result{MIR: mirProg, Diags: diags}, nil
}
