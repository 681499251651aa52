package hirio_test

import (
	"path/filepath"
	"testing"

	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/hirio"
)

func buildProgram(t *testing.T) *hir.Program {
	t.Helper()
	p := hir.NewProgram()
	mod := p.NewModuleID()
	p.Modules.Set(mod, "Main")

	unit := hir.TupleOf()
	body := p.AddExpr(hir.Expr{Kind: hir.ExprTuple, Type: unit, Data: hir.TupleData{}})

	mainID := p.NewFunctionID()
	p.Functions.Set(mainID, &hir.Function{
		ID:       mainID,
		Kind:     hir.FunctionNamed,
		ArgCount: 0,
		Type:     unit,
		Named:    &hir.NamedFunction{Module: mod, Name: "main", Body: body, Kind: hir.NamedFunctionNormal},
	})
	return p
}

func TestSaveLoadRoundTripsModulesFunctionsAndExprs(t *testing.T) {
	p := buildProgram(t)
	path := filepath.Join(t.TempDir(), "main.hir")

	if err := hirio.Save(path, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := hirio.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	name, ok := loaded.Modules.Get(1)
	if !ok || name != "Main" {
		t.Fatalf("expected module 1 to be Main, got %q (ok=%v)", name, ok)
	}

	fn, ok := loaded.FindFunction("Main", "main")
	if !ok {
		t.Fatal("expected to find the main function by name after round-tripping")
	}
	got := loaded.Function(fn)
	if got == nil || got.Named == nil || got.Named.Name != "main" {
		t.Fatalf("unexpected function after round-trip: %+v", got)
	}
	body := loaded.Expr(got.Named.Body)
	if body == nil || body.Kind != hir.ExprTuple {
		t.Fatalf("expected the body expr to round-trip as an ExprTuple, got %+v", body)
	}
}
