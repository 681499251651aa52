package typestore_test

import (
	"testing"

	"github.com/siko-lang/sikoc/internal/diag"
	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
	"github.com/siko-lang/sikoc/internal/typestore"
)

// registerPrimitive registers a zero-variant-free nominal typedef so
// ProcessType's Named path (which always resolves through a real HIR
// typedef, per spec §4.2) can be used for stand-in primitives in tests.
func registerPrimitive(p *hir.Program, mod hir.ModuleID, name string) hir.TypeDefID {
	id := p.NewTypeDefID()
	p.TypeDefs.Set(id, &hir.TypeDef{Kind: hir.TypeDefRecord, Record: &hir.Record{ID: id, Name: name, Module: mod}})
	return id
}

// buildListProgram builds `List a = Nil | Cons a (List a)` in HIR form.
func buildListProgram(t *testing.T) (*hir.Program, hir.TypeDefID, hir.TypeDefID) {
	t.Helper()
	p := hir.NewProgram()
	mod := p.NewModuleID()
	p.Modules.Set(mod, "List")
	intID := registerPrimitive(p, mod, "Int")

	listID := p.NewTypeDefID()
	a := hir.TypeVarID(1)
	adt := &hir.Adt{
		ID:       listID,
		Name:     "List",
		Module:   mod,
		TypeArgs: []hir.TypeVarID{a},
		Variants: []hir.Variant{
			{Name: "Nil"},
			{Name: "Cons", Items: []hir.VariantItem{
				{Type: hir.VarOf(a)},
				{Type: hir.Named("List", listID, hir.VarOf(a))},
			}},
		},
	}
	p.TypeDefs.Set(listID, &hir.TypeDef{Kind: hir.TypeDefAdt, Adt: adt})
	return p, listID, intID
}

func TestAddTypeMemoizesStructurallyEqualInputs(t *testing.T) {
	hirProg, listID, intID := buildListProgram(t)
	mirProg := mir.NewProgram()
	bag := diag.NewBag()
	store := typestore.New(hirProg, mirProg, bag)

	listInt := hir.Named("List", listID, hir.Named("Int", intID))

	id1, err := store.AddType(listInt)
	if err != nil {
		t.Fatalf("AddType: %v", err)
	}
	id2, err := store.AddType(listInt)
	if err != nil {
		t.Fatalf("AddType (second): %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected idempotent AddType, got %d and %d", id1, id2)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	td := mirProg.TypeDef(id1)
	if td == nil || td.Kind != mir.TypeDefAdt {
		t.Fatalf("expected an Adt typedef, got %+v", td)
	}
	if len(td.Adt.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(td.Adt.Variants))
	}
	cons := td.Adt.Variants[1]
	if len(cons.Items) != 2 {
		t.Fatalf("expected Cons to have 2 items, got %d", len(cons.Items))
	}
	// The recursive List Int field must resolve back to id1, not loop.
	if cons.Items[1].Type.TypeDefID != id1 {
		t.Fatalf("expected recursive field to resolve to %d, got %d", id1, cons.Items[1].Type.TypeDefID)
	}
}

func TestAddTupleUsesPositionalFieldNames(t *testing.T) {
	hirProg := hir.NewProgram()
	mod := hirProg.NewModuleID()
	hirProg.Modules.Set(mod, "Std")
	intID := registerPrimitive(hirProg, mod, "Int")
	mirProg := mir.NewProgram()
	bag := diag.NewBag()
	store := typestore.New(hirProg, mirProg, bag)

	intType := hir.Named("Int", intID)
	id, err := store.AddTuple([]hir.Type{intType, intType})
	if err != nil {
		t.Fatalf("AddTuple: %v", err)
	}
	td := mirProg.TypeDef(id)
	if td == nil || td.Kind != mir.TypeDefRecord {
		t.Fatalf("expected a Record typedef, got %+v", td)
	}
	if len(td.Record.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(td.Record.Fields))
	}
	if td.Record.Fields[0].Name != "field0" || td.Record.Fields[1].Name != "field1" {
		t.Fatalf("expected positional field names, got %+v", td.Record.Fields)
	}
}

func TestProcessTypeRejectsTypeVar(t *testing.T) {
	hirProg := hir.NewProgram()
	mirProg := mir.NewProgram()
	bag := diag.NewBag()
	store := typestore.New(hirProg, mirProg, bag)

	_, err := store.ProcessType(hir.VarOf(7))
	if err == nil {
		t.Fatal("expected an error for an unresolved type variable")
	}
}
