package mono

import (
	"testing"

	"github.com/siko-lang/sikoc/internal/diag"
	"github.com/siko-lang/sikoc/internal/hir"
)

// TestBuildUnifierBindsVariablesFromCallSite covers spec §4.3 step 3: a
// declared type `a -> a -> Bool` (Ord's `cmp` style signature, simplified
// to a predicate) called at `(Int, Int) -> Bool` must bind `a = Int`.
func TestBuildUnifierBindsVariablesFromCallSite(t *testing.T) {
	a := hir.TypeVarID(1)
	declared := hir.Fn(hir.VarOf(a), hir.Fn(hir.VarOf(a), boolHIR()))
	intType := hir.Named("Int", 9)

	sub, err := buildUnifier(diag.NewBag(), declared, []hir.Type{intType, intType}, boolHIR())
	if err != nil {
		t.Fatalf("buildUnifier: %v", err)
	}
	bound, ok := sub[a]
	if !ok {
		t.Fatal("expected variable a to be bound")
	}
	if bound.Signature() != intType.Signature() {
		t.Fatalf("expected a bound to Int, got %s", bound.Signature())
	}
}

// TestBuildUnifierRejectsConflictingBindings ensures unify() catches a
// variable used inconsistently across argument positions (an internal
// error, since input is assumed already type-checked).
func TestBuildUnifierRejectsConflictingBindings(t *testing.T) {
	a := hir.TypeVarID(1)
	declared := hir.Fn(hir.VarOf(a), hir.Fn(hir.VarOf(a), boolHIR()))
	intType := hir.Named("Int", 9)
	boolType := hir.Named("Bool", 10)

	_, err := buildUnifier(diag.NewBag(), declared, []hir.Type{intType, boolType}, boolHIR())
	if err == nil {
		t.Fatal("expected a conflicting-binding error")
	}
}

// TestPromoteConstraintsExpandsOrdToEntailedClasses covers spec §4.3
// step 5: resolving Ord must also request PartialEq, PartialOrd and Eq.
func TestPromoteConstraintsExpandsOrdToEntailedClasses(t *testing.T) {
	p := hir.NewProgram()
	ordID := p.NewClassID()
	p.Classes.Set(ordID, &hir.Class{ID: ordID, Name: hir.ClassOrd})
	peqID := p.NewClassID()
	p.Classes.Set(peqID, &hir.Class{ID: peqID, Name: hir.ClassPartialEq})
	pordID := p.NewClassID()
	p.Classes.Set(pordID, &hir.Class{ID: pordID, Name: hir.ClassPartialOrd})
	eqID := p.NewClassID()
	p.Classes.Set(eqID, &hir.Class{ID: eqID, Name: "Eq"})

	out := promoteConstraints(p, []hir.ClassID{ordID})

	want := map[hir.ClassID]bool{ordID: true, peqID: true, pordID: true, eqID: true}
	if len(out) != len(want) {
		t.Fatalf("expected %d entailed classes, got %d: %v", len(want), len(out), out)
	}
	for _, id := range out {
		if !want[id] {
			t.Fatalf("unexpected class id %d in promoted set", id)
		}
	}
}

// TestCollectFixedConstraintsWalksNestedTypes confirms constraints are
// found regardless of how deeply the fixed variable is nested.
func TestCollectFixedConstraintsWalksNestedTypes(t *testing.T) {
	v := hir.TypeVarID(3)
	ordClass := hir.ClassID(5)
	fixed := hir.Type{Kind: hir.TypeFixedTypeArg, Var: v, Constraints: []hir.ClassID{ordClass}}
	nested := hir.Named("List", 2, fixed)

	out := make(map[hir.TypeVarID][]hir.ClassID)
	collectFixedConstraints(nested, out)

	cs, ok := out[v]
	if !ok || len(cs) != 1 || cs[0] != ordClass {
		t.Fatalf("expected variable %d to carry constraint %d, got %v", v, ordClass, out)
	}
}

func boolHIR() hir.Type { return hir.Named("Bool", 10) }
