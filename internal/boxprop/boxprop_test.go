package boxprop_test

import (
	"testing"

	"github.com/siko-lang/sikoc/internal/boxprop"
	"github.com/siko-lang/sikoc/internal/mir"
)

// buildConsFunction mimics what internal/legalize leaves behind for
// spec §8 scenario 1: List Int's Cons item 1 is already Boxed(List Int),
// and a function `let Cons(x, xs) = arg in xs` was translated before
// legalization ran, so its ExprValue nodes and patterns still carry the
// pre-boxing Owned types.
func buildConsFunction(prog *mir.Program) (fn mir.FuncID, xsValueExpr mir.ExprID, xsPattern mir.PatternID) {
	intID := prog.AddTypeDef(mir.TypeDef{Kind: mir.TypeDefRecord, Record: &mir.Record{Name: "Int"}})
	listID := prog.ReserveTypeDefID()
	prog.SetTypeDef(listID, mir.TypeDef{
		Kind: mir.TypeDefAdt,
		Adt: &mir.Adt{
			Name: "List",
			Variants: []mir.Variant{
				{Name: "Nil"},
				{Name: "Cons", Items: []mir.VariantItem{
					{Type: mir.NamedType(mir.Owned, intID)},
					{Type: mir.NamedType(mir.Boxed, listID)}, // already legalized
				}},
			},
		},
	})

	xPat := prog.AddPattern(mir.Pattern{Kind: mir.PatternBinding, Type: mir.NamedType(mir.Owned, intID), Data: mir.BindingData{Name: "x"}})
	xsPattern = prog.AddPattern(mir.Pattern{Kind: mir.PatternBinding, Type: mir.NamedType(mir.Owned, listID), Data: mir.BindingData{Name: "xs"}})
	consPattern := prog.AddPattern(mir.Pattern{
		Kind: mir.PatternVariant,
		Type: mir.NamedType(mir.Owned, listID),
		Data: mir.VariantPatternData{TypeDefID: listID, Index: 1, Items: []mir.PatternID{xPat, xsPattern}},
	})

	xsValueExpr = prog.AddExpr(mir.Expr{Kind: mir.ExprValue, Type: mir.NamedType(mir.Owned, listID), Data: mir.ValueData{Pattern: xsPattern}})
	argValue := prog.AddExpr(mir.Expr{Kind: mir.ExprArgRef, Type: mir.NamedType(mir.Owned, listID), Data: mir.ArgRefData{Index: 0}})
	letExpr := prog.AddExpr(mir.Expr{
		Kind: mir.ExprLet,
		Type: mir.NamedType(mir.Owned, listID),
		Data: mir.LetData{Pattern: consPattern, Value: argValue, Body: xsValueExpr},
	})

	fn = prog.AddFunction(mir.Function{
		Name:     "second",
		ArgCount: 1,
		InfoKind: mir.FunctionNormal,
		Body:     letExpr,
	})
	return fn, xsValueExpr, xsPattern
}

// TestRunRetypesBoxedBindingAndWrapsItsReferenceInDeref covers spec §8
// scenario 1 and property 5: xs's pattern becomes Boxed, and its one
// ExprValue reference is wrapped by exactly one Deref typed back to the
// unboxed List.
func TestRunRetypesBoxedBindingAndWrapsItsReferenceInDeref(t *testing.T) {
	prog := mir.NewProgram()
	fn, xsValueExpr, xsPattern := buildConsFunction(prog)

	boxprop.Run(prog)

	pat := prog.Pattern(xsPattern)
	if pat.Type.Modifier != mir.Boxed {
		t.Fatalf("expected xs's pattern to become Boxed, got %+v", pat.Type)
	}

	// the original ExprValue id now holds a Deref, keeping its identity
	// and source location so other nodes referencing it stay valid.
	outer := prog.Expr(xsValueExpr)
	if outer.Kind != mir.ExprDeref {
		t.Fatalf("expected xs's value reference to become a Deref, got %s", outer.Kind)
	}
	if outer.Type.Modifier != mir.Owned {
		t.Fatalf("expected the spliced Deref to be typed Owned (List), got %+v", outer.Type)
	}

	inner := prog.Expr(outer.Data.(mir.DerefData).Inner)
	if inner.Kind != mir.ExprValue {
		t.Fatalf("expected the Deref's inner node to still be an ExprValue, got %s", inner.Kind)
	}
	if inner.Type.Modifier != mir.Boxed {
		t.Fatalf("expected the inner value reference to carry the Boxed type, got %+v", inner.Type)
	}
	innerData := inner.Data.(mir.ValueData)
	if innerData.Pattern != xsPattern {
		t.Fatalf("expected the inner reference to still point at xs's pattern, got %d", innerData.Pattern)
	}
	if !prog.Function(fn).Body.IsValid() {
		t.Fatal("expected the function's body to remain set after the pass")
	}
}

// TestRunLeavesUnboxedBindingsUntouched guards against the pass
// wrapping a reference to a binding whose item was never boxed.
func TestRunLeavesUnboxedBindingsUntouched(t *testing.T) {
	prog := mir.NewProgram()
	intID := prog.AddTypeDef(mir.TypeDef{Kind: mir.TypeDefRecord, Record: &mir.Record{Name: "Int"}})

	xPat := prog.AddPattern(mir.Pattern{Kind: mir.PatternBinding, Type: mir.NamedType(mir.Owned, intID), Data: mir.BindingData{Name: "x"}})
	xValue := prog.AddExpr(mir.Expr{Kind: mir.ExprValue, Type: mir.NamedType(mir.Owned, intID), Data: mir.ValueData{Pattern: xPat}})
	argValue := prog.AddExpr(mir.Expr{Kind: mir.ExprArgRef, Type: mir.NamedType(mir.Owned, intID), Data: mir.ArgRefData{Index: 0}})
	letExpr := prog.AddExpr(mir.Expr{
		Kind: mir.ExprLet,
		Type: mir.NamedType(mir.Owned, intID),
		Data: mir.LetData{Pattern: xPat, Value: argValue, Body: xValue},
	})
	prog.AddFunction(mir.Function{Name: "id", ArgCount: 1, InfoKind: mir.FunctionNormal, Body: letExpr})

	boxprop.Run(prog)

	if prog.Pattern(xPat).Type.Modifier != mir.Owned {
		t.Fatal("expected x's pattern to stay Owned")
	}
	if prog.Expr(xValue).Kind != mir.ExprValue {
		t.Fatal("expected x's reference to stay a plain ExprValue, not wrapped in Deref")
	}
}
