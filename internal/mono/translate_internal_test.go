package mono

import (
	"testing"

	"github.com/siko-lang/sikoc/internal/diag"
	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
	"github.com/siko-lang/sikoc/internal/typestore"
)

// registerRecord registers a single-field record typedef, mirroring
// internal/typestore's own registerPrimitive test helper, so ProcessType's
// Named path has a real HIR typedef to resolve through.
func registerRecord(p *hir.Program, mod hir.ModuleID, name string, fields []hir.Field) hir.TypeDefID {
	id := p.NewTypeDefID()
	p.TypeDefs.Set(id, &hir.TypeDef{Kind: hir.TypeDefRecord, Record: &hir.Record{ID: id, Name: name, Module: mod, Fields: fields}})
	return id
}

func newTestMonomorphizer(hirProg *hir.Program) *Monomorphizer {
	mirProg := mir.NewProgram()
	store := typestore.New(hirProg, mirProg, diag.NewBag())
	return New(hirProg, mirProg, store, diag.NewBag())
}

// TestTranslateExprFieldAccessResolvesReceiverTypeDef covers the
// ExprFieldAccess case: a record literal's second field read back out
// must surface as a mir.ExprFieldAccess pointing at the record's own
// typedef (spec §3.2, §4.3 "FieldAccess").
func TestTranslateExprFieldAccessResolvesReceiverTypeDef(t *testing.T) {
	hirProg := hir.NewProgram()
	mod := hirProg.NewModuleID()
	hirProg.Modules.Set(mod, "Main")
	intID := registerRecord(hirProg, mod, "Int", nil)
	intType := hir.Named("Int", intID)
	pointID := registerRecord(hirProg, mod, "Point", []hir.Field{
		{Name: "x", Type: intType},
		{Name: "y", Type: intType},
	})
	pointType := hir.Named("Point", pointID)

	xExpr := hirProg.AddExpr(hir.Expr{Kind: hir.ExprIntLiteral, Type: intType, Data: hir.IntLiteralData{Value: 1}})
	yExpr := hirProg.AddExpr(hir.Expr{Kind: hir.ExprIntLiteral, Type: intType, Data: hir.IntLiteralData{Value: 2}})
	recordExpr := hirProg.AddExpr(hir.Expr{
		Kind: hir.ExprRecordInit,
		Type: pointType,
		Data: hir.RecordInitData{TypeDefID: pointID, Fields: []hir.ExprID{xExpr, yExpr}},
	})
	fieldExpr := hirProg.AddExpr(hir.Expr{
		Kind: hir.ExprFieldAccess,
		Type: intType,
		Data: hir.FieldAccessData{Receiver: recordExpr, Candidates: []hir.TypeDefID{pointID}, Chosen: pointID, FieldIndex: 1},
	})

	m := newTestMonomorphizer(hirProg)
	sub := map[hir.TypeVarID]hir.Type{}
	mid, err := m.translateBody(fieldExpr, sub)
	if err != nil {
		t.Fatalf("translateBody: %v", err)
	}

	out := m.mirProg.Expr(mid)
	if out.Kind != mir.ExprFieldAccess {
		t.Fatalf("expected mir.ExprFieldAccess, got %s", out.Kind)
	}
	data := out.Data.(mir.FieldAccessData)
	if data.FieldIndex != 1 {
		t.Fatalf("expected FieldIndex 1, got %d", data.FieldIndex)
	}
	recvOut := m.mirProg.Expr(data.Receiver)
	if recvOut.Kind != mir.ExprRecordInit {
		t.Fatalf("expected the receiver to translate to an ExprRecordInit, got %s", recvOut.Kind)
	}
	wantTypeDefID, err := m.store.AddType(pointType)
	if err != nil {
		t.Fatalf("AddType: %v", err)
	}
	if data.TypeDefID != wantTypeDefID {
		t.Fatalf("expected field access typedef %d, got %d", wantTypeDefID, data.TypeDefID)
	}
}

// TestTranslateExprFormatterDesugarsSingleArgIntoShowAndConcat covers
// translateFormatter/showCall for a one-marker template over a
// primitive argument (spec §4.3 Formatter contract, §8 scenario 4): the
// single marker must route through a builtin __show_Int extern, and the
// surrounding literal fragments must be stitched together with
// __concat_string calls.
func TestTranslateExprFormatterDesugarsSingleArgIntoShowAndConcat(t *testing.T) {
	hirProg := hir.NewProgram()
	mod := hirProg.NewModuleID()
	hirProg.Modules.Set(mod, "Main")
	intID := registerRecord(hirProg, mod, "Int", nil)
	stringID := registerRecord(hirProg, mod, "String", nil)
	intType := hir.Named("Int", intID)
	stringType := hir.Named("String", stringID)

	argExpr := hirProg.AddExpr(hir.Expr{Kind: hir.ExprIntLiteral, Type: intType, Data: hir.IntLiteralData{Value: 42}})
	formatterExpr := hirProg.AddExpr(hir.Expr{
		Kind: hir.ExprFormatter,
		Type: stringType,
		Data: hir.FormatterData{Template: "n = {}", Args: []hir.ExprID{argExpr}},
	})

	m := newTestMonomorphizer(hirProg)
	mid, err := m.translateBody(formatterExpr, map[hir.TypeVarID]hir.Type{})
	if err != nil {
		t.Fatalf("translateBody: %v", err)
	}

	// Outermost node: concat(concat(literal("n = "), show(42)), literal("")).
	outer := m.mirProg.Expr(mid)
	if outer.Kind != mir.ExprStaticFunctionCall {
		t.Fatalf("expected the formatter's result to be a static call (concat), got %s", outer.Kind)
	}
	outerFn := m.mirProg.Function(outer.Data.(mir.StaticFunctionCallData).Function)
	if outerFn.ExternName != "__concat_string" {
		t.Fatalf("expected the outer call to be __concat_string, got %q", outerFn.ExternName)
	}
	trailingLiteral := m.mirProg.Expr(outer.Data.(mir.StaticFunctionCallData).Args[1])
	if trailingLiteral.Kind != mir.ExprStringLiteral || trailingLiteral.Data.(mir.StringLiteralData).Value != "" {
		t.Fatalf("expected the trailing literal fragment to be empty, got %+v", trailingLiteral)
	}

	inner := m.mirProg.Expr(outer.Data.(mir.StaticFunctionCallData).Args[0])
	if inner.Kind != mir.ExprStaticFunctionCall {
		t.Fatalf("expected the inner node to be a static call (concat), got %s", inner.Kind)
	}
	innerFn := m.mirProg.Function(inner.Data.(mir.StaticFunctionCallData).Function)
	if innerFn.ExternName != "__concat_string" {
		t.Fatalf("expected the inner call to be __concat_string, got %q", innerFn.ExternName)
	}
	leadingLiteral := m.mirProg.Expr(inner.Data.(mir.StaticFunctionCallData).Args[0])
	if leadingLiteral.Kind != mir.ExprStringLiteral || leadingLiteral.Data.(mir.StringLiteralData).Value != "n = " {
		t.Fatalf("expected the leading literal fragment %q, got %+v", "n = ", leadingLiteral)
	}

	showCall := m.mirProg.Expr(inner.Data.(mir.StaticFunctionCallData).Args[1])
	if showCall.Kind != mir.ExprStaticFunctionCall {
		t.Fatalf("expected the argument to route through a show call, got %s", showCall.Kind)
	}
	showFn := m.mirProg.Function(showCall.Data.(mir.StaticFunctionCallData).Function)
	if showFn.ExternName != "__show_Int" {
		t.Fatalf("expected the arg to be shown via __show_Int, got %q", showFn.ExternName)
	}
}

// TestTranslatePatternGuardedTranslatesInnerAndGuard covers
// translatePattern's PatternGuarded case: both the inner binding
// pattern and the boolean guard expression must come through translated,
// wired together as mir.GuardedPatternData (spec §3.4 pattern guards).
func TestTranslatePatternGuardedTranslatesInnerAndGuard(t *testing.T) {
	hirProg := hir.NewProgram()
	mod := hirProg.NewModuleID()
	hirProg.Modules.Set(mod, "Main")
	intID := registerRecord(hirProg, mod, "Int", nil)
	boolID := registerRecord(hirProg, mod, "Bool", nil)
	intType := hir.Named("Int", intID)
	boolType := hir.Named("Bool", boolID)

	innerPattern := hirProg.AddPattern(hir.Pattern{Kind: hir.PatternBinding, Type: intType, Data: hir.BindingData{Name: "n"}})
	guardExpr := hirProg.AddExpr(hir.Expr{Kind: hir.ExprArgRef, Type: boolType, Data: hir.ArgRefData{Index: 0}})
	guardedPattern := hirProg.AddPattern(hir.Pattern{
		Kind: hir.PatternGuarded,
		Type: intType,
		Data: hir.GuardedPatternData{Inner: innerPattern, Guard: guardExpr},
	})

	m := newTestMonomorphizer(hirProg)
	m.exprMap = make(map[hir.ExprID]mir.ExprID)
	m.patternMap = make(map[hir.PatternID]mir.PatternID)
	mid, err := m.translatePattern(guardedPattern, map[hir.TypeVarID]hir.Type{})
	if err != nil {
		t.Fatalf("translatePattern: %v", err)
	}

	out := m.mirProg.Pattern(mid)
	if out.Kind != mir.PatternGuarded {
		t.Fatalf("expected mir.PatternGuarded, got %s", out.Kind)
	}
	data := out.Data.(mir.GuardedPatternData)

	innerOut := m.mirProg.Pattern(data.Inner)
	if innerOut.Kind != mir.PatternBinding || innerOut.Data.(mir.BindingData).Name != "n" {
		t.Fatalf("expected the inner pattern to translate to binding %q, got %+v", "n", innerOut)
	}

	guardOut := m.mirProg.Expr(data.Guard)
	if guardOut.Kind != mir.ExprArgRef {
		t.Fatalf("expected the guard to translate to an ExprArgRef, got %s", guardOut.Kind)
	}
}
