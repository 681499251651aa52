package mir_test

import (
	"bytes"
	"testing"

	"github.com/siko-lang/sikoc/internal/mir"
)

func TestDumpIsDeterministic(t *testing.T) {
	p := mir.NewProgram()

	recID := p.AddTypeDef(mir.TypeDef{
		Kind: mir.TypeDefRecord,
		Record: &mir.Record{
			Name:   "Point",
			Module: "geom",
			Fields: []mir.Field{
				{Name: "x", Type: mir.NamedType(mir.Owned, 0)},
				{Name: "y", Type: mir.NamedType(mir.Owned, 0)},
			},
		},
	})

	xArg := p.AddExpr(mir.Expr{Kind: mir.ExprArgRef, Data: mir.ArgRefData{Index: 0}})
	yArg := p.AddExpr(mir.Expr{Kind: mir.ExprArgRef, Data: mir.ArgRefData{Index: 1}})
	body := p.AddExpr(mir.Expr{
		Kind: mir.ExprRecordInit,
		Data: mir.RecordInitData{TypeDefID: recID, Fields: []mir.ExprID{xArg, yArg}},
	})

	p.AddFunction(mir.Function{
		Name:     "makePoint",
		Module:   "geom",
		ArgCount: 2,
		Type:     mir.FunctionType(mir.NamedType(mir.Owned, 0), mir.FunctionType(mir.NamedType(mir.Owned, 0), mir.NamedType(mir.Owned, recID))),
		InfoKind: mir.FunctionNormal,
		Body:     body,
	})

	var a, b bytes.Buffer
	mir.Dump(&a, p)
	mir.Dump(&b, p)

	if a.String() != b.String() {
		t.Fatalf("dump is not deterministic across repeated calls")
	}
	if a.Len() == 0 {
		t.Fatal("expected non-empty dump")
	}
}
