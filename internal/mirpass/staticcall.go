package mirpass

import (
	"github.com/siko-lang/sikoc/internal/diag"
	"github.com/siko-lang/sikoc/internal/mir"
	"github.com/siko-lang/sikoc/internal/source"
)

// normalizeStaticCalls implements spec §4.6's first pass: a
// StaticFunctionCall already matching its callee's declared arity is
// left as the direct-emission form MIR already gives it; an
// under-applied one is rewritten into a PartialApplication referencing
// an interned PartialCall descriptor. Over-application never reaches
// here by construction (spec §4.6), so it's reported as an internal
// invariant violation rather than silently ignored.
func normalizeStaticCalls(prog *mir.Program, diags *diag.Bag, root mir.ExprID) error {
	v := &staticCallVisitor{prog: prog, diags: diags}
	mir.WalkExpr(root, v)
	return v.err
}

type staticCallVisitor struct {
	prog  *mir.Program
	diags *diag.Bag
	err   error
}

func (v *staticCallVisitor) Program() *mir.Program { return v.prog }

func (v *staticCallVisitor) VisitPattern(mir.PatternID, *mir.Pattern) {}

func (v *staticCallVisitor) VisitExpr(id mir.ExprID, e *mir.Expr) {
	if v.err != nil || e.Kind != mir.ExprStaticFunctionCall {
		return
	}
	d := e.Data.(mir.StaticFunctionCallData)
	fn := v.prog.Function(d.Function)
	if fn == nil {
		v.err = v.diags.ICE(diag.ICEMissingFunctionBody, e.Span, "mirpass: static call to unknown function #%d", d.Function)
		return
	}

	switch {
	case len(d.Args) == fn.ArgCount:
		// already the direct-emission form; nothing to rewrite.
	case len(d.Args) < fn.ArgCount:
		v.partiallyApply(id, e, d, fn)
	default:
		v.err = v.diags.ICE(diag.ICEOverApplication, e.Span,
			"mirpass: static call to %s supplies %d args, exceeding its arity %d", fn.Name, len(d.Args), fn.ArgCount)
	}
}

func (v *staticCallVisitor) partiallyApply(id mir.ExprID, e *mir.Expr, d mir.StaticFunctionCallData, fn *mir.Function) {
	missing := fn.ArgCount - len(d.Args)
	remaining := fn.Type
	for i := 0; i < len(d.Args); i++ {
		remaining = *remaining.To
	}
	closureType := mir.ClosureOf(remaining)

	pc := v.prog.AddPartialCall(d.Function, missing, closureType)
	v.prog.UpdateExpr(id, mir.Expr{
		Kind: mir.ExprPartialApplication,
		Type: closureType,
		Span: e.Span,
		Data: mir.PartialApplicationData{
			Function:      d.Function,
			Args:          d.Args,
			MissingArity:  missing,
			PartialCallID: pc,
		},
	})
}
