package mirpass

import (
	"fmt"

	"github.com/siko-lang/sikoc/internal/diag"
	"github.com/siko-lang/sikoc/internal/mir"
)

// convertClosures implements spec §4.6's third and last pass, run once
// over the whole program rather than per body (spec §5 step 4): every
// ExprFunctionRef is given a concrete Closure carrier built from its
// target function's own free variables, then every surviving
// KindFunction type anywhere it appears -- not just at the FunctionRef
// site itself -- is retyped to KindClosure, mirroring
// convert_args_to_closures's whole-program sweep in passes.rs.
func convertClosures(prog *mir.Program, diags *diag.Bag) error {
	var bodies []mir.ExprID
	prog.Funcs.Each(func(id mir.FuncID, f mir.Function) {
		if hasBody(f) {
			bodies = append(bodies, f.Body)
		}
	})

	next := 0
	for _, body := range bodies {
		if err := convertFunctionRefs(prog, diags, body, &next); err != nil {
			return err
		}
	}
	for _, body := range bodies {
		mir.WalkExpr(body, &closureRetypeVisitor{prog: prog})
	}
	retypeTypeDefs(prog)
	return nil
}

func convertFunctionRefs(prog *mir.Program, diags *diag.Bag, root mir.ExprID, next *int) error {
	v := &functionRefVisitor{prog: prog, diags: diags, next: next}
	mir.WalkExpr(root, v)
	return v.err
}

type functionRefVisitor struct {
	prog  *mir.Program
	diags *diag.Bag
	next  *int
	err   error
}

func (v *functionRefVisitor) Program() *mir.Program { return v.prog }

func (v *functionRefVisitor) VisitPattern(mir.PatternID, *mir.Pattern) {}

func (v *functionRefVisitor) VisitExpr(id mir.ExprID, e *mir.Expr) {
	if v.err != nil || e.Kind != mir.ExprFunctionRef {
		return
	}
	d := e.Data.(mir.FunctionRefData)
	fn := v.prog.Function(d.Function)
	if fn == nil {
		v.err = v.diags.ICE(diag.ICEMissingFunctionBody, e.Span, "mirpass: function reference to unknown function #%d", d.Function)
		return
	}

	captures := freeVariables(v.prog, fn)
	name := fmt.Sprintf("Closure%d", *v.next)
	*v.next++

	var closureID mir.ClosureID
	if len(captures) == 0 {
		closureID = v.prog.AddClosureType(e.Type, name, nil)
	} else {
		closureID = v.prog.AddUniqueClosure(e.Type, name, captures)
	}

	v.prog.UpdateExpr(id, mir.Expr{
		Kind: mir.ExprFunctionRef,
		Type: mir.ClosureOf(e.Type),
		Span: e.Span,
		Data: mir.FunctionRefData{Function: d.Function, ClosureID: closureID},
	})
}

// freeVariables walks fn's own body and returns, in first-reference
// order, every pattern it reads via ExprValue that it never introduces
// itself via a Let. internal/mono resets its HIR-to-MIR pattern map on
// every call to translateBody, so a pattern an inner lambda body refers to
// without ever binding is -- by construction, not by any extra capture
// bookkeeping -- exactly a variable captured from an enclosing scope.
func freeVariables(prog *mir.Program, fn *mir.Function) []mir.CapturedVar {
	if !hasBody(*fn) {
		return nil
	}
	c := &captureCollector{prog: prog, introduced: make(map[mir.PatternID]bool), seen: make(map[mir.PatternID]bool)}
	mir.WalkExpr(fn.Body, c)

	var out []mir.CapturedVar
	for _, id := range c.order {
		if c.introduced[id] {
			continue
		}
		pat := prog.Pattern(id)
		if pat == nil {
			continue
		}
		out = append(out, mir.CapturedVar{Pattern: id, Type: pat.Type})
	}
	return out
}

type captureCollector struct {
	prog       *mir.Program
	introduced map[mir.PatternID]bool
	seen       map[mir.PatternID]bool
	order      []mir.PatternID
}

func (c *captureCollector) Program() *mir.Program { return c.prog }

// VisitExpr distinguishes a pattern's binding site (ExprLet) from a mere
// read of it (ExprValue) by inspecting e.Kind directly rather than
// going through VisitPattern: WalkExpr's own ExprValue case also walks
// the referenced pattern's subtree for unrelated reasons (so that
// sibling passes reach every pattern node reachable from a body), which
// would make a generic "any pattern this walk reaches is introduced"
// rule wrongly swallow every captured variable along with them.
func (c *captureCollector) VisitExpr(_ mir.ExprID, e *mir.Expr) {
	switch e.Kind {
	case mir.ExprLet:
		markIntroduced(c.prog, e.Data.(mir.LetData).Pattern, c.introduced)
	case mir.ExprValue:
		id := e.Data.(mir.ValueData).Pattern
		if !c.seen[id] {
			c.seen[id] = true
			c.order = append(c.order, id)
		}
	}
}

func (c *captureCollector) VisitPattern(mir.PatternID, *mir.Pattern) {}

// markIntroduced marks id and every sub-pattern bound along with it
// (tuple/record/variant items, a guarded pattern's inner pattern) as
// locally introduced.
func markIntroduced(prog *mir.Program, id mir.PatternID, introduced map[mir.PatternID]bool) {
	if !id.IsValid() || introduced[id] {
		return
	}
	p := prog.Pattern(id)
	if p == nil {
		return
	}
	introduced[id] = true
	switch p.Kind {
	case mir.PatternTuple:
		for _, it := range p.Data.(mir.TuplePatternData).Items {
			markIntroduced(prog, it, introduced)
		}
	case mir.PatternRecord:
		for _, it := range p.Data.(mir.RecordPatternData).Items {
			markIntroduced(prog, it, introduced)
		}
	case mir.PatternVariant:
		for _, it := range p.Data.(mir.VariantPatternData).Items {
			markIntroduced(prog, it, introduced)
		}
	case mir.PatternGuarded:
		markIntroduced(prog, p.Data.(mir.GuardedPatternData).Inner, introduced)
	}
}

// closureRetypeVisitor retypes every remaining KindFunction-typed node
// to KindClosure. A FunctionRef site is already KindClosure by the time
// this runs (functionRefVisitor retyped it above), so this only catches
// the surface a function value flows through afterward: the binding a
// closure is let-bound to, a tuple/record slot holding one, an argument
// slot of closure type, and so on.
type closureRetypeVisitor struct {
	prog *mir.Program
}

func (v *closureRetypeVisitor) Program() *mir.Program { return v.prog }

func (v *closureRetypeVisitor) VisitExpr(id mir.ExprID, e *mir.Expr) {
	if e.Type.Kind != mir.KindFunction {
		return
	}
	e.Type = mir.ClosureOf(e.Type)
	v.prog.UpdateExpr(id, *e)
}

func (v *closureRetypeVisitor) VisitPattern(id mir.PatternID, p *mir.Pattern) {
	if p.Type.Kind != mir.KindFunction {
		return
	}
	p.Type = mir.ClosureOf(p.Type)
	v.prog.UpdatePattern(id, *p)
}

// retypeTypeDefs retypes any record field or variant item declared at
// KindFunction, so a function value stored in a data type is as fully
// closure-converted as one bound by a let or passed as an argument.
func retypeTypeDefs(prog *mir.Program) {
	for _, id := range prog.TypeDefs.Keys() {
		td := prog.TypeDef(id)
		if td == nil {
			continue
		}
		changed := false
		switch td.Kind {
		case mir.TypeDefRecord:
			for i, f := range td.Record.Fields {
				if f.Type.Kind == mir.KindFunction {
					td.Record.Fields[i].Type = mir.ClosureOf(f.Type)
					changed = true
				}
			}
		case mir.TypeDefAdt:
			for vi, variant := range td.Adt.Variants {
				for ii, it := range variant.Items {
					if it.Type.Kind == mir.KindFunction {
						td.Adt.Variants[vi].Items[ii].Type = mir.ClosureOf(it.Type)
						changed = true
					}
				}
			}
		}
		if changed {
			prog.SetTypeDef(id, *td)
		}
	}
}
