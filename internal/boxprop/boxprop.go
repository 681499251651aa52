// Package boxprop implements spec §4.5, the pattern-retype and
// deref-insertion pass that runs immediately after internal/legalize.
// Legalization only ever touches typedefs; every pattern and expression
// translated before it still carries the pre-boxing type, so this pass
// walks every function body once to bring both back in sync.
//
// Ported from the two-visitor structure of box_convert.rs's
// RetypePattern and VarRefCollector: first retype every binding pattern
// that destructures a now-Boxed field/variant item, then splice a Deref
// around every value reference that reads one of those bindings.
package boxprop

import "github.com/siko-lang/sikoc/internal/mir"

// Run retypes patterns and inserts derefs across every normal function
// body in prog (spec §4.5).
func Run(prog *mir.Program) {
	prog.Funcs.Each(func(id mir.FuncID, f mir.Function) {
		if !hasBody(f) {
			return
		}
		retypeBoxedPatterns(prog, f.Body)
		insertDerefsForBoxedValues(prog, f.Body)
	})
}

func hasBody(f mir.Function) bool {
	switch f.InfoKind {
	case mir.FunctionNormal, mir.FunctionExternClassImpl:
		return f.Body.IsValid()
	default:
		return false
	}
}

// retypeBoxedPatterns implements RetypePattern: a Variant or Record
// pattern whose typedef says a given item is Boxed must have that
// item's own sub-pattern retyped to Boxed(T), since pattern-matching
// machinery downstream (spec §4.6) needs the binding's own recorded
// type to be accurate independent of its parent pattern.
func retypeBoxedPatterns(prog *mir.Program, root mir.ExprID) {
	v := &retypeVisitor{prog: prog}
	mir.WalkExpr(root, v)
	for _, id := range v.toBox {
		p := prog.Pattern(id)
		if p == nil {
			continue
		}
		p.Type = p.Type.WithModifier(mir.Boxed)
		prog.UpdatePattern(id, *p)
	}
}

type retypeVisitor struct {
	prog  *mir.Program
	toBox []mir.PatternID
}

func (v *retypeVisitor) Program() *mir.Program { return v.prog }

func (v *retypeVisitor) VisitExpr(mir.ExprID, *mir.Expr) {}

func (v *retypeVisitor) VisitPattern(_ mir.PatternID, p *mir.Pattern) {
	switch p.Kind {
	case mir.PatternVariant:
		d := p.Data.(mir.VariantPatternData)
		td := v.prog.TypeDef(d.TypeDefID)
		if td == nil || td.Kind != mir.TypeDefAdt || d.Index >= len(td.Adt.Variants) {
			return
		}
		items := td.Adt.Variants[d.Index].Items
		for i, sub := range d.Items {
			if i < len(items) && items[i].IsBoxed() {
				v.toBox = append(v.toBox, sub)
			}
		}
	case mir.PatternRecord:
		d := p.Data.(mir.RecordPatternData)
		td := v.prog.TypeDef(d.TypeDefID)
		if td == nil || td.Kind != mir.TypeDefRecord {
			return
		}
		fields := td.Record.Fields
		for i, sub := range d.Items {
			if i < len(fields) && fields[i].Type.Modifier == mir.Boxed {
				v.toBox = append(v.toBox, sub)
			}
		}
	}
}

// insertDerefsForBoxedValues implements VarRefCollector plus the
// splice step: every ExprValue node whose pattern is now Boxed gets
// wrapped in a Deref, at the original expr id, so every other node
// that already references this id keeps pointing at a valid (now
// unboxed-typed) expression.
func insertDerefsForBoxedValues(prog *mir.Program, root mir.ExprID) {
	v := &derefVisitor{prog: prog}
	mir.WalkExpr(root, v)
	for _, id := range v.toDeref {
		spliceDeref(prog, id)
	}
}

type derefVisitor struct {
	prog    *mir.Program
	toDeref []mir.ExprID
}

func (v *derefVisitor) Program() *mir.Program { return v.prog }

func (v *derefVisitor) VisitPattern(mir.PatternID, *mir.Pattern) {}

func (v *derefVisitor) VisitExpr(id mir.ExprID, e *mir.Expr) {
	if e.Kind != mir.ExprValue {
		return
	}
	d := e.Data.(mir.ValueData)
	p := v.prog.Pattern(d.Pattern)
	if p != nil && p.Type.Kind == mir.KindNamed && p.Type.Modifier == mir.Boxed {
		v.toDeref = append(v.toDeref, id)
	}
}

// spliceDeref moves the original ExprValue node to a fresh id (now
// typed Boxed, matching its pattern) and rewrites the original id in
// place into a Deref of that fresh id, typed with the original
// (unboxed) type — so any existing reference to id still resolves to
// the unboxed value it expected (spec §8 property 5).
func spliceDeref(prog *mir.Program, id mir.ExprID) {
	original := prog.Expr(id)
	if original == nil {
		return
	}
	d := original.Data.(mir.ValueData)
	p := prog.Pattern(d.Pattern)
	if p == nil {
		return
	}

	// original.Type is whatever the initial translation recorded before
	// boxing ever ran — already the correct unboxed type for the outer,
	// spliced-in Deref. p.Type is the pattern's now-Boxed type, which
	// the fresh inner value reference must carry instead.
	outerType := original.Type
	newID := prog.AddExpr(mir.Expr{
		Kind: mir.ExprValue,
		Type: p.Type,
		Span: original.Span,
		Data: mir.ValueData{Pattern: d.Pattern},
	})

	prog.UpdateExpr(id, mir.Expr{
		Kind: mir.ExprDeref,
		Type: outerType,
		Span: original.Span,
		Data: mir.DerefData{Inner: newID},
	})
}
