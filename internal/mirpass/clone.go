package mirpass

import (
	"fmt"

	"github.com/siko-lang/sikoc/internal/mir"
)

// primitiveNames mirrors internal/mono's and internal/derive's set of
// the same name: built-in scalars treated as trivially copyable, so a
// second reference to one never needs an explicit Clone node.
var primitiveNames = map[string]bool{
	"Int": true, "Float": true, "Char": true, "String": true, "Bool": true,
}

// insertClones implements spec §4.6's second pass: a linear, lexical,
// pre-order traversal of one function body. The first reference to a
// given value (an ExprValue reading a pattern, or an ExprArgRef reading
// an argument slot) is left as a move; every later reference to the
// same value, if its MIR type is non-trivially-copyable, is wrapped in
// an explicit Clone. Spec §4.6 calls this a sound over-approximation:
// "use past the first" is computed across the whole body regardless of
// which branch actually executes at runtime, never reset per branch.
func insertClones(prog *mir.Program, root mir.ExprID) {
	v := &cloneVisitor{prog: prog, seen: make(map[string]bool)}
	mir.WalkExpr(root, v)
	for _, id := range v.toClone {
		spliceClone(prog, id)
	}
}

type cloneVisitor struct {
	prog    *mir.Program
	seen    map[string]bool
	toClone []mir.ExprID
}

func (v *cloneVisitor) Program() *mir.Program { return v.prog }

func (v *cloneVisitor) VisitPattern(mir.PatternID, *mir.Pattern) {}

func (v *cloneVisitor) VisitExpr(id mir.ExprID, e *mir.Expr) {
	var key string
	switch e.Kind {
	case mir.ExprValue:
		key = fmt.Sprintf("pattern#%d", e.Data.(mir.ValueData).Pattern)
	case mir.ExprArgRef:
		key = fmt.Sprintf("arg#%d", e.Data.(mir.ArgRefData).Index)
	default:
		return
	}
	if !v.needsClone(e.Type) {
		return
	}
	if v.seen[key] {
		v.toClone = append(v.toClone, id)
		return
	}
	v.seen[key] = true
}

// needsClone reports whether a reference to a value of type t must be
// explicitly cloned on reuse: a Closure value always carries captured
// state, and a Named value does unless it's a Ref (a borrow, freely
// reusable) or one of the built-in scalar primitives (spec §4.6
// "non-trivially-copyable"). Boxed is treated the same as Owned here —
// both still own heap state that a second use must not silently alias
// — an Open Question decision recorded in DESIGN.md, since spec prose
// only contrasts "owned" against Ref without mentioning Boxed by name.
// KindFunction is treated the same as KindClosure: clone insertion runs
// before closure conversion, so a let-bound lambda or first-class
// function value reused more than once is still typed KindFunction at
// this point, and will be promoted to a capture-carrying KindClosure by
// the later whole-program sweep — the reuse has to be caught here or
// not at all.
func (v *cloneVisitor) needsClone(t mir.Type) bool {
	switch t.Kind {
	case mir.KindClosure, mir.KindFunction:
		return true
	case mir.KindNamed:
		if t.Modifier == mir.Ref {
			return false
		}
		td := v.prog.TypeDef(t.TypeDefID)
		return td == nil || !primitiveNames[td.Name()]
	default:
		return false
	}
}

// spliceClone moves e's current content to a fresh expr id and rewrites
// e's original id, in place, into a Clone of that fresh id — the same
// identity-preserving splice internal/boxprop uses for Deref, generalized
// to a node whose type doesn't change across the splice.
func spliceClone(prog *mir.Program, id mir.ExprID) {
	original := prog.Expr(id)
	if original == nil {
		return
	}
	newID := prog.AddExpr(mir.Expr{
		Kind: original.Kind,
		Type: original.Type,
		Span: original.Span,
		Data: original.Data,
	})
	prog.UpdateExpr(id, mir.Expr{
		Kind: mir.ExprClone,
		Type: original.Type,
		Span: original.Span,
		Data: mir.CloneData{Inner: newID},
	})
}
