package mono

import (
	"github.com/siko-lang/sikoc/internal/diag"
	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/source"
)

// buildUnifier runs the call unifier of spec §4.3 step 3: strip
// FixedTypeArg from declared, then bind every remaining variable by
// matching declared's argument/result shape against the call's
// observed concrete types.
func buildUnifier(diags *diag.Bag, declared hir.Type, argTypes []hir.Type, resultType hir.Type) (map[hir.TypeVarID]hir.Type, error) {
	sub := make(map[hir.TypeVarID]hir.Type)
	stripped := declared.RemoveFixedTypes()
	cur := stripped
	for _, at := range argTypes {
		if cur.Kind != hir.TypeFunction {
			return nil, diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "mono.buildUnifier: declared type has fewer arguments than the call site")
		}
		if err := unify(diags, *cur.From, at, sub); err != nil {
			return nil, err
		}
		cur = *cur.To
	}
	if err := unify(diags, cur, resultType, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// unify walks declared and observed in lockstep, binding declared's
// variables in sub. Both sides must already agree on shape: by the
// time the monomorphizer runs, the input has been type-checked (spec
// §4.3 "Failure semantics"), so a shape mismatch here is a compiler bug.
func unify(diags *diag.Bag, declared, observed hir.Type, sub map[hir.TypeVarID]hir.Type) error {
	switch declared.Kind {
	case hir.TypeVar:
		if existing, ok := sub[declared.Var]; ok {
			if existing.Signature() != observed.Signature() {
				return diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "mono.unify: variable %d bound to both %s and %s", declared.Var, existing.Signature(), observed.Signature())
			}
			return nil
		}
		sub[declared.Var] = observed
		return nil
	case hir.TypeFunction:
		if observed.Kind != hir.TypeFunction {
			return diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "mono.unify: expected a function type, observed %s", observed.Kind)
		}
		if err := unify(diags, *declared.From, *observed.From, sub); err != nil {
			return err
		}
		return unify(diags, *declared.To, *observed.To, sub)
	case hir.TypeNamed:
		if observed.Kind != hir.TypeNamed || observed.TypeDefID != declared.TypeDefID {
			return diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "mono.unify: named type mismatch")
		}
		for i := range declared.TypeArgs {
			if i >= len(observed.TypeArgs) {
				return diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "mono.unify: named type argument count mismatch")
			}
			if err := unify(diags, declared.TypeArgs[i], observed.TypeArgs[i], sub); err != nil {
				return err
			}
		}
		return nil
	case hir.TypeTuple:
		if observed.Kind != hir.TypeTuple || len(observed.Items) != len(declared.Items) {
			return diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "mono.unify: tuple shape mismatch")
		}
		for i := range declared.Items {
			if err := unify(diags, declared.Items[i], observed.Items[i], sub); err != nil {
				return err
			}
		}
		return nil
	case hir.TypeRef:
		if observed.Kind != hir.TypeRef {
			return diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "mono.unify: expected a reference type")
		}
		return unify(diags, *declared.Ref, *observed.Ref, sub)
	case hir.TypeNever:
		return nil
	default:
		return diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "mono.unify: unhandled declared type kind %s", declared.Kind)
	}
}

// collectFixedConstraints walks t (before RemoveFixedTypes) and records
// every FixedTypeArg's class constraint list, keyed by its variable.
func collectFixedConstraints(t hir.Type, out map[hir.TypeVarID][]hir.ClassID) {
	switch t.Kind {
	case hir.TypeFixedTypeArg:
		out[t.Var] = append(out[t.Var], t.Constraints...)
	case hir.TypeFunction:
		collectFixedConstraints(*t.From, out)
		collectFixedConstraints(*t.To, out)
	case hir.TypeNamed:
		for _, a := range t.TypeArgs {
			collectFixedConstraints(a, out)
		}
	case hir.TypeTuple:
		for _, it := range t.Items {
			collectFixedConstraints(it, out)
		}
	case hir.TypeRef:
		collectFixedConstraints(*t.Ref, out)
	}
}

// promoteConstraints expands a class constraint set per spec §4.3 step 5:
// Ord entails PartialEq, PartialOrd and Eq; Eq entails PartialEq.
func promoteConstraints(prog *hir.Program, classIDs []hir.ClassID) []hir.ClassID {
	byName := make(map[string]hir.ClassID)
	prog.Classes.Each(func(id hir.ClassID, c *hir.Class) {
		byName[c.Name] = id
	})

	present := make(map[hir.ClassID]bool)
	var out []hir.ClassID
	add := func(id hir.ClassID) {
		if id.IsValid() && !present[id] {
			present[id] = true
			out = append(out, id)
		}
	}
	for _, id := range classIDs {
		add(id)
	}
	for _, id := range classIDs {
		c, ok := prog.Classes.Get(id)
		if !ok {
			continue
		}
		switch c.Name {
		case hir.ClassOrd:
			add(byName[hir.ClassPartialEq])
			add(byName[hir.ClassPartialOrd])
			add(byName["Eq"])
		case "Eq":
			add(byName[hir.ClassPartialEq])
		}
	}
	return out
}
