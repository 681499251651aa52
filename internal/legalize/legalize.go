// Package legalize implements spec §4.4's two data-type legalization
// passes: a direct-recursion safety net, then SCC/pivot boxing. Both
// passes mutate an already-built mir.Program's typedefs in place,
// switching chosen field/variant item types from Owned to Boxed so that
// every typedef that survives is finite-sized (spec §4.4, invariant 1).
//
// Ported in shape from check_recursive_data_types.rs's two-phase
// collect-then-rewrite structure (collect a set of rewrites first,
// apply them after, so earlier rewrites in the same typedef don't
// perturb later field/variant indices), generalized to the SCC/pivot
// scheme spec §4.4.1 adds on top.
package legalize

import (
	"sort"

	"github.com/siko-lang/sikoc/internal/mir"
	"github.com/siko-lang/sikoc/internal/scc"
)

// Run applies both passes to prog, in the order spec §4.4 requires:
// direct-recursion boxing first, then the SCC/pivot pass.
func Run(prog *mir.Program) {
	boxDirectRecursion(prog)
	boxSizeCycles(prog)
}

// rewrite identifies one field or variant item to box, named the way
// check_recursive_data_types.rs's Rewrite enum does (by typedef plus
// positional indices) so applying a batch of rewrites never needs to
// re-walk the typedef it targets.
type rewrite struct {
	typeDefID    mir.TypeDefID
	variantIndex int // -1 for a Record field
	itemIndex    int
}

// boxDirectRecursion implements spec §4.4.2: a typedef that refers to
// itself through an unboxed field or variant item gets that item boxed,
// before the SCC pass runs. This guarantees the SCC pass never has to
// special-case a singleton group whose only problem is a self-edge.
func boxDirectRecursion(prog *mir.Program) {
	var rewrites []rewrite
	prog.TypeDefs.Each(func(id mir.TypeDefID, td mir.TypeDef) {
		rewrites = append(rewrites, selfReferences(id, &td)...)
	})
	applyRewrites(prog, rewrites)
}

func selfReferences(id mir.TypeDefID, td *mir.TypeDef) []rewrite {
	var out []rewrite
	if td.Kind == mir.TypeDefAdt {
		for vi, v := range td.Adt.Variants {
			for ii, item := range v.Items {
				if refersTo(item.Type, id) {
					out = append(out, rewrite{typeDefID: id, variantIndex: vi, itemIndex: ii})
				}
			}
		}
	} else {
		for fi, f := range td.Record.Fields {
			if refersTo(f.Type, id) {
				out = append(out, rewrite{typeDefID: id, variantIndex: -1, itemIndex: fi})
			}
		}
	}
	return out
}

func refersTo(t mir.Type, id mir.TypeDefID) bool {
	return t.Kind == mir.KindNamed && t.Modifier != mir.Boxed && t.TypeDefID == id
}

// boxSizeCycles implements spec §4.4.1: every typedef's "contains
// unboxed" graph is decomposed into SCCs via internal/scc, seeded by
// ascending identifier order exactly as spec §4.1 requires. Each SCC of
// size > 1 (or a remaining singleton self-loop) picks a pivot typedef —
// the member with the fewest unboxed references into the rest of the
// group, ties broken by smallest id — and boxes every one of the
// pivot's items that targets a fellow group member.
//
// internal/scc.Compute already returns groups in reverse-topological
// order, so processing them in the order returned satisfies step 5
// ("process SCCs in reverse-topological order") with no extra work.
func boxSizeCycles(prog *mir.Program) {
	ids := prog.TypeDefs.Keys()
	deps := func(id mir.TypeDefID) []mir.TypeDefID {
		td := prog.TypeDef(id)
		if td == nil {
			return nil
		}
		return td.Deps()
	}

	for _, group := range scc.Compute(ids, deps) {
		if len(group) == 1 && !hasSelfLoop(prog, group[0]) {
			continue
		}
		pivot := choosePivot(prog, group)
		boxGroupEdges(prog, pivot, group)
	}
}

func hasSelfLoop(prog *mir.Program, id mir.TypeDefID) bool {
	for _, dep := range depsOf(prog, id) {
		if dep == id {
			return true
		}
	}
	return false
}

func depsOf(prog *mir.Program, id mir.TypeDefID) []mir.TypeDefID {
	td := prog.TypeDef(id)
	if td == nil {
		return nil
	}
	return td.Deps()
}

// choosePivot picks the group member with the fewest unboxed references
// to other members of group, breaking ties by the smallest identifier.
func choosePivot(prog *mir.Program, group scc.Group[mir.TypeDefID]) mir.TypeDefID {
	inGroup := make(map[mir.TypeDefID]bool, len(group))
	for _, id := range group {
		inGroup[id] = true
	}

	best := group[0]
	bestCount := -1
	// group is iterated in Tarjan discovery order, not identifier order;
	// sort a copy so the tie-break ("smallest identifier") is applied
	// deterministically regardless of that order.
	sorted := append([]mir.TypeDefID(nil), group...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, id := range sorted {
		count := 0
		for _, dep := range depsOf(prog, id) {
			if inGroup[dep] {
				count++
			}
		}
		if bestCount == -1 || count < bestCount {
			bestCount = count
			best = id
		}
	}
	return best
}

// boxGroupEdges boxes every field/variant item of pivot whose target
// typedef is a member of group (including pivot itself, for a singleton
// self-loop that survived boxDirectRecursion unchanged — it shouldn't,
// but this keeps the invariant true even if a future caller skips that
// pass).
func boxGroupEdges(prog *mir.Program, pivot mir.TypeDefID, group scc.Group[mir.TypeDefID]) {
	inGroup := make(map[mir.TypeDefID]bool, len(group))
	for _, id := range group {
		inGroup[id] = true
	}

	td := prog.TypeDef(pivot)
	if td == nil {
		return
	}
	var rewrites []rewrite
	if td.Kind == mir.TypeDefAdt {
		for vi, v := range td.Adt.Variants {
			for ii, item := range v.Items {
				if item.Type.Kind == mir.KindNamed && item.Type.Modifier != mir.Boxed && inGroup[item.Type.TypeDefID] {
					rewrites = append(rewrites, rewrite{typeDefID: pivot, variantIndex: vi, itemIndex: ii})
				}
			}
		}
	} else {
		for fi, f := range td.Record.Fields {
			if f.Type.Kind == mir.KindNamed && f.Type.Modifier != mir.Boxed && inGroup[f.Type.TypeDefID] {
				rewrites = append(rewrites, rewrite{typeDefID: pivot, variantIndex: -1, itemIndex: fi})
			}
		}
	}
	applyRewrites(prog, rewrites)
}

// applyRewrites boxes every named item the collected rewrites point at.
// Rewrites are applied per typedef against a single read-modify-write of
// that typedef, so indices collected up front stay valid even though
// several rewrites may target the same typedef.
func applyRewrites(prog *mir.Program, rewrites []rewrite) {
	byTypeDef := make(map[mir.TypeDefID][]rewrite)
	for _, r := range rewrites {
		byTypeDef[r.typeDefID] = append(byTypeDef[r.typeDefID], r)
	}
	for id, rs := range byTypeDef {
		td := prog.TypeDef(id)
		if td == nil {
			continue
		}
		for _, r := range rs {
			if r.variantIndex == -1 {
				td.Record.Fields[r.itemIndex].Type = td.Record.Fields[r.itemIndex].Type.WithModifier(mir.Boxed)
			} else {
				item := &td.Adt.Variants[r.variantIndex].Items[r.itemIndex]
				item.Type = item.Type.WithModifier(mir.Boxed)
			}
		}
		prog.SetTypeDef(id, *td)
	}
}
