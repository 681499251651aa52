package legalize_test

import (
	"testing"

	"github.com/siko-lang/sikoc/internal/legalize"
	"github.com/siko-lang/sikoc/internal/mir"
)

// buildList registers List Int = Nil | Cons Int (List Int) with its
// second Cons item still Owned, mirroring what internal/typestore
// produces before legalization runs.
func buildList(prog *mir.Program) (listID, intID mir.TypeDefID) {
	intID = prog.AddTypeDef(mir.TypeDef{Kind: mir.TypeDefRecord, Record: &mir.Record{Name: "Int"}})
	listID = prog.ReserveTypeDefID()
	prog.SetTypeDef(listID, mir.TypeDef{
		Kind: mir.TypeDefAdt,
		Adt: &mir.Adt{
			Name: "List",
			Variants: []mir.Variant{
				{Name: "Nil"},
				{Name: "Cons", Items: []mir.VariantItem{
					{Type: mir.NamedType(mir.Owned, intID)},
					{Type: mir.NamedType(mir.Owned, listID)},
				}},
			},
		},
	})
	return listID, intID
}

// TestSelfRecursiveListBoxesSecondConsItem covers spec §8 scenario 1.
func TestSelfRecursiveListBoxesSecondConsItem(t *testing.T) {
	prog := mir.NewProgram()
	listID, intID := buildList(prog)

	legalize.Run(prog)

	td := prog.TypeDef(listID)
	cons := td.Adt.Variants[1]
	if cons.Items[0].Type.Modifier != mir.Owned || cons.Items[0].Type.TypeDefID != intID {
		t.Fatalf("expected Cons's first item to stay Owned(Int), got %+v", cons.Items[0].Type)
	}
	if cons.Items[1].Type.Modifier != mir.Boxed || cons.Items[1].Type.TypeDefID != listID {
		t.Fatalf("expected Cons's second item to become Boxed(List), got %+v", cons.Items[1].Type)
	}
}

// buildTreeForest registers the mutually recursive pair from spec §8
// scenario 2: Tree a = Node a (Forest a); Forest a = Empty | NonEmpty
// (Tree a) (Forest a). Tree has one intra-group reference (its Forest
// field). Forest's own Forest item is a direct self-reference, which the
// direct-recursion pass boxes before the SCC pass runs, leaving Forest
// with one intra-group reference too (its Tree item); Tree wins the
// pivot tie-break on its smaller id.
func buildTreeForest(prog *mir.Program) (treeID, forestID, intID mir.TypeDefID) {
	intID = prog.AddTypeDef(mir.TypeDef{Kind: mir.TypeDefRecord, Record: &mir.Record{Name: "Int"}})
	treeID = prog.ReserveTypeDefID()
	forestID = prog.ReserveTypeDefID()

	prog.SetTypeDef(treeID, mir.TypeDef{
		Kind: mir.TypeDefAdt,
		Adt: &mir.Adt{
			Name: "Tree",
			Variants: []mir.Variant{
				{Name: "Node", Items: []mir.VariantItem{
					{Type: mir.NamedType(mir.Owned, intID)},
					{Type: mir.NamedType(mir.Owned, forestID)},
				}},
			},
		},
	})
	prog.SetTypeDef(forestID, mir.TypeDef{
		Kind: mir.TypeDefAdt,
		Adt: &mir.Adt{
			Name: "Forest",
			Variants: []mir.Variant{
				{Name: "Empty"},
				{Name: "NonEmpty", Items: []mir.VariantItem{
					{Type: mir.NamedType(mir.Owned, treeID)},
					{Type: mir.NamedType(mir.Owned, forestID)},
				}},
			},
		},
	})
	return treeID, forestID, intID
}

// TestMutuallyRecursiveTreeForestPicksTreeAsPivot covers spec §8
// scenario 2: the SCC {Tree, Forest} picks Tree as pivot (tied at one
// intra-group edge after direct-recursion boxing, Tree has the smaller
// id) and boxes exactly Tree.Node's Forest field; NonEmpty's
// self-referencing Forest item is boxed by the direct-recursion pass.
func TestMutuallyRecursiveTreeForestPicksTreeAsPivot(t *testing.T) {
	prog := mir.NewProgram()
	treeID, forestID, intID := buildTreeForest(prog)

	legalize.Run(prog)

	tree := prog.TypeDef(treeID)
	node := tree.Adt.Variants[0]
	if node.Items[0].Type.Modifier != mir.Owned || node.Items[0].Type.TypeDefID != intID {
		t.Fatalf("expected Node's Int item to stay Owned, got %+v", node.Items[0].Type)
	}
	if node.Items[1].Type.Modifier != mir.Boxed || node.Items[1].Type.TypeDefID != forestID {
		t.Fatalf("expected Node's Forest item to become Boxed, got %+v", node.Items[1].Type)
	}

	forest := prog.TypeDef(forestID)
	nonEmpty := forest.Adt.Variants[1]
	if nonEmpty.Items[0].Type.Modifier != mir.Owned || nonEmpty.Items[0].Type.TypeDefID != treeID {
		t.Fatalf("expected NonEmpty's Tree item to stay Owned (Forest lost the pivot tie-break), got %+v", nonEmpty.Items[0].Type)
	}
	if nonEmpty.Items[1].Type.Modifier != mir.Boxed || nonEmpty.Items[1].Type.TypeDefID != forestID {
		t.Fatalf("expected NonEmpty's self-referencing Forest item to be Boxed by the direct-recursion pass, got %+v", nonEmpty.Items[1].Type)
	}
}

// TestAcyclicRecordsAreUntouched guards against the SCC pass boxing
// anything in a typedef graph with no cycles at all.
func TestAcyclicRecordsAreUntouched(t *testing.T) {
	prog := mir.NewProgram()
	intID := prog.AddTypeDef(mir.TypeDef{Kind: mir.TypeDefRecord, Record: &mir.Record{Name: "Int"}})
	pointID := prog.AddTypeDef(mir.TypeDef{
		Kind: mir.TypeDefRecord,
		Record: &mir.Record{
			Name: "Point",
			Fields: []mir.Field{
				{Name: "x", Type: mir.NamedType(mir.Owned, intID)},
				{Name: "y", Type: mir.NamedType(mir.Owned, intID)},
			},
		},
	})

	legalize.Run(prog)

	point := prog.TypeDef(pointID)
	for _, f := range point.Record.Fields {
		if f.Type.Modifier != mir.Owned {
			t.Fatalf("expected acyclic Point's fields to stay Owned, got %+v", f.Type)
		}
	}
}

// TestFiniteSizingHoldsAfterLegalization is a small sweep implementing
// spec §8 invariant 1: every cycle in the post-legalization "contains
// unboxed" graph must pass through a Boxed edge. Equivalently, the
// unboxed-only subgraph must be acyclic.
func TestFiniteSizingHoldsAfterLegalization(t *testing.T) {
	prog := mir.NewProgram()
	buildList(prog)
	buildTreeForest(prog)
	legalize.Run(prog)

	unboxedDeps := func(id mir.TypeDefID) []mir.TypeDefID {
		return prog.TypeDef(id).Deps()
	}
	ids := prog.TypeDefs.Keys()
	if cycle := findCycle(ids, unboxedDeps); cycle != nil {
		t.Fatalf("unboxed-only graph still has a cycle: %v", cycle)
	}
}

func findCycle(ids []mir.TypeDefID, deps func(mir.TypeDefID) []mir.TypeDefID) []mir.TypeDefID {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[mir.TypeDefID]int)
	var stack []mir.TypeDefID
	var cycle []mir.TypeDefID

	var visit func(mir.TypeDefID) bool
	visit = func(id mir.TypeDefID) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, d := range deps(id) {
			switch color[d] {
			case white:
				if visit(d) {
					return true
				}
			case gray:
				cycle = append([]mir.TypeDefID(nil), stack...)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}
	for _, id := range ids {
		if color[id] == white {
			if visit(id) {
				return cycle
			}
		}
	}
	return nil
}
