package derive

import (
	"fmt"

	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
)

// genCmp builds cmp(a, b): Ordering for concreteType (spec §4.7).
func (g *Generator) genCmp(concreteType hir.Type, a, b mir.ExprID) (mir.ExprID, error) {
	return g.compareCmp(concreteType, a, b)
}

// genPartialCmp builds partialCmp(a, b): Option<Ordering>.
func (g *Generator) genPartialCmp(concreteType hir.Type, a, b mir.ExprID) (mir.ExprID, error) {
	return g.comparePartialCmp(concreteType, a, b)
}

// compareCmp recurses structurally, folding field/item comparisons
// left to right and keeping the first decided (non-Equal) result.
func (g *Generator) compareCmp(typ hir.Type, a, b mir.ExprID) (mir.ExprID, error) {
	orderingType, err := g.orderingType()
	if err != nil {
		return 0, err
	}
	boolType, err := g.boolType()
	if err != nil {
		return 0, err
	}

	if typ.Kind == hir.TypeNamed && primitiveNames[typ.Name] {
		return g.call(g.host.BuiltinCmp(typ.Name, orderingType), orderingType, a, b), nil
	}
	if typ.Kind != hir.TypeNamed {
		return 0, fmt.Errorf("derive: cmp target of kind %s is not a named type", typ.Kind)
	}
	td := g.host.HIR().TypeDef(typ.TypeDefID)
	if td == nil {
		return 0, fmt.Errorf("derive: unknown typedef #%d", typ.TypeDefID)
	}
	mirTypeDefID, err := g.host.Store().AddType(typ)
	if err != nil {
		return 0, err
	}

	switch td.Kind {
	case hir.TypeDefRecord:
		fieldTypes := substituteFields(td.Record, typ.TypeArgs)
		mirFieldTypes, err := g.processAll(fieldTypes)
		if err != nil {
			return 0, err
		}
		accessors := make([]func() (mir.ExprID, mir.ExprID), len(fieldTypes))
		for i := range fieldTypes {
			i := i
			accessors[i] = func() (mir.ExprID, mir.ExprID) {
				return g.fieldAccess(a, mirTypeDefID, i, mirFieldTypes[i]),
					g.fieldAccess(b, mirTypeDefID, i, mirFieldTypes[i])
			}
		}
		return g.foldCmp(fieldTypes, accessors, orderingType, boolType)

	case hir.TypeDefAdt:
		variantItemTypes := substituteVariantItems(td.Adt, typ.TypeArgs)
		k := len(td.Adt.Variants)
		acc, err := g.orderingLiteral(OrderingEqual)
		if err != nil {
			return 0, err
		}
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				var resultIJ mir.ExprID
				switch {
				case i == j:
					items := variantItemTypes[i]
					mirItemTypes, err := g.processAll(items)
					if err != nil {
						return 0, err
					}
					accessors := make([]func() (mir.ExprID, mir.ExprID), len(items))
					for idx := range items {
						idx := idx
						accessors[idx] = func() (mir.ExprID, mir.ExprID) {
							return g.variantAccess(a, mirTypeDefID, i, idx, mirItemTypes[idx]),
								g.variantAccess(b, mirTypeDefID, i, idx, mirItemTypes[idx])
						}
					}
					resultIJ, err = g.foldCmp(items, accessors, orderingType, boolType)
					if err != nil {
						return 0, err
					}
				case i < j:
					resultIJ, err = g.orderingLiteral(OrderingLess)
					if err != nil {
						return 0, err
					}
				default:
					resultIJ, err = g.orderingLiteral(OrderingGreater)
					if err != nil {
						return 0, err
					}
				}
				cond := g.boolAnd(
					g.variantIs(a, mirTypeDefID, i, boolType),
					g.variantIs(b, mirTypeDefID, j, boolType),
					boolType,
				)
				acc = g.ifExpr(cond, resultIJ, acc, orderingType)
			}
		}
		return acc, nil
	}
	return 0, fmt.Errorf("derive: unhandled typedef kind %d", td.Kind)
}

// foldCmp folds a left-to-right sequence of same-level comparisons
// (record fields, or one variant's items), keeping the first decided
// (non-Equal) Ordering.
func (g *Generator) foldCmp(types []hir.Type, accessors []func() (mir.ExprID, mir.ExprID), orderingType, boolType mir.Type) (mir.ExprID, error) {
	acc, err := g.orderingLiteral(OrderingEqual)
	if err != nil {
		return 0, err
	}
	for i, t := range types {
		av, bv := accessors[i]()
		fieldCmp, err := g.compareCmp(t, av, bv)
		if err != nil {
			return 0, err
		}
		accDecided, err := g.isEqualOrdering(acc, boolType)
		if err != nil {
			return 0, err
		}
		accDecided = g.boolNot(accDecided, boolType)
		acc = g.ifExpr(accDecided, acc, fieldCmp, orderingType)
	}
	return acc, nil
}

// comparePartialCmp is compareCmp's Option<Ordering> analogue: any
// field yielding None propagates None for the whole comparison.
func (g *Generator) comparePartialCmp(typ hir.Type, a, b mir.ExprID) (mir.ExprID, error) {
	optType, err := g.optionOrderingType()
	if err != nil {
		return 0, err
	}
	boolType, err := g.boolType()
	if err != nil {
		return 0, err
	}

	if typ.Kind == hir.TypeNamed && primitiveNames[typ.Name] {
		return g.call(g.host.BuiltinPartialCmp(typ.Name, optType), optType, a, b), nil
	}
	if typ.Kind != hir.TypeNamed {
		return 0, fmt.Errorf("derive: partialCmp target of kind %s is not a named type", typ.Kind)
	}
	td := g.host.HIR().TypeDef(typ.TypeDefID)
	if td == nil {
		return 0, fmt.Errorf("derive: unknown typedef #%d", typ.TypeDefID)
	}
	mirTypeDefID, err := g.host.Store().AddType(typ)
	if err != nil {
		return 0, err
	}

	switch td.Kind {
	case hir.TypeDefRecord:
		fieldTypes := substituteFields(td.Record, typ.TypeArgs)
		mirFieldTypes, err := g.processAll(fieldTypes)
		if err != nil {
			return 0, err
		}
		accessors := make([]func() (mir.ExprID, mir.ExprID), len(fieldTypes))
		for i := range fieldTypes {
			i := i
			accessors[i] = func() (mir.ExprID, mir.ExprID) {
				return g.fieldAccess(a, mirTypeDefID, i, mirFieldTypes[i]),
					g.fieldAccess(b, mirTypeDefID, i, mirFieldTypes[i])
			}
		}
		return g.foldPartialCmp(fieldTypes, accessors, optType, boolType)

	case hir.TypeDefAdt:
		variantItemTypes := substituteVariantItems(td.Adt, typ.TypeArgs)
		k := len(td.Adt.Variants)
		acc, err := g.someOrderingLiteral(OrderingEqual)
		if err != nil {
			return 0, err
		}
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				var resultIJ mir.ExprID
				switch {
				case i == j:
					items := variantItemTypes[i]
					mirItemTypes, err := g.processAll(items)
					if err != nil {
						return 0, err
					}
					accessors := make([]func() (mir.ExprID, mir.ExprID), len(items))
					for idx := range items {
						idx := idx
						accessors[idx] = func() (mir.ExprID, mir.ExprID) {
							return g.variantAccess(a, mirTypeDefID, i, idx, mirItemTypes[idx]),
								g.variantAccess(b, mirTypeDefID, i, idx, mirItemTypes[idx])
						}
					}
					resultIJ, err = g.foldPartialCmp(items, accessors, optType, boolType)
					if err != nil {
						return 0, err
					}
				case i < j:
					resultIJ, err = g.someOrderingLiteral(OrderingLess)
					if err != nil {
						return 0, err
					}
				default:
					resultIJ, err = g.someOrderingLiteral(OrderingGreater)
					if err != nil {
						return 0, err
					}
				}
				cond := g.boolAnd(
					g.variantIs(a, mirTypeDefID, i, boolType),
					g.variantIs(b, mirTypeDefID, j, boolType),
					boolType,
				)
				acc = g.ifExpr(cond, resultIJ, acc, optType)
			}
		}
		return acc, nil
	}
	return 0, fmt.Errorf("derive: unhandled typedef kind %d", td.Kind)
}

func (g *Generator) someOrderingLiteral(index int) (mir.ExprID, error) {
	inner, err := g.orderingLiteral(index)
	if err != nil {
		return 0, err
	}
	return g.someOrdering(inner)
}

// foldPartialCmp is foldCmp's Option<Ordering> analogue: a None field
// result short-circuits the whole fold to None.
func (g *Generator) foldPartialCmp(types []hir.Type, accessors []func() (mir.ExprID, mir.ExprID), optType, boolType mir.Type) (mir.ExprID, error) {
	acc, err := g.someOrderingLiteral(OrderingEqual)
	if err != nil {
		return 0, err
	}
	for i, t := range types {
		av, bv := accessors[i]()
		fieldOpt, err := g.comparePartialCmp(t, av, bv)
		if err != nil {
			return 0, err
		}

		accIsNone, err := g.isNoneOption(acc, boolType)
		if err != nil {
			return 0, err
		}
		accOrdering, err := g.unwrapSomeOrdering(acc)
		if err != nil {
			return 0, err
		}
		accIsEqual, err := g.isEqualOrdering(accOrdering, boolType)
		if err != nil {
			return 0, err
		}
		accNotEqual := g.boolNot(accIsEqual, boolType)
		accDecided := g.ifExpr(accIsNone, g.boolLiteral(true, boolType), accNotEqual, boolType)

		fieldIsNone, err := g.isNoneOption(fieldOpt, boolType)
		if err != nil {
			return 0, err
		}
		noneLit, err := g.noneOrdering()
		if err != nil {
			return 0, err
		}
		fieldOrdering, err := g.unwrapSomeOrdering(fieldOpt)
		if err != nil {
			return 0, err
		}
		fieldIsEqual, err := g.isEqualOrdering(fieldOrdering, boolType)
		if err != nil {
			return 0, err
		}
		// If the field propagates None, so do we; else if its Ordering
		// is Equal, keep acc unchanged (continue the fold); else adopt
		// it as the newly decided result.
		fieldResult := g.ifExpr(fieldIsNone, noneLit, g.ifExpr(fieldIsEqual, acc, fieldOpt, optType), optType)

		acc = g.ifExpr(accDecided, acc, fieldResult, optType)
	}
	return acc, nil
}
