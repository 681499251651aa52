package derive

import (
	"fmt"

	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
)

// genEq builds opEq(a, b) for concreteType (spec §4.7).
func (g *Generator) genEq(concreteType hir.Type, a, b mir.ExprID) (mir.ExprID, error) {
	boolType, err := g.boolType()
	if err != nil {
		return 0, err
	}
	return g.compareEq(concreteType, a, b, boolType)
}

// compareEq recurses structurally over typ's shape: variants compare
// their runtime tag first, then items pairwise; records compare fields
// pairwise; primitives go through a built-in extern.
func (g *Generator) compareEq(typ hir.Type, a, b mir.ExprID, boolType mir.Type) (mir.ExprID, error) {
	if typ.Kind == hir.TypeNamed && primitiveNames[typ.Name] {
		return g.call(g.host.BuiltinEq(typ.Name, boolType), boolType, a, b), nil
	}
	if typ.Kind != hir.TypeNamed {
		return 0, fmt.Errorf("derive: opEq target of kind %s is not a named type", typ.Kind)
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
		acc := g.boolLiteral(true, boolType)
		for i, ft := range fieldTypes {
			av := g.fieldAccess(a, mirTypeDefID, i, mirFieldTypes[i])
			bv := g.fieldAccess(b, mirTypeDefID, i, mirFieldTypes[i])
			eq, err := g.compareEq(ft, av, bv, boolType)
			if err != nil {
				return 0, err
			}
			acc = g.boolAnd(acc, eq, boolType)
		}
		return acc, nil

	case hir.TypeDefAdt:
		variantItemTypes := substituteVariantItems(td.Adt, typ.TypeArgs)
		acc := g.boolLiteral(false, boolType)
		for i := len(td.Adt.Variants) - 1; i >= 0; i-- {
			items := variantItemTypes[i]
			mirItemTypes, err := g.processAll(items)
			if err != nil {
				return 0, err
			}
			itemsEq := g.boolLiteral(true, boolType)
			for j, it := range items {
				av := g.variantAccess(a, mirTypeDefID, i, j, mirItemTypes[j])
				bv := g.variantAccess(b, mirTypeDefID, i, j, mirItemTypes[j])
				eq, err := g.compareEq(it, av, bv, boolType)
				if err != nil {
					return 0, err
				}
				itemsEq = g.boolAnd(itemsEq, eq, boolType)
			}
			bothVariantI := g.boolAnd(
				g.variantIs(a, mirTypeDefID, i, boolType),
				g.variantIs(b, mirTypeDefID, i, boolType),
				boolType,
			)
			acc = g.ifExpr(bothVariantI, itemsEq, acc, boolType)
		}
		return acc, nil
	}
	return 0, fmt.Errorf("derive: unhandled typedef kind %d", td.Kind)
}

func (g *Generator) processAll(types []hir.Type) ([]mir.Type, error) {
	out := make([]mir.Type, len(types))
	for i, t := range types {
		mt, err := g.host.Store().ProcessType(t)
		if err != nil {
			return nil, err
		}
		out[i] = mt
	}
	return out, nil
}
