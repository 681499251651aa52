package derive

import (
	"fmt"

	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
)

// genShow builds show(a): String, the supplemented fourth auto-derived
// member (SPEC_FULL.md "Show auto-derivation"): records render as
// `Name { field: show(f0), ... }`, variants as `Name(show(i0), ...)`
// (bare `Name` when the variant carries no items), primitives go
// through a built-in extern.
func (g *Generator) genShow(typ hir.Type, a mir.ExprID) (mir.ExprID, error) {
	stringType, err := g.stringType()
	if err != nil {
		return 0, err
	}
	return g.compareShow(typ, a, stringType)
}

func (g *Generator) compareShow(typ hir.Type, a mir.ExprID, stringType mir.Type) (mir.ExprID, error) {
	if typ.Kind == hir.TypeNamed && primitiveNames[typ.Name] {
		return g.call(g.host.BuiltinShow(typ.Name, stringType), stringType, a), nil
	}
	if typ.Kind != hir.TypeNamed {
		return 0, fmt.Errorf("derive: show target of kind %s is not a named type", typ.Kind)
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
		result := g.stringLiteral(td.Record.Name+" { ", stringType)
		for i, ft := range fieldTypes {
			if i > 0 {
				result = g.concat(result, g.stringLiteral(", ", stringType), stringType)
			}
			result = g.concat(result, g.stringLiteral(td.Record.Fields[i].Name+": ", stringType), stringType)
			fieldVal := g.fieldAccess(a, mirTypeDefID, i, mirFieldTypes[i])
			fieldShow, err := g.compareShow(ft, fieldVal, stringType)
			if err != nil {
				return 0, err
			}
			result = g.concat(result, fieldShow, stringType)
		}
		result = g.concat(result, g.stringLiteral(" }", stringType), stringType)
		return result, nil

	case hir.TypeDefAdt:
		boolType, err := g.boolType()
		if err != nil {
			return 0, err
		}
		variantItemTypes := substituteVariantItems(td.Adt, typ.TypeArgs)
		acc := g.stringLiteral("<unreachable variant>", stringType)
		for i := len(td.Adt.Variants) - 1; i >= 0; i-- {
			variant := td.Adt.Variants[i]
			items := variantItemTypes[i]
			mirItemTypes, err := g.processAll(items)
			if err != nil {
				return 0, err
			}
			var rendered mir.ExprID
			if len(items) == 0 {
				rendered = g.stringLiteral(variant.Name, stringType)
			} else {
				rendered = g.stringLiteral(variant.Name+"(", stringType)
				for j, it := range items {
					if j > 0 {
						rendered = g.concat(rendered, g.stringLiteral(", ", stringType), stringType)
					}
					itemVal := g.variantAccess(a, mirTypeDefID, i, j, mirItemTypes[j])
					itemShow, err := g.compareShow(it, itemVal, stringType)
					if err != nil {
						return 0, err
					}
					rendered = g.concat(rendered, itemShow, stringType)
				}
				rendered = g.concat(rendered, g.stringLiteral(")", stringType), stringType)
			}
			acc = g.ifExpr(g.variantIs(a, mirTypeDefID, i, boolType), rendered, acc, stringType)
		}
		return acc, nil
	}
	return 0, fmt.Errorf("derive: unhandled typedef kind %d", td.Kind)
}
