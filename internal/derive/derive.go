package derive

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
)

// primitiveNames mirrors internal/mono's set of the same name: built-in
// scalars whose PartialEq/PartialOrd/Ord/Show all bottom out in a
// lazily registered extern call rather than structural recursion.
var primitiveNames = map[string]bool{
	"Int": true, "Float": true, "Char": true, "String": true, "Bool": true,
}

// Generator synthesizes structural class-member bodies for one host
// program (spec §4.7).
type Generator struct {
	host Host
	wk   WellKnown
}

// New resolves the well-known Bool/Option/Ordering types out of host's
// HIR program. Failure means the host program never registered one of
// these compiler-known types, an internal-error condition.
func New(host Host) (*Generator, error) {
	wk, ok := ResolveWellKnown(host.HIR())
	if !ok {
		return nil, fmt.Errorf("derive: program does not register the well-known Bool/Option/Ordering types")
	}
	return &Generator{host: host, wk: wk}, nil
}

// Generate builds the body for className's structural derivation on
// concreteType given already-materialized argument expressions (two
// for PartialEq/PartialOrd/Ord, one for Show).
func (g *Generator) Generate(className string, concreteType hir.Type, args []mir.ExprID) (mir.ExprID, error) {
	switch className {
	case hir.ClassPartialEq:
		return g.genEq(concreteType, args[0], args[1])
	case hir.ClassPartialOrd:
		return g.genPartialCmp(concreteType, args[0], args[1])
	case hir.ClassOrd:
		return g.genCmp(concreteType, args[0], args[1])
	case hir.ClassShow:
		return g.genShow(concreteType, args[0])
	default:
		return 0, fmt.Errorf("derive: %q is not an auto-derivable class", className)
	}
}

func (g *Generator) boolHIRType() hir.Type        { return hir.Named("Bool", g.wk.Bool) }
func (g *Generator) stringHIRType() hir.Type      { return hir.Named("String", g.wk.String) }
func (g *Generator) orderingHIRType() hir.Type     { return hir.Named("Ordering", g.wk.Ordering) }
func (g *Generator) optionOrderingHIRType() hir.Type {
	return hir.Named("Option", g.wk.Option, g.orderingHIRType())
}

func (g *Generator) boolType() (mir.Type, error) {
	return g.host.Store().ProcessType(g.boolHIRType())
}

func (g *Generator) orderingType() (mir.Type, error) {
	return g.host.Store().ProcessType(g.orderingHIRType())
}

func (g *Generator) optionOrderingType() (mir.Type, error) {
	return g.host.Store().ProcessType(g.optionOrderingHIRType())
}

func (g *Generator) stringType() (mir.Type, error) {
	return g.host.Store().ProcessType(g.stringHIRType())
}

func (g *Generator) concat(a, b mir.ExprID, stringType mir.Type) mir.ExprID {
	return g.call(g.host.BuiltinConcat(stringType), stringType, a, b)
}

// stringLiteral synthesizes a literal fragment of a derived show
// body. Record and variant names come straight from source identifiers,
// which a frontend is free to hand over in any Unicode normalization
// form, so every fragment is folded to NFC here: two structurally
// identical programs whose identifiers merely differ in normalization
// form must still derive byte-identical Show output.
func (g *Generator) stringLiteral(s string, stringType mir.Type) mir.ExprID {
	return g.host.MIR().AddExpr(mir.Expr{
		Kind: mir.ExprStringLiteral,
		Type: stringType,
		Data: mir.StringLiteralData{Value: norm.NFC.String(s)},
	})
}

// substituteFields applies a record's own type-argument substitution
// (derived from the concrete instantiation's TypeArgs) to its declared
// field types.
func substituteFields(rec *hir.Record, typeArgs []hir.Type) []hir.Type {
	sub := make(map[hir.TypeVarID]hir.Type, len(rec.TypeArgs))
	for i, v := range rec.TypeArgs {
		if i < len(typeArgs) {
			sub[v] = typeArgs[i]
		}
	}
	out := make([]hir.Type, len(rec.Fields))
	for i, f := range rec.Fields {
		out[i] = f.Type.Substitute(sub)
	}
	return out
}

// substituteVariantItems is substituteFields' analogue for ADT variants.
func substituteVariantItems(adt *hir.Adt, typeArgs []hir.Type) [][]hir.Type {
	sub := make(map[hir.TypeVarID]hir.Type, len(adt.TypeArgs))
	for i, v := range adt.TypeArgs {
		if i < len(typeArgs) {
			sub[v] = typeArgs[i]
		}
	}
	out := make([][]hir.Type, len(adt.Variants))
	for vi, variant := range adt.Variants {
		items := make([]hir.Type, len(variant.Items))
		for ii, it := range variant.Items {
			items[ii] = it.Type.Substitute(sub)
		}
		out[vi] = items
	}
	return out
}

// --- shared MIR node builders -------------------------------------

func (g *Generator) call(fn mir.FuncID, resultType mir.Type, args ...mir.ExprID) mir.ExprID {
	return g.host.MIR().AddExpr(mir.Expr{
		Kind: mir.ExprStaticFunctionCall,
		Type: resultType,
		Data: mir.StaticFunctionCallData{Function: fn, Args: args},
	})
}

func (g *Generator) ifExpr(cond, then, els mir.ExprID, resultType mir.Type) mir.ExprID {
	return g.host.MIR().AddExpr(mir.Expr{
		Kind: mir.ExprIf,
		Type: resultType,
		Data: mir.IfData{Cond: cond, Then: then, Else: els},
	})
}

func (g *Generator) variantIs(recv mir.ExprID, typeDefID mir.TypeDefID, variantIndex int, boolType mir.Type) mir.ExprID {
	return g.host.MIR().AddExpr(mir.Expr{
		Kind: mir.ExprVariantIs,
		Type: boolType,
		Data: mir.VariantIsData{Receiver: recv, TypeDefID: typeDefID, VariantIndex: variantIndex},
	})
}

func (g *Generator) variantAccess(recv mir.ExprID, typeDefID mir.TypeDefID, variantIndex, itemIndex int, itemType mir.Type) mir.ExprID {
	return g.host.MIR().AddExpr(mir.Expr{
		Kind: mir.ExprVariantAccess,
		Type: itemType,
		Data: mir.VariantAccessData{Receiver: recv, TypeDefID: typeDefID, VariantIndex: variantIndex, ItemIndex: itemIndex},
	})
}

func (g *Generator) fieldAccess(recv mir.ExprID, typeDefID mir.TypeDefID, fieldIndex int, fieldType mir.Type) mir.ExprID {
	return g.host.MIR().AddExpr(mir.Expr{
		Kind: mir.ExprFieldAccess,
		Type: fieldType,
		Data: mir.FieldAccessData{Receiver: recv, TypeDefID: typeDefID, FieldIndex: fieldIndex},
	})
}

func (g *Generator) boolAnd(a, b mir.ExprID, boolType mir.Type) mir.ExprID {
	return g.call(g.host.BuiltinBoolAnd(boolType), boolType, a, b)
}

func (g *Generator) boolNot(a mir.ExprID, boolType mir.Type) mir.ExprID {
	return g.call(g.host.BuiltinBoolNot(boolType), boolType, a)
}

func (g *Generator) boolLiteral(v bool, boolType mir.Type) mir.ExprID {
	return g.call(g.host.BuiltinBoolLiteral(v, boolType), boolType)
}

// orderingLiteral constructs a literal Less/Equal/Greater value by
// calling Ordering's own synthesized variant constructor.
func (g *Generator) orderingLiteral(index int) (mir.ExprID, error) {
	fnID, ok := g.host.HIR().FindVariantConstructor(g.wk.Ordering, index)
	if !ok {
		return 0, fmt.Errorf("derive: Ordering is missing its variant %d constructor", index)
	}
	orderingType, err := g.orderingType()
	if err != nil {
		return 0, err
	}
	mirFn := g.host.EnqueueNormal(fnID, nil, g.orderingHIRType())
	return g.call(mirFn, orderingType), nil
}

// someOrdering / noneOrdering construct Option<Ordering> literals by
// calling Option's own synthesized variant constructors.
func (g *Generator) someOrdering(inner mir.ExprID) (mir.ExprID, error) {
	fnID, ok := g.host.HIR().FindVariantConstructor(g.wk.Option, OptionSome)
	if !ok {
		return 0, fmt.Errorf("derive: Option is missing its Some constructor")
	}
	optType, err := g.optionOrderingType()
	if err != nil {
		return 0, err
	}
	mirFn := g.host.EnqueueNormal(fnID, []hir.Type{g.orderingHIRType()}, g.optionOrderingHIRType())
	return g.call(mirFn, optType, inner), nil
}

func (g *Generator) noneOrdering() (mir.ExprID, error) {
	fnID, ok := g.host.HIR().FindVariantConstructor(g.wk.Option, OptionNone)
	if !ok {
		return 0, fmt.Errorf("derive: Option is missing its None constructor")
	}
	optType, err := g.optionOrderingType()
	if err != nil {
		return 0, err
	}
	mirFn := g.host.EnqueueNormal(fnID, nil, g.optionOrderingHIRType())
	return g.call(mirFn, optType), nil
}

// isEqualOrdering reports whether x (an Ordering value) is Equal.
func (g *Generator) isEqualOrdering(x mir.ExprID, boolType mir.Type) (mir.ExprID, error) {
	orderingTypeDefID, err := g.host.Store().AddType(g.orderingHIRType())
	if err != nil {
		return 0, err
	}
	return g.variantIs(x, orderingTypeDefID, OrderingEqual, boolType), nil
}

// isNoneOption reports whether x (an Option<Ordering> value) is None.
func (g *Generator) isNoneOption(x mir.ExprID, boolType mir.Type) (mir.ExprID, error) {
	optionTypeDefID, err := g.host.Store().AddType(g.optionOrderingHIRType())
	if err != nil {
		return 0, err
	}
	return g.variantIs(x, optionTypeDefID, OptionNone, boolType), nil
}

// unwrapSomeOrdering reads the Ordering payload out of x, valid only
// where x is already known to be Some(_).
func (g *Generator) unwrapSomeOrdering(x mir.ExprID) (mir.ExprID, error) {
	optionTypeDefID, err := g.host.Store().AddType(g.optionOrderingHIRType())
	if err != nil {
		return 0, err
	}
	orderingType, err := g.orderingType()
	if err != nil {
		return 0, err
	}
	return g.variantAccess(x, optionTypeDefID, OptionSome, 0, orderingType), nil
}
