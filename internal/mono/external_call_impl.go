package mono

import (
	"fmt"

	"github.com/siko-lang/sikoc/internal/derive"
	"github.com/siko-lang/sikoc/internal/diag"
	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
	"github.com/siko-lang/sikoc/internal/source"
)

// translateExternalCallImpl materializes one auto-derived PartialEq,
// PartialOrd, Ord or Show member on ConcreteType (spec §4.3 step 5,
// §4.7), produced when ResolveInstance came back AutoDerived rather
// than finding a user-written instance.
func (m *Monomorphizer) translateExternalCallImpl(item WorkItem, id mir.FuncID) error {
	class := m.hirProg.Class(item.ClassID)
	if class == nil {
		return m.diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "mono: unknown class #%d", item.ClassID)
	}

	if m.derive == nil {
		gen, err := derive.New(m)
		if err != nil {
			return m.diags.ICE(diag.ICEUnsupportedDerivation, source.NoSpan, "%s", err)
		}
		m.derive = gen
	}

	var argHIRTypes []hir.Type
	var member string
	switch class.Name {
	case hir.ClassPartialEq:
		member = hir.MemberOpEq
		argHIRTypes = []hir.Type{item.ConcreteType, item.ConcreteType}
	case hir.ClassPartialOrd:
		member = hir.MemberPartialCmp
		argHIRTypes = []hir.Type{item.ConcreteType, item.ConcreteType}
	case hir.ClassOrd:
		member = hir.MemberCmp
		argHIRTypes = []hir.Type{item.ConcreteType, item.ConcreteType}
	case hir.ClassShow:
		member = hir.MemberShow
		argHIRTypes = []hir.Type{item.ConcreteType}
	default:
		return m.diags.ICE(diag.ICEUnsupportedDerivation, source.NoSpan, "mono: class %q is not auto-derivable", class.Name)
	}

	argExprs := make([]mir.ExprID, len(argHIRTypes))
	argMIRTypes := make([]mir.Type, len(argHIRTypes))
	for i, t := range argHIRTypes {
		mt, err := m.store.ProcessType(t)
		if err != nil {
			return err
		}
		argMIRTypes[i] = mt
		argExprs[i] = m.mirProg.AddExpr(mir.Expr{
			Kind: mir.ExprArgRef,
			Type: mt,
			Data: mir.ArgRefData{Index: i},
		})
	}

	var resultHIRType hir.Type
	switch class.Name {
	case hir.ClassPartialEq:
		resultHIRType = hir.Named("Bool", m.boolTypeDefID())
	case hir.ClassPartialOrd:
		resultHIRType = hir.Named("Option", m.optionTypeDefID(), hir.Named("Ordering", m.orderingTypeDefID()))
	case hir.ClassOrd:
		resultHIRType = hir.Named("Ordering", m.orderingTypeDefID())
	case hir.ClassShow:
		resultHIRType = hir.Named("String", m.stringTypeDefID())
	}

	resultMIRType, err := m.store.ProcessType(resultHIRType)
	if err != nil {
		return err
	}
	fnType := resultMIRType
	for i := len(argMIRTypes) - 1; i >= 0; i-- {
		fnType = mir.FunctionType(argMIRTypes[i], fnType)
	}

	body, err := m.derive.Generate(class.Name, item.ConcreteType, argExprs)
	if err != nil {
		return m.diags.ICE(diag.ICEUnsupportedDerivation, source.NoSpan, "mono: deriving %s.%s: %s", class.Name, member, err)
	}

	typeDefName := m.concreteTypeDefName(item.ConcreteType)
	m.mirProg.SetFunction(id, mir.Function{
		Name:     fmt.Sprintf("%s_%s", member, typeDefName),
		Module:   item.ModuleName,
		ArgCount: len(argHIRTypes),
		Type:     fnType,
		InfoKind: mir.FunctionNormal,
		Body:     body,
	})
	return nil
}

// concreteTypeDefName names the derived function after the typedef it
// was instantiated for, e.g. "opEq_List" or "show_Tree".
func (m *Monomorphizer) concreteTypeDefName(t hir.Type) string {
	if t.Kind != hir.TypeNamed {
		return "anon"
	}
	td := m.hirProg.TypeDef(t.TypeDefID)
	if td == nil {
		return "anon"
	}
	return td.Name()
}

func (m *Monomorphizer) boolTypeDefID() hir.TypeDefID {
	id, _ := m.hirProg.FindTypeDefByName("Bool")
	return id
}

func (m *Monomorphizer) stringTypeDefID() hir.TypeDefID {
	id, _ := m.hirProg.FindTypeDefByName("String")
	return id
}

func (m *Monomorphizer) orderingTypeDefID() hir.TypeDefID {
	if id, ok := m.hirProg.FindTypeDef(hir.OrderingModule, hir.OrderingType); ok {
		return id
	}
	id, _ := m.hirProg.FindTypeDefByName(hir.OrderingType)
	return id
}

func (m *Monomorphizer) optionTypeDefID() hir.TypeDefID {
	if id, ok := m.hirProg.FindTypeDef(hir.OptionModule, hir.OptionType); ok {
		return id
	}
	id, _ := m.hirProg.FindTypeDefByName(hir.OptionType)
	return id
}
