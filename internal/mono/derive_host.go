package mono

import (
	"github.com/siko-lang/sikoc/internal/derive"
	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
)

// The methods in this file make *Monomorphizer satisfy derive.Host,
// handing internal/derive just enough of the monomorphizer's own
// machinery (type interning, class dispatch, lazily registered
// builtins) to synthesize structural PartialEq/PartialOrd/Ord/Show
// bodies (spec §4.7) without internal/derive importing internal/mono.

var _ derive.Host = (*Monomorphizer)(nil)

func (m *Monomorphizer) Store() derive.TypeStore { return m.store }

func (m *Monomorphizer) MIR() *mir.Program { return m.mirProg }
func (m *Monomorphizer) HIR() *hir.Program { return m.hirProg }

func (m *Monomorphizer) Dispatch(classID hir.ClassID, member string, receiverType hir.Type, argTypes []hir.Type, resultType hir.Type) (mir.FuncID, error) {
	return m.dispatchClassMember(classID, member, receiverType, argTypes, resultType)
}

func (m *Monomorphizer) ClassIDByName(name string) hir.ClassID { return m.classIDByName(name) }

func (m *Monomorphizer) EnqueueNormal(fnID hir.FunctionID, argTypes []hir.Type, resultType hir.Type) mir.FuncID {
	return m.enqueueNormal(fnID, argTypes, resultType)
}

func (m *Monomorphizer) BuiltinEq(typeName string, boolType mir.Type) mir.FuncID {
	if m.builtinEqFuncs == nil {
		m.builtinEqFuncs = make(map[string]mir.FuncID)
	}
	if id, ok := m.builtinEqFuncs[typeName]; ok {
		return id
	}
	name := "__eq_" + typeName
	id := m.mirProg.AddFunction(mir.Function{
		Name:       name,
		ArgCount:   2,
		Type:       mir.FunctionType(boolType, mir.FunctionType(boolType, boolType)),
		InfoKind:   mir.FunctionExtern,
		ExternName: name,
	})
	m.builtinEqFuncs[typeName] = id
	return id
}

func (m *Monomorphizer) BuiltinPartialCmp(typeName string, optionOrderingType mir.Type) mir.FuncID {
	if m.builtinPCmpFuncs == nil {
		m.builtinPCmpFuncs = make(map[string]mir.FuncID)
	}
	if id, ok := m.builtinPCmpFuncs[typeName]; ok {
		return id
	}
	name := "__partialCmp_" + typeName
	id := m.mirProg.AddFunction(mir.Function{
		Name:       name,
		ArgCount:   2,
		Type:       mir.FunctionType(optionOrderingType, mir.FunctionType(optionOrderingType, optionOrderingType)),
		InfoKind:   mir.FunctionExtern,
		ExternName: name,
	})
	m.builtinPCmpFuncs[typeName] = id
	return id
}

func (m *Monomorphizer) BuiltinCmp(typeName string, orderingType mir.Type) mir.FuncID {
	if m.builtinCmpFuncs == nil {
		m.builtinCmpFuncs = make(map[string]mir.FuncID)
	}
	if id, ok := m.builtinCmpFuncs[typeName]; ok {
		return id
	}
	name := "__cmp_" + typeName
	id := m.mirProg.AddFunction(mir.Function{
		Name:       name,
		ArgCount:   2,
		Type:       mir.FunctionType(orderingType, mir.FunctionType(orderingType, orderingType)),
		InfoKind:   mir.FunctionExtern,
		ExternName: name,
	})
	m.builtinCmpFuncs[typeName] = id
	return id
}

func (m *Monomorphizer) BuiltinShow(typeName string, stringType mir.Type) mir.FuncID {
	return m.builtinShowFunc(typeName, stringType)
}

func (m *Monomorphizer) BuiltinConcat(stringType mir.Type) mir.FuncID {
	return m.builtinConcatFunc(stringType)
}

func (m *Monomorphizer) BuiltinBoolAnd(boolType mir.Type) mir.FuncID {
	if m.boolAndFuncID.IsValid() {
		return m.boolAndFuncID
	}
	id := m.mirProg.AddFunction(mir.Function{
		Name:       "__and_bool",
		ArgCount:   2,
		Type:       mir.FunctionType(boolType, mir.FunctionType(boolType, boolType)),
		InfoKind:   mir.FunctionExtern,
		ExternName: "__and_bool",
	})
	m.boolAndFuncID = id
	return id
}

func (m *Monomorphizer) BuiltinBoolNot(boolType mir.Type) mir.FuncID {
	if m.boolNotFuncID.IsValid() {
		return m.boolNotFuncID
	}
	id := m.mirProg.AddFunction(mir.Function{
		Name:       "__not_bool",
		ArgCount:   1,
		Type:       mir.FunctionType(boolType, boolType),
		InfoKind:   mir.FunctionExtern,
		ExternName: "__not_bool",
	})
	m.boolNotFuncID = id
	return id
}

func (m *Monomorphizer) BuiltinBoolLiteral(value bool, boolType mir.Type) mir.FuncID {
	if value {
		if m.boolTrueFuncID.IsValid() {
			return m.boolTrueFuncID
		}
		id := m.mirProg.AddFunction(mir.Function{
			Name:       "__true_bool",
			ArgCount:   0,
			Type:       boolType,
			InfoKind:   mir.FunctionExtern,
			ExternName: "__true_bool",
		})
		m.boolTrueFuncID = id
		return id
	}
	if m.boolFalseFuncID.IsValid() {
		return m.boolFalseFuncID
	}
	id := m.mirProg.AddFunction(mir.Function{
		Name:       "__false_bool",
		ArgCount:   0,
		Type:       boolType,
		InfoKind:   mir.FunctionExtern,
		ExternName: "__false_bool",
	})
	m.boolFalseFuncID = id
	return id
}
