// Package derive synthesizes the structural PartialEq, PartialOrd, Ord
// and Show members spec §4.7 assigns to every type whose instance
// resolution came back AutoDerived. Each generator builds a genuine
// MIR expression tree (If/Let/FieldAccess/StaticFunctionCall, plus the
// small variant-tag/variant-access nodes internal/mir adds for this
// package's exclusive use) rather than delegating to an opaque runtime
// helper, so the result still flows through §4.5/§4.6 like any other
// function body.
package derive

import (
	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
)

// Host is the slice of Monomorphizer a Generator needs: type interning,
// class-member dispatch for nested composite fields, and the lazily
// registered extern builtins primitive comparisons and Show bottom out
// in. Kept as a narrow interface so internal/derive never imports
// internal/mono (the dependency runs the other way).
type Host interface {
	Store() TypeStore
	MIR() *mir.Program
	HIR() *hir.Program

	// Dispatch resolves classID's member for receiverType to a MIR
	// function id, enqueueing a user-instance call or a nested
	// ExternalCallImpl as appropriate (mirrors Monomorphizer's own
	// class-member call translation).
	Dispatch(classID hir.ClassID, member string, receiverType hir.Type, argTypes []hir.Type, resultType hir.Type) (mir.FuncID, error)
	ClassIDByName(name string) hir.ClassID

	// EnqueueNormal requests a MIR function for calling fnID at the
	// given concrete types, used to invoke a well-known ADT's variant
	// constructor (e.g. Ordering's Less/Equal/Greater) from inside a
	// generated body.
	EnqueueNormal(fnID hir.FunctionID, argTypes []hir.Type, resultType hir.Type) mir.FuncID

	BuiltinEq(typeName string, boolType mir.Type) mir.FuncID
	BuiltinPartialCmp(typeName string, optionOrderingType mir.Type) mir.FuncID
	BuiltinCmp(typeName string, orderingType mir.Type) mir.FuncID
	BuiltinShow(typeName string, stringType mir.Type) mir.FuncID
	BuiltinConcat(stringType mir.Type) mir.FuncID
	// BuiltinBoolAnd is a short-circuit-at-the-backend logical and,
	// used to fold record/variant field equality checks (spec §4.7).
	BuiltinBoolAnd(boolType mir.Type) mir.FuncID
	// BuiltinBoolNot negates a Bool value, used to test "is this
	// Option<Ordering>/Ordering accumulator already decided".
	BuiltinBoolNot(boolType mir.Type) mir.FuncID
	// BuiltinBoolLiteral returns the nullary extern producing the Bool
	// constant value (True when value is true, False otherwise).
	BuiltinBoolLiteral(value bool, boolType mir.Type) mir.FuncID
}

// TypeStore is the subset of internal/typestore.Store a Generator uses.
type TypeStore interface {
	AddType(t hir.Type) (mir.TypeDefID, error)
	ProcessType(t hir.Type) (mir.Type, error)
}
