package hir

// FunctionKind discriminates the FunctionInfo payload carried by Function.
type FunctionKind uint8

const (
	// FunctionNamed is an ordinary top-level or instance-member function,
	// possibly extern (body == NoExprID).
	FunctionNamed FunctionKind = iota
	// FunctionLambda is a closure literal nested inside a host function.
	FunctionLambda
	// FunctionVariantConstructor is the synthetic constructor function
	// for one ADT variant.
	FunctionVariantConstructor
	// FunctionRecordConstructor is the synthetic constructor function
	// for a record type.
	FunctionRecordConstructor
)

// NamedFunctionKind discriminates a NamedFunction's implementation.
type NamedFunctionKind uint8

const (
	// NamedFunctionNormal is a user-written function with or without a
	// body (extern functions have Body == NoExprID).
	NamedFunctionNormal NamedFunctionKind = iota
	// NamedFunctionExternClassImpl is an extern function standing in for
	// one instance member of a class, resolved per concrete type.
	NamedFunctionExternClassImpl
)

// NamedFunction is a top-level function or an instance member.
type NamedFunction struct {
	Module ModuleID
	Name   string
	Body   ExprID // NoExprID if extern
	Kind   NamedFunctionKind

	// ExternClassImpl only.
	ClassName string
	ImplType  Type
}

// Lambda is a closure literal; its mnemonic MIR name is derived from its
// host function and index (spec §4.3 step 6).
type Lambda struct {
	Module ModuleID
	Body   ExprID
	Host   FunctionID
	Index  int
}

// VariantConstructor synthesizes the constructor function for one ADT
// variant.
type VariantConstructor struct {
	TypeDefID TypeDefID
	Index     int
}

// RecordConstructor synthesizes the constructor function for a record
// type.
type RecordConstructor struct {
	TypeDefID TypeDefID
}

// Function is one HIR function definition, identified by FunctionID.
type Function struct {
	ID       FunctionID
	Kind     FunctionKind
	ArgCount int
	Type     Type // declared type signature, Function(...) chained or Named for 0-arity

	Named               *NamedFunction
	Lambda              *Lambda
	VariantConstructor  *VariantConstructor
	RecordConstructor   *RecordConstructor
}
