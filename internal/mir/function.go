package mir

// FunctionInfoKind discriminates how a Function is implemented.
type FunctionInfoKind uint8

const (
	// FunctionNormal has a MIR body expression (monomorphized user code
	// or a derived method).
	FunctionNormal FunctionInfoKind = iota
	// FunctionExtern has no body; it is realized by the out-of-scope
	// textual emitter's runtime support.
	FunctionExtern
	// FunctionExternClassImpl implements one class member for one
	// concrete type via extern code rather than a derived/user body.
	FunctionExternClassImpl
	FunctionVariantConstructor
	FunctionRecordConstructor
)

// Function is a monomorphic function: exactly one concrete signature,
// no leftover type variables (spec §3.3, §4.3).
type Function struct {
	ID       FuncID
	Name     string
	Module   string
	ArgCount int
	Type     Type // a KindFunction chain over the ArgCount arguments, or just the result type when ArgCount is 0; closure conversion retypes expressions, never this field

	InfoKind FunctionInfoKind

	// FunctionNormal / FunctionExternClassImpl
	Body ExprID

	// FunctionExtern / FunctionExternClassImpl
	ExternName string
	ImplType   Type

	// FunctionVariantConstructor
	VariantTypeDefID TypeDefID
	VariantIndex     int

	// FunctionRecordConstructor
	RecordTypeDefID TypeDefID
}
