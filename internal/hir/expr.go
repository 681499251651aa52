package hir

import "github.com/siko-lang/sikoc/internal/source"

// ExprKind discriminates the payload an Expr's Data field carries. Each
// kind corresponds to one bullet of spec §3.2 "Expressions".
type ExprKind uint8

const (
	ExprIntLiteral ExprKind = iota
	ExprCharLiteral
	ExprFloatLiteral
	ExprStringLiteral
	ExprArgRef
	ExprStaticCall
	ExprDynamicCall
	ExprLambdaRef
	ExprDo
	ExprLet
	ExprValue
	ExprIf
	ExprTuple
	ExprList
	ExprTupleIndex
	ExprFieldAccess
	ExprFormatter
	ExprRecordInit
	ExprRecordUpdate
	ExprClassMemberCall
	ExprReturn
	ExprLoop
	ExprBreak
	ExprContinue
)

func (k ExprKind) String() string {
	names := [...]string{
		"IntLiteral", "CharLiteral", "FloatLiteral", "StringLiteral",
		"ArgRef", "StaticCall", "DynamicCall", "LambdaRef", "Do", "Let",
		"Value", "If", "Tuple", "List", "TupleIndex", "FieldAccess",
		"Formatter", "RecordInit", "RecordUpdate", "ClassMemberCall",
		"Return", "Loop", "Break", "Continue",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Expr is one HIR expression node. Its Data field holds one of the
// *Data structs below, selected by Kind.
type Expr struct {
	ID   ExprID
	Kind ExprKind
	Type Type
	Span source.Span
	Data any
}

type IntLiteralData struct{ Value int64 }
type CharLiteralData struct{ Value rune }
type FloatLiteralData struct{ Value float64 }
type StringLiteralData struct{ Value string }

// ArgRefData refers to the Index-th argument of the enclosing function.
type ArgRefData struct{ Index int }

// StaticCallData calls a function known at compile time by id.
type StaticCallData struct {
	Function FunctionID
	Args     []ExprID
}

// DynamicCallData calls a function value (closure) computed at runtime.
type DynamicCallData struct {
	Receiver ExprID
	Args     []ExprID
}

// LambdaRefData produces a first-class function value for a lambda
// defined elsewhere in the program (spec §3.2 "lambda body links").
type LambdaRefData struct{ Lambda FunctionID }

// DoData sequences a block of expressions, evaluating to the last.
type DoData struct{ Items []ExprID }

// LetData binds Pattern to Value for the remainder of Body.
type LetData struct {
	Pattern PatternID
	Value   ExprID
	Body    ExprID
}

// ValueData reads back the value bound by Pattern.
type ValueData struct{ Pattern PatternID }

type IfData struct{ Cond, Then, Else ExprID }

type TupleData struct{ Items []ExprID }

type ListData struct{ Items []ExprID }

type TupleIndexData struct {
	Receiver ExprID
	Index    int
}

// FieldAccessData reads one field off Receiver. Candidates lists every
// record type the type checker considered ambiguous at this access site;
// Chosen and FieldIndex are the disambiguation it settled on (spec §3.2,
// §4.3 "FieldAccess").
type FieldAccessData struct {
	Receiver   ExprID
	Candidates []TypeDefID
	Chosen     TypeDefID
	FieldIndex int
}

// FormatterData is a string-interpolation template; Args supplies one
// value per substitution marker in Template, left to right.
type FormatterData struct {
	Template string
	Args     []ExprID
}

// RecordInitData constructs a record value, one expression per field in
// declaration order.
type RecordInitData struct {
	TypeDefID TypeDefID
	Fields    []ExprID
}

// FieldUpdate is one field overridden by a record-update expression.
type FieldUpdate struct {
	Index int
	Value ExprID
}

// RecordUpdateData produces a new record from Receiver with Updates
// applied, leaving every other field unchanged.
type RecordUpdateData struct {
	Receiver  ExprID
	TypeDefID TypeDefID
	Updates   []FieldUpdate
}

// ClassMemberCallData invokes Member of ClassID; the receiving type is
// recovered from the type of Args[0] at monomorphization time and used
// to resolve a UserDefined instance or request an AutoDerived one.
type ClassMemberCallData struct {
	ClassID ClassID
	Member  string
	Args    []ExprID
}

type ReturnData struct{ Value ExprID }

// LoopData is a labeled loop; Label is referenced by nested Break/Continue.
type LoopData struct {
	Label LoopID
	Body  ExprID
}

type BreakData struct {
	Label LoopID
	Value ExprID
}

type ContinueData struct{ Label LoopID }
