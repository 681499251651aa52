package mir

import "github.com/siko-lang/sikoc/internal/source"

// ExprKind discriminates the payload an Expr's Data field carries.
type ExprKind uint8

const (
	ExprIntLiteral ExprKind = iota
	ExprCharLiteral
	ExprFloatLiteral
	ExprStringLiteral
	ExprArgRef
	// ExprFunctionRef names a function by id as a first-class value,
	// the translation target of hir.ExprLambdaRef; closure conversion
	// (spec §4.6) is what gives it a concrete carrier representation.
	ExprFunctionRef
	ExprStaticFunctionCall
	ExprDynamicFunctionCall
	// ExprPartialApplication replaces an under-applied StaticFunctionCall
	// (spec §4.6 "static-call normalization").
	ExprPartialApplication
	ExprDo
	ExprLet
	ExprValue
	// ExprDeref is introduced by internal/boxprop wrapping an ExprValue
	// that reads a Boxed binding (spec §4.5).
	ExprDeref
	// ExprClone is introduced by internal/mirpass's clone-insertion pass
	// for every use of a non-trivially-copyable value past its first use
	// along an execution path (spec §4.6).
	ExprClone
	ExprIf
	ExprTuple
	ExprList
	ExprTupleIndex
	ExprFieldAccess
	ExprRecordInit
	ExprRecordUpdate
	ExprReturn
	ExprLoop
	ExprBreak
	ExprContinue
	// ExprVariantIs reports whether a receiver holds a specific variant
	// at runtime; ExprVariantAccess reads one positional item out of a
	// receiver already known (by an enclosing VariantIs check) to hold
	// that variant. Neither originates from HIR — both are synthesized
	// only by internal/derive's structural PartialEq/PartialOrd/Ord/Show
	// generators (spec §4.7), which need some way to test "which
	// variant does this runtime value hold" that neither HIR nor plain
	// MIR otherwise expose.
	ExprVariantIs
	ExprVariantAccess
)

func (k ExprKind) String() string {
	names := [...]string{
		"IntLiteral", "CharLiteral", "FloatLiteral", "StringLiteral",
		"ArgRef", "FunctionRef", "StaticFunctionCall", "DynamicFunctionCall",
		"PartialApplication", "Do", "Let", "Value", "Deref", "Clone", "If",
		"Tuple", "List", "TupleIndex", "FieldAccess", "RecordInit",
		"RecordUpdate", "Return", "Loop", "Break", "Continue",
		"VariantIs", "VariantAccess",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Expr is one MIR expression node; every node carries its fully
// resolved MIR type (spec §3.3 invariant).
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
type ArgRefData struct{ Index int }

// FunctionRefData names a function by id as a first-class value.
// ClosureID is unset (NoClosureID) until internal/mirpass's closure
// conversion pass runs; afterward it names the program-interned
// descriptor (signature, captures) this reference constructs, the same
// way PartialApplicationData.PartialCallID names one for an
// under-applied call (spec §4.6 "closure conversion").
type FunctionRefData struct {
	Function  FuncID
	ClosureID ClosureID
}

type StaticFunctionCallData struct {
	Function FuncID
	Args     []ExprID
}

type DynamicFunctionCallData struct {
	Receiver ExprID
	Args     []ExprID
}

// PartialApplicationData records an under-applied static call rewritten
// into a descriptor lookup (spec §4.6); MissingArity is
// Function.ArgCount - len(Args).
type PartialApplicationData struct {
	Function      FuncID
	Args          []ExprID
	MissingArity  int
	PartialCallID PartialCallID
}

type DoData struct{ Items []ExprID }

type LetData struct {
	Pattern PatternID
	Value   ExprID
	Body    ExprID
}

type ValueData struct{ Pattern PatternID }

// DerefData wraps a synthesized inner value reference. Inner is a fresh
// ExprID created by internal/boxprop; the outer (this) ExprID keeps the
// original identity and source location (spec §4.5.2).
type DerefData struct{ Inner ExprID }

type CloneData struct{ Inner ExprID }

type IfData struct{ Cond, Then, Else ExprID }

type TupleData struct{ Items []ExprID }

type ListData struct{ Items []ExprID }

type TupleIndexData struct {
	Receiver ExprID
	Index    int
}

// FieldAccessData has already been disambiguated to one concrete record
// type and field index (spec §4.3 "FieldAccess").
type FieldAccessData struct {
	Receiver   ExprID
	TypeDefID  TypeDefID
	FieldIndex int
}

type RecordInitData struct {
	TypeDefID TypeDefID
	Fields    []ExprID
}

type FieldUpdate struct {
	Index int
	Value ExprID
}

type RecordUpdateData struct {
	Receiver  ExprID
	TypeDefID TypeDefID
	Updates   []FieldUpdate
}

type ReturnData struct{ Value ExprID }

type LoopData struct {
	Label uint32
	Body  ExprID
}

type BreakData struct {
	Label uint32
	Value ExprID
}

type ContinueData struct{ Label uint32 }

// VariantIsData reports whether Receiver's runtime tag is VariantIndex
// (spec §4.7 "compare variant indices first"), yielding a Bool.
type VariantIsData struct {
	Receiver     ExprID
	TypeDefID    TypeDefID
	VariantIndex int
}

// VariantAccessData reads the item at ItemIndex from the variant at
// VariantIndex of Receiver, valid only where Receiver is already known
// (by an enclosing VariantIs check in the same generated body) to
// actually hold that variant.
type VariantAccessData struct {
	Receiver     ExprID
	TypeDefID    TypeDefID
	VariantIndex int
	ItemIndex    int
}
