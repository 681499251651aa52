package mir

import "fmt"

// Modifier distinguishes how a Named type is stored at a use site: in
// place, behind a borrow, or behind a heap indirection introduced by
// data-type legalization (spec §4.4).
type Modifier uint8

const (
	Owned Modifier = iota
	Ref
	Boxed
)

func (m Modifier) String() string {
	switch m {
	case Owned:
		return "Owned"
	case Ref:
		return "Ref"
	case Boxed:
		return "Boxed"
	default:
		return "Unknown"
	}
}

// TypeKind discriminates Type.
type TypeKind uint8

const (
	// KindFunction is a bridge type used only before closure conversion
	// runs; no MIR expression has this type once internal/mirpass's
	// closure pass finishes (spec §3.3).
	KindFunction TypeKind = iota
	// KindClosure is a heap-carrying function value with a stable
	// nominal identity per signature, deduplicated by the Program's
	// closure table.
	KindClosure
	KindNamed
	KindNever
)

// Type is a fully concrete MIR type: no variables, no constraints.
type Type struct {
	Kind TypeKind

	From, To  *Type     // KindFunction only
	Closure   *Type     // KindClosure only: the underlying Function type
	Modifier  Modifier  // KindNamed only
	TypeDefID TypeDefID // KindNamed only
}

// FunctionType builds the KindFunction bridge type from -> to (not to be
// confused with the Function struct, a monomorphic function definition).
func FunctionType(from, to Type) Type {
	return Type{Kind: KindFunction, From: &from, To: &to}
}

func ClosureOf(fn Type) Type {
	return Type{Kind: KindClosure, Closure: &fn}
}

func NamedType(m Modifier, id TypeDefID) Type {
	return Type{Kind: KindNamed, Modifier: m, TypeDefID: id}
}

var NeverType = Type{Kind: KindNever}

// IsFunction reports whether t is the bridge Function kind (not yet
// closure-converted).
func (t Type) IsFunction() bool { return t.Kind == KindFunction }

// WithModifier returns a copy of t (which must be KindNamed) with its
// modifier replaced.
func (t Type) WithModifier(m Modifier) Type {
	t.Modifier = m
	return t
}

// Equal reports whether two MIR types are structurally identical.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindFunction:
		return t.From.Equal(*o.From) && t.To.Equal(*o.To)
	case KindClosure:
		return t.Closure.Equal(*o.Closure)
	case KindNamed:
		return t.Modifier == o.Modifier && t.TypeDefID == o.TypeDefID
	case KindNever:
		return true
	default:
		return false
	}
}

// Signature renders a canonical key for t, used to deduplicate closure
// descriptors and as a map key where Go can't compare Type directly
// (it embeds pointers).
func (t Type) Signature() string {
	switch t.Kind {
	case KindFunction:
		return fmt.Sprintf("Fn(%s->%s)", t.From.Signature(), t.To.Signature())
	case KindClosure:
		return fmt.Sprintf("Closure(%s)", t.Closure.Signature())
	case KindNamed:
		return fmt.Sprintf("Named(%s,#%d)", t.Modifier, t.TypeDefID)
	case KindNever:
		return "Never"
	default:
		return "?"
	}
}
