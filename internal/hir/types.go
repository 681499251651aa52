package hir

import "fmt"

// TypeVarID identifies a type variable within a single function's
// signature/body. Type variables never escape process_type (spec §4.2):
// by the time monomorphization runs, every one has been bound by a call
// unifier.
type TypeVarID uint32

// Type is an HIR type: possibly polymorphic, possibly constrained.
//
//   - Var(v): an unbound type variable.
//   - FixedTypeArg(v, constraints): a type variable fixed by a class
//     constraint list (e.g. the `a` in `id :: a -> a` once specialized
//     to an instance method); stripped before monomorphization's call
//     unifier runs (spec §4.3 step 3).
//   - Function(from, to): a function type; promoted to Closure only in
//     MIR, after §4.6.
//   - Named(name, typedef_id, type_args): a user-defined ADT or record,
//     possibly applied to concrete or still-variable type arguments.
//   - Tuple(items): a tuple, interned as a nominal record (spec §4.2
//     add_tuple) with positional field names.
//   - Ref(T): a borrowed reference to a struct type.
//   - Never: the bottom type (infinite loops, early return paths).
type Type struct {
	Kind TypeKind

	Var           TypeVarID
	Constraints   []ClassID // FixedTypeArg only
	From, To      *Type     // Function only
	Name          string    // Named only
	TypeDefID     TypeDefID // Named only
	TypeArgs      []Type    // Named only
	Items         []Type    // Tuple only
	Ref           *Type     // Ref only
}

// TypeKind discriminates the variants of Type.
type TypeKind uint8

const (
	TypeVar TypeKind = iota
	TypeFixedTypeArg
	TypeFunction
	TypeNamed
	TypeTuple
	TypeRef
	TypeNever
)

func (k TypeKind) String() string {
	switch k {
	case TypeVar:
		return "Var"
	case TypeFixedTypeArg:
		return "FixedTypeArg"
	case TypeFunction:
		return "Function"
	case TypeNamed:
		return "Named"
	case TypeTuple:
		return "Tuple"
	case TypeRef:
		return "Ref"
	case TypeNever:
		return "Never"
	default:
		return "Unknown"
	}
}

// IsConcrete reports whether the type contains no Var or FixedTypeArg
// anywhere in its structure. Monomorphization requires every type it
// hands to process_type to be concrete (spec §4.2).
func (t Type) IsConcrete() bool {
	switch t.Kind {
	case TypeVar, TypeFixedTypeArg:
		return false
	case TypeFunction:
		return t.From.IsConcrete() && t.To.IsConcrete()
	case TypeNamed:
		for _, a := range t.TypeArgs {
			if !a.IsConcrete() {
				return false
			}
		}
		return true
	case TypeTuple:
		for _, it := range t.Items {
			if !it.IsConcrete() {
				return false
			}
		}
		return true
	case TypeRef:
		return t.Ref.IsConcrete()
	case TypeNever:
		return true
	default:
		return false
	}
}

// Substitute returns t with every type variable replaced according to
// sub, leaving FixedTypeArg constraint lists in place (callers that need
// constraints consumed call RemoveFixedTypes first, mirroring
// function_type.remove_fixed_types() in the original source).
func (t Type) Substitute(sub map[TypeVarID]Type) Type {
	switch t.Kind {
	case TypeVar:
		if repl, ok := sub[t.Var]; ok {
			return repl
		}
		return t
	case TypeFixedTypeArg:
		if repl, ok := sub[t.Var]; ok {
			return repl
		}
		return t
	case TypeFunction:
		from := t.From.Substitute(sub)
		to := t.To.Substitute(sub)
		return Type{Kind: TypeFunction, From: &from, To: &to}
	case TypeNamed:
		args := make([]Type, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = a.Substitute(sub)
		}
		return Type{Kind: TypeNamed, Name: t.Name, TypeDefID: t.TypeDefID, TypeArgs: args}
	case TypeTuple:
		items := make([]Type, len(t.Items))
		for i, it := range t.Items {
			items[i] = it.Substitute(sub)
		}
		return Type{Kind: TypeTuple, Items: items}
	case TypeRef:
		inner := t.Ref.Substitute(sub)
		return Type{Kind: TypeRef, Ref: &inner}
	default:
		return t
	}
}

// RemoveFixedTypes turns every FixedTypeArg into a plain Var, discarding
// its constraint list. Mirrors siko's `Type::remove_fixed_types`, used
// before a call unifier is constructed so fixed-but-unresolved
// constrained parameters unify like ordinary variables.
func (t Type) RemoveFixedTypes() Type {
	switch t.Kind {
	case TypeFixedTypeArg:
		return Type{Kind: TypeVar, Var: t.Var}
	case TypeFunction:
		from := t.From.RemoveFixedTypes()
		to := t.To.RemoveFixedTypes()
		return Type{Kind: TypeFunction, From: &from, To: &to}
	case TypeNamed:
		args := make([]Type, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = a.RemoveFixedTypes()
		}
		return Type{Kind: TypeNamed, Name: t.Name, TypeDefID: t.TypeDefID, TypeArgs: args}
	case TypeTuple:
		items := make([]Type, len(t.Items))
		for i, it := range t.Items {
			items[i] = it.RemoveFixedTypes()
		}
		return Type{Kind: TypeTuple, Items: items}
	case TypeRef:
		inner := t.Ref.RemoveFixedTypes()
		return Type{Kind: TypeRef, Ref: &inner}
	default:
		return t
	}
}

// Signature renders a canonical key for a concrete (IsConcrete) type,
// used by internal/typestore to memoize add_type/process_type so
// structurally equal HIR types map to the same MIR typedef (spec §4.2).
// Must not be called on a type containing Var or FixedTypeArg.
func (t Type) Signature() string {
	switch t.Kind {
	case TypeFunction:
		return fmt.Sprintf("Fn(%s->%s)", t.From.Signature(), t.To.Signature())
	case TypeNamed:
		s := fmt.Sprintf("Named(#%d", t.TypeDefID)
		for _, a := range t.TypeArgs {
			s += "," + a.Signature()
		}
		return s + ")"
	case TypeTuple:
		s := "Tuple("
		for i, it := range t.Items {
			if i > 0 {
				s += ","
			}
			s += it.Signature()
		}
		return s + ")"
	case TypeRef:
		return fmt.Sprintf("Ref(%s)", t.Ref.Signature())
	case TypeNever:
		return "Never"
	default:
		return fmt.Sprintf("?Var%d", t.Var)
	}
}

func Named(name string, id TypeDefID, args ...Type) Type {
	return Type{Kind: TypeNamed, Name: name, TypeDefID: id, TypeArgs: args}
}

func Fn(from, to Type) Type {
	return Type{Kind: TypeFunction, From: &from, To: &to}
}

func TupleOf(items ...Type) Type {
	return Type{Kind: TypeTuple, Items: items}
}

func RefOf(t Type) Type {
	return Type{Kind: TypeRef, Ref: &t}
}

func VarOf(v TypeVarID) Type {
	return Type{Kind: TypeVar, Var: v}
}

var Never = Type{Kind: TypeNever}
