package hir

// Field is one record field declaration.
type Field struct {
	Name string
	Type Type
}

// Record is a single-constructor product type.
type Record struct {
	ID       TypeDefID
	Name     string
	Module   ModuleID
	TypeArgs []TypeVarID
	Fields   []Field
}

// VariantItem is one positional component of a variant, e.g. the `a` and
// `List a` in `Cons a (List a)`.
type VariantItem struct {
	Type Type
}

// Variant is one constructor of an algebraic data type.
type Variant struct {
	Name  string
	Items []VariantItem
}

// Adt is an algebraic data type: a sum of variants, each a product.
type Adt struct {
	ID       TypeDefID
	Name     string
	Module   ModuleID
	TypeArgs []TypeVarID
	Variants []Variant
}

// TypeDefKind discriminates TypeDef.
type TypeDefKind uint8

const (
	TypeDefAdt TypeDefKind = iota
	TypeDefRecord
)

// TypeDef is either an Adt or a Record.
type TypeDef struct {
	Kind   TypeDefKind
	Adt    *Adt
	Record *Record
}

func (t TypeDef) Name() string {
	if t.Kind == TypeDefAdt {
		return t.Adt.Name
	}
	return t.Record.Name
}

func (t TypeDef) Module() ModuleID {
	if t.Kind == TypeDefAdt {
		return t.Adt.Module
	}
	return t.Record.Module
}

func (t TypeDef) TypeArgs() []TypeVarID {
	if t.Kind == TypeDefAdt {
		return t.Adt.TypeArgs
	}
	return t.Record.TypeArgs
}
