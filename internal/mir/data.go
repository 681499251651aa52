package mir

// Field is one record field, in declaration order.
type Field struct {
	Name string
	Type Type
}

// Record is a monomorphic single-constructor product type.
type Record struct {
	ID     TypeDefID
	Name   string
	Module string
	Fields []Field
}

// VariantItem is one positional component of a variant.
type VariantItem struct {
	Type Type
}

// IsBoxed reports whether legalization decided this item needs heap
// indirection (spec §4.4).
func (it VariantItem) IsBoxed() bool { return it.Type.Kind == KindNamed && it.Type.Modifier == Boxed }

// Variant is one constructor of a monomorphic algebraic data type.
type Variant struct {
	Name  string
	Items []VariantItem
}

// Adt is a monomorphic sum-of-products type.
type Adt struct {
	ID       TypeDefID
	Name     string
	Module   string
	Variants []Variant
}

// TypeDefKind discriminates TypeDef.
type TypeDefKind uint8

const (
	TypeDefAdt TypeDefKind = iota
	TypeDefRecord
)

// TypeDef is either an Adt or a Record, exactly as in the HIR source
// type it was derived from (spec §4.2 add_type).
type TypeDef struct {
	Kind   TypeDefKind
	Adt    *Adt
	Record *Record
}

func (t *TypeDef) Name() string {
	if t.Kind == TypeDefAdt {
		return t.Adt.Name
	}
	return t.Record.Name
}

func (t *TypeDef) Module() string {
	if t.Kind == TypeDefAdt {
		return t.Adt.Module
	}
	return t.Record.Module
}

// Deps returns every typedef this definition directly refers to through
// an unboxed field/variant item — the edges internal/legalize's SCC pass
// walks (spec §4.4.1).
func (t *TypeDef) Deps() []TypeDefID {
	var out []TypeDefID
	add := func(ty Type) {
		if ty.Kind == KindNamed && ty.Modifier != Boxed {
			out = append(out, ty.TypeDefID)
		}
	}
	if t.Kind == TypeDefAdt {
		for _, v := range t.Adt.Variants {
			for _, it := range v.Items {
				add(it.Type)
			}
		}
	} else {
		for _, f := range t.Record.Fields {
			add(f.Type)
		}
	}
	return out
}
