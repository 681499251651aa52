// Package typestore interns HIR types into MIR typedefs and MIR types,
// memoizing so structurally equal concrete HIR types map to the same
// MIR typedef id (spec §4.2).
package typestore

import (
	"fmt"

	"github.com/siko-lang/sikoc/internal/diag"
	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
	"github.com/siko-lang/sikoc/internal/source"
)

// Store owns the memo tables bridging one hir.Program to one
// mir.Program under construction.
type Store struct {
	hirProg *hir.Program
	mirProg *mir.Program
	diags   *diag.Bag

	byNamed map[string]mir.TypeDefID
	byTuple map[string]mir.TypeDefID
}

func New(hirProg *hir.Program, mirProg *mir.Program, diags *diag.Bag) *Store {
	return &Store{
		hirProg: hirProg,
		mirProg: mirProg,
		diags:   diags,
		byNamed: make(map[string]mir.TypeDefID),
		byTuple: make(map[string]mir.TypeDefID),
	}
}

// AddType interns a concrete HIR Named type into a MIR typedef,
// cloning the HIR adt/record, substituting type arguments with
// concrete results, and recursively registering fields/variants.
// Idempotent on equivalent inputs (spec §4.2 add_type).
func (s *Store) AddType(t hir.Type) (mir.TypeDefID, error) {
	if t.Kind != hir.TypeNamed {
		return 0, s.diags.ICE(diag.ICERefOfNonStruct, source.NoSpan, "typestore.AddType: %s is not a Named type", t.Kind)
	}
	key := t.Signature()
	if id, ok := s.byNamed[key]; ok {
		return id, nil
	}

	src := s.hirProg.TypeDef(t.TypeDefID)
	if src == nil {
		return 0, s.diags.ICE(diag.ICEUnresolvedTypedef, source.NoSpan, "typestore.AddType: unknown HIR typedef #%d", t.TypeDefID)
	}

	sub := make(map[hir.TypeVarID]hir.Type, len(src.TypeArgs()))
	for i, v := range src.TypeArgs() {
		if i < len(t.TypeArgs) {
			sub[v] = t.TypeArgs[i]
		}
	}

	// Reserve the id and insert an empty placeholder before recursing so
	// that a self- or mutually-recursive field resolves back to this
	// same id instead of looping forever.
	id := s.mirProg.ReserveTypeDefID()
	s.byNamed[key] = id

	var td mir.TypeDef
	var err error
	switch src.Kind {
	case hir.TypeDefAdt:
		td, err = s.buildAdt(id, src.Adt, sub)
	case hir.TypeDefRecord:
		td, err = s.buildRecord(id, src.Record, sub)
	}
	if err != nil {
		return 0, err
	}
	s.mirProg.SetTypeDef(id, td)
	return id, nil
}

func (s *Store) buildAdt(id mir.TypeDefID, src *hir.Adt, sub map[hir.TypeVarID]hir.Type) (mir.TypeDef, error) {
	adt := &mir.Adt{ID: id, Name: src.Name, Module: s.moduleName(src.Module)}
	for _, v := range src.Variants {
		variant := mir.Variant{Name: v.Name}
		for _, it := range v.Items {
			concrete := it.Type.Substitute(sub)
			mt, err := s.ProcessType(concrete)
			if err != nil {
				return mir.TypeDef{}, err
			}
			variant.Items = append(variant.Items, mir.VariantItem{Type: mt})
		}
		adt.Variants = append(adt.Variants, variant)
	}
	return mir.TypeDef{Kind: mir.TypeDefAdt, Adt: adt}, nil
}

func (s *Store) buildRecord(id mir.TypeDefID, src *hir.Record, sub map[hir.TypeVarID]hir.Type) (mir.TypeDef, error) {
	rec := &mir.Record{ID: id, Name: src.Name, Module: s.moduleName(src.Module)}
	for _, f := range src.Fields {
		concrete := f.Type.Substitute(sub)
		mt, err := s.ProcessType(concrete)
		if err != nil {
			return mir.TypeDef{}, err
		}
		rec.Fields = append(rec.Fields, mir.Field{Name: f.Name, Type: mt})
	}
	return mir.TypeDef{Kind: mir.TypeDefRecord, Record: rec}, nil
}

// AddTuple interns a tuple as a nominal record with positional field
// names field0, field1, ... (spec §4.2 add_tuple).
func (s *Store) AddTuple(items []hir.Type) (mir.TypeDefID, error) {
	translated := make([]mir.Type, len(items))
	key := "Tuple("
	for i, it := range items {
		mt, err := s.ProcessType(it)
		if err != nil {
			return 0, err
		}
		translated[i] = mt
		if i > 0 {
			key += ","
		}
		key += mt.Signature()
	}
	key += ")"

	if id, ok := s.byTuple[key]; ok {
		return id, nil
	}

	rec := &mir.Record{Name: fmt.Sprintf("Tuple%d", len(items))}
	for i, mt := range translated {
		rec.Fields = append(rec.Fields, mir.Field{Name: fmt.Sprintf("field%d", i), Type: mt})
	}
	id := s.mirProg.AddTypeDef(mir.TypeDef{Kind: mir.TypeDefRecord, Record: rec})
	s.byTuple[key] = id
	return id, nil
}

// ProcessType translates a concrete HIR type into a MIR type. Named
// types default to Modifier::Owned; Ref(T) becomes Named(Ref, id);
// functions become the bridge Function kind (closure conversion
// promotes it later, §4.6). A type variable or fixed type argument
// reaching here is a compiler bug (spec §4.2).
func (s *Store) ProcessType(t hir.Type) (mir.Type, error) {
	switch t.Kind {
	case hir.TypeVar, hir.TypeFixedTypeArg:
		return mir.Type{}, s.diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "typestore.ProcessType: unresolved type variable reached process_type")
	case hir.TypeFunction:
		from, err := s.ProcessType(*t.From)
		if err != nil {
			return mir.Type{}, err
		}
		to, err := s.ProcessType(*t.To)
		if err != nil {
			return mir.Type{}, err
		}
		return mir.FunctionType(from, to), nil
	case hir.TypeNamed:
		id, err := s.AddType(t)
		if err != nil {
			return mir.Type{}, err
		}
		return mir.NamedType(mir.Owned, id), nil
	case hir.TypeTuple:
		id, err := s.AddTuple(t.Items)
		if err != nil {
			return mir.Type{}, err
		}
		return mir.NamedType(mir.Owned, id), nil
	case hir.TypeRef:
		if t.Ref.Kind != hir.TypeNamed {
			return mir.Type{}, s.diags.ICE(diag.ICERefOfNonStruct, source.NoSpan, "typestore.ProcessType: Ref of non-struct type %s", t.Ref.Kind)
		}
		id, err := s.AddType(*t.Ref)
		if err != nil {
			return mir.Type{}, err
		}
		return mir.NamedType(mir.Ref, id), nil
	case hir.TypeNever:
		return mir.NeverType, nil
	default:
		return mir.Type{}, s.diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "typestore.ProcessType: unhandled HIR type kind %s", t.Kind)
	}
}

func (s *Store) moduleName(id hir.ModuleID) string {
	if name, ok := s.hirProg.Modules.Get(id); ok {
		return name
	}
	return ""
}
