package derive_test

import (
	"testing"

	"github.com/siko-lang/sikoc/internal/derive"
	"github.com/siko-lang/sikoc/internal/diag"
	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
	"github.com/siko-lang/sikoc/internal/typestore"
)

// fakeHost is a minimal derive.Host backed by real internal/hir,
// internal/mir and internal/typestore plumbing, standing in for
// internal/mono.Monomorphizer so internal/derive's generators can be
// exercised without constructing a full monomorphization run.
type fakeHost struct {
	hirProg *hir.Program
	mirProg *mir.Program
	store   *typestore.Store

	eq, pcmp, cmp, show map[string]mir.FuncID
	concat              mir.FuncID
	and, not, t, f       mir.FuncID
	byFn                map[hir.FunctionID]mir.FuncID
}

func newFakeHost(hirProg *hir.Program, mirProg *mir.Program) *fakeHost {
	return &fakeHost{
		hirProg: hirProg,
		mirProg: mirProg,
		store:   typestore.New(hirProg, mirProg, diag.NewBag()),
		eq:      make(map[string]mir.FuncID),
		pcmp:    make(map[string]mir.FuncID),
		cmp:     make(map[string]mir.FuncID),
		show:    make(map[string]mir.FuncID),
		byFn:    make(map[hir.FunctionID]mir.FuncID),
	}
}

func (h *fakeHost) Store() derive.TypeStore { return h.store }
func (h *fakeHost) MIR() *mir.Program       { return h.mirProg }
func (h *fakeHost) HIR() *hir.Program       { return h.hirProg }

func (h *fakeHost) Dispatch(classID hir.ClassID, member string, receiverType hir.Type, argTypes []hir.Type, resultType hir.Type) (mir.FuncID, error) {
	return 0, nil
}

func (h *fakeHost) ClassIDByName(name string) hir.ClassID { return 0 }

// EnqueueNormal simulates monomorphizing a variant constructor: every
// constructor call in these tests targets Ordering's or Option's
// synthesized Less/Equal/Greater/None/Some constructors, so this
// installs a FunctionVariantConstructor MIR function directly rather
// than draining a work queue.
func (h *fakeHost) EnqueueNormal(fnID hir.FunctionID, argTypes []hir.Type, resultType hir.Type) mir.FuncID {
	if id, ok := h.byFn[fnID]; ok {
		return id
	}
	fn := h.hirProg.Function(fnID)
	typeDefID, err := h.store.AddType(resultType)
	if err != nil {
		panic(err)
	}
	mirType, err := h.store.ProcessType(resultType)
	if err != nil {
		panic(err)
	}
	for i := len(argTypes) - 1; i >= 0; i-- {
		arg, err := h.store.ProcessType(argTypes[i])
		if err != nil {
			panic(err)
		}
		mirType = mir.FunctionType(arg, mirType)
	}
	id := h.mirProg.AddFunction(mir.Function{
		Name:             "ctor",
		ArgCount:         fn.ArgCount,
		Type:             mirType,
		InfoKind:         mir.FunctionVariantConstructor,
		VariantTypeDefID: typeDefID,
		VariantIndex:     fn.VariantConstructor.Index,
	})
	h.byFn[fnID] = id
	return id
}

func (h *fakeHost) BuiltinEq(typeName string, boolType mir.Type) mir.FuncID {
	if id, ok := h.eq[typeName]; ok {
		return id
	}
	id := h.mirProg.AddFunction(mir.Function{Name: "__eq_" + typeName, ArgCount: 2, InfoKind: mir.FunctionExtern, ExternName: "__eq_" + typeName})
	h.eq[typeName] = id
	return id
}

func (h *fakeHost) BuiltinPartialCmp(typeName string, optionOrderingType mir.Type) mir.FuncID {
	if id, ok := h.pcmp[typeName]; ok {
		return id
	}
	id := h.mirProg.AddFunction(mir.Function{Name: "__partialCmp_" + typeName, ArgCount: 2, InfoKind: mir.FunctionExtern, ExternName: "__partialCmp_" + typeName})
	h.pcmp[typeName] = id
	return id
}

func (h *fakeHost) BuiltinCmp(typeName string, orderingType mir.Type) mir.FuncID {
	if id, ok := h.cmp[typeName]; ok {
		return id
	}
	id := h.mirProg.AddFunction(mir.Function{Name: "__cmp_" + typeName, ArgCount: 2, InfoKind: mir.FunctionExtern, ExternName: "__cmp_" + typeName})
	h.cmp[typeName] = id
	return id
}

func (h *fakeHost) BuiltinShow(typeName string, stringType mir.Type) mir.FuncID {
	if id, ok := h.show[typeName]; ok {
		return id
	}
	id := h.mirProg.AddFunction(mir.Function{Name: "__show_" + typeName, ArgCount: 1, InfoKind: mir.FunctionExtern, ExternName: "__show_" + typeName})
	h.show[typeName] = id
	return id
}

func (h *fakeHost) BuiltinConcat(stringType mir.Type) mir.FuncID {
	if h.concat.IsValid() {
		return h.concat
	}
	h.concat = h.mirProg.AddFunction(mir.Function{Name: "__concat_string", ArgCount: 2, InfoKind: mir.FunctionExtern, ExternName: "__concat_string"})
	return h.concat
}

func (h *fakeHost) BuiltinBoolAnd(boolType mir.Type) mir.FuncID {
	if h.and.IsValid() {
		return h.and
	}
	h.and = h.mirProg.AddFunction(mir.Function{Name: "__and_bool", ArgCount: 2, InfoKind: mir.FunctionExtern, ExternName: "__and_bool"})
	return h.and
}

func (h *fakeHost) BuiltinBoolNot(boolType mir.Type) mir.FuncID {
	if h.not.IsValid() {
		return h.not
	}
	h.not = h.mirProg.AddFunction(mir.Function{Name: "__not_bool", ArgCount: 1, InfoKind: mir.FunctionExtern, ExternName: "__not_bool"})
	return h.not
}

func (h *fakeHost) BuiltinBoolLiteral(value bool, boolType mir.Type) mir.FuncID {
	if value {
		if h.t.IsValid() {
			return h.t
		}
		h.t = h.mirProg.AddFunction(mir.Function{Name: "__true_bool", InfoKind: mir.FunctionExtern, ExternName: "__true_bool"})
		return h.t
	}
	if h.f.IsValid() {
		return h.f
	}
	h.f = h.mirProg.AddFunction(mir.Function{Name: "__false_bool", InfoKind: mir.FunctionExtern, ExternName: "__false_bool"})
	return h.f
}

var _ derive.Host = (*fakeHost)(nil)

func registerRecord(p *hir.Program, mod hir.ModuleID, name string) hir.TypeDefID {
	id := p.NewTypeDefID()
	p.TypeDefs.Set(id, &hir.TypeDef{Kind: hir.TypeDefRecord, Record: &hir.Record{ID: id, Name: name, Module: mod}})
	return id
}

// buildFixture builds a program with the well-known Bool/String/
// Ordering/Option types, a sample two-field "Point" record, and a
// three-variant "Shape" ADT ("Circle(Int)", "Square(Int, Int)", "Dot").
func buildFixture(t *testing.T) (*hir.Program, hir.TypeDefID, hir.TypeDefID, hir.TypeDefID) {
	t.Helper()
	p := hir.NewProgram()
	mod := p.NewModuleID()
	p.Modules.Set(mod, "Prelude")

	intID := registerRecord(p, mod, "Int")
	registerRecord(p, mod, "Bool")
	registerRecord(p, mod, "String")

	orderingMod := p.NewModuleID()
	p.Modules.Set(orderingMod, hir.OrderingModule)
	orderingID := p.NewTypeDefID()
	p.TypeDefs.Set(orderingID, &hir.TypeDef{Kind: hir.TypeDefAdt, Adt: &hir.Adt{
		ID:     orderingID,
		Name:   hir.OrderingType,
		Module: orderingMod,
		Variants: []hir.Variant{
			{Name: "Less"}, {Name: "Equal"}, {Name: "Greater"},
		},
	}})
	for i := range 3 {
		fnID := p.NewFunctionID()
		p.Functions.Set(fnID, &hir.Function{
			ID:                 fnID,
			Kind:               hir.FunctionVariantConstructor,
			Type:               hir.Named(hir.OrderingType, orderingID),
			VariantConstructor: &hir.VariantConstructor{TypeDefID: orderingID, Index: i},
		})
	}

	optionMod := p.NewModuleID()
	p.Modules.Set(optionMod, hir.OptionModule)
	optionID := p.NewTypeDefID()
	a := hir.TypeVarID(1)
	p.TypeDefs.Set(optionID, &hir.TypeDef{Kind: hir.TypeDefAdt, Adt: &hir.Adt{
		ID:       optionID,
		Name:     hir.OptionType,
		Module:   optionMod,
		TypeArgs: []hir.TypeVarID{a},
		Variants: []hir.Variant{
			{Name: "None"},
			{Name: "Some", Items: []hir.VariantItem{{Type: hir.VarOf(a)}}},
		},
	}})
	for i := range 2 {
		argCount := 0
		if i == 1 {
			argCount = 1
		}
		fnID := p.NewFunctionID()
		p.Functions.Set(fnID, &hir.Function{
			ID:                 fnID,
			Kind:               hir.FunctionVariantConstructor,
			ArgCount:           argCount,
			VariantConstructor: &hir.VariantConstructor{TypeDefID: optionID, Index: i},
		})
	}

	pointID := p.NewTypeDefID()
	p.TypeDefs.Set(pointID, &hir.TypeDef{Kind: hir.TypeDefRecord, Record: &hir.Record{
		ID:     pointID,
		Name:   "Point",
		Module: mod,
		Fields: []hir.Field{
			{Name: "x", Type: hir.Named("Int", intID)},
			{Name: "y", Type: hir.Named("Int", intID)},
		},
	}})

	shapeID := p.NewTypeDefID()
	p.TypeDefs.Set(shapeID, &hir.TypeDef{Kind: hir.TypeDefAdt, Adt: &hir.Adt{
		ID:     shapeID,
		Name:   "Shape",
		Module: mod,
		Variants: []hir.Variant{
			{Name: "Circle", Items: []hir.VariantItem{{Type: hir.Named("Int", intID)}}},
			{Name: "Square", Items: []hir.VariantItem{{Type: hir.Named("Int", intID)}, {Type: hir.Named("Int", intID)}}},
			{Name: "Dot"},
		},
	}})

	return p, pointID, shapeID, intID
}

func newGenerator(t *testing.T, p *hir.Program) (*derive.Generator, *mir.Program) {
	t.Helper()
	mirProg := mir.NewProgram()
	host := newFakeHost(p, mirProg)
	gen, err := derive.New(host)
	if err != nil {
		t.Fatalf("derive.New: %v", err)
	}
	return gen, mirProg
}

func argRefs(mirProg *mir.Program, typeNames ...string) []mir.ExprID {
	ids := make([]mir.ExprID, len(typeNames))
	for i := range typeNames {
		ids[i] = mirProg.AddExpr(mir.Expr{Kind: mir.ExprArgRef, Data: mir.ArgRefData{Index: i}})
	}
	return ids
}

func TestGenerateRecordEq(t *testing.T) {
	p, pointID, _, _ := buildFixture(t)
	gen, mirProg := newGenerator(t, p)

	pointType := hir.Named("Point", pointID)
	args := argRefs(mirProg, "Point", "Point")
	body, err := gen.Generate(hir.ClassPartialEq, pointType, args)
	if err != nil {
		t.Fatalf("Generate(PartialEq): %v", err)
	}
	if !body.IsValid() {
		t.Fatal("expected a valid body expression")
	}
	e := mirProg.Expr(body)
	if e == nil || e.Kind != mir.ExprStaticFunctionCall {
		t.Fatalf("expected record opEq to fold to a final __and_bool call, got %+v", e)
	}
}

func TestGenerateAdtEqComparesVariantThenItems(t *testing.T) {
	p, _, shapeID, _ := buildFixture(t)
	gen, mirProg := newGenerator(t, p)

	shapeType := hir.Named("Shape", shapeID)
	args := argRefs(mirProg, "Shape", "Shape")
	body, err := gen.Generate(hir.ClassPartialEq, shapeType, args)
	if err != nil {
		t.Fatalf("Generate(PartialEq): %v", err)
	}
	e := mirProg.Expr(body)
	if e == nil || e.Kind != mir.ExprIf {
		t.Fatalf("expected the top of an Adt opEq body to be an If cascade, got %+v", e)
	}
}

func TestGenerateCmpOnAdtBuildsFullCrossProduct(t *testing.T) {
	p, _, shapeID, _ := buildFixture(t)
	gen, mirProg := newGenerator(t, p)

	shapeType := hir.Named("Shape", shapeID)
	args := argRefs(mirProg, "Shape", "Shape")
	body, err := gen.Generate(hir.ClassOrd, shapeType, args)
	if err != nil {
		t.Fatalf("Generate(Ord): %v", err)
	}

	// Count the If nodes reachable from body: a 3-variant Adt's k x k
	// cross product produces 9 comparison branches, and the equal-variant
	// branches fold their items with one more If per item (Circle has
	// one, Square two, Dot none), so 12 in all.
	seen := 0
	var walk func(id mir.ExprID)
	walk = func(id mir.ExprID) {
		if !id.IsValid() {
			return
		}
		e := mirProg.Expr(id)
		if e == nil {
			return
		}
		if e.Kind == mir.ExprIf {
			seen++
			d := e.Data.(mir.IfData)
			walk(d.Cond)
			walk(d.Then)
			walk(d.Else)
		}
	}
	walk(body)
	if seen != 12 {
		t.Fatalf("expected 12 If nodes (3x3 variant cross product plus 3 item folds), got %d", seen)
	}
}

func TestGeneratePartialCmpPropagatesNone(t *testing.T) {
	p, pointID, _, _ := buildFixture(t)
	gen, mirProg := newGenerator(t, p)

	pointType := hir.Named("Point", pointID)
	args := argRefs(mirProg, "Point", "Point")
	body, err := gen.Generate(hir.ClassPartialOrd, pointType, args)
	if err != nil {
		t.Fatalf("Generate(PartialOrd): %v", err)
	}
	if !body.IsValid() {
		t.Fatal("expected a valid body expression")
	}
}

func TestGenerateShowRendersRecordAndVariants(t *testing.T) {
	p, pointID, shapeID, _ := buildFixture(t)
	gen, mirProg := newGenerator(t, p)

	pointType := hir.Named("Point", pointID)
	body, err := gen.Generate(hir.ClassShow, pointType, argRefs(mirProg, "Point"))
	if err != nil {
		t.Fatalf("Generate(Show) on record: %v", err)
	}
	if !body.IsValid() {
		t.Fatal("expected a valid record show body")
	}

	gen2, mirProg2 := newGenerator(t, p)
	shapeType := hir.Named("Shape", shapeID)
	body2, err := gen2.Generate(hir.ClassShow, shapeType, argRefs(mirProg2, "Shape"))
	if err != nil {
		t.Fatalf("Generate(Show) on Adt: %v", err)
	}
	e := mirProg2.Expr(body2)
	if e == nil || e.Kind != mir.ExprIf {
		t.Fatalf("expected the top of an Adt show body to be an If cascade, got %+v", e)
	}
}

func TestGenerateRejectsNonAutoDerivableClass(t *testing.T) {
	p, pointID, _, _ := buildFixture(t)
	gen, mirProg := newGenerator(t, p)

	pointType := hir.Named("Point", pointID)
	_, err := gen.Generate("NotAClass", pointType, argRefs(mirProg, "Point"))
	if err == nil {
		t.Fatal("expected an error for a non-auto-derivable class name")
	}
}
