package mir

import (
	"fmt"

	"github.com/siko-lang/sikoc/internal/idmap"
)

// Program is the monomorphic program under construction: built
// incrementally by internal/mono, then mutated in place by
// internal/legalize, internal/boxprop and internal/mirpass (spec §3.3,
// §3.5). All child collections are idmap.Map so iteration order is
// deterministic regardless of insertion races between passes.
type Program struct {
	Exprs    *idmap.Map[ExprID, Expr]
	Patterns *idmap.Map[PatternID, Pattern]
	Funcs    *idmap.Map[FuncID, Function]
	TypeDefs *idmap.Map[TypeDefID, TypeDef]

	Closures     *idmap.Map[ClosureID, Closure]
	PartialCalls *idmap.Map[PartialCallID, PartialCall]

	// closureBySignature and partialCallByKey dedupe by Type.Signature()
	// (and, for partial calls, by function+missing-arity), since Type
	// can't be a native Go map key.
	closureBySignature map[string]ClosureID
	partialCallByKey   map[string]PartialCallID

	nextExprID        uint32
	nextPatternID     uint32
	nextFuncID        uint32
	nextTypeDefID     uint32
	nextClosureID     uint32
	nextPartialCallID uint32
}

func NewProgram() *Program {
	return &Program{
		Exprs:              idmap.New[ExprID, Expr](),
		Patterns:           idmap.New[PatternID, Pattern](),
		Funcs:              idmap.New[FuncID, Function](),
		TypeDefs:           idmap.New[TypeDefID, TypeDef](),
		Closures:           idmap.New[ClosureID, Closure](),
		PartialCalls:       idmap.New[PartialCallID, PartialCall](),
		closureBySignature: make(map[string]ClosureID),
		partialCallByKey:   make(map[string]PartialCallID),
	}
}

func (p *Program) NewExprID() ExprID {
	p.nextExprID++
	return ExprID(p.nextExprID)
}

func (p *Program) NewPatternID() PatternID {
	p.nextPatternID++
	return PatternID(p.nextPatternID)
}

func (p *Program) NewFuncID() FuncID {
	p.nextFuncID++
	return FuncID(p.nextFuncID)
}

func (p *Program) NewTypeDefID() TypeDefID {
	p.nextTypeDefID++
	return TypeDefID(p.nextTypeDefID)
}

// AddExpr assigns e a fresh ID, stores it, and returns the ID.
func (p *Program) AddExpr(e Expr) ExprID {
	id := p.NewExprID()
	e.ID = id
	p.Exprs.Set(id, e)
	return id
}

// AddPattern assigns pat a fresh ID, stores it, and returns the ID.
func (p *Program) AddPattern(pat Pattern) PatternID {
	id := p.NewPatternID()
	pat.ID = id
	p.Patterns.Set(id, pat)
	return id
}

// UpdateExpr overwrites an already-inserted expression in place; passes
// after monomorphization (legalize, boxprop, mirpass) retype and
// rewrite nodes this way rather than allocating new IDs, so that other
// nodes' references stay valid.
func (p *Program) UpdateExpr(id ExprID, e Expr) {
	e.ID = id
	p.Exprs.Set(id, e)
}

// AddTypeDef assigns td a fresh ID, stores it, and returns the ID.
func (p *Program) AddTypeDef(td TypeDef) TypeDefID {
	id := p.NewTypeDefID()
	switch td.Kind {
	case TypeDefAdt:
		td.Adt.ID = id
	case TypeDefRecord:
		td.Record.ID = id
	}
	p.TypeDefs.Set(id, td)
	return id
}

// AddFunction assigns f a fresh ID, stores it, and returns the ID.
func (p *Program) AddFunction(f Function) FuncID {
	id := p.NewFuncID()
	f.ID = id
	p.Funcs.Set(id, f)
	return id
}

// ReserveFuncID allocates a fresh id without storing anything, letting
// internal/mono's work queue hand out a MIR function id for a queued
// item before that item's body has been translated (spec §4.3 step 2).
func (p *Program) ReserveFuncID() FuncID {
	return p.NewFuncID()
}

// SetFunction stores (or overwrites) the function at an already
// allocated id.
func (p *Program) SetFunction(id FuncID, f Function) {
	f.ID = id
	p.Funcs.Set(id, f)
}

// ReserveTypeDefID allocates a fresh id without storing anything,
// letting typestore register a placeholder before recursing into a
// typedef's own fields (needed for self- and mutually-recursive types).
func (p *Program) ReserveTypeDefID() TypeDefID {
	return p.NewTypeDefID()
}

// SetTypeDef stores (or overwrites) the typedef at an already-allocated
// id, used by typestore to fill in a placeholder after recursing.
func (p *Program) SetTypeDef(id TypeDefID, td TypeDef) {
	switch td.Kind {
	case TypeDefAdt:
		td.Adt.ID = id
	case TypeDefRecord:
		td.Record.ID = id
	}
	p.TypeDefs.Set(id, td)
}

func (p *Program) Expr(id ExprID) *Expr {
	if e, ok := p.Exprs.Get(id); ok {
		return &e
	}
	return nil
}

func (p *Program) Pattern(id PatternID) *Pattern {
	if pat, ok := p.Patterns.Get(id); ok {
		return &pat
	}
	return nil
}

func (p *Program) Function(id FuncID) *Function {
	if f, ok := p.Funcs.Get(id); ok {
		return &f
	}
	return nil
}

// UpdatePattern overwrites an already-inserted pattern in place, used by
// internal/boxprop to retype a binding pattern from Owned to Boxed
// without disturbing the ids other nodes hold onto it by.
func (p *Program) UpdatePattern(id PatternID, pat Pattern) {
	pat.ID = id
	p.Patterns.Set(id, pat)
}

func (p *Program) TypeDef(id TypeDefID) *TypeDef {
	if t, ok := p.TypeDefs.Get(id); ok {
		return &t
	}
	return nil
}

// AddClosureType returns the ClosureID for fnType, creating and
// registering a fresh Closure descriptor the first time fnType's
// signature is seen (spec §4.6 closure table dedup).
func (p *Program) AddClosureType(fnType Type, name string, captures []CapturedVar) ClosureID {
	sig := fnType.Signature()
	if id, ok := p.closureBySignature[sig]; ok {
		return id
	}
	p.nextClosureID++
	id := ClosureID(p.nextClosureID)
	p.Closures.Set(id, Closure{ID: id, Name: name, Type: fnType, Captures: captures})
	p.closureBySignature[sig] = id
	return id
}

// AddUniqueClosure always registers a fresh Closure descriptor, bypassing
// AddClosureType's signature-based dedup. Used for a closure literal that
// captures free variables: two lambdas sharing a (From, To) signature but
// different captured values must never share one carrier (spec §4.6).
func (p *Program) AddUniqueClosure(fnType Type, name string, captures []CapturedVar) ClosureID {
	p.nextClosureID++
	id := ClosureID(p.nextClosureID)
	p.Closures.Set(id, Closure{ID: id, Name: name, Type: fnType, Captures: captures})
	return id
}

// AddPartialCall interns a partial-application descriptor for fn with
// the given missing arity, returning the existing ID if an identical
// one was already registered.
func (p *Program) AddPartialCall(fn FuncID, missingArity int, resultType Type) PartialCallID {
	key := fmt.Sprintf("%d:%d:%s", fn, missingArity, resultType.Signature())
	if id, ok := p.partialCallByKey[key]; ok {
		return id
	}
	p.nextPartialCallID++
	id := PartialCallID(p.nextPartialCallID)
	p.PartialCalls.Set(id, PartialCall{ID: id, Function: fn, MissingArity: missingArity, Type: resultType})
	p.partialCallByKey[key] = id
	return id
}
