package hir

import "github.com/siko-lang/sikoc/internal/idmap"

// Program is the complete HIR as handed to this core: every module's
// functions, typedefs, classes and instances, plus the shared expr/
// pattern tables every function body indexes into by id.
type Program struct {
	Modules   *idmap.Map[ModuleID, string]
	Functions *idmap.Map[FunctionID, *Function]
	TypeDefs  *idmap.Map[TypeDefID, *TypeDef]
	Classes   *idmap.Map[ClassID, *Class]
	Instances *idmap.Map[InstanceID, *Instance]

	Exprs    *idmap.Map[ExprID, *Expr]
	Patterns *idmap.Map[PatternID, *Pattern]

	// Instances indexed by (class, concrete type name) for resolution;
	// populated by the out-of-scope name resolver.
	instancesByClassAndType map[ClassID]map[string]InstanceID

	nextExpr, nextPattern, nextFunction, nextTypeDef uint32
	nextModule, nextClass, nextClassMember, nextInstance, nextLoop uint32
}

// NewProgram returns an empty HIR program with fresh id counters.
func NewProgram() *Program {
	return &Program{
		Modules:                 idmap.New[ModuleID, string](),
		Functions:               idmap.New[FunctionID, *Function](),
		TypeDefs:                idmap.New[TypeDefID, *TypeDef](),
		Classes:                 idmap.New[ClassID, *Class](),
		Instances:               idmap.New[InstanceID, *Instance](),
		Exprs:                   idmap.New[ExprID, *Expr](),
		Patterns:                idmap.New[PatternID, *Pattern](),
		instancesByClassAndType: make(map[ClassID]map[string]InstanceID),
	}
}

func (p *Program) NewModuleID() ModuleID {
	p.nextModule++
	return ModuleID(p.nextModule)
}

func (p *Program) NewFunctionID() FunctionID {
	p.nextFunction++
	return FunctionID(p.nextFunction)
}

func (p *Program) NewTypeDefID() TypeDefID {
	p.nextTypeDef++
	return TypeDefID(p.nextTypeDef)
}

func (p *Program) NewClassID() ClassID {
	p.nextClass++
	return ClassID(p.nextClass)
}

func (p *Program) NewInstanceID() InstanceID {
	p.nextInstance++
	return InstanceID(p.nextInstance)
}

func (p *Program) NewLoopID() LoopID {
	p.nextLoop++
	return LoopID(p.nextLoop)
}

// AddExpr interns e under a fresh id and returns it.
func (p *Program) AddExpr(e Expr) ExprID {
	p.nextExpr++
	id := ExprID(p.nextExpr)
	e.ID = id
	p.Exprs.Set(id, &e)
	return id
}

// AddPattern interns pat under a fresh id and returns it.
func (p *Program) AddPattern(pat Pattern) PatternID {
	p.nextPattern++
	id := PatternID(p.nextPattern)
	pat.ID = id
	p.Patterns.Set(id, &pat)
	return id
}

func (p *Program) Expr(id ExprID) *Expr {
	e, _ := p.Exprs.Get(id)
	return e
}

func (p *Program) Pattern(id PatternID) *Pattern {
	pat, _ := p.Patterns.Get(id)
	return pat
}

func (p *Program) Function(id FunctionID) *Function {
	f, _ := p.Functions.Get(id)
	return f
}

func (p *Program) TypeDef(id TypeDefID) *TypeDef {
	t, _ := p.TypeDefs.Get(id)
	return t
}

func (p *Program) Class(id ClassID) *Class {
	c, _ := p.Classes.Get(id)
	return c
}

func (p *Program) Instance(id InstanceID) *Instance {
	i, _ := p.Instances.Get(id)
	return i
}

// IndexInstance registers inst so ResolveInstance can find it by class
// and the concrete type's Named.Name. Populated by the out-of-scope
// collaborator that builds this Program.
func (p *Program) IndexInstance(inst *Instance) {
	if inst == nil || inst.Type.Kind != TypeNamed {
		return
	}
	byType := p.instancesByClassAndType[inst.ClassID]
	if byType == nil {
		byType = make(map[string]InstanceID)
		p.instancesByClassAndType[inst.ClassID] = byType
	}
	byType[inst.Type.Name] = inst.ID
}

// ResolveInstance decides whether ty's implementation of classID is a
// user-written instance or should be auto-derived (spec §3.2
// "instance resolution result").
func (p *Program) ResolveInstance(classID ClassID, ty Type) ResolutionResult {
	if ty.Kind == TypeNamed {
		if byType, ok := p.instancesByClassAndType[classID]; ok {
			if id, ok := byType[ty.Name]; ok {
				return ResolutionResult{Kind: ResolutionUserDefined, InstanceID: id}
			}
		}
	}
	return ResolutionResult{Kind: ResolutionAutoDerived}
}

// FindTypeDef looks up a typedef declared in module by exact name,
// used to resolve the well-known Option/Ordering types spec §6
// singles out for auto-derivation (internal/derive).
func (p *Program) FindTypeDef(module, name string) (TypeDefID, bool) {
	var found TypeDefID
	ok := false
	p.TypeDefs.Each(func(id TypeDefID, td *TypeDef) {
		if ok {
			return
		}
		modName, _ := p.Modules.Get(td.Module())
		if modName == module && td.Name() == name {
			found, ok = id, true
		}
	})
	return found, ok
}

// FindFunction looks up a top-level named function declared in module
// by exact name, used by internal/pipeline to resolve the entry point
// spec §4.3 step 1 monomorphizes from.
func (p *Program) FindFunction(module, name string) (FunctionID, bool) {
	var found FunctionID
	ok := false
	p.Functions.Each(func(id FunctionID, fn *Function) {
		if ok || fn.Kind != FunctionNamed || fn.Named == nil {
			return
		}
		modName, _ := p.Modules.Get(fn.Named.Module)
		if modName == module && fn.Named.Name == name {
			found, ok = id, true
		}
	})
	return found, ok
}

// FindTypeDefByName looks up a typedef by name regardless of module,
// used for primitive scalars (Bool, Int, ...) whose declaring module
// spec.md leaves unspecified.
func (p *Program) FindTypeDefByName(name string) (TypeDefID, bool) {
	var found TypeDefID
	ok := false
	p.TypeDefs.Each(func(id TypeDefID, td *TypeDef) {
		if ok {
			return
		}
		if td.Name() == name {
			found, ok = id, true
		}
	})
	return found, ok
}

// FindVariantConstructor looks up the synthesized constructor function
// for variant index of typeDefID, used by internal/derive to build
// literal Ordering (Less/Equal/Greater) values in generated cmp bodies.
func (p *Program) FindVariantConstructor(typeDefID TypeDefID, index int) (FunctionID, bool) {
	var found FunctionID
	ok := false
	p.Functions.Each(func(id FunctionID, fn *Function) {
		if ok || fn.Kind != FunctionVariantConstructor {
			return
		}
		if fn.VariantConstructor.TypeDefID == typeDefID && fn.VariantConstructor.Index == index {
			found, ok = id, true
		}
	})
	return found, ok
}

// WellKnown names spec §6 singles out as opaque-except-for lookups.
const (
	OptionModule  = "Option"
	OptionType    = "Option"
	OrderingModule = "Ordering"
	OrderingType   = "Ordering"

	ClassPartialEq  = "PartialEq"
	ClassPartialOrd = "PartialOrd"
	ClassOrd        = "Ord"
	ClassShow       = "Show"

	MemberOpEq      = "opEq"
	MemberPartialCmp = "partialCmp"
	MemberCmp        = "cmp"
	MemberShow       = "show"
)
