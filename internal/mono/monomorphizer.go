package mono

import (
	"fmt"

	"github.com/siko-lang/sikoc/internal/derive"
	"github.com/siko-lang/sikoc/internal/diag"
	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
	"github.com/siko-lang/sikoc/internal/source"
	"github.com/siko-lang/sikoc/internal/typestore"
)

// Monomorphizer enumerates every concrete (HIR function, arg types,
// result type) reachable from main and produces one MIR function per
// instantiation (spec §4.3).
type Monomorphizer struct {
	hirProg *hir.Program
	mirProg *mir.Program
	store   *typestore.Store
	diags   *diag.Bag
	queue   *Queue

	instantiations map[hir.FunctionID]int

	// per-function translation scratch, reset at the start of every
	// translateBody call.
	exprMap    map[hir.ExprID]mir.ExprID
	patternMap map[hir.PatternID]mir.PatternID

	// lazily created, program-wide builtins used by Formatter
	// desugaring (spec §4.3 Formatter contract) and by internal/derive's
	// structural PartialEq/PartialOrd/Ord/Show generators (spec §4.7).
	concatFuncID      mir.FuncID
	builtinShowFuncs  map[string]mir.FuncID
	builtinEqFuncs    map[string]mir.FuncID
	builtinPCmpFuncs  map[string]mir.FuncID
	builtinCmpFuncs   map[string]mir.FuncID
	boolAndFuncID     mir.FuncID
	boolNotFuncID     mir.FuncID
	boolTrueFuncID    mir.FuncID
	boolFalseFuncID   mir.FuncID

	derive *derive.Generator

	// Progress, if set, is called once per work-queue item drained by
	// Run, after that item's MIR function has been produced
	// (internal/pipeline's per-work-queue-item detail).
	Progress func(item string)
}

// New returns a Monomorphizer that translates hirProg into mirProg,
// interning types through store and reporting internal errors to diags.
func New(hirProg *hir.Program, mirProg *mir.Program, store *typestore.Store, diags *diag.Bag) *Monomorphizer {
	return &Monomorphizer{
		hirProg:        hirProg,
		mirProg:        mirProg,
		store:          store,
		diags:          diags,
		queue:          NewQueue(),
		instantiations: make(map[hir.FunctionID]int),
	}
}

// Run seeds the queue with main at type ()->() and drains it to empty
// (spec §4.3 step 1, §5 step 1). It returns main's MIR function id.
func (m *Monomorphizer) Run(mainID hir.FunctionID) (mir.FuncID, error) {
	unit := hir.TupleOf()
	mainFuncID := m.queue.Enqueue(WorkItem{
		Kind:       WorkNormal,
		FunctionID: mainID,
		ArgTypes:   nil,
		ResultType: unit,
	}, m.mirProg.ReserveFuncID)

	for {
		item, id, ok := m.queue.Pop()
		if !ok {
			break
		}
		if err := m.process(item, id); err != nil {
			return 0, err
		}
		if m.Progress != nil {
			m.Progress(item.key())
		}
	}
	return mainFuncID, nil
}

func (m *Monomorphizer) process(item WorkItem, id mir.FuncID) error {
	switch item.Kind {
	case WorkNormal:
		return m.translateNormal(item, id)
	case WorkExternalCallImpl:
		return m.translateExternalCallImpl(item, id)
	default:
		return m.diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "mono: unknown work item kind")
	}
}

// enqueueNormal requests a MIR function for calling fnID with the given
// concrete argument and result types, used by every static call site a
// body translation encounters.
func (m *Monomorphizer) enqueueNormal(fnID hir.FunctionID, argTypes []hir.Type, resultType hir.Type) mir.FuncID {
	return m.queue.Enqueue(WorkItem{
		Kind:       WorkNormal,
		FunctionID: fnID,
		ArgTypes:   argTypes,
		ResultType: resultType,
	}, m.mirProg.ReserveFuncID)
}

func (m *Monomorphizer) enqueueExternalCallImpl(classID hir.ClassID, concreteType hir.Type, moduleName string) mir.FuncID {
	return m.queue.Enqueue(WorkItem{
		Kind:         WorkExternalCallImpl,
		ClassID:      classID,
		ConcreteType: concreteType,
		ModuleName:   moduleName,
	}, m.mirProg.ReserveFuncID)
}

func (m *Monomorphizer) nextInstantiationName(base string, fnID hir.FunctionID) string {
	m.instantiations[fnID]++
	return fmt.Sprintf("%s_%d", base, m.instantiations[fnID])
}

func (m *Monomorphizer) mirFunctionType(argTypes []hir.Type, resultType hir.Type) (mir.Type, error) {
	result, err := m.store.ProcessType(resultType)
	if err != nil {
		return mir.Type{}, err
	}
	t := result
	for i := len(argTypes) - 1; i >= 0; i-- {
		arg, err := m.store.ProcessType(argTypes[i])
		if err != nil {
			return mir.Type{}, err
		}
		t = mir.FunctionType(arg, t)
	}
	return t, nil
}

func (m *Monomorphizer) translateNormal(item WorkItem, id mir.FuncID) error {
	fn := m.hirProg.Function(item.FunctionID)
	if fn == nil {
		return m.diags.ICE(diag.ICEMissingFunctionBody, source.NoSpan, "mono: unknown HIR function #%d", item.FunctionID)
	}

	mirType, err := m.mirFunctionType(item.ArgTypes, item.ResultType)
	if err != nil {
		return err
	}

	switch fn.Kind {
	case hir.FunctionNamed:
		return m.translateNamed(fn, item, id, mirType)
	case hir.FunctionLambda:
		return m.translateLambda(fn, item, id, mirType)
	case hir.FunctionVariantConstructor:
		return m.translateVariantConstructor(fn, item, id, mirType)
	case hir.FunctionRecordConstructor:
		return m.translateRecordConstructor(fn, item, id, mirType)
	default:
		return m.diags.ICE(diag.ICEMissingFunctionBody, source.NoSpan, "mono: unhandled HIR function kind %d", fn.Kind)
	}
}

func (m *Monomorphizer) translateNamed(fn *hir.Function, item WorkItem, id mir.FuncID, mirType mir.Type) error {
	named := fn.Named
	mod, _ := m.hirProg.Modules.Get(named.Module)
	name := m.nextInstantiationName(named.Name, fn.ID)

	sub, err := buildUnifier(m.diags, fn.Type, item.ArgTypes, item.ResultType)
	if err != nil {
		return err
	}

	if !named.Body.IsValid() {
		// Extern (body-less) function: collect residual class
		// constraints and request their derivations (spec §4.3 step 5).
		fixed := make(map[hir.TypeVarID][]hir.ClassID)
		collectFixedConstraints(fn.Type, fixed)
		for v, classIDs := range fixed {
			concrete, ok := sub[v]
			if !ok {
				continue
			}
			for _, classID := range promoteConstraints(m.hirProg, classIDs) {
				m.enqueueExternalCallImpl(classID, concrete, mod)
			}
		}

		infoKind := mir.FunctionExtern
		implType := mir.Type{}
		if named.Kind == hir.NamedFunctionExternClassImpl {
			infoKind = mir.FunctionExternClassImpl
			implType, err = m.store.ProcessType(named.ImplType.Substitute(sub))
			if err != nil {
				return err
			}
		}
		m.mirProg.SetFunction(id, mir.Function{
			Name:       name,
			Module:     mod,
			ArgCount:   fn.ArgCount,
			Type:       mirType,
			InfoKind:   infoKind,
			ExternName: named.Name,
			ImplType:   implType,
		})
		return nil
	}

	body, err := m.translateBody(named.Body, sub)
	if err != nil {
		return err
	}
	m.mirProg.SetFunction(id, mir.Function{
		Name:     name,
		Module:   mod,
		ArgCount: fn.ArgCount,
		Type:     mirType,
		InfoKind: mir.FunctionNormal,
		Body:     body,
	})
	return nil
}

func (m *Monomorphizer) translateLambda(fn *hir.Function, item WorkItem, id mir.FuncID, mirType mir.Type) error {
	lam := fn.Lambda
	mod, _ := m.hirProg.Modules.Get(lam.Module)
	name := m.nextInstantiationName(lambdaName(m.hirProg, lam), fn.ID)

	sub, err := buildUnifier(m.diags, fn.Type, item.ArgTypes, item.ResultType)
	if err != nil {
		return err
	}
	body, err := m.translateBody(lam.Body, sub)
	if err != nil {
		return err
	}
	m.mirProg.SetFunction(id, mir.Function{
		Name:     name,
		Module:   mod,
		ArgCount: fn.ArgCount,
		Type:     mirType,
		InfoKind: mir.FunctionNormal,
		Body:     body,
	})
	return nil
}

func (m *Monomorphizer) translateVariantConstructor(fn *hir.Function, item WorkItem, id mir.FuncID, mirType mir.Type) error {
	typeDefID, err := m.store.AddType(item.ResultType)
	if err != nil {
		return err
	}
	m.mirProg.SetFunction(id, mir.Function{
		Name:             fmt.Sprintf("ctor_%d", fn.ID),
		ArgCount:         fn.ArgCount,
		Type:             mirType,
		InfoKind:         mir.FunctionVariantConstructor,
		VariantTypeDefID: typeDefID,
		VariantIndex:     fn.VariantConstructor.Index,
	})
	return nil
}

func (m *Monomorphizer) translateRecordConstructor(fn *hir.Function, item WorkItem, id mir.FuncID, mirType mir.Type) error {
	typeDefID, err := m.store.AddType(item.ResultType)
	if err != nil {
		return err
	}
	m.mirProg.SetFunction(id, mir.Function{
		Name:            fmt.Sprintf("ctor_%d", fn.ID),
		ArgCount:        fn.ArgCount,
		Type:            mirType,
		InfoKind:        mir.FunctionRecordConstructor,
		RecordTypeDefID: typeDefID,
	})
	return nil
}
