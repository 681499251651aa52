package mono

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/siko-lang/sikoc/internal/diag"
	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
	"github.com/siko-lang/sikoc/internal/source"
)

// primitiveNames are the built-in scalar types the core recognizes
// without consulting instance resolution for Show (spec §4.3
// Formatter contract: "a built-in extern call for primitives").
var primitiveNames = map[string]bool{
	"Int": true, "Float": true, "Char": true, "String": true, "Bool": true,
}

// loopLabel carries a hir.LoopID across the HIR/MIR boundary through a
// checked conversion rather than a bare cast. The conversion can never
// actually overflow uint32, since LoopID is itself backed by uint32,
// but panicking here rather than truncating silently keeps the
// invariant load-bearing if that ever stops being true.
func loopLabel(id hir.LoopID) uint32 {
	label, err := safecast.Conv[uint32](id)
	if err != nil {
		panic(fmt.Errorf("loop label overflow: %w", err))
	}
	return label
}

// translateBody translates root under substitution sub into a fresh
// MIR expression tree, resetting this Monomorphizer's per-function
// scratch maps first.
func (m *Monomorphizer) translateBody(root hir.ExprID, sub map[hir.TypeVarID]hir.Type) (mir.ExprID, error) {
	m.exprMap = make(map[hir.ExprID]mir.ExprID)
	m.patternMap = make(map[hir.PatternID]mir.PatternID)
	return m.translateExpr(root, sub)
}

func (m *Monomorphizer) peelFunctionChain(t hir.Type, argCount int) ([]hir.Type, hir.Type) {
	args := make([]hir.Type, 0, argCount)
	cur := t
	for i := 0; i < argCount; i++ {
		args = append(args, *cur.From)
		cur = *cur.To
	}
	return args, cur
}

func (m *Monomorphizer) classIDByName(name string) hir.ClassID {
	var found hir.ClassID
	m.hirProg.Classes.Each(func(id hir.ClassID, c *hir.Class) {
		if c.Name == name {
			found = id
		}
	})
	return found
}

func (m *Monomorphizer) moduleNameOf(t hir.Type) string {
	if t.Kind != hir.TypeNamed {
		return ""
	}
	td := m.hirProg.TypeDef(t.TypeDefID)
	if td == nil {
		return ""
	}
	mod, _ := m.hirProg.Modules.Get(td.Module())
	return mod
}

// translateExpr translates one HIR expression (with every sub-type
// resolved through sub) into a MIR expression, enqueueing a work item
// for every static or class-dispatch call site it encounters.
func (m *Monomorphizer) translateExpr(id hir.ExprID, sub map[hir.TypeVarID]hir.Type) (mir.ExprID, error) {
	if mid, ok := m.exprMap[id]; ok {
		return mid, nil
	}
	e := m.hirProg.Expr(id)
	if e == nil {
		return 0, m.diags.ICE(diag.ICEMissingFunctionBody, source.NoSpan, "mono: unknown HIR expression #%d", id)
	}
	concreteType := e.Type.Substitute(sub)
	mirType, err := m.store.ProcessType(concreteType)
	if err != nil {
		return 0, err
	}

	out := mir.Expr{Type: mirType, Span: e.Span}

	switch e.Kind {
	case hir.ExprIntLiteral:
		out.Kind = mir.ExprIntLiteral
		out.Data = mir.IntLiteralData{Value: e.Data.(hir.IntLiteralData).Value}
	case hir.ExprCharLiteral:
		out.Kind = mir.ExprCharLiteral
		out.Data = mir.CharLiteralData{Value: e.Data.(hir.CharLiteralData).Value}
	case hir.ExprFloatLiteral:
		out.Kind = mir.ExprFloatLiteral
		out.Data = mir.FloatLiteralData{Value: e.Data.(hir.FloatLiteralData).Value}
	case hir.ExprStringLiteral:
		out.Kind = mir.ExprStringLiteral
		out.Data = mir.StringLiteralData{Value: e.Data.(hir.StringLiteralData).Value}
	case hir.ExprArgRef:
		out.Kind = mir.ExprArgRef
		out.Data = mir.ArgRefData{Index: e.Data.(hir.ArgRefData).Index}

	case hir.ExprStaticCall:
		d := e.Data.(hir.StaticCallData)
		argIDs := make([]mir.ExprID, len(d.Args))
		argTypes := make([]hir.Type, len(d.Args))
		for i, a := range d.Args {
			aid, err := m.translateExpr(a, sub)
			if err != nil {
				return 0, err
			}
			argIDs[i] = aid
			argTypes[i] = m.hirProg.Expr(a).Type.Substitute(sub)
		}
		fnID := m.enqueueNormal(d.Function, argTypes, concreteType)
		out.Kind = mir.ExprStaticFunctionCall
		out.Data = mir.StaticFunctionCallData{Function: fnID, Args: argIDs}

	case hir.ExprDynamicCall:
		d := e.Data.(hir.DynamicCallData)
		recv, err := m.translateExpr(d.Receiver, sub)
		if err != nil {
			return 0, err
		}
		argIDs := make([]mir.ExprID, len(d.Args))
		for i, a := range d.Args {
			aid, err := m.translateExpr(a, sub)
			if err != nil {
				return 0, err
			}
			argIDs[i] = aid
		}
		out.Kind = mir.ExprDynamicFunctionCall
		out.Data = mir.DynamicFunctionCallData{Receiver: recv, Args: argIDs}

	case hir.ExprLambdaRef:
		d := e.Data.(hir.LambdaRefData)
		lam := m.hirProg.Function(d.Lambda)
		if lam == nil {
			return 0, m.diags.ICE(diag.ICEMissingFunctionBody, source.NoSpan, "mono: unknown lambda #%d", d.Lambda)
		}
		argTypes, resultType := m.peelFunctionChain(concreteType, lam.ArgCount)
		fnID := m.enqueueNormal(d.Lambda, argTypes, resultType)
		out.Kind = mir.ExprFunctionRef
		out.Data = mir.FunctionRefData{Function: fnID}

	case hir.ExprDo:
		d := e.Data.(hir.DoData)
		itemIDs := make([]mir.ExprID, len(d.Items))
		for i, it := range d.Items {
			iid, err := m.translateExpr(it, sub)
			if err != nil {
				return 0, err
			}
			itemIDs[i] = iid
		}
		out.Kind = mir.ExprDo
		out.Data = mir.DoData{Items: itemIDs}

	case hir.ExprLet:
		d := e.Data.(hir.LetData)
		valueID, err := m.translateExpr(d.Value, sub)
		if err != nil {
			return 0, err
		}
		patID, err := m.translatePattern(d.Pattern, sub)
		if err != nil {
			return 0, err
		}
		bodyID, err := m.translateExpr(d.Body, sub)
		if err != nil {
			return 0, err
		}
		out.Kind = mir.ExprLet
		out.Data = mir.LetData{Pattern: patID, Value: valueID, Body: bodyID}

	case hir.ExprValue:
		d := e.Data.(hir.ValueData)
		patID, err := m.translatePattern(d.Pattern, sub)
		if err != nil {
			return 0, err
		}
		out.Kind = mir.ExprValue
		out.Data = mir.ValueData{Pattern: patID}

	case hir.ExprIf:
		d := e.Data.(hir.IfData)
		condID, err := m.translateExpr(d.Cond, sub)
		if err != nil {
			return 0, err
		}
		thenID, err := m.translateExpr(d.Then, sub)
		if err != nil {
			return 0, err
		}
		elseID, err := m.translateExpr(d.Else, sub)
		if err != nil {
			return 0, err
		}
		out.Kind = mir.ExprIf
		out.Data = mir.IfData{Cond: condID, Then: thenID, Else: elseID}

	case hir.ExprTuple:
		d := e.Data.(hir.TupleData)
		itemIDs := make([]mir.ExprID, len(d.Items))
		for i, it := range d.Items {
			iid, err := m.translateExpr(it, sub)
			if err != nil {
				return 0, err
			}
			itemIDs[i] = iid
		}
		out.Kind = mir.ExprTuple
		out.Data = mir.TupleData{Items: itemIDs}

	case hir.ExprList:
		d := e.Data.(hir.ListData)
		itemIDs := make([]mir.ExprID, len(d.Items))
		for i, it := range d.Items {
			iid, err := m.translateExpr(it, sub)
			if err != nil {
				return 0, err
			}
			itemIDs[i] = iid
		}
		out.Kind = mir.ExprList
		out.Data = mir.ListData{Items: itemIDs}

	case hir.ExprTupleIndex:
		d := e.Data.(hir.TupleIndexData)
		recv, err := m.translateExpr(d.Receiver, sub)
		if err != nil {
			return 0, err
		}
		out.Kind = mir.ExprTupleIndex
		out.Data = mir.TupleIndexData{Receiver: recv, Index: d.Index}

	case hir.ExprFieldAccess:
		d := e.Data.(hir.FieldAccessData)
		recv, err := m.translateExpr(d.Receiver, sub)
		if err != nil {
			return 0, err
		}
		recvType := m.hirProg.Expr(d.Receiver).Type.Substitute(sub)
		typeDefID, err := m.store.AddType(recvType)
		if err != nil {
			return 0, err
		}
		out.Kind = mir.ExprFieldAccess
		out.Data = mir.FieldAccessData{Receiver: recv, TypeDefID: typeDefID, FieldIndex: d.FieldIndex}

	case hir.ExprFormatter:
		return m.translateFormatter(e.Data.(hir.FormatterData), sub, concreteType, mirType, e.Span)

	case hir.ExprRecordInit:
		d := e.Data.(hir.RecordInitData)
		typeDefID, err := m.store.AddType(concreteType)
		if err != nil {
			return 0, err
		}
		fieldIDs := make([]mir.ExprID, len(d.Fields))
		for i, f := range d.Fields {
			fid, err := m.translateExpr(f, sub)
			if err != nil {
				return 0, err
			}
			fieldIDs[i] = fid
		}
		out.Kind = mir.ExprRecordInit
		out.Data = mir.RecordInitData{TypeDefID: typeDefID, Fields: fieldIDs}

	case hir.ExprRecordUpdate:
		d := e.Data.(hir.RecordUpdateData)
		recv, err := m.translateExpr(d.Receiver, sub)
		if err != nil {
			return 0, err
		}
		typeDefID, err := m.store.AddType(concreteType)
		if err != nil {
			return 0, err
		}
		updates := make([]mir.FieldUpdate, len(d.Updates))
		for i, u := range d.Updates {
			vid, err := m.translateExpr(u.Value, sub)
			if err != nil {
				return 0, err
			}
			updates[i] = mir.FieldUpdate{Index: u.Index, Value: vid}
		}
		out.Kind = mir.ExprRecordUpdate
		out.Data = mir.RecordUpdateData{Receiver: recv, TypeDefID: typeDefID, Updates: updates}

	case hir.ExprClassMemberCall:
		d := e.Data.(hir.ClassMemberCallData)
		if len(d.Args) == 0 {
			return 0, m.diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "mono: class member call with no receiver argument")
		}
		argIDs := make([]mir.ExprID, len(d.Args))
		argTypes := make([]hir.Type, len(d.Args))
		for i, a := range d.Args {
			aid, err := m.translateExpr(a, sub)
			if err != nil {
				return 0, err
			}
			argIDs[i] = aid
			argTypes[i] = m.hirProg.Expr(a).Type.Substitute(sub)
		}
		receiverType := argTypes[0]
		fnID, err := m.dispatchClassMember(d.ClassID, d.Member, receiverType, argTypes, concreteType)
		if err != nil {
			return 0, err
		}
		out.Kind = mir.ExprStaticFunctionCall
		out.Data = mir.StaticFunctionCallData{Function: fnID, Args: argIDs}

	case hir.ExprReturn:
		d := e.Data.(hir.ReturnData)
		vid, err := m.translateExpr(d.Value, sub)
		if err != nil {
			return 0, err
		}
		out.Kind = mir.ExprReturn
		out.Data = mir.ReturnData{Value: vid}

	case hir.ExprLoop:
		d := e.Data.(hir.LoopData)
		bodyID, err := m.translateExpr(d.Body, sub)
		if err != nil {
			return 0, err
		}
		out.Kind = mir.ExprLoop
		out.Data = mir.LoopData{Label: loopLabel(d.Label), Body: bodyID}

	case hir.ExprBreak:
		d := e.Data.(hir.BreakData)
		vid, err := m.translateExpr(d.Value, sub)
		if err != nil {
			return 0, err
		}
		out.Kind = mir.ExprBreak
		out.Data = mir.BreakData{Label: loopLabel(d.Label), Value: vid}

	case hir.ExprContinue:
		d := e.Data.(hir.ContinueData)
		out.Kind = mir.ExprContinue
		out.Data = mir.ContinueData{Label: loopLabel(d.Label)}

	default:
		return 0, m.diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "mono: unhandled HIR expression kind %s", e.Kind)
	}

	mid := m.mirProg.AddExpr(out)
	m.exprMap[id] = mid
	return mid, nil
}

// dispatchClassMember resolves classID's member for receiverType: a
// direct call to a user-written instance method, or a request for the
// structural derivation (spec §4.3 step 5, §4.7).
func (m *Monomorphizer) dispatchClassMember(classID hir.ClassID, member string, receiverType hir.Type, argTypes []hir.Type, resultType hir.Type) (mir.FuncID, error) {
	resolution := m.hirProg.ResolveInstance(classID, receiverType)
	if resolution.Kind == hir.ResolutionUserDefined {
		inst := m.hirProg.Instance(resolution.InstanceID)
		if inst == nil {
			return 0, m.diags.ICE(diag.ICEUnresolvedTypeVar, source.NoSpan, "mono: dangling instance id")
		}
		memberFn, ok := inst.Members[member]
		if !ok {
			return 0, m.diags.ICE(diag.ICEUnsupportedDerivation, source.NoSpan, "mono: instance is missing member %q", member)
		}
		return m.enqueueNormal(memberFn, argTypes, resultType), nil
	}
	return m.enqueueExternalCallImpl(classID, receiverType, m.moduleNameOf(receiverType)), nil
}

// translateFormatter desugars a Formatter template into nested builtin
// string-concat calls over literal segments and per-argument show
// results (spec §4.3 Formatter contract, §8 scenario 4).
func (m *Monomorphizer) translateFormatter(d hir.FormatterData, sub map[hir.TypeVarID]hir.Type, concreteType hir.Type, stringType mir.Type, span source.Span) (mir.ExprID, error) {
	parts := strings.Split(d.Template, "{}")
	if len(parts)-1 != len(d.Args) {
		return 0, m.diags.ICE(diag.ICEUnresolvedTypeVar, span, "mono: formatter template has %d markers but %d arguments", len(parts)-1, len(d.Args))
	}

	showIDs := make([]mir.ExprID, len(d.Args))
	for i, a := range d.Args {
		argConcreteType := m.hirProg.Expr(a).Type.Substitute(sub)
		argID, err := m.translateExpr(a, sub)
		if err != nil {
			return 0, err
		}
		showID, err := m.showCall(argConcreteType, argID, concreteType, stringType)
		if err != nil {
			return 0, err
		}
		showIDs[i] = showID
	}

	literal := func(s string) mir.ExprID {
		return m.mirProg.AddExpr(mir.Expr{Kind: mir.ExprStringLiteral, Type: stringType, Span: span, Data: mir.StringLiteralData{Value: s}})
	}
	concat := func(a, b mir.ExprID) mir.ExprID {
		fnID := m.builtinConcatFunc(stringType)
		return m.mirProg.AddExpr(mir.Expr{
			Kind: mir.ExprStaticFunctionCall,
			Type: stringType,
			Span: span,
			Data: mir.StaticFunctionCallData{Function: fnID, Args: []mir.ExprID{a, b}},
		})
	}

	result := literal(parts[0])
	for i, showID := range showIDs {
		result = concat(result, showID)
		result = concat(result, literal(parts[i+1]))
	}
	return result, nil
}

// showCall emits a call converting argID (of argConcreteType) to a
// string: a built-in extern for primitives, a user Show instance, or
// the auto-derived structural Show (spec §4.7).
func (m *Monomorphizer) showCall(argConcreteType hir.Type, argID mir.ExprID, formatterResultType hir.Type, stringType mir.Type) (mir.ExprID, error) {
	if argConcreteType.Kind == hir.TypeNamed && primitiveNames[argConcreteType.Name] {
		fnID := m.builtinShowFunc(argConcreteType.Name, stringType)
		return m.mirProg.AddExpr(mir.Expr{
			Kind: mir.ExprStaticFunctionCall,
			Type: stringType,
			Data: mir.StaticFunctionCallData{Function: fnID, Args: []mir.ExprID{argID}},
		}), nil
	}
	showClassID := m.classIDByName(hir.ClassShow)
	fnID, err := m.dispatchClassMember(showClassID, hir.MemberShow, argConcreteType, []hir.Type{argConcreteType}, formatterResultType)
	if err != nil {
		return 0, err
	}
	return m.mirProg.AddExpr(mir.Expr{
		Kind: mir.ExprStaticFunctionCall,
		Type: stringType,
		Data: mir.StaticFunctionCallData{Function: fnID, Args: []mir.ExprID{argID}},
	}), nil
}

func (m *Monomorphizer) builtinConcatFunc(stringType mir.Type) mir.FuncID {
	if m.concatFuncID.IsValid() {
		return m.concatFuncID
	}
	id := m.mirProg.AddFunction(mir.Function{
		Name:       "__concat_string",
		ArgCount:   2,
		Type:       mir.FunctionType(stringType, mir.FunctionType(stringType, stringType)),
		InfoKind:   mir.FunctionExtern,
		ExternName: "__concat_string",
	})
	m.concatFuncID = id
	return id
}

func (m *Monomorphizer) builtinShowFunc(typeName string, stringType mir.Type) mir.FuncID {
	if m.builtinShowFuncs == nil {
		m.builtinShowFuncs = make(map[string]mir.FuncID)
	}
	if id, ok := m.builtinShowFuncs[typeName]; ok {
		return id
	}
	name := "__show_" + typeName
	id := m.mirProg.AddFunction(mir.Function{
		Name:       name,
		ArgCount:   1,
		Type:       mir.FunctionType(stringType, stringType),
		InfoKind:   mir.FunctionExtern,
		ExternName: name,
	})
	m.builtinShowFuncs[typeName] = id
	return id
}

// translatePattern translates one HIR pattern under sub, memoized per
// call to translateBody.
func (m *Monomorphizer) translatePattern(id hir.PatternID, sub map[hir.TypeVarID]hir.Type) (mir.PatternID, error) {
	if mid, ok := m.patternMap[id]; ok {
		return mid, nil
	}
	p := m.hirProg.Pattern(id)
	if p == nil {
		return 0, m.diags.ICE(diag.ICEPatternTypeMissing, source.NoSpan, "mono: unknown HIR pattern #%d", id)
	}
	concreteType := p.Type.Substitute(sub)
	mirType, err := m.store.ProcessType(concreteType)
	if err != nil {
		return 0, err
	}

	out := mir.Pattern{Type: mirType, Span: p.Span}

	switch p.Kind {
	case hir.PatternBinding:
		out.Kind = mir.PatternBinding
		out.Data = mir.BindingData{Name: p.Data.(hir.BindingData).Name}

	case hir.PatternTuple:
		d := p.Data.(hir.TuplePatternData)
		itemIDs := make([]mir.PatternID, len(d.Items))
		for i, it := range d.Items {
			pid, err := m.translatePattern(it, sub)
			if err != nil {
				return 0, err
			}
			itemIDs[i] = pid
		}
		out.Kind = mir.PatternTuple
		out.Data = mir.TuplePatternData{Items: itemIDs}

	case hir.PatternRecord:
		d := p.Data.(hir.RecordPatternData)
		typeDefID, err := m.store.AddType(concreteType)
		if err != nil {
			return 0, err
		}
		itemIDs := make([]mir.PatternID, len(d.Items))
		for i, it := range d.Items {
			pid, err := m.translatePattern(it, sub)
			if err != nil {
				return 0, err
			}
			itemIDs[i] = pid
		}
		out.Kind = mir.PatternRecord
		out.Data = mir.RecordPatternData{TypeDefID: typeDefID, Items: itemIDs}

	case hir.PatternVariant:
		d := p.Data.(hir.VariantPatternData)
		typeDefID, err := m.store.AddType(concreteType)
		if err != nil {
			return 0, err
		}
		itemIDs := make([]mir.PatternID, len(d.Items))
		for i, it := range d.Items {
			pid, err := m.translatePattern(it, sub)
			if err != nil {
				return 0, err
			}
			itemIDs[i] = pid
		}
		out.Kind = mir.PatternVariant
		out.Data = mir.VariantPatternData{TypeDefID: typeDefID, Index: d.Index, Items: itemIDs}

	case hir.PatternGuarded:
		d := p.Data.(hir.GuardedPatternData)
		innerID, err := m.translatePattern(d.Inner, sub)
		if err != nil {
			return 0, err
		}
		guardID, err := m.translateExpr(d.Guard, sub)
		if err != nil {
			return 0, err
		}
		out.Kind = mir.PatternGuarded
		out.Data = mir.GuardedPatternData{Inner: innerID, Guard: guardID}

	case hir.PatternWildcard:
		out.Kind = mir.PatternWildcard
		out.Data = mir.WildcardData{}

	case hir.PatternLiteral:
		d := p.Data.(hir.LiteralPatternData)
		switch d.Kind {
		case hir.LiteralInt:
			out.Kind = mir.PatternIntegerLiteral
			out.Data = mir.IntegerLiteralPatternData{Value: d.Int}
		case hir.LiteralChar:
			out.Kind = mir.PatternCharLiteral
			out.Data = mir.CharLiteralPatternData{Value: d.Char}
		case hir.LiteralString:
			out.Kind = mir.PatternStringLiteral
			out.Data = mir.StringLiteralPatternData{Value: d.String}
		}

	case hir.PatternCharRange:
		d := p.Data.(hir.CharRangePatternData)
		out.Kind = mir.PatternCharRange
		out.Data = mir.CharRangePatternData{Start: d.Start, End: d.End, Kind: mir.RangeKind(d.Kind)}

	case hir.PatternTyped:
		// Type ascription is erased: the resolved type already lives on
		// the node above, so the inner pattern's own id is reused.
		d := p.Data.(hir.TypedPatternData)
		innerID, err := m.translatePattern(d.Inner, sub)
		if err != nil {
			return 0, err
		}
		m.patternMap[id] = innerID
		return innerID, nil

	default:
		return 0, m.diags.ICE(diag.ICEPatternTypeMissing, source.NoSpan, "mono: unhandled HIR pattern kind %s", p.Kind)
	}

	mid := m.mirProg.AddPattern(out)
	m.patternMap[id] = mid
	return mid, nil
}
