package hir

// Visitor receives every expression and pattern reachable from a walked
// root, parent before children (pre-order). Implementations that only
// care about one of the two leave the other method empty.
type Visitor interface {
	Program() *Program
	VisitExpr(id ExprID, e *Expr)
	VisitPattern(id PatternID, p *Pattern)
}

// WalkExpr visits id and everything reachable from it: sub-expressions,
// and the patterns bound along the way (let, loop bodies are walked
// through their guarded/variant/record sub-patterns too, since patterns
// may themselves embed guard expressions).
func WalkExpr(id ExprID, v Visitor) {
	if !id.IsValid() {
		return
	}
	prog := v.Program()
	e := prog.Expr(id)
	if e == nil {
		return
	}
	v.VisitExpr(id, e)

	switch e.Kind {
	case ExprStaticCall:
		d := e.Data.(StaticCallData)
		for _, a := range d.Args {
			WalkExpr(a, v)
		}
	case ExprDynamicCall:
		d := e.Data.(DynamicCallData)
		WalkExpr(d.Receiver, v)
		for _, a := range d.Args {
			WalkExpr(a, v)
		}
	case ExprDo:
		d := e.Data.(DoData)
		for _, it := range d.Items {
			WalkExpr(it, v)
		}
	case ExprLet:
		d := e.Data.(LetData)
		WalkExpr(d.Value, v)
		WalkPattern(d.Pattern, v)
		WalkExpr(d.Body, v)
	case ExprValue:
		d := e.Data.(ValueData)
		WalkPattern(d.Pattern, v)
	case ExprIf:
		d := e.Data.(IfData)
		WalkExpr(d.Cond, v)
		WalkExpr(d.Then, v)
		WalkExpr(d.Else, v)
	case ExprTuple:
		d := e.Data.(TupleData)
		for _, it := range d.Items {
			WalkExpr(it, v)
		}
	case ExprList:
		d := e.Data.(ListData)
		for _, it := range d.Items {
			WalkExpr(it, v)
		}
	case ExprTupleIndex:
		d := e.Data.(TupleIndexData)
		WalkExpr(d.Receiver, v)
	case ExprFieldAccess:
		d := e.Data.(FieldAccessData)
		WalkExpr(d.Receiver, v)
	case ExprFormatter:
		d := e.Data.(FormatterData)
		for _, a := range d.Args {
			WalkExpr(a, v)
		}
	case ExprRecordInit:
		d := e.Data.(RecordInitData)
		for _, f := range d.Fields {
			WalkExpr(f, v)
		}
	case ExprRecordUpdate:
		d := e.Data.(RecordUpdateData)
		WalkExpr(d.Receiver, v)
		for _, u := range d.Updates {
			WalkExpr(u.Value, v)
		}
	case ExprClassMemberCall:
		d := e.Data.(ClassMemberCallData)
		for _, a := range d.Args {
			WalkExpr(a, v)
		}
	case ExprReturn:
		d := e.Data.(ReturnData)
		WalkExpr(d.Value, v)
	case ExprLoop:
		d := e.Data.(LoopData)
		WalkExpr(d.Body, v)
	case ExprBreak:
		d := e.Data.(BreakData)
		WalkExpr(d.Value, v)
	case ExprContinue, ExprIntLiteral, ExprCharLiteral, ExprFloatLiteral,
		ExprStringLiteral, ExprArgRef, ExprLambdaRef:
		// leaves
	}
}

// WalkPattern visits id and every sub-pattern (and any guard expression)
// reachable from it.
func WalkPattern(id PatternID, v Visitor) {
	if !id.IsValid() {
		return
	}
	prog := v.Program()
	p := prog.Pattern(id)
	if p == nil {
		return
	}
	v.VisitPattern(id, p)

	switch p.Kind {
	case PatternTuple:
		d := p.Data.(TuplePatternData)
		for _, it := range d.Items {
			WalkPattern(it, v)
		}
	case PatternRecord:
		d := p.Data.(RecordPatternData)
		for _, it := range d.Items {
			WalkPattern(it, v)
		}
	case PatternVariant:
		d := p.Data.(VariantPatternData)
		for _, it := range d.Items {
			WalkPattern(it, v)
		}
	case PatternGuarded:
		d := p.Data.(GuardedPatternData)
		WalkPattern(d.Inner, v)
		WalkExpr(d.Guard, v)
	case PatternTyped:
		d := p.Data.(TypedPatternData)
		WalkPattern(d.Inner, v)
	case PatternBinding, PatternWildcard, PatternLiteral, PatternCharRange:
		// leaves
	}
}
