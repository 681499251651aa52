package mir

// Visitor receives every expression and pattern reachable from a walked
// root, parent before children (pre-order). Passes that mutate nodes in
// place (legalize, boxprop, mirpass) typically implement this against a
// *Program held by the visitor itself and call Program.UpdateExpr from
// within VisitExpr.
type Visitor interface {
	Program() *Program
	VisitExpr(id ExprID, e *Expr)
	VisitPattern(id PatternID, p *Pattern)
}

// WalkExpr visits id and everything reachable from it.
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
	case ExprStaticFunctionCall:
		d := e.Data.(StaticFunctionCallData)
		for _, a := range d.Args {
			WalkExpr(a, v)
		}
	case ExprDynamicFunctionCall:
		d := e.Data.(DynamicFunctionCallData)
		WalkExpr(d.Receiver, v)
		for _, a := range d.Args {
			WalkExpr(a, v)
		}
	case ExprPartialApplication:
		d := e.Data.(PartialApplicationData)
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
	case ExprDeref:
		d := e.Data.(DerefData)
		WalkExpr(d.Inner, v)
	case ExprClone:
		d := e.Data.(CloneData)
		WalkExpr(d.Inner, v)
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
	case ExprReturn:
		d := e.Data.(ReturnData)
		WalkExpr(d.Value, v)
	case ExprLoop:
		d := e.Data.(LoopData)
		WalkExpr(d.Body, v)
	case ExprBreak:
		d := e.Data.(BreakData)
		WalkExpr(d.Value, v)
	case ExprVariantIs:
		d := e.Data.(VariantIsData)
		WalkExpr(d.Receiver, v)
	case ExprVariantAccess:
		d := e.Data.(VariantAccessData)
		WalkExpr(d.Receiver, v)
	case ExprContinue, ExprIntLiteral, ExprCharLiteral, ExprFloatLiteral,
		ExprStringLiteral, ExprArgRef, ExprFunctionRef:
		// leaves
	}
}

// WalkPattern visits id and every sub-pattern (and any guard
// expression) reachable from it.
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
	case PatternBinding, PatternWildcard, PatternIntegerLiteral,
		PatternCharLiteral, PatternStringLiteral, PatternCharRange:
		// leaves
	}
}
