package mir

import (
	"fmt"
	"io"
)

// Dump writes a deterministic textual rendering of p: typedefs, then
// functions in ascending FuncID order, each body rendered as an
// s-expression-flavoured tree. This stands in for the out-of-scope
// external emitter so the pipeline's end state stays inspectable and
// its determinism testable (SPEC_FULL §2 supplemented feature).
func Dump(w io.Writer, p *Program) {
	p.TypeDefs.Each(func(id TypeDefID, td TypeDef) {
		dumpTypeDef(w, &td)
	})
	p.Funcs.Each(func(id FuncID, f Function) {
		dumpFunction(w, p, &f)
	})
}

func dumpTypeDef(w io.Writer, td *TypeDef) {
	switch td.Kind {
	case TypeDefRecord:
		fmt.Fprintf(w, "record %s#%d {\n", td.Record.Name, td.Record.ID)
		for _, f := range td.Record.Fields {
			fmt.Fprintf(w, "  %s: %s\n", f.Name, f.Type.Signature())
		}
		fmt.Fprintln(w, "}")
	case TypeDefAdt:
		fmt.Fprintf(w, "adt %s#%d {\n", td.Adt.Name, td.Adt.ID)
		for _, v := range td.Adt.Variants {
			fmt.Fprintf(w, "  %s(", v.Name)
			for i, it := range v.Items {
				if i > 0 {
					fmt.Fprint(w, ", ")
				}
				fmt.Fprint(w, it.Type.Signature())
			}
			fmt.Fprintln(w, ")")
		}
		fmt.Fprintln(w, "}")
	}
}

func dumpFunction(w io.Writer, p *Program, f *Function) {
	fmt.Fprintf(w, "fn %s#%d: %s\n", f.Name, f.ID, f.Type.Signature())
	switch f.InfoKind {
	case FunctionNormal, FunctionExternClassImpl:
		fmt.Fprint(w, "  ")
		dumpExpr(w, p, f.Body, 1)
		fmt.Fprintln(w)
	case FunctionExtern:
		fmt.Fprintf(w, "  extern %q\n", f.ExternName)
	case FunctionVariantConstructor:
		fmt.Fprintf(w, "  variant-ctor #%d[%d]\n", f.VariantTypeDefID, f.VariantIndex)
	case FunctionRecordConstructor:
		fmt.Fprintf(w, "  record-ctor #%d\n", f.RecordTypeDefID)
	}
}

func dumpExpr(w io.Writer, p *Program, id ExprID, depth int) {
	e := p.Expr(id)
	if e == nil {
		fmt.Fprint(w, "<missing-expr>")
		return
	}
	switch e.Kind {
	case ExprIntLiteral:
		fmt.Fprintf(w, "%d", e.Data.(IntLiteralData).Value)
	case ExprCharLiteral:
		fmt.Fprintf(w, "%q", e.Data.(CharLiteralData).Value)
	case ExprFloatLiteral:
		fmt.Fprintf(w, "%g", e.Data.(FloatLiteralData).Value)
	case ExprStringLiteral:
		fmt.Fprintf(w, "%q", e.Data.(StringLiteralData).Value)
	case ExprArgRef:
		fmt.Fprintf(w, "arg%d", e.Data.(ArgRefData).Index)
	case ExprFunctionRef:
		fmt.Fprintf(w, "fnref#%d", e.Data.(FunctionRefData).Function)
	case ExprStaticFunctionCall:
		d := e.Data.(StaticFunctionCallData)
		fmt.Fprintf(w, "call#%d(", d.Function)
		dumpExprList(w, p, d.Args, depth)
		fmt.Fprint(w, ")")
	case ExprDynamicFunctionCall:
		d := e.Data.(DynamicFunctionCallData)
		fmt.Fprint(w, "dyncall(")
		dumpExpr(w, p, d.Receiver, depth)
		fmt.Fprint(w, "; ")
		dumpExprList(w, p, d.Args, depth)
		fmt.Fprint(w, ")")
	case ExprPartialApplication:
		d := e.Data.(PartialApplicationData)
		fmt.Fprintf(w, "partial#%d(fn#%d; ", d.PartialCallID, d.Function)
		dumpExprList(w, p, d.Args, depth)
		fmt.Fprint(w, ")")
	case ExprDo:
		d := e.Data.(DoData)
		fmt.Fprint(w, "do {\n")
		for _, it := range d.Items {
			indent(w, depth+1)
			dumpExpr(w, p, it, depth+1)
			fmt.Fprintln(w)
		}
		indent(w, depth)
		fmt.Fprint(w, "}")
	case ExprLet:
		d := e.Data.(LetData)
		fmt.Fprint(w, "let ")
		dumpPattern(w, p, d.Pattern)
		fmt.Fprint(w, " = ")
		dumpExpr(w, p, d.Value, depth)
		fmt.Fprint(w, " in ")
		dumpExpr(w, p, d.Body, depth)
	case ExprValue:
		dumpPattern(w, p, e.Data.(ValueData).Pattern)
	case ExprDeref:
		fmt.Fprint(w, "*(")
		dumpExpr(w, p, e.Data.(DerefData).Inner, depth)
		fmt.Fprint(w, ")")
	case ExprClone:
		fmt.Fprint(w, "clone(")
		dumpExpr(w, p, e.Data.(CloneData).Inner, depth)
		fmt.Fprint(w, ")")
	case ExprIf:
		d := e.Data.(IfData)
		fmt.Fprint(w, "if ")
		dumpExpr(w, p, d.Cond, depth)
		fmt.Fprint(w, " then ")
		dumpExpr(w, p, d.Then, depth)
		fmt.Fprint(w, " else ")
		dumpExpr(w, p, d.Else, depth)
	case ExprTuple:
		fmt.Fprint(w, "(")
		dumpExprList(w, p, e.Data.(TupleData).Items, depth)
		fmt.Fprint(w, ")")
	case ExprList:
		fmt.Fprint(w, "[")
		dumpExprList(w, p, e.Data.(ListData).Items, depth)
		fmt.Fprint(w, "]")
	case ExprTupleIndex:
		d := e.Data.(TupleIndexData)
		dumpExpr(w, p, d.Receiver, depth)
		fmt.Fprintf(w, ".%d", d.Index)
	case ExprFieldAccess:
		d := e.Data.(FieldAccessData)
		dumpExpr(w, p, d.Receiver, depth)
		fmt.Fprintf(w, ".field#%d[%d]", d.TypeDefID, d.FieldIndex)
	case ExprRecordInit:
		d := e.Data.(RecordInitData)
		fmt.Fprintf(w, "record#%d{", d.TypeDefID)
		dumpExprList(w, p, d.Fields, depth)
		fmt.Fprint(w, "}")
	case ExprRecordUpdate:
		d := e.Data.(RecordUpdateData)
		dumpExpr(w, p, d.Receiver, depth)
		fmt.Fprint(w, " with {")
		for i, u := range d.Updates {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprintf(w, "%d=", u.Index)
			dumpExpr(w, p, u.Value, depth)
		}
		fmt.Fprint(w, "}")
	case ExprReturn:
		fmt.Fprint(w, "return ")
		dumpExpr(w, p, e.Data.(ReturnData).Value, depth)
	case ExprLoop:
		d := e.Data.(LoopData)
		fmt.Fprintf(w, "loop#%d ", d.Label)
		dumpExpr(w, p, d.Body, depth)
	case ExprBreak:
		d := e.Data.(BreakData)
		fmt.Fprintf(w, "break#%d ", d.Label)
		dumpExpr(w, p, d.Value, depth)
	case ExprContinue:
		fmt.Fprintf(w, "continue#%d", e.Data.(ContinueData).Label)
	case ExprVariantIs:
		d := e.Data.(VariantIsData)
		dumpExpr(w, p, d.Receiver, depth)
		fmt.Fprintf(w, " is#%d[%d]", d.TypeDefID, d.VariantIndex)
	case ExprVariantAccess:
		d := e.Data.(VariantAccessData)
		dumpExpr(w, p, d.Receiver, depth)
		fmt.Fprintf(w, ".variant#%d[%d].%d", d.TypeDefID, d.VariantIndex, d.ItemIndex)
	}
}

func dumpExprList(w io.Writer, p *Program, items []ExprID, depth int) {
	for i, it := range items {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		dumpExpr(w, p, it, depth)
	}
}

func dumpPattern(w io.Writer, p *Program, id PatternID) {
	pat := p.Pattern(id)
	if pat == nil {
		fmt.Fprint(w, "<missing-pattern>")
		return
	}
	switch pat.Kind {
	case PatternBinding:
		fmt.Fprint(w, pat.Data.(BindingData).Name)
	case PatternWildcard:
		fmt.Fprint(w, "_")
	case PatternTuple:
		fmt.Fprint(w, "(")
		for i, it := range pat.Data.(TuplePatternData).Items {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			dumpPattern(w, p, it)
		}
		fmt.Fprint(w, ")")
	case PatternRecord:
		d := pat.Data.(RecordPatternData)
		fmt.Fprintf(w, "record#%d{", d.TypeDefID)
		for i, it := range d.Items {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			dumpPattern(w, p, it)
		}
		fmt.Fprint(w, "}")
	case PatternVariant:
		d := pat.Data.(VariantPatternData)
		fmt.Fprintf(w, "variant#%d[%d](", d.TypeDefID, d.Index)
		for i, it := range d.Items {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			dumpPattern(w, p, it)
		}
		fmt.Fprint(w, ")")
	case PatternGuarded:
		d := pat.Data.(GuardedPatternData)
		dumpPattern(w, p, d.Inner)
		fmt.Fprint(w, " if ")
		dumpExpr(w, p, d.Guard, 0)
	case PatternIntegerLiteral:
		fmt.Fprintf(w, "%d", pat.Data.(IntegerLiteralPatternData).Value)
	case PatternCharLiteral:
		fmt.Fprintf(w, "%q", pat.Data.(CharLiteralPatternData).Value)
	case PatternStringLiteral:
		fmt.Fprintf(w, "%q", pat.Data.(StringLiteralPatternData).Value)
	case PatternCharRange:
		d := pat.Data.(CharRangePatternData)
		sep := ".."
		if d.Kind == RangeInclusive {
			sep = "..="
		}
		fmt.Fprintf(w, "%q%s%q", d.Start, sep, d.End)
	}
}

func indent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		fmt.Fprint(w, "  ")
	}
}
