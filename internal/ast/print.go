package ast

import (
	"strconv"
	"strings"
)

// String renders e as source text that parses back to an equal tree.
// Binary expressions are always parenthesised.
func String(e Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *NumberExpr:
		sb.WriteString(strconv.FormatFloat(e.Value, 'f', -1, 64))
	case *VariableExpr:
		sb.WriteString(e.Name)
	case *BinaryExpr:
		sb.WriteByte('(')
		writeExpr(sb, e.Left)
		sb.WriteByte(' ')
		sb.WriteByte(e.Op)
		sb.WriteByte(' ')
		writeExpr(sb, e.Right)
		sb.WriteByte(')')
	case *CallExpr:
		sb.WriteString(e.Callee)
		sb.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeExpr(sb, arg)
		}
		sb.WriteByte(')')
	case nil:
		sb.WriteString("<nil>")
	default:
		panic("unreachable")
	}
}

func (p *Prototype) String() string {
	return p.Name + "(" + strings.Join(p.Params, " ") + ")"
}

func (f *FuncDecl) String() string {
	switch {
	case f.IsExtern():
		return "extern " + f.Proto.String()
	case f.Proto.IsAnonymous():
		return String(f.Body)
	}

	return "def " + f.Proto.String() + " " + String(f.Body)
}
