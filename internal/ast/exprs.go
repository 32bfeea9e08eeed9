package ast

import "github.com/kievzenit/kscope/internal/lexer"

type NumberExpr struct {
	StartToken *lexer.Token

	Value float64
}

type VariableExpr struct {
	StartToken *lexer.Token

	Name string
}

type BinaryExpr struct {
	StartToken *lexer.Token

	Op    byte
	Left  Expr
	Right Expr
}

type CallExpr struct {
	StartToken *lexer.Token

	Callee string
	Args   []Expr
}

func (n *NumberExpr) AstNode()   {}
func (v *VariableExpr) AstNode() {}
func (b *BinaryExpr) AstNode()   {}
func (c *CallExpr) AstNode()     {}

func (n *NumberExpr) exprNode()   {}
func (v *VariableExpr) exprNode() {}
func (b *BinaryExpr) exprNode()   {}
func (c *CallExpr) exprNode()     {}

func (n *NumberExpr) FirstToken() *lexer.Token   { return n.StartToken }
func (v *VariableExpr) FirstToken() *lexer.Token { return v.StartToken }
func (b *BinaryExpr) FirstToken() *lexer.Token   { return b.StartToken }
func (c *CallExpr) FirstToken() *lexer.Token     { return c.StartToken }

// Equal reports whether two expression trees have the same shape and
// payloads. Source positions are ignored.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch a := a.(type) {
	case *NumberExpr:
		b, ok := b.(*NumberExpr)
		return ok && a.Value == b.Value
	case *VariableExpr:
		b, ok := b.(*VariableExpr)
		return ok && a.Name == b.Name
	case *BinaryExpr:
		b, ok := b.(*BinaryExpr)
		return ok && a.Op == b.Op && Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case *CallExpr:
		b, ok := b.(*CallExpr)
		if !ok || a.Callee != b.Callee || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	default:
		panic("unreachable")
	}
}
