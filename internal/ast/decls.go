package ast

import (
	"slices"

	"github.com/kievzenit/kscope/internal/lexer"
)

// Prototype is a function signature. An empty Name marks the wrapper the
// parser builds around a top-level expression.
type Prototype struct {
	StartToken *lexer.Token

	Name   string
	Params []string
}

func (p *Prototype) IsAnonymous() bool {
	return p.Name == ""
}

// FuncDecl is a definition when Body is set and an extern otherwise.
type FuncDecl struct {
	StartToken *lexer.Token

	Proto *Prototype
	Body  Expr
}

func (f *FuncDecl) IsExtern() bool {
	return f.Body == nil
}

func (p *Prototype) AstNode() {}
func (f *FuncDecl) AstNode()  {}

func (p *Prototype) FirstToken() *lexer.Token { return p.StartToken }
func (f *FuncDecl) FirstToken() *lexer.Token  { return f.StartToken }

func EqualPrototype(a, b *Prototype) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Name == b.Name && slices.Equal(a.Params, b.Params)
}

func EqualFuncDecl(a, b *FuncDecl) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return EqualPrototype(a.Proto, b.Proto) && Equal(a.Body, b.Body)
}
