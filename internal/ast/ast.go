package ast

import (
	"regexp"

	"github.com/kievzenit/kscope/internal/lexer"
	"github.com/sanity-io/litter"
)

type AstNode interface {
	AstNode()
	FirstToken() *lexer.Token
}

// Expr is one of *NumberExpr, *VariableExpr, *BinaryExpr or *CallExpr.
// The set is closed: exprNode is unexported.
type Expr interface {
	AstNode
	exprNode()
}

var dumpOptions = litter.Options{
	StripPackageNames: true,
	HidePrivateFields: true,
	FieldExclusions:   regexp.MustCompile(`^StartToken$`),
}

// Dump renders a node tree for debugging output.
func Dump(node any) string {
	return dumpOptions.Sdump(node)
}
