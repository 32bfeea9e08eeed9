package parser

import (
	"fmt"

	"github.com/kievzenit/kscope/internal/ast"
	"github.com/kievzenit/kscope/internal/compiler_errors"
	"github.com/kievzenit/kscope/internal/lexer"
)

type position struct {
	FileName string
	Line     int
	Column   int
	Length   int
}

func (p position) GetFileName() string { return p.FileName }
func (p position) GetLine() int        { return p.Line }
func (p position) GetColumn() int      { return p.Column }
func (p position) GetLength() int      { return p.Length }

type UnexpectedExpectedError struct {
	position

	Unexpected lexer.Token
	Expected   string
	// Construct names the grammar rule being parsed, if any.
	Construct string
}

func (e *UnexpectedExpectedError) GetMessage() string {
	if e.Construct == "" {
		return fmt.Sprintf("expected %s, but got %s", e.Expected, e.Unexpected.Describe())
	}

	return fmt.Sprintf("expected %s in %s, but got %s", e.Expected, e.Construct, e.Unexpected.Describe())
}

func (e *UnexpectedExpectedError) Error() string {
	return compiler_errors.Format(e)
}

type UnexpectedError struct {
	position

	Unexpected lexer.Token
}

func (e *UnexpectedError) GetMessage() string {
	return fmt.Sprintf("unexpected token %s when expecting an expression", e.Unexpected.Describe())
}

func (e *UnexpectedError) Error() string {
	return compiler_errors.Format(e)
}

type Parser struct {
	fileName string

	scanner    lexer.TokenScanner
	precedence *PrecedenceTable

	curr *lexer.Token
}

// NewParser reads the first token right away, so on an interactive input it
// blocks until something is typed.
func NewParser(fileName string, scanner lexer.TokenScanner, precedence *PrecedenceTable) *Parser {
	if precedence == nil {
		precedence = DefaultPrecedenceTable()
	}

	return &Parser{
		fileName: fileName,

		scanner:    scanner,
		precedence: precedence,

		curr: scanner.Read(),
	}
}

// Current is the next unconsumed token.
func (p *Parser) Current() *lexer.Token {
	return p.curr
}

// Next drops the current token. The driver uses it to step over a token that
// made a top-level rule fail.
func (p *Parser) Next() *lexer.Token {
	return p.read()
}

// ParseDefinition parses 'def' prototype expression.
func (p *Parser) ParseDefinition() (*ast.FuncDecl, error) {
	if p.curr.Kind != lexer.DEF {
		return nil, p.expected("'def'", "")
	}
	startToken := p.curr
	p.read()

	proto, err := p.parsePrototype()
	if err != nil {
		return nil, err
	}

	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDecl{
		StartToken: startToken,

		Proto: proto,
		Body:  body,
	}, nil
}

// ParseExtern parses 'extern' prototype. The result has no body.
func (p *Parser) ParseExtern() (*ast.FuncDecl, error) {
	if p.curr.Kind != lexer.EXTERN {
		return nil, p.expected("'extern'", "")
	}
	startToken := p.curr
	p.read()

	proto, err := p.parsePrototype()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDecl{
		StartToken: startToken,

		Proto: proto,
	}, nil
}

// ParseTopLevelExpr wraps a bare expression in an anonymous, parameterless
// function.
func (p *Parser) ParseTopLevelExpr() (*ast.FuncDecl, error) {
	startToken := p.curr

	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDecl{
		StartToken: startToken,

		Proto: &ast.Prototype{
			StartToken: startToken,

			Name:   "",
			Params: make([]string, 0),
		},
		Body: body,
	}, nil
}

func (p *Parser) ParseExpression() (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	return p.parseBinOpRhs(0, left)
}

// parseBinOpRhs folds operators that bind at least as tight as minPrecedence
// onto left. When the operator after the right operand binds tighter than
// the current one, that operand is extended first.
func (p *Parser) parseBinOpRhs(minPrecedence int, left ast.Expr) (ast.Expr, error) {
	for {
		op := p.curr
		precedence := p.precedence.Of(op)
		if precedence < minPrecedence {
			return left, nil
		}
		p.read()

		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		if precedence < p.precedence.Of(p.curr) {
			right, err = p.parseBinOpRhs(precedence+1, right)
			if err != nil {
				return nil, err
			}
		}

		left = &ast.BinaryExpr{
			StartToken: left.FirstToken(),

			Op:    op.Char,
			Left:  left,
			Right: right,
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch {
	case p.curr.Kind == lexer.IDENT:
		return p.parseIdentifierExpr()
	case p.curr.Kind == lexer.NUMBER:
		return p.parseNumberExpr(), nil
	case p.curr.Is('('):
		return p.parseParenExpr()
	}

	return nil, p.unexpected()
}

func (p *Parser) parseNumberExpr() *ast.NumberExpr {
	startToken := p.curr
	p.read()

	return &ast.NumberExpr{
		StartToken: startToken,

		Value: startToken.Num,
	}
}

func (p *Parser) parseParenExpr() (ast.Expr, error) {
	p.read()

	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if !p.curr.Is(')') {
		return nil, p.expected("')'", "")
	}
	p.read()

	return expr, nil
}

func (p *Parser) parseIdentifierExpr() (ast.Expr, error) {
	startToken := p.curr
	name := p.curr.Value
	p.read()

	if !p.curr.Is('(') {
		return &ast.VariableExpr{
			StartToken: startToken,

			Name: name,
		}, nil
	}
	p.read()

	args := make([]ast.Expr, 0)
	if !p.curr.Is(')') {
		for {
			arg, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.curr.Is(')') {
				break
			}

			if !p.curr.Is(',') {
				return nil, p.expected("')' or ','", "argument list")
			}
			p.read()
		}
	}
	p.read()

	return &ast.CallExpr{
		StartToken: startToken,

		Callee: name,
		Args:   args,
	}, nil
}

// parsePrototype parses name '(' name* ')'. Parameters are separated by
// whitespace only.
func (p *Parser) parsePrototype() (*ast.Prototype, error) {
	if p.curr.Kind != lexer.IDENT {
		return nil, p.expected("function name", "prototype")
	}
	startToken := p.curr
	name := p.curr.Value
	p.read()

	if !p.curr.Is('(') {
		return nil, p.expected("'('", "prototype")
	}

	params := make([]string, 0)
	for p.read().Kind == lexer.IDENT {
		params = append(params, p.curr.Value)
	}

	if !p.curr.Is(')') {
		return nil, p.expected("')'", "prototype")
	}
	p.read()

	return &ast.Prototype{
		StartToken: startToken,

		Name:   name,
		Params: params,
	}, nil
}

func (p *Parser) read() *lexer.Token {
	p.curr = p.scanner.Read()
	return p.curr
}

func (p *Parser) currPosition() position {
	return position{
		FileName: p.fileName,
		Line:     p.curr.Metadata.Line,
		Column:   p.curr.Metadata.Column,
		Length:   p.curr.Metadata.Length,
	}
}

func (p *Parser) expected(expected string, construct string) *UnexpectedExpectedError {
	return &UnexpectedExpectedError{
		position: p.currPosition(),

		Unexpected: *p.curr,
		Expected:   expected,
		Construct:  construct,
	}
}

func (p *Parser) unexpected() *UnexpectedError {
	return &UnexpectedError{
		position: p.currPosition(),

		Unexpected: *p.curr,
	}
}
