package codegen

import (
	"errors"
	"fmt"

	"github.com/kievzenit/kscope/internal/ast"
	"github.com/kievzenit/kscope/internal/compiler_errors"
)

var (
	ErrUnknownVariable    = errors.New("unknown variable name")
	ErrUnknownFunction    = errors.New("unknown function referenced")
	ErrArgumentCount      = errors.New("incorrect argument count")
	ErrInvalidOperator    = errors.New("invalid binary operator")
	ErrRedefinition       = errors.New("function cannot be redefined")
	ErrDuplicateParameter = errors.New("duplicate parameter name")
	ErrSignatureMismatch  = errors.New("function redeclared with a different number of parameters")
	ErrVerification       = errors.New("function failed verification")
)

// Error is a generation failure. Kind is one of the Err* sentinels, so
// errors.Is(err, ErrUnknownVariable) matches.
type Error struct {
	Kind    error
	Message string
	// Cause is the backend error behind ErrVerification.
	Cause error

	FileName string
	Line     int
	Column   int
	Length   int
}

func (e *Error) GetMessage() string  { return e.Message }
func (e *Error) GetFileName() string { return e.FileName }
func (e *Error) GetLine() int        { return e.Line }
func (e *Error) GetColumn() int      { return e.Column }
func (e *Error) GetLength() int      { return e.Length }

func (e *Error) Error() string {
	return compiler_errors.Format(e)
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Cause}
}

func (g *Generator) errorf(kind error, node ast.AstNode, format string, args ...any) *Error {
	err := &Error{
		Kind:     kind,
		Message:  fmt.Sprintf("%s: %s", kind, fmt.Sprintf(format, args...)),
		FileName: g.fileName,
	}

	if node != nil {
		if tok := node.FirstToken(); tok != nil {
			err.Line = tok.Metadata.Line
			err.Column = tok.Metadata.Column
			err.Length = tok.Metadata.Length
		}
	}

	return err
}
