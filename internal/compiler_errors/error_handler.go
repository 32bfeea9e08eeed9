package compiler_errors

import (
	"fmt"
	"io"
)

type CompilerError interface {
	GetMessage() string
}

// PositionalError is a CompilerError that knows where in the source it
// happened. A zero line means the position is unknown.
type PositionalError interface {
	CompilerError
	GetFileName() string
	GetLine() int
	GetColumn() int
	GetLength() int
}

type ErrorHandler interface {
	AddError(err CompilerError)
	Errors() []CompilerError
	HasErrors() bool
	// Flush writes the collected errors and forgets them.
	Flush()
}

type CompilerErrorHandler struct {
	errors []CompilerError
	total  int
	writer io.Writer
}

func NewErrorHandler(outputWriter io.Writer) ErrorHandler {
	return &CompilerErrorHandler{
		errors: make([]CompilerError, 0),
		writer: outputWriter,
	}
}

func (eh *CompilerErrorHandler) AddError(err CompilerError) {
	eh.errors = append(eh.errors, err)
	eh.total++
}

func (eh *CompilerErrorHandler) Errors() []CompilerError {
	return eh.errors
}

// HasErrors reports whether any error was ever added, flushed or not.
func (eh *CompilerErrorHandler) HasErrors() bool {
	return eh.total > 0
}

func (eh *CompilerErrorHandler) Flush() {
	for _, err := range eh.errors {
		fmt.Fprintf(eh.writer, "ERROR: %s\n", Format(err))
	}
	eh.errors = eh.errors[:0]
}

// Format prefixes the message with file:line:col when err carries a position.
func Format(err CompilerError) string {
	pe, ok := err.(PositionalError)
	if !ok || pe.GetLine() == 0 {
		return err.GetMessage()
	}

	if pe.GetFileName() == "" {
		return fmt.Sprintf("%d:%d: %s", pe.GetLine(), pe.GetColumn(), pe.GetMessage())
	}

	return fmt.Sprintf("%s:%d:%d: %s", pe.GetFileName(), pe.GetLine(), pe.GetColumn(), pe.GetMessage())
}
