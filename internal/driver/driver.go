package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/kievzenit/kscope/internal/ast"
	"github.com/kievzenit/kscope/internal/codegen"
	"github.com/kievzenit/kscope/internal/compiler_errors"
	"github.com/kievzenit/kscope/internal/ir"
	"github.com/kievzenit/kscope/internal/lexer"
	"github.com/kievzenit/kscope/internal/parser"
)

type Options struct {
	Out    io.Writer
	Logger *slog.Logger

	EmitAST bool
	EmitIR  bool
	// Eval runs each top-level expression and prints its value.
	Eval bool
}

// Driver reads top-level constructs until the end of input and hands each
// one to the generator. A nil generator only parses.
type Driver struct {
	parser    *parser.Parser
	generator *codegen.Generator
	errs      compiler_errors.ErrorHandler

	out     io.Writer
	logger  *slog.Logger
	options Options

	warnedNoEval bool
}

func NewDriver(
	p *parser.Parser,
	generator *codegen.Generator,
	errs compiler_errors.ErrorHandler,
	options Options,
) *Driver {
	out := options.Out
	if out == nil {
		out = io.Discard
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Driver{
		parser:    p,
		generator: generator,
		errs:      errs,

		out:     out,
		logger:  logger,
		options: options,
	}
}

// Run returns nil at the end of input and the context error when ctx is
// done. It checks ctx only between constructs. Errors in the input are
// reported to the error handler and do not stop the loop.
func (d *Driver) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		curr := d.parser.Current()
		switch {
		case curr.Kind == lexer.EOF:
			return nil
		case curr.Is(';'):
			d.parser.Next()
		case curr.Kind == lexer.DEF:
			d.handleDefinition()
		case curr.Kind == lexer.EXTERN:
			d.handleExtern()
		default:
			d.handleTopLevelExpression()
		}

		d.errs.Flush()
	}
}

func (d *Driver) handleDefinition() {
	decl, err := d.parser.ParseDefinition()
	if err != nil {
		d.skip(err)
		return
	}

	d.handle(decl, "Parsed a function definition.", "Read function definition:")
}

func (d *Driver) handleExtern() {
	decl, err := d.parser.ParseExtern()
	if err != nil {
		d.skip(err)
		return
	}

	d.handle(decl, "Parsed an extern.", "Read extern:")
}

func (d *Driver) handleTopLevelExpression() {
	decl, err := d.parser.ParseTopLevelExpr()
	if err != nil {
		d.skip(err)
		return
	}

	d.handle(decl, "Parsed a top-level expression.", "Read top-level expression:")
}

// skip reports a parse error and drops one token so the loop makes
// progress.
func (d *Driver) skip(err error) {
	d.report(err)
	d.parser.Next()
}

func (d *Driver) handle(decl *ast.FuncDecl, parsed string, read string) {
	if d.options.EmitAST {
		fmt.Fprintln(d.out, ast.Dump(decl))
	}

	if d.generator == nil {
		fmt.Fprintln(d.out, parsed)
		return
	}

	fn, err := d.generator.Generate(decl)
	if err != nil {
		d.report(err)
		return
	}

	if d.options.EmitIR {
		fmt.Fprintln(d.out, read)
		fmt.Fprint(d.out, fn.String())
	}

	if !decl.Proto.IsAnonymous() {
		return
	}

	if d.options.Eval {
		d.evaluate(fn)
	}
	fn.Erase()
}

func (d *Driver) evaluate(fn ir.Function) {
	exec, ok := fn.(ir.Executable)
	if !ok {
		if !d.warnedNoEval {
			d.logger.Warn("backend cannot evaluate expressions")
			d.warnedNoEval = true
		}
		return
	}

	value, err := exec.Call()
	if err != nil {
		d.report(&EvalError{Err: err})
		return
	}

	fmt.Fprintf(d.out, "Evaluated to %f\n", value)
}

func (d *Driver) report(err error) {
	d.logger.Debug("construct failed", "error", err)

	var compilerErr compiler_errors.CompilerError
	if errors.As(err, &compilerErr) {
		d.errs.AddError(compilerErr)
		return
	}

	d.errs.AddError(plainError{err})
}

type plainError struct {
	err error
}

func (e plainError) GetMessage() string {
	return e.err.Error()
}

// EvalError is a failure while running a top-level expression.
type EvalError struct {
	Err error
}

func (e *EvalError) GetMessage() string {
	return "evaluation failed: " + e.Err.Error()
}

func (e *EvalError) Error() string {
	return e.GetMessage()
}

func (e *EvalError) Unwrap() error {
	return e.Err
}
