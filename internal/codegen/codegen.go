package codegen

import (
	"fmt"
	"log/slog"

	"github.com/kievzenit/kscope/internal/ast"
	"github.com/kievzenit/kscope/internal/ir"
)

// Generator lowers parsed declarations into functions of one module. It is
// not safe for concurrent use.
type Generator struct {
	fileName string

	module  ir.Module
	builder ir.Builder
	logger  *slog.Logger

	// namedValues holds the parameters of the function being generated.
	namedValues map[string]ir.Value
}

func NewGenerator(module ir.Module, builder ir.Builder, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Generator{
		module:  module,
		builder: builder,
		logger:  logger,

		namedValues: make(map[string]ir.Value),
	}
}

// SetFileName sets the file name reported in errors.
func (g *Generator) SetFileName(fileName string) {
	g.fileName = fileName
}

func (g *Generator) Module() ir.Module {
	return g.module
}

// Generate declares an extern or generates a definition.
func (g *Generator) Generate(decl *ast.FuncDecl) (ir.Function, error) {
	if decl.IsExtern() {
		return g.GenPrototype(decl.Proto)
	}

	return g.GenFunction(decl)
}

// GenPrototype returns the module function for proto, declaring it when it
// does not exist yet. Anonymous prototypes always get a fresh declaration.
func (g *Generator) GenPrototype(proto *ast.Prototype) (ir.Function, error) {
	if name, ok := duplicateParam(proto.Params); ok {
		return nil, g.errorf(ErrDuplicateParameter, proto, "'%s' in '%s'", name, proto.Name)
	}

	if !proto.IsAnonymous() {
		if existing := g.module.NamedFunction(proto.Name); existing != nil {
			if existing.ParamsCount() != len(proto.Params) {
				return nil, g.errorf(
					ErrSignatureMismatch,
					proto,
					"'%s' was declared with %d, now %d",
					proto.Name,
					existing.ParamsCount(),
					len(proto.Params),
				)
			}

			return existing, nil
		}
	}

	fn := g.module.AddFunction(proto.Name, len(proto.Params))
	bindParamNames(fn, proto.Params)

	g.logger.Debug("declared function", "name", proto.Name, "params", len(proto.Params))
	return fn, nil
}

// GenFunction generates the body of decl. On failure no function is left
// half built: a redefinition leaves the existing one untouched, a function
// declared here is removed, and an earlier declaration keeps its parameter
// names and loses only the new body.
func (g *Generator) GenFunction(decl *ast.FuncDecl) (ir.Function, error) {
	proto := decl.Proto

	var existing ir.Function
	if !proto.IsAnonymous() {
		existing = g.module.NamedFunction(proto.Name)
	}
	if existing != nil && existing.BasicBlocksCount() > 0 {
		return nil, g.errorf(ErrRedefinition, decl, "'%s'", proto.Name)
	}

	fn, err := g.GenPrototype(proto)
	if err != nil {
		return nil, err
	}

	var declaredNames []string
	if existing != nil {
		declaredNames = paramNames(existing)
	}
	bindParamNames(fn, proto.Params)

	entry := fn.AppendBasicBlock("entry")
	g.builder.SetInsertPointAtEnd(entry)

	g.namedValues = make(map[string]ir.Value, len(proto.Params))
	for i, param := range fn.Params() {
		g.namedValues[proto.Params[i]] = param
	}

	retValue, err := g.GenExpr(decl.Body)
	if err != nil {
		g.discard(fn, existing != nil, declaredNames)
		return nil, err
	}
	g.builder.CreateRet(retValue)

	if verifyErr := g.module.VerifyFunction(fn); verifyErr != nil {
		g.discard(fn, existing != nil, declaredNames)

		err := g.errorf(ErrVerification, decl, "'%s'", proto.Name)
		err.Cause = verifyErr
		return nil, err
	}

	g.logger.Debug("generated function", "name", proto.Name, "anonymous", proto.IsAnonymous())
	return fn, nil
}

// discard rolls back a failed body. Functions generated earlier may already
// call a declaration, so it stays in the module.
func (g *Generator) discard(fn ir.Function, declared bool, declaredNames []string) {
	if !declared {
		fn.Erase()
		return
	}

	fn.DeleteBody()
	bindParamNames(fn, declaredNames)
	g.logger.Debug("discarded function body", "name", fn.Name())
}

// GenExpr emits expr at the builder's insertion point.
func (g *Generator) GenExpr(expr ast.Expr) (ir.Value, error) {
	switch expr := expr.(type) {
	case *ast.NumberExpr:
		return g.builder.ConstFloat(expr.Value), nil
	case *ast.VariableExpr:
		return g.emitForVariableExpr(expr)
	case *ast.BinaryExpr:
		return g.emitForBinaryExpr(expr)
	case *ast.CallExpr:
		return g.emitForCallExpr(expr)
	default:
		panic(fmt.Sprintf("codegen: unexpected expression %T", expr))
	}
}

func (g *Generator) emitForVariableExpr(variableExpr *ast.VariableExpr) (ir.Value, error) {
	value, ok := g.namedValues[variableExpr.Name]
	if !ok {
		return nil, g.errorf(ErrUnknownVariable, variableExpr, "'%s'", variableExpr.Name)
	}

	return value, nil
}

func (g *Generator) emitForBinaryExpr(binaryExpr *ast.BinaryExpr) (ir.Value, error) {
	lhs, err := g.GenExpr(binaryExpr.Left)
	if err != nil {
		return nil, err
	}

	rhs, err := g.GenExpr(binaryExpr.Right)
	if err != nil {
		return nil, err
	}

	switch binaryExpr.Op {
	case '+':
		return g.builder.CreateFAdd(lhs, rhs, "addtmp"), nil
	case '-':
		return g.builder.CreateFSub(lhs, rhs, "subtmp"), nil
	case '*':
		return g.builder.CreateFMul(lhs, rhs, "multmp"), nil
	case '/':
		return g.builder.CreateFDiv(lhs, rhs, "divtmp"), nil
	case '<':
		cmp := g.builder.CreateFCmpULT(lhs, rhs, "cmptmp")
		return g.builder.CreateUIToFP(cmp, "booltmp"), nil
	}

	return nil, g.errorf(ErrInvalidOperator, binaryExpr, "'%c'", binaryExpr.Op)
}

func (g *Generator) emitForCallExpr(callExpr *ast.CallExpr) (ir.Value, error) {
	callee := g.module.NamedFunction(callExpr.Callee)
	if callee == nil {
		return nil, g.errorf(ErrUnknownFunction, callExpr, "'%s'", callExpr.Callee)
	}

	if callee.ParamsCount() != len(callExpr.Args) {
		return nil, g.errorf(
			ErrArgumentCount,
			callExpr,
			"'%s' takes %d, got %d",
			callExpr.Callee,
			callee.ParamsCount(),
			len(callExpr.Args),
		)
	}

	args := make([]ir.Value, 0, len(callExpr.Args))
	for _, arg := range callExpr.Args {
		value, err := g.GenExpr(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}

	return g.builder.CreateCall(callee, args, "calltmp"), nil
}

// bindParamNames renames the parameters of fn. Old names are dropped first so
// that swapping two names does not leave a suffixed one behind.
func bindParamNames(fn ir.Function, names []string) {
	for i := range names {
		fn.SetParamName(i, "")
	}
	for i, name := range names {
		fn.SetParamName(i, name)
	}
}

func paramNames(fn ir.Function) []string {
	params := fn.Params()
	names := make([]string, 0, len(params))
	for _, param := range params {
		names = append(names, param.Name())
	}

	return names
}

func duplicateParam(params []string) (string, bool) {
	seen := make(map[string]struct{}, len(params))
	for _, param := range params {
		if _, ok := seen[param]; ok {
			return param, true
		}
		seen[param] = struct{}{}
	}

	return "", false
}
