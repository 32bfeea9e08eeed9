// Package llvmir builds LLVM IR through the LLVM C API.
package llvmir

import (
	"github.com/kievzenit/kscope/internal/ir"
	"tinygo.org/x/go-llvm"
)

type Module struct {
	context llvm.Context
	module  llvm.Module

	doubleType llvm.Type
}

var _ ir.Module = (*Module)(nil)

func NewModule(name string) *Module {
	context := llvm.NewContext()
	return &Module{
		context: context,
		module:  context.NewModule(name),

		doubleType: context.DoubleType(),
	}
}

// NewBuilder returns a builder bound to the module's context.
func (m *Module) NewBuilder() *Builder {
	return &Builder{
		module:  m,
		builder: m.context.NewBuilder(),
	}
}

func (m *Module) LLVMModule() llvm.Module {
	return m.module
}

func (m *Module) NamedFunction(name string) ir.Function {
	if name == "" {
		return nil
	}

	fn := m.module.NamedFunction(name)
	if fn.IsNil() {
		return nil
	}

	return m.wrap(fn)
}

func (m *Module) AddFunction(name string, paramsCount int) ir.Function {
	paramsTypes := make([]llvm.Type, paramsCount)
	for i := range paramsTypes {
		paramsTypes[i] = m.doubleType
	}

	funcType := llvm.FunctionType(m.doubleType, paramsTypes, false)
	funcValue := llvm.AddFunction(m.module, name, funcType)
	funcValue.SetLinkage(llvm.ExternalLinkage)

	return m.wrap(funcValue)
}

func (m *Module) VerifyFunction(fn ir.Function) error {
	return llvm.VerifyFunction(fn.(*Function).value, llvm.ReturnStatusAction)
}

func (m *Module) Functions() []ir.Function {
	functions := make([]ir.Function, 0)
	for fn := m.module.FirstFunction(); !fn.IsNil(); fn = llvm.NextFunction(fn) {
		functions = append(functions, m.wrap(fn))
	}

	return functions
}

func (m *Module) String() string {
	return m.module.String()
}

// Dispose frees the module and its context. Nothing built from m may be used
// afterwards.
func (m *Module) Dispose() {
	m.module.Dispose()
	m.context.Dispose()
}

func (m *Module) wrap(fn llvm.Value) *Function {
	return &Function{
		module: m,
		value:  fn,
	}
}

type Value struct {
	value llvm.Value
}

var _ ir.Value = Value{}

func (v Value) Name() string {
	return v.value.Name()
}

func (v Value) LLVMValue() llvm.Value {
	return v.value
}

type BasicBlock struct {
	block llvm.BasicBlock
}

var _ ir.BasicBlock = BasicBlock{}

func (b BasicBlock) Name() string {
	return b.block.AsValue().Name()
}

type Function struct {
	module *Module
	value  llvm.Value
}

var _ ir.Function = (*Function)(nil)

func (f *Function) Name() string {
	return f.value.Name()
}

func (f *Function) Params() []ir.Value {
	params := make([]ir.Value, 0, f.value.ParamsCount())
	for _, param := range f.value.Params() {
		params = append(params, Value{param})
	}

	return params
}

func (f *Function) ParamsCount() int {
	return f.value.ParamsCount()
}

func (f *Function) SetParamName(i int, name string) {
	f.value.Param(i).SetName(name)
}

func (f *Function) BasicBlocksCount() int {
	return f.value.BasicBlocksCount()
}

func (f *Function) AppendBasicBlock(name string) ir.BasicBlock {
	return BasicBlock{f.module.context.AddBasicBlock(f.value, name)}
}

func (f *Function) DeleteBody() {
	for _, block := range f.value.BasicBlocks() {
		block.EraseFromParent()
	}
}

func (f *Function) Erase() {
	f.value.EraseFromParentAsFunction()
}

func (f *Function) String() string {
	return f.value.String()
}

func (f *Function) LLVMValue() llvm.Value {
	return f.value
}

type Builder struct {
	module  *Module
	builder llvm.Builder
}

var _ ir.Builder = (*Builder)(nil)

func (b *Builder) SetInsertPointAtEnd(block ir.BasicBlock) {
	b.builder.SetInsertPointAtEnd(block.(BasicBlock).block)
}

func (b *Builder) ConstFloat(value float64) ir.Value {
	return Value{llvm.ConstFloat(b.module.doubleType, value)}
}

func (b *Builder) CreateFAdd(lhs, rhs ir.Value, name string) ir.Value {
	return Value{b.builder.CreateFAdd(unwrap(lhs), unwrap(rhs), name)}
}

func (b *Builder) CreateFSub(lhs, rhs ir.Value, name string) ir.Value {
	return Value{b.builder.CreateFSub(unwrap(lhs), unwrap(rhs), name)}
}

func (b *Builder) CreateFMul(lhs, rhs ir.Value, name string) ir.Value {
	return Value{b.builder.CreateFMul(unwrap(lhs), unwrap(rhs), name)}
}

func (b *Builder) CreateFDiv(lhs, rhs ir.Value, name string) ir.Value {
	return Value{b.builder.CreateFDiv(unwrap(lhs), unwrap(rhs), name)}
}

func (b *Builder) CreateFCmpULT(lhs, rhs ir.Value, name string) ir.Value {
	return Value{b.builder.CreateFCmp(llvm.FloatULT, unwrap(lhs), unwrap(rhs), name)}
}

func (b *Builder) CreateUIToFP(value ir.Value, name string) ir.Value {
	return Value{b.builder.CreateUIToFP(unwrap(value), b.module.doubleType, name)}
}

func (b *Builder) CreateCall(fn ir.Function, args []ir.Value, name string) ir.Value {
	funcValue := fn.(*Function).value

	llvmArgs := make([]llvm.Value, 0, len(args))
	for _, arg := range args {
		llvmArgs = append(llvmArgs, unwrap(arg))
	}

	return Value{b.builder.CreateCall(funcValue.GlobalValueType(), funcValue, llvmArgs, name)}
}

func (b *Builder) CreateRet(value ir.Value) {
	b.builder.CreateRet(unwrap(value))
}

func (b *Builder) Dispose() {
	b.builder.Dispose()
}

func unwrap(v ir.Value) llvm.Value {
	switch v := v.(type) {
	case Value:
		return v.value
	case *Function:
		return v.value
	}

	panic("llvmir: value from another backend")
}
