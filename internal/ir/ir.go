// Package ir describes the IR construction capability the code generator
// lowers into. Every value has the single numeric type double, except the
// result of a comparison, which is i1 until it is widened with UIToFP.
package ir

type Value interface {
	Name() string
}

type BasicBlock interface {
	Name() string
}

type Function interface {
	Value

	Params() []Value
	ParamsCount() int
	SetParamName(i int, name string)

	BasicBlocksCount() int
	AppendBasicBlock(name string) BasicBlock

	// DeleteBody drops every basic block and leaves a declaration that
	// existing calls still refer to.
	DeleteBody()
	// Erase removes the function from its module. The function must not be
	// used afterwards.
	Erase()

	String() string
}

// Builder appends instructions at its insertion point. Names are hints; a
// backend may add a suffix to keep them unique within a function.
type Builder interface {
	SetInsertPointAtEnd(block BasicBlock)

	ConstFloat(value float64) Value

	CreateFAdd(lhs, rhs Value, name string) Value
	CreateFSub(lhs, rhs Value, name string) Value
	CreateFMul(lhs, rhs Value, name string) Value
	CreateFDiv(lhs, rhs Value, name string) Value

	// CreateFCmpULT yields i1: true when lhs < rhs or either is NaN.
	CreateFCmpULT(lhs, rhs Value, name string) Value
	CreateUIToFP(value Value, name string) Value

	CreateCall(fn Function, args []Value, name string) Value
	CreateRet(value Value)
}

type Module interface {
	// NamedFunction returns nil when no function has that name. Anonymous
	// functions are never found.
	NamedFunction(name string) Function

	// AddFunction declares a function taking paramsCount doubles and
	// returning a double, with external linkage and unnamed parameters.
	AddFunction(name string, paramsCount int) Function

	VerifyFunction(fn Function) error

	Functions() []Function
	String() string
}

// Executable is implemented by functions a backend can run in process.
type Executable interface {
	Call(args ...float64) (float64, error)
}
