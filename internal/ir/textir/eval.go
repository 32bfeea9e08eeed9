package textir

import (
	"errors"
	"fmt"
	"math"

	"github.com/kievzenit/kscope/internal/ir"
)

var (
	ErrUnresolvedExtern = errors.New("unresolved external function")
	ErrCallDepth        = errors.New("call depth limit exceeded")
	ErrBadArguments     = errors.New("wrong number of arguments")
)

// NewModuleWithBuiltins returns a module whose interpreter resolves the
// usual libm functions.
func NewModuleWithBuiltins(name string) *Module {
	m := NewModule(name)

	unary := map[string]func(float64) float64{
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"sqrt":  math.Sqrt,
		"exp":   math.Exp,
		"log":   math.Log,
		"fabs":  math.Abs,
		"floor": math.Floor,
	}
	for builtin, fn := range unary {
		m.RegisterExtern(builtin, 1, func(args []float64) float64 {
			return fn(args[0])
		})
	}

	m.RegisterExtern("pow", 2, func(args []float64) float64 {
		return math.Pow(args[0], args[1])
	})

	return m
}

// Call runs the function on the interpreter.
func (f *Function) Call(args ...float64) (float64, error) {
	return f.call(args, 0)
}

func (f *Function) call(args []float64, depth int) (float64, error) {
	if depth >= f.module.maxCallDepth {
		return 0, fmt.Errorf("%w: %d calls deep in %s", ErrCallDepth, depth, f.global())
	}
	if len(args) != len(f.params) {
		return 0, fmt.Errorf("%w: %s takes %d, got %d", ErrBadArguments, f.global(), len(f.params), len(args))
	}

	if f.IsDeclaration() {
		return f.callExtern(args)
	}

	frame := &frame{
		fn:     f,
		args:   args,
		values: make(map[*Instr]float64),
		depth:  depth,
	}

	return frame.run(f.blocks[0])
}

func (f *Function) callExtern(args []float64) (float64, error) {
	extern, ok := f.module.externs[f.name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnresolvedExtern, f.global())
	}
	if extern.Arity != len(args) {
		return 0, fmt.Errorf("%w: extern %s takes %d, got %d", ErrBadArguments, f.global(), extern.Arity, len(args))
	}

	return extern.Fn(args), nil
}

type frame struct {
	fn     *Function
	args   []float64
	values map[*Instr]float64
	depth  int
}

func (fr *frame) run(block *Block) (float64, error) {
	for _, instr := range block.instrs {
		operands := make([]float64, 0, len(instr.Operands))
		for _, operand := range instr.Operands {
			value, err := fr.value(operand)
			if err != nil {
				return 0, err
			}
			operands = append(operands, value)
		}

		var result float64
		switch instr.Op {
		case OpFAdd:
			result = operands[0] + operands[1]
		case OpFSub:
			result = operands[0] - operands[1]
		case OpFMul:
			result = operands[0] * operands[1]
		case OpFDiv:
			result = operands[0] / operands[1]
		case OpFCmpULT:
			lhs, rhs := operands[0], operands[1]
			if lhs < rhs || math.IsNaN(lhs) || math.IsNaN(rhs) {
				result = 1
			}
		case OpUIToFP:
			result = operands[0]
		case OpCall:
			value, err := instr.Callee.call(operands, fr.depth+1)
			if err != nil {
				return 0, err
			}
			result = value
		case OpRet:
			return operands[0], nil
		}

		fr.values[instr] = result
	}

	return 0, fmt.Errorf("%w: %s: block %q does not end in ret", ErrInvalidIR, fr.fn.global(), block.name)
}

func (fr *frame) value(v ir.Value) (float64, error) {
	switch v := v.(type) {
	case *Const:
		return v.Value, nil
	case *Param:
		if v.fn == fr.fn {
			return fr.args[v.index], nil
		}
	case *Instr:
		if value, ok := fr.values[v]; ok {
			return value, nil
		}
	}

	return 0, fmt.Errorf("%w: %s: operand %s is not available", ErrInvalidIR, fr.fn.global(), v.Name())
}
