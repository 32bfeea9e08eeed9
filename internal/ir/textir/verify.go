package textir

import (
	"errors"
	"fmt"

	"github.com/kievzenit/kscope/internal/ir"
)

var ErrInvalidIR = errors.New("invalid IR")

func (m *Module) VerifyFunction(fn ir.Function) error {
	f, ok := fn.(*Function)
	if !ok {
		return fmt.Errorf("%w: function %q belongs to another backend", ErrInvalidIR, fn.Name())
	}

	return f.Verify()
}

// Verify checks f and returns every violation joined into one error. Each
// violation wraps ErrInvalidIR.
func (f *Function) Verify() error {
	v := &verifier{
		fn:      f,
		defined: make(map[*Instr]bool),
	}

	if f.erased {
		v.fail("function is not in a module")
	}
	if len(f.blocks) == 0 {
		v.fail("function has no entry block")
	}

	for _, block := range f.blocks {
		v.block(block)
	}

	return errors.Join(v.errs...)
}

type verifier struct {
	fn      *Function
	defined map[*Instr]bool
	errs    []error
}

func (v *verifier) fail(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("%w: %s: %s", ErrInvalidIR, v.fn.global(), fmt.Sprintf(format, args...)))
}

func (v *verifier) block(b *Block) {
	if len(b.instrs) == 0 {
		v.fail("block %q is empty", b.name)
		return
	}

	for n, instr := range b.instrs {
		last := n == len(b.instrs)-1
		if instr.Op == OpRet && !last {
			v.fail("block %q has instructions after ret", b.name)
		}
		if last && instr.Op != OpRet {
			v.fail("block %q does not end in ret", b.name)
		}

		v.instr(instr)
		v.defined[instr] = true
	}
}

func (v *verifier) instr(i *Instr) {
	for _, operand := range i.Operands {
		v.operand(i, operand)
	}

	switch i.Op {
	case OpFAdd, OpFSub, OpFMul, OpFDiv, OpFCmpULT:
		v.arity(i, 2)
		v.expectAll(i, Double)

	case OpUIToFP:
		v.arity(i, 1)
		v.expectAll(i, I1)

	case OpRet:
		v.arity(i, 1)
		v.expectAll(i, Double)

	case OpCall:
		v.expectAll(i, Double)
		v.call(i)
	}
}

func (v *verifier) arity(i *Instr, want int) {
	if len(i.Operands) != want {
		v.fail("%s takes %d operands, got %d", i.Op, want, len(i.Operands))
	}
}

func (v *verifier) expectAll(i *Instr, want Type) {
	for _, operand := range i.Operands {
		if got := typeOf(operand); got != want {
			v.fail("%s operand has type %s, want %s", i.Op, got, want)
		}
	}
}

func (v *verifier) operand(i *Instr, operand ir.Value) {
	switch operand := operand.(type) {
	case *Const:

	case *Param:
		if operand.fn != v.fn {
			v.fail("%s uses a parameter of another function", i.Op)
		}

	case *Instr:
		if operand.block == nil || operand.block.fn != v.fn {
			v.fail("%s uses a value of another function", i.Op)
		} else if !v.defined[operand] {
			v.fail("%s uses a value before its definition", i.Op)
		} else if operand.Type == Void {
			v.fail("%s uses the result of %s", i.Op, operand.Op)
		}

	default:
		v.fail("%s uses a foreign value %T", i.Op, operand)
	}
}

func (v *verifier) call(i *Instr) {
	callee := i.Callee
	if callee == nil {
		v.fail("call without callee")
		return
	}

	if callee.erased || callee.module != v.fn.module {
		v.fail("call to %s which is not in the module", callee.global())
	}
	if len(i.Operands) != len(callee.params) {
		v.fail("call to %s passes %d arguments, want %d", callee.global(), len(i.Operands), len(callee.params))
	}
}
