package textir

import (
	"fmt"

	"github.com/kievzenit/kscope/internal/ir"
)

type Builder struct {
	block *Block
}

var _ ir.Builder = (*Builder)(nil)

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) SetInsertPointAtEnd(block ir.BasicBlock) {
	b.block = block.(*Block)
}

// InsertBlock is the block instructions are currently appended to.
func (b *Builder) InsertBlock() *Block {
	return b.block
}

func (b *Builder) ConstFloat(value float64) ir.Value {
	return &Const{Value: value}
}

func (b *Builder) CreateFAdd(lhs, rhs ir.Value, name string) ir.Value {
	return b.insert(OpFAdd, Double, name, lhs, rhs)
}

func (b *Builder) CreateFSub(lhs, rhs ir.Value, name string) ir.Value {
	return b.insert(OpFSub, Double, name, lhs, rhs)
}

func (b *Builder) CreateFMul(lhs, rhs ir.Value, name string) ir.Value {
	return b.insert(OpFMul, Double, name, lhs, rhs)
}

func (b *Builder) CreateFDiv(lhs, rhs ir.Value, name string) ir.Value {
	return b.insert(OpFDiv, Double, name, lhs, rhs)
}

func (b *Builder) CreateFCmpULT(lhs, rhs ir.Value, name string) ir.Value {
	return b.insert(OpFCmpULT, I1, name, lhs, rhs)
}

func (b *Builder) CreateUIToFP(value ir.Value, name string) ir.Value {
	return b.insert(OpUIToFP, Double, name, value)
}

func (b *Builder) CreateCall(fn ir.Function, args []ir.Value, name string) ir.Value {
	instr := b.insert(OpCall, Double, name, args...)
	instr.Callee = fn.(*Function)
	return instr
}

func (b *Builder) CreateRet(value ir.Value) {
	b.insert(OpRet, Void, "", value)
}

func (b *Builder) insert(op Opcode, typ Type, name string, operands ...ir.Value) *Instr {
	if b.block == nil {
		panic(fmt.Sprintf("textir: %s emitted without an insertion point", op))
	}

	if typ == Void {
		name = ""
	}

	instr := &Instr{
		block: b.block,
		name:  b.block.fn.uniqueName(name),

		Op:       op,
		Type:     typ,
		Operands: append([]ir.Value(nil), operands...),
	}

	b.block.instrs = append(b.block.instrs, instr)
	return instr
}
