package textir

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kievzenit/kscope/internal/ir"
)

// slots numbers unnamed values of one function in print order: parameters,
// then each block label followed by its instructions.
type slots struct {
	values map[ir.Value]int
	blocks map[*Block]int
	next   int
}

func newSlots(f *Function) *slots {
	s := &slots{
		values: make(map[ir.Value]int),
		blocks: make(map[*Block]int),
	}

	for _, param := range f.params {
		if param.name == "" {
			s.values[param] = s.take()
		}
	}

	for _, block := range f.blocks {
		if block.name == "" {
			s.blocks[block] = s.take()
		}
		for _, instr := range block.instrs {
			if instr.Type != Void && instr.name == "" {
				s.values[instr] = s.take()
			}
		}
	}

	return s
}

func (s *slots) take() int {
	n := s.next
	s.next++
	return n
}

func (s *slots) local(v ir.Value) string {
	if v.Name() != "" {
		return "%" + v.Name()
	}
	if n, ok := s.values[v]; ok {
		return "%" + strconv.Itoa(n)
	}

	return "%<badref>"
}

func (s *slots) operand(v ir.Value) string {
	switch v := v.(type) {
	case *Const:
		return formatConst(v.Value)
	case *Function:
		return v.global()
	}

	return s.local(v)
}

func (s *slots) label(b *Block) string {
	if b.name != "" {
		return b.name
	}

	return strconv.Itoa(s.blocks[b])
}

// formatConst prints a double the way LLVM assembly does: exponent notation
// when it reads back exactly, the raw bit pattern otherwise.
func formatConst(v float64) string {
	text := strconv.FormatFloat(v, 'e', 6, 64)
	if parsed, err := strconv.ParseFloat(text, 64); err == nil && parsed == v && !math.IsInf(v, 0) {
		return text
	}

	return fmt.Sprintf("0x%016X", math.Float64bits(v))
}

func (f *Function) global() string {
	if f.IsAnonymous() {
		return "@" + strconv.Itoa(f.slot)
	}

	return "@" + f.name
}

func (f *Function) String() string {
	s := newSlots(f)

	var sb strings.Builder
	if f.IsDeclaration() {
		sb.WriteString("declare ")
	} else {
		sb.WriteString("define ")
	}

	sb.WriteString("double ")
	sb.WriteString(f.global())
	sb.WriteString("(")
	for i, param := range f.params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("double ")
		sb.WriteString(s.local(param))
	}
	sb.WriteString(")")

	if f.IsDeclaration() {
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(" {\n")
	for i, block := range f.blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(s.label(block))
		sb.WriteString(":\n")

		for _, instr := range block.instrs {
			sb.WriteString("  ")
			sb.WriteString(s.instr(instr))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("}\n")

	return sb.String()
}

func (s *slots) instr(i *Instr) string {
	var sb strings.Builder
	if i.Type != Void {
		sb.WriteString(s.local(i))
		sb.WriteString(" = ")
	}

	switch i.Op {
	case OpFAdd, OpFSub, OpFMul, OpFDiv, OpFCmpULT:
		fmt.Fprintf(&sb, "%s %s %s, %s", i.Op, typeOf(i.Operands[0]), s.operand(i.Operands[0]), s.operand(i.Operands[1]))

	case OpUIToFP:
		fmt.Fprintf(&sb, "uitofp %s %s to double", typeOf(i.Operands[0]), s.operand(i.Operands[0]))

	case OpCall:
		fmt.Fprintf(&sb, "call double %s(", i.Callee.global())
		for n, arg := range i.Operands {
			if n > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s %s", typeOf(arg), s.operand(arg))
		}
		sb.WriteString(")")

	case OpRet:
		fmt.Fprintf(&sb, "ret %s %s", typeOf(i.Operands[0]), s.operand(i.Operands[0]))
	}

	return sb.String()
}
