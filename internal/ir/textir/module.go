// Package textir is an in-memory IR backend with an LLVM-like textual form,
// a verifier and a small interpreter. It needs no native toolchain.
package textir

import (
	"slices"
	"strconv"
	"strings"

	"github.com/kievzenit/kscope/internal/ir"
)

const defaultMaxCallDepth = 4096

type Extern struct {
	Arity int
	Fn    func(args []float64) float64
}

type Module struct {
	name string

	functions []*Function
	externs   map[string]Extern

	anonymous    int
	maxCallDepth int
}

var _ ir.Module = (*Module)(nil)

func NewModule(name string) *Module {
	return &Module{
		name: name,

		functions: make([]*Function, 0),
		externs:   make(map[string]Extern),

		maxCallDepth: defaultMaxCallDepth,
	}
}

// RegisterExtern binds the body of a declared-only function. A call to a
// declaration resolves here at run time.
func (m *Module) RegisterExtern(name string, arity int, fn func(args []float64) float64) {
	m.externs[name] = Extern{
		Arity: arity,
		Fn:    fn,
	}
}

// SetMaxCallDepth bounds interpreter recursion. Values below 1 restore the
// default.
func (m *Module) SetMaxCallDepth(depth int) {
	if depth < 1 {
		depth = defaultMaxCallDepth
	}
	m.maxCallDepth = depth
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) NamedFunction(name string) ir.Function {
	if fn := m.lookup(name); fn != nil {
		return fn
	}

	return nil
}

func (m *Module) lookup(name string) *Function {
	if name == "" {
		return nil
	}

	for _, fn := range m.functions {
		if fn.name == name {
			return fn
		}
	}

	return nil
}

func (m *Module) AddFunction(name string, paramsCount int) ir.Function {
	fn := &Function{
		module: m,
		name:   name,

		params: make([]*Param, paramsCount),
		blocks: make([]*Block, 0),

		symbols: make(map[string]struct{}),
		suffix:  make(map[string]int),
	}

	if name == "" {
		fn.slot = m.anonymous
		m.anonymous++
	}

	for i := range fn.params {
		fn.params[i] = &Param{
			fn:    fn,
			index: i,
		}
	}

	m.functions = append(m.functions, fn)
	return fn
}

func (m *Module) Functions() []ir.Function {
	functions := make([]ir.Function, 0, len(m.functions))
	for _, fn := range m.functions {
		functions = append(functions, fn)
	}

	return functions
}

func (m *Module) String() string {
	var sb strings.Builder

	sb.WriteString("; ModuleID = '")
	sb.WriteString(m.name)
	sb.WriteString("'\n")

	for _, fn := range m.functions {
		sb.WriteString("\n")
		sb.WriteString(fn.String())
	}

	return sb.String()
}

func (m *Module) remove(fn *Function) {
	m.functions = slices.DeleteFunc(m.functions, func(other *Function) bool {
		return other == fn
	})
}

type Function struct {
	module *Module
	name   string
	// slot numbers anonymous functions in creation order.
	slot int

	params []*Param
	blocks []*Block

	symbols map[string]struct{}
	suffix  map[string]int

	erased bool
}

var (
	_ ir.Function   = (*Function)(nil)
	_ ir.Executable = (*Function)(nil)
)

func (f *Function) Name() string {
	return f.name
}

func (f *Function) IsAnonymous() bool {
	return f.name == ""
}

func (f *Function) IsDeclaration() bool {
	return len(f.blocks) == 0
}

func (f *Function) Params() []ir.Value {
	params := make([]ir.Value, 0, len(f.params))
	for _, param := range f.params {
		params = append(params, param)
	}

	return params
}

func (f *Function) ParamsCount() int {
	return len(f.params)
}

func (f *Function) SetParamName(i int, name string) {
	param := f.params[i]
	delete(f.symbols, param.name)
	param.name = f.uniqueName(name)
}

func (f *Function) BasicBlocksCount() int {
	return len(f.blocks)
}

func (f *Function) AppendBasicBlock(name string) ir.BasicBlock {
	block := &Block{
		fn:     f,
		name:   f.uniqueName(name),
		instrs: make([]*Instr, 0),
	}

	f.blocks = append(f.blocks, block)
	return block
}

func (f *Function) DeleteBody() {
	f.blocks = make([]*Block, 0)

	f.symbols = make(map[string]struct{}, len(f.params))
	f.suffix = make(map[string]int)
	for _, param := range f.params {
		if param.name != "" {
			f.symbols[param.name] = struct{}{}
		}
	}
}

func (f *Function) Erase() {
	if f.erased {
		return
	}

	f.erased = true
	f.module.remove(f)
}

// uniqueName reserves name within the function, appending a numeric suffix
// when it is taken: addtmp, addtmp1, addtmp2. The empty name stays empty and
// is numbered when printed.
func (f *Function) uniqueName(name string) string {
	if name == "" {
		return ""
	}

	candidate := name
	for {
		if _, taken := f.symbols[candidate]; !taken {
			f.symbols[candidate] = struct{}{}
			return candidate
		}

		f.suffix[name]++
		candidate = name + strconv.Itoa(f.suffix[name])
	}
}

type Block struct {
	fn     *Function
	name   string
	instrs []*Instr
}

var _ ir.BasicBlock = (*Block)(nil)

func (b *Block) Name() string {
	return b.name
}

func (b *Block) Parent() *Function {
	return b.fn
}

type Type int

const (
	Void Type = iota
	Double
	I1
)

func (t Type) String() string {
	switch t {
	case Void:
		return "void"
	case Double:
		return "double"
	case I1:
		return "i1"
	default:
		panic("textir: unknown type " + strconv.Itoa(int(t)))
	}
}

type Const struct {
	Value float64
}

var _ ir.Value = (*Const)(nil)

func (c *Const) Name() string {
	return ""
}

type Param struct {
	fn    *Function
	index int
	name  string
}

var _ ir.Value = (*Param)(nil)

func (p *Param) Name() string {
	return p.name
}

func (p *Param) Index() int {
	return p.index
}

type Opcode int

const (
	OpFAdd Opcode = iota
	OpFSub
	OpFMul
	OpFDiv
	OpFCmpULT
	OpUIToFP
	OpCall
	OpRet
)

func (op Opcode) String() string {
	switch op {
	case OpFAdd:
		return "fadd"
	case OpFSub:
		return "fsub"
	case OpFMul:
		return "fmul"
	case OpFDiv:
		return "fdiv"
	case OpFCmpULT:
		return "fcmp ult"
	case OpUIToFP:
		return "uitofp"
	case OpCall:
		return "call"
	case OpRet:
		return "ret"
	default:
		panic("textir: unknown opcode " + strconv.Itoa(int(op)))
	}
}

type Instr struct {
	block *Block
	name  string

	Op       Opcode
	Type     Type
	Operands []ir.Value
	// Callee is set for OpCall only.
	Callee *Function
}

var _ ir.Value = (*Instr)(nil)

func (i *Instr) Name() string {
	return i.name
}

func (i *Instr) Parent() *Block {
	return i.block
}

func typeOf(v ir.Value) Type {
	switch v := v.(type) {
	case *Instr:
		return v.Type
	case *Const, *Param:
		return Double
	}

	return Void
}
