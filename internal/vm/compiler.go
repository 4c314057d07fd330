package vm

import (
	"github.com/aoclang/aoclang/internal/ast"
	"github.com/aoclang/aoclang/internal/diagnostics"
	"github.com/aoclang/aoclang/internal/token"
	"github.com/aoclang/aoclang/internal/value"
)

// Local is a compile-time record of a slot in the current function's
// flat local-slot array. There is no block-scope barrier: a name first
// assigned inside a nested block keeps its slot for the rest of the
// enclosing function (spec.md §4.3), so Local carries no depth field —
// re-assignment to an existing name is detected by name match alone.
type Local struct {
	Name       string
	Slot       int
	IsCaptured bool
}

// Upvalue is a compile-time descriptor mirroring vm.UpvalueDesc, kept
// on the Compiler so resolveUpvalue can dedup repeated captures of the
// same enclosing variable.
type Upvalue struct {
	IsLocal bool
	Index   uint8
}

// FuncKind distinguishes the implicit top-level script from a nested
// function literal: it decides whether a newly-assigned, unresolved
// name becomes a global or a new local (spec.md §4.3).
type FuncKind int

const (
	ScriptFunc FuncKind = iota
	UserFunc
)

const maxLocals = 256
const maxUpvalues = 256

// Compiler lowers one function's (or the script's) body to a Chunk. A
// new Compiler is created per nested function literal; Compiler.parent
// links it to the function it is lexically nested in, which is how
// resolveUpvalue walks outward.
type Compiler struct {
	parent *Compiler
	kind   FuncKind
	chunk  *Chunk

	locals    []Local
	upvalues  []Upvalue
	tempCount int

	// globals is shared by every Compiler spawned from the same
	// top-level Compile call: it lets a nested function's assignment
	// to a name already declared global at script scope update that
	// global instead of shadowing it with a new local (see
	// compileIdentStore).
	globals map[string]bool
}

// Compile compiles a whole program (as returned by parser.ParseProgram)
// into the implicit top-level script Chunk.
func Compile(program []ast.Node) (*Chunk, error) {
	c := &Compiler{kind: ScriptFunc, chunk: NewChunk("<script>"), globals: make(map[string]bool)}
	return c.compileFunctionBody(program, token.Span{})
}

func newChildCompiler(parent *Compiler, name string) *Compiler {
	return &Compiler{parent: parent, kind: UserFunc, chunk: NewChunk(name), globals: parent.globals}
}

// compileFunctionBody compiles a flat expression list as a function
// body: each expression's value is popped except the last, which
// becomes the function's implicit return value, and a trailing RETURN
// is always emitted.
func (c *Compiler) compileFunctionBody(exprs []ast.Node, span token.Span) (*Chunk, error) {
	if len(exprs) == 0 {
		c.chunk.WriteOp(OP_NIL, span)
	} else {
		for i, e := range exprs {
			if err := c.compileExpr(e); err != nil {
				return nil, err
			}
			if i != len(exprs)-1 {
				c.chunk.WriteOp(OP_POP, e.Span())
			}
		}
	}
	c.chunk.WriteOp(OP_RETURN, span)
	c.chunk.NumLocals = len(c.locals)
	c.chunk.Upvalues = make([]UpvalueDesc, len(c.upvalues))
	for i, u := range c.upvalues {
		c.chunk.Upvalues[i] = UpvalueDesc{IsLocal: u.IsLocal, Index: u.Index}
	}
	return c.chunk, nil
}

// compileSingleExprBody compiles a function literal whose body is a
// single expression (spec.md §4.2: "bodies are single expressions").
func (c *Compiler) compileSingleExprBody(body ast.Node) (*Chunk, error) {
	return c.compileFunctionBody([]ast.Node{body}, body.Span())
}

func (c *Compiler) addLocal(name string) int {
	slot := len(c.locals)
	c.locals = append(c.locals, Local{Name: name, Slot: slot})
	return slot
}

func (c *Compiler) newTemp() int {
	c.tempCount++
	return c.addLocal("$t" + itoa(c.tempCount))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func (c *Compiler) resolveLocal(name string) (int, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].Name == name {
			return c.locals[i].Slot, true
		}
	}
	return 0, false
}

func (c *Compiler) addUpvalue(desc Upvalue) int {
	for i, u := range c.upvalues {
		if u == desc {
			return i
		}
	}
	c.upvalues = append(c.upvalues, desc)
	return len(c.upvalues) - 1
}

// resolveUpvalue walks outward from c.parent looking for name as a
// local or upvalue of an enclosing function, per spec.md §4.3.
func (c *Compiler) resolveUpvalue(name string) (int, bool) {
	if c.parent == nil {
		return 0, false
	}
	if slot, ok := c.parent.resolveLocal(name); ok {
		c.parent.locals[indexOfSlot(c.parent.locals, slot)].IsCaptured = true
		return c.addUpvalue(Upvalue{IsLocal: true, Index: uint8(slot)}), true
	}
	if idx, ok := c.parent.resolveUpvalue(name); ok {
		return c.addUpvalue(Upvalue{IsLocal: false, Index: uint8(idx)}), true
	}
	return 0, false
}

func indexOfSlot(locals []Local, slot int) int {
	for i, l := range locals {
		if l.Slot == slot {
			return i
		}
	}
	return -1
}

func (c *Compiler) nameConstant(name string) uint16 {
	return c.chunk.AddConstant(value.Str(name))
}

// compileIdentLoad emits the GET_* sequence for reading name.
func (c *Compiler) compileIdentLoad(name string, span token.Span) {
	if slot, ok := c.resolveLocal(name); ok {
		c.chunk.WriteOp(OP_GET_LOCAL, span)
		c.chunk.WriteByte(byte(slot), span)
		return
	}
	if idx, ok := c.resolveUpvalue(name); ok {
		c.chunk.WriteOp(OP_GET_UPVAL, span)
		c.chunk.WriteByte(byte(idx), span)
		return
	}
	c.chunk.WriteOp(OP_GET_GLOBAL, span)
	c.chunk.WriteU16(c.nameConstant(name), span)
}

// compileIdentStore emits the SET_* sequence for writing name. The
// value to store must already be on top of the stack; SET_* leaves it
// there (expression-as-value semantics, spec.md §4.3).
func (c *Compiler) compileIdentStore(name string, span token.Span) {
	if slot, ok := c.resolveLocal(name); ok {
		c.chunk.WriteOp(OP_SET_LOCAL, span)
		c.chunk.WriteByte(byte(slot), span)
		return
	}
	if idx, ok := c.resolveUpvalue(name); ok {
		c.chunk.WriteOp(OP_SET_UPVAL, span)
		c.chunk.WriteByte(byte(idx), span)
		return
	}
	if c.kind == ScriptFunc || c.globals[name] {
		c.globals[name] = true
		c.chunk.WriteOp(OP_SET_GLOBAL, span)
		c.chunk.WriteU16(c.nameConstant(name), span)
		return
	}
	slot := c.addLocal(name)
	c.chunk.WriteOp(OP_SET_LOCAL, span)
	c.chunk.WriteByte(byte(slot), span)
}

func malformedLValue(n ast.Node) error {
	return diagnostics.Compilef(n.Span(), "malformed assignment target: %s", n.String())
}
