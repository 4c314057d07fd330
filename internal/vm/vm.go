package vm

import (
	"bufio"
	"context"
	"io"

	"github.com/aoclang/aoclang/internal/diagnostics"
	"github.com/aoclang/aoclang/internal/token"
	"github.com/aoclang/aoclang/internal/value"
)

const (
	MaxStack  = 1 << 16
	MaxFrames = 1024
)

// Loader resolves the source of a `use`-d module by path. New installs
// NopLoader; the CLI wires in OSLoader; tests can inject a map-backed
// stand-in. OP_USE pushes whatever Load returns as the value of the
// `use` expression: with OSLoader that is the file's source text as a
// Str, which is not parsed or executed.
type Loader interface {
	Load(path string) (value.Value, error)
}

// NopLoader satisfies Loader for programs that don't call `use`;
// any path resolves to Nil.
type NopLoader struct{}

func (NopLoader) Load(string) (value.Value, error) { return value.Nil(), nil }

type frame struct {
	closure *value.Closure
	ip      int
	locals  []*value.Cell
}

// VM executes one compiled Chunk: a value stack shared by all frames
// for operands/temporaries/call arguments, plus a frame stack. Local
// variables are not stack-resident — every local slot is boxed in its
// own *Cell from the moment its frame is created, so a closure that
// captures one keeps it alive after the frame returns without the
// compiler needing to track which slots are actually captured
// (spec.md §4.3 allows either strategy; this trades a small amount of
// allocation for a much simpler, obviously-correct implementation).
type VM struct {
	stack  []value.Value
	frames []*frame

	Globals map[string]value.Value
	Loader  Loader

	Stdout io.Writer
	Stdin  *bufio.Reader

	Tracer *Tracer

	ctx context.Context
}

func New(ctx context.Context, stdout io.Writer, stdin io.Reader) *VM {
	vm := &VM{
		stack:   make([]value.Value, 0, 256),
		Globals: make(map[string]value.Value),
		Loader:  NopLoader{},
		Stdout:  stdout,
		Stdin:   bufio.NewReader(stdin),
		ctx:     ctx,
	}
	vm.registerBuiltins()
	return vm
}

// registerBuiltins binds print/read into Globals as ordinary Closure
// values backed by a Native implementation rather than a Chunk, so
// they resolve, shadow, and pass around exactly like any user-defined
// function (spec.md's only special treatment of I/O is that these two
// names start out bound; nothing else distinguishes them).
func (vm *VM) registerBuiltins() {
	vm.Globals["print"] = value.ClosureVal(&value.Closure{Fn: &value.Function{
		Name:  "print",
		Arity: -1,
		Native: func(args []value.Value) (value.Value, error) {
			vm.printValues(args)
			return value.Nil(), nil
		},
	}})
	vm.Globals["read"] = value.ClosureVal(&value.Closure{Fn: &value.Function{
		Name:  "read",
		Arity: 0,
		Native: func(args []value.Value) (value.Value, error) {
			line, _ := vm.Stdin.ReadString('\n')
			return value.Str(trimNewline(line)), nil
		},
	}})
}

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek(back int) value.Value { return vm.stack[len(vm.stack)-1-back] }

func (vm *VM) currentFrame() *frame { return vm.frames[len(vm.frames)-1] }

// Run executes the top-level chunk produced by Compile and returns the
// value of its last expression (the program's implicit return value).
func (vm *VM) Run(chunk *Chunk) (value.Value, error) {
	root := &value.Function{Name: "<script>", Arity: 0, Chunk: chunk}
	closure := &value.Closure{Fn: root}
	if err := vm.pushFrame(closure, nil, chunk.SpanAt(0)); err != nil {
		return value.Nil(), err
	}
	return vm.run()
}

func (vm *VM) pushFrame(closure *value.Closure, args []value.Value, span token.Span) error {
	if len(vm.frames) >= MaxFrames {
		return diagnostics.NewRuntime(diagnostics.StackOverflow, span, "call stack exceeded %d frames", MaxFrames)
	}
	chunk := closure.Fn.Chunk.(*Chunk)
	locals := make([]*value.Cell, chunk.NumLocals)
	for i := range locals {
		cell := &value.Cell{}
		if i < len(args) {
			cell.Value = args[i]
		}
		locals[i] = cell
	}
	vm.frames = append(vm.frames, &frame{closure: closure, locals: locals})
	return nil
}
