package vm

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/aoclang/aoclang/internal/value"
)

// Tracer emits the debug single-stepping stream described in
// spec.md §4.5/§6: a sequence of "=== Section ==="-delimited blocks
// written after (and, for a couple of sections, before) every
// instruction. It is purely observational — nothing it does may affect
// VM semantics, which is why it only ever reads vm/frame state.
type Tracer struct {
	Out   io.Writer
	RunID string

	depth int
}

// NewTracer starts a trace stream, stamping it with a fresh run ID
// (grounded on the teacher's own use of uuid.New() to tag a run — see
// DESIGN.md) so multiple traced runs in the same log can be told
// apart.
func NewTracer(out io.Writer) *Tracer {
	t := &Tracer{Out: out, RunID: uuid.New().String()}
	t.section("Tokens", "run "+t.RunID)
	return t
}

func (t *Tracer) section(title, body string) {
	fmt.Fprintf(t.Out, "=== %s ===\n%s\n", title, body)
}

// BeforeInstruction records frame-entry sections: the first time a
// frame is seen, its "Function <name>" header is emitted before the
// instruction that starts it executes.
func (t *Tracer) BeforeInstruction(vm *VM, f *frame, op Opcode) {
	if f.ip == 1 { // just past the opcode byte of the frame's first instruction
		name := f.closure.Fn.Name
		if name == "" {
			name = "<anonymous>"
		}
		t.section("Function "+name, fmt.Sprintf("arity=%d locals=%d", f.closure.Fn.Arity, len(f.locals)))
	}
	t.section("Next operation", fmt.Sprintf("%s @%d: %s", f.chunk().Name, f.ip-1, op))
}

// AfterInstruction records post-instruction state: the operand stack,
// this frame's locals, and (on RETURN) an "Exit function" marker.
func (t *Tracer) AfterInstruction(vm *VM, f *frame, op Opcode) {
	t.section("Stack", stackString(vm.stack))
	t.section("Variables", localsString(f))
	if op == OP_RETURN {
		t.section("Exit function", f.closure.Fn.Name)
	}
}

func stackString(stack []value.Value) string {
	parts := make([]string, len(stack))
	for i, v := range stack {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func localsString(f *frame) string {
	parts := make([]string, len(f.locals))
	for i, c := range f.locals {
		parts[i] = fmt.Sprintf("%d=%s", i, c.Value.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
