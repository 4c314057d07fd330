package vm

import (
	"github.com/aoclang/aoclang/internal/token"
	"github.com/aoclang/aoclang/internal/value"
)

// UpvalueDesc describes where a closure's upvalue cell comes from at
// MAKE_CLOSURE time: either the enclosing function's own local slot
// (IsLocal = true) or the enclosing function's own upvalue list
// (IsLocal = false, Index into that list). See spec.md §4.3.
type UpvalueDesc struct {
	IsLocal bool
	Index   uint8
}

// Chunk is a bytecode program for one function (or the implicit
// top-level script function): a flat instruction stream, a constant
// pool, and per-byte source spans for diagnostics.
type Chunk struct {
	Name      string
	Arity     int
	NumLocals int
	Upvalues  []UpvalueDesc

	Code      []byte
	Spans     []token.Span // one entry per byte in Code
	Constants []value.Value
}

func NewChunk(name string) *Chunk {
	return &Chunk{Name: name, Code: make([]byte, 0, 64), Spans: make([]token.Span, 0, 64)}
}

func (c *Chunk) writeByte(b byte, span token.Span) {
	c.Code = append(c.Code, b)
	c.Spans = append(c.Spans, span)
}

// WriteOp appends an opcode byte and returns its offset.
func (c *Chunk) WriteOp(op Opcode, span token.Span) int {
	off := len(c.Code)
	c.writeByte(byte(op), span)
	return off
}

func (c *Chunk) WriteByte(b byte, span token.Span) { c.writeByte(b, span) }

// WriteU16 appends a big-endian uint16 operand.
func (c *Chunk) WriteU16(v uint16, span token.Span) {
	c.writeByte(byte(v>>8), span)
	c.writeByte(byte(v), span)
}

// WriteI16 appends a big-endian two's-complement int16 operand, used
// for jump offsets (patched later via PatchJump).
func (c *Chunk) WriteI16(v int16, span token.Span) {
	c.WriteU16(uint16(v), span)
}

// AddConstant appends v to the constant pool and returns its index.
// Equal values are not deduplicated.
func (c *Chunk) AddConstant(v value.Value) uint16 {
	c.Constants = append(c.Constants, v)
	return uint16(len(c.Constants) - 1)
}

// WriteI16Placeholder appends a zeroed i16 operand and returns its
// offset, to be backfilled later by PatchJump once the jump target is
// known.
func (c *Chunk) WriteI16Placeholder(span token.Span) int {
	off := len(c.Code)
	c.WriteI16(0, span)
	return off
}

// PatchJump backfills the i16 operand at `operandOffset` with the
// distance from just after the operand to the current end of Code.
func (c *Chunk) PatchJump(operandOffset int) {
	dist := len(c.Code) - (operandOffset + 2)
	c.Code[operandOffset] = byte(uint16(dist) >> 8)
	c.Code[operandOffset+1] = byte(uint16(dist))
}

func (c *Chunk) SpanAt(ip int) token.Span {
	if ip >= 0 && ip < len(c.Spans) {
		return c.Spans[ip]
	}
	return token.Span{}
}
