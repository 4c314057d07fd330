package vm

import (
	"github.com/aoclang/aoclang/internal/ast"
	"github.com/aoclang/aoclang/internal/diagnostics"
	"github.com/aoclang/aoclang/internal/token"
	"github.com/aoclang/aoclang/internal/value"
)

// compileAssign compiles `target = value`. The Fn-name-inference rule
// (spec.md's debug trace wants named functions, not `<anonymous>`)
// lives here: `name = fn(...) ...` names the closure after `name`.
func (c *Compiler) compileAssign(e *ast.Assign) error {
	if id, ok := e.Target.(*ast.Ident); ok {
		if fn, ok := e.Value.(*ast.Fn); ok {
			if err := c.compileFn(fn, id.Name); err != nil {
				return err
			}
			c.compileIdentStore(id.Name, e.Span())
			return nil
		}
	}
	return c.compileStoreTo(e.Target, func() error { return c.compileExpr(e.Value) }, e.Span())
}

// compileStoreTo emits code that computes a value via emitValue (which
// must leave exactly one Value on the stack) and stores it into lv,
// leaving that value on the stack as the expression's result.
func (c *Compiler) compileStoreTo(lv ast.LValue, emitValue func() error, span token.Span) error {
	switch t := lv.(type) {
	case *ast.Ident:
		if err := emitValue(); err != nil {
			return err
		}
		c.compileIdentStore(t.Name, span)
		return nil

	case *ast.Field:
		tempT := c.newTemp()
		if err := c.compileExpr(t.Target); err != nil {
			return err
		}
		c.chunk.WriteOp(OP_SET_LOCAL, span)
		c.chunk.WriteByte(byte(tempT), span)
		c.chunk.WriteOp(OP_POP, span)

		c.chunk.WriteOp(OP_GET_LOCAL, span)
		c.chunk.WriteByte(byte(tempT), span)
		c.emitConst(value.Str(t.Name), span)
		if err := emitValue(); err != nil {
			return err
		}
		c.chunk.WriteOp(OP_SET_INDEX, span)
		return nil

	case *ast.Index:
		tempT := c.newTemp()
		if err := c.compileExpr(t.Target); err != nil {
			return err
		}
		c.chunk.WriteOp(OP_SET_LOCAL, span)
		c.chunk.WriteByte(byte(tempT), span)
		c.chunk.WriteOp(OP_POP, span)

		tempK := c.newTemp()
		if err := c.compileExpr(t.Key); err != nil {
			return err
		}
		c.chunk.WriteOp(OP_SET_LOCAL, span)
		c.chunk.WriteByte(byte(tempK), span)
		c.chunk.WriteOp(OP_POP, span)

		c.chunk.WriteOp(OP_GET_LOCAL, span)
		c.chunk.WriteByte(byte(tempT), span)
		c.chunk.WriteOp(OP_GET_LOCAL, span)
		c.chunk.WriteByte(byte(tempK), span)
		if err := emitValue(); err != nil {
			return err
		}
		c.chunk.WriteOp(OP_SET_INDEX, span)
		return nil

	case *ast.VecLit:
		if err := emitValue(); err != nil {
			return err
		}
		tempV := c.newTemp()
		c.chunk.WriteOp(OP_SET_LOCAL, span)
		c.chunk.WriteByte(byte(tempV), span)
		return c.compileDestructure(t, tempV, span)

	default:
		return malformedLValue(lv)
	}
}

// compileDestructure emits a length check between the runtime vector
// held in local slot vecSlot and pattern, then, for every element of
// pattern, an index into that vector followed by a recursive store.
// It never changes the operand stack's depth. Grounded in spec.md
// §4.3's guidance: "compile a temporary, then for each pattern
// element emit index + recursive-assign"; §4.2 requires the length
// mismatch itself to be a runtime error rather than a silent
// truncation or an out-of-bounds index.
func (c *Compiler) compileDestructure(pattern *ast.VecLit, vecSlot int, span token.Span) error {
	c.chunk.WriteOp(OP_CHECK_DESTRUCTURE_LEN, span)
	c.chunk.WriteByte(byte(vecSlot), span)
	c.chunk.WriteU16(uint16(len(pattern.Elems)), span)
	for i, elem := range pattern.Elems {
		lv, ok := elem.(ast.LValue)
		if !ok {
			return malformedLValue(elem)
		}
		extract := func() error {
			c.chunk.WriteOp(OP_GET_LOCAL, span)
			c.chunk.WriteByte(byte(vecSlot), span)
			c.emitConst(value.Int(int64(i)), span)
			c.chunk.WriteOp(OP_GET_INDEX, span)
			return nil
		}
		if err := c.compileStoreTo(lv, extract, span); err != nil {
			return err
		}
		c.chunk.WriteOp(OP_POP, span)
	}
	return nil
}

// compileOpAssign compiles `target += value` and its siblings. The
// target's current value is read once (through cached temporaries for
// Field/Index targets, so the target/key subexpressions are evaluated
// exactly once) and combined with value via the corresponding binary
// opcode.
func (c *Compiler) compileOpAssign(e *ast.OpAssign) error {
	op, ok := binOpcodes[e.Op]
	if !ok {
		return diagnostics.Compilef(e.Span(), "unsupported compound-assignment operator %s", e.Op)
	}
	switch t := e.Target.(type) {
	case *ast.Ident:
		c.compileIdentLoad(t.Name, e.Span())
		if err := c.compileExpr(e.Value); err != nil {
			return err
		}
		c.chunk.WriteOp(op, e.Span())
		c.compileIdentStore(t.Name, e.Span())
		return nil

	case *ast.Field:
		tempT := c.newTemp()
		if err := c.compileExpr(t.Target); err != nil {
			return err
		}
		c.chunk.WriteOp(OP_SET_LOCAL, e.Span())
		c.chunk.WriteByte(byte(tempT), e.Span())
		c.chunk.WriteOp(OP_POP, e.Span())

		c.chunk.WriteOp(OP_GET_LOCAL, e.Span())
		c.chunk.WriteByte(byte(tempT), e.Span())
		c.emitConst(value.Str(t.Name), e.Span())
		c.chunk.WriteOp(OP_GET_INDEX, e.Span())
		if err := c.compileExpr(e.Value); err != nil {
			return err
		}
		c.chunk.WriteOp(op, e.Span())

		tempV := c.newTemp()
		c.chunk.WriteOp(OP_SET_LOCAL, e.Span())
		c.chunk.WriteByte(byte(tempV), e.Span())
		c.chunk.WriteOp(OP_POP, e.Span())

		c.chunk.WriteOp(OP_GET_LOCAL, e.Span())
		c.chunk.WriteByte(byte(tempT), e.Span())
		c.emitConst(value.Str(t.Name), e.Span())
		c.chunk.WriteOp(OP_GET_LOCAL, e.Span())
		c.chunk.WriteByte(byte(tempV), e.Span())
		c.chunk.WriteOp(OP_SET_INDEX, e.Span())
		return nil

	case *ast.Index:
		tempT := c.newTemp()
		if err := c.compileExpr(t.Target); err != nil {
			return err
		}
		c.chunk.WriteOp(OP_SET_LOCAL, e.Span())
		c.chunk.WriteByte(byte(tempT), e.Span())
		c.chunk.WriteOp(OP_POP, e.Span())

		tempK := c.newTemp()
		if err := c.compileExpr(t.Key); err != nil {
			return err
		}
		c.chunk.WriteOp(OP_SET_LOCAL, e.Span())
		c.chunk.WriteByte(byte(tempK), e.Span())
		c.chunk.WriteOp(OP_POP, e.Span())

		c.chunk.WriteOp(OP_GET_LOCAL, e.Span())
		c.chunk.WriteByte(byte(tempT), e.Span())
		c.chunk.WriteOp(OP_GET_LOCAL, e.Span())
		c.chunk.WriteByte(byte(tempK), e.Span())
		c.chunk.WriteOp(OP_GET_INDEX, e.Span())
		if err := c.compileExpr(e.Value); err != nil {
			return err
		}
		c.chunk.WriteOp(op, e.Span())

		tempV := c.newTemp()
		c.chunk.WriteOp(OP_SET_LOCAL, e.Span())
		c.chunk.WriteByte(byte(tempV), e.Span())
		c.chunk.WriteOp(OP_POP, e.Span())

		c.chunk.WriteOp(OP_GET_LOCAL, e.Span())
		c.chunk.WriteByte(byte(tempT), e.Span())
		c.chunk.WriteOp(OP_GET_LOCAL, e.Span())
		c.chunk.WriteByte(byte(tempK), e.Span())
		c.chunk.WriteOp(OP_GET_LOCAL, e.Span())
		c.chunk.WriteByte(byte(tempV), e.Span())
		c.chunk.WriteOp(OP_SET_INDEX, e.Span())
		return nil

	default:
		return malformedLValue(e.Target)
	}
}

