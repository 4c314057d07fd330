package vm

import (
	"github.com/aoclang/aoclang/internal/ast"
	"github.com/aoclang/aoclang/internal/diagnostics"
	"github.com/aoclang/aoclang/internal/token"
	"github.com/aoclang/aoclang/internal/value"
)

// compileExpr dispatches on the concrete ast.Node type, emitting code
// that leaves exactly one Value on the operand stack (spec.md §4.3).
func (c *Compiler) compileExpr(n ast.Node) error {
	switch e := n.(type) {
	case *ast.Nil:
		c.chunk.WriteOp(OP_NIL, e.Span())
	case *ast.Int:
		c.emitConst(value.Int(e.Value), e.Span())
	case *ast.Float:
		c.emitConst(value.Float(e.Value), e.Span())
	case *ast.Str:
		c.emitConst(value.Str(e.Value), e.Span())
	case *ast.Ident:
		c.compileIdentLoad(e.Name, e.Span())
	case *ast.VecLit:
		return c.compileVecLit(e)
	case *ast.ObjLit:
		return c.compileObjLit(e)
	case *ast.Unary:
		return c.compileUnary(e)
	case *ast.Binary:
		return c.compileBinary(e)
	case *ast.Index:
		return c.compileIndexLoad(e)
	case *ast.Slice:
		return c.compileSliceLoad(e)
	case *ast.Field:
		return c.compileFieldLoad(e)
	case *ast.Assign:
		return c.compileAssign(e)
	case *ast.OpAssign:
		return c.compileOpAssign(e)
	case *ast.Block:
		return c.compileBlock(e)
	case *ast.If:
		return c.compileIf(e)
	case *ast.While:
		return c.compileWhile(e)
	case *ast.For:
		return c.compileForLoop(e)
	case *ast.Fn:
		return c.compileFn(e, "")
	case *ast.Call:
		return c.compileCall(e)
	case *ast.Return:
		return c.compileReturn(e)
	case *ast.Use:
		c.chunk.WriteOp(OP_USE, e.Span())
		c.chunk.WriteU16(c.chunk.AddConstant(value.Str(e.Path)), e.Span())
	default:
		return diagnostics.Compilef(n.Span(), "cannot compile %T", n)
	}
	return nil
}

func (c *Compiler) emitConst(v value.Value, span token.Span) {
	c.chunk.WriteOp(OP_CONST, span)
	c.chunk.WriteU16(c.chunk.AddConstant(v), span)
}

func (c *Compiler) compileVecLit(e *ast.VecLit) error {
	for _, el := range e.Elems {
		if err := c.compileExpr(el); err != nil {
			return err
		}
	}
	c.chunk.WriteOp(OP_MAKE_VEC, e.Span())
	c.chunk.WriteU16(uint16(len(e.Elems)), e.Span())
	return nil
}

func (c *Compiler) compileObjLit(e *ast.ObjLit) error {
	for _, entry := range e.Entries {
		if err := c.compileExpr(entry.Key); err != nil {
			return err
		}
		if err := c.compileExpr(entry.Value); err != nil {
			return err
		}
	}
	c.chunk.WriteOp(OP_MAKE_OBJ, e.Span())
	c.chunk.WriteU16(uint16(len(e.Entries)), e.Span())
	return nil
}

func (c *Compiler) compileUnary(e *ast.Unary) error {
	if err := c.compileExpr(e.Operand); err != nil {
		return err
	}
	switch e.Op {
	case token.MINUS:
		c.chunk.WriteOp(OP_NEG, e.Span())
	case token.BANG:
		c.chunk.WriteOp(OP_NOT, e.Span())
	case token.PLUS:
		c.chunk.WriteOp(OP_LEN, e.Span())
	default:
		return diagnostics.Compilef(e.Span(), "unsupported unary operator %s", e.Op)
	}
	return nil
}

var binOpcodes = map[token.Type]Opcode{
	token.PLUS: OP_ADD, token.MINUS: OP_SUB, token.STAR: OP_MUL,
	token.SLASH: OP_DIV, token.PERCENT: OP_MOD,
	token.EQ: OP_EQ, token.NEQ: OP_NEQ,
	token.LT: OP_LT, token.LE: OP_LE, token.GT: OP_GT, token.GE: OP_GE,
	token.APPEND: OP_APPEND,
}

func (c *Compiler) compileBinary(e *ast.Binary) error {
	switch e.Op {
	case token.PIPE:
		return c.compileOr(e)
	case token.AMP:
		return c.compileAnd(e)
	}
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	if err := c.compileExpr(e.Right); err != nil {
		return err
	}
	op, ok := binOpcodes[e.Op]
	if !ok {
		return diagnostics.Compilef(e.Span(), "unsupported binary operator %s", e.Op)
	}
	c.chunk.WriteOp(op, e.Span())
	return nil
}

// compileOr compiles `a | b`: yields a if truthy (without evaluating
// b), else b.
func (c *Compiler) compileOr(e *ast.Binary) error {
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	c.chunk.WriteOp(OP_JMP_IF_TRUE, e.Span())
	skip := c.chunk.WriteI16Placeholder(e.Span())
	c.chunk.WriteOp(OP_POP, e.Span())
	if err := c.compileExpr(e.Right); err != nil {
		return err
	}
	c.chunk.PatchJump(skip)
	return nil
}

// compileAnd compiles `a & b`: yields a if falsy (without evaluating
// b), else b.
func (c *Compiler) compileAnd(e *ast.Binary) error {
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	c.chunk.WriteOp(OP_JMP_IF_FALSE_KEEP, e.Span())
	skip := c.chunk.WriteI16Placeholder(e.Span())
	c.chunk.WriteOp(OP_POP, e.Span())
	if err := c.compileExpr(e.Right); err != nil {
		return err
	}
	c.chunk.PatchJump(skip)
	return nil
}

func (c *Compiler) compileIndexLoad(e *ast.Index) error {
	if err := c.compileExpr(e.Target); err != nil {
		return err
	}
	if err := c.compileExpr(e.Key); err != nil {
		return err
	}
	c.chunk.WriteOp(OP_GET_INDEX, e.Span())
	return nil
}

func (c *Compiler) compileSliceLoad(e *ast.Slice) error {
	if err := c.compileExpr(e.Target); err != nil {
		return err
	}
	if e.From == nil {
		c.chunk.WriteOp(OP_NIL, e.Span())
	} else if err := c.compileExpr(e.From); err != nil {
		return err
	}
	if e.To == nil {
		c.chunk.WriteOp(OP_NIL, e.Span())
	} else if err := c.compileExpr(e.To); err != nil {
		return err
	}
	c.chunk.WriteOp(OP_SLICE, e.Span())
	return nil
}

func (c *Compiler) compileFieldLoad(e *ast.Field) error {
	if err := c.compileExpr(e.Target); err != nil {
		return err
	}
	c.emitConst(value.Str(e.Name), e.Span())
	c.chunk.WriteOp(OP_GET_INDEX, e.Span())
	return nil
}

func (c *Compiler) compileBlock(e *ast.Block) error {
	if len(e.Exprs) == 0 {
		c.chunk.WriteOp(OP_NIL, e.Span())
		return nil
	}
	for i, sub := range e.Exprs {
		if err := c.compileExpr(sub); err != nil {
			return err
		}
		if i != len(e.Exprs)-1 {
			c.chunk.WriteOp(OP_POP, sub.Span())
		}
	}
	return nil
}

func (c *Compiler) compileIf(e *ast.If) error {
	if err := c.compileExpr(e.Cond); err != nil {
		return err
	}
	c.chunk.WriteOp(OP_JMP_IF_FALSE, e.Span())
	elseJump := c.chunk.WriteI16Placeholder(e.Span())
	if err := c.compileExpr(e.Then); err != nil {
		return err
	}
	c.chunk.WriteOp(OP_JMP, e.Span())
	endJump := c.chunk.WriteI16Placeholder(e.Span())
	c.chunk.PatchJump(elseJump)
	if e.Else != nil {
		if err := c.compileExpr(e.Else); err != nil {
			return err
		}
	} else {
		// spec.md: an `if` with no `else` whose condition is false
		// evaluates to Int(0).
		c.emitConst(value.Int(0), e.Span())
	}
	c.chunk.PatchJump(endJump)
	return nil
}

func (c *Compiler) compileWhile(e *ast.While) error {
	c.chunk.WriteOp(OP_NIL, e.Span())
	start := len(c.chunk.Code)
	if err := c.compileExpr(e.Cond); err != nil {
		return err
	}
	c.chunk.WriteOp(OP_JMP_IF_FALSE, e.Span())
	end := c.chunk.WriteI16Placeholder(e.Span())
	c.chunk.WriteOp(OP_POP, e.Span())
	if err := c.compileExpr(e.Body); err != nil {
		return err
	}
	c.emitJumpBack(start, e.Span())
	c.chunk.PatchJump(end)
	return nil
}

func (c *Compiler) compileForLoop(e *ast.For) error {
	if e.Init != nil {
		if err := c.compileExpr(e.Init); err != nil {
			return err
		}
		c.chunk.WriteOp(OP_POP, e.Init.Span())
	}
	c.chunk.WriteOp(OP_NIL, e.Span())
	start := len(c.chunk.Code)
	if e.Cond != nil {
		if err := c.compileExpr(e.Cond); err != nil {
			return err
		}
	} else {
		c.emitConst(value.Int(1), e.Span())
	}
	c.chunk.WriteOp(OP_JMP_IF_FALSE, e.Span())
	end := c.chunk.WriteI16Placeholder(e.Span())
	c.chunk.WriteOp(OP_POP, e.Span())
	if err := c.compileExpr(e.Body); err != nil {
		return err
	}
	if e.Step != nil {
		if err := c.compileExpr(e.Step); err != nil {
			return err
		}
		c.chunk.WriteOp(OP_POP, e.Step.Span())
	}
	c.emitJumpBack(start, e.Span())
	c.chunk.PatchJump(end)
	return nil
}

func (c *Compiler) emitJumpBack(target int, span token.Span) {
	c.chunk.WriteOp(OP_JMP, span)
	off := c.chunk.WriteI16Placeholder(span)
	dist := target - (off + 2)
	c.chunk.Code[off] = byte(uint16(int16(dist)) >> 8)
	c.chunk.Code[off+1] = byte(uint16(int16(dist)))
}

func (c *Compiler) compileFn(e *ast.Fn, nameHint string) error {
	name := e.Name
	if name == "" {
		name = nameHint
	}
	child := newChildCompiler(c, name)
	for _, p := range e.Params {
		child.addLocal(p)
	}
	chunk, err := child.compileSingleExprBody(e.Body)
	if err != nil {
		return err
	}
	chunk.Arity = len(e.Params)
	fn := &value.Function{Name: name, Arity: chunk.Arity, Chunk: chunk, NumUpvalues: len(chunk.Upvalues)}
	idx := c.chunk.AddConstant(value.FunctionVal(fn))
	c.chunk.WriteOp(OP_MAKE_CLOSURE, e.Span())
	c.chunk.WriteU16(idx, e.Span())
	for _, uv := range chunk.Upvalues {
		b := byte(0)
		if uv.IsLocal {
			b = 1
		}
		c.chunk.WriteByte(b, e.Span())
		c.chunk.WriteByte(uv.Index, e.Span())
	}
	return nil
}

// compileCall compiles every call uniformly through CALL, including
// calls to `print`/`read`: those are ordinary global names bound to
// builtin closures (see registerBuiltins in vm.go), not compiler
// intrinsics, so they resolve, shadow, and pass around like any other
// callable (spec.md §4.3).
func (c *Compiler) compileCall(e *ast.Call) error {
	if err := c.compileExpr(e.Callee); err != nil {
		return err
	}
	for _, a := range e.Args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	if len(e.Args) > 255 {
		return diagnostics.Compilef(e.Span(), "too many arguments (max 255)")
	}
	c.chunk.WriteOp(OP_CALL, e.Span())
	c.chunk.WriteByte(byte(len(e.Args)), e.Span())
	return nil
}

func (c *Compiler) compileReturn(e *ast.Return) error {
	if e.Value != nil {
		if err := c.compileExpr(e.Value); err != nil {
			return err
		}
	} else {
		c.chunk.WriteOp(OP_NIL, e.Span())
	}
	c.chunk.WriteOp(OP_RETURN, e.Span())
	// RETURN exits the frame unconditionally and never falls through.
	// The NIL after it is unreachable; it keeps the rule that every
	// compiled expression leaves one value, so the enclosing
	// construct's own POP (also dead code) still matches.
	c.chunk.WriteOp(OP_NIL, e.Span())
	return nil
}
