package vm

import (
	"github.com/aoclang/aoclang/internal/diagnostics"
	"github.com/aoclang/aoclang/internal/token"
	"github.com/aoclang/aoclang/internal/value"
)

func (f *frame) chunk() *Chunk { return f.closure.Fn.Chunk.(*Chunk) }

func (f *frame) readByte() byte {
	b := f.chunk().Code[f.ip]
	f.ip++
	return b
}

func (f *frame) readU16() uint16 {
	hi, lo := f.readByte(), f.readByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (f *frame) readI16() int16 { return int16(f.readU16()) }

func (f *frame) span() token.Span { return f.chunk().SpanAt(f.ip) }

// run is the VM's fetch-decode-execute loop. It drives frames pushed
// onto vm.frames until the outermost (script) frame returns.
func (vm *VM) run() (value.Value, error) {
	for {
		if err := vm.ctx.Err(); err != nil {
			f := vm.currentFrame()
			return value.Nil(), diagnostics.NewRuntime(diagnostics.Cancelled, f.span(), "execution cancelled")
		}
		f := vm.currentFrame()
		span := f.span()
		op := Opcode(f.readByte())
		if vm.Tracer != nil {
			vm.Tracer.BeforeInstruction(vm, f, op)
		}

		switch op {
		case OP_CONST:
			vm.push(f.chunk().Constants[f.readU16()])
		case OP_NIL:
			vm.push(value.Nil())
		case OP_POP:
			vm.pop()
		case OP_DUP:
			vm.push(vm.peek(0))

		case OP_GET_LOCAL:
			vm.push(f.locals[f.readByte()].Value)
		case OP_SET_LOCAL:
			f.locals[f.readByte()].Value = vm.peek(0)
		case OP_GET_UPVAL:
			vm.push(f.closure.Upvalues[f.readByte()].Value)
		case OP_SET_UPVAL:
			f.closure.Upvalues[f.readByte()].Value = vm.peek(0)
		case OP_GET_GLOBAL:
			name := f.chunk().Constants[f.readU16()].AsStr()
			vm.push(vm.Globals[name]) // zero Value{} is Nil
		case OP_SET_GLOBAL:
			name := f.chunk().Constants[f.readU16()].AsStr()
			vm.Globals[name] = vm.peek(0)

		case OP_GET_INDEX:
			key := vm.pop()
			target := vm.pop()
			v, err := getIndex(target, key, span)
			if err != nil {
				return value.Nil(), err
			}
			vm.push(v)
		case OP_SET_INDEX:
			val := vm.pop()
			key := vm.pop()
			target := vm.pop()
			if err := setIndex(target, key, val, span); err != nil {
				return value.Nil(), err
			}
			vm.push(val)
		case OP_SLICE:
			to := vm.pop()
			from := vm.pop()
			target := vm.pop()
			v, err := doSlice(target, from, to, span)
			if err != nil {
				return value.Nil(), err
			}
			vm.push(v)
		case OP_APPEND:
			val := vm.pop()
			target := vm.pop()
			if !target.IsVec() {
				return value.Nil(), diagnostics.NewRuntime(diagnostics.TypeMismatch, span, "<< requires a vector, got %s", target.Kind())
			}
			vec := target.AsVec()
			vec.Elems = append(vec.Elems, val)
			vm.push(target)

		case OP_NEG:
			v := vm.pop()
			switch {
			case v.IsInt():
				vm.push(value.Int(-v.AsInt()))
			case v.IsFloat():
				vm.push(value.Float(-v.AsFloat()))
			default:
				return value.Nil(), diagnostics.NewRuntime(diagnostics.TypeMismatch, span, "unary - requires a number, got %s", v.Kind())
			}
		case OP_NOT:
			v := vm.pop()
			if v.Truthy() {
				vm.push(value.Int(0))
			} else {
				vm.push(value.Int(1))
			}
		case OP_LEN:
			v := vm.pop()
			n, ok := value.Len(v)
			if !ok {
				return value.Nil(), diagnostics.NewRuntime(diagnostics.TypeMismatch, span, "unary + (length) requires Str/Vec/Object, got %s", v.Kind())
			}
			vm.push(value.Int(n))

		case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD:
			b := vm.pop()
			a := vm.pop()
			v, err := arith(op, a, b, span)
			if err != nil {
				return value.Nil(), err
			}
			vm.push(v)

		case OP_EQ:
			b, a := vm.pop(), vm.pop()
			vm.push(boolValue(value.Equals(a, b)))
		case OP_NEQ:
			b, a := vm.pop(), vm.pop()
			vm.push(boolValue(!value.Equals(a, b)))
		case OP_LT, OP_LE, OP_GT, OP_GE:
			b, a := vm.pop(), vm.pop()
			cmp, ok := value.Compare(a, b)
			if !ok {
				return value.Nil(), diagnostics.NewRuntime(diagnostics.TypeMismatch, span, "%s and %s are not comparable", a.Kind(), b.Kind())
			}
			var result bool
			switch op {
			case OP_LT:
				result = cmp < 0
			case OP_LE:
				result = cmp <= 0
			case OP_GT:
				result = cmp > 0
			case OP_GE:
				result = cmp >= 0
			}
			vm.push(boolValue(result))

		case OP_JMP:
			off := f.readI16()
			f.ip += int(off)
		case OP_JMP_IF_FALSE:
			off := f.readI16()
			if !vm.pop().Truthy() {
				f.ip += int(off)
			}
		case OP_JMP_IF_TRUE:
			off := f.readI16()
			if vm.peek(0).Truthy() {
				f.ip += int(off)
			}
		case OP_JMP_IF_FALSE_KEEP:
			off := f.readI16()
			if !vm.peek(0).Truthy() {
				f.ip += int(off)
			}

		case OP_CALL:
			argc := int(f.readByte())
			if err := vm.call(argc, span); err != nil {
				return value.Nil(), err
			}
		case OP_RETURN:
			result := vm.pop()
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return result, nil
			}
			vm.push(result)

		case OP_MAKE_VEC:
			n := int(f.readU16())
			elems := make([]value.Value, n)
			copy(elems, vm.stack[len(vm.stack)-n:])
			vm.stack = vm.stack[:len(vm.stack)-n]
			vm.push(value.VecVal(value.NewVec(elems)))
		case OP_MAKE_OBJ:
			n := int(f.readU16())
			obj := value.NewObject()
			base := len(vm.stack) - 2*n
			for i := 0; i < n; i++ {
				k := vm.stack[base+2*i]
				v := vm.stack[base+2*i+1]
				if !obj.Set(k, v) {
					return value.Nil(), diagnostics.NewRuntime(diagnostics.KeyUnhashable, span, "object key %s is not hashable", k.String())
				}
			}
			vm.stack = vm.stack[:base]
			vm.push(value.ObjectVal(obj))
		case OP_MAKE_CLOSURE:
			fn := f.chunk().Constants[f.readU16()].AsFunction()
			childChunk := fn.Chunk.(*Chunk)
			upvalues := make([]*value.Cell, len(childChunk.Upvalues))
			for i := range childChunk.Upvalues {
				isLocal := f.readByte() != 0
				idx := f.readByte()
				if isLocal {
					upvalues[i] = f.locals[idx]
				} else {
					upvalues[i] = f.closure.Upvalues[idx]
				}
			}
			vm.push(value.ClosureVal(&value.Closure{Fn: fn, Upvalues: upvalues}))

		case OP_USE:
			path := f.chunk().Constants[f.readU16()].AsStr()
			v, err := vm.Loader.Load(path)
			if err != nil {
				return value.Nil(), diagnostics.NewRuntime(diagnostics.NotCallable, span, "use %q: %s", path, err)
			}
			vm.push(v)

		case OP_CHECK_DESTRUCTURE_LEN:
			slot := f.readByte()
			expected := int(f.readU16())
			vec := f.locals[slot].Value
			n, ok := value.Len(vec)
			if !ok {
				return value.Nil(), diagnostics.NewRuntime(diagnostics.TypeMismatch, span, "cannot destructure %s as a vector", vec.Kind())
			}
			if int(n) != expected {
				return value.Nil(), diagnostics.NewRuntime(diagnostics.DestructureLength, span, "destructuring pattern expects %d element(s), got %d", expected, n)
			}

		default:
			return value.Nil(), diagnostics.NewRuntime(diagnostics.TypeMismatch, span, "unknown opcode %d", op)
		}

		if vm.Tracer != nil {
			vm.Tracer.AfterInstruction(vm, f, op)
		}
	}
}

func boolValue(b bool) value.Value {
	if b {
		return value.Int(1)
	}
	return value.Int(0)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// call pops argc arguments and a callee off the stack and either
// pushes a new frame (Closure) or raises NotCallable.
func (vm *VM) call(argc int, span token.Span) error {
	if len(vm.stack) >= MaxStack {
		return diagnostics.NewRuntime(diagnostics.StackOverflow, span, "operand stack exceeded %d values", MaxStack)
	}
	args := make([]value.Value, argc)
	copy(args, vm.stack[len(vm.stack)-argc:])
	vm.stack = vm.stack[:len(vm.stack)-argc]
	callee := vm.pop()
	if !callee.IsClosure() {
		return diagnostics.NewRuntime(diagnostics.NotCallable, span, "%s is not callable", callee.Kind())
	}
	closure := callee.AsClosure()
	if closure.Fn.Arity >= 0 && closure.Fn.Arity != argc {
		return diagnostics.NewRuntime(diagnostics.ArityMismatch, span, "%s expects %d argument(s), got %d", closure.Fn.Name, closure.Fn.Arity, argc)
	}
	if closure.Fn.Native != nil {
		result, err := closure.Fn.Native(args)
		if err != nil {
			return err
		}
		vm.push(result)
		return nil
	}
	return vm.pushFrame(closure, args, span)
}

func (vm *VM) printValues(args []value.Value) {
	for i, a := range args {
		if i > 0 {
			vm.Stdout.Write([]byte(" "))
		}
		vm.Stdout.Write([]byte(a.String()))
	}
	vm.Stdout.Write([]byte("\n"))
}
