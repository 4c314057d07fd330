package vm

// Opcode is a single bytecode instruction. Every instruction carries a
// span back-reference in its owning Chunk (Chunk.Spans) for
// runtime error attribution.
type Opcode byte

const (
	OP_CONST Opcode = iota // <u16 const idx>   push Constants[idx]
	OP_NIL                 //                   push Nil
	OP_POP                 //                   pop and discard
	OP_DUP                 //                   duplicate top of stack

	OP_GET_LOCAL  // <u8 slot>         push locals[slot]
	OP_SET_LOCAL  // <u8 slot>         locals[slot] = peek(0), value stays on stack
	OP_GET_UPVAL  // <u8 idx>          push *upvalues[idx]
	OP_SET_UPVAL  // <u8 idx>          *upvalues[idx] = peek(0)
	OP_GET_GLOBAL // <u16 name const>  push globals[name]
	OP_SET_GLOBAL // <u16 name const>  globals[name] = peek(0)

	OP_GET_INDEX // pop key, target; push target[key]
	OP_SET_INDEX // pop value, key, target; target[key] = value; push value
	OP_SLICE     // pop to, from, target; push target[from, to]
	OP_APPEND    // pop value, target(vec); vec << value; push vec

	OP_NEG
	OP_NOT
	OP_LEN
	OP_ADD
	OP_SUB
	OP_MUL
	OP_DIV
	OP_MOD

	OP_EQ
	OP_NEQ
	OP_LT
	OP_LE
	OP_GT
	OP_GE

	OP_JMP           // <i16 offset>
	OP_JMP_IF_FALSE  // <i16 offset>   pops condition
	OP_JMP_IF_TRUE   // <i16 offset>   peeks condition (short-circuit: leaves operand)
	OP_JMP_IF_FALSE_KEEP // <i16 offset>  peeks condition (short-circuit: leaves operand)

	OP_CALL   // <u8 argc>
	OP_RETURN

	OP_MAKE_VEC      // <u16 n>                     pop n, push Vec
	OP_MAKE_OBJ      // <u16 n>                      pop 2n (key,val pairs), push Object
	OP_MAKE_CLOSURE  // <u16 fn const, upvalue descs follow inline>

	OP_USE // <u16 path const>   push Loader.Load(path)

	OP_CHECK_DESTRUCTURE_LEN // <u8 slot, u16 expected>  raises DestructureLength on mismatch
)

var opcodeNames = [...]string{
	OP_CONST: "CONST", OP_NIL: "NIL", OP_POP: "POP", OP_DUP: "DUP",
	OP_GET_LOCAL: "GET_LOCAL", OP_SET_LOCAL: "SET_LOCAL",
	OP_GET_UPVAL: "GET_UPVAL", OP_SET_UPVAL: "SET_UPVAL",
	OP_GET_GLOBAL: "GET_GLOBAL", OP_SET_GLOBAL: "SET_GLOBAL",
	OP_GET_INDEX: "GET_INDEX", OP_SET_INDEX: "SET_INDEX",
	OP_SLICE: "SLICE", OP_APPEND: "APPEND",
	OP_NEG: "NEG", OP_NOT: "NOT", OP_LEN: "LEN",
	OP_ADD: "ADD", OP_SUB: "SUB", OP_MUL: "MUL", OP_DIV: "DIV", OP_MOD: "MOD",
	OP_EQ: "EQ", OP_NEQ: "NEQ", OP_LT: "LT", OP_LE: "LE", OP_GT: "GT", OP_GE: "GE",
	OP_JMP: "JMP", OP_JMP_IF_FALSE: "JMP_IF_FALSE", OP_JMP_IF_TRUE: "JMP_IF_TRUE",
	OP_JMP_IF_FALSE_KEEP: "JMP_IF_FALSE_KEEP",
	OP_CALL: "CALL", OP_RETURN: "RETURN",
	OP_MAKE_VEC: "MAKE_VEC", OP_MAKE_OBJ: "MAKE_OBJ", OP_MAKE_CLOSURE: "MAKE_CLOSURE",
	OP_USE: "USE",
	OP_CHECK_DESTRUCTURE_LEN: "CHECK_DESTRUCTURE_LEN",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "UNKNOWN"
}
