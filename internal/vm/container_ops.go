package vm

import (
	"strings"

	"github.com/aoclang/aoclang/internal/diagnostics"
	"github.com/aoclang/aoclang/internal/token"
	"github.com/aoclang/aoclang/internal/value"
)

// arith implements the numeric and container overloads of +, -, *, /,
// % described in spec.md §4.4: Int op Int stays Int (including / and
// %, which are integer division and remainder when both operands are
// Int); mixing Int and Float promotes to Float; Str/Str and Vec/Vec support
// + (concatenation) and Str/Int, Vec/Int support * (repetition).
func arith(op Opcode, a, b value.Value, span token.Span) (value.Value, error) {
	switch {
	case a.IsStr() && b.IsStr() && op == OP_ADD:
		return value.Str(a.AsStr() + b.AsStr()), nil
	case a.IsStr() && b.IsInt() && op == OP_MUL:
		return value.Str(strings.Repeat(a.AsStr(), clampRepeat(b.AsInt()))), nil
	case a.IsVec() && b.IsVec() && op == OP_ADD:
		av, bv := a.AsVec().Elems, b.AsVec().Elems
		out := make([]value.Value, 0, len(av)+len(bv))
		out = append(out, av...)
		out = append(out, bv...)
		return value.VecVal(value.NewVec(out)), nil
	case a.IsVec() && b.IsInt() && op == OP_MUL:
		av := a.AsVec().Elems
		n := clampRepeat(b.AsInt())
		out := make([]value.Value, 0, len(av)*n)
		for i := 0; i < n; i++ {
			out = append(out, av...)
		}
		return value.VecVal(value.NewVec(out)), nil
	case isNum(a) && isNum(b):
		return numericArith(op, a, b, span)
	default:
		return value.Value{}, diagnostics.NewRuntime(diagnostics.TypeMismatch, span,
			"%s is not defined for %s and %s", opSymbol(op), a.Kind(), b.Kind())
	}
}

func clampRepeat(n int64) int {
	if n < 0 {
		return 0
	}
	return int(n)
}

func isNum(v value.Value) bool { return v.IsInt() || v.IsFloat() }

func numericArith(op Opcode, a, b value.Value, span token.Span) (value.Value, error) {
	if a.IsInt() && b.IsInt() {
		x, y := a.AsInt(), b.AsInt()
		switch op {
		case OP_ADD:
			return value.Int(x + y), nil
		case OP_SUB:
			return value.Int(x - y), nil
		case OP_MUL:
			return value.Int(x * y), nil
		case OP_DIV:
			if y == 0 {
				return value.Value{}, diagnostics.NewRuntime(diagnostics.DivisionByZero, span, "division by zero")
			}
			return value.Int(x / y), nil
		case OP_MOD:
			if y == 0 {
				return value.Value{}, diagnostics.NewRuntime(diagnostics.DivisionByZero, span, "division by zero")
			}
			return value.Int(x % y), nil
		}
	}
	x, y := a.AsFloat64(), b.AsFloat64()
	switch op {
	case OP_ADD:
		return value.Float(x + y), nil
	case OP_SUB:
		return value.Float(x - y), nil
	case OP_MUL:
		return value.Float(x * y), nil
	case OP_DIV:
		if y == 0 {
			return value.Value{}, diagnostics.NewRuntime(diagnostics.DivisionByZero, span, "division by zero")
		}
		return value.Float(x / y), nil
	case OP_MOD:
		if y == 0 {
			return value.Value{}, diagnostics.NewRuntime(diagnostics.DivisionByZero, span, "division by zero")
		}
		return value.Float(floatMod(x, y)), nil
	}
	panic("unreachable arith opcode")
}

func floatMod(x, y float64) float64 {
	m := x - y*float64(int64(x/y))
	return m
}

func opSymbol(op Opcode) string {
	switch op {
	case OP_ADD:
		return "+"
	case OP_SUB:
		return "-"
	case OP_MUL:
		return "*"
	case OP_DIV:
		return "/"
	case OP_MOD:
		return "%"
	default:
		return op.String()
	}
}

// getIndex implements spec.md §4.4 indexing: Vec/Str by Int (negative
// indices count from the end), Object by any hashable key with a
// missing-key read yielding Nil, and Field sugar compiles to this same
// opcode with a constant string key.
func getIndex(target, key value.Value, span token.Span) (value.Value, error) {
	switch {
	case target.IsVec():
		vec := target.AsVec().Elems
		i, err := normalizeIndex(key, len(vec), span)
		if err != nil {
			return value.Value{}, err
		}
		return vec[i], nil
	case target.IsStr():
		s := target.AsStr()
		i, err := normalizeIndex(key, len(s), span)
		if err != nil {
			return value.Value{}, err
		}
		return value.Str(string(s[i])), nil
	case target.IsObject():
		v, ok := target.AsObject().Get(key)
		if !ok {
			return value.Nil(), nil
		}
		return v, nil
	default:
		return value.Value{}, diagnostics.NewRuntime(diagnostics.TypeMismatch, span, "cannot index %s", target.Kind())
	}
}

// setIndex implements write-through indexing, including "write creates
// the entry" for Object and Field assignment on a missing key.
func setIndex(target, key, val value.Value, span token.Span) error {
	switch {
	case target.IsVec():
		vec := target.AsVec().Elems
		i, err := normalizeIndex(key, len(vec), span)
		if err != nil {
			return err
		}
		vec[i] = val
		return nil
	case target.IsObject():
		if !target.AsObject().Set(key, val) {
			return diagnostics.NewRuntime(diagnostics.KeyUnhashable, span, "object key %s is not hashable", key.String())
		}
		return nil
	default:
		return diagnostics.NewRuntime(diagnostics.TypeMismatch, span, "cannot assign into %s", target.Kind())
	}
}

func normalizeIndex(key value.Value, length int, span token.Span) (int, error) {
	if !key.IsInt() {
		return 0, diagnostics.NewRuntime(diagnostics.TypeMismatch, span, "index must be an Int, got %s", key.Kind())
	}
	i := int(key.AsInt())
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, diagnostics.NewRuntime(diagnostics.IndexOutOfBounds, span, "index %d out of bounds for length %d", key.AsInt(), length)
	}
	return i, nil
}

// doSlice implements target[from, to] for Str and Vec, with Nil
// endpoints meaning "start" / "end" and negative indices counting from
// the end, clamped into range rather than erroring (spec.md §4.4).
func doSlice(target, from, to value.Value, span token.Span) (value.Value, error) {
	var length int
	switch {
	case target.IsVec():
		length = len(target.AsVec().Elems)
	case target.IsStr():
		length = len(target.AsStr())
	default:
		return value.Value{}, diagnostics.NewRuntime(diagnostics.TypeMismatch, span, "cannot slice %s", target.Kind())
	}
	start, err := sliceBound(from, length, 0, span)
	if err != nil {
		return value.Value{}, err
	}
	end, err := sliceBound(to, length, length, span)
	if err != nil {
		return value.Value{}, err
	}
	if end < start {
		end = start
	}
	if target.IsVec() {
		elems := target.AsVec().Elems[start:end]
		out := make([]value.Value, len(elems))
		copy(out, elems)
		return value.VecVal(value.NewVec(out)), nil
	}
	return value.Str(target.AsStr()[start:end]), nil
}

func sliceBound(v value.Value, length, dflt int, span token.Span) (int, error) {
	if v.IsNil() {
		return dflt, nil
	}
	if !v.IsInt() {
		return 0, diagnostics.NewRuntime(diagnostics.TypeMismatch, span, "slice bound must be an Int, got %s", v.Kind())
	}
	i := int(v.AsInt())
	if i < 0 {
		i += length
	}
	if i < 0 {
		i = 0
	}
	if i > length {
		i = length
	}
	return i, nil
}
