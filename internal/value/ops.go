package value

// Equals implements spec.md §3.3/§4.4 equality: cross-type equality is
// false except Int<->Float, which compares numerically. NaN never
// equals anything, including itself.
func Equals(a, b Value) bool {
	switch {
	case a.kind == KInt && b.kind == KInt:
		return a.AsInt() == b.AsInt()
	case a.kind == KFloat && b.kind == KFloat:
		return a.AsFloat() == b.AsFloat()
	case a.kind == KInt && b.kind == KFloat:
		return float64(a.AsInt()) == b.AsFloat()
	case a.kind == KFloat && b.kind == KInt:
		return a.AsFloat() == float64(b.AsInt())
	case a.kind == KStr && b.kind == KStr:
		return a.str == b.str
	case a.kind == KNil && b.kind == KNil:
		return true
	case a.kind == KVec && b.kind == KVec:
		av, bv := a.AsVec(), b.AsVec()
		if av == bv {
			return true
		}
		if len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equals(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case a.kind == KObject && b.kind == KObject:
		return a.AsObject() == b.AsObject()
	case a.kind == KClosure && b.kind == KClosure:
		return a.AsClosure() == b.AsClosure()
	case a.kind == KFunction && b.kind == KFunction:
		return a.AsFunction() == b.AsFunction()
	default:
		return false
	}
}

// Compare orders a and b per spec.md §4.4: defined for number-number,
// string-string (lexicographic), and vector-vector (lexicographic by
// element). Returns ok=false for any other pairing, which the VM turns
// into a TypeMismatch runtime error.
func Compare(a, b Value) (cmp int, ok bool) {
	switch {
	case isNumeric(a) && isNumeric(b):
		af, bf := a.AsFloat64(), b.AsFloat64()
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	case a.kind == KStr && b.kind == KStr:
		switch {
		case a.str < b.str:
			return -1, true
		case a.str > b.str:
			return 1, true
		default:
			return 0, true
		}
	case a.kind == KVec && b.kind == KVec:
		av, bv := a.AsVec().Elems, b.AsVec().Elems
		n := len(av)
		if len(bv) < n {
			n = len(bv)
		}
		for i := 0; i < n; i++ {
			if c, ok := Compare(av[i], bv[i]); ok && c != 0 {
				return c, true
			} else if !ok {
				return 0, false
			}
		}
		switch {
		case len(av) < len(bv):
			return -1, true
		case len(av) > len(bv):
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

func isNumeric(v Value) bool { return v.kind == KInt || v.kind == KFloat }

// Len implements prefix `+` / the `+v == len(v)` law for strings,
// vectors, and objects.
func Len(v Value) (int64, bool) {
	switch v.kind {
	case KStr:
		return int64(len(v.str)), true
	case KVec:
		return int64(len(v.AsVec().Elems)), true
	case KObject:
		return int64(v.AsObject().Len()), true
	default:
		return 0, false
	}
}
