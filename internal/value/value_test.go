package value_test

import (
	"math"
	"testing"

	"github.com/aoclang/aoclang/internal/value"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"nil", value.Nil(), false},
		{"zero_int", value.Int(0), false},
		{"nonzero_int", value.Int(1), true},
		{"negative_int", value.Int(-1), true},
		{"zero_float", value.Float(0), false},
		{"nonzero_float", value.Float(0.5), true},
		{"empty_str", value.Str(""), false},
		{"nonempty_str", value.Str("x"), true},
		{"empty_vec", value.VecVal(value.NewVec(nil)), false},
		{"nonempty_vec", value.VecVal(value.NewVec([]value.Value{value.Int(1)})), true},
		{"empty_object", value.ObjectVal(value.NewObject()), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.v.Truthy(); got != tc.want {
				t.Errorf("Truthy() = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestDoubleNegationIsStable checks, for a sample of values, that
// negating Truthy() twice gives Truthy() back. It works on Go bools;
// the VM's `!` operator, which maps Truthy to Int 0/1, is not run here.
func TestDoubleNegationIsStable(t *testing.T) {
	for _, v := range []value.Value{value.Nil(), value.Int(0), value.Int(5), value.Str(""), value.Str("x")} {
		once := !v.Truthy()
		twice := !once
		if twice != v.Truthy() {
			t.Errorf("!!%v inconsistent with Truthy()", v)
		}
	}
}

func TestEqualsCrossTypeNumeric(t *testing.T) {
	if !value.Equals(value.Int(2), value.Float(2.0)) {
		t.Error("Int(2) should equal Float(2.0)")
	}
	if value.Equals(value.Int(2), value.Str("2")) {
		t.Error("Int(2) should not equal Str(\"2\")")
	}
}

func TestEqualsNaNNeverEqual(t *testing.T) {
	nan := value.Float(math.NaN())
	if value.Equals(nan, nan) {
		t.Error("NaN should never equal itself")
	}
}

func TestEqualsVecByValue(t *testing.T) {
	a := value.VecVal(value.NewVec([]value.Value{value.Int(1), value.Int(2)}))
	b := value.VecVal(value.NewVec([]value.Value{value.Int(1), value.Int(2)}))
	if !value.Equals(a, b) {
		t.Error("vectors with equal elements should be equal")
	}
}

func TestCompareOrdersNumbersAcrossKinds(t *testing.T) {
	cmp, ok := value.Compare(value.Int(1), value.Float(1.5))
	if !ok || cmp >= 0 {
		t.Errorf("Compare(1, 1.5) = (%d, %v), want negative, true", cmp, ok)
	}
}

func TestCompareStringsLexicographic(t *testing.T) {
	cmp, ok := value.Compare(value.Str("abc"), value.Str("abd"))
	if !ok || cmp >= 0 {
		t.Errorf("Compare(\"abc\", \"abd\") = (%d, %v), want negative, true", cmp, ok)
	}
}

func TestCompareIncomparableKinds(t *testing.T) {
	if _, ok := value.Compare(value.Int(1), value.Str("1")); ok {
		t.Error("Int and Str should not be comparable")
	}
}

// TestLenLaw checks the `+v == len(v)` law spec.md states for
// Str/Vec/Object.
func TestLenLaw(t *testing.T) {
	if n, ok := value.Len(value.Str("hello")); !ok || n != 5 {
		t.Errorf("Len(\"hello\") = (%d, %v), want (5, true)", n, ok)
	}
	vec := value.VecVal(value.NewVec([]value.Value{value.Int(1), value.Int(2), value.Int(3)}))
	if n, ok := value.Len(vec); !ok || n != 3 {
		t.Errorf("Len(vec of 3) = (%d, %v), want (3, true)", n, ok)
	}
	obj := value.NewObject()
	obj.Set(value.Str("a"), value.Int(1))
	obj.Set(value.Str("b"), value.Int(2))
	if n, ok := value.Len(value.ObjectVal(obj)); !ok || n != 2 {
		t.Errorf("Len(obj of 2) = (%d, %v), want (2, true)", n, ok)
	}
	if _, ok := value.Len(value.Int(5)); ok {
		t.Error("Len(Int) should not be defined")
	}
}

func TestObjectSetGet(t *testing.T) {
	obj := value.NewObject()
	obj.Set(value.Str("key"), value.Int(42))
	v, ok := obj.Get(value.Str("key"))
	if !ok || v.AsInt() != 42 {
		t.Errorf("Get(\"key\") = (%v, %v), want (42, true)", v, ok)
	}
	if _, ok := obj.Get(value.Str("missing")); ok {
		t.Error("Get of missing key should report ok=false")
	}
}

func TestObjectUnhashableKeyRejected(t *testing.T) {
	obj := value.NewObject()
	vec := value.VecVal(value.NewVec([]value.Value{value.Int(1)}))
	if obj.Set(vec, value.Int(1)) {
		t.Error("a vector key should not be hashable")
	}
}

func TestStringRoundTrips(t *testing.T) {
	cases := []struct {
		v    value.Value
		want string
	}{
		{value.Nil(), "nil"},
		{value.Int(42), "42"},
		{value.Str("hi"), "hi"},
	}
	for _, tc := range cases {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("%v.String() = %q, want %q", tc.v, got, tc.want)
		}
	}
}
