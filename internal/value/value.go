// Package value defines AOCLang's dynamically typed runtime values: a
// tagged union (Value) for the four value-copied kinds (Nil, Int,
// Float, Str) plus three heap kinds shared by reference (Vec, Object,
// Closure). The heap kinds keep no reference counts; Go's garbage
// collector reclaims them. Function is a compile-time prototype;
// Closure is the only callable runtime form.
package value

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags a Value's dynamic type.
type Kind uint8

const (
	KNil Kind = iota
	KInt
	KFloat
	KStr
	KVec
	KObject
	KFunction
	KClosure
)

func (k Kind) String() string {
	switch k {
	case KNil:
		return "Nil"
	case KInt:
		return "Int"
	case KFloat:
		return "Float"
	case KStr:
		return "Str"
	case KVec:
		return "Vec"
	case KObject:
		return "Object"
	case KFunction:
		return "Function"
	case KClosure:
		return "Closure"
	default:
		return "?"
	}
}

// Value is the tagged dynamic value every AOCLang expression produces.
// Int/Float live unboxed in the struct; Str is an immutable Go string;
// Vec/Object/Closure/Function carry a pointer to a shared, mutable (for
// Vec/Object) heap object.
type Value struct {
	kind Kind
	num  uint64 // bit pattern for Int or Float
	str  string
	obj  interface{} // *Vec, *Object, *Function, *Closure
}

func Nil() Value                  { return Value{kind: KNil} }
func Int(v int64) Value           { return Value{kind: KInt, num: uint64(v)} }
func Float(v float64) Value       { return Value{kind: KFloat, num: floatBits(v)} }
func Str(v string) Value          { return Value{kind: KStr, str: v} }
func VecVal(v *Vec) Value         { return Value{kind: KVec, obj: v} }
func ObjectVal(v *Object) Value   { return Value{kind: KObject, obj: v} }
func FunctionVal(v *Function) Value { return Value{kind: KFunction, obj: v} }
func ClosureVal(v *Closure) Value { return Value{kind: KClosure, obj: v} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNil() bool    { return v.kind == KNil }
func (v Value) IsInt() bool    { return v.kind == KInt }
func (v Value) IsFloat() bool  { return v.kind == KFloat }
func (v Value) IsStr() bool    { return v.kind == KStr }
func (v Value) IsVec() bool    { return v.kind == KVec }
func (v Value) IsObject() bool { return v.kind == KObject }
func (v Value) IsClosure() bool { return v.kind == KClosure }

func (v Value) AsInt() int64      { return int64(v.num) }
func (v Value) AsFloat() float64  { return bitsToFloat(v.num) }
func (v Value) AsStr() string     { return v.str }
func (v Value) AsVec() *Vec       { return v.obj.(*Vec) }
func (v Value) AsObject() *Object { return v.obj.(*Object) }
func (v Value) AsFunction() *Function { return v.obj.(*Function) }
func (v Value) AsClosure() *Closure   { return v.obj.(*Closure) }

// AsFloat64 returns the numeric value of an Int or Float as a float64,
// for mixed-type arithmetic paths that have already checked the kind.
func (v Value) AsFloat64() float64 {
	if v.kind == KInt {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

// Vec is the shared, mutable, reference-counted sequence backing a
// Vec value. Reference counting here is purely documentary: Go's
// garbage collector reclaims the backing array, but §9 of the design
// calls for reference semantics on assignment (copy the pointer, not
// the payload), which *Vec already gives for free.
type Vec struct {
	Elems []Value
}

func NewVec(elems []Value) *Vec { return &Vec{Elems: elems} }

// Object is the shared, mutable mapping backing an Object value. Key
// order is insertion order, preserved for iteration and printing.
type Object struct {
	keys   []Value
	hashes []hashKey
	values map[hashKey]Value
}

func NewObject() *Object {
	return &Object{values: make(map[hashKey]Value)}
}

// hashKey is the normalized, comparable form of an Object key.
type hashKey struct {
	kind Kind
	num  uint64
	str  string
}

// HashKeyOf returns the normalized key for v, or ok=false if v cannot
// be used as an Object key (Vec, Object, Function, Closure, or a NaN
// Float — see spec.md §9).
func HashKeyOf(v Value) (hashKey, bool) {
	switch v.kind {
	case KInt:
		return hashKey{kind: KInt, num: v.num}, true
	case KFloat:
		f := v.AsFloat()
		if f != f { // NaN
			return hashKey{}, false
		}
		// Int-valued floats hash equal to the matching Int, matching
		// the Int<->Float numeric equality rule.
		if i := int64(f); float64(i) == f {
			return hashKey{kind: KInt, num: uint64(i)}, true
		}
		return hashKey{kind: KFloat, num: v.num}, true
	case KStr:
		return hashKey{kind: KStr, str: v.str}, true
	case KNil:
		return hashKey{kind: KNil}, true
	default:
		return hashKey{}, false
	}
}

func (o *Object) Get(key Value) (Value, bool) {
	hk, ok := HashKeyOf(key)
	if !ok {
		return Value{}, false
	}
	v, ok := o.values[hk]
	return v, ok
}

// Set inserts or updates key, returning false if key is unhashable.
func (o *Object) Set(key, val Value) bool {
	hk, ok := HashKeyOf(key)
	if !ok {
		return false
	}
	if _, exists := o.values[hk]; !exists {
		o.keys = append(o.keys, key)
		o.hashes = append(o.hashes, hk)
	}
	o.values[hk] = val
	return true
}

func (o *Object) Len() int { return len(o.keys) }

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []Value { return o.keys }

func (o *Object) ValueAt(i int) Value {
	v, _ := o.values[o.hashes[i]]
	return v
}

// Native is a builtin callable implemented in Go instead of compiled
// bytecode. The VM invokes it with already arity-checked arguments
// (unless Function.Arity is negative, meaning variadic).
type Native func(args []Value) (Value, error)

// Function is the compile-time prototype for a callable: arity plus
// either a reference to its compiled chunk and upvalue descriptors,
// or, for a builtin, a Native implementation. It is unbound: a
// Closure wraps a Function with its captured upvalues. The Chunk type
// lives in package vm; Function stores it as interface{} to avoid an
// import cycle (vm already imports value).
type Function struct {
	Name        string
	Arity       int // negative means variadic, skip the arity check
	Chunk       interface{} // *vm.Chunk, nil for a Native function
	NumUpvalues int
	Native      Native
}

// Cell is a boxed slot: a mutable, shareable location used both for
// every local slot of a frame (captured or not) and for the upvalue
// itself. Boxing is what lets a captured local outlive
// the frame that declared it.
type Cell struct {
	Value Value
}

// Closure is the only callable runtime value: a Function prototype
// plus the upvalue cells it closed over at creation time.
type Closure struct {
	Fn       *Function
	Upvalues []*Cell
}

// ---- truthiness, stringification ----------------------------------------

// Truthy implements spec.md §3.3: Nil, Int(0), Float(0.0), and empty
// string/vector/object are false; everything else is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KNil:
		return false
	case KInt:
		return v.AsInt() != 0
	case KFloat:
		return v.AsFloat() != 0
	case KStr:
		return v.str != ""
	case KVec:
		return len(v.AsVec().Elems) != 0
	case KObject:
		return v.AsObject().Len() != 0
	default:
		return true
	}
}

// String renders v the way `print` and the REPL do.
func (v Value) String() string {
	switch v.kind {
	case KNil:
		return "nil"
	case KInt:
		return strconv.FormatInt(v.AsInt(), 10)
	case KFloat:
		return strconv.FormatFloat(v.AsFloat(), 'g', -1, 64)
	case KStr:
		return v.str
	case KVec:
		elems := v.AsVec().Elems
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = e.inspect()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KObject:
		obj := v.AsObject()
		parts := make([]string, obj.Len())
		for i, k := range obj.Keys() {
			parts[i] = k.inspect() + ": " + obj.ValueAt(i).inspect()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KFunction:
		return "<fn " + v.AsFunction().Name + ">"
	case KClosure:
		return "<fn " + v.AsClosure().Fn.Name + ">"
	default:
		return "?"
	}
}

// inspect is String but quotes strings, for use inside container
// literals (so [1, "a"] prints as [1, "a"], not [1, a]).
func (v Value) inspect() string {
	if v.kind == KStr {
		return strconv.Quote(v.str)
	}
	return v.String()
}

func floatBits(f float64) uint64   { return math.Float64bits(f) }
func bitsToFloat(b uint64) float64 { return math.Float64frombits(b) }
