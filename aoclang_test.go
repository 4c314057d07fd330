package aoclang_test

import (
	"strings"
	"testing"

	"github.com/aoclang/aoclang"
)

func runOK(t *testing.T, src string) string {
	t.Helper()
	out, err := aoclang.Run(src, false)
	if err != nil {
		t.Fatalf("running %q: %v", src, err)
	}
	return out
}

func TestArithmeticAndPrint(t *testing.T) {
	out := runOK(t, `print(1 + 2 * 3)`)
	if strings.TrimRight(out, "\n") != "7" {
		t.Errorf("output = %q, want 7", out)
	}
}

func TestIfExpressionYieldsValue(t *testing.T) {
	out := runOK(t, `
x = if 1 < 2 { "yes" } else { "no" }
print(x)
`)
	if strings.TrimRight(out, "\n") != "yes" {
		t.Errorf("output = %q, want yes", out)
	}
}

func TestIfWithoutElseIsZeroOnFalse(t *testing.T) {
	out := runOK(t, `
x = if 1 > 2 { "unreached" }
print(x)
`)
	if strings.TrimRight(out, "\n") != "0" {
		t.Errorf("output = %q, want 0", out)
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	out := runOK(t, `
i = 0
sum = 0
while i < 5 {
  sum += i
  i += 1
}
print(sum)
`)
	if strings.TrimRight(out, "\n") != "10" {
		t.Errorf("output = %q, want 10", out)
	}
}

func TestForLoopPrimes(t *testing.T) {
	// Count primes below 20 the obvious way, exercising for-loops,
	// nested while, and short-circuit &.
	out := runOK(t, `
count = 0
for n = 2; n < 20; n += 1 {
  isPrime = 1
  d = 2
  while d * d <= n & isPrime {
    if n % d == 0 {
      isPrime = 0
    }
    d += 1
  }
  if isPrime {
    count += 1
  }
}
print(count)
`)
	if strings.TrimRight(out, "\n") != "8" {
		t.Errorf("output = %q, want 8 (primes below 20: 2,3,5,7,11,13,17,19)", out)
	}
}

func TestClosureCapturesByReference(t *testing.T) {
	out := runOK(t, `
makeCounter = fn() {
  n = 0
  fn() {
    n += 1
    n
  }
}
counter = makeCounter()
print(counter())
print(counter())
print(counter())
`)
	want := "1\n2\n3\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestDestructuringSwap(t *testing.T) {
	out := runOK(t, `
a = 1
b = 2
[a, b] = [b, a]
print(a)
print(b)
`)
	want := "2\n1\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestDestructureShorterThanPatternIsRuntimeError(t *testing.T) {
	_, err := aoclang.Run(`[a, b, c] = [1, 2]`, false)
	if err == nil {
		t.Fatal("expected a destructure-length runtime error")
	}
}

func TestDestructureLongerThanPatternIsRuntimeError(t *testing.T) {
	_, err := aoclang.Run(`[a, b] = [1, 2, 3]`, false)
	if err == nil {
		t.Fatal("expected a destructure-length runtime error")
	}
}

func TestVectorOperations(t *testing.T) {
	out := runOK(t, `
v = [1, 2, 3]
v << 4
print(v)
print(v[1, 3])
print(+v)
`)
	want := "[1, 2, 3, 4]\n[2, 3]\n4\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestObjectAsClassBuilder(t *testing.T) {
	// Mirrors spec.md's Counter idiom: build an empty object, then hang
	// fields and a closure-over-self method off it via field assigns
	// (object-literal keys are themselves arbitrary expressions, so a
	// field name needs the `.name =` sugar rather than `{= name = v }`).
	out := runOK(t, `
makePoint = fn(x, y) {
  self = {=}
  self.x = x
  self.y = y
  self.sum = fn() { self.x + self.y }
  self
}
p = makePoint(3, 4)
print(p.sum())
`)
	if strings.TrimRight(out, "\n") != "7" {
		t.Errorf("output = %q, want 7", out)
	}
}

func TestObjectLiteralKeysAreExpressions(t *testing.T) {
	// spec.md: "keys are arbitrary expressions" — a bareword key names
	// a variable's current value, not a field-name shorthand.
	out := runOK(t, `
k = "dynamic"
obj = {= k = 1, "other" = 2 }
print(obj["dynamic"])
print(obj.other)
`)
	want := "1\n2\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestCompoundAssignOnIndexEvaluatesTargetOnce(t *testing.T) {
	out := runOK(t, `
calls = 0
v = [0, 0, 0]
idx = fn() {
  calls += 1
  1
}
v[idx()] += 5
print(v)
print(calls)
`)
	want := "[0, 5, 0]\n1\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := aoclang.Run(`print(1 / 0)`, false)
	if err == nil {
		t.Fatal("expected a division-by-zero runtime error")
	}
}

func TestPartialOutputSurvivesRuntimeError(t *testing.T) {
	out, err := aoclang.Run(`
print("before")
print(1 / 0)
print("after")
`, false)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(out, "before") {
		t.Errorf("expected partial output to contain \"before\", got %q", out)
	}
	if strings.Contains(out, "after") {
		t.Errorf("output should not contain unreached print, got %q", out)
	}
}

func TestNotCallableIsRuntimeError(t *testing.T) {
	_, err := aoclang.Run(`x = 5
x()`, false)
	if err == nil {
		t.Fatal("expected a not-callable runtime error")
	}
}

func TestPrintIsAFirstClassGlobalClosure(t *testing.T) {
	out := runOK(t, `
f = print
f(42)
`)
	if strings.TrimRight(out, "\n") != "42" {
		t.Errorf("output = %q, want 42", out)
	}
}

func TestShadowingPrintReplacesTheBuiltin(t *testing.T) {
	_, err := aoclang.Run(`
print = 5
print(1)
`, false)
	if err == nil {
		t.Fatal("expected a not-callable runtime error after shadowing print with an Int")
	}
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, err := aoclang.Run(`f = fn(a, b) { a + b }
f(1)`, false)
	if err == nil {
		t.Fatal("expected an arity-mismatch runtime error")
	}
}
