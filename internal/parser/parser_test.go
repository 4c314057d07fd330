package parser_test

import (
	"testing"

	"github.com/aoclang/aoclang/internal/ast"
	"github.com/aoclang/aoclang/internal/parser"
)

func mustParse(t *testing.T, src string) []ast.Node {
	t.Helper()
	prog, err := parser.ParseProgram(src)
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}
	return prog
}

func TestParseProgramShapes(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"assignment", "a = 5"},
		{"arithmetic_precedence", "a = 5 + 2 * 10"},
		{"unary_minus", "a = -5"},
		{"grouped", "a = (b + c) * -d"},
		{"vec_literal", "x = [1, 2, 3]"},
		{"obj_literal", "x = {= a = 1, b = 2 }"},
		{"if_expr", "if a > b { a } else { b }"},
		{"while_expr", "while i < 10 { i += 1 }"},
		{"for_expr", "for i = 0; i < 10; i += 1 { i }"},
		{"fn_literal", "f = fn(x, y) { x + y }"},
		{"call", "add(1, 2)"},
		{"index", "v[0]"},
		{"slice", "v[1, 3]"},
		{"field", "obj.name"},
		{"append", "v << 1"},
		{"destructure", "[a, b] = [1, 2]"},
		{"compound_assign", "x += 1"},
		{"short_circuit_or", "a | b"},
		{"short_circuit_and", "a & b"},
		{"use_stmt", `use "lib.aoc"`},
		{"return_bare", "f = fn() { return }"},
		{"return_value", "f = fn() { return 1 }"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prog := mustParse(t, tc.src)
			if len(prog) == 0 {
				t.Fatalf("expected at least one top-level node for %q", tc.src)
			}
		})
	}
}

func TestIfWithoutElseHasNilElse(t *testing.T) {
	prog := mustParse(t, "if a { b }")
	ifExpr, ok := prog[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", prog[0])
	}
	if ifExpr.Else != nil {
		t.Errorf("expected nil Else, got %v", ifExpr.Else)
	}
}

func TestAssignIsRightAssociative(t *testing.T) {
	prog := mustParse(t, "a = b = 1")
	assign, ok := prog[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", prog[0])
	}
	if _, ok := assign.Value.(*ast.Assign); !ok {
		t.Fatalf("expected nested Assign as value, got %T", assign.Value)
	}
}

func TestCompoundAssignDesugarsOp(t *testing.T) {
	prog := mustParse(t, "x += 1")
	opAssign, ok := prog[0].(*ast.OpAssign)
	if !ok {
		t.Fatalf("expected *ast.OpAssign, got %T", prog[0])
	}
	if opAssign.Op.String() != "+" {
		t.Errorf("Op = %s, want +", opAssign.Op)
	}
}

func TestDestructurePatternIsVecLValue(t *testing.T) {
	prog := mustParse(t, "[a, b] = [1, 2]")
	assign, ok := prog[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", prog[0])
	}
	if _, ok := assign.Target.(*ast.VecLit); !ok {
		t.Fatalf("expected *ast.VecLit target, got %T", assign.Target)
	}
}

func TestInvalidAssignTargetIsError(t *testing.T) {
	if _, err := parser.ParseProgram("1 = 2"); err == nil {
		t.Fatal("expected an error assigning to a literal")
	}
}

func TestMultipleTopLevelExpressionsSeparatedByNewline(t *testing.T) {
	prog := mustParse(t, "a = 1\nb = 2\nc = 3")
	if len(prog) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d", len(prog))
	}
}

func TestMultipleTopLevelExpressionsSeparatedBySemicolon(t *testing.T) {
	prog := mustParse(t, "a = 1; b = 2")
	if len(prog) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(prog))
	}
}
