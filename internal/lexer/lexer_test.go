package lexer_test

import (
	"testing"

	"github.com/aoclang/aoclang/internal/lexer"
	"github.com/aoclang/aoclang/internal/token"
)

func scan(t *testing.T, src string) []token.Token {
	t.Helper()
	l := lexer.New(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("lexing %q: %v", src, err)
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestNextTokenTypes(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []token.Type
	}{
		{"ints", "1 + 2", []token.Type{token.INT, token.PLUS, token.INT, token.EOF}},
		{"float", "3.14", []token.Type{token.FLOAT, token.EOF}},
		{"ident_keyword", "counter if", []token.Type{token.IDENT, token.KW_IF, token.EOF}},
		{"compound_assign", "x += 1", []token.Type{token.IDENT, token.PLUS_ASGN, token.INT, token.EOF}},
		{"two_byte_ops", "a == b != c <= d >= e", []token.Type{
			token.IDENT, token.EQ, token.IDENT, token.NEQ, token.IDENT,
			token.LE, token.IDENT, token.GE, token.IDENT, token.EOF,
		}},
		{"append_op", "v << 1", []token.Type{token.IDENT, token.APPEND, token.INT, token.EOF}},
		{"obj_start", "{= }", []token.Type{token.OBJ_START, token.RBRACE, token.EOF}},
		{"string", `"hi\n"`, []token.Type{token.STR, token.EOF}},
		{"comment_skipped", "1 # trailing comment\n2", []token.Type{
			token.INT, token.NEWLINE, token.INT, token.EOF,
		}},
		{"newline_separator", "a = 1\nb = 2", []token.Type{
			token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
			token.IDENT, token.ASSIGN, token.INT, token.EOF,
		}},
		{"use_keyword", `use "lib.aoc"`, []token.Type{token.KW_USE, token.STR, token.EOF}},
		{"nil_keyword", "nil", []token.Type{token.KW_NIL, token.EOF}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := types(scan(t, tc.src))
			if len(got) != len(tc.want) {
				t.Fatalf("token count = %d, want %d (%v vs %v)", len(got), len(tc.want), got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("token %d = %s, want %s", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestStringEscapes(t *testing.T) {
	toks := scan(t, `"a\tb\n\"c\""`)
	if toks[0].Literal.(string) != "a\tb\n\"c\"" {
		t.Errorf("literal = %q", toks[0].Literal)
	}
}

func TestNumberLiterals(t *testing.T) {
	toks := scan(t, "42")
	if toks[0].Literal.(int64) != 42 {
		t.Errorf("int literal = %v", toks[0].Literal)
	}
	toks = scan(t, "1.5")
	if toks[0].Literal.(float64) != 1.5 {
		t.Errorf("float literal = %v", toks[0].Literal)
	}
}

func TestUnknownCharacterIsLexError(t *testing.T) {
	l := lexer.New("@")
	if _, err := l.Next(); err == nil {
		t.Fatal("expected a lex error for '@'")
	}
}

func TestUnterminatedStringIsLexError(t *testing.T) {
	l := lexer.New(`"oops`)
	if _, err := l.Next(); err == nil {
		t.Fatal("expected a lex error for an unterminated string")
	}
}

func TestSpanTracksLineAndColumn(t *testing.T) {
	toks := scan(t, "a\nb")
	if toks[0].Span.StartLine != 1 {
		t.Errorf("first ident line = %d, want 1", toks[0].Span.StartLine)
	}
	if toks[0].Span.StartCol != 1 {
		t.Errorf("first ident col = %d, want 1", toks[0].Span.StartCol)
	}
	// toks: IDENT(a) NEWLINE IDENT(b) EOF
	if toks[2].Span.StartLine != 2 {
		t.Errorf("second ident line = %d, want 2", toks[2].Span.StartLine)
	}
	if toks[2].Span.StartCol != 1 {
		t.Errorf("second ident col = %d, want 1", toks[2].Span.StartCol)
	}
}
