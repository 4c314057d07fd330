// Package parser implements AOCLang's precedence-climbing (Pratt)
// parser: it turns a token stream into the expression tree defined by
// package ast. Every construct, including control flow and blocks, is
// parsed as an expression.
package parser

import (
	"github.com/aoclang/aoclang/internal/ast"
	"github.com/aoclang/aoclang/internal/diagnostics"
	"github.com/aoclang/aoclang/internal/lexer"
	"github.com/aoclang/aoclang/internal/token"
)

// Precedence levels, lowest to highest, per spec.md §4.2.
const (
	_ int = iota
	precAssign
	precOr
	precAnd
	precCompare
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var binaryPrecedence = map[token.Type]int{
	token.PIPE:    precOr,
	token.AMP:     precAnd,
	token.EQ:      precCompare,
	token.NEQ:     precCompare,
	token.LT:      precCompare,
	token.LE:      precCompare,
	token.GT:      precCompare,
	token.GE:      precCompare,
	token.PLUS:    precAdditive,
	token.MINUS:   precAdditive,
	token.STAR:    precMultiplicative,
	token.SLASH:   precMultiplicative,
	token.PERCENT: precMultiplicative,
}

var assignOps = map[token.Type]bool{
	token.ASSIGN:     true,
	token.PLUS_ASGN:  true,
	token.MINUS_ASGN: true,
	token.STAR_ASGN:  true,
	token.SLASH_ASGN: true,
	token.PCT_ASGN:   true,
}

// opAssignBinOp maps a compound-assignment token to the binary
// operator it desugars to for OpAssign's Op field.
var opAssignBinOp = map[token.Type]token.Type{
	token.PLUS_ASGN:  token.PLUS,
	token.MINUS_ASGN: token.MINUS,
	token.STAR_ASGN:  token.STAR,
	token.SLASH_ASGN: token.SLASH,
	token.PCT_ASGN:   token.PERCENT,
}

// Parser consumes tokens from a lexer and builds an ast.Node tree.
type Parser struct {
	lex *lexer.Lexer

	cur  token.Token
	peek token.Token

	err error // checked by parseExprList; the parse functions return their errors directly and never set it
}

// New creates a Parser over src.
func New(src string) (*Parser, error) {
	p := &Parser{lex: lexer.New(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.cur = p.peek
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.peek = t
	return nil
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if !p.curIs(t) {
		return token.Token{}, diagnostics.Parsef(p.cur.Span, "expected %s, got %s (%q)", t, p.cur.Type, p.cur.Lexeme)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

// skipSeps consumes zero or more NEWLINE/SEMI tokens.
func (p *Parser) skipSeps() error {
	for p.curIs(token.NEWLINE) || p.curIs(token.SEMI) {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

// skipNewlines consumes zero or more NEWLINE tokens only (used inside
// an expression, where a line break is not a statement boundary —
// e.g. right after an open bracket, a comma, or a binary operator).
func (p *Parser) skipNewlines() error {
	for p.curIs(token.NEWLINE) {
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

// ParseProgram parses the whole source as a flat sequence of
// expressions separated by newlines or semicolons (the top-level chunk
// is treated as an implicit function body, spec.md §9).
func ParseProgram(src string) ([]ast.Node, error) {
	p, err := New(src)
	if err != nil {
		return nil, err
	}
	return p.parseExprList(token.EOF)
}

// parseExprList parses expressions separated by NEWLINE/SEMI until
// `end` is the current token (not consumed).
func (p *Parser) parseExprList(end token.Type) ([]ast.Node, error) {
	var exprs []ast.Node
	if err := p.skipSeps(); err != nil {
		return nil, err
	}
	for !p.curIs(end) {
		if p.err != nil {
			return nil, p.err
		}
		e, err := p.parseExpression(precAssign)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if err := p.skipSeps(); err != nil {
			return nil, err
		}
	}
	return exprs, nil
}

// parseExpression is the Pratt loop: parse a prefix expression, then
// repeatedly fold in infix/postfix operators bound at or above minPrec.
func (p *Parser) parseExpression(minPrec int) (ast.Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		// Postfix chain: call/index/slice/field/append bind tighter
		// than everything else and have no explicit precedence entry.
		switch p.cur.Type {
		case token.LPAREN:
			if precPostfix < minPrec {
				return left, nil
			}
			left, err = p.parseCall(left)
			if err != nil {
				return nil, err
			}
			continue
		case token.LBRACKET:
			if precPostfix < minPrec {
				return left, nil
			}
			left, err = p.parseIndexOrSlice(left)
			if err != nil {
				return nil, err
			}
			continue
		case token.DOT:
			if precPostfix < minPrec {
				return left, nil
			}
			left, err = p.parseField(left)
			if err != nil {
				return nil, err
			}
			continue
		case token.APPEND:
			if precPostfix < minPrec {
				return left, nil
			}
			left, err = p.parseAppend(left)
			if err != nil {
				return nil, err
			}
			continue
		}

		if assignOps[p.cur.Type] {
			if precAssign < minPrec {
				return left, nil
			}
			left, err = p.parseAssign(left)
			if err != nil {
				return nil, err
			}
			continue
		}

		prec, isBinary := binaryPrecedence[p.cur.Type]
		if !isBinary || prec < minPrec {
			return left, nil
		}
		left, err = p.parseBinary(left, prec)
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseBinary(left ast.Node, prec int) (ast.Node, error) {
	op := p.cur.Type
	span := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	// Comparison is non-chaining and left-associative; all operators
	// here are left-associative, so the right operand parses at
	// prec+1.
	right, err := p.parseExpression(prec + 1)
	if err != nil {
		return nil, err
	}
	return ast.NewBinary(spanCover(span, right.Span()), op, left, right), nil
}

// parseAssign handles `=`/`+=`/etc. Right-associative: `a = b = expr`
// parses as Assign(a, Assign(b, expr)).
func (p *Parser) parseAssign(left ast.Node) (ast.Node, error) {
	lv, ok := left.(ast.LValue)
	if !ok {
		return nil, diagnostics.Compilef(left.Span(), "invalid assignment target: %s", left.String())
	}
	op := p.cur.Type
	span := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(precAssign)
	if err != nil {
		return nil, err
	}
	full := spanCover(span, value.Span())
	if op == token.ASSIGN {
		return ast.NewAssign(full, lv, value), nil
	}
	return ast.NewOpAssign(full, opAssignBinOp[op], lv, value), nil
}

func spanCover(a, b token.Span) token.Span {
	return token.Span{StartLine: a.StartLine, StartCol: a.StartCol, EndLine: b.EndLine, EndCol: b.EndCol}
}
