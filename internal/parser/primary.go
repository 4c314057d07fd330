package parser

import (
	"github.com/aoclang/aoclang/internal/ast"
	"github.com/aoclang/aoclang/internal/diagnostics"
	"github.com/aoclang/aoclang/internal/token"
)

// parsePrefix dispatches on the current token to parse a literal,
// identifier, unary operator, grouped expression, or special form
// (if/while/for/fn/return/use/block/vector/object literal).
func (p *Parser) parsePrefix() (ast.Node, error) {
	switch p.cur.Type {
	case token.KW_NIL:
		n := ast.NewNil(p.cur.Span)
		return n, p.advance()
	case token.INT:
		n := ast.NewInt(p.cur.Span, p.cur.Literal.(int64))
		return n, p.advance()
	case token.FLOAT:
		n := ast.NewFloat(p.cur.Span, p.cur.Literal.(float64))
		return n, p.advance()
	case token.STR:
		n := ast.NewStr(p.cur.Span, p.cur.Literal.(string))
		return n, p.advance()
	case token.IDENT:
		n := ast.NewIdent(p.cur.Span, p.cur.Lexeme)
		return n, p.advance()
	case token.PLUS, token.MINUS, token.BANG:
		return p.parseUnary()
	case token.LPAREN:
		return p.parseGrouped()
	case token.LBRACKET:
		return p.parseVecLit()
	case token.OBJ_START:
		return p.parseObjLit()
	case token.LBRACE:
		return p.parseBlock()
	case token.KW_IF:
		return p.parseIf()
	case token.KW_WHILE:
		return p.parseWhile()
	case token.KW_FOR:
		return p.parseFor()
	case token.KW_FN:
		return p.parseFn()
	case token.KW_RETURN:
		return p.parseReturn()
	case token.KW_USE:
		return p.parseUse()
	default:
		return nil, diagnostics.Parsef(p.cur.Span, "unexpected token %s (%q)", p.cur.Type, p.cur.Lexeme)
	}
}

func (p *Parser) parseUnary() (ast.Node, error) {
	op := p.cur.Type
	span := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.parseExpression(precUnary)
	if err != nil {
		return nil, err
	}
	return ast.NewUnary(spanCover(span, operand.Span()), op, operand), nil
}

func (p *Parser) parseGrouped() (ast.Node, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	e, err := p.parseExpression(precAssign)
	if err != nil {
		return nil, err
	}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) parseVecLit() (ast.Node, error) {
	span := p.cur.Span
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	var elems []ast.Node
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	for !p.curIs(token.RBRACKET) {
		e, err := p.parseExpression(precAssign)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		if p.curIs(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.skipNewlines(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	end, err := p.expect(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	return ast.NewVecLit(spanCover(span, end.Span), elems), nil
}

func (p *Parser) parseObjLit() (ast.Node, error) {
	span := p.cur.Span
	if err := p.advance(); err != nil { // consume '{='
		return nil, err
	}
	var entries []ast.ObjEntry
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	for !p.curIs(token.RBRACE) {
		key, err := p.parseExpression(precOr) // stop before bare '=' so key=value parses cleanly
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ASSIGN); err != nil {
			return nil, err
		}
		val, err := p.parseExpression(precAssign)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.ObjEntry{Key: key, Value: val})
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		if p.curIs(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.skipNewlines(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	end, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return ast.NewObjLit(spanCover(span, end.Span), entries), nil
}

func (p *Parser) parseReturn() (ast.Node, error) {
	span := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.atExprEnd() {
		return ast.NewReturn(span, nil), nil
	}
	val, err := p.parseExpression(precAssign)
	if err != nil {
		return nil, err
	}
	return ast.NewReturn(spanCover(span, val.Span()), val), nil
}

// atExprEnd reports whether the current token cannot start an
// expression, i.e. a bare `return` has nothing to parse.
func (p *Parser) atExprEnd() bool {
	switch p.cur.Type {
	case token.NEWLINE, token.SEMI, token.EOF, token.RBRACE, token.RPAREN, token.RBRACKET, token.KW_ELSE:
		return true
	default:
		return false
	}
}

func (p *Parser) parseUse() (ast.Node, error) {
	span := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	pathTok, err := p.expect(token.STR)
	if err != nil {
		return nil, err
	}
	return ast.NewUse(spanCover(span, pathTok.Span), pathTok.Literal.(string)), nil
}
