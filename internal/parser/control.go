package parser

import (
	"github.com/aoclang/aoclang/internal/ast"
	"github.com/aoclang/aoclang/internal/token"
)

func (p *Parser) parseBlock() (ast.Node, error) {
	span := p.cur.Span
	if err := p.advance(); err != nil { // consume '{'
		return nil, err
	}
	exprs, err := p.parseExprList(token.RBRACE)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return ast.NewBlock(spanCover(span, end.Span), exprs), nil
}

// parseIf parses `if <expr> <expr> (else <expr>)?`. A bare condition
// with no parentheses ends where the Pratt loop finds a token that
// cannot continue it (such as `{`); a `then` expression that starts
// with `(`, `[`, `+` or `-` is read as part of the condition instead.
func (p *Parser) parseIf() (ast.Node, error) {
	span := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(precAssign)
	if err != nil {
		return nil, err
	}
	then, err := p.parseExpression(precAssign)
	if err != nil {
		return nil, err
	}
	end := then.Span()
	var els ast.Node
	if p.curIs(token.KW_ELSE) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		els, err = p.parseExpression(precAssign)
		if err != nil {
			return nil, err
		}
		end = els.Span()
	}
	return ast.NewIf(spanCover(span, end), cond, then, els), nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	span := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(precAssign)
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpression(precAssign)
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(spanCover(span, body.Span()), cond, body), nil
}

// parseFor parses `for <init>; <cond>; <step> <body>`. The init and
// cond clauses may be omitted (empty before their `;`); the step
// clause may not.
func (p *Parser) parseFor() (ast.Node, error) {
	span := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}

	var init, cond, step ast.Node
	var err error
	if !p.curIs(token.SEMI) {
		init, err = p.parseExpression(precAssign)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	if !p.curIs(token.SEMI) {
		cond, err = p.parseExpression(precAssign)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	step, err = p.parseExpression(precAssign)
	if err != nil {
		return nil, err
	}

	body, err := p.parseExpression(precAssign)
	if err != nil {
		return nil, err
	}
	return ast.NewFor(spanCover(span, body.Span()), init, cond, step, body), nil
}

func (p *Parser) parseFn() (ast.Node, error) {
	span := p.cur.Span
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for !p.curIs(token.RPAREN) {
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, nameTok.Lexeme)
		if p.curIs(token.COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseExpression(precAssign)
	if err != nil {
		return nil, err
	}
	return ast.NewFn(spanCover(span, body.Span()), "", params, body), nil
}
