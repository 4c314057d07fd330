package parser

import (
	"github.com/aoclang/aoclang/internal/ast"
	"github.com/aoclang/aoclang/internal/token"
)

func (p *Parser) parseCall(callee ast.Node) (ast.Node, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	var args []ast.Node
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	for !p.curIs(token.RPAREN) {
		a, err := p.parseExpression(precAssign)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
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
	end, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, err
	}
	return ast.NewCall(spanCover(callee.Span(), end.Span), callee, args), nil
}

// parseIndexOrSlice parses `target[key]` or `target[from, to]`.
func (p *Parser) parseIndexOrSlice(target ast.Node) (ast.Node, error) {
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	first, err := p.parseExpression(precAssign)
	if err != nil {
		return nil, err
	}
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
		second, err := p.parseExpression(precAssign)
		if err != nil {
			return nil, err
		}
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
		end, err := p.expect(token.RBRACKET)
		if err != nil {
			return nil, err
		}
		return ast.NewSlice(spanCover(target.Span(), end.Span), target, first, second), nil
	}
	end, err := p.expect(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	return ast.NewIndex(spanCover(target.Span(), end.Span), target, first), nil
}

func (p *Parser) parseField(target ast.Node) (ast.Node, error) {
	if err := p.advance(); err != nil { // consume '.'
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return ast.NewField(spanCover(target.Span(), nameTok.Span), target, nameTok.Lexeme), nil
}

func (p *Parser) parseAppend(target ast.Node) (ast.Node, error) {
	if err := p.advance(); err != nil { // consume '<<'
		return nil, err
	}
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(precPostfix)
	if err != nil {
		return nil, err
	}
	return ast.NewBinary(spanCover(target.Span(), value.Span()), token.APPEND, target, value), nil
}
