package parser

import (
	"github.com/pettylang/petty/internal/ast"
	"github.com/pettylang/petty/internal/diagnostics"
	"github.com/pettylang/petty/internal/token"
)

// parseFunctionStatement parses `fn name(a, b: Int): Int { ... }`.
func (p *Parser) parseFunctionStatement() *ast.FunctionStatement {
	stmt := &ast.FunctionStatement{Token: p.curToken}

	p.nextToken()
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParameters()
	if !ok {
		return nil
	}
	stmt.Parameters = params

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if !p.expectPeekIdent() {
			return nil
		}
		stmt.ReturnHint = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseParameters expects curToken to be '(' and leaves it on ')'.
func (p *Parser) parseParameters() ([]*ast.Parameter, bool) {
	params := []*ast.Parameter{}
	seen := make(map[string]bool)

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}

	for {
		if !p.expectPeekIdent() {
			return nil, false
		}
		param := &ast.Parameter{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		}
		if seen[param.Name.Value] {
			p.addError(diagnostics.ErrP001, p.curToken, "duplicate parameter %q", param.Name.Value)
			return nil, false
		}
		seen[param.Name.Value] = true

		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			if !p.expectPeekIdent() {
				return nil, false
			}
			param.Hint = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		}
		params = append(params, param)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken() // ,
		if p.peekTokenIs(token.RPAREN) {
			break
		}
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}

// parseClassStatement parses
//
//	class Point(x, y) { fn sum(self) { ... } }
//	class Pair(a, b);
func (p *Parser) parseClassStatement() ast.Statement {
	stmt := &ast.ClassStatement{Token: p.curToken}

	if !p.expectPeekIdent() {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	stmt.Fields = []*ast.Parameter{}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		fields, ok := p.parseParameters()
		if !ok {
			return nil
		}
		stmt.Fields = fields
	}

	if !p.peekTokenIs(token.LBRACE) {
		if !p.endStatement() {
			return nil
		}
		return stmt
	}
	p.nextToken() // {
	open := p.curToken
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		switch p.curToken.Type {
		case token.SEMICOLON:
		case token.FN:
			if !token.IsIdent(p.peekToken.Type) {
				p.peekError(token.IDENT_LOWER)
				return nil
			}
			method := p.parseFunctionStatement()
			if method == nil {
				return nil
			}
			stmt.Methods = append(stmt.Methods, method)
		case token.EOF:
			p.addError(diagnostics.ErrP001, p.curToken, "expected '}' to close class body opened at %d:%d",
				open.Line, open.Column)
			return nil
		default:
			p.addError(diagnostics.ErrP001, p.curToken, "class body may only contain methods, got %s",
				describe(p.curToken))
			return nil
		}
		p.nextToken()
	}

	return stmt
}
