package parser

import (
	"github.com/pettylang/petty/internal/ast"
	"github.com/pettylang/petty/internal/token"
)

// parseIfStatement parses
//
//	if c1 { ... } elif c2 { ... } else { ... }
func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	for {
		branch := &ast.ConditionalBranch{Token: p.curToken}
		p.nextToken()
		branch.Condition = p.parseExpression(LOWEST)
		if branch.Condition == nil {
			return nil
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		branch.Consequence = p.parseBlockStatement()
		if branch.Consequence == nil {
			return nil
		}
		stmt.Branches = append(stmt.Branches, branch)

		if !p.peekTokenIs(token.ELIF) {
			break
		}
		p.nextToken() // elif
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken() // else
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Alternative = p.parseBlockStatement()
		if stmt.Alternative == nil {
			return nil
		}
	}

	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
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

// parseForStatement accepts both `for x in xs {}` and `for x: xs {}`.
func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}

	if !p.expectPeekIdent() {
		return nil
	}
	stmt.Item = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if p.peekTokenIs(token.IN) || p.peekTokenIs(token.COLON) {
		p.nextToken()
	} else {
		p.peekError(token.IN)
		return nil
	}

	p.nextToken()
	stmt.Iterable = p.parseExpression(LOWEST)
	if stmt.Iterable == nil {
		return nil
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
