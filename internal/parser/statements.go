package parser

import (
	"github.com/pettylang/petty/internal/ast"
	"github.com/pettylang/petty/internal/diagnostics"
	"github.com/pettylang/petty/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.SEMICOLON:
		return nil
	case token.FN:
		// `fn name(...)` declares; a bare `fn(...)` is a closure expression.
		if token.IsIdent(p.peekToken.Type) {
			return p.parseFunctionStatement()
		}
		return p.parseExpressionOrAssignStatement()
	case token.CLASS:
		return p.parseClassStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		if !p.endStatement() {
			return nil
		}
		return stmt
	case token.CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		if !p.endStatement() {
			return nil
		}
		return stmt
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

// skipSemicolon consumes an optional statement terminator.
func (p *Parser) skipSemicolon() {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// endStatement consumes an optional ';' and reports anything else left on
// the statement's line.
func (p *Parser) endStatement() bool {
	switch {
	case p.peekTokenIs(token.SEMICOLON):
		p.nextToken()
		return true
	case p.peekTokenIs(token.RBRACE), p.peekTokenIs(token.EOF), p.peekToken.Line != p.curToken.Line:
		return true
	case p.peekTokenIs(token.ILLEGAL):
		p.noPrefixParseFnError(p.peekToken)
	default:
		p.addError(diagnostics.ErrP001, p.peekToken, "expected end of statement, got %s", describe(p.peekToken))
	}
	return false
}

func (p *Parser) parseExpressionOrAssignStatement() ast.Statement {
	startToken := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if !p.peekTokenIs(token.ASSIGN) {
		if !p.endStatement() {
			return nil
		}
		return &ast.ExpressionStatement{Token: startToken, Expression: expr}
	}

	p.nextToken() // =
	stmt := &ast.AssignStatement{Token: p.curToken}
	switch target := expr.(type) {
	case *ast.Identifier:
		stmt.Name = target
	case *ast.IndexExpression:
		stmt.Target = target
	default:
		p.addError(diagnostics.ErrP004, startToken, "cannot assign to %s", describe(startToken))
		return nil
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil || !p.endStatement() {
		return nil
	}
	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	// A value must start on the same line as `return`.
	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) ||
		p.peekToken.Line != p.curToken.Line {
		p.skipSemicolon()
		return stmt
	}

	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	if stmt.ReturnValue == nil || !p.endStatement() {
		return nil
	}
	return stmt
}

// parseBlockStatement expects curToken to be '{' and leaves it on the
// matching '}'.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken, Statements: []ast.Statement{}}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.addError(diagnostics.ErrP001, p.curToken, "expected '}' to close block opened at %d:%d",
				block.Token.Line, block.Token.Column)
			return nil
		}
		errCount := len(p.ctx.Errors)
		stmt := p.parseStatement()
		if len(p.ctx.Errors) > errCount {
			p.skipToStatementBoundary()
			if p.curTokenIs(token.RBRACE) {
				break
			}
		} else if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	return block
}
