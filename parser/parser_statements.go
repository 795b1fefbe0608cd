package parser

import (
	"github.com/pua-lang/pua-go/ast"
	"github.com/pua-lang/pua-go/lexer"
)

// parseStatement dispatches on the current token to the right statement
// parser. Anything that isn't let/return/blank is an expression used in
// statement position.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.LET:
		return p.parseLetStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.BLANK:
		return &ast.BlankStatement{Token: p.curToken}
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.bump()

	stmt.Value = p.parseExpression(LOWEST)

	if p.peekToken.Type == lexer.SEMICOLON {
		p.bump()
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	p.bump()

	stmt.ReturnValue = p.parseExpression(LOWEST)

	if p.peekToken.Type == lexer.SEMICOLON {
		p.bump()
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)

	if p.peekToken.Type == lexer.SEMICOLON {
		p.bump()
	}
	return stmt
}

// parseBlockStatement parses a `{ ... }` block. It is called with '{'
// as the current token and consumes through the matching '}'. If EOF
// comes first it records an UnexpectedToken error whose Got is EOF and
// returns the statements read so far.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.bump()

	for p.curToken.Type != lexer.RBRACE && p.curToken.Type != lexer.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.bump()
	}
	if p.curToken.Type != lexer.RBRACE {
		p.errors = append(p.errors, ParseError{
			Kind:    UnexpectedToken,
			Got:     p.curToken.Type,
			Message: "expected next token to be }, got EOF instead",
		})
	}
	return block
}
