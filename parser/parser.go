// Package parser implements a Pratt (top-down operator precedence)
// parser that turns a lexer.Lexer's token stream into an *ast.Program.
//
// The parser never panics on malformed input: every unexpected token
// produces a ParseError appended to the parser's error list, and parsing
// resumes at the token after the one where the failing statement
// stopped. Callers must check Errors()
// after Parse() returns.
package parser

import (
	"fmt"

	"github.com/pua-lang/pua-go/ast"
	"github.com/pua-lang/pua-go/lexer"
)

// Precedence levels, strictly ordered low to high.
const (
	_ int = iota
	LOWEST
	EQUALS      // == != (also the CJK 对齐 alias)
	LESSGREATER // > < >= <=
	SUM         // + -
	PRODUCT     // * /
	PREFIX      // -x !x +x
	CALL        // fn(x)
	INDEX       // arr[x]
)

// precedences maps an operator token to the precedence level used when
// that token appears as the next (peek) token — it answers "should the
// expression parsed so far keep climbing to absorb this operator?".
var precedences = map[lexer.TokenType]int{
	lexer.EQ:       EQUALS,
	lexer.NOT_EQ:   EQUALS,
	lexer.LT:       LESSGREATER,
	lexer.LT_EQ:    LESSGREATER,
	lexer.GT:       LESSGREATER,
	lexer.GT_EQ:    LESSGREATER,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.SLASH:    PRODUCT,
	lexer.ASTERISK: PRODUCT,
	lexer.LPAREN:   CALL,
	lexer.LBRACKET: INDEX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// ErrorKind identifies the single parse-error taxonomy this parser
// produces. There is only ever one kind: an unexpected token, whether it
// came from a missing delimiter or a token with no prefix handler.
type ErrorKind string

// UnexpectedToken is the sole ParseError kind. A ParseError whose Got
// field is lexer.EOF signals incomplete input — a REPL collaborator may
// treat that specially and prompt for a continuation line instead of
// reporting a hard failure.
const UnexpectedToken ErrorKind = "UnexpectedToken"

// ParseError is one recoverable parse failure.
type ParseError struct {
	Kind    ErrorKind
	Got     lexer.TokenType
	Message string
}

func (e ParseError) Error() string { return e.Message }

// Parser drives the Pratt parsing algorithm over a lexer.Lexer, holding
// exactly two tokens of lookahead.
type Parser struct {
	l *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token

	errors []ParseError

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser over l and primes both lookahead tokens.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolean)
	p.registerPrefix(lexer.FALSE, p.parseBoolean)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpression)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.PLUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.IF, p.parseIfExpression)
	p.registerPrefix(lexer.FUNCTION, p.parseFunctionLiteral)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseHashLiteral)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for _, tt := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.SLASH, lexer.ASTERISK,
		lexer.EQ, lexer.NOT_EQ, lexer.LT, lexer.LT_EQ, lexer.GT, lexer.GT_EQ,
	} {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)

	p.bump()
	p.bump()
	return p
}

func (p *Parser) registerPrefix(tt lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tt] = fn
}

func (p *Parser) registerInfix(tt lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tt] = fn
}

// bump advances the two-token lookahead window by one token.
func (p *Parser) bump() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns every ParseError accumulated so far.
func (p *Parser) Errors() []ParseError { return p.errors }

func (p *Parser) addError(format string, args ...interface{}) {
	p.errors = append(p.errors, ParseError{
		Kind:    UnexpectedToken,
		Got:     p.peekToken.Type,
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// expectPeek checks that the peek token has type tt; if so it advances
// past it and returns true, otherwise it records a ParseError and
// returns false without advancing.
func (p *Parser) expectPeek(tt lexer.TokenType) bool {
	if p.peekToken.Type != tt {
		p.addError("expected next token to be %s, got %s instead", tt, p.peekToken.Type)
		return false
	}
	p.bump()
	return true
}

// Parse consumes the entire token stream and returns the resulting
// program. Parse errors do not stop parsing: a failing statement is
// skipped and the parser resumes at the following token.
func (p *Parser) Parse() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}

	for p.curToken.Type != lexer.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.bump()
	}
	return program
}
