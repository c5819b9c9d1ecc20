package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents the type of an expression token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	COLUMN // [name]
	NUMBER

	PLUS
	MINUS
	MULT
	DIV
	LPAREN
	RPAREN
)

// Operator precedences
const (
	LOWEST = iota
	SUMPREC
	PRODUCT
)

// Token is a single lexeme with its byte offset in the input.
type Token struct {
	Type     TokenType
	Literal  string
	Position int
}

// Lexer tokenizes expression input.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
}

// NewLexer creates a new lexer instance.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.position
	var tok Token
	switch l.ch {
	case '+':
		tok = Token{Type: PLUS, Literal: "+", Position: pos}
	case '-':
		tok = Token{Type: MINUS, Literal: "-", Position: pos}
	case '*':
		tok = Token{Type: MULT, Literal: "*", Position: pos}
	case '/':
		tok = Token{Type: DIV, Literal: "/", Position: pos}
	case '(':
		tok = Token{Type: LPAREN, Literal: "(", Position: pos}
	case ')':
		tok = Token{Type: RPAREN, Literal: ")", Position: pos}
	case '[':
		return l.readColumn()
	case 0:
		return Token{Type: EOF, Position: pos}
	default:
		if isDigit(l.ch) || l.ch == '.' && isDigit(l.peekChar()) {
			return l.readNumber()
		}
		tok = Token{Type: ILLEGAL, Literal: string(l.ch), Position: pos}
	}

	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readColumn reads a bracketed column reference. An unterminated reference
// is ILLEGAL.
func (l *Lexer) readColumn() Token {
	pos := l.position
	l.readChar() // consume '['
	start := l.position
	for l.ch != ']' && l.ch != 0 {
		l.readChar()
	}
	if l.ch == 0 {
		return Token{Type: ILLEGAL, Literal: l.input[pos:], Position: pos}
	}
	name := strings.TrimSpace(l.input[start:l.position])
	l.readChar() // consume ']'
	return Token{Type: COLUMN, Literal: name, Position: pos}
}

func (l *Lexer) readNumber() Token {
	pos := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return Token{Type: NUMBER, Literal: l.input[pos:l.position], Position: pos}
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

var precedences = map[TokenType]int{
	PLUS:  SUMPREC,
	MINUS: SUMPREC,
	MULT:  PRODUCT,
	DIV:   PRODUCT,
}

var binaryOps = map[TokenType]BinaryOp{
	PLUS:  OpAdd,
	MINUS: OpSub,
	MULT:  OpMul,
	DIV:   OpDiv,
}

// Parser is a Pratt parser over the token stream.
type Parser struct {
	lexer *Lexer

	curToken  Token
	peekToken Token

	errors []string
}

// NewParser creates a new parser instance.
func NewParser(lexer *Lexer) *Parser {
	p := &Parser{lexer: lexer}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

// Errors returns parse errors.
func (p *Parser) Errors() []string {
	return p.errors
}

// Parse parses an arithmetic expression over bracketed column references.
func Parse(input string) (Expr, error) {
	p := NewParser(NewLexer(input))
	if p.curToken.Type == EOF {
		return nil, fmt.Errorf("empty expression")
	}

	e, ok := p.parseExpression(LOWEST)
	if ok && p.peekToken.Type != EOF {
		p.addError(fmt.Sprintf("unexpected %q at position %d", p.peekToken.Literal, p.peekToken.Position))
	}
	if len(p.errors) > 0 {
		return nil, fmt.Errorf("parsing %q: %s", input, strings.Join(p.errors, "; "))
	}
	return e, nil
}

func (p *Parser) parseExpression(precedence int) (Expr, bool) {
	left, ok := p.parsePrefix()
	if !ok {
		return nil, false
	}

	for precedence < p.peekPrecedence() {
		p.nextToken()
		op := binaryOps[p.curToken.Type]
		prec := p.curPrecedence()
		p.nextToken()
		right, ok := p.parseExpression(prec)
		if !ok {
			return nil, false
		}
		left = Binary(left, op, right)
	}
	return left, true
}

func (p *Parser) parsePrefix() (Expr, bool) {
	//nolint:exhaustive // only tokens that can start an operand
	switch p.curToken.Type {
	case COLUMN:
		if p.curToken.Literal == "" {
			p.addError(fmt.Sprintf("empty column reference at position %d", p.curToken.Position))
			return nil, false
		}
		return Col(p.curToken.Literal), true
	case NUMBER:
		v, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			p.addError(fmt.Sprintf("could not parse %q as number", p.curToken.Literal))
			return nil, false
		}
		return Lit(v), true
	case MINUS:
		p.nextToken()
		operand, ok := p.parseExpression(PRODUCT)
		if !ok {
			return nil, false
		}
		return Neg(operand), true
	case PLUS:
		p.nextToken()
		return p.parseExpression(PRODUCT)
	case LPAREN:
		p.nextToken()
		e, ok := p.parseExpression(LOWEST)
		if !ok {
			return nil, false
		}
		if p.peekToken.Type != RPAREN {
			p.addError(fmt.Sprintf("expected ) at position %d", p.peekToken.Position))
			return nil, false
		}
		p.nextToken()
		return e, true
	case EOF:
		p.addError("unexpected end of expression")
		return nil, false
	default:
		p.addError(fmt.Sprintf("unexpected %q at position %d", p.curToken.Literal, p.curToken.Position))
		return nil, false
	}
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, msg)
}
