// Package parser implements a Pratt parser producing the AST shape of
// internal/ast, using a precedence-table/prefix-infix design scaled to
// this language's small grammar.
package parser

import (
	"fmt"

	"github.com/proskuryakov/rupc/internal/ast"
	"github.com/proskuryakov/rupc/internal/lexer"
	"github.com/proskuryakov/rupc/internal/types"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	OR_PREC
	AND_PREC
	EQUALS
	LESSGREATER
	SUM
	PRODUCT
	PREFIX
	CALL
	INDEX
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:      OR_PREC,
	lexer.AND:     AND_PREC,
	lexer.EQ:      EQUALS,
	lexer.NEQ:     EQUALS,
	lexer.LT:      LESSGREATER,
	lexer.GT:      LESSGREATER,
	lexer.LE:      LESSGREATER,
	lexer.GE:      LESSGREATER,
	lexer.PLUS:    SUM,
	lexer.MINUS:   SUM,
	lexer.BIT_AND: SUM,
	lexer.BIT_OR:  SUM,
	lexer.STAR:    PRODUCT,
	lexer.SLASH:   PRODUCT,
	lexer.PERCENT: PRODUCT,
	lexer.LPAREN:  CALL,
	lexer.LBRACKET: INDEX,
}

var binOpFromToken = map[lexer.TokenType]types.BinOp{
	lexer.PLUS: types.ADD, lexer.MINUS: types.SUB,
	lexer.STAR: types.MUL, lexer.SLASH: types.DIV, lexer.PERCENT: types.MOD,
	lexer.GT: types.GT, lexer.GE: types.GE, lexer.LT: types.LT, lexer.LE: types.LE,
	lexer.EQ: types.EQ, lexer.NEQ: types.NEQ,
	lexer.AND: types.AND, lexer.OR: types.OR,
	lexer.BIT_AND: types.BIT_AND, lexer.BIT_OR: types.BIT_OR,
}

// ParseError is a single syntax error, carrying its source position.
type ParseError struct {
	Pos     lexer.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("строка %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser turns a token stream into a StatementList (the program).
type Parser struct {
	l *lexer.Lexer

	cur  lexer.Token
	peek lexer.Token

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn

	errors []*ParseError
}

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:   p.parseIdentifierOrCall,
		lexer.INT:     p.parseIntLiteral,
		lexer.FLOAT:   p.parseFloatLiteral,
		lexer.STRING:  p.parseStringLiteral,
		lexer.TRUE:    p.parseBoolLiteral,
		lexer.FALSE:   p.parseBoolLiteral,
		lexer.LPAREN:  p.parseGroupedExpression,
		lexer.MINUS:   p.parseUnary,
	}
	p.infixFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS: p.parseInfix, lexer.MINUS: p.parseInfix,
		lexer.STAR: p.parseInfix, lexer.SLASH: p.parseInfix, lexer.PERCENT: p.parseInfix,
		lexer.GT: p.parseInfix, lexer.GE: p.parseInfix, lexer.LT: p.parseInfix, lexer.LE: p.parseInfix,
		lexer.EQ: p.parseInfix, lexer.NEQ: p.parseInfix,
		lexer.AND: p.parseInfix, lexer.OR: p.parseInfix,
		lexer.BIT_AND: p.parseInfix, lexer.BIT_OR: p.parseInfix,
		lexer.LBRACKET: p.parseIndex,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every syntax error collected during ParseProgram.
func (p *Parser) Errors() []*ParseError { return p.errors }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.peek.Pos, "ожидался %s, получен %s", t, p.peek.Type)
	return false
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the whole input as a top-level statement list.
func (p *Parser) ParseProgram() *ast.StatementList {
	pos := p.cur.Pos
	var stmts []ast.Statement
	for !p.curIs(lexer.EOF) {
		if s := p.parseTopLevelStatement(); s != nil {
			stmts = append(stmts, s)
		}
		p.nextToken()
	}
	return ast.NewStatementList(pos, stmts, true)
}

func (p *Parser) parseTopLevelStatement() ast.Statement {
	if p.isTypeToken(p.cur.Type) && p.peekIsIdentFollowedByLParen() {
		return p.parseFunctionHeaderOrDefinition()
	}
	return p.parseStatement()
}

// peekIsIdentFollowedByLParen looks two tokens ahead without consuming:
// TYPE IDENT '(' signals a function header.
func (p *Parser) peekIsIdentFollowedByLParen() bool {
	if !p.peekIs(lexer.IDENT) {
		return false
	}
	// We only have one token of lookahead in this design, so we peek by
	// cloning lexer state is unavailable; instead we rely on the grammar
	// fact that only function headers start TYPE IDENT '(' at top level,
	// and variable definitions start TYPE IDENT '=' or TYPE IDENT ';'.
	// We resolve the ambiguity by scanning a shallow lookahead token.
	save := *p.l
	savedCur, savedPeek := p.cur, p.peek
	p.nextToken() // cur = IDENT
	isParen := p.peekIs(lexer.LPAREN)
	*p.l = save
	p.cur, p.peek = savedCur, savedPeek
	return isParen
}

func (p *Parser) isTypeToken(t lexer.TokenType) bool {
	switch t {
	case lexer.TYPE_VOID, lexer.TYPE_INT, lexer.TYPE_FLOAT, lexer.TYPE_BOOL, lexer.TYPE_STR:
		return true
	default:
		return false
	}
}

func (p *Parser) parseTypeName() *ast.TypeName {
	pos := p.cur.Pos
	name := p.cur.Literal
	tn := ast.NewTypeName(pos, name)
	return tn
}

func (p *Parser) parseFunctionHeaderOrDefinition() ast.Statement {
	pos := p.cur.Pos
	retType := p.parseTypeName()
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.cur.Literal
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	params := p.parseParamList()
	if params == nil {
		return nil
	}
	if p.peekIs(lexer.SEMI) {
		p.nextToken()
		return ast.NewFunctionDeclaration(pos, name, retType, params)
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return ast.NewFunctionDefinition(pos, name, retType, params, body)
}

func (p *Parser) parseParamList() *ast.ParamList {
	pos := p.cur.Pos
	var params []*ast.Param
	if p.peekIs(lexer.RPAREN) {
		p.nextToken()
		return ast.NewParamList(pos, params)
	}
	for {
		p.nextToken()
		if !p.isTypeToken(p.cur.Type) {
			p.errorf(p.cur.Pos, "ожидался тип параметра, получен %s", p.cur.Type)
			return nil
		}
		typ := p.parseTypeName()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		params = append(params, ast.NewParam(p.cur.Pos, p.cur.Literal, typ))
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return ast.NewParamList(pos, params)
}

// parseBlock parses `{ ... }`, assuming cur is LBRACE.
func (p *Parser) parseBlock() *ast.StatementList {
	pos := p.cur.Pos
	var stmts []ast.Statement
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
		p.nextToken()
	}
	return ast.NewStatementList(pos, stmts, false)
}

// parseBody parses a statement body that may be either a brace-delimited
// block or, C-style, a single bare statement — e.g. the then-branch of
// `если (a > 3) вывод_целый(1);` needs no braces. Assumes cur is the last
// token before the body (the closing `)`, or the `делать` keyword).
func (p *Parser) parseBody() *ast.StatementList {
	if p.peekIs(lexer.LBRACE) {
		p.nextToken()
		return p.parseBlock()
	}
	pos := p.peek.Pos
	p.nextToken()
	stmt := p.parseStatement()
	var stmts []ast.Statement
	if stmt != nil {
		stmts = append(stmts, stmt)
	}
	return ast.NewStatementList(pos, stmts, false)
}

func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.isTypeToken(p.cur.Type):
		return p.parseVariableOrArrayDefinition()
	case p.curIs(lexer.IF):
		return p.parseIf()
	case p.curIs(lexer.WHILE):
		return p.parseWhile()
	case p.curIs(lexer.DO):
		return p.parseDoWhile()
	case p.curIs(lexer.FOR):
		return p.parseFor()
	case p.curIs(lexer.RETURN):
		return p.parseReturn()
	case p.curIs(lexer.LBRACE):
		return p.parseBlock()
	case p.curIs(lexer.IDENT):
		return p.parseAssignOrExprStatement()
	default:
		p.errorf(p.cur.Pos, "неожиданный токен %s в начале оператора", p.cur.Type)
		return nil
	}
}

func (p *Parser) parseVariableOrArrayDefinition() ast.Statement {
	pos := p.cur.Pos
	typ := p.parseTypeName()
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.cur.Literal
	if p.peekIs(lexer.LBRACKET) {
		p.nextToken()
		p.nextToken()
		size := p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.RBRACKET) {
			return nil
		}
		if p.peekIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			values := p.parseExpressionListUntil(lexer.SEMI)
			p.expectPeek(lexer.SEMI)
			return ast.NewArrayDefinitionInPlace(pos, name, typ, values)
		}
		p.expectPeek(lexer.SEMI)
		return ast.NewArrayDefinition(pos, name, typ, size)
	}

	declarators := []*ast.VariableDeclarator{p.parseVariableDeclaratorRest(name)}
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		declarators = append(declarators, p.parseVariableDeclaratorRest(p.cur.Literal))
	}
	p.expectPeek(lexer.SEMI)
	return ast.NewVariableDefinition(pos, typ, declarators)
}

// parseVariableDeclaratorRest parses the optional `= expr` following a
// declarator's name, leaving cur on the last token consumed (the
// initializer's last token, or the name's token when there is none).
func (p *Parser) parseVariableDeclaratorRest(name string) *ast.VariableDeclarator {
	var init ast.Expression
	if p.peekIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		init = p.parseExpression(LOWEST)
	}
	return ast.NewVariableDeclarator(name, init)
}

func (p *Parser) parseExpressionListUntil(end lexer.TokenType) *ast.ExpressionList {
	pos := p.cur.Pos
	var items []ast.Expression
	if p.curIs(end) {
		return ast.NewExpressionList(pos, items)
	}
	items = append(items, p.parseExpression(LOWEST))
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		items = append(items, p.parseExpression(LOWEST))
	}
	return ast.NewExpressionList(pos, items)
}

func (p *Parser) parseAssignOrExprStatement() ast.Statement {
	pos := p.cur.Pos
	name := p.cur.Literal
	ident := ast.NewIdentifier(pos, name)

	if p.peekIs(lexer.LPAREN) {
		p.nextToken()
		call := p.finishCall(ident)
		p.expectPeek(lexer.SEMI)
		if c, ok := call.(*ast.Call); ok {
			return ast.NewCallStatement(c)
		}
		return nil
	}

	var target ast.Expression = ident
	if p.peekIs(lexer.LBRACKET) {
		p.nextToken()
		p.nextToken()
		idx := p.parseExpression(LOWEST)
		p.expectPeek(lexer.RBRACKET)
		target = ast.NewArrayIndex(pos, ident, idx)
	}
	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	p.expectPeek(lexer.SEMI)
	return ast.NewAssign(pos, target, value)
}

func (p *Parser) parseIf() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	then := p.parseBody()
	var els *ast.StatementList
	if p.peekIs(lexer.ELSE) {
		p.nextToken()
		els = p.parseBody()
	}
	return ast.NewIf(pos, cond, then, els)
}

func (p *Parser) parseWhile() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	body := p.parseBody()
	return ast.NewWhile(pos, cond, body)
}

func (p *Parser) parseDoWhile() ast.Statement {
	pos := p.cur.Pos
	body := p.parseBody()
	if !p.expectPeek(lexer.WHILE) {
		return nil
	}
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	p.expectPeek(lexer.SEMI)
	return ast.NewDoWhile(pos, body, cond)
}

func (p *Parser) parseFor() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	var initStmt ast.Statement
	if !p.curIs(lexer.SEMI) {
		initStmt = p.parseForClauseInit()
	} else {
		p.nextToken()
	}
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.SEMI) {
		return nil
	}
	p.nextToken()
	var stepStmt ast.Statement
	if !p.curIs(lexer.RPAREN) {
		stepStmt = p.parseForClauseStep()
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	body := p.parseBody()
	return ast.NewFor(pos, initStmt, cond, stepStmt, body)
}

// parseForClauseInit parses `TYPE ident = expr` or `ident = expr`,
// consuming up to but not including the terminating `;`.
func (p *Parser) parseForClauseInit() ast.Statement {
	pos := p.cur.Pos
	if p.isTypeToken(p.cur.Type) {
		typ := p.parseTypeName()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		name := p.cur.Literal
		declarator := p.parseVariableDeclaratorRest(name)
		p.expectPeek(lexer.SEMI)
		p.nextToken()
		return ast.NewVariableDefinition(pos, typ, []*ast.VariableDeclarator{declarator})
	}
	name := p.cur.Literal
	ident := ast.NewIdentifier(pos, name)
	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	p.expectPeek(lexer.SEMI)
	p.nextToken()
	return ast.NewAssign(pos, ident, value)
}

// parseForClauseStep parses `ident = expr`, consuming through the
// expression but not the closing `)`.
func (p *Parser) parseForClauseStep() ast.Statement {
	pos := p.cur.Pos
	name := p.cur.Literal
	ident := ast.NewIdentifier(pos, name)
	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	return ast.NewAssign(pos, ident, value)
}

func (p *Parser) parseReturn() ast.Statement {
	pos := p.cur.Pos
	if p.peekIs(lexer.SEMI) {
		p.nextToken()
		return ast.NewReturn(pos, nil)
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	p.expectPeek(lexer.SEMI)
	return ast.NewReturn(pos, value)
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix, ok := p.prefixFns[p.cur.Type]
	if !ok {
		p.errorf(p.cur.Pos, "неожиданный токен %s в выражении", p.cur.Type)
		return nil
	}
	left := prefix()

	for !p.peekIs(lexer.SEMI) && precedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peek.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifierOrCall() ast.Expression {
	pos := p.cur.Pos
	name := p.cur.Literal
	ident := ast.NewIdentifier(pos, name)
	if p.peekIs(lexer.LPAREN) {
		p.nextToken()
		return p.finishCall(ident)
	}
	if p.peekIs(lexer.LBRACKET) {
		p.nextToken()
		p.nextToken()
		idx := p.parseExpression(LOWEST)
		p.expectPeek(lexer.RBRACKET)
		return ast.NewArrayIndex(pos, ident, idx)
	}
	return ident
}

func (p *Parser) finishCall(callee *ast.Identifier) ast.Expression {
	pos := p.cur.Pos
	var args []ast.Expression
	if p.peekIs(lexer.RPAREN) {
		p.nextToken()
		return ast.NewCall(pos, callee, args)
	}
	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	p.expectPeek(lexer.RPAREN)
	return ast.NewCall(pos, callee, args)
}

func (p *Parser) parseIntLiteral() ast.Expression {
	var v int64
	fmt.Sscanf(p.cur.Literal, "%d", &v)
	return ast.NewIntLiteral(p.cur.Pos, p.cur.Literal, v)
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	var v float64
	fmt.Sscanf(p.cur.Literal, "%g", &v)
	return ast.NewFloatLiteral(p.cur.Pos, p.cur.Literal, v)
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return ast.NewStringLiteral(p.cur.Pos, p.cur.Literal, p.cur.Literal)
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return ast.NewBoolLiteral(p.cur.Pos, p.cur.Literal, p.curIs(lexer.TRUE))
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	p.expectPeek(lexer.RPAREN)
	return expr
}

func (p *Parser) parseUnary() ast.Expression {
	pos := p.cur.Pos
	p.nextToken()
	right := p.parseExpression(PREFIX)
	zero := ast.NewIntLiteral(pos, "0", 0)
	return ast.NewBinaryOp(pos, types.SUB, zero, right)
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	op := binOpFromToken[p.cur.Type]
	pos := p.cur.Pos
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return ast.NewBinaryOp(pos, op, left, right)
}

func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	pos := p.cur.Pos
	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.errorf(pos, "индексирование допустимо только для идентификатора массива")
		return left
	}
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	p.expectPeek(lexer.RBRACKET)
	return ast.NewArrayIndex(pos, ident, idx)
}
