// Package parser implements the recursive-descent parser that turns a
// token stream into an AST.
//
// Grammar (lowest to highest precedence):
//
//	program        -> declaration* EOF ;
//	declaration    -> classDecl | funDecl | varDecl | statement ;
//	classDecl      -> "class" IDENTIFIER ( "<" IDENTIFIER )? "{" function* "}" ;
//	funDecl        -> "fun" function ;
//	function       -> IDENTIFIER "(" parameters? ")" block ;
//	parameters     -> IDENTIFIER ( "," IDENTIFIER )* ;
//	varDecl        -> "var" IDENTIFIER ( "=" expression )? ";" ;
//	statement      -> exprStmt | forStmt | ifStmt | printStmt
//	                | returnStmt | whileStmt | block ;
//	exprStmt       -> expression ";" ;
//	forStmt        -> "for" "(" ( varDecl | exprStmt | ";" )
//	                  expression? ";" expression? ")" statement ;
//	ifStmt         -> "if" "(" expression ")" statement ( "else" statement )? ;
//	printStmt      -> "print" expression ";" ;
//	returnStmt     -> "return" expression? ";" ;
//	whileStmt      -> "while" "(" expression ")" statement ;
//	block          -> "{" declaration* "}" ;
//	expression     -> assignment ;
//	assignment     -> ( call "." )? IDENTIFIER "=" assignment | logic_or ;
//	logic_or       -> logic_and ( "or" logic_and )* ;
//	logic_and      -> equality ( "and" equality )* ;
//	equality       -> comparison ( ( "!=" | "==" ) comparison )* ;
//	comparison     -> term ( ( ">" | ">=" | "<" | "<=" ) term )* ;
//	term           -> factor ( ( "-" | "+" ) factor )* ;
//	factor         -> unary ( ( "/" | "*" ) unary )* ;
//	unary          -> ( "!" | "-" ) unary | call ;
//	call           -> primary ( "(" arguments? ")" | "." IDENTIFIER )* ;
//	arguments      -> expression ( "," expression )* ;
//	primary        -> NUMBER | STRING | "true" | "false" | "nil" | "this"
//	                | "(" expression ")" | IDENTIFIER | "super" "." IDENTIFIER ;
package parser

import (
	"github.com/Josemarialanda/plox/internal/ast"
	"github.com/Josemarialanda/plox/internal/lexer"
)

const maxArgs = 255

// Parser consumes a flat token stream and builds the statement list
// that makes up a program, collecting every syntax error it can
// rather than stopping at the first one.
type Parser struct {
	tokens  []lexer.Token
	current int
	errors  []*ParserError
}

// New creates a Parser over the given token stream. tokens must end
// with an EOF token, as produced by lexer.ScanTokens.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse runs the parser to completion, returning every statement it
// managed to recover plus any syntax errors encountered along the way.
func (p *Parser) Parse() ([]ast.Stmt, []*ParserError) {
	var statements []ast.Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, p.errors
}

func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			p.errors = append(p.errors, pe.err)
			p.synchronize()
			stmt = nil
		}
	}()

	if p.match(lexer.CLASS) {
		return p.classDeclaration()
	}
	if p.match(lexer.FUN) {
		return p.function("function")
	}
	if p.match(lexer.VAR) {
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(lexer.IDENTIFIER, "expect class name")

	var superclass *ast.Variable
	if p.match(lexer.LESS) {
		p.consume(lexer.IDENTIFIER, "expect superclass name")
		superclass = ast.NewVariable(p.previous())
	}

	p.consume(lexer.LEFT_BRACE, "expect '{' before class body")

	var methods []*ast.Function
	for !p.check(lexer.RIGHT_BRACE) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}

	p.consume(lexer.RIGHT_BRACE, "expect '}' after class body")
	return ast.NewClass(name, superclass, methods)
}

func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(lexer.IDENTIFIER, "expect "+kind+" name")
	p.consume(lexer.LEFT_PAREN, "expect '(' after "+kind+" name")

	var params []lexer.Token
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.reportError(p.peek(), "can't have more than 255 parameters")
			}
			params = append(params, p.consume(lexer.IDENTIFIER, "expect parameter name"))
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.consume(lexer.RIGHT_PAREN, "expect ')' after parameters")

	p.consume(lexer.LEFT_BRACE, "expect '{' before "+kind+" body")
	body := p.block()
	return ast.NewFunction(name, params, body)
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(lexer.IDENTIFIER, "expect variable name")

	var initializer ast.Expr
	if p.match(lexer.EQUAL) {
		initializer = p.expression()
	}

	p.consume(lexer.SEMICOLON, "expect ';' after variable declaration")
	return ast.NewVar(name, initializer)
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(lexer.FOR):
		return p.forStatement()
	case p.match(lexer.IF):
		return p.ifStatement()
	case p.match(lexer.PRINT):
		return p.printStatement()
	case p.match(lexer.RETURN):
		return p.returnStatement()
	case p.match(lexer.WHILE):
		return p.whileStatement()
	case p.match(lexer.LEFT_BRACE):
		pos := p.previous().Pos()
		return ast.NewBlock(pos, p.block())
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars the C-style for-loop into a block containing
// the initializer followed by a while loop, per spec.md §4.1's
// grammar — there is no dedicated ast.For node.
func (p *Parser) forStatement() ast.Stmt {
	forPos := p.previous().Pos()
	p.consume(lexer.LEFT_PAREN, "expect '(' after 'for'")

	var initializer ast.Stmt
	switch {
	case p.match(lexer.SEMICOLON):
		initializer = nil
	case p.match(lexer.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(lexer.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(lexer.SEMICOLON, "expect ';' after loop condition")

	var increment ast.Expr
	if !p.check(lexer.RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(lexer.RIGHT_PAREN, "expect ')' after for clauses")

	body := p.statement()

	if increment != nil {
		body = ast.NewBlock(forPos, []ast.Stmt{body, ast.NewExpression(increment)})
	}
	if condition == nil {
		condition = ast.NewLiteral(forPos, true)
	}
	body = ast.NewWhile(forPos, condition, body)

	if initializer != nil {
		body = ast.NewBlock(forPos, []ast.Stmt{initializer, body})
	}
	return body
}

func (p *Parser) ifStatement() ast.Stmt {
	pos := p.previous().Pos()
	p.consume(lexer.LEFT_PAREN, "expect '(' after 'if'")
	condition := p.expression()
	p.consume(lexer.RIGHT_PAREN, "expect ')' after if condition")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(lexer.ELSE) {
		elseBranch = p.statement()
	}
	return ast.NewIf(pos, condition, thenBranch, elseBranch)
}

func (p *Parser) printStatement() ast.Stmt {
	pos := p.previous().Pos()
	value := p.expression()
	p.consume(lexer.SEMICOLON, "expect ';' after value")
	return ast.NewPrint(pos, value)
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(lexer.SEMICOLON) {
		value = p.expression()
	}
	p.consume(lexer.SEMICOLON, "expect ';' after return value")
	return ast.NewReturn(keyword, value)
}

func (p *Parser) whileStatement() ast.Stmt {
	pos := p.previous().Pos()
	p.consume(lexer.LEFT_PAREN, "expect '(' after 'while'")
	condition := p.expression()
	p.consume(lexer.RIGHT_PAREN, "expect ')' after condition")
	body := p.statement()
	return ast.NewWhile(pos, condition, body)
}

func (p *Parser) block() []ast.Stmt {
	var statements []ast.Stmt
	for !p.check(lexer.RIGHT_BRACE) && !p.isAtEnd() {
		statements = append(statements, p.declaration())
	}
	p.consume(lexer.RIGHT_BRACE, "expect '}' after block")
	return statements
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(lexer.SEMICOLON, "expect ';' after expression")
	return ast.NewExpression(expr)
}

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(lexer.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return ast.NewAssign(target.Name, value)
		case *ast.Get:
			return ast.NewSet(target.Object, target.Name, value)
		default:
			p.reportError(equals, "invalid assignment target")
		}
	}
	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(lexer.OR) {
		operator := p.previous()
		right := p.logicAnd()
		expr = ast.NewLogical(expr, operator, right)
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(lexer.AND) {
		operator := p.previous()
		right := p.equality()
		expr = ast.NewLogical(expr, operator, right)
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(lexer.BANG_EQUAL, lexer.EQUAL_EQUAL) {
		operator := p.previous()
		right := p.comparison()
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(lexer.GREATER, lexer.GREATER_EQUAL, lexer.LESS, lexer.LESS_EQUAL) {
		operator := p.previous()
		right := p.term()
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(lexer.MINUS, lexer.PLUS) {
		operator := p.previous()
		right := p.factor()
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(lexer.SLASH, lexer.STAR) {
		operator := p.previous()
		right := p.unary()
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(lexer.BANG, lexer.MINUS) {
		operator := p.previous()
		right := p.unary()
		return ast.NewUnary(operator, right)
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(lexer.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(lexer.DOT):
			name := p.consume(lexer.IDENTIFIER, "expect property name after '.'")
			expr = ast.NewGet(expr, name)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var arguments []ast.Expr
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			if len(arguments) >= maxArgs {
				p.reportError(p.peek(), "can't have more than 255 arguments")
			}
			arguments = append(arguments, p.expression())
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	paren := p.consume(lexer.RIGHT_PAREN, "expect ')' after arguments")
	return ast.NewCall(callee, paren, arguments)
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(lexer.FALSE):
		return ast.NewLiteral(p.previous().Pos(), false)
	case p.match(lexer.TRUE):
		return ast.NewLiteral(p.previous().Pos(), true)
	case p.match(lexer.NIL):
		return ast.NewLiteral(p.previous().Pos(), nil)
	case p.match(lexer.NUMBER, lexer.STRING):
		prev := p.previous()
		return ast.NewLiteral(prev.Pos(), prev.Literal)
	case p.match(lexer.SUPER):
		keyword := p.previous()
		p.consume(lexer.DOT, "expect '.' after 'super'")
		method := p.consume(lexer.IDENTIFIER, "expect superclass method name")
		return ast.NewSuper(keyword, method)
	case p.match(lexer.THIS):
		return ast.NewThis(p.previous())
	case p.match(lexer.IDENTIFIER):
		return ast.NewVariable(p.previous())
	case p.match(lexer.LEFT_PAREN):
		pos := p.previous().Pos()
		expr := p.expression()
		p.consume(lexer.RIGHT_PAREN, "expect ')' after expression")
		return ast.NewGrouping(pos, expr)
	}
	panic(p.fail(p.peek(), "expect expression"))
}

// --- token cursor helpers ---

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.EOF
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) consume(t lexer.TokenType, message string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	panic(p.fail(p.peek(), message))
}

// reportError records a non-fatal diagnostic without unwinding the
// current production, used for limits (argument/parameter counts)
// that don't actually corrupt the parse.
func (p *Parser) reportError(tok lexer.Token, message string) {
	p.errors = append(p.errors, &ParserError{Message: message, Pos: tok.Pos(), Token: tok})
}

func (p *Parser) fail(tok lexer.Token, message string) parseError {
	err := &ParserError{Message: message, Pos: tok.Pos(), Token: tok}
	return parseError{err: err}
}

// synchronize discards tokens until it reaches a point a new
// statement plausibly starts, so a single syntax error doesn't
// cascade into a wall of spurious follow-on diagnostics.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		switch p.peek().Type {
		case lexer.CLASS, lexer.FUN, lexer.VAR, lexer.FOR, lexer.IF, lexer.WHILE, lexer.PRINT, lexer.RETURN:
			return
		}
		p.advance()
		if p.previous().Type == lexer.SEMICOLON {
			return
		}
	}
}
