package ast

import "github.com/Josemarialanda/plox/internal/lexer"

// Stmt is implemented by every statement node.
type Stmt interface {
	Accept(v StmtVisitor) error
	Pos() lexer.Position
}

// StmtVisitor is implemented by every consumer that walks statements
// (the resolver, the evaluator).
type StmtVisitor interface {
	VisitBlockStmt(s *Block) error
	VisitClassStmt(s *Class) error
	VisitExpressionStmt(s *Expression) error
	VisitFunctionStmt(s *Function) error
	VisitIfStmt(s *If) error
	VisitPrintStmt(s *Print) error
	VisitReturnStmt(s *Return) error
	VisitVarStmt(s *Var) error
	VisitWhileStmt(s *While) error
}

type stmtBase struct {
	pos lexer.Position
}

func (b stmtBase) Pos() lexer.Position { return b.pos }

// Block is a `{ ... }` sequence introducing its own lexical scope.
type Block struct {
	stmtBase
	Statements []Stmt
}

func NewBlock(pos lexer.Position, statements []Stmt) *Block {
	return &Block{stmtBase: stmtBase{pos}, Statements: statements}
}

func (s *Block) Accept(v StmtVisitor) error { return v.VisitBlockStmt(s) }

// Class is a class declaration, with an optional superclass reference
// and zero or more methods (each itself a Function).
type Class struct {
	stmtBase
	Name       lexer.Token
	Superclass *Variable // nil if the class has no superclass
	Methods    []*Function
}

func NewClass(name lexer.Token, superclass *Variable, methods []*Function) *Class {
	return &Class{stmtBase: stmtBase{name.Pos()}, Name: name, Superclass: superclass, Methods: methods}
}

func (s *Class) Accept(v StmtVisitor) error { return v.VisitClassStmt(s) }

// Expression is an expression evaluated for its side effects, with
// its value discarded.
type Expression struct {
	stmtBase
	Expr Expr
}

func NewExpression(expr Expr) *Expression {
	return &Expression{stmtBase: stmtBase{expr.Pos()}, Expr: expr}
}

func (s *Expression) Accept(v StmtVisitor) error { return v.VisitExpressionStmt(s) }

// Function is a function (or method) declaration.
type Function struct {
	stmtBase
	Name   lexer.Token
	Params []lexer.Token
	Body   []Stmt
}

func NewFunction(name lexer.Token, params []lexer.Token, body []Stmt) *Function {
	return &Function{stmtBase: stmtBase{name.Pos()}, Name: name, Params: params, Body: body}
}

func (s *Function) Accept(v StmtVisitor) error { return v.VisitFunctionStmt(s) }

// If is a conditional with an optional else branch.
type If struct {
	stmtBase
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt // nil if there is no else clause
}

func NewIf(pos lexer.Position, condition Expr, thenBranch, elseBranch Stmt) *If {
	return &If{stmtBase: stmtBase{pos}, Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (s *If) Accept(v StmtVisitor) error { return v.VisitIfStmt(s) }

// Print is the built-in `print` statement.
type Print struct {
	stmtBase
	Expr Expr
}

func NewPrint(pos lexer.Position, expr Expr) *Print {
	return &Print{stmtBase: stmtBase{pos}, Expr: expr}
}

func (s *Print) Accept(v StmtVisitor) error { return v.VisitPrintStmt(s) }

// Return unwinds the current call with an optional value; Value is
// nil for a bare `return;`.
type Return struct {
	stmtBase
	Keyword lexer.Token
	Value   Expr
}

func NewReturn(keyword lexer.Token, value Expr) *Return {
	return &Return{stmtBase: stmtBase{keyword.Pos()}, Keyword: keyword, Value: value}
}

func (s *Return) Accept(v StmtVisitor) error { return v.VisitReturnStmt(s) }

// Var is a variable declaration; Initializer is nil for `var x;`.
type Var struct {
	stmtBase
	Name        lexer.Token
	Initializer Expr
}

func NewVar(name lexer.Token, initializer Expr) *Var {
	return &Var{stmtBase: stmtBase{name.Pos()}, Name: name, Initializer: initializer}
}

func (s *Var) Accept(v StmtVisitor) error { return v.VisitVarStmt(s) }

// While is a condition-checked loop; for-loops desugar into this form.
type While struct {
	stmtBase
	Condition Expr
	Body      Stmt
}

func NewWhile(pos lexer.Position, condition Expr, body Stmt) *While {
	return &While{stmtBase: stmtBase{pos}, Condition: condition, Body: body}
}

func (s *While) Accept(v StmtVisitor) error { return v.VisitWhileStmt(s) }
