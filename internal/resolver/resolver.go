// Package resolver performs a static pass over the AST between
// parsing and evaluation: it resolves every variable reference to the
// number of environment hops between its use and its declaring scope,
// and rejects a handful of uses that are syntactically legal but never
// meaningful (return outside a function, this/super outside a class,
// self-referential initializers).
package resolver

import (
	"fmt"

	"github.com/Josemarialanda/plox/internal/ast"
	"github.com/Josemarialanda/plox/internal/lexer"
)

// FunctionType tracks what kind of function body the resolver is
// currently inside, used to validate `return` placement.
type FunctionType int

const (
	FunctionNone FunctionType = iota
	FunctionFunction
	FunctionInitializer
	FunctionMethod
)

// ClassType tracks whether the resolver is inside a class body, and
// whether that class has a superclass, to validate `this`/`super`.
type ClassType int

const (
	ClassNone ClassType = iota
	ClassClass
	ClassSubclass
)

// ResolveError is a single static-analysis diagnostic.
type ResolveError struct {
	Message string
	Token   lexer.Token
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s at %d:%d near '%s'", e.Message, e.Token.Line, e.Token.Column, e.Token.Lexeme)
}

// Resolver walks an AST and produces a side-table mapping each
// variable-reference expression (by its stable node id) to the number
// of scopes between its use and its declaration. A missing entry
// means the variable is global.
type Resolver struct {
	scopes          []map[string]bool
	depths          map[int]int
	errors          []*ResolveError
	currentFunction FunctionType
	currentClass    ClassType
}

// New creates a Resolver ready to process one program's statements.
func New() *Resolver {
	return &Resolver{depths: make(map[int]int)}
}

// Resolve walks the given statements and returns the completed
// depth table plus any static errors found. The table is keyed by
// ast.Expr.ID(), populated only for Variable/Assign/This/Super nodes
// that resolve to a local (non-global) binding.
func (r *Resolver) Resolve(statements []ast.Stmt) (map[int]int, []*ResolveError) {
	r.resolveStatements(statements)
	return r.depths, r.errors
}

func (r *Resolver) resolveStatements(statements []ast.Stmt) {
	for _, s := range statements {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	if s == nil {
		return
	}
	_ = s.Accept(r)
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	if e == nil {
		return
	}
	_, _ = e.Accept(r)
}

func (r *Resolver) resolveLocal(id int, name lexer.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.depths[id] = len(r.scopes) - 1 - i
			return
		}
	}
	// Not found in any scope: treated as global, left out of the table.
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind FunctionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name lexer.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.reportError(name, "variable with this name already declared in this scope")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name lexer.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) reportError(tok lexer.Token, message string) {
	r.errors = append(r.errors, &ResolveError{Message: message, Token: tok})
}

// --- ast.ExprVisitor ---

func (r *Resolver) VisitAssignExpr(e *ast.Assign) (any, error) {
	r.resolveExpr(e.Value)
	r.resolveLocal(e.ID(), e.Name)
	return nil, nil
}

func (r *Resolver) VisitBinaryExpr(e *ast.Binary) (any, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitCallExpr(e *ast.Call) (any, error) {
	r.resolveExpr(e.Callee)
	for _, arg := range e.Arguments {
		r.resolveExpr(arg)
	}
	return nil, nil
}

func (r *Resolver) VisitGetExpr(e *ast.Get) (any, error) {
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitGroupingExpr(e *ast.Grouping) (any, error) {
	r.resolveExpr(e.Expression)
	return nil, nil
}

func (r *Resolver) VisitLiteralExpr(e *ast.Literal) (any, error) {
	return nil, nil
}

func (r *Resolver) VisitLogicalExpr(e *ast.Logical) (any, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitSetExpr(e *ast.Set) (any, error) {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitSuperExpr(e *ast.Super) (any, error) {
	switch r.currentClass {
	case ClassNone:
		r.reportError(e.Keyword, "can't use 'super' outside of a class")
	case ClassClass:
		r.reportError(e.Keyword, "can't use 'super' in a class with no superclass")
	}
	r.resolveLocal(e.ID(), e.Keyword)
	return nil, nil
}

func (r *Resolver) VisitThisExpr(e *ast.This) (any, error) {
	if r.currentClass == ClassNone {
		r.reportError(e.Keyword, "can't use 'this' outside of a class")
	}
	r.resolveLocal(e.ID(), e.Keyword)
	return nil, nil
}

func (r *Resolver) VisitUnaryExpr(e *ast.Unary) (any, error) {
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitVariableExpr(e *ast.Variable) (any, error) {
	if len(r.scopes) > 0 {
		if declared, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !declared {
			r.reportError(e.Name, "can't read local variable in its own initializer")
		}
	}
	r.resolveLocal(e.ID(), e.Name)
	return nil, nil
}

// --- ast.StmtVisitor ---

func (r *Resolver) VisitBlockStmt(s *ast.Block) error {
	r.beginScope()
	r.resolveStatements(s.Statements)
	r.endScope()
	return nil
}

func (r *Resolver) VisitClassStmt(s *ast.Class) error {
	enclosingClass := r.currentClass
	r.currentClass = ClassClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil && s.Superclass.Name.Lexeme == s.Name.Lexeme {
		r.reportError(s.Superclass.Name, "a class can't inherit from itself")
	}

	if s.Superclass != nil {
		r.currentClass = ClassSubclass
		r.resolveExpr(s.Superclass)
		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		kind := FunctionMethod
		if method.Name.Lexeme == "init" {
			kind = FunctionInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()
	if s.Superclass != nil {
		r.endScope()
	}
	r.currentClass = enclosingClass
	return nil
}

func (r *Resolver) VisitExpressionStmt(s *ast.Expression) error {
	r.resolveExpr(s.Expr)
	return nil
}

func (r *Resolver) VisitFunctionStmt(s *ast.Function) error {
	r.declare(s.Name)
	r.define(s.Name)
	r.resolveFunction(s, FunctionFunction)
	return nil
}

func (r *Resolver) VisitIfStmt(s *ast.If) error {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.ThenBranch)
	if s.ElseBranch != nil {
		r.resolveStmt(s.ElseBranch)
	}
	return nil
}

func (r *Resolver) VisitPrintStmt(s *ast.Print) error {
	r.resolveExpr(s.Expr)
	return nil
}

func (r *Resolver) VisitReturnStmt(s *ast.Return) error {
	if r.currentFunction == FunctionNone {
		r.reportError(s.Keyword, "can't return from top-level code")
	}
	if s.Value != nil {
		if r.currentFunction == FunctionInitializer {
			r.reportError(s.Keyword, "can't return a value from an initializer")
		}
		r.resolveExpr(s.Value)
	}
	return nil
}

func (r *Resolver) VisitVarStmt(s *ast.Var) error {
	r.declare(s.Name)
	if s.Initializer != nil {
		r.resolveExpr(s.Initializer)
	}
	r.define(s.Name)
	return nil
}

func (r *Resolver) VisitWhileStmt(s *ast.While) error {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.Body)
	return nil
}
