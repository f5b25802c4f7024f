package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Printer renders an AST as a fully-parenthesized s-expression, e.g.
// `print 1 + 2 * 3;` becomes `(print (+ 1 (* 2 3)))`. The output is a
// fixed textual form for comparing trees; it is not Lox source, and
// the parser does not accept it as input.
//
// last holds the most recent statement rendering; statements return
// error (to satisfy StmtVisitor) rather than a value, so the text is
// stashed here instead and read back by PrintStmt.
type Printer struct {
	last string
}

func NewPrinter() *Printer { return &Printer{} }

func (p *Printer) setLast(s string) { p.last = s }

// Print renders a single expression.
func (p *Printer) Print(e Expr) string {
	s, err := e.Accept(p)
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}
	return s.(string)
}

// PrintStmt renders a single statement.
func (p *Printer) PrintStmt(s Stmt) string {
	if err := s.Accept(p); err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}
	return p.last
}

// PrintProgram renders a whole program, one statement per line.
func (p *Printer) PrintProgram(stmts []Stmt) string {
	var sb strings.Builder
	for _, s := range stmts {
		sb.WriteString(p.PrintStmt(s))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (p *Printer) parenthesize(name string, exprs ...Expr) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(name)
	for _, e := range exprs {
		sb.WriteString(" ")
		sb.WriteString(p.Print(e))
	}
	sb.WriteString(")")
	return sb.String()
}

func (p *Printer) VisitAssignExpr(e *Assign) (any, error) {
	return p.parenthesize("= "+e.Name.Lexeme, e.Value), nil
}

func (p *Printer) VisitBinaryExpr(e *Binary) (any, error) {
	return p.parenthesize(e.Operator.Lexeme, e.Left, e.Right), nil
}

func (p *Printer) VisitCallExpr(e *Call) (any, error) {
	return p.parenthesize("call", append([]Expr{e.Callee}, e.Arguments...)...), nil
}

func (p *Printer) VisitGetExpr(e *Get) (any, error) {
	return p.parenthesize("get "+e.Name.Lexeme, e.Object), nil
}

func (p *Printer) VisitGroupingExpr(e *Grouping) (any, error) {
	return p.parenthesize("group", e.Expression), nil
}

func (p *Printer) VisitLiteralExpr(e *Literal) (any, error) {
	if e.Value == nil {
		return "nil", nil
	}
	switch v := e.Value.(type) {
	case string:
		return strconv.Quote(v), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func (p *Printer) VisitLogicalExpr(e *Logical) (any, error) {
	return p.parenthesize(e.Operator.Lexeme, e.Left, e.Right), nil
}

func (p *Printer) VisitSetExpr(e *Set) (any, error) {
	return p.parenthesize("set "+e.Name.Lexeme, e.Object, e.Value), nil
}

func (p *Printer) VisitSuperExpr(e *Super) (any, error) {
	return "(super " + e.Method.Lexeme + ")", nil
}

func (p *Printer) VisitThisExpr(e *This) (any, error) {
	return "this", nil
}

func (p *Printer) VisitUnaryExpr(e *Unary) (any, error) {
	return p.parenthesize(e.Operator.Lexeme, e.Right), nil
}

func (p *Printer) VisitVariableExpr(e *Variable) (any, error) {
	return e.Name.Lexeme, nil
}

func (p *Printer) VisitBlockStmt(s *Block) error {
	var sb strings.Builder
	sb.WriteString("(block")
	for _, stmt := range s.Statements {
		sb.WriteString(" ")
		sb.WriteString(p.PrintStmt(stmt))
	}
	sb.WriteString(")")
	p.setLast(sb.String())
	return nil
}

func (p *Printer) VisitClassStmt(s *Class) error {
	var sb strings.Builder
	sb.WriteString("(class " + s.Name.Lexeme)
	if s.Superclass != nil {
		sb.WriteString(" < " + s.Superclass.Name.Lexeme)
	}
	for _, m := range s.Methods {
		sb.WriteString(" ")
		sb.WriteString(p.PrintStmt(m))
	}
	sb.WriteString(")")
	p.setLast(sb.String())
	return nil
}

func (p *Printer) VisitExpressionStmt(s *Expression) error {
	p.setLast(p.parenthesize(";", s.Expr))
	return nil
}

func (p *Printer) VisitFunctionStmt(s *Function) error {
	var sb strings.Builder
	sb.WriteString("(fun " + s.Name.Lexeme + " (")
	for i, param := range s.Params {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(param.Lexeme)
	}
	sb.WriteString(")")
	for _, stmt := range s.Body {
		sb.WriteString(" ")
		sb.WriteString(p.PrintStmt(stmt))
	}
	sb.WriteString(")")
	p.setLast(sb.String())
	return nil
}

func (p *Printer) VisitIfStmt(s *If) error {
	if s.ElseBranch != nil {
		p.setLast(fmt.Sprintf("(if %s %s %s)", p.Print(s.Condition), p.PrintStmt(s.ThenBranch), p.PrintStmt(s.ElseBranch)))
		return nil
	}
	p.setLast(fmt.Sprintf("(if %s %s)", p.Print(s.Condition), p.PrintStmt(s.ThenBranch)))
	return nil
}

func (p *Printer) VisitPrintStmt(s *Print) error {
	p.setLast(p.parenthesize("print", s.Expr))
	return nil
}

func (p *Printer) VisitReturnStmt(s *Return) error {
	if s.Value == nil {
		p.setLast("(return)")
		return nil
	}
	p.setLast(p.parenthesize("return", s.Value))
	return nil
}

func (p *Printer) VisitVarStmt(s *Var) error {
	if s.Initializer == nil {
		p.setLast("(var " + s.Name.Lexeme + ")")
		return nil
	}
	p.setLast(p.parenthesize("var "+s.Name.Lexeme, s.Initializer))
	return nil
}

func (p *Printer) VisitWhileStmt(s *While) error {
	p.setLast(fmt.Sprintf("(while %s %s)", p.Print(s.Condition), p.PrintStmt(s.Body)))
	return nil
}
