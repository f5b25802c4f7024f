package interp

import (
	"fmt"
	"io"
	"time"

	"github.com/Josemarialanda/plox/internal/ast"
	"github.com/Josemarialanda/plox/internal/lexer"
)

// Interpreter walks a resolved program and evaluates it. It implements
// both ast.ExprVisitor and ast.StmtVisitor, the same double-dispatch
// shape the resolver uses, so the nodes' Accept methods serve both
// passes (each pass is its own walk of the tree).
type Interpreter struct {
	globals     *Environment
	environment *Environment
	depths      map[int]int
	callStack   *CallStack
	stdout      io.Writer

	// lastValue holds the value of the most recently evaluated
	// expression statement; InterpretRepl reports it only when the
	// statement it ran is itself an expression statement.
	lastValue Value

	// pendingFlow is how a VisitXxxStmt method reports an active
	// ControlFlow (a `return` in flight) back through the error-only
	// ast.StmtVisitor contract; executeStmt reads it right after
	// Accept returns.
	pendingFlow ControlFlow
}

// New builds an interpreter over a program whose variable references
// have already been resolved to depths (Resolver.Resolve's result).
// Native functions are registered into globals here, the same place
// the teacher's evaluator seeds its builtins.
func New(depths map[int]int, stdout io.Writer, maxCallDepth int) *Interpreter {
	globals := NewEnvironment()
	interp := &Interpreter{
		globals:     globals,
		environment: globals,
		depths:      depths,
		callStack:   NewCallStack(maxCallDepth),
		stdout:      stdout,
	}
	interp.defineNatives()
	return interp
}

// defineNatives populates the global scope with the builtins spec.md
// §4.3.5 requires: `time`, a zero-arity function returning seconds
// since the Unix epoch, plus `currentTime` (the original's second
// native, not mandated by spec.md but supplied alongside it).
func (i *Interpreter) defineNatives() {
	now := func(_ *Interpreter, _ []Value) (Value, error) {
		return NumberValue(float64(time.Now().UnixNano()) / 1e9), nil
	}
	i.globals.Define("time", NewNativeFunction("time", 0, now))
	i.globals.Define("currentTime", NewNativeFunction("currentTime", 0, now))
}

// Interpret runs a resolved program to completion, or returns the
// first *RuntimeError encountered.
func (i *Interpreter) Interpret(statements []ast.Stmt) error {
	for _, stmt := range statements {
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InterpretRepl runs a single REPL-mode statement and reports the
// value of a bare expression statement, the form a REPL echoes back.
func (i *Interpreter) InterpretRepl(stmt ast.Stmt) (Value, error) {
	i.lastValue = nil
	if err := i.execute(stmt); err != nil {
		return nil, err
	}
	if _, ok := stmt.(*ast.Expression); !ok {
		return nil, nil
	}
	return i.lastValue, nil
}

// SetDepths replaces the resolver depth side-table the interpreter
// consults for variable lookups. The REPL driver calls this after each
// line's resolve pass, since later lines can reference names resolved
// in earlier ones (pkg/plox's persistent session).
func (i *Interpreter) SetDepths(depths map[int]int) {
	i.depths = depths
}

func (i *Interpreter) execute(stmt ast.Stmt) error {
	return stmt.Accept(i)
}

func (i *Interpreter) evaluate(expr ast.Expr) (Value, error) {
	v, err := expr.Accept(i)
	if err != nil {
		return nil, err
	}
	return v.(Value), nil
}

// executeBlock runs statements in env, restoring the interpreter's
// previous environment before returning however it exits (normally,
// by error, or via an active ControlFlow). Function.Call relies on
// this to run a call's body in its own environment.
func (i *Interpreter) executeBlock(statements []ast.Stmt, env *Environment) (ControlFlow, error) {
	previous := i.environment
	i.environment = env
	defer func() { i.environment = previous }()

	for _, stmt := range statements {
		cf, err := i.executeStmt(stmt)
		if err != nil {
			return ControlFlow{}, err
		}
		if cf.IsActive() {
			return cf, nil
		}
	}
	return ControlFlow{}, nil
}

// executeStmt runs one statement and reports whether it produced an
// active ControlFlow signal. Every StmtVisitor method below funnels
// its control-flow result through i.pendingFlow so the plain
// ast.StmtVisitor interface (error-only) still works for direct
// Accept callers, while executeBlock can observe the signal.
func (i *Interpreter) executeStmt(stmt ast.Stmt) (ControlFlow, error) {
	i.pendingFlow = ControlFlow{}
	if err := stmt.Accept(i); err != nil {
		return ControlFlow{}, err
	}
	return i.pendingFlow, nil
}

func (i *Interpreter) lookUpVariable(name lexer.Token, id int) (Value, bool) {
	if distance, ok := i.depths[id]; ok {
		return i.environment.GetAt(distance, name.Lexeme), true
	}
	return i.globals.Get(name.Lexeme)
}

// ---- Expressions ----

func (i *Interpreter) VisitLiteralExpr(e *ast.Literal) (any, error) {
	return wrapLiteral(e.Value), nil
}

func wrapLiteral(v any) Value {
	switch val := v.(type) {
	case nil:
		return Nil
	case float64:
		return NumberValue(val)
	case string:
		return StringValue(val)
	case bool:
		return BoolValue(val)
	case Value:
		return val
	default:
		return Nil
	}
}

func (i *Interpreter) VisitGroupingExpr(e *ast.Grouping) (any, error) {
	return i.evaluate(e.Expression)
}

func (i *Interpreter) VisitUnaryExpr(e *ast.Unary) (any, error) {
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case lexer.MINUS:
		n, ok := right.(NumberValue)
		if !ok {
			return nil, NewRuntimeError(e.Operator, "Operand must be a number.")
		}
		return -n, nil
	case lexer.BANG:
		return BoolValue(!IsTruthy(right)), nil
	}
	return nil, NewRuntimeError(e.Operator, "Unknown unary operator.")
}

func (i *Interpreter) VisitBinaryExpr(e *ast.Binary) (any, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case lexer.PLUS:
		if ln, ok := left.(NumberValue); ok {
			if rn, ok := right.(NumberValue); ok {
				return ln + rn, nil
			}
		}
		_, leftIsString := left.(StringValue)
		_, rightIsString := right.(StringValue)
		if leftIsString || rightIsString {
			return StringValue(left.String() + right.String()), nil
		}
		return nil, NewRuntimeError(e.Operator, "Operands must be two numbers or include a string.")
	case lexer.MINUS:
		ln, rn, err := i.numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln - rn, nil
	case lexer.SLASH:
		ln, rn, err := i.numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		if rn == 0 {
			return nil, NewRuntimeError(e.Operator, "Division by zero.")
		}
		return ln / rn, nil
	case lexer.STAR:
		ln, rn, err := i.numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln * rn, nil
	case lexer.GREATER:
		ln, rn, err := i.numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return BoolValue(ln > rn), nil
	case lexer.GREATER_EQUAL:
		ln, rn, err := i.numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return BoolValue(ln >= rn), nil
	case lexer.LESS:
		ln, rn, err := i.numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return BoolValue(ln < rn), nil
	case lexer.LESS_EQUAL:
		ln, rn, err := i.numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return BoolValue(ln <= rn), nil
	case lexer.BANG_EQUAL:
		return BoolValue(!IsEqual(left, right)), nil
	case lexer.EQUAL_EQUAL:
		return BoolValue(IsEqual(left, right)), nil
	}
	return nil, NewRuntimeError(e.Operator, "Unknown binary operator.")
}

func (i *Interpreter) numberOperands(operator lexer.Token, left, right Value) (NumberValue, NumberValue, error) {
	ln, ok := left.(NumberValue)
	if !ok {
		return 0, 0, NewRuntimeError(operator, "Operands must be numbers.")
	}
	rn, ok := right.(NumberValue)
	if !ok {
		return 0, 0, NewRuntimeError(operator, "Operands must be numbers.")
	}
	return ln, rn, nil
}

func (i *Interpreter) VisitLogicalExpr(e *ast.Logical) (any, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	if e.Operator.Type == lexer.OR {
		if IsTruthy(left) {
			return left, nil
		}
	} else {
		if !IsTruthy(left) {
			return left, nil
		}
	}
	return i.evaluate(e.Right)
}

func (i *Interpreter) VisitVariableExpr(e *ast.Variable) (any, error) {
	v, ok := i.lookUpVariable(e.Name, e.ID())
	if !ok {
		return nil, NewRuntimeError(e.Name, fmt.Sprintf("Undefined variable '%s'.", e.Name.Lexeme))
	}
	return v, nil
}

func (i *Interpreter) VisitAssignExpr(e *ast.Assign) (any, error) {
	value, err := i.evaluate(e.Value)
	if err != nil {
		return nil, err
	}

	if distance, ok := i.depths[e.ID()]; ok {
		i.environment.AssignAt(distance, e.Name.Lexeme, value)
		return value, nil
	}
	if !i.globals.Assign(e.Name.Lexeme, value) {
		return nil, NewRuntimeError(e.Name, fmt.Sprintf("Undefined variable '%s'.", e.Name.Lexeme))
	}
	return value, nil
}

func (i *Interpreter) VisitCallExpr(e *ast.Call) (any, error) {
	callee, err := i.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	arguments := make([]Value, len(e.Arguments))
	for idx, argExpr := range e.Arguments {
		arg, err := i.evaluate(argExpr)
		if err != nil {
			return nil, err
		}
		arguments[idx] = arg
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, NewRuntimeError(e.Paren, "Can only call functions and classes.")
	}
	if len(arguments) != callable.Arity() {
		return nil, NewRuntimeError(e.Paren, fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(arguments)))
	}

	if err := i.callStack.Push(callable.String(), "", nil); err != nil {
		return nil, NewRuntimeError(e.Paren, err.Error())
	}
	defer i.callStack.Pop()

	return callable.Call(i, arguments)
}

func (i *Interpreter) VisitGetExpr(e *ast.Get) (any, error) {
	object, err := i.evaluate(e.Object)
	if err != nil {
		return nil, err
	}

	instance, ok := object.(*Instance)
	if !ok {
		return nil, NewRuntimeError(e.Name, "Only instances have properties.")
	}
	v, ok := instance.Get(e.Name.Lexeme)
	if !ok {
		return nil, NewRuntimeError(e.Name, fmt.Sprintf("Undefined property '%s'.", e.Name.Lexeme))
	}
	return v, nil
}

func (i *Interpreter) VisitSetExpr(e *ast.Set) (any, error) {
	object, err := i.evaluate(e.Object)
	if err != nil {
		return nil, err
	}

	instance, ok := object.(*Instance)
	if !ok {
		return nil, NewRuntimeError(e.Name, "Only instances have fields.")
	}

	value, err := i.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(e.Name.Lexeme, value)
	return value, nil
}

func (i *Interpreter) VisitThisExpr(e *ast.This) (any, error) {
	v, ok := i.lookUpVariable(e.Keyword, e.ID())
	if !ok {
		return nil, NewRuntimeError(e.Keyword, "Undefined variable 'this'.")
	}
	return v, nil
}

func (i *Interpreter) VisitSuperExpr(e *ast.Super) (any, error) {
	distance, ok := i.depths[e.ID()]
	if !ok {
		return nil, NewRuntimeError(e.Keyword, "Undefined variable 'super'.")
	}

	superclass, _ := i.environment.GetAt(distance, "super").(*Class)
	// `this` always lives exactly one scope closer than `super`,
	// because the resolver opens the `this` scope after the `super`
	// scope when both are present (spec.md §4.2.2).
	instance, _ := i.environment.GetAt(distance-1, "this").(*Instance)

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, NewRuntimeError(e.Method, fmt.Sprintf("Undefined property '%s'.", e.Method.Lexeme))
	}
	return method.Bind(instance), nil
}

// ---- Statements ----

var _ ast.StmtVisitor = (*Interpreter)(nil)

func (i *Interpreter) VisitExpressionStmt(s *ast.Expression) error {
	v, err := i.evaluate(s.Expr)
	if err != nil {
		return err
	}
	i.lastValue = v
	return nil
}

func (i *Interpreter) VisitPrintStmt(s *ast.Print) error {
	v, err := i.evaluate(s.Expr)
	if err != nil {
		return err
	}
	fmt.Fprintln(i.stdout, v.String())
	return nil
}

func (i *Interpreter) VisitVarStmt(s *ast.Var) error {
	var value Value = Nil
	if s.Initializer != nil {
		v, err := i.evaluate(s.Initializer)
		if err != nil {
			return err
		}
		value = v
	}
	i.environment.Define(s.Name.Lexeme, value)
	return nil
}

func (i *Interpreter) VisitBlockStmt(s *ast.Block) error {
	cf, err := i.executeBlock(s.Statements, NewEnclosedEnvironment(i.environment))
	if err != nil {
		return err
	}
	i.pendingFlow = cf
	return nil
}

func (i *Interpreter) VisitIfStmt(s *ast.If) error {
	cond, err := i.evaluate(s.Condition)
	if err != nil {
		return err
	}
	if IsTruthy(cond) {
		cf, err := i.executeStmt(s.ThenBranch)
		if err != nil {
			return err
		}
		i.pendingFlow = cf
		return nil
	}
	if s.ElseBranch != nil {
		cf, err := i.executeStmt(s.ElseBranch)
		if err != nil {
			return err
		}
		i.pendingFlow = cf
		return nil
	}
	return nil
}

func (i *Interpreter) VisitWhileStmt(s *ast.While) error {
	for {
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if !IsTruthy(cond) {
			return nil
		}

		cf, err := i.executeStmt(s.Body)
		if err != nil {
			return err
		}
		if cf.IsActive() {
			i.pendingFlow = cf
			return nil
		}
	}
}

func (i *Interpreter) VisitFunctionStmt(s *ast.Function) error {
	fn := NewFunction(s, i.environment, false)
	i.environment.Define(s.Name.Lexeme, fn)
	return nil
}

func (i *Interpreter) VisitReturnStmt(s *ast.Return) error {
	var value Value = Nil
	if s.Value != nil {
		v, err := i.evaluate(s.Value)
		if err != nil {
			return err
		}
		value = v
	}
	i.pendingFlow = ControlFlow{Kind: FlowReturn, Value: value}
	return nil
}

func (i *Interpreter) VisitClassStmt(s *ast.Class) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := i.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return NewRuntimeError(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	defineEnv := i.environment
	defineEnv.Define(s.Name.Lexeme, Nil)

	methodClosure := defineEnv
	if superclass != nil {
		methodClosure = NewEnclosedEnvironment(defineEnv)
		methodClosure.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, method := range s.Methods {
		methods[method.Name.Lexeme] = NewFunction(method, methodClosure, method.Name.Lexeme == "init")
	}

	class := NewClass(s.Name.Lexeme, superclass, methods)
	defineEnv.Assign(s.Name.Lexeme, class)
	return nil
}
