package interp

import "github.com/Josemarialanda/plox/internal/ast"

// Function is a user-defined function or method value. It captures
// the environment active at its declaration site (closure semantics,
// spec.md §3's "A function value captures exactly the environment
// active at its declaration site").
type Function struct {
	declaration   *ast.Function
	closure       *Environment
	isInitializer bool
}

// NewFunction builds a function value for a top-level `fun` or a
// class method. isInitializer marks `init` methods, which always
// return `this` regardless of an explicit return (spec.md §4.3.3).
func NewFunction(declaration *ast.Function, closure *Environment, isInitializer bool) *Function {
	return &Function{declaration: declaration, closure: closure, isInitializer: isInitializer}
}

func (*Function) Type() string { return "function" }

func (f *Function) String() string {
	return "<fn " + f.declaration.Name.Lexeme + ">"
}

func (f *Function) Arity() int {
	return len(f.declaration.Params)
}

// Bind produces the method bound to instance: a child environment of
// the method's closure with a single `this` slot (spec.md §4.3.3's
// "Method binding").
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnclosedEnvironment(f.closure)
	env.Define("this", instance)
	return &Function{declaration: f.declaration, closure: env, isInitializer: f.isInitializer}
}

func (f *Function) Call(interp *Interpreter, arguments []Value) (Value, error) {
	env := NewEnclosedEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, arguments[i])
	}

	result, err := interp.executeBlock(f.declaration.Body, env)
	// The call boundary consumes the return signal so it does not leak
	// into the statement that made this call.
	interp.pendingFlow = ControlFlow{}
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	if result.Kind == FlowReturn {
		return result.Value, nil
	}
	return Nil, nil
}
