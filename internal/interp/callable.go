package interp

// Callable is implemented by every value that `(...)` call syntax can
// invoke: user functions, bound methods, native functions, and
// classes (whose call constructs an instance).
type Callable interface {
	Value
	Arity() int
	Call(interp *Interpreter, arguments []Value) (Value, error)
}

// NativeFunction wraps a Go function as a Lox callable, the mechanism
// the evaluator uses to pre-populate the global environment (spec.md
// §4.3.5).
type NativeFunction struct {
	name  string
	arity int
	fn    func(interp *Interpreter, arguments []Value) (Value, error)
}

func NewNativeFunction(name string, arity int, fn func(interp *Interpreter, arguments []Value) (Value, error)) *NativeFunction {
	return &NativeFunction{name: name, arity: arity, fn: fn}
}

func (*NativeFunction) Type() string   { return "native function" }
func (*NativeFunction) String() string { return "<native fn>" }
func (n *NativeFunction) Arity() int   { return n.arity }

func (n *NativeFunction) Call(interp *Interpreter, arguments []Value) (Value, error) {
	return n.fn(interp, arguments)
}
