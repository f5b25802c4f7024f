package interp

// Class is a runtime class value: a name, an optional superclass, and
// its own methods (inherited methods are reached by walking Superclass
// at lookup time rather than being copied in).
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

func (*Class) Type() string     { return "class" }
func (c *Class) String() string { return c.Name }

// FindMethod looks up a method by name on this class, falling back to
// the superclass chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if fn, ok := c.Methods[name]; ok {
		return fn, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Arity is the arity of `init`, or 0 if the class declares none
// (spec.md §4.3.3: "The class's arity is init's arity, or 0").
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new instance and runs its initializer, if any
// (spec.md §4.3.3's "Class construction").
func (c *Class) Call(interp *Interpreter, arguments []Value) (Value, error) {
	instance := NewInstance(c)
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(interp, arguments); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a runtime object: a reference to its class plus its own
// field values. Fields shadow methods of the same name at lookup time
// (spec.md §3).
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

func (*Instance) Type() string     { return "instance" }
func (i *Instance) String() string { return i.Class.Name + " instance" }

// Get reads a field or bound method by name, the "Get" expression's
// contract from spec.md §4.3.1.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if method, ok := i.Class.FindMethod(name); ok {
		return method.Bind(i), true
	}
	return nil, false
}

// Set writes a field, creating it on first write.
func (i *Instance) Set(name string, value Value) {
	i.Fields[name] = value
}
