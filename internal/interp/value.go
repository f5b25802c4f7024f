package interp

import "strconv"

// Value is the runtime representation of every Lox value. It mirrors
// the teacher's runtime.Value shape (Type/String) but over a much
// smaller value sum: nil, bool, number, string, and the callable/class
// family defined in function.go and class.go.
type Value interface {
	Type() string
	String() string
}

// NilValue is the single nil value.
type NilValue struct{}

func (NilValue) Type() string   { return "nil" }
func (NilValue) String() string { return "nil" }

// Nil is the shared nil instance; nil-ness is checked by type, not by
// a Go nil interface, so every code path produces the same value.
var Nil = NilValue{}

// BoolValue wraps a Lox boolean.
type BoolValue bool

func (BoolValue) Type() string     { return "bool" }
func (b BoolValue) String() string { return strconv.FormatBool(bool(b)) }

// NumberValue wraps a Lox number, always a 64-bit float.
type NumberValue float64

func (NumberValue) Type() string { return "number" }

// String renders the shortest decimal form, dropping a trailing
// ".0" for integral values (spec.md §4.3.4).
func (n NumberValue) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// StringValue wraps a Lox string.
type StringValue string

func (StringValue) Type() string     { return "string" }
func (s StringValue) String() string { return string(s) }

// IsTruthy implements Lox truthiness: false and nil are falsy,
// everything else (including 0 and "") is truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case NilValue:
		return false
	case BoolValue:
		return bool(val)
	default:
		return true
	}
}

// IsEqual implements Lox `==`: nil only equals nil, numbers/strings/
// bools compare by value, everything else (callables, classes,
// instances) compares by reference identity.
func IsEqual(a, b Value) bool {
	if _, aNil := a.(NilValue); aNil {
		_, bNil := b.(NilValue)
		return bNil
	}
	switch av := a.(type) {
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av == bv
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	default:
		return a == b
	}
}
