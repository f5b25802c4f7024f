package interp

import (
	"fmt"

	"github.com/Josemarialanda/plox/internal/lexer"
)

// RuntimeError is a failure raised during evaluation, carrying the
// token whose position should be reported (spec.md §7). It unwinds
// the evaluator to the top level; it is never used for the `return`
// control-flow signal, which travels as a ControlFlow value instead.
type RuntimeError struct {
	Token   lexer.Token
	Message string
}

func NewRuntimeError(token lexer.Token, message string) *RuntimeError {
	return &RuntimeError{Token: token, Message: message}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}
