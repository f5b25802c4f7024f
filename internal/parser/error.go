package parser

import (
	"fmt"

	"github.com/Josemarialanda/plox/internal/lexer"
)

// ParserError is a single syntax diagnostic, positioned at the token
// that triggered it.
type ParserError struct {
	Message string
	Pos     lexer.Position
	Token   lexer.Token
}

func (e *ParserError) Error() string {
	if e.Token.Type == lexer.EOF {
		return fmt.Sprintf("%s at end", e.Message)
	}
	return fmt.Sprintf("%s at %d:%d near '%s'", e.Message, e.Pos.Line, e.Pos.Column, e.Token.Lexeme)
}

// parseError is the panic payload used to unwind out of a broken
// production and back to declaration(), where synchronize() resumes
// scanning at the next safe boundary. It is never allowed to escape
// the parser package.
type parseError struct {
	err *ParserError
}
