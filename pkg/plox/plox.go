// Package plox is the embeddable Run/Eval API over the lexer, parser,
// resolver, and evaluator: the surface cmd/plox's CLI is a thin wrapper
// over, and the surface tests drive directly instead of shelling out to
// a built binary.
package plox

import (
	"fmt"
	"io"

	"github.com/Josemarialanda/plox/internal/ast"
	"github.com/Josemarialanda/plox/internal/errors"
	"github.com/Josemarialanda/plox/internal/interp"
	"github.com/Josemarialanda/plox/internal/lexer"
	"github.com/Josemarialanda/plox/internal/parser"
	"github.com/Josemarialanda/plox/internal/resolver"
)

// ExitCode mirrors spec.md §6's CLI exit code contract, so callers that
// want process-exit behavior don't have to re-derive it from error
// types.
type ExitCode int

const (
	ExitSuccess     ExitCode = 0
	ExitUsageError  ExitCode = 64
	ExitCompileTime ExitCode = 65
	ExitRuntime     ExitCode = 70
)

// CompileError is returned by Run/Interpreter.EvalLine when lexing, parsing,
// or resolving fails; it batches every diagnostic produced, matching
// spec.md §7's "batched; diagnostic text includes line number". Each
// message is rendered with the offending source line and a caret under
// the exact column, the way the teacher's internal/errors.CompilerError
// formats a compile-time diagnostic.
type CompileError struct {
	Messages []string
}

func (e *CompileError) Error() string {
	msg := "compile error"
	if len(e.Messages) > 0 {
		msg = e.Messages[0]
		if len(e.Messages) > 1 {
			msg = fmt.Sprintf("%s (and %d more)", msg, len(e.Messages)-1)
		}
	}
	return msg
}

// Interpreter is a reusable session: the REPL holds one across lines so
// that top-level definitions persist (spec.md §5's "The REPL reuses one
// interpreter instance across lines").
type Interpreter struct {
	stdout  io.Writer
	runtime *interp.Interpreter
	depths  map[int]int
}

// Option configures a new Interpreter.
type Option func(*options)

type options struct {
	maxCallDepth int
	fileName     string
}

// WithMaxCallDepth overrides the call-stack depth guard (default 1024,
// internal/interp.NewCallStack's own default).
func WithMaxCallDepth(depth int) Option {
	return func(o *options) { o.maxCallDepth = depth }
}

// WithFileName names the source file a compile diagnostic's header
// should cite. The REPL leaves this unset, matching the teacher's
// `errors.CompilerError`, whose header falls back to a bare line number
// when File is empty.
func WithFileName(name string) Option {
	return func(o *options) { o.fileName = name }
}

// New creates an interpreter session writing `print` output to stdout.
func New(stdout io.Writer, opts ...Option) *Interpreter {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Interpreter{
		stdout:  stdout,
		depths:  map[int]int{},
		runtime: interp.New(map[int]int{}, stdout, o.maxCallDepth),
	}
}

// diagnostic pairs a source position with a message, the common shape
// behind the lexer's, parser's, and resolver's otherwise-distinct error
// types, so compile can render all three through the same caret
// formatter.
type diagnostic struct {
	pos     lexer.Position
	message string
}

// renderDiagnostics formats each diagnostic as a source-context block
// with a caret under the offending column, per the teacher's
// internal/errors.CompilerError.Format.
func renderDiagnostics(source, file string, diags []diagnostic) []string {
	messages := make([]string, len(diags))
	for i, d := range diags {
		messages[i] = errors.NewCompilerError(d.pos, d.message, source, file).Format(false)
	}
	return messages
}

// compile runs the lexer, parser, and resolver over source and returns
// the statements with the resolver's depth side-table; EvalLine merges
// that table into the session's running one.
func compile(source, file string) ([]ast.Stmt, map[int]int, error) {
	tokens, lexErrs := lexer.New(source).ScanTokens()
	if len(lexErrs) != 0 {
		diags := make([]diagnostic, len(lexErrs))
		for i, e := range lexErrs {
			diags[i] = diagnostic{pos: lexer.Position{Line: e.Line, Column: e.Column}, message: e.Message}
		}
		return nil, nil, &CompileError{Messages: renderDiagnostics(source, file, diags)}
	}

	statements, parseErrs := parser.New(tokens).Parse()
	if len(parseErrs) != 0 {
		diags := make([]diagnostic, len(parseErrs))
		for i, e := range parseErrs {
			diags[i] = diagnostic{pos: e.Pos, message: e.Message}
		}
		return nil, nil, &CompileError{Messages: renderDiagnostics(source, file, diags)}
	}

	depths, resolveErrs := resolver.New().Resolve(statements)
	if len(resolveErrs) != 0 {
		diags := make([]diagnostic, len(resolveErrs))
		for i, e := range resolveErrs {
			diags[i] = diagnostic{pos: e.Token.Pos(), message: e.Message}
		}
		return nil, nil, &CompileError{Messages: renderDiagnostics(source, file, diags)}
	}

	return statements, depths, nil
}

// Run compiles and executes a complete program (file mode): one
// interpreter, run once. Returns *CompileError or *interp.RuntimeError
// on failure, matching spec.md §7's two error classes.
func Run(source string, stdout io.Writer, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	statements, depths, err := compile(source, o.fileName)
	if err != nil {
		return err
	}

	return interp.New(depths, stdout, o.maxCallDepth).Interpret(statements)
}

// EvalLine compiles and executes a single REPL line against the
// session's persistent state, returning the printable form of a bare
// expression statement's value (empty if the line had no such value).
func (in *Interpreter) EvalLine(line string) (string, error) {
	statements, depths, err := compile(line, "")
	if err != nil {
		return "", err
	}
	for id, d := range depths {
		in.depths[id] = d
	}
	in.runtime.SetDepths(in.depths)

	var out string
	for _, stmt := range statements {
		value, err := in.runtime.InterpretRepl(stmt)
		if err != nil {
			return "", err
		}
		if value != nil {
			if _, isNil := value.(interp.NilValue); !isNil {
				out = value.String()
			}
		}
	}
	return out, nil
}
