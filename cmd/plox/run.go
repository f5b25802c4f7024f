package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	ploxerrors "github.com/Josemarialanda/plox/internal/errors"
	"github.com/Josemarialanda/plox/internal/interp"
	"github.com/Josemarialanda/plox/pkg/plox"
)

// runFile executes one script and exits (spec.md §6's file mode): a
// compile error or a runtime error both abort after being reported,
// with exit codes 65 and 70 respectively decided by Execute.
func runFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	source := string(raw)

	if verbose {
		fmt.Fprintf(os.Stderr, "[plox] running %s\n", path)
	}

	runErr := plox.Run(source, os.Stdout, plox.WithFileName(path))
	reportError(runErr, source, path)
	return runErr
}

// runRepl reads one line at a time, evaluating each against a single
// persistent interpreter session (spec.md §5: "The REPL reuses one
// interpreter instance across lines so that definitions persist").
// A compile or runtime error is reported and the REPL continues; only
// end of input stops it.
func runRepl() error {
	session := plox.New(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Print("> ")
	for scanner.Scan() {
		line := scanner.Text()
		if verbose {
			fmt.Fprintf(os.Stderr, "[plox] %s\n", line)
		}

		result, err := session.EvalLine(line)
		if err != nil {
			reportError(err, line, "")
		} else if result != "" {
			fmt.Println(result)
		}
		fmt.Print("> ")
	}
	fmt.Println()
	return nil
}

// reportError prints a compile or runtime error to stderr in the shape
// spec.md §7 describes: batched diagnostics for compile errors, a
// single diagnostic for runtime errors. source/file let a runtime error
// be rendered with the same source-context-plus-caret formatting the
// compile phases already use.
func reportError(err error, source, file string) {
	if err == nil {
		return
	}

	var compileErr *plox.CompileError
	if errors.As(err, &compileErr) {
		for _, msg := range compileErr.Messages {
			fmt.Fprintln(os.Stderr, msg)
		}
		return
	}

	var runtimeErr *interp.RuntimeError
	if errors.As(err, &runtimeErr) {
		diagnostic := ploxerrors.NewCompilerError(runtimeErr.Token.Pos(), runtimeErr.Message, source, file)
		fmt.Fprintln(os.Stderr, diagnostic.Format(false))
		return
	}

	fmt.Fprintln(os.Stderr, err)
}
