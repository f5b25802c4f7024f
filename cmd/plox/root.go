package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Josemarialanda/plox/internal/interp"
	"github.com/Josemarialanda/plox/pkg/plox"
	"github.com/spf13/cobra"
)

// Version is set by build flags, the same mechanism the teacher's
// root.go uses (ldflags -X).
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

// errUsage signals the "more than one argument" misuse spec.md §6
// maps to exit code 64.
var errUsage = errors.New("usage: plox [script]")

var rootCmd = &cobra.Command{
	Use:   "plox [script]",
	Short: "A tree-walking interpreter for Lox",
	Long: `plox runs Lox programs.

With no arguments it starts a REPL, reading one line of Lox at a time
from standard input and printing the value of a bare expression
statement unless it is nil. With one argument it runs that file once
and exits.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlox,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace each REPL line, or the script path, to stderr before evaluating it")
	rootCmd.SetVersionTemplate(fmt.Sprintf("plox version {{.Version}}\nCommit: %s\nBuilt:  %s\n", GitCommit, BuildDate))
}

func runPlox(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return runRepl()
	case 1:
		return runFile(args[0])
	default:
		fmt.Fprintln(os.Stderr, "Usage: plox [script]")
		return errUsage
	}
}

// Execute runs the CLI and returns the process exit code spec.md §6
// specifies: 0 success, 64 CLI misuse, 65 compile-time error
// (lexical, syntactic, or resolver), 70 runtime error (file mode only).
func Execute() int {
	rootCmd.Version = Version
	err := rootCmd.Execute()
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 64
	default:
		var compileErr *plox.CompileError
		if errors.As(err, &compileErr) {
			return 65
		}
		var runtimeErr *interp.RuntimeError
		if errors.As(err, &runtimeErr) {
			return 70
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
}
