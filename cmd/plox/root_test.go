package main

import (
	"errors"
	"testing"

	"github.com/Josemarialanda/plox/internal/interp"
	"github.com/Josemarialanda/plox/internal/lexer"
	"github.com/Josemarialanda/plox/pkg/plox"
)

func TestExitCodeForNil(t *testing.T) {
	if code := exitCodeFor(nil); code != 0 {
		t.Fatalf("got %d, want 0", code)
	}
}

func TestExitCodeForUsage(t *testing.T) {
	if code := exitCodeFor(errUsage); code != 64 {
		t.Fatalf("got %d, want 64", code)
	}
}

func TestExitCodeForCompileError(t *testing.T) {
	err := &plox.CompileError{Messages: []string{"Unexpected token."}}
	if code := exitCodeFor(err); code != 65 {
		t.Fatalf("got %d, want 65", code)
	}
}

func TestExitCodeForRuntimeError(t *testing.T) {
	err := interp.NewRuntimeError(lexer.Token{Line: 1}, "Operands must be numbers.")
	if code := exitCodeFor(err); code != 70 {
		t.Fatalf("got %d, want 70", code)
	}
}

func TestExitCodeForUnknownErrorIsOne(t *testing.T) {
	if code := exitCodeFor(errors.New("boom")); code != 1 {
		t.Fatalf("got %d, want 1", code)
	}
}
