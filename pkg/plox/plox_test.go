package plox_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Josemarialanda/plox/internal/interp"
	"github.com/Josemarialanda/plox/pkg/plox"
	"github.com/gkampitakis/go-snaps/snaps"
)

// scenarios mirrors spec.md §8's testable-property programs: each is
// run once through the full Run pipeline and its stdout is snapshotted,
// the way the teacher's fixture tests snapshot evaluator output.
var scenarios = map[string]string{
	"arithmetic_precedence": `print 1 + 2 * 3;`,
	"closure_capture": `
fun makeCounter() {
  var a = "outer";
  fun showA() { print a; }
  showA();
  var a2 = "shadow";
  return showA;
}
makeCounter()();
`,
	"inheritance_super": `
class A {
  m() { print "A"; }
}
class B < A {
  m() {
    super.m();
    print "B";
  }
}
B().m();
`,
	"initializer_returns_this": `
class Foo {
  init() {}
}
print Foo();
`,
	"for_loop_desugaring": `
for (var i = 0; i < 3; i = i + 1) {
  print i;
}
`,
}

func TestScenarioOutputs(t *testing.T) {
	for name, source := range scenarios {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			if err := plox.Run(source, &out); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			snaps.MatchSnapshot(t, out.String())
		})
	}
}

func TestRuntimeTypeErrorExitsViaRuntimeError(t *testing.T) {
	var out bytes.Buffer
	err := plox.Run(`"a" - 1;`, &out)
	if err == nil {
		t.Fatal("expected an error")
	}
	var runtimeErr *interp.RuntimeError
	if !errors.As(err, &runtimeErr) {
		t.Fatalf("expected *interp.RuntimeError, got %T", err)
	}
}

func TestCompileErrorIsBatched(t *testing.T) {
	var out bytes.Buffer
	err := plox.Run(`var = 1;`, &out)
	if err == nil {
		t.Fatal("expected a compile error")
	}
	var compileErr *plox.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected *plox.CompileError, got %T", err)
	}
	if len(compileErr.Messages) == 0 {
		t.Fatal("expected at least one diagnostic message")
	}
}

func TestReplSessionPersistsDefinitions(t *testing.T) {
	var out bytes.Buffer
	session := plox.New(&out)

	if _, err := session.EvalLine(`var x = 10;`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := session.EvalLine(`x + 5;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "15" {
		t.Fatalf("got %q, want 15", result)
	}
}

func TestCompileErrorRendersSourceCaret(t *testing.T) {
	var out bytes.Buffer
	err := plox.Run("var = 1;", &out, plox.WithFileName("broken.lox"))
	var compileErr *plox.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected *plox.CompileError, got %T", err)
	}
	msg := compileErr.Messages[0]
	if !strings.Contains(msg, "broken.lox") {
		t.Fatalf("expected message to cite the file name, got %q", msg)
	}
	if !strings.Contains(msg, "^") {
		t.Fatalf("expected message to carry a caret, got %q", msg)
	}
	if !strings.Contains(msg, "var = 1;") {
		t.Fatalf("expected message to quote the offending source line, got %q", msg)
	}
}

func TestReplSuppressesNilExpressionResult(t *testing.T) {
	var out bytes.Buffer
	session := plox.New(&out)

	result, err := session.EvalLine(`nil;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "" {
		t.Fatalf("got %q, want empty string for a nil-valued expression", result)
	}
}
