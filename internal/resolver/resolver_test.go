package resolver

import (
	"testing"

	"github.com/Josemarialanda/plox/internal/ast"
	"github.com/Josemarialanda/plox/internal/lexer"
	"github.com/Josemarialanda/plox/internal/parser"
)

func resolveSource(t *testing.T, src string) ([]ast.Stmt, map[int]int, []*ResolveError) {
	t.Helper()
	toks, lexErrs := lexer.New(src).ScanTokens()
	if len(lexErrs) != 0 {
		t.Fatalf("unexpected lex errors: %v", lexErrs)
	}
	stmts, parseErrs := parser.New(toks).Parse()
	if len(parseErrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrs)
	}
	depths, resolveErrs := New().Resolve(stmts)
	return stmts, depths, resolveErrs
}

func TestResolveBlockLocalShadowsGlobal(t *testing.T) {
	_, depths, errs := resolveSource(t, `
var a = "global";
{
  var a = "block";
  print a;
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
	// exactly one Variable expression (the inner "a") should resolve to depth 0
	if len(depths) != 1 {
		t.Fatalf("expected exactly one local binding, got depths %v", depths)
	}
	found := false
	for _, d := range depths {
		if d == 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a local (depth 0) binding, got depths %v", depths)
	}
}

func TestResolveReturnOutsideFunctionIsError(t *testing.T) {
	_, _, errs := resolveSource(t, "return 1;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolveReturnValueFromInitializerIsError(t *testing.T) {
	_, _, errs := resolveSource(t, `
class Foo {
  init() {
    return 1;
  }
}
`)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolveThisOutsideClassIsError(t *testing.T) {
	_, _, errs := resolveSource(t, "print this;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolveSuperWithoutSuperclassIsError(t *testing.T) {
	_, _, errs := resolveSource(t, `
class A {
  greet() {
    super.greet();
  }
}
`)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolveSelfReferentialInitializerIsError(t *testing.T) {
	_, _, errs := resolveSource(t, `
var a = 1;
{
  var a = a;
}
`)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolveClassInheritingFromItselfIsError(t *testing.T) {
	_, _, errs := resolveSource(t, "class A < A {}")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolveDuplicateLocalDeclarationIsError(t *testing.T) {
	_, _, errs := resolveSource(t, `
{
  var a = 1;
  var a = 2;
}
`)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
}

func TestResolveValidSubclassSuperUsage(t *testing.T) {
	_, _, errs := resolveSource(t, `
class A {
  greet() { print "a"; }
}
class B < A {
  greet() {
    super.greet();
  }
}
`)
	if len(errs) != 0 {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
}
