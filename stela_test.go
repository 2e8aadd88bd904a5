package stela_test

import (
	"testing"

	"github.com/Flyclops/stela"
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/token"
)

func kindCounts(t *testing.T, result *stela.Result) map[diag.Kind]int {
	t.Helper()
	counts := map[diag.Kind]int{}
	for _, d := range result.Diags.All() {
		counts[d.Kind]++
	}
	return counts
}

// Scenario 1: assignment type mismatch.
func TestCompile_AssignmentTypeMismatch(t *testing.T) {
	src := "x: int = \"hello\"\n"
	result := stela.Compile("t.st", src)

	counts := kindCounts(t, result)
	if counts[diag.AssignmentTypeMismatch] != 1 {
		t.Fatalf("expected exactly one AssignmentTypeMismatch, got %v", counts)
	}

	if len(result.AST.Body) != 1 {
		t.Fatalf("expected one top-level statement, got %d", len(result.AST.Body))
	}
	assign, ok := result.AST.Body[0].(*ast.AnnAssign)
	if !ok {
		t.Fatalf("expected *ast.AnnAssign, got %T", result.AST.Body[0])
	}
	target, ok := assign.Target.(*ast.Identifier)
	if !ok || target.Name != "x" {
		t.Fatalf("expected target identifier x, got %#v", assign.Target)
	}
	annot, ok := assign.Annotation.(*ast.TypeName)
	if !ok || annot.Name != "int" {
		t.Fatalf("expected annotation int, got %#v", assign.Annotation)
	}
	value, ok := assign.Value.(*ast.Literal)
	if !ok || value.Kind != ast.LitStr || value.Str != "hello" {
		t.Fatalf("expected string literal \"hello\", got %#v", assign.Value)
	}
}

// Scenario 2: undefined name in a function body.
func TestCompile_UndefinedName(t *testing.T) {
	src := "def f(x):\n return x + y\n"
	result := stela.Compile("t.st", src)

	counts := kindCounts(t, result)
	if counts[diag.UndefinedName] != 1 {
		t.Fatalf("expected exactly one UndefinedName, got %v", counts)
	}
}

// Scenario 3: forward reference resolved by the pre-pass.
func TestCompile_ForwardReference(t *testing.T) {
	src := "def a():\n return b()\ndef b():\n return 1\n"
	result := stela.Compile("t.st", src)

	if len(result.Diags.All()) != 0 {
		t.Fatalf("expected zero diagnostics, got %v", result.Diags.All())
	}
}

// Scenario 4: indentation and block parsing.
func TestCompile_IndentationAndBlocks(t *testing.T) {
	src := "if True:\n x = 1\n if False:\n  y = 2\n z = 3\n"
	result := stela.Compile("t.st", src)

	if len(result.Diags.All()) != 0 {
		t.Fatalf("expected zero diagnostics, got %v", result.Diags.All())
	}

	indents, dedents := 0, 0
	for _, tok := range result.Tokens {
		switch tok.Kind {
		case token.INDENT:
			indents++
		case token.DEDENT:
			dedents++
		}
	}
	if indents != 2 || dedents != 2 {
		t.Fatalf("expected 2 INDENT and 2 DEDENT tokens, got %d/%d", indents, dedents)
	}

	if len(result.AST.Body) != 1 {
		t.Fatalf("expected one top-level statement, got %d", len(result.AST.Body))
	}
	outer, ok := result.AST.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", result.AST.Body[0])
	}
	if len(outer.Body) != 3 {
		t.Fatalf("expected outer If body to have 3 statements, got %d", len(outer.Body))
	}
	if _, ok := outer.Body[1].(*ast.If); !ok {
		t.Fatalf("expected second statement to be a nested If, got %T", outer.Body[1])
	}
}

// Scenario 5: missing return on some path.
func TestCompile_MissingReturn(t *testing.T) {
	src := "def g(x) -> int:\n if x > 0:\n  return 1\n"
	result := stela.Compile("t.st", src)

	counts := kindCounts(t, result)
	if counts[diag.MissingReturn] != 1 {
		t.Fatalf("expected exactly one MissingReturn, got %v", counts)
	}
}

// Scenario 6: unreachable code after an unconditional return (
// scenario 6).
func TestCompile_UnreachableAfterReturn(t *testing.T) {
	src := "def h():\n return 1\n print(\"dead\")\n"
	result := stela.Compile("t.st", src)

	counts := kindCounts(t, result)
	if counts[diag.UnreachableCode] != 1 {
		t.Fatalf("expected exactly one UnreachableCode, got %v", counts)
	}
}

func TestCompile_EmptySource(t *testing.T) {
	result := stela.Compile("t.st", "")

	if len(result.Diags.All()) != 0 {
		t.Fatalf("expected zero diagnostics for empty source, got %v", result.Diags.All())
	}
	if len(result.Tokens) != 1 || result.Tokens[0].Kind != token.EOF {
		t.Fatalf("expected a single EOF token, got %v", result.Tokens)
	}
	if result.AST == nil || len(result.AST.Body) != 0 {
		t.Fatalf("expected an empty Program, got %#v", result.AST)
	}
}
