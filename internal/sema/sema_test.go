package sema_test

import (
	"testing"

	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/lexer"
	"github.com/Flyclops/stela/internal/parser"
	"github.com/Flyclops/stela/internal/sema"
	"github.com/Flyclops/stela/internal/token"
	"github.com/Flyclops/stela/internal/types"
)

func analyze(t *testing.T, src string) *sema.Result {
	t.Helper()
	tokens, lexDiags := lexer.Lex("t.st", src)
	if len(lexDiags.All()) != 0 {
		t.Fatalf("unexpected lexer diagnostics: %v", lexDiags.All())
	}
	filtered := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind != token.COMMENT {
			filtered = append(filtered, tok)
		}
	}
	prog, parseDiags := parser.Parse("t.st", filtered)
	if len(parseDiags.All()) != 0 {
		t.Fatalf("unexpected parser diagnostics: %v", parseDiags.All())
	}
	return sema.Analyze(prog)
}

func kindCounts(result *sema.Result) map[diag.Kind]int {
	counts := map[diag.Kind]int{}
	for _, d := range result.Diags.All() {
		counts[d.Kind]++
	}
	return counts
}

func TestForwardReferenceResolved(t *testing.T) {
	result := analyze(t, "def a():\n return b()\ndef b():\n return 1\n")
	if len(result.Diags.All()) != 0 {
		t.Fatalf("expected zero diagnostics, got %v", result.Diags.All())
	}
}

func TestUndefinedNameReported(t *testing.T) {
	result := analyze(t, "def f(x):\n return x + y\n")
	counts := kindCounts(result)
	if counts[diag.UndefinedName] != 1 {
		t.Fatalf("expected exactly one UndefinedName, got %v", counts)
	}
}

func TestAssignmentTypeMismatch(t *testing.T) {
	result := analyze(t, "x: int = \"hello\"\n")
	counts := kindCounts(result)
	if counts[diag.AssignmentTypeMismatch] != 1 {
		t.Fatalf("expected exactly one AssignmentTypeMismatch, got %v", counts)
	}
}

func TestIntWidensToFloatOnAssignment(t *testing.T) {
	result := analyze(t, "x: float = 1\n")
	if len(result.Diags.All()) != 0 {
		t.Fatalf("expected int->float widening to be accepted, got %v", result.Diags.All())
	}
}

func TestMissingReturnOnSomePath(t *testing.T) {
	result := analyze(t, "def g(x) -> int:\n if x > 0:\n  return 1\n")
	counts := kindCounts(result)
	if counts[diag.MissingReturn] != 1 {
		t.Fatalf("expected exactly one MissingReturn, got %v", counts)
	}
}

func TestUnreachableCodeAfterReturn(t *testing.T) {
	result := analyze(t, "def h():\n return 1\n print(\"dead\")\n")
	counts := kindCounts(result)
	if counts[diag.UnreachableCode] != 1 {
		t.Fatalf("expected exactly one UnreachableCode, got %v", counts)
	}
}

func TestUnusedVariableWarning(t *testing.T) {
	result := analyze(t, "def f():\n x = 1\n")
	counts := kindCounts(result)
	if counts[diag.UnusedVariable] != 1 {
		t.Fatalf("expected exactly one UnusedVariable, got %v", counts)
	}
}

func TestUninitializedVariableUse(t *testing.T) {
	result := analyze(t, "def f():\n x: int\n return x\n")
	counts := kindCounts(result)
	if counts[diag.UninitializedVariable] != 1 {
		t.Fatalf("expected exactly one UninitializedVariable, got %v", counts)
	}
}

func TestInferredExpressionTypes(t *testing.T) {
	tokens, _ := lexer.Lex("t.st", "1 + 2\n")
	filtered := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind != token.COMMENT {
			filtered = append(filtered, tok)
		}
	}
	prog, _ := parser.Parse("t.st", filtered)
	result := sema.Analyze(prog)

	exprStmt, ok := prog.Body[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", prog.Body[0])
	}
	got := result.Types[exprStmt.Value]
	if got == nil || got.Kind != types.Int {
		t.Fatalf("expected 1 + 2 to infer to int, got %v", got)
	}
}
