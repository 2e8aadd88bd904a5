package parser_test

import (
	"testing"

	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/lexer"
	"github.com/Flyclops/stela/internal/parser"
	"github.com/Flyclops/stela/internal/token"
)

func parse(t *testing.T, src string) (*ast.Program, *diag.Bag) {
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
	return parser.Parse("t.st", filtered)
}

func TestParseFunctionDef(t *testing.T) {
	prog, diags := parse(t, "def add(x: int, y: int) -> int:\n return x + y\n")
	if len(diags.All()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags.All())
	}
	if len(prog.Body) != 1 {
		t.Fatalf("expected one top-level statement, got %d", len(prog.Body))
	}
	fn, ok := prog.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("expected *ast.FunctionDef, got %T", prog.Body[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("expected add(x, y), got %#v", fn)
	}
	ret, ok := fn.Returns.(*ast.TypeName)
	if !ok || ret.Name != "int" {
		t.Fatalf("expected return annotation int, got %#v", fn.Returns)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected one body statement, got %d", len(fn.Body))
	}
	retStmt, ok := fn.Body[0].(*ast.Return)
	if !ok {
		t.Fatalf("expected *ast.Return, got %T", fn.Body[0])
	}
	bin, ok := retStmt.Value.(*ast.Binary)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("expected x + y, got %#v", retStmt.Value)
	}
}

func TestParseIfElif(t *testing.T) {
	prog, diags := parse(t, "if a:\n x = 1\nelif b:\n x = 2\nelse:\n x = 3\n")
	if len(diags.All()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags.All())
	}
	outer, ok := prog.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", prog.Body[0])
	}
	if len(outer.Orelse) != 1 {
		t.Fatalf("expected the elif to desugar into a single nested If in Orelse")
	}
	if _, ok := outer.Orelse[0].(*ast.If); !ok {
		t.Fatalf("expected elif to desugar to *ast.If, got %T", outer.Orelse[0])
	}
}

func TestParseListComprehension(t *testing.T) {
	prog, diags := parse(t, "xs = [y for y in ys if y]\n")
	if len(diags.All()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags.All())
	}
	assign, ok := prog.Body[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", prog.Body[0])
	}
	comp, ok := assign.Value.(*ast.ListComp)
	if !ok {
		t.Fatalf("expected *ast.ListComp, got %T", assign.Value)
	}
	if len(comp.Generators) != 1 || len(comp.Generators[0].Ifs) != 1 {
		t.Fatalf("expected one generator with one if-guard, got %#v", comp.Generators)
	}
}

func TestParseMatchStatement(t *testing.T) {
	src := "match p:\n case Point(x=0, y=0):\n  pass\n case _:\n  pass\n"
	prog, diags := parse(t, src)
	if len(diags.All()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags.All())
	}
	m, ok := prog.Body[0].(*ast.Match)
	if !ok {
		t.Fatalf("expected *ast.Match, got %T", prog.Body[0])
	}
	if len(m.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(m.Cases))
	}
	cls, ok := m.Cases[0].Pattern.(*ast.PatternClass)
	if !ok || cls.ClassName != "Point" {
		t.Fatalf("expected a Point(...) class pattern, got %#v", m.Cases[0].Pattern)
	}
	if _, ok := m.Cases[1].Pattern.(*ast.PatternWildcard); !ok {
		t.Fatalf("expected the second case to be the wildcard pattern, got %#v", m.Cases[1].Pattern)
	}
}

func TestParseInvalidAssignmentTargetReportsDiagnostic(t *testing.T) {
	_, diags := parse(t, "1 = 2\n")
	found := false
	for _, d := range diags.All() {
		if d.Kind == diag.InvalidAssignmentTarget {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an InvalidAssignmentTarget diagnostic, got %v", diags.All())
	}
}

func TestSpanCoversWholeProgram(t *testing.T) {
	prog, _ := parse(t, "x = 1\n")
	if prog.Span().Start != 0 {
		t.Fatalf("expected program span to start at 0, got %d", prog.Span().Start)
	}
}
