package diag_test

import (
	"strings"
	"testing"

	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/token"
)

func TestNewDefaultSeverity(t *testing.T) {
	d := diag.New(diag.UndefinedName, token.Span{}, "name %q is not defined", "x")
	if d.Severity != diag.Error {
		t.Fatalf("expected UndefinedName to default to Error severity")
	}

	w := diag.New(diag.UnreachableCode, token.Span{}, "unreachable code")
	if w.Severity != diag.Warning {
		t.Fatalf("expected UnreachableCode to default to Warning severity")
	}
}

func TestNewWithSeverityOverride(t *testing.T) {
	d := diag.NewWithSeverity(diag.Warning, diag.UndefinedName, token.Span{}, "x")
	if d.Severity != diag.Warning {
		t.Fatalf("expected explicit override to stick")
	}
}

func TestBagHasErrors(t *testing.T) {
	var b diag.Bag
	b.Addf(diag.UnreachableCode, token.Span{}, "unreachable")
	if b.HasErrors() {
		t.Fatalf("a bag with only warnings should not report HasErrors")
	}
	b.Addf(diag.UndefinedName, token.Span{}, "boom")
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors once an Error-severity diagnostic is added")
	}
}

func TestBagOrderPreserved(t *testing.T) {
	var b diag.Bag
	b.Addf(diag.UndefinedName, token.Span{}, "first")
	b.Addf(diag.Redefinition, token.Span{}, "second")
	all := b.All()
	if len(all) != 2 || all[0].Kind != diag.UndefinedName || all[1].Kind != diag.Redefinition {
		t.Fatalf("expected insertion order preserved, got %v", all)
	}
}

func TestDiagnosticString(t *testing.T) {
	d := diag.New(diag.UndefinedName, token.Span{Line: 3, Col: 5}, "name %q is not defined", "y")
	s := d.String()
	if !strings.Contains(s, "UndefinedName") || !strings.Contains(s, "3:5") {
		t.Fatalf("expected rendered diagnostic to include kind and span, got %q", s)
	}
}

func TestBagLen(t *testing.T) {
	var b diag.Bag
	for i := 0; i < 1234; i++ {
		b.Addf(diag.UndefinedName, token.Span{}, "n%d", i)
	}
	if got, want := b.Len(), 1234; got != want {
		t.Fatalf("expected %d diagnostics, got %d", want, got)
	}
}
