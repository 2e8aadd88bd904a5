package token_test

import (
	"testing"

	"github.com/Flyclops/stela/internal/token"
)

func TestSpanJoin(t *testing.T) {
	a := token.Span{Start: 0, End: 3, Line: 1, Col: 1}
	b := token.Span{Start: 10, End: 15, Line: 2, Col: 1}

	joined := a.Join(b)
	if joined.Start != 0 || joined.End != 15 {
		t.Fatalf("expected joined span [0,15), got [%d,%d)", joined.Start, joined.End)
	}

	// Joining with a zero-value span (no position recorded) is a no-op.
	if got := a.Join(token.Span{}); got != a {
		t.Fatalf("expected Join with zero span to return the receiver unchanged, got %v", got)
	}
}

func TestSpanContains(t *testing.T) {
	outer := token.Span{Start: 0, End: 20}
	inner := token.Span{Start: 5, End: 10}
	if !outer.Contains(inner) {
		t.Fatalf("expected outer to contain inner")
	}
	if inner.Contains(outer) {
		t.Fatalf("did not expect inner to contain outer")
	}
}

func TestIsKeyword(t *testing.T) {
	for _, kw := range token.Keywords {
		if !token.IsKeyword(kw) {
			t.Errorf("expected %q to be a keyword", kw)
		}
	}
	if token.IsKeyword("notakeyword") {
		t.Fatalf("did not expect notakeyword to be a keyword")
	}
}

func TestKindString(t *testing.T) {
	if token.IDENT.String() != "IDENT" {
		t.Fatalf("expected IDENT, got %s", token.IDENT.String())
	}
	if token.Kind(999).String() != "UNKNOWN" {
		t.Fatalf("expected UNKNOWN for an unregistered kind")
	}
}

func TestTokenString(t *testing.T) {
	tok := token.Token{Kind: token.IDENT, Lit: "x", Span: token.Span{Line: 1, Col: 1}}
	got := tok.String()
	want := `<IDENT "x" @1:1>`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
