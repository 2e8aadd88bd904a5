package lexer_test

import (
	"strings"
	"testing"

	"github.com/go-test/deep"

	"github.com/Flyclops/stela/internal/lexer"
	"github.com/Flyclops/stela/internal/token"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestLexSimpleAssignment(t *testing.T) {
	tokens, diags := lexer.Lex("t.st", "x = 1\n")
	if len(diags.All()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags.All())
	}
	want := []token.Kind{token.IDENT, token.OPERATOR, token.INT, token.NEWLINE, token.EOF}
	if diff := deep.Equal(kinds(tokens), want); diff != nil {
		t.Fatalf("unexpected token kinds: %v", diff)
	}
}

func TestLexIndentationProducesIndentDedent(t *testing.T) {
	tokens, diags := lexer.Lex("t.st", "if True:\n x = 1\ny = 2\n")
	if len(diags.All()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags.All())
	}
	var indents, dedents int
	for _, tok := range tokens {
		switch tok.Kind {
		case token.INDENT:
			indents++
		case token.DEDENT:
			dedents++
		}
	}
	if indents != 1 || dedents != 1 {
		t.Fatalf("expected 1 INDENT and 1 DEDENT, got %d/%d", indents, dedents)
	}
}

func TestLexIntegerLiteralValue(t *testing.T) {
	tokens, _ := lexer.Lex("t.st", "42\n")
	if tokens[0].Kind != token.INT || tokens[0].IntValue == nil || tokens[0].IntValue.Int64() != 42 {
		t.Fatalf("expected INT token with value 42, got %#v", tokens[0])
	}
}

func TestLexIntegerOverflowWidensAndReportsHumanizedWarning(t *testing.T) {
	tokens, diags := lexer.Lex("t.st", "99999999999999999999\n")
	if tokens[0].Kind != token.INT || tokens[0].IntValue == nil || tokens[0].IntValue.String() != "99999999999999999999" {
		t.Fatalf("expected the full-precision value to survive, got %#v", tokens[0])
	}
	found := false
	for _, d := range diags.All() {
		if d.Kind == "NumericOverflow" {
			found = true
			if !strings.Contains(d.Message, "99,999,999,999,999,999,999") {
				t.Fatalf("expected the overflow message to include the comma-grouped value, got %q", d.Message)
			}
		}
	}
	if !found {
		t.Fatalf("expected a NumericOverflow diagnostic, got %v", diags.All())
	}
}

func TestLexFloatLiteral(t *testing.T) {
	tokens, _ := lexer.Lex("t.st", "3.14\n")
	if tokens[0].Kind != token.FLOAT || tokens[0].FloatValue != 3.14 {
		t.Fatalf("expected FLOAT token with value 3.14, got %#v", tokens[0])
	}
}

func TestLexStringEscapes(t *testing.T) {
	tokens, diags := lexer.Lex("t.st", `"a\nb"`+"\n")
	if len(diags.All()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags.All())
	}
	if tokens[0].Kind != token.STRING || tokens[0].Lit != "a\nb" {
		t.Fatalf("expected decoded string \"a\\nb\", got %q", tokens[0].Lit)
	}
}

func TestLexUnterminatedStringReportsDiagnostic(t *testing.T) {
	_, diags := lexer.Lex("t.st", `"unterminated`+"\n")
	found := false
	for _, d := range diags.All() {
		if d.Kind == "UnterminatedString" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an UnterminatedString diagnostic, got %v", diags.All())
	}
}

func TestLexEmptySourceIsJustEOF(t *testing.T) {
	tokens, diags := lexer.Lex("t.st", "")
	if len(diags.All()) != 0 {
		t.Fatalf("expected no diagnostics for empty source")
	}
	if len(tokens) != 1 || tokens[0].Kind != token.EOF {
		t.Fatalf("expected a single EOF token, got %v", tokens)
	}
}

func TestLexBracketsSuppressNewlineSignificance(t *testing.T) {
	tokens, diags := lexer.Lex("t.st", "[\n 1,\n 2,\n]\n")
	if len(diags.All()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags.All())
	}
	for _, tok := range tokens {
		if tok.Kind == token.INDENT || tok.Kind == token.DEDENT {
			t.Fatalf("did not expect INDENT/DEDENT while inside brackets, got %v", kinds(tokens))
		}
	}
}
