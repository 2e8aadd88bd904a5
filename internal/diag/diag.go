// Package diag implements diagnostics as values: every lexical, syntactic,
// resolution, type and flow violation is collected into an ordered Bag
// rather than raised as an exception, generalizing a single Error type
// into an enumerated-kind diagnostic list.
package diag

import (
	"fmt"

	"github.com/Flyclops/stela/internal/token"
)

// Severity is Error or Warning.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Kind enumerates every diagnostic kind the frontend can raise, grouped by
// the phase that produces it.
type Kind string

const (
	// Lexical
	InvalidCharacter Kind = "InvalidCharacter"
	UnterminatedString Kind = "UnterminatedString"
	InvalidEscape Kind = "InvalidEscape"
	InvalidNumericLiteral Kind = "InvalidNumericLiteral"
	NumericOverflow Kind = "NumericOverflow"
	InconsistentIndentation Kind = "InconsistentIndentation"
	InvalidFString Kind = "InvalidFString"
	NonAsciiByteString Kind = "NonAsciiByteString"

	// Syntactic
	UnexpectedToken Kind = "UnexpectedToken"
	UnexpectedEndOfInput Kind = "UnexpectedEndOfInput"
	MissingDelimiter Kind = "MissingDelimiter"
	ExpectedExpression Kind = "ExpectedExpression"
	InvalidAssignmentTarget Kind = "InvalidAssignmentTarget"
	PositionalAfterKeyword Kind = "PositionalAfterKeyword"
	DuplicateKeywordArgument Kind = "DuplicateKeywordArgument"
	NonDefaultParamAfterDefault Kind = "NonDefaultParamAfterDefault"
	MultipleVarArgs Kind = "MultipleVarArgs"
	InvalidPattern Kind = "InvalidPattern"
	EmptyBlock Kind = "EmptyBlock"
	BareStarWithoutKeywordParams Kind = "BareStarWithoutKeywordParams"
	InvalidSyntax Kind = "InvalidSyntax"

	// Resolution
	UndefinedName Kind = "UndefinedName"
	Redefinition Kind = "Redefinition"
	ContextViolation Kind = "ContextViolation"
	InvalidGlobalOrNonlocal Kind = "InvalidGlobalOrNonlocal"

	// Type
	AssignmentTypeMismatch Kind = "AssignmentTypeMismatch"
	ArgumentTypeMismatch Kind = "ArgumentTypeMismatch"
	ArgumentCountMismatch Kind = "ArgumentCountMismatch"
	ReturnTypeMismatch Kind = "ReturnTypeMismatch"
	InvalidOperationForTypes Kind = "InvalidOperationForTypes"
	InvalidSubscriptIndex Kind = "InvalidSubscriptIndex"
	MissingReturn Kind = "MissingReturn"

	// Flow
	UnreachableCode Kind = "UnreachableCode"
	UninitializedVariable Kind = "UninitializedVariable"
	UnusedVariable Kind = "UnusedVariable"
	UnusedFunction Kind = "UnusedFunction"
)

// defaultSeverity is consulted by New when the caller doesn't care to
// override it; a handful of kinds are Warnings by default per
var defaultSeverity = map[Kind]Severity{
	NumericOverflow: Warning,
	UnreachableCode: Warning,
	UnusedVariable: Warning,
	UnusedFunction: Warning,
}

func severityFor(k Kind) Severity {
	if s, ok := defaultSeverity[k]; ok {
		return s
	}
	return Error
}

// Diagnostic is a single reported violation.
type Diagnostic struct {
	Severity Severity
	Kind Kind
	Span token.Span
	Message string
}

// New builds a Diagnostic, defaulting its severity from Kind.
func New(kind Kind, span token.Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: severityFor(kind),
		Kind: kind,
		Span: span,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewWithSeverity builds a Diagnostic overriding the kind's default
// severity, for the handful of cases (e.g. an unresolvable \N{name}
// escape, 1) where the same Kind is informational in context.
func NewWithSeverity(sev Severity, kind Kind, span token.Span, format string, args ...any) Diagnostic {
	d := New(kind, span, format, args...)
	d.Severity = sev
	return d
}

// String renders the user-visible form from :
// "<severity>: <kind>: <message>" plus file:line:col.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s (%s)", d.Severity, d.Kind, d.Message, d.Span)
}

// Bag accumulates diagnostics in traversal order: collected in source
// order but never deduplicated or reordered beyond insertion order.
type Bag struct {
	items []Diagnostic
}

// Add appends d to the bag.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Addf is a convenience constructing-and-appending helper.
func (b *Bag) Addf(kind Kind, span token.Span, format string, args ...any) {
	b.Add(New(kind, span, format, args...))
}

// All returns the diagnostics in insertion order.
func (b *Bag) All() []Diagnostic {
	return b.items
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
// A run fails only if this is true; warnings never fail a run.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len reports how many diagnostics have accumulated.
func (b *Bag) Len() int {
	return len(b.items)
}
