// Package token defines the lexical vocabulary shared by the lexer, parser
// and analyzer: source spans, token kinds and the keyword table.
package token

import (
	"fmt"
	"math/big"
)

// Span locates a token or AST node in the original source: a byte range
// plus the 1-based line/column of its first byte. Every diagnostic is
// anchored to a Span.
type Span struct {
	Start, End int // byte offsets into the source, End exclusive
	Line, Col int // 1-based position of Start
}

// Contains reports whether s lies entirely within other, the invariant
// every AST node must satisfy with respect to its parent.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	if other.Start == 0 && other.End == 0 && other.Line == 0 {
		return s
	}
	start, end := s, other
	if other.Start < s.Start {
		start, end = other, s
	}
	j := start
	if end.End > j.End {
		j.End = end.End
	}
	return j
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Col)
}

// Kind classifies a Token. Kinds group by the families enumerated in
// : keywords, identifiers, literals, operators, delimiters, and the
// structural tokens (newline/indent/dedent/eof/comment).
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	NEWLINE
	INDENT
	DEDENT
	COMMENT

	IDENT
	KEYWORD

	INT
	FLOAT
	STRING
	BYTES
	FSTRING

	OPERATOR
	DELIM
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF: "EOF",
	NEWLINE: "NEWLINE",
	INDENT: "INDENT",
	DEDENT: "DEDENT",
	COMMENT: "COMMENT",
	IDENT: "IDENT",
	KEYWORD: "KEYWORD",
	INT: "INT",
	FLOAT: "FLOAT",
	STRING: "STRING",
	BYTES: "BYTES",
	FSTRING: "FSTRING",
	OPERATOR: "OPERATOR",
	DELIM: "DELIM",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// Keywords is the 37-word reserved set from Order is irrelevant;
// keywordSet below is what the lexer actually consults.
var Keywords = []string{
	"def", "class", "if", "elif", "else", "while", "for", "break", "continue",
	"return", "pass", "import", "from", "as", "with", "try", "except",
	"finally", "raise", "assert", "match", "case", "lambda", "yield",
	"async", "await", "global", "nonlocal", "del", "in", "is", "not", "and",
	"or", "True", "False", "None",
}

var keywordSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Keywords))
	for _, k := range Keywords {
		m[k] = struct{}{}
	}
	return m
}()

// IsKeyword reports whether s is one of the 37 reserved words.
func IsKeyword(s string) bool {
	_, ok := keywordSet[s]
	return ok
}

// FStringPartKind distinguishes literal text from an embedded expression
// inside an f-string payload.
type FStringPartKind int

const (
	FSLiteral FStringPartKind = iota
	FSExpr
)

// FStringPart is one piece of an f-string's payload: either literal text
// or the source text of an embedded expression (plus an optional format
// spec source), re-tokenized/parsed on demand during AST construction.
type FStringPart struct {
	Kind FStringPartKind
	Text string // decoded literal text, when Kind == FSLiteral
	ExprSource string // source of the embedded expression, when Kind == FSExpr
	FormatSpecSource string // optional format-spec source
	Span Span
}

// Token is a single lexical element: a tagged record of kind, span and
// payload.
type Token struct {
	Kind Kind
	Span Span

	// Lit is the token's textual payload: the operator/delimiter symbol,
	// the identifier or keyword name, or the decoded string content.
	Lit string

	// Numeric literal payload. IntValue is populated for every well-formed
	// INT token and is nil for a malformed one (which the lexer reports as
	// InvalidNumericLiteral); big.Int absorbs arbitrary magnitude so overflow is a lexer-level
	// diagnostic, not a data-loss event).
	IntValue *big.Int
	FloatValue float64

	// StringPrefix records which of r/R/b/B/f/F (in any combination) the
	// decoding applied, lower-cased but kept in source order (e.g. "rb" or
	// "br").
	StringPrefix string
	IsTriple bool

	// FStringParts is populated only for FSTRING tokens.
	FStringParts []FStringPart

	// Synthetic marks a token fabricated rather than scanned from source.
	// No lexer path sets it, so every token Lex returns has it false.
	Synthetic bool
}

func (t Token) String() string {
	lit := t.Lit
	if len(lit) > 60 {
		lit = lit[:57] + "..."
	}
	return fmt.Sprintf("<%s %q @%s>", t.Kind, lit, t.Span)
}
