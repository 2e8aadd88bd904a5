package stela

import (
	"github.com/kylelemons/godebug/pretty"

	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/lexer"
	"github.com/Flyclops/stela/internal/parser"
	"github.com/Flyclops/stela/internal/sema"
	"github.com/Flyclops/stela/internal/symtab"
	"github.com/Flyclops/stela/internal/token"
)

// Version identifies this frontend.
const Version = "v1"

// Result is everything Compile produces for one source file: the raw token
// stream (comments included, for DumpTokens), the parsed Program, the
// populated symbol table once analysis runs, and every diagnostic raised
// across all three phases, grouped by phase (lexing, then parsing, then
// semantic analysis), each phase's in the order it raised them.
type Result struct {
	Tokens []token.Token
	AST *ast.Program
	Table *symtab.Table
	Diags *diag.Bag
}

// Compile runs the full lex -> parse -> analyze pipeline over src (
// "Compilation Model": purely single-threaded, in-memory, synchronous).
// Every phase always produces its best-effort result even when diagnostics
// were raised ; the semantic
// analyzer only runs when parsing produced an AST at all.
func Compile(filename, src string) *Result {
	tokens, lexDiags := lexer.Lex(filename, src)

	all := &diag.Bag{}
	for _, d := range lexDiags.All() {
		all.Add(d)
	}

	prog, parseDiags := parser.Parse(filename, filterComments(tokens))
	for _, d := range parseDiags.All() {
		all.Add(d)
	}

	result := &Result{Tokens: tokens, AST: prog, Diags: all}
	if prog == nil {
		return result
	}

	sr := sema.Analyze(prog)
	result.Table = sr.Table
	for _, d := range sr.Diags.All() {
		all.Add(d)
	}
	return result
}

// filterComments drops standalone COMMENT tokens before the parser sees
// them : the lexer tokenizes them so the
// "tokens must exactly cover the input" invariant stays testable, but the
// grammar never has to account for them.
func filterComments(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind == token.COMMENT {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Must panics if r carries any Error-severity diagnostic, for straight-line
// call sites (tests, examples) that don't want to handle diagnostics
// explicitly.
func Must(r *Result) *Result {
	if r.Diags.HasErrors() {
		panic(r.Diags.All())
	}
	return r
}

// DumpTokens renders a token stream for debugging (permitted,
// unstandardized textual dump), using godebug/pretty rather than a
// hand-rolled recursive printer.
func DumpTokens(tokens []token.Token) string {
	return pretty.Sprint(tokens)
}

// DumpAST renders a parsed Program for debugging; same rationale as
// DumpTokens.
func DumpAST(prog *ast.Program) string {
	return pretty.Sprint(prog)
}
