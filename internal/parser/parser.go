// Package parser implements a Pratt/precedence-climbing recursive descent
// parser: token stream in, Program + diagnostics out, deterministic and
// single-pass with only the lookahead each production needs (typically one
// token, occasionally two).
//
// The token-cursor helpers (Current/peekN/match/expect) follow a plain
// "index into a token slice, Consume/Match/Peek" shape; the statement and
// expression grammars built on top of them cover a full statement
// language.
package parser

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/token"
)

// Parser walks a filtered token stream (standalone comments already
// stripped by the caller, per the comment-handling choice)
// and builds an ast.Program.
type Parser struct {
	filename string
	tokens []token.Token
	idx int
	diags *diag.Bag
}

// Parse tokenizes-then-parses is split across packages: this function
// takes an already-lexed, comment-filtered token slice.
func Parse(filename string, tokens []token.Token) (*ast.Program, *diag.Bag) {
	p := &Parser{filename: filename, tokens: tokens, diags: &diag.Bag{}}
	prog := p.parseProgram()
	return prog, p.diags
}

// base wraps a span in the embeddable ast.Base every concrete node carries.
func base(sp token.Span) ast.Base {
	return ast.Base{Sp: sp}
}

// --- token cursor ---

func (p *Parser) Current() *token.Token {
	return p.get(p.idx)
}

func (p *Parser) get(i int) *token.Token {
	if i < 0 || i >= len(p.tokens) {
		return nil
	}
	return &p.tokens[i]
}

func (p *Parser) peekN(n int) *token.Token {
	return p.get(p.idx + n)
}

func (p *Parser) consume() *token.Token {
	t := p.Current()
	if t != nil {
		p.idx++
	}
	return t
}

func (p *Parser) at(kind token.Kind) bool {
	t := p.Current()
	return t != nil && t.Kind == kind
}

func (p *Parser) atLit(kind token.Kind, lit string) bool {
	t := p.Current()
	return t != nil && t.Kind == kind && t.Lit == lit
}

func (p *Parser) atKeyword(word string) bool {
	return p.atLit(token.KEYWORD, word)
}

func (p *Parser) atOp(sym string) bool {
	return p.atLit(token.OPERATOR, sym) || p.atLit(token.DELIM, sym)
}

func (p *Parser) atAnyKeyword(words ...string) bool {
	for _, w := range words {
		if p.atKeyword(w) {
			return true
		}
	}
	return false
}

func (p *Parser) atAnyOp(syms ...string) bool {
	for _, s := range syms {
		if p.atOp(s) {
			return true
		}
	}
	return false
}

// match consumes and returns the current token if it matches, else nil.
func (p *Parser) match(kind token.Kind, lit string) *token.Token {
	if p.atLit(kind, lit) {
		return p.consume()
	}
	return nil
}

func (p *Parser) matchKeyword(word string) bool {
	return p.match(token.KEYWORD, word) != nil
}

func (p *Parser) matchOp(sym string) bool {
	return p.match(token.OPERATOR, sym) != nil || p.match(token.DELIM, sym) != nil
}

func (p *Parser) matchAnyOp(syms ...string) (string, bool) {
	for _, s := range syms {
		if p.matchOp(s) {
			return s, true
		}
	}
	return "", false
}

// expect consumes and returns the current token, reporting
// UnexpectedToken/UnexpectedEndOfInput if it doesn't match.
func (p *Parser) expect(kind token.Kind, lit string) *token.Token {
	if t := p.match(kind, lit); t != nil {
		return t
	}
	p.errorHere(diag.UnexpectedToken, "expected %q", lit)
	return nil
}

func (p *Parser) expectKind(kind token.Kind, what string) *token.Token {
	if p.at(kind) {
		return p.consume()
	}
	p.errorHere(diag.UnexpectedToken, "expected %s", what)
	return nil
}

func (p *Parser) here() token.Span {
	if t := p.Current(); t != nil {
		return t.Span
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].Span
	}
	return token.Span{}
}

// parseName expects a bare identifier, e.g. a def/class/parameter name.
func (p *Parser) parseName() (string, token.Span, bool) {
	t := p.expectKind(token.IDENT, "identifier")
	if t == nil {
		return "", p.here(), false
	}
	return t.Lit, t.Span, true
}

func (p *Parser) errorHere(kind diag.Kind, format string, args ...any) {
	if p.Current() == nil {
		p.diags.Addf(diag.UnexpectedEndOfInput, p.here(), "unexpected end of input")
		return
	}
	p.diags.Addf(kind, p.here(), format, args...)
}

// sync advances past tokens until a statement boundary (NEWLINE at
// bracket depth zero, which the lexer has already guaranteed by only
// emitting NEWLINE outside brackets) so one syntax error doesn't cascade
// into spurious follow-on errors.
func (p *Parser) sync() {
	for {
		t := p.Current()
		if t == nil || t.Kind == token.EOF {
			return
		}
		if t.Kind == token.NEWLINE || t.Kind == token.DEDENT {
			return
		}
		p.consume()
	}
}

// skipNewlines consumes any number of stray NEWLINE tokens, used between
// top-level statements and at the start of a block.
func (p *Parser) skipNewlines() {
	for p.at(token.NEWLINE) {
		p.consume()
	}
}

// --- program / blocks ---

func (p *Parser) parseProgram() *ast.Program {
	start := p.here()
	var body []ast.Stmt
	p.skipNewlines()
	for !p.at(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		}
		p.skipNewlines()
	}
	end := p.here()
	sp := token.Span{Start: start.Start, End: end.End, Line: start.Line, Col: start.Col}
	return &ast.Program{Base: ast.Base{Sp: sp}, Body: body}
}

// parseBlock parses the suite following a ':': an inline simple-statement
// sequence, or NEWLINE INDENT stmt+ DEDENT.
func (p *Parser) parseBlock() []ast.Stmt {
	if p.at(token.NEWLINE) {
		p.consume()
		if p.expectKind(token.INDENT, "indented block") == nil {
			return nil
		}
		var stmts []ast.Stmt
		p.skipNewlines()
		for !p.at(token.DEDENT) && !p.at(token.EOF) {
			s := p.parseStatement()
			if s != nil {
				stmts = append(stmts, s)
			}
			p.skipNewlines()
		}
		if len(stmts) == 0 {
			p.errorHere(diag.EmptyBlock, "block has no statements")
		}
		p.expectKind(token.DEDENT, "dedent")
		return stmts
	}
	return p.parseSimpleStmtLine()
}

// parseSimpleStmtLine parses one or more ';'-separated simple statements
// on the current line, e.g. `if x: return 0`.
func (p *Parser) parseSimpleStmtLine() []ast.Stmt {
	var stmts []ast.Stmt
	for {
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		}
		if p.matchOp(";") {
			if p.at(token.NEWLINE) || p.at(token.EOF) {
				break
			}
			continue
		}
		break
	}
	if len(stmts) == 0 {
		p.errorHere(diag.EmptyBlock, "block has no statements")
	}
	if p.at(token.NEWLINE) {
		p.consume()
	}
	return stmts
}
