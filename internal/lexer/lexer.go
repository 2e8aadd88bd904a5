// Package lexer turns UTF-8 source into the token stream internal/parser
// consumes, synthesizing INDENT/DEDENT tokens from significant
// indentation. It is a state-machine tokenizer: a sequence of
// stateFn values, each consuming some input and returning the next state,
// rather than one large scanToken switch. Stela's whole input is "code",
// so the state machine toggles between line-structure handling
// (indentation) and in-line token scanning, gated by bracket depth.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/token"
)

// eof is returned by next once the input is exhausted; -1 can't appear
// in valid UTF-8.
const eof = rune(-1)

type stateFn func(l *Lexer) stateFn

// Lexer is a single-use, single-threaded tokenizer (: "purely
// single-threaded, in-memory, synchronous"). Create one per compilation
// with Lex.
type Lexer struct {
	filename string
	src string

	start, pos int
	width int

	line, col int
	startLine, startCol int

	tokens []token.Token
	diags *diag.Bag

	indentStack []int
	atLineStart bool
	parenDepth int
	lineHasToken bool
}

// Lex tokenizes src and returns the full token stream (always ending in
// an EOF token) plus any diagnostics accumulated. The lexer never aborts
// early on a malformed lexeme: it reports and keeps going.
func Lex(filename, src string) ([]token.Token, *diag.Bag) {
	l := &Lexer{
		filename: filename,
		src: src,
		line: 1,
		col: 1,
		startLine: 1,
		startCol: 1,
		atLineStart: true,
		indentStack: []int{0},
		diags: &diag.Bag{},
		tokens: make([]token.Token, 0, len(src)/4+16),
	}
	l.run()
	return l.tokens, l.diags
}

func (l *Lexer) run() {
	for state := stateLineStart; state != nil; {
		state = state(l)
	}
}

// --- primitive cursor operations ---

func (l *Lexer) next() rune {
	if l.pos >= len(l.src) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.src[l.pos:])
	l.width = w
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) backup() {
	if l.width == 0 {
		return
	}
	l.pos -= l.width
	if l.src[l.pos] == '\n' {
		l.line--
		// column is now unknown without rescanning; peek, the only
		// caller, restores the saved line and column after backing up.
	} else {
		l.col--
	}
}

func (l *Lexer) peek() rune {
	line, col := l.line, l.col
	r := l.next()
	l.backup()
	l.line, l.col = line, col
	return r
}

func (l *Lexer) peekAt(offset int) rune {
	// offset is measured in bytes from pos; used only for fixed-width
	// ASCII lookahead (triple-quote detection, two-char operators).
	if l.pos+offset >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos+offset:])
	return r
}

func (l *Lexer) value() string {
	return l.src[l.start:l.pos]
}

func (l *Lexer) mark() {
	l.start = l.pos
	l.startLine = l.line
	l.startCol = l.col
}

func (l *Lexer) span() token.Span {
	return token.Span{Start: l.start, End: l.pos, Line: l.startLine, Col: l.startCol}
}

func (l *Lexer) emit(kind token.Kind, lit string) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Span: l.span(), Lit: lit})
	if kind != token.COMMENT {
		l.lineHasToken = true
	}
	l.mark()
}

func (l *Lexer) emitTok(t token.Token) {
	t.Span = l.span()
	l.tokens = append(l.tokens, t)
	l.lineHasToken = true
	l.mark()
}

func (l *Lexer) errorf(kind diag.Kind, format string, args ...any) {
	l.diags.Addf(kind, l.span(), format, args...)
}

// --- indentation ---

const tabWidth = 8

// stateLineStart computes the indentation of the next logical line,
// skipping blank lines and emitting a COMMENT token for each comment-only
// line (neither affects the indent stack), then hands off to stateCode for
// the line's content.
func stateLineStart(l *Lexer) stateFn {
	for {
		if l.parenDepth > 0 {
			// Inside brackets, newlines are whitespace; indentation is
			// not tracked at all.
			l.atLineStart = false
			return stateCode
		}

		width, blankOrComment := l.measureIndent()
		if l.peek() == eof {
			return stateEOF
		}
		if blankOrComment {
			if l.peek() == '#' {
				l.mark()
				l.skipToLineEnd()
				l.emit(token.COMMENT, strings.TrimSpace(l.value()))
			} else {
				l.skipToLineEnd()
			}
			if l.peek() == '\n' {
				l.next()
			}
			l.mark()
			continue
		}

		l.applyIndent(width)
		l.atLineStart = false
		l.lineHasToken = false
		return stateCode
	}
}

// measureIndent consumes leading whitespace on the current line (without
// consuming a trailing newline) and reports its tab-expanded width, and
// whether the line is blank or comment-only (neither triggers
// INDENT/DEDENT, 1).
func (l *Lexer) measureIndent() (width int, blankOrComment bool) {
	for {
		switch l.peek() {
		case ' ':
			l.next()
			width++
		case '\t':
			l.next()
			width += tabWidth - (width % tabWidth)
		default:
			goto done
		}
	}
	done:
	switch l.peek() {
	case '\n', eof:
		return width, true
	case '#':
		return width, true
	}
	return width, false
}

func (l *Lexer) skipToLineEnd() {
	for {
		r := l.peek()
		if r == '\n' || r == eof {
			return
		}
		l.next()
	}
}

// applyIndent pushes/pops the indent stack and emits INDENT/DEDENT
// tokens for the transition from the stack's current top to width.
func (l *Lexer) applyIndent(width int) {
	l.mark() // INDENT/DEDENT tokens carry the new line's start position
	top := l.indentStack[len(l.indentStack)-1]
	switch {
	case width == top:
		return
	case width > top:
		l.indentStack = append(l.indentStack, width)
		l.emit(token.INDENT, "")
	default:
		for len(l.indentStack) > 0 && l.indentStack[len(l.indentStack)-1] > width {
			l.indentStack = l.indentStack[:len(l.indentStack)-1]
			l.emit(token.DEDENT, "")
		}
		if l.indentStack[len(l.indentStack)-1] != width {
			l.errorf(diag.InconsistentIndentation,
				"unindent does not match any outer indentation level")
			// Recover by accepting this width as a new level so lexing
			// continues ("propagation policy": never abort).
			l.indentStack = append(l.indentStack, width)
		}
	}
}

func stateEOF(l *Lexer) stateFn {
	if l.lineHasToken {
		l.emit(token.NEWLINE, "")
	}
	for len(l.indentStack) > 1 {
		l.indentStack = l.indentStack[:len(l.indentStack)-1]
		l.emit(token.DEDENT, "")
	}
	l.emit(token.EOF, "")
	return nil
}

// --- in-line token scanning ---

func stateCode(l *Lexer) stateFn {
	for {
		r := l.peek()
		switch {
		case r == eof:
			return stateEOF
		case r == '\n':
			l.next()
			if l.parenDepth > 0 {
				l.mark()
				continue
			}
			if l.lineHasToken {
				l.emit(token.NEWLINE, "")
				l.lineHasToken = false
			} else {
				l.mark()
			}
			l.atLineStart = true
			return stateLineStart
		case r == ' ' || r == '\t' || r == '\r':
			l.next()
			l.mark()
			continue
		case r == '#':
			l.lexComment()
			continue
		case r == '"' || r == '\'':
			l.lexString("")
			continue
		case isIdentStart(r):
			l.lexIdentifierOrPrefixedString()
			continue
		case isDigit(r):
			l.lexNumber()
			continue
		case r == '.' && isDigit(l.peekAt(l.width)):
			l.next() // consume '.'
			l.lexNumber()
			continue
		default:
			if !l.lexOperatorOrDelim(r) {
				l.next()
				l.errorf(diag.InvalidCharacter, "unexpected character %q", r)
				l.mark()
			}
			continue
		}
	}
}

func (l *Lexer) lexComment() {
	standalone := !l.lineHasToken
	l.skipToLineEnd()
	if standalone {
		l.emit(token.COMMENT, strings.TrimSpace(l.value()))
	} else {
		l.mark()
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (l *Lexer) lexIdentifierOrPrefixedString() {
	l.next()
	for isIdentCont(l.peek()) {
		l.next()
	}
	val := l.value()
	if n := l.peek(); (n == '"' || n == '\'') && isStringPrefix(val) {
		l.lexString(val)
		return
	}
	if token.IsKeyword(val) {
		l.emit(token.KEYWORD, val)
	} else {
		l.emit(token.IDENT, val)
	}
}

func isStringPrefix(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	lower := strings.ToLower(s)
	switch lower {
	case "r", "b", "f", "rb", "br", "fr", "rf":
		return true
	}
	return false
}

// --- operators and delimiters (longest-match, 1) ---

// operatorSymbols is ordered longest-first so a greedy scan matches e.g.
// "**" before "*", "//" before "/", ":=" before ":".
var operatorSymbols = []string{
	"**=", "//=", "<<=", ">>=",
	"**", "//", "<<", ">>", "<=", ">=", "==", "!=", ":=", "->",
	"+=", "-=", "*=", "/=", "%=", "@=", "&=", "|=", "^=",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">", "=",
}

var delimiters = "()[]{},:;."

func (l *Lexer) lexOperatorOrDelim(r rune) bool {
	for _, sym := range operatorSymbols {
		if strings.HasPrefix(l.src[l.pos:], sym) {
			for range sym {
				l.next()
			}
			l.emit(token.OPERATOR, sym)
			return true
		}
	}
	if strings.ContainsRune(delimiters, r) {
		l.next()
		switch r {
		case '(', '[', '{':
			l.parenDepth++
		case ')', ']', '}':
			if l.parenDepth > 0 {
				l.parenDepth--
			}
		}
		l.emit(token.DELIM, string(r))
		return true
	}
	return false
}
