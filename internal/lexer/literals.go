package lexer

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/token"
)

// --- numeric literals ---

func (l *Lexer) lexNumber() {
	base := 10
	digits := "0123456789"
	sawPrefix := false

	if l.value() == "." {
		// already consumed the leading '.', fall straight into the
		// fractional-digits path below.
		l.lexFloatTail(true)
		return
	}

	if l.peek() == '0' {
		l.next()
		switch l.peek() {
		case 'b', 'B':
			l.next()
			base, digits, sawPrefix = 2, "01", true
		case 'o', 'O':
			l.next()
			base, digits, sawPrefix = 8, "01234567", true
		case 'x', 'X':
			l.next()
			base, digits, sawPrefix = 16, "0123456789abcdefABCDEF", true
		}
	} else {
		l.next()
	}

	l.acceptDigitRun(digits)

	if !sawPrefix && base == 10 {
		if l.peek() == '.' {
			l.next()
			l.lexFloatTail(false)
			return
		}
		if l.peek() == 'e' || l.peek() == 'E' {
			l.lexExponent()
			return
		}
	}

	raw := l.value()
	clean := stripUnderscores(raw)
	var prefixLen int
	if sawPrefix {
		prefixLen = 2
	}
	digitsOnly := clean[prefixLen:]
	if digitsOnly == "" || !validUnderscores(raw) {
		l.errorf(diag.InvalidNumericLiteral, "malformed numeric literal %q", raw)
		l.emit(token.INT, raw)
		return
	}

	iv, ok := new(big.Int).SetString(digitsOnly, base)
	if !ok {
		l.errorf(diag.InvalidNumericLiteral, "malformed numeric literal %q", raw)
		l.emit(token.INT, raw)
		return
	}
	if !iv.IsInt64() {
		l.errorf(diag.NumericOverflow, "integer literal %q overflows a 64-bit int (value %s), widened to an arbitrary-precision value", raw, humanize.BigComma(iv))
	}
	l.emitTok(token.Token{Kind: token.INT, Lit: raw, IntValue: iv})
}

// acceptDigitRun consumes digits and single separating underscores from
// the given digit alphabet; underscore validity is rechecked afterward by
// validUnderscores so this just needs to not stop early.
func (l *Lexer) acceptDigitRun(digits string) {
	for {
		r := l.peek()
		if strings.ContainsRune(digits, r) || r == '_' {
			l.next()
			continue
		}
		break
	}
}

// lexFloatTail handles the fractional part after a consumed '.', for
// both "DIGITS.DIGITS?" and ".DIGITS" forms.
func (l *Lexer) lexFloatTail(leadingDot bool) {
	if leadingDot && !isDigit(l.peek()) {
		l.errorf(diag.InvalidNumericLiteral, "malformed number %q", l.value())
		l.emit(token.FLOAT, l.value())
		return
	}
	l.acceptDigitRun("0123456789")
	if l.peek() == 'e' || l.peek() == 'E' {
		l.lexExponent()
		return
	}
	l.finishFloat()
}

func (l *Lexer) lexExponent() {
	l.next() // e/E
	if l.peek() == '+' || l.peek() == '-' {
		l.next()
	}
	if !isDigit(l.peek()) {
		l.errorf(diag.InvalidNumericLiteral, "malformed exponent in %q", l.value())
		l.emit(token.FLOAT, l.value())
		return
	}
	l.acceptDigitRun("0123456789")
	l.finishFloat()
}

func (l *Lexer) finishFloat() {
	raw := l.value()
	clean := stripUnderscores(raw)
	if !validUnderscores(raw) {
		l.errorf(diag.InvalidNumericLiteral, "malformed numeric literal %q", raw)
	}
	fv, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		l.errorf(diag.InvalidNumericLiteral, "malformed float literal %q", raw)
	}
	l.emitTok(token.Token{Kind: token.FLOAT, Lit: raw, FloatValue: fv})
}

func stripUnderscores(s string) string {
	return strings.ReplaceAll(s, "_", "")
}

// validUnderscores enforces "underscores allowed between digits, never
// adjacent to a sign or prefix": no leading/trailing underscore and no
// double underscore.
func validUnderscores(s string) bool {
	if strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") {
		return false
	}
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("bBoOxX", rune(s[1])) && s[2] == '_' {
		return false
	}
	return !strings.Contains(s, "__")
}

// --- string literals ---

func (l *Lexer) lexString(prefix string) {
	if prefix == "" {
		l.mark() // prefix-less string: span starts at the opening quote
	}
	lower := strings.ToLower(prefix)
	isRaw := strings.Contains(lower, "r")
	isBytes := strings.Contains(lower, "b")
	isF := strings.Contains(lower, "f")

	quote := l.peek()
	l.next()
	triple := false
	if l.peek() == quote && l.peekAt(l.width) == quote {
		l.next()
		l.next()
		triple = true
	}

	contentStart := l.pos
	closed := false
	for {
		r := l.peek()
		if r == eof {
			l.errorf(diag.UnterminatedString, "string starting at line %d is not closed", l.startLine)
			break
		}
		if r == '\n' && !triple {
			l.errorf(diag.UnterminatedString, "newline in single-line string literal")
			break
		}
		if r == '\\' && !isRaw {
			l.next()
			l.next() // consume the escaped character blindly; validated below
			continue
		}
		if r == quote {
			if !triple {
				l.next()
				closed = true
				break
			}
			if l.peekAt(l.width) == quote && l.peekAt(2*l.width) == quote {
				l.next()
				l.next()
				l.next()
				closed = true
				break
			}
		}
		l.next()
	}

	contentEnd := l.pos
	if closed {
		if triple {
			contentEnd -= 3
		} else {
			contentEnd -= 1
		}
	}
	raw := l.src[contentStart:contentEnd]

	if !isRaw && !isBytes {
		for i := 0; i+2 < len(raw); i++ {
			if raw[i] != '\\' {
				continue
			}
			if raw[i+1] == 'N' && raw[i+2] == '{' {
				l.diags.Add(diag.NewWithSeverity(diag.Warning, diag.InvalidEscape, l.span(),
					"\\N{...} escape is kept as literal text; Unicode names are not looked up"))
			}
			i++
		}
	}

	switch {
	case isF:
		parts := l.decodeFStringParts(raw, isRaw, contentStart)
		l.emitTok(token.Token{Kind: token.FSTRING, Lit: raw, StringPrefix: lower, IsTriple: triple, FStringParts: parts})
	case isBytes:
		decoded, diagKind := decodeStringBody(raw, isRaw, true)
		if diagKind != "" {
			l.errorf(diagKind, "invalid content in byte string literal")
		}
		for _, r := range decoded {
			if r > 127 {
				l.errorf(diag.NonAsciiByteString, "byte string literal contains non-ASCII content")
				break
			}
		}
		l.emitTok(token.Token{Kind: token.BYTES, Lit: decoded, StringPrefix: lower, IsTriple: triple})
	default:
		decoded, diagKind := decodeStringBody(raw, isRaw, false)
		if diagKind != "" {
			l.errorf(diagKind, "invalid escape sequence in string literal")
		}
		l.emitTok(token.Token{Kind: token.STRING, Lit: decoded, StringPrefix: lower, IsTriple: triple})
	}
}

// decodeStringBody applies the plain escape table: \n \r \t \\ \' \" \0
// \a \b \f \v, \xNN, \uNNNN, \UNNNNNNNN, \N{name}. Raw strings pass
// backslashes through literally and are never decoded here.
func decodeStringBody(raw string, isRaw, isBytes bool) (string, diag.Kind) {
	if isRaw {
		return raw, ""
	}
	var b strings.Builder
	var badKind diag.Kind
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c != '\\' || i == len(raw)-1 {
			b.WriteByte(c)
			i++
			continue
		}
		esc := raw[i+1]
		switch esc {
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case '\\':
			b.WriteByte('\\')
			i += 2
		case '\'':
			b.WriteByte('\'')
			i += 2
		case '"':
			b.WriteByte('"')
			i += 2
		case '0':
			b.WriteByte(0)
			i += 2
		case 'a':
			b.WriteByte(7)
			i += 2
		case 'b':
			b.WriteByte(8)
			i += 2
		case 'f':
			b.WriteByte(12)
			i += 2
		case 'v':
			b.WriteByte(11)
			i += 2
		case 'x':
			if i+4 <= len(raw) {
				if v, err := strconv.ParseUint(raw[i+2:i+4], 16, 8); err == nil {
					b.WriteByte(byte(v))
					i += 4
					continue
				}
			}
			badKind = diag.InvalidEscape
			b.WriteString(raw[i : i+2])
			i += 2
		case 'u':
			if !isBytes && i+6 <= len(raw) {
				if v, err := strconv.ParseUint(raw[i+2:i+6], 16, 32); err == nil {
					b.WriteRune(rune(v))
					i += 6
					continue
				}
			}
			badKind = diag.InvalidEscape
			b.WriteString(raw[i : i+2])
			i += 2
		case 'U':
			if !isBytes && i+10 <= len(raw) {
				if v, err := strconv.ParseUint(raw[i+2:i+10], 16, 32); err == nil {
					b.WriteRune(rune(v))
					i += 10
					continue
				}
			}
			badKind = diag.InvalidEscape
			b.WriteString(raw[i : i+2])
			i += 2
		case 'N':
			// \N{name}: Unicode name-table lookup is out of scope;
			// keep the literal escape text as a placeholder.
			end := strings.IndexByte(raw[i:], '}')
			if end >= 0 {
				b.WriteString(raw[i : i+end+1])
				i += end + 1
			} else {
				badKind = diag.InvalidEscape
				b.WriteString(raw[i : i+2])
				i += 2
			}
		default:
			badKind = diag.InvalidEscape
			b.WriteString(raw[i : i+2])
			i += 2
		}
	}
	return b.String(), badKind
}

// --- f-strings ---

func (l *Lexer) decodeFStringParts(raw string, isRaw bool, base int) []token.FStringPart {
	var parts []token.FStringPart
	var lit strings.Builder
	flushLit := func() {
		if lit.Len() > 0 {
			decoded := lit.String()
			if !isRaw {
				decoded, _ = decodeStringBody(decoded, false, false)
			}
			parts = append(parts, token.FStringPart{Kind: token.FSLiteral, Text: decoded})
			lit.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		switch raw[i] {
		case '{':
			if i+1 < len(raw) && raw[i+1] == '{' {
				lit.WriteByte('{')
				i += 2
				continue
			}
			flushLit()
			exprEnd, specStart, specEnd, ok := scanFStringExpr(raw, i+1)
			if !ok {
				l.errorf(diag.InvalidFString, "unterminated embedded expression in f-string")
				i = len(raw)
				break
			}
			part := token.FStringPart{Kind: token.FSExpr, ExprSource: raw[i+1 : exprEnd],
				Span: token.Span{Start: base + i + 1, End: base + exprEnd}}
			closeAt := exprEnd
			if specStart >= 0 {
				part.FormatSpecSource = raw[specStart:specEnd]
				closeAt = specEnd
			}
			parts = append(parts, part)
			i = closeAt + 1 // past closing '}'
		case '}':
			if i+1 < len(raw) && raw[i+1] == '}' {
				lit.WriteByte('}')
				i += 2
				continue
			}
			l.errorf(diag.InvalidFString, "single '}' not allowed in f-string literal text")
			i++
		default:
			lit.WriteByte(raw[i])
			i++
		}
	}
	flushLit()
	return parts
}

// scanFStringExpr scans the source of one embedded expression starting
// right after its opening '{', honoring nested brackets and quoted
// strings so a ':' or '}' inside them doesn't end the part prematurely.
// Returns the byte offset (exclusive) of the expression source, and the
// format-spec bounds if a top-level ':' was found (specStart == -1 if
// none).
func scanFStringExpr(raw string, start int) (exprEnd, specStart, specEnd int, ok bool) {
	depth := 0
	specStart = -1
	var quote byte
	i := start
	for i < len(raw) {
		c := raw[i]
		if quote != 0 {
			if c == '\\' && i+1 < len(raw) {
				i += 2
				continue
			}
			if c == quote {
				quote = 0
			}
			i++
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']':
			depth--
		case '}':
			if depth == 0 {
				if specStart >= 0 {
					return specStart - 1, specStart, i, true
				}
				return i, -1, -1, true
			}
			depth--
		case ':':
			if depth == 0 && specStart < 0 {
				specStart = i + 1
			}
		}
		i++
	}
	return 0, 0, 0, false
}
