package parser

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/token"
)

// parsePatternTop parses one full case pattern: an or-pattern optionally
// bound with `as name`.
func (p *Parser) parsePatternTop() ast.Pattern {
	pat := p.parseOrPattern()
	if p.matchKeyword("as") {
		name, sp, ok := p.parseName()
		if ok {
			pat = &ast.PatternAs{Base: base(sp), Inner: pat, Name: name}
		}
	}
	return pat
}

func (p *Parser) parseOrPattern() ast.Pattern {
	start := p.here()
	first := p.parseClosedPattern()
	if !p.atOp("|") {
		return first
	}
	alts := []ast.Pattern{first}
	for p.matchOp("|") {
		alts = append(alts, p.parseClosedPattern())
	}
	return &ast.PatternOr{Base: base(start), Alternatives: alts}
}

func (p *Parser) parseClosedPattern() ast.Pattern {
	t := p.Current()
	if t == nil {
		p.errorHere(diag.UnexpectedEndOfInput, "unexpected end of input in pattern")
		return nil
	}

	switch t.Kind {
	case token.INT, token.FLOAT, token.STRING, token.BYTES:
		v := p.parseAtom()
		return &ast.PatternLiteral{Base: base(t.Span), Value: v}
	case token.OPERATOR:
		if t.Lit == "-" {
			v := p.parseUnary()
			return &ast.PatternLiteral{Base: base(t.Span), Value: v}
		}
	case token.KEYWORD:
		switch t.Lit {
		case "True", "False", "None":
			v := p.parseAtom()
			return &ast.PatternLiteral{Base: base(t.Span), Value: v}
		}
	case token.DELIM:
		switch t.Lit {
		case "[":
			return p.parseSequencePattern("[", "]")
		case "(":
			return p.parseSequencePattern("(", ")")
		case "{":
			return p.parseMappingPattern()
		}
	case token.IDENT:
		if t.Lit == "_" {
			p.consume()
			return &ast.PatternWildcard{Base: base(t.Span)}
		}
		return p.parseCaptureOrValueOrClassPattern()
	}

	p.errorHere(diag.InvalidPattern, "invalid pattern")
	p.sync()
	return nil
}

// parseCaptureOrValueOrClassPattern distinguishes, with one token of
// lookahead past the name: `NAME` (capture), `NAME(...)` (class pattern),
// or `NAME.attr...` (value pattern, matched by equality).
func (p *Parser) parseCaptureOrValueOrClassPattern() ast.Pattern {
	name, sp, _ := p.parseName()
	if p.atOp(".") {
		full := name
		for p.atOp(".") {
			p.consume()
			part, _, ok := p.parseName()
			if !ok {
				break
			}
			full = full + "." + part
		}
		if p.atOp("(") {
			return p.parseClassPatternBody(full, sp)
		}
		v := &ast.Identifier{Base: base(sp), Name: full}
		return &ast.PatternLiteral{Base: base(sp), Value: v}
	}
	if p.atOp("(") {
		return p.parseClassPatternBody(name, sp)
	}
	return &ast.PatternCapture{Base: base(sp), Name: name}
}

func (p *Parser) parseClassPatternBody(className string, sp token.Span) ast.Pattern {
	p.consume() // '('
	var positional []ast.Pattern
	keywords := map[string]ast.Pattern{}
	for !p.atOp(")") && !p.at(token.EOF) {
		if p.at(token.IDENT) && p.peekN(1) != nil && p.peekN(1).Kind == token.OPERATOR && p.peekN(1).Lit == "=" {
			n, _, _ := p.parseName()
			p.consume() // '='
			keywords[n] = p.parsePatternTop()
		} else {
			positional = append(positional, p.parsePatternTop())
		}
		if !p.matchOp(",") {
			break
		}
	}
	p.expect(token.DELIM, ")")
	return &ast.PatternClass{Base: base(sp), ClassName: className, Positional: positional, Keywords: keywords}
}

func (p *Parser) parseSequencePattern(open, close string) ast.Pattern {
	start := p.consume().Span
	var elts []ast.Pattern
	for !p.atOp(close) && !p.at(token.EOF) {
		if p.atOp("*") {
			sp := p.consume().Span
			if p.atLit(token.IDENT, "_") {
				p.consume()
				elts = append(elts, &ast.PatternStar{Base: base(sp)})
			} else {
				n, nsp, _ := p.parseName()
				elts = append(elts, &ast.PatternStar{Base: base(nsp), Name: n})
			}
		} else {
			elts = append(elts, p.parsePatternTop())
		}
		if !p.matchOp(",") {
			break
		}
	}
	end := p.expect(token.DELIM, close)
	endSp := start
	if end != nil {
		endSp = end.Span
	}
	_ = open
	return &ast.PatternSequence{Base: base(start.Join(endSp)), Elts: elts}
}

func (p *Parser) parseMappingPattern() ast.Pattern {
	start := p.consume().Span // '{'
	var entries []ast.PatternMappingEntry
	rest := ""
	for !p.atOp("}") && !p.at(token.EOF) {
		if p.atOp("**") {
			p.consume()
			n, _, _ := p.parseName()
			rest = n
		} else {
			key := p.parseTest()
			p.expect(token.DELIM, ":")
			val := p.parsePatternTop()
			entries = append(entries, ast.PatternMappingEntry{Key: key, Value: val})
		}
		if !p.matchOp(",") {
			break
		}
	}
	end := p.expect(token.DELIM, "}")
	endSp := start
	if end != nil {
		endSp = end.Span
	}
	return &ast.PatternMapping{Base: base(start.Join(endSp)), Entries: entries, Rest: rest}
}
