package parser

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/token"
)

// parseTypeAnnotation parses a type expression: a name, a subscripted
// generic, a `|`-union, `Optional[T]`, `Callable[[...], T]`, a tuple
// type, or a `Literal[...]` restriction.
func (p *Parser) parseTypeAnnotation() ast.TypeAnnotation {
	first := p.parseTypeAtom()
	if !p.atOp("|") {
		return first
	}
	operands := []ast.TypeAnnotation{first}
	for p.matchOp("|") {
		operands = append(operands, p.parseTypeAtom())
	}
	return &ast.TypeUnion{Base: base(first.Span().Join(operands[len(operands)-1].Span())), Operands: operands}
}

func (p *Parser) parseTypeAtom() ast.TypeAnnotation {
	t := p.Current()
	if t == nil {
		p.errorHere(diag.UnexpectedEndOfInput, "unexpected end of input in type annotation")
		return nil
	}

	if t.Kind == token.KEYWORD && t.Lit == "None" {
		p.consume()
		return &ast.TypeName{Base: base(t.Span), Name: "None"}
	}

	if t.Kind == token.DELIM && t.Lit == "(" {
		return p.parseTupleTypeGroup()
	}

	if t.Kind != token.IDENT {
		p.errorHere(diag.UnexpectedToken, "expected a type")
		p.sync()
		return nil
	}

	name, sp, _ := p.parseName()
	switch name {
	case "Optional":
		p.expect(token.DELIM, "[")
		inner := p.parseTypeAnnotation()
		end := p.expect(token.DELIM, "]")
		return &ast.TypeOptional{Base: closingBase(sp, end), Inner: inner}
	case "Callable":
		return p.parseCallableType(sp)
	case "tuple", "Tuple":
		if p.atOp("[") {
			p.consume()
			var elts []ast.TypeAnnotation
			for !p.atOp("]") && !p.at(token.EOF) {
				elts = append(elts, p.parseTypeAnnotation())
				if !p.matchOp(",") {
					break
				}
			}
			end := p.expect(token.DELIM, "]")
			return &ast.TypeTuple{Base: closingBase(sp, end), Elts: elts}
		}
		return &ast.TypeName{Base: base(sp), Name: name}
	case "Literal":
		p.expect(token.DELIM, "[")
		var values []string
		for !p.atOp("]") && !p.at(token.EOF) {
			if lt := p.Current(); lt != nil {
				values = append(values, lt.Lit)
				p.consume()
			}
			if !p.matchOp(",") {
				break
			}
		}
		end := p.expect(token.DELIM, "]")
		return &ast.TypeLiteral{Base: closingBase(sp, end), Values: values}
	}

	if p.atOp("[") {
		p.consume()
		var args []ast.TypeAnnotation
		for !p.atOp("]") && !p.at(token.EOF) {
			args = append(args, p.parseTypeAnnotation())
			if !p.matchOp(",") {
				break
			}
		}
		end := p.expect(token.DELIM, "]")
		return &ast.TypeGeneric{Base: closingBase(sp, end), BaseName: name, Args: args}
	}

	return &ast.TypeName{Base: base(sp), Name: name}
}

// parseCallableType parses `Callable[[Params...], Ret]` and the bare
// `Callable[..., Ret]` ellipsis-params form.
func (p *Parser) parseCallableType(sp token.Span) ast.TypeAnnotation {
	p.expect(token.DELIM, "[")
	var params []ast.TypeAnnotation
	if p.atEllipsis() {
		p.consumeEllipsis()
	} else {
		p.expect(token.DELIM, "[")
		for !p.atOp("]") && !p.at(token.EOF) {
			params = append(params, p.parseTypeAnnotation())
			if !p.matchOp(",") {
				break
			}
		}
		p.expect(token.DELIM, "]")
	}
	p.expect(token.DELIM, ",")
	ret := p.parseTypeAnnotation()
	end := p.expect(token.DELIM, "]")
	return &ast.TypeCallable{Base: closingBase(sp, end), Params: params, Ret: ret}
}

// parseTupleTypeGroup parses a parenthesized tuple-of-types annotation,
// `(int, str)`.
func (p *Parser) parseTupleTypeGroup() ast.TypeAnnotation {
	start := p.consume().Span
	var elts []ast.TypeAnnotation
	for !p.atOp(")") && !p.at(token.EOF) {
		elts = append(elts, p.parseTypeAnnotation())
		if !p.matchOp(",") {
			break
		}
	}
	end := p.expect(token.DELIM, ")")
	return &ast.TypeTuple{Base: closingBase(start, end), Elts: elts}
}

func closingBase(start token.Span, end *token.Token) ast.Base {
	if end == nil {
		return base(start)
	}
	return base(start.Join(end.Span))
}
