package parser

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/lexer"
	"github.com/Flyclops/stela/internal/token"
)

// parseTestList parses a comma-separated sequence of test-level
// expressions, collapsing to a bare TupleExpr when more than one element
// (or a trailing comma) is present. Used for return values, expression
// statements and assignment operands.
func (p *Parser) parseTestList() ast.Expr {
	start := p.here()
	if p.atOp("*") {
		return p.parseStarOrTestListFrom(start, p.parseTargetItem())
	}
	first := p.parseTest()
	return p.parseStarOrTestListFrom(start, first)
}

func (p *Parser) parseStarOrTestListFrom(start token.Span, first ast.Expr) ast.Expr {
	if !p.atOp(",") {
		return first
	}
	elts := []ast.Expr{first}
	for p.matchOp(",") {
		if p.atTestListEnd() {
			break
		}
		if p.atOp("*") {
			elts = append(elts, p.parseTargetItem())
		} else {
			elts = append(elts, p.parseTest())
		}
	}
	return &ast.TupleExpr{Base: base(start), Elts: elts}
}

func (p *Parser) atTestListEnd() bool {
	return p.at(token.NEWLINE) || p.at(token.EOF) || p.atOp(";") ||
	p.atOp(")") || p.atOp("]") || p.atOp("}") || p.atOp(":") || p.atOp("=")
}

// parseTest is the ternary-level entry point (precedence level 2), the
// top of the chain for contexts where a bare walrus isn't permitted.
func (p *Parser) parseTest() ast.Expr {
	if p.atKeyword("lambda") {
		return p.parseLambda()
	}
	expr := p.parseOrTest()
	if p.atKeyword("if") {
		p.consume()
		test := p.parseOrTest()
		if !p.matchKeyword("else") {
			p.errorHere(diag.UnexpectedToken, "expected 'else' in conditional expression")
			return expr
		}
		els := p.parseTest()
		return &ast.IfExpr{Base: base(expr.Span().Join(els.Span())), Test: test, Then: expr, Else: els}
	}
	return expr
}

// parseNamedTest wraps parseTest with walrus-assignment recognition, for
// the contexts that explicitly permit it: parenthesized expressions,
// call arguments, and if/while conditions.
func (p *Parser) parseNamedTest() ast.Expr {
	return p.namedExprWrap(p.parseTest)
}

// parseCompIfCond is the comprehension-if walrus context; Python excludes
// the ternary form here to avoid ambiguity with the `if` clause itself.
func (p *Parser) parseCompIfCond() ast.Expr {
	return p.namedExprWrap(p.parseOrTest)
}

func (p *Parser) namedExprWrap(parse func() ast.Expr) ast.Expr {
	expr := parse()
	if ident, ok := expr.(*ast.Identifier); ok && p.atOp(":=") {
		p.consume()
		val := parse()
		return &ast.NamedExpr{Base: base(ident.Span().Join(val.Span())), Target: ident, Value: val}
	}
	return expr
}

func (p *Parser) parseOrTest() ast.Expr {
	left := p.parseAndTest()
	if !p.atKeyword("or") {
		return left
	}
	operands := []ast.Expr{left}
	for p.matchKeyword("or") {
		operands = append(operands, p.parseAndTest())
	}
	return &ast.BoolOp{Base: base(left.Span().Join(operands[len(operands)-1].Span())), Op: ast.BoolOr, Operands: operands}
}

func (p *Parser) parseAndTest() ast.Expr {
	left := p.parseNotTest()
	if !p.atKeyword("and") {
		return left
	}
	operands := []ast.Expr{left}
	for p.matchKeyword("and") {
		operands = append(operands, p.parseNotTest())
	}
	return &ast.BoolOp{Base: base(left.Span().Join(operands[len(operands)-1].Span())), Op: ast.BoolAnd, Operands: operands}
}

func (p *Parser) parseNotTest() ast.Expr {
	if p.atKeyword("not") {
		sp := p.consume().Span
		operand := p.parseNotTest()
		return &ast.Unary{Base: base(sp.Join(operand.Span())), Op: ast.OpNot, Operand: operand}
	}
	return p.parseComparison()
}

var compareOps = []string{"==", "!=", "<=", ">=", "<", ">"}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseBitOr()
	var chain []ast.CompareLink
	for {
		op, ok := p.matchCompareOp()
		if !ok {
			break
		}
		rhs := p.parseBitOr()
		chain = append(chain, ast.CompareLink{Op: op, Rhs: rhs})
	}
	if len(chain) == 0 {
		return left
	}
	return &ast.Compare{Base: base(left.Span().Join(chain[len(chain)-1].Rhs.Span())), Lhs: left, Chain: chain}
}

func (p *Parser) matchCompareOp() (ast.CompareOp, bool) {
	if p.atKeyword("is") {
		p.consume()
		if p.matchKeyword("not") {
			return ast.CmpIsNot, true
		}
		return ast.CmpIs, true
	}
	if p.atKeyword("in") {
		p.consume()
		return ast.CmpIn, true
	}
	if p.atKeyword("not") {
		if next := p.peekN(1); next != nil && next.Kind == token.KEYWORD && next.Lit == "in" {
			p.consume()
			p.consume()
			return ast.CmpNotIn, true
		}
		return "", false
	}
	for _, sym := range compareOps {
		if p.atOp(sym) {
			p.consume()
			return ast.CompareOp(sym), true
		}
	}
	return "", false
}

func (p *Parser) parseBitOr() ast.Expr {
	left := p.parseBitXor()
	for p.atOp("|") {
		p.consume()
		right := p.parseBitXor()
		left = &ast.Binary{Base: base(left.Span().Join(right.Span())), Op: ast.OpBitOr, Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseBitXor() ast.Expr {
	left := p.parseBitAnd()
	for p.atOp("^") {
		p.consume()
		right := p.parseBitAnd()
		left = &ast.Binary{Base: base(left.Span().Join(right.Span())), Op: ast.OpBitXor, Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Expr {
	left := p.parseShift()
	for p.atOp("&") {
		p.consume()
		right := p.parseShift()
		left = &ast.Binary{Base: base(left.Span().Join(right.Span())), Op: ast.OpBitAnd, Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseShift() ast.Expr {
	left := p.parseArith()
	for p.atOp("<<") || p.atOp(">>") {
		sym, _ := p.matchAnyOp("<<", ">>")
		right := p.parseArith()
		op := ast.OpLShift
		if sym == ">>" {
			op = ast.OpRShift
		}
		left = &ast.Binary{Base: base(left.Span().Join(right.Span())), Op: op, Lhs: left, Rhs: right}
	}
	return left
}

func (p *Parser) parseArith() ast.Expr {
	left := p.parseTerm()
	for p.atOp("+") || p.atOp("-") {
		sym, _ := p.matchAnyOp("+", "-")
		right := p.parseTerm()
		op := ast.OpAdd
		if sym == "-" {
			op = ast.OpSub
		}
		left = &ast.Binary{Base: base(left.Span().Join(right.Span())), Op: op, Lhs: left, Rhs: right}
	}
	return left
}

var termOps = map[string]ast.BinaryOp{
	"*": ast.OpMul, "/": ast.OpDiv, "//": ast.OpFloorDiv, "%": ast.OpMod, "@": ast.OpMatMul,
}

func (p *Parser) parseTerm() ast.Expr {
	left := p.parseUnary()
	for {
		sym, ok := p.matchAnyOp("//", "*", "/", "%", "@")
			if !ok {
				break
			}
			right := p.parseUnary()
			left = &ast.Binary{Base: base(left.Span().Join(right.Span())), Op: termOps[sym], Lhs: left, Rhs: right}
		}
		return left
	}

	func (p *Parser) parseUnary() ast.Expr {
		if p.atOp("+") || p.atOp("-") || p.atOp("~") {
			sym, _ := p.matchAnyOp("+", "-", "~")
			sp := p.tokens[p.idx-1].Span
			operand := p.parseUnary()
			op := ast.UnaryOp(sym)
			return &ast.Unary{Base: base(sp.Join(operand.Span())), Op: op, Operand: operand}
		}
		return p.parsePower()
	}

	// parsePower handles `**`, right-associative, binding tighter than unary
	// on its right (recurses into parseUnary) and looser on its left (the
	// base comes from parsePostfix, below unary in the call chain).
	func (p *Parser) parsePower() ast.Expr {
		base_ := p.parsePostfix()
		if p.atOp("**") {
			p.consume()
			exp := p.parseUnary()
			return &ast.Binary{Base: base(base_.Span().Join(exp.Span())), Op: ast.OpPow, Lhs: base_, Rhs: exp}
		}
		return base_
	}

	func (p *Parser) parsePostfix() ast.Expr {
		expr := p.parseAtom()
		if expr == nil {
			return nil
		}
		for {
			switch {
			case p.atOp("("):
				expr = p.parseCall(expr)
			case p.atOp("["):
				expr = p.parseSubscript(expr)
			case p.atOp("."):
				p.consume()
				name, sp, ok := p.parseName()
				if !ok {
					return expr
				}
				expr = &ast.Attribute{Base: base(expr.Span().Join(sp)), Value: expr, Name: name}
			default:
				return expr
			}
		}
	}

	func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
		start := p.consume().Span // '('
		var args []ast.Expr
		var keywords []ast.Keyword
		var star, kwstar ast.Expr
		seenKeyword := false
		for !p.atOp(")") && !p.at(token.EOF) {
			switch {
			case p.atOp("**"):
				p.consume()
				kwstar = p.parseNamedTest()
			case p.atOp("*"):
				sp := p.consume().Span
				if seenKeyword {
					p.diags.Addf(diag.PositionalAfterKeyword, sp, "positional argument follows keyword argument")
				}
				v := p.parseNamedTest()
				star = v
			case p.isKeywordArgStart():
				name, sp, _ := p.parseName()
				p.consume() // '='
				v := p.parseNamedTest()
				for _, kw := range keywords {
					if kw.Name == name {
						p.diags.Addf(diag.DuplicateKeywordArgument, sp, "duplicate keyword argument %q", name)
					}
				}
				keywords = append(keywords, ast.Keyword{Name: name, Value: v})
				seenKeyword = true
			default:
				sp := p.here()
				if seenKeyword {
					p.diags.Addf(diag.PositionalAfterKeyword, sp, "positional argument follows keyword argument")
				}
				args = append(args, p.parseNamedTest())
			}
			if !p.matchOp(",") {
				break
			}
		}
		end := p.expect(token.DELIM, ")")
		endSp := start
		if end != nil {
			endSp = end.Span
		}
		return &ast.Call{Base: base(start.Join(endSp)), Callee: callee, Args: args, Keywords: keywords, Star: star, KwStar: kwstar}
	}

	func (p *Parser) isKeywordArgStart() bool {
		if !p.at(token.IDENT) {
			return false
		}
		next := p.peekN(1)
		return next != nil && next.Kind == token.OPERATOR && next.Lit == "="
	}

	func (p *Parser) parseSubscript(value ast.Expr) ast.Expr {
		start := p.consume().Span // '['
		var items []ast.Expr
		items = append(items, p.parseSliceItem())
		for p.matchOp(",") {
			if p.atOp("]") {
				break
			}
			items = append(items, p.parseSliceItem())
		}
		end := p.expect(token.DELIM, "]")
		endSp := start
		if end != nil {
			endSp = end.Span
		}
		var index ast.Expr
		if len(items) == 1 {
			index = items[0]
		} else {
			index = &ast.TupleExpr{Base: base(start.Join(endSp)), Elts: items}
		}
		return &ast.Subscript{Base: base(value.Span().Join(endSp)), Value: value, Index: index}
	}

	func (p *Parser) parseSliceItem() ast.Expr {
		start := p.here()
		var startE, stop, step ast.Expr
		hasColon := false
		if !p.atOp(":") && !p.atOp("]") && !p.atOp(",") {
			startE = p.parseTest()
		}
		if p.atOp(":") {
			hasColon = true
			p.consume()
			if !p.atOp(":") && !p.atOp("]") && !p.atOp(",") {
				stop = p.parseTest()
			}
			if p.atOp(":") {
				p.consume()
				if !p.atOp("]") && !p.atOp(",") {
					step = p.parseTest()
				}
			}
		}
		if !hasColon {
			return startE
		}
		return &ast.Slice{Base: base(start), Start: startE, Stop: stop, Step: step}
	}

	func (p *Parser) parseAtom() ast.Expr {
		t := p.Current()
		if t == nil {
			p.diags.Addf(diag.UnexpectedEndOfInput, p.here(), "unexpected end of input")
			return nil
		}
		switch t.Kind {
		case token.INT:
			p.consume()
			return &ast.Literal{Base: base(t.Span), Kind: ast.LitInt, IntTok: t}
		case token.FLOAT:
			p.consume()
			return &ast.Literal{Base: base(t.Span), Kind: ast.LitFloat, Float: t.FloatValue}
		case token.STRING:
			p.consume()
			return &ast.Literal{Base: base(t.Span), Kind: ast.LitStr, Str: t.Lit}
		case token.BYTES:
			p.consume()
			return &ast.Literal{Base: base(t.Span), Kind: ast.LitBytes, Bytes: []byte(t.Lit)}
		case token.FSTRING:
			p.consume()
			return p.buildFString(t)
		case token.IDENT:
			p.consume()
			if t.Lit == "NotImplemented" {
				return &ast.Literal{Base: base(t.Span), Kind: ast.LitNotImplemented}
			}
			return &ast.Identifier{Base: base(t.Span), Name: t.Lit}
		case token.KEYWORD:
			switch t.Lit {
			case "True":
				p.consume()
				return &ast.Literal{Base: base(t.Span), Kind: ast.LitBool, Bool: true}
			case "False":
				p.consume()
				return &ast.Literal{Base: base(t.Span), Kind: ast.LitBool, Bool: false}
			case "None":
				p.consume()
				return &ast.Literal{Base: base(t.Span), Kind: ast.LitNone}
			case "lambda":
				return p.parseLambda()
			case "yield":
				return p.parseYield()
			case "await":
				sp := p.consume().Span
				v := p.parseTest()
				return &ast.Await{Base: base(sp.Join(v.Span())), Value: v}
			}
		case token.DELIM:
			switch t.Lit {
			case "(":
				return p.parseParenOrTupleOrGenExp()
			case "[":
				return p.parseListOrComp()
			case "{":
				return p.parseDictOrSetOrComp()
			case ".":
				if p.atEllipsis() {
					sp := p.consumeEllipsis()
					return &ast.Literal{Base: base(sp), Kind: ast.LitEllipsis}
				}
			}
		}
		p.errorHere(diag.ExpectedExpression, "expected expression, found %s", t.Kind)
		p.sync()
		return nil
	}

	func (p *Parser) atEllipsis() bool {
		a, b, c := p.Current(), p.peekN(1), p.peekN(2)
		return a != nil && b != nil && c != nil &&
		a.Kind == token.DELIM && a.Lit == "." &&
		b.Kind == token.DELIM && b.Lit == "." &&
		c.Kind == token.DELIM && c.Lit == "."
	}

	func (p *Parser) consumeEllipsis() token.Span {
		start := p.consume().Span
		p.consume()
		end := p.consume().Span
		return start.Join(end)
	}

	func (p *Parser) parseYield() ast.Expr {
		sp := p.consume().Span
		if p.matchKeyword("from") {
			v := p.parseTest()
			return &ast.Yield{Base: base(sp.Join(v.Span())), Value: v, IsFrom: true}
		}
		if p.atTestListEnd() {
			return &ast.Yield{Base: base(sp)}
		}
		v := p.parseTestList()
		return &ast.Yield{Base: base(sp.Join(v.Span())), Value: v}
	}

	func (p *Parser) parseLambda() ast.Expr {
		sp := p.consume().Span // 'lambda'
		params := p.parseParamList(false)
		p.expect(token.DELIM, ":")
		body := p.parseTest()
		return &ast.Lambda{Base: base(sp.Join(body.Span())), Params: params, Body: body}
	}

	// parseParenOrTupleOrGenExp handles `(`: empty tuple, a parenthesized
	// (possibly walrus) expression, a generator expression, or a tuple.
	func (p *Parser) parseParenOrTupleOrGenExp() ast.Expr {
		start := p.consume().Span // '('
		if p.atOp(")") {
			end := p.consume().Span
			return &ast.TupleExpr{Base: base(start.Join(end))}
		}
		var first ast.Expr
		if p.atOp("*") {
			first = p.parseTargetItem()
		} else {
			first = p.parseNamedTest()
		}
		if p.atKeyword("for") || p.atKeyword("async") {
			gens := p.parseComprehensionTail()
			end := p.expect(token.DELIM, ")")
			endSp := start
			if end != nil {
				endSp = end.Span
			}
			return &ast.GenExp{Base: base(start.Join(endSp)), Elt: first, Generators: gens}
		}
		if p.atOp(",") {
			elts := []ast.Expr{first}
			for p.matchOp(",") {
				if p.atOp(")") {
					break
				}
				if p.atOp("*") {
					elts = append(elts, p.parseTargetItem())
				} else {
					elts = append(elts, p.parseNamedTest())
				}
			}
			end := p.expect(token.DELIM, ")")
			endSp := start
			if end != nil {
				endSp = end.Span
			}
			return &ast.TupleExpr{Base: base(start.Join(endSp)), Elts: elts}
		}
		end := p.expect(token.DELIM, ")")
		if end != nil {
			first = reSpan(first, start.Join(end.Span))
		}
		return first
	}

	// reSpan widens a parenthesized expression's recorded span to include the
	// enclosing parens, without altering its payload.
	func reSpan(e ast.Expr, sp token.Span) ast.Expr {
		switch v := e.(type) {
		case *ast.Identifier:
			v.Sp = sp
		case *ast.Literal:
			v.Sp = sp
		case *ast.Binary:
			v.Sp = sp
		case *ast.BoolOp:
			v.Sp = sp
		case *ast.Compare:
			v.Sp = sp
		case *ast.Unary:
			v.Sp = sp
		case *ast.Call:
			v.Sp = sp
		case *ast.NamedExpr:
			v.Sp = sp
		case *ast.IfExpr:
			v.Sp = sp
		}
		return e
	}

	func (p *Parser) parseListOrComp() ast.Expr {
		start := p.consume().Span // '['
		if p.atOp("]") {
			end := p.consume().Span
			return &ast.ListExpr{Base: base(start.Join(end))}
		}
		var first ast.Expr
		if p.atOp("*") {
			first = p.parseTargetItem()
		} else {
			first = p.parseTest()
		}
		if p.atKeyword("for") || p.atKeyword("async") {
			gens := p.parseComprehensionTail()
			end := p.expect(token.DELIM, "]")
			endSp := start
			if end != nil {
				endSp = end.Span
			}
			return &ast.ListComp{Base: base(start.Join(endSp)), Elt: first, Generators: gens}
		}
		elts := []ast.Expr{first}
		for p.matchOp(",") {
			if p.atOp("]") {
				break
			}
			if p.atOp("*") {
				elts = append(elts, p.parseTargetItem())
			} else {
				elts = append(elts, p.parseTest())
			}
		}
		end := p.expect(token.DELIM, "]")
		endSp := start
		if end != nil {
			endSp = end.Span
		}
		return &ast.ListExpr{Base: base(start.Join(endSp)), Elts: elts}
	}

	// parseDictOrSetOrComp disambiguates `{}` (empty dict), `{expr}`/`{expr
	// for ...}` (set/setcomp) and `{k: v}`/`{k: v for ...}` (dict/dictcomp)
	// using a single lookahead past the first element, per 2.
	func (p *Parser) parseDictOrSetOrComp() ast.Expr {
		start := p.consume().Span // '{'
		if p.atOp("}") {
			end := p.consume().Span
			return &ast.DictExpr{Base: base(start.Join(end))}
		}
		if p.atOp("**") {
			p.consume()
			v := p.parseOrTest()
			entries := []ast.DictEntry{{Key: nil, Value: v}}
			for p.matchOp(",") {
				if p.atOp("}") {
					break
				}
				entries = append(entries, p.parseDictEntry())
			}
			end := p.expect(token.DELIM, "}")
			endSp := start
			if end != nil {
				endSp = end.Span
			}
			return &ast.DictExpr{Base: base(start.Join(endSp)), Entries: entries}
		}

		var first ast.Expr
		if p.atOp("*") {
			first = p.parseTargetItem()
		} else {
			first = p.parseTest()
		}

		if p.atOp(":") {
			p.consume()
			val := p.parseTest()
			if p.atKeyword("for") || p.atKeyword("async") {
				gens := p.parseComprehensionTail()
				end := p.expect(token.DELIM, "}")
				endSp := start
				if end != nil {
					endSp = end.Span
				}
				return &ast.DictComp{Base: base(start.Join(endSp)), Key: first, Value: val, Generators: gens}
			}
			entries := []ast.DictEntry{{Key: first, Value: val}}
			for p.matchOp(",") {
				if p.atOp("}") {
					break
				}
				entries = append(entries, p.parseDictEntry())
			}
			end := p.expect(token.DELIM, "}")
			endSp := start
			if end != nil {
				endSp = end.Span
			}
			return &ast.DictExpr{Base: base(start.Join(endSp)), Entries: entries}
		}

		if p.atKeyword("for") || p.atKeyword("async") {
			gens := p.parseComprehensionTail()
			end := p.expect(token.DELIM, "}")
			endSp := start
			if end != nil {
				endSp = end.Span
			}
			return &ast.SetComp{Base: base(start.Join(endSp)), Elt: first, Generators: gens}
		}

		elts := []ast.Expr{first}
		for p.matchOp(",") {
			if p.atOp("}") {
				break
			}
			if p.atOp("*") {
				elts = append(elts, p.parseTargetItem())
			} else {
				elts = append(elts, p.parseTest())
			}
		}
		end := p.expect(token.DELIM, "}")
		endSp := start
		if end != nil {
			endSp = end.Span
		}
		return &ast.SetExpr{Base: base(start.Join(endSp)), Elts: elts}
	}

	func (p *Parser) parseDictEntry() ast.DictEntry {
		if p.atOp("**") {
			p.consume()
			v := p.parseOrTest()
			return ast.DictEntry{Key: nil, Value: v}
		}
		k := p.parseTest()
		p.expect(token.DELIM, ":")
		v := p.parseTest()
		return ast.DictEntry{Key: k, Value: v}
	}

	func (p *Parser) parseComprehensionTail() []ast.Comprehension {
		var gens []ast.Comprehension
		for p.atKeyword("for") || p.atKeyword("async") {
			isAsync := false
			if p.atKeyword("async") {
				p.consume()
				isAsync = true
			}
			p.matchKeyword("for")
			target := p.parseTargetList()
			if !p.matchKeyword("in") {
				p.errorHere(diag.UnexpectedToken, "expected 'in' in comprehension")
			}
			iter := p.parseOrTest()
			var ifs []ast.Expr
			for p.atKeyword("if") {
				p.consume()
				ifs = append(ifs, p.parseCompIfCond())
			}
			gens = append(gens, ast.Comprehension{Target: target, Iter: iter, Ifs: ifs, IsAsync: isAsync})
		}
		return gens
	}

	// buildFString reconstructs an ast.FString from the lexer's pre-scanned
	// token.FStringParts, recursively lexing and parsing each embedded
	// expression's source text: an f-string's interpolations are parsed by
	// recursive invocation of this same expression parser.
	func (p *Parser) buildFString(t *token.Token) ast.Expr {
		var parts []ast.FStringPart
		for _, raw := range t.FStringParts {
			switch raw.Kind {
			case token.FSLiteral:
				parts = append(parts, ast.FStringPart{Literal: raw.Text})
			case token.FSExpr:
				toks, subDiags := lexer.Lex(p.filename, raw.ExprSource)
				toks = filterComments(toks)
				sub := &Parser{filename: p.filename, tokens: toks, diags: &diag.Bag{}}
				expr := sub.parseTestList()
				for _, d := range subDiags.All() {
					p.diags.Add(offsetDiag(d, raw.Span.Start))
				}
				for _, d := range sub.diags.All() {
					p.diags.Add(offsetDiag(d, raw.Span.Start))
				}
				parts = append(parts, ast.FStringPart{Expr: expr, FormatSpec: raw.FormatSpecSource})
			}
		}
		return &ast.FString{Base: base(t.Span), Parts: parts}
	}

	// offsetDiag shifts the byte offsets of a diagnostic produced while
	// parsing an embedded f-string expression's isolated source back into
	// the outer file's coordinate space; its Line and Col stay relative to
	// the embedded source.
	func offsetDiag(d diag.Diagnostic, base int) diag.Diagnostic {
		d.Span.Start += base
		d.Span.End += base
		return d
	}

	func filterComments(toks []token.Token) []token.Token {
		out := toks[:0:0]
		for _, t := range toks {
			if t.Kind != token.COMMENT {
				out = append(out, t)
			}
		}
		return out
	}
