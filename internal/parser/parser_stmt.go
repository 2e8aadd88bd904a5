package parser

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/token"
)

// parseStatement dispatches by leading token. Returns nil (with a
// diagnostic already recorded, and the cursor synced to the next
// statement boundary) on unrecoverable input.
func (p *Parser) parseStatement() ast.Stmt {
	if p.at(token.EOF) {
		return nil
	}

	if p.atOp("@") {
		return p.parseDecorated()
	}

	if t := p.Current(); t != nil && t.Kind == token.KEYWORD {
		switch t.Lit {
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "for":
			return p.parseFor(false)
		case "async":
			return p.parseAsync()
		case "def":
			return p.parseFunctionDef(false, nil)
		case "class":
			return p.parseClassDef(nil)
		case "return":
			return p.parseReturn()
		case "pass":
			sp := p.consume().Span
			return &ast.Pass{Base: base(sp)}
		case "break":
			sp := p.consume().Span
			return &ast.Break{Base: base(sp)}
		case "continue":
			sp := p.consume().Span
			return &ast.Continue{Base: base(sp)}
		case "import":
			return p.parseImport()
		case "from":
			return p.parseImportFrom()
		case "try":
			return p.parseTry()
		case "with":
			return p.parseWith(false)
		case "match":
			return p.parseMatch()
		case "global":
			return p.parseGlobal()
		case "nonlocal":
			return p.parseNonlocal()
		case "assert":
			return p.parseAssert()
		case "del":
			return p.parseDelete()
		case "raise":
			return p.parseRaise()
		}
	}

	return p.parseExprOrAssign()
}

// parseAsync handles the `async def` / `async for` / `async with` forms;
// any other keyword after `async` is a syntax error.
func (p *Parser) parseAsync() ast.Stmt {
	p.consume() // 'async'
	switch {
	case p.atKeyword("def"):
		return p.parseFunctionDef(true, nil)
	case p.atKeyword("for"):
		return p.parseFor(true)
	case p.atKeyword("with"):
		return p.parseWith(true)
	default:
		p.errorHere(diag.UnexpectedToken, "expected 'def', 'for' or 'with' after 'async'")
		p.sync()
		return nil
	}
}

// parseDecorated parses a run of `@expr` lines followed by a def or class.
func (p *Parser) parseDecorated() ast.Stmt {
	var decorators []ast.Expr
	for p.atOp("@") {
		p.consume()
		d := p.parseTest()
		decorators = append(decorators, d)
		if p.at(token.NEWLINE) {
			p.consume()
		}
	}
	switch {
	case p.atKeyword("def"):
		return p.parseFunctionDef(false, decorators)
	case p.atKeyword("async"):
		p.consume()
		if p.atKeyword("def") {
			return p.parseFunctionDef(true, decorators)
		}
		p.errorHere(diag.UnexpectedToken, "expected 'def' after 'async' in decorated definition")
		p.sync()
		return nil
	case p.atKeyword("class"):
		return p.parseClassDef(decorators)
	default:
		p.errorHere(diag.UnexpectedToken, "expected function or class definition after decorator")
		p.sync()
		return nil
	}
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.consume().Span // 'if'
	test := p.parseNamedTest()
	p.expect(token.DELIM, ":")
	body := p.parseBlock()
	orelse := p.parseElifOrElse()
	return &ast.If{Base: base(start), Test: test, Body: body, Orelse: orelse}
}

// parseElifOrElse desugars an elif-chain into nested If nodes in Orelse,
// per the Blocks contract.
func (p *Parser) parseElifOrElse() []ast.Stmt {
	if p.atKeyword("elif") {
		sp := p.consume().Span
		test := p.parseNamedTest()
		p.expect(token.DELIM, ":")
		body := p.parseBlock()
		orelse := p.parseElifOrElse()
		return []ast.Stmt{&ast.If{Base: base(sp), Test: test, Body: body, Orelse: orelse}}
	}
	if p.atKeyword("else") {
		p.consume()
		p.expect(token.DELIM, ":")
		return p.parseBlock()
	}
	return nil
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.consume().Span // 'while'
	test := p.parseNamedTest()
	p.expect(token.DELIM, ":")
	body := p.parseBlock()
	var orelse []ast.Stmt
	if p.atKeyword("else") {
		p.consume()
		p.expect(token.DELIM, ":")
		orelse = p.parseBlock()
	}
	return &ast.While{Base: base(start), Test: test, Body: body, Orelse: orelse}
}

func (p *Parser) parseFor(isAsync bool) ast.Stmt {
	start := p.consume().Span // 'for'
	target := p.parseTargetList()
	if !p.matchKeyword("in") {
		p.errorHere(diag.UnexpectedToken, "expected 'in'")
	}
	iter := p.parseTestList()
	p.expect(token.DELIM, ":")
	body := p.parseBlock()
	var orelse []ast.Stmt
	if p.atKeyword("else") {
		p.consume()
		p.expect(token.DELIM, ":")
		orelse = p.parseBlock()
	}
	return &ast.For{Base: base(start), Target: target, Iter: iter, Body: body, Orelse: orelse, IsAsync: isAsync}
}

func (p *Parser) parseReturn() ast.Stmt {
	sp := p.consume().Span
	var value ast.Expr
	if !p.at(token.NEWLINE) && !p.at(token.EOF) && !p.atOp(";") {
		value = p.parseTestList()
	}
	return &ast.Return{Base: base(sp), Value: value}
}

func (p *Parser) parseImport() ast.Stmt {
	sp := p.consume().Span
	var names []ast.ImportAlias
	names = append(names, p.parseImportAlias())
	for p.matchOp(",") {
		names = append(names, p.parseImportAlias())
	}
	return &ast.Import{Base: base(sp), Names: names}
}

// parseImportAlias parses `a.b.c [as name]`.
func (p *Parser) parseImportAlias() ast.ImportAlias {
	name := p.parseDottedName()
	asName := ""
	if p.matchKeyword("as") {
		n, _, ok := p.parseName()
		if ok {
			asName = n
		}
	}
	return ast.ImportAlias{Name: name, AsName: asName}
}

func (p *Parser) parseDottedName() string {
	n, _, ok := p.parseName()
	if !ok {
		return ""
	}
	for p.atOp(".") {
		p.consume()
		part, _, ok := p.parseName()
		if !ok {
			break
		}
		n = n + "." + part
	}
	return n
}

func (p *Parser) parseImportFrom() ast.Stmt {
	sp := p.consume().Span // 'from'
	level := 0
	for p.atOp(".") {
		p.consume()
		level++
	}
	module := ""
	if !p.atKeyword("import") {
		module = p.parseDottedName()
	}
	if !p.matchKeyword("import") {
		p.errorHere(diag.UnexpectedToken, "expected 'import'")
	}
	if p.atOp("*") {
		p.consume()
		return &ast.ImportFrom{Base: base(sp), Module: module, Level: level, Star: true}
	}
	paren := p.matchOp("(")
	var names []ast.ImportAlias
	names = append(names, p.parseFromAlias())
	for p.matchOp(",") {
		if paren && p.atOp(")") {
			break
		}
		names = append(names, p.parseFromAlias())
	}
	if paren {
		p.expect(token.DELIM, ")")
	}
	return &ast.ImportFrom{Base: base(sp), Module: module, Level: level, Names: names}
}

func (p *Parser) parseFromAlias() ast.ImportAlias {
	n, _, _ := p.parseName()
	asName := ""
	if p.matchKeyword("as") {
		a, _, ok := p.parseName()
		if ok {
			asName = a
		}
	}
	return ast.ImportAlias{Name: n, AsName: asName}
}

func (p *Parser) parseTry() ast.Stmt {
	sp := p.consume().Span
	p.expect(token.DELIM, ":")
	body := p.parseBlock()
	var handlers []ast.ExceptHandler
	for p.atKeyword("except") {
		handlers = append(handlers, p.parseExceptHandler())
	}
	var orelse, finalbody []ast.Stmt
	if p.atKeyword("else") {
		p.consume()
		p.expect(token.DELIM, ":")
		orelse = p.parseBlock()
	}
	if p.atKeyword("finally") {
		p.consume()
		p.expect(token.DELIM, ":")
		finalbody = p.parseBlock()
	}
	return &ast.Try{Base: base(sp), Body: body, Handlers: handlers, Orelse: orelse, Finalbody: finalbody}
}

func (p *Parser) parseExceptHandler() ast.ExceptHandler {
	sp := p.consume().Span // 'except'
	p.matchOp("*") // except* groups; star carries no extra AST shape here
	var typ ast.Expr
	name := ""
	if !p.atOp(":") {
		typ = p.parseTest()
		if p.matchKeyword("as") {
			n, _, ok := p.parseName()
			if ok {
				name = n
			}
		}
	}
	p.expect(token.DELIM, ":")
	body := p.parseBlock()
	return ast.ExceptHandler{Base: base(sp), Type: typ, Name: name, Body: body}
}

func (p *Parser) parseWith(isAsync bool) ast.Stmt {
	sp := p.consume().Span
	paren := p.matchOp("(")
	var items []ast.WithItem
	items = append(items, p.parseWithItem())
	for p.matchOp(",") {
		if paren && p.atOp(")") {
			break
		}
		items = append(items, p.parseWithItem())
	}
	if paren {
		p.expect(token.DELIM, ")")
	}
	p.expect(token.DELIM, ":")
	body := p.parseBlock()
	return &ast.With{Base: base(sp), Items: items, Body: body, IsAsync: isAsync}
}

func (p *Parser) parseWithItem() ast.WithItem {
	expr := p.parseTest()
	var target ast.Expr
	if p.matchKeyword("as") {
		target = p.parseTarget()
	}
	return ast.WithItem{ContextExpr: expr, Target: target}
}

func (p *Parser) parseMatch() ast.Stmt {
	sp := p.consume().Span
	subject := p.parseTestList()
	p.expect(token.DELIM, ":")
	p.expect(token.NEWLINE, "")
	p.expectKind(token.INDENT, "indented match body")
	var cases []ast.Case
	p.skipNewlines()
	for p.atKeyword("case") {
		cases = append(cases, p.parseCase())
		p.skipNewlines()
	}
	p.expectKind(token.DEDENT, "dedent")
	return &ast.Match{Base: base(sp), Subject: subject, Cases: cases}
}

func (p *Parser) parseCase() ast.Case {
	sp := p.consume().Span // 'case'
	pat := p.parsePatternTop()
	if p.matchKeyword("if") {
		guard := p.parseNamedTest()
		pat = &ast.PatternGuard{Base: base(sp), Inner: pat, Guard: guard}
	}
	p.expect(token.DELIM, ":")
	body := p.parseBlock()
	return ast.Case{Base: base(sp), Pattern: pat, Body: body}
}

func (p *Parser) parseGlobal() ast.Stmt {
	sp := p.consume().Span
	names := p.parseNameList()
	return &ast.Global{Base: base(sp), Names: names}
}

func (p *Parser) parseNonlocal() ast.Stmt {
	sp := p.consume().Span
	names := p.parseNameList()
	return &ast.Nonlocal{Base: base(sp), Names: names}
}

func (p *Parser) parseNameList() []string {
	var names []string
	if n, _, ok := p.parseName(); ok {
		names = append(names, n)
	}
	for p.matchOp(",") {
		if n, _, ok := p.parseName(); ok {
			names = append(names, n)
		}
	}
	return names
}

func (p *Parser) parseAssert() ast.Stmt {
	sp := p.consume().Span
	test := p.parseTest()
	var msg ast.Expr
	if p.matchOp(",") {
		msg = p.parseTest()
	}
	return &ast.Assert{Base: base(sp), Test: test, Msg: msg}
}

func (p *Parser) parseDelete() ast.Stmt {
	sp := p.consume().Span
	var targets []ast.Expr
	targets = append(targets, p.parseTarget())
	for p.matchOp(",") {
		if p.at(token.NEWLINE) || p.at(token.EOF) || p.atOp(";") {
			break
		}
		targets = append(targets, p.parseTarget())
	}
	return &ast.Delete{Base: base(sp), Targets: targets}
}

func (p *Parser) parseRaise() ast.Stmt {
	sp := p.consume().Span
	var exc, cause ast.Expr
	if !p.at(token.NEWLINE) && !p.at(token.EOF) && !p.atOp(";") {
		exc = p.parseTest()
		if p.matchKeyword("from") {
			cause = p.parseTest()
		}
	}
	return &ast.Raise{Base: base(sp), Exc: exc, Cause: cause}
}

// parseFunctionDef parses `[async] def name(params) [-> ret]: body`;
// decorators were already collected by parseDecorated, if any.
func (p *Parser) parseFunctionDef(isAsync bool, decorators []ast.Expr) ast.Stmt {
	sp := p.consume().Span // 'def'
	name, _, _ := p.parseName()
	p.expect(token.DELIM, "(")
	params := p.parseParamList(true)
	p.expect(token.DELIM, ")")
	var returns ast.TypeAnnotation
	if p.matchOp("->") {
		returns = p.parseTypeAnnotation()
	}
	p.expect(token.DELIM, ":")
	body := p.parseBlock()
	return &ast.FunctionDef{
		Base: base(sp), Name: name, Params: params, Returns: returns,
		Body: body, Decorators: decorators, IsAsync: isAsync,
	}
}

func (p *Parser) parseClassDef(decorators []ast.Expr) ast.Stmt {
	sp := p.consume().Span // 'class'
	name, _, _ := p.parseName()
	var bases []ast.Expr
	var keywordBases []ast.Keyword
	if p.matchOp("(") {
		for !p.atOp(")") && !p.at(token.EOF) {
			if p.at(token.IDENT) && p.peekN(1) != nil && p.peekN(1).Kind == token.OPERATOR && p.peekN(1).Lit == "=" {
				n, _, _ := p.parseName()
				p.consume() // '='
				v := p.parseTest()
				keywordBases = append(keywordBases, ast.Keyword{Name: n, Value: v})
			} else {
				bases = append(bases, p.parseTest())
			}
			if !p.matchOp(",") {
				break
			}
		}
		p.expect(token.DELIM, ")")
	}
	p.expect(token.DELIM, ":")
	body := p.parseBlock()
	return &ast.ClassDef{
		Base: base(sp), Name: name, Bases: bases, KeywordBases: keywordBases,
		Body: body, Decorators: decorators,
	}
}

// parseParamList parses the positional-only/regular/vararg/keyword-only/
// kwarg parameter sequence. annotations controls whether `: Type`
// annotations are accepted (defs) or not (lambdas, which still accept
// defaults).
func (p *Parser) parseParamList(annotations bool) []ast.Param {
	var params []ast.Param
	sawDefault := false
	sawVarArg := false
	sawKwArg := false
	sawKeywordOnlyMarker := false // bare '*' seen without a following name

	for !p.atOp(")") && !p.atOp(":") && !p.at(token.NEWLINE) && !p.at(token.EOF) {
		switch {
		case p.atOp("/"):
			p.consume()
			for i := range params {
				if params[i].Kind == ast.Regular {
					params[i].Kind = ast.PosOnly
				}
			}
		case p.atOp("**"):
			sp := p.consume().Span
			n, _, _ := p.parseName()
			var ann ast.TypeAnnotation
			if annotations && p.matchOp(":") {
				ann = p.parseTypeAnnotation()
			}
			if sawKwArg {
				p.diags.Addf(diag.MultipleVarArgs, sp, "only one **kwargs parameter is allowed")
			}
			sawKwArg = true
			params = append(params, ast.Param{Name: n, Annotation: ann, Kind: ast.KwArg})
		case p.atOp("*"):
			sp := p.consume().Span
			if p.at(token.IDENT) {
				n, _, _ := p.parseName()
				var ann ast.TypeAnnotation
				if annotations && p.matchOp(":") {
					ann = p.parseTypeAnnotation()
				}
				if sawVarArg {
					p.diags.Addf(diag.MultipleVarArgs, sp, "only one *args parameter is allowed")
				}
				sawVarArg = true
				params = append(params, ast.Param{Name: n, Annotation: ann, Kind: ast.VarArg})
			} else {
				sawKeywordOnlyMarker = true
			}
			sawDefault = false // defaults restart for the keyword-only region
		default:
			n, sp, ok := p.parseName()
			if !ok {
				p.sync()
				return params
			}
			var ann ast.TypeAnnotation
			if annotations && p.matchOp(":") {
				ann = p.parseTypeAnnotation()
			}
			var def ast.Expr
			if p.matchOp("=") {
				def = p.parseTest()
			}
			kind := ast.Regular
			if sawVarArg || sawKeywordOnlyMarker {
				kind = ast.KeywordOnly
			}
			if kind == ast.Regular {
				if def != nil {
					sawDefault = true
				} else if sawDefault {
					p.diags.Addf(diag.NonDefaultParamAfterDefault, sp, "non-default parameter %q follows a default parameter", n)
				}
			}
			params = append(params, ast.Param{Name: n, Annotation: ann, Default: def, Kind: kind})
		}
		if !p.matchOp(",") {
			break
		}
	}
	if sawKeywordOnlyMarker {
		hasKWOnly := false
		for _, pm := range params {
			if pm.Kind == ast.KeywordOnly {
				hasKWOnly = true
			}
		}
		if !hasKWOnly {
			p.errorHere(diag.BareStarWithoutKeywordParams, "bare '*' must be followed by at least one keyword-only parameter")
		}
	}
	return params
}

// parseExprOrAssign parses an expression statement and, if followed by
// `=`, `:`, or an augmented-assignment operator, reinterprets it as the
// appropriate assignment form.
func (p *Parser) parseExprOrAssign() ast.Stmt {
	start := p.here()
	first := p.parseTestList()
	if first == nil {
		p.errorHere(diag.ExpectedExpression, "expected statement")
		p.sync()
		return nil
	}

	if p.atOp(":") {
		p.consume()
		ann := p.parseTypeAnnotation()
		var value ast.Expr
		if p.matchOp("=") {
			value = p.parseTestList()
		}
		if !isAssignable(first) {
			p.diags.Addf(diag.InvalidAssignmentTarget, first.Span(), "invalid annotation target")
		}
		return &ast.AnnAssign{Base: base(start), Target: first, Annotation: ann, Value: value}
	}

	if op, ok := p.matchAugAssignOp(); ok {
		value := p.parseTestList()
		if !isAssignable(first) {
			p.diags.Addf(diag.InvalidAssignmentTarget, first.Span(), "invalid assignment target")
		}
		return &ast.AugAssign{Base: base(start), Target: first, Op: op, Value: value}
	}

	if p.atOp("=") {
		targets := []ast.Expr{first}
		var value ast.Expr
		for p.matchOp("=") {
			value = p.parseTestList()
			targets = append(targets, value)
		}
		// The last parsed expression is the value; everything before it is a target.
		value = targets[len(targets)-1]
		targets = targets[:len(targets)-1]
		for _, t := range targets {
			if !isAssignable(t) {
				p.diags.Addf(diag.InvalidAssignmentTarget, t.Span(), "invalid assignment target")
			}
		}
		return &ast.Assign{Base: base(start), Targets: targets, Value: value}
	}

	return &ast.ExprStmt{Base: base(start), Value: first}
}

var augAssignOps = []string{
	"+=", "-=", "*=", "/=", "//=", "%=", "**=", "&=", "|=", "^=", "<<=", ">>=", "@=",
}

func (p *Parser) matchAugAssignOp() (ast.AugAssignOp, bool) {
	for _, op := range augAssignOps {
		if p.atOp(op) {
			p.consume()
			return ast.AugAssignOp(op), true
		}
	}
	return "", false
}

// isAssignable reports whether expr is a valid assignment/for-target/
// del-target: a name, attribute, subscript, starred target, or a
// tuple/list of such. Anything else fails with InvalidAssignmentTarget.
func isAssignable(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Identifier, *ast.Attribute, *ast.Subscript:
		return true
	case *ast.Starred:
		return isAssignable(e.Value)
	case *ast.TupleExpr:
		for _, el := range e.Elts {
			if !isAssignable(el) {
				return false
			}
		}
		return true
	case *ast.ListExpr:
		for _, el := range e.Elts {
			if !isAssignable(el) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// parseTarget parses a single assignment-style target (for `for`, `with
// ... as`, `del`, `except ... as` uses an identifier directly instead).
func (p *Parser) parseTarget() ast.Expr {
	e := p.parseBitOr()
	if !isAssignable(e) {
		p.diags.Addf(diag.InvalidAssignmentTarget, e.Span(), "invalid target")
	}
	return e
}

// parseTargetList parses a `for` loop's target, which may be a bare name,
// a starred name, or a comma-separated (possibly parenthesized) tuple of
// such, without consuming the following `in`.
func (p *Parser) parseTargetList() ast.Expr {
	start := p.here()
	first := p.parseTargetItem()
	if !p.atOp(",") {
		return first
	}
	elts := []ast.Expr{first}
	for p.matchOp(",") {
		if p.atKeyword("in") {
			break
		}
		elts = append(elts, p.parseTargetItem())
	}
	return &ast.TupleExpr{Base: base(start), Elts: elts}
}

func (p *Parser) parseTargetItem() ast.Expr {
	if p.atOp("*") {
		sp := p.consume().Span
		v := p.parseBitOr()
		return &ast.Starred{Base: base(sp), Value: v}
	}
	return p.parseTarget()
}
