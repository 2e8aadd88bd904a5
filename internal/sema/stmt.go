package sema

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/symtab"
	"github.com/Flyclops/stela/internal/token"
	"github.com/Flyclops/stela/internal/types"
)

// visitStmt dispatches over every statement kind, threading the
// control-flow summary the reachability merge rules are built from.
func (a *Analyzer) visitStmt(s ast.Stmt) flow {
	switch n := s.(type) {
	case *ast.ExprStmt:
		a.inferExpr(n.Value)
		return flow{}
	case *ast.Assign:
		return a.visitAssign(n)
	case *ast.AugAssign:
		return a.visitAugAssign(n)
	case *ast.AnnAssign:
		return a.visitAnnAssign(n)
	case *ast.If:
		return a.visitIf(n)
	case *ast.While:
		return a.visitWhile(n)
	case *ast.For:
		return a.visitFor(n)
	case *ast.FunctionDef:
		return a.visitFunctionDef(n)
	case *ast.ClassDef:
		return a.visitClassDef(n)
	case *ast.Return:
		return a.visitReturn(n)
	case *ast.Pass:
		return flow{}
	case *ast.Break:
		if a.loopDepth == 0 {
			a.diags.Addf(diag.ContextViolation, n.Span(), "'break' outside loop")
		}
		return flow{diverges: true}
	case *ast.Continue:
		if a.loopDepth == 0 {
			a.diags.Addf(diag.ContextViolation, n.Span(), "'continue' outside loop")
		}
		return flow{diverges: true}
	case *ast.Import:
		for _, al := range n.Names {
			a.bindImport(al, n.Span())
		}
		return flow{}
	case *ast.ImportFrom:
		for _, al := range n.Names {
			a.bindImport(al, n.Span())
		}
		return flow{}
	case *ast.Try:
		return a.visitTry(n)
	case *ast.With:
		return a.visitWith(n)
	case *ast.Match:
		return a.visitMatch(n)
	case *ast.Global:
		a.bindRedirect(n.Names, n.Span(), true)
		return flow{}
	case *ast.Nonlocal:
		a.bindRedirect(n.Names, n.Span(), false)
		return flow{}
	case *ast.Assert:
		a.inferExpr(n.Test)
		if n.Msg != nil {
			a.inferExpr(n.Msg)
		}
		return flow{}
	case *ast.Delete:
		for _, target := range n.Targets {
			a.inferExpr(target)
		}
		return flow{}
	case *ast.Raise:
		if n.Exc != nil {
			a.inferExpr(n.Exc)
		}
		if n.Cause != nil {
			a.inferExpr(n.Cause)
		}
		// A bare `raise` re-raises the active exception; both forms are
		// treated as diverging, a conservative choice since the analyzer
		// does no exception-type tracking.
		return flow{diverges: true}
	}
	return flow{}
}

func (a *Analyzer) bindImport(al ast.ImportAlias, span token.Span) {
	name := al.Name
	if al.AsName != "" {
		name = al.AsName
	}
	scope := a.table.Current()
	sym := a.table.NewSymbol(name, symtab.Import, span, types.UnknownT)
	a.table.Define(scope, sym)
	scope.Initialized[name] = true
}

// bindRedirect implements `global`/`nonlocal`: for the remainder of the
// current function, reads and writes of each named variable are redirected
// to the module scope (global) or the nearest enclosing function scope
// (nonlocal).
func (a *Analyzer) bindRedirect(names []string, span token.Span, isGlobal bool) {
	cur := a.table.Current()
	var target *symtab.Scope
	if isGlobal {
		target = a.table.Module(cur)
	} else {
		target = a.table.EnclosingFunction(cur)
		if target == nil {
			a.diags.Addf(diag.InvalidGlobalOrNonlocal, span, "nonlocal declaration not allowed at module scope")
			return
		}
	}
	if a.aliasScope[cur] == nil {
		a.aliasScope[cur] = map[string]*symtab.Scope{}
	}
	for _, name := range names {
		a.aliasScope[cur][name] = target
	}
}

func (a *Analyzer) visitReturn(n *ast.Return) flow {
	if len(a.funcStack) == 0 {
		a.diags.Addf(diag.ContextViolation, n.Span(), "'return' outside function")
	} else {
		ctx := a.funcStack[len(a.funcStack)-1]
		var vt *types.Type
		if n.Value != nil {
			vt = a.inferExpr(n.Value)
		} else {
			vt = types.NoneT
		}
		if ctx.hasAnnotation && !types.Compatible(ctx.returnType, vt) {
			a.diags.Addf(diag.ReturnTypeMismatch, n.Span(),
				"returns %s, expected %s", vt, ctx.returnType)
		}
	}
	return flow{diverges: true, returns: true}
}

func (a *Analyzer) visitIf(n *ast.If) flow {
	a.inferExpr(n.Test)
	thenFlow := a.visitBlock(n.Body)
	hasElse := len(n.Orelse) > 0
	var elseFlow flow
	if hasElse {
		elseFlow = a.visitBlock(n.Orelse)
	}
	return flow{
		diverges: thenFlow.diverges && hasElse && elseFlow.diverges,
		returns: thenFlow.returns && hasElse && elseFlow.returns,
	}
}

func (a *Analyzer) visitWhile(n *ast.While) flow {
	a.inferExpr(n.Test)
	a.loopDepth++
	bodyFlow := a.visitBlock(n.Body)
	a.loopDepth--
	if len(n.Orelse) > 0 {
		a.visitBlock(n.Orelse)
	}
	if isLiteralTrue(n.Test) && !containsBreak(n.Body) {
		return flow{diverges: true, returns: bodyFlow.returns}
	}
	return flow{}
}

func (a *Analyzer) visitFor(n *ast.For) flow {
	iterT := a.inferExpr(n.Iter)
	a.bindTarget(n.Target, elementTypeOf(iterT))
	a.loopDepth++
	a.visitBlock(n.Body)
	a.loopDepth--
	if len(n.Orelse) > 0 {
		a.visitBlock(n.Orelse)
	}
	// A for-loop's iterable may be empty, so it never guarantees divergence.
	return flow{}
}

func (a *Analyzer) visitFunctionDef(n *ast.FunctionDef) flow {
	for _, d := range n.Decorators {
		a.inferExpr(d)
	}
	for _, p := range n.Params {
		if p.Default != nil {
			a.inferExpr(p.Default)
		}
	}

	scope := a.scopeFor[n]
	a.table.EnterScope(scope)
	ctx := &funcCtx{
		returnType: typeFromAnnotation(n.Returns),
		hasAnnotation: n.Returns != nil,
		isAsync: n.IsAsync,
	}
	a.funcStack = append(a.funcStack, ctx)

	for _, p := range n.Params {
		sym := a.table.NewSymbol(p.Name, symtab.Parameter, n.Span(), typeFromAnnotation(p.Annotation))
		a.table.Define(scope, sym)
		scope.Initialized[p.Name] = true
	}

	bodyFlow := a.visitBlock(n.Body)

	if ctx.hasAnnotation && !acceptsNone(ctx.returnType) && !bodyFlow.returns {
		a.diags.Addf(diag.MissingReturn, n.Span(),
			"function %q does not return %s on all paths", n.Name, ctx.returnType)
	}

	a.checkUnused(scope)
	a.funcStack = a.funcStack[:len(a.funcStack)-1]
	a.table.PopScope()
	return flow{}
}

func (a *Analyzer) visitClassDef(n *ast.ClassDef) flow {
	for _, d := range n.Decorators {
		a.inferExpr(d)
	}
	for _, b := range n.Bases {
		a.inferExpr(b)
	}
	for _, kw := range n.KeywordBases {
		a.inferExpr(kw.Value)
	}

	scope := a.scopeFor[n]
	a.table.EnterScope(scope)
	a.visitBlock(n.Body)
	a.checkUnused(scope)
	a.table.PopScope()
	return flow{}
}

func (a *Analyzer) visitWith(n *ast.With) flow {
	for _, item := range n.Items {
		ctxType := a.inferExpr(item.ContextExpr)
		if item.Target != nil {
			a.bindTarget(item.Target, ctxType)
		}
	}
	return a.visitBlock(n.Body)
}

// visitTry implements an approximate try/except/finally merge rule: any
// exception may interrupt the body at any point, so the body's own
// divergence doesn't propagate past the statement unless every handler
// also diverges; a `finally` block that diverges overrides everything,
// since it always runs. This is a deliberate, conservative approximation
// rather than full path-sensitive exception tracking.
func (a *Analyzer) visitTry(n *ast.Try) flow {
	bodyFlow := a.visitBlock(n.Body)

	hasOrelse := len(n.Orelse) > 0
	var orelseFlow flow
	if hasOrelse {
		orelseFlow = a.visitBlock(n.Orelse)
	}

	handlerFlows := make([]flow, len(n.Handlers))
	for i, h := range n.Handlers {
		if h.Type != nil {
			a.inferExpr(h.Type)
		}
		if h.Name != "" {
			a.defineOrAssign(h.Name, h.Span(), types.UnknownT)
		}
		handlerFlows[i] = a.visitBlock(h.Body)
	}

	var finalFlow flow
	if len(n.Finalbody) > 0 {
		finalFlow = a.visitBlock(n.Finalbody)
	}

	successDiverges := bodyFlow.diverges
	successReturns := bodyFlow.returns
	if hasOrelse {
		successDiverges = orelseFlow.diverges
		successReturns = orelseFlow.returns
	}

	allHandlersDiverge := len(handlerFlows) > 0
	allHandlersReturn := len(handlerFlows) > 0
	for _, hf := range handlerFlows {
		allHandlersDiverge = allHandlersDiverge && hf.diverges
		allHandlersReturn = allHandlersReturn && hf.returns
	}

	diverges := finalFlow.diverges || (successDiverges && allHandlersDiverge)
	returns := finalFlow.returns || (successReturns && allHandlersReturn)
	return flow{diverges: diverges, returns: returns}
}

// visitMatch implements the match-statement merge rule: the statement
// only guarantees divergence/return when every case diverges/returns AND
// at least one case is an unconditional catch-all (no wildcard means some
// subject value could fall through matching nothing).
func (a *Analyzer) visitMatch(n *ast.Match) flow {
	a.inferExpr(n.Subject)

	hasExhaustive := false
	allDiverge := len(n.Cases) > 0
	allReturn := len(n.Cases) > 0
	for _, c := range n.Cases {
		a.bindPattern(c.Pattern)
		cf := a.visitBlock(c.Body)
		allDiverge = allDiverge && cf.diverges
		allReturn = allReturn && cf.returns
		if isExhaustivePattern(c.Pattern) {
			hasExhaustive = true
		}
	}

	return flow{
		diverges: hasExhaustive && allDiverge,
		returns: hasExhaustive && allReturn,
	}
}
