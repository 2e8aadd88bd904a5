package sema

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/symtab"
	"github.com/Flyclops/stela/internal/types"
)

// inferExpr dispatches over every expression node kind, resolving names,
// checking operations and recording the inferred type for every
// sub-expression into a.types so later passes (and diagnostics) need not
// recompute it.
func (a *Analyzer) inferExpr(e ast.Expr) *types.Type {
	t := a.inferExprRaw(e)
	if t == nil {
		t = types.UnknownT
	}
	a.types[e] = t
	return t
}

func (a *Analyzer) inferExprRaw(e ast.Expr) *types.Type {
	switch n := e.(type) {
	case *ast.Literal:
		return literalType(n)
	case *ast.FString:
		for _, part := range n.Parts {
			if part.Expr != nil {
				a.inferExpr(part.Expr)
			}
		}
		return types.StrT
	case *ast.Identifier:
		return a.resolveRead(n)
	case *ast.Binary:
		lhs := a.inferExpr(n.Lhs)
		rhs := a.inferExpr(n.Rhs)
		if invalidOperation(n.Op, lhs, rhs) {
			a.diags.Addf(diag.InvalidOperationForTypes, n.Span(),
				"operator %q is not defined for %s and %s", n.Op, lhs, rhs)
		}
		return inferBinary(n.Op, lhs, rhs)
	case *ast.Unary:
		operand := a.inferExpr(n.Operand)
		return inferUnary(n.Op, operand)
	case *ast.Compare:
		a.inferExpr(n.Lhs)
		for _, link := range n.Chain {
			a.inferExpr(link.Rhs)
		}
		return types.BoolT
	case *ast.BoolOp:
		var first *types.Type
		for i, op := range n.Operands {
			t := a.inferExpr(op)
			if i == 0 {
				first = t
			}
		}
		if first == nil {
			return types.UnknownT
		}
		return first
	case *ast.Call:
		return a.inferCall(n)
	case *ast.Subscript:
		return a.inferSubscript(n)
	case *ast.Attribute:
		a.inferExpr(n.Value)
		if syms, ok := a.funcsByName[n.Name]; ok {
			for _, sym := range syms {
				sym.Used = true
			}
		}
		return types.UnknownT
	case *ast.ListExpr:
		var elem *types.Type
		for _, elt := range n.Elts {
			elem = joinElem(elem, a.inferExpr(elt))
		}
		if elem == nil {
			elem = types.UnknownT
		}
		return types.List(elem)
	case *ast.SetExpr:
		var elem *types.Type
		for _, elt := range n.Elts {
			elem = joinElem(elem, a.inferExpr(elt))
		}
		if elem == nil {
			elem = types.UnknownT
		}
		return types.Set(elem)
	case *ast.TupleExpr:
		elts := make([]*types.Type, len(n.Elts))
		for i, elt := range n.Elts {
			elts[i] = a.inferExpr(elt)
		}
		return types.Tuple(elts...)
	case *ast.DictExpr:
		var key, val *types.Type
		for _, entry := range n.Entries {
			if entry.Key != nil {
				key = joinElem(key, a.inferExpr(entry.Key))
			} else {
				a.inferExpr(entry.Value) // **spread entry
				continue
			}
			val = joinElem(val, a.inferExpr(entry.Value))
		}
		if key == nil {
			key = types.UnknownT
		}
		if val == nil {
			val = types.UnknownT
		}
		return types.Dict(key, val)
	case *ast.ListComp:
		elem := a.inferComprehension(n.Generators, func() *types.Type { return a.inferExpr(n.Elt) })
		return types.List(elem)
	case *ast.SetComp:
		elem := a.inferComprehension(n.Generators, func() *types.Type { return a.inferExpr(n.Elt) })
		return types.Set(elem)
	case *ast.GenExp:
		elem := a.inferComprehension(n.Generators, func() *types.Type { return a.inferExpr(n.Elt) })
		return types.List(elem)
	case *ast.DictComp:
		var key, val *types.Type
		a.inferComprehension(n.Generators, func() *types.Type {
			key = a.inferExpr(n.Key)
			val = a.inferExpr(n.Value)
			return nil
		})
		if key == nil {
			key = types.UnknownT
		}
		if val == nil {
			val = types.UnknownT
		}
		return types.Dict(key, val)
	case *ast.Lambda:
		return a.inferLambda(n)
	case *ast.IfExpr:
		a.inferExpr(n.Test)
		thenT := a.inferExpr(n.Then)
		elseT := a.inferExpr(n.Else)
		return joinElem(thenT, elseT)
	case *ast.NamedExpr:
		vt := a.inferExpr(n.Value)
		a.defineOrAssign(n.Target.Name, n.Target.Span(), vt)
		return vt
	case *ast.Slice:
		if n.Start != nil {
			a.inferExpr(n.Start)
		}
		if n.Stop != nil {
			a.inferExpr(n.Stop)
		}
		if n.Step != nil {
			a.inferExpr(n.Step)
		}
		return types.UnknownT
	case *ast.Starred:
		return a.inferExpr(n.Value)
	case *ast.Yield:
		if len(a.funcStack) == 0 {
			a.diags.Addf(diag.ContextViolation, n.Span(), "'yield' outside function")
		}
		if n.Value != nil {
			a.inferExpr(n.Value)
		}
		return types.UnknownT
	case *ast.Await:
		if len(a.funcStack) == 0 || !a.funcStack[len(a.funcStack)-1].isAsync {
			a.diags.Addf(diag.ContextViolation, n.Span(), "'await' outside async function")
		}
		a.inferExpr(n.Value)
		return types.UnknownT
	}
	return types.UnknownT
}

func literalType(n *ast.Literal) *types.Type {
	switch n.Kind {
	case ast.LitInt:
		return types.IntT
	case ast.LitFloat:
		return types.FloatT
	case ast.LitStr:
		return types.StrT
	case ast.LitBytes:
		return types.BytesT
	case ast.LitBool:
		return types.BoolT
	case ast.LitNone:
		return types.NoneT
	default: // Ellipsis, NotImplemented
		return types.UnknownT
	}
}

// resolveRead looks a name up through the scope chain, recording its use
// and flagging reads of a not-yet-initialized local (definite
// initialization).
func (a *Analyzer) resolveRead(id *ast.Identifier) *types.Type {
	scope := a.table.Current()
	sym := a.table.Resolve(scope, id.Name)
	if sym == nil {
		a.diags.Addf(diag.UndefinedName, id.Span(), "name %q is not defined", id.Name)
		return types.UnknownT
	}
	sym.Used = true
	if sym.Kind == symtab.Variable && !a.isInitialized(scope, id.Name) {
		a.diags.Addf(diag.UninitializedVariable, id.Span(), "%q may be used before assignment", id.Name)
	}
	return sym.Type
}

// isInitialized walks outward from scope looking for the nearest scope that
// binds name, then reports whether that scope's Initialized set has seen an
// assignment to it yet. Closures inherit outer scopes' initialized sets
// simply by virtue of this same scope-stack walk.
func (a *Analyzer) isInitialized(scope *symtab.Scope, name string) bool {
	for s := scope; s != nil; s = s.Parent {
		if a.table.LookupLocal(s, name) == nil {
			continue
		}
		return s.Initialized[name]
	}
	return true
}

// inferLambda pushes a fresh lambda scope and function context, defines its
// parameters (and their enclosing-scope-evaluated defaults), and infers the
// body expression.
func (a *Analyzer) inferLambda(n *ast.Lambda) *types.Type {
	for _, p := range n.Params {
		if p.Default != nil {
			a.inferExpr(p.Default)
		}
	}

	scope := a.table.PushScope(symtab.LambdaScope)
	a.funcStack = append(a.funcStack, &funcCtx{returnType: types.UnknownT})
	params := make([]types.Param, len(n.Params))
	for i, p := range n.Params {
		span := n.Span()
		if p.Default != nil {
			span = p.Default.Span()
		}
		sym := a.table.NewSymbol(p.Name, symtab.Parameter, span, types.UnknownT)
		a.table.Define(scope, sym)
		scope.Initialized[p.Name] = true
		params[i] = types.Param{Name: p.Name, Type: types.UnknownT}
	}
	bodyT := a.inferExpr(n.Body)
	a.checkUnused(scope)
	a.funcStack = a.funcStack[:len(a.funcStack)-1]
	a.table.PopScope()
	return types.Function(params, bodyT)
}

// inferSubscript infers value[index], applying a best-effort
// InvalidSubscriptIndex check for the container shapes handled
// explicitly (list/dict/tuple); anything else degrades to Unknown.
func (a *Analyzer) inferSubscript(n *ast.Subscript) *types.Type {
	vt := a.inferExpr(n.Value)

	if slice, ok := n.Index.(*ast.Slice); ok {
		a.inferExpr(slice)
		if vt != nil && vt.Kind == types.ListKind {
			return vt
		}
		return types.UnknownT
	}

	it := a.inferExpr(n.Index)
	if vt == nil {
		return types.UnknownT
	}
	switch vt.Kind {
	case types.ListKind:
		if it.Kind != types.Int && it.Kind != types.Unknown && it.Kind != types.Any {
			a.diags.Addf(diag.InvalidSubscriptIndex, n.Index.Span(), "list index must be int, got %s", it)
		}
		return vt.Elem
	case types.DictKind:
		if !types.Compatible(vt.Key, it) {
			a.diags.Addf(diag.InvalidSubscriptIndex, n.Index.Span(), "dict key must be %s, got %s", vt.Key, it)
		}
		return vt.Val
	case types.TupleKind:
		if lit, ok := n.Index.(*ast.Literal); ok && lit.Kind == ast.LitInt && lit.IntTok != nil && lit.IntTok.IntValue != nil {
			i := int(lit.IntTok.IntValue.Int64())
			if i < 0 {
				i += len(vt.Elts)
			}
			if i < 0 || i >= len(vt.Elts) {
				a.diags.Addf(diag.InvalidSubscriptIndex, n.Index.Span(), "tuple index %d out of range", i)
				return types.UnknownT
			}
			return vt.Elts[i]
		}
		return types.UnknownT
	case types.Str, types.Bytes:
		return vt
	default:
		return types.UnknownT
	}
}

// inferComprehension implements Python-3 comprehension scoping: the first
// generator's iterable is evaluated in the enclosing scope, before
// the fresh comprehension scope is pushed; every subsequent generator
// (including its own iterable) and every `if` guard run inside that new
// scope so later clauses may reference earlier targets. body is invoked once
// the final generator's target is bound, with the comprehension scope
// current.
func (a *Analyzer) inferComprehension(gens []ast.Comprehension, body func() *types.Type) *types.Type {
	if len(gens) == 0 {
		return body()
	}
	firstIter := a.inferExpr(gens[0].Iter)

	scope := a.table.PushScope(symtab.ComprehensionScope)
	defer a.table.PopScope()

	a.bindTarget(gens[0].Target, elementTypeOf(firstIter))
	for _, cond := range gens[0].Ifs {
		a.inferExpr(cond)
	}

	for _, gen := range gens[1:] {
		it := a.inferExpr(gen.Iter)
		a.bindTarget(gen.Target, elementTypeOf(it))
		for _, cond := range gen.Ifs {
			a.inferExpr(cond)
		}
	}

	result := body()
	a.checkUnused(scope)
	return result
}
