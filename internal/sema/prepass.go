package sema

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/symtab"
	"github.com/Flyclops/stela/internal/types"
)

// prepass walks stmts looking for function/class declarations at any
// nesting depth, forward-declaring each so the main pass can resolve a
// call to a sibling defined later in the same block. It descends
// transparently through every non-scope-introducing construct
// (if/while/for/try/with/match) so a def nested inside one of those is
// still forward-declared in the enclosing function/module scope.
func (a *Analyzer) prepass(stmts []ast.Stmt, scope *symtab.Scope) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.FunctionDef:
			a.declareFunction(n, scope)
		case *ast.ClassDef:
			a.declareClass(n, scope)
		case *ast.If:
			a.prepass(n.Body, scope)
			a.prepass(n.Orelse, scope)
		case *ast.While:
			a.prepass(n.Body, scope)
			a.prepass(n.Orelse, scope)
		case *ast.For:
			a.prepass(n.Body, scope)
			a.prepass(n.Orelse, scope)
		case *ast.With:
			a.prepass(n.Body, scope)
		case *ast.Try:
			a.prepass(n.Body, scope)
			for _, h := range n.Handlers {
				a.prepass(h.Body, scope)
			}
			a.prepass(n.Orelse, scope)
			a.prepass(n.Finalbody, scope)
		case *ast.Match:
			for _, c := range n.Cases {
				a.prepass(c.Body, scope)
			}
		}
	}
}

func (a *Analyzer) declareFunction(n *ast.FunctionDef, scope *symtab.Scope) {
	params := make([]types.Param, len(n.Params))
	for i, p := range n.Params {
		params[i] = types.Param{Name: p.Name, Type: typeFromAnnotation(p.Annotation)}
	}
	ret := typeFromAnnotation(n.Returns)

	sym := a.table.NewSymbol(n.Name, symtab.Function, n.Span(), types.Function(params, ret))
	sym.Params = params
	sym.Return = ret
	a.paramDecls[sym.ID] = n.Params
	a.funcsByName[n.Name] = append(a.funcsByName[n.Name], sym)

	if ok, existing := a.table.Define(scope, sym); !ok {
		a.diags.Addf(diag.Redefinition, n.Span(),
			"function %q redefines %s %q defined at %s", n.Name, kindName(existing.Kind), existing.Name, existing.Span)
	}
	scope.Initialized[n.Name] = true

	fnScope := a.table.NewScope(symtab.FunctionScope, scope)
	a.scopeFor[n] = fnScope
	a.prepass(n.Body, fnScope)
}

func (a *Analyzer) declareClass(n *ast.ClassDef, scope *symtab.Scope) {
	sym := a.table.NewSymbol(n.Name, symtab.Class, n.Span(), types.UnknownT)
	if ok, existing := a.table.Define(scope, sym); !ok {
		a.diags.Addf(diag.Redefinition, n.Span(),
			"class %q redefines %s %q defined at %s", n.Name, kindName(existing.Kind), existing.Name, existing.Span)
	}
	scope.Initialized[n.Name] = true

	classScope := a.table.NewScope(symtab.ClassScope, scope)
	a.scopeFor[n] = classScope
	a.prepass(n.Body, classScope)
}
