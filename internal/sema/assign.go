package sema

import (
	"strings"

	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/symtab"
	"github.com/Flyclops/stela/internal/token"
	"github.com/Flyclops/stela/internal/types"
)

// targetScope returns the scope a write to name actually lands in: the
// current scope, unless a `global`/`nonlocal` declaration earlier in this
// function redirected it.
func (a *Analyzer) targetScope(name string) *symtab.Scope {
	cur := a.table.Current()
	if redirects, ok := a.aliasScope[cur]; ok {
		if s, ok := redirects[name]; ok {
			return s
		}
	}
	return cur
}

// defineOrAssign binds name in its target scope, creating a fresh Variable
// symbol on first assignment and updating its recorded type on every
// subsequent one (variables are replaced silently on redefinition), and
// marks the name initialized for control-flow purposes.
func (a *Analyzer) defineOrAssign(name string, span token.Span, vt *types.Type) {
	scope := a.targetScope(name)
	sym := a.table.LookupLocal(scope, name)
	if sym == nil {
		sym = a.table.NewSymbol(name, symtab.Variable, span, vt)
		a.table.Define(scope, sym)
	} else if sym.Kind == symtab.Variable {
		sym.Type = vt
	}
	scope.Initialized[name] = true
}

// bindTarget implements assignment-target binding for Assign/AugAssign/
// For/With/walrus targets: names and nested tuple/list/starred structures
// bind; attribute and subscript targets are writes through an existing
// value, so only their base expression is read.
func (a *Analyzer) bindTarget(target ast.Expr, vt *types.Type) {
	switch t := target.(type) {
	case *ast.Identifier:
		a.defineOrAssign(t.Name, t.Span(), vt)
	case *ast.TupleExpr:
		for _, e := range t.Elts {
			a.bindTarget(e, elementTypeOf(vt))
		}
	case *ast.ListExpr:
		for _, e := range t.Elts {
			a.bindTarget(e, elementTypeOf(vt))
		}
	case *ast.Starred:
		a.bindTarget(t.Value, types.List(vt))
	case *ast.Attribute:
		a.inferExpr(t.Value)
	case *ast.Subscript:
		a.inferExpr(t.Value)
		a.inferExpr(t.Index)
	default:
		a.inferExpr(target)
	}
}

// elementTypeOf approximates the per-element type when destructuring a
// container target; anything not obviously a known container degrades to
// Unknown rather than mis-claiming a scalar shape.
func elementTypeOf(vt *types.Type) *types.Type {
	if vt == nil {
		return types.UnknownT
	}
	switch vt.Kind {
	case types.ListKind, types.SetKind:
		return vt.Elem
	case types.TupleKind:
		return types.UnknownT
	}
	return types.UnknownT
}

func (a *Analyzer) visitAssign(n *ast.Assign) flow {
	vt := a.inferExpr(n.Value)
	for _, target := range n.Targets {
		a.bindTarget(target, vt)
	}
	return flow{}
}

// binOpFromAug strips the trailing `=` from an augmented-assignment
// operator to reuse inferBinary's table (`+=` -> `+`, `//=` -> `//`).
func binOpFromAug(op ast.AugAssignOp) ast.BinaryOp {
	return ast.BinaryOp(strings.TrimSuffix(string(op), "="))
}

func (a *Analyzer) visitAugAssign(n *ast.AugAssign) flow {
	curType := a.inferExpr(n.Target)
	valType := a.inferExpr(n.Value)
	result := inferBinary(binOpFromAug(n.Op), curType, valType)
	a.bindTarget(n.Target, result)
	return flow{}
}

func (a *Analyzer) visitAnnAssign(n *ast.AnnAssign) flow {
	declared := typeFromAnnotation(n.Annotation)
	if n.Value != nil {
		vt := a.inferExpr(n.Value)
		if !types.Compatible(declared, vt) {
			a.diags.Addf(diag.AssignmentTypeMismatch, n.Value.Span(),
				"cannot assign %s to variable annotated %s", vt, declared)
		}
		a.bindTarget(n.Target, declared)
		return flow{}
	}
	// `x: T` with no initializer declares the name without initializing it.
	if id, ok := n.Target.(*ast.Identifier); ok {
		scope := a.targetScope(id.Name)
		if a.table.LookupLocal(scope, id.Name) == nil {
			sym := a.table.NewSymbol(id.Name, symtab.Variable, id.Span(), declared)
			a.table.Define(scope, sym)
		}
		return flow{}
	}
	a.inferExpr(n.Target)
	return flow{}
}
