package sema

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/types"
)

// bindPattern walks a match/case pattern, binding capture/star/as names as
// fresh variables in the current scope and recursing through the
// structural forms. Literal patterns are reads, not bindings.
func (a *Analyzer) bindPattern(p ast.Pattern) {
	switch n := p.(type) {
	case *ast.PatternLiteral:
		a.inferExpr(n.Value)
	case *ast.PatternCapture:
		a.defineOrAssign(n.Name, n.Span(), types.UnknownT)
	case *ast.PatternWildcard:
		// matches anything, binds nothing
	case *ast.PatternStar:
		if n.Name != "" {
			a.defineOrAssign(n.Name, n.Span(), types.List(types.UnknownT))
		}
	case *ast.PatternSequence:
		for _, e := range n.Elts {
			a.bindPattern(e)
		}
	case *ast.PatternMapping:
		for _, e := range n.Entries {
			a.inferExpr(e.Key)
			a.bindPattern(e.Value)
		}
		if n.Rest != "" {
			a.defineOrAssign(n.Rest, n.Span(), types.Dict(types.UnknownT, types.UnknownT))
		}
	case *ast.PatternClass:
		for _, sub := range n.Positional {
			a.bindPattern(sub)
		}
		for _, sub := range n.Keywords {
			a.bindPattern(sub)
		}
	case *ast.PatternOr:
		// every alternative binds the same names; binding each in turn is
		// sufficient since this package does no exhaustiveness cross-check
		// between alternatives.
		for _, alt := range n.Alternatives {
			a.bindPattern(alt)
		}
	case *ast.PatternAs:
		a.bindPattern(n.Inner)
		a.defineOrAssign(n.Name, n.Span(), types.UnknownT)
	case *ast.PatternGuard:
		a.bindPattern(n.Inner)
		a.inferExpr(n.Guard)
	}
}
