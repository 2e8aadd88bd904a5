package sema

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
)

// flow is the per-statement/per-block control-flow summary 4
// threads through the merge-rules table: diverges means control can never
// fall through past this point (return, raise, break, continue, or an
// exhaustive construct all of whose branches diverge); returns means every
// surviving path executed an explicit `return` (used by the MissingReturn
// check). returns implies diverges but not conversely.
type flow struct {
	diverges bool
	returns bool
}

// visitBlock folds visitStmt over a statement sequence, applying the
// "unreachable after divergence" rule: the first statement after an
// unconditionally-diverging one is flagged UnreachableCode (once per block,
// not once per trailing statement, matching).
func (a *Analyzer) visitBlock(stmts []ast.Stmt) flow {
	reachable := true
	warned := false
	returns := false
	for _, s := range stmts {
		if !reachable && !warned {
			a.diags.Addf(diag.UnreachableCode, s.Span(), "unreachable code")
			warned = true
		}
		f := a.visitStmt(s)
		if reachable && f.diverges {
			reachable = false
			returns = f.returns
		}
	}
	return flow{diverges: !reachable, returns: returns}
}

// isLiteralTrue reports whether e is the literal `True`, used to recognize
// `while True` as an unconditional loop for the merge-rules table.
func isLiteralTrue(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.Kind == ast.LitBool && lit.Bool
}

// containsBreak reports whether a bare `break` is reachable from stmts
// without crossing into a nested loop or function/class/lambda boundary
// (a break there belongs to that inner construct, not this one).
func containsBreak(stmts []ast.Stmt) bool {
	for _, s := range stmts {
		if stmtContainsBreak(s) {
			return true
		}
	}
	return false
}

func stmtContainsBreak(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.Break:
		return true
	case *ast.If:
		return containsBreak(n.Body) || containsBreak(n.Orelse)
	case *ast.Try:
		if containsBreak(n.Body) || containsBreak(n.Orelse) || containsBreak(n.Finalbody) {
			return true
		}
		for _, h := range n.Handlers {
			if containsBreak(h.Body) {
				return true
			}
		}
		return false
	case *ast.With:
		return containsBreak(n.Body)
	case *ast.Match:
		for _, c := range n.Cases {
			if containsBreak(c.Body) {
				return true
			}
		}
		return false
		// For/While introduce their own loop: a break inside belongs to them.
		// FunctionDef/ClassDef introduce their own scope entirely.
	default:
		return false
	}
}

// isExhaustivePattern reports whether a case's pattern matches unconditionally
// (no guard, and a bare wildcard/capture/as-wildcard at the top), making the
// case a true "else" arm for Match's merge rule.
func isExhaustivePattern(p ast.Pattern) bool {
	switch n := p.(type) {
	case *ast.PatternWildcard, *ast.PatternCapture:
		return true
	case *ast.PatternAs:
		return isExhaustivePattern(n.Inner)
	default:
		return false
	}
}
