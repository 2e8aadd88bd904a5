package sema

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/symtab"
	"github.com/Flyclops/stela/internal/types"
)

// inferCall implements function-call checking: callee resolution, builtin
// dispatch, then positional/keyword argument binding against a recorded
// parameter list when one is known.
func (a *Analyzer) inferCall(call *ast.Call) *types.Type {
	a.inferExpr(call.Callee)

	argTypes := make([]*types.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = a.inferExpr(arg)
	}
	for _, kw := range call.Keywords {
		a.inferExpr(kw.Value)
	}
	if call.Star != nil {
		a.inferExpr(call.Star)
	}
	if call.KwStar != nil {
		a.inferExpr(call.KwStar)
	}

	sym := a.calleeSymbol(call.Callee)
	if sym == nil {
		return types.UnknownT
	}
	if name, ok := a.builtinIDs[sym.ID]; ok {
		return builtinReturn(name, argTypes)
	}
	if sym.Kind == symtab.Function || (sym.Type != nil && sym.Type.Kind == types.FunctionKind) {
		a.checkCallArgs(call, sym, argTypes)
		if sym.Return != nil {
			return sym.Return
		}
		return types.UnknownT
	}
	return types.UnknownT
}

// calleeSymbol re-derives the already-resolved symbol for a direct-name
// callee; attribute/other callees have no recorded signature to check
// against (no class-member resolution, 4).
func (a *Analyzer) calleeSymbol(callee ast.Expr) *symtab.Symbol {
	id, ok := callee.(*ast.Identifier)
	if !ok {
		return nil
	}
	return a.table.Resolve(a.table.Current(), id.Name)
}

// checkCallArgs matches positional/keyword arguments against the callee's
// declared parameter list. Star-args or star-kwargs (on either side)
// suppress arity checking for the varargs region but declared keyword names
// are still type-checked where they match.
func (a *Analyzer) checkCallArgs(call *ast.Call, sym *symtab.Symbol, argTypes []*types.Type) {
	decls, ok := a.paramDecls[sym.ID]
	if !ok {
		return
	}

	var positional []ast.Param
	var kwOnly []ast.Param
	hasVarArg, hasKwArg := false, false
	for _, p := range decls {
		switch p.Kind {
		case ast.PosOnly, ast.Regular:
			positional = append(positional, p)
		case ast.VarArg:
			hasVarArg = true
		case ast.KeywordOnly:
			kwOnly = append(kwOnly, p)
		case ast.KwArg:
			hasKwArg = true
		}
	}

	suppressCount := call.Star != nil || call.KwStar != nil || hasVarArg || hasKwArg
	if !suppressCount {
		n := len(call.Args)
		required := 0
		missing := false
		for i, p := range positional {
			if p.Default != nil {
				continue
			}
			required++
			if i < n {
				continue
			}
			byKeyword := false
			for _, kw := range call.Keywords {
				if kw.Name == p.Name && p.Kind != ast.PosOnly {
					byKeyword = true
				}
			}
			if !byKeyword {
				missing = true
			}
		}
		if missing || n > len(positional) {
			a.diags.Addf(diag.ArgumentCountMismatch, call.Span(),
				"call takes %s, got %d", arityDescription(required, len(positional)), n)
		}
	}

	for i, at := range argTypes {
		if i >= len(positional) {
			break
		}
		pt := typeFromAnnotation(positional[i].Annotation)
		if !types.Compatible(pt, at) {
			a.diags.Addf(diag.ArgumentTypeMismatch, call.Args[i].Span(),
				"argument %q expects %s, got %s", positional[i].Name, pt, at)
		}
	}

	for _, kw := range call.Keywords {
		var matched *ast.Param
		for i := range positional {
			if positional[i].Name == kw.Name {
				matched = &positional[i]
				break
			}
		}
		if matched == nil {
			for i := range kwOnly {
				if kwOnly[i].Name == kw.Name {
					matched = &kwOnly[i]
					break
				}
			}
		}
		if matched == nil {
			continue // either **kwargs absorbs it, or it's a genuinely unknown name
		}
		pt := typeFromAnnotation(matched.Annotation)
		at := a.types[kw.Value]
		if at != nil && !types.Compatible(pt, at) {
			a.diags.Addf(diag.ArgumentTypeMismatch, kw.Value.Span(),
				"argument %q expects %s, got %s", kw.Name, pt, at)
		}
	}
}

func arityDescription(required, max int) string {
	if required == max {
		if required == 1 {
			return "1 positional argument"
		}
		return intStr(required) + " positional arguments"
	}
	return intStr(required) + " to " + intStr(max) + " positional arguments"
}

func intStr(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
