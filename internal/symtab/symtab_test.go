package symtab_test

import (
	"testing"

	"github.com/Flyclops/stela/internal/symtab"
	"github.com/Flyclops/stela/internal/token"
	"github.com/Flyclops/stela/internal/types"
)

func TestDefineAndResolve(t *testing.T) {
	table := symtab.NewTable()
	outer := table.PushScope(symtab.ModuleScope)

	sym := table.NewSymbol("x", symtab.Variable, token.Span{}, types.IntT)
	ok, existing := table.Define(outer, sym)
	if !ok || existing != nil {
		t.Fatalf("expected first definition of x to succeed cleanly")
	}

	inner := table.PushScope(symtab.FunctionScope)
	if got := table.Resolve(inner, "x"); got == nil || got.ID != sym.ID {
		t.Fatalf("expected inner scope to resolve x from the enclosing module scope")
	}
	if got := table.LookupLocal(inner, "x"); got != nil {
		t.Fatalf("did not expect x bound directly in the inner scope")
	}
}

func TestVariableRedefinitionReplacesSilently(t *testing.T) {
	table := symtab.NewTable()
	scope := table.PushScope(symtab.ModuleScope)

	first := table.NewSymbol("x", symtab.Variable, token.Span{}, types.IntT)
	table.Define(scope, first)

	second := table.NewSymbol("x", symtab.Variable, token.Span{}, types.StrT)
	ok, existing := table.Define(scope, second)
	if !ok {
		t.Fatalf("expected variable redefinition to succeed")
	}
	if existing != nil {
		t.Fatalf("variable redefinition should not report a conflicting existing symbol")
	}
	if got := table.LookupLocal(scope, "x"); got.ID != second.ID {
		t.Fatalf("expected the second definition to win")
	}
}

func TestFunctionRedefinitionRejected(t *testing.T) {
	table := symtab.NewTable()
	scope := table.PushScope(symtab.ModuleScope)

	first := table.NewSymbol("f", symtab.Function, token.Span{}, types.Function(nil, types.NoneT))
	table.Define(scope, first)

	second := table.NewSymbol("f", symtab.Function, token.Span{}, types.Function(nil, types.NoneT))
	ok, existing := table.Define(scope, second)
	if ok {
		t.Fatalf("expected redefining a function in the same scope to be rejected")
	}
	if existing == nil || existing.ID != first.ID {
		t.Fatalf("expected the rejection to report the first definition")
	}
}

func TestEnclosingFunctionSkipsClassAndComprehensionScopes(t *testing.T) {
	table := symtab.NewTable()
	table.PushScope(symtab.ModuleScope)
	fnScope := table.PushScope(symtab.FunctionScope)
	classScope := table.PushScope(symtab.ClassScope)
	compScope := table.PushScope(symtab.ComprehensionScope)

	if got := table.EnclosingFunction(compScope); got != fnScope {
		t.Fatalf("expected EnclosingFunction to skip the class/comprehension scopes")
	}
	_ = classScope
}

func TestResolveModuleOnly(t *testing.T) {
	table := symtab.NewTable()
	module := table.PushScope(symtab.ModuleScope)
	g := table.NewSymbol("g", symtab.Variable, token.Span{}, types.IntT)
	table.Define(module, g)

	fnScope := table.PushScope(symtab.FunctionScope)
	if got := table.ResolveModuleOnly(fnScope, "g"); got == nil || got.ID != g.ID {
		t.Fatalf("expected ResolveModuleOnly to find the module-scope binding")
	}
}

func TestOwnSymbolsDoesNotIncludeInherited(t *testing.T) {
	table := symtab.NewTable()
	outer := table.PushScope(symtab.ModuleScope)
	table.Define(outer, table.NewSymbol("a", symtab.Variable, token.Span{}, types.IntT))

	inner := table.PushScope(symtab.FunctionScope)
	table.Define(inner, table.NewSymbol("b", symtab.Variable, token.Span{}, types.IntT))

	own := table.OwnSymbols(inner)
	if len(own) != 1 || own[0].Name != "b" {
		t.Fatalf("expected OwnSymbols(inner) to contain only b, got %v", own)
	}
}
