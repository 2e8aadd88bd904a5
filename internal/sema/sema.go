// Package sema implements a two-phase semantic analyzer: a pre-pass that
// forward-declares every function and class so mutual recursion resolves,
// followed by a single main-pass traversal that resolves names, infers and
// checks types, and runs the control-flow analysis (reachability, definite
// initialization, return-path validation). The traversal style is a
// non-executing, diagnostics-producing visitor generalized from a
// single-pass tree-walking evaluator.
package sema

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/diag"
	"github.com/Flyclops/stela/internal/symtab"
	"github.com/Flyclops/stela/internal/types"
)

// Result is the analyzer's output: the populated symbol table, every
// diagnostic raised, and the per-expression inferred types recorded along
// the way.
type Result struct {
	Table *symtab.Table
	Diags *diag.Bag
	Types map[ast.Expr]*types.Type
}

// funcCtx tracks the innermost enclosing function/lambda for return/yield/
// await context checks and return-type checking.
type funcCtx struct {
	returnType *types.Type
	hasAnnotation bool
	isAsync bool
}

// Analyzer holds the mutable state of one analysis run. Not reentrant or
// safe for concurrent use — analysis is single-threaded, synchronous,
// and in-memory.
type Analyzer struct {
	table *symtab.Table
	diags *diag.Bag
	types map[ast.Expr]*types.Type

	builtinIDs map[symtab.ID]string

	// scopeFor attaches the pre-pass's persistently-built scopes to their
	// defining FunctionDef/ClassDef node, so the main pass enters the same
	// scope object instead of building a fresh, empty one.
	scopeFor map[ast.Stmt]*symtab.Scope

	// paramDecls keeps each function's full parameter declarations (kind,
	// defaults) for call checking; types.Param intentionally only carries
	// (name, type) per type representation, so the richer shape
	// call-checking needs lives here instead.
	paramDecls map[symtab.ID][]ast.Param

	// funcsByName backs the "invoked as a method via attribute access"
	// use-tracking heuristic: Stela has no class-member resolution, so an
	// `x.foo(...)` marks every function symbol literally named foo,
	// anywhere in the program, as used.
	funcsByName map[string][]*symtab.Symbol

	// aliasScope records, per (scope, name), the scope a `global`/`nonlocal`
	// declaration redirects writes/reads to for the rest of that function.
	aliasScope map[*symtab.Scope]map[string]*symtab.Scope

	funcStack []*funcCtx
	loopDepth int
}

// Analyze runs the full pre-pass + main-pass pipeline over prog.
func Analyze(prog *ast.Program) *Result {
	a := &Analyzer{
		table: symtab.NewTable(),
		diags: &diag.Bag{},
		types: map[ast.Expr]*types.Type{},
		scopeFor: map[ast.Stmt]*symtab.Scope{},
		paramDecls: map[symtab.ID][]ast.Param{},
		funcsByName: map[string][]*symtab.Symbol{},
		aliasScope: map[*symtab.Scope]map[string]*symtab.Scope{},
	}

	// Builtins are seeded directly into the module scope, the implicit
	// outermost scope, rather than a separate parent scope, so that
	// Table.Module (used by `global`) lands on the same scope that holds
	// top-level names.
	moduleScope := a.table.NewScope(symtab.ModuleScope, nil)
	a.builtinIDs = seedBuiltins(a.table, moduleScope)
	a.prepass(prog.Body, moduleScope)

	a.table.EnterScope(moduleScope)
	a.visitBlock(prog.Body)
	// Unused-binding detection does not run at module scope: top-level names
	// routinely document a program's public surface, or exist for side
	// effects, without being read again locally. The check instead applies
	// at function, lambda, comprehension, and class scope exit.
	a.table.PopScope()

	return &Result{Table: a.table, Diags: a.diags, Types: a.types}
}

// checkUnused implements the end-of-scope unused-binding pass: Variables
// never read and Functions never referenced, excluding `_`-prefixed
// names, `main`, and anything already marked Used by a decorator or
// method-call-style reference.
func (a *Analyzer) checkUnused(scope *symtab.Scope) {
	for _, sym := range a.table.OwnSymbols(scope) {
		if sym.Used || len(sym.Name) == 0 || sym.Name[0] == '_' {
			continue
		}
		if _, isBuiltin := a.builtinIDs[sym.ID]; isBuiltin {
			continue
		}
		switch sym.Kind {
		case symtab.Variable:
			a.diags.Addf(diag.UnusedVariable, sym.Span, "%q is never used", sym.Name)
		case symtab.Function:
			if sym.Name == "main" {
				continue
			}
			a.diags.Addf(diag.UnusedFunction, sym.Span, "function %q is never used", sym.Name)
		}
	}
}

func kindName(k symtab.Kind) string {
	switch k {
	case symtab.Variable:
		return "variable"
	case symtab.Parameter:
		return "parameter"
	case symtab.Function:
		return "function"
	case symtab.Class:
		return "class"
	case symtab.Module:
		return "module"
	case symtab.Import:
		return "import"
	default:
		return "symbol"
	}
}
