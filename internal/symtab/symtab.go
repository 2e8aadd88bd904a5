// Package symtab implements a scoped symbol table: a stack of scopes
// supporting define/resolve plus the enclosing-function and module-only
// queries global/nonlocal need. Symbols live in an arena keyed by a
// stable id rather than being referenced by pointer, so cross-references
// between symbols are plain comparable values.
package symtab

import (
	"github.com/google/uuid"

	"github.com/Flyclops/stela/internal/token"
	"github.com/Flyclops/stela/internal/types"
)

// Kind is a symbol's role.
type Kind int

const (
	Variable Kind = iota
	Parameter
	Function
	Class
	Module
	Import
)

// ID is a stable symbol identity. Backed by uuid.UUID rather than a bare
// incrementing int so that cross-references (a function symbol's
// parameter types pointing at a class symbol, possibly forming a cycle
// for self-referential types) are plain comparable values instead of
// pointers — cycle-avoidance design.
type ID = uuid.UUID

// Symbol is `{name, kind, defining-span, type}` plus, for Function
// symbols, the recorded parameter/return types used by call checking.
type Symbol struct {
	ID ID
	Name string
	Kind Kind
	Span token.Span
	Type *types.Type

	// Function-only.
	Params []types.Param
	Return *types.Type

	// Used is set by internal/sema as it encounters reads, decorator
	// references and method-call-style attribute accesses; consulted at
	// scope exit for unused-binding detection.
	Used bool
}

// ScopeKind is the lexical role of a Scope.
type ScopeKind int

const (
	ModuleScope ScopeKind = iota
	FunctionScope
	ClassScope
	ComprehensionScope
	LambdaScope
)

// Scope holds one lexical level's name->symbol bindings and a running
// set of initialized names used by control-flow analysis for the
// innermost function it belongs to.
type Scope struct {
	Kind ScopeKind
	Parent *Scope
	names map[string]ID
	Initialized map[string]bool
}

func newScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{
		Kind: kind,
		Parent: parent,
		names: make(map[string]ID),
		Initialized: make(map[string]bool),
	}
}

// NewScope constructs a scope with an explicit parent without touching the
// stack, for the sema pre-pass: forward-declared function/class scopes are
// built ahead of the main traversal and attached to their defining AST node,
// then entered for real (via EnterScope) once the main pass reaches them.
func (t *Table) NewScope(kind ScopeKind, parent *Scope) *Scope {
	return newScope(kind, parent)
}

// EnterScope pushes a previously-constructed scope (see NewScope) onto the
// stack, as opposed to PushScope which always builds a fresh one parented to
// the current top.
func (t *Table) EnterScope(s *Scope) {
	t.stack = append(t.stack, s)
}

// Table is the arena-plus-scope-stack the analyzer drives.
type Table struct {
	arena map[ID]*Symbol
	stack []*Scope
}

// NewTable returns an empty table with no scopes pushed.
func NewTable() *Table {
	return &Table{arena: make(map[ID]*Symbol)}
}

// PushScope enters a new lexical scope whose parent is the current top of
// stack (or nil if this is the outermost scope).
func (t *Table) PushScope(kind ScopeKind) *Scope {
	var parent *Scope
	if len(t.stack) > 0 {
		parent = t.stack[len(t.stack)-1]
	}
	s := newScope(kind, parent)
	t.stack = append(t.stack, s)
	return s
}

// PopScope exits the current scope. The popped scope itself is not
// retained anywhere except implicitly through its symbols' defining spans
// (which remain reachable via the arena).
func (t *Table) PopScope() {
	t.stack = t.stack[:len(t.stack)-1]
}

// Current returns the innermost active scope, or nil if none is pushed.
func (t *Table) Current() *Scope {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

// NewSymbol allocates a Symbol in the arena and returns it unattached to
// any scope; callers call Define to bind it to a name.
func (t *Table) NewSymbol(name string, kind Kind, span token.Span, typ *types.Type) *Symbol {
	sym := &Symbol{ID: uuid.New(), Name: name, Kind: kind, Span: span, Type: typ}
	t.arena[sym.ID] = sym
	return sym
}

// Lookup resolves a symbol ID to its Symbol.
func (t *Table) Lookup(id ID) *Symbol {
	return t.arena[id]
}

// Define binds name to sym in the current scope. Variables are replaced
// silently on redefinition; functions and classes are rejected if
// already bound in this scope, and Define reports that by returning
// ok=false together with the existing Symbol so the caller
// (internal/sema) can emit a Redefinition diagnostic — diagnostics stay
// sema's responsibility so this package has no dependency on
// internal/diag.
func (t *Table) Define(scope *Scope, sym *Symbol) (ok bool, existing *Symbol) {
	if id, found := scope.names[sym.Name]; found {
		prev := t.arena[id]
		if sym.Kind == Function || sym.Kind == Class {
			return false, prev
		}
		if prev != nil && (prev.Kind == Function || prev.Kind == Class) {
			return false, prev
		}
	}
	scope.names[sym.Name] = sym.ID
	return true, nil
}

// OwnSymbols returns the symbols bound directly in scope (not inherited),
// for end-of-scope unused-binding detection.
func (t *Table) OwnSymbols(scope *Scope) []*Symbol {
	syms := make([]*Symbol, 0, len(scope.names))
	for _, id := range scope.names {
		syms = append(syms, t.arena[id])
	}
	return syms
}

// LookupLocal resolves name in exactly the given scope, no walking.
func (t *Table) LookupLocal(scope *Scope, name string) *Symbol {
	if scope == nil {
		return nil
	}
	if id, ok := scope.names[name]; ok {
		return t.arena[id]
	}
	return nil
}

// Resolve walks from scope outward through Parent links, returning the
// first matching Symbol.
func (t *Table) Resolve(scope *Scope, name string) *Symbol {
	for s := scope; s != nil; s = s.Parent {
		if id, ok := s.names[name]; ok {
			return t.arena[id]
		}
	}
	return nil
}

// EnclosingFunction returns the nearest FunctionScope or LambdaScope above
// scope (the search starts at scope.Parent),
// skipping over class/comprehension scopes the way `nonlocal` must
// (class-body bindings are not visible to nested functions).
func (t *Table) EnclosingFunction(scope *Scope) *Scope {
	for s := scope.Parent; s != nil; s = s.Parent {
		if s.Kind == FunctionScope || s.Kind == LambdaScope {
			return s
		}
	}
	return nil
}

// Module returns the outermost (module) scope reachable from scope.
func (t *Table) Module(scope *Scope) *Scope {
	s := scope
	for s.Parent != nil {
		s = s.Parent
	}
	return s
}

// ResolveEnclosingFunction looks up name starting at the nearest
// enclosing function scope (used to validate `nonlocal x`).
func (t *Table) ResolveEnclosingFunction(scope *Scope, name string) *Symbol {
	fn := t.EnclosingFunction(scope)
	if fn == nil {
		return nil
	}
	return t.Resolve(fn, name)
}

// ResolveModuleOnly looks up name starting at the module scope (used to
// implement `global x`).
func (t *Table) ResolveModuleOnly(scope *Scope, name string) *Symbol {
	return t.LookupLocal(t.Module(scope), name)
}
