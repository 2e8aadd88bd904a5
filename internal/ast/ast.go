// Package ast defines the AST produced by internal/parser: a closed,
// enumerated set of node shapes ("Polymorphism across many node
// kinds" — tagged variants with exhaustive switch dispatch, not an
// interface hierarchy with behavior). The package is pure data: every
// field here is either a literal, a span, or another node; nothing in
// this package evaluates or executes anything, per invariant (b)
// "ASTs are immutable after parsing."
package ast

import "github.com/Flyclops/stela/internal/token"

// Node is the minimal capability every AST value has: a source span.
type Node interface {
	Span() token.Span
}

// Expr is the sealed interface implemented by every expression node kind
// listed in The unexported marker method closes the set to this
// package, giving callers an exhaustive switch target the same way a sum
// type would.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the sealed interface for statement node kinds.
type Stmt interface {
	Node
	stmtNode()
}

// Base is embedded by every concrete node to supply Span once.
type Base struct {
	Sp token.Span
}

func (b Base) Span() token.Span { return b.Sp }
