package ast_test

import (
	"testing"

	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/token"
)

func TestBaseSpan(t *testing.T) {
	sp := token.Span{Start: 1, End: 5}
	id := &ast.Identifier{Base: ast.Base{Sp: sp}, Name: "x"}

	var e ast.Expr = id
	if e.Span() != sp {
		t.Fatalf("expected Span() to return the embedded span, got %v", e.Span())
	}
}

func TestSealedInterfacesAreImplementedByConcreteNodes(t *testing.T) {
	var _ ast.Expr = (*ast.Binary)(nil)
	var _ ast.Stmt = (*ast.If)(nil)
	var _ ast.Pattern = (*ast.PatternWildcard)(nil)
	var _ ast.TypeAnnotation = (*ast.TypeName)(nil)
}
