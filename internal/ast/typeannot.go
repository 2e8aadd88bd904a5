package ast

// TypeAnnotation is the sealed interface for syntax-level type
// annotations. These are distinct from internal/types.Type, which is the
// semantic type the analyzer infers and checks; a TypeAnnotation is what
// the programmer wrote, a types.Type is what the analyzer resolved it to.
type TypeAnnotation interface {
	Node
	typeAnnotationNode()
}

// TypeName is a bare name reference, e.g. `int`, `MyClass`.
type TypeName struct {
	Base
	Name string
}

func (*TypeName) typeAnnotationNode() {}

// TypeGeneric is `Base[Args...]`, e.g. `list[int]`, `dict[str, int]`.
type TypeGeneric struct {
	Base
	BaseName string
	Args []TypeAnnotation
}

func (*TypeGeneric) typeAnnotationNode() {}

// TypeUnion is `A | B | ...`.
type TypeUnion struct {
	Base
	Operands []TypeAnnotation
}

func (*TypeUnion) typeAnnotationNode() {}

// TypeOptional is `Optional[T]`.
type TypeOptional struct {
	Base
	Inner TypeAnnotation
}

func (*TypeOptional) typeAnnotationNode() {}

// TypeCallable is `Callable[[Params...], Ret]`.
type TypeCallable struct {
	Base
	Params []TypeAnnotation
	Ret TypeAnnotation
}

func (*TypeCallable) typeAnnotationNode() {}

// TypeTuple is `tuple[T1, T2, ...]` written as an annotation.
type TypeTuple struct {
	Base
	Elts []TypeAnnotation
}

func (*TypeTuple) typeAnnotationNode() {}

// TypeLiteral is `Literal[...]` — a type restricted to specific constant
// values (values stored as their source text; semantic narrowing of
// Literal-typed annotations is not implemented).
type TypeLiteral struct {
	Base
	Values []string
}

func (*TypeLiteral) typeAnnotationNode() {}
