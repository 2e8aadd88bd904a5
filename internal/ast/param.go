package ast

// ParamKind classifies a parameter per the canonical order invariant:
// positional-only, regular, vararg (<=1), keyword-only, kwarg (<=1).
type ParamKind int

const (
	PosOnly ParamKind = iota
	Regular
	VarArg
	KeywordOnly
	KwArg
)

// Param is one function/lambda parameter.
type Param struct {
	Name string
	Annotation TypeAnnotation // nil if unannotated; lambdas never have one
	Default Expr // nil if no default
	Kind ParamKind
}
