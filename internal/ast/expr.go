package ast

import "github.com/Flyclops/stela/internal/token"

// LiteralKind distinguishes the atomic literal forms.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitStr
	LitBytes
	LitBool
	LitNone
	LitEllipsis
	LitNotImplemented
)

// Literal is a constant value written directly in source.
type Literal struct {
	Base
	Kind LiteralKind
	IntTok *token.Token // retains the decoded big.Int/overflow info for LitInt
	Str string
	Bytes []byte
	Float float64
	Bool bool
}

func (*Literal) exprNode() {}

// FString is an f-string expression: a sequence of literal-text and
// embedded-expression parts. Embedded expressions are parsed eagerly at
// AST-construction time into Exprs; the raw expression source is not kept
// on the node.
type FString struct {
	Base
	Parts []FStringPart
}

func (*FString) exprNode() {}

// FStringPart mirrors token.FStringPart but carries a parsed Expr for
// embedded-expression parts.
type FStringPart struct {
	Literal string
	Expr Expr // nil for literal parts
	FormatSpec string
}

// Identifier is a bare name reference.
type Identifier struct {
	Base
	Name string
}

func (*Identifier) exprNode() {}

// BinaryOp enumerates the operators handled by Binary.
type BinaryOp string

const (
	OpBitOr BinaryOp = "|"
	OpBitXor BinaryOp = "^"
	OpBitAnd BinaryOp = "&"
	OpLShift BinaryOp = "<<"
	OpRShift BinaryOp = ">>"
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpFloorDiv BinaryOp = "//"
	OpMod BinaryOp = "%"
	OpMatMul BinaryOp = "@"
	OpPow BinaryOp = "**"
)

// Binary is a two-operand arithmetic/bitwise expression.
type Binary struct {
	Base
	Op BinaryOp
	Lhs, Rhs Expr
}

func (*Binary) exprNode() {}

// UnaryOp enumerates the prefix operators.
type UnaryOp string

const (
	OpPos UnaryOp = "+"
	OpNeg UnaryOp = "-"
	OpInvert UnaryOp = "~"
	OpNot UnaryOp = "not"
)

// Unary is a single-operand prefix expression.
type Unary struct {
	Base
	Op UnaryOp
	Operand Expr
}

func (*Unary) exprNode() {}

// CompareOp enumerates comparison operators, chained non-associatively.
type CompareOp string

const (
	CmpEq CompareOp = "=="
	CmpNotEq CompareOp = "!="
	CmpLt CompareOp = "<"
	CmpGt CompareOp = ">"
	CmpLtEq CompareOp = "<="
	CmpGtEq CompareOp = ">="
	CmpIs CompareOp = "is"
	CmpIsNot CompareOp = "is not"
	CmpIn CompareOp = "in"
	CmpNotIn CompareOp = "not in"
)

// CompareLink is one (op, rhs) step of a comparison chain.
type CompareLink struct {
	Op CompareOp
	Rhs Expr
}

// Compare is a chain of comparisons: `a < b <= c`. Chains form a single
// Compare node rather than nested Binary nodes.
type Compare struct {
	Base
	Lhs Expr
	Chain []CompareLink
}

func (*Compare) exprNode() {}

// BoolOpKind is and/or.
type BoolOpKind string

const (
	BoolAnd BoolOpKind = "and"
	BoolOr BoolOpKind = "or"
)

// BoolOp short-circuits over two or more operands.
type BoolOp struct {
	Base
	Op BoolOpKind
	Operands []Expr
}

func (*BoolOp) exprNode() {}

// Keyword is a `name=expr` call argument.
type Keyword struct {
	Name string
	Value Expr
}

// Call is a function/callable invocation with positional, keyword,
// *star and **kwstar arguments.
type Call struct {
	Base
	Callee Expr
	Args []Expr // positional args, in source order
	Keywords []Keyword
	Star Expr // *iter, nil if absent
	KwStar Expr // **mapping, nil if absent
}

func (*Call) exprNode() {}

// Subscript is `value[index]`, where Index may be a Slice.
type Subscript struct {
	Base
	Value Expr
	Index Expr
}

func (*Subscript) exprNode() {}

// Attribute is `value.name`.
type Attribute struct {
	Base
	Value Expr
	Name string
}

func (*Attribute) exprNode() {}

// ListExpr, SetExpr, TupleExpr are ordered-element collection literals.
type ListExpr struct {
	Base
	Elts []Expr
}

func (*ListExpr) exprNode() {}

type SetExpr struct {
	Base
	Elts []Expr
}

func (*SetExpr) exprNode() {}

// TupleExpr: an empty parenthesized pair `()` is the empty tuple; a
// singleton requires a trailing comma (enforced by the parser, not this type).
type TupleExpr struct {
	Base
	Elts []Expr
}

func (*TupleExpr) exprNode() {}

// DictEntry is one `key: value` pair of a dict literal.
type DictEntry struct {
	Key Expr // nil for a **spread entry
	Value Expr
}

type DictExpr struct {
	Base
	Entries []DictEntry
}

func (*DictExpr) exprNode() {}

// Comprehension is one `for target in iter` clause plus its trailing
// `if` guards, as used by every *Comp/GenExp node.
type Comprehension struct {
	Target Expr // a Name, Tuple-of-Names, or Starred pattern-as-expr
	Iter Expr
	Ifs []Expr
	IsAsync bool
}

type ListComp struct {
	Base
	Elt Expr
	Generators []Comprehension
}

func (*ListComp) exprNode() {}

type SetComp struct {
	Base
	Elt Expr
	Generators []Comprehension
}

func (*SetComp) exprNode() {}

type DictComp struct {
	Base
	Key, Value Expr
	Generators []Comprehension
}

func (*DictComp) exprNode() {}

type GenExp struct {
	Base
	Elt Expr
	Generators []Comprehension
}

func (*GenExp) exprNode() {}

// Lambda is an anonymous function expression; its Params follow the same
// canonical ordering as FunctionDef's, minus annotations, but defaults
// are still permitted.
type Lambda struct {
	Base
	Params []Param
	Body Expr
}

func (*Lambda) exprNode() {}

// IfExpr is the ternary `then if test else els`.
type IfExpr struct {
	Base
	Test, Then, Else Expr
}

func (*IfExpr) exprNode() {}

// NamedExpr is the walrus assignment expression `target := value`.
type NamedExpr struct {
	Base
	Target *Identifier
	Value Expr
}

func (*NamedExpr) exprNode() {}

// Slice is `start:stop:step` inside a subscript; any component may be nil.
type Slice struct {
	Base
	Start, Stop, Step Expr
}

func (*Slice) exprNode() {}

// Starred is `*value`, used in call arguments, assignment targets and
// sequence displays.
type Starred struct {
	Base
	Value Expr
}

func (*Starred) exprNode() {}

// Yield is `yield [value]` or `yield from iter`; valid only inside a
// function body (checked by the analyzer, not the parser).
type Yield struct {
	Base
	Value Expr // nil for bare `yield`
	IsFrom bool
}

func (*Yield) exprNode() {}

// Await is `await value`; valid only inside an async function
// (checked by the analyzer, not the parser).
type Await struct {
	Base
	Value Expr
}

func (*Await) exprNode() {}
