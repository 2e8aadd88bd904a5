// Package types implements the single sum-type representation of values
// described in "Type representation": Int | Float | Str | Bytes |
// Bool | None | Any | Unknown | List(T) | Set(T) | Dict(K,V) | Tuple(T...)
// | Function(params, ret) | Union(T...) | Optional(T), together with the
// gradual-typing compatibility predicate the analyzer checks assignments,
// calls and returns against.
package types

import "strings"

// Kind tags which alternative of the sum type a Type value holds.
type Kind int

const (
	Int Kind = iota
	Float
	Str
	Bytes
	Bool
	NoneType
	Any
	Unknown
	ListKind
	SetKind
	DictKind
	TupleKind
	FunctionKind
	UnionKind
	OptionalKind
)

// Param is one entry of a Function type's parameter list.
type Param struct {
	Name string
	Type *Type
}

// Type is the single recursive sum type every expression, annotation and
// symbol carries. Only the fields relevant to Kind are populated; the
// rest are nil/zero.
type Type struct {
	Kind Kind

	Elem *Type // List, Set, Optional

	Key *Type // Dict
	Val *Type // Dict

	Elts []*Type // Tuple

	Params []Param // Function
	Ret *Type // Function

	Operands []*Type // Union
}

// Scalar singletons. Safe to share since Type is never mutated after
// construction (mirrors the AST's own immutability).
var (
	IntT = &Type{Kind: Int}
	FloatT = &Type{Kind: Float}
	StrT = &Type{Kind: Str}
	BytesT = &Type{Kind: Bytes}
	BoolT = &Type{Kind: Bool}
	NoneT = &Type{Kind: NoneType}
	AnyT = &Type{Kind: Any}
	UnknownT = &Type{Kind: Unknown}
)

func List(elem *Type) *Type { return &Type{Kind: ListKind, Elem: elem} }
func Set(elem *Type) *Type { return &Type{Kind: SetKind, Elem: elem} }
func Dict(key, val *Type) *Type { return &Type{Kind: DictKind, Key: key, Val: val} }
func Tuple(elts ...*Type) *Type { return &Type{Kind: TupleKind, Elts: elts} }
func Optional(elem *Type) *Type { return &Type{Kind: OptionalKind, Elem: elem} }
func Union(operands ...*Type) *Type { return &Type{Kind: UnionKind, Operands: operands} }
func Function(params []Param, ret *Type) *Type {
	return &Type{Kind: FunctionKind, Params: params, Ret: ret}
}

// IsNumeric reports whether t is Int or Float.
func (t *Type) IsNumeric() bool {
	return t != nil && (t.Kind == Int || t.Kind == Float)
}

// String renders a human-readable type for diagnostic messages.
func (t *Type) String() string {
	if t == nil {
		return "Unknown"
	}
	switch t.Kind {
	case Int:
		return "int"
	case Float:
		return "float"
	case Str:
		return "str"
	case Bytes:
		return "bytes"
	case Bool:
		return "bool"
	case NoneType:
		return "None"
	case Any:
		return "Any"
	case Unknown:
		return "Unknown"
	case ListKind:
		return "list[" + t.Elem.String() + "]"
	case SetKind:
		return "set[" + t.Elem.String() + "]"
	case DictKind:
		return "dict[" + t.Key.String() + ", " + t.Val.String() + "]"
	case TupleKind:
		parts := make([]string, len(t.Elts))
		for i, e := range t.Elts {
			parts[i] = e.String()
		}
		return "tuple[" + strings.Join(parts, ", ") + "]"
	case FunctionKind:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.Type.String()
		}
		ret := "None"
		if t.Ret != nil {
			ret = t.Ret.String()
		}
		return "(" + strings.Join(parts, ", ") + ") -> " + ret
	case UnionKind:
		parts := make([]string, len(t.Operands))
		for i, o := range t.Operands {
			parts[i] = o.String()
		}
		return strings.Join(parts, " | ")
	case OptionalKind:
		return t.Elem.String() + " | None"
	}
	return "Unknown"
}

// Compatible implements the gradual-typing compatibility rules for
// assignments, argument binding and return checking:
// - identical kinds are compatible
// - Unknown is compatible with anything in either direction (gradual
// typing escape hatch)
// - Any behaves the same as Unknown for compatibility purposes
// - int widens to float
// - generic element types are compared recursively, so nested container
//   element types are checked at every depth
// - tuple arity must match, element-wise compatible
func Compatible(want, got *Type) bool {
	if want == nil || got == nil {
		return true
	}
	if want.Kind == Unknown || got.Kind == Unknown {
		return true
	}
	if want.Kind == Any || got.Kind == Any {
		return true
	}
	if want.Kind == got.Kind {
		switch want.Kind {
		case ListKind, SetKind:
			return Compatible(want.Elem, got.Elem)
		case DictKind:
			return Compatible(want.Key, got.Key) && Compatible(want.Val, got.Val)
		case TupleKind:
			if len(want.Elts) != len(got.Elts) {
				return false
			}
			for i := range want.Elts {
				if !Compatible(want.Elts[i], got.Elts[i]) {
					return false
				}
			}
			return true
		case OptionalKind:
			return Compatible(want.Elem, got.Elem)
		}
		return true
	}
	// int -> float widening
	if want.Kind == Float && got.Kind == Int {
		return true
	}
	// Optional(T) accepts T or None
	if want.Kind == OptionalKind {
		return got.Kind == NoneType || Compatible(want.Elem, got)
	}
	// Union(T...) accepts any operand-compatible type
	if want.Kind == UnionKind {
		for _, op := range want.Operands {
			if Compatible(op, got) {
				return true
			}
		}
		return false
	}
	return false
}

// Widen computes the join of two numeric-or-equal types for binary
// arithmetic: numeric widening goes int -> float.
func Widen(a, b *Type) *Type {
	if a == nil || b == nil {
		return UnknownT
	}
	if a.Kind == Unknown || b.Kind == Unknown {
		return UnknownT
	}
	if a.Kind == Float || b.Kind == Float {
		return FloatT
	}
	if a.Kind == Int && b.Kind == Int {
		return IntT
	}
	return UnknownT
}
