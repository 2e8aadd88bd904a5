package sema

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/types"
)

// inferBinary implements the per-operator arithmetic rules: numeric
// widening, `/` always Float, `//` preserving operand-kind, `%` on
// strings/bytes, `+` preserving str/list/tuple shape.
func inferBinary(op ast.BinaryOp, lhs, rhs *types.Type) *types.Type {
	switch op {
	case ast.OpDiv:
		return types.FloatT
	case ast.OpFloorDiv:
		if lhs.IsNumeric() && rhs.IsNumeric() {
			if lhs.Kind == types.Int && rhs.Kind == types.Int {
				return types.IntT
			}
			return types.FloatT
		}
		return types.UnknownT
	case ast.OpMod:
		if isKind(lhs, types.Str) || isKind(lhs, types.Bytes) {
			return lhs
		}
		if lhs.IsNumeric() && rhs.IsNumeric() {
			return types.Widen(lhs, rhs)
		}
		return types.UnknownT
	case ast.OpAdd:
		switch {
		case isKind(lhs, types.Str) && isKind(rhs, types.Str):
			return types.StrT
		case isKind(lhs, types.ListKind) && isKind(rhs, types.ListKind):
			return types.List(joinElem(lhs.Elem, rhs.Elem))
		case isKind(lhs, types.TupleKind) && isKind(rhs, types.TupleKind):
			elts := append(append([]*types.Type{}, lhs.Elts...), rhs.Elts...)
			return types.Tuple(elts...)
		case lhs.IsNumeric() && rhs.IsNumeric():
			return types.Widen(lhs, rhs)
		}
		return types.UnknownT
	default: // -, *, **, &, |, ^, <<, >>, @
		if lhs.IsNumeric() && rhs.IsNumeric() {
			return types.Widen(lhs, rhs)
		}
		return types.UnknownT
	}
}

// joinElem is the elementwise join used when concatenating two lists.
func joinElem(a, b *types.Type) *types.Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Kind == b.Kind {
		return a
	}
	if a.IsNumeric() && b.IsNumeric() {
		return types.Widen(a, b)
	}
	return types.UnknownT
}

func isKind(t *types.Type, k types.Kind) bool {
	return t != nil && t.Kind == k
}

// inferUnary preserves the operand's numeric kind for +/-/~; `not` always
// yields Bool.
func inferUnary(op ast.UnaryOp, operand *types.Type) *types.Type {
	if op == ast.OpNot {
		return types.BoolT
	}
	if operand.IsNumeric() {
		return operand
	}
	return types.UnknownT
}

// invalidOperation is a best-effort, non-exhaustive detector for clearly
// nonsensical operand pairings (names InvalidOperationForTypes but
// doesn't give a precise trigger rule) — only fires when both sides are
// concrete (not Unknown/Any) and structurally incompatible for the operator.
func invalidOperation(op ast.BinaryOp, lhs, rhs *types.Type) bool {
	if lhs == nil || rhs == nil || lhs.Kind == types.Unknown || rhs.Kind == types.Unknown ||
	lhs.Kind == types.Any || rhs.Kind == types.Any {
		return false
	}
	switch op {
	case ast.OpAdd:
		lCollection := isCollectionLike(lhs)
		rCollection := isCollectionLike(rhs)
		if lCollection != rCollection {
			return true
		}
		if lCollection && rCollection && lhs.Kind != rhs.Kind {
			return true
		}
		if !lCollection && !rCollection && !(lhs.IsNumeric() && rhs.IsNumeric()) {
			return true
		}
		return false
	case ast.OpMod:
		if isKind(lhs, types.Str) || isKind(lhs, types.Bytes) {
			return false
		}
		return !(lhs.IsNumeric() && rhs.IsNumeric())
	case ast.OpSub, ast.OpMul, ast.OpPow, ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpLShift, ast.OpRShift:
		return !(lhs.IsNumeric() && rhs.IsNumeric())
	default:
		return false
	}
}

func isCollectionLike(t *types.Type) bool {
	switch t.Kind {
	case types.Str, types.Bytes, types.ListKind, types.TupleKind, types.SetKind, types.DictKind:
		return true
	}
	return false
}
