package sema

import (
	"github.com/Flyclops/stela/internal/symtab"
	"github.com/Flyclops/stela/internal/token"
	"github.com/Flyclops/stela/internal/types"
)

// builtinNames is the fixed seed set of built-in names, resolvable
// in the implicit outermost scope.
var builtinNames = []string{
	"print", "len", "range", "abs", "min", "max", "sum", "type", "isinstance",
	"str", "int", "float", "bool", "input", "list", "dict", "set", "tuple",
	"enumerate", "zip", "sorted", "reversed", "map", "filter",
}

// builtinReturn computes a builtin call's result type from its fixed-table
// entry, falling back to Unknown for builtins the table doesn't name
// explicitly (type, isinstance, list, dict, set, tuple, enumerate, zip,
// sorted, reversed, map, filter).
func builtinReturn(name string, argTypes []*types.Type) *types.Type {
	switch name {
	case "len":
		return types.IntT
	case "str":
		return types.StrT
	case "int":
		return types.IntT
	case "float":
		return types.FloatT
	case "bool":
		return types.BoolT
	case "range":
		return types.UnknownT
	case "print":
		return types.NoneT
	case "input":
		return types.StrT
	case "abs", "min", "max", "sum":
		return numericPreserving(argTypes)
	default:
		return types.UnknownT
	}
}

// numericPreserving approximates the numeric-preserving rule for
// abs/min/max/sum: widen across the call's arguments, unwrapping a single
// list/set argument (sum's common shape) to its element type first.
func numericPreserving(argTypes []*types.Type) *types.Type {
	var result *types.Type
	for _, t := range argTypes {
		u := t
		if u != nil && (u.Kind == types.ListKind || u.Kind == types.SetKind) {
			u = u.Elem
		}
		if result == nil {
			result = u
			continue
		}
		result = types.Widen(result, u)
	}
	if result == nil {
		return types.UnknownT
	}
	return result
}

// seedBuiltins defines every builtin as a Function symbol in scope, per
// 3 "Built-in names ... seeded as resolvable symbols ... in an
// implicit outermost scope." Builtins carry no recorded Params, which sema's
// call checker treats as "skip arity/type checking" (their real signatures
// are native and variadic/overloaded).
func seedBuiltins(table *symtab.Table, scope *symtab.Scope) map[symtab.ID]string {
	ids := make(map[symtab.ID]string, len(builtinNames))
	for _, name := range builtinNames {
		sym := table.NewSymbol(name, symtab.Function, token.Span{}, types.Function(nil, builtinReturn(name, nil)))
		table.Define(scope, sym)
		scope.Initialized[name] = true
		ids[sym.ID] = name
	}
	return ids
}
