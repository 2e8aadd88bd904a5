package sema

import (
	"github.com/Flyclops/stela/internal/ast"
	"github.com/Flyclops/stela/internal/types"
)

// typeFromAnnotation converts a syntax-level TypeAnnotation (what the
// programmer wrote) into the semantic types.Type the analyzer reasons
// with. User-defined class names have no Class representation in the
// type sum (there is none, beyond symbol lookup for module-scope names)
// and resolve to Unknown.
func typeFromAnnotation(ann ast.TypeAnnotation) *types.Type {
	if ann == nil {
		return types.UnknownT
	}
	switch t := ann.(type) {
	case *ast.TypeName:
		switch t.Name {
		case "int":
			return types.IntT
		case "float":
			return types.FloatT
		case "str":
			return types.StrT
		case "bytes":
			return types.BytesT
		case "bool":
			return types.BoolT
		case "None":
			return types.NoneT
		case "Any":
			return types.AnyT
		default:
			return types.UnknownT
		}
	case *ast.TypeGeneric:
		switch t.BaseName {
		case "list", "List":
			return types.List(annotArg(t.Args, 0))
		case "set", "Set":
			return types.Set(annotArg(t.Args, 0))
		case "dict", "Dict":
			return types.Dict(annotArg(t.Args, 0), annotArg(t.Args, 1))
		default:
			return types.UnknownT
		}
	case *ast.TypeUnion:
		ops := make([]*types.Type, len(t.Operands))
		for i, o := range t.Operands {
			ops[i] = typeFromAnnotation(o)
		}
		return types.Union(ops...)
	case *ast.TypeOptional:
		return types.Optional(typeFromAnnotation(t.Inner))
	case *ast.TypeCallable:
		params := make([]types.Param, len(t.Params))
		for i, p := range t.Params {
			params[i] = types.Param{Type: typeFromAnnotation(p)}
		}
		return types.Function(params, typeFromAnnotation(t.Ret))
	case *ast.TypeTuple:
		elts := make([]*types.Type, len(t.Elts))
		for i, e := range t.Elts {
			elts[i] = typeFromAnnotation(e)
		}
		return types.Tuple(elts...)
	case *ast.TypeLiteral:
		// Narrowing a Literal[...] annotation to its member values' own
		// type is not implemented.
		return types.UnknownT
	default:
		return types.UnknownT
	}
}

func annotArg(args []ast.TypeAnnotation, i int) *types.Type {
	if i >= len(args) {
		return types.UnknownT
	}
	return typeFromAnnotation(args[i])
}

// acceptsNone reports whether a function's declared return type already
// permits implicitly returning None by falling off the end (None itself,
// Optional[T], a Union containing None, or the gradual-typing escapes
// Any/Unknown) — used to decide whether MissingReturn applies at all.
func acceptsNone(ret *types.Type) bool {
	return types.Compatible(ret, types.NoneT)
}
