package ast

// Pattern is the sealed interface for match/case and for-loop target
// patterns.
type Pattern interface {
	Node
	patternNode()
}

// PatternLiteral matches a constant value exactly.
type PatternLiteral struct {
	Base
	Value Expr
}

func (*PatternLiteral) patternNode() {}

// PatternCapture binds the matched value to Name.
type PatternCapture struct {
	Base
	Name string
}

func (*PatternCapture) patternNode() {}

// PatternWildcard is the bare `_`, matching anything without binding.
type PatternWildcard struct {
	Base
}

func (*PatternWildcard) patternNode() {}

// PatternSequence matches a fixed or star-spread sequence of
// sub-patterns, e.g. `[a, b, *rest]`.
type PatternSequence struct {
	Base
	Elts []Pattern
}

func (*PatternSequence) patternNode() {}

// PatternStar is the `*rest` / `*_` element of a sequence pattern; Name
// is "" for the bare-wildcard form `*_`.
type PatternStar struct {
	Base
	Name string
}

func (*PatternStar) patternNode() {}

// PatternMappingEntry is one `key: pattern` entry of a mapping pattern.
type PatternMappingEntry struct {
	Key Expr
	Value Pattern
}

// PatternMapping matches a mapping by a subset of its keys, e.g.
// `{"kind": k, **rest}`.
type PatternMapping struct {
	Base
	Entries []PatternMappingEntry
	Rest string // name bound by **rest, "" if absent
}

func (*PatternMapping) patternNode() {}

// PatternClass matches an instance of ClassName with positional and
// keyword sub-patterns, e.g. `Point(x=0, y=y)`.
type PatternClass struct {
	Base
	ClassName string
	Positional []Pattern
	Keywords map[string]Pattern
}

func (*PatternClass) patternNode() {}

// PatternOr is `P1 | P2 | ...`; every alternative must bind the same
// names.
type PatternOr struct {
	Base
	Alternatives []Pattern
}

func (*PatternOr) patternNode() {}

// PatternAs is `pattern as name`.
type PatternAs struct {
	Base
	Inner Pattern
	Name string
}

func (*PatternAs) patternNode() {}

// PatternGuard wraps a pattern with its `if expr` guard (
// "Guard-wrapper"). A Case's Pattern field holds a *PatternGuard exactly
// when the case had a guard clause.
type PatternGuard struct {
	Base
	Inner Pattern
	Guard Expr
}

func (*PatternGuard) patternNode() {}
