package ast

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	Base
	Body []Stmt
}
