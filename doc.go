// Package stela implements the compiler frontend for a statically-checked,
// Python-syntax-compatible language: lexing, recursive-descent parsing, and
// a two-phase semantic analyzer (name resolution, gradual type checking,
// control-flow analysis), all collecting diagnostics as values rather than
// raising exceptions.
//
// A minimal example:
//
// result := stela.Compile("example.st", "def add(x: int, y: int) -> int:\n return x + y\n")
// for _, d := range result.Diags.All() {
// fmt.Println(d)
// }
package stela
