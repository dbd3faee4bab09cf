// Package ast defines the expression language's value universe and its
// abstract syntax tree. The two live together because a Value literal is
// itself an AST node (Value(v)) and a function handle's callbacks close
// over both the AST (the Call site) and the environment that evaluates it.
package ast

import "fmt"

// Location is a source byte range, optionally tied to a file. Every AST
// node carries one so that dependency traces and parse errors can point
// back at the exact text that produced them.
type Location struct {
	File  string
	Start int
	End   int
	Line  int
	Col   int
}

// Zero reports whether the location was never set.
func (l Location) Zero() bool {
	return l.Start == 0 && l.End == 0 && l.Line == 0 && l.Col == 0 && l.File == ""
}

func (l Location) String() string {
	if l.File != "" {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}
