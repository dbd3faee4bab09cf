// Package diag formats diagnostics with source context and a caret pointing
// at the offending column.
package diag

import (
	"fmt"
	"strings"

	"github.com/cwbudde/formexpr/internal/ast"
)

// SourceError pairs a message with a byte-range Location and the source
// text it was parsed from, for caret-style rendering.
type SourceError struct {
	Message string
	Source  string
	Loc     ast.Location
}

func (e *SourceError) Error() string { return e.Format(false) }

// Format renders the error with a line/column header, the offending source
// line, and a caret under the column. color wraps the caret and message in
// ANSI codes for terminal output.
func (e *SourceError) Format(color bool) string {
	var sb strings.Builder
	if e.Loc.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.Loc.File, e.Loc.Line, e.Loc.Col)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", e.Loc.Line, e.Loc.Col)
	}
	if line := sourceLine(e.Source, e.Loc.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Loc.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Loc.Col-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteByte('^')
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteByte('\n')
	}
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatErrorsWithLocations renders v's transitive errors together
// with the stack of source locations seen along the values they came from,
// outer expression first.
func FormatErrorsWithLocations(v *ast.Value, source string) string {
	errs := ast.CollectAllErrors(v)
	if len(errs) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, msg := range errs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(msg)
	}
	locs := locationStack(v)
	for _, loc := range locs {
		se := &SourceError{Message: "", Source: source, Loc: loc}
		sb.WriteByte('\n')
		sb.WriteString(strings.TrimSuffix(se.Format(false), "\n"))
	}
	return sb.String()
}

// locationStack repeats the walk of ast's unexported locationStack in
// deps.go, which this package cannot call: it visits v and its deps and
// collects distinct, non-zero locations.
func locationStack(v *ast.Value) []ast.Location {
	var out []ast.Location
	visited := map[*ast.Value]bool{}
	var walk func(*ast.Value)
	walk = func(val *ast.Value) {
		if val == nil || visited[val] {
			return
		}
		visited[val] = true
		if !val.Loc().Zero() {
			out = append(out, val.Loc())
		}
		for _, d := range val.Deps() {
			walk(d)
		}
	}
	walk(v)
	return out
}
