// Package reactive implements the reactive evaluator: the same
// control flow as full evaluation (package evaluator is reused verbatim as
// the EvalFunc), but the root `_` binding is projected fresh from an
// external Control cell on every recompute, and dependencies are recorded
// as Paths rather than ancestor Values.
//
// ComputedValueExpr owns an output cell driven by a compute thunk;
// ControlBackedValueExpr is the projection from a cell's native snapshot
// into the language's Value tree. The reference runtime.Cell this package
// is tested against tracks dependencies at root granularity — a host's
// real cell graph (out of scope here; only the interface is specified) is
// free to give ControlBackedValueExpr per-field cells instead.
package reactive

import (
	"github.com/cwbudde/formexpr/internal/ast"
	"github.com/cwbudde/formexpr/internal/env"
	"github.com/cwbudde/formexpr/internal/interp/evaluator"
	"github.com/cwbudde/formexpr/internal/runtime"
)

// pathMarker is a deps-list entry carrying only a Path, the reactive mode's
// substitute for an ancestor Value dependency.
func pathMarker(p ast.Path) *ast.Value {
	return ast.Null().WithPath(p)
}

// ControlBackedValueExpr projects cell's current native snapshot into the
// Value tree rooted at path, tagging every node (recursively) with its path
// and, at the root, a pathMarker dependency so extractAllPaths sees it was
// read through the reactive root.
func ControlBackedValueExpr(cell runtime.Cell, path ast.Path) *ast.Value {
	data := cell.Value()
	v := ast.FromNative(data, path)
	return v.WithDeps(pathMarker(path))
}

// NewRootEnv builds a one-shot reactive Env: builtins bound, `_` bound to
// the cell's current projected snapshot. A ComputedValueExpr thunk builds a
// fresh one of these every recompute so that the root projection is never
// stale; the per-scope lazy-binding cache (package env) still memoizes
// every other lookup exactly as in full mode within that one pass.
func NewRootEnv(cell runtime.Cell, builtins map[string]ast.Expr) ast.Env {
	root := env.NewRoot(ast.ModeReactive, evaluator.Eval)
	withBuiltins := root.NewScope(builtins)
	current := ControlBackedValueExpr(cell, ast.RootPath)
	return withBuiltins.WithCurrent(current)
}

// ComputedValueExpr wires an output cell so that reading it evaluates expr
// against a fresh reactive Env over rootCell, tracking rootCell as a
// dependency through the Value() read inside ControlBackedValueExpr.
func ComputedValueExpr(rootCell runtime.Cell, builtins map[string]ast.Expr, expr ast.Expr) *runtime.BasicCell {
	return runtime.NewComputedCell(func() any {
		result := evaluator.Eval(NewRootEnv(rootCell, builtins), expr)
		return ast.MustValue(result)
	})
}
