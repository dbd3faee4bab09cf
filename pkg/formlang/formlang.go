// Package formlang is the embeddable public surface: parse an
// expression once, build an Env for whichever of the three evaluation
// modes a host needs, and evaluate the same AST against it as many times
// as the host likes.
package formlang

import (
	"fmt"

	"github.com/cwbudde/formexpr/internal/ast"
	"github.com/cwbudde/formexpr/internal/diag"
	"github.com/cwbudde/formexpr/internal/env"
	"github.com/cwbudde/formexpr/internal/interp/builtins"
	"github.com/cwbudde/formexpr/internal/interp/evaluator"
	"github.com/cwbudde/formexpr/internal/interp/partial"
	"github.com/cwbudde/formexpr/internal/interp/reactive"
	"github.com/cwbudde/formexpr/internal/parser"
	"github.com/cwbudde/formexpr/internal/printer"
	"github.com/cwbudde/formexpr/internal/runtime"
	"github.com/cwbudde/formexpr/internal/types"
)

// Expr is a parsed expression, opaque to callers beyond the operations
// this package exposes on it.
type Expr = ast.Expr

// Env is a constructed evaluation environment: basic_env, partial_env, or
// reactive_env below.
type Env = ast.Env

var stdlib = builtins.New()

// Parse compiles source text into an AST. file is used only in
// diagnostics.
func Parse(source, file string) (Expr, error) {
	e, err := parser.Parse(source, file)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// BuiltinEntry describes one standard library function: its name, the
// category it's grouped under, and a one-line description.
type BuiltinEntry = builtins.Entry

// ListBuiltins returns every standard library function, sorted by
// category then name.
func ListBuiltins() []BuiltinEntry {
	return stdlib.List()
}

// BasicEnv builds a full-mode environment with `_` bound to root.
func BasicEnv(root *ast.Value) Env {
	base := env.NewRoot(ast.ModeFull, evaluator.Eval)
	withBuiltins := base.NewScope(stdlib.Bindings())
	return withBuiltins.WithCurrent(root)
}

// PartialEnv builds a partial-mode environment seeded with known
// constants. Each known name is reachable two ways: as a scope variable
// ($name) and as a field of the current value (name), since a host's data
// document and its named constants are typically the same set of facts —
// whichever form the source expression uses, a known name resolves and an
// unknown one stays symbolic. Fields absent from known remain unresolved
// Property reads rather than errors (see partial.evalProperty).
func PartialEnv(known map[string]*ast.Value) Env {
	base := env.NewRoot(ast.ModePartial, partial.Eval)
	withBuiltins := base.NewScope(stdlib.Bindings())
	if len(known) == 0 {
		return withBuiltins
	}
	bindings := make(map[string]ast.Expr, len(known))
	obj := ast.NewObjectPayload()
	for name, v := range known {
		bindings[name] = ast.NewValueLit(v, ast.Location{})
		obj.Set(name, v)
	}
	scoped := withBuiltins.NewScope(bindings)
	return scoped.WithCurrent(ast.ObjectOf(obj))
}

// ReactiveEnv builds a reactive-mode environment whose `_` is
// projected fresh from rootCell on every evaluation.
func ReactiveEnv(rootCell runtime.Cell) Env {
	return reactive.NewRootEnv(rootCell, stdlib.Bindings())
}

// Evaluate runs e under env, which must be a basic_env or reactive_env: a
// residual result there indicates an evaluator bug, not a legitimate
// outcome, so it panics rather than returning a half-evaluated AST.
func Evaluate(env Env, e Expr) *ast.Value {
	r := env.Eval(e)
	v, ok := ast.AsValue(r)
	if !ok {
		panic(fmt.Sprintf("formlang: residual expression from a %s env: %s", env.Mode(), printer.Print(e)))
	}
	return v
}

// EvaluatePartial runs e under a partial_env, returning either a fully
// reduced Value or a residual Expr.
func EvaluatePartial(env Env, e Expr) (val *ast.Value, residual Expr) {
	r := env.Eval(e)
	if v, ok := ast.AsValue(r); ok {
		return v, nil
	}
	ex, _ := ast.AsExpr(r)
	return nil, ex
}

// Uninline hoists residual subexpressions partial evaluation duplicated at
// multiple use sites back into `let` bindings.
func Uninline(e Expr) Expr {
	return partial.Uninline(e)
}

// CollectAllErrors gathers every error message attached anywhere in v's
// dependency graph.
func CollectAllErrors(v *ast.Value) []string {
	return ast.CollectAllErrors(v)
}

// HasErrors reports whether v or any of its transitive dependencies
// carries an error.
func HasErrors(v *ast.Value) bool {
	return ast.HasErrors(v)
}

// ExtractAllPaths gathers every distinct Path v's evaluation read from,
// whether from v's own tag or transitively through its deps.
func ExtractAllPaths(v *ast.Value) []ast.Path {
	return ast.ExtractAllPaths(v)
}

// FormatErrors renders v's errors with source-location context, suitable
// for a terminal or log line.
func FormatErrors(v *ast.Value, source string) string {
	return diag.FormatErrorsWithLocations(v, source)
}

// PrintExpr renders e back to source text, minimally parenthesized.
func PrintExpr(e Expr) string {
	return printer.Print(e)
}

// ToCanonical renders e to the canonical on-wire form.
func ToCanonical(e Expr) string {
	return parser.ToCanonical(e)
}

// FromCanonical parses the canonical on-wire form back into an AST.
func FromCanonical(s string) (Expr, error) {
	return parser.FromCanonical(s)
}

// ToNative converts v to plain Go data (map[string]any / []any / string /
// float64 / bool / nil), losing deps/errors/path metadata.
func ToNative(v *ast.Value) any {
	return v.ToNative()
}

// FromNative converts plain Go data into a Value rooted at path, the
// inverse of ToNative plus path tagging.
func FromNative(data any, path ast.Path) *ast.Value {
	return ast.FromNative(data, path)
}

// CheckType computes e's best-effort static type given the type of
// the current value.
func CheckType(dataType ast.Type, e Expr) ast.Type {
	return types.Check(types.NewEnv(dataType), stdlib, e)
}
