// Package evaluator implements the full-mode reduction: strict
// descent over the seven AST variants, producing a concrete Value with
// dependencies and errors attached. It is installed as the EvalFunc for
// basic_env and reactive_env (the reactive variant reuses this dispatch
// almost unchanged — only Property's `_` source differs, via Env).
package evaluator

import "github.com/cwbudde/formexpr/internal/ast"

// Eval dispatches e under env, strict: the result is always a ValueResult.
// Built-ins and scope lookups recurse back into this via env.Eval, so a
// basic_env or reactive_env installs Eval itself as its EvalFunc.
func Eval(env ast.Env, e ast.Expr) ast.Result {
	switch n := e.(type) {
	case *ast.ValueLit:
		return ast.ValueResult{V: n.V}
	case *ast.Var:
		return env.Lookup(n.Name)
	case *ast.Property:
		return ast.ValueResult{V: evalProperty(env, n)}
	case *ast.Array:
		return ast.ValueResult{V: evalArray(env, n)}
	case *ast.Let:
		return evalLet(env, n)
	case *ast.Call:
		return evalCall(env, n)
	case *ast.Lambda:
		return ast.ValueResult{V: ast.NullWithError("lambda is not a value outside of the built-in that accepts it")}
	default:
		panic("evaluator: unknown AST variant")
	}
}

func evalProperty(env ast.Env, n *ast.Property) *ast.Value {
	cur, ok := env.CurrentValue()
	if !ok {
		return ast.NullWithError("no current value in scope for property ." + n.Name).WithLoc(n.Loc())
	}
	if cur.IsNull() {
		return ast.NullWithError("property ."+n.Name+" on null value").WithDeps(cur).WithLoc(n.Loc())
	}
	obj, ok := cur.ObjectVal()
	if !ok {
		return ast.NullWithError("property ."+n.Name+" on non-object value").WithDeps(cur).WithLoc(n.Loc())
	}
	field := obj.Get(n.Name)
	if field == nil {
		return ast.NullWithError("unknown property: "+n.Name).WithDeps(cur).WithLoc(n.Loc())
	}
	// No WithDeps(cur) here: field already carries its own input path (or,
	// if cur is itself computed, field's own deps), so depending on the
	// whole container too would surface cur's path as a spurious extra
	// dependency of every property read off it.
	return field.WithLoc(n.Loc())
}

func evalArray(env ast.Env, n *ast.Array) *ast.Value {
	elems := make([]*ast.Value, len(n.Elems))
	for i, e := range n.Elems {
		r := env.Eval(e)
		elems[i] = ast.MustValue(r)
	}
	// No array-level deps: each element keeps its own so downstream consumers only track what they touch.
	return ast.ArrayOf(elems).WithLoc(n.Loc())
}

func evalLet(env ast.Env, n *ast.Let) ast.Result {
	bindings := make(map[string]ast.Expr, len(n.Bindings))
	for _, b := range n.Bindings {
		bindings[b.Name] = b.Expr
	}
	child := env.NewScope(bindings)
	return child.Eval(n.Body)
}

func evalCall(env ast.Env, n *ast.Call) ast.Result {
	r := env.Lookup(n.Fn)
	v, ok := ast.AsValue(r)
	if !ok {
		// Only reachable in a non-partial env, where Lookup always answers
		// with a Value; kept defensive rather than panicking.
		return ast.ValueResult{V: ast.NullWithError("unresolved function: " + n.Fn)}
	}
	fh, ok := v.FuncVal()
	if !ok {
		return ast.ValueResult{V: ast.NullWithError("not callable: " + n.Fn).WithLoc(n.Loc())}
	}
	return fh.Eval(env, n)
}
