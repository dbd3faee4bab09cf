// Package partial implements the partial evaluator: the same
// structural descent as full mode, but every case tolerates (and may
// produce) a residual AST node instead of a concrete Value. Let gets the
// extra treatment of : bindings that reduce to a bare Var/Property are
// inlined at every use site; bindings that reduce to anything more complex
// are kept as an explicit residual let and their uses left as opaque Var
// references; unused bindings (after inlining) are dropped.
package partial

import "github.com/cwbudde/formexpr/internal/ast"

// Eval is the EvalFunc installed on a partial_env's root scope.
func Eval(env ast.Env, e ast.Expr) ast.Result {
	switch n := e.(type) {
	case *ast.ValueLit:
		return ast.ValueResult{V: n.V}
	case *ast.Var:
		return env.Lookup(n.Name)
	case *ast.Property:
		return evalProperty(env, n)
	case *ast.Array:
		return evalArray(env, n)
	case *ast.Let:
		return evalLet(env, n)
	case *ast.Call:
		return evalCall(env, n)
	case *ast.Lambda:
		return ast.ExprResult{E: n}
	default:
		panic("partial: unknown AST variant")
	}
}

// evalProperty differs from full mode's in one respect: a field absent
// from the current object is "not yet known" rather than an error — a
// partial_env's current value is typically a partially-populated object
// (known fields only), so a missing field must stay symbolic the
// same way an unresolved Var does, not surface as an evaluation error.
func evalProperty(env ast.Env, n *ast.Property) ast.Result {
	cur, ok := env.CurrentValue()
	if !ok {
		return ast.ExprResult{E: n}
	}
	if cur.IsNull() {
		return ast.ExprResult{E: n}
	}
	obj, ok := cur.ObjectVal()
	if !ok {
		return ast.ValueResult{V: ast.NullWithError("property ." + n.Name + " on non-object value").WithDeps(cur).WithLoc(n.Loc())}
	}
	field := obj.Get(n.Name)
	if field == nil {
		return ast.ExprResult{E: n}
	}
	return ast.ValueResult{V: field.WithLoc(n.Loc())}
}

func evalArray(env ast.Env, n *ast.Array) ast.Result {
	vals := make([]*ast.Value, len(n.Elems))
	residual := make([]ast.Expr, len(n.Elems))
	allValues := true
	for i, el := range n.Elems {
		r := env.Eval(el)
		if v, ok := ast.AsValue(r); ok {
			vals[i] = v
			residual[i] = ast.NewValueLit(v, v.Loc())
			continue
		}
		allValues = false
		e, _ := ast.AsExpr(r)
		residual[i] = e
	}
	if allValues {
		return ast.ValueResult{V: ast.ArrayOf(vals).WithLoc(n.Loc())}
	}
	return ast.ExprResult{E: ast.NewArray(residual, n.Loc())}
}

func evalCall(env ast.Env, n *ast.Call) ast.Result {
	r := env.Lookup(n.Fn)
	v, ok := ast.AsValue(r)
	if !ok {
		// The built-in's own name didn't resolve: leave the whole call
		// symbolic rather than guessing at its arity/shape.
		return ast.ExprResult{E: n}
	}
	fh, ok := v.FuncVal()
	if !ok {
		return ast.ValueResult{V: ast.NullWithError("not callable: " + n.Fn).WithLoc(n.Loc())}
	}
	return fh.Eval(env, n)
}

func evalLet(env ast.Env, n *ast.Let) ast.Result {
	scopeBindings := map[string]ast.Expr{}
	var kept []ast.LetBinding
	for _, b := range n.Bindings {
		evalScope := env.NewScope(scopeBindings)
		r := evalScope.Eval(b.Expr)
		if v, ok := ast.AsValue(r); ok {
			scopeBindings[b.Name] = ast.NewValueLit(v, v.Loc())
			continue
		}
		e, _ := ast.AsExpr(r)
		switch e.(type) {
		case *ast.Var, *ast.Property:
			scopeBindings[b.Name] = e
		default:
			kept = append(kept, ast.LetBinding{Name: b.Name, Expr: e})
			// Bind the name to itself: the scope's self-reference check
			// (package env) then returns this Var unchanged on lookup
			// instead of recursing, which is exactly "stay opaque".
			scopeBindings[b.Name] = ast.NewVar(b.Name, ast.Location{})
		}
	}
	bodyScope := env.NewScope(scopeBindings)
	bodyResult := bodyScope.Eval(n.Body)
	if len(kept) == 0 {
		return bodyResult
	}
	bodyExpr, isExpr := ast.AsExpr(bodyResult)
	if !isExpr {
		return bodyResult
	}
	finalKept := dropUnused(kept, bodyExpr)
	if len(finalKept) == 0 {
		return ast.ExprResult{E: bodyExpr}
	}
	return ast.ExprResult{E: ast.NewLet(finalKept, bodyExpr, n.Loc())}
}

// dropUnused filters kept to the bindings transitively referenced from
// body, preserving original order.
func dropUnused(kept []ast.LetBinding, body ast.Expr) []ast.LetBinding {
	needed := map[string]bool{}
	freeVars(body, needed)
	for changed := true; changed; {
		changed = false
		for _, k := range kept {
			if !needed[k.Name] {
				continue
			}
			before := len(needed)
			freeVars(k.Expr, needed)
			if len(needed) != before {
				changed = true
			}
		}
	}
	var out []ast.LetBinding
	for _, k := range kept {
		if needed[k.Name] {
			out = append(out, k)
		}
	}
	return out
}

func freeVars(e ast.Expr, out map[string]bool) {
	switch n := e.(type) {
	case *ast.Var:
		out[n.Name] = true
	case *ast.Array:
		for _, el := range n.Elems {
			freeVars(el, out)
		}
	case *ast.Call:
		for _, a := range n.Args {
			freeVars(a, out)
		}
	case *ast.Lambda:
		freeVars(n.Body, out)
	case *ast.Let:
		for _, b := range n.Bindings {
			freeVars(b.Expr, out)
		}
		freeVars(n.Body, out)
	}
}
