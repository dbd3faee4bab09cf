// Package builtins implements the ~35 standard-library function handles
//, each bundling an Eval (full/partial/reactive dispatch, including
// dependency propagation) and a GetType callback, grounded on the
// teacher's categorized Registry pattern for built-in installation.
package builtins

import "github.com/cwbudde/formexpr/internal/ast"

// valueToExpr wraps an already-reduced Value back into an Expr, for
// rebuilding a residual Call's argument list in partial mode.
func valueToExpr(v *ast.Value) ast.Expr {
	return ast.NewValueLit(v, v.Loc())
}

// reduceArgs evaluates every arg under env. If all reduce to a Value, it
// returns them with ok=true. Otherwise (partial mode, some arg symbolic) it
// returns ok=false along with a residual argument list (reduced args
// re-wrapped as ValueLit, symbolic ones left as their residual Expr) for the
// caller to rebuild a residual Call.
func reduceArgs(env ast.Env, args []ast.Expr) (vals []*ast.Value, residual []ast.Expr, ok bool) {
	vals = make([]*ast.Value, len(args))
	residual = make([]ast.Expr, len(args))
	ok = true
	for i, a := range args {
		r := env.Eval(a)
		if v, isVal := ast.AsValue(r); isVal {
			vals[i] = v
			residual[i] = valueToExpr(v)
			continue
		}
		ok = false
		e, _ := ast.AsExpr(r)
		residual[i] = e
	}
	if !ok {
		vals = nil
	}
	return
}

func residualCall(fn string, residual []ast.Expr, loc ast.Location) ast.Result {
	return ast.ExprResult{E: ast.NewCall(fn, residual, loc)}
}

// numArg extracts a float64, null-strict: reports false (caller should
// null-propagate) if v is null or not a number.
func numArg(v *ast.Value) (float64, bool) {
	if v.IsNull() {
		return 0, false
	}
	return v.NumberVal()
}

func strArg(v *ast.Value) (string, bool) {
	if v.IsNull() {
		return "", false
	}
	return v.StringVal()
}

func boolArg(v *ast.Value) (bool, bool) {
	if v.IsNull() {
		return false, false
	}
	return v.BoolVal()
}

func anyNull(vals ...*ast.Value) bool {
	for _, v := range vals {
		if v.IsNull() {
			return true
		}
	}
	return false
}

// stringify renders a Value for `string`/template concatenation.
func stringify(v *ast.Value) string {
	switch v.Kind() {
	case ast.KindNull:
		return ""
	case ast.KindString:
		s, _ := v.StringVal()
		return s
	case ast.KindBool:
		b, _ := v.BoolVal()
		if b {
			return "true"
		}
		return "false"
	default:
		return v.String()
	}
}

func numFn(name string, fn func(a, b float64) float64, ret ast.TypeKind) *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: name,
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			vals, residual, ok := reduceArgs(env, call.Args)
			if !ok {
				return residualCall(name, residual, call.Loc())
			}
			if len(vals) != 2 {
				return ast.ValueResult{V: ast.NullWithError(name + ": expects 2 arguments")}
			}
			a, aok := numArg(vals[0])
			b, bok := numArg(vals[1])
			if !aok || !bok {
				return ast.ValueResult{V: ast.NullWithError(name + ": null operand").WithDeps(vals...)}
			}
			return ast.ValueResult{V: ast.Number(fn(a, b)).WithDeps(vals...).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.Primitive(ret) },
	}
}
