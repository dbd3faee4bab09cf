package builtins

import "github.com/cwbudde/formexpr/internal/ast"

func logic() map[string]*ast.FuncHandle {
	return map[string]*ast.FuncHandle{
		"and":  andOrFn("and", false, true),
		"or":   andOrFn("or", true, false),
		"?":    ternaryFn(),
		"??":   coalesceFn(),
	}
}

// andOrFn builds `and`/`or`: shortOn is the boolean value that short-circuits
// the whole chain (false for and, true for or); identity is the result when
// every operand actually evaluated was the non-short-circuiting value and
// nothing symbolic remains.
func andOrFn(name string, shortOn, identity bool) *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: name,
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			if len(call.Args) == 0 {
				return ast.ValueResult{V: ast.NullWithError(name + ": expects at least 1 argument")}
			}
			var evaluated []*ast.Value
			var residualArgs []ast.Expr
			for _, a := range call.Args {
				r := env.Eval(a)
				v, isVal := ast.AsValue(r)
				if !isVal {
					e, _ := ast.AsExpr(r)
					residualArgs = append(residualArgs, e)
					continue
				}
				evaluated = append(evaluated, v)
				if v.IsNull() {
					return ast.ValueResult{V: ast.NullWithError(name + ": null operand").WithDeps(evaluated...)}
				}
				b, bok := v.BoolVal()
				if !bok {
					return ast.ValueResult{V: ast.NullWithError(name + ": non-boolean operand").WithDeps(evaluated...)}
				}
				if b == shortOn {
					return ast.ValueResult{V: ast.Bool(shortOn).WithDeps(evaluated...).WithLoc(call.Loc())}
				}
				// the identity value (true for and, false for or): drop it.
			}
			if len(residualArgs) == 0 {
				return ast.ValueResult{V: ast.Bool(identity).WithDeps(evaluated...).WithLoc(call.Loc())}
			}
			if len(residualArgs) == 1 {
				return ast.ExprResult{E: residualArgs[0]}
			}
			return ast.ExprResult{E: ast.NewCall(name, residualArgs, call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.Primitive(ast.TBoolean) },
	}
}

func ternaryFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "?",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			if len(call.Args) != 3 {
				return ast.ValueResult{V: ast.NullWithError("?: expects 3 arguments")}
			}
			cr := env.Eval(call.Args[0])
			cv, isVal := ast.AsValue(cr)
			if !isVal {
				ce, _ := ast.AsExpr(cr)
				tRes := reduceToExpr(env, call.Args[1])
				eRes := reduceToExpr(env, call.Args[2])
				return ast.ExprResult{E: ast.NewCall("?", []ast.Expr{ce, tRes, eRes}, call.Loc())}
			}
			if cv.IsNull() {
				return ast.ValueResult{V: ast.NullWithError("?: null condition").WithDeps(cv)}
			}
			b, bok := cv.BoolVal()
			if !bok {
				return ast.ValueResult{V: ast.NullWithError("?: non-boolean condition").WithDeps(cv)}
			}
			branch := call.Args[2]
			if b {
				branch = call.Args[1]
			}
			br := env.Eval(branch)
			bv := ast.MustValue(br)
			return ast.ValueResult{V: bv.WithDeps(cv).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type {
			if len(call.Args) != 3 {
				return ast.AnyType()
			}
			return ast.AnyType()
		},
	}
}

func coalesceFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "??",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			if len(call.Args) != 2 {
				return ast.ValueResult{V: ast.NullWithError("??: expects 2 arguments")}
			}
			lr := env.Eval(call.Args[0])
			lv, isVal := ast.AsValue(lr)
			if !isVal {
				le, _ := ast.AsExpr(lr)
				rRes := reduceToExpr(env, call.Args[1])
				return ast.ExprResult{E: ast.NewCall("??", []ast.Expr{le, rRes}, call.Loc())}
			}
			if !lv.IsNull() {
				return ast.ValueResult{V: lv}
			}
			rr := env.Eval(call.Args[1])
			rv := ast.MustValue(rr)
			return ast.ValueResult{V: rv.WithDeps(lv).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.AnyType() },
	}
}

// reduceToExpr reduces e under env for use inside a residual Call: a Value
// result is re-wrapped as a ValueLit, a residual expression is used as-is.
func reduceToExpr(env ast.Env, e ast.Expr) ast.Expr {
	r := env.Eval(e)
	if v, ok := ast.AsValue(r); ok {
		return valueToExpr(v)
	}
	expr, _ := ast.AsExpr(r)
	return expr
}
