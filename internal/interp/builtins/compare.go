package builtins

import "github.com/cwbudde/formexpr/internal/ast"

func comparisons() map[string]*ast.FuncHandle {
	ops := map[string]func(c int) bool{
		"=":  func(c int) bool { return c == 0 },
		"!=": func(c int) bool { return c != 0 },
		"<":  func(c int) bool { return c == -1 },
		"<=": func(c int) bool { return c == -1 || c == 0 },
		">":  func(c int) bool { return c == 1 },
		">=": func(c int) bool { return c == 1 || c == 0 },
	}
	m := map[string]*ast.FuncHandle{}
	for name, test := range ops {
		name, test := name, test
		m[name] = &ast.FuncHandle{
			Name: name,
			Eval: func(env ast.Env, call *ast.Call) ast.Result {
				vals, residual, ok := reduceArgs(env, call.Args)
				if !ok {
					return residualCall(name, residual, call.Loc())
				}
				if len(vals) != 2 {
					return ast.ValueResult{V: ast.NullWithError(name + ": expects 2 arguments")}
				}
				if anyNull(vals[0], vals[1]) {
					return ast.ValueResult{V: ast.NullWithError(name + ": null operand").WithDeps(vals...)}
				}
				c := env.Compare(vals[0], vals[1])
				if c == -2 {
					return ast.ValueResult{V: ast.NullWithError(name + ": incomparable operands").WithDeps(vals...)}
				}
				return ast.ValueResult{V: ast.Bool(test(c)).WithDeps(vals...).WithLoc(call.Loc())}
			},
			GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.Primitive(ast.TBoolean) },
		}
	}
	m["!"] = &ast.FuncHandle{
		Name: "!",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			vals, residual, ok := reduceArgs(env, call.Args)
			if !ok {
				return residualCall("!", residual, call.Loc())
			}
			if len(vals) != 1 {
				return ast.ValueResult{V: ast.NullWithError("!: expects 1 argument")}
			}
			b, bok := boolArg(vals[0])
			if !bok {
				return ast.ValueResult{V: ast.NullWithError("!: non-boolean operand").WithDeps(vals...)}
			}
			return ast.ValueResult{V: ast.Bool(!b).WithDeps(vals...).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.Primitive(ast.TBoolean) },
	}
	return m
}
