package builtins

import (
	"math"

	"github.com/cwbudde/formexpr/internal/ast"
)

func arithmetic() map[string]*ast.FuncHandle {
	m := map[string]*ast.FuncHandle{
		"+": numFn("+", func(a, b float64) float64 { return a + b }, ast.TNumber),
		"-": numFn("-", func(a, b float64) float64 { return a - b }, ast.TNumber),
		"*": numFn("*", func(a, b float64) float64 { return a * b }, ast.TNumber),
		"/": numFn("/", func(a, b float64) float64 { return a / b }, ast.TNumber),
		"%": numFn("%", math.Mod, ast.TNumber),
	}
	m["floor"] = unaryNumFn("floor", math.Floor)
	m["ceil"] = unaryNumFn("ceil", math.Ceil)
	return m
}

func unaryNumFn(name string, fn func(float64) float64) *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: name,
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			vals, residual, ok := reduceArgs(env, call.Args)
			if !ok {
				return residualCall(name, residual, call.Loc())
			}
			if len(vals) != 1 {
				return ast.ValueResult{V: ast.NullWithError(name + ": expects 1 argument")}
			}
			n, nok := numArg(vals[0])
			if !nok {
				return ast.ValueResult{V: ast.NullWithError(name + ": null operand").WithDeps(vals...)}
			}
			return ast.ValueResult{V: ast.Number(fn(n)).WithDeps(vals...).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.Primitive(ast.TNumber) },
	}
}
