package builtins

import (
	"strconv"
	"strings"

	"github.com/cwbudde/formexpr/internal/ast"
)

func collections() map[string]*ast.FuncHandle {
	return map[string]*ast.FuncHandle{
		"array":    arrayFn(),
		"string":   stringFn(),
		"lower":    caseFn("lower", strings.ToLower),
		"upper":    caseFn("upper", strings.ToUpper),
		"fixed":    fixedFn(),
		"sum":      reduceFn("sum", func(acc, n float64) float64 { return acc + n }, 0),
		"min":      reduceFn("min", minOp, 0),
		"max":      reduceFn("max", maxOp, 0),
		"count":    countFn(),
		"notEmpty": notEmptyFn(),
	}
}

func minOp(acc, n float64) float64 {
	if n < acc {
		return n
	}
	return acc
}

func maxOp(acc, n float64) float64 {
	if n > acc {
		return n
	}
	return acc
}

func arrayFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "array",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			vals, residual, ok := reduceArgs(env, call.Args)
			if !ok {
				return residualCall("array", residual, call.Loc())
			}
			var out []*ast.Value
			for _, v := range vals {
				if elems, isArr := v.ArrayVal(); isArr {
					out = append(out, elems...)
					continue
				}
				out = append(out, v)
			}
			return ast.ValueResult{V: ast.ArrayOf(out).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.ArrayType(nil, nil) },
	}
}

func stringFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "string",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			vals, residual, ok := reduceArgs(env, call.Args)
			if !ok {
				return residualCall("string", residual, call.Loc())
			}
			var sb strings.Builder
			for _, v := range vals {
				sb.WriteString(stringify(v))
			}
			return ast.ValueResult{V: ast.Str(sb.String()).WithDeps(vals...).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.Primitive(ast.TString) },
	}
}

func caseFn(name string, fn func(string) string) *ast.FuncHandle {
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
			s, sok := strArg(vals[0])
			if !sok {
				return ast.ValueResult{V: ast.NullWithError(name + ": null or non-string operand").WithDeps(vals...)}
			}
			return ast.ValueResult{V: ast.Str(fn(s)).WithDeps(vals...).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.Primitive(ast.TString) },
	}
}

func fixedFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "fixed",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			vals, residual, ok := reduceArgs(env, call.Args)
			if !ok {
				return residualCall("fixed", residual, call.Loc())
			}
			if len(vals) < 1 || len(vals) > 2 {
				return ast.ValueResult{V: ast.NullWithError("fixed: expects 1 or 2 arguments")}
			}
			n, nok := numArg(vals[0])
			if !nok {
				return ast.ValueResult{V: ast.NullWithError("fixed: null operand").WithDeps(vals...)}
			}
			digits := 2
			if len(vals) == 2 {
				d, dok := numArg(vals[1])
				if !dok {
					return ast.ValueResult{V: ast.NullWithError("fixed: null precision").WithDeps(vals...)}
				}
				digits = int(d)
			}
			return ast.ValueResult{V: ast.Str(strconv.FormatFloat(n, 'f', digits, 64)).WithDeps(vals...).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.Primitive(ast.TString) },
	}
}

func reduceFn(name string, fn func(acc, n float64) float64, seed float64) *ast.FuncHandle {
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
			elems, isArr := vals[0].ArrayVal()
			if !isArr {
				return ast.ValueResult{V: ast.NullWithError(name + ": expects an array").WithDeps(vals[0])}
			}
			if len(elems) == 0 {
				return ast.ValueResult{V: ast.NullWithError(name + ": empty sequence").WithDeps(vals[0])}
			}
			// Every element is touched regardless of where a bad one turns
			// up: the result, even an error, depends on the whole sequence
			// having been read, not just the prefix scanned before it.
			nums := make([]float64, len(elems))
			allNumeric := true
			for i, e := range elems {
				n, nok := numArg(e)
				if !nok {
					allNumeric = false
					continue
				}
				nums[i] = n
			}
			if !allNumeric {
				return ast.ValueResult{V: ast.NullWithError(name + ": null element").WithDeps(elems...)}
			}
			acc := nums[0]
			for _, n := range nums[1:] {
				acc = fn(acc, n)
			}
			return ast.ValueResult{V: ast.Number(acc).WithDeps(elems...).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.Primitive(ast.TNumber) },
	}
}

func countFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "count",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			vals, residual, ok := reduceArgs(env, call.Args)
			if !ok {
				return residualCall("count", residual, call.Loc())
			}
			if len(vals) != 1 {
				return ast.ValueResult{V: ast.NullWithError("count: expects 1 argument")}
			}
			elems, isArr := vals[0].ArrayVal()
			if !isArr {
				return ast.ValueResult{V: ast.NullWithError("count: expects an array").WithDeps(vals[0])}
			}
			return ast.ValueResult{V: ast.Number(float64(len(elems))).WithDeps(vals[0]).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.Primitive(ast.TNumber) },
	}
}

func notEmptyFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "notEmpty",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			vals, residual, ok := reduceArgs(env, call.Args)
			if !ok {
				return residualCall("notEmpty", residual, call.Loc())
			}
			if len(vals) != 1 {
				return ast.ValueResult{V: ast.NullWithError("notEmpty: expects 1 argument")}
			}
			v := vals[0]
			result := !v.IsNull()
			if result {
				if s, isStr := v.StringVal(); isStr && s == "" {
					result = false
				}
			}
			return ast.ValueResult{V: ast.Bool(result).WithDeps(v).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.Primitive(ast.TBoolean) },
	}
}
