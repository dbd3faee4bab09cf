package builtins

import "github.com/cwbudde/formexpr/internal/ast"

func scans() map[string]*ast.FuncHandle {
	return map[string]*ast.FuncHandle{
		"any":       anyAllFn("any", true),
		"all":       anyAllFn("all", false),
		"first":     firstFn(false),
		"firstIndex": firstFn(true),
		"contains":  containsFn(false),
		"indexOf":   containsFn(true),
	}
}

// indexLambda evaluates lambda.Body with Param bound to index i and `_`
// rebound to elem.
func indexLambda(env ast.Env, lambda *ast.Lambda, i int, elem *ast.Value) (*ast.Value, bool) {
	scope := env.NewScope(map[string]ast.Expr{
		lambda.Param: ast.NewValueLit(ast.Number(float64(i)), ast.Location{}),
	}).WithCurrent(elem)
	r := scope.Eval(lambda.Body)
	v, ok := ast.AsValue(r)
	return v, ok
}

func anyAllFn(name string, shortOn bool) *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: name,
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			if len(call.Args) != 2 {
				return ast.ValueResult{V: ast.NullWithError(name + ": expects 2 arguments")}
			}
			arrR := env.Eval(call.Args[0])
			arrV, ok := ast.AsValue(arrR)
			if !ok {
				return ast.ExprResult{E: call}
			}
			elems, isArr := arrV.ArrayVal()
			if !isArr {
				return ast.ValueResult{V: ast.NullWithError(name + ": expects an array").WithDeps(arrV)}
			}
			lambda, isLambda := call.Args[1].(*ast.Lambda)
			if !isLambda {
				return ast.ValueResult{V: ast.NullWithError(name + ": second argument must be a lambda")}
			}
			var touched []*ast.Value
			for i, elem := range elems {
				touched = append(touched, elem)
				v, ok := indexLambda(env, lambda, i, elem)
				if !ok {
					return ast.ExprResult{E: call}
				}
				b, bok := boolArg(v)
				if !bok {
					return ast.ValueResult{V: ast.NullWithError(name + ": predicate did not return a boolean").WithDeps(touched...)}
				}
				if b == shortOn {
					return ast.ValueResult{V: ast.Bool(shortOn).WithDeps(touched...).WithLoc(call.Loc())}
				}
			}
			return ast.ValueResult{V: ast.Bool(!shortOn).WithDeps(touched...).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.Primitive(ast.TBoolean) },
	}
}

func firstFn(returnIndex bool) *ast.FuncHandle {
	name := "first"
	if returnIndex {
		name = "firstIndex"
	}
	return &ast.FuncHandle{
		Name: name,
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			if len(call.Args) != 2 {
				return ast.ValueResult{V: ast.NullWithError(name + ": expects 2 arguments")}
			}
			arrR := env.Eval(call.Args[0])
			arrV, ok := ast.AsValue(arrR)
			if !ok {
				return ast.ExprResult{E: call}
			}
			elems, isArr := arrV.ArrayVal()
			if !isArr {
				return ast.ValueResult{V: ast.NullWithError(name + ": expects an array").WithDeps(arrV)}
			}
			lambda, isLambda := call.Args[1].(*ast.Lambda)
			if !isLambda {
				return ast.ValueResult{V: ast.NullWithError(name + ": second argument must be a lambda")}
			}
			var touched []*ast.Value
			for i, elem := range elems {
				touched = append(touched, elem)
				v, ok := indexLambda(env, lambda, i, elem)
				if !ok {
					return ast.ExprResult{E: call}
				}
				b, bok := boolArg(v)
				if !bok {
					return ast.ValueResult{V: ast.NullWithError(name + ": predicate did not return a boolean").WithDeps(touched...)}
				}
				if b {
					if returnIndex {
						return ast.ValueResult{V: ast.Number(float64(i)).WithDeps(touched...).WithLoc(call.Loc())}
					}
					return ast.ValueResult{V: elem.WithDeps(touched...).WithLoc(call.Loc())}
				}
			}
			return ast.ValueResult{V: ast.NullWithError(name + ": no match").WithDeps(touched...)}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.AnyType() },
	}
}

func containsFn(returnIndex bool) *ast.FuncHandle {
	name := "contains"
	if returnIndex {
		name = "indexOf"
	}
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
			elems, isArr := vals[0].ArrayVal()
			if !isArr {
				return ast.ValueResult{V: ast.NullWithError(name + ": expects an array").WithDeps(vals[0])}
			}
			needle := vals[1]
			var touched []*ast.Value
			touched = append(touched, needle)
			for i, elem := range elems {
				touched = append(touched, elem)
				if env.Compare(elem, needle) == 0 {
					if returnIndex {
						return ast.ValueResult{V: ast.Number(float64(i)).WithDeps(touched...).WithLoc(call.Loc())}
					}
					return ast.ValueResult{V: ast.Bool(true).WithDeps(touched...).WithLoc(call.Loc())}
				}
			}
			if returnIndex {
				return ast.ValueResult{V: ast.NullWithError(name + ": not found").WithDeps(touched...)}
			}
			return ast.ValueResult{V: ast.Bool(false).WithDeps(touched...).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type {
			if returnIndex {
				return ast.Primitive(ast.TNumber)
			}
			return ast.Primitive(ast.TBoolean)
		},
	}
}
