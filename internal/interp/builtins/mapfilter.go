package builtins

import "github.com/cwbudde/formexpr/internal/ast"

func mapFilter() map[string]*ast.FuncHandle {
	return map[string]*ast.FuncHandle{
		".":      flatMapFn(),
		"map":    mapFn(),
		"[":      filterOrLookupFn(),
		"elem":   elemFn(),
		"which":  whichFn(),
		"this":   thisFn(),
		"object": objectFn(),
		"keys":   keysValuesFn("keys", true),
		"values": keysValuesFn("values", false),
		"merge":  mergeFn(),
	}
}

// applyAsElement evaluates right under env with `_` rebound to elem. If
// right is a Lambda, its Param is additionally bound to elem (the map/`.`
// element convention) rather than to an index.
func applyAsElement(env ast.Env, right ast.Expr, elem *ast.Value) (*ast.Value, bool) {
	scoped := env.WithCurrent(elem)
	if lambda, ok := right.(*ast.Lambda); ok {
		scoped = scoped.NewScope(map[string]ast.Expr{lambda.Param: ast.NewValueLit(elem, ast.Location{})})
		r := scoped.Eval(lambda.Body)
		return ast.AsValue(r)
	}
	r := scoped.Eval(right)
	return ast.AsValue(r)
}

func flatMapFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: ".",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			if len(call.Args) != 2 {
				return ast.ValueResult{V: ast.NullWithError(".: expects 2 arguments")}
			}
			leftR := env.Eval(call.Args[0])
			leftV, ok := ast.AsValue(leftR)
			if !ok {
				return ast.ExprResult{E: call}
			}
			right := call.Args[1]
			if elems, isArr := leftV.ArrayVal(); isArr {
				var out []*ast.Value
				for _, elem := range elems {
					resV, ok := applyAsElement(env, right, elem)
					if !ok {
						return ast.ExprResult{E: call}
					}
					if subElems, isSubArr := resV.ArrayVal(); isSubArr {
						for _, sub := range subElems {
							out = append(out, sub.WithDeps(elem))
						}
						continue
					}
					out = append(out, resV.WithDeps(elem))
				}
				return ast.ValueResult{V: ast.ArrayOf(out).WithLoc(call.Loc())}
			}
			resV, ok := applyAsElement(env, right, leftV)
			if !ok {
				return ast.ExprResult{E: call}
			}
			return ast.ValueResult{V: resV.WithDeps(leftV).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.AnyType() },
	}
}

func mapFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "map",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			if len(call.Args) != 2 {
				return ast.ValueResult{V: ast.NullWithError("map: expects 2 arguments")}
			}
			leftR := env.Eval(call.Args[0])
			leftV, ok := ast.AsValue(leftR)
			if !ok {
				return ast.ExprResult{E: call}
			}
			elems, isArr := leftV.ArrayVal()
			if !isArr {
				return ast.ValueResult{V: ast.NullWithError("map: left operand must be an array").WithDeps(leftV)}
			}
			right := call.Args[1]
			out := make([]*ast.Value, len(elems))
			for i, elem := range elems {
				resV, ok := applyAsElement(env, right, elem)
				if !ok {
					return ast.ExprResult{E: call}
				}
				out[i] = resV.WithDeps(elem)
			}
			return ast.ValueResult{V: ast.ArrayOf(out).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.ArrayType(nil, nil) },
	}
}

func filterOrLookupFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "[",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			if len(call.Args) != 2 {
				return ast.ValueResult{V: ast.NullWithError("[: expects 2 arguments")}
			}
			leftR := env.Eval(call.Args[0])
			leftV, ok := ast.AsValue(leftR)
			if !ok {
				return ast.ExprResult{E: call}
			}
			right := call.Args[1]
			if elems, isArr := leftV.ArrayVal(); isArr {
				if lambda, isLambda := right.(*ast.Lambda); isLambda {
					var out []*ast.Value
					for i, elem := range elems {
						v, ok := indexLambda(env, lambda, i, elem)
						if !ok {
							return ast.ExprResult{E: call}
						}
						b, bok := boolArg(v)
						if !bok {
							return ast.ValueResult{V: ast.NullWithError("[: filter predicate must return a boolean")}
						}
						if b {
							out = append(out, elem)
						}
					}
					return ast.ValueResult{V: ast.ArrayOf(out).WithLoc(call.Loc())}
				}
				idxR := env.Eval(right)
				idxV, ok := ast.AsValue(idxR)
				if !ok {
					return ast.ExprResult{E: call}
				}
				if idxV.IsNull() {
					return ast.ValueResult{V: ast.NullWithError("[: null index").WithDeps(idxV)}
				}
				n, nok := numArg(idxV)
				if !nok {
					return ast.ValueResult{V: ast.NullWithError("[: index must be a number")}
				}
				i := int(n)
				if i < 0 || i >= len(elems) {
					return ast.ValueResult{V: ast.NullWithError("[: index out of bounds").WithDeps(idxV)}
				}
				return ast.ValueResult{V: elems[i].WithDeps(idxV).WithLoc(call.Loc())}
			}
			if obj, isObj := leftV.ObjectVal(); isObj {
				keyR := env.Eval(right)
				keyV, ok := ast.AsValue(keyR)
				if !ok {
					return ast.ExprResult{E: call}
				}
				if keyV.IsNull() {
					return ast.ValueResult{V: ast.NullWithError("[: null key").WithDeps(keyV)}
				}
				key, kok := strArg(keyV)
				if !kok {
					return ast.ValueResult{V: ast.NullWithError("[: key must be a string")}
				}
				field := obj.Get(key)
				if field == nil {
					return ast.ValueResult{V: ast.NullWithError("[: unknown key " + key).WithDeps(keyV)}
				}
				return ast.ValueResult{V: field.WithDeps(keyV).WithLoc(call.Loc())}
			}
			return ast.ValueResult{V: ast.NullWithError("[: left operand must be an array or object").WithDeps(leftV)}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.AnyType() },
	}
}

func elemFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "elem",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			vals, residual, ok := reduceArgs(env, call.Args)
			if !ok {
				return residualCall("elem", residual, call.Loc())
			}
			if len(vals) != 2 {
				return ast.ValueResult{V: ast.NullWithError("elem: expects 2 arguments")}
			}
			elems, isArr := vals[0].ArrayVal()
			if !isArr {
				return ast.ValueResult{V: ast.NullWithError("elem: first argument must be an array").WithDeps(vals[0])}
			}
			n, nok := numArg(vals[1])
			if !nok {
				return ast.ValueResult{V: ast.NullWithError("elem: null index").WithDeps(vals...)}
			}
			i := int(n)
			if i < 0 || i >= len(elems) {
				return ast.ValueResult{V: ast.NullWithError("elem: index out of bounds").WithDeps(vals...)}
			}
			return ast.ValueResult{V: elems[i].WithDeps(vals...).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.AnyType() },
	}
}

func whichFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "which",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			if len(call.Args) < 1 || len(call.Args)%2 != 1 {
				return ast.ValueResult{V: ast.NullWithError("which: expects value, (match, result)*")}
			}
			valR := env.Eval(call.Args[0])
			valV, ok := ast.AsValue(valR)
			if !ok {
				return ast.ExprResult{E: call}
			}
			touched := []*ast.Value{valV}
			for i := 1; i < len(call.Args); i += 2 {
				matchR := env.Eval(call.Args[i])
				matchV, ok := ast.AsValue(matchR)
				if !ok {
					return ast.ExprResult{E: call}
				}
				touched = append(touched, matchV)
				matched := false
				if candidates, isArr := matchV.ArrayVal(); isArr {
					for _, c := range candidates {
						touched = append(touched, c)
						if env.Compare(valV, c) == 0 {
							matched = true
							break
						}
					}
				} else if env.Compare(valV, matchV) == 0 {
					matched = true
				}
				if matched {
					resR := env.Eval(call.Args[i+1])
					resV, ok := ast.AsValue(resR)
					if !ok {
						return ast.ExprResult{E: call}
					}
					touched = append(touched, resV)
					return ast.ValueResult{V: resV.WithDeps(touched...).WithLoc(call.Loc())}
				}
			}
			return ast.ValueResult{V: ast.NullWithError("which: no match").WithDeps(touched...)}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.AnyType() },
	}
}

func thisFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "this",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			cur, ok := env.CurrentValue()
			if !ok {
				return ast.ValueResult{V: ast.NullWithError("this: no current value in scope")}
			}
			return ast.ValueResult{V: cur}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return env.DataType() },
	}
}

func objectFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "object",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			if len(call.Args)%2 != 0 {
				return ast.ValueResult{V: ast.NullWithError("object: expects an even number of arguments")}
			}
			vals, residual, ok := reduceArgs(env, call.Args)
			if !ok {
				return residualCall("object", residual, call.Loc())
			}
			obj := ast.NewObjectPayload()
			for i := 0; i < len(vals); i += 2 {
				key, kok := strArg(vals[i])
				if !kok {
					return ast.ValueResult{V: ast.NullWithError("object: keys must be strings")}
				}
				obj.Set(key, vals[i+1])
			}
			return ast.ValueResult{V: ast.ObjectOf(obj).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type {
			fields := make(map[string]ast.Type)
			for i := 0; i+1 < len(call.Args); i += 2 {
				if lit, ok := call.Args[i].(*ast.ValueLit); ok {
					if k, isStr := lit.V.StringVal(); isStr {
						fields[k] = ast.AnyType()
					}
				}
			}
			return ast.ObjectType(fields)
		},
	}
}

func keysValuesFn(name string, wantKeys bool) *ast.FuncHandle {
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
			obj, isObj := vals[0].ObjectVal()
			if !isObj {
				return ast.ValueResult{V: ast.NullWithError(name + ": expects an object").WithDeps(vals[0])}
			}
			keys := obj.Keys()
			out := make([]*ast.Value, len(keys))
			for i, k := range keys {
				if wantKeys {
					out[i] = ast.Str(k)
				} else {
					out[i] = obj.Get(k)
				}
			}
			return ast.ValueResult{V: ast.ArrayOf(out).WithDeps(vals[0]).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.ArrayType(nil, nil) },
	}
}

func mergeFn() *ast.FuncHandle {
	return &ast.FuncHandle{
		Name: "merge",
		Eval: func(env ast.Env, call *ast.Call) ast.Result {
			if len(call.Args) < 1 {
				return ast.ValueResult{V: ast.NullWithError("merge: expects at least 1 argument")}
			}
			vals, residual, ok := reduceArgs(env, call.Args)
			if !ok {
				return residualCall("merge", residual, call.Loc())
			}
			obj := ast.NewObjectPayload()
			for _, v := range vals {
				o, isObj := v.ObjectVal()
				if !isObj {
					return ast.ValueResult{V: ast.NullWithError("merge: all arguments must be objects")}
				}
				for _, k := range o.Keys() {
					obj.Set(k, o.Get(k))
				}
			}
			return ast.ValueResult{V: ast.ObjectOf(obj).WithDeps(vals...).WithLoc(call.Loc())}
		},
		GetType: func(env ast.TypeEnv, call *ast.Call) ast.Type { return ast.ObjectType(nil) },
	}
}
