// Package types implements the best-effort static type checker:
// a single recursive descent over the seven AST variants that reports a
// structural ast.Type for an expression without evaluating it. It never
// rejects an expression outright — an unknown shape just types as `any`.
package types

import "github.com/cwbudde/formexpr/internal/ast"

// FuncTypes resolves a built-in's name to the FuncHandle carrying its
// GetType callback — satisfied by *builtins.Registry. Declared as an
// interface here (rather than importing package builtins directly) so the
// checker has no dependency on which standard library is installed.
type FuncTypes interface {
	Get(name string) (*ast.FuncHandle, bool)
}

// Check computes e's static type under env, consulting funcs for the
// return type of any Call.
func Check(env ast.TypeEnv, funcs FuncTypes, e ast.Expr) ast.Type {
	switch n := e.(type) {
	case *ast.ValueLit:
		return ast.NativeType(n.V)
	case *ast.Var:
		if t, ok := env.VarType(n.Name); ok {
			return t
		}
		return ast.AnyType()
	case *ast.Property:
		data := env.DataType()
		if data.Kind != ast.TObject {
			return ast.AnyType()
		}
		if t, ok := data.Fields[n.Name]; ok {
			return t
		}
		return ast.AnyType()
	case *ast.Array:
		positional := make([]ast.Type, len(n.Elems))
		for i, el := range n.Elems {
			positional[i] = Check(env, funcs, el)
		}
		return ast.ArrayType(positional, nil)
	case *ast.Let:
		scoped := env
		for _, b := range n.Bindings {
			scoped = scoped.WithVar(b.Name, Check(scoped, funcs, b.Expr))
		}
		return Check(scoped, funcs, n.Body)
	case *ast.Call:
		fh, ok := funcs.Get(n.Fn)
		if !ok || fh.GetType == nil {
			return ast.AnyType()
		}
		return fh.GetType(env, n)
	case *ast.Lambda:
		return ast.AnyType()
	default:
		return ast.AnyType()
	}
}

// env is a minimal ast.TypeEnv, chained the same way package env chains
// Scopes: a var/data binding plus a parent to fall back to.
type env struct {
	vars   map[string]ast.Type
	data   ast.Type
	parent ast.TypeEnv
}

// NewEnv builds a root TypeEnv with the given data type for `_` and no
// bound variables.
func NewEnv(dataType ast.Type) ast.TypeEnv {
	return &env{data: dataType}
}

func (e *env) VarType(name string) (ast.Type, bool) {
	if t, ok := e.vars[name]; ok {
		return t, true
	}
	if e.parent != nil {
		return e.parent.VarType(name)
	}
	return ast.Type{}, false
}

func (e *env) DataType() ast.Type { return e.data }

func (e *env) WithDataType(t ast.Type) ast.TypeEnv {
	return &env{data: t, parent: e}
}

func (e *env) WithVar(name string, t ast.Type) ast.TypeEnv {
	vars := map[string]ast.Type{name: t}
	return &env{vars: vars, data: e.data, parent: e}
}
