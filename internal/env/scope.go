// Package env implements the expression language's environment model
//: an immutable chain of lexical scopes with per-scope lazy-binding
// caches, the magic `_` current-value binding, and a per-scope identity
// (ScopeID).
package env

import (
	"sync/atomic"

	"github.com/cwbudde/formexpr/internal/ast"
)

var nextID atomic.Int64

// Scope is the concrete ast.Env: a node in an immutable linked scope chain.
// Every scope owns its own bindings (unevaluated expressions) and a cache
// that is filled lazily, once, on first lookup of each of its own names —
// mirroring the DWScript runtime's LazyThunk "evaluate on first access,
// then cache" pattern.
type Scope struct {
	bindings map[string]ast.Expr
	cache    map[string]ast.Result
	id       int64
	parent   *Scope
	compare  func(a, b *ast.Value) int
	mode     ast.Mode
	evalFn   ast.EvalFunc
}

// NewRoot creates the outermost scope for one of the three evaluator
// modes. evalFn is the mode's dispatch function, used both to answer
// Env.Eval and internally to lazily evaluate bindings on first lookup.
func NewRoot(mode ast.Mode, evalFn ast.EvalFunc) *Scope {
	return &Scope{
		bindings: map[string]ast.Expr{},
		cache:    map[string]ast.Result{},
		id:       nextID.Add(1),
		compare:  ast.DefaultCompare,
		mode:     mode,
		evalFn:   evalFn,
	}
}

// NewScope returns a child scope with bindings in scope, or the receiver
// unchanged if bindings is empty.
func (s *Scope) NewScope(bindings map[string]ast.Expr) ast.Env {
	if len(bindings) == 0 {
		return s
	}
	copied := make(map[string]ast.Expr, len(bindings))
	for k, v := range bindings {
		copied[k] = v
	}
	return &Scope{
		bindings: copied,
		cache:    map[string]ast.Result{},
		id:       nextID.Add(1),
		parent:   s,
		compare:  s.compare,
		mode:     s.mode,
		evalFn:   s.evalFn,
	}
}

// WithCurrent binds `_` to v in a new scope.
func (s *Scope) WithCurrent(v *ast.Value) ast.Env {
	return s.NewScope(map[string]ast.Expr{
		"_": ast.NewValueLit(v, ast.Location{}),
	})
}

// CurrentValue resolves `_` in the nearest scope that defines it.
func (s *Scope) CurrentValue() (*ast.Value, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if _, ok := scope.bindings["_"]; ok {
			return ast.AsValue(s.Lookup("_"))
		}
	}
	return nil, false
}

// Compare orders two values using this scope's comparator.
func (s *Scope) Compare(a, b *ast.Value) int {
	return s.compare(a, b)
}

// Eval dispatches e to this scope's mode.
func (s *Scope) Eval(e ast.Expr) ast.Result {
	return s.evalFn(s, e)
}

// Mode reports which evaluator variant this scope chain was built for.
func (s *Scope) Mode() ast.Mode { return s.mode }

// ScopeID is this scope's own monotonic identity.
func (s *Scope) ScopeID() int { return int(s.id) }

// Lookup finds the nearest scope whose own bindings define name, evaluates
// the binding there (lazily, once, with the result cached in that scope),
// and returns it. A self-referential binding ($x := $x) short-circuits
// without recursing.
func (s *Scope) Lookup(name string) ast.Result {
	for scope := s; scope != nil; scope = scope.parent {
		expr, ok := scope.bindings[name]
		if !ok {
			continue
		}
		if cached, ok := scope.cache[name]; ok {
			return cached
		}
		var result ast.Result
		if v, ok := expr.(*ast.Var); ok && v.Name == name {
			result = selfReference(scope.mode, v)
		} else {
			result = scope.evalFn(scope, expr)
		}
		scope.cache[name] = result
		return result
	}
	return unresolved(s.mode, name)
}

func selfReference(mode ast.Mode, v *ast.Var) ast.Result {
	if mode == ast.ModePartial {
		return ast.ExprResult{E: v}
	}
	return ast.ValueResult{V: ast.NullWithError("self-referential binding: $" + v.Name)}
}

func unresolved(mode ast.Mode, name string) ast.Result {
	if mode == ast.ModePartial {
		return ast.ExprResult{E: ast.NewVar(name, ast.Location{})}
	}
	return ast.ValueResult{V: ast.NullWithError("unknown variable: $" + name)}
}
