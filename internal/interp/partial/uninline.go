package partial

import (
	"fmt"
	"sort"

	"github.com/cwbudde/formexpr/internal/ast"
	"github.com/cwbudde/formexpr/internal/printer"
)

// Uninline is the companion pass to partial evaluation's inlining: partial evaluation freely substitutes simple bindings at every use
// site, which can leave a non-trivial subexpression duplicated across the
// residual tree. Uninline finds subexpressions that recur at least twice
// and whose complexity is at least 1, and hoists each into a single `let`
// binding wrapping the whole expression, replacing every occurrence with a
// reference to it. Replacement works top-down, so a candidate whose every
// occurrence sits inside a larger hoisted one is left unreferenced, and its
// binding is dropped.
//
// Complexity follows the same weights evaluation cost is judged by
// elsewhere: a literal or Var costs 0, a Property costs 1, every
// Call/Array/Lambda costs 1 plus its children's, and a Let costs the sum of
// its bindings plus its body.
//
// Candidates are identified by their printed form, which is a coarser key
// than scope-aware occurrence counting would give: two structurally
// identical subexpressions evaluated under different scopes are merged.
func Uninline(root ast.Expr) ast.Expr {
	counts := map[string]int{}
	reps := map[string]ast.Expr{}
	var walk func(e ast.Expr)
	walk = func(e ast.Expr) {
		if e == nil {
			return
		}
		if complexity(e) >= 1 {
			key := printer.Print(e)
			counts[key]++
			if _, ok := reps[key]; !ok {
				reps[key] = e
			}
		}
		switch n := e.(type) {
		case *ast.Array:
			for _, el := range n.Elems {
				walk(el)
			}
		case *ast.Call:
			for _, a := range n.Args {
				walk(a)
			}
		case *ast.Lambda:
			walk(n.Body)
		case *ast.Let:
			for _, b := range n.Bindings {
				walk(b.Expr)
			}
			walk(n.Body)
		}
	}
	walk(root)

	var keys []string
	for k, c := range counts {
		if c >= 2 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return root
	}
	sort.Strings(keys)

	used := usedNames(root)
	nameOf := make(map[string]string, len(keys))
	bindings := make([]ast.LetBinding, 0, len(keys))
	next := 0
	for _, k := range keys {
		var name string
		for {
			name = fmt.Sprintf("_u%d", next)
			next++
			if !used[name] {
				break
			}
		}
		used[name] = true
		nameOf[k] = name
		bindings = append(bindings, ast.LetBinding{Name: name, Expr: reps[k]})
	}

	body := substitute(root, nameOf)
	live := usedNames(body)
	kept := bindings[:0]
	for _, b := range bindings {
		if live[b.Name] {
			kept = append(kept, b)
		}
	}
	return ast.NewLet(kept, body, root.Loc())
}

func substitute(e ast.Expr, nameOf map[string]string) ast.Expr {
	if e == nil {
		return e
	}
	if name, ok := nameOf[printer.Print(e)]; ok {
		return ast.NewVar(name, e.Loc())
	}
	switch n := e.(type) {
	case *ast.Array:
		elems := make([]ast.Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = substitute(el, nameOf)
		}
		return ast.NewArray(elems, n.Loc())
	case *ast.Call:
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = substitute(a, nameOf)
		}
		return ast.NewCall(n.Fn, args, n.Loc())
	case *ast.Lambda:
		return ast.NewLambda(n.Param, substitute(n.Body, nameOf), n.Loc())
	case *ast.Let:
		bs := make([]ast.LetBinding, len(n.Bindings))
		for i, b := range n.Bindings {
			bs[i] = ast.LetBinding{Name: b.Name, Expr: substitute(b.Expr, nameOf)}
		}
		return ast.NewLet(bs, substitute(n.Body, nameOf), n.Loc())
	default:
		return e
	}
}

func complexity(e ast.Expr) int {
	switch n := e.(type) {
	case *ast.ValueLit, *ast.Var:
		return 0
	case *ast.Property:
		return 1
	case *ast.Array:
		c := 1
		for _, el := range n.Elems {
			c += complexity(el)
		}
		return c
	case *ast.Call:
		c := 1
		for _, a := range n.Args {
			c += complexity(a)
		}
		return c
	case *ast.Lambda:
		return 1 + complexity(n.Body)
	case *ast.Let:
		c := 0
		for _, b := range n.Bindings {
			c += complexity(b.Expr)
		}
		return c + complexity(n.Body)
	default:
		return 0
	}
}

func usedNames(e ast.Expr) map[string]bool {
	out := map[string]bool{}
	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		if e == nil {
			return
		}
		switch n := e.(type) {
		case *ast.Var:
			out[n.Name] = true
		case *ast.Array:
			for _, el := range n.Elems {
				walk(el)
			}
		case *ast.Call:
			for _, a := range n.Args {
				walk(a)
			}
		case *ast.Lambda:
			out[n.Param] = true
			walk(n.Body)
		case *ast.Let:
			for _, b := range n.Bindings {
				out[b.Name] = true
				walk(b.Expr)
			}
			walk(n.Body)
		}
	}
	walk(e)
	return out
}
