package reactive

import (
	"testing"

	"github.com/cwbudde/formexpr/internal/ast"
	"github.com/cwbudde/formexpr/internal/interp/builtins"
	"github.com/cwbudde/formexpr/internal/parser"
	"github.com/cwbudde/formexpr/internal/runtime"
)

func mustParse(t *testing.T, src string) ast.Expr {
	t.Helper()
	e, err := parser.Parse(src, "<test>")
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return e
}

func TestControlBackedValueExprTagsRootDep(t *testing.T) {
	cell := runtime.NewInputCell(map[string]any{"a": 1.0})
	v := ControlBackedValueExpr(cell, ast.RootPath)
	paths := ast.ExtractAllPaths(v)
	if len(paths) == 0 {
		t.Fatalf("ControlBackedValueExpr produced no root dependency")
	}
	found := false
	for _, p := range paths {
		if p.Equal(ast.RootPath) {
			found = true
		}
	}
	if !found {
		t.Fatalf("deps %v missing the root path", paths)
	}
}

func TestComputedValueExprEvaluatesAgainstCellSnapshot(t *testing.T) {
	cell := runtime.NewInputCell(map[string]any{"a": 2.0, "b": 3.0})
	bindings := builtins.New().Bindings()
	expr := mustParse(t, "a + b")
	out := ComputedValueExpr(cell, bindings, expr)
	v := out.Value().(*ast.Value)
	if n, ok := v.NumberVal(); !ok || n != 5 {
		t.Fatalf("ComputedValueExpr result = %v, want 5", v)
	}
}

func TestComputedValueExprRecomputesWhenCellChanges(t *testing.T) {
	cell := runtime.NewInputCell(map[string]any{"a": 1.0})
	bindings := builtins.New().Bindings()
	expr := mustParse(t, "a * 10")
	out := ComputedValueExpr(cell, bindings, expr)
	first := out.Value().(*ast.Value)
	if n, _ := first.NumberVal(); n != 10 {
		t.Fatalf("first = %v, want 10", first)
	}
	cell.SetValue(map[string]any{"a": 2.0})
	second := out.Value().(*ast.Value)
	if n, _ := second.NumberVal(); n != 20 {
		t.Fatalf("second = %v, want 20", second)
	}
}

func TestNewRootEnvResolvesPropertyFromCell(t *testing.T) {
	cell := runtime.NewInputCell(map[string]any{"x": 7.0})
	e := NewRootEnv(cell, builtins.New().Bindings())
	v := ast.MustValue(e.Eval(mustParse(t, "x")))
	if n, ok := v.NumberVal(); !ok || n != 7 {
		t.Fatalf("x = %v, want 7", v)
	}
}
