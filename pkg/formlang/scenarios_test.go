package formlang_test

import (
	"sort"
	"testing"

	"github.com/cwbudde/formexpr/internal/ast"
	"github.com/cwbudde/formexpr/pkg/formlang"
)

func mustParse(t *testing.T, src string) formlang.Expr {
	t.Helper()
	e, err := formlang.Parse(src, "<test>")
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return e
}

func sortedPaths(v *ast.Value) []string {
	paths := formlang.ExtractAllPaths(v)
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	sort.Strings(out)
	return out
}

func containsAll(haystack []string, want ...string) bool {
	set := map[string]bool{}
	for _, h := range haystack {
		set[h] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}

func containsNone(haystack []string, avoid ...string) bool {
	set := map[string]bool{}
	for _, h := range haystack {
		set[h] = true
	}
	for _, a := range avoid {
		if set[a] {
			return false
		}
	}
	return true
}

// Scenario 1: a + b on {a:5, b:3} -> 8, deps {a, b} and only those.
func TestScenario1_SimpleArithmeticDeps(t *testing.T) {
	root := formlang.FromNative(map[string]any{"a": 5.0, "b": 3.0}, ast.RootPath)
	env := formlang.BasicEnv(root)
	result := formlang.Evaluate(env, mustParse(t, "a + b"))

	if n, ok := result.NumberVal(); !ok || n != 8 {
		t.Fatalf("got %v, want 8", result)
	}
	paths := sortedPaths(result)
	if len(paths) != 2 || paths[0] != "a" || paths[1] != "b" {
		t.Fatalf("deps = %v, want exactly [a b]", paths)
	}
}

// Scenario 2: $sum(nums[$i => $this() >= 3]) on {nums:[1,2,3,4,5]} -> 12,
// deps include nums.2/3/4 and must not include nums.0/nums.1.
func TestScenario2_FilterDepsAreElementLevel(t *testing.T) {
	root := formlang.FromNative(map[string]any{"nums": []any{1.0, 2.0, 3.0, 4.0, 5.0}}, ast.RootPath)
	env := formlang.BasicEnv(root)
	result := formlang.Evaluate(env, mustParse(t, "$sum(nums[$i => $this() >= 3])"))

	if n, ok := result.NumberVal(); !ok || n != 12 {
		t.Fatalf("got %v, want 12", result)
	}
	paths := sortedPaths(result)
	if !containsAll(paths, "nums.2", "nums.3", "nums.4") {
		t.Fatalf("deps %v missing nums.2/3/4", paths)
	}
	if !containsNone(paths, "nums.0", "nums.1") {
		t.Fatalf("deps %v must not include nums.0/nums.1", paths)
	}
}

// Scenario 3: cond ? t : e on {cond:true, t:"yes", e:"no"} -> "yes", deps
// include cond/t, must not include e.
func TestScenario3_TernaryPrunesUnchosenBranch(t *testing.T) {
	root := formlang.FromNative(map[string]any{"cond": true, "t": "yes", "e": "no"}, ast.RootPath)
	env := formlang.BasicEnv(root)
	result := formlang.Evaluate(env, mustParse(t, "cond ? t : e"))

	if s, ok := result.StringVal(); !ok || s != "yes" {
		t.Fatalf("got %v, want \"yes\"", result)
	}
	paths := sortedPaths(result)
	if !containsAll(paths, "cond", "t") {
		t.Fatalf("deps %v missing cond/t", paths)
	}
	if !containsNone(paths, "e") {
		t.Fatalf("deps %v must not include e (unchosen branch)", paths)
	}
}

// Scenario 4: let $idx := min(array) in lookup[$idx] on
// {array:[1,null,2], lookup:[10,20]} -> null, deps include array.0/1/2.
func TestScenario4_NullPropagatesWithFullArrayDeps(t *testing.T) {
	root := formlang.FromNative(map[string]any{
		"array":  []any{1.0, nil, 2.0},
		"lookup": []any{10.0, 20.0},
	}, ast.RootPath)
	env := formlang.BasicEnv(root)
	result := formlang.Evaluate(env, mustParse(t, "let $idx := $min(array) in lookup[$idx]"))

	if !result.IsNull() {
		t.Fatalf("got %v, want null", result)
	}
	paths := sortedPaths(result)
	if !containsAll(paths, "array.0", "array.1", "array.2") {
		t.Fatalf("deps %v missing array.0/1/2", paths)
	}
}

// Scenario 5: sum(items . values) on nested arrays -> 10, deps include
// every leaf path.
func TestScenario5_FlatMapLeafDeps(t *testing.T) {
	root := formlang.FromNative(map[string]any{
		"items": []any{
			map[string]any{"values": []any{1.0, 2.0}},
			map[string]any{"values": []any{3.0, 4.0}},
		},
	}, ast.RootPath)
	env := formlang.BasicEnv(root)
	result := formlang.Evaluate(env, mustParse(t, "$sum(items . values)"))

	if n, ok := result.NumberVal(); !ok || n != 10 {
		t.Fatalf("got %v, want 10", result)
	}
	paths := sortedPaths(result)
	if !containsAll(paths, "items.0.values.0", "items.0.values.1", "items.1.values.0", "items.1.values.1") {
		t.Fatalf("deps %v missing a nested leaf path", paths)
	}
}

// TestFilterBindsTighterThanMap confirms `items.values[0]` evaluates as
// `items.(values[0])` (index each item's values, then flatmap), not
// `(items.values)[0]` (flatmap everything, then index the flattened array).
func TestFilterBindsTighterThanMap(t *testing.T) {
	root := formlang.FromNative(map[string]any{
		"items": []any{
			map[string]any{"values": []any{1.0, 2.0}},
			map[string]any{"values": []any{3.0, 4.0}},
		},
	}, ast.RootPath)
	env := formlang.BasicEnv(root)
	result := formlang.Evaluate(env, mustParse(t, "items.values[0]"))

	elems, ok := result.ArrayVal()
	if !ok || len(elems) != 2 {
		t.Fatalf("got %v, want a 2-element array [1, 3]", result)
	}
	first, _ := elems[0].NumberVal()
	second, _ := elems[1].NumberVal()
	if first != 1 || second != 3 {
		t.Fatalf("got %v, want [1, 3]", result)
	}
}

// Scenario 6: partial evaluation with only taxRate/discount known reduces
// the concrete subexpressions and keeps an unknown `price` symbolic,
// dropping the pass-through `s` alias and folding constants.
func TestScenario6_PartialEvalFoldsKnownKeepsUnknownSymbolic(t *testing.T) {
	known := map[string]*ast.Value{
		"taxRate":  formlang.FromNative(0.08, ast.RootPath),
		"discount": formlang.FromNative(0.1, ast.RootPath),
	}
	env := formlang.PartialEnv(known)
	expr := mustParse(t, "let $s := price, $d := $s * (1 - discount), $t := $d * (1 + taxRate) in $t")
	val, residual := formlang.EvaluatePartial(env, expr)
	if val != nil {
		t.Fatalf("expected a residual expression, got concrete value %v", val)
	}
	residual = formlang.Uninline(residual)
	printed := formlang.PrintExpr(residual)
	if printed == "" {
		t.Fatal("expected a non-empty residual printout")
	}
	// The `s` alias must not survive: it only ever aliases the unknown
	// `price`, so it's inlined away rather than kept as its own binding.
	if containsSubstr(printed, "$s") {
		t.Fatalf("printed residual %q still references the dropped $s alias", printed)
	}
	// discount/taxRate must be folded to their constants, not left named.
	if containsSubstr(printed, "discount") || containsSubstr(printed, "taxRate") {
		t.Fatalf("printed residual %q did not fold known constants", printed)
	}
	if !containsSubstr(printed, "price") {
		t.Fatalf("printed residual %q lost the unknown reference to price", printed)
	}
}

func containsSubstr(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

// Short-circuiting: once `and` hits a false operand, later operands (here,
// a call to an undeclared name) must never be evaluated.
func TestAndShortCircuits(t *testing.T) {
	root := formlang.FromNative(map[string]any{"flag": false}, ast.RootPath)
	env := formlang.BasicEnv(root)
	result := formlang.Evaluate(env, mustParse(t, "flag and $noSuchFunction()"))
	if b, ok := result.BoolVal(); !ok || b != false {
		t.Fatalf("got %v, want false", result)
	}
	if formlang.HasErrors(result) {
		t.Fatalf("short-circuited and must not surface the unevaluated operand's error: %v", formlang.CollectAllErrors(result))
	}
}

// Uninline is idempotent: running it twice produces the same printed form.
func TestUninlineIsIdempotent(t *testing.T) {
	known := map[string]*ast.Value{}
	env := formlang.PartialEnv(known)
	expr := mustParse(t, "$array(a+b, a+b, a+b)")
	_, residual := formlang.EvaluatePartial(env, expr)
	once := formlang.Uninline(residual)
	twice := formlang.Uninline(once)
	if formlang.PrintExpr(once) != formlang.PrintExpr(twice) {
		t.Fatalf("uninline not idempotent: once=%q twice=%q", formlang.PrintExpr(once), formlang.PrintExpr(twice))
	}
}

// merge is commutative on disjoint keys.
func TestMergeCommutativeOnDisjointKeys(t *testing.T) {
	root := formlang.FromNative(map[string]any{
		"x": map[string]any{"a": 1.0},
		"y": map[string]any{"b": 2.0},
	}, ast.RootPath)
	env := formlang.BasicEnv(root)
	ab := formlang.Evaluate(env, mustParse(t, "$merge(x, y)"))
	ba := formlang.Evaluate(env, mustParse(t, "$merge(y, x)"))
	if ab.ToNative().(map[string]any)["a"] != ba.ToNative().(map[string]any)["a"] {
		t.Fatalf("merge not commutative on disjoint keys: %v vs %v", ab.ToNative(), ba.ToNative())
	}
	if ab.ToNative().(map[string]any)["b"] != ba.ToNative().(map[string]any)["b"] {
		t.Fatalf("merge not commutative on disjoint keys: %v vs %v", ab.ToNative(), ba.ToNative())
	}
}

// sum is associative over numbers, up to IEEE rounding.
func TestSumAssociative(t *testing.T) {
	root := formlang.FromNative(map[string]any{"nums": []any{1.5, 2.5, 3.0}}, ast.RootPath)
	env := formlang.BasicEnv(root)
	result := formlang.Evaluate(env, mustParse(t, "$sum(nums)"))
	n, ok := result.NumberVal()
	if !ok || n != 7 {
		t.Fatalf("got %v, want 7", result)
	}
	left := formlang.Evaluate(env, mustParse(t, "$sum([$sum([nums[0], nums[1]]), nums[2]])"))
	right := formlang.Evaluate(env, mustParse(t, "$sum([nums[0], $sum([nums[1], nums[2]])])"))
	ln, lok := left.NumberVal()
	rn, rok := right.NumberVal()
	if !lok || !rok || ln != n || rn != n {
		t.Fatalf("regrouped sums = %v and %v, want both equal to $sum(nums) = %v", left, right, n)
	}
}
