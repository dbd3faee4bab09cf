package builtins

import (
	"sort"

	"github.com/cwbudde/formexpr/internal/ast"
)

// Entry describes one installed function for introspection: the category
// it's grouped under and a one-line description, alongside its handle.
type Entry struct {
	Name        string
	Category    string
	Description string
	Handle      *ast.FuncHandle
}

// Registry holds the installed set of function handles, grouped by category
// the way the teacher's builtins/register.go categorizes its own standard
// library (arithmetic, comparison, collections, …).
type Registry struct {
	handles map[string]*ast.FuncHandle
	entries map[string]Entry
}

// category bundles one group's handles with the per-name descriptions
// surfaced by List.
type category struct {
	name  string
	funcs map[string]*ast.FuncHandle
	desc  map[string]string
}

func categories() []category {
	mf := mapFilter()
	return []category{
		{"arithmetic", arithmetic(), map[string]string{
			"+":     "adds two numbers",
			"-":     "subtracts the second number from the first",
			"*":     "multiplies two numbers",
			"/":     "divides the first number by the second",
			"%":     "computes the floating-point remainder of the first number divided by the second",
			"floor": "rounds a number down to the nearest integer",
			"ceil":  "rounds a number up to the nearest integer",
		}},
		{"comparison", comparisons(), map[string]string{
			"=":  "true if both operands are equal",
			"!=": "true if the operands are not equal",
			"<":  "true if the first operand orders before the second",
			"<=": "true if the first operand orders before or equal to the second",
			">":  "true if the first operand orders after the second",
			">=": "true if the first operand orders after or equal to the second",
			"!":  "negates a boolean",
		}},
		{"logic", logic(), map[string]string{
			"and": "short-circuiting logical and",
			"or":  "short-circuiting logical or",
			"?":   "ternary conditional; evaluates only the chosen branch",
			"??":  "the first operand unless it is null, otherwise the second",
		}},
		{"sequence", mergeHandles(collections(), scans()), map[string]string{
			"array":      "builds an array from its arguments",
			"string":     "concatenates its arguments' string forms (template strings with {...} interpolations desugar to it)",
			"lower":      "lowercases a string",
			"upper":      "uppercases a string",
			"fixed":      "formats a number to a fixed number of decimal places",
			"sum":        "sums an array of numbers",
			"min":        "finds the smallest number in an array",
			"max":        "finds the largest number in an array",
			"count":      "counts the elements in an array",
			"notEmpty":   "true if a value is neither null nor an empty string",
			"any":        "true if any element satisfies a predicate lambda",
			"all":        "true if every element satisfies a predicate lambda",
			"first":      "the first element satisfying a predicate lambda",
			"firstIndex": "the index of the first element satisfying a predicate lambda",
			"contains":   "true if an array contains a value",
			"indexOf":    "the index of a value within an array",
		}},
		{"mapping", mf, map[string]string{
			".":     "flat-maps a path expression across each element of an array",
			"map":   "maps a lambda across each element of an array",
			"[":     "filters an array with a predicate lambda, or looks up an index or key",
			"elem":  "the element of an array at a numeric index, or null when out of bounds",
			"which": "multi-way match against a value, picking the first matching result",
			"this":  "the current scope's bound value",
		}},
		{"object", mf, map[string]string{
			"object": "builds an object from alternating key/value arguments",
			"keys":   "the field names of an object, as an array of strings",
			"values": "the field values of an object, as an array",
			"merge":  "merges objects, later arguments' fields taking precedence",
		}},
	}
}

func mergeHandles(groups ...map[string]*ast.FuncHandle) map[string]*ast.FuncHandle {
	out := make(map[string]*ast.FuncHandle)
	for _, g := range groups {
		for name, fh := range g {
			out[name] = fh
		}
	}
	return out
}

// New assembles the full standard library: every handle named by a
// category's description table is installed into the Registry under its
// name, tagged with that category for List.
func New() *Registry {
	r := &Registry{handles: map[string]*ast.FuncHandle{}, entries: map[string]Entry{}}
	for _, cat := range categories() {
		for name, desc := range cat.desc {
			fh, ok := cat.funcs[name]
			if !ok {
				continue
			}
			r.handles[name] = fh
			r.entries[name] = Entry{Name: name, Category: cat.name, Description: desc, Handle: fh}
		}
	}
	return r
}

// Get returns the handle registered under name.
func (r *Registry) Get(name string) (*ast.FuncHandle, bool) {
	fh, ok := r.handles[name]
	return fh, ok
}

// List returns every registered entry sorted by category, then name.
func (r *Registry) List() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Bindings renders the registry as a scope's bindings map: each name maps to
// a ValueLit wrapping the handle, which the evaluator's Value case returns
// unchanged — no special-casing needed for how functions are looked up versus
// any other binding.
func (r *Registry) Bindings() map[string]ast.Expr {
	out := make(map[string]ast.Expr, len(r.handles))
	for name, fh := range r.handles {
		out[name] = ast.NewValueLit(ast.FuncOf(fh), ast.Location{})
	}
	return out
}
