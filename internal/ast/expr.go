package ast

// Expr is the tagged union of expression nodes. There are exactly
// seven variants; every one carries a source Location for diagnostics.
type Expr interface {
	exprNode()
	Loc() Location
}

type base struct{ L Location }

func (b base) Loc() Location { return b.L }

// ValueLit wraps an already-known Value as a constant expression.
type ValueLit struct {
	base
	V *Value
}

func (ValueLit) exprNode() {}

func NewValueLit(v *Value, loc Location) *ValueLit {
	return &ValueLit{base{loc}, v}
}

// Var is a lexical variable reference, `$name`.
type Var struct {
	base
	Name string

	// InlinedFrom/InlineScope/Inlined tag a Var as resolved in place by a
	// partial-evaluation pass; the zero value means "not a resolved inline",
	// and no pass in this repository sets them. Carried on Var rather than on the substituted
	// expression because the substituted expression is whatever kind the
	// binding reduced to — the tag has to live somewhere uniform, and Var
	// is what partial evaluation is rewriting away from.
	InlinedFrom string
	InlineScope int
	Inlined     bool
}

func (Var) exprNode() {}

func NewVar(name string, loc Location) *Var {
	return &Var{base: base{loc}, Name: name}
}

// Property reads a field off the current value `_`.
type Property struct {
	base
	Name string
}

func (Property) exprNode() {}

func NewProperty(name string, loc Location) *Property {
	return &Property{base{loc}, name}
}

// Array builds a list from sub-expressions.
type Array struct {
	base
	Elems []Expr
}

func (Array) exprNode() {}

func NewArray(elems []Expr, loc Location) *Array {
	return &Array{base{loc}, elems}
}

// Call applies a named built-in (or the lambda bound under that name) to
// arguments. There are no user-defined named functions — `Fn` always
// resolves to a standard-library FuncHandle installed by the environment.
type Call struct {
	base
	Fn   string
	Args []Expr
}

func (Call) exprNode() {}

func NewCall(fn string, args []Expr, loc Location) *Call {
	return &Call{base{loc}, fn, args}
}

// Lambda is a deferred, single-parameter function value. It does not close
// over a defining scope: built-ins that accept one invoke it in their own
// calling environment with Param rebound.
type Lambda struct {
	base
	Param string
	Body  Expr
}

func (Lambda) exprNode() {}

func NewLambda(param string, body Expr, loc Location) *Lambda {
	return &Lambda{base{loc}, param, body}
}

// LetBinding is one `$name := expr` pair inside a Let.
type LetBinding struct {
	Name string
	Expr Expr
}

// Let introduces a new scope with Bindings (evaluated lazily, see the
// environment model) and evaluates Body within it.
type Let struct {
	base
	Bindings []LetBinding
	Body     Expr
}

func (Let) exprNode() {}

func NewLet(bindings []LetBinding, body Expr, loc Location) *Let {
	return &Let{base{loc}, bindings, body}
}
