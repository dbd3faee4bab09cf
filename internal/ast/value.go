package ast

import (
	"fmt"
	"math"
	"sort"
)

// Kind tags a Value's payload.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindFunc
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunc:
		return "function"
	default:
		return "unknown"
	}
}

// Value is a tagged, JSON-shaped value annotated with the provenance the
// evaluator needs: the data path it was read from (if any), the other
// values it was computed from (deps), any errors produced along the way,
// and the source location of the expression that produced it.
//
// Values are always handled through *Value so dependency traversal can use
// pointer identity as the visited-set key.
type Value struct {
	kind Kind

	b   bool
	n   float64
	s   string
	arr []*Value
	obj *Object
	fn  *FuncHandle

	path    *Path
	deps    []*Value
	errs    []string
	loc     Location
}

func Null() *Value                { return &Value{kind: KindNull} }
func Bool(b bool) *Value          { return &Value{kind: KindBool, b: b} }
func Number(n float64) *Value     { return &Value{kind: KindNumber, n: n} }
func Str(s string) *Value         { return &Value{kind: KindString, s: s} }
func ArrayOf(elems []*Value) *Value {
	return &Value{kind: KindArray, arr: elems}
}
func ObjectOf(o *Object) *Value { return &Value{kind: KindObject, obj: o} }
func FuncOf(fh *FuncHandle) *Value { return &Value{kind: KindFunc, fn: fh} }

func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

func (v *Value) IsNull() bool  { return v.Kind() == KindNull }
func (v *Value) BoolVal() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.b, true
}
func (v *Value) NumberVal() (float64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	return v.n, true
}
func (v *Value) StringVal() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.s, true
}
func (v *Value) ArrayVal() ([]*Value, bool) {
	if v.Kind() != KindArray {
		return nil, false
	}
	return v.arr, true
}
func (v *Value) ObjectVal() (*Object, bool) {
	if v.Kind() != KindObject {
		return nil, false
	}
	return v.obj, true
}
func (v *Value) FuncVal() (*FuncHandle, bool) {
	if v.Kind() != KindFunc {
		return nil, false
	}
	return v.fn, true
}

// Path returns the value's origin path, if any.
func (v *Value) Path() (Path, bool) {
	if v == nil || v.path == nil {
		return Path{}, false
	}
	return *v.path, true
}

// Deps returns the values this one was computed from.
func (v *Value) Deps() []*Value {
	if v == nil {
		return nil
	}
	return v.deps
}

// Errors returns the error messages attached directly to this value (not
// its deps — use CollectAllErrors for the transitive set).
func (v *Value) Errors() []string {
	if v == nil {
		return nil
	}
	return v.errs
}

// Loc returns the source location of the expression that produced v.
func (v *Value) Loc() Location { return v.loc }

// clone makes a shallow copy sharing payload storage.
func (v *Value) clone() *Value {
	c := *v
	return &c
}

// WithPath returns a copy of v tagged with origin path p.
func (v *Value) WithPath(p Path) *Value {
	c := v.clone()
	c.path = &p
	return c
}

// WithLoc returns a copy of v tagged with source location loc.
func (v *Value) WithLoc(loc Location) *Value {
	c := v.clone()
	c.loc = loc
	return c
}

// WithDeps returns a copy of v with deps appended (self-references and nils
// dropped, per the invariant that deps never contain the value itself).
func (v *Value) WithDeps(deps ...*Value) *Value {
	c := v.clone()
	for _, d := range deps {
		if d == nil || d == v {
			continue
		}
		c.deps = append(c.deps, d)
	}
	return c
}

// WithError returns a copy of v with msg appended to its own errors.
func (v *Value) WithError(msg string) *Value {
	c := v.clone()
	c.errs = append(append([]string{}, c.errs...), msg)
	return c
}

// NullWithError is a convenience constructor for an error-carrying null
// result, the shape most name/type/arity errors take.
func NullWithError(msg string, deps ...*Value) *Value {
	return Null().WithError(msg).WithDeps(deps...)
}

// Equal implements structural payload equality (used by traversal, not by
// the `=` operator, which goes through an Env's Compare).
func (v *Value) Equal(other *Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		keys := v.obj.Keys()
		okeys := other.obj.Keys()
		if len(keys) != len(okeys) {
			return false
		}
		for _, k := range keys {
			ov := other.obj.Get(k)
			if ov == nil || !v.obj.Get(k).Equal(ov) {
				return false
			}
		}
		return true
	case KindFunc:
		return v.fn == other.fn
	default:
		return false
	}
}

// ToNative strips path/deps/errors/location, recursing into lists and
// objects, producing plain Go data (nil/bool/float64/string/[]any/map[string]any).
func (v *Value) ToNative() any {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.ToNative()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for _, k := range v.obj.Keys() {
			out[k] = v.obj.Get(k).ToNative()
		}
		return out
	case KindFunc:
		return v.fn
	default:
		return nil
	}
}

// FromNative builds a Value tree from plain Go data as produced by
// encoding/json.Unmarshal (map[string]any / []any / float64 / string / bool / nil),
// tagging every node with its path from root.
func FromNative(data any, at Path) *Value {
	switch d := data.(type) {
	case nil:
		return Null().WithPath(at)
	case bool:
		return Bool(d).WithPath(at)
	case float64:
		return Number(d).WithPath(at)
	case int:
		return Number(float64(d)).WithPath(at)
	case string:
		return Str(d).WithPath(at)
	case []any:
		elems := make([]*Value, len(d))
		for i, e := range d {
			elems[i] = FromNative(e, at.Index(i))
		}
		return ArrayOf(elems).WithPath(at)
	case map[string]any:
		obj := NewObjectPayload()
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, FromNative(d[k], at.Field(k)))
		}
		return ObjectOf(obj).WithPath(at)
	default:
		return Null().WithPath(at)
	}
}

// DefaultCompare is the default ordering: numbers rounded to 5 significant
// digits, strings compared byte-wise, booleans equal-or-not, two nulls
// equal; everything else (mismatched kinds, distinct arrays or objects) is
// considered unequal and returns -2.
func DefaultCompare(a, b *Value) int {
	if a.Kind() != b.Kind() {
		return -2
	}
	switch a.Kind() {
	case KindNumber:
		an, bn := roundSig(a.n, 5), roundSig(b.n, 5)
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	case KindString:
		switch {
		case a.s < b.s:
			return -1
		case a.s > b.s:
			return 1
		default:
			return 0
		}
	case KindBool:
		if a.b == b.b {
			return 0
		}
		return -2
	case KindNull:
		return 0
	default:
		if a == b {
			return 0
		}
		return -2
	}
}

func roundSig(f float64, digits int) float64 {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	mag := math.Ceil(math.Log10(math.Abs(f)))
	factor := math.Pow(10, float64(digits)-mag)
	return math.Round(f*factor) / factor
}

func (v *Value) String() string {
	return fmt.Sprintf("%v", v.ToNative())
}
