package ast

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindNull, "null"},
		{KindBool, "boolean"},
		{KindNumber, "number"},
		{KindString, "string"},
		{KindArray, "array"},
		{KindObject, "object"},
		{KindFunc, "function"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}

func TestValueConstructorsAndAccessors(t *testing.T) {
	if _, ok := Null().BoolVal(); ok {
		t.Fatalf("Null().BoolVal() ok = true, want false")
	}
	if b, ok := Bool(true).BoolVal(); !ok || !b {
		t.Fatalf("Bool(true).BoolVal() = %v, %v", b, ok)
	}
	if n, ok := Number(3.5).NumberVal(); !ok || n != 3.5 {
		t.Fatalf("Number(3.5).NumberVal() = %v, %v", n, ok)
	}
	if s, ok := Str("hi").StringVal(); !ok || s != "hi" {
		t.Fatalf("Str(\"hi\").StringVal() = %v, %v", s, ok)
	}
	arr := ArrayOf([]*Value{Number(1), Number(2)})
	if elems, ok := arr.ArrayVal(); !ok || len(elems) != 2 {
		t.Fatalf("ArrayOf.ArrayVal() = %v, %v", elems, ok)
	}
	obj := NewObjectPayload()
	obj.Set("x", Number(1))
	if got, ok := ObjectOf(obj).ObjectVal(); !ok || got.Get("x") == nil {
		t.Fatalf("ObjectOf.ObjectVal() = %v, %v", got, ok)
	}
}

func TestNilValueIsNull(t *testing.T) {
	var v *Value
	if v.Kind() != KindNull {
		t.Fatalf("nil Value.Kind() = %v, want KindNull", v.Kind())
	}
	if !v.IsNull() {
		t.Fatalf("nil Value.IsNull() = false, want true")
	}
	if v.Deps() != nil {
		t.Fatalf("nil Value.Deps() = %v, want nil", v.Deps())
	}
	if v.Errors() != nil {
		t.Fatalf("nil Value.Errors() = %v, want nil", v.Errors())
	}
}

func TestWithPathIsImmutable(t *testing.T) {
	base := Number(1)
	tagged := base.WithPath(RootPath.Field("x"))
	if _, ok := base.Path(); ok {
		t.Fatalf("base.Path() should remain untagged after WithPath")
	}
	p, ok := tagged.Path()
	if !ok || p.String() != "x" {
		t.Fatalf("tagged.Path() = %v, %v, want \"x\", true", p, ok)
	}
}

func TestWithDepsDropsNilsAndSelf(t *testing.T) {
	a := Number(1)
	b := Number(2)
	v := Number(3).WithDeps(a, nil, b)
	if len(v.Deps()) != 2 {
		t.Fatalf("Deps() = %v, want 2 entries", v.Deps())
	}
	selfDeps := v.WithDeps(v)
	if len(selfDeps.Deps()) != 2 {
		t.Fatalf("WithDeps(self) should not append self: got %v", selfDeps.Deps())
	}
}

func TestWithErrorAppends(t *testing.T) {
	v := Null().WithError("first").WithError("second")
	if got := v.Errors(); len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("Errors() = %v, want [first second]", got)
	}
}

func TestNullWithError(t *testing.T) {
	dep := Number(1)
	v := NullWithError("bad", dep)
	if !v.IsNull() {
		t.Fatalf("NullWithError should be null")
	}
	if len(v.Errors()) != 1 || v.Errors()[0] != "bad" {
		t.Fatalf("Errors() = %v, want [bad]", v.Errors())
	}
	if len(v.Deps()) != 1 || v.Deps()[0] != dep {
		t.Fatalf("Deps() = %v, want [dep]", v.Deps())
	}
}

func TestValueEqual(t *testing.T) {
	a := ArrayOf([]*Value{Number(1), Str("x")})
	b := ArrayOf([]*Value{Number(1), Str("x")})
	c := ArrayOf([]*Value{Number(1), Str("y")})
	if !a.Equal(b) {
		t.Fatalf("a.Equal(b) = false, want true")
	}
	if a.Equal(c) {
		t.Fatalf("a.Equal(c) = true, want false")
	}
	if Number(1).Equal(Str("1")) {
		t.Fatalf("values of different kinds must not be equal")
	}
}

func TestFromNativeToNativeRoundTrip(t *testing.T) {
	native := map[string]any{
		"a": 5.0,
		"b": []any{1.0, nil, "two"},
	}
	v := FromNative(native, RootPath)
	got, ok := v.ToNative().(map[string]any)
	if !ok {
		t.Fatalf("ToNative() = %T, want map[string]any", v.ToNative())
	}
	if got["a"] != 5.0 {
		t.Fatalf("got[a] = %v, want 5.0", got["a"])
	}
	bArr, ok := got["b"].([]any)
	if !ok || len(bArr) != 3 || bArr[0] != 1.0 || bArr[1] != nil || bArr[2] != "two" {
		t.Fatalf("got[b] = %v", got["b"])
	}
}

func TestFromNativeTagsEveryLeafWithItsPath(t *testing.T) {
	v := FromNative(map[string]any{
		"items": []any{
			map[string]any{"n": 1.0},
			map[string]any{"n": 2.0},
		},
	}, RootPath)
	obj, _ := v.ObjectVal()
	items, _ := obj.Get("items").ArrayVal()
	p0, ok := items[0].Path()
	if !ok || p0.String() != "items.0" {
		t.Fatalf("items[0].Path() = %v, %v, want \"items.0\", true", p0, ok)
	}
	inner, _ := items[0].ObjectVal()
	pn, ok := inner.Get("n").Path()
	if !ok || pn.String() != "items.0.n" {
		t.Fatalf("items[0].n.Path() = %v, %v, want \"items.0.n\", true", pn, ok)
	}
}

func TestDefaultCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b *Value
		want int
	}{
		{"equal numbers", Number(1), Number(1), 0},
		{"less numbers", Number(1), Number(2), -1},
		{"greater numbers", Number(2), Number(1), 1},
		{"rounds to 5 sig figs", Number(1.000000001), Number(1), 0},
		{"equal strings", Str("a"), Str("a"), 0},
		{"less strings", Str("a"), Str("b"), -1},
		{"mismatched kinds", Number(1), Str("1"), -2},
		{"equal bools", Bool(true), Bool(true), 0},
		{"unequal bools", Bool(true), Bool(false), -2},
		{"nulls always equal", Null(), Null(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultCompare(tt.a, tt.b); got != tt.want {
				t.Fatalf("DefaultCompare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
