package ast

import "testing"

func TestRootPathIsRoot(t *testing.T) {
	if !RootPath.IsRoot() {
		t.Fatalf("RootPath.IsRoot() = false, want true")
	}
	if RootPath.String() != "" {
		t.Fatalf("RootPath.String() = %q, want \"\"", RootPath.String())
	}
	if _, ok := RootPath.Parent(); ok {
		t.Fatalf("RootPath.Parent() ok = true, want false")
	}
}

func TestFieldAndIndexExtendPath(t *testing.T) {
	p := RootPath.Field("items").Index(2).Field("name")
	if p.String() != "items.2.name" {
		t.Fatalf("p.String() = %q, want \"items.2.name\"", p.String())
	}
	if p.IsRoot() {
		t.Fatalf("extended path reports IsRoot() = true")
	}
	field, index, isIdx := p.Segment()
	if isIdx || field != "name" || index != 0 {
		t.Fatalf("Segment() = %q, %d, %v, want \"name\", 0, false", field, index, isIdx)
	}
}

func TestPathParentChain(t *testing.T) {
	p := RootPath.Field("a").Field("b")
	parent, ok := p.Parent()
	if !ok || parent.String() != "a" {
		t.Fatalf("Parent() = %v, %v, want \"a\", true", parent, ok)
	}
	grandparent, ok := parent.Parent()
	if !ok || !grandparent.IsRoot() {
		t.Fatalf("grandparent = %v, %v, want RootPath, true", grandparent, ok)
	}
}

func TestPathEqual(t *testing.T) {
	a := RootPath.Field("x").Index(1)
	b := RootPath.Field("x").Index(1)
	c := RootPath.Field("x").Index(2)
	if !a.Equal(b) {
		t.Fatalf("a.Equal(b) = false, want true")
	}
	if a.Equal(c) {
		t.Fatalf("a.Equal(c) = true, want false")
	}
	if a.Equal(RootPath) {
		t.Fatalf("non-root path equal to RootPath")
	}
}

func TestPathHasPrefix(t *testing.T) {
	items := RootPath.Field("items")
	item0 := items.Index(0)
	item0Name := item0.Field("name")
	if !item0Name.HasPrefix(items) {
		t.Fatalf("item0Name.HasPrefix(items) = false, want true")
	}
	if !item0Name.HasPrefix(item0Name) {
		t.Fatalf("a path must have itself as a prefix")
	}
	if !item0Name.HasPrefix(RootPath) {
		t.Fatalf("every path has RootPath as a prefix")
	}
	other := RootPath.Field("other")
	if item0Name.HasPrefix(other) {
		t.Fatalf("item0Name.HasPrefix(other) = true, want false")
	}
	if items.HasPrefix(item0Name) {
		t.Fatalf("a shorter path must not have a longer one as a prefix")
	}
}

func TestPathGoString(t *testing.T) {
	p := RootPath.Field("a").Index(3)
	if got := p.GoString(); got != "Path(a.3)" {
		t.Fatalf("GoString() = %q, want \"Path(a.3)\"", got)
	}
}
