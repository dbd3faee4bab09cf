package ast

import "testing"

func TestExtractAllPathsDedupsAndWalksDeps(t *testing.T) {
	a := Number(5).WithPath(RootPath.Field("a"))
	b := Number(3).WithPath(RootPath.Field("b"))
	sum := Number(8).WithDeps(a, b)

	paths := ExtractAllPaths(sum)
	got := map[string]bool{}
	for _, p := range paths {
		got[p.String()] = true
	}
	if len(paths) != 2 || !got["a"] || !got["b"] {
		t.Fatalf("ExtractAllPaths = %v, want exactly [a b]", paths)
	}
}

func TestExtractAllPathsIgnoresUntaggedValues(t *testing.T) {
	untagged := Number(8)
	if paths := ExtractAllPaths(untagged); len(paths) != 0 {
		t.Fatalf("ExtractAllPaths(untagged) = %v, want none", paths)
	}
}

func TestExtractAllPathsToleratesCycles(t *testing.T) {
	a := Number(1).WithPath(RootPath.Field("a"))
	cyclic := Number(2).WithDeps(a)
	a.deps = append(a.deps, cyclic) // close the loop: a -> cyclic -> a
	paths := ExtractAllPaths(cyclic)
	if len(paths) != 1 || paths[0].String() != "a" {
		t.Fatalf("ExtractAllPaths(cyclic) = %v, want exactly [a]", paths)
	}
}

func TestExtractAllPathsWalksArraysAndObjects(t *testing.T) {
	root := FromNative(map[string]any{
		"items": []any{1.0, 2.0},
	}, RootPath)
	paths := ExtractAllPaths(root)
	got := map[string]bool{}
	for _, p := range paths {
		got[p.String()] = true
	}
	for _, want := range []string{"", "items", "items.0", "items.1"} {
		if !got[want] {
			t.Fatalf("ExtractAllPaths missing %q in %v", want, paths)
		}
	}
}

func TestCollectAllErrorsAndHasErrors(t *testing.T) {
	clean := Number(1)
	if HasErrors(clean) {
		t.Fatalf("clean value reports HasErrors() = true")
	}
	dep := NullWithError("dependency failed")
	withErr := Number(1).WithDeps(dep)
	if !HasErrors(withErr) {
		t.Fatalf("value depending on an errored value reports HasErrors() = false")
	}
	errs := CollectAllErrors(withErr)
	if len(errs) != 1 || errs[0] != "dependency failed" {
		t.Fatalf("CollectAllErrors() = %v, want [\"dependency failed\"]", errs)
	}
}

func TestCollectAllErrorsNilValue(t *testing.T) {
	if errs := CollectAllErrors(nil); errs != nil {
		t.Fatalf("CollectAllErrors(nil) = %v, want nil", errs)
	}
}
