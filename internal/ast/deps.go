package ast

// CollectAllErrors walks v and its transitive deps, returning every error
// message found. A visited-identity set makes this tolerant of shared
// substructure and reference cycles even though the evaluator
// itself never produces one.
func CollectAllErrors(v *Value) []string {
	var out []string
	visited := map[*Value]bool{}
	var walk func(*Value)
	walk = func(val *Value) {
		if val == nil || visited[val] {
			return
		}
		visited[val] = true
		out = append(out, val.errs...)
		for _, d := range val.deps {
			walk(d)
		}
		switch val.kind {
		case KindArray:
			for _, e := range val.arr {
				walk(e)
			}
		case KindObject:
			for _, k := range val.obj.Keys() {
				walk(val.obj.Get(k))
			}
		}
	}
	walk(v)
	return out
}

// HasErrors reports whether v or anything it transitively depends on
// carries an error.
func HasErrors(v *Value) bool {
	return len(CollectAllErrors(v)) > 0
}

// ExtractAllPaths walks v and its transitive deps, returning every distinct
// Path seen. Every returned path is a prefix of some input path actually
// read: paths are only ever attached by the evaluator when a
// value is read straight from input data.
func ExtractAllPaths(v *Value) []Path {
	var out []Path
	seen := map[string]bool{}
	visited := map[*Value]bool{}
	var walk func(*Value)
	walk = func(val *Value) {
		if val == nil || visited[val] {
			return
		}
		visited[val] = true
		if val.path != nil {
			key := val.path.String()
			if !seen[key] {
				seen[key] = true
				out = append(out, *val.path)
			}
		}
		for _, d := range val.deps {
			walk(d)
		}
		switch val.kind {
		case KindArray:
			for _, e := range val.arr {
				walk(e)
			}
		case KindObject:
			for _, k := range val.obj.Keys() {
				walk(val.obj.Get(k))
			}
		}
	}
	walk(v)
	return out
}

// locationStack walks outer-to-inner, collecting each distinct Location
// seen on v or its deps. Nothing in this package calls it;
// diag.FormatErrorsWithLocations uses its own copy of the same walk.
func locationStack(v *Value) []Location {
	var out []Location
	visited := map[*Value]bool{}
	var walk func(*Value)
	walk = func(val *Value) {
		if val == nil || visited[val] {
			return
		}
		visited[val] = true
		if !val.loc.Zero() {
			out = append(out, val.loc)
		}
		for _, d := range val.deps {
			walk(d)
		}
	}
	walk(v)
	return out
}
