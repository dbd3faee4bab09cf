package ast

import (
	"fmt"
	"strconv"
)

// Path is an immutable address into the original data tree: either empty
// (the root) or a segment consed onto a parent path. Segments share
// structure with their parent, so copying a Path is just copying a pointer.
type Path struct {
	parent *Path
	field  string
	index  int
	isIdx  bool
}

// RootPath is the empty path, denoting the implicit root of the input data.
var RootPath = Path{}

// Field extends the path with an object-field segment.
func (p Path) Field(name string) Path {
	parent := p
	return Path{parent: &parent, field: name}
}

// Index extends the path with an array-index segment.
func (p Path) Index(i int) Path {
	parent := p
	return Path{parent: &parent, index: i, isIdx: true}
}

// IsRoot reports whether this is the empty path.
func (p Path) IsRoot() bool {
	return p.parent == nil
}

// Parent returns the path's parent and true, or the zero Path and false at
// the root.
func (p Path) Parent() (Path, bool) {
	if p.parent == nil {
		return Path{}, false
	}
	return *p.parent, true
}

// Segment returns this path's final segment: either a field name or an
// index, distinguished by isIndex.
func (p Path) Segment() (field string, index int, isIndex bool) {
	return p.field, p.index, p.isIdx
}

// Equal compares two paths structurally, segment by segment.
func (p Path) Equal(other Path) bool {
	for {
		if p.parent == nil || other.parent == nil {
			return p.parent == nil && other.parent == nil
		}
		if p.isIdx != other.isIdx || p.field != other.field || p.index != other.index {
			return false
		}
		p, other = *p.parent, *other.parent
	}
}

// HasPrefix reports whether prefix is an ancestor of (or equal to) p.
func (p Path) HasPrefix(prefix Path) bool {
	segs := p.segments()
	pre := prefix.segments()
	if len(pre) > len(segs) {
		return false
	}
	for i, s := range pre {
		if !segSegEqual(s, segs[i]) {
			return false
		}
	}
	return true
}

type pathSeg struct {
	field string
	index int
	isIdx bool
}

func segSegEqual(a, b pathSeg) bool {
	return a.isIdx == b.isIdx && a.field == b.field && a.index == b.index
}

func (p Path) segments() []pathSeg {
	var out []pathSeg
	for p.parent != nil {
		out = append([]pathSeg{{field: p.field, index: p.index, isIdx: p.isIdx}}, out...)
		p = *p.parent
	}
	return out
}

// String renders the path in dotted notation for every segment, including
// array indices, e.g. "items.2.name" — this is the form dependency paths
// are described in throughout, used for dep-set keys and debug output. The
// pretty-printer's printPath (package printer) renders indices in bracket
// form instead; the two are deliberately different representations for
// different audiences.
func (p Path) String() string {
	segs := p.segments()
	var s string
	for i, seg := range segs {
		if i > 0 {
			s += "."
		}
		if seg.isIdx {
			s += strconv.Itoa(seg.index)
			continue
		}
		s += seg.field
	}
	return s
}

// GoString supports %#v and debug printing.
func (p Path) GoString() string {
	return fmt.Sprintf("Path(%s)", p.String())
}
