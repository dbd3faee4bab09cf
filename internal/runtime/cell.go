// Package runtime provides a minimal in-memory reference implementation of
// the reactive Control cell primitive a host embedding is expected to supply:
// read with tracking, write, and updateComputedValue. This is test/demo
// plumbing only — a host embedding the language supplies its own richer
// cell system; the reactive evaluator only needs the Cell interface.
package runtime

// Cell is the reactive primitive the reactive evaluator is built against:
// a readable, writable slot whose reads are tracked by whichever computed
// cell is currently recomputing.
type Cell interface {
	Value() any
	SetValue(v any)
}

// computeStack holds the chain of BasicCells currently recomputing, so a
// Value() read anywhere below can register itself as a dependency of the
// innermost one without threading a context parameter through every call.
var computeStack []*BasicCell

// BasicCell is a reference Cell: a value slot, optionally backed by a
// compute thunk, plus the set of computed cells that read it last time they
// recomputed. No concurrency control — single-threaded cooperative use
// only, matching the evaluator's concurrency model.
type BasicCell struct {
	val      any
	computed func() any
	dirty    bool
	readers  []*BasicCell
}

// NewInputCell creates a cell with an initial value and no compute thunk.
func NewInputCell(v any) *BasicCell {
	return &BasicCell{val: v}
}

// NewComputedCell creates a cell whose value is produced by thunk,
// recomputed lazily the next time it's read after a dependency changed.
func NewComputedCell(thunk func() any) *BasicCell {
	return &BasicCell{computed: thunk, dirty: true}
}

// Value reads the cell, recomputing first if it's a dirty computed cell,
// and registers the innermost active recompute (if any) as a reader.
func (c *BasicCell) Value() any {
	if len(computeStack) > 0 {
		consumer := computeStack[len(computeStack)-1]
		if consumer != c {
			c.readers = append(c.readers, consumer)
		}
	}
	if c.computed != nil && c.dirty {
		c.recompute()
	}
	return c.val
}

// SetValue writes an input cell and marks every transitive reader dirty.
func (c *BasicCell) SetValue(v any) {
	c.val = v
	c.invalidateReaders()
}

// UpdateComputedValue forces cell to recompute using thunk right now,
// replacing whatever compute function (if any) it previously had, and
// tracks reads performed inside thunk the same way a lazy recompute would.
func UpdateComputedValue(cell *BasicCell, thunk func() any) {
	cell.computed = thunk
	cell.dirty = true
	cell.Value()
}

func (c *BasicCell) recompute() {
	computeStack = append(computeStack, c)
	c.val = c.computed()
	computeStack = computeStack[:len(computeStack)-1]
	c.dirty = false
}

func (c *BasicCell) invalidateReaders() {
	for _, r := range c.readers {
		if !r.dirty {
			r.dirty = true
			r.invalidateReaders()
		}
	}
	c.readers = nil
}
