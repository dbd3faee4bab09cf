package runtime

import "testing"

func TestInputCellReadsInitialValue(t *testing.T) {
	c := NewInputCell(5)
	if v := c.Value(); v != 5 {
		t.Fatalf("Value() = %v, want 5", v)
	}
}

func TestSetValueUpdatesInputCell(t *testing.T) {
	c := NewInputCell(1)
	c.SetValue(2)
	if v := c.Value(); v != 2 {
		t.Fatalf("Value() after SetValue = %v, want 2", v)
	}
}

func TestComputedCellRecomputesFromDependency(t *testing.T) {
	input := NewInputCell(1)
	computed := NewComputedCell(func() any {
		return input.Value().(int) * 2
	})
	if v := computed.Value(); v != 2 {
		t.Fatalf("Value() = %v, want 2", v)
	}
	input.SetValue(5)
	if v := computed.Value(); v != 10 {
		t.Fatalf("Value() after dependency changed = %v, want 10", v)
	}
}

func TestComputedCellDoesNotRecomputeWhenDependencyUnchanged(t *testing.T) {
	input := NewInputCell(1)
	calls := 0
	computed := NewComputedCell(func() any {
		calls++
		return input.Value()
	})
	computed.Value()
	computed.Value()
	computed.Value()
	if calls != 1 {
		t.Fatalf("compute thunk invoked %d times, want exactly 1 (memoized until invalidated)", calls)
	}
}

func TestInvalidationPropagatesTransitively(t *testing.T) {
	input := NewInputCell(1)
	mid := NewComputedCell(func() any { return input.Value().(int) + 1 })
	top := NewComputedCell(func() any { return mid.Value().(int) * 10 })
	if v := top.Value(); v != 20 {
		t.Fatalf("top.Value() = %v, want 20", v)
	}
	input.SetValue(2)
	if v := top.Value(); v != 30 {
		t.Fatalf("top.Value() after a transitive dependency changed = %v, want 30", v)
	}
}

func TestUpdateComputedValueReplacesThunkAndRecomputesNow(t *testing.T) {
	c := NewComputedCell(func() any { return 1 })
	c.Value()
	UpdateComputedValue(c, func() any { return 99 })
	if v := c.Value(); v != 99 {
		t.Fatalf("Value() after UpdateComputedValue = %v, want 99", v)
	}
}

func TestUnrelatedCellChangeDoesNotForceRecompute(t *testing.T) {
	watched := NewInputCell(1)
	unrelated := NewInputCell(100)
	calls := 0
	computed := NewComputedCell(func() any {
		calls++
		return watched.Value()
	})
	computed.Value()
	unrelated.SetValue(999)
	computed.Value()
	if calls != 1 {
		t.Fatalf("compute thunk invoked %d times, want 1 (unrelated cell never read, so no dependency)", calls)
	}
}
