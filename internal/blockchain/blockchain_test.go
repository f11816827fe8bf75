package blockchain

import "testing"

func TestAppendAcrossBlocks(t *testing.T) {
	c := New[int](2, false)
	for i := range 10 {
		if err := c.Append(i); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len() != 10 {
		t.Fatalf("len=%d", c.Len())
	}
	if c.HeapAllocations() < 5 {
		t.Fatalf("expected multiple heap blocks of capacity 2, got %d allocations", c.HeapAllocations())
	}
	for i := range 10 {
		p, err := c.Index(i)
		if err != nil || *p != i {
			t.Fatalf("index %d = %v, %v", i, p, err)
		}
	}
}

func TestIndexAgreesWithIterate(t *testing.T) {
	c := New[int](3, false)
	for i := range 25 {
		c.Append(i)
	}
	c.RemoveFrontN(7)
	c.Append(100)
	c.Append(101)

	var iterated []int
	for _, b := range c.blocks {
		s, err := b.Slice(0, b.Len())
		if err != nil {
			t.Fatal(err)
		}
		iterated = append(iterated, s...)
	}
	if len(iterated) != c.Len() {
		t.Fatalf("iterate gave %d elements, len=%d", len(iterated), c.Len())
	}
	for i, v := range iterated {
		p, _ := c.Index(i)
		if *p != v {
			t.Fatalf("index(%d)=%d but iterate gave %d", i, *p, v)
		}
	}
}

func TestRemoveFrontNThenRefillNoHeapAllocation(t *testing.T) {
	bufA := make([]int, 16)
	bufB := make([]int, 16)
	c := NewWithBuffers([][]int{bufA, bufB}, false)

	for i := range 16 {
		c.Append(i)
	}
	for range 117 {
		width := c.Cap() - c.Len()
		for i := range width {
			c.Append(i)
		}
		c.RemoveFrontN(width)
	}
	total, _ := c.HeapBlockOccupancy()
	if total != 0 {
		t.Fatalf("expected zero heap blocks, got %d", total)
	}
	if c.HeapAllocations() != 0 {
		t.Fatalf("expected zero heap allocations, got %d", c.HeapAllocations())
	}
}

func TestEmptyBlockReuseCircularity(t *testing.T) {
	bufA := make([]int, 25)
	bufB := make([]int, 25)
	c := NewWithBuffers([][]int{bufA, bufB}, false)

	for i := range 50 {
		c.Append(i)
	}
	c.RemoveFrontN(50)
	for i := range 50 {
		c.Append(1000 + i)
	}
	if c.HeapAllocations() != 0 {
		t.Fatalf("expected zero heap allocations, got %d", c.HeapAllocations())
	}
	for i := range 50 {
		p, err := c.Index(i)
		if err != nil || *p != 1000+i {
			t.Fatalf("index %d = %v, %v, want %d", i, p, err, 1000+i)
		}
	}
}

func TestCapacityMonotoneExceptAfterCompact(t *testing.T) {
	c := New[int](4, false)
	prevCap := c.Cap()
	for i := range 40 {
		c.Append(i)
		if c.Cap() < prevCap {
			t.Fatalf("capacity shrank without a Compact call")
		}
		prevCap = c.Cap()
	}
	c.RemoveFrontN(40)
	removed := c.Compact()
	if removed == 0 {
		t.Fatal("expected Compact to remove empty heap blocks")
	}
	if c.Cap() >= prevCap {
		t.Fatalf("expected capacity to shrink after Compact, got %d (was %d)", c.Cap(), prevCap)
	}
}

func TestCompactIdempotent(t *testing.T) {
	c := New[int](4, false)
	for i := range 20 {
		c.Append(i)
	}
	c.RemoveFrontN(20)
	c.Compact()
	if n := c.Compact(); n != 0 {
		t.Fatalf("second Compact should remove 0, removed %d", n)
	}
}

func TestRemoveFrontNRejectsOverdraw(t *testing.T) {
	c := New[int](4, false)
	c.Append(1)
	if err := c.RemoveFrontN(2); err == nil {
		t.Fatal("expected precondition violation")
	}
}

func TestCapacityAtLeastLength(t *testing.T) {
	c := New[int](3, false)
	for i := range 30 {
		c.Append(i)
		if c.Cap() < c.Len() {
			t.Fatalf("cap %d < len %d", c.Cap(), c.Len())
		}
		if i%5 == 0 {
			c.RemoveFrontN(min(2, c.Len()))
			if c.Cap() < c.Len() {
				t.Fatalf("cap %d < len %d after drop", c.Cap(), c.Len())
			}
		}
	}
}
