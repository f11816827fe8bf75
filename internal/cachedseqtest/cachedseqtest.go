// Package cachedseqtest provides small test-only helpers shared across
// cachedseq's package tests: a Producer that records how many times each
// element was actually produced (for at-most-once assertions) and a
// deterministic pseudo-random schedule generator for interleaving many
// Cursors against one producer.
package cachedseqtest

import "math/rand/v2"

// Counting wraps a slice Producer and counts, per index, how many times
// Advance consumed that element (Peek is not counted), so a test can
// assert every element was pulled from the underlying source at most
// once regardless of how many Cursors read it.
type Counting[T any] struct {
	items []T
	i     int
	Pulls []int // Pulls[i] counts how many times items[i] was produced
}

// NewCounting wraps items for counted, single-pass production.
func NewCounting[T any](items []T) *Counting[T] {
	return &Counting[T]{items: items, Pulls: make([]int, len(items))}
}

func (c *Counting[T]) Done() bool { return c.i >= len(c.items) }

func (c *Counting[T]) Peek() T {
	return c.items[c.i]
}

func (c *Counting[T]) Advance() {
	c.Pulls[c.i]++
	c.i++
}

func (c *Counting[T]) Len() (int, bool) { return len(c.items) - c.i, true }

// Op is one step of a randomized multi-cursor schedule: advance cursor
// Cursor by one element (PopFront), or read Cursor's i'th element ahead
// without advancing (Index).
type Op struct {
	Cursor int
	Index  int // -1 means PopFront instead of Index
}

// RandomSchedule deterministically generates n operations over numCursors
// cursors, seeded by seed so a failing test is reproducible. Roughly half
// the ops are PopFronts and half are bounded random Index peeks, mirroring
// the interleavings a real multi-reader workload produces.
func RandomSchedule(seed uint64, numCursors, n, maxIndex int) []Op {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	ops := make([]Op, n)
	for i := range ops {
		cur := r.IntN(numCursors)
		if r.IntN(2) == 0 || maxIndex <= 0 {
			ops[i] = Op{Cursor: cur, Index: -1}
		} else {
			ops[i] = Op{Cursor: cur, Index: r.IntN(maxIndex)}
		}
	}
	return ops
}
