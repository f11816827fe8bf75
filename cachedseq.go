package cachedseq

import (
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/elliotnunn/cachedseq/internal/blockchain"
)

// MakeCached wraps p so that each of its elements is evaluated at most
// once no matter how many Cursors revisit it. heapBlockCapacity hints
// how many elements each heap-allocated storage block should hold; a
// non-positive value is coerced up to a positive default (see
// DefaultHeapBlockCapacity). All backing storage is heap-allocated.
//
// closeDroppedElements, when true and T implements
// interface{ Close() error }, calls Close on every element as it is
// dropped from the front of the cache, and on every element still
// cached when the last Cursor is closed, in last-in-first-out order
// relative to how it was appended.
func MakeCached[T any](p Producer[T], heapBlockCapacity int, closeDroppedElements bool) *Cursor[T] {
	if heapBlockCapacity <= 0 {
		heapBlockCapacity = DefaultHeapBlockCapacity()
	}
	chain := blockchain.New[T](heapBlockCapacity, closeDroppedElements)
	c := newCache(p, chain, int64(heapBlockCapacity))
	return newCursor(c, 0)
}

// MakeCachedWithBuffers is like MakeCached but installs one or more
// caller-owned buffers as the initial storage Blocks. Heap allocation
// only occurs once elements outlive the buffers' combined capacity;
// the heap-block capacity hint used from then on is the size of the
// largest buffer supplied.
func MakeCachedWithBuffers[T any](p Producer[T], buffers [][]T, closeDroppedElements bool) *Cursor[T] {
	chain := blockchain.NewWithBuffers(buffers, closeDroppedElements)
	largest := 0
	for _, b := range buffers {
		if len(b) > largest {
			largest = len(b)
		}
	}
	if largest < 1 {
		largest = 1
	}
	c := newCache(p, chain, int64(largest))
	return newCursor(c, 0)
}

// DefaultHeapBlockCapacity is the fallback heap-block element capacity
// used when MakeCached is given a zero or negative hint. It can be
// overridden process-wide with the CACHEDSEQ_MINBLOCK environment
// variable (an element count), the same way the teacher's memory
// ceiling is overridden with its BEGB variable.
func DefaultHeapBlockCapacity() int {
	return defaultHeapBlockCapacityOverride
}

var defaultHeapBlockCapacityOverride = calcDefaultHeapBlockCapacity()

func calcDefaultHeapBlockCapacity() int {
	if e := os.Getenv("CACHEDSEQ_MINBLOCK"); e != "" {
		f, err := strconv.ParseFloat(e, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
			panic("malformed CACHEDSEQ_MINBLOCK environment variable, should be a positive element count: " + e)
		}
		slog.Info("cachedseqMinBlockOverride", "elements", f)
		return int(f)
	}
	return defaultHeapBlockCapacity
}
