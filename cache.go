// Package cachedseq adapts a single-pass [Producer] into a lazily
// materialized, shared, multiply-cursored sequence: every element is
// pulled from the producer and evaluated at most once, no matter how
// many Cursors revisit it or in what order they advance.
//
// The element store underneath is an expanding [blockchain.BlockChain]
// of fixed-capacity Blocks; see that package for the part that does
// the real work. This package is the pull-on-demand materializer and
// the multi-cursor bookkeeping on top of it.
package cachedseq

import (
	"log/slog"

	"github.com/elliotnunn/cachedseq/internal/blockchain"
	"github.com/elliotnunn/cachedseq/internal/precond"
)

const defaultHeapBlockCapacity = 64

// vacant marks a slot in the cache's offset table as belonging to no
// live Cursor.
const vacant = -1

// cache is the shared state behind every Cursor created from the same
// call to MakeCached/MakeCachedWithBuffers (or from a Save of one of
// their Cursors). Only a Cursor's own methods mutate it, dispatched
// through the slot id the Cursor owns.
//
// front() is semantically read-only to callers but must be able to
// pull from the producer and append to the chain; that mutation is
// modeled honestly here by a plain pointer receiver rather than
// hidden behind something that looks immutable.
type cache[T any] struct {
	producer Producer[T]
	chain    *blockchain.BlockChain[T]

	slots []int64 // logical offsets into the chain's index space; vacant sentinel for dead cursors
	live  int

	attempts            int
	minDrop             int64
	autoCompact         bool
	compactionThreshold float64 // occupied/total ratio below which autoCompact fires

	refs  int
	stats Stats
}

func newCache[T any](p Producer[T], chain *blockchain.BlockChain[T], minDrop int64) *cache[T] {
	return &cache[T]{
		producer: p,
		chain:    chain,
		minDrop:  minDrop,
	}
}

// makeSlot reuses a vacant slot if one exists, otherwise appends a new
// one, and returns its id. The caller is responsible for incrementing
// live and refs.
func (c *cache[T]) makeSlot(offset int64) int {
	for i, o := range c.slots {
		if o == vacant {
			c.slots[i] = offset
			return i
		}
	}
	c.slots = append(c.slots, offset)
	return len(c.slots) - 1
}

func (c *cache[T]) retain() { c.refs++ }

// release drops one reference; when the last Cursor sharing this cache
// goes away, the producer is closed if it wants to be (the cache owns
// it exclusively for its lifetime), every element still cached is
// dropped from the chain (and closed, last-in-first-out, when the chain
// closes dropped elements), and the chain itself is left for the
// garbage collector.
func (c *cache[T]) release() {
	c.refs--
	if c.refs == 0 {
		if cl, ok := c.producer.(interface{ Close() error }); ok {
			cl.Close()
		}
		c.chain.RemoveFrontN(c.chain.Len())
	}
}

func (c *cache[T]) expandAsNeeded(needed int64, offset int64) (expanded bool, err error) {
	for int64(c.chain.Len())-offset < needed {
		if c.producer.Done() {
			return expanded, nil
		}
		v := c.producer.Peek()
		c.producer.Advance()
		if err := c.chain.AppendMove(&v); err != nil {
			return expanded, err
		}
		if c.chain.HeapAllocations() > c.stats.HeapAllocations {
			c.stats.HeapAllocations = c.chain.HeapAllocations()
		}
		expanded = true
	}
	return expanded, nil
}

// empty answers whether slot s's cursor has anything left. Per the
// spec this is allowed to perform exactly one pull from the producer:
// that is the only way to know whether there is a next element for
// *this particular* cursor, since other cursors may already have
// caused elements beyond it to be materialized, or the producer may
// simply not have been asked yet.
func (c *cache[T]) empty(s int) (bool, error) {
	off := c.slots[s]
	if off < int64(c.chain.Len()) {
		return false, nil
	}
	if c.producer.Done() {
		return true, nil
	}
	expanded, err := c.expandAsNeeded(1, off)
	if err != nil {
		return false, err
	}
	return !expanded, nil
}

func (c *cache[T]) front(s int) (T, error) {
	var zero T
	off := c.slots[s]
	if _, err := c.expandAsNeeded(1, off); err != nil {
		return zero, err
	}
	if off >= int64(c.chain.Len()) {
		return zero, precond.New("cursor.Front", "cursor has run past the end of the producer", "offset", off)
	}
	p, err := c.chain.Index(int(off))
	if err != nil {
		return zero, err
	}
	return *p, nil
}

func (c *cache[T]) index(s int, i int) (T, error) {
	var zero T
	if i < 0 {
		return zero, precond.New("cursor.Index", "negative index", "i", i)
	}
	off := c.slots[s]
	if _, err := c.expandAsNeeded(int64(i)+1, off); err != nil {
		return zero, err
	}
	if off+int64(i) >= int64(c.chain.Len()) {
		return zero, precond.New("cursor.Index", "index past the end of the producer", "i", i, "offset", off)
	}
	p, err := c.chain.Index(int(off) + i)
	if err != nil {
		return zero, err
	}
	return *p, nil
}

// popFront advances slot s's offset by one and then, if that offset
// has reached minDrop, applies the drop-leading heuristic.
func (c *cache[T]) popFront(s int) error {
	c.slots[s]++
	if c.slots[s] < c.minDrop {
		return nil
	}
	return c.dropLeading()
}

// dropLeading implements the heuristic from spec.md 4.3, steps 1-5.
// With multiple live cursors a single straggler is enough to pin the
// whole front, so rather than recomputing the minimum offset on every
// single qualifying popFront, the scan only runs once every `live`
// attempts.
func (c *cache[T]) dropLeading() error {
	c.attempts++
	if c.attempts < c.live {
		return nil
	}
	c.attempts = 0

	m := int64(-1)
	for _, o := range c.slots {
		if o == vacant {
			continue
		}
		if m == -1 || o < m {
			m = o
		}
	}
	if m <= 0 {
		return nil
	}

	if err := c.chain.RemoveFrontN(int(m)); err != nil {
		return err
	}
	for i, o := range c.slots {
		if o != vacant {
			c.slots[i] = o - m
		}
	}
	c.stats.LeadingDropRuns++
	c.stats.DroppedElements += int(m)
	slog.Debug("cachedseqDropLeading", "dropped", m, "live", c.live)

	if c.autoCompact {
		total, occupied := c.chain.HeapBlockOccupancy()
		if total > 0 && float64(occupied)/float64(total) < c.compactionThreshold {
			removed := c.chain.Compact()
			c.stats.CompactionRuns++
			c.stats.RemovedBlocks += removed
			slog.Debug("cachedseqAutoCompact", "removed", removed)
		}
	}
	return nil
}

func (c *cache[T]) length(s int) (int, bool) {
	producerRemaining, ok := producerLen[T](c.producer)
	if !ok {
		return 0, false
	}
	off := c.slots[s]
	return producerRemaining + c.chain.Len() - int(off), true
}

// compact removes empty heap Blocks on demand; it is never invoked
// automatically unless the caller opted in via SetAutoCompaction.
func (c *cache[T]) compact() int {
	removed := c.chain.Compact()
	c.stats.CompactionRuns++
	c.stats.RemovedBlocks += removed
	return removed
}
