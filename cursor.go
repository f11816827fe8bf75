package cachedseq

import (
	"sync"

	"github.com/elliotnunn/cachedseq/internal/precond"
)

// noCopy is a field of Cursor to make `go vet`'s copylocks check flag
// accidental duplication by value, the same trick the standard library
// uses to mark move-only types (e.g. sync.WaitGroup's internal noCopy
// field). Duplicating a Cursor by value would silently corrupt the
// shared slot bookkeeping; Save is the only sanctioned way to get a
// second cursor over the same cache.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Cursor is a single read position over a cached sequence. Multiple
// Cursors may share the same underlying cache (created via Save);
// each advances independently. A Cursor must not be copied — call Save
// to obtain an independent one at the current offset.
type Cursor[T any] struct {
	noCopy noCopy
	c      *cache[T]
	slot   int
	dead   bool
}

func newCursor[T any](c *cache[T], offset int64) *Cursor[T] {
	slot := c.makeSlot(offset)
	c.live++
	c.retain()
	return &Cursor[T]{c: c, slot: slot}
}

func (cur *Cursor[T]) checkLive() error {
	if cur.dead {
		return precond.New("cursor", "use of a closed cursor")
	}
	return nil
}

// Empty reports whether there is no next element for this cursor.
// Answering this question can require pulling exactly one element from
// the producer — the only way to know whether *this* cursor has more
// is to try to materialize one more element; see cache.empty.
func (cur *Cursor[T]) Empty() (bool, error) {
	if err := cur.checkLive(); err != nil {
		return false, err
	}
	return cur.c.empty(cur.slot)
}

// Front returns the element at the cursor's current offset, pulling
// from the producer if it has not been materialized yet.
func (cur *Cursor[T]) Front() (T, error) {
	var zero T
	if err := cur.checkLive(); err != nil {
		return zero, err
	}
	return cur.c.front(cur.slot)
}

// PopFront advances the cursor's offset by one element.
func (cur *Cursor[T]) PopFront() error {
	if err := cur.checkLive(); err != nil {
		return err
	}
	return cur.c.popFront(cur.slot)
}

// Index returns the element i positions ahead of the cursor's current
// offset, without moving the cursor. It gives the otherwise
// single-pass producer random-access indexing.
func (cur *Cursor[T]) Index(i int) (T, error) {
	var zero T
	if err := cur.checkLive(); err != nil {
		return zero, err
	}
	return cur.c.index(cur.slot, i)
}

// Len returns the number of elements remaining ahead of the cursor,
// and whether that count is known (it is known only when the wrapped
// Producer implements Lener).
func (cur *Cursor[T]) Len() (int, bool) {
	if cur.dead {
		return 0, false
	}
	return cur.c.length(cur.slot)
}

// Save creates a new Cursor at the same offset as cur, sharing the
// same underlying cache. This is the only supported way to duplicate a
// Cursor.
func (cur *Cursor[T]) Save() (*Cursor[T], error) {
	if err := cur.checkLive(); err != nil {
		return nil, err
	}
	return newCursor(cur.c, cur.c.slots[cur.slot]), nil
}

// Stats returns the cache's accumulated statistics, shared by every
// Cursor over it.
func (cur *Cursor[T]) Stats() Stats {
	return cur.c.stats
}

// Compact removes empty heap Blocks from the backing store. It is
// never called automatically; see SetAutoCompaction to opt into the
// heuristic default instead.
func (cur *Cursor[T]) Compact() (int, error) {
	if err := cur.checkLive(); err != nil {
		return 0, err
	}
	return cur.c.compact(), nil
}

// SetAutoCompaction opts into compacting automatically whenever a
// drop-leading run leaves fewer than threshold (occupied/total) of the
// heap Blocks non-empty. The default is to never compact automatically
// — realistic sliding-window usage makes speculative compaction a net
// loss, so this is opt-in only.
func (cur *Cursor[T]) SetAutoCompaction(threshold float64) {
	cur.c.autoCompact = true
	cur.c.compactionThreshold = threshold
}

// Close detaches this cursor from its cache. Once every Cursor sharing
// a cache has been closed, the cache and its backing store become
// eligible for garbage collection.
func (cur *Cursor[T]) Close() error {
	if cur.dead {
		return nil
	}
	cur.dead = true
	cur.c.slots[cur.slot] = vacant
	cur.c.live--
	cur.c.release()
	return nil
}

// ForEach iterates the remaining sequence from the cursor's current
// offset, calling yield for each element and stopping early if yield
// returns false. It exists because a Cursor is move-only and so cannot
// be adapted into a language for-range construct that expects a
// copyable iterable.
func (cur *Cursor[T]) ForEach(yield func(T) bool) error {
	for {
		empty, err := cur.Empty()
		if err != nil {
			return err
		}
		if empty {
			return nil
		}
		v, err := cur.Front()
		if err != nil {
			return err
		}
		if !yield(v) {
			return nil
		}
		if err := cur.PopFront(); err != nil {
			return err
		}
	}
}

// ForEachIndexed is ForEach but also passes the 0-based index relative
// to the cursor's starting offset.
func (cur *Cursor[T]) ForEachIndexed(yield func(int, T) bool) error {
	i := 0
	return cur.ForEach(func(v T) bool {
		ok := yield(i, v)
		i++
		return ok
	})
}

var _ sync.Locker = (*noCopy)(nil)
