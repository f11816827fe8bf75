// Package block implements a fixed-capacity, append-at-tail,
// drop-from-head buffer of elements. It is the bottom layer of the
// cached-sequence store: a [BlockChain] is an expanding ring of these.
//
// Live elements never change address for the lifetime of the Block:
// Append only ever writes into the next free cell, and RemoveFrontN
// only ever advances the head index. Nothing here reallocates or
// shuffles live cells.
package block

import "github.com/elliotnunn/cachedseq/internal/precond"

// Closer is the optional interface an element type can implement to be
// notified when it is dropped from the front of a Block. Elements that
// don't implement it are simply overwritten/zeroed.
type Closer interface{ Close() error }

// Block is a fixed-capacity buffer over a backing slice. The backing
// slice may be caller-provided (userProvided is true) or heap-allocated
// by the owning [BlockChain]; either way its length never changes after
// construction — that fixed length is the Block's capacity.
type Block[T any] struct {
	store        []T
	h, t         int
	userProvided bool
}

// New allocates a heap-backed Block of the given element capacity.
func New[T any](capacity int) *Block[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Block[T]{store: make([]T, capacity)}
}

// FromSlice installs buf as a Block's backing storage. The Block owns
// none of it: the caller supplied this memory and it is never
// reallocated or handed back to a garbage collector root other than by
// the caller's own doing. Any existing contents of buf are treated as
// free space (h = t = 0) regardless of buf's prior contents.
func FromSlice[T any](buf []T) *Block[T] {
	return &Block[T]{store: buf, userProvided: true}
}

// UserProvided reports whether this Block's backing memory was supplied
// by the caller (as opposed to heap-allocated by a BlockChain).
func (b *Block[T]) UserProvided() bool { return b.userProvided }

// Cap returns the Block's fixed element capacity.
func (b *Block[T]) Cap() int { return len(b.store) }

// Len returns the number of live elements currently held.
func (b *Block[T]) Len() int { return b.t - b.h }

// FreeCap returns how many more elements can be appended before the
// Block is full.
func (b *Block[T]) FreeCap() int { return len(b.store) - b.t }

// Empty reports whether the Block currently holds no live elements.
func (b *Block[T]) Empty() bool { return b.h == b.t }

// Append copies v into the next free cell.
func (b *Block[T]) Append(v T) error {
	if b.FreeCap() <= 0 {
		return precond.New("block.Append", "block is full", "cap", b.Cap())
	}
	b.store[b.t] = v
	b.t++
	return nil
}

// AppendMove transfers ownership of *src into the next free cell,
// leaving *src zeroed. This is the Go analogue of the spec's
// move-append: there is no real ownership distinction in a GC'd
// language, but zeroing the source avoids a lingering duplicate
// reference that would otherwise delay collection.
func (b *Block[T]) AppendMove(src *T) error {
	if b.FreeCap() <= 0 {
		return precond.New("block.AppendMove", "block is full", "cap", b.Cap())
	}
	b.store[b.t] = *src
	var zero T
	*src = zero
	b.t++
	return nil
}

// AppendFunc constructs the next element in place: build receives a
// pointer directly into the backing cell. This is the Go analogue of
// an emplace-append.
func (b *Block[T]) AppendFunc(build func(*T)) error {
	if b.FreeCap() <= 0 {
		return precond.New("block.AppendFunc", "block is full", "cap", b.Cap())
	}
	build(&b.store[b.t])
	b.t++
	return nil
}

// Index returns a pointer to the i-th live element (0-based from the
// head). The pointer is valid until the element is dropped by
// RemoveFrontN or the Block is discarded.
func (b *Block[T]) Index(i int) (*T, error) {
	if i < 0 || i >= b.Len() {
		return nil, precond.New("block.Index", "index out of range", "i", i, "len", b.Len())
	}
	return &b.store[b.h+i], nil
}

// Slice returns a view (not a copy) of live cells [from, to).
func (b *Block[T]) Slice(from, to int) ([]T, error) {
	if from < 0 || to < from || to > b.Len() {
		return nil, precond.New("block.Slice", "invalid range", "from", from, "to", to, "len", b.Len())
	}
	return b.store[b.h+from : b.h+to], nil
}

// RemoveFrontN drops the first n live elements. If closeDropped is true
// and T implements Closer, each dropped element's Close is called, in
// reverse order, before the cell is cleared. Dropped cells are zeroed
// so the garbage collector can reclaim anything they referenced even
// though the Block itself is reused.
func (b *Block[T]) RemoveFrontN(n int, closeDropped bool) error {
	if n < 0 || n > b.Len() {
		return precond.New("block.RemoveFrontN", "n exceeds length", "n", n, "len", b.Len())
	}
	if n == 0 {
		return nil
	}
	if closeDropped {
		for i := b.h + n - 1; i >= b.h; i-- {
			if c, ok := any(b.store[i]).(Closer); ok {
				c.Close()
			}
		}
	}
	var zero T
	for i := b.h; i < b.h+n; i++ {
		b.store[i] = zero
	}
	if n == b.Len() {
		// Fully drained: re-enable the whole buffer, even if it came
		// from outside.
		b.h, b.t = 0, 0
	} else {
		b.h += n
	}
	return nil
}
