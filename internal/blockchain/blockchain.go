// Package blockchain implements an expanding, logically circular store
// of [block.Block]s. Appends never invalidate the address of an
// earlier element; dropping from the front recycles emptied Blocks by
// rotating them to the back instead of freeing and reallocating them.
package blockchain

import (
	"github.com/elliotnunn/cachedseq/internal/block"
	"github.com/elliotnunn/cachedseq/internal/precond"
)

// BlockChain is an ordered sequence of Blocks read as their
// concatenation. The first few Blocks may be caller-provided (and are
// never freed); the rest are heap Blocks the chain allocates and
// reuses as the working set slides forward.
type BlockChain[T any] struct {
	blocks          []*block.Block[T]
	tailIx          int
	length          int
	heapHint        int
	heapAllocations int
	closeDropped    bool
}

// New creates an empty chain that allocates heap Blocks of
// heapBlockCapacity elements as needed. A non-positive hint is coerced
// up to 1.
func New[T any](heapBlockCapacity int, closeDropped bool) *BlockChain[T] {
	if heapBlockCapacity < 1 {
		heapBlockCapacity = 1
	}
	return &BlockChain[T]{heapHint: heapBlockCapacity, closeDropped: closeDropped}
}

// NewWithBuffers creates a chain seeded with one or more caller-owned
// buffers, installed as the leading Blocks. The heap-block capacity
// hint becomes the largest buffer's length, so a sliding window that
// fits inside the caller's buffers never triggers a heap allocation.
func NewWithBuffers[T any](buffers [][]T, closeDropped bool) *BlockChain[T] {
	c := &BlockChain[T]{closeDropped: closeDropped}
	largest := 0
	for _, buf := range buffers {
		c.blocks = append(c.blocks, block.FromSlice(buf))
		if len(buf) > largest {
			largest = len(buf)
		}
	}
	if largest < 1 {
		largest = 1
	}
	c.heapHint = largest
	if len(c.blocks) > 0 {
		c.tailIx = 0
	}
	return c
}

// Len returns the total number of live elements across all Blocks.
func (c *BlockChain[T]) Len() int { return c.length }

// Cap returns the total capacity across all Blocks.
func (c *BlockChain[T]) Cap() int {
	total := 0
	for _, b := range c.blocks {
		total += b.Cap()
	}
	return total
}

// HeapAllocations returns how many heap Blocks this chain has ever
// allocated.
func (c *BlockChain[T]) HeapAllocations() int { return c.heapAllocations }

func (c *BlockChain[T]) ensureTail() error {
	if len(c.blocks) == 0 {
		c.blocks = append(c.blocks, block.New[T](c.heapHint))
		c.heapAllocations++
		c.tailIx = 0
		return nil
	}
	if c.blocks[c.tailIx].FreeCap() > 0 {
		return nil
	}
	if c.tailIx+1 < len(c.blocks) {
		c.tailIx++
		return nil
	}
	c.blocks = append(c.blocks, block.New[T](c.heapHint))
	c.heapAllocations++
	c.tailIx++
	return nil
}

// Append copies v onto the tail Block, allocating a new heap Block if
// necessary.
func (c *BlockChain[T]) Append(v T) error {
	if err := c.ensureTail(); err != nil {
		return err
	}
	if err := c.blocks[c.tailIx].Append(v); err != nil {
		return err
	}
	c.length++
	return nil
}

// AppendMove is the move-append analogue of Append; see
// [block.Block.AppendMove].
func (c *BlockChain[T]) AppendMove(src *T) error {
	if err := c.ensureTail(); err != nil {
		return err
	}
	if err := c.blocks[c.tailIx].AppendMove(src); err != nil {
		return err
	}
	c.length++
	return nil
}

// AppendFunc is the emplace-append analogue of Append; see
// [block.Block.AppendFunc].
func (c *BlockChain[T]) AppendFunc(build func(*T)) error {
	if err := c.ensureTail(); err != nil {
		return err
	}
	if err := c.blocks[c.tailIx].AppendFunc(build); err != nil {
		return err
	}
	c.length++
	return nil
}

// Index returns a pointer to the i-th live element across the whole
// chain. Blocks are walked and their lengths subtracted rather than
// divided, since a partially-drained head Block means Blocks are not
// uniform in length.
func (c *BlockChain[T]) Index(i int) (*T, error) {
	if i < 0 || i >= c.length {
		return nil, precond.New("blockchain.Index", "index out of range", "i", i, "len", c.length)
	}
	for _, b := range c.blocks {
		n := b.Len()
		if i < n {
			return b.Index(i)
		}
		i -= n
	}
	// unreachable given the bounds check above
	return nil, precond.New("blockchain.Index", "internal inconsistency", "i", i)
}

// RemoveFrontN drops the first n live elements from the chain, walking
// Blocks from the front, clearing any it fully consumes, and rotating
// those cleared Blocks to the back so they are reused without a fresh
// allocation. The rotation is a stable left-rotation (implemented via
// the classic three-reversal trick) so the relative order of the
// Blocks that remain live is preserved exactly.
func (c *BlockChain[T]) RemoveFrontN(n int) error {
	if n < 0 || n > c.length {
		return precond.New("blockchain.RemoveFrontN", "n exceeds length", "n", n, "len", c.length)
	}
	if n == 0 {
		return nil
	}

	remaining := n
	dropN := 0
	for dropN < len(c.blocks) {
		bl := c.blocks[dropN].Len()
		if bl > remaining {
			break
		}
		remaining -= bl
		dropN++
		if remaining == 0 {
			break
		}
	}

	if remaining > 0 && dropN < len(c.blocks) {
		if err := c.blocks[dropN].RemoveFrontN(remaining, c.closeDropped); err != nil {
			return err
		}
	}

	for i := dropN - 1; i >= 0; i-- {
		// Already fully consumed above; RemoveFrontN(Len()) clears and
		// resets h/t to 0, making the Block reusable.
		c.blocks[i].RemoveFrontN(c.blocks[i].Len(), c.closeDropped)
	}

	// If dropN reaches past the tail block, the whole chain just went
	// empty (the tail is always the rightmost non-empty block); the
	// next append should land back at the front.
	newTailIx := c.tailIx - dropN
	if newTailIx < 0 {
		newTailIx = 0
	}
	c.tailIx = newTailIx
	rotateLeft(c.blocks, dropN)
	c.length -= n
	return nil
}

// HeapBlockOccupancy returns the number of heap (non-caller-provided)
// Blocks and how many of them are non-empty.
func (c *BlockChain[T]) HeapBlockOccupancy() (total, occupied int) {
	for _, b := range c.blocks {
		if b.UserProvided() {
			continue
		}
		total++
		if !b.Empty() {
			occupied++
		}
	}
	return total, occupied
}

// Compact removes empty heap Blocks from the chain. Caller-provided
// Blocks are never removed, even when empty. Because RemoveFrontN
// always rotates cleared Blocks to the back, every empty heap Block is
// already at the tail end of the slice by the time Compact runs, so an
// unordered removal cannot disturb the order of the Blocks that remain.
// Returns the number of Blocks removed.
func (c *BlockChain[T]) Compact() int {
	if len(c.blocks) == 0 {
		return 0
	}
	oldTail := c.blocks[c.tailIx]
	kept := c.blocks[:0]
	removed := 0
	for _, b := range c.blocks {
		if !b.UserProvided() && b.Empty() {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	c.blocks = kept
	c.tailIx = 0
	for i, b := range kept {
		if b == oldTail {
			c.tailIx = i
			break
		}
	}
	return removed
}

// rotateLeft rotates blocks left by k positions in place, using the
// standard reverse/reverse/reverse trick so no extra slice is
// allocated. A rotation that way is stable: the relative order of the
// surviving (non-rotated) elements is unchanged.
func rotateLeft[T any](s []T, k int) {
	n := len(s)
	if n == 0 {
		return
	}
	k %= n
	if k < 0 {
		k += n
	}
	if k == 0 {
		return
	}
	reverse(s[:k])
	reverse(s[k:])
	reverse(s)
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
