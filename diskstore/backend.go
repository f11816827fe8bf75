// Package diskstore provides optional overflow storage that sits entirely
// outside cachedseq's core caching path: it never imports cachedseq, and
// cachedseq never imports it. Instead, [Wrap] decorates any single-pass
// Producer (duck-typed against the same Done/Peek/Advance shape
// github.com/elliotnunn/cachedseq.Producer requires) so that every element
// it yields is also persisted, block by block, to a Backend as it streams
// past. [NewReplay] turns a populated Backend back into a fresh Producer,
// so a second, independent cachedseq.MakeCached call over the same data
// later re-materializes it from disk instead of re-invoking whatever
// expensive or genuinely single-pass source produced it the first time.
package diskstore

// Codec encodes and decodes individual elements for storage. Callers
// supply one because T is not known to be serializable in general.
type Codec[T any] interface {
	Encode(T) ([]byte, error)
	Decode([]byte) (T, error)
}

// Backend stores and retrieves whole Blocks of elements, indexed by a
// monotonically increasing block index assigned by [Wrap]. PutBlock is
// called once per filled block, and once for a final shorter block, as a
// wrapped Producer is drained; GetBlock
// is called by [Replay] to reconstruct blocks in order.
type Backend[T any] interface {
	PutBlock(index int64, elems []T) error
	GetBlock(index int64) ([]T, bool, error)
	Close() error
}
