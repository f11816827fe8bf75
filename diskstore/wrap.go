package diskstore

import "log/slog"

// Producer is the same three-method shape as
// github.com/elliotnunn/cachedseq.Producer, restated locally so this
// package has no import dependency on cachedseq; Go's structural typing
// means a *Wrap still satisfies the real interface at the call site.
type Producer[T any] interface {
	Done() bool
	Peek() T
	Advance()
}

// Wrap decorates inner so that every element it yields is buffered and,
// once blockSize elements have accumulated, persisted to backend as one
// Block; the final, possibly shorter run is persisted as soon as inner
// reports Done after an Advance. A Wrap is itself a Producer, so it can be handed to
// cachedseq.MakeCached exactly like inner would be; the only difference is
// the side effect of populating backend as the wrapped sequence is drained.
type Wrap[T any] struct {
	inner     Producer[T]
	backend   Backend[T]
	blockSize int
	buf       []T
	nextBlock int64
}

// WrapProducer returns a Wrap around inner. blockSize must be positive.
func WrapProducer[T any](inner Producer[T], backend Backend[T], blockSize int) *Wrap[T] {
	if blockSize <= 0 {
		panic("diskstore: blockSize must be positive")
	}
	return &Wrap[T]{inner: inner, backend: backend, blockSize: blockSize}
}

func (w *Wrap[T]) Done() bool { return w.inner.Done() }
func (w *Wrap[T]) Peek() T    { return w.inner.Peek() }

func (w *Wrap[T]) Advance() {
	w.buf = append(w.buf, w.inner.Peek())
	w.inner.Advance()
	if len(w.buf) >= w.blockSize {
		w.flush()
	}
	if w.inner.Done() {
		w.flush()
	}
}

func (w *Wrap[T]) flush() {
	if len(w.buf) == 0 {
		return
	}
	if err := w.backend.PutBlock(w.nextBlock, w.buf); err != nil {
		slog.Error("diskstorePutBlockFailed", "block", w.nextBlock, "err", err)
	}
	w.nextBlock++
	w.buf = nil
}
