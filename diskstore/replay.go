package diskstore

import "log/slog"

// Replay is a finite Producer that reads blocks out of a Backend in
// order, starting from block 0, until GetBlock reports a miss. It is the
// read side of [Wrap]: point a Replay at the same Backend a Wrap drained
// into, in a later process or a later pass, and it reproduces the
// original sequence without touching whatever produced it the first time.
type Replay[T any] struct {
	backend Backend[T]
	next    int64
	buf     []T
	i       int
	done    bool
}

// NewReplay returns a Replay reading from backend.
func NewReplay[T any](backend Backend[T]) *Replay[T] {
	return &Replay[T]{backend: backend}
}

func (r *Replay[T]) fill() {
	for !r.done && r.i >= len(r.buf) {
		elems, ok, err := r.backend.GetBlock(r.next)
		if err != nil {
			slog.Error("diskstoreGetBlockFailed", "block", r.next, "err", err)
			r.done = true
			return
		}
		if !ok {
			r.done = true
			return
		}
		r.buf, r.i = elems, 0
		r.next++
	}
}

func (r *Replay[T]) Done() bool {
	r.fill()
	return r.done && r.i >= len(r.buf)
}

func (r *Replay[T]) Peek() T {
	r.fill()
	return r.buf[r.i]
}

func (r *Replay[T]) Advance() {
	r.fill()
	r.i++
}
