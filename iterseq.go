package cachedseq

import "iter"

// iterPull is a thin wrapper over iter.Pull so producer.go's generic
// type doesn't need to spell out the iter.Seq type parameter twice.
func iterPull[T any](seq func(yield func(T) bool)) (next func() (T, bool), stop func()) {
	return iter.Pull(seq)
}
