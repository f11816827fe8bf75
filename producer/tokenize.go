package producer

import (
	"strings"

	"github.com/maypok86/otter/v2"
)

// splitCache memoizes the result of splitting a string by a separator,
// so that calling Tokenize repeatedly with the same (s, sep) pair (a
// common pattern when a producer is rebuilt per request against a
// small set of recurring inputs) skips re-splitting. Grounded in the
// teacher's internal/reader2readerat block cache, adapted from
// caching decoded byte blocks to caching decoded token slices.
var splitCache = otter.Must(&otter.Options[string, []string]{
	MaximumSize: 4096,
})

// Tokenize splits s by sep and returns a finite Producer over the
// resulting tokens, in order.
func Tokenize(s, sep string) *Slice[string] {
	key := s + "\x00" + sep
	var tokens []string
	if entry, ok := splitCache.GetEntry(key); ok {
		tokens = entry.Value
	} else {
		tokens = strings.Split(s, sep)
		splitCache.Set(key, tokens)
	}
	return NewSlice(tokens)
}
