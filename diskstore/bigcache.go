package diskstore

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/allegro/bigcache/v3"
)

// BigCacheStore is an in-memory-only alternate Backend for callers who
// want overflow capacity beyond the sliding window without paying for a
// disk-backed store: a process-local, sharded, TTL-evicting cache rather
// than a durable one. Grounded on the teacher's decompressioncache
// package, which caches decompressed blocks the same way.
type BigCacheStore[T any] struct {
	cache *bigcache.BigCache
	codec Codec[T]
}

// OpenBigCache creates a BigCacheStore sized in megabytes.
func OpenBigCache[T any](sizeMB int, codec Codec[T]) (*BigCacheStore[T], error) {
	c, err := bigcache.New(context.Background(), bigcache.Config{
		HardMaxCacheSize: sizeMB,
		Shards:           1024,
		MaxEntrySize:     500,
	})
	if err != nil {
		return nil, err
	}
	return &BigCacheStore[T]{cache: c, codec: codec}, nil
}

func (b *BigCacheStore[T]) PutBlock(index int64, elems []T) error {
	buf, err := encodeBlock(b.codec, elems)
	if err != nil {
		return err
	}
	return b.cache.Set(bigCacheKey(index), buf)
}

func (b *BigCacheStore[T]) GetBlock(index int64) ([]T, bool, error) {
	buf, err := b.cache.Get(bigCacheKey(index))
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	elems, err := decodeBlock(b.codec, buf)
	if err != nil {
		return nil, false, err
	}
	return elems, true, nil
}

func (b *BigCacheStore[T]) Close() error {
	return b.cache.Close()
}

// bigCacheKey turns the numeric index into the string key bigcache wants.
func bigCacheKey(index int64) string {
	var raw [8]byte
	for i := range raw {
		raw[i] = byte(index >> (8 * i))
	}
	return base64.RawURLEncoding.EncodeToString(raw[:])
}
