package diskstore

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/pebble/v2"
	"github.com/dgryski/go-tinylfu"
)

const shadowCacheBlocks = 4096

// PebbleStore is a disk-backed Backend built on pebble, for working sets
// too large to keep entirely in the sliding window. A small in-memory
// tinylfu admission cache sits in front of pebble so that repeatedly
// re-requested dropped blocks (a cursor re-reading the same region of a
// huge, already-consumed producer) skip the decode-from-disk path. The
// admission policy mirrors internal/spinner's block cache, substituting
// xxhash for maphash since the cache key here is a plain block index
// rather than a (handle, offset) pair tied to the process's random seed.
type PebbleStore[T any] struct {
	db     *pebble.DB
	codec  Codec[T]
	shadow *tinylfu.T[int64, []T]
}

// OpenPebble opens (creating if necessary) a pebble store at dir.
func OpenPebble[T any](dir string, codec Codec[T]) (*PebbleStore[T], error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStore[T]{
		db:     db,
		codec:  codec,
		shadow: tinylfu.New[int64, []T](shadowCacheBlocks, shadowCacheBlocks*10, indexHash),
	}, nil
}

func (p *PebbleStore[T]) PutBlock(index int64, elems []T) error {
	buf, err := encodeBlock(p.codec, elems)
	if err != nil {
		return err
	}
	if err := p.db.Set(encodeKey(index), buf, pebble.Sync); err != nil {
		return err
	}
	p.shadow.Add(index, elems)
	return nil
}

func (p *PebbleStore[T]) GetBlock(index int64) ([]T, bool, error) {
	if elems, ok := p.shadow.Get(index); ok {
		return elems, true, nil
	}
	val, closer, err := p.db.Get(encodeKey(index))
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()
	elems, err := decodeBlock(p.codec, val)
	if err != nil {
		return nil, false, err
	}
	p.shadow.Add(index, elems)
	return elems, true, nil
}

func (p *PebbleStore[T]) Close() error {
	return p.db.Close()
}

func encodeKey(index int64) []byte {
	var b [9]byte
	b[0] = 'b'
	binary.BigEndian.PutUint64(b[1:], uint64(index))
	return b[:]
}

func indexHash(i int64) uint64 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(i))
	return xxhash.Sum64(b[:])
}
