package diskstore

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
)

// GobCodec is a Codec built on encoding/gob. T's fields must be exported
// for gob to see them; register concrete types with gob.Register if T is
// an interface.
type GobCodec[T any] struct{}

func (GobCodec[T]) Encode(v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (GobCodec[T]) Decode(b []byte) (T, error) {
	var v T
	err := gob.NewDecoder(bytes.NewReader(b)).Decode(&v)
	return v, err
}

// encodeBlock frames a slice of elements as a count followed by
// length-prefixed, individually codec-encoded elements.
func encodeBlock[T any](c Codec[T], elems []T) ([]byte, error) {
	var buf bytes.Buffer
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(elems)))
	buf.Write(hdr[:])
	for _, e := range elems {
		eb, err := c.Encode(e)
		if err != nil {
			return nil, err
		}
		var eh [4]byte
		binary.BigEndian.PutUint32(eh[:], uint32(len(eb)))
		buf.Write(eh[:])
		buf.Write(eb)
	}
	return buf.Bytes(), nil
}

func decodeBlock[T any](c Codec[T], data []byte) ([]T, error) {
	if len(data) < 4 {
		return nil, io.ErrUnexpectedEOF
	}
	n := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	elems := make([]T, 0, n)
	for i := uint32(0); i < n; i++ {
		if len(data) < 4 {
			return nil, io.ErrUnexpectedEOF
		}
		elen := binary.BigEndian.Uint32(data[:4])
		data = data[4:]
		if uint32(len(data)) < elen {
			return nil, io.ErrUnexpectedEOF
		}
		v, err := c.Decode(data[:elen])
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		data = data[elen:]
	}
	return elems, nil
}
