package diskstore

import (
	"testing"

	"github.com/elliotnunn/cachedseq/producer"
)

type intCodec struct{}

func (intCodec) Encode(v int) ([]byte, error) {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}, nil
}

func (intCodec) Decode(b []byte) (int, error) {
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16 | int(b[3])<<24, nil
}

func TestEncodeDecodeBlockRoundTrip(t *testing.T) {
	want := []int{1, 2, 3, 4, 5}
	buf, err := encodeBlock[int](intCodec{}, want)
	if err != nil {
		t.Fatalf("encodeBlock: %v", err)
	}
	got, err := decodeBlock[int](intCodec{}, buf)
	if err != nil {
		t.Fatalf("decodeBlock: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len=%d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("elem %d = %d want %d", i, got[i], want[i])
		}
	}
}

func TestGobCodecRoundTrip(t *testing.T) {
	type point struct{ X, Y int }
	c := GobCodec[point]{}
	buf, err := c.Encode(point{3, 4})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := c.Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != (point{3, 4}) {
		t.Fatalf("got %+v", got)
	}
}

func TestPebbleStorePutGet(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenPebble[int](dir, intCodec{})
	if err != nil {
		t.Fatalf("OpenPebble: %v", err)
	}
	defer store.Close()

	if err := store.PutBlock(7, []int{10, 20, 30}); err != nil {
		t.Fatalf("PutBlock: %v", err)
	}
	got, ok, err := store.GetBlock(7)
	if err != nil || !ok {
		t.Fatalf("GetBlock: ok=%v err=%v", ok, err)
	}
	if len(got) != 3 || got[1] != 20 {
		t.Fatalf("got %v", got)
	}

	if _, ok, err := store.GetBlock(99); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestPebbleStoreShadowHit(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenPebble[int](dir, intCodec{})
	if err != nil {
		t.Fatalf("OpenPebble: %v", err)
	}
	defer store.Close()

	if err := store.PutBlock(1, []int{1, 2}); err != nil {
		t.Fatalf("PutBlock: %v", err)
	}
	if _, _, err := store.GetBlock(1); err != nil {
		t.Fatalf("first GetBlock: %v", err)
	}
	// Second read should be served from the shadow admission cache.
	got, ok, err := store.GetBlock(1)
	if err != nil || !ok || len(got) != 2 {
		t.Fatalf("shadow GetBlock: got=%v ok=%v err=%v", got, ok, err)
	}
}

func TestBigCacheStorePutGet(t *testing.T) {
	store, err := OpenBigCache[int](1, intCodec{})
	if err != nil {
		t.Fatalf("OpenBigCache: %v", err)
	}
	defer store.Close()

	if err := store.PutBlock(3, []int{100, 200}); err != nil {
		t.Fatalf("PutBlock: %v", err)
	}
	got, ok, err := store.GetBlock(3)
	if err != nil || !ok {
		t.Fatalf("GetBlock: ok=%v err=%v", ok, err)
	}
	if len(got) != 2 || got[0] != 100 {
		t.Fatalf("got %v", got)
	}

	if _, ok, err := store.GetBlock(404); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestWrapReplayRoundTrip(t *testing.T) {
	store, err := OpenBigCache[int](1, intCodec{})
	if err != nil {
		t.Fatalf("OpenBigCache: %v", err)
	}
	defer store.Close()

	src := producer.NewSlice([]int{1, 2, 3, 4, 5, 6, 7})
	wrapped := WrapProducer[int](src, store, 3)
	for !wrapped.Done() {
		wrapped.Advance()
	}

	replay := NewReplay[int](store)
	var got []int
	for !replay.Done() {
		got = append(got, replay.Peek())
		replay.Advance()
	}
	want := []int{1, 2, 3, 4, 5, 6, 7}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("elem %d = %d, want %d", i, got[i], want[i])
		}
	}
}
