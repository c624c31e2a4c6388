package format

import (
	"encoding/binary"
	"errors"
	"testing"
)

func listPayload(sig []byte, offsets []uint32, entrySize int) []byte {
	p := make([]byte, IdxListOffset+len(offsets)*entrySize)
	copy(p, sig)
	binary.LittleEndian.PutUint16(p[IdxCountOffset:], uint16(len(offsets)))
	for i, off := range offsets {
		binary.LittleEndian.PutUint32(p[IdxListOffset+i*entrySize:], off)
	}
	return p
}

func TestDecodeListHeaderLeaf(t *testing.T) {
	for _, sig := range [][]byte{LFSignature, LHSignature} {
		h, err := DecodeListHeader(listPayload(sig, []uint32{0x20, 0x80}, LFFHEntrySize))
		if err != nil {
			t.Fatalf("%s: DecodeListHeader: %v", sig, err)
		}
		if h.Kind != ListLeaf || h.Count != 2 {
			t.Fatalf("%s: unexpected header: %+v", sig, h)
		}
	}
}

func TestDecodeListHeaderIndex(t *testing.T) {
	h, err := DecodeListHeader(listPayload(RISignature, []uint32{0x20}, LIEntrySize))
	if err != nil {
		t.Fatalf("DecodeListHeader: %v", err)
	}
	if h.Kind != ListIndex || h.Count != 1 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestDecodeListHeaderUnknownKeepsTag(t *testing.T) {
	h, err := DecodeListHeader(listPayload(LISignature, []uint32{0x20}, LIEntrySize))
	if err != nil {
		t.Fatalf("DecodeListHeader: %v", err)
	}
	if h.Kind != ListUnknown {
		t.Fatalf("expected unknown kind, got %v", h.Kind)
	}
	if h.Tag != [2]byte{'l', 'i'} {
		t.Fatalf("tag not retained: %v", h.Tag)
	}
}

func TestDecodeListHeaderTruncated(t *testing.T) {
	if _, err := DecodeListHeader([]byte{'l', 'f', 1}); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestLeafEntryOffset(t *testing.T) {
	p := listPayload(LFSignature, []uint32{0x20, 0x80, 0xe0}, LFFHEntrySize)
	for i, want := range []uint32{0x20, 0x80, 0xe0} {
		if got := LeafEntryOffset(p, i); got != want {
			t.Fatalf("entry %d: got %#x want %#x", i, got, want)
		}
	}
}

func TestIndexEntryOffset(t *testing.T) {
	p := listPayload(RISignature, []uint32{0x100, 0x200}, LIEntrySize)
	for i, want := range []uint32{0x100, 0x200} {
		if got := IndexEntryOffset(p, i); got != want {
			t.Fatalf("entry %d: got %#x want %#x", i, got, want)
		}
	}
}
