package format

import (
	"encoding/binary"
	"errors"
	"testing"
)

func nkPayload(nameLen uint16, name string) []byte {
	p := make([]byte, NKFixedHeaderSize+len(name))
	copy(p, NKSignature)
	binary.LittleEndian.PutUint16(p[NKFlagsOffset:], NKFlagCompressedName)
	binary.LittleEndian.PutUint64(p[NKLastWriteOffset:], 132223104000000000)
	binary.LittleEndian.PutUint32(p[NKParentOffset:], 0x20)
	binary.LittleEndian.PutUint32(p[NKSubkeyCountOffset:], 3)
	binary.LittleEndian.PutUint32(p[NKSubkeyListOffset:], 0x88)
	binary.LittleEndian.PutUint16(p[NKNameLenOffset:], nameLen)
	copy(p[NKNameOffset:], name)
	return p
}

func TestDecodeNK(t *testing.T) {
	nk, err := DecodeNK(nkPayload(7, "Example"))
	if err != nil {
		t.Fatalf("DecodeNK: %v", err)
	}
	if nk.Flags != NKFlagCompressedName || !nk.NameIsCompressed() {
		t.Fatalf("unexpected flags: %#x", nk.Flags)
	}
	if nk.LastWriteRaw != 132223104000000000 {
		t.Fatalf("unexpected timestamp: %d", nk.LastWriteRaw)
	}
	if nk.Parent != 0x20 || nk.SubkeyCount != 3 || nk.SubkeyList != 0x88 {
		t.Fatalf("unexpected fields: %+v", nk)
	}
	if nk.NameLength != 7 {
		t.Fatalf("unexpected name length: %d", nk.NameLength)
	}
}

func TestDecodeNKTruncated(t *testing.T) {
	if _, err := DecodeNK(make([]byte, NKFixedHeaderSize-1)); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestDecodeNKBadSignature(t *testing.T) {
	p := nkPayload(0, "")
	p[0] = 'v'
	if _, err := DecodeNK(p); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected signature mismatch, got %v", err)
	}
}

func TestNKName(t *testing.T) {
	p := nkPayload(7, "Example")
	nk, err := DecodeNK(p)
	if err != nil {
		t.Fatalf("DecodeNK: %v", err)
	}
	name, err := NKName(p, nk)
	if err != nil {
		t.Fatalf("NKName: %v", err)
	}
	if string(name) != "Example" {
		t.Fatalf("unexpected name: %q", name)
	}
}

// A record whose name length exceeds the cell still decodes; only the name
// access fails.
func TestNKNameOverrunsCell(t *testing.T) {
	p := nkPayload(200, "short")
	nk, err := DecodeNK(p)
	if err != nil {
		t.Fatalf("DecodeNK: %v", err)
	}
	if nk.NameLength != 200 {
		t.Fatalf("unexpected name length: %d", nk.NameLength)
	}
	if _, err := NKName(p, nk); err == nil {
		t.Fatalf("expected name bounds error")
	}
}

func TestNKNameEmpty(t *testing.T) {
	p := nkPayload(0, "")
	nk, _ := DecodeNK(p)
	name, err := NKName(p, nk)
	if err != nil {
		t.Fatalf("NKName: %v", err)
	}
	if len(name) != 0 {
		t.Fatalf("expected empty name, got %q", name)
	}
}
