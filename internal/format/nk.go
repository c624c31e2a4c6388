package format

import (
	"fmt"

	"github.com/hivewalk/hivewalk/internal/buf"
)

// NKRecord captures the fixed-size fields of an NK (key node) payload that
// tree traversal needs. The inline name is deliberately left out: a record
// whose declared name length overruns its cell must still be walkable, so name
// access is a separate bounds-checked step (NKName).
type NKRecord struct {
	Flags        uint16
	LastWriteRaw int64 // FILETIME; negative values are rejected by callers
	Parent       uint32
	SubkeyCount  uint32
	SubkeyList   uint32
	NameLength   uint16
}

// DecodeNK decodes the fixed NK header from a cell payload.
func DecodeNK(payload []byte) (NKRecord, error) {
	if len(payload) < NKFixedHeaderSize {
		return NKRecord{}, fmt.Errorf("nk: %w", ErrTruncated)
	}
	if payload[0] != NKSignature[0] || payload[1] != NKSignature[1] {
		return NKRecord{}, fmt.Errorf("nk: %w", ErrSignatureMismatch)
	}
	return NKRecord{
		Flags:        buf.U16LE(payload[NKFlagsOffset:]),
		LastWriteRaw: buf.I64LE(payload[NKLastWriteOffset:]),
		Parent:       buf.U32LE(payload[NKParentOffset:]),
		SubkeyCount:  buf.U32LE(payload[NKSubkeyCountOffset:]),
		SubkeyList:   buf.U32LE(payload[NKSubkeyListOffset:]),
		NameLength:   buf.U16LE(payload[NKNameLenOffset:]),
	}, nil
}

// NameIsCompressed reports whether the inline name is stored as Windows-1252
// bytes rather than UTF-16LE.
func (nk NKRecord) NameIsCompressed() bool {
	return nk.Flags&NKFlagCompressedName != 0
}

// NKName returns the raw inline name bytes for a decoded NK record. It fails
// when the declared name length runs past the end of the cell payload.
func NKName(payload []byte, nk NKRecord) ([]byte, error) {
	end := NKNameOffset + int(nk.NameLength)
	if end > len(payload) {
		return nil, fmt.Errorf("nk: name length %d exceeds cell", nk.NameLength)
	}
	return payload[NKNameOffset:end], nil
}
