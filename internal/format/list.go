package format

import (
	"bytes"
	"fmt"

	"github.com/hivewalk/hivewalk/internal/buf"
)

// ListKind classifies a subkey list cell by its two-byte signature.
type ListKind uint8

const (
	// ListLeaf is an LF or LH leaf whose entries pair a subkey cell offset
	// with a four-byte name hint or hash.
	ListLeaf ListKind = iota + 1
	// ListIndex is an RI indirection record whose entries point at further
	// list cells rather than at subkeys.
	ListIndex
	// ListUnknown covers every other signature, including the legacy LI form.
	ListUnknown
)

// ListHeader is the decoded common header shared by all subkey list variants.
// Tag retains the raw signature bytes so unsupported lists can be reported
// precisely.
type ListHeader struct {
	Kind  ListKind
	Tag   [SignatureSize]byte
	Count int
}

// DecodeListHeader classifies a subkey list payload and reads its entry count.
// Unknown signatures do not fail here; they come back as ListUnknown so the
// caller can attach position information to its report.
func DecodeListHeader(payload []byte) (ListHeader, error) {
	if len(payload) < IdxListOffset {
		return ListHeader{}, fmt.Errorf("subkey list: %w", ErrTruncated)
	}
	h := ListHeader{
		Tag:   [SignatureSize]byte{payload[0], payload[1]},
		Count: int(buf.U16LE(payload[IdxCountOffset:])),
	}
	sig := payload[:SignatureSize]
	switch {
	case bytes.Equal(sig, LFSignature), bytes.Equal(sig, LHSignature):
		h.Kind = ListLeaf
	case bytes.Equal(sig, RISignature):
		h.Kind = ListIndex
	default:
		h.Kind = ListUnknown
	}
	return h, nil
}

// LeafEntryOffset returns the subkey cell offset of entry i within an LF/LH
// payload. The entry range must have been validated with buf.CheckListBounds.
func LeafEntryOffset(payload []byte, i int) uint32 {
	return buf.U32LE(payload[IdxListOffset+i*LFFHEntrySize:])
}

// IndexEntryOffset returns the list cell offset of entry i within an RI
// payload. The entry range must have been validated with buf.CheckListBounds.
func IndexEntryOffset(payload []byte, i int) uint32 {
	return buf.U32LE(payload[IdxListOffset+i*LIEntrySize:])
}
