package hive

import (
	"fmt"

	"github.com/hivewalk/hivewalk/internal/format"
	"github.com/hivewalk/hivewalk/pkg/types"
)

// nkAt fetches and decodes the key record at n, enforcing the live-"nk"
// handle contract shared by every node operation.
func (h *Hive) nkAt(n types.NodeID) (format.NKRecord, []byte, error) {
	off := uint32(n)
	if !h.st.IsValidBlock(off) || !h.st.SignatureEquals(off, format.NKSignature) {
		return format.NKRecord{}, nil, invalidNode(n)
	}
	payload := h.st.Payload(off)
	nk, err := format.DecodeNK(payload)
	if err != nil {
		// Tagged "nk" but the fixed record header does not fit the cell.
		return format.NKRecord{}, nil, &types.Error{
			Kind:   types.ErrKindStructuralFault,
			Offset: off,
			Msg:    fmt.Sprintf("key record at %s too short for its cell", n),
			Err:    err,
		}
	}
	return nk, payload, nil
}

func invalidNode(n types.NodeID) error {
	return &types.Error{
		Kind:   types.ErrKindInvalidArgument,
		Offset: uint32(n),
		Msg:    fmt.Sprintf("invalid block or not an 'nk' block at %s", n),
	}
}

func structuralFault(n types.NodeID, err error) error {
	return &types.Error{
		Kind:   types.ErrKindStructuralFault,
		Offset: uint32(n),
		Msg:    fmt.Sprintf("structural fault at %s", n),
		Err:    err,
	}
}

// NodeName returns the key's name as a fresh copy of the raw stored bytes,
// without charset decoding. Compressed names come back byte-for-byte as
// Windows-1252, others as UTF-16LE; use NodeNameDecoded for display.
func (h *Hive) NodeName(n types.NodeID) (string, error) {
	nk, payload, err := h.nkAt(n)
	if err != nil {
		return "", err
	}
	name, err := format.NKName(payload, nk)
	if err != nil {
		return "", structuralFault(n, err)
	}
	return string(name), nil
}

// NodeNameDecoded returns the key's name decoded per the record flags:
// Windows-1252 when the compressed-name flag is set, UTF-16LE otherwise.
func (h *Hive) NodeNameDecoded(n types.NodeID) (string, error) {
	nk, payload, err := h.nkAt(n)
	if err != nil {
		return "", err
	}
	raw, err := format.NKName(payload, nk)
	if err != nil {
		return "", structuralFault(n, err)
	}
	decoded, err := format.DecodeKeyName(nk, raw)
	if err != nil {
		return "", structuralFault(n, err)
	}
	return decoded, nil
}

// NodeStructLength returns the on-disk byte length of the key record: cell
// header, fixed record header, and inline name.
func (h *Hive) NodeStructLength(n types.NodeID) (int, error) {
	nk, payload, err := h.nkAt(n)
	if err != nil {
		return 0, err
	}
	if _, err := format.NKName(payload, nk); err != nil {
		return 0, structuralFault(n, err)
	}
	return format.CellHeaderSize + format.NKFixedHeaderSize + int(nk.NameLength), nil
}

// NodeTimestamp returns the key's last-write stamp in FILETIME ticks. Zero
// is a legal stamp (never written); negative values are a fault.
func (h *Hive) NodeTimestamp(n types.NodeID) (int64, error) {
	nk, _, err := h.nkAt(n)
	if err != nil {
		return 0, err
	}
	return timestampCheck(n, nk.LastWriteRaw)
}

// NodeParent returns the handle of n's parent key. The stored parent offset
// must reference an allocated cell; like the root lookup, its record type is
// not re-checked. Asking for the root's parent returns whatever the record
// stores, which in healthy hives is not a valid block.
func (h *Hive) NodeParent(n types.NodeID) (types.NodeID, error) {
	nk, _, err := h.nkAt(n)
	if err != nil {
		return 0, err
	}
	parent := dataOffset(nk.Parent)
	if !h.st.IsValidBlock(parent) {
		return 0, &types.Error{
			Kind:   types.ErrKindStructuralFault,
			Offset: parent,
			Msg:    fmt.Sprintf("parent of %s is not a valid block (%#x)", n, parent),
		}
	}
	return types.NodeID(parent), nil
}
