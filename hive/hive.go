package hive

import (
	"fmt"

	"github.com/hivewalk/hivewalk/internal/format"
	"github.com/hivewalk/hivewalk/internal/store"
	"github.com/hivewalk/hivewalk/pkg/types"
)

// Hive is an opened registry hive, backed by mmap (unix) or a byte slice
// (others). All methods are safe for concurrent use; Close is not.
type Hive struct {
	st *store.Store
}

// Open maps the hive file at path and validates its structure.
func Open(path string) (*Hive, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return &Hive{st: st}, nil
}

// New adopts an in-memory hive image and validates its structure. The buffer
// must stay immutable for the lifetime of the Hive.
func New(data []byte) (*Hive, error) {
	st, err := store.New(data)
	if err != nil {
		return nil, err
	}
	return &Hive{st: st}, nil
}

// Close releases the underlying mapping. It is idempotent.
func (h *Hive) Close() error {
	return h.st.Close()
}

// Info snapshots the REGF header metadata.
func (h *Hive) Info() types.HiveInfo {
	return h.st.Info()
}

// Root returns the handle of the hive's root key. The stored root offset
// must reference an allocated cell; its record type is deliberately not
// checked here, so a hive whose root is tagged oddly still opens and fails
// on first use instead.
func (h *Hive) Root() (types.NodeID, error) {
	root := h.st.RootOffset()
	if !h.st.IsValidBlock(root) {
		return 0, &types.Error{
			Kind:   types.ErrKindNoRootKey,
			Offset: root,
			Msg:    fmt.Sprintf("root offset %#x is not a valid block", root),
		}
	}
	return types.NodeID(root), nil
}

// LastModified returns the hive-wide last-write stamp in FILETIME ticks.
func (h *Hive) LastModified() (int64, error) {
	return timestampCheck(0, h.st.LastModified())
}

// timestampCheck rejects negative FILETIME values; n identifies the record
// being read, with the zero handle standing in for the hive header.
func timestampCheck(n types.NodeID, ts int64) (int64, error) {
	if ts < 0 {
		return 0, &types.Error{
			Kind:   types.ErrKindInvalidTimestamp,
			Offset: uint32(n),
			Msg:    fmt.Sprintf("negative time reported at %s: %d", n, ts),
		}
	}
	return ts, nil
}

// dataOffset converts a stored cell pointer (relative to the HBIN area base)
// into an absolute image offset. A pointer large enough to wrap lands below
// the base and fails every validity check.
func dataOffset(rel uint32) uint32 {
	return rel + format.HiveDataBase
}
