// Package store realizes the hive image oracle: it maps a registry hive,
// validates the page and cell geometry once at open time, and afterwards
// answers block validity, length, signature, and payload questions for the
// traversal layers without re-scanning.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/hivewalk/hivewalk/internal/format"
	"github.com/hivewalk/hivewalk/internal/mmfile"
	"github.com/hivewalk/hivewalk/pkg/types"
)

// Store is a read-only view over a mapped hive image plus the allocation
// index built by the open-time scan. All query methods are safe for
// concurrent use once New returns, because nothing mutates the image or the
// index afterwards. Close must not race in-flight queries.
type Store struct {
	data   []byte
	head   format.Header
	alloc  *bitmap
	unmap  func() error
	closed bool
}

// Open maps the hive file at path and scans it.
func Open(path string) (*Store, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, &types.Error{Kind: types.ErrKindIO, Msg: "open hive: " + err.Error(), Err: err}
	}
	s, err := New(data)
	if err != nil {
		if unmap != nil {
			_ = unmap()
		}
		return nil, err
	}
	s.unmap = unmap
	return s, nil
}

// New adopts an in-memory hive image and scans it. The buffer must stay
// immutable for the lifetime of the store.
func New(data []byte) (*Store, error) {
	head, err := format.ParseHeader(data)
	if err != nil {
		if errors.Is(err, format.ErrSignatureMismatch) {
			return nil, types.ErrNotHive
		}
		return nil, &types.Error{Kind: types.ErrKindFormat, Msg: "hive truncated", Err: err}
	}
	if head.MajorVersion != 1 {
		return nil, &types.Error{
			Kind: types.ErrKindFormat,
			Msg:  fmt.Sprintf("unsupported hive major version %d", head.MajorVersion),
		}
	}
	if len(data) < format.HeaderSize+format.HBINAlignment {
		return nil, &types.Error{Kind: types.ErrKindFormat, Msg: "hive file too small"}
	}
	if int64(len(data)) > math.MaxUint32 {
		return nil, &types.Error{Kind: types.ErrKindFormat, Msg: "hive image exceeds 32-bit offset range"}
	}
	s := &Store{
		data:  data,
		head:  head,
		alloc: newBitmap(uint32(len(data))),
	}
	if err := s.scan(); err != nil {
		return nil, err
	}
	return s, nil
}

// scan walks every hive bin in the region the header declares and records
// each allocated cell start. An image whose pages or cells do not tile the
// region exactly is rejected wholesale: a single broken size field poisons
// every offset derived after it.
func (s *Store) scan() error {
	if s.head.HiveBinsDataSize%format.HBINAlignment != 0 {
		return &types.Error{
			Kind: types.ErrKindFormat,
			Msg:  fmt.Sprintf("hive bins data size %#x not page aligned", s.head.HiveBinsDataSize),
		}
	}
	dataEnd := format.HeaderSize + int(s.head.HiveBinsDataSize)
	if dataEnd > len(s.data) {
		return &types.Error{
			Kind: types.ErrKindFormat,
			Msg: fmt.Sprintf("header declares %d bytes of bin data but image holds %d",
				s.head.HiveBinsDataSize, len(s.data)-format.HeaderSize),
		}
	}
	img := s.data[:dataEnd]
	for off := format.HeaderSize; off < dataEnd; {
		hbin, next, err := format.NextHBIN(img, off)
		if err != nil {
			return &types.Error{Kind: types.ErrKindFormat, Offset: uint32(off), Msg: "hive bin scan failed", Err: err}
		}
		if err := s.scanCells(img, hbin); err != nil {
			return err
		}
		off = next
	}
	return nil
}

func (s *Store) scanCells(img []byte, h format.HBIN) error {
	end := int(h.FileOffset) + int(h.Size)
	for off := int(h.FileOffset) + format.HBINHeaderSize; off < end; {
		cell, next, err := format.NextCell(img, h, off)
		if err != nil {
			return &types.Error{Kind: types.ErrKindFormat, Offset: uint32(off), Msg: "cell scan failed", Err: err}
		}
		if !cell.Free {
			s.alloc.set(uint32(off))
		}
		off = next
	}
	return nil
}

// Close releases the mapping. It is idempotent; queries after Close report
// invalid blocks rather than crashing.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.data = nil
	if s.unmap != nil {
		return s.unmap()
	}
	return nil
}

// IsValidBlock reports whether off names the start of an allocated cell: the
// offset is four-byte aligned, beyond the file header, inside the image, and
// was marked during the open-time scan.
func (s *Store) IsValidBlock(off uint32) bool {
	return off%format.CellAlignment == 0 &&
		off >= format.HiveDataBase &&
		int64(off) < int64(len(s.data)) &&
		s.alloc.isSet(off)
}

// SignatureEquals reports whether the allocated cell at off carries the
// two-byte record tag.
func (s *Store) SignatureEquals(off uint32, tag []byte) bool {
	if !s.IsValidBlock(off) {
		return false
	}
	p := int(off) + format.CellHeaderSize
	if p+format.SignatureSize > len(s.data) {
		return false
	}
	return bytes.Equal(s.data[p:p+format.SignatureSize], tag)
}

// BlockLen returns the declared total size of the cell at off and whether it
// is allocated. Unknown offsets return (0, false).
func (s *Store) BlockLen(off uint32) (int, bool) {
	if !s.IsValidBlock(off) {
		return 0, false
	}
	size, allocated, err := format.CellSize(s.data, int(off))
	if err != nil {
		return 0, false
	}
	return size, allocated
}

// Payload returns the data bytes of the allocated cell at off, or nil when
// off is not a valid block. The scan pinned every marked cell inside its
// bin, so only the image bound needs rechecking here.
func (s *Store) Payload(off uint32) []byte {
	if !s.IsValidBlock(off) {
		return nil
	}
	size, _, err := format.CellSize(s.data, int(off))
	if err != nil {
		return nil
	}
	start := int(off) + format.CellHeaderSize
	end := int(off) + size
	if end > len(s.data) || start >= end {
		return nil
	}
	return s.data[start:end]
}

// RootOffset returns the absolute offset of the root cell recorded in the
// header. Whether that offset is a valid block is the caller's question to
// ask IsValidBlock.
func (s *Store) RootOffset() uint32 {
	return s.head.RootCellOffset + format.HiveDataBase
}

// LastModified returns the hive-wide last-write stamp in raw FILETIME ticks.
func (s *Store) LastModified() int64 {
	return s.head.LastWriteRaw
}

// Size returns the image length in bytes.
func (s *Store) Size() int { return len(s.data) }

// Info snapshots the header metadata.
func (s *Store) Info() types.HiveInfo {
	return types.HiveInfo{
		PrimarySequence:   s.head.PrimarySequence,
		SecondarySequence: s.head.SecondarySequence,
		LastModified:      s.head.LastWriteRaw,
		LastModifiedTime:  format.FiletimeToTime(s.head.LastWriteRaw),
		MajorVersion:      s.head.MajorVersion,
		MinorVersion:      s.head.MinorVersion,
		RootCellOffset:    s.RootOffset(),
		HiveBinsDataSize:  s.head.HiveBinsDataSize,
		Length:            len(s.data),
	}
}
