package format

import (
	"bytes"
	"fmt"

	"github.com/hivewalk/hivewalk/internal/buf"
)

// HBIN describes a hive bin. Each HBIN begins with a 0x20-byte header with the
// following structure (little-endian):
//
//	Offset  Size  Field
//	0x00    4     'h' 'b' 'i' 'n'
//	0x04    4     Offset of this HBIN relative to the start of hive bin data
//	0x08    4     Size of HBIN, multiple of 0x1000
//	0x0C    ...   Reserved / timestamps, not needed for traversal
//
// We only retain the fields necessary to iterate over cells safely. FileOffset
// is the bin's absolute position within the image, not the relative echo field.
type HBIN struct {
	FileOffset uint32
	Size       uint32
}

// NextHBIN validates the HBIN header located at off within b and returns the
// header along with the offset of the subsequent HBIN. The offset echo at 0x04
// must match the bin's actual position; a stale echo means the bin was copied
// or spliced from elsewhere and none of its cell offsets can be trusted.
func NextHBIN(b []byte, off int) (HBIN, int, error) {
	if off < HiveDataBase || off+HBINHeaderSize > len(b) {
		return HBIN{}, 0, fmt.Errorf("hbin: %w", ErrTruncated)
	}
	head := b[off : off+HBINHeaderSize]
	if !bytes.Equal(head[:HBINSignatureSize], HBINSignature) {
		return HBIN{}, 0, fmt.Errorf("hbin: %w", ErrSignatureMismatch)
	}
	echo := buf.U32LE(head[HBINOffsetEchoOffset:])
	if int64(echo) != int64(off-HiveDataBase) {
		return HBIN{}, 0, fmt.Errorf("hbin: offset field %#x does not match position %#x", echo, off-HiveDataBase)
	}
	size := buf.U32LE(head[HBINSizeOffset:])
	if size == 0 || size%HBINAlignment != 0 {
		return HBIN{}, 0, fmt.Errorf("hbin: invalid size %d", size)
	}
	next := off + int(size)
	if next > len(b) {
		return HBIN{}, 0, fmt.Errorf("hbin: %w", ErrTruncated)
	}
	return HBIN{FileOffset: uint32(off), Size: size}, next, nil
}
