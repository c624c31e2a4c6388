package store

import (
	"github.com/hivewalk/hivewalk/internal/format"
)

const bitsPerUint64 = 64

// bitmap records which image offsets begin an allocated cell, one bit per
// four bytes of image. It replaces map[uint32]bool with a flat bit array so
// validity checks during traversal stay O(1) without per-lookup allocations.
type bitmap struct {
	bits []uint64
	size uint32 // image size in bytes
}

// newBitmap creates a bitmap covering an image of the given size.
func newBitmap(imageSize uint32) *bitmap {
	// One bit per CellAlignment bytes: cell starts are four-byte aligned.
	numBits := (imageSize + format.CellAlignment - 1) / format.CellAlignment
	numWords := (numBits + bitsPerUint64 - 1) / bitsPerUint64
	return &bitmap{
		bits: make([]uint64, numWords),
		size: imageSize,
	}
}

// set marks offset as the start of an allocated cell. Out-of-range offsets
// are ignored rather than panicking on malformed input.
func (b *bitmap) set(offset uint32) {
	bitIdx := offset / format.CellAlignment
	wordIdx := bitIdx / bitsPerUint64
	bitPos := bitIdx % bitsPerUint64
	if int(wordIdx) >= len(b.bits) {
		return
	}
	b.bits[wordIdx] |= 1 << bitPos
}

// isSet reports whether offset was marked as an allocated cell start.
func (b *bitmap) isSet(offset uint32) bool {
	bitIdx := offset / format.CellAlignment
	wordIdx := bitIdx / bitsPerUint64
	bitPos := bitIdx % bitsPerUint64
	if int(wordIdx) >= len(b.bits) {
		return false
	}
	return (b.bits[wordIdx] & (1 << bitPos)) != 0
}
