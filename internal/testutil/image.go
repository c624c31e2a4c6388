// Package testutil builds synthetic hive images for tests across the
// repository. The builder produces byte-exact files: a REGF header plus hive
// bins tiled with cells end to end, which is the only geometry the open-time
// scan accepts.
package testutil

import "encoding/binary"

const (
	// HeaderSize is the REGF header block size.
	HeaderSize = 4096
	// BinSize is the size of every fixture bin (one page).
	BinSize = 4096
	// BinHeader is the per-bin header size.
	BinHeader = 0x20
	// DataBase is the file offset stored cell pointers are relative to.
	DataBase = 0x1000
)

// Image accumulates a synthetic hive. Cells are carved in call order and
// spill into the next bin when the current one fills; offsets come back in
// stored-pointer form (relative to DataBase).
type Image struct {
	buf  []byte
	next int // file offset of the first unused byte in the current bin
	end  int // file offset one past the current bin
}

// NewImage starts an image with the given number of bins. The header is
// stamped with sequence numbers 1/1, format version 1.5, and SampleStamp.
func NewImage(bins int) *Image {
	buf := make([]byte, HeaderSize+bins*BinSize)
	copy(buf, "regf")
	binary.LittleEndian.PutUint32(buf[0x04:], 1) // primary sequence
	binary.LittleEndian.PutUint32(buf[0x08:], 1) // secondary sequence
	binary.LittleEndian.PutUint64(buf[0x0C:], uint64(SampleStamp))
	binary.LittleEndian.PutUint32(buf[0x14:], 1) // major version
	binary.LittleEndian.PutUint32(buf[0x18:], 5) // minor version
	binary.LittleEndian.PutUint32(buf[0x28:], uint32(bins*BinSize))
	for i := 0; i < bins; i++ {
		off := HeaderSize + i*BinSize
		copy(buf[off:], "hbin")
		binary.LittleEndian.PutUint32(buf[off+0x04:], uint32(off-DataBase))
		binary.LittleEndian.PutUint32(buf[off+0x08:], BinSize)
	}
	return &Image{buf: buf, next: HeaderSize + BinHeader, end: HeaderSize + BinSize}
}

// Cell carves the next allocated cell, returning its payload slice and its
// offset in stored-pointer form. size includes the four-byte cell header.
func (im *Image) Cell(size int) ([]byte, uint32) {
	if size <= 4 || size%4 != 0 {
		panic("fixture cell size must be a positive multiple of four")
	}
	if im.next+size > im.end {
		im.nextBin()
		if im.next+size > im.end {
			panic("fixture cell larger than a bin")
		}
	}
	if im.end-(im.next+size) == 4 {
		size += 4 // a four-byte tail could not hold the closing free cell
	}
	off := im.next
	binary.LittleEndian.PutUint32(im.buf[off:], uint32(-int32(size)))
	im.next = off + size
	return im.buf[off+4 : off+size], uint32(off - DataBase)
}

// NKCell carves a cell sized for a key record with nameLen bytes of name.
func (im *Image) NKCell(nameLen int) ([]byte, uint32) {
	return im.Cell(align4(4 + 0x4C + nameLen))
}

// LeafCell carves a cell sized for an lf/lh record with n entries.
func (im *Image) LeafCell(n int) ([]byte, uint32) {
	return im.Cell(4 + 4 + 8*n)
}

// IndexCell carves a cell sized for an ri record with n entries.
func (im *Image) IndexCell(n int) ([]byte, uint32) {
	return im.Cell(4 + 4 + 4*n)
}

// sealRest closes the unused tail of the current bin as one free cell.
func (im *Image) sealRest() {
	if rest := im.end - im.next; rest > 0 {
		binary.LittleEndian.PutUint32(im.buf[im.next:], uint32(rest))
	}
	im.next = im.end
}

func (im *Image) nextBin() {
	if im.end+BinSize > len(im.buf) {
		panic("fixture ran out of bins")
	}
	im.sealRest()
	im.next = im.end + BinHeader
	im.end += BinSize
}

// Finish stores the root pointer, seals every remaining bin, and returns
// the completed image.
func (im *Image) Finish(root uint32) []byte {
	binary.LittleEndian.PutUint32(im.buf[0x24:], root)
	im.sealRest()
	for im.end < len(im.buf) {
		im.next = im.end + BinHeader
		im.end += BinSize
		im.sealRest()
	}
	return im.buf
}

func align4(n int) int { return (n + 3) &^ 3 }
