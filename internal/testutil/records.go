package testutil

import (
	"encoding/binary"
	"unicode/utf16"
)

const (
	// CompName marks a key name stored as Windows-1252 bytes.
	CompName = 0x20

	// Invalid fills pointer fields traversal must never follow.
	Invalid = 0xFFFFFFFF

	// SampleStamp is 2020-01-01T00:00:00Z in FILETIME ticks.
	SampleStamp = 132223104000000000
)

// NKSpec describes one key record for WriteNK. Pointer fields are in
// stored-pointer form; NameLen overrides len(Name) when nonzero.
type NKSpec struct {
	Flags   uint16
	Stamp   int64
	Parent  uint32
	Count   uint32 // declared subkey count
	List    uint32 // subkey list cell
	Name    []byte
	NameLen int
}

// WriteNK fills an nk record into a cell payload.
func WriteNK(body []byte, k NKSpec) {
	copy(body, "nk")
	binary.LittleEndian.PutUint16(body[0x02:], k.Flags)
	binary.LittleEndian.PutUint64(body[0x04:], uint64(k.Stamp))
	binary.LittleEndian.PutUint32(body[0x10:], k.Parent)
	binary.LittleEndian.PutUint32(body[0x14:], k.Count)
	binary.LittleEndian.PutUint32(body[0x1C:], k.List)
	binary.LittleEndian.PutUint32(body[0x20:], Invalid) // volatile subkey list
	binary.LittleEndian.PutUint32(body[0x28:], Invalid) // value list
	binary.LittleEndian.PutUint32(body[0x2C:], Invalid) // security record
	binary.LittleEndian.PutUint32(body[0x30:], Invalid) // class name
	n := k.NameLen
	if n == 0 {
		n = len(k.Name)
	}
	binary.LittleEndian.PutUint16(body[0x48:], uint16(n))
	copy(body[0x4C:], k.Name)
}

// ASCIIKey is the NKSpec shared by most fixtures: a leaf key with a
// compressed name, stamped with SampleStamp.
func ASCIIKey(name string, parent uint32) NKSpec {
	return NKSpec{Flags: CompName, Stamp: SampleStamp, Parent: parent, Name: []byte(name)}
}

// WriteLeaf fills an lf or lh record. The hash half of each entry stays
// zero; enumeration never reads it.
func WriteLeaf(body []byte, sig string, entries []uint32) {
	copy(body, sig)
	binary.LittleEndian.PutUint16(body[0x02:], uint16(len(entries)))
	for i, off := range entries {
		binary.LittleEndian.PutUint32(body[0x04+i*8:], off)
	}
}

// WriteIndex fills an ri record pointing at further list cells.
func WriteIndex(body []byte, entries []uint32) {
	copy(body, "ri")
	binary.LittleEndian.PutUint16(body[0x02:], uint16(len(entries)))
	for i, off := range entries {
		binary.LittleEndian.PutUint32(body[0x04+i*4:], off)
	}
}

// UTF16LE renders s as the UTF-16LE bytes an uncompressed key name stores.
func UTF16LE(s string) []byte {
	u := utf16.Encode([]rune(s))
	out := make([]byte, len(u)*2)
	for i, v := range u {
		binary.LittleEndian.PutUint16(out[i*2:], v)
	}
	return out
}

// PokeU32 overwrites a little-endian field of the cell at off, addr bytes
// past the cell header.
func PokeU32(data []byte, off uint32, addr int, v uint32) {
	binary.LittleEndian.PutUint32(data[int(off)+DataBase+4+addr:], v)
}

// PokeU16 is PokeU32 for two-byte fields.
func PokeU16(data []byte, off uint32, addr int, v uint16) {
	binary.LittleEndian.PutUint16(data[int(off)+DataBase+4+addr:], v)
}
