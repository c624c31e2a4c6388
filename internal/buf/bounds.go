// Package buf provides bounds-checked arithmetic and little-endian reads for
// decoding structures out of an untrusted byte image.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe returns a+b with ok=false when either operand is negative
// or the sum overflows int. Offsets and sizes taken from a hive image are
// never legitimately negative, so negative inputs are rejected rather than
// computed.
func AddOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// MulOverflowSafe returns a*b under the same non-negative contract as
// AddOverflowSafe. Needed for count*elementSize calculations in list parsing.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a != 0 && b > math.MaxInt/a {
		return 0, false
	}
	return a * b, true
}

// CheckListBounds validates that count elements of elementSize bytes fit in a
// buffer of bufLen bytes starting at offset, returning the exclusive end
// offset on success:
//
//	end, err := buf.CheckListBounds(len(data), off, int(count), entrySize)
//	if err != nil {
//	    return fmt.Errorf("subkey list: %w", err)
//	}
//	// safe to iterate data[off:end]
func CheckListBounds(bufLen, offset, count, elementSize int) (int, error) {
	total, ok := MulOverflowSafe(count, elementSize)
	if !ok {
		return 0, fmt.Errorf("list size overflow: count=%d elem=%d", count, elementSize)
	}
	end, ok := AddOverflowSafe(offset, total)
	if !ok {
		return 0, fmt.Errorf("list end overflow: offset=%d size=%d", offset, total)
	}
	if end > bufLen {
		return 0, fmt.Errorf("list out of bounds: end=%d len=%d", end, bufLen)
	}
	return end, nil
}

// Slice returns b[off:off+n] when the range lies fully inside b.
func Slice(b []byte, off, n int) ([]byte, bool) {
	end, ok := AddOverflowSafe(off, n)
	if !ok || off > len(b) || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}
