package format

import (
	"encoding/binary"
	"testing"
)

func cellFixture() ([]byte, HBIN, int) {
	b := binImage(1)
	h := HBIN{FileOffset: HeaderSize, Size: HBINAlignment}
	return b, h, HeaderSize + HBINHeaderSize
}

func TestNextCellAllocated(t *testing.T) {
	b, h, cellOff := cellFixture()
	size := 0x30
	binary.LittleEndian.PutUint32(b[cellOff:], uint32(-size))
	b[cellOff+CellHeaderSize] = 'n'
	b[cellOff+CellHeaderSize+1] = 'k'

	cell, next, err := NextCell(b, h, cellOff)
	if err != nil {
		t.Fatalf("NextCell: %v", err)
	}
	if cell.Free {
		t.Fatalf("expected allocated cell")
	}
	if cell.Size != size || cell.Tag != [2]byte{'n', 'k'} {
		t.Fatalf("unexpected cell: %+v", cell)
	}
	if len(cell.Data) != size-CellHeaderSize {
		t.Fatalf("payload length mismatch: %d", len(cell.Data))
	}
	if next != cellOff+size {
		t.Fatalf("next offset mismatch: %d", next)
	}
}

func TestNextCellFree(t *testing.T) {
	b, h, cellOff := cellFixture()
	binary.LittleEndian.PutUint32(b[cellOff:], 0x20)

	cell, _, err := NextCell(b, h, cellOff)
	if err != nil {
		t.Fatalf("NextCell: %v", err)
	}
	if !cell.Free {
		t.Fatalf("expected free cell")
	}
}

func TestNextCellSizeTooSmall(t *testing.T) {
	for _, raw := range []int32{0, 4, -4} {
		b, h, cellOff := cellFixture()
		binary.LittleEndian.PutUint32(b[cellOff:], uint32(raw))
		if _, _, err := NextCell(b, h, cellOff); err == nil {
			t.Fatalf("raw size %d: expected error", raw)
		}
	}
}

func TestNextCellMisaligned(t *testing.T) {
	b, h, cellOff := cellFixture()
	raw := int32(-(0x30 + 2))
	binary.LittleEndian.PutUint32(b[cellOff:], uint32(raw))
	if _, _, err := NextCell(b, h, cellOff); err == nil {
		t.Fatalf("expected alignment error")
	}
}

func TestNextCellOverrunsBin(t *testing.T) {
	b, h, cellOff := cellFixture()
	raw := int32(-(HBINAlignment))
	binary.LittleEndian.PutUint32(b[cellOff:], uint32(raw))
	if _, _, err := NextCell(b, h, cellOff); err == nil {
		t.Fatalf("expected overrun error")
	}
}

func TestNextCellOutsideBin(t *testing.T) {
	b, h, _ := cellFixture()
	if _, _, err := NextCell(b, h, HeaderSize); err == nil {
		t.Fatalf("expected error for offset inside hbin header")
	}
}

func TestCellSize(t *testing.T) {
	b, _, cellOff := cellFixture()
	raw := int32(-0x50)
	binary.LittleEndian.PutUint32(b[cellOff:], uint32(raw))
	size, allocated, err := CellSize(b, cellOff)
	if err != nil {
		t.Fatalf("CellSize: %v", err)
	}
	if size != 0x50 || !allocated {
		t.Fatalf("unexpected result: size=%d allocated=%v", size, allocated)
	}

	binary.LittleEndian.PutUint32(b[cellOff:], 0x50)
	size, allocated, err = CellSize(b, cellOff)
	if err != nil {
		t.Fatalf("CellSize free: %v", err)
	}
	if size != 0x50 || allocated {
		t.Fatalf("unexpected free result: size=%d allocated=%v", size, allocated)
	}

	if _, _, err := CellSize(b, len(b)-2); err == nil {
		t.Fatalf("expected bounds error")
	}
}
