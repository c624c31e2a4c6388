package format

import "testing"

func TestDecodeKeyNameCompressedASCII(t *testing.T) {
	nk := NKRecord{Flags: NKFlagCompressedName}
	got, err := DecodeKeyName(nk, []byte("ControlSet001"))
	if err != nil {
		t.Fatalf("DecodeKeyName: %v", err)
	}
	if got != "ControlSet001" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeKeyNameWindows1252(t *testing.T) {
	nk := NKRecord{Flags: NKFlagCompressedName}
	// 0xE9 is é in Windows-1252.
	got, err := DecodeKeyName(nk, []byte{'c', 'a', 'f', 0xE9})
	if err != nil {
		t.Fatalf("DecodeKeyName: %v", err)
	}
	if got != "café" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeKeyNameUTF16(t *testing.T) {
	// "Ωk" as UTF-16LE.
	raw := []byte{0xA9, 0x03, 'k', 0x00}
	got, err := DecodeKeyName(NKRecord{}, raw)
	if err != nil {
		t.Fatalf("DecodeKeyName: %v", err)
	}
	if got != "Ωk" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeKeyNameUTF16OddLength(t *testing.T) {
	if _, err := DecodeKeyName(NKRecord{}, []byte{0x41, 0x00, 0x42}); err == nil {
		t.Fatalf("expected error for odd-length UTF-16 name")
	}
}

func TestDecodeKeyNameEmpty(t *testing.T) {
	got, err := DecodeKeyName(NKRecord{}, nil)
	if err != nil || got != "" {
		t.Fatalf("got %q, %v", got, err)
	}
}
