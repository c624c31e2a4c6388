package format

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// DecodeKeyName converts raw inline NK name bytes into UTF-8 according to the
// record flags: Windows-1252 when the compressed-name flag is set, UTF-16LE
// otherwise.
func DecodeKeyName(nk NKRecord, name []byte) (string, error) {
	if len(name) == 0 {
		return "", nil
	}
	if nk.NameIsCompressed() {
		// Fast path: ASCII bytes mean the same thing in Windows-1252 and UTF-8.
		if isASCII(name) {
			return string(name), nil
		}
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(name)
		if err != nil {
			return "", fmt.Errorf("decode Windows-1252 name: %w", err)
		}
		return string(decoded), nil
	}
	if len(name)%2 != 0 {
		return "", errors.New("nk name has odd length")
	}
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(name)
	if err != nil {
		return "", fmt.Errorf("decode UTF-16LE name: %w", err)
	}
	return string(decoded), nil
}

// isASCII reports whether every byte in data is below 0x80.
func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
