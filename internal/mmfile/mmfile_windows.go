//go:build windows

package mmfile

import (
	"os"
)

// Map reads the file at path into memory. Hives are small enough that a plain
// read keeps the Windows path simple.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}
