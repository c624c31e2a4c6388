// Package hive provides read-only traversal of Windows Registry hive files.
//
// # Overview
//
// This package opens a hive image (REGF format) and exposes its key tree:
// resolving the root key, walking subkey index structures, and decoding
// per-key metadata. Every on-disk field is bounds-checked against the block
// that holds it before use, so corrupt or hostile images produce typed
// errors instead of crashes or runaway traversals.
//
// # File Structure
//
// A registry hive file consists of:
//
//	[REGF Header - 4KB] [HBIN 0] [HBIN 1] ... [HBIN N]
//
// Each HBIN contains cells that store key records ("nk") and the index
// structures that link them ("lf"/"lh" leaves, "ri" indirections). Cell
// pointers stored in the hive are relative to the HBIN area start (0x1000);
// the handles this package returns are absolute image offsets.
//
// # Opening a Hive
//
//	h, err := hive.Open("/path/to/SYSTEM")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
// On Unix the file is memory-mapped; elsewhere it is read into memory. The
// whole page and cell geometry is validated once at open time.
//
// # Traversing Keys
//
//	root, err := h.Root()
//	children, err := h.NodeChildren(root)
//	name, err := h.NodeNameDecoded(children[0])
//
// # Thread Safety
//
// A Hive never mutates its image, so any number of goroutines may traverse
// the same Hive concurrently. Close must not race in-flight calls.
package hive
