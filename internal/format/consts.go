// Package format houses low-level decoders for the Windows Registry hive file
// format. The goal is to keep the parsing focused, allocation-free where
// possible, and independent from the public API so higher-level packages can
// orchestrate traversal in a more ergonomic form.
package format

var (
	// REGFSignature is the four-byte signature at the start of every hive file.
	// Layout (little-endian):
	//   0x00  'r' 'e' 'g' 'f'
	REGFSignature = []byte{'r', 'e', 'g', 'f'}

	// HBINSignature is the four-byte signature at the beginning of each hive bin.
	// Layout:
	//   0x00  'h' 'b' 'i' 'n'
	HBINSignature = []byte{'h', 'b', 'i', 'n'}

	// NKSignature identifies an NK (Node Key) cell payload.
	NKSignature = []byte{'n', 'k'}

	// LFSignature and LHSignature identify the hashed subkey leaf variants.
	// LF stores the first four name bytes as a hint, LH a hash of the name.
	LFSignature = []byte{'l', 'f'}
	LHSignature = []byte{'l', 'h'}

	// LISignature identifies the legacy linear subkey list without hashes.
	// Traversal reports it as unsupported rather than guessing its layout.
	LISignature = []byte{'l', 'i'}

	// RISignature identifies an RI (indirect) subkey list record used when
	// a key has many subkeys. RI lists contain offsets to further LF/LH lists.
	RISignature = []byte{'r', 'i'}
)

const (
	// HeaderSize is the size of the REGF header in bytes. In all observed hive
	// variants this is 4096 bytes (the size of a single memory page).
	HeaderSize = 4096

	// HBINHeaderSize is the size of the HBIN header in bytes.
	HBINHeaderSize = 0x20

	// CellHeaderSize is the number of bytes used by the cell header preceding
	// every allocation (free or in-use) within an HBIN.
	CellHeaderSize = 4

	// HiveDataBase is the file offset where hive bin data begins (first HBIN).
	// All cell offsets stored inside the hive are relative to this base.
	HiveDataBase = 0x1000

	// HBINAlignment is the required alignment of hive bins. On-disk structures
	// grow in 4 KiB increments.
	HBINAlignment = 0x1000

	// CellAlignment is the granularity of cell sizes. Windows allocates cells
	// in eights, but any multiple of four tiles a bin correctly.
	CellAlignment = 4

	// HBIN field offsets within the header structure.
	HBINSignatureOffset  = 0x00 // 4 bytes
	HBINSignatureSize    = 4
	HBINOffsetEchoOffset = 0x04 // bin's own offset relative to HiveDataBase
	HBINSizeOffset       = 0x08 // bin size, multiple of HBINAlignment

	// InvalidOffset is a placeholder value used for unused/invalid offset fields.
	InvalidOffset = 0xFFFFFFFF

	// SignatureSize is the standard size for cell record signatures (NK, LF, ...).
	SignatureSize = 2
)

// REGF header field offsets (little-endian).
const (
	REGFSignatureOffset    = 0x000 // 4
	REGFSignatureSize      = 4
	REGFPrimarySeqOffset   = 0x004 // Sequence1 (uint32)
	REGFSecondarySeqOffset = 0x008 // Sequence2 (uint32)
	REGFTimeStampOffset    = 0x00C // _LARGE_INTEGER (int64 LE, Windows FILETIME)
	REGFMajorVersionOffset = 0x014 // uint32
	REGFMinorVersionOffset = 0x018 // uint32
	REGFRootCellOffset     = 0x024 // uint32 (cell offset rel to HiveDataBase)
	REGFDataSizeOffset     = 0x028 // uint32 (sum of HBIN sizes)
)

// NK field offsets within the record structure (payload start == "nk").
const (
	NKSignatureOffset      = 0x00 // USHORT, "nk"
	NKFlagsOffset          = 0x02 // USHORT
	NKLastWriteOffset      = 0x04 // LARGE_INTEGER / FILETIME (8 bytes)
	NKAccessBitsOffset     = 0x0C // ULONG, spare on older hives
	NKParentOffset         = 0x10 // ULONG cell offset of parent NK
	NKSubkeyCountOffset    = 0x14 // ULONG stable subkey count
	NKVolSubkeyCountOffset = 0x18 // ULONG volatile subkey count
	NKSubkeyListOffset     = 0x1C // ULONG cell offset of stable subkey list
	NKVolSubkeyListOffset  = 0x20 // ULONG cell offset of volatile subkey list
	NKValueCountOffset     = 0x24 // ULONG value count
	NKValueListOffset      = 0x28 // ULONG cell offset of value list
	NKSecurityOffset       = 0x2C // ULONG cell offset of SK record
	NKClassNameOffset      = 0x30 // ULONG cell offset of class data
	NKMaxNameLenOffset     = 0x34 // ULONG
	NKMaxClassLenOffset    = 0x38 // ULONG
	NKMaxValueNameOffset   = 0x3C // ULONG
	NKMaxValueDataOffset   = 0x40 // ULONG
	NKWorkVarOffset        = 0x44 // ULONG
	NKNameLenOffset        = 0x48 // USHORT name length (bytes!)
	NKClassLenOffset       = 0x4A // USHORT class length (bytes)
	NKNameOffset           = 0x4C // start of inline name
)

// flags.
const (
	// NKFlagCompressedName marks names stored as Windows-1252 bytes rather
	// than UTF-16LE (KEY_COMP_NAME).
	NKFlagCompressedName = 0x20
)

// NKFixedHeaderSize is the byte count of the fixed NK header preceding the
// inline name.
const NKFixedHeaderSize = NKNameOffset // 0x4C

// Common header layout shared by all subkey list cells.
const (
	IdxSignatureOffset = 0x00 // 2 bytes
	IdxCountOffset     = 0x02 // 2 bytes
	IdxListOffset      = 0x04 // start of variable-length entry array
)

// Element sizes.
const (
	// LIEntrySize is one uint32 cell offset. LI and RI entries share this shape.
	LIEntrySize = 4
	// LFFHEntrySize is a uint32 cell offset followed by a four-byte name hint
	// or hash, for LF/LH leaves.
	LFFHEntrySize = 8
)
