package types

import (
	"fmt"
	"time"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	// ErrKindNone is the zero kind; returned errors always carry a real kind.
	ErrKindNone ErrKind = iota

	// ErrKindInvalidArgument indicates caller misuse: the handle does not
	// reference a key record, or an argument is otherwise unusable.
	ErrKindInvalidArgument

	// ErrKindStructuralFault indicates an on-disk field inconsistent with
	// block bounds or with declared counts (name too long, offset out of
	// range, subkey count mismatch).
	ErrKindStructuralFault

	// ErrKindUnsupportedStructure indicates an indirection block whose
	// signature this library does not understand.
	ErrKindUnsupportedStructure

	// ErrKindResourceLimit indicates a declared or discovered count exceeded
	// a fixed ceiling. This is the primary defense against maliciously
	// inflated hives causing unbounded memory growth.
	ErrKindResourceLimit

	// ErrKindNoRootKey indicates the stored root offset does not reference a
	// valid block.
	ErrKindNoRootKey

	// ErrKindInvalidTimestamp indicates a FILETIME field decoded to a
	// negative value.
	ErrKindInvalidTimestamp

	// ErrKindNotFound indicates a key path segment with no matching child.
	ErrKindNotFound

	// ErrKindFormat indicates malformed headers or signatures discovered
	// while opening an image (bad "regf", broken page chain).
	ErrKindFormat

	// ErrKindIO indicates an operating-system level failure (open, map,
	// close).
	ErrKindIO
)

// String returns the canonical name of the kind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindInvalidArgument:
		return "invalid argument"
	case ErrKindStructuralFault:
		return "structural fault"
	case ErrKindUnsupportedStructure:
		return "unsupported structure"
	case ErrKindResourceLimit:
		return "resource limit exceeded"
	case ErrKindNoRootKey:
		return "no root key"
	case ErrKindInvalidTimestamp:
		return "invalid timestamp"
	case ErrKindNotFound:
		return "not found"
	case ErrKindFormat:
		return "format error"
	case ErrKindIO:
		return "i/o error"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// Error is a typed error with a stable kind, the offending image offset when
// one is known, and an optional underlying cause.
type Error struct {
	Kind   ErrKind
	Offset uint32 // offending absolute image offset; 0 when not applicable
	Msg    string
	Err    error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind, so errors.Is(err, types.ErrStructuralFault) reports
// whether err belongs to that category regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels, one per kind, for errors.Is matching.
var (
	// ErrInvalidArgument indicates a handle that is not a live "nk" block.
	ErrInvalidArgument = &Error{Kind: ErrKindInvalidArgument, Msg: "invalid block or not an 'nk' block"}
	// ErrStructuralFault indicates non-recoverable on-disk inconsistency.
	ErrStructuralFault = &Error{Kind: ErrKindStructuralFault, Msg: "structural fault"}
	// ErrUnsupportedStructure indicates an unrecognized indirection block.
	ErrUnsupportedStructure = &Error{Kind: ErrKindUnsupportedStructure, Msg: "unsupported structure"}
	// ErrResourceLimit indicates a count beyond the fixed ceiling.
	ErrResourceLimit = &Error{Kind: ErrKindResourceLimit, Msg: "resource limit exceeded"}
	// ErrNoRootKey indicates a hive without a usable root key.
	ErrNoRootKey = &Error{Kind: ErrKindNoRootKey, Msg: "no root key"}
	// ErrInvalidTimestamp indicates a negative decoded FILETIME.
	ErrInvalidTimestamp = &Error{Kind: ErrKindInvalidTimestamp, Msg: "invalid timestamp"}
	// ErrNotFound indicates a key path that does not resolve.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "key path not found"}
	// ErrNotHive indicates the file lacks a valid "regf" header.
	ErrNotHive = &Error{Kind: ErrKindFormat, Msg: "not a registry hive (bad regf header)"}
)

// -----------------------------------------------------------------------------
// Core Identifiers & Metadata
// -----------------------------------------------------------------------------

// NodeID is a small, copyable handle referring to a key ("nk") record. It
// encodes the absolute byte offset of the record's cell in the hive image,
// so handles stay valid for the lifetime of the mapped buffer and traversals
// remain allocation-light. The zero NodeID is the null handle and never
// references a record.
type NodeID uint32

// String renders the handle as a hex offset, matching diagnostic messages.
func (n NodeID) String() string {
	return fmt.Sprintf("0x%x", uint32(n))
}

// HiveInfo exposes registry hive header (REGF) metadata.
type HiveInfo struct {
	PrimarySequence   uint32    // primary sequence number (for atomicity checks)
	SecondarySequence uint32    // secondary sequence number
	LastModified      int64     // header last-write stamp, raw FILETIME ticks
	LastModifiedTime  time.Time // decoded convenience form of LastModified
	MajorVersion      uint32    // format major version
	MinorVersion      uint32    // format minor version
	RootCellOffset    uint32    // absolute offset of the root NK cell (bias applied)
	HiveBinsDataSize  uint32    // total size of HBIN data declared by the header
	Length            int       // mapped image size in bytes
}

// -----------------------------------------------------------------------------
// Traversal Options
// -----------------------------------------------------------------------------

// WalkOptions control a single subkey enumeration.
type WalkOptions struct {
	// SkipChildValidation bypasses the per-child check that every leaf entry
	// references a live "nk" block. Tooling that inventories damaged hives
	// can set it to surface children that would fail validation; the
	// declared-count check still applies.
	SkipChildValidation bool
}
