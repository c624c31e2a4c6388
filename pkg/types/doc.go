// Package types defines the public handles, typed errors, options and
// resource ceilings for reading the key tree of Windows Registry hive
// ("regf") files.
//
// The package only exposes identifiers and core types. The traversal
// engine lives in the hive package; the mmap-backed image store is an
// internal implementation detail.
//
// Design goals:
//   - Small, copyable handles (NodeID) instead of large object graphs.
//   - Paranoid bounds checking; never panic on malformed input.
//   - Typed errors with stable kinds callers can branch on.
//
// This package has no dependencies beyond the standard library.
package types
