package hive

import (
	"fmt"
	"strings"

	"github.com/hivewalk/hivewalk/pkg/types"
)

// NodeGetChild finds the direct child of n whose name matches name under
// ASCII case folding, the comparison registry key lookups have always used.
// A clean miss returns the zero handle with a nil error; an error means
// enumeration or name access failed.
func (h *Hive) NodeGetChild(n types.NodeID, name string) (types.NodeID, error) {
	children, err := h.NodeChildren(n)
	if err != nil {
		return 0, err
	}
	for _, child := range children {
		childName, err := h.NodeName(child)
		if err != nil {
			return 0, err
		}
		if nameEqualFold(childName, name) {
			return child, nil
		}
	}
	return 0, nil
}

// Lookup resolves a backslash-separated key path, for example
// `Microsoft\Windows\CurrentVersion`, starting at the root key. Empty
// segments are skipped, so leading or doubled backslashes are harmless; the
// empty path resolves to the root itself. A missing segment fails with a
// not-found error naming it.
func (h *Hive) Lookup(path string) (types.NodeID, error) {
	node, err := h.Root()
	if err != nil {
		return 0, err
	}
	for _, seg := range splitPath(path) {
		child, err := h.NodeGetChild(node, seg)
		if err != nil {
			return 0, err
		}
		if child == 0 {
			return 0, &types.Error{
				Kind:   types.ErrKindNotFound,
				Offset: uint32(node),
				Msg:    fmt.Sprintf("key %q not found under %s", seg, node),
			}
		}
		node = child
	}
	return node, nil
}

// splitPath splits a registry path on backslashes, dropping empty segments.
func splitPath(path string) []string {
	parts := strings.Split(path, `\`)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// nameEqualFold reports whether a and b match byte-wise under ASCII case
// folding. Unicode folding would be wrong here: raw key names are undecoded
// Windows-1252 or UTF-16LE bytes, and the original scan folded ASCII only.
func nameEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
