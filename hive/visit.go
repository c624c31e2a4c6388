package hive

import (
	"fmt"

	"github.com/hivewalk/hivewalk/pkg/types"
)

// Walk visits start and every key below it in pre-order, calling fn with
// each handle and its depth relative to start. An error from fn stops the
// walk and is returned as-is. Nesting beyond types.MaxTreeDepth fails with a
// resource-limit error, which also bounds walks over trees whose subkey
// graph loops back on itself.
func (h *Hive) Walk(start types.NodeID, fn func(n types.NodeID, depth int) error) error {
	if _, _, err := h.nkAt(start); err != nil {
		return err
	}
	type frame struct {
		node  types.NodeID
		depth int
	}
	stack := []frame{{node: start}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > types.MaxTreeDepth {
			return &types.Error{
				Kind:   types.ErrKindResourceLimit,
				Offset: uint32(f.node),
				Msg:    fmt.Sprintf("key nesting exceeds depth %d", types.MaxTreeDepth),
			}
		}
		if err := fn(f.node, f.depth); err != nil {
			return err
		}
		children, err := h.NodeChildren(f.node)
		if err != nil {
			return err
		}
		// Reverse push keeps sibling visit order equal to child order.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: children[i], depth: f.depth + 1})
		}
	}
	return nil
}
