package hive

import (
	"fmt"

	"github.com/hivewalk/hivewalk/hive/offsets"
	"github.com/hivewalk/hivewalk/internal/buf"
	"github.com/hivewalk/hivewalk/internal/format"
	"github.com/hivewalk/hivewalk/pkg/types"
)

// walkFrame is one pending indirection block on the traversal work stack.
type walkFrame struct {
	offset uint32 // absolute offset of the block
	depth  int    // "ri" nesting depth; 0 for the block the key names directly
}

// GetChildren enumerates the direct children of n, returning their handles
// in on-disk leaf order together with the offsets of every intermediate
// indirection block visited on the way. The two results are all-or-nothing:
// a fault at any depth abandons both.
//
// The declared subkey count of the record is authoritative. Enumeration
// fails if it exceeds types.MaxSubkeys, if more children than declared turn
// up, or if the final tally differs from it. Visited indirection blocks are
// capped at types.MaxSubkeys and "ri" nesting at types.MaxIndexDepth, so a
// crafted block graph (including cycles) terminates with an error instead of
// looping.
func (h *Hive) GetChildren(n types.NodeID, opts types.WalkOptions) ([]types.NodeID, []uint32, error) {
	nk, _, err := h.nkAt(n)
	if err != nil {
		return nil, nil, err
	}
	declared := int(nk.SubkeyCount)

	children := offsets.New()
	blocks := offsets.New()

	// The common no-subkeys case returns quickly.
	if declared == 0 {
		return nodeIDs(children.Finalize()), blocks.Finalize(), nil
	}

	if declared > types.MaxSubkeys {
		return nil, nil, &types.Error{
			Kind:   types.ErrKindResourceLimit,
			Offset: uint32(n),
			Msg:    fmt.Sprintf("subkey count in nk record too large (%d > %d)", declared, types.MaxSubkeys),
		}
	}

	// Never collect more children than the record declares, and never visit
	// more indirection blocks than the global ceiling.
	if err := children.SetLimit(declared); err != nil {
		return nil, nil, err
	}
	if err := children.Reserve(declared); err != nil {
		return nil, nil, err
	}
	if err := blocks.SetLimit(types.MaxSubkeys); err != nil {
		return nil, nil, err
	}

	top := dataOffset(nk.SubkeyList)
	if !h.st.IsValidBlock(top) {
		return nil, nil, &types.Error{
			Kind:   types.ErrKindStructuralFault,
			Offset: top,
			Msg:    fmt.Sprintf("subkey list of %s is not a valid block (%#x)", n, top),
		}
	}

	stack := []walkFrame{{offset: top}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := h.walkIndirection(frame, opts, children, blocks, &stack); err != nil {
			return nil, nil, err
		}
	}

	if got := children.Len(); got != declared {
		return nil, nil, &types.Error{
			Kind:   types.ErrKindStructuralFault,
			Offset: uint32(n),
			Msg: fmt.Sprintf("subkey count in nk record (%d) does not match number of subkeys found in subkey list structure (%d)",
				declared, got),
		}
	}

	return nodeIDs(children.Finalize()), blocks.Finalize(), nil
}

// walkIndirection consumes one indirection block: leaf entries append
// children, index entries push further blocks. Pushing index entries in
// reverse keeps pop order identical to a recursive left-to-right descent.
func (h *Hive) walkIndirection(frame walkFrame, opts types.WalkOptions, children, blocks *offsets.List, stack *[]walkFrame) error {
	if frame.depth > types.MaxIndexDepth {
		return &types.Error{
			Kind:   types.ErrKindResourceLimit,
			Offset: frame.offset,
			Msg:    fmt.Sprintf("ri-record nesting exceeds depth %d", types.MaxIndexDepth),
		}
	}
	if err := blocks.Add(frame.offset); err != nil {
		return err
	}
	payload := h.st.Payload(frame.offset)
	list, err := format.DecodeListHeader(payload)
	if err != nil {
		return &types.Error{
			Kind:   types.ErrKindStructuralFault,
			Offset: frame.offset,
			Msg:    fmt.Sprintf("subkey list header at %#x", frame.offset),
			Err:    err,
		}
	}

	switch list.Kind {
	case format.ListLeaf:
		if _, err := buf.CheckListBounds(len(payload), format.IdxListOffset, list.Count, format.LFFHEntrySize); err != nil {
			return &types.Error{
				Kind:   types.ErrKindStructuralFault,
				Offset: frame.offset,
				Msg:    fmt.Sprintf("too many subkeys in lf/lh record (%d, %d)", list.Count, len(payload)),
				Err:    err,
			}
		}
		for i := 0; i < list.Count; i++ {
			child := dataOffset(format.LeafEntryOffset(payload, i))
			if !opts.SkipChildValidation {
				if !h.st.IsValidBlock(child) || !h.st.SignatureEquals(child, format.NKSignature) {
					return &types.Error{
						Kind:   types.ErrKindStructuralFault,
						Offset: child,
						Msg:    fmt.Sprintf("subkey is not a valid nk block (%#x)", child),
					}
				}
			}
			if err := children.Add(child); err != nil {
				return err
			}
		}

	case format.ListIndex:
		if _, err := buf.CheckListBounds(len(payload), format.IdxListOffset, list.Count, format.LIEntrySize); err != nil {
			return &types.Error{
				Kind:   types.ErrKindStructuralFault,
				Offset: frame.offset,
				Msg:    fmt.Sprintf("too many offsets in ri record (%d, %d)", list.Count, len(payload)),
				Err:    err,
			}
		}
		for i := list.Count - 1; i >= 0; i-- {
			sub := dataOffset(format.IndexEntryOffset(payload, i))
			if !h.st.IsValidBlock(sub) {
				return &types.Error{
					Kind:   types.ErrKindStructuralFault,
					Offset: sub,
					Msg:    fmt.Sprintf("ri-record offset is not a valid block (%#x)", sub),
				}
			}
			*stack = append(*stack, walkFrame{offset: sub, depth: frame.depth + 1})
		}

	default:
		return &types.Error{
			Kind:   types.ErrKindUnsupportedStructure,
			Offset: frame.offset,
			Msg: fmt.Sprintf("subkey block is not lf/lh/ri (%#x, %d, %d)",
				frame.offset, list.Tag[0], list.Tag[1]),
		}
	}
	return nil
}

// NodeChildren returns just the child handles of n, walker defaults,
// intermediate blocks discarded.
func (h *Hive) NodeChildren(n types.NodeID) ([]types.NodeID, error) {
	children, _, err := h.GetChildren(n, types.WalkOptions{})
	return children, err
}

func nodeIDs(offs []uint32) []types.NodeID {
	if offs == nil {
		return nil
	}
	ids := make([]types.NodeID, len(offs))
	for i, off := range offs {
		ids[i] = types.NodeID(off)
	}
	return ids
}
