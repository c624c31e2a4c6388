// Package offsets provides the ordered offset accumulator used by subkey
// tree traversal. One List serves one traversal call; it is not safe for
// concurrent use and does not need to be.
package offsets

import (
	"fmt"

	"github.com/hivewalk/hivewalk/pkg/types"
)

// List accumulates cell offsets in discovery order. A hard ceiling may be set
// before population; Add past the ceiling fails instead of silently
// truncating. Finalize consumes the list: the returned slice is
// length-delimited (exactly Len() entries, no sentinel element), and every
// later mutation is rejected.
type List struct {
	offsets   []uint32
	limit     int // -1 means unlimited
	finalized bool
}

// New returns an empty list with no ceiling.
func New() *List {
	return &List{limit: -1}
}

// SetLimit caps the number of offsets the list will accept. The cap applies
// to subsequent Add calls; entries already present are kept.
func (l *List) SetLimit(n int) error {
	if l.finalized {
		return usedAfterFinalize()
	}
	if n < 0 {
		return &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("offset list limit must be non-negative, got %d", n),
		}
	}
	l.limit = n
	return nil
}

// Reserve grows the backing capacity to hold at least n entries, so a
// traversal with a known count appends without reallocating.
func (l *List) Reserve(n int) error {
	if l.finalized {
		return usedAfterFinalize()
	}
	if n <= cap(l.offsets) {
		return nil
	}
	grown := make([]uint32, len(l.offsets), n)
	copy(grown, l.offsets)
	l.offsets = grown
	return nil
}

// Add appends off in order.
func (l *List) Add(off uint32) error {
	if l.finalized {
		return usedAfterFinalize()
	}
	if l.limit >= 0 && len(l.offsets) >= l.limit {
		return &types.Error{
			Kind: types.ErrKindResourceLimit,
			Msg:  fmt.Sprintf("offset list reached its limit of %d", l.limit),
		}
	}
	l.offsets = append(l.offsets, off)
	return nil
}

// Len returns the number of accumulated offsets.
func (l *List) Len() int {
	return len(l.offsets)
}

// Finalize consumes the list and returns the accumulated offsets, possibly
// nil when nothing was added. Calling Finalize twice returns nil the second
// time.
func (l *List) Finalize() []uint32 {
	if l.finalized {
		return nil
	}
	l.finalized = true
	out := l.offsets
	l.offsets = nil
	return out
}

func usedAfterFinalize() error {
	return &types.Error{Kind: types.ErrKindInvalidArgument, Msg: "offset list already finalized"}
}
