package cellalloc

import "fmt"

// Handle is a client's reference to a single allocation. It is a capability to release the
// allocation, not the allocation itself: which cells are taken is tracked only by the
// Allocator that issued it.
//
// Handles are small values and may be copied freely, but each allocation can be released
// through only one of the copies. The zero Handle refers to nothing.
type Handle struct {
	address int
	serial  uint64
	owner   *Allocator
}

// Address returns the first cell of the allocation
func (h Handle) Address() int { return h.address }

// IsNull returns true for the zero Handle
func (h Handle) IsNull() bool { return h.owner == nil }

func (h Handle) String() string {
	if h.IsNull() {
		return "Handle(null)"
	}

	return fmt.Sprintf("Handle(address=%d)", h.address)
}
