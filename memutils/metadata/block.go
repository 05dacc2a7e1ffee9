package metadata

import "github.com/vkngwrapper/cellalloc/memutils"

// BlockState indicates whether a block's cells are handed out to a client
type BlockState uint8

const (
	// BlockFree marks a block whose cells can satisfy a new allocation
	BlockFree BlockState = iota
	// BlockAllocated marks a block that backs exactly one live allocation
	BlockAllocated
)

var blockStateMapping = map[BlockState]string{
	BlockFree:      "Free",
	BlockAllocated: "Allocated",
}

func (s BlockState) String() string {
	return blockStateMapping[s]
}

// Block is a contiguous run of cells with a single allocation state. Length is always positive
// for blocks that live in a BlockList.
type Block struct {
	Start  int
	Length int
	State  BlockState
}

// End returns the last cell covered by the block
func (b Block) End() int {
	return memutils.EndInclusive(b.Start, b.Length)
}

// IsFree returns true if the block can satisfy allocations
func (b Block) IsFree() bool {
	return b.State == BlockFree
}

// Contains returns true if address falls anywhere inside the block, including its first cell
func (b Block) Contains(address int) bool {
	return address >= b.Start && address < b.Start+b.Length
}
