package metadata

import "fmt"

// AllocationRequest is returned from BlockList.CreateAllocationRequest and indicates where
// the list intends to place a new allocation. Nothing is reserved until the request is
// committed with BlockList.Split(request.BlockIndex, request.Size).
type AllocationRequest struct {
	// BlockIndex is the index of the free block chosen by the strategy
	BlockIndex int
	// Offset is the first cell of the chosen block, which becomes the allocation's address
	Offset int
	// Size is the number of cells requested
	Size int
	// Remainder is the number of cells that will be left free directly after the allocation
	Remainder int
	// Strategy is the placement strategy that chose the block
	Strategy Strategy
}

// IsExact returns true if the request consumes its whole block
func (r AllocationRequest) IsExact() bool {
	return r.Remainder == 0
}

func (r AllocationRequest) String() string {
	return fmt.Sprintf("%s request for %d cells at offset %d (block %d, %d left over)",
		r.Strategy, r.Size, r.Offset, r.BlockIndex, r.Remainder)
}

// CreateAllocationRequest asks strategy to choose a free block for size cells. The list is not
// modified. If no free block is large enough, the second return value is false.
func (l *BlockList) CreateAllocationRequest(size int, strategy Strategy) (AllocationRequest, bool) {
	index, found := l.FindFree(size, strategy)
	if !found {
		return AllocationRequest{}, false
	}

	block := l.blocks[index]
	return AllocationRequest{
		BlockIndex: index,
		Offset:     block.Start,
		Size:       size,
		Remainder:  block.Length - size,
		Strategy:   strategy,
	}, true
}
