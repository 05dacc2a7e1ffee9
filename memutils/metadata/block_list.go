package metadata

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/cellalloc/memutils"
	"golang.org/x/exp/slices"
)

// BlockList partitions a fixed range of cells into an ordered sequence of blocks. After every
// mutation the blocks start at 0, each block ends where the next begins, the lengths add up
// to the capacity, and no two neighbouring blocks are both free.
//
// BlockList is not safe for concurrent use.
type BlockList struct {
	capacity   int
	blocks     []Block
	allocCount int
	freeCells  int
}

var _ memutils.Validatable = &BlockList{}

// NewBlockList creates a BlockList covering capacity cells with a single free block
func NewBlockList(capacity int) (*BlockList, error) {
	err := memutils.CheckSize(capacity, 0, "capacity")
	if err != nil {
		return nil, err
	}

	l := &BlockList{capacity: capacity}
	l.Clear()
	return l, nil
}

// Capacity returns the number of cells the list was created with
func (l *BlockList) Capacity() int { return l.capacity }

// BlockCount returns the number of blocks, free and allocated, in the list
func (l *BlockList) BlockCount() int { return len(l.blocks) }

// AllocationCount returns the number of allocated blocks
func (l *BlockList) AllocationCount() int { return l.allocCount }

// FreeRegionsCount returns the number of free blocks. Since free neighbours are always merged,
// this is also the number of disjoint free regions.
func (l *BlockList) FreeRegionsCount() int { return len(l.blocks) - l.allocCount }

// SumFreeSize returns the number of free cells across all free blocks
func (l *BlockList) SumFreeSize() int { return l.freeCells }

// IsEmpty returns true if there are no live allocations
func (l *BlockList) IsEmpty() bool { return l.allocCount == 0 }

// Block returns the block at the provided index
func (l *BlockList) Block(index int) (Block, error) {
	if index < 0 || index >= len(l.blocks) {
		return Block{}, errors.Wrapf(memutils.ErrInvalidAddress, "block index %d is out of range [0, %d)", index, len(l.blocks))
	}

	return l.blocks[index], nil
}

// Blocks returns a copy of the blocks in ascending address order
func (l *BlockList) Blocks() []Block {
	return slices.Clone(l.blocks)
}

// LargestFreeRegion returns the length of the largest free block, or 0 if every cell is allocated
func (l *BlockList) LargestFreeRegion() int {
	largest := 0
	for i := range l.blocks {
		if l.blocks[i].IsFree() && l.blocks[i].Length > largest {
			largest = l.blocks[i].Length
		}
	}

	return largest
}

// FindFree asks strategy to choose a free block of at least size cells and returns its index.
// The list is not modified.
func (l *BlockList) FindFree(size int, strategy Strategy) (int, bool) {
	// Is the list big enough?
	if size > l.freeCells {
		return -1, false
	}

	return strategy.Select(l.blocks, size)
}

// Split allocates the first size cells of the free block at index. If the block is longer than
// size, the remainder becomes a new free block directly after it; otherwise the whole block is
// marked allocated.
func (l *BlockList) Split(index, size int) error {
	err := memutils.CheckSize(size, 0, "split size")
	if err != nil {
		return err
	}

	if index < 0 || index >= len(l.blocks) {
		return errors.Wrapf(memutils.ErrInvalidAddress, "block index %d is out of range [0, %d)", index, len(l.blocks))
	}

	block := &l.blocks[index]
	if !block.IsFree() {
		return errors.Wrapf(memutils.ErrNotFree, "block at offset %d", block.Start)
	}

	if block.Length < size {
		return errors.Wrapf(memutils.ErrInvalidSize, "block at offset %d has %d cells but %d were requested", block.Start, block.Length, size)
	}

	block.State = BlockAllocated
	if block.Length > size {
		remainder := Block{
			Start:  block.Start + size,
			Length: block.Length - size,
			State:  BlockFree,
		}
		block.Length = size
		l.blocks = slices.Insert(l.blocks, index+1, remainder)
	}

	l.allocCount++
	l.freeCells -= size

	memutils.DebugValidate(l)
	return nil
}

// MarkFree frees the allocated block that begins at start and merges it into any free
// neighbour. An address that does not begin a block fails with memutils.ErrInvalidAddress
// and a block that is already free fails with memutils.ErrNotAllocated.
func (l *BlockList) MarkFree(start int) error {
	index, err := l.allocatedIndex(start)
	if err != nil {
		return err
	}

	block := &l.blocks[index]
	block.State = BlockFree
	l.allocCount--
	l.freeCells += block.Length

	// Try merging with the block after
	if index+1 < len(l.blocks) && l.blocks[index+1].IsFree() {
		block.Length += l.blocks[index+1].Length
		l.blocks = slices.Delete(l.blocks, index+1, index+2)
	}

	// And with the block before
	if index > 0 && l.blocks[index-1].IsFree() {
		l.blocks[index-1].Length += l.blocks[index].Length
		l.blocks = slices.Delete(l.blocks, index, index+1)
	}

	memutils.DebugValidate(l)
	return nil
}

// CheckAllocated returns nil if an allocated block begins at start, and otherwise the error
// MarkFree would fail with for that address
func (l *BlockList) CheckAllocated(start int) error {
	_, err := l.allocatedIndex(start)
	return err
}

func (l *BlockList) allocatedIndex(start int) (int, error) {
	index, found := l.indexOf(start)
	if !found {
		if index > 0 && l.blocks[index-1].Contains(start) {
			return -1, errors.Wrapf(memutils.ErrInvalidAddress, "address %d is inside the block at offset %d", start, l.blocks[index-1].Start)
		}

		return -1, errors.Wrapf(memutils.ErrInvalidAddress, "address %d is outside [0, %d)", start, l.capacity)
	}

	if l.blocks[index].IsFree() {
		return -1, errors.Wrapf(memutils.ErrNotAllocated, "block at offset %d", start)
	}

	return index, nil
}

func (l *BlockList) indexOf(start int) (int, bool) {
	return slices.BinarySearchFunc(l.blocks, start, func(block Block, target int) int {
		return block.Start - target
	})
}

// Layout returns a snapshot of every block in ascending address order
func (l *BlockList) Layout() []Region {
	regions := make([]Region, 0, len(l.blocks))
	for _, block := range l.blocks {
		regions = append(regions, Region{
			Start:  block.Start,
			End:    block.End(),
			Length: block.Length,
			State:  block.State,
		})
	}

	return regions
}

// VisitAllRegions calls handleBlock once for each block in ascending address order. Iteration
// stops at the first error, which is returned.
func (l *BlockList) VisitAllRegions(handleBlock func(start int, length int, free bool) error) error {
	for _, block := range l.blocks {
		err := handleBlock(block.Start, block.Length, block.IsFree())
		if err != nil {
			return err
		}
	}

	return nil
}

// Clear frees every allocation at once, leaving a single free block
func (l *BlockList) Clear() {
	l.blocks = append(l.blocks[:0], Block{Start: 0, Length: l.capacity, State: BlockFree})
	l.allocCount = 0
	l.freeCells = l.capacity
}

// AddStatistics sums this list's totals into stats
func (l *BlockList) AddStatistics(stats *memutils.Statistics) {
	stats.BlockCount += len(l.blocks)
	stats.AllocationCount += l.allocCount
	stats.TotalCells += l.capacity
	stats.AllocatedCells += l.capacity - l.freeCells
}

// AddDetailedStatistics sums this list's totals and size extremes into stats
func (l *BlockList) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.TotalCells += l.capacity

	for _, block := range l.blocks {
		if block.IsFree() {
			stats.AddFreeRegion(block.Length)
		} else {
			stats.AddAllocation(block.Length)
		}
	}
}

// Validate walks the whole list and reports the first broken invariant it finds
func (l *BlockList) Validate() error {
	if len(l.blocks) == 0 {
		return errors.New("block list has no blocks")
	}

	if l.blocks[0].Start != 0 {
		return errors.Errorf("the first block should have an offset of 0, but instead it has an offset of %d", l.blocks[0].Start)
	}

	var calculatedSize, calculatedFreeSize, allocCount int
	for i, block := range l.blocks {
		if block.Length <= 0 {
			return errors.Errorf("block at offset %d has non-positive length %d", block.Start, block.Length)
		}

		if i+1 < len(l.blocks) {
			next := l.blocks[i+1]
			if block.Start+block.Length != next.Start {
				return errors.Errorf("block at offset %d does not end at the next block's start offset %d", block.Start, next.Start)
			}

			if block.IsFree() && next.IsFree() {
				return errors.Errorf("free blocks at offsets %d and %d were not merged", block.Start, next.Start)
			}
		}

		calculatedSize += block.Length
		if block.IsFree() {
			calculatedFreeSize += block.Length
		} else {
			allocCount++
		}
	}

	if calculatedSize != l.capacity {
		return errors.Errorf("the capacity of the block list is %d, but the blocks only added up to %d", l.capacity, calculatedSize)
	}

	if calculatedFreeSize != l.freeCells {
		return errors.Errorf("the free size of the block list is %d, but the free blocks added up to %d", l.freeCells, calculatedFreeSize)
	}

	if allocCount != l.allocCount {
		return errors.Errorf("the allocation count of the block list is %d, but the allocated blocks added up to %d", l.allocCount, allocCount)
	}

	return nil
}
