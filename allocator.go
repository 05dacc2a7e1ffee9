// Package cellalloc simulates a linear address space of abstract cells managed by a
// placement-strategy allocator. Allocations are carved out of free blocks chosen by a
// metadata.Strategy and are returned to the caller as Handles; releasing a Handle frees its
// block and merges it with any free neighbour.
//
// No data is stored in allocated cells, and an Allocator is not safe for concurrent use. A
// caller that shares one between goroutines must guard every call with a single mutex.
package cellalloc

import (
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/cellalloc/memutils"
	"github.com/vkngwrapper/cellalloc/memutils/metadata"
)

// Allocator owns a single metadata.BlockList for its whole lifetime and is the only way
// clients allocate and release cells from it. The capacity is fixed at construction.
type Allocator struct {
	strategy metadata.Strategy
	blocks   *metadata.BlockList

	nextSerial uint64
	// start address -> serial of the handle that owns the allocation there
	live *swiss.Map[int, uint64]
}

var _ memutils.Validatable = &Allocator{}

// New creates an Allocator over capacity cells, placing allocations with the provided strategy.
// A non-positive capacity fails with memutils.ErrInvalidSize and an unknown strategy fails with
// memutils.ErrInvalidStrategy.
func New(capacity int, strategy metadata.Strategy) (*Allocator, error) {
	if !strategy.IsValid() {
		return nil, errors.Wrapf(memutils.ErrInvalidStrategy, "strategy %d", uint32(strategy))
	}

	blocks, err := metadata.NewBlockList(capacity)
	if err != nil {
		return nil, err
	}

	return &Allocator{
		strategy: strategy,
		blocks:   blocks,
		live:     swiss.NewMap[int, uint64](42),
	}, nil
}

// Capacity returns the number of cells managed by the allocator
func (a *Allocator) Capacity() int { return a.blocks.Capacity() }

// Strategy returns the placement strategy the allocator was created with
func (a *Allocator) Strategy() metadata.Strategy { return a.strategy }

// AllocationCount returns the number of live allocations
func (a *Allocator) AllocationCount() int { return a.blocks.AllocationCount() }

// SumFreeSize returns the number of unallocated cells
func (a *Allocator) SumFreeSize() int { return a.blocks.SumFreeSize() }

// LargestFreeRegion returns the size of the largest request that could currently succeed
func (a *Allocator) LargestFreeRegion() int { return a.blocks.LargestFreeRegion() }

// Alloc reserves size contiguous cells and returns a Handle bound to the first of them.
//
// size must be positive and no larger than the allocator's capacity, or memutils.ErrInvalidSize
// is returned. If no free block is large enough, memutils.ErrAllocationFailed is returned; this
// is an expected outcome that every caller must be prepared to handle.
func (a *Allocator) Alloc(size int) (Handle, error) {
	err := memutils.CheckSize(size, a.blocks.Capacity(), "allocation size")
	if err != nil {
		return Handle{}, err
	}

	request, found := a.blocks.CreateAllocationRequest(size, a.strategy)
	if !found {
		return Handle{}, errors.Wrapf(memutils.ErrAllocationFailed,
			"%d cells requested with %s, %d cells free across %d regions, largest %d",
			size, a.strategy, a.blocks.SumFreeSize(), a.blocks.FreeRegionsCount(), a.blocks.LargestFreeRegion(),
		)
	}

	err = a.blocks.Split(request.BlockIndex, request.Size)
	if err != nil {
		return Handle{}, err
	}

	a.nextSerial++
	a.live.Put(request.Offset, a.nextSerial)

	return Handle{
		address: request.Offset,
		serial:  a.nextSerial,
		owner:   a,
	}, nil
}

// Release frees the allocation named by h and merges its cells into any free neighbour. The
// handle is consumed: releasing it again fails.
//
// All failures are reported as memutils.ErrInvalidHandle: the zero Handle, a Handle from a
// different Allocator, a Handle that was already released, or one whose address has since been
// handed to a newer allocation. When the address does not begin a block at all the error also
// matches memutils.ErrInvalidAddress.
func (a *Allocator) Release(h Handle) error {
	if h.owner == nil {
		return errors.Wrap(memutils.ErrInvalidHandle, "the handle is null")
	}

	if h.owner != a {
		return errors.Wrapf(memutils.ErrInvalidHandle, "the handle for address %d belongs to a different allocator", h.address)
	}

	serial, isLive := a.live.Get(h.address)
	if !isLive {
		cause := a.blocks.CheckAllocated(h.address)
		if cause == nil {
			return errors.AssertionFailedf("allocated block at address %d has no live handle", h.address)
		}

		return errors.Mark(errors.Wrapf(cause, "releasing handle for address %d", h.address), memutils.ErrInvalidHandle)
	}

	if serial != h.serial {
		return errors.Wrapf(memutils.ErrInvalidHandle, "the handle for address %d was already released and the address reallocated", h.address)
	}

	err := a.blocks.MarkFree(h.address)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "releasing handle for address %d", h.address), memutils.ErrInvalidHandle)
	}

	a.live.Delete(h.address)
	return nil
}

// IsLive returns true if h names an allocation of this Allocator that has not been released
func (a *Allocator) IsLive(h Handle) bool {
	if h.owner != a {
		return false
	}

	serial, isLive := a.live.Get(h.address)
	return isLive && serial == h.serial
}

// Layout returns a snapshot of every block in ascending address order. It does not change
// the allocator's state.
func (a *Allocator) Layout() []metadata.Region {
	return a.blocks.Layout()
}

// Reset frees every allocation at once. Every Handle issued before the reset becomes invalid.
func (a *Allocator) Reset() {
	a.blocks.Clear()
	a.live = swiss.NewMap[int, uint64](42)
}

// Validate checks the block list invariants and that exactly one live handle exists per
// allocated block
func (a *Allocator) Validate() error {
	err := a.blocks.Validate()
	if err != nil {
		return err
	}

	if a.live.Count() != a.blocks.AllocationCount() {
		return errors.Errorf("the allocator tracks %d live handles, but the block list has %d allocations", a.live.Count(), a.blocks.AllocationCount())
	}

	a.live.Iter(func(address int, serial uint64) bool {
		err = a.blocks.CheckAllocated(address)
		if err != nil {
			err = errors.Wrapf(err, "live handle %d", serial)
		}
		return err != nil
	})

	return err
}
