package memutils

import "github.com/pkg/errors"

var (
	// ErrInvalidSize is returned when a requested size is non-positive or larger than the
	// address space it was requested from
	ErrInvalidSize = errors.New("invalid size")
	// ErrAllocationFailed is returned from an allocation when no free region is large enough
	// to hold the request. It is an expected outcome and callers are required to handle it.
	ErrAllocationFailed = errors.New("allocation failed: no free region is large enough")
	// ErrInvalidHandle is returned when a release target does not name a live allocation
	ErrInvalidHandle = errors.New("invalid handle")
	// ErrInvalidAddress is returned by the block list when an address does not fall on a block boundary
	ErrInvalidAddress = errors.New("address does not start a block")
	// ErrNotAllocated is returned by the block list when a free block is released a second time
	ErrNotAllocated = errors.New("block is not allocated")
	// ErrNotFree is returned by the block list when an allocated block is split
	ErrNotFree = errors.New("block is not free")
	// ErrInvalidStrategy is returned when an unknown placement strategy is requested
	ErrInvalidStrategy = errors.New("invalid placement strategy")
)
