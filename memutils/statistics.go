package memutils

import "math"

// Statistics is a cheap summary of an address space: how many blocks partition it and how many
// of its cells are handed out
type Statistics struct {
	BlockCount      int
	AllocationCount int
	TotalCells      int
	AllocatedCells  int
}

func (s *Statistics) Clear() {
	s.BlockCount = 0
	s.AllocationCount = 0
	s.TotalCells = 0
	s.AllocatedCells = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.BlockCount += other.BlockCount
	s.AllocationCount += other.AllocationCount
	s.TotalCells += other.TotalCells
	s.AllocatedCells += other.AllocatedCells
}

// FreeCells is the number of cells not covered by an allocation
func (s *Statistics) FreeCells() int {
	return s.TotalCells - s.AllocatedCells
}

// DetailedStatistics extends Statistics with the size extremes of allocations and free
// regions. Call Clear before accumulating into it so the minimums start out at math.MaxInt.
type DetailedStatistics struct {
	Statistics
	FreeRegionCount   int
	AllocationSizeMin int
	AllocationSizeMax int
	FreeRegionSizeMin int
	FreeRegionSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeRegionCount = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.FreeRegionSizeMin = math.MaxInt
	s.FreeRegionSizeMax = 0
}

func (s *DetailedStatistics) AddFreeRegion(size int) {
	s.BlockCount++
	s.FreeRegionCount++

	if size < s.FreeRegionSizeMin {
		s.FreeRegionSizeMin = size
	}

	if size > s.FreeRegionSizeMax {
		s.FreeRegionSizeMax = size
	}
}

func (s *DetailedStatistics) AddAllocation(size int) {
	s.BlockCount++
	s.AllocationCount++
	s.AllocatedCells += size

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreeRegionCount += other.FreeRegionCount

	if other.FreeRegionSizeMin < s.FreeRegionSizeMin {
		s.FreeRegionSizeMin = other.FreeRegionSizeMin
	}

	if other.FreeRegionSizeMax > s.FreeRegionSizeMax {
		s.FreeRegionSizeMax = other.FreeRegionSizeMax
	}

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}
}

// Fragmentation returns the share of free cells that cannot be served by a single request
// because they lie outside the largest free region. It is 0 when free space is one region
// or when nothing is free, and approaches 1 as free space shatters.
func (s *DetailedStatistics) Fragmentation() float64 {
	free := s.FreeCells()
	if free <= 0 || s.FreeRegionCount == 0 {
		return 0
	}

	return 1 - float64(s.FreeRegionSizeMax)/float64(free)
}
