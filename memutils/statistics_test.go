package memutils_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/cellalloc/memutils"
)

func TestDetailedStatisticsAccumulate(t *testing.T) {
	var stats memutils.DetailedStatistics
	stats.Clear()
	stats.TotalCells = 100

	stats.AddAllocation(30)
	stats.AddFreeRegion(60)
	stats.AddAllocation(5)
	stats.AddFreeRegion(5)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			BlockCount:      4,
			AllocationCount: 2,
			TotalCells:      100,
			AllocatedCells:  35,
		},
		FreeRegionCount:   2,
		AllocationSizeMin: 5,
		AllocationSizeMax: 30,
		FreeRegionSizeMin: 5,
		FreeRegionSizeMax: 60,
	}, stats)
	require.Equal(t, 65, stats.FreeCells())

	var total memutils.DetailedStatistics
	total.Clear()
	total.AddDetailedStatistics(&stats)
	total.AddDetailedStatistics(&stats)
	require.Equal(t, 200, total.TotalCells)
	require.Equal(t, 4, total.FreeRegionCount)
	require.Equal(t, 5, total.AllocationSizeMin)
	require.Equal(t, 60, total.FreeRegionSizeMax)
}

func TestFragmentation(t *testing.T) {
	var stats memutils.DetailedStatistics
	stats.Clear()
	require.Equal(t, math.MaxInt, stats.FreeRegionSizeMin)
	require.Zero(t, stats.Fragmentation())

	stats.TotalCells = 100
	stats.AddFreeRegion(100)
	require.Zero(t, stats.Fragmentation())

	stats.Clear()
	stats.TotalCells = 100
	stats.AddFreeRegion(30)
	stats.AddAllocation(40)
	stats.AddFreeRegion(30)
	require.InDelta(t, 0.5, stats.Fragmentation(), 1e-9)

	stats.Clear()
	stats.TotalCells = 10
	stats.AddAllocation(10)
	require.Zero(t, stats.Fragmentation())
}
