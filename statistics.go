package cellalloc

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/cellalloc/memutils"
)

// Statistics returns allocation counts and the size extremes of allocations and free regions
func (a *Allocator) Statistics() memutils.DetailedStatistics {
	var stats memutils.DetailedStatistics
	stats.Clear()
	a.blocks.AddDetailedStatistics(&stats)
	return stats
}

// BasicStatistics returns block, allocation and cell counts without walking the blocks
func (a *Allocator) BasicStatistics() memutils.Statistics {
	var stats memutils.Statistics
	a.blocks.AddStatistics(&stats)
	return stats
}

// Fragmentation returns the share of free cells lying outside the largest free region, from
// 0 (all free cells are contiguous, or none are free) toward 1
func (a *Allocator) Fragmentation() float64 {
	stats := a.Statistics()
	return stats.Fragmentation()
}

// BuildStatsString returns a json document summarizing the allocator. When detailedMap is true,
// every block is listed under "Regions".
func (a *Allocator) BuildStatsString(detailedMap bool) string {
	writer := jwriter.NewWriter()
	a.PrintJson(&writer, detailedMap)
	return string(writer.Bytes())
}

// PrintJson writes the same document as BuildStatsString into writer
func (a *Allocator) PrintJson(writer *jwriter.Writer, detailedMap bool) {
	obj := writer.Object()
	defer obj.End()

	obj.Name("Strategy").String(a.strategy.String())
	a.blocks.BlockJsonData(&obj)
	obj.Name("LargestFreeRegion").Int(a.blocks.LargestFreeRegion())
	obj.Name("Fragmentation").Float64(a.Fragmentation())

	if detailedMap {
		a.blocks.PrintDetailedMap(&obj)
	}
}
