// Package metadata tracks which cells of a fixed-size address space are free and which are
// allocated. A BlockList holds the partition itself, and a Strategy chooses where new
// allocations go.
package metadata

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// BlockJsonData populates a json object with summary information about the list
func (l *BlockList) BlockJsonData(json *jwriter.ObjectState) {
	json.Name("TotalCells").Int(l.Capacity())
	json.Name("FreeCells").Int(l.SumFreeSize())
	json.Name("Allocations").Int(l.AllocationCount())
	json.Name("FreeRegions").Int(l.FreeRegionsCount())
}

// PrintDetailedMap populates a json object with one entry per block under the key "Regions"
func (l *BlockList) PrintDetailedMap(json *jwriter.ObjectState) {
	arrayState := json.Name("Regions").Array()
	defer arrayState.End()

	_ = l.VisitAllRegions(func(start int, length int, free bool) error {
		obj := arrayState.Object()
		defer obj.End()

		state := BlockAllocated
		if free {
			state = BlockFree
		}

		obj.Name("Start").Int(start)
		obj.Name("End").Int(start + length - 1)
		obj.Name("Size").Int(length)
		obj.Name("State").String(state.String())
		return nil
	})
}
