package metadata

// Region is a read-only snapshot of a single block, produced by BlockList.Layout. End is
// inclusive, so a one-cell region has Start == End.
type Region struct {
	Start  int
	End    int
	Length int
	State  BlockState
}

// IsFree returns true if the region was free when the snapshot was taken
func (r Region) IsFree() bool {
	return r.State == BlockFree
}
