package report_test

import (
	"bytes"
	"testing"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/cellalloc/memutils"
	"github.com/vkngwrapper/cellalloc/memutils/metadata"
	"github.com/vkngwrapper/cellalloc/report"
)

var sampleLayout = []metadata.Region{
	{Start: 0, End: 59, Length: 60, State: metadata.BlockFree},
	{Start: 60, End: 89, Length: 30, State: metadata.BlockAllocated},
	{Start: 90, End: 99, Length: 10, State: metadata.BlockFree},
}

func TestFormatRegion(t *testing.T) {
	require.Equal(t, "60-89 | Allocated", report.FormatRegion(sampleLayout[1]))
	require.Equal(t, "0-0 | Free", report.FormatRegion(metadata.Region{Start: 0, End: 0, Length: 1, State: metadata.BlockFree}))
}

func TestTextPrinter(t *testing.T) {
	var out bytes.Buffer
	printer := report.NewTextPrinter(&out)

	require.NoError(t, printer.PrintLayout("Memory layout", sampleLayout))
	require.Equal(t, "Memory layout:\n"+
		"--------------\n"+
		"0-59 | Free\n"+
		"60-89 | Allocated\n"+
		"90-99 | Free\n"+
		"--------------\n", out.String())
}

func TestJSONPrinter(t *testing.T) {
	var out bytes.Buffer
	printer := report.NewJSONPrinter(&out)

	require.NoError(t, printer.PrintLayout("after release", sampleLayout[1:2]))
	require.Equal(t, byte('\n'), out.Bytes()[out.Len()-1])
	require.JSONEq(t, `{
		"Title": "after release",
		"Regions": [{"Start": 60, "End": 89, "Size": 30, "State": "Allocated"}]
	}`, out.String())
}

func TestWriteStatistics(t *testing.T) {
	stats := memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			BlockCount:      3,
			AllocationCount: 1,
			TotalCells:      100,
			AllocatedCells:  60,
		},
		FreeRegionCount:   2,
		AllocationSizeMin: 60,
		AllocationSizeMax: 60,
		FreeRegionSizeMin: 10,
		FreeRegionSizeMax: 30,
	}

	writer := jwriter.NewWriter()
	obj := writer.Object()
	report.WriteStatistics(&obj, &stats)
	obj.End()

	require.JSONEq(t, `{
		"TotalCells": 100,
		"FreeCells": 40,
		"Allocations": 1,
		"FreeRegions": 2,
		"LargestFreeRegion": 30,
		"Fragmentation": 0.25
	}`, string(writer.Bytes()))

	require.Equal(t, "60/100 cells allocated in 1 allocations, 2 free regions, largest free 30, fragmentation 0.25",
		report.FormatStatistics(&stats))
}
