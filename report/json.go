package report

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/cellalloc/memutils"
	"github.com/vkngwrapper/cellalloc/memutils/metadata"
)

// WriteRegions writes regions as a json array under the key "Regions"
func WriteRegions(json *jwriter.ObjectState, regions []metadata.Region) {
	arrayState := json.Name("Regions").Array()
	defer arrayState.End()

	for _, region := range regions {
		obj := arrayState.Object()
		obj.Name("Start").Int(region.Start)
		obj.Name("End").Int(region.End)
		obj.Name("Size").Int(region.Length)
		obj.Name("State").String(region.State.String())
		obj.End()
	}
}

// WriteStatistics writes the fields of stats into an existing json object
func WriteStatistics(json *jwriter.ObjectState, stats *memutils.DetailedStatistics) {
	json.Name("TotalCells").Int(stats.TotalCells)
	json.Name("FreeCells").Int(stats.FreeCells())
	json.Name("Allocations").Int(stats.AllocationCount)
	json.Name("FreeRegions").Int(stats.FreeRegionCount)
	json.Name("LargestFreeRegion").Int(stats.FreeRegionSizeMax)
	json.Name("Fragmentation").Float64(stats.Fragmentation())
}

// JSONPrinter writes each layout as a single-line json object
type JSONPrinter struct {
	Out io.Writer
}

// NewJSONPrinter creates a JSONPrinter writing to out
func NewJSONPrinter(out io.Writer) *JSONPrinter {
	return &JSONPrinter{Out: out}
}

// PrintLayout writes {"Title": title, "Regions": [...]} followed by a newline
func (p *JSONPrinter) PrintLayout(title string, regions []metadata.Region) error {
	writer := jwriter.NewWriter()

	obj := writer.Object()
	obj.Name("Title").String(title)
	WriteRegions(&obj, regions)
	obj.End()

	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "encoding layout")
	}

	_, err := p.Out.Write(append(writer.Bytes(), '\n'))
	if err != nil {
		return errors.Wrap(err, "writing layout")
	}

	return nil
}
