// Package report renders allocator layouts and statistics for people and for tooling
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/cellalloc/memutils"
	"github.com/vkngwrapper/cellalloc/memutils/metadata"
)

const rule = "--------------"

// FormatRegion renders a single region as "<start>-<end> | <state>", with an inclusive end
func FormatRegion(region metadata.Region) string {
	return fmt.Sprintf("%d-%d | %s", region.Start, region.End, region.State)
}

// FormatLayout renders a full layout with a title line and rules above and below the regions:
//
//	Memory layout:
//	--------------
//	0-29 | Allocated
//	30-99 | Free
//	--------------
func FormatLayout(title string, regions []metadata.Region) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString(":\n")
	sb.WriteString(rule)
	sb.WriteByte('\n')

	for _, region := range regions {
		sb.WriteString(FormatRegion(region))
		sb.WriteByte('\n')
	}

	sb.WriteString(rule)
	sb.WriteByte('\n')
	return sb.String()
}

// FormatStatistics renders a one-line summary of stats
func FormatStatistics(stats *memutils.DetailedStatistics) string {
	return fmt.Sprintf("%d/%d cells allocated in %d allocations, %d free regions, largest free %d, fragmentation %.2f",
		stats.AllocatedCells, stats.TotalCells, stats.AllocationCount, stats.FreeRegionCount, stats.FreeRegionSizeMax, stats.Fragmentation())
}

// TextPrinter writes layouts as plain text
type TextPrinter struct {
	Out io.Writer
}

// NewTextPrinter creates a TextPrinter writing to out
func NewTextPrinter(out io.Writer) *TextPrinter {
	return &TextPrinter{Out: out}
}

// PrintLayout writes the layout as rendered by FormatLayout
func (p *TextPrinter) PrintLayout(title string, regions []metadata.Region) error {
	_, err := io.WriteString(p.Out, FormatLayout(title, regions))
	if err != nil {
		return errors.Wrap(err, "writing layout")
	}

	return nil
}
