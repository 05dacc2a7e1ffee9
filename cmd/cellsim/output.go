package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/cellalloc"
	"github.com/vkngwrapper/cellalloc/report"
	"github.com/vkngwrapper/cellalloc/sim"
)

func writeJSONLine(out io.Writer, writer *jwriter.Writer) error {
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "encoding output")
	}

	_, err := out.Write(append(writer.Bytes(), '\n'))
	return errors.Wrap(err, "writing output")
}

func writeResultObject(obj *jwriter.ObjectState, result *sim.Result) {
	obj.Name("Scenario").String(result.Scenario)
	obj.Name("Strategy").String(result.Strategy.String())
	obj.Name("Capacity").Int(result.Capacity)
	obj.Name("Steps").Int(len(result.Steps))
	obj.Name("Failures").Int(result.Failures)

	failed := obj.Name("FailedSteps").Array()
	for _, step := range result.Steps {
		if !step.Failed() {
			continue
		}

		stepObj := failed.Object()
		stepObj.Name("Index").Int(step.Index)
		stepObj.Name("Op").String(string(step.Step.Op))
		stepObj.Name("Name").String(step.Step.Name)
		stepObj.Name("Error").String(step.Err.Error())
		stepObj.End()
	}
	failed.End()

	report.WriteStatistics(obj, &result.Stats)
	report.WriteRegions(obj, result.Final)
}

func writeResult(out io.Writer, output string, result *sim.Result) error {
	if output == outputJSON {
		writer := jwriter.NewWriter()
		obj := writer.Object()
		writeResultObject(&obj, result)
		obj.End()
		return writeJSONLine(out, &writer)
	}

	_, err := fmt.Fprintf(out, "%s (%s, %d cells): %d steps, %d failed\n",
		result.Scenario, result.Strategy, result.Capacity, len(result.Steps), result.Failures)
	if err != nil {
		return errors.Wrap(err, "writing result")
	}

	for _, step := range result.Steps {
		if !step.Failed() {
			continue
		}

		_, err = fmt.Fprintf(out, "  step %d (%s %s): %v\n", step.Index, step.Step.Op, step.Step.Name, step.Err)
		if err != nil {
			return errors.Wrap(err, "writing result")
		}
	}

	_, err = io.WriteString(out, report.FormatLayout("Final layout", result.Final))
	if err != nil {
		return errors.Wrap(err, "writing result")
	}

	_, err = fmt.Fprintln(out, report.FormatStatistics(&result.Stats))
	return errors.Wrap(err, "writing result")
}

func writeComparison(out io.Writer, output string, results []*sim.Result) error {
	if output == outputJSON {
		writer := jwriter.NewWriter()
		arr := writer.Array()
		for _, result := range results {
			obj := arr.Object()
			writeResultObject(&obj, result)
			obj.End()
		}
		arr.End()
		return writeJSONLine(out, &writer)
	}

	table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "STRATEGY\tFAILURES\tALLOCATED\tFREE REGIONS\tLARGEST FREE\tFRAGMENTATION")
	for _, result := range results {
		fmt.Fprintf(table, "%s\t%d\t%d/%d\t%d\t%d\t%.2f\n",
			result.Strategy,
			result.Failures,
			result.Stats.AllocatedCells,
			result.Stats.TotalCells,
			result.Stats.FreeRegionCount,
			result.Stats.FreeRegionSizeMax,
			result.Fragmentation(),
		)
	}

	return errors.Wrap(table.Flush(), "writing comparison")
}

func writeStatistics(out io.Writer, output string, allocator *cellalloc.Allocator) error {
	if output == outputJSON {
		_, err := fmt.Fprintln(out, allocator.BuildStatsString(false))
		return errors.Wrap(err, "writing statistics")
	}

	stats := allocator.Statistics()
	_, err := fmt.Fprintln(out, report.FormatStatistics(&stats))
	return errors.Wrap(err, "writing statistics")
}
