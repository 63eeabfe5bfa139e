package driver

import (
	"fmt"
	"strings"

	"github.com/fwojciec/curate"
)

// renderReport formats one accepted document's report block. Blocks are
// self-contained and separated by a blank line, so a crash mid-run
// leaves a valid prefix on disk.
func renderReport(rec curate.Record, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Paper %d / %d\n", rec.Index, total)
	fmt.Fprintf(&sb, "## Information:\n%s\n\n", rec.Document)
	fmt.Fprintf(&sb, "## Remarks:\n%s\n", rec.Remarks)
	sb.WriteString("\n\n")
	return sb.String()
}

// renderTrajectory formats the audit block for one document. The step
// count is the number of completed think/act cycles.
func renderTrajectory(rec curate.Record, trajectory curate.Trajectory, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Trajectory: Paper %d / %d (%d steps)\n\n", rec.Index, total, trajectory.Steps())
	for _, e := range trajectory {
		fmt.Fprintf(&sb, "## Step %d\n", e.Index)
		fmt.Fprintf(&sb, "**Thought:** %s\n\n", e.Thought)
		if e.ToolName != "" {
			fmt.Fprintf(&sb, "**Tool:** %s(%s)\n\n", e.ToolName, string(e.ToolArgs))
		}
		if e.Observation != "" {
			fmt.Fprintf(&sb, "**Observation:** %s\n\n", e.Observation)
		}
	}
	fmt.Fprintf(&sb, "**Decision:** %t\n\n", rec.Decision)
	fmt.Fprintf(&sb, "**Remarks:** %s\n", rec.Remarks)
	sb.WriteString("\n\n")
	return sb.String()
}
