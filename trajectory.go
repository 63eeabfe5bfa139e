package curate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entry records one completed think/act cycle.
type Entry struct {
	Index       int
	Thought     string
	ToolName    string
	ToolArgs    json.RawMessage
	Observation string
}

// Trajectory is the chronological audit log of one document's reasoning
// steps. Append-only; entry indices are contiguous starting at 0. Scoped
// to a single document's processing.
type Trajectory []Entry

// Steps reports the number of completed think/act cycles.
func (t Trajectory) Steps() int { return len(t) }

// Transcript renders the trajectory as prompt text for the next
// reasoning step.
func (t Trajectory) Transcript() string {
	if len(t) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, e := range t {
		fmt.Fprintf(&sb, "Thought %d: %s\n", e.Index, e.Thought)
		if e.ToolName != "" {
			fmt.Fprintf(&sb, "Action %d: %s(%s)\n", e.Index, e.ToolName, string(e.ToolArgs))
		}
		fmt.Fprintf(&sb, "Observation %d: %s\n", e.Index, e.Observation)
	}
	return sb.String()
}
