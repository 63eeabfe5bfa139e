package curate

import (
	"context"
	"fmt"
	"strings"
)

// Instruction is the system instruction sent to the reasoning engine on
// every step.
const Instruction = `You are a paper curation agent that evaluates and curates papers based on their summaries according to user preferences and input.
You are provided with tools to search for similar papers, fetch wikipedia information and perform web searches.
You are required to perform a brief survey of related literature, and provide remarks in your final answer.`

// StepRequest carries everything the reasoning engine needs for one step.
type StepRequest struct {
	Preference string
	Document   string
	Trajectory Trajectory
	Tools      []ToolSpec
}

// Prompt renders the request as the engine's user prompt, including the
// transcript of the steps taken so far.
func (r StepRequest) Prompt() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "User preference:\n%s\n\n", r.Preference)
	fmt.Fprintf(&sb, "Paper information:\n%s\n", r.Document)
	if transcript := r.Trajectory.Transcript(); transcript != "" {
		fmt.Fprintf(&sb, "\nSteps so far:\n%s", transcript)
	}
	return sb.String()
}

// Engine produces reasoning steps. Implementations wrap a model
// provider; Step must return a ThoughtAction or FinalAnswer on every
// successful call, even though the underlying content is
// non-deterministic.
type Engine interface {
	Step(ctx context.Context, req StepRequest) (Step, error)
}
