// Package agent drives one document through the think/act/observe cycle
// to a terminal verdict, under a hard iteration ceiling.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/curate"
)

// DefaultMaxIterations bounds the think/act cycles per document.
const DefaultMaxIterations = 5

// Loop orchestrates repeated reasoning steps, dispatching requested tool
// calls and feeding observations back until the engine produces a final
// answer or the iteration budget runs out.
type Loop struct {
	engine  curate.Engine
	tools   curate.Toolbox
	maxIter int
}

// Option configures a Loop.
type Option func(*Loop)

// WithMaxIterations sets the iteration ceiling. Values below 1 are
// ignored.
func WithMaxIterations(n int) Option {
	return func(l *Loop) {
		if n >= 1 {
			l.maxIter = n
		}
	}
}

// New creates a Loop with the given engine and toolbox.
func New(engine curate.Engine, tools curate.Toolbox, opts ...Option) *Loop {
	l := &Loop{engine: engine, tools: tools, maxIter: DefaultMaxIterations}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Evaluate runs one document to a verdict. The returned error is non-nil
// only when the engine itself fails; tool failures are folded into the
// trajectory as observations so the engine can adapt on the next step,
// and an exhausted budget yields a negative verdict rather than an error.
// The trajectory holds one entry per completed think/act cycle, in
// chronological order.
func (l *Loop) Evaluate(ctx context.Context, preference, document string) (curate.Verdict, curate.Trajectory, error) {
	var trajectory curate.Trajectory
	specs := l.tools.Specs()

	for iter := 0; iter < l.maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return curate.Verdict{}, trajectory, err
		}

		step, err := l.engine.Step(ctx, curate.StepRequest{
			Preference: preference,
			Document:   document,
			Trajectory: trajectory,
			Tools:      specs,
		})
		if err != nil {
			return curate.Verdict{}, trajectory, fmt.Errorf("engine step %d: %w", iter, err)
		}

		switch s := step.(type) {
		case curate.FinalAnswer:
			return curate.Verdict{Decision: s.Decision, Remarks: s.Remarks}, trajectory, nil
		case curate.ThoughtAction:
			trajectory = append(trajectory, curate.Entry{
				Index:       len(trajectory),
				Thought:     s.Thought,
				ToolName:    s.Call.Name,
				ToolArgs:    s.Call.Arguments,
				Observation: l.observe(ctx, s.Call),
			})
		default:
			return curate.Verdict{}, trajectory, fmt.Errorf("engine step %d: unexpected step type %T", iter, step)
		}
	}

	return curate.Verdict{
		Decision: false,
		Remarks:  fmt.Sprintf("iteration budget of %d exhausted before a final answer was produced", l.maxIter),
	}, trajectory, nil
}

// observe dispatches a tool call and renders its outcome. Failures become
// failure observations rather than errors: a single bad tool call must
// not sink the document's evaluation.
func (l *Loop) observe(ctx context.Context, call curate.ToolCall) string {
	snippets, err := l.tools.Invoke(ctx, call.Name, call.Arguments)
	if err != nil {
		return fmt.Sprintf("tool %q failed: %v", call.Name, err)
	}
	if len(snippets) == 0 {
		return "no results"
	}
	var sb strings.Builder
	for i, s := range snippets {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[%d] %s", i+1, s)
	}
	return sb.String()
}
