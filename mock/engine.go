// Package mock provides test doubles for curate interfaces using
// function fields.
package mock

import (
	"context"

	"github.com/fwojciec/curate"
)

// Interface compliance check.
var _ curate.Engine = (*Engine)(nil)

// Engine is a test double for curate.Engine.
// Set StepFn before calling Step.
type Engine struct {
	StepFn func(ctx context.Context, req curate.StepRequest) (curate.Step, error)
}

// Step delegates to StepFn.
func (e *Engine) Step(ctx context.Context, req curate.StepRequest) (curate.Step, error) {
	return e.StepFn(ctx, req)
}
