package mock

import (
	"context"
	"encoding/json"

	"github.com/fwojciec/curate"
)

// Interface compliance check.
var _ curate.Toolbox = (*Toolbox)(nil)

// Toolbox is a test double for curate.Toolbox.
// Set InvokeFn before calling Invoke. Specs returns SpecsFn's result, or
// nil when SpecsFn is not set, because most tests only exercise dispatch.
type Toolbox struct {
	InvokeFn func(ctx context.Context, name string, args json.RawMessage) ([]string, error)
	SpecsFn  func() []curate.ToolSpec
}

// Invoke delegates to InvokeFn.
func (t *Toolbox) Invoke(ctx context.Context, name string, args json.RawMessage) ([]string, error) {
	return t.InvokeFn(ctx, name, args)
}

// Specs delegates to SpecsFn. Returns nil when SpecsFn is not set.
func (t *Toolbox) Specs() []curate.ToolSpec {
	if t.SpecsFn == nil {
		return nil
	}
	return t.SpecsFn()
}
