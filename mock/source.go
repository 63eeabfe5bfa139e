package mock

import (
	"context"

	"github.com/fwojciec/curate"
)

// Interface compliance check.
var _ curate.Source = (*Source)(nil)

// Source is a test double for curate.Source.
// Set ProduceFn before calling Produce.
type Source struct {
	ProduceFn func(ctx context.Context) ([]string, error)
}

// Produce delegates to ProduceFn.
func (s *Source) Produce(ctx context.Context) ([]string, error) {
	return s.ProduceFn(ctx)
}
