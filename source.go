package curate

import "context"

// Source materializes the full ordered document sequence before curation
// begins. Produce is called exactly once per run; each string is a
// self-contained, human-readable description of one item to curate.
type Source interface {
	Produce(ctx context.Context) ([]string, error)
}
