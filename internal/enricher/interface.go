package enricher

import "context"

// Enricher fills missing classification keys in note frontmatter.
type Enricher interface {
	// CheckNote enriches one note if it lacks a required key.
	CheckNote(ctx context.Context, path string) Result
	// Sweep checks every note under the output directory and stops at the
	// first rate-limited call.
	Sweep(ctx context.Context) SweepReport
}
