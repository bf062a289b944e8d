package processor

import "context"

// Processor runs one capture file through its pipeline.
type Processor interface {
	// Process never fails: every outcome is reported in the returned
	// Session and, for failures, in a Markdown report next to the notes.
	Process(ctx context.Context, path string) Session
}
