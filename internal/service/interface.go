package service

import "context"

// Service is the polling loop tying the watcher, the processor and the
// enrichment sweep together.
type Service interface {
	// Run loops until ctx is cancelled and then returns ctx.Err().
	Run(ctx context.Context) error
}
