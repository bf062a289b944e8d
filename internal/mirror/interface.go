package mirror

import "context"

// Mirror copies new recordings from a device folder into the input directory.
type Mirror interface {
	// Run copies files as they appear until ctx is cancelled.
	Run(ctx context.Context) error
	// Stop releases the filesystem notifier.
	Stop() error
}
