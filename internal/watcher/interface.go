package watcher

import (
	"context"
	"time"
)

// Watcher discovers qualifying capture files in the input directory.
type Watcher interface {
	// Scan lists the input directory and returns files not dispatched
	// before, in listing order. Returned files are marked pending.
	Scan(ctx context.Context) ([]File, error)
	// MarkDone records that the file at path finished processing.
	MarkDone(path string)
	// Wait sleeps for interval, returning early when the input directory
	// reports a new or written file.
	Wait(ctx context.Context, interval time.Duration) error
	// Stop releases the filesystem notifier.
	Stop() error
}

// Kind is the capture type decided from the file extension.
type Kind string

const (
	KindAudio Kind = "audio"
	KindPDF   Kind = "pdf"
)

// Status tracks a file through one watcher run.
type Status string

const (
	StatusNew     Status = "new"
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// File is a qualifying capture found in the input directory.
type File struct {
	Path         string
	Name         string
	Ext          string
	Kind         Kind
	Size         int64
	DiscoveredAt time.Time
	Status       Status
}
