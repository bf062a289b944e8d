// Package service runs the single-threaded capture loop.
package service

import (
	"context"
	"path/filepath"

	"github.com/nguyentantai21042004/echoflow/internal/enricher"
)

func (s *implService) Run(ctx context.Context) error {
	for {
		if err := s.cycle(ctx); err != nil {
			return err
		}
		if err := s.watcher.Wait(ctx, s.pollInterval); err != nil {
			return err
		}
	}
}

// cycle runs one loop iteration: a due sweep, then every new file in
// listing order.
func (s *implService) cycle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.sweepIfDue(ctx)

	files, err := s.watcher.Scan(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Error(ctx, "Error in main loop: %v", err)
		return nil
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		session := s.processor.Process(ctx, f.Path)
		s.watcher.MarkDone(f.Path)
		s.logger.Debug(ctx, "Session %s for %s ended %s", session.ID, filepath.Base(f.Path), session.Outcome)
	}
	return nil
}

func (s *implService) sweepIfDue(ctx context.Context) {
	if s.enricher == nil || s.sweepInterval <= 0 {
		return
	}
	now := s.now()
	if !s.lastSweep.IsZero() && now.Sub(s.lastSweep) < s.sweepInterval {
		return
	}
	s.lastSweep = now

	s.logger.Info(ctx, "Starting metadata sweep")
	report := s.enricher.Sweep(ctx)
	s.logger.Info(ctx, "Metadata sweep finished: %d notes checked, %d updated, %d failed",
		len(report.Results),
		report.Count(enricher.OutcomeLLMInvoked),
		report.Count(enricher.OutcomeFailed),
	)
	if report.Aborted {
		s.logger.Warn(ctx, "Metadata sweep stopped on a rate limit, resuming next interval")
	}
}
