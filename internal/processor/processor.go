// Package processor turns one capture file into vault notes.
package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/echoflow/internal/naming"
	"github.com/nguyentantai21042004/echoflow/internal/watcher"
)

func (p *implProcessor) Process(ctx context.Context, path string) (s Session) {
	startTime := p.now()
	s = Session{
		ID:        uuid.New().String(),
		Timestamp: naming.NewTimestamp(startTime),
		Source:    path,
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "[%s] Starting to process file: %s (session %s)", s.ID[:8], path, s.Timestamp)
	p.logger.Info(ctx, "========================================")

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(ctx, "[%s] Panic while processing %s: %v\n%s", s.ID[:8], path, r, debug.Stack())
			s.Outcome = OutcomeError
			s.Reason = fmt.Sprintf("panic: %v", r)
			p.writePanicReport(ctx, &s)
		}
	}()

	kind, ok := watcher.KindOf(path)
	if !ok {
		s.Outcome = OutcomeError
		s.Reason = fmt.Sprintf("unsupported file type %q", filepath.Ext(path))
		p.logger.Error(ctx, "[%s] %s", s.ID[:8], s.Reason)
		return s
	}
	s.Kind = kind

	var res StageResult
	switch kind {
	case watcher.KindAudio:
		res = p.processAudio(ctx, &s)
	case watcher.KindPDF:
		res = p.processPDF(ctx, &s)
	}
	s.Outcome = res.Outcome
	s.Reason = res.Reason

	elapsed := time.Since(startTime).Round(time.Millisecond)
	switch res.Outcome {
	case OutcomeSuccess:
		p.logger.Info(ctx, "[%s] File %s processed successfully: %s (%s)", s.ID[:8], filepath.Base(path), filepath.Base(res.Artifact), elapsed)
	case OutcomeNoSpeech:
		p.logger.Info(ctx, "[%s] File %s contains no speech. Created information note: %s", s.ID[:8], filepath.Base(path), filepath.Base(res.Artifact))
	default:
		p.logger.Error(ctx, "[%s] File %s processed with errors (%s). Report: %s", s.ID[:8], filepath.Base(path), res.Reason, filepath.Base(res.Artifact))
	}
	return s
}
