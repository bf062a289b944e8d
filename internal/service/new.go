package service

import (
	"time"

	"github.com/nguyentantai21042004/echoflow/internal/config"
	"github.com/nguyentantai21042004/echoflow/internal/enricher"
	"github.com/nguyentantai21042004/echoflow/internal/logger"
	"github.com/nguyentantai21042004/echoflow/internal/processor"
	"github.com/nguyentantai21042004/echoflow/internal/watcher"
)

type implService struct {
	watcher       watcher.Watcher
	processor     processor.Processor
	enricher      enricher.Enricher
	pollInterval  time.Duration
	sweepInterval time.Duration
	logger        logger.Logger
	now           func() time.Time
	lastSweep     time.Time
}

// New creates a Service. A nil enricher, disabled enrichment or a zero
// enrichment interval turns the periodic sweep off.
func New(cfg *config.Config, w watcher.Watcher, p processor.Processor, e enricher.Enricher, log logger.Logger) Service {
	s := &implService{
		watcher:       w,
		processor:     p,
		enricher:      e,
		pollInterval:  cfg.Watch.Interval,
		sweepInterval: cfg.Enrichment.Interval,
		logger:        log,
		now:           time.Now,
	}
	if !cfg.Enrichment.IsEnabled() {
		s.enricher = nil
	}
	return s
}
