package processor

import (
	"time"

	"github.com/nguyentantai21042004/echoflow/internal/config"
	"github.com/nguyentantai21042004/echoflow/internal/enricher"
	"github.com/nguyentantai21042004/echoflow/internal/logger"
	"github.com/nguyentantai21042004/echoflow/internal/pdfextract"
	"github.com/nguyentantai21042004/echoflow/internal/tools"
)

type implProcessor struct {
	cfg       *config.Config
	tools     tools.Tools
	extractor pdfextract.Extractor
	enricher  enricher.Enricher
	logger    logger.Logger
	now       func() time.Time
}

// New creates a Processor. extractor is used in builtin PDF mode and
// enricher for the check right after a transcript is written; either may
// be nil.
func New(cfg *config.Config, t tools.Tools, extractor pdfextract.Extractor, enr enricher.Enricher, log logger.Logger) Processor {
	return &implProcessor{
		cfg:       cfg,
		tools:     t,
		extractor: extractor,
		enricher:  enr,
		logger:    log,
		now:       time.Now,
	}
}
