package pdfextract

import (
	"github.com/nguyentantai21042004/echoflow/internal/logger"
)

type implExtractor struct {
	l       logger.Logger
	cleaner *Cleaner
}

// New returns an Extractor that strips lines matching boilerplate.
func New(l logger.Logger, boilerplate []string) (Extractor, error) {
	cleaner, err := NewCleaner(boilerplate)
	if err != nil {
		return nil, err
	}
	return &implExtractor{
		l:       l,
		cleaner: cleaner,
	}, nil
}
