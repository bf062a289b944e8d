package enricher

import (
	"github.com/nguyentantai21042004/echoflow/internal/classifier"
	"github.com/nguyentantai21042004/echoflow/internal/config"
	"github.com/nguyentantai21042004/echoflow/internal/logger"
)

type implEnricher struct {
	outputDir    string
	vaultRoot    string
	promptFile   string
	requiredKeys []string
	classifier   classifier.Classifier
	logger       logger.Logger
}

// New creates an Enricher. A nil classifier makes every incomplete note
// end as skipped_no_key.
func New(cfg *config.Config, c classifier.Classifier, log logger.Logger) Enricher {
	return &implEnricher{
		outputDir:    cfg.Paths.Output,
		vaultRoot:    cfg.Paths.VaultRoot,
		promptFile:   cfg.LLM.PromptFile,
		requiredKeys: cfg.Enrichment.RequiredKeys,
		classifier:   c,
		logger:       log,
	}
}
