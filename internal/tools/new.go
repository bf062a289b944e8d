package tools

import (
	"github.com/nguyentantai21042004/echoflow/internal/config"
	"github.com/nguyentantai21042004/echoflow/internal/logger"
	"github.com/nguyentantai21042004/echoflow/pkg/executor"
)

type implTools struct {
	transcriber config.TranscriberConfig
	pdf         config.PDFConfig
	executor    executor.Executor
	logger      logger.Logger
}

// New creates a Tools instance running commands through exec.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Tools {
	return &implTools{
		transcriber: cfg.Transcriber,
		pdf:         cfg.PDF,
		executor:    exec,
		logger:      log,
	}
}
