package artifact

import (
	"github.com/nguyentantai21042004/echoflow/internal/logger"
)

type implManager struct {
	l         logger.Logger
	outputDir string
	tracked   []string
}

// New returns a Manager for one session writing into outputDir.
func New(l logger.Logger, outputDir string) Manager {
	return &implManager{
		l:         l,
		outputDir: outputDir,
	}
}
