package mirror

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/echoflow/internal/config"
	"github.com/nguyentantai21042004/echoflow/internal/logger"
)

type implMirror struct {
	source     string
	dest       string
	extensions map[string]bool
	minSize    int64
	delay      time.Duration
	notifier   *fsnotify.Watcher
	logger     logger.Logger
}

// New creates a Mirror from cfg.Mirror into cfg.Paths.Input.
func New(cfg *config.Config, log logger.Logger) (Mirror, error) {
	if cfg.Mirror.Source == "" {
		return nil, fmt.Errorf("mirror.source (MONITORED_DIR) is not set")
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := notifier.Add(cfg.Mirror.Source); err != nil {
		notifier.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	exts := make(map[string]bool, len(cfg.Mirror.Extensions))
	for _, e := range cfg.Mirror.Extensions {
		exts[strings.ToLower(e)] = true
	}

	return &implMirror{
		source:     cfg.Mirror.Source,
		dest:       cfg.Paths.Input,
		extensions: exts,
		minSize:    cfg.Watch.MinFileSize(),
		delay:      cfg.Mirror.Delay,
		notifier:   notifier,
		logger:     log,
	}, nil
}
