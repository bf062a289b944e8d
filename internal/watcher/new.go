package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/nguyentantai21042004/echoflow/internal/logger"
)

// TempPattern matches partial files left by sync tools.
const TempPattern = "~*~*.tmp"

type implWatcher struct {
	inputDir    string
	minSize     int64
	settleDelay time.Duration
	tempGlob    glob.Glob
	logger      logger.Logger
	notifier    *fsnotify.Watcher
	seen        map[string]*File
	now         func() time.Time
}

// New creates a Watcher over inputDir.
func New(inputDir string, minSize int64, settleDelay time.Duration, log logger.Logger) (Watcher, error) {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := notifier.Add(inputDir); err != nil {
		notifier.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inputDir:    inputDir,
		minSize:     minSize,
		settleDelay: settleDelay,
		tempGlob:    glob.MustCompile(TempPattern),
		logger:      log,
		notifier:    notifier,
		seen:        make(map[string]*File),
		now:         time.Now,
	}, nil
}
