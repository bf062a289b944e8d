package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/echoflow/internal/classifier"
	"github.com/nguyentantai21042004/echoflow/internal/config"
	"github.com/nguyentantai21042004/echoflow/internal/enricher"
	"github.com/nguyentantai21042004/echoflow/internal/logger"
)

const defaultConfigPath = "config.yaml"

// app holds what every command needs.
type app struct {
	cfg    *config.Config
	log    logger.Logger
	closer io.Closer
}

func (a *app) Close() {
	if a.closer != nil {
		a.closer.Close()
	}
}

// configFlag registers -config on fs.
func configFlag(fs *flag.FlagSet) *string {
	return fs.String("config", defaultConfigPath, "path to config.yaml (environment only when the default file is absent)")
}

// loadApp reads the configuration and builds the logger.
func loadApp(configPath string) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	if cfg.Logging.File != "" {
		a.log, a.closer, err = logger.NewWithFile(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			return nil, err
		}
	} else {
		a.log = logger.New(cfg.Logging.Level)
	}
	return a, nil
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		return config.FromEnv()
	}
	return nil, fmt.Errorf("load config: %w", err)
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// newEnricher wires the classifier into an enricher. Without an API key the
// enricher still runs and reports incomplete notes as skipped.
func newEnricher(ctx context.Context, a *app) (enricher.Enricher, error) {
	c, err := classifier.New(a.cfg.LLM, a.cfg.Proxy, a.log)
	switch {
	case errors.Is(err, classifier.ErrNoAPIKey):
		a.log.Warn(ctx, "No LLM API key configured, metadata enrichment will skip notes")
		c = nil
	case err != nil:
		return nil, fmt.Errorf("create classifier: %w", err)
	}
	return enricher.New(a.cfg, c, a.log), nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(a *app) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			a.log.Info(ctx, "Shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}
