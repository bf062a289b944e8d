package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nguyentantai21042004/echoflow/internal/config"
	"github.com/nguyentantai21042004/echoflow/internal/enricher"
	"github.com/nguyentantai21042004/echoflow/internal/mirror"
	"github.com/nguyentantai21042004/echoflow/internal/pdfextract"
	"github.com/nguyentantai21042004/echoflow/internal/processor"
	"github.com/nguyentantai21042004/echoflow/internal/service"
	"github.com/nguyentantai21042004/echoflow/internal/tools"
	"github.com/nguyentantai21042004/echoflow/internal/watcher"
	"github.com/nguyentantai21042004/echoflow/pkg/executor"
)

func run(args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return runService(args)
	}

	switch args[0] {
	case "run":
		return runService(args[1:])
	case "enrich":
		return runEnrich(args[1:])
	case "sweep":
		return runSweep(args[1:])
	case "pdf2md":
		return runPDF2MD(args[1:])
	case "mirror":
		return runMirror(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("echoflow: turns recordings and PDFs into vault notes")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run       watch the input directory and process captures (default)")
	fmt.Println("  enrich    fill missing metadata in one note (--file)")
	fmt.Println("  sweep     fill missing metadata in every note under the output directory")
	fmt.Println("  pdf2md    convert a PDF with the built-in extractor: pdf2md <in.pdf> <out.md>")
	fmt.Println("  mirror    copy new recordings from mirror.source into the input directory")
	fmt.Println()
	fmt.Println("Every command accepts --config <path> (default config.yaml).")
}

func runService(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := loadApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg, log := a.cfg, a.log

	ctx, cancel := signalContext(a)
	defer cancel()

	log.Info(ctx, "========================================")
	log.Info(ctx, "EchoFlow capture service")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Vault root: %s", cfg.Paths.VaultRoot)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		return err
	}

	enr, err := newEnricher(ctx, a)
	if err != nil {
		return err
	}

	var extractor pdfextract.Extractor
	if cfg.PDF.Mode == config.PDFModeBuiltin {
		extractor, err = pdfextract.New(log, cfg.PDF.BoilerplatePatterns)
		if err != nil {
			return fmt.Errorf("create pdf extractor: %w", err)
		}
	}

	exec := executor.New()
	proc := processor.New(cfg, tools.New(cfg, exec, log), extractor, enr, log)

	w, err := watcher.New(cfg.Paths.Input, cfg.Watch.MinFileSize(), cfg.Watch.SettleDelay, log)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		return err
	}
	defer w.Stop()

	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Poll interval: %s, minimum file size: %d KB", cfg.Watch.Interval, cfg.Watch.MinFileSizeKB)
	log.Info(ctx, "PDF conversion: %s", cfg.PDF.Mode)
	if cfg.Enrichment.IsEnabled() && cfg.Enrichment.Interval > 0 {
		log.Info(ctx, "Metadata sweep every %s (%s)", cfg.Enrichment.Interval, cfg.LLM.Provider)
	} else {
		log.Info(ctx, "Periodic metadata sweep disabled")
	}
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	err = service.New(cfg, w, proc, enr, log).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "Service error: %v", err)
		return err
	}

	log.Info(ctx, "EchoFlow stopped")
	return nil
}

func runEnrich(args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ContinueOnError)
	configPath := configFlag(fs)
	file := fs.String("file", "", "note to check")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*file) == "" {
		fs.Usage()
		return errors.New("--file is required")
	}

	a, err := loadApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(a)
	defer cancel()

	enr, err := newEnricher(ctx, a)
	if err != nil {
		return err
	}

	res := enr.CheckNote(ctx, *file)
	printResult(res)
	if res.Outcome == enricher.OutcomeFailed {
		return res.Err
	}
	return nil
}

func runSweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	configPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := loadApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(a)
	defer cancel()

	enr, err := newEnricher(ctx, a)
	if err != nil {
		return err
	}

	report := enr.Sweep(ctx)
	for _, res := range report.Results {
		printResult(res)
	}
	fmt.Printf("checked: %d\n", len(report.Results))
	fmt.Printf("updated: %d\n", report.Count(enricher.OutcomeLLMInvoked))
	fmt.Printf("failed: %d\n", report.Count(enricher.OutcomeFailed))
	fmt.Printf("rate_limited: %t\n", report.Aborted)
	return nil
}

func printResult(res enricher.Result) {
	line := fmt.Sprintf("%s: %s", res.Note, res.Outcome)
	if len(res.MissingKeys) > 0 {
		line += " (missing " + strings.Join(res.MissingKeys, ", ") + ")"
	}
	if res.Err != nil {
		line += ": " + res.Err.Error()
	}
	fmt.Println(line)
}

func runPDF2MD(args []string) error {
	fs := flag.NewFlagSet("pdf2md", flag.ContinueOnError)
	configPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("usage: echoflow pdf2md <in.pdf> <out.md>")
	}
	in, out := fs.Arg(0), fs.Arg(1)

	a, err := loadApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(a)
	defer cancel()

	extractor, err := pdfextract.New(a.log, a.cfg.PDF.BoilerplatePatterns)
	if err != nil {
		return fmt.Errorf("create pdf extractor: %w", err)
	}
	if err := extractor.Convert(ctx, in, out); err != nil {
		return err
	}
	fmt.Printf("markdown: %s\n", filepath.Clean(out))
	return nil
}

func runMirror(args []string) error {
	fs := flag.NewFlagSet("mirror", flag.ContinueOnError)
	configPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := loadApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(a)
	defer cancel()

	if err := ensureDirectories(a.cfg); err != nil {
		return err
	}

	m, err := mirror.New(a.cfg, a.log)
	if err != nil {
		return err
	}
	defer m.Stop()

	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
