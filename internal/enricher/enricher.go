// Package enricher classifies vault notes with an LLM and merges the answer
// into their frontmatter.
package enricher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/echoflow/internal/classifier"
	"github.com/nguyentantai21042004/echoflow/internal/frontmatter"
)

func (e *implEnricher) CheckNote(ctx context.Context, path string) Result {
	res := Result{Note: path, RequiredKeys: e.requiredKeys}
	name := filepath.Base(path)

	content, err := os.ReadFile(path)
	if err != nil {
		e.logger.Error(ctx, "enricher: read %s: %v", name, err)
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}

	fm, body, err := frontmatter.Parse(content)
	switch {
	case err == nil:
	case errors.Is(err, frontmatter.ErrNoFrontmatter):
		e.logger.Debug(ctx, "enricher: %s has no frontmatter", name)
	default:
		e.logger.Warn(ctx, "enricher: skipping %s: %v", name, err)
		res.Outcome, res.Err = OutcomeSkippedMalformed, err
		return res
	}

	if fm.Has(frontmatter.KeyError) {
		res.Outcome = OutcomeSkippedErrorNote
		return res
	}

	res.MissingKeys = fm.Missing(e.requiredKeys)
	if len(res.MissingKeys) == 0 {
		res.Outcome = OutcomeSkippedComplete
		return res
	}

	if e.classifier == nil {
		e.logger.Warn(ctx, "enricher: %s lacks %s but no LLM api key is configured", name, strings.Join(res.MissingKeys, ", "))
		res.Outcome = OutcomeSkippedNoKey
		return res
	}

	system, extra, err := e.loadPrompt(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn(ctx, "enricher: prompt file not found: %s", e.promptFile)
			res.Outcome, res.Err = OutcomeSkippedNoPrompt, err
			return res
		}
		e.logger.Error(ctx, "enricher: load prompt: %v", err)
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}

	e.logger.Info(ctx, "enricher: classifying %s (missing %s)", name, strings.Join(res.MissingKeys, ", "))
	values, err := e.classifier.Classify(ctx, system, userPrompt(extra, body))
	if err != nil {
		if errors.Is(err, classifier.ErrRateLimited) {
			e.logger.Warn(ctx, "enricher: rate limited on %s: %v", name, err)
			res.Outcome, res.Err = OutcomeRateLimited, err
			return res
		}
		e.logger.Error(ctx, "enricher: classify %s: %v", name, err)
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}

	if err := fm.Merge(values); err != nil {
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}
	if err := frontmatter.WriteFile(path, fm, body); err != nil {
		e.logger.Error(ctx, "enricher: write %s: %v", name, err)
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}

	e.logger.Info(ctx, "enricher: updated %s", name)
	res.Outcome = OutcomeLLMInvoked
	return res
}

func (e *implEnricher) Sweep(ctx context.Context) SweepReport {
	var report SweepReport

	notes, err := e.listNotes()
	if err != nil {
		e.logger.Error(ctx, "enricher: list notes in %s: %v", e.outputDir, err)
		return report
	}
	e.logger.Info(ctx, "enricher: sweeping %d notes", len(notes))

	for _, note := range notes {
		if ctx.Err() != nil {
			break
		}
		res := e.CheckNote(ctx, note)
		report.Results = append(report.Results, res)
		if res.RateLimited() {
			e.logger.Warn(ctx, "enricher: sweep stopped at %s, resuming next cycle", filepath.Base(note))
			report.Aborted = true
			break
		}
	}

	e.logger.Info(ctx, "enricher: sweep done: %d updated, %d complete, %d failed",
		report.Count(OutcomeLLMInvoked), report.Count(OutcomeSkippedComplete), report.Count(OutcomeFailed))
	return report
}

// listNotes returns every Markdown file under the output directory in
// lexical order, skipping hidden entries.
func (e *implEnricher) listNotes() ([]string, error) {
	var notes []string
	err := filepath.WalkDir(e.outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != e.outputDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".md") {
			notes = append(notes, path)
		}
		return nil
	})
	return notes, err
}
