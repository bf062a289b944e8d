// Package artifact tracks and cleans up intermediate transcription files.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Extensions the transcription engine may leave behind.
var Extensions = []string{".json", ".txt", ".srt", ".vtt", ".tsv"}

var mediaExtensions = map[string]bool{
	".wav": true, ".mp3": true, ".ogg": true, ".m4a": true, ".flac": true,
	".aac": true, ".opus": true, ".wma": true, ".pdf": true,
}

// Patterns returns the glob patterns matching byproducts of stem.
func Patterns(stem, timestamp string) []string {
	s := glob.QuoteMeta(stem)
	ts := glob.QuoteMeta(timestamp)

	var patterns []string
	for _, ext := range Extensions {
		e := glob.QuoteMeta(ext)
		patterns = append(patterns,
			s+e,
			s+".*"+e,
			s+"_*"+e,
		)
		if timestamp != "" {
			patterns = append(patterns, s+"_"+ts+"*"+e)
		}
	}
	return patterns
}

func (m *implManager) Track(path string) {
	m.tracked = append(m.tracked, filepath.Clean(path))
}

func (m *implManager) Find(stem, timestamp string, keep ...string) ([]string, error) {
	var globs []glob.Glob
	for _, p := range Patterns(stem, timestamp) {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid byproduct pattern '%s': %w", p, err)
		}
		globs = append(globs, g)
	}

	excluded := make(map[string]bool, len(keep))
	for _, k := range keep {
		excluded[filepath.Clean(k)] = true
	}

	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return nil, fmt.Errorf("list output dir: %w", err)
	}

	found := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		path := filepath.Join(m.outputDir, name)
		if excluded[path] || isProtected(name) {
			continue
		}
		for _, g := range globs {
			if g.Match(name) {
				found[path] = true
				break
			}
		}
	}
	for _, p := range m.tracked {
		if !excluded[p] && !isProtected(filepath.Base(p)) {
			found[p] = true
		}
	}

	files := make([]string, 0, len(found))
	for p := range found {
		files = append(files, p)
	}
	sort.Strings(files)
	return files, nil
}

func (m *implManager) Reconcile(files []string, finalCreated, noSpeech bool) Report {
	ctx := context.Background()
	report := Report{Failed: make(map[string]error)}

	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f), ".json") && !finalCreated && !noSpeech {
			m.l.Info(ctx, "artifact: preserving %s for debugging", filepath.Base(f))
			report.Preserved = append(report.Preserved, f)
			continue
		}

		err := os.Remove(f)
		switch {
		case err == nil:
			m.l.Debug(ctx, "artifact: deleted %s", filepath.Base(f))
			report.Deleted = append(report.Deleted, f)
		case errors.Is(err, fs.ErrNotExist):
			m.l.Debug(ctx, "artifact: %s no longer exists", filepath.Base(f))
		default:
			m.l.Warn(ctx, "artifact: failed to delete %s: %v", filepath.Base(f), err)
			report.Failed[f] = err
		}
	}
	return report
}

// RemoveIfExists deletes path and reports whether it existed.
func RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func isProtected(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || mediaExtensions[ext]
}
