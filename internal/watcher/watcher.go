// Package watcher polls the input directory for audio and PDF captures.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

var supportedFormats = map[string]Kind{
	".wav":  KindAudio,
	".mp3":  KindAudio,
	".ogg":  KindAudio,
	".m4a":  KindAudio,
	".flac": KindAudio,
	".aac":  KindAudio,
	".opus": KindAudio,
	".wma":  KindAudio,
	".pdf":  KindPDF,
}

// KindOf returns the capture kind for path's extension.
func KindOf(path string) (Kind, bool) {
	k, ok := supportedFormats[strings.ToLower(filepath.Ext(path))]
	return k, ok
}

func (w *implWatcher) Scan(ctx context.Context) ([]File, error) {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return nil, fmt.Errorf("list input dir: %w", err)
	}

	present := make(map[string]bool, len(entries))
	var (
		candidates []File
		unsettled  = make(map[string]os.FileInfo)
	)

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Clean(filepath.Join(w.inputDir, e.Name()))
		present[path] = true

		if _, ok := w.seen[path]; ok {
			continue
		}
		if w.tempGlob.Match(e.Name()) {
			w.logger.Debug(ctx, "Ignoring temporary sync file: %s", e.Name())
			continue
		}
		kind, ok := KindOf(e.Name())
		if !ok {
			w.logger.Debug(ctx, "Ignoring unsupported file: %s", e.Name())
			continue
		}

		info, err := e.Info()
		if err != nil {
			w.logger.Warn(ctx, "Stat %s: %v", e.Name(), err)
			continue
		}
		if info.Size() < w.minSize {
			w.logger.Debug(ctx, "Skipping %s: %d bytes is below the %d byte minimum", e.Name(), info.Size(), w.minSize)
			continue
		}

		if w.settleDelay > 0 && w.now().Sub(info.ModTime()) < w.settleDelay {
			unsettled[path] = info
		}
		candidates = append(candidates, File{
			Path: path,
			Name: e.Name(),
			Ext:  strings.ToLower(filepath.Ext(e.Name())),
			Kind: kind,
			Size: info.Size(),
		})
	}

	w.forgetVanished(present)

	if len(unsettled) > 0 {
		if err := sleep(ctx, w.settleDelay); err != nil {
			return nil, err
		}
	}

	var files []File
	for _, f := range candidates {
		if before, ok := unsettled[f.Path]; ok {
			after, err := os.Stat(f.Path)
			if err != nil || after.Size() != before.Size() || !after.ModTime().Equal(before.ModTime()) {
				w.logger.Debug(ctx, "%s is still being written, retrying next cycle", f.Name)
				continue
			}
			f.Size = after.Size()
		}

		f.DiscoveredAt = w.now()
		f.Status = StatusPending
		record := f
		w.seen[f.Path] = &record

		w.logger.Info(ctx, "New file detected: %s (%d bytes)", f.Name, f.Size)
		files = append(files, f)
	}
	return files, nil
}

// forgetVanished drops finished entries whose file left the input directory,
// so a later file reusing the name is treated as new.
func (w *implWatcher) forgetVanished(present map[string]bool) {
	for path, f := range w.seen {
		if f.Status == StatusDone && !present[path] {
			delete(w.seen, path)
		}
	}
}

func (w *implWatcher) MarkDone(path string) {
	if f, ok := w.seen[filepath.Clean(path)]; ok {
		f.Status = StatusDone
	}
}

func (w *implWatcher) Wait(ctx context.Context, interval time.Duration) error {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	events, errs := w.notifier.Events, w.notifier.Errors
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-timer.C:
			return nil

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if _, supported := KindOf(event.Name); !supported || w.tempGlob.Match(filepath.Base(event.Name)) {
				continue
			}
			w.logger.Debug(ctx, "Wake-up on %s: %s", event.Op, filepath.Base(event.Name))
			return nil

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

func (w *implWatcher) Stop() error {
	return w.notifier.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
