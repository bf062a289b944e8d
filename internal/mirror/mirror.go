// Package mirror feeds the input directory from a recorder's sync folder.
package mirror

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// tempPrefix keeps in-flight copies out of the watcher's view until renamed.
const tempPrefix = "~echoflow~"

func (m *implMirror) Run(ctx context.Context) error {
	m.logger.Info(ctx, "Mirroring %s -> %s", m.source, m.dest)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-m.notifier.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				m.handle(ctx, event.Name)
			}

		case err, ok := <-m.notifier.Errors:
			if !ok {
				return nil
			}
			m.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

func (m *implMirror) Stop() error {
	return m.notifier.Close()
}

// handle copies path into the input directory once it has settled.
func (m *implMirror) handle(ctx context.Context, path string) {
	if !m.extensions[strings.ToLower(filepath.Ext(path))] {
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(m.delay):
	}

	info, err := os.Stat(path)
	if err != nil {
		m.logger.Error(ctx, "Error processing file %s: %v", path, err)
		return
	}
	if info.IsDir() {
		return
	}
	if info.Size() < m.minSize {
		m.logger.Info(ctx, "File %s is too small (%.2f KB < %.2f KB)", path, float64(info.Size())/1024, float64(m.minSize)/1024)
		return
	}

	dst := filepath.Join(m.dest, filepath.Base(path))
	m.logger.Info(ctx, "Copying %s (%.2f KB) to %s", path, float64(info.Size())/1024, dst)
	if err := copyInto(path, dst); err != nil {
		m.logger.Error(ctx, "Error processing file %s: %v", path, err)
		return
	}
	m.logger.Info(ctx, "Copied %s", filepath.Base(path))
}

// copyInto writes src to a temporary name beside dst, preserving the
// modification time, then renames it into place.
func copyInto(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(dst), tempPrefix+filepath.Base(dst)+".tmp")
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close destination: %w", err)
	}
	if err := os.Chtimes(tmp, info.ModTime(), info.ModTime()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("preserve times: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
