package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// moveFile renames src to dst, copying across filesystems when rename fails.
func (p *implProcessor) moveFile(ctx context.Context, src, dst string) error {
	p.logger.Info(ctx, "Moving original file to output directory: %s -> %s", filepath.Base(src), filepath.Base(dst))

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("move %s: %w", filepath.Base(src), err)
	}
	if err := os.Remove(src); err != nil {
		p.logger.Warn(ctx, "Copied %s but failed to remove the source: %v", filepath.Base(src), err)
	}
	return nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("write destination: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// writeNote writes data to path, logging the artifact on the session.
func (p *implProcessor) writeNote(s *Session, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	s.produced(path)
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// taken reports whether any of the names built from a candidate prefix is
// already present in dir.
func taken(dir string, names ...func(prefix string) string) func(string) bool {
	return func(prefix string) bool {
		for _, name := range names {
			if exists(filepath.Join(dir, name(prefix))) {
				return true
			}
		}
		return false
	}
}
