package mirror

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/echoflow/internal/config"
	"github.com/nguyentantai21042004/echoflow/internal/logger"
)

func newTestMirror(t *testing.T) (*implMirror, string, string) {
	t.Helper()
	src, dst := t.TempDir(), t.TempDir()
	cfg := &config.Config{
		Paths:  config.PathsConfig{Input: dst},
		Watch:  config.WatchConfig{MinFileSizeKB: 1},
		Mirror: config.MirrorConfig{Source: src, Extensions: []string{".wav"}, Delay: 10 * time.Millisecond},
	}
	m, err := New(cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { m.Stop() })
	return m.(*implMirror), src, dst
}

func TestNewRequiresSource(t *testing.T) {
	_, err := New(&config.Config{}, logger.Nop())
	assert.Error(t, err)
}

func TestTempNameIgnoredByWatcher(t *testing.T) {
	g := glob.MustCompile("~*~*.tmp")
	assert.True(t, g.Match(tempPrefix+"rec.wav.tmp"))
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		size   int
		copied bool
	}{
		{"large wav", "rec.wav", 2048, true},
		{"upper-case extension", "REC.WAV", 2048, true},
		{"too small", "tiny.wav", 100, false},
		{"other extension", "notes.txt", 2048, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, src, dst := newTestMirror(t)
			path := filepath.Join(src, tt.file)
			require.NoError(t, os.WriteFile(path, make([]byte, tt.size), 0644))
			old := time.Now().Add(-time.Hour).Truncate(time.Second)
			require.NoError(t, os.Chtimes(path, old, old))

			m.handle(context.Background(), path)

			out := filepath.Join(dst, tt.file)
			if !tt.copied {
				assert.NoFileExists(t, out)
				return
			}
			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.Equal(t, int64(tt.size), info.Size())
			assert.True(t, info.ModTime().Equal(old))
			assert.FileExists(t, path)

			entries, err := os.ReadDir(dst)
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestRunCopiesNewFile(t *testing.T) {
	m, src, dst := newTestMirror(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(src, "rec.wav"), make([]byte, 2048), 0644))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dst, "rec.wav"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
