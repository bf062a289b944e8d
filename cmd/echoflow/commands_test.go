package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, root string) string {
	t.Helper()
	path := filepath.Join(root, "echoflow.yaml")
	content := "paths:\n  vault_root: \"" + root + "\"\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunUnknownCommand(t *testing.T) {
	assert.Error(t, run([]string{"transcode"}))
}

func TestRunHelp(t *testing.T) {
	assert.NoError(t, run([]string{"help"}))
}

func TestEnrichRequiresFile(t *testing.T) {
	assert.EqualError(t, run([]string{"enrich"}), "--file is required")
}

func TestPDF2MDArgs(t *testing.T) {
	assert.Error(t, run([]string{"pdf2md", "only-one.pdf"}))
}

func TestMissingExplicitConfig(t *testing.T) {
	err := run([]string{"sweep", "--config", filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}

func TestSweepWithoutAPIKey(t *testing.T) {
	root := t.TempDir()
	t.Setenv("OPENROUTER_API_KEY", "")
	cfgPath := writeConfig(t, root)

	out := filepath.Join(root, "output")
	require.NoError(t, os.MkdirAll(out, 0o755))
	note := filepath.Join(out, "a.md")
	original := "---\ncreated: 2025-01-02 10:00:00\n---\n\nbody\n"
	require.NoError(t, os.WriteFile(note, []byte(original), 0o644))

	require.NoError(t, run([]string{"sweep", "--config", cfgPath}))

	data, err := os.ReadFile(note)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestEnrichCompleteNote(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeConfig(t, root)
	note := filepath.Join(root, "done.md")
	require.NoError(t, os.WriteFile(note, []byte("---\nпроект: Эхо\n---\n\nbody\n"), 0o644))

	assert.NoError(t, run([]string{"enrich", "--config", cfgPath, "--file", note}))
}
