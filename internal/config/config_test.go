package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "same input and output",
			config: Config{
				Paths: PathsConfig{Input: "data", Output: "data"},
			},
			wantErr: true,
		},
		{
			name: "unknown pdf mode",
			config: Config{
				PDF: PDFConfig{Mode: "ocr"},
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			config: Config{
				LLM: LLMConfig{Provider: "anthropic"},
			},
			wantErr: true,
		},
		{
			name: "negative min size",
			config: Config{
				Watch: WatchConfig{MinFileSizeKB: -1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	root := t.TempDir()
	cfg := Config{Paths: PathsConfig{VaultRoot: root}}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, filepath.Join(root, "input"), cfg.Paths.Input)
	assert.Equal(t, filepath.Join(root, "output"), cfg.Paths.Output)
	assert.Equal(t, filepath.Join(root, "prompts", "autodetect.project.md"), cfg.LLM.PromptFile)
	assert.Equal(t, 5*time.Second, cfg.Watch.Interval)
	assert.Equal(t, int64(100*1024), cfg.Watch.MinFileSize())
	assert.Equal(t, PDFModeExternal, cfg.PDF.Mode)
	assert.Equal(t, ProviderOpenRouter, cfg.LLM.Provider)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, []string{"проект"}, cfg.Enrichment.RequiredKeys)
	assert.Equal(t, DefaultBoilerplatePatterns, cfg.PDF.BoilerplatePatterns)
	assert.True(t, cfg.Enrichment.IsEnabled())
	assert.Equal(t, []string{".wav"}, cfg.Mirror.Extensions)
	assert.Equal(t, time.Second, cfg.Mirror.Delay)
	assert.Empty(t, cfg.Mirror.Source)
}

func TestValidateMirror(t *testing.T) {
	root := t.TempDir()
	cfg := Config{
		Paths:  PathsConfig{VaultRoot: root},
		Mirror: MirrorConfig{Source: "recorder", Extensions: []string{"WAV", ".m4a"}},
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, filepath.Join(root, "recorder"), cfg.Mirror.Source)
	assert.Equal(t, []string{".wav", ".m4a"}, cfg.Mirror.Extensions)
}

func TestValidateKeepsAbsolutePaths(t *testing.T) {
	abs := t.TempDir()
	cfg := Config{Paths: PathsConfig{VaultRoot: t.TempDir(), Input: filepath.Join(abs, "in")}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, filepath.Join(abs, "in"), cfg.Paths.Input)
}

func TestApplyEnv(t *testing.T) {
	var cfg Config
	err := cfg.ApplyEnv(env(map[string]string{
		"INPUT_DIR":               "inbox",
		"CHECK_INTERVAL":          "7",
		"MIN_FILE_SIZE_KB":        "40",
		"OPENROUTER_API_KEY":      " sk-test ",
		"METADATA_CHECK_INTERVAL": "300",
		"PDF_USE_LLM":             "true",
		"PROXY_HOST":              "10.0.0.1",
		"MONITORED_DIR":           "/mnt/recorder",
	}))
	require.NoError(t, err)

	assert.Equal(t, "inbox", cfg.Paths.Input)
	assert.Equal(t, 7*time.Second, cfg.Watch.Interval)
	assert.Equal(t, int64(40), cfg.Watch.MinFileSizeKB)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 5*time.Minute, cfg.Enrichment.Interval)
	assert.True(t, cfg.PDF.UseLLM)
	assert.Equal(t, "10.0.0.1", cfg.Proxy.Host)
	assert.Equal(t, "/mnt/recorder", cfg.Mirror.Source)
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	var cfg Config
	assert.Error(t, cfg.ApplyEnv(env(map[string]string{"CHECK_INTERVAL": "soon"})))
	assert.Error(t, cfg.ApplyEnv(env(map[string]string{"PDF_USE_LLM": "maybe"})))
}

func TestLLMKeys(t *testing.T) {
	l := LLMConfig{APIKey: "a", APIKeys: []string{"b", "a", " ", "c"}}
	assert.Equal(t, []string{"a", "b", "c"}, l.Keys())
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "config.yaml")
	content := `
paths:
  vault_root: "` + root + `"
  input: "capture/input"
  output: "capture/output"

watch:
  interval: 2s
  min_file_size_kb: 50

transcriber:
  command: "run.bat"
  args: ["--diarize"]

llm:
  provider: gemini
  api_keys: ["k1", "k2"]

enrichment:
  enabled: false
  interval: 15m

logging:
  level: "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "capture", "input"), cfg.Paths.Input)
	assert.Equal(t, 2*time.Second, cfg.Watch.Interval)
	assert.Equal(t, int64(50), cfg.Watch.MinFileSizeKB)
	assert.Equal(t, "run.bat", cfg.Transcriber.Command)
	assert.Equal(t, []string{"--diarize"}, cfg.Transcriber.Args)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, []string{"k1", "k2"}, cfg.LLM.Keys())
	assert.False(t, cfg.Enrichment.IsEnabled())
	assert.Equal(t, 15*time.Minute, cfg.Enrichment.Interval)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	assert.Error(t, err, "Load() should return error for nonexistent file")
}
