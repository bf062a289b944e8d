package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PDF conversion modes.
const (
	PDFModeExternal = "external"
	PDFModeBuiltin  = "builtin"
)

// Classifier providers.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

type Config struct {
	Paths       PathsConfig       `yaml:"paths"`
	Watch       WatchConfig       `yaml:"watch"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	PDF         PDFConfig         `yaml:"pdf"`
	LLM         LLMConfig         `yaml:"llm"`
	Enrichment  EnrichmentConfig  `yaml:"enrichment"`
	Proxy       ProxyConfig       `yaml:"proxy"`
	Export      ExportConfig      `yaml:"export"`
	Mirror      MirrorConfig      `yaml:"mirror"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type PathsConfig struct {
	VaultRoot string `yaml:"vault_root"`
	Input     string `yaml:"input"`
	Output    string `yaml:"output"`
}

type WatchConfig struct {
	Interval      time.Duration `yaml:"interval"`
	MinFileSizeKB int64         `yaml:"min_file_size_kb"`
	SettleDelay   time.Duration `yaml:"settle_delay"`
}

// MinFileSize returns the qualifying threshold in bytes.
func (w WatchConfig) MinFileSize() int64 {
	return w.MinFileSizeKB * 1024
}

type TranscriberConfig struct {
	Command        string   `yaml:"command"`
	Args           []string `yaml:"args"`
	FFprobe        string   `yaml:"ffprobe"`
	NoSpeechMarker string   `yaml:"no_speech_marker"`
}

type PDFConfig struct {
	Mode                string   `yaml:"mode"`
	Command             string   `yaml:"command"`
	UseLLM              bool     `yaml:"use_llm"`
	Model               string   `yaml:"model"`
	Workers             int      `yaml:"workers"`
	APIKey              string   `yaml:"api_key"`
	ExtraArgs           []string `yaml:"extra_args"`
	BoilerplatePatterns []string `yaml:"boilerplate_patterns"`
}

type LLMConfig struct {
	Provider   string        `yaml:"provider"`
	APIKey     string        `yaml:"api_key"`
	APIKeys    []string      `yaml:"api_keys"`
	Model      string        `yaml:"model"`
	BaseURL    string        `yaml:"base_url"`
	PromptFile string        `yaml:"prompt_file"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Keys returns every configured API key, single key first, without blanks or duplicates.
func (l LLMConfig) Keys() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, k := range append([]string{l.APIKey}, l.APIKeys...) {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

type EnrichmentConfig struct {
	Enabled      *bool         `yaml:"enabled"`
	Interval     time.Duration `yaml:"interval"`
	RequiredKeys []string      `yaml:"required_keys"`
}

// IsEnabled reports whether enrichment runs at all. Unset means enabled.
func (e EnrichmentConfig) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

type ProxyConfig struct {
	Scheme string `yaml:"scheme"`
	Host   string `yaml:"host"`
	Port   string `yaml:"port"`
	User   string `yaml:"user"`
	Pass   string `yaml:"pass"`
}

type ExportConfig struct {
	DOCX bool `yaml:"docx"`
}

// MirrorConfig drives "echoflow mirror", which copies recordings from a
// device folder into the input directory.
type MirrorConfig struct {
	Source     string        `yaml:"source"`
	Extensions []string      `yaml:"extensions"`
	Delay      time.Duration `yaml:"delay"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultBoilerplatePatterns are stripped from built-in PDF conversions.
var DefaultBoilerplatePatterns = []string{
	`Classified as Qarmet Internal Use.*`,
	`.*подписал\(а\).*\d{4}\.\d{2}\.\d{2}.*`,
}

// Load reads the YAML file at path, applies environment overrides and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds a configuration from environment variables only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fills defaults and resolves relative paths against the vault root.
func (c *Config) Validate() error {
	if c.Paths.VaultRoot == "" {
		c.Paths.VaultRoot = "."
	}
	root, err := filepath.Abs(c.Paths.VaultRoot)
	if err != nil {
		return fmt.Errorf("resolve paths.vault_root: %w", err)
	}
	c.Paths.VaultRoot = root

	if c.Paths.Input == "" {
		c.Paths.Input = "input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "output"
	}
	c.Paths.Input = c.resolve(c.Paths.Input)
	c.Paths.Output = c.resolve(c.Paths.Output)
	if c.Paths.Input == c.Paths.Output {
		return fmt.Errorf("paths.input and paths.output must differ")
	}

	if c.Watch.Interval <= 0 {
		c.Watch.Interval = 5 * time.Second
	}
	if c.Watch.MinFileSizeKB < 0 {
		return fmt.Errorf("watch.min_file_size_kb must not be negative")
	}
	if c.Watch.MinFileSizeKB == 0 {
		c.Watch.MinFileSizeKB = 100
	}
	if c.Watch.SettleDelay < 0 {
		c.Watch.SettleDelay = 0
	}

	if c.Transcriber.Command == "" {
		c.Transcriber.Command = "whisperx"
	}
	if c.Transcriber.FFprobe == "" {
		c.Transcriber.FFprobe = "ffprobe"
	}
	if c.Transcriber.NoSpeechMarker == "" {
		c.Transcriber.NoSpeechMarker = "No active speech found in audio"
	}

	switch c.PDF.Mode {
	case "":
		c.PDF.Mode = PDFModeExternal
	case PDFModeExternal, PDFModeBuiltin:
	default:
		return fmt.Errorf("pdf.mode must be %q or %q, got %q", PDFModeExternal, PDFModeBuiltin, c.PDF.Mode)
	}
	if c.PDF.Command == "" {
		c.PDF.Command = "marker_single"
	}
	if c.PDF.BoilerplatePatterns == nil {
		c.PDF.BoilerplatePatterns = DefaultBoilerplatePatterns
	}

	switch c.LLM.Provider {
	case "":
		c.LLM.Provider = ProviderOpenRouter
	case ProviderOpenRouter, ProviderGemini:
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderOpenRouter, ProviderGemini, c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		if c.LLM.Provider == ProviderGemini {
			c.LLM.Model = "gemini-2.5-flash"
		} else {
			c.LLM.Model = "mistralai/mistral-7b-instruct"
		}
	}
	if c.LLM.BaseURL == "" && c.LLM.Provider == ProviderOpenRouter {
		c.LLM.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.LLM.PromptFile == "" {
		c.LLM.PromptFile = "prompts/autodetect.project.md"
	}
	c.LLM.PromptFile = c.resolve(c.LLM.PromptFile)
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 60 * time.Second
	}

	if c.Enrichment.Interval < 0 {
		c.Enrichment.Interval = 0
	}
	if len(c.Enrichment.RequiredKeys) == 0 {
		c.Enrichment.RequiredKeys = []string{"проект"}
	}

	if c.Proxy.Scheme == "" {
		c.Proxy.Scheme = "http"
	}

	if c.Mirror.Source != "" {
		c.Mirror.Source = c.resolve(c.Mirror.Source)
	}
	if len(c.Mirror.Extensions) == 0 {
		c.Mirror.Extensions = []string{".wav"}
	}
	for i, ext := range c.Mirror.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Mirror.Extensions[i] = ext
	}
	if c.Mirror.Delay <= 0 {
		c.Mirror.Delay = time.Second
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Paths.VaultRoot, strings.TrimLeft(p, `/\`))
}
