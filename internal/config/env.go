package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides file values with the environment variables the service
// has always recognised. Interval variables are whole seconds.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	seconds := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = time.Duration(n) * time.Second
		return nil
	}

	str("OBSIDIAN_VAULT_ROOT", &c.Paths.VaultRoot)
	str("INPUT_DIR", &c.Paths.Input)
	str("OUTPUT_DIR", &c.Paths.Output)

	if err := seconds("CHECK_INTERVAL", &c.Watch.Interval); err != nil {
		return err
	}
	if v, ok := lookup("MIN_FILE_SIZE_KB"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("MIN_FILE_SIZE_KB: %w", err)
		}
		c.Watch.MinFileSizeKB = n
	}

	str("WHISPER_COMMAND", &c.Transcriber.Command)

	if v, ok := lookup("PDF_USE_LLM"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PDF_USE_LLM: %w", err)
		}
		c.PDF.UseLLM = b
	}
	str("PDF_LLM_MODEL", &c.PDF.Model)
	if v, ok := lookup("PDF_WORKERS"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PDF_WORKERS: %w", err)
		}
		c.PDF.Workers = n
	}
	str("GEMINI_API_KEY", &c.PDF.APIKey)

	str("OPENROUTER_API_KEY", &c.LLM.APIKey)
	str("OPENROUTER_MODEL", &c.LLM.Model)
	str("PROMPT_FILE_PATH", &c.LLM.PromptFile)

	if err := seconds("METADATA_CHECK_INTERVAL", &c.Enrichment.Interval); err != nil {
		return err
	}

	str("MONITORED_DIR", &c.Mirror.Source)

	str("PROXY_HOST", &c.Proxy.Host)
	str("PROXY_PORT", &c.Proxy.Port)
	str("PROXY_USER", &c.Proxy.User)
	str("PROXY_PASS", &c.Proxy.Pass)

	return nil
}
