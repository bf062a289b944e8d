package enricher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/echoflow/internal/frontmatter"
)

const contextFilesKey = "context_files"

const userPromptTemplate = `%sПроанализируй содержимое следующего файла и верни ТОЛЬКО JSON объект с метаданными ('группа', 'проект', 'клиент', 'событие/назначение'):

--- Начало содержимого файла ---
%s
--- Конец содержимого файла ---`

// loadPrompt returns the system prompt and the concatenated context files
// listed in the prompt's frontmatter.
func (e *implEnricher) loadPrompt(ctx context.Context) (string, string, error) {
	fm, body, err := frontmatter.ReadFile(e.promptFile)
	if err != nil && !errors.Is(err, frontmatter.ErrNoFrontmatter) && !errors.Is(err, frontmatter.ErrMalformed) {
		return "", "", err
	}

	raw, ok := fm.Get(contextFilesKey)
	if !ok || raw == nil {
		return strings.TrimSpace(body), "", nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return strings.TrimSpace(body), "", fmt.Errorf("%s in %s is not a list", contextFilesKey, filepath.Base(e.promptFile))
	}

	var b strings.Builder
	for _, item := range list {
		rel := fmt.Sprint(item)
		path := filepath.Join(e.vaultRoot, strings.TrimLeft(rel, `/\`))
		content, err := os.ReadFile(path)
		if err != nil {
			e.logger.Warn(ctx, "enricher: context file %s skipped: %v", rel, err)
			continue
		}
		fmt.Fprintf(&b, "--- Содержимое файла %s ---\n%s\n---\n\n", rel, content)
	}
	return strings.TrimSpace(body), strings.TrimSpace(b.String()), nil
}

func userPrompt(extra, body string) string {
	block := ""
	if extra != "" {
		block = "Дополнительный контекст:\n" + extra + "\n\n"
	}
	return fmt.Sprintf(userPromptTemplate, block, body)
}
