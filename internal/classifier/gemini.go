package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

func (g *implGemini) Classify(ctx context.Context, system, user string) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.generateWithRotation(ctx, system, user)
	if err != nil {
		return nil, err
	}
	return parseObject(text)
}

// generateWithRotation tries each key once, rotating on quota errors.
func (g *implGemini) generateWithRotation(ctx context.Context, system, user string) (string, error) {
	var lastErr error

	for range len(g.apiKeys) {
		key := g.apiKeys[g.currentKey]

		text, err := g.generate(ctx, key, system, user)
		if err == nil {
			return text, nil
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("classifier: timed out after %s: %w", g.timeout, err)
		}
		if !isQuotaError(err) {
			return "", fmt.Errorf("generate content: %w", err)
		}

		g.logger.Warn(ctx, "Key %d rate limited, rotating...", g.currentKey+1)
		g.rotateKey()
		lastErr = err
	}

	return "", fmt.Errorf("%w: all API keys exhausted: %v", ErrRateLimited, lastErr)
}

func (g *implGemini) callGemini(ctx context.Context, key, system, user string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		return text, nil
	}
	return "", fmt.Errorf("empty response from Gemini")
}

func (g *implGemini) rotateKey() {
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
