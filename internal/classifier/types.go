package classifier

import (
	"fmt"

	"github.com/openai/openai-go"
)

// Chat-completions wire types for OpenAI-compatible endpoints.

type chatRequest struct {
	Model          string                                   `json:"model"`
	Messages       []openai.ChatCompletionMessageParamUnion `json:"messages"`
	ResponseFormat *respFormat                              `json:"response_format,omitempty"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// apiError is the error object OpenRouter may return, sometimes with status 200.
// code is a number on OpenRouter and a string on some compatible servers.
type apiError struct {
	Message string      `json:"message"`
	Code    interface{} `json:"code"`
}

func (e *apiError) rateLimited() bool {
	switch c := e.Code.(type) {
	case float64:
		return c == 429
	case string:
		return c == "429" || c == "rate_limit_exceeded"
	}
	return false
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api error %v: %s", e.Code, e.Message)
}
