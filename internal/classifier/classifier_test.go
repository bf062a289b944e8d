package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nguyentantai21042004/echoflow/internal/config"
	"github.com/nguyentantai21042004/echoflow/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenRouter(t *testing.T, url string, timeout time.Duration) Classifier {
	t.Helper()
	c, err := New(config.LLMConfig{
		Provider: config.ProviderOpenRouter,
		APIKey:   "sk-test",
		Model:    "test/model",
		BaseURL:  url + "/",
		Timeout:  timeout,
	}, config.ProxyConfig{}, logger.Nop())
	require.NoError(t, err)
	return c
}

func answer(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"choices": []interface{}{
			map[string]interface{}{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func TestOpenRouterClassify(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "EchoFlow Metadata Processor", r.Header.Get("X-Title"))
		assert.NotEmpty(t, r.Header.Get("HTTP-Referer"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(answer(`{"проект": "Echo", "клиент": "ACME"}`)))
	}))
	defer srv.Close()

	out, err := newOpenRouter(t, srv.URL, time.Second).Classify(context.Background(), "sys", "note body")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"проект": "Echo", "клиент": "ACME"}, out)

	assert.Equal(t, "test/model", got["model"])
	assert.Equal(t, map[string]interface{}{"type": "json_object"}, got["response_format"])
	messages, ok := got["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "sys", messages[0].(map[string]interface{})["content"])
	assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])
	assert.Equal(t, "note body", messages[1].(map[string]interface{})["content"])
}

func TestOpenRouterErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		rateLimited bool
		notObject   bool
	}{
		{name: "status 429", status: http.StatusTooManyRequests, body: `{"error":{"message":"slow down"}}`, rateLimited: true},
		{name: "in-body 429", status: http.StatusOK, body: `{"error":{"message":"Rate limit exceeded","code":429}}`, rateLimited: true},
		{name: "in-body other error", status: http.StatusOK, body: `{"error":{"message":"bad model","code":400}}`},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "array answer", status: http.StatusOK, body: answer(`["a","b"]`), notObject: true},
		{name: "prose answer", status: http.StatusOK, body: answer(`I think the project is X`), notObject: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newOpenRouter(t, srv.URL, time.Second).Classify(context.Background(), "sys", "user")
			require.Error(t, err)
			assert.Equal(t, tt.rateLimited, errors.Is(err, ErrRateLimited))
			assert.Equal(t, tt.notObject, errors.Is(err, ErrNotObject))
		})
	}
}

func TestOpenRouterTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := newOpenRouter(t, srv.URL, 50*time.Millisecond).Classify(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited))
	assert.Contains(t, err.Error(), "timed out")
}

func TestParseObject(t *testing.T) {
	out, err := parseObject("```json\n{\"группа\": \"work\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "work", out["группа"])

	_, err = parseObject("null")
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(config.LLMConfig{Provider: config.ProviderOpenRouter}, config.ProxyConfig{}, logger.Nop())
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestNewHTTPClientProxy(t *testing.T) {
	tests := []struct {
		name    string
		proxy   config.ProxyConfig
		wantErr bool
	}{
		{name: "none", proxy: config.ProxyConfig{}},
		{name: "http with credentials", proxy: config.ProxyConfig{Scheme: "http", Host: "10.0.0.1", Port: "3128", User: "u", Pass: "p"}},
		{name: "socks5", proxy: config.ProxyConfig{Scheme: "socks5", Host: "10.0.0.1", Port: "1080"}},
		{name: "unknown scheme", proxy: config.ProxyConfig{Scheme: "ftp", Host: "10.0.0.1", Port: "21"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newHTTPClient(tt.proxy)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c.Transport)
		})
	}
}

func TestHTTPProxyURL(t *testing.T) {
	c, err := newHTTPClient(config.ProxyConfig{Scheme: "http", Host: "10.0.0.1", Port: "3128", User: "u", Pass: "p"})
	require.NoError(t, err)

	tr := c.Transport.(*http.Transport)
	req := httptest.NewRequest(http.MethodGet, "https://openrouter.ai/api/v1", nil)
	u, err := tr.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "http://u:p@10.0.0.1:3128", u.String())
}

func TestGeminiRotatesKeys(t *testing.T) {
	var calls []string
	g := &implGemini{
		apiKeys: []string{"k1", "k2", "k3"},
		timeout: time.Second,
		logger:  logger.Nop(),
	}
	g.generate = func(_ context.Context, key, _, _ string) (string, error) {
		calls = append(calls, key)
		if key == "k3" {
			return `{"проект": "X"}`, nil
		}
		return "", errors.New("Error 429, RESOURCE_EXHAUSTED")
	}

	out, err := g.Classify(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "X", out["проект"])
	assert.Equal(t, []string{"k1", "k2", "k3"}, calls)
	assert.Equal(t, 2, g.currentKey)
}

func TestGeminiAllKeysExhausted(t *testing.T) {
	g := &implGemini{apiKeys: []string{"k1", "k2"}, timeout: time.Second, logger: logger.Nop()}
	g.generate = func(context.Context, string, string, string) (string, error) {
		return "", errors.New("quota exceeded")
	}

	_, err := g.Classify(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestGeminiOtherErrorStops(t *testing.T) {
	calls := 0
	g := &implGemini{apiKeys: []string{"k1", "k2"}, timeout: time.Second, logger: logger.Nop()}
	g.generate = func(context.Context, string, string, string) (string, error) {
		calls++
		return "", errors.New("invalid argument")
	}

	_, err := g.Classify(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, calls)
}
