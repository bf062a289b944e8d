package classifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/echoflow/internal/config"
	"github.com/nguyentantai21042004/echoflow/internal/logger"
)

const (
	referer = "http://localhost"
	title   = "EchoFlow Metadata Processor"
)

type implOpenRouter struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	logger     logger.Logger
}

type generateFunc func(ctx context.Context, key, system, user string) (string, error)

type implGemini struct {
	apiKeys    []string
	currentKey int
	model      string
	timeout    time.Duration
	httpClient *http.Client
	generate   generateFunc
	logger     logger.Logger
}

// New builds the classifier for the configured provider.
func New(llm config.LLMConfig, proxy config.ProxyConfig, log logger.Logger) (Classifier, error) {
	keys := llm.Keys()
	if len(keys) == 0 {
		return nil, ErrNoAPIKey
	}

	httpClient, err := newHTTPClient(proxy)
	if err != nil {
		return nil, err
	}

	switch llm.Provider {
	case config.ProviderGemini:
		g := &implGemini{
			apiKeys:    keys,
			model:      llm.Model,
			timeout:    llm.Timeout,
			httpClient: httpClient,
			logger:     log,
		}
		g.generate = g.callGemini
		return g, nil
	case config.ProviderOpenRouter, "":
		return &implOpenRouter{
			httpClient: httpClient,
			apiKey:     keys[0],
			baseURL:    strings.TrimRight(llm.BaseURL, "/"),
			model:      llm.Model,
			timeout:    llm.Timeout,
			logger:     log,
		}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", llm.Provider)
	}
}
