package completion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	requestTimeout    = 60 * time.Second
)

// openAIClient drives any chat-completions-shaped endpoint. OpenRouter
// speaks the same protocol, so both providers share this implementation and
// differ only in base URL, headers, and credential source.
type openAIClient struct {
	name   string
	client *openai.Client
	model  string
}

func newOpenAIClient(cfg Config) (*openAIClient, error) {
	if cfg.APIKey == "" {
		return nil, &NotConfiguredError{Provider: "openai", EnvVar: "OPENAI_API_KEY"}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: requestTimeout}

	return &openAIClient{
		name:   "openai",
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

func newOpenRouterClient(cfg Config) (*openAIClient, error) {
	if cfg.APIKey == "" {
		return nil, &NotConfiguredError{Provider: "openrouter", EnvVar: "OPENROUTER_API_KEY"}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = baseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: requestTimeout,
		Transport: &headerTransport{
			base: http.DefaultTransport,
			headers: map[string]string{
				"HTTP-Referer": "https://rflkt.app",
				"X-Title":      "RFLKT Warrior Chat",
			},
		},
	}

	return &openAIClient{
		name:   "openrouter",
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

func (c *openAIClient) Name() string { return c.name }

func (c *openAIClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s completion: empty choices", c.name)
	}

	return resp.Choices[0].Message.Content, nil
}

// headerTransport injects fixed headers on every request. OpenRouter uses
// them for app attribution.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}
