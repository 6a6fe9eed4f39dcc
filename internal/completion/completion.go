package completion

import (
	"context"
	"fmt"
)

// Roles used on the completion wire. Persona identity does not fit in three
// roles, so assistant turns carry a "Name: " content prefix added by the
// prompt builder and stripped again by the sanitizer.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged turn in a completion request.
type Message struct {
	Role    string
	Content string
}

// Request is one stateless completion call.
type Request struct {
	Messages    []Message
	Model       string
	Temperature float32
	MaxTokens   int
}

// Defaults applied when a Request leaves a field zero.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 400
)

// Client executes completion calls against one provider.
type Client interface {
	Name() string
	// Complete returns the generated text, already extracted from the
	// provider's transport envelope. Failures are returned, never panicked;
	// the orchestrator substitutes a fallback message per turn.
	Complete(ctx context.Context, req Request) (string, error)
}

// Config selects and credentials a provider for one client instance.
type Config struct {
	Provider string // "openai", "openrouter", or "anthropic"
	Model    string
	APIKey   string
	BaseURL  string // optional endpoint override
}

// NotConfiguredError reports a missing credential for a provider. It is
// detected before any network call so the session can degrade with a clear
// system message instead of an opaque transport failure.
type NotConfiguredError struct {
	Provider string
	EnvVar   string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("%s API key missing: set %s", e.Provider, e.EnvVar)
}

// EnvVar names the environment variable holding a provider's API key.
func EnvVar(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	}
	return ""
}

// NewClient creates a completion client by provider name.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIClient(cfg)
	case "openrouter":
		return newOpenRouterClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unknown completion provider %q: choose openai, openrouter, or anthropic", cfg.Provider)
	}
}
