package llm

import (
	"context"
	"fmt"
	"strings"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Defaults applied when the configuration leaves them empty.
const (
	DefaultOpenAIModel    = "gpt-4"
	DefaultAnthropicModel = "claude-haiku-4-5-20251001"
	DefaultMaxTokens      = 1000
)

// Request is a single-turn chat completion request.
type Request struct {
	System    string
	User      string
	Model     string
	MaxTokens int
}

// Completer returns the assistant text for a chat completion request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	if strings.EqualFold(provider, ProviderAnthropic) {
		return DefaultAnthropicModel
	}
	return DefaultOpenAIModel
}

// New returns the Completer for provider. An empty baseURL uses the provider's
// public endpoint.
func New(provider, apiKey, baseURL string) (Completer, error) {
	switch strings.ToLower(provider) {
	case "", ProviderOpenAI:
		return NewOpenAIClient(apiKey, baseURL), nil
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey, baseURL), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s (use: %s, %s)", provider, ProviderOpenAI, ProviderAnthropic)
	}
}
