package synth

import (
	"context"

	"github.com/episteme-app/episteme/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Synthesize generates article prose from the evidence bundle
	Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SynthesizeRequest contains the input for article synthesis
type SynthesizeRequest struct {
	// Query is the normalized topic the article is about
	Query string

	// Entity is the resolved classification steering article structure
	Entity model.EntityClassification

	// Evidence is the rendered web-search bundle the model must ground on.
	// A degraded bundle switches the prompt to fallback mode.
	Evidence model.EvidenceBundle

	// Prompt is an optional custom user prompt (if empty, built from the
	// fields above)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SynthesizeResponse contains the generated article
type SynthesizeResponse struct {
	// Content is the generated article text
	Content string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for the overall synthesis call
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   110,
		MaxTokens: 2000,
	}
}
