package synth

import (
	"strings"
	"testing"

	"github.com/episteme-app/episteme/internal/model"
)

func TestNewProvider_Empty(t *testing.T) {
	provider, err := NewProvider(Config{Provider: ""})
	if err != nil {
		t.Fatalf("expected no error for empty provider, got %v", err)
	}
	if provider != nil {
		t.Error("expected nil provider when disabled")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "gemini-ultra"})
	if err == nil || !strings.Contains(err.Error(), "unknown LLM provider") {
		t.Errorf("expected unknown-provider error, got %v", err)
	}
}

func TestNewProvider_OpenAIRequiresKey(t *testing.T) {
	_, err := NewProvider(Config{Provider: "openai"})
	if err == nil || !strings.Contains(err.Error(), "API key") {
		t.Errorf("expected API key error, got %v", err)
	}
}

func TestNewProvider_AnthropicAlias(t *testing.T) {
	provider, err := NewProvider(Config{Provider: "claude", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if provider.Name() != "anthropic" {
		t.Errorf("expected anthropic provider, got %s", provider.Name())
	}
}

func TestNewProvider_Ollama(t *testing.T) {
	provider, err := NewProvider(Config{Provider: "ollama"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if provider.Name() != "ollama" {
		t.Errorf("expected ollama provider, got %s", provider.Name())
	}
}

func TestConfigFromModel(t *testing.T) {
	llmCfg := model.LLMConfig{
		Provider:  "openai",
		Model:     "gpt-4o",
		APIKey:    "sk-test",
		Timeout:   90,
		MaxTokens: 1500,
	}
	httpCfg := model.HTTPConfig{
		HTTPSProxy: "http://proxy:3128",
	}

	cfg := ConfigFromModel(llmCfg, httpCfg)

	if cfg.Provider != "openai" || cfg.Model != "gpt-4o" || cfg.APIKey != "sk-test" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Timeout != 90 || cfg.MaxTokens != 1500 {
		t.Errorf("unexpected limits: %+v", cfg)
	}
	if cfg.HTTPSProxy != "http://proxy:3128" {
		t.Errorf("unexpected proxy: %+v", cfg)
	}
}
