package llm

import (
	"strings"
	"testing"

	"github.com/gitanalyzer/backend/config"
)

func testAIConfig() *config.Config {
	return &config.Config{
		AI: config.AIConfig{
			Provider:        "anthropic",
			AnthropicKey:    "anthropic-key",
			AnthropicModel:  "claude-3-5-sonnet-20241022",
			AnthropicAPIURL: "https://api.anthropic.com",
			OpenAIKey:       "openai-key",
			OpenAIModel:     "gpt-4-turbo-preview",
			PerplexityKey:   "pplx-key",
			PerplexityModel: "sonar-pro",
			MaxTokens:       8000,
			Temperature:     0.7,
		},
	}
}

func TestNewProviderByName(t *testing.T) {
	cfg := testAIConfig()

	for _, name := range SupportedProviders() {
		provider, err := NewProvider(cfg, name)
		if err != nil {
			t.Fatalf("provider %s failed: %v", name, err)
		}
		if provider.Name() != name {
			t.Fatalf("expected name %s, got %s", name, provider.Name())
		}
	}
}

func TestNewProviderDefaultsToConfigured(t *testing.T) {
	cfg := testAIConfig()
	cfg.AI.Provider = "openai"

	provider, err := NewProvider(cfg, "")
	if err != nil {
		t.Fatalf("provider failed: %v", err)
	}
	if provider.Name() != "openai" {
		t.Fatalf("expected openai, got %s", provider.Name())
	}
}

func TestNewProviderMissingKey(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(cfg *config.Config)
		want   string
	}{
		{"anthropic", func(cfg *config.Config) { cfg.AI.AnthropicKey = "" }, "ANTHROPIC_API_KEY"},
		{"openai", func(cfg *config.Config) { cfg.AI.OpenAIKey = "" }, "OPENAI_API_KEY"},
		{"perplexity", func(cfg *config.Config) { cfg.AI.PerplexityKey = "" }, "PERPLEXITY_API_KEY"},
	}

	for _, tc := range cases {
		cfg := testAIConfig()
		tc.mutate(cfg)

		_, err := NewProvider(cfg, tc.name)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("provider %s: expected %s error, got %v", tc.name, tc.want, err)
		}
	}
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(testAIConfig(), "grok")
	if err == nil || !strings.Contains(err.Error(), "unsupported AI provider") {
		t.Fatalf("expected unsupported provider error, got %v", err)
	}
}

func TestIsSupportedProvider(t *testing.T) {
	for _, name := range SupportedProviders() {
		if !IsSupportedProvider(name) {
			t.Fatalf("%s should be supported", name)
		}
	}
	if IsSupportedProvider("grok") {
		t.Fatal("grok should not be supported")
	}
}
