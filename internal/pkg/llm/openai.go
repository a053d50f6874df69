package llm

import (
	"context"
	"fmt"

	"github.com/gitanalyzer/backend/config"
	openai "github.com/sashabaranov/go-openai"
	"k8s.io/klog/v2"
)

// openaiProvider OpenAI Chat Completions 客户端
// Perplexity 与 OpenAI 接口兼容，共用本实现，仅替换 BaseURL 与模型
type openaiProvider struct {
	name        string
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func newOpenAIProvider(cfg *config.Config) *openaiProvider {
	return &openaiProvider{
		name:        "openai",
		client:      openai.NewClient(cfg.AI.OpenAIKey),
		model:       cfg.AI.OpenAIModel,
		maxTokens:   cfg.AI.MaxTokens,
		temperature: cfg.AI.Temperature,
	}
}

func newPerplexityProvider(cfg *config.Config) *openaiProvider {
	clientCfg := openai.DefaultConfig(cfg.AI.PerplexityKey)
	clientCfg.BaseURL = "https://api.perplexity.ai"

	return &openaiProvider{
		name:        "perplexity",
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.AI.PerplexityModel,
		maxTokens:   cfg.AI.MaxTokens,
		temperature: cfg.AI.Temperature,
	}
}

func (p *openaiProvider) Name() string { return p.name }

func (p *openaiProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	klog.V(6).Infof("%s 请求: model=%s", p.name, p.model)

	messages := []openai.ChatCompletionMessage{}
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s api error: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", p.name)
	}
	return resp.Choices[0].Message.Content, nil
}
