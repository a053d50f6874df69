package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gitanalyzer/backend/config"
	"k8s.io/klog/v2"
)

// anthropicProvider Anthropic Messages API 客户端
// 官方无 Go SDK，直接走 HTTP
type anthropicProvider struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float32
	client      *http.Client
}

func newAnthropicProvider(cfg *config.Config) *anthropicProvider {
	return &anthropicProvider{
		baseURL:     strings.TrimRight(cfg.AI.AnthropicAPIURL, "/"),
		apiKey:      cfg.AI.AnthropicKey,
		model:       cfg.AI.AnthropicModel,
		maxTokens:   cfg.AI.MaxTokens,
		temperature: cfg.AI.Temperature,
		client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (p *anthropicProvider) Name() string { return "anthropic" }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float32            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *anthropicProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	klog.V(6).Infof("Anthropic 请求: model=%s", p.model)

	reqBody := anthropicRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		System:      systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: userPrompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("anthropic api error: %s", apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}

	return apiResp.Content[0].Text, nil
}
