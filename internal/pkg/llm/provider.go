package llm

import (
	"context"
	"fmt"

	"github.com/gitanalyzer/backend/config"
	"k8s.io/klog/v2"
)

// Provider LLM 提供商统一接口
// 无状态请求/响应，提供商差异只体现在调用的外部端点
type Provider interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NewProvider 按名称构造 LLM 提供商
// name 为空时使用配置的默认提供商；缺少对应 API Key 时构造失败
func NewProvider(cfg *config.Config, name string) (Provider, error) {
	if name == "" {
		name = cfg.AI.Provider
	}

	var provider Provider
	switch name {
	case "anthropic":
		if cfg.AI.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not configured")
		}
		provider = newAnthropicProvider(cfg)
	case "openai":
		if cfg.AI.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not configured")
		}
		provider = newOpenAIProvider(cfg)
	case "perplexity":
		if cfg.AI.PerplexityKey == "" {
			return nil, fmt.Errorf("PERPLEXITY_API_KEY not configured")
		}
		provider = newPerplexityProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", name)
	}

	klog.V(6).Infof("LLM provider 初始化完成: %s", name)
	return provider, nil
}

// SupportedProviders 返回支持的提供商名称列表
func SupportedProviders() []string {
	return []string{"anthropic", "openai", "perplexity"}
}

// IsSupportedProvider 判断提供商名称是否受支持
func IsSupportedProvider(name string) bool {
	for _, p := range SupportedProviders() {
		if p == name {
			return true
		}
	}
	return false
}
