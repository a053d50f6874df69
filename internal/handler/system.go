package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gitanalyzer/backend/config"
	"github.com/gitanalyzer/backend/internal/pkg/llm"
	"github.com/gitanalyzer/backend/internal/service"
)

type SystemHandler struct {
	cfg       *config.Config
	startedAt time.Time
}

func NewSystemHandler(cfg *config.Config) *SystemHandler {
	return &SystemHandler{cfg: cfg, startedAt: time.Now()}
}

// Health 健康检查
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"uptime":  time.Since(h.startedAt).String(),
		"version": "1.0.0",
	})
}

// Providers 返回支持的 LLM 提供商及各自是否已配置可用
func (h *SystemHandler) Providers(c *gin.Context) {
	configured := map[string]bool{
		"anthropic":  h.cfg.AI.AnthropicKey != "",
		"openai":     h.cfg.AI.OpenAIKey != "",
		"perplexity": h.cfg.AI.PerplexityKey != "",
	}

	providers := make([]gin.H, 0, len(llm.SupportedProviders()))
	for _, name := range llm.SupportedProviders() {
		providers = append(providers, gin.H{
			"name":       name,
			"configured": configured[name],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"providers":        providers,
		"default_provider": h.cfg.AI.Provider,
		"export_formats":   service.SupportedFormats(),
	})
}
