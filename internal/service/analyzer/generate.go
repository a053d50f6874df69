package analyzer

import (
	"context"
	"encoding/json"

	"github.com/gitanalyzer/backend/internal/pkg/githubapi"
	"github.com/gitanalyzer/backend/internal/pkg/llm"
	"github.com/gitanalyzer/backend/internal/utils"
	"k8s.io/klog/v2"
)

// generate 拼接上下文与任务提示词后调用 LLM
// 这里的错误只会是传输层/配额类错误，向上传播由编排层按局部失败处理
func generate(ctx context.Context, provider llm.Provider, data *githubapi.RepositoryData, taskPrompt string) (string, error) {
	userPrompt := buildContext(data) + "\n\n" + taskPrompt
	return provider.Complete(ctx, baseSystemPrompt, userPrompt)
}

// decodeDocument 宽容解析 LLM 响应
// 提取首个 JSON 对象反序列化到 out；完全不可解析时保持零值，由各分析器补默认值
// 解析失败不是错误：默认值兜底是契约的一部分
func decodeDocument(content string, out any) {
	raw := utils.ExtractJSON(content)
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		klog.Warningf("LLM响应不是合法JSON，使用默认值兜底: %v", err)
	}
}
