package analyzer

import (
	"context"

	"github.com/gitanalyzer/backend/internal/model"
	"github.com/gitanalyzer/backend/internal/pkg/githubapi"
	"github.com/gitanalyzer/backend/internal/pkg/llm"
)

// 模型未给出评分时的默认质量分
const defaultQualityScore = 75.0

const reportsSystemPrompt = "You are a code quality expert. Analyze the repository and provide detailed quality metrics. " +
	"Always respond with a single JSON object matching the requested structure."

const reportsPrompt = `Analyze the code quality and provide results in JSON format:
{
  "code_quality_score": 85.5,
  "code_metrics": {
    "maintainability_index": 75,
    "cyclomatic_complexity": "medium",
    "code_coverage": "unknown"
  },
  "technical_debt": {
    "estimated_days": 15,
    "priority_issues": []
  },
  "security_issues": [],
  "performance_analysis": {},
  "recommendations": []
}`

// analyzeReports 生成代码质量报告
// 该分析器使用质量专家角色的系统提示词，不走通用 generate
func analyzeReports(ctx context.Context, provider llm.Provider, data *githubapi.RepositoryData) (*model.Reports, error) {
	userPrompt := buildContext(data) + "\n\n" + reportsPrompt
	content, err := provider.Complete(ctx, reportsSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	doc := &model.Reports{}
	decodeDocument(content, doc)

	if doc.CodeQualityScore == 0 {
		doc.CodeQualityScore = defaultQualityScore
	}
	if doc.CodeMetrics == nil {
		doc.CodeMetrics = map[string]any{}
	}
	if doc.TechnicalDebt == nil {
		doc.TechnicalDebt = map[string]any{}
	}
	if doc.SecurityIssues == nil {
		doc.SecurityIssues = []map[string]string{}
	}
	if doc.PerformanceAnalysis == nil {
		doc.PerformanceAnalysis = map[string]any{}
	}
	if doc.Recommendations == nil {
		doc.Recommendations = []string{}
	}
	return doc, nil
}
