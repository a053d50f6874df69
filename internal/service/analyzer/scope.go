package analyzer

import (
	"context"

	"github.com/gitanalyzer/backend/internal/model"
	"github.com/gitanalyzer/backend/internal/pkg/githubapi"
	"github.com/gitanalyzer/backend/internal/pkg/llm"
)

const scopePrompt = `Generate a comprehensive Project Scope Document in JSON format with the following structure:
{
  "project_overview": "detailed overview",
  "objectives": ["objective1", "objective2"],
  "scope_in": ["what's included"],
  "scope_out": ["what's excluded"],
  "assumptions": ["assumption1"],
  "constraints": ["constraint1"],
  "deliverables": ["deliverable1"]
}

Focus on:
- Clear project objectives and goals
- Detailed scope boundaries (in/out of scope)
- Realistic assumptions and constraints
- Concrete deliverables

Make it professional and actionable.`

// analyzeScope 生成项目范围说明文档
func analyzeScope(ctx context.Context, provider llm.Provider, data *githubapi.RepositoryData) (*model.ScopeDocument, error) {
	content, err := generate(ctx, provider, data, scopePrompt)
	if err != nil {
		return nil, err
	}

	doc := &model.ScopeDocument{}
	decodeDocument(content, doc)

	if doc.Objectives == nil {
		doc.Objectives = []string{}
	}
	if doc.ScopeIn == nil {
		doc.ScopeIn = []string{}
	}
	if doc.ScopeOut == nil {
		doc.ScopeOut = []string{}
	}
	if doc.Assumptions == nil {
		doc.Assumptions = []string{}
	}
	if doc.Constraints == nil {
		doc.Constraints = []string{}
	}
	if doc.Deliverables == nil {
		doc.Deliverables = []string{}
	}
	return doc, nil
}
