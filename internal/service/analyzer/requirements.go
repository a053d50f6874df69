package analyzer

import (
	"context"

	"github.com/gitanalyzer/backend/internal/model"
	"github.com/gitanalyzer/backend/internal/pkg/githubapi"
	"github.com/gitanalyzer/backend/internal/pkg/llm"
)

const requirementsPrompt = `Generate comprehensive requirements documentation:

1. Functional Requirements:
   - What the system must do
   - Specific features and capabilities
   - Input/output specifications
   Format: [{"id": "FR-001", "title": "...", "description": "...", "priority": "high/medium/low"}]

2. Non-Functional Requirements:
   - Performance, security, usability
   - Scalability, reliability
   - Compliance requirements
   Format: [{"id": "NFR-001", "category": "performance", "description": "...", "metric": "..."}]

3. User Stories:
   - As a [role], I want to [action], so that [benefit]
   Format: [{"id": "US-001", "role": "user", "action": "...", "benefit": "...", "priority": "high"}]

4. Acceptance Criteria:
   - Testable conditions for each story
   Format: [{"story_id": "US-001", "criteria": "...", "test_case": "..."}]

Return in JSON format:
{
  "functional_requirements": [],
  "non_functional_requirements": [],
  "user_stories": [],
  "acceptance_criteria": []
}`

// analyzeRequirements 生成需求文档
func analyzeRequirements(ctx context.Context, provider llm.Provider, data *githubapi.RepositoryData) (*model.Requirements, error) {
	content, err := generate(ctx, provider, data, requirementsPrompt)
	if err != nil {
		return nil, err
	}

	doc := &model.Requirements{}
	decodeDocument(content, doc)

	if doc.FunctionalRequirements == nil {
		doc.FunctionalRequirements = []map[string]string{}
	}
	if doc.NonFunctionalRequirements == nil {
		doc.NonFunctionalRequirements = []map[string]string{}
	}
	if doc.UserStories == nil {
		doc.UserStories = []map[string]string{}
	}
	if doc.AcceptanceCriteria == nil {
		doc.AcceptanceCriteria = []map[string]string{}
	}
	return doc, nil
}
