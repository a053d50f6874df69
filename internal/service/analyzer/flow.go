package analyzer

import (
	"context"

	"github.com/gitanalyzer/backend/internal/model"
	"github.com/gitanalyzer/backend/internal/pkg/githubapi"
	"github.com/gitanalyzer/backend/internal/pkg/llm"
)

const flowPrompt = `Generate flow diagrams:
1. User Journey Maps - showing user interactions and touchpoints
2. Data Flow Diagrams - showing how data moves through the system
3. System Flow - overall system interaction flow

Return in JSON format:
{
  "user_journey_maps": [
    {
      "persona": "User Type",
      "journey": "Description",
      "touchpoints": ["point1", "point2"],
      "pain_points": ["pain1"],
      "opportunities": ["opp1"]
    }
  ],
  "data_flow_diagrams": ["DFD notation or description"],
  "system_flow": "PlantUML or Mermaid diagram"
}`

// analyzeFlow 生成用户旅程与数据流图
func analyzeFlow(ctx context.Context, provider llm.Provider, data *githubapi.RepositoryData) (*model.FlowDiagrams, error) {
	content, err := generate(ctx, provider, data, flowPrompt)
	if err != nil {
		return nil, err
	}

	doc := &model.FlowDiagrams{}
	decodeDocument(content, doc)

	if doc.UserJourneyMaps == nil {
		doc.UserJourneyMaps = []model.UserJourney{}
	}
	if doc.DataFlowDiagrams == nil {
		doc.DataFlowDiagrams = []string{}
	}
	return doc, nil
}
