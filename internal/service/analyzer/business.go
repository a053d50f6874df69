package analyzer

import (
	"context"

	"github.com/gitanalyzer/backend/internal/model"
	"github.com/gitanalyzer/backend/internal/pkg/githubapi"
	"github.com/gitanalyzer/backend/internal/pkg/llm"
)

const businessPrompt = `Generate comprehensive business analysis:

1. SWOT Analysis:
   - Strengths: Internal positive attributes
   - Weaknesses: Internal limitations
   - Opportunities: External favorable conditions
   - Threats: External challenges

2. ROI Analysis:
   - Estimated development cost
   - Potential revenue/savings
   - Break-even timeline
   - Risk factors

3. Stakeholder Analysis:
   - Key stakeholders
   - Their interests and influence
   - Engagement strategy

4. Market Analysis:
   - Target market
   - Competition
   - Market trends

Return in JSON format:
{
  "swot_analysis": {"Strengths": [], "Weaknesses": [], "Opportunities": [], "Threats": []},
  "roi_analysis": {},
  "stakeholder_analysis": [{"name": "...", "interest": "...", "influence": "..."}],
  "market_analysis": {}
}`

// analyzeBusiness 生成商业分析文档
func analyzeBusiness(ctx context.Context, provider llm.Provider, data *githubapi.RepositoryData) (*model.BusinessAnalysis, error) {
	content, err := generate(ctx, provider, data, businessPrompt)
	if err != nil {
		return nil, err
	}

	doc := &model.BusinessAnalysis{}
	decodeDocument(content, doc)

	if doc.SWOTAnalysis == nil {
		doc.SWOTAnalysis = map[string][]string{
			"Strengths":     {},
			"Weaknesses":    {},
			"Opportunities": {},
			"Threats":       {},
		}
	}
	if doc.ROIAnalysis == nil {
		doc.ROIAnalysis = map[string]any{}
	}
	if doc.StakeholderAnalysis == nil {
		doc.StakeholderAnalysis = []map[string]string{}
	}
	if doc.MarketAnalysis == nil {
		doc.MarketAnalysis = map[string]any{}
	}
	return doc, nil
}
