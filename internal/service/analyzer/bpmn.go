package analyzer

import (
	"context"

	"github.com/gitanalyzer/backend/internal/model"
	"github.com/gitanalyzer/backend/internal/pkg/githubapi"
	"github.com/gitanalyzer/backend/internal/pkg/llm"
)

const bpmnPrompt = `Generate BPMN (Business Process Model and Notation) diagrams:
1. Identify key business processes in the application
2. Map out process flows with start/end events, tasks, gateways
3. Show swimlanes for different actors/systems

Return in JSON format:
{
  "business_processes": [
    {
      "name": "Process Name",
      "description": "Process description",
      "steps": ["step1", "step2"]
    }
  ],
  "process_flows": ["BPMN notation or PlantUML"]
}`

// analyzeBPMN 生成 BPMN 业务流程图
func analyzeBPMN(ctx context.Context, provider llm.Provider, data *githubapi.RepositoryData) (*model.BPMNDiagrams, error) {
	content, err := generate(ctx, provider, data, bpmnPrompt)
	if err != nil {
		return nil, err
	}

	doc := &model.BPMNDiagrams{}
	decodeDocument(content, doc)

	if doc.BusinessProcesses == nil {
		doc.BusinessProcesses = []model.BusinessProcess{}
	}
	if doc.ProcessFlows == nil {
		doc.ProcessFlows = []string{}
	}
	return doc, nil
}
