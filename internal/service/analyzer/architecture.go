package analyzer

import (
	"context"

	"github.com/gitanalyzer/backend/internal/model"
	"github.com/gitanalyzer/backend/internal/pkg/githubapi"
	"github.com/gitanalyzer/backend/internal/pkg/llm"
)

const architecturePrompt = `Generate system architecture documentation in JSON format:
{
  "system_architecture": "detailed description",
  "component_diagram": "@startuml\n...\n@enduml",
  "deployment_diagram": "@startuml\n...\n@enduml",
  "erd_diagram": "@startuml\n...\n@enduml",
  "api_documentation": {},
  "technology_stack": {
    "frontend": [],
    "backend": [],
    "database": [],
    "infrastructure": []
  }
}

Generate comprehensive architecture documentation:

1. System Architecture Description:
   - High-level architecture overview
   - Key components and their interactions
   - Design patterns used
   - Architectural decisions and rationale

2. Component Diagram (PlantUML):
   - Show major components/modules
   - Dependencies between components
   - External systems/services

3. Deployment Diagram (PlantUML):
   - Infrastructure layout
   - Servers, databases, services
   - Network topology

4. ERD Diagram (PlantUML):
   - Database entities
   - Relationships
   - Key fields

5. API Documentation:
   - Endpoints
   - Request/response formats
   - Authentication

6. Technology Stack:
   - Frontend technologies
   - Backend technologies
   - Databases
   - Infrastructure & DevOps`

// analyzeArchitecture 生成架构文档
func analyzeArchitecture(ctx context.Context, provider llm.Provider, data *githubapi.RepositoryData) (*model.Architecture, error) {
	content, err := generate(ctx, provider, data, architecturePrompt)
	if err != nil {
		return nil, err
	}

	doc := &model.Architecture{}
	decodeDocument(content, doc)

	if doc.ComponentDiagram == "" {
		doc.ComponentDiagram = emptyDiagram
	}
	if doc.DeploymentDiagram == "" {
		doc.DeploymentDiagram = emptyDiagram
	}
	if doc.ERDDiagram == "" {
		doc.ERDDiagram = emptyDiagram
	}
	if doc.APIDocumentation == nil {
		doc.APIDocumentation = map[string]any{}
	}
	if doc.TechnologyStack == nil {
		doc.TechnologyStack = map[string][]string{
			"frontend":       {},
			"backend":        {},
			"database":       {},
			"infrastructure": {},
		}
	}
	return doc, nil
}
