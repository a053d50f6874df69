package analyzer

import (
	"context"

	"github.com/gitanalyzer/backend/internal/model"
	"github.com/gitanalyzer/backend/internal/pkg/githubapi"
	"github.com/gitanalyzer/backend/internal/pkg/llm"
)

// 图表字段缺失时的占位内容
const emptyDiagram = "@startuml\n@enduml"

const umlPrompt = `Generate UML diagrams in JSON format with PlantUML syntax:
{
  "use_case_diagram": "@startuml\n...\n@enduml",
  "class_diagram": "@startuml\n...\n@enduml",
  "sequence_diagrams": [{"name": "...", "diagram": "@startuml\n...\n@enduml"}],
  "activity_diagrams": [{"name": "...", "diagram": "@startuml\n...\n@enduml"}]
}

Generate comprehensive UML diagrams in PlantUML syntax:
1. Use Case Diagram - showing actors and use cases
2. Class Diagram - showing main classes and relationships
3. Sequence Diagrams - showing key interactions
4. Activity Diagrams - showing workflows

Use proper PlantUML syntax with @startuml and @enduml tags.`

// analyzeUML 生成 UML 图表集合
func analyzeUML(ctx context.Context, provider llm.Provider, data *githubapi.RepositoryData) (*model.UMLDiagrams, error) {
	content, err := generate(ctx, provider, data, umlPrompt)
	if err != nil {
		return nil, err
	}

	doc := &model.UMLDiagrams{}
	decodeDocument(content, doc)

	if doc.UseCaseDiagram == "" {
		doc.UseCaseDiagram = emptyDiagram
	}
	if doc.ClassDiagram == "" {
		doc.ClassDiagram = emptyDiagram
	}
	if doc.SequenceDiagrams == nil {
		doc.SequenceDiagrams = []model.NamedDiagram{}
	}
	if doc.ActivityDiagrams == nil {
		doc.ActivityDiagrams = []model.NamedDiagram{}
	}
	return doc, nil
}
