package model

import "time"

// 各分析器产出的结构化文档
// 所有字段均有零值默认，LLM 响应缺失字段时按默认值补齐

// ScopeDocument 项目范围说明
type ScopeDocument struct {
	ProjectOverview string   `json:"project_overview"`
	Objectives      []string `json:"objectives"`
	ScopeIn         []string `json:"scope_in"`
	ScopeOut        []string `json:"scope_out"`
	Assumptions     []string `json:"assumptions"`
	Constraints     []string `json:"constraints"`
	Deliverables    []string `json:"deliverables"`
}

// NamedDiagram 带名称的图表（PlantUML/Mermaid 文本）
type NamedDiagram struct {
	Name    string `json:"name"`
	Diagram string `json:"diagram"`
}

// UMLDiagrams UML 图表集合
type UMLDiagrams struct {
	UseCaseDiagram   string         `json:"use_case_diagram"`
	ClassDiagram     string         `json:"class_diagram"`
	SequenceDiagrams []NamedDiagram `json:"sequence_diagrams"`
	ActivityDiagrams []NamedDiagram `json:"activity_diagrams"`
}

// BusinessProcess BPMN 业务流程
type BusinessProcess struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
}

// BPMNDiagrams BPMN 业务流程图
type BPMNDiagrams struct {
	BusinessProcesses []BusinessProcess `json:"business_processes"`
	ProcessFlows      []string          `json:"process_flows"`
}

// UserJourney 用户旅程
type UserJourney struct {
	Persona       string   `json:"persona"`
	Journey       string   `json:"journey"`
	Touchpoints   []string `json:"touchpoints"`
	PainPoints    []string `json:"pain_points"`
	Opportunities []string `json:"opportunities"`
}

// FlowDiagrams 流程图集合
type FlowDiagrams struct {
	UserJourneyMaps  []UserJourney `json:"user_journey_maps"`
	DataFlowDiagrams []string      `json:"data_flow_diagrams"`
	SystemFlow       string        `json:"system_flow"`
}

// BusinessAnalysis 商业分析
type BusinessAnalysis struct {
	SWOTAnalysis        map[string][]string `json:"swot_analysis"`
	ROIAnalysis         map[string]any      `json:"roi_analysis"`
	StakeholderAnalysis []map[string]string `json:"stakeholder_analysis"`
	MarketAnalysis      map[string]any      `json:"market_analysis"`
}

// Requirements 需求文档
type Requirements struct {
	FunctionalRequirements    []map[string]string `json:"functional_requirements"`
	NonFunctionalRequirements []map[string]string `json:"non_functional_requirements"`
	UserStories               []map[string]string `json:"user_stories"`
	AcceptanceCriteria        []map[string]string `json:"acceptance_criteria"`
}

// Architecture 架构文档
type Architecture struct {
	SystemArchitecture string              `json:"system_architecture"`
	ComponentDiagram   string              `json:"component_diagram"`
	DeploymentDiagram  string              `json:"deployment_diagram"`
	ERDDiagram         string              `json:"erd_diagram"`
	APIDocumentation   map[string]any      `json:"api_documentation"`
	TechnologyStack    map[string][]string `json:"technology_stack"`
}

// Reports 代码质量与分析报告
type Reports struct {
	CodeQualityScore    float64             `json:"code_quality_score"`
	CodeMetrics         map[string]any      `json:"code_metrics"`
	TechnicalDebt       map[string]any      `json:"technical_debt"`
	SecurityIssues      []map[string]string `json:"security_issues"`
	PerformanceAnalysis map[string]any      `json:"performance_analysis"`
	Recommendations     []string            `json:"recommendations"`
}

// AnalysisResults 一次分析作业的完整结果包
// 每个文档字段可为空（对应分析器未选择或执行失败）
// 作业进入 completed 后结果包不再变化，并整体落盘持久化
type AnalysisResults struct {
	AnalysisID    string            `json:"analysis_id"`
	RepositoryURL string            `json:"repository_url"`
	AnalyzedAt    time.Time         `json:"analyzed_at"`
	ScopeDocument *ScopeDocument    `json:"scope_document,omitempty"`
	UMLDiagrams   *UMLDiagrams      `json:"uml_diagrams,omitempty"`
	BPMNDiagrams  *BPMNDiagrams     `json:"bpmn_diagrams,omitempty"`
	FlowDiagrams  *FlowDiagrams     `json:"flow_diagrams,omitempty"`
	Business      *BusinessAnalysis `json:"business_analysis,omitempty"`
	Requirements  *Requirements     `json:"requirements,omitempty"`
	Architecture  *Architecture     `json:"architecture,omitempty"`
	Reports       *Reports          `json:"reports,omitempty"`
}
