package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gitanalyzer/backend/internal/model"
	"k8s.io/klog/v2"
)

// ExportService 把完成作业的结果包导出为下载文件
type ExportService struct {
	analysis  *AnalysisService
	exportDir string
}

func NewExportService(analysis *AnalysisService, exportDir string) *ExportService {
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		klog.Errorf("导出目录创建失败: dir=%s, error=%v", exportDir, err)
	}
	return &ExportService{analysis: analysis, exportDir: exportDir}
}

// SupportedFormats 返回支持的导出格式
func SupportedFormats() []string {
	return []string{"json", "markdown"}
}

// Export 渲染结果包并写入导出目录，返回文件内容与文件名
func (s *ExportService) Export(analysisID, format string) ([]byte, string, error) {
	results, err := s.analysis.GetResults(analysisID)
	if err != nil {
		return nil, "", err
	}

	var data []byte
	var filename string
	switch format {
	case "json":
		data, err = json.MarshalIndent(results, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("结果序列化失败: %v", err)
		}
		filename = fmt.Sprintf("analysis_%s.json", analysisID)
	case "markdown":
		data = []byte(renderMarkdown(results))
		filename = fmt.Sprintf("analysis_%s.md", analysisID)
	default:
		return nil, "", fmt.Errorf("unsupported export format: %s", format)
	}

	path := filepath.Join(s.exportDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, "", fmt.Errorf("导出文件写入失败: %v", err)
	}

	klog.V(6).Infof("导出完成: analysisID=%s, format=%s, file=%s", analysisID, format, path)
	return data, filename, nil
}

// ExportFile 返回已导出文件的路径，供下载接口使用
func (s *ExportService) ExportFile(analysisID, format string) (string, error) {
	var filename string
	switch format {
	case "json":
		filename = fmt.Sprintf("analysis_%s.json", analysisID)
	case "markdown":
		filename = fmt.Sprintf("analysis_%s.md", analysisID)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}

	path := filepath.Join(s.exportDir, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			// 未导出过则现场渲染一次
			if _, _, err := s.Export(analysisID, format); err != nil {
				return "", err
			}
			return path, nil
		}
		return "", err
	}
	return path, nil
}

func renderMarkdown(results *model.AnalysisResults) string {
	var b strings.Builder

	b.WriteString("# Repository Analysis Report\n\n")
	b.WriteString(fmt.Sprintf("- Repository: %s\n", results.RepositoryURL))
	b.WriteString(fmt.Sprintf("- Analysis ID: %s\n", results.AnalysisID))
	b.WriteString(fmt.Sprintf("- Analyzed At: %s\n\n", results.AnalyzedAt.Format("2006-01-02 15:04:05")))

	if doc := results.ScopeDocument; doc != nil {
		b.WriteString("## Project Scope\n\n")
		b.WriteString(doc.ProjectOverview + "\n\n")
		writeList(&b, "Objectives", doc.Objectives)
		writeList(&b, "In Scope", doc.ScopeIn)
		writeList(&b, "Out of Scope", doc.ScopeOut)
		writeList(&b, "Assumptions", doc.Assumptions)
		writeList(&b, "Constraints", doc.Constraints)
		writeList(&b, "Deliverables", doc.Deliverables)
	}

	if doc := results.UMLDiagrams; doc != nil {
		b.WriteString("## UML Diagrams\n\n")
		writeDiagram(&b, "Use Case Diagram", doc.UseCaseDiagram)
		writeDiagram(&b, "Class Diagram", doc.ClassDiagram)
		for _, d := range doc.SequenceDiagrams {
			writeDiagram(&b, "Sequence: "+d.Name, d.Diagram)
		}
		for _, d := range doc.ActivityDiagrams {
			writeDiagram(&b, "Activity: "+d.Name, d.Diagram)
		}
	}

	if doc := results.BPMNDiagrams; doc != nil {
		b.WriteString("## Business Processes\n\n")
		for _, p := range doc.BusinessProcesses {
			b.WriteString(fmt.Sprintf("### %s\n\n%s\n\n", p.Name, p.Description))
			writeList(&b, "Steps", p.Steps)
		}
		for _, f := range doc.ProcessFlows {
			writeDiagram(&b, "Process Flow", f)
		}
	}

	if doc := results.FlowDiagrams; doc != nil {
		b.WriteString("## Flow Diagrams\n\n")
		writeDiagram(&b, "System Flow", doc.SystemFlow)
		for _, d := range doc.DataFlowDiagrams {
			writeDiagram(&b, "Data Flow", d)
		}
		for _, j := range doc.UserJourneyMaps {
			b.WriteString(fmt.Sprintf("### Journey: %s\n\n%s\n\n", j.Persona, j.Journey))
			writeList(&b, "Touchpoints", j.Touchpoints)
			writeList(&b, "Pain Points", j.PainPoints)
			writeList(&b, "Opportunities", j.Opportunities)
		}
	}

	if doc := results.Business; doc != nil {
		b.WriteString("## Business Analysis\n\n")
		for name, items := range doc.SWOTAnalysis {
			writeList(&b, "SWOT "+name, items)
		}
		writeMap(&b, "ROI Analysis", doc.ROIAnalysis)
		writeMap(&b, "Market Analysis", doc.MarketAnalysis)
	}

	if doc := results.Requirements; doc != nil {
		b.WriteString("## Requirements\n\n")
		writeMapList(&b, "Functional Requirements", doc.FunctionalRequirements)
		writeMapList(&b, "Non-Functional Requirements", doc.NonFunctionalRequirements)
		writeMapList(&b, "User Stories", doc.UserStories)
		writeMapList(&b, "Acceptance Criteria", doc.AcceptanceCriteria)
	}

	if doc := results.Architecture; doc != nil {
		b.WriteString("## Architecture\n\n")
		if doc.SystemArchitecture != "" {
			b.WriteString(doc.SystemArchitecture + "\n\n")
		}
		writeDiagram(&b, "Component Diagram", doc.ComponentDiagram)
		writeDiagram(&b, "Deployment Diagram", doc.DeploymentDiagram)
		writeDiagram(&b, "ERD Diagram", doc.ERDDiagram)
		for layer, items := range doc.TechnologyStack {
			writeList(&b, "Stack: "+layer, items)
		}
	}

	if doc := results.Reports; doc != nil {
		b.WriteString("## Reports\n\n")
		b.WriteString(fmt.Sprintf("Code Quality Score: %.1f\n\n", doc.CodeQualityScore))
		writeMap(&b, "Code Metrics", doc.CodeMetrics)
		writeMap(&b, "Technical Debt", doc.TechnicalDebt)
		writeMapList(&b, "Security Issues", doc.SecurityIssues)
		writeMap(&b, "Performance Analysis", doc.PerformanceAnalysis)
		writeList(&b, "Recommendations", doc.Recommendations)
	}

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("### %s\n\n", title))
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n")
}

func writeDiagram(b *strings.Builder, title, diagram string) {
	if diagram == "" {
		return
	}
	b.WriteString(fmt.Sprintf("### %s\n\n```\n%s\n```\n\n", title, diagram))
}

func writeMap(b *strings.Builder, title string, m map[string]any) {
	if len(m) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("### %s\n\n", title))
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return
	}
	b.WriteString("```json\n" + string(data) + "\n```\n\n")
}

func writeMapList(b *strings.Builder, title string, items []map[string]string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("### %s\n\n", title))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			continue
		}
		b.WriteString("- " + string(data) + "\n")
	}
	b.WriteString("\n")
}
