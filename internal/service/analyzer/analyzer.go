package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/gitanalyzer/backend/internal/model"
	"github.com/gitanalyzer/backend/internal/pkg/githubapi"
	"github.com/gitanalyzer/backend/internal/pkg/llm"
	"k8s.io/klog/v2"
)

// Kind 分析器种类，闭合枚举
type Kind string

const (
	KindScope        Kind = "scope"
	KindUML          Kind = "uml"
	KindBPMN         Kind = "bpmn"
	KindFlow         Kind = "flow"
	KindBusiness     Kind = "business"
	KindRequirements Kind = "requirements"
	KindArchitecture Kind = "architecture"
	KindReports      Kind = "reports"
)

// AllKinds 返回全部分析器种类（默认选择集）
func AllKinds() []Kind {
	return []Kind{
		KindScope,
		KindUML,
		KindBPMN,
		KindFlow,
		KindBusiness,
		KindRequirements,
		KindArchitecture,
		KindReports,
	}
}

// ParseKind 解析分析器名称
func ParseKind(s string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range AllKinds() {
		if k == kind {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown analyzer kind: %s", s)
}

// ParseKinds 解析逗号分隔的分析器列表，空串返回全部
func ParseKinds(s string) ([]Kind, error) {
	if strings.TrimSpace(s) == "" {
		return AllKinds(), nil
	}

	var kinds []Kind
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		kind, err := ParseKind(part)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// JoinKinds 序列化分析器列表（存库用）
func JoinKinds(kinds []Kind) string {
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, string(k))
	}
	return strings.Join(parts, ",")
}

// runner 执行一种分析并把产出文档挂到结果包的对应字段
type runner func(ctx context.Context, provider llm.Provider, data *githubapi.RepositoryData, results *model.AnalysisResults) error

// kindRunners 分析器种类到执行函数的映射
// 编排层只查表，不对任何种类做特判
var kindRunners = map[Kind]runner{
	KindScope: func(ctx context.Context, p llm.Provider, d *githubapi.RepositoryData, r *model.AnalysisResults) error {
		doc, err := analyzeScope(ctx, p, d)
		if err != nil {
			return err
		}
		r.ScopeDocument = doc
		return nil
	},
	KindUML: func(ctx context.Context, p llm.Provider, d *githubapi.RepositoryData, r *model.AnalysisResults) error {
		doc, err := analyzeUML(ctx, p, d)
		if err != nil {
			return err
		}
		r.UMLDiagrams = doc
		return nil
	},
	KindBPMN: func(ctx context.Context, p llm.Provider, d *githubapi.RepositoryData, r *model.AnalysisResults) error {
		doc, err := analyzeBPMN(ctx, p, d)
		if err != nil {
			return err
		}
		r.BPMNDiagrams = doc
		return nil
	},
	KindFlow: func(ctx context.Context, p llm.Provider, d *githubapi.RepositoryData, r *model.AnalysisResults) error {
		doc, err := analyzeFlow(ctx, p, d)
		if err != nil {
			return err
		}
		r.FlowDiagrams = doc
		return nil
	},
	KindBusiness: func(ctx context.Context, p llm.Provider, d *githubapi.RepositoryData, r *model.AnalysisResults) error {
		doc, err := analyzeBusiness(ctx, p, d)
		if err != nil {
			return err
		}
		r.Business = doc
		return nil
	},
	KindRequirements: func(ctx context.Context, p llm.Provider, d *githubapi.RepositoryData, r *model.AnalysisResults) error {
		doc, err := analyzeRequirements(ctx, p, d)
		if err != nil {
			return err
		}
		r.Requirements = doc
		return nil
	},
	KindArchitecture: func(ctx context.Context, p llm.Provider, d *githubapi.RepositoryData, r *model.AnalysisResults) error {
		doc, err := analyzeArchitecture(ctx, p, d)
		if err != nil {
			return err
		}
		r.Architecture = doc
		return nil
	},
	KindReports: func(ctx context.Context, p llm.Provider, d *githubapi.RepositoryData, r *model.AnalysisResults) error {
		doc, err := analyzeReports(ctx, p, d)
		if err != nil {
			return err
		}
		r.Reports = doc
		return nil
	},
}

// Run 执行指定种类的分析器
// 返回错误仅代表 LLM 调用本身失败；响应不可解析时按默认值补齐，不算失败
func Run(ctx context.Context, kind Kind, provider llm.Provider, data *githubapi.RepositoryData, results *model.AnalysisResults) error {
	run, ok := kindRunners[kind]
	if !ok {
		return fmt.Errorf("unknown analyzer kind: %s", kind)
	}

	klog.V(6).Infof("分析器开始: kind=%s, repo=%s", kind, data.Repository.FullName)
	if err := run(ctx, provider, data, results); err != nil {
		return err
	}
	klog.V(6).Infof("分析器完成: kind=%s", kind)
	return nil
}

const baseSystemPrompt = "You are an expert software architect and technical writer. " +
	"Analyze the provided repository data and generate comprehensive, professional documentation. " +
	"Always respond with a single JSON object matching the requested structure."
