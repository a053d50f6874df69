package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gitanalyzer/backend/config"
	"github.com/gitanalyzer/backend/internal/eventbus"
	"github.com/gitanalyzer/backend/internal/model"
	"github.com/gitanalyzer/backend/internal/pkg/githubapi"
	"github.com/gitanalyzer/backend/internal/pkg/llm"
	"github.com/gitanalyzer/backend/internal/repository"
	"github.com/gitanalyzer/backend/internal/service/analyzer"
	"github.com/gitanalyzer/backend/internal/service/statemachine"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// ProviderFactory 构造模型客户端，测试时可替换
type ProviderFactory func(cfg *config.Config, name string) (llm.Provider, error)

// AnalysisService 负责分析作业的全生命周期：创建、执行、查询
type AnalysisService struct {
	cfg             *config.Config
	registry        *Registry
	jobRepo         repository.AnalysisJobRepository
	resultStore     repository.ResultStore
	fetcher         RepositoryFetcher
	providerFactory ProviderFactory
	bus             *eventbus.Bus
	sm              *statemachine.AnalysisStateMachine
}

func NewAnalysisService(
	cfg *config.Config,
	registry *Registry,
	jobRepo repository.AnalysisJobRepository,
	resultStore repository.ResultStore,
	fetcher RepositoryFetcher,
	providerFactory ProviderFactory,
	bus *eventbus.Bus,
) *AnalysisService {
	if providerFactory == nil {
		providerFactory = llm.NewProvider
	}
	return &AnalysisService{
		cfg:             cfg,
		registry:        registry,
		jobRepo:         jobRepo,
		resultStore:     resultStore,
		fetcher:         fetcher,
		providerFactory: providerFactory,
		bus:             bus,
		sm:              statemachine.NewAnalysisStateMachine(),
	}
}

// CreateAnalysisRequest 创建分析作业的请求体
type CreateAnalysisRequest struct {
	RepositoryURL string   `json:"repository_url" binding:"required"`
	GitHubToken   string   `json:"github_token"`
	Analyzers     []string `json:"analyzers"`
	Provider      string   `json:"provider"`
}

// Create 校验请求并登记一个待执行的分析作业
// 仅做快速校验，仓库抓取与分析在 Run 中异步进行
func (s *AnalysisService) Create(ctx context.Context, req *CreateAnalysisRequest) (*model.AnalysisJob, error) {
	if _, _, err := githubapi.ParseRepositoryURL(req.RepositoryURL); err != nil {
		return nil, err
	}

	kinds, err := analyzer.ParseKinds(strings.Join(req.Analyzers, ","))
	if err != nil {
		return nil, err
	}

	provider := req.Provider
	if provider == "" {
		provider = s.cfg.AI.Provider
	}
	if !llm.IsSupportedProvider(provider) {
		return nil, fmt.Errorf("unsupported AI provider: %s", provider)
	}

	job := &model.AnalysisJob{
		AnalysisID:    uuid.New().String(),
		RepositoryURL: req.RepositoryURL,
		Provider:      provider,
		Analyzers:     analyzer.JoinKinds(kinds),
		Status:        model.AnalysisStatusPending,
		Progress:      0,
		CurrentStep:   "Queued",
	}

	s.registry.Put(&JobRecord{
		Job:   job,
		Token: req.GitHubToken,
		Kinds: kinds,
	})

	if err := s.jobRepo.Create(job); err != nil {
		klog.Errorf("作业索引写入失败: analysisID=%s, error=%v", job.AnalysisID, err)
	}

	s.publish(ctx, eventbus.AnalysisEvent{
		Type:          eventbus.AnalysisEventCreated,
		AnalysisID:    job.AnalysisID,
		RepositoryURL: job.RepositoryURL,
	})

	klog.V(6).Infof("分析作业已创建: analysisID=%s, repo=%s, analyzers=%s, provider=%s",
		job.AnalysisID, job.RepositoryURL, job.Analyzers, provider)
	return job, nil
}

// Run 执行一个已登记的作业：抓取仓库、逐个运行分析单元、落盘结果
// 单个分析单元失败只记录不终止，全部跑完后作业仍记为完成
func (s *AnalysisService) Run(ctx context.Context, analysisID string) error {
	record, ok := s.registry.Record(analysisID)
	if !ok {
		return ErrNotFound
	}

	if err := s.sm.ValidateTransition(
		statemachine.AnalysisStatus(record.Job.Status),
		statemachine.AnalysisStatusProcessing,
	); err != nil {
		return err
	}

	now := time.Now()
	s.registry.Update(analysisID, func(r *JobRecord) {
		r.Job.Status = model.AnalysisStatusProcessing
		r.Job.StartedAt = &now
		r.Job.Progress = 10
		r.Job.CurrentStep = "Fetching repository data"
	})
	s.publish(ctx, eventbus.AnalysisEvent{
		Type:          eventbus.AnalysisEventStarted,
		AnalysisID:    analysisID,
		RepositoryURL: record.Job.RepositoryURL,
	})

	data, err := s.fetcher.Fetch(ctx, record.Job.RepositoryURL, record.Token)
	if err != nil {
		s.fail(ctx, analysisID, err)
		return err
	}

	s.registry.Update(analysisID, func(r *JobRecord) {
		r.Job.Progress = 20
		r.Job.CurrentStep = "Initializing model client"
	})

	provider, err := s.providerFactory(s.cfg, record.Job.Provider)
	if err != nil {
		s.fail(ctx, analysisID, err)
		return err
	}

	results := &model.AnalysisResults{
		AnalysisID:    analysisID,
		RepositoryURL: record.Job.RepositoryURL,
	}

	var failed []string
	total := len(record.Kinds)
	for i, kind := range record.Kinds {
		progress := 20 + (i*70)/total
		step := fmt.Sprintf("Running %s analyzer", kind)
		s.registry.Update(analysisID, func(r *JobRecord) {
			r.Job.Progress = progress
			r.Job.CurrentStep = step
		})

		if err := analyzer.Run(ctx, kind, provider, data, results); err != nil {
			klog.Errorf("分析单元失败: analysisID=%s, kind=%s, error=%v", analysisID, kind, err)
			failed = append(failed, string(kind))
		}
	}

	s.registry.Update(analysisID, func(r *JobRecord) {
		r.Job.Progress = 95
		r.Job.CurrentStep = "Saving results"
	})

	results.AnalyzedAt = time.Now()
	if err := s.resultStore.Save(results); err != nil {
		s.fail(ctx, analysisID, err)
		return err
	}

	done := time.Now()
	s.registry.Update(analysisID, func(r *JobRecord) {
		r.Job.Status = model.AnalysisStatusCompleted
		r.Job.Progress = 100
		r.Job.CurrentStep = "Completed"
		r.Job.CompletedAt = &done
		r.Job.FailedAnalyzers = strings.Join(failed, ",")
		r.Results = results
	})
	s.publish(ctx, eventbus.AnalysisEvent{
		Type:            eventbus.AnalysisEventCompleted,
		AnalysisID:      analysisID,
		RepositoryURL:   record.Job.RepositoryURL,
		FailedAnalyzers: failed,
	})

	klog.V(6).Infof("分析作业完成: analysisID=%s, failed=%d/%d", analysisID, len(failed), total)
	return nil
}

func (s *AnalysisService) fail(ctx context.Context, analysisID string, cause error) {
	now := time.Now()
	var repoURL string
	s.registry.Update(analysisID, func(r *JobRecord) {
		r.Job.Status = model.AnalysisStatusFailed
		r.Job.CurrentStep = "Failed"
		r.Job.ErrorMsg = cause.Error()
		r.Job.CompletedAt = &now
		repoURL = r.Job.RepositoryURL
	})
	s.publish(ctx, eventbus.AnalysisEvent{
		Type:          eventbus.AnalysisEventFailed,
		AnalysisID:    analysisID,
		RepositoryURL: repoURL,
		ErrorMsg:      cause.Error(),
	})
	klog.Errorf("分析作业失败: analysisID=%s, error=%v", analysisID, cause)
}

func (s *AnalysisService) publish(ctx context.Context, event eventbus.AnalysisEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		klog.Errorf("事件发布失败: type=%s, analysisID=%s, error=%v", event.Type, event.AnalysisID, err)
	}
}

// StatusResponse 作业状态查询的响应体
type StatusResponse struct {
	AnalysisID      string     `json:"analysis_id"`
	RepositoryURL   string     `json:"repository_url"`
	Status          string     `json:"status"`
	Progress        int        `json:"progress_percentage"`
	CurrentStep     string     `json:"current_step"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	FailedAnalyzers []string   `json:"failed_analyzers,omitempty"`
}

func statusFromJob(job *model.AnalysisJob) *StatusResponse {
	resp := &StatusResponse{
		AnalysisID:    job.AnalysisID,
		RepositoryURL: job.RepositoryURL,
		Status:        job.Status,
		Progress:      job.Progress,
		CurrentStep:   job.CurrentStep,
		StartedAt:     job.StartedAt,
		CompletedAt:   job.CompletedAt,
		ErrorMessage:  job.ErrorMsg,
	}
	if job.FailedAnalyzers != "" {
		resp.FailedAnalyzers = strings.Split(job.FailedAnalyzers, ",")
	}
	return resp
}

// GetStatus 返回作业当前状态，进程重启后回落到持久化索引
func (s *AnalysisService) GetStatus(analysisID string) (*StatusResponse, error) {
	if job, ok := s.registry.Snapshot(analysisID); ok {
		return statusFromJob(job), nil
	}

	job, err := s.jobRepo.GetByAnalysisID(analysisID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return statusFromJob(job), nil
}

// GetResults 返回完成作业的结果包
// 内存中没有结果时从文件回载，重启后也能继续提供历史结果
func (s *AnalysisService) GetResults(analysisID string) (*model.AnalysisResults, error) {
	record, ok := s.registry.Record(analysisID)
	if ok {
		if record.Job.Status != model.AnalysisStatusCompleted {
			return nil, ErrNotReady
		}
		if results, ok := s.registry.Results(analysisID); ok && results != nil {
			return results, nil
		}
		results, err := s.resultStore.Load(analysisID)
		if err != nil {
			if err == repository.ErrNotFound {
				return nil, ErrNotFound
			}
			return nil, err
		}
		s.registry.Update(analysisID, func(r *JobRecord) {
			r.Results = results
		})
		return results, nil
	}

	job, err := s.jobRepo.GetByAnalysisID(analysisID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if job.Status != model.AnalysisStatusCompleted {
		return nil, ErrNotReady
	}

	results, err := s.resultStore.Load(analysisID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	kinds, _ := analyzer.ParseKinds(job.Analyzers)
	s.registry.Put(&JobRecord{Job: job, Kinds: kinds, Results: results})
	return results, nil
}

// GetRecent 返回最近的作业索引行
func (s *AnalysisService) GetRecent(limit int) ([]model.AnalysisJob, error) {
	return s.jobRepo.GetRecent(limit)
}

// CleanupStuckJobs 启动时调用，把超时未完成的历史作业标记为失败
func (s *AnalysisService) CleanupStuckJobs(timeout time.Duration) (int64, error) {
	return s.jobRepo.CleanupStuckJobs(timeout)
}

// RecoverInterruptedJobs 启动时调用
// 索引里残留的活跃行对应的内存状态已随上次进程消失，统一标记失败
func (s *AnalysisService) RecoverInterruptedJobs() (int64, error) {
	return s.jobRepo.FailActiveJobs("服务重启，作业已中断")
}
