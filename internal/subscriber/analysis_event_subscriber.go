package subscriber

import (
	"context"
	"strings"
	"time"

	"github.com/gitanalyzer/backend/internal/eventbus"
	"github.com/gitanalyzer/backend/internal/model"
	"github.com/gitanalyzer/backend/internal/repository"
	"k8s.io/klog/v2"
)

// AnalysisEventSubscriber 把作业生命周期事件镜像到持久化索引
// 内存注册表仍是运行期权威数据；索引只为历史查询与重启后追溯服务
type AnalysisEventSubscriber struct {
	jobRepo repository.AnalysisJobRepository
}

func NewAnalysisEventSubscriber(jobRepo repository.AnalysisJobRepository) *AnalysisEventSubscriber {
	return &AnalysisEventSubscriber{jobRepo: jobRepo}
}

func (s *AnalysisEventSubscriber) Register(bus *eventbus.Bus) {
	if bus == nil {
		return
	}
	bus.Subscribe(eventbus.AnalysisEventCreated, s.handleCreated)
	bus.Subscribe(eventbus.AnalysisEventStarted, s.handleStarted)
	bus.Subscribe(eventbus.AnalysisEventCompleted, s.handleTerminal)
	bus.Subscribe(eventbus.AnalysisEventFailed, s.handleTerminal)
}

func (s *AnalysisEventSubscriber) handleCreated(ctx context.Context, event eventbus.AnalysisEvent) error {
	klog.V(6).Infof("分析作业已创建: analysisID=%s, repo=%s", event.AnalysisID, event.RepositoryURL)
	return nil
}

func (s *AnalysisEventSubscriber) handleStarted(ctx context.Context, event eventbus.AnalysisEvent) error {
	job, err := s.jobRepo.GetByAnalysisID(event.AnalysisID)
	if err != nil {
		klog.Errorf("作业事件处理失败: type=%s, analysisID=%s, error=%v", event.Type, event.AnalysisID, err)
		return err
	}

	now := time.Now()
	job.Status = model.AnalysisStatusProcessing
	job.StartedAt = &now
	if err := s.jobRepo.Save(job); err != nil {
		klog.Errorf("作业索引更新失败: analysisID=%s, error=%v", event.AnalysisID, err)
		return err
	}
	return nil
}

// handleTerminal 将终止态同步到索引行
func (s *AnalysisEventSubscriber) handleTerminal(ctx context.Context, event eventbus.AnalysisEvent) error {
	job, err := s.jobRepo.GetByAnalysisID(event.AnalysisID)
	if err != nil {
		klog.Errorf("作业事件处理失败: type=%s, analysisID=%s, error=%v", event.Type, event.AnalysisID, err)
		return err
	}

	now := time.Now()
	job.CompletedAt = &now

	switch event.Type {
	case eventbus.AnalysisEventCompleted:
		job.Status = model.AnalysisStatusCompleted
		job.Progress = 100
		job.FailedAnalyzers = strings.Join(event.FailedAnalyzers, ",")
	case eventbus.AnalysisEventFailed:
		job.Status = model.AnalysisStatusFailed
		job.ErrorMsg = event.ErrorMsg
	}

	if err := s.jobRepo.Save(job); err != nil {
		klog.Errorf("作业索引更新失败: analysisID=%s, error=%v", event.AnalysisID, err)
		return err
	}

	klog.V(6).Infof("作业终止事件已入索引: type=%s, analysisID=%s", event.Type, event.AnalysisID)
	return nil
}
