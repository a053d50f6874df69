package main

import (
	"context"

	"github.com/gitanalyzer/backend/internal/service"
)

// jobExecutorAdapter 将AnalysisService适配为JobExecutor接口
// 避免dispatcher和service之间的循环依赖
type jobExecutorAdapter struct {
	analysisService *service.AnalysisService
}

// ExecuteJob 执行分析作业
// 实现dispatcher.JobExecutor接口
func (a *jobExecutorAdapter) ExecuteJob(ctx context.Context, analysisID string) error {
	return a.analysisService.Run(ctx, analysisID)
}
