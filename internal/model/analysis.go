package model

import (
	"time"
)

// 分析作业状态
// pending -> processing -> completed/failed
const (
	AnalysisStatusPending    = "pending"
	AnalysisStatusProcessing = "processing"
	AnalysisStatusCompleted  = "completed"
	AnalysisStatusFailed     = "failed"
)

// AnalysisJob 仓库文档分析作业
// AnalysisID 为对外暴露的作业标识（UUID），数据库自增ID仅做索引用
type AnalysisJob struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	AnalysisID    string     `json:"analysis_id" gorm:"size:64;uniqueIndex;not null"`
	RepositoryURL string     `json:"repository_url" gorm:"size:500;not null"`
	Provider      string     `json:"provider" gorm:"size:50"`
	Analyzers     string     `json:"analyzers" gorm:"size:500"` // 逗号分隔的分析器列表
	Status        string     `json:"status" gorm:"size:50;default:pending"` // pending, processing, completed, failed
	Progress      int        `json:"progress" gorm:"default:0"` // 0-100
	CurrentStep   string     `json:"current_step" gorm:"size:255"`
	ErrorMsg      string     `json:"error_msg" gorm:"size:2000"`
	// 已完成作业中执行失败的分析器（逗号分隔），成功完成但部分文档缺失时可据此排查
	FailedAnalyzers string     `json:"failed_analyzers" gorm:"size:500"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	StartedAt       *time.Time `json:"started_at" gorm:"column:started_at"`
	CompletedAt     *time.Time `json:"completed_at" gorm:"column:completed_at"`
}

// IsTerminal 作业是否已进入终止态
func (j *AnalysisJob) IsTerminal() bool {
	return j.Status == AnalysisStatusCompleted || j.Status == AnalysisStatusFailed
}
