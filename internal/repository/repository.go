package repository

import (
	"errors"
	"time"

	"github.com/gitanalyzer/backend/internal/model"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

// AnalysisJobRepository 分析作业持久化索引
// 内存注册表是进程存活期间的权威数据源，这里只做历史索引与重启后追溯
type AnalysisJobRepository interface {
	Create(job *model.AnalysisJob) error
	GetByAnalysisID(analysisID string) (*model.AnalysisJob, error)
	Save(job *model.AnalysisJob) error
	GetRecent(limit int) ([]model.AnalysisJob, error)
	GetActive() ([]model.AnalysisJob, error)
	CleanupStuckJobs(timeout time.Duration) (int64, error)
	FailActiveJobs(reason string) (int64, error)
}

// ResultStore 结果包持久化存储
// 每个已完成作业一个文件，按 analysisID 命名，写入一次，恢复时读取
type ResultStore interface {
	Save(results *model.AnalysisResults) error
	Load(analysisID string) (*model.AnalysisResults, error)
	Exists(analysisID string) bool
}
