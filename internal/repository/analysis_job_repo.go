package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/gitanalyzer/backend/internal/model"
	"gorm.io/gorm"
)

type analysisJobRepository struct {
	db *gorm.DB
}

func NewAnalysisJobRepository(db *gorm.DB) AnalysisJobRepository {
	return &analysisJobRepository{db: db}
}

func (r *analysisJobRepository) Create(job *model.AnalysisJob) error {
	return r.db.Create(job).Error
}

func (r *analysisJobRepository) GetByAnalysisID(analysisID string) (*model.AnalysisJob, error) {
	var job model.AnalysisJob
	err := r.db.Where("analysis_id = ?", analysisID).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *analysisJobRepository) Save(job *model.AnalysisJob) error {
	return r.db.Save(job).Error
}

func (r *analysisJobRepository) GetRecent(limit int) ([]model.AnalysisJob, error) {
	var jobs []model.AnalysisJob
	err := r.db.Order("created_at desc").Limit(limit).Find(&jobs).Error
	return jobs, err
}

func (r *analysisJobRepository) GetActive() ([]model.AnalysisJob, error) {
	var jobs []model.AnalysisJob
	err := r.db.Where("status IN ?", []string{
		model.AnalysisStatusPending,
		model.AnalysisStatusProcessing,
	}).Find(&jobs).Error
	return jobs, err
}

// FailActiveJobs 把所有未终止的索引行标记为失败
// 注册表不落盘，进程重启后索引里残留的活跃行必然已中断，启动时统一清理
func (r *analysisJobRepository) FailActiveJobs(reason string) (int64, error) {
	result := r.db.Model(&model.AnalysisJob{}).
		Where("status IN ?", []string{
			model.AnalysisStatusPending,
			model.AnalysisStatusProcessing,
		}).
		Updates(map[string]interface{}{
			"status":    model.AnalysisStatusFailed,
			"error_msg": reason,
		})
	return result.RowsAffected, result.Error
}

// CleanupStuckJobs 清理卡住的 processing 作业（开始执行后超过指定时间仍未终止）
// 进程重启后内存状态丢失，索引里残留的 processing 行在启动时统一标记失败
func (r *analysisJobRepository) CleanupStuckJobs(timeout time.Duration) (int64, error) {
	cutoff := time.Now().Add(-timeout)
	result := r.db.Model(&model.AnalysisJob{}).
		Where("status = ? AND started_at < ?", model.AnalysisStatusProcessing, cutoff).
		Updates(map[string]interface{}{
			"status":    model.AnalysisStatusFailed,
			"error_msg": fmt.Sprintf("作业超时（超过 %v），已自动标记为失败", timeout),
		})
	return result.RowsAffected, result.Error
}
