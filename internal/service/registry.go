package service

import (
	"sync"

	"github.com/gitanalyzer/backend/internal/model"
	"github.com/gitanalyzer/backend/internal/service/analyzer"
)

// JobRecord 注册表中一个作业的完整运行时状态
// Job 行与持久化索引同构；凭证与结果包只存在于内存，不落库
type JobRecord struct {
	Job     *model.AnalysisJob
	Token   string
	Kinds   []analyzer.Kind
	Results *model.AnalysisResults
}

// Registry 进程内作业注册表，进程存活期间的权威数据源
// 每个作业只有其自身的运行协程写入，其他调用方只读快照
// 读写均持锁，保证状态轮询与运行协程竞争时的原子可见性
type Registry struct {
	mutex   sync.RWMutex
	records map[string]*JobRecord
}

func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]*JobRecord),
	}
}

// Put 登记新作业
func (r *Registry) Put(record *JobRecord) {
	r.mutex.Lock()
	r.records[record.Job.AnalysisID] = record
	r.mutex.Unlock()
}

// Snapshot 返回作业行的只读副本，供轮询方使用
func (r *Registry) Snapshot(analysisID string) (*model.AnalysisJob, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	record, ok := r.records[analysisID]
	if !ok {
		return nil, false
	}
	jobCopy := *record.Job
	return &jobCopy, true
}

// Update 持锁修改作业记录
// 作业的唯一写入方是其运行协程，锁只为对并发读保证可见性
func (r *Registry) Update(analysisID string, fn func(record *JobRecord)) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	record, ok := r.records[analysisID]
	if !ok {
		return false
	}
	fn(record)
	return true
}

// Results 返回作业的结果包（可能为 nil）
func (r *Registry) Results(analysisID string) (*model.AnalysisResults, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	record, ok := r.records[analysisID]
	if !ok {
		return nil, false
	}
	return record.Results, true
}

// Record 返回注册表中的原始记录，仅供作业自身的运行协程使用
func (r *Registry) Record(analysisID string) (*JobRecord, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	record, ok := r.records[analysisID]
	return record, ok
}
