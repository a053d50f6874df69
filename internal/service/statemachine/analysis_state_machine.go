package statemachine

import (
	"fmt"

	"k8s.io/klog/v2"
)

// AnalysisStatus 分析作业状态
type AnalysisStatus string

const (
	AnalysisStatusPending    AnalysisStatus = "pending"    // 已创建，等待执行
	AnalysisStatusProcessing AnalysisStatus = "processing" // 执行中，唯一带进度的状态
	AnalysisStatusCompleted  AnalysisStatus = "completed"  // 执行完成，结果包已落盘
	AnalysisStatusFailed     AnalysisStatus = "failed"     // 执行失败
)

// AnalysisTransition 状态迁移
type AnalysisTransition struct {
	From AnalysisStatus
	To   AnalysisStatus
}

// AnalysisStateMachine 分析作业状态机
// pending -> processing -> completed/failed，终止态不可再迁移
type AnalysisStateMachine struct {
	allowedTransitions map[AnalysisTransition]bool
}

func NewAnalysisStateMachine() *AnalysisStateMachine {
	sm := &AnalysisStateMachine{
		allowedTransitions: make(map[AnalysisTransition]bool),
	}

	transitions := []AnalysisTransition{
		{AnalysisStatusPending, AnalysisStatusProcessing},
		{AnalysisStatusProcessing, AnalysisStatusCompleted},
		{AnalysisStatusProcessing, AnalysisStatusFailed},
		// 拉取数据前的启动失败也可能直接从 pending 进入 failed
		{AnalysisStatusPending, AnalysisStatusFailed},
	}

	for _, t := range transitions {
		sm.allowedTransitions[t] = true
	}
	return sm
}

// CanTransition 检查状态迁移是否合法
func (sm *AnalysisStateMachine) CanTransition(from, to AnalysisStatus) bool {
	if from == to {
		return false
	}
	return sm.allowedTransitions[AnalysisTransition{From: from, To: to}]
}

// ValidateTransition 验证状态迁移并返回错误
func (sm *AnalysisStateMachine) ValidateTransition(from, to AnalysisStatus) error {
	if !sm.CanTransition(from, to) {
		return &InvalidStateTransitionError{
			From: string(from),
			To:   string(to),
		}
	}
	return nil
}

// Transition 执行状态迁移（带日志）
func (sm *AnalysisStateMachine) Transition(from, to AnalysisStatus, analysisID string) error {
	if err := sm.ValidateTransition(from, to); err != nil {
		klog.V(6).Infof("作业状态迁移被拒绝: analysisID=%s, %s -> %s, error=%v",
			analysisID, from, to, err)
		return err
	}

	klog.V(6).Infof("作业状态迁移: analysisID=%s, %s -> %s", analysisID, from, to)
	return nil
}

// InvalidStateTransitionError 无效的状态迁移错误
type InvalidStateTransitionError struct {
	From string
	To   string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid analysis state transition: %s -> %s", e.From, e.To)
}

// IsTerminal 判断状态是否为终止态
func IsTerminal(status AnalysisStatus) bool {
	return status == AnalysisStatusCompleted || status == AnalysisStatusFailed
}
