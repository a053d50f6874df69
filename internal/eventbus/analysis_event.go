package eventbus

type AnalysisEventType string

const (
	AnalysisEventCreated   AnalysisEventType = "AnalysisCreated"
	AnalysisEventStarted   AnalysisEventType = "AnalysisStarted"
	AnalysisEventCompleted AnalysisEventType = "AnalysisCompleted"
	AnalysisEventFailed    AnalysisEventType = "AnalysisFailed"
)

// AnalysisEvent 分析作业生命周期事件
type AnalysisEvent struct {
	Type          AnalysisEventType
	AnalysisID    string
	RepositoryURL string
	// 终止事件携带的附加信息
	ErrorMsg        string
	FailedAnalyzers []string
}
