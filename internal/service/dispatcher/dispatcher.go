package dispatcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"k8s.io/klog/v2"
)

// Job 一次待执行的分析作业
type Job struct {
	AnalysisID string
	EnqueuedAt time.Time
	Timeout    time.Duration
}

// JobExecutor 作业执行接口，由上层服务实现
// 执行失败不重试：失败语义由作业本身落入 failed 状态表达
type JobExecutor interface {
	ExecuteJob(ctx context.Context, analysisID string) error
}

// Dispatcher 把分析作业分发到协程池并发执行
type Dispatcher struct {
	jobQueue *jobQueue
	pool     *ants.Pool
	executor JobExecutor

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once

	activeCancellations map[string]context.CancelFunc
	cancelMutex         sync.Mutex
}

var (
	ErrDispatcherStopped = errors.New("dispatcher is stopped")
	ErrQueueFull         = errors.New("job queue is full")
)

// NewJob 创建一个新的作业对象，带默认超时
func NewJob(analysisID string) *Job {
	return &Job{
		AnalysisID: analysisID,
		EnqueuedAt: time.Now(),
		Timeout:    30 * time.Minute,
	}
}

func NewDispatcher(maxWorkers int, executor JobExecutor) (*Dispatcher, error) {
	ctx, cancel := context.WithCancel(context.Background())

	pool, err := ants.NewPool(maxWorkers,
		ants.WithNonblocking(false),
		ants.WithMaxBlockingTasks(1000),
		ants.WithExpiryDuration(5*time.Minute),
	)
	if err != nil {
		cancel()
		klog.Errorf("ants pool initialization failed: %v", err)
		return nil, err
	}

	return &Dispatcher{
		jobQueue:            newJobQueue(120),
		pool:                pool,
		executor:            executor,
		ctx:                 ctx,
		cancel:              cancel,
		activeCancellations: make(map[string]context.CancelFunc),
	}, nil
}

func (d *Dispatcher) Start() {
	go d.dispatchLoop()
}

// Stop 停止接收新作业并等待在途作业完成
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		klog.V(6).Infof("Dispatcher stopping...")

		d.cancel()
		d.jobQueue.Close()

		for d.jobQueue.Len() > 0 {
			time.Sleep(100 * time.Millisecond)
			klog.V(6).Infof("Waiting for queue to empty: len=%d", d.jobQueue.Len())
		}

		running := d.pool.Running()
		if running > 0 {
			klog.V(6).Infof("Waiting for %d running jobs to complete", running)
		}

		timeout := 35 * time.Minute
		if err := d.pool.ReleaseTimeout(timeout); err != nil {
			klog.Warningf("Timeout after %v: some running jobs may be forced to stop", timeout)
		}

		klog.V(6).Infof("Dispatcher stopped completely")
	})
}

// EnqueueJob 作业入队，队列满或已停止时直接拒绝
func (d *Dispatcher) EnqueueJob(job *Job) error {
	select {
	case <-d.ctx.Done():
		return ErrDispatcherStopped
	default:
	}

	if err := d.jobQueue.Enqueue(job); err != nil {
		if errors.Is(err, ErrQueueFull) {
			klog.Warningf("Job queue full: analysisID=%s", job.AnalysisID)
		}
		return err
	}
	klog.V(6).Infof("Job enqueued: analysisID=%s", job.AnalysisID)
	return nil
}

func (d *Dispatcher) registerCancel(analysisID string, cancel context.CancelFunc) {
	d.cancelMutex.Lock()
	defer d.cancelMutex.Unlock()
	d.activeCancellations[analysisID] = cancel
}

func (d *Dispatcher) unregisterCancel(analysisID string) {
	d.cancelMutex.Lock()
	defer d.cancelMutex.Unlock()
	delete(d.activeCancellations, analysisID)
}

// CancelJob 取消一个正在执行的作业
func (d *Dispatcher) CancelJob(analysisID string) bool {
	d.cancelMutex.Lock()
	cancel, ok := d.activeCancellations[analysisID]
	d.cancelMutex.Unlock()
	if !ok {
		return false
	}

	klog.V(6).Infof("Cancelling job: analysisID=%s", analysisID)
	cancel()
	return true
}

func (d *Dispatcher) dispatchLoop() {
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			job, ok := d.jobQueue.Dequeue()
			if !ok {
				continue
			}
			d.tryDispatch(job)
		}
	}
}

func (d *Dispatcher) tryDispatch(job *Job) {
	if err := d.pool.Submit(func() {
		d.executeJob(job)
	}); err != nil {
		klog.Errorf("提交作业到协程池失败: analysisID=%s, err=%v", job.AnalysisID, err)
	}
}

// executeJob 带超时与 Panic 防护地执行单个作业
// 作业级失败不在此处重试，由作业状态机记录 failed 终态
func (d *Dispatcher) executeJob(job *Job) {
	defer func() {
		if r := recover(); r != nil {
			klog.Errorf("Job panic recovered: analysisID=%s, err=%v", job.AnalysisID, r)
			d.unregisterCancel(job.AnalysisID)
		}
	}()

	timeout := job.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	ctx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()
	runCtx, manualCancel := context.WithCancel(ctx)
	defer manualCancel()

	d.registerCancel(job.AnalysisID, manualCancel)
	defer d.unregisterCancel(job.AnalysisID)

	if err := d.executor.ExecuteJob(runCtx, job.AnalysisID); err != nil {
		klog.Errorf("作业执行失败: analysisID=%s, err=%v", job.AnalysisID, err)
		return
	}
	klog.V(6).Infof("Job completed: analysisID=%s", job.AnalysisID)
}

// QueueStatus 队列与协程池状态
type QueueStatus struct {
	QueueLength   int `json:"queue_length"`
	ActiveWorkers int `json:"active_workers"`
	FreeWorkers   int `json:"free_workers"`
}

func (d *Dispatcher) GetQueueStatus() *QueueStatus {
	return &QueueStatus{
		QueueLength:   d.jobQueue.Len(),
		ActiveWorkers: d.pool.Running(),
		FreeWorkers:   d.pool.Free(),
	}
}

// -----------------------------
// jobQueue：有界队列，满则拒绝新作业
// -----------------------------
type jobQueue struct {
	maxSize int
	items   []*Job
	mutex   sync.Mutex
	cond    *sync.Cond
	closed  bool
}

func newJobQueue(maxSize int) *jobQueue {
	q := &jobQueue{
		maxSize: maxSize,
		items:   make([]*Job, 0, maxSize),
	}
	q.cond = sync.NewCond(&q.mutex)
	return q
}

func (q *jobQueue) Enqueue(job *Job) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	if q.closed {
		return ErrDispatcherStopped
	}
	if q.maxSize > 0 && len(q.items) >= q.maxSize {
		return ErrQueueFull
	}
	q.items = append(q.items, job)
	q.cond.Signal()
	return nil
}

func (q *jobQueue) Dequeue() (*Job, bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	job := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return job, true
}

func (q *jobQueue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.items)
}

func (q *jobQueue) Close() {
	q.mutex.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mutex.Unlock()
}
