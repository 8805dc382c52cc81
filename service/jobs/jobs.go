package jobs

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// 后台任务类型
const (
	KindAggregation   = "aggregation"
	KindExtraction    = "extraction"
	KindCompareKBSync = "compare_kb_sync"
	KindScenarioSync  = "scenario_sync"
)

// ConflictError 同类任务已在运行
type ConflictError struct {
	Kind      string
	JobID     string
	StartedAt time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s job already running: jobId=%s startedAt=%s",
		e.Kind, e.JobID, e.StartedAt.Format(time.RFC3339))
}

// Handle 任务登记凭据，仅持有者可以清除自己的登记
type Handle struct {
	registry *Registry
	kind     string
	jobID    string
	done     chan struct{}
}

func (h *Handle) JobID() string {
	return h.jobID
}

// Done 标记任务结束并清除登记。
// 比对job_id后再清除，过期的Handle不会误删后来者的登记。
func (h *Handle) Done() {
	close(h.done)
	h.registry.clear(h.kind, h.jobID)
}

type runningJob struct {
	jobID     string
	startedAt time.Time
	done      chan struct{}
}

func (j *runningJob) alive() bool {
	select {
	case <-j.done:
		return false
	default:
		return true
	}
}

// Registry 按任务类型的单飞登记表：同类任务同时只允许一个在运行，
// 第二次触发被拒绝而不是排队
type Registry struct {
	mu      sync.Mutex
	running map[string]*runningJob
}

func NewRegistry() *Registry {
	return &Registry{running: make(map[string]*runningJob)}
}

// Begin 登记一个新任务。同类任务已在运行时返回ConflictError；
// 已结束但未清除的登记（任务协程异常退出）按存活检查自动回收。
func (r *Registry) Begin(kind string) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job, ok := r.running[kind]; ok {
		if job.alive() {
			return nil, &ConflictError{Kind: kind, JobID: job.jobID, StartedAt: job.startedAt}
		}
		delete(r.running, kind)
	}

	job := &runningJob{
		jobID:     fmt.Sprintf("%s-%s", kind, uuid.NewString()),
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
	r.running[kind] = job

	return &Handle{
		registry: r,
		kind:     kind,
		jobID:    job.jobID,
		done:     job.done,
	}, nil
}

func (r *Registry) clear(kind, jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job, ok := r.running[kind]; ok && job.jobID == jobID {
		delete(r.running, kind)
	}
}

// Default 进程级共享登记表
var Default = NewRegistry()
