package pipeline

import (
	"sync"
	"time"
)

// State 任务状态机的状态
type State string

const (
	StateIdle        State = "idle"
	StateFetching    State = "fetching"
	StateClassifying State = "classifying"
	StateAggregating State = "aggregating"
	StateSorting     State = "sorting"
	StateEncoding    State = "encoding"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// JobStatus 单个任务的运行状态
type JobStatus struct {
	Name      string        `json:"name"`
	State     State         `json:"state"`
	Sources   int           `json:"sources"`
	Skipped   int           `json:"skipped"`
	Entries   int           `json:"entries"`
	Files     []string      `json:"files,omitempty"`
	LastError string        `json:"last_error,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// Status 整次运行的状态跟踪，供状态接口只读访问
type Status struct {
	mu      sync.RWMutex
	running bool
	lastRun time.Time
	jobs    map[string]*JobStatus
}

// NewStatus 创建状态跟踪器
func NewStatus() *Status {
	return &Status{jobs: make(map[string]*JobStatus)}
}

// TryStart 标记一次运行开始。已有运行在进行时返回 false。
func (s *Status) TryStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	s.lastRun = time.Now()
	return true
}

// Running 返回是否有运行正在进行
func (s *Status) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Finish 标记运行结束
func (s *Status) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// setJob 覆盖写入一个任务的状态
func (s *Status) setJob(js JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[js.Name] = &js
}

// Snapshot 返回当前状态的拷贝
func (s *Status) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make(map[string]JobStatus, len(s.jobs))
	for name, js := range s.jobs {
		jobs[name] = *js
	}
	return map[string]interface{}{
		"running":  s.running,
		"last_run": s.lastRun,
		"jobs":     jobs,
	}
}
