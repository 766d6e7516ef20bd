package web

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusRunning JobStatus = "running"
	StatusDone    JobStatus = "done"
	StatusError   JobStatus = "error"
)

type JobResult struct {
	Rows     int    `json:"rows"`
	BothOK   int    `json:"both_ok"`
	CSV      string `json:"csv"`      // filename for download
	Workbook string `json:"workbook"` // filename for download
}

// Job is one background comparison run. Logs and progress are polled by the
// browser, so every mutation goes through the mutex.
type Job struct {
	ID        string
	Status    JobStatus
	Logs      []string
	Progress  int // 0-100
	Result    *JobResult
	Error     string
	Mutex     sync.RWMutex
	CreatedAt time.Time
}

type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

func (s *JobStore) New() *Job {
	job := &Job{
		ID:        uuid.New().String(),
		Status:    StatusRunning,
		Logs:      []string{},
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs[id]
}

func (j *Job) Log(msg string) {
	j.Mutex.Lock()
	defer j.Mutex.Unlock()
	j.appendLog(msg)
}

func (j *Job) SetProgress(current, total int, msg string) {
	j.Mutex.Lock()
	defer j.Mutex.Unlock()
	if total > 0 {
		j.Progress = int(float64(current) / float64(total) * 100)
	}
	if msg != "" {
		j.appendLog(msg)
	}
}

func (j *Job) Fail(msg string) {
	j.Mutex.Lock()
	defer j.Mutex.Unlock()
	j.Status = StatusError
	j.Error = msg
	j.Logs = append(j.Logs, "[ERROR] "+msg)
}

func (j *Job) Finish(result *JobResult) {
	j.Mutex.Lock()
	defer j.Mutex.Unlock()
	j.Status = StatusDone
	j.Result = result
	j.Progress = 100
	j.appendLog("Run completed.")
}

// appendLog expects the mutex to be held.
func (j *Job) appendLog(msg string) {
	ts := time.Now().Format("15:04:05")
	j.Logs = append(j.Logs, fmt.Sprintf("[%s] %s", ts, msg))
}
