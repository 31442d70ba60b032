package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/docrank/internal/analyst"
	"github.com/dgallion1/docrank/internal/profile"
	"github.com/dgallion1/docrank/internal/report"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusPartial   JobStatus = "partial"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of a single collection analysis run.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Persona profile.Persona `json:"persona"`
	Task    string          `json:"task"`

	Progress Progress `json:"progress"`

	// CollectionHash fingerprints the input bytes. Identical collections
	// produce identical hashes, which makes rerun comparison trivial.
	CollectionHash string    `json:"collection_hash"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Internal: not serialized.
	files  []analyst.FileInput
	rep    *report.Report
	errors []string
}

// Progress tracks run progress.
type Progress struct {
	TotalDocuments   int      `json:"total_documents"`
	DocumentsFailed  int      `json:"documents_failed"`
	SectionsAnalyzed int      `json:"sections_analyzed"`
	Errors           []string `json:"errors"`
}

// NewJob creates a queued job for a collection.
func NewJob(persona profile.Persona, task string, files []analyst.FileInput) *Job {
	now := time.Now()

	h := sha256.New()
	for _, f := range files {
		h.Write([]byte(f.Filename))
		h.Write(f.Data)
	}

	return &Job{
		ID:             uuid.NewString(),
		Status:         StatusQueued,
		Phase:          "queued",
		Persona:        persona,
		Task:           task,
		CollectionHash: fmt.Sprintf("%x", h.Sum(nil)),
		CreatedAt:      now,
		UpdatedAt:      now,
		files:          files,
		Progress:       Progress{TotalDocuments: len(files)},
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetReport stores the finished report and copies its counts into progress.
func (j *Job) SetReport(rep *report.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rep = rep
	j.Progress.DocumentsFailed = rep.Performance.DocumentsFailed
	j.Progress.SectionsAnalyzed = rep.Performance.SectionsAnalyzed
	j.UpdatedAt = time.Now()
}

// Report returns the finished report, nil until the run completes.
func (j *Job) Report() *report.Report {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.rep
}

// Files returns the raw collection inputs.
func (j *Job) Files() []analyst.FileInput {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.files
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID             string          `json:"job_id"`
	Status         JobStatus       `json:"status"`
	Phase          string          `json:"phase"`
	Persona        profile.Persona `json:"persona"`
	Task           string          `json:"task"`
	CollectionHash string          `json:"collection_hash"`
	Progress       Progress        `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:             j.ID,
		Status:         j.Status,
		Phase:          j.Phase,
		Persona:        j.Persona,
		Task:           j.Task,
		CollectionHash: j.CollectionHash,
		Progress: Progress{
			TotalDocuments:   j.Progress.TotalDocuments,
			DocumentsFailed:  j.Progress.DocumentsFailed,
			SectionsAnalyzed: j.Progress.SectionsAnalyzed,
			Errors:           errs,
		},
	}
}
