package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure JobManager implements the interface.
var _ driving.JobService = (*JobManager)(nil)

// DefaultJobRetention is how long finished jobs stay queryable.
const DefaultJobRetention = 24 * time.Hour

// JobManager tracks background jobs in memory.
//
// Jobs move pending -> running -> {completed, failed, cancelled} and are
// evicted lazily once they have been terminal for longer than the
// retention window.
type JobManager struct {
	mu        sync.Mutex
	jobs      map[string]*domain.Job
	cancelled map[string]bool
	retention time.Duration
	now       func() time.Time
}

// NewJobManager creates a new job manager. A non-positive retention falls
// back to DefaultJobRetention.
func NewJobManager(retention time.Duration) *JobManager {
	if retention <= 0 {
		retention = DefaultJobRetention
	}
	return &JobManager{
		jobs:      make(map[string]*domain.Job),
		cancelled: make(map[string]bool),
		retention: retention,
		now:       time.Now,
	}
}

// Create registers a new pending job and returns its id.
func (m *JobManager) Create(jobType domain.JobType) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked()

	now := m.now().UTC()
	job := &domain.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    domain.JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.jobs[job.ID] = job

	logger.Debug("Job %s created (%s)", job.ID, jobType)
	return job.ID
}

// Start transitions a pending job to running.
func (m *JobManager) Start(jobID string) {
	m.transition(jobID, func(job *domain.Job) {
		if job.Status == domain.JobPending {
			job.Status = domain.JobRunning
		}
	})
}

// SetProgress updates the progress percentage of a running job.
func (m *JobManager) SetProgress(jobID string, progress int) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	m.transition(jobID, func(job *domain.Job) {
		if job.Status == domain.JobRunning {
			job.Progress = progress
		}
	})
}

// Complete marks a running job as completed with its result.
func (m *JobManager) Complete(jobID string, result *domain.ClusterResult) {
	m.transition(jobID, func(job *domain.Job) {
		if job.Status.Terminal() {
			return
		}
		job.Status = domain.JobCompleted
		job.Progress = 100
		job.Result = result
	})
}

// Fail marks a job as failed with the given message.
func (m *JobManager) Fail(jobID string, message string) {
	m.transition(jobID, func(job *domain.Job) {
		if job.Status.Terminal() {
			return
		}
		job.Status = domain.JobFailed
		job.Error = message
	})
}

// MarkCancelled transitions a job to the cancelled state. Called by the
// job itself once it observes its cancellation flag.
func (m *JobManager) MarkCancelled(jobID string) {
	m.transition(jobID, func(job *domain.Job) {
		if job.Status.Terminal() {
			return
		}
		job.Status = domain.JobCancelled
	})
}

// Cancelled reports whether cancellation has been requested for the job.
func (m *JobManager) Cancelled(jobID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelled[jobID]
}

// Get returns the job by id.
func (m *JobManager) Get(_ context.Context, jobID string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked()

	job, ok := m.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

// List returns all retained jobs, newest first.
func (m *JobManager) List(_ context.Context) ([]domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked()

	jobs := make([]domain.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].ID < jobs[j].ID
	})
	return jobs, nil
}

// Cancel requests cancellation of a job. Pending jobs cancel immediately;
// running jobs observe the flag between processing stages.
func (m *JobManager) Cancel(_ context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}
	if job.Status.Terminal() {
		return domain.ErrJobCancelled
	}

	m.cancelled[jobID] = true
	if job.Status == domain.JobPending {
		job.Status = domain.JobCancelled
		job.UpdatedAt = m.now().UTC()
	}

	logger.Debug("Job %s cancellation requested", jobID)
	return nil
}

// transition applies fn to the job under lock and stamps UpdatedAt.
func (m *JobManager) transition(jobID string, fn func(*domain.Job)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return
	}
	fn(job)
	job.UpdatedAt = m.now().UTC()
}

// evictLocked removes jobs that have been terminal past the retention
// window. Caller must hold the lock.
func (m *JobManager) evictLocked() {
	cutoff := m.now().UTC().Add(-m.retention)
	for id, job := range m.jobs {
		if job.Status.Terminal() && job.UpdatedAt.Before(cutoff) {
			delete(m.jobs, id)
			delete(m.cancelled, id)
		}
	}
}
