package domain

import "time"

// JobStatus is the lifecycle state of a background job.
// Transitions: pending -> running -> {completed, failed, cancelled}.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// JobType identifies the kind of background work a job performs.
type JobType string

const (
	JobTypeClustering JobType = "clustering"
)

// Job tracks one background operation.
type Job struct {
	// ID is the unique job identifier.
	ID string

	// Type is the kind of work being performed.
	Type JobType

	// Status is the current lifecycle state.
	Status JobStatus

	// Progress is a percentage in [0, 100].
	Progress int

	// Error holds the failure message when Status is JobFailed.
	Error string

	// Result holds job-specific output when Status is JobCompleted.
	Result *ClusterResult

	// CreatedAt is when the job was created.
	CreatedAt time.Time

	// UpdatedAt is when the job last changed.
	UpdatedAt time.Time
}
