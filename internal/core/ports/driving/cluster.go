package driving

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// ClusterService runs density-based clustering over the full corpus.
type ClusterService interface {
	// ClusterAllAsync dispatches a clustering run as a background job and
	// returns its job id immediately. Progress is observed via JobService.
	ClusterAllAsync(ctx context.Context) (string, error)

	// ClusterAll runs clustering synchronously. With fewer than two
	// documents it returns an empty result without invoking the algorithm.
	ClusterAll(ctx context.Context) (*domain.ClusterResult, error)
}

// JobService tracks background jobs.
type JobService interface {
	// Get returns the job by id, or domain.ErrJobNotFound.
	Get(ctx context.Context, jobID string) (*domain.Job, error)

	// List returns recent jobs, newest first.
	List(ctx context.Context) ([]domain.Job, error)

	// Cancel sets the cancellation flag on a running job. Cancellation is
	// best-effort: the job observes the flag between processing stages.
	Cancel(ctx context.Context, jobID string) error
}
