package driving

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// ProjectionService reduces stored embeddings to three dimensions for
// visualisation.
type ProjectionService interface {
	// Project returns one 3D point per stored chunk, carrying its cluster
	// assignment. Results are cached until the corpus changes.
	Project(ctx context.Context) ([]domain.ProjectedPoint, error)
}
