package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/corpora-labs/corpora-cli/internal/clustering"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure ProjectionService implements the interface.
var _ driving.ProjectionService = (*ProjectionService)(nil)

// projectionComponents is the target dimensionality for visualisation.
const projectionComponents = 3

// ProjectionService computes a PCA reduction of every stored embedding to
// three dimensions. The projection is recomputed over the whole corpus, so
// the result is cached until ingestion, deletion or clustering invalidates
// it.
type ProjectionService struct {
	vectors driven.VectorStore

	mu     sync.Mutex
	cached []domain.ProjectedPoint
	valid  bool
}

// NewProjectionService creates a new projection service.
func NewProjectionService(vectors driven.VectorStore) *ProjectionService {
	return &ProjectionService{vectors: vectors}
}

// Invalidate drops the cached projection. Safe to call concurrently.
func (s *ProjectionService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.valid = false
	s.mu.Unlock()
}

// Project returns one 3D point per stored chunk.
func (s *ProjectionService) Project(ctx context.Context) ([]domain.ProjectedPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid {
		logger.Debug("Projection cache hit (%d points)", len(s.cached))
		return s.cached, nil
	}

	points, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	s.cached = points
	s.valid = true
	return points, nil
}

func (s *ProjectionService) compute(ctx context.Context) ([]domain.ProjectedPoint, error) {
	var (
		vectors [][]float32
		points  []domain.ProjectedPoint
	)
	err := s.vectors.ScrollAll(ctx, true, func(p driven.Point) error {
		vectors = append(vectors, p.Vector)

		docID, _ := p.Payload["document_id"].(string)
		name, _ := p.Payload["cluster_name"].(string)
		clusterID := domain.NoiseCluster
		if v, ok := payloadInt(p.Payload, "cluster_id"); ok {
			clusterID = v
		}
		if name == "" {
			name = domain.NoiseClusterName
		}
		points = append(points, domain.ProjectedPoint{
			ChunkID:     p.ID,
			DocumentID:  docID,
			ClusterID:   clusterID,
			ClusterName: name,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading vectors: %w", err)
	}

	coords := clustering.Project(vectors, projectionComponents)
	for i := range points {
		points[i].X = coords[i][0]
		points[i].Y = coords[i][1]
		points[i].Z = coords[i][2]
	}
	logger.Debug("Projected %d points to %dD", len(points), projectionComponents)
	return points, nil
}

// payloadInt reads an integer payload value regardless of how the store
// round-tripped it.
func payloadInt(payload map[string]any, key string) (int, bool) {
	switch v := payload[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
