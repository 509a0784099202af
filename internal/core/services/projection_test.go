package services

import (
	"context"
	"math"
	"testing"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"

	vectormem "github.com/corpora-labs/corpora-cli/internal/adapters/driven/vectorstore/memory"
)

func seedProjectionStore(t *testing.T, store *vectormem.Store) {
	t.Helper()
	points := []driven.Point{
		{
			ID:     "doc-a:0",
			Vector: []float32{1, 0, 0, 0},
			Payload: map[string]any{
				"document_id": "doc-a", "text": "alpha",
				"cluster_id": 0, "cluster_name": "engines",
			},
		},
		{
			ID:     "doc-a:1",
			Vector: []float32{0.9, 0.1, 0, 0},
			Payload: map[string]any{
				"document_id": "doc-a", "text": "beta",
				"cluster_id": 0, "cluster_name": "engines",
			},
		},
		{
			ID:     "doc-b:0",
			Vector: []float32{0, 0, 1, 0},
			Payload: map[string]any{
				"document_id": "doc-b", "text": "gamma",
			},
		},
	}
	if err := store.Upsert(context.Background(), points); err != nil {
		t.Fatalf("seeding: %v", err)
	}
}

func TestProjection_Project(t *testing.T) {
	store := vectormem.New()
	seedProjectionStore(t, store)
	svc := NewProjectionService(store)

	points, err := svc.Project(context.Background())
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	// Store order is preserved and cluster metadata carried through.
	if points[0].ChunkID != "doc-a:0" || points[0].ClusterID != 0 || points[0].ClusterName != "engines" {
		t.Errorf("unexpected first point: %+v", points[0])
	}
	// Unclustered chunks read as noise.
	if points[2].ClusterID != domain.NoiseCluster || points[2].ClusterName != domain.NoiseClusterName {
		t.Errorf("unclustered chunk: %+v", points[2])
	}

	// Similar vectors stay close, dissimilar ones apart.
	near := dist3(points[0], points[1])
	far := dist3(points[0], points[2])
	if near >= far {
		t.Errorf("projection lost structure: near %f, far %f", near, far)
	}
}

func TestProjection_CachesUntilInvalidated(t *testing.T) {
	store := vectormem.New()
	seedProjectionStore(t, store)
	svc := NewProjectionService(store)
	ctx := context.Background()

	first, err := svc.Project(ctx)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	// New data is invisible until invalidation.
	err = store.Upsert(ctx, []driven.Point{{
		ID:      "doc-c:0",
		Vector:  []float32{0, 1, 0, 0},
		Payload: map[string]any{"document_id": "doc-c", "text": "delta"},
	}})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	cached, err := svc.Project(ctx)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(cached) != len(first) {
		t.Errorf("cache miss without invalidation: %d points", len(cached))
	}

	svc.Invalidate()
	fresh, err := svc.Project(ctx)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(fresh) != 4 {
		t.Errorf("expected 4 points after invalidation, got %d", len(fresh))
	}
}

func TestProjection_EmptyStore(t *testing.T) {
	svc := NewProjectionService(vectormem.New())
	points, err := svc.Project(context.Background())
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected no points, got %d", len(points))
	}
}

func dist3(a, b domain.ProjectedPoint) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
