package cli

import (
	"context"
	"errors"
	"time"

	memstorage "github.com/corpora-labs/corpora-cli/internal/adapters/driven/storage/memory"
	memvectors "github.com/corpora-labs/corpora-cli/internal/adapters/driven/vectorstore/memory"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/services"
	"github.com/corpora-labs/corpora-cli/internal/extractors"
	"github.com/corpora-labs/corpora-cli/internal/extractors/plaintext"
)

// setupTestServices installs mock services into the package vars so commands
// execute without touching real infrastructure. The returned cleanup restores
// the previous wiring.
func setupTestServices() func() {
	oldSettings := settingsService
	oldIngest := ingestService
	oldSearch := searchService
	oldDocument := documentService
	oldCluster := clusterService
	oldJob := jobService
	oldProjection := projectionService
	oldEmbedding := embeddingService
	oldVectors := vectorStore
	oldExtractors := extractorRegistry
	oldWired := wired

	settingsService = services.NewSettingsService(memstorage.NewConfigStore())
	ingestService = &mockIngestService{}
	searchService = &mockSearchService{}
	documentService = &mockDocumentService{}
	clusterService = &mockClusterService{}
	jobService = &mockJobService{}
	projectionService = &mockProjectionService{}
	embeddingService = &mockEmbeddingService{}
	vectorStore = memvectors.New()
	extractorRegistry = extractors.NewRegistry()
	extractorRegistry.Register(plaintext.New())
	wired = true

	return func() {
		settingsService = oldSettings
		ingestService = oldIngest
		searchService = oldSearch
		documentService = oldDocument
		clusterService = oldCluster
		jobService = oldJob
		projectionService = oldProjection
		embeddingService = oldEmbedding
		vectorStore = oldVectors
		extractorRegistry = oldExtractors
		wired = oldWired
	}
}

// --- search ---

type mockSearchService struct{}

func (m *mockSearchService) Search(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
	return []domain.SearchResult{
		{
			Chunk: domain.Chunk{
				ID:         "doc-1:0",
				DocumentID: "doc-1",
				Text:       "A chunk about rocket engines.",
				Metadata:   map[string]any{"filename": "rockets.txt"},
			},
			Score: 0.92,
		},
	}, nil
}

type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
	return nil, errors.New("search failed")
}

// --- ingest ---

type mockIngestService struct{}

func (m *mockIngestService) IngestOne(_ context.Context, file *domain.RawFile, _ domain.UploadMetadata) (*domain.IngestResult, error) {
	return &domain.IngestResult{DocumentID: "doc-new", Filename: file.Filename, ChunkCount: 2}, nil
}

func (m *mockIngestService) IngestBatch(_ context.Context, files []*domain.RawFile, _ domain.UploadMetadata) (*domain.BatchResult, error) {
	result := &domain.BatchResult{Total: len(files), Successful: len(files)}
	for _, f := range files {
		result.Results = append(result.Results, domain.FileStatus{
			Filename:   f.Filename,
			DocumentID: "doc-new",
			ChunkCount: 2,
		})
	}
	return result, nil
}

// --- documents ---

type mockDocumentService struct{}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return []domain.Document{
		{
			ID:          "doc-1",
			Filename:    "rockets.txt",
			Extension:   ".txt",
			TotalChunks: 3,
			UploadedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}, nil
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	clusterID := 0
	return &domain.Document{
		ID:          id,
		Filename:    "rockets.txt",
		Extension:   ".txt",
		Category:    "engineering",
		Tags:        []string{"space"},
		TotalChunks: 3,
		ClusterID:   &clusterID,
		ClusterName: "Engine & Rocket",
		UploadedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return nil
}

type mockDocumentServiceEmpty struct {
	mockDocumentService
}

func (m *mockDocumentServiceEmpty) List(_ context.Context) ([]domain.Document, error) {
	return nil, nil
}

type mockDocumentServiceError struct{}

func (m *mockDocumentServiceError) List(_ context.Context) ([]domain.Document, error) {
	return nil, errors.New("registry unavailable")
}

func (m *mockDocumentServiceError) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, errors.New("registry unavailable")
}

func (m *mockDocumentServiceError) Delete(_ context.Context, _ string) error {
	return errors.New("registry unavailable")
}

// --- clustering and jobs ---

type mockClusterService struct{}

func (m *mockClusterService) ClusterAllAsync(_ context.Context) (string, error) {
	return "job-123", nil
}

func (m *mockClusterService) ClusterAll(_ context.Context) (*domain.ClusterResult, error) {
	return &domain.ClusterResult{
		ClusterCount:    1,
		NoiseCount:      0,
		ChunksClustered: 3,
		Assignments:     map[string]int{"doc-1:0": 0, "doc-1:1": 0, "doc-1:2": 0},
		Names:           map[int]string{0: "Engine & Rocket"},
	}, nil
}

type mockJobService struct{}

func (m *mockJobService) Get(_ context.Context, jobID string) (*domain.Job, error) {
	if jobID == "missing" {
		return nil, domain.ErrJobNotFound
	}
	return &domain.Job{
		ID:       jobID,
		Type:     domain.JobTypeClustering,
		Status:   domain.JobCompleted,
		Progress: 100,
	}, nil
}

func (m *mockJobService) List(_ context.Context) ([]domain.Job, error) {
	return []domain.Job{
		{ID: "job-123", Type: domain.JobTypeClustering, Status: domain.JobCompleted, Progress: 100},
	}, nil
}

func (m *mockJobService) Cancel(_ context.Context, _ string) error {
	return nil
}

// mockJobServiceRunning reports every job as still running, so callers
// polling for completion never see a terminal state.
type mockJobServiceRunning struct {
	mockJobService
}

func (m *mockJobServiceRunning) Get(_ context.Context, jobID string) (*domain.Job, error) {
	return &domain.Job{
		ID:       jobID,
		Type:     domain.JobTypeClustering,
		Status:   domain.JobRunning,
		Progress: 40,
	}, nil
}

// --- projection ---

type mockProjectionService struct{}

func (m *mockProjectionService) Project(_ context.Context) ([]domain.ProjectedPoint, error) {
	return []domain.ProjectedPoint{
		{ChunkID: "doc-1:0", DocumentID: "doc-1", X: 0.1, Y: 0.2, Z: 0.3, ClusterID: 0, ClusterName: "Engine & Rocket"},
	}, nil
}

// --- embedding ---

type mockEmbeddingService struct{}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int { return 3 }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }
