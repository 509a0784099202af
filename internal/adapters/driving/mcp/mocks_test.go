package mcp

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	_ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return m.results, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	deleted   []string
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockJobService is a mock implementation of driving.JobService.
type mockJobService struct {
	job  *domain.Job
	jobs []domain.Job
	err  error
}

func (m *mockJobService) Get(_ context.Context, _ string) (*domain.Job, error) {
	return m.job, m.err
}

func (m *mockJobService) List(_ context.Context) ([]domain.Job, error) {
	return m.jobs, m.err
}

func (m *mockJobService) Cancel(_ context.Context, _ string) error {
	return m.err
}

// mockClusterService is a mock implementation of driving.ClusterService.
type mockClusterService struct {
	jobID  string
	result *domain.ClusterResult
	err    error
}

func (m *mockClusterService) ClusterAllAsync(_ context.Context) (string, error) {
	return m.jobID, m.err
}

func (m *mockClusterService) ClusterAll(_ context.Context) (*domain.ClusterResult, error) {
	return m.result, m.err
}
