package services

import (
	"context"
	"fmt"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService provides document listing and deletion over the registry
// and the vector store.
type DocumentService struct {
	registry    driven.DocumentRegistry
	vectors     driven.VectorStore
	invalidator cacheInvalidator
}

// NewDocumentService creates a new document service.
func NewDocumentService(registry driven.DocumentRegistry, vectors driven.VectorStore) *DocumentService {
	return &DocumentService{
		registry: registry,
		vectors:  vectors,
	}
}

// SetInvalidator registers a cache to invalidate whenever the corpus
// changes.
func (s *DocumentService) SetInvalidator(inv cacheInvalidator) {
	s.invalidator = inv
}

// List returns all registered documents, newest first.
// The registry answers directly; no vector scan is involved.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.registry.List(ctx)
}

// Get retrieves one document record.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.registry.Get(ctx, id)
}

// Delete removes a document's chunks from the vector store and its record
// from the registry. The registry row is removed last so a failed vector
// delete leaves the document visible and retryable rather than orphaned.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}

	// Existence check first so callers get a clean not-found.
	if _, err := s.registry.Get(ctx, id); err != nil {
		return err
	}

	if err := s.vectors.DeleteByDocument(ctx, id); err != nil {
		return fmt.Errorf("deleting chunks of %s: %w", id, err)
	}

	if err := s.registry.Delete(ctx, id); err != nil {
		// Chunks are gone but the registry row survived.
		logger.Error("Registry delete of %s failed after vector delete: %v", id, err)
		return fmt.Errorf("%w: chunks removed but registry delete failed: %v", domain.ErrPartialWrite, err)
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}

	logger.Info("Deleted document %s", id)
	return nil
}
