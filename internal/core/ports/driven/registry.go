package driven

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// DocumentRegistry is the key-value store of document-level metadata,
// keyed by document id. It exists so listing documents is O(1) in the
// number of documents rather than a scan of every vector.
// Backed by SQLite in production, an in-memory implementation in tests.
type DocumentRegistry interface {
	// Put stores or replaces the record for doc.ID.
	Put(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by id. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all registered documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document record. Returns domain.ErrNotFound when absent.
	Delete(ctx context.Context, id string) error

	// SetCluster updates the cluster assignment on a document record.
	SetCluster(ctx context.Context, id string, clusterID int, clusterName string) error

	// Count returns the number of registered documents.
	Count(ctx context.Context) (int, error)

	// Clear removes every record.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
