package driving

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// IngestService coordinates extraction, chunking, embedding, and storage
// for uploaded files.
type IngestService interface {
	// IngestOne processes a single file. Returns a structured rejection
	// (unsupported format, empty content, oversized file) or infrastructure
	// error; on success the document and all its chunks are persisted.
	IngestOne(ctx context.Context, file *domain.RawFile, meta domain.UploadMetadata) (*domain.IngestResult, error)

	// IngestBatch processes multiple files sharing upload metadata.
	// Per-file failures are isolated and reported individually; no single
	// bad file aborts the batch.
	IngestBatch(ctx context.Context, files []*domain.RawFile, meta domain.UploadMetadata) (*domain.BatchResult, error)
}

// DocumentService provides document listing and deletion.
type DocumentService interface {
	// List returns all registered documents without scanning the vector store.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves one document record.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes a document and all its chunk records.
	// The vector store and registry are kept consistent; a partial failure
	// is surfaced as domain.ErrPartialWrite.
	Delete(ctx context.Context, id string) error
}
