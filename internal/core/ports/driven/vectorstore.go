package driven

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// Point is one (id, vector, payload) triple stored in the vector store.
// Payload is a flat mapping of string keys to scalar or array values.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// Filter narrows vector store queries by payload fields.
// Empty/zero fields impose no constraint.
type Filter struct {
	DocumentID string
	Category   string
	Tags       []string
	Extensions []string
	FolderPath string
	ClusterID  *int

	// UploadedAfter and UploadedBefore bound the upload_date payload field,
	// expressed as Unix seconds. Zero disables the bound.
	UploadedAfter  int64
	UploadedBefore int64
}

// VectorStore is the external service storing (vector, payload) pairs and
// supporting nearest-neighbour search with metadata filtering.
// Backed by Qdrant in production, an in-memory implementation in tests.
type VectorStore interface {
	// EnsureCollection creates the collection if missing, with the given
	// vector dimensionality and cosine distance.
	EnsureCollection(ctx context.Context, dimensions int) error

	// Upsert writes all points as a single logical append.
	Upsert(ctx context.Context, points []Point) error

	// Search returns the k best hits for the query vector, optionally
	// restricted by filter. Results are ranked by descending similarity.
	Search(ctx context.Context, vector []float32, filter *Filter, k int) ([]domain.SearchResult, error)

	// ScrollAll streams every stored point to fn in store order.
	// Returning an error from fn stops the scroll.
	ScrollAll(ctx context.Context, withVectors bool, fn func(Point) error) error

	// SetPayload merges the given payload fields onto the identified points.
	// Used for cluster assignment write-back.
	SetPayload(ctx context.Context, ids []string, payload map[string]any) error

	// DeleteByDocument removes every chunk belonging to the document.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Clear drops all stored points.
	Clear(ctx context.Context) error
}
