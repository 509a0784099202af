package driven

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// PostProcessor processes extracted text to produce chunks.
// PostProcessors are chained in a pipeline (e.g. chunking, metadata stamping).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes the extraction for a document and returns chunks.
	// If the processor creates chunks (e.g. the chunker), it receives nil
	// and returns new chunks. If it enriches chunks, it receives and
	// returns the chunk slice.
	Process(ctx context.Context, documentID string, ext *domain.Extraction, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the extraction through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, documentID string, ext *domain.Extraction) ([]domain.Chunk, error)
}
