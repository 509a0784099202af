// Package metadata provides a processor that stamps positional metadata
// onto chunks after they have been created.
package metadata

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor annotates each chunk with its position within the document
// and any extraction warnings, so the information survives into the
// vector store payload.
type Processor struct{}

// New creates a new metadata processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "metadata"
}

// Process stamps chunk_index and chunk_total onto every chunk.
func (p *Processor) Process(_ context.Context, _ string, ext *domain.Extraction, chunks []domain.Chunk) ([]domain.Chunk, error) {
	total := len(chunks)
	for i := range chunks {
		if chunks[i].Metadata == nil {
			chunks[i].Metadata = make(map[string]any)
		}
		chunks[i].Metadata["chunk_index"] = chunks[i].Ordinal
		chunks[i].Metadata["chunk_total"] = total
		if len(ext.Warnings) > 0 {
			chunks[i].Metadata["extraction_warnings"] = len(ext.Warnings)
		}
	}
	return chunks, nil
}
