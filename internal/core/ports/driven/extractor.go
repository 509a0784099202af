package driven

import (
	"context"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

// Extractor turns a file's bytes into plain text plus structural hints.
// Each extractor handles a fixed set of file extensions.
type Extractor interface {
	// Extensions returns the lowercased extensions this extractor handles,
	// including the leading dot.
	Extensions() []string

	// Extract produces the extraction for the given file.
	// A failure is format-specific and reported per-file; it must never be
	// treated as fatal to a batch. Extractors that can partially recover
	// (e.g. OCR on a blank image) return empty text plus a warning instead
	// of an error.
	Extract(ctx context.Context, file *domain.RawFile) (*domain.Extraction, error)
}

// ExtractorRegistry selects the extractor for a file extension.
// Adding a format means adding an Extractor and a registry entry,
// not modifying dispatch logic.
type ExtractorRegistry interface {
	// Extract dispatches to the extractor registered for the file's
	// extension. Returns domain.ErrUnsupportedFormat for unknown extensions,
	// before reading any content.
	Extract(ctx context.Context, file *domain.RawFile) (*domain.Extraction, error)

	// Register adds an extractor for all of its extensions.
	Register(e Extractor)

	// Supported returns all registered extensions, sorted.
	Supported() []string
}
