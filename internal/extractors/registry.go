// Package extractors provides format-specific text extraction and the
// extension-keyed registry that dispatches to it.
package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction by file extension.
// Adding a format means registering another Extractor, not touching dispatch.
type Registry struct {
	byExtension map[string]driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		byExtension: make(map[string]driven.Extractor),
	}
}

// Register adds an extractor for all of its extensions.
// A later registration for the same extension wins.
func (r *Registry) Register(e driven.Extractor) {
	for _, ext := range e.Extensions() {
		r.byExtension[strings.ToLower(ext)] = e
	}
}

// Supported returns all registered extensions, sorted.
func (r *Registry) Supported() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract dispatches to the extractor registered for the file's extension.
// Unknown extensions are rejected with domain.ErrUnsupportedFormat before
// any content is read.
func (r *Registry) Extract(ctx context.Context, file *domain.RawFile) (*domain.Extraction, error) {
	if file == nil {
		return nil, domain.ErrInvalidInput
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	extractor, ok := r.byExtension[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}

	logger.Debug("Extracting %s via %T", file.Filename, extractor)

	extraction, err := extractor.Extract(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, file.Filename, err)
	}
	return extraction, nil
}
