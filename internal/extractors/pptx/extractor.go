// Package pptx extracts text from PowerPoint presentations.
package pptx

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv/v2"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

const mimeType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PPTX presentations.
type Extractor struct{}

// New creates a new PPTX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pptx", ".ppt"}
}

// Extract converts slide text to plain text. Slides are separated by blank
// lines so sentence chunking keeps slide content locally coherent.
func (e *Extractor) Extract(_ context.Context, file *domain.RawFile) (*domain.Extraction, error) {
	result, err := docconv.Convert(bytes.NewReader(file.Content), mimeType, false)
	if err != nil {
		return nil, fmt.Errorf("convert pptx: %w", err)
	}

	return &domain.Extraction{
		Text: strings.TrimSpace(result.Body),
		Mode: domain.ChunkModeProse,
	}, nil
}
