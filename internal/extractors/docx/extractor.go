// Package docx extracts text from Word documents.
package docx

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv/v2"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

const mimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".docx"}
}

// Extract converts the document body to plain text.
func (e *Extractor) Extract(_ context.Context, file *domain.RawFile) (*domain.Extraction, error) {
	result, err := docconv.Convert(bytes.NewReader(file.Content), mimeType, false)
	if err != nil {
		return nil, fmt.Errorf("convert docx: %w", err)
	}

	return &domain.Extraction{
		Text: strings.TrimSpace(result.Body),
		Mode: domain.ChunkModeProse,
	}, nil
}
