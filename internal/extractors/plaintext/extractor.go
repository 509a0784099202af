// Package plaintext extracts text and markdown files verbatim.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text and markdown documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt", ".md", ".markdown", ".rst", ".log"}
}

// Extract returns the file content as prose text.
// Invalid UTF-8 sequences are replaced rather than failing the file.
func (e *Extractor) Extract(_ context.Context, file *domain.RawFile) (*domain.Extraction, error) {
	text := string(file.Content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}

	return &domain.Extraction{
		Text: strings.TrimSpace(text),
		Mode: domain.ChunkModeProse,
	}, nil
}
