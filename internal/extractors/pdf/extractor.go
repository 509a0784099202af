// Package pdf extracts text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract reads every page and concatenates the plain text.
// A single unreadable page is recorded as a warning; only a document
// that cannot be opened at all is a failure.
func (e *Extractor) Extract(_ context.Context, file *domain.RawFile) (*domain.Extraction, error) {
	reader, err := pdf.NewReader(bytes.NewReader(file.Content), int64(len(file.Content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var (
		pages    []string
		warnings []string
	)

	total := reader.NumPage()
	for pageNum := 1; pageNum <= total; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			warnings = append(warnings, fmt.Sprintf("page %d: empty page object", pageNum))
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("PDF %s: page %d unreadable: %v", file.Filename, pageNum, err)
			warnings = append(warnings, fmt.Sprintf("page %d: %v", pageNum, err))
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return &domain.Extraction{
		Text:     strings.Join(pages, "\n\n"),
		Mode:     domain.ChunkModeProse,
		Warnings: warnings,
	}, nil
}
