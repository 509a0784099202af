// Package image extracts text from images via optical character recognition.
package image

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor runs Tesseract OCR over raster images.
// OCR fails soft: an unreadable image yields empty text plus a warning,
// never a fatal error, so one bad scan cannot sink a batch.
type Extractor struct {
	language string
}

// Option configures the image extractor.
type Option func(*Extractor)

// WithLanguage sets the Tesseract language model (default "eng").
func WithLanguage(lang string) Option {
	return func(e *Extractor) {
		if lang != "" {
			e.language = lang
		}
	}
}

// New creates a new OCR extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{language: "eng"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".webp", ".tiff", ".bmp"}
}

// Extract runs OCR over the image bytes.
func (e *Extractor) Extract(_ context.Context, file *domain.RawFile) (*domain.Extraction, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return nil, fmt.Errorf("set ocr language: %w", err)
	}
	if err := client.SetImageFromBytes(file.Content); err != nil {
		logger.Warn("OCR %s: unreadable image: %v", file.Filename, err)
		return &domain.Extraction{
			Mode:     domain.ChunkModeProse,
			Warnings: []string{fmt.Sprintf("unreadable image: %v", err)},
		}, nil
	}

	text, err := client.Text()
	if err != nil {
		logger.Warn("OCR %s: recognition failed: %v", file.Filename, err)
		return &domain.Extraction{
			Mode:     domain.ChunkModeProse,
			Warnings: []string{fmt.Sprintf("ocr failed: %v", err)},
		}, nil
	}

	text = strings.TrimSpace(text)
	var warnings []string
	if text == "" {
		warnings = append(warnings, "no text recognised in image")
	}

	return &domain.Extraction{
		Text:     text,
		Mode:     domain.ChunkModeProse,
		Warnings: warnings,
	}, nil
}
