// Package csv extracts text from delimiter-separated files.
package csv

import (
	"context"
	gocsv "encoding/csv"
	"fmt"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles CSV and TSV files.
type Extractor struct{}

// New creates a new CSV extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".csv", ".tsv"}
}

// Extract flattens rows into "cell | cell | cell" lines, preserving
// row order so chunks remain locally coherent.
func (e *Extractor) Extract(_ context.Context, file *domain.RawFile) (*domain.Extraction, error) {
	content := string(file.Content)

	reader := gocsv.NewReader(strings.NewReader(content))
	reader.Comma = sniffDelimiter(content, file.Filename)
	reader.FieldsPerRecord = -1 // Ragged rows are common in the wild
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	lines := make([]string, 0, len(records))
	for _, record := range records {
		cells := make([]string, 0, len(record))
		for _, cell := range record {
			cells = append(cells, strings.TrimSpace(cell))
		}
		if joined := strings.Join(cells, " | "); strings.TrimSpace(joined) != "" {
			lines = append(lines, joined)
		}
	}

	return &domain.Extraction{
		Text: strings.Join(lines, "\n"),
		Mode: domain.ChunkModeProse,
	}, nil
}

// sniffDelimiter picks the delimiter from the first line.
// TSV extension forces tabs; otherwise the most frequent candidate wins.
func sniffDelimiter(content, filename string) rune {
	if strings.HasSuffix(strings.ToLower(filename), ".tsv") {
		return '\t'
	}

	firstLine := content
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		firstLine = content[:idx]
	}

	best := ','
	bestCount := strings.Count(firstLine, ",")
	for _, candidate := range []rune{';', '\t', '|'} {
		if n := strings.Count(firstLine, string(candidate)); n > bestCount {
			best = candidate
			bestCount = n
		}
	}
	return best
}
