// Package xlsx extracts text from Excel workbooks.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles XLSX workbooks.
type Extractor struct{}

// New creates a new XLSX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".xlsx"}
}

// Extract flattens every sheet into "cell | cell | cell" rows under a
// "Sheet: name" header, preserving row/column locality so chunks stay
// locally coherent.
func (e *Extractor) Extract(_ context.Context, file *domain.RawFile) (*domain.Extraction, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	var (
		parts    []string
		units    []string
		warnings []string
	)

	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("sheet %q: %v", sheet, err))
			continue
		}

		var lines []string
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				if cell = strings.TrimSpace(cell); cell != "" {
					cells = append(cells, cell)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " | "))
			}
		}

		if len(lines) > 0 {
			sheetText := "Sheet: " + sheet + "\n" + strings.Join(lines, "\n")
			parts = append(parts, sheetText)
			units = append(units, sheetText)
		}
	}

	return &domain.Extraction{
		Text:     strings.Join(parts, "\n\n"),
		Units:    units,
		Mode:     domain.ChunkModeProse,
		Warnings: warnings,
	}, nil
}
