// Package pdf provides a document extractor for PDF files.
//
// Text is pulled per page with ledongthuc/pdf. The library exposes plain
// text only, so every unit this extractor yields is a text unit; tables
// and figures in born-digital PDFs come through as flattened prose. Use a
// manifest document when table and image units matter.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// minBlockLength filters out page furniture (numbers, running headers).
const minBlockLength = 20

// Extractor parses PDF files into per-page text units.
type Extractor struct{}

// NewExtractor creates a new PDF extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supports reports whether the source looks like a PDF file.
func (e *Extractor) Supports(source string) bool {
	return strings.EqualFold(filepath.Ext(source), ".pdf")
}

// Extract parses the PDF and returns one text unit per paragraph block,
// ordered by page then by position within the page.
func (e *Extractor) Extract(_ context.Context, source string) ([]domain.RawUnit, error) {
	f, r, err := pdf.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", source, err)
	}
	defer f.Close()

	var units []domain.RawUnit
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Individual pages can have broken content streams.
			// Skip them rather than failing the whole document.
			continue
		}

		for _, block := range splitBlocks(text) {
			units = append(units, domain.RawUnit{
				Kind:    domain.KindText,
				Page:    i,
				Content: block,
			})
		}
	}

	return units, nil
}

// splitBlocks splits page text into paragraph blocks on blank lines.
// A page without blank-line structure yields a single block.
func splitBlocks(text string) []string {
	var blocks []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if len(block) < minBlockLength {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}
