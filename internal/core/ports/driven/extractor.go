package driven

import (
	"context"

	"github.com/docent-ai/docent/internal/core/domain"
)

// Extractor yields the raw content units of a document, ordered by page
// and then by order of appearance within the page. The core assigns IDs
// and ingestion order on receipt.
//
// Binary parsing mechanics (text layout, table detection, image capture)
// live entirely behind this port.
type Extractor interface {
	// Extract parses the document at source and returns its content units.
	Extract(ctx context.Context, source string) ([]domain.RawUnit, error)

	// Supports reports whether this extractor can handle the source.
	Supports(source string) bool
}
