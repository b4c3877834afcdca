package driving

import (
	"context"

	"github.com/docent-ai/docent/internal/core/domain"
)

// IngestService loads one document into the session index.
type IngestService interface {
	// Ingest extracts, summarises and indexes the document at source.
	// Any previously loaded document is discarded first. Ingestion must
	// complete before queries are served.
	Ingest(ctx context.Context, source string) (*domain.IngestReport, error)

	// State returns the session lifecycle state.
	State() domain.SessionState
}
