package mcp

import (
	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
	"github.com/docent-ai/docent/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ingest loads documents into the session.
	Ingest driving.IngestService

	// Ask answers questions and runs retrieval.
	Ask driving.AskService

	// Session exposes session state for resources.
	Session *domain.Session

	// Units exposes the indexed content units for resources.
	Units driven.UnitStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	if p.Ask == nil {
		return ErrMissingAskService
	}
	// Session and Units only back the optional resources.
	return nil
}
