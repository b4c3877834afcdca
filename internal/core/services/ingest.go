package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
	"github.com/docent-ai/docent/internal/core/ports/driving"
	"github.com/docent-ai/docent/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the ingestion pipeline: extraction, summarisation,
// dual indexing. It owns the session lifecycle - queries are only served
// once an ingestion pass has fully completed.
type IngestService struct {
	session    *domain.Session
	extractors []driven.Extractor
	summarizer *Summarizer
	index      *DualIndex
}

// NewIngestService creates an ingestion service. Extractors are consulted
// in order; the first one supporting the source wins.
func NewIngestService(
	session *domain.Session,
	extractors []driven.Extractor,
	summarizer *Summarizer,
	index *DualIndex,
) *IngestService {
	return &IngestService{
		session:    session,
		extractors: extractors,
		summarizer: summarizer,
		index:      index,
	}
}

// Ingest loads the document at source into the session, replacing any
// previously loaded document. On failure the session is marked failed and
// must be re-ingested before queries are served.
func (s *IngestService) Ingest(ctx context.Context, source string) (*domain.IngestReport, error) {
	if err := s.session.BeginIngest(source); err != nil {
		return nil, err
	}

	report, err := s.ingest(ctx, source)
	if err != nil {
		s.session.FailIngest()
		return nil, err
	}

	if err := s.session.CompleteIngest(report); err != nil {
		return nil, err
	}
	return report, nil
}

// State returns the session lifecycle state.
func (s *IngestService) State() domain.SessionState {
	return s.session.State()
}

func (s *IngestService) ingest(ctx context.Context, source string) (*domain.IngestReport, error) {
	logger.Section("Ingestion")
	logger.Debug("Source: %s", source)

	// A new document discards the entire prior entity set.
	if err := s.index.Clear(ctx); err != nil {
		return nil, fmt.Errorf("discard previous document: %w", err)
	}

	extractor, err := s.extractorFor(source)
	if err != nil {
		return nil, err
	}

	raw, err := extractor.Extract(ctx, source)
	if err != nil {
		return nil, &domain.ExtractionError{Source: source, Err: err}
	}
	if len(raw) == 0 {
		return nil, &domain.ExtractionError{Source: source, Err: fmt.Errorf("document yielded no content units")}
	}
	logger.Info("Extracted %d raw units", len(raw))

	// Assign identity on receipt: a stable unique ID and the ingestion
	// sequence number used for deterministic tie-breaking.
	units := make([]domain.ContentUnit, len(raw))
	for i, r := range raw {
		units[i] = domain.ContentUnit{
			ID:         uuid.NewString(),
			Kind:       r.Kind,
			Page:       r.Page,
			RawContent: r.Content,
			OrderIndex: i,
		}
	}

	units, err = s.summarizer.SummarizeAll(ctx, units)
	if err != nil {
		return nil, err
	}

	if err := s.index.Add(ctx, units); err != nil {
		return nil, err
	}

	report := &domain.IngestReport{Source: source}
	for _, unit := range units {
		switch unit.Kind {
		case domain.KindText:
			report.TextUnits++
		case domain.KindTable:
			report.TableUnits++
		case domain.KindImage:
			report.ImageUnits++
		}
		if unit.LowConfidence {
			report.LowConfidence++
		}
	}

	logger.Info("Ingested %d units (%d text, %d tables, %d images, %d low-confidence)",
		report.TotalUnits(), report.TextUnits, report.TableUnits, report.ImageUnits, report.LowConfidence)
	return report, nil
}

func (s *IngestService) extractorFor(source string) (driven.Extractor, error) {
	for _, e := range s.extractors {
		if e.Supports(source) {
			return e, nil
		}
	}
	return nil, &domain.ExtractionError{
		Source: source,
		Err:    fmt.Errorf("no extractor supports this document"),
	}
}
