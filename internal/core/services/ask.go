package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
	"github.com/docent-ai/docent/internal/core/ports/driving"
	"github.com/docent-ai/docent/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService runs the query pipeline: hybrid retrieval, rank fusion,
// context assembly, answer generation.
type AskService struct {
	session   *domain.Session
	retriever *FusionRetriever
	assembler *ContextAssembler
	generator *AnswerGenerator
	units     driven.UnitStore
}

// NewAskService creates a query service over an ingested session.
func NewAskService(
	session *domain.Session,
	retriever *FusionRetriever,
	assembler *ContextAssembler,
	generator *AnswerGenerator,
	units driven.UnitStore,
) *AskService {
	return &AskService{
		session:   session,
		retriever: retriever,
		assembler: assembler,
		generator: generator,
		units:     units,
	}
}

// Ask answers the question from the loaded document. Two user-visible
// non-fault outcomes wrap domain.ErrNoRelevantContent: the fused result
// set is empty, or nothing fits the context budget. Everything else is a
// system failure.
func (s *AskService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	if err := s.session.RequireReady(); err != nil {
		return nil, err
	}

	hits, err := s.retriever.Search(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	if len(hits) == 0 {
		logger.Info("No hits for question")
		return nil, fmt.Errorf("%w: the document contains nothing matching the question", domain.ErrNoRelevantContent)
	}

	bundle, err := s.assembler.Build(ctx, hits, s.retriever.Config().ContextBudget)
	if err != nil {
		var empty *domain.EmptyContextError
		if errors.As(err, &empty) {
			// EmptyContextError.Is already maps this onto
			// ErrNoRelevantContent for callers using errors.Is.
			return nil, err
		}
		return nil, fmt.Errorf("assemble context: %w", err)
	}

	return s.generator.Answer(ctx, question, bundle)
}

// Retrieve runs hybrid retrieval and resolves the fused hits without
// generating an answer.
func (s *AskService) Retrieve(ctx context.Context, query string, k int) ([]driving.RetrievedUnit, error) {
	if err := s.session.RequireReady(); err != nil {
		return nil, err
	}

	hits, err := s.retriever.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}

	results := make([]driving.RetrievedUnit, 0, len(hits))
	for _, hit := range hits {
		unit, err := s.units.GetUnit(ctx, hit.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve hit %s: %w", hit.ID, err)
		}
		results = append(results, driving.RetrievedUnit{
			Unit:        *unit,
			Score:       hit.Score,
			DenseRank:   hit.DenseRank,
			LexicalRank: hit.LexicalRank,
		})
	}
	return results, nil
}
