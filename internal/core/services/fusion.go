package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
	"github.com/docent-ai/docent/internal/logger"
)

// FusionRetriever runs the dense and lexical searches independently and
// merges the two ranked lists into one via Reciprocal Rank Fusion.
// Fusion is keyed on unit ID with a best-known rank per list, so a unit
// appearing in both top-k lists contributes once with both ranks recorded.
type FusionRetriever struct {
	index *DualIndex
	units driven.UnitStore
	cfg   domain.RetrievalConfig
}

// NewFusionRetriever creates a fusion retriever with the given policy.
func NewFusionRetriever(index *DualIndex, units driven.UnitStore, cfg domain.RetrievalConfig) *FusionRetriever {
	return &FusionRetriever{
		index: index,
		units: units,
		cfg:   cfg.Normalised(),
	}
}

// Config returns the effective retrieval configuration.
func (r *FusionRetriever) Config() domain.RetrievalConfig {
	return r.cfg
}

// Search returns the top fused hits for the query. The two sub-index
// searches run concurrently; both are pure reads. An empty result means
// no matching content, not an error. Identical query and index state
// always yield identical output ordering.
func (r *FusionRetriever) Search(ctx context.Context, query string) ([]domain.FusedHit, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q (k_dense=%d, k_lexical=%d, k_final=%d, rrf_c=%d)",
		query, r.cfg.KDense, r.cfg.KLexical, r.cfg.KFinal, r.cfg.RRFConstant)

	var denseHits, lexicalHits []domain.RankedHit
	var denseErr, lexicalErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		denseHits, denseErr = r.index.SearchDense(ctx, query, r.cfg.KDense)
	}()

	go func() {
		defer wg.Done()
		lexicalHits, lexicalErr = r.index.SearchLexical(ctx, query, r.cfg.KLexical)
	}()

	wg.Wait()

	if denseErr != nil && lexicalErr != nil {
		return nil, fmt.Errorf("hybrid retrieval: dense=%w, lexical=%w", denseErr, lexicalErr)
	}
	if denseErr != nil {
		logger.Warn("Dense search failed, fusing lexical results only: %v", denseErr)
	}
	if lexicalErr != nil {
		logger.Warn("Lexical search failed, fusing dense results only: %v", lexicalErr)
	}

	logger.Debug("Dense hits: %d, lexical hits: %d", len(denseHits), len(lexicalHits))

	fused, err := r.Fuse(ctx, denseHits, lexicalHits)
	if err != nil {
		return nil, err
	}

	if len(fused) > r.cfg.KFinal {
		fused = fused[:r.cfg.KFinal]
	}

	logger.Info("Fused results: %d", len(fused))
	return fused, nil
}

// Fuse merges two ranked lists with Reciprocal Rank Fusion:
//
//	score(id) = sum over lists containing id of 1 / (C + rank)
//
// Final order is descending fused score, then number of contributing
// lists descending (appearing in both beats appearing in one), then
// OrderIndex ascending. Re-running fusion on the same inputs always
// yields an identical ordering.
func (r *FusionRetriever) Fuse(ctx context.Context, dense, lexical []domain.RankedHit) ([]domain.FusedHit, error) {
	if len(dense) == 0 && len(lexical) == 0 {
		return []domain.FusedHit{}, nil
	}

	c := float64(r.cfg.RRFConstant)
	byID := make(map[string]*domain.FusedHit)

	for _, hit := range dense {
		byID[hit.ID] = &domain.FusedHit{
			ID:        hit.ID,
			Score:     1.0 / (c + float64(hit.Rank)),
			DenseRank: hit.Rank,
		}
	}

	for _, hit := range lexical {
		if fused, ok := byID[hit.ID]; ok {
			fused.Score += 1.0 / (c + float64(hit.Rank))
			fused.LexicalRank = hit.Rank
			continue
		}
		byID[hit.ID] = &domain.FusedHit{
			ID:          hit.ID,
			Score:       1.0 / (c + float64(hit.Rank)),
			LexicalRank: hit.Rank,
		}
	}

	orderOf := make(map[string]int, len(byID))
	for id := range byID {
		unit, err := r.units.GetUnit(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("fused hit %s not in unit store: %w", id, err)
			}
			return nil, err
		}
		orderOf[id] = unit.OrderIndex
	}

	fused := make([]domain.FusedHit, 0, len(byID))
	for _, hit := range byID {
		fused = append(fused, *hit)
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		if ci, cj := fused[i].Contributing(), fused[j].Contributing(); ci != cj {
			return ci > cj
		}
		return orderOf[fused[i].ID] < orderOf[fused[j].ID]
	})

	return fused, nil
}
