package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
	"github.com/docent-ai/docent/internal/logger"
)

// DualIndex owns the two synchronised sub-indexes over the session's
// content units: a dense vector index and a sparse lexical index. Both
// index summaries, never raw content. The consistency invariant is that
// after Add succeeds both sub-indexes contain exactly the same unit IDs,
// and after a failed Add neither contains any ID from that batch.
type DualIndex struct {
	units    driven.UnitStore
	vector   driven.VectorIndex
	lexical  driven.LexicalIndex
	embedder driven.EmbeddingService
}

// NewDualIndex creates a dual index over the given stores.
func NewDualIndex(
	units driven.UnitStore,
	vector driven.VectorIndex,
	lexical driven.LexicalIndex,
	embedder driven.EmbeddingService,
) *DualIndex {
	return &DualIndex{
		units:    units,
		vector:   vector,
		lexical:  lexical,
		embedder: embedder,
	}
}

// Add indexes a batch of content units in both sub-indexes. The batch is
// append-only and all-or-nothing: embeddings are computed up front, then
// every unit is committed to the vector and lexical indexes in turn. Any
// failure rolls the whole batch back and returns a
// *domain.IndexConsistencyError.
func (d *DualIndex) Add(ctx context.Context, units []domain.ContentUnit) error {
	if len(units) == 0 {
		return nil
	}
	if d.embedder == nil {
		return &domain.IndexConsistencyError{Stage: "embed", Err: domain.ErrEmbeddingUnavailable}
	}

	logger.Section("Indexing")
	logger.Debug("Indexing %d units (model: %s)", len(units), d.embedder.ModelName())

	for _, unit := range units {
		if err := unit.Validate(); err != nil {
			return &domain.IndexConsistencyError{Stage: "validate", UnitID: unit.ID, Err: err}
		}
	}

	// Embed every summary before touching either sub-index so an embedding
	// failure leaves no partial state behind.
	summaries := make([]string, len(units))
	for i, unit := range units {
		summaries[i] = unit.Summary
	}

	embeddings, err := d.embedder.EmbedBatch(ctx, summaries)
	if err != nil {
		return &domain.IndexConsistencyError{Stage: "embed", Err: err}
	}
	if len(embeddings) != len(units) {
		return &domain.IndexConsistencyError{
			Stage: "embed",
			Err:   fmt.Errorf("expected %d embeddings, got %d", len(units), len(embeddings)),
		}
	}

	var added []string
	rollback := func() {
		if len(added) == 0 {
			return
		}
		logger.Warn("Rolling back %d partially indexed units", len(added))
		if rerr := d.vector.Remove(ctx, added); rerr != nil {
			logger.Warn("Vector rollback failed: %v", rerr)
		}
		if rerr := d.lexical.Remove(ctx, added); rerr != nil {
			logger.Warn("Lexical rollback failed: %v", rerr)
		}
	}

	for i, unit := range units {
		if err := d.vector.Add(ctx, unit.ID, embeddings[i]); err != nil {
			rollback()
			return &domain.IndexConsistencyError{Stage: "dense", UnitID: unit.ID, Err: err}
		}
		if err := d.lexical.Add(ctx, unit.ID, unit.Summary); err != nil {
			// The unit made it into the vector index only; include it in
			// the rollback set.
			added = append(added, unit.ID)
			rollback()
			return &domain.IndexConsistencyError{Stage: "lexical", UnitID: unit.ID, Err: err}
		}
		added = append(added, unit.ID)
	}

	if err := d.units.SaveUnits(ctx, units); err != nil {
		rollback()
		return &domain.IndexConsistencyError{Stage: "store", Err: err}
	}

	logger.Info("Indexed %d units (dense=%d, lexical=%d)", len(units), d.vector.Count(), d.lexical.Count())
	return nil
}

// SearchDense ranks indexed summaries by embedding similarity to the
// query. Always returns up to k hits, however low the similarity: coverage
// matters more than precision here, filtering happens during fusion and
// context assembly.
func (d *DualIndex) SearchDense(ctx context.Context, query string, k int) ([]domain.RankedHit, error) {
	if d.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	embedding, err := d.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := d.vector.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("dense search: %w", err)
	}

	ranked := make([]scoredID, len(hits))
	for i, hit := range hits {
		ranked[i] = scoredID{id: hit.UnitID, score: hit.Similarity}
	}
	return d.assignRanks(ctx, ranked)
}

// SearchLexical ranks indexed summaries by BM25 term overlap with the
// query. May return fewer than k hits; an empty result is valid.
func (d *DualIndex) SearchLexical(ctx context.Context, query string, k int) ([]domain.RankedHit, error) {
	hits, err := d.lexical.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}

	ranked := make([]scoredID, len(hits))
	for i, hit := range hits {
		ranked[i] = scoredID{id: hit.UnitID, score: hit.Score}
	}
	return d.assignRanks(ctx, ranked)
}

// Count returns the number of indexed units.
func (d *DualIndex) Count() int {
	return d.units.Count()
}

// Clear discards the entire entity set. Used when a new document replaces
// the session's previous one.
func (d *DualIndex) Clear(ctx context.Context) error {
	if err := d.vector.Clear(ctx); err != nil {
		return fmt.Errorf("clear vector index: %w", err)
	}
	if err := d.lexical.Clear(ctx); err != nil {
		return fmt.Errorf("clear lexical index: %w", err)
	}
	if err := d.units.Clear(ctx); err != nil {
		return fmt.Errorf("clear unit store: %w", err)
	}
	return nil
}

// scoredID is an intermediate hit before rank assignment.
type scoredID struct {
	id    string
	score float64
}

// assignRanks orders hits by descending score, breaking score ties by
// OrderIndex ascending (earlier content wins), and assigns 1-based ranks.
// The tie-break keeps rankings deterministic and reproducible.
func (d *DualIndex) assignRanks(ctx context.Context, hits []scoredID) ([]domain.RankedHit, error) {
	orderOf := make(map[string]int, len(hits))
	for _, hit := range hits {
		unit, err := d.units.GetUnit(ctx, hit.id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// A hit that no longer resolves is a consistency bug, not
				// something to paper over silently.
				return nil, fmt.Errorf("hit %s not in unit store: %w", hit.id, err)
			}
			return nil, err
		}
		orderOf[hit.id] = unit.OrderIndex
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return orderOf[hits[i].id] < orderOf[hits[j].id]
	})

	ranked := make([]domain.RankedHit, len(hits))
	for i, hit := range hits {
		ranked[i] = domain.RankedHit{ID: hit.id, Score: hit.score, Rank: i + 1}
	}
	return ranked, nil
}
