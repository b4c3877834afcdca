package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/docent-ai/docent/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an exact cosine-similarity index. Vectors are normalised
// on insert so search reduces to a dot product.
type VectorIndex struct {
	mu         sync.RWMutex
	dimensions int
	entries    map[string][]float32
	order      []string
}

// NewVectorIndex creates an empty vector index. All vectors must share
// the given dimensionality; mixing embedding spaces would corrupt
// similarity comparisons.
func NewVectorIndex(dimensions int) *VectorIndex {
	return &VectorIndex{
		dimensions: dimensions,
		entries:    make(map[string][]float32),
	}
}

// Add inserts a normalised copy of the embedding under the unit ID.
func (idx *VectorIndex) Add(_ context.Context, unitID string, embedding []float32) error {
	if unitID == "" {
		return fmt.Errorf("vector index: empty unit ID")
	}
	if idx.dimensions > 0 && len(embedding) != idx.dimensions {
		return fmt.Errorf("vector index: expected %d dimensions, got %d", idx.dimensions, len(embedding))
	}

	normalised, err := normalise(embedding)
	if err != nil {
		return fmt.Errorf("vector index: unit %s: %w", unitID, err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.entries[unitID]; !exists {
		idx.order = append(idx.order, unitID)
	}
	idx.entries[unitID] = normalised
	return nil
}

// Remove deletes the given unit IDs. Unknown IDs are ignored.
func (idx *VectorIndex) Remove(_ context.Context, unitIDs []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	drop := make(map[string]bool, len(unitIDs))
	for _, id := range unitIDs {
		drop[id] = true
		delete(idx.entries, id)
	}
	kept := idx.order[:0]
	for _, id := range idx.order {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	idx.order = kept
	return nil
}

// Search returns the k nearest entries by cosine similarity, descending.
// Entries are visited in insertion order so equal similarities rank
// deterministically.
func (idx *VectorIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if idx.dimensions > 0 && len(query) != idx.dimensions {
		return nil, fmt.Errorf("vector index: query has %d dimensions, expected %d", len(query), idx.dimensions)
	}

	normalisedQuery, err := normalise(query)
	if err != nil {
		return nil, fmt.Errorf("vector index: query: %w", err)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(idx.order))
	for _, id := range idx.order {
		hits = append(hits, driven.VectorHit{
			UnitID:     id,
			Similarity: dot(normalisedQuery, idx.entries[id]),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of indexed entries.
func (idx *VectorIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Clear removes all entries.
func (idx *VectorIndex) Clear(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = make(map[string][]float32)
	idx.order = nil
	return nil
}

// Close releases resources. The in-memory index holds none.
func (idx *VectorIndex) Close() error {
	return nil
}

// normalise returns a unit-length copy of the vector.
func normalise(v []float32) ([]float32, error) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, fmt.Errorf("zero-magnitude vector")
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, nil
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
