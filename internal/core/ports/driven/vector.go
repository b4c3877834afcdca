package driven

import "context"

// VectorIndex provides dense similarity search over unit summaries.
type VectorIndex interface {
	// Add inserts an embedding for the given unit ID.
	Add(ctx context.Context, unitID string, embedding []float32) error

	// Remove deletes the given unit IDs from the index. Unknown IDs are
	// ignored; Remove is used for batch rollback.
	Remove(ctx context.Context, unitIDs []string) error

	// Search finds the k most similar entries to the query vector, ordered
	// by descending similarity. Always returns up to k results regardless
	// of how low the similarity is.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Count returns the number of indexed entries.
	Count() int

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// UnitID is the matched content unit.
	UnitID string

	// Similarity is the cosine similarity score.
	Similarity float64
}
