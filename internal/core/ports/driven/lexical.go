package driven

import "context"

// LexicalIndex provides term-based keyword search over unit summaries.
// Scoring is document-frequency aware (BM25) with stemmed term matching.
type LexicalIndex interface {
	// Add indexes the text under the given unit ID.
	Add(ctx context.Context, unitID string, text string) error

	// Remove deletes the given unit IDs from the index. Unknown IDs are
	// ignored; Remove is used for batch rollback.
	Remove(ctx context.Context, unitIDs []string) error

	// Search returns up to k entries containing at least one query term,
	// ordered by descending score. An empty result is valid, not an error.
	Search(ctx context.Context, query string, k int) ([]LexicalHit, error)

	// Count returns the number of indexed entries.
	Count() int

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// LexicalHit represents a keyword search result.
type LexicalHit struct {
	// UnitID is the matched content unit.
	UnitID string

	// Score is the BM25 relevance score.
	Score float64
}
