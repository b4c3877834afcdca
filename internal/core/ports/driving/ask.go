package driving

import (
	"context"

	"github.com/docent-ai/docent/internal/core/domain"
)

// AskService answers natural-language questions about the loaded document.
type AskService interface {
	// Ask retrieves grounded context for the question and generates a
	// cited answer. Returns domain.ErrNoRelevantContent when nothing in
	// the document matches the question.
	Ask(ctx context.Context, question string) (*domain.Answer, error)

	// Retrieve runs hybrid retrieval without answer generation and returns
	// the fused candidates with their resolved units. Intended for
	// inspection and programmatic consumers.
	Retrieve(ctx context.Context, query string, k int) ([]RetrievedUnit, error)
}

// RetrievedUnit pairs a fused hit with its resolved content unit.
type RetrievedUnit struct {
	// Unit is the resolved content unit.
	Unit domain.ContentUnit

	// Score is the fused RRF score.
	Score float64

	// DenseRank is the 1-based rank in the dense list, 0 when absent.
	DenseRank int

	// LexicalRank is the 1-based rank in the lexical list, 0 when absent.
	LexicalRank int
}
