package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionNotReady indicates a query arrived before ingestion
	// completed, or after it failed.
	ErrSessionNotReady = errors.New("session not ready")

	// ErrIngestInProgress indicates an ingestion pass is already running.
	ErrIngestInProgress = errors.New("ingestion in progress")

	// ErrNoRelevantContent indicates a query matched nothing in the index.
	// This is a user-visible outcome, not a system fault.
	ErrNoRelevantContent = errors.New("no relevant content found")

	// ErrLLMUnavailable indicates the generation service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Dense retrieval is impossible without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// ExtractionError indicates document extraction failed. It is fatal to the
// session: no units from the document are indexed.
type ExtractionError struct {
	// Source is the document that failed to extract.
	Source string

	// Err is the underlying cause.
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// SummarizationError indicates summary generation failed for a single
// unit. It is recoverable: the unit is indexed with a placeholder summary
// and flagged low-confidence rather than dropped.
type SummarizationError struct {
	// Page and Kind identify the failing unit.
	Page int
	Kind ContentKind

	// Err is the underlying cause.
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarise %s on page %d: %v", e.Kind, e.Page, e.Err)
}

func (e *SummarizationError) Unwrap() error {
	return e.Err
}

// IndexConsistencyError indicates a batch could not be indexed in both
// sub-indexes. The whole batch is rolled back: after this error neither
// sub-index contains any unit from the batch.
type IndexConsistencyError struct {
	// Stage names the indexing step that failed (embed, dense, lexical).
	Stage string

	// UnitID identifies the failing unit when known.
	UnitID string

	// Err is the underlying cause.
	Err error
}

func (e *IndexConsistencyError) Error() string {
	if e.UnitID != "" {
		return fmt.Sprintf("index batch rolled back at %s stage (unit %s): %v", e.Stage, e.UnitID, e.Err)
	}
	return fmt.Sprintf("index batch rolled back at %s stage: %v", e.Stage, e.Err)
}

func (e *IndexConsistencyError) Unwrap() error {
	return e.Err
}

// EmptyContextError indicates no retrieved unit fits within the context
// budget, so no grounded answer can be produced for this query.
type EmptyContextError struct {
	// Budget is the configured context budget.
	Budget int

	// SmallestUnit is the size of the smallest candidate unit.
	SmallestUnit int
}

func (e *EmptyContextError) Error() string {
	return fmt.Sprintf("no unit fits context budget %d (smallest candidate is %d bytes)", e.Budget, e.SmallestUnit)
}

// Is reports the user-visible outcome: an empty context means there is no
// relevant content to answer from.
func (e *EmptyContextError) Is(target error) bool {
	return target == ErrNoRelevantContent
}

// GenerationError indicates answer generation failed after bounded
// retries. It is per-query and user-visible.
type GenerationError struct {
	// Attempts is the number of attempts made.
	Attempts int

	// Err is the last underlying cause.
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate answer: %v (after %d attempts)", e.Err, e.Attempts)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
