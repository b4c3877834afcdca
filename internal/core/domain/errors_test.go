package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionErrorUnwrap(t *testing.T) {
	cause := errors.New("corrupt file")
	err := &ExtractionError{Source: "doc.pdf", Err: cause}

	assert.Contains(t, err.Error(), "doc.pdf")
	assert.ErrorIs(t, err, cause)
}

func TestSummarizationErrorUnwrap(t *testing.T) {
	err := &SummarizationError{Page: 3, Kind: KindTable, Err: ErrLLMUnavailable}

	assert.Contains(t, err.Error(), "page 3")
	assert.ErrorIs(t, err, ErrLLMUnavailable)
}

func TestIndexConsistencyErrorMessages(t *testing.T) {
	withUnit := &IndexConsistencyError{Stage: "lexical", UnitID: "u-1", Err: errors.New("boom")}
	assert.Contains(t, withUnit.Error(), "lexical")
	assert.Contains(t, withUnit.Error(), "u-1")

	withoutUnit := &IndexConsistencyError{Stage: "embed", Err: errors.New("boom")}
	assert.Contains(t, withoutUnit.Error(), "embed")
	assert.NotContains(t, withoutUnit.Error(), "unit ")
}

func TestEmptyContextErrorIsNoRelevantContent(t *testing.T) {
	var err error = &EmptyContextError{Budget: 100, SmallestUnit: 250}

	// The user-visible outcome is "nothing to answer from", so errors.Is
	// must map the typed error onto the sentinel.
	require.ErrorIs(t, err, ErrNoRelevantContent)
	assert.Contains(t, err.Error(), "100")
	assert.Contains(t, err.Error(), "250")
}

func TestGenerationErrorUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := &GenerationError{Attempts: 3, Err: cause}

	assert.Contains(t, err.Error(), "3 attempts")
	assert.ErrorIs(t, err, cause)
}
