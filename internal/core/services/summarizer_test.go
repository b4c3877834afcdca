package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docent-ai/docent/internal/core/domain"
)

func TestSummarizeTextNormalisesWhitespace(t *testing.T) {
	s := NewSummarizer(&mockLLM{}, &mockPromptStore{})

	summary, err := s.Summarize(context.Background(), domain.KindText, 1, "  An   introduction\n\nto the  topic.  ")
	require.NoError(t, err)
	assert.Equal(t, "An introduction to the topic.", summary)
}

func TestSummarizeTextNeverCallsLLM(t *testing.T) {
	llm := &mockLLM{}
	s := NewSummarizer(llm, &mockPromptStore{})

	_, err := s.Summarize(context.Background(), domain.KindText, 1, "plain prose")
	require.NoError(t, err)
	assert.Zero(t, llm.calls)
}

func TestSummarizeTableUsesPrompt(t *testing.T) {
	llm := &mockLLM{responses: []string{"A table of results."}}
	s := NewSummarizer(llm, &mockPromptStore{})

	summary, err := s.Summarize(context.Background(), domain.KindTable, 2, "| a | b |")
	require.NoError(t, err)
	assert.Equal(t, "A table of results.", summary)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "| a | b |")
	assert.Contains(t, llm.prompts[0], "table")
}

func TestSummarizeImageUsesPrompt(t *testing.T) {
	llm := &mockLLM{responses: []string{"A flow diagram."}}
	s := NewSummarizer(llm, &mockPromptStore{})

	summary, err := s.Summarize(context.Background(), domain.KindImage, 5, "Figure 2: pipeline overview")
	require.NoError(t, err)
	assert.Equal(t, "A flow diagram.", summary)
	assert.Contains(t, llm.prompts[0], "Figure 2: pipeline overview")
}

func TestSummarizeFailureReturnsSummarizationError(t *testing.T) {
	llm := &mockLLM{errs: []error{errors.New("rate limited")}}
	s := NewSummarizer(llm, &mockPromptStore{})

	_, err := s.Summarize(context.Background(), domain.KindTable, 3, "| x |")
	var sumErr *domain.SummarizationError
	require.ErrorAs(t, err, &sumErr)
	assert.Equal(t, 3, sumErr.Page)
	assert.Equal(t, domain.KindTable, sumErr.Kind)
}

func TestSummarizeRejectsDegenerateSummary(t *testing.T) {
	llm := &mockLLM{responses: []string{"  .  "}}
	s := NewSummarizer(llm, &mockPromptStore{})

	_, err := s.Summarize(context.Background(), domain.KindTable, 1, "| x |")
	var sumErr *domain.SummarizationError
	require.ErrorAs(t, err, &sumErr)
}

func TestSummarizeUnknownKind(t *testing.T) {
	s := NewSummarizer(&mockLLM{}, &mockPromptStore{})

	_, err := s.Summarize(context.Background(), domain.ContentKind("video"), 1, "x")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummarizeAllFillsEveryUnit(t *testing.T) {
	llm := testLLMFor("unused")
	s := NewSummarizer(llm, &mockPromptStore{})

	units := []domain.ContentUnit{
		{ID: "t1", Kind: domain.KindText, Page: 1, RawContent: "Some  prose here", OrderIndex: 0},
		{ID: "tb1", Kind: domain.KindTable, Page: 3, RawContent: "| age | ve |", OrderIndex: 1},
		{ID: "im1", Kind: domain.KindImage, Page: 5, RawContent: "Figure 1: formula", OrderIndex: 2},
	}

	out, err := s.SummarizeAll(context.Background(), units)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "Some prose here", out[0].Summary)
	assert.Equal(t, "Comparison of vaccine efficacy across age groups", out[1].Summary)
	assert.Equal(t, "Formula for the test-negative design: VE = 1 - OR", out[2].Summary)
	for _, unit := range out {
		assert.False(t, unit.LowConfidence)
	}

	// Input slice is not mutated.
	assert.Empty(t, units[1].Summary)
}

func TestSummarizeAllDegradesToPlaceholder(t *testing.T) {
	llm := &mockLLM{fn: func(string) (string, error) {
		return "", errors.New("provider down")
	}}
	s := NewSummarizer(llm, &mockPromptStore{})

	units := []domain.ContentUnit{
		{ID: "t1", Kind: domain.KindText, Page: 1, RawContent: "prose", OrderIndex: 0},
		{ID: "tb1", Kind: domain.KindTable, Page: 4, RawContent: "| x |", OrderIndex: 1},
	}

	out, err := s.SummarizeAll(context.Background(), units)
	require.NoError(t, err)

	// The text unit does not need generation and is unaffected.
	assert.Equal(t, "prose", out[0].Summary)
	assert.False(t, out[0].LowConfidence)

	// The table unit is kept with a placeholder, never dropped.
	assert.Equal(t, "Table on page 4 (summary unavailable)", out[1].Summary)
	assert.True(t, out[1].LowConfidence)
}

func TestSummarizeAllCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSummarizer(testLLMFor(""), &mockPromptStore{})
	_, err := s.SummarizeAll(ctx, []domain.ContentUnit{
		{ID: "tb1", Kind: domain.KindTable, Page: 1, RawContent: "| x |"},
	})
	require.ErrorIs(t, err, context.Canceled)
}
