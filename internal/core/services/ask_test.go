package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	indexmemory "github.com/docent-ai/docent/internal/adapters/driven/index/memory"
	storagememory "github.com/docent-ai/docent/internal/adapters/driven/storage/memory"
	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
)

// semanticEmbedder keys vectors off the text so a query about a formula
// lands near the figure summary and nothing else.
func semanticEmbedder() *mockEmbedder {
	return &mockEmbedder{
		dims: 3,
		fn: func(text string) []float32 {
			lower := strings.ToLower(text)
			switch {
			case strings.Contains(lower, "formula"):
				return []float32{1, 0, 0}
			case strings.Contains(lower, "efficacy"):
				return []float32{0, 1, 0}
			default:
				return []float32{0, 0, 1}
			}
		},
	}
}

func newAskFixture(t *testing.T, llm driven.LLMService) (*AskService, *IngestService) {
	t.Helper()
	session := domain.NewSession()
	units := storagememory.NewUnitStore()
	embedder := semanticEmbedder()
	index := NewDualIndex(units, indexmemory.NewVectorIndex(embedder.dims), indexmemory.NewLexicalIndex(), embedder)

	extractor := &mockExtractor{supports: true, units: []domain.RawUnit{
		{Kind: domain.KindText, Page: 1, Content: "Introduction: this study measures how well the vaccine works."},
		{Kind: domain.KindTable, Page: 3, Content: "| age | ve |\n| 18-49 | 0.91 |\n| 50+ | 0.84 |"},
		{Kind: domain.KindImage, Page: 5, Content: "Figure 1: derivation of VE under the test-negative design"},
	}}

	ingest := NewIngestService(session, []driven.Extractor{extractor}, NewSummarizer(llm, &mockPromptStore{}), index)
	retriever := NewFusionRetriever(index, units, domain.RetrievalConfig{})
	ask := NewAskService(session, retriever, NewContextAssembler(units), NewAnswerGenerator(llm, &mockPromptStore{}), units)
	return ask, ingest
}

func TestAskEndToEnd(t *testing.T) {
	llm := testLLMFor("The vaccine efficacy formula is VE = 1 - OR [p5-image].")
	ask, ingest := newAskFixture(t, llm)

	_, err := ingest.Ingest(context.Background(), "paper.pdf")
	require.NoError(t, err)

	answer, err := ask.Ask(context.Background(), "What is the formula for vaccine efficacy?")
	require.NoError(t, err)

	assert.Equal(t, "The vaccine efficacy formula is VE = 1 - OR [p5-image].", answer.Text)
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "p5-image", answer.Citations[0].Label)
	assert.Equal(t, 5, answer.Citations[0].Page)
	assert.Equal(t, domain.KindImage, answer.Citations[0].Kind)

	// The answer prompt was grounded on the figure's raw content, not the
	// generated summary that indexed it.
	var answerPrompt string
	for _, p := range promptsOf(llm) {
		if strings.Contains(p, "Question:") {
			answerPrompt = p
		}
	}
	require.NotEmpty(t, answerPrompt)
	assert.Contains(t, answerPrompt, "Figure 1: derivation of VE under the test-negative design")
	assert.NotContains(t, answerPrompt, "Formula for the test-negative design")
}

func TestAskBeforeIngestFails(t *testing.T) {
	ask, _ := newAskFixture(t, testLLMFor("unused"))

	_, err := ask.Ask(context.Background(), "anything")
	require.ErrorIs(t, err, domain.ErrSessionNotReady)
}

func TestAskNothingFitsBudget(t *testing.T) {
	llm := testLLMFor("unused")
	session := domain.NewSession()
	units := storagememory.NewUnitStore()
	embedder := semanticEmbedder()
	index := NewDualIndex(units, indexmemory.NewVectorIndex(embedder.dims), indexmemory.NewLexicalIndex(), embedder)

	extractor := &mockExtractor{supports: true, units: []domain.RawUnit{
		{Kind: domain.KindText, Page: 1, Content: "A paragraph far larger than any budget this test allows."},
	}}
	ingest := NewIngestService(session, []driven.Extractor{extractor}, NewSummarizer(llm, &mockPromptStore{}), index)

	// Every unit overflows a five-byte budget, which is the user-visible
	// no-content outcome rather than a system fault.
	retriever := NewFusionRetriever(index, units, domain.RetrievalConfig{ContextBudget: 5})
	ask := NewAskService(session, retriever, NewContextAssembler(units), NewAnswerGenerator(llm, &mockPromptStore{}), units)

	_, err := ingest.Ingest(context.Background(), "paper.pdf")
	require.NoError(t, err)

	_, err = ask.Ask(context.Background(), "what does the paragraph say")
	require.ErrorIs(t, err, domain.ErrNoRelevantContent)

	var emptyErr *domain.EmptyContextError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, 5, emptyErr.Budget)
}

func TestRetrieveResolvesUnitsWithRanks(t *testing.T) {
	llm := testLLMFor("unused")
	ask, ingest := newAskFixture(t, llm)

	_, err := ingest.Ingest(context.Background(), "paper.pdf")
	require.NoError(t, err)

	results, err := ask.Retrieve(context.Background(), "formula for the test-negative design", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// The figure matches on both paths and must lead.
	assert.Equal(t, domain.KindImage, results[0].Unit.Kind)
	assert.Equal(t, 5, results[0].Unit.Page)
	assert.Equal(t, 1, results[0].DenseRank)
	assert.Equal(t, 1, results[0].LexicalRank)
	assert.Greater(t, results[0].Score, 0.0)
	for _, r := range results {
		assert.NotEmpty(t, r.Unit.RawContent)
	}
}

func TestRetrieveTruncatesToK(t *testing.T) {
	llm := testLLMFor("unused")
	ask, ingest := newAskFixture(t, llm)

	_, err := ingest.Ingest(context.Background(), "paper.pdf")
	require.NoError(t, err)

	results, err := ask.Retrieve(context.Background(), "formula for the test-negative design", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestRetrieveBeforeIngestFails(t *testing.T) {
	ask, _ := newAskFixture(t, testLLMFor("unused"))

	_, err := ask.Retrieve(context.Background(), "anything", 5)
	require.ErrorIs(t, err, domain.ErrSessionNotReady)
}

func promptsOf(llm *mockLLM) []string {
	llm.mu.Lock()
	defer llm.mu.Unlock()
	return append([]string(nil), llm.prompts...)
}
