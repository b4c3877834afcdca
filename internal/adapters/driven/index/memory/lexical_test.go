package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicalSearchRanksByRelevance(t *testing.T) {
	idx := NewLexicalIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "heavy", "fusion fusion fusion of ranked lists"))
	require.NoError(t, idx.Add(ctx, "light", "fusion appears once in this text"))
	require.NoError(t, idx.Add(ctx, "none", "completely unrelated material"))

	hits, err := idx.Search(ctx, "fusion", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "heavy", hits[0].UnitID)
	assert.Equal(t, "light", hits[1].UnitID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestLexicalMatchesStemmedForms(t *testing.T) {
	idx := NewLexicalIndex()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "doc", "the runner was running quickly"))

	// Query and document share no surface form, only the stem.
	hits, err := idx.Search(ctx, "runs", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc", hits[0].UnitID)
}

func TestLexicalDropsStopwords(t *testing.T) {
	idx := NewLexicalIndex()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "doc", "the table is on a page"))

	// A stopword-only query analyses to nothing and matches nothing.
	hits, err := idx.Search(ctx, "what is the", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search(ctx, "table", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestLexicalNoSharedTermsReturnsEmpty(t *testing.T) {
	idx := NewLexicalIndex()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "doc", "vaccine efficacy by age group"))

	hits, err := idx.Search(ctx, "photosynthesis", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestLexicalSearchTruncatesToK(t *testing.T) {
	idx := NewLexicalIndex()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "a", "shared term alpha"))
	require.NoError(t, idx.Add(ctx, "b", "shared term beta"))
	require.NoError(t, idx.Add(ctx, "c", "shared term gamma"))

	hits, err := idx.Search(ctx, "shared", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestLexicalTiesKeepInsertionOrder(t *testing.T) {
	idx := NewLexicalIndex()
	ctx := context.Background()

	// Identical documents tie on score; insertion order decides.
	for _, id := range []string{"z", "m", "a"} {
		require.NoError(t, idx.Add(ctx, id, "identical content here"))
	}

	hits, err := idx.Search(ctx, "identical", 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "z", hits[0].UnitID)
	assert.Equal(t, "m", hits[1].UnitID)
	assert.Equal(t, "a", hits[2].UnitID)
}

func TestLexicalReAddReplacesDocument(t *testing.T) {
	idx := NewLexicalIndex()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "doc", "original wording"))
	require.NoError(t, idx.Add(ctx, "doc", "replacement wording"))
	assert.Equal(t, 1, idx.Count())

	hits, err := idx.Search(ctx, "original", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search(ctx, "replacement", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestLexicalAddRejectsEmptyID(t *testing.T) {
	idx := NewLexicalIndex()
	require.Error(t, idx.Add(context.Background(), "", "text"))
}

func TestLexicalRemoveAndClear(t *testing.T) {
	idx := NewLexicalIndex()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "a", "alpha text"))
	require.NoError(t, idx.Add(ctx, "b", "beta text"))

	require.NoError(t, idx.Remove(ctx, []string{"a", "ghost"}))
	assert.Equal(t, 1, idx.Count())

	hits, err := idx.Search(ctx, "alpha", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, idx.Clear(ctx))
	assert.Zero(t, idx.Count())
}

func TestLexicalNumbersAreSearchable(t *testing.T) {
	idx := NewLexicalIndex()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, "doc", "enrolled 4000 participants in 2021"))

	hits, err := idx.Search(ctx, "4000", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}
