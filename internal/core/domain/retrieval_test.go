package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrievalConfigNormalised(t *testing.T) {
	cfg := RetrievalConfig{}.Normalised()
	assert.Equal(t, DefaultKDense, cfg.KDense)
	assert.Equal(t, DefaultKLexical, cfg.KLexical)
	assert.Equal(t, DefaultKFinal, cfg.KFinal)
	assert.Equal(t, DefaultRRFConstant, cfg.RRFConstant)
	assert.Equal(t, DefaultContextBudget, cfg.ContextBudget)
}

func TestRetrievalConfigNormalisedKeepsExplicitValues(t *testing.T) {
	cfg := RetrievalConfig{
		KDense:        20,
		KLexical:      15,
		KFinal:        8,
		RRFConstant:   30,
		ContextBudget: 4000,
	}.Normalised()
	assert.Equal(t, 20, cfg.KDense)
	assert.Equal(t, 15, cfg.KLexical)
	assert.Equal(t, 8, cfg.KFinal)
	assert.Equal(t, 30, cfg.RRFConstant)
	assert.Equal(t, 4000, cfg.ContextBudget)
}

func TestRetrievalConfigNormalisedReplacesNegatives(t *testing.T) {
	cfg := RetrievalConfig{KDense: -1, ContextBudget: -100}.Normalised()
	assert.Equal(t, DefaultKDense, cfg.KDense)
	assert.Equal(t, DefaultContextBudget, cfg.ContextBudget)
}

func TestFusedHitContributing(t *testing.T) {
	assert.Equal(t, 0, FusedHit{}.Contributing())
	assert.Equal(t, 1, FusedHit{DenseRank: 3}.Contributing())
	assert.Equal(t, 1, FusedHit{LexicalRank: 1}.Contributing())
	assert.Equal(t, 2, FusedHit{DenseRank: 1, LexicalRank: 2}.Contributing())
}

func TestContextBundleLabels(t *testing.T) {
	bundle := ContextBundle{
		Entries: []ContextEntry{
			{Label: "p1-text"},
			{Label: "p5-image"},
		},
	}
	assert.Equal(t, []string{"p1-text", "p5-image"}, bundle.Labels())
}
