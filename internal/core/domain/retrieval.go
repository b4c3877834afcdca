package domain

// Default retrieval policy values. These are policy choices rather than
// structural requirements and can be overridden through configuration.
const (
	DefaultKDense        = 10
	DefaultKLexical      = 10
	DefaultKFinal        = 5
	DefaultRRFConstant   = 60
	DefaultContextBudget = 6000
)

// RetrievalConfig holds the tunable retrieval and fusion parameters.
type RetrievalConfig struct {
	// KDense is the number of candidates requested from the dense index.
	KDense int

	// KLexical is the number of candidates requested from the lexical index.
	KLexical int

	// KFinal is the number of fused hits returned.
	KFinal int

	// RRFConstant dampens the influence of rank-1 dominance in fusion.
	RRFConstant int

	// ContextBudget is the maximum cumulative raw-content size (in bytes)
	// of a context bundle.
	ContextBudget int
}

// Normalised returns a copy with zero or negative fields replaced by the
// defaults.
func (c RetrievalConfig) Normalised() RetrievalConfig {
	if c.KDense <= 0 {
		c.KDense = DefaultKDense
	}
	if c.KLexical <= 0 {
		c.KLexical = DefaultKLexical
	}
	if c.KFinal <= 0 {
		c.KFinal = DefaultKFinal
	}
	if c.RRFConstant <= 0 {
		c.RRFConstant = DefaultRRFConstant
	}
	if c.ContextBudget <= 0 {
		c.ContextBudget = DefaultContextBudget
	}
	return c
}

// RankedHit is a single result from one retrieval path. Rank is 1-based;
// ties in raw score are broken by OrderIndex ascending so that identical
// queries always produce identical rankings.
type RankedHit struct {
	// ID is the matched content unit.
	ID string

	// Score is the raw path-specific score (cosine similarity or BM25).
	Score float64

	// Rank is the 1-based position within this result list.
	Rank int
}

// FusedHit is the output of reciprocal rank fusion across both paths.
type FusedHit struct {
	// ID is the matched content unit.
	ID string

	// Score is the fused RRF score.
	Score float64

	// DenseRank is the 1-based rank in the dense list, 0 when absent.
	DenseRank int

	// LexicalRank is the 1-based rank in the lexical list, 0 when absent.
	LexicalRank int
}

// Contributing returns the number of result lists the unit appeared in.
func (h FusedHit) Contributing() int {
	n := 0
	if h.DenseRank > 0 {
		n++
	}
	if h.LexicalRank > 0 {
		n++
	}
	return n
}

// ContextEntry pairs a content unit with its citation label.
type ContextEntry struct {
	// Unit is the resolved content unit. Its RawContent, never its
	// Summary, is what reaches answer generation.
	Unit ContentUnit

	// Label is the citation label, derived from page and kind and unique
	// within the bundle.
	Label string
}

// ContextBundle is the ordered, deduplicated, budget-limited context
// passed unchanged to answer generation.
type ContextBundle struct {
	// Entries are in fused-rank order.
	Entries []ContextEntry

	// Size is the cumulative RawContent size in bytes.
	Size int
}

// Labels returns the citation labels in bundle order.
func (b *ContextBundle) Labels() []string {
	labels := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		labels[i] = e.Label
	}
	return labels
}

// Citation records one source backing an answer.
type Citation struct {
	// Label is the citation label as it appears in the answer text.
	Label string

	// Page is the 1-based source page.
	Page int

	// Kind is the content type of the cited unit.
	Kind ContentKind

	// Preview is a short excerpt of the cited raw content.
	Preview string
}

// Answer is a generated, citation-bearing answer.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Citations lists the sources the answer draws on.
	Citations []Citation
}
