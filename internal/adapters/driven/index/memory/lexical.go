package memory

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/kljensen/snowball/english"

	"github.com/docent-ai/docent/internal/core/ports/driven"
)

// Ensure LexicalIndex implements the interface.
var _ driven.LexicalIndex = (*LexicalIndex)(nil)

// BM25 parameters.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// LexicalIndex is an in-process BM25 index over stemmed terms. Matching
// covers both exact and stemmed term overlap since query terms go through
// the same analysis as indexed text.
type LexicalIndex struct {
	mu        sync.RWMutex
	docs      map[string][]string // unitID -> analysed terms
	order     []string
	frequency map[string]int // term -> number of docs containing it
	totalLen  int
	stopwords map[string]struct{}
}

// NewLexicalIndex creates an empty lexical index.
func NewLexicalIndex() *LexicalIndex {
	return &LexicalIndex{
		docs:      make(map[string][]string),
		frequency: make(map[string]int),
		stopwords: defaultStopwords(),
	}
}

// Add analyses the text and indexes its terms under the unit ID.
func (idx *LexicalIndex) Add(_ context.Context, unitID string, text string) error {
	if unitID == "" {
		return fmt.Errorf("lexical index: empty unit ID")
	}

	terms := idx.analyse(text)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.docs[unitID]; exists {
		idx.removeLocked(unitID)
	}

	idx.docs[unitID] = terms
	idx.order = append(idx.order, unitID)
	idx.totalLen += len(terms)
	for _, term := range uniqueTerms(terms) {
		idx.frequency[term]++
	}
	return nil
}

// Remove deletes the given unit IDs. Unknown IDs are ignored.
func (idx *LexicalIndex) Remove(_ context.Context, unitIDs []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, id := range unitIDs {
		idx.removeLocked(id)
	}
	return nil
}

func (idx *LexicalIndex) removeLocked(unitID string) {
	terms, ok := idx.docs[unitID]
	if !ok {
		return
	}
	delete(idx.docs, unitID)
	idx.totalLen -= len(terms)
	for _, term := range uniqueTerms(terms) {
		idx.frequency[term]--
		if idx.frequency[term] <= 0 {
			delete(idx.frequency, term)
		}
	}
	for i, id := range idx.order {
		if id == unitID {
			idx.order = append(idx.order[:i], idx.order[i+1:]...)
			break
		}
	}
}

// Search scores every document containing at least one query term with
// BM25 and returns up to k hits, descending. Documents are visited in
// insertion order so equal scores rank deterministically. An empty result
// is valid: it means no unit shares a term with the query.
func (idx *LexicalIndex) Search(_ context.Context, query string, k int) ([]driven.LexicalHit, error) {
	queryTerms := idx.analyse(query)
	if len(queryTerms) == 0 {
		return []driven.LexicalHit{}, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := len(idx.docs)
	if n == 0 {
		return []driven.LexicalHit{}, nil
	}
	avgLen := float64(idx.totalLen) / float64(n)

	hits := make([]driven.LexicalHit, 0, n)
	for _, id := range idx.order {
		terms := idx.docs[id]
		score := idx.scoreLocked(queryTerms, terms, avgLen, n)
		if score > 0 {
			hits = append(hits, driven.LexicalHit{UnitID: id, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of indexed entries.
func (idx *LexicalIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// Clear removes all entries.
func (idx *LexicalIndex) Clear(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.docs = make(map[string][]string)
	idx.frequency = make(map[string]int)
	idx.order = nil
	idx.totalLen = 0
	return nil
}

// Close releases resources. The in-memory index holds none.
func (idx *LexicalIndex) Close() error {
	return nil
}

// scoreLocked computes the BM25 score of one document for the query.
func (idx *LexicalIndex) scoreLocked(queryTerms, docTerms []string, avgLen float64, n int) float64 {
	counts := make(map[string]int, len(docTerms))
	for _, term := range docTerms {
		counts[term]++
	}

	docLen := float64(len(docTerms))
	var score float64
	for _, term := range queryTerms {
		tf := float64(counts[term])
		if tf == 0 {
			continue
		}
		df := float64(idx.frequency[term])
		idf := math.Log(1 + (float64(n)-df+0.5)/(df+0.5))
		score += idf * (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*docLen/avgLen))
	}
	return score
}

// analyse lowercases, tokenises, drops stopwords and stems each term.
func (idx *LexicalIndex) analyse(text string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, stop := idx.stopwords[token]; stop {
			continue
		}
		terms = append(terms, english.Stem(token, false))
	}
	return terms
}

func uniqueTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	unique := make([]string, 0, len(terms))
	for _, term := range terms {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		unique = append(unique, term)
	}
	return unique
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "have", "in", "is", "it", "its", "of", "on", "or", "that",
		"the", "to", "was", "were", "what", "which", "with",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
