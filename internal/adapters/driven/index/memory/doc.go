// Package memory provides in-process implementations of the dense and
// lexical sub-indexes. Both are session-scoped: nothing is persisted and
// a new document replaces the whole contents. Exact brute-force scoring
// keeps rankings deterministic, which matters more than speed at
// single-document scale.
package memory
