package domain

import "fmt"

// ContentKind identifies the type of an extracted content unit.
type ContentKind string

// Available content kinds.
const (
	// KindText is a prose block extracted from a page.
	KindText ContentKind = "text"

	// KindTable is a table in markdown form.
	KindTable ContentKind = "table"

	// KindImage is a figure or diagram, carried as a reference string.
	KindImage ContentKind = "image"
)

// IsValid returns true if the content kind is recognised.
func (k ContentKind) IsValid() bool {
	switch k {
	case KindText, KindTable, KindImage:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k ContentKind) String() string {
	return string(k)
}

// RawUnit is a content unit as produced by the extraction capability,
// before an ID and ingestion order have been assigned.
type RawUnit struct {
	// Kind is the content type.
	Kind ContentKind

	// Page is the 1-based source page number.
	Page int

	// Content is the original representation: plain text for text units,
	// a markdown table for table units, an image reference for image units.
	Content string
}

// ContentUnit is the atomic indexable item. Units are immutable after
// ingestion: the raw content is never mutated and the summary is fixed
// once indexing completes.
type ContentUnit struct {
	// ID is the unique identifier, assigned at ingestion and never reused.
	ID string

	// Kind is the content type.
	Kind ContentKind

	// Page is the 1-based source page number.
	Page int

	// RawContent is the original representation. This is what reaches the
	// answer-generation payload; the summary never substitutes for it.
	RawContent string

	// Summary is the semantic summary used for matching. For text units it
	// may equal RawContent or a normalised form; for tables and images it
	// is produced by the summariser and is required to be non-empty.
	Summary string

	// OrderIndex is the monotonically increasing ingestion sequence number.
	// It is used only as a deterministic tie-break during ranking.
	OrderIndex int

	// LowConfidence marks units indexed with a placeholder summary after
	// summarisation failed. Such units stay retrievable but callers may
	// want to surface the degraded quality.
	LowConfidence bool
}

// Validate checks the unit satisfies the indexing invariants.
func (u ContentUnit) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("%w: content unit has empty ID", ErrInvalidInput)
	}
	if !u.Kind.IsValid() {
		return fmt.Errorf("%w: unknown content kind %q", ErrInvalidInput, u.Kind)
	}
	if u.Page < 1 {
		return fmt.Errorf("%w: page must be 1-based, got %d", ErrInvalidInput, u.Page)
	}
	if u.Summary == "" {
		return fmt.Errorf("%w: unit %s has empty summary", ErrInvalidInput, u.ID)
	}
	return nil
}
