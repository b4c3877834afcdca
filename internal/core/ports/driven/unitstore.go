package driven

import (
	"context"

	"github.com/docent-ai/docent/internal/core/domain"
)

// UnitStore holds the content units of the current session. Units are
// immutable once saved; a new ingestion clears the store entirely.
type UnitStore interface {
	// SaveUnits stores a batch of content units.
	SaveUnits(ctx context.Context, units []domain.ContentUnit) error

	// GetUnit retrieves a unit by ID. Returns domain.ErrNotFound if absent.
	GetUnit(ctx context.Context, id string) (*domain.ContentUnit, error)

	// ListUnits returns all units ordered by OrderIndex ascending.
	ListUnits(ctx context.Context) ([]domain.ContentUnit, error)

	// Count returns the number of stored units.
	Count() int

	// Clear removes all units.
	Clear(ctx context.Context) error
}
