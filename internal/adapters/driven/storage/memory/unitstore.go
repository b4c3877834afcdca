package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
)

// Ensure UnitStore implements the interface.
var _ driven.UnitStore = (*UnitStore)(nil)

// UnitStore is an in-memory implementation of driven.UnitStore.
// Units are stored by value; callers never observe mutation.
type UnitStore struct {
	mu    sync.RWMutex
	units map[string]domain.ContentUnit
}

// NewUnitStore creates a new in-memory unit store.
func NewUnitStore() *UnitStore {
	return &UnitStore{
		units: make(map[string]domain.ContentUnit),
	}
}

// SaveUnits stores a batch of content units.
func (s *UnitStore) SaveUnits(_ context.Context, units []domain.ContentUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, unit := range units {
		s.units[unit.ID] = unit
	}
	return nil
}

// GetUnit retrieves a unit by ID.
func (s *UnitStore) GetUnit(_ context.Context, id string) (*domain.ContentUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	unit, ok := s.units[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &unit, nil
}

// ListUnits returns all units ordered by OrderIndex ascending.
func (s *UnitStore) ListUnits(_ context.Context) ([]domain.ContentUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	units := make([]domain.ContentUnit, 0, len(s.units))
	for id := range s.units {
		units = append(units, s.units[id])
	}
	sort.Slice(units, func(i, j int) bool {
		return units[i].OrderIndex < units[j].OrderIndex
	})
	return units, nil
}

// Count returns the number of stored units.
func (s *UnitStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.units)
}

// Clear removes all units.
func (s *UnitStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = make(map[string]domain.ContentUnit)
	return nil
}
