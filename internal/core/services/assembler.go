package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
	"github.com/docent-ai/docent/internal/logger"
)

// ContextAssembler resolves fused hits back to their content units and
// packages a citation-annotated bundle for answer generation. The bundle
// carries raw content only - summaries are index scaffolding and must
// never substitute for source text in the generation payload.
type ContextAssembler struct {
	units driven.UnitStore
}

// NewContextAssembler creates a context assembler over the unit store.
func NewContextAssembler(units driven.UnitStore) *ContextAssembler {
	return &ContextAssembler{units: units}
}

// Build accumulates units in fused-rank order until adding the next unit
// would exceed the budget; that unit is excluded whole rather than
// truncated, so the bundle never cites a partial excerpt. Hits are
// deduplicated by unit ID. Returns a *domain.EmptyContextError when not
// even the first unit fits.
func (a *ContextAssembler) Build(ctx context.Context, hits []domain.FusedHit, budget int) (*domain.ContextBundle, error) {
	logger.Section("Context Assembly")
	logger.Debug("Assembling %d hits within budget %d", len(hits), budget)

	bundle := &domain.ContextBundle{}
	seen := make(map[string]bool, len(hits))
	smallest := 0

	for _, hit := range hits {
		if seen[hit.ID] {
			continue
		}
		seen[hit.ID] = true

		unit, err := a.units.GetUnit(ctx, hit.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("resolve hit %s: %w", hit.ID, err)
			}
			return nil, err
		}

		size := len(unit.RawContent)
		if smallest == 0 || size < smallest {
			smallest = size
		}

		if bundle.Size+size > budget {
			logger.Debug("Unit %s (%d bytes) would overflow budget, stopping", unit.ID, size)
			break
		}

		bundle.Entries = append(bundle.Entries, domain.ContextEntry{Unit: *unit})
		bundle.Size += size
	}

	if len(bundle.Entries) == 0 {
		return nil, &domain.EmptyContextError{Budget: budget, SmallestUnit: smallest}
	}

	a.assignLabels(bundle)

	logger.Info("Bundle: %d units, %d bytes", len(bundle.Entries), bundle.Size)
	return bundle, nil
}

// assignLabels derives the citation label for each entry from its page
// and kind. When several included units share a page and kind, a sequence
// suffix keeps the labels unambiguous.
func (a *ContextAssembler) assignLabels(bundle *domain.ContextBundle) {
	type pageKind struct {
		page int
		kind domain.ContentKind
	}

	total := make(map[pageKind]int, len(bundle.Entries))
	for _, entry := range bundle.Entries {
		total[pageKind{entry.Unit.Page, entry.Unit.Kind}]++
	}

	seq := make(map[pageKind]int, len(total))
	for i := range bundle.Entries {
		unit := bundle.Entries[i].Unit
		key := pageKind{unit.Page, unit.Kind}
		label := citationLabel(unit.Page, unit.Kind)
		if total[key] > 1 {
			seq[key]++
			label = fmt.Sprintf("%s.%d", label, seq[key])
		}
		bundle.Entries[i].Label = label
	}
}

// citationLabel is the base label for a unit: "p<page>-<kind>".
func citationLabel(page int, kind domain.ContentKind) string {
	return fmt.Sprintf("p%d-%s", page, kind)
}
