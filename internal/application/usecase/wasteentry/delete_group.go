package wasteentry

import (
	"context"
	"fmt"

	"github.com/ecovekt/backend/internal/domain/entity"
	"github.com/ecovekt/backend/internal/domain/valueobject"
)

// DeleteGroup removes every pending entry whose aggregation key equals key and
// returns the recomputed groups. An emptied list removes the storage key.
// Deleting an unknown key rewrites the list unchanged.
func (w *Workflow) DeleteGroup(ctx context.Context, key string) ([]valueobject.AggregatedGroup, error) {
	entries := w.store.Load(ctx)

	kept := make([]*entity.PendingEntry, 0, len(entries))
	for _, e := range entries {
		if valueobject.AggregationKey(e) != key {
			kept = append(kept, e)
		}
	}

	if len(kept) == 0 {
		if err := w.store.Clear(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear pending entries: %w", err)
		}
	} else {
		if err := w.store.Save(ctx, kept); err != nil {
			return nil, fmt.Errorf("failed to save pending entries: %w", err)
		}
	}

	return valueobject.Aggregate(kept), nil
}
