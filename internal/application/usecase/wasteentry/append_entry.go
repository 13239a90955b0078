package wasteentry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ecovekt/backend/internal/domain/entity"
	"github.com/ecovekt/backend/internal/domain/valueobject"
)

// AppendEntryInput represents a candidate entry as captured by the UI.
type AppendEntryInput struct {
	WasteID    string // Optional
	WasteTitle string
	Weight     string // Raw user input, "." or "," as decimal separator
	ImageURL   string // Optional
}

// AppendEntryOutput represents the result of a successful append.
type AppendEntryOutput struct {
	Entry  *entity.PendingEntry
	Groups []valueobject.AggregatedGroup
}

// AppendEntry validates the candidate and appends it to the pending list.
// A validation failure returns a *ValidationError and leaves storage untouched.
func (w *Workflow) AppendEntry(ctx context.Context, input AppendEntryInput) (*AppendEntryOutput, error) {
	title, err := valueobject.ValidateCategory(input.WasteTitle)
	if err != nil {
		return nil, err
	}

	weight, err := valueobject.ValidateWeight(input.Weight)
	if err != nil {
		return nil, err
	}

	now := w.clock.Now()
	// Blank ids and images are dropped so the entry keys the same way
	// before and after a storage round-trip.
	newEntry := entity.NewPendingEntry(
		entity.StringPtr(strings.TrimSpace(input.WasteID)),
		title,
		weight,
		w.currentUser(ctx),
		entity.StringPtr(strings.TrimSpace(input.ImageURL)),
		now,
	)

	entries := w.store.Load(ctx)
	entries = append(entries, newEntry)
	if err := w.store.Save(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to save pending entries: %w", err)
	}

	last := &entity.LastEntry{
		WasteTitle: title,
		Weight:     weight,
		SavedAt:    newEntry.SavedAt,
	}
	if err := w.store.SaveLast(ctx, last); err != nil {
		slog.Warn("Failed to record last entry", "error", err)
	}

	return &AppendEntryOutput{
		Entry:  newEntry,
		Groups: valueobject.Aggregate(entries),
	}, nil
}
