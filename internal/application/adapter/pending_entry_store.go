package adapter

import (
	"context"

	"github.com/ecovekt/backend/internal/domain/entity"
)

// PendingEntryStore persists the full list of pending entries under one key.
// It is the only component allowed to touch that key.
type PendingEntryStore interface {
	// Load returns the stored entries. A missing or unreadable value yields an
	// empty list; Load never fails.
	Load(ctx context.Context) []*entity.PendingEntry

	// Save overwrites the stored list.
	Save(ctx context.Context, entries []*entity.PendingEntry) error

	// Clear removes the stored list.
	Clear(ctx context.Context) error

	// SaveLast records the summary of the most recent append.
	SaveLast(ctx context.Context, last *entity.LastEntry) error

	// LoadLast returns the most recent append summary, or nil.
	LoadLast(ctx context.Context) *entity.LastEntry
}
