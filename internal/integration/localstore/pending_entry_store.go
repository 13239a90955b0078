// Package localstore keeps the pending waste entries in a key-value store.
package localstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/ecovekt/backend/internal/application/adapter"
	"github.com/ecovekt/backend/internal/domain/entity"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
	"github.com/ecovekt/backend/internal/domain/valueobject"
)

// Default storage keys, shared with existing mobile installs.
const (
	DefaultPendingKey = "pendingWasteEntries"
	DefaultLastKey    = "lastWasteEntry"
)

// Keys names the storage keys used by the store.
type Keys struct {
	Pending string
	Last    string
}

// DefaultKeys returns the keys used by mobile clients.
func DefaultKeys() Keys {
	return Keys{
		Pending: DefaultPendingKey,
		Last:    DefaultLastKey,
	}
}

// pendingEntryStore implements the adapter.PendingEntryStore interface.
type pendingEntryStore struct {
	kv   adapter.KeyValueStore
	keys Keys
}

// NewPendingEntryStore creates a store over kv. Empty keys fall back to the defaults.
func NewPendingEntryStore(kv adapter.KeyValueStore, keys Keys) adapter.PendingEntryStore {
	if keys.Pending == "" {
		keys.Pending = DefaultPendingKey
	}
	if keys.Last == "" {
		keys.Last = DefaultLastKey
	}
	return &pendingEntryStore{
		kv:   kv,
		keys: keys,
	}
}

// Load returns the stored entries, or an empty list when the key is absent,
// unreadable or holds something that is not a JSON array. Records without a
// usable weight, or with a weight outside the accepted range, are skipped.
func (s *pendingEntryStore) Load(ctx context.Context) []*entity.PendingEntry {
	raw, found, err := s.kv.Get(ctx, s.keys.Pending)
	if err != nil {
		slog.Warn("Failed to read pending entries, treating as empty",
			"key", s.keys.Pending,
			"error", err,
		)
		return []*entity.PendingEntry{}
	}
	if !found || strings.TrimSpace(raw) == "" {
		return []*entity.PendingEntry{}
	}

	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	var records []entity.Fields
	if err := decoder.Decode(&records); err != nil {
		slog.Warn("Failed to parse pending entries, treating as empty",
			"key", s.keys.Pending,
			"error", err,
		)
		return []*entity.PendingEntry{}
	}

	entries := make([]*entity.PendingEntry, 0, len(records))
	for i, record := range records {
		e, ok := entity.DecodePendingEntry(record)
		if !ok || !valueobject.IsAcceptedWeight(e.AmountKg) {
			slog.Warn("Skipping unusable pending entry", "key", s.keys.Pending, "index", i)
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// Save serializes entries and overwrites the stored value.
func (s *pendingEntryStore) Save(ctx context.Context, entries []*entity.PendingEntry) error {
	if entries == nil {
		entries = []*entity.PendingEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return domainerror.NewStorageError(domainerror.ErrCodeStorageWrite, "encode", s.keys.Pending, err)
	}
	if err := s.kv.Set(ctx, s.keys.Pending, string(data)); err != nil {
		return domainerror.NewStorageError(domainerror.ErrCodeStorageWrite, "save", s.keys.Pending, err)
	}
	return nil
}

// Clear removes the stored list.
func (s *pendingEntryStore) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, s.keys.Pending); err != nil {
		return domainerror.NewStorageError(domainerror.ErrCodeStorageClear, "clear", s.keys.Pending, err)
	}
	return nil
}

// SaveLast records the summary of the most recent append.
func (s *pendingEntryStore) SaveLast(ctx context.Context, last *entity.LastEntry) error {
	data, err := json.Marshal(last)
	if err != nil {
		return domainerror.NewStorageError(domainerror.ErrCodeStorageWrite, "encode", s.keys.Last, err)
	}
	if err := s.kv.Set(ctx, s.keys.Last, string(data)); err != nil {
		return domainerror.NewStorageError(domainerror.ErrCodeStorageWrite, "save", s.keys.Last, err)
	}
	return nil
}

// LoadLast returns the most recent append summary, or nil when absent or unreadable.
func (s *pendingEntryStore) LoadLast(ctx context.Context) *entity.LastEntry {
	raw, found, err := s.kv.Get(ctx, s.keys.Last)
	if err != nil {
		slog.Warn("Failed to read last entry", "key", s.keys.Last, "error", err)
		return nil
	}
	if !found {
		return nil
	}

	var last entity.LastEntry
	if err := json.Unmarshal([]byte(raw), &last); err != nil {
		slog.Warn("Failed to parse last entry", "key", s.keys.Last, "error", err)
		return nil
	}
	return &last
}
