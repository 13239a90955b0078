package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ecovekt/backend/internal/application/adapter"
	"github.com/ecovekt/backend/internal/domain/entity"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
)

// UpdateSelectedWasteInput represents the input for updating the selection.
type UpdateSelectedWasteInput struct {
	Titles []string
}

// UpdateSelectedWasteUseCase handles replacing the current user's selection.
type UpdateSelectedWasteUseCase struct {
	documents  adapter.DocumentStore
	identity   adapter.IdentityProvider
	clock      adapter.Clock
	collection string
}

// NewUpdateSelectedWasteUseCase creates a new UpdateSelectedWasteUseCase instance.
func NewUpdateSelectedWasteUseCase(
	documents adapter.DocumentStore,
	identity adapter.IdentityProvider,
	clock adapter.Clock,
) *UpdateSelectedWasteUseCase {
	return &UpdateSelectedWasteUseCase{
		documents:  documents,
		identity:   identity,
		clock:      clock,
		collection: entity.CollectionUsers,
	}
}

// Execute writes {selectedWaste, updatedAt} to the user's profile document
// with merge, so other profile fields are preserved.
func (uc *UpdateSelectedWasteUseCase) Execute(ctx context.Context, input UpdateSelectedWasteInput) (*entity.UserSelection, error) {
	userID, ok := uc.identity.CurrentUserID(ctx)
	if !ok {
		return nil, domainerror.ErrNotAuthenticated
	}

	titles := entity.NormalizeSelection(input.Titles)
	now := uc.clock.Now().UTC()

	selected := make([]any, len(titles))
	for i, t := range titles {
		selected[i] = t
	}

	_, err := uc.documents.SetDocument(ctx, uc.collection, userID, entity.Fields{
		entity.FieldSelectedWaste: selected,
		entity.FieldUpdatedAt:     entity.FormatTimestamp(now),
	}, true)
	if err != nil {
		return nil, fmt.Errorf("failed to save user selection: %w", err)
	}

	slog.Info("Updated waste selection", "user_id", userID, "count", len(titles))

	return &entity.UserSelection{
		UserID:        userID,
		SelectedWaste: titles,
		UpdatedAt:     &now,
	}, nil
}

// WithCollection overrides the collection the use case writes.
func (uc *UpdateSelectedWasteUseCase) WithCollection(collection string) *UpdateSelectedWasteUseCase {
	if collection != "" {
		uc.collection = collection
	}
	return uc
}
