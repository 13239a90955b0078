package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecovekt/backend/internal/application/adapter"
	"github.com/ecovekt/backend/internal/domain/entity"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
)

// GetSelectedWasteUseCase handles reading the current user's selection.
type GetSelectedWasteUseCase struct {
	documents  adapter.DocumentStore
	identity   adapter.IdentityProvider
	collection string
}

// NewGetSelectedWasteUseCase creates a new GetSelectedWasteUseCase instance.
func NewGetSelectedWasteUseCase(documents adapter.DocumentStore, identity adapter.IdentityProvider) *GetSelectedWasteUseCase {
	return &GetSelectedWasteUseCase{
		documents:  documents,
		identity:   identity,
		collection: entity.CollectionUsers,
	}
}

// Execute returns the selection of the signed-in user. A user without a
// profile document has an empty selection.
func (uc *GetSelectedWasteUseCase) Execute(ctx context.Context) (*entity.UserSelection, error) {
	userID, ok := uc.identity.CurrentUserID(ctx)
	if !ok {
		return nil, domainerror.ErrNotAuthenticated
	}

	doc, err := uc.documents.GetDocument(ctx, uc.collection, userID)
	if err != nil {
		if errors.Is(err, domainerror.ErrDocumentNotFound) {
			return &entity.UserSelection{UserID: userID, SelectedWaste: []string{}}, nil
		}
		return nil, fmt.Errorf("failed to get user selection: %w", err)
	}

	selection := entity.UserSelectionFromDocument(doc)
	selection.UserID = userID
	return selection, nil
}

// WithCollection overrides the collection the use case reads.
func (uc *GetSelectedWasteUseCase) WithCollection(collection string) *GetSelectedWasteUseCase {
	if collection != "" {
		uc.collection = collection
	}
	return uc
}
