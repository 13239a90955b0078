// Package catalog contains use cases for the waste-category catalog and the
// categories each user has chosen to track.
package catalog

import (
	"context"
	"fmt"

	"github.com/ecovekt/backend/internal/application/adapter"
	"github.com/ecovekt/backend/internal/domain/entity"
)

// ListWasteCategoriesOutput represents the catalog.
type ListWasteCategoriesOutput struct {
	Categories []*entity.WasteCategory
}

// ListWasteCategoriesUseCase handles reading the waste-category catalog.
type ListWasteCategoriesUseCase struct {
	documents  adapter.DocumentStore
	collection string
}

// NewListWasteCategoriesUseCase creates a new ListWasteCategoriesUseCase instance.
func NewListWasteCategoriesUseCase(documents adapter.DocumentStore) *ListWasteCategoriesUseCase {
	return &ListWasteCategoriesUseCase{
		documents:  documents,
		collection: entity.CollectionTrash,
	}
}

// Execute lists every catalog entry, sorted for display.
func (uc *ListWasteCategoriesUseCase) Execute(ctx context.Context) (*ListWasteCategoriesOutput, error) {
	docs, err := uc.documents.GetDocuments(ctx, uc.collection, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list waste categories: %w", err)
	}

	categories := make([]*entity.WasteCategory, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, entity.WasteCategoryFromDocument(doc))
	}
	entity.SortWasteCategories(categories)

	return &ListWasteCategoriesOutput{
		Categories: categories,
	}, nil
}

// WithCollection overrides the collection the use case reads.
func (uc *ListWasteCategoriesUseCase) WithCollection(collection string) *ListWasteCategoriesUseCase {
	if collection != "" {
		uc.collection = collection
	}
	return uc
}
