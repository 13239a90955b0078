package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecovekt/backend/internal/application/adapter"
	"github.com/ecovekt/backend/internal/domain/entity"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
)

// fakeDocumentStore is an in-memory adapter.DocumentStore.
type fakeDocumentStore struct {
	docs    map[string]map[string]*entity.Document
	order   map[string][]string
	failErr error
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{
		docs:  map[string]map[string]*entity.Document{},
		order: map[string][]string{},
	}
}

func (s *fakeDocumentStore) put(collection, id string, fields entity.Fields) {
	if s.docs[collection] == nil {
		s.docs[collection] = map[string]*entity.Document{}
	}
	if _, ok := s.docs[collection][id]; !ok {
		s.order[collection] = append(s.order[collection], id)
	}
	s.docs[collection][id] = &entity.Document{ID: id, Collection: collection, Fields: fields}
}

func (s *fakeDocumentStore) AddDocument(_ context.Context, collection string, fields entity.Fields) (string, error) {
	if s.failErr != nil {
		return "", s.failErr
	}
	id := collection + "-" + time.Now().Format("150405.000000000")
	s.put(collection, id, fields)
	return id, nil
}

func (s *fakeDocumentStore) GetDocuments(_ context.Context, collection string, _ *entity.FieldFilter) ([]*entity.Document, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	result := []*entity.Document{}
	for _, id := range s.order[collection] {
		result = append(result, s.docs[collection][id])
	}
	return result, nil
}

func (s *fakeDocumentStore) GetDocument(_ context.Context, collection, id string) (*entity.Document, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	doc, ok := s.docs[collection][id]
	if !ok {
		return nil, domainerror.NewDocumentError(domainerror.ErrCodeDocumentNotFound, "document not found", domainerror.ErrDocumentNotFound)
	}
	return doc, nil
}

func (s *fakeDocumentStore) SetDocument(_ context.Context, collection, id string, fields entity.Fields, merge bool) (*entity.Document, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	doc, ok := s.docs[collection][id]
	if !ok || !merge {
		s.put(collection, id, entity.Fields{})
		doc = s.docs[collection][id]
	}
	doc.Merge(fields)
	return doc, nil
}

type staticIdentity struct{ userID string }

func (s staticIdentity) CurrentUserID(context.Context) (string, bool) {
	return s.userID, s.userID != ""
}

func (s staticIdentity) OnIdentityChange(adapter.IdentityListener) func() { return func() {} }

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestListWasteCategoriesUseCase(t *testing.T) {
	store := newFakeDocumentStore()
	store.put("trash", "3", entity.Fields{"title": "Glass"})
	store.put("trash", "1", entity.Fields{"name": "Plast", "imageurl": "p.png"})
	store.put("trash", "2", entity.Fields{"title": "Papir", "imageUrl": "pa.png"})

	out, err := NewListWasteCategoriesUseCase(store).Execute(context.Background())

	require.NoError(t, err)
	require.Len(t, out.Categories, 3)
	assert.Equal(t, "Plast", out.Categories[0].Title)
	assert.Equal(t, "p.png", entity.StringValue(out.Categories[0].ImageURL))
	assert.Equal(t, "Papir", out.Categories[1].Title)
	assert.Equal(t, "Glass", out.Categories[2].Title)
}

func TestListWasteCategoriesUseCase_StoreError(t *testing.T) {
	store := newFakeDocumentStore()
	store.failErr = errors.New("unavailable")

	_, err := NewListWasteCategoriesUseCase(store).Execute(context.Background())

	assert.ErrorIs(t, err, store.failErr)
}

func TestGetSelectedWasteUseCase(t *testing.T) {
	t.Run("not authenticated", func(t *testing.T) {
		uc := NewGetSelectedWasteUseCase(newFakeDocumentStore(), staticIdentity{})
		_, err := uc.Execute(context.Background())
		assert.ErrorIs(t, err, domainerror.ErrNotAuthenticated)
	})

	t.Run("no profile yet", func(t *testing.T) {
		uc := NewGetSelectedWasteUseCase(newFakeDocumentStore(), staticIdentity{userID: "uid"})
		selection, err := uc.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "uid", selection.UserID)
		assert.Empty(t, selection.SelectedWaste)
	})

	t.Run("stored selection", func(t *testing.T) {
		store := newFakeDocumentStore()
		store.put("users", "uid", entity.Fields{"selectedWaste": []any{"Plast", "Matavfall"}})
		uc := NewGetSelectedWasteUseCase(store, staticIdentity{userID: "uid"})

		selection, err := uc.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"Plast", "Matavfall"}, selection.SelectedWaste)
	})
}

func TestUpdateSelectedWasteUseCase(t *testing.T) {
	now := time.Date(2025, 5, 5, 10, 0, 0, 0, time.UTC)

	t.Run("merges into profile", func(t *testing.T) {
		store := newFakeDocumentStore()
		store.put("users", "uid", entity.Fields{"name": "Kari", "selectedWaste": []any{"Glass"}})
		uc := NewUpdateSelectedWasteUseCase(store, staticIdentity{userID: "uid"}, fixedClock{now: now})

		selection, err := uc.Execute(context.Background(), UpdateSelectedWasteInput{
			Titles: []string{" Plast ", "Papir", "Plast", ""},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"Plast", "Papir"}, selection.SelectedWaste)

		doc := store.docs["users"]["uid"]
		assert.Equal(t, "Kari", doc.Fields["name"])
		assert.Equal(t, []any{"Plast", "Papir"}, doc.Fields["selectedWaste"])
		assert.Equal(t, "2025-05-05T10:00:00.000Z", doc.Fields["updatedAt"])
	})

	t.Run("not authenticated", func(t *testing.T) {
		store := newFakeDocumentStore()
		uc := NewUpdateSelectedWasteUseCase(store, staticIdentity{}, fixedClock{now: now})

		_, err := uc.Execute(context.Background(), UpdateSelectedWasteInput{Titles: []string{"Plast"}})

		assert.ErrorIs(t, err, domainerror.ErrNotAuthenticated)
		assert.Empty(t, store.docs)
	})
}
