package statistics

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

type historyStore struct {
	adapter.DocumentStore
	docs       []*entity.Document
	lastFilter *entity.FieldFilter
	err        error
}

func (s *historyStore) GetDocuments(_ context.Context, _ string, filter *entity.FieldFilter) ([]*entity.Document, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	var result []*entity.Document
	for _, d := range s.docs {
		if filter == nil || d.Fields[filter.Field] == filter.Value {
			result = append(result, d)
		}
	}
	return result, nil
}

type staticIdentity struct{ userID string }

func (s staticIdentity) CurrentUserID(context.Context) (string, bool) {
	return s.userID, s.userID != ""
}

func (s staticIdentity) OnIdentityChange(adapter.IdentityListener) func() { return func() {} }

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var now = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func doc(fields entity.Fields) *entity.Document {
	return &entity.Document{Fields: fields}
}

func TestGetWasteStatisticsUseCase(t *testing.T) {
	store := &historyStore{docs: []*entity.Document{
		doc(entity.Fields{"userId": "uid", "wasteTitle": "Plast", "amountKg": 1.5, "savedAt": "2025-06-01T10:00:00.000Z"}),
		doc(entity.Fields{"userId": "uid", "wasteTitle": "Restavfall", "weight": "2,5", "savedAt": "2025-06-02T10:00:00.000Z"}),
		doc(entity.Fields{"userId": "uid", "type": "Plast", "kg": 0.5}),
		doc(entity.Fields{"userId": "uid", "amountKg": 1.0, "createdAt": "2025-06-03T10:00:00Z"}),
		doc(entity.Fields{"userId": "uid", "wasteTitle": "Glass", "amountKg": 9.0, "savedAt": "2024-01-01T10:00:00.000Z"}),
		doc(entity.Fields{"userId": "uid", "wasteTitle": "Metall", "amountKg": "mye"}),
		doc(entity.Fields{"userId": "other", "wasteTitle": "Plast", "amountKg": 100.0}),
	}}
	uc := NewGetWasteStatisticsUseCase(store, staticIdentity{userID: "uid"}, fixedClock{now: now}, 0)

	out, err := uc.Execute(context.Background(), GetWasteStatisticsInput{})

	require.NoError(t, err)
	assert.Equal(t, &entity.FieldFilter{Field: "userId", Value: "uid"}, store.lastFilter)
	assert.Equal(t, now.Add(-DefaultWindow), out.Since)
	assert.Equal(t, 5, out.Records)

	titles := make([]string, len(out.Categories))
	for i, c := range out.Categories {
		titles[i] = c.Title
	}
	assert.Equal(t, []string{"Plast", "Restavfall", "Ukjent"}, titles, "zero-weight categories are omitted")
	assert.Equal(t, 2.0, out.Categories[0].TotalKg)
	assert.Equal(t, 2, out.Categories[0].Records)
	assert.Equal(t, 5.5, out.TotalKg)

	require.NotNil(t, out.Highlight)
	assert.Equal(t, "Restavfall", out.Highlight.Title)
}

func TestGetWasteStatisticsUseCase_ExplicitSince(t *testing.T) {
	store := &historyStore{docs: []*entity.Document{
		doc(entity.Fields{"userId": "uid", "wasteTitle": "Glass", "amountKg": 9.0, "savedAt": "2024-01-01T10:00:00.000Z"}),
	}}
	uc := NewGetWasteStatisticsUseCase(store, staticIdentity{userID: "uid"}, fixedClock{now: now}, 0)
	since := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	out, err := uc.Execute(context.Background(), GetWasteStatisticsInput{Since: &since})

	require.NoError(t, err)
	require.Len(t, out.Categories, 1)
	assert.Equal(t, "Glass", out.Highlight.Title)
}

func TestGetWasteStatisticsUseCase_Empty(t *testing.T) {
	uc := NewGetWasteStatisticsUseCase(&historyStore{}, staticIdentity{userID: "uid"}, fixedClock{now: now}, 0)

	out, err := uc.Execute(context.Background(), GetWasteStatisticsInput{})

	require.NoError(t, err)
	assert.Empty(t, out.Categories)
	assert.Nil(t, out.Highlight)
	assert.Zero(t, out.TotalKg)
}

func TestGetWasteStatisticsUseCase_Errors(t *testing.T) {
	t.Run("not authenticated", func(t *testing.T) {
		uc := NewGetWasteStatisticsUseCase(&historyStore{}, staticIdentity{}, fixedClock{now: now}, 0)
		_, err := uc.Execute(context.Background(), GetWasteStatisticsInput{})
		assert.ErrorIs(t, err, domainerror.ErrNotAuthenticated)
	})

	t.Run("store failure", func(t *testing.T) {
		storeErr := errors.New("unavailable")
		uc := NewGetWasteStatisticsUseCase(&historyStore{err: storeErr}, staticIdentity{userID: "uid"}, fixedClock{now: now}, 0)
		_, err := uc.Execute(context.Background(), GetWasteStatisticsInput{})
		assert.ErrorIs(t, err, storeErr)
	})
}
