package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ecovekt/backend/config"
	"github.com/ecovekt/backend/internal/domain/entity"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
	"github.com/ecovekt/backend/internal/infra/dependency"
	"github.com/ecovekt/backend/internal/integration/entrypoint/dto"
	"github.com/ecovekt/backend/internal/integration/kvstore"
	"github.com/ecovekt/backend/internal/integration/persistence/model"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	kv     *kvstore.MemoryStore
	tokens map[string]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.DocumentModel{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	t.Setenv("ENV", "test")
	cfg := config.Load()
	cfg.RateLimit.SubmitMaxAttempts = 3

	kv := kvstore.NewMemoryStore()
	injector := dependency.NewInjector(cfg, db, dependency.Options{
		PendingKV: kv,
		Clock:     fixedClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)},
	})

	s := &testServer{
		t:      t,
		engine: injector.Router.Setup("test"),
		kv:     kv,
		tokens: map[string]string{},
	}
	for _, user := range []string{"alice", "bob"} {
		token, err := injector.TokenService.GenerateAccessToken(context.Background(), user, user+"@example.com")
		require.NoError(t, err)
		s.tokens[user] = token
	}
	return s
}

func (s *testServer) do(user, method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[user])
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("", http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"memory"`)
}

func TestRequiresAuthentication(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("", http.MethodGet, "/api/v1/pending/groups", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPendingFlow(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []map[string]any{
		{"waste_title": "Plast", "weight": 0.3},
		{"waste_title": "Plast", "weight": "0,2"},
		{"waste_title": "Papir", "weight": "1.0"},
	} {
		rec := s.do("alice", http.MethodPost, "/api/v1/pending/entries", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	t.Run("groups", func(t *testing.T) {
		rec := s.do("alice", http.MethodGet, "/api/v1/pending/groups", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		groups := decode[dto.PendingGroupsResponse](t, rec)
		require.Len(t, groups.Groups, 2)
		assert.Equal(t, "no-id__Plast", groups.Groups[0].Key)
		assert.Equal(t, 0.5, groups.Groups[0].TotalKg)
		assert.Equal(t, 2, groups.Groups[0].Count)
		assert.Equal(t, 1.5, groups.TotalKg)
	})

	t.Run("other users see their own list", func(t *testing.T) {
		rec := s.do("bob", http.MethodGet, "/api/v1/pending/groups", nil)
		groups := decode[dto.PendingGroupsResponse](t, rec)
		assert.Empty(t, groups.Groups)
	})

	t.Run("last entry", func(t *testing.T) {
		rec := s.do("alice", http.MethodGet, "/api/v1/pending/last", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		last := decode[dto.LastEntryResponse](t, rec)
		assert.Equal(t, "Papir", last.WasteTitle)
		assert.Equal(t, 1.0, last.Weight)

		rec = s.do("bob", http.MethodGet, "/api/v1/pending/last", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("submit writes one document per group", func(t *testing.T) {
		rec := s.do("alice", http.MethodPost, "/api/v1/pending/submit", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		submitted := decode[dto.SubmitResponse](t, rec)
		assert.Equal(t, 2, submitted.Submitted)

		rec = s.do("alice", http.MethodGet, "/api/v1/collections/waste/documents?field=userId&value=alice", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		docs := decode[dto.DocumentListResponse](t, rec)
		require.Len(t, docs.Documents, 2)
		assert.Equal(t, "Plast", docs.Documents[0].Fields["wasteTitle"])
		assert.Equal(t, 0.5, docs.Documents[0].Fields["amountKg"])
		assert.Equal(t, "2025-06-01T08:00:00.000Z", docs.Documents[0].Fields["timestamp"])

		rec = s.do("alice", http.MethodGet, "/api/v1/pending/groups", nil)
		assert.Empty(t, decode[dto.PendingGroupsResponse](t, rec).Groups)
	})

	t.Run("statistics", func(t *testing.T) {
		rec := s.do("alice", http.MethodGet, "/api/v1/me/statistics", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		stats := decode[dto.StatisticsResponse](t, rec)
		assert.Equal(t, 1.5, stats.TotalKg)
		require.NotNil(t, stats.Highlight)
		assert.Equal(t, "Plast", stats.Highlight.Title)
	})
}

func TestAppendValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		code domainerror.ValidationErrorCode
	}{
		{name: "missing category", body: map[string]any{"weight": 1}, code: domainerror.ErrCodeMissingCategory},
		{name: "empty weight", body: map[string]any{"waste_title": "Plast", "weight": ""}, code: domainerror.ErrCodeEmptyInput},
		{name: "not a number", body: map[string]any{"waste_title": "Plast", "weight": "abc"}, code: domainerror.ErrCodeNotANumber},
		{name: "zero", body: map[string]any{"waste_title": "Plast", "weight": 0}, code: domainerror.ErrCodeNonPositive},
		{name: "too large", body: map[string]any{"waste_title": "Plast", "weight": 500.01}, code: domainerror.ErrCodeTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do("alice", http.MethodPost, "/api/v1/pending/entries", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, string(tt.code), decode[dto.ErrorResponse](t, rec).Code)
		})
	}

	assert.Equal(t, 0, s.kv.Len())
}

func TestDeleteGroup(t *testing.T) {
	s := newTestServer(t)
	s.do("alice", http.MethodPost, "/api/v1/pending/entries", map[string]any{"waste_id": "7", "waste_title": "Glass", "weight": 2})
	s.do("alice", http.MethodPost, "/api/v1/pending/entries", map[string]any{"waste_title": "Papir", "weight": 1})

	rec := s.do("alice", http.MethodDelete, "/api/v1/pending/groups/7__Glass", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	groups := decode[dto.PendingGroupsResponse](t, rec)
	require.Len(t, groups.Groups, 1)
	assert.Equal(t, "Papir", groups.Groups[0].WasteTitle)
}

func TestDeleteGroup_KeyInQuery(t *testing.T) {
	s := newTestServer(t)
	rec := s.do("alice", http.MethodPost, "/api/v1/pending/entries", map[string]any{"waste_title": "Glass/Metall", "weight": 2})
	require.Equal(t, http.StatusCreated, rec.Code)
	s.do("alice", http.MethodPost, "/api/v1/pending/entries", map[string]any{"waste_title": "Papir", "weight": 1})

	rec = s.do("alice", http.MethodDelete, "/api/v1/pending/groups?key="+url.QueryEscape("no-id__Glass/Metall"), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	groups := decode[dto.PendingGroupsResponse](t, rec)
	require.Len(t, groups.Groups, 1)
	assert.Equal(t, "Papir", groups.Groups[0].WasteTitle)

	rec = s.do("alice", http.MethodDelete, "/api/v1/pending/groups", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitNothing(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("alice", http.MethodPost, "/api/v1/pending/submit", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(domainerror.ErrCodeNothingToSubmit), decode[dto.SubmissionErrorResponse](t, rec).Code)
}

func TestSubmitRateLimited(t *testing.T) {
	t.Setenv("E2E_MODE", "false")
	s := newTestServer(t)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		codes = append(codes, s.do("alice", http.MethodPost, "/api/v1/pending/submit", nil).Code)
	}

	assert.Equal(t, http.StatusTooManyRequests, codes[3])
	assert.Equal(t, http.StatusUnprocessableEntity, s.do("bob", http.MethodPost, "/api/v1/pending/submit", nil).Code)
}

func TestDocuments(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("alice", http.MethodPost, "/api/v1/collections/trash/documents", dto.AddDocumentRequest{
		Fields: map[string]any{"title": "Plast", "imageUrl": "p.png"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[dto.AddDocumentResponse](t, rec).ID

	rec = s.do("alice", http.MethodGet, "/api/v1/collections/trash/documents/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Plast", decode[dto.DocumentResponse](t, rec).Fields["title"])

	rec = s.do("alice", http.MethodGet, "/api/v1/collections/trash/documents/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do("alice", http.MethodGet, "/api/v1/collections/trash/documents?field=bad-field!&value=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do("alice", http.MethodGet, "/api/v1/waste-categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decode[dto.WasteCategoryListResponse](t, rec)
	require.Len(t, categories.Categories, 1)
	assert.Equal(t, "p.png", entity.StringValue(categories.Categories[0].ImageURL))
}

func TestSelectedWaste(t *testing.T) {
	s := newTestServer(t)

	rec := s.do("alice", http.MethodGet, "/api/v1/me/selected-waste", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[dto.SelectionResponse](t, rec).SelectedWaste)

	rec = s.do("alice", http.MethodPut, "/api/v1/me/selected-waste", dto.UpdateSelectionRequest{
		SelectedWaste: []string{"Plast", " Plast ", "Glass"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Plast", "Glass"}, decode[dto.SelectionResponse](t, rec).SelectedWaste)

	rec = s.do("alice", http.MethodGet, "/api/v1/collections/users/documents/alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[dto.DocumentResponse](t, rec)
	assert.Equal(t, []any{"Plast", "Glass"}, doc.Fields["selectedWaste"])
	assert.Equal(t, "2025-06-01T08:00:00.000Z", doc.Fields["updatedAt"])
}
