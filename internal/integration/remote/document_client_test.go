package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecovekt/backend/internal/domain/entity"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
	"github.com/ecovekt/backend/internal/integration/entrypoint/dto"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *documentClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewDocumentClient(server.URL+"/", server.Client(), func() string { return "tok" }).(*documentClient)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestAddDocument(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/collections/waste/documents", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req dto.AddDocumentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Plast", req.Fields["wasteTitle"])
		assert.Nil(t, req.Fields["wasteId"])
		assert.Contains(t, req.Fields, "wasteId")

		writeJSON(w, http.StatusCreated, dto.AddDocumentResponse{ID: "doc-1"})
	})

	id, err := client.AddDocument(context.Background(), "waste", entity.Fields{"wasteTitle": "Plast", "wasteId": nil, "amountKg": 0.5})

	require.NoError(t, err)
	assert.Equal(t, "doc-1", id)
}

func TestGetDocuments_Filter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "userId", r.URL.Query().Get("field"))
		assert.Equal(t, "uid 1", r.URL.Query().Get("value"))
		writeJSON(w, http.StatusOK, dto.DocumentListResponse{Documents: []dto.DocumentResponse{
			{ID: "a", Collection: "waste", Fields: map[string]any{"amountKg": 1.25}},
		}})
	})

	docs, err := client.GetDocuments(context.Background(), "waste", &entity.FieldFilter{Field: "userId", Value: "uid 1"})

	require.NoError(t, err)
	require.Len(t, docs, 1)
	kg, ok := entity.DecodeWeight(docs[0].Fields)
	assert.True(t, ok)
	assert.Equal(t, 1.25, kg)
}

func TestSetDocument(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/collections/users/documents/uid-1", r.URL.Path)

		var req dto.SetDocumentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Merge)
		assert.True(t, *req.Merge)

		writeJSON(w, http.StatusOK, dto.DocumentResponse{
			ID: "uid-1", Collection: "users", Fields: req.Fields, UpdatedAt: time.Now().UTC(),
		})
	})

	doc, err := client.SetDocument(context.Background(), "users", "uid-1", entity.Fields{"selectedWaste": []any{"Plast"}}, true)

	require.NoError(t, err)
	assert.Equal(t, []any{"Plast"}, doc.Fields["selectedWaste"])
}

func TestErrors(t *testing.T) {
	t.Run("not found by code", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "document not found", Code: string(domainerror.ErrCodeDocumentNotFound)})
		})

		_, err := client.GetDocument(context.Background(), "users", "missing")

		assert.ErrorIs(t, err, domainerror.ErrDocumentNotFound)
	})

	t.Run("expired token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "expired", Code: string(domainerror.ErrCodeExpiredToken)})
		})

		_, err := client.AddDocument(context.Background(), "waste", entity.Fields{})

		assert.ErrorIs(t, err, domainerror.ErrExpiredToken)
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.AddDocument(context.Background(), "waste", entity.Fields{})

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewDocumentClient(server.URL, nil, nil)

		_, err := client.AddDocument(context.Background(), "waste", entity.Fields{})

		var docErr *domainerror.DocumentError
		require.True(t, errors.As(err, &docErr))
		assert.Equal(t, domainerror.ErrCodeRemoteUnavailable, docErr.Code)
	})
}
