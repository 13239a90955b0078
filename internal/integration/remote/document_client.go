// Package remote implements the document store over the backend's HTTP API,
// for devices that submit pending entries.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ecovekt/backend/internal/application/adapter"
	"github.com/ecovekt/backend/internal/domain/entity"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
	"github.com/ecovekt/backend/internal/integration/entrypoint/dto"
)

const defaultTimeout = 15 * time.Second

// TokenSource returns the bearer token sent with each request.
type TokenSource func() string

// documentClient implements the adapter.DocumentStore interface.
type documentClient struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

// NewDocumentClient creates a client for the API at baseURL, for example
// "https://api.ecovekt.no". A nil httpClient uses a client with a 15s timeout.
func NewDocumentClient(baseURL string, httpClient *http.Client, token TokenSource) adapter.DocumentStore {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &documentClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		token:      token,
	}
}

// AddDocument posts fields to the collection and returns the new document id.
func (c *documentClient) AddDocument(ctx context.Context, collection string, fields entity.Fields) (string, error) {
	var response dto.AddDocumentResponse
	err := c.do(ctx, http.MethodPost, c.documentsPath(collection), nil, dto.AddDocumentRequest{Fields: fields}, &response)
	if err != nil {
		return "", err
	}
	return response.ID, nil
}

// GetDocuments lists the collection, optionally filtered.
func (c *documentClient) GetDocuments(ctx context.Context, collection string, filter *entity.FieldFilter) ([]*entity.Document, error) {
	query := url.Values{}
	if filter != nil {
		query.Set("field", filter.Field)
		query.Set("value", filter.Value)
	}

	var response dto.DocumentListResponse
	if err := c.do(ctx, http.MethodGet, c.documentsPath(collection), query, nil, &response); err != nil {
		return nil, err
	}

	docs := make([]*entity.Document, len(response.Documents))
	for i, d := range response.Documents {
		docs[i] = d.ToEntity()
	}
	return docs, nil
}

// GetDocument fetches one document.
func (c *documentClient) GetDocument(ctx context.Context, collection, id string) (*entity.Document, error) {
	var response dto.DocumentResponse
	if err := c.do(ctx, http.MethodGet, c.documentPath(collection, id), nil, nil, &response); err != nil {
		return nil, err
	}
	return response.ToEntity(), nil
}

// SetDocument writes a document under id.
func (c *documentClient) SetDocument(ctx context.Context, collection, id string, fields entity.Fields, merge bool) (*entity.Document, error) {
	var response dto.DocumentResponse
	body := dto.SetDocumentRequest{Fields: fields, Merge: &merge}
	if err := c.do(ctx, http.MethodPut, c.documentPath(collection, id), nil, body, &response); err != nil {
		return nil, err
	}
	return response.ToEntity(), nil
}

func (c *documentClient) documentsPath(collection string) string {
	return "/api/v1/collections/" + url.PathEscape(collection) + "/documents"
}

func (c *documentClient) documentPath(collection, id string) string {
	return c.documentsPath(collection) + "/" + url.PathEscape(id)
}

// do sends one request and decodes a 2xx JSON body into out. Error bodies
// are mapped back to domain errors by code.
func (c *documentClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainerror.NewDocumentError(
			domainerror.ErrCodeRemoteUnavailable,
			"document service unreachable",
			err,
		)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// StatusError is returned for non-2xx responses that carry no known code.
type StatusError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("document service returned %d: %s", e.StatusCode, e.Message)
}

func responseError(status int, data []byte) error {
	var body dto.ErrorResponse
	_ = json.Unmarshal(data, &body)
	message := body.Error
	if message == "" {
		message = http.StatusText(status)
	}

	switch domainerror.DocumentErrorCode(body.Code) {
	case domainerror.ErrCodeDocumentNotFound:
		return domainerror.NewDocumentError(domainerror.ErrCodeDocumentNotFound, message, domainerror.ErrDocumentNotFound)
	case domainerror.ErrCodeInvalidCollection:
		return domainerror.NewDocumentError(domainerror.ErrCodeInvalidCollection, message, domainerror.ErrInvalidCollection)
	case domainerror.ErrCodeInvalidFilter:
		return domainerror.NewDocumentError(domainerror.ErrCodeInvalidFilter, message, domainerror.ErrInvalidFilter)
	}

	statusErr := &StatusError{StatusCode: status, Message: message}
	switch status {
	case http.StatusUnauthorized:
		if domainerror.AuthErrorCode(body.Code) == domainerror.ErrCodeExpiredToken {
			return errors.Join(domainerror.ErrExpiredToken, statusErr)
		}
		return errors.Join(domainerror.ErrInvalidToken, statusErr)
	case http.StatusNotFound:
		return errors.Join(domainerror.ErrDocumentNotFound, statusErr)
	}
	return statusErr
}
