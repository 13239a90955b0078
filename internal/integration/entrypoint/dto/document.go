package dto

import (
	"time"

	"github.com/ecovekt/backend/internal/domain/entity"
)

// AddDocumentRequest represents the request body for document creation.
type AddDocumentRequest struct {
	Fields map[string]any `json:"fields" binding:"required"`
}

// SetDocumentRequest represents the request body for writing a document with
// a known id. Merge defaults to true.
type SetDocumentRequest struct {
	Fields map[string]any `json:"fields" binding:"required"`
	Merge  *bool          `json:"merge,omitempty"`
}

// AddDocumentResponse represents the response for document creation.
type AddDocumentResponse struct {
	ID string `json:"id"`
}

// DocumentResponse represents a single document in API responses.
type DocumentResponse struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Fields     map[string]any `json:"fields"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// DocumentListResponse represents the response for listing documents.
type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// ToDocumentResponse converts a domain Document entity to a DocumentResponse DTO.
func ToDocumentResponse(doc *entity.Document) DocumentResponse {
	fields := doc.Fields
	if fields == nil {
		fields = entity.Fields{}
	}
	return DocumentResponse{
		ID:         doc.ID,
		Collection: doc.Collection,
		Fields:     fields,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

// ToDocumentListResponse converts a slice of Document entities to a DocumentListResponse DTO.
func ToDocumentListResponse(docs []*entity.Document) DocumentListResponse {
	documents := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		documents[i] = ToDocumentResponse(d)
	}
	return DocumentListResponse{Documents: documents}
}

// ToEntity converts a DocumentResponse back to a domain Document entity.
func (r DocumentResponse) ToEntity() *entity.Document {
	fields := entity.Fields{}
	for k, v := range r.Fields {
		fields[k] = v
	}
	return &entity.Document{
		ID:         r.ID,
		Collection: r.Collection,
		Fields:     fields,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
