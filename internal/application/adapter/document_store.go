package adapter

import (
	"context"

	"github.com/ecovekt/backend/internal/domain/entity"
)

// DocumentSink is the write-only view of the remote document store used when
// submitting aggregated groups.
type DocumentSink interface {
	// AddDocument appends a document to collection and returns its id.
	AddDocument(ctx context.Context, collection string, fields entity.Fields) (string, error)
}

// DocumentStore is the remote document-collection capability.
type DocumentStore interface {
	DocumentSink

	// GetDocuments lists a collection, optionally restricted by a field filter.
	GetDocuments(ctx context.Context, collection string, filter *entity.FieldFilter) ([]*entity.Document, error)

	// GetDocument fetches one document by id.
	GetDocument(ctx context.Context, collection, id string) (*entity.Document, error)

	// SetDocument writes a document with a caller-chosen id. With merge, keys
	// absent from fields keep their stored value; without, the document is replaced.
	SetDocument(ctx context.Context, collection, id string, fields entity.Fields, merge bool) (*entity.Document, error)
}
