package entity

import (
	"time"

	"github.com/google/uuid"
)

// Well-known remote collections.
const (
	CollectionWaste = "waste"
	CollectionTrash = "trash"
	CollectionUsers = "users"
)

// Fields is the schemaless payload of a document.
type Fields map[string]any

// Document is a record in a named collection of the remote document store.
type Document struct {
	ID         string
	Collection string
	Fields     Fields
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewDocument creates a Document with a generated ID.
func NewDocument(collection string, fields Fields) *Document {
	now := time.Now().UTC()

	return &Document{
		ID:         uuid.NewString(),
		Collection: collection,
		Fields:     fields,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// FieldFilter restricts a collection query to documents whose field equals Value.
type FieldFilter struct {
	Field string
	Value string
}

// Merge copies every key of patch into the document fields, leaving keys
// absent from patch untouched.
func (d *Document) Merge(patch Fields) {
	if d.Fields == nil {
		d.Fields = Fields{}
	}
	for k, v := range patch {
		d.Fields[k] = v
	}
	d.UpdatedAt = time.Now().UTC()
}
